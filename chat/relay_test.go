package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"taskflow-cli/api"
	"taskflow-cli/types"
)

type fakeSession struct {
	token string
	id    string
}

func (s *fakeSession) Token() string { return s.token }

func (s *fakeSession) Clear() { s.token = "" }

func (s *fakeSession) UserID() string { return s.id }

func (s *fakeSession) IsAuthenticated() bool { return s.token != "" }

func newTestRelay(srvURL string, sess *fakeSession) *Relay {
	return NewRelay(api.New(sess), srvURL, sess)
}

func TestSendBlankIsNoOp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	r := newTestRelay(srv.URL, &fakeSession{token: "tok", id: "u1"})
	for _, text := range []string{"", "   ", "\n\t"} {
		reply, err := r.Send(context.Background(), text)
		if reply != nil || err != nil {
			t.Fatalf("blank input %q must be a no-op, got %v/%v", text, reply, err)
		}
	}
	if len(r.Messages()) != 0 {
		t.Fatal("blank input must not append to the transcript")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("blank input must not hit the network")
	}
}

func TestSendSuccessScenario(t *testing.T) {
	var gotPath string
	var gotBody types.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding chat request: %v", err)
		}
		json.NewEncoder(w).Encode(types.ChatResponse{
			AssistantMessage: "Added!",
			ConversationID:   "c1",
		})
	}))
	defer srv.Close()

	r := newTestRelay(srv.URL, &fakeSession{token: "tok", id: "u1"})
	reply, err := r.Send(context.Background(), "Add a task to buy milk")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotPath != "/chat/u1/chat" {
		t.Fatalf("expected per-user chat path, got %s", gotPath)
	}
	if gotBody.UserMessage != "Add a task to buy milk" {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}

	messages := r.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected user + assistant messages, got %d", len(messages))
	}
	user, assistant := messages[0], messages[1]
	if user.Role != types.RoleUser || user.Pending || user.Error != "" {
		t.Fatalf("user message not resolved cleanly: %+v", user)
	}
	if assistant.Role != types.RoleAssistant || assistant.Content != "Added!" {
		t.Fatalf("unexpected assistant message: %+v", assistant)
	}
	if assistant.ConversationID != "c1" {
		t.Fatalf("expected conversation id c1, got %q", assistant.ConversationID)
	}
	if reply == nil || reply.ID != assistant.ID {
		t.Fatal("Send must return the appended assistant message")
	}
}

func TestSendFailureKeepsAnnotatedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(types.APIError{Detail: "assistant unavailable"})
	}))
	defer srv.Close()

	r := newTestRelay(srv.URL, &fakeSession{token: "tok", id: "u1"})
	if _, err := r.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected send to fail")
	}

	messages := r.Messages()
	if len(messages) != 1 {
		t.Fatalf("failed send must keep the user message, got %d messages", len(messages))
	}
	msg := messages[0]
	if msg.Pending {
		t.Fatal("failed message must be resolved, not left pending")
	}
	if msg.Error == "" {
		t.Fatal("failed message must carry the error text")
	}
	if want := "assistant unavailable"; !strings.Contains(msg.Error, want) {
		t.Fatalf("expected error to carry the backend detail %q, got %q", want, msg.Error)
	}
}

func TestSendWithoutIdentity(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	r := newTestRelay(srv.URL, &fakeSession{token: "tok"})
	_, err := r.Send(context.Background(), "hello")

	var idErr *IdentityResolutionError
	if !errors.As(err, &idErr) {
		t.Fatalf("expected IdentityResolutionError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("identity failure must not hit the network")
	}

	messages := r.Messages()
	if len(messages) != 1 || messages[0].Error == "" || messages[0].Pending {
		t.Fatalf("user message must stay, resolved with an error: %+v", messages)
	}
}

func TestTranscriptIsAppendOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.ChatResponse{AssistantMessage: "ok", ConversationID: "c1"})
	}))
	defer srv.Close()

	r := newTestRelay(srv.URL, &fakeSession{token: "tok", id: "u1"})
	for _, text := range []string{"one", "two", "three"} {
		if _, err := r.Send(context.Background(), text); err != nil {
			t.Fatal(err)
		}
	}

	messages := r.Messages()
	if len(messages) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(messages))
	}
	for i, want := range []string{"one", "ok", "two", "ok", "three", "ok"} {
		if messages[i].Content != want {
			t.Fatalf("message %d: expected %q, got %q", i, want, messages[i].Content)
		}
	}
}
