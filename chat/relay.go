package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"taskflow-cli/api"
	"taskflow-cli/config"
	"taskflow-cli/types"

	"github.com/google/uuid"
)

// Identity is the slice of the session store the relay needs to address the
// per-user chat endpoint.
type Identity interface {
	UserID() string
}

// Relay forwards user messages to the assistant endpoint and keeps the page's
// append-only transcript. Failed sends stay in the transcript with an inline
// error rather than disappearing.
type Relay struct {
	api     *api.Client
	baseURL string
	session Identity

	mu       sync.Mutex
	messages []types.ChatMessage
}

func NewRelay(apiClient *api.Client, baseURL string, session Identity) *Relay {
	return &Relay{
		api:     apiClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
	}
}

// Messages returns a copy of the transcript in append order.
func (r *Relay) Messages() []types.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.ChatMessage(nil), r.messages...)
}

// Send relays text to the assistant. Blank input is a no-op. The user message
// is appended in pending state before the request goes out; on success it is
// resolved and the assistant's reply appended, on failure it is resolved with
// the error text attached.
func (r *Relay) Send(ctx context.Context, text string) (*types.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	pending := types.ChatMessage{
		ID:        uuid.NewString(),
		Role:      types.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
		Pending:   true,
	}
	r.mu.Lock()
	r.messages = append(r.messages, pending)
	r.mu.Unlock()

	userID := r.session.UserID()
	if userID == "" {
		err := &IdentityResolutionError{}
		r.resolve(pending.ID, err.Error())
		return nil, err
	}

	url := fmt.Sprintf("%s/chat/%s/chat", r.baseURL, userID)
	resp, err := r.api.JSON(ctx, http.MethodPost, url, types.ChatRequest{UserMessage: text})
	if err != nil {
		r.resolve(pending.ID, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr types.APIError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		detail := apiErr.Detail
		if detail == "" {
			detail = "failed to send message"
		}
		err := fmt.Errorf("chat request failed (%d): %s", resp.StatusCode, detail)
		config.Logger.Error("Chat request failed:", err)
		r.resolve(pending.ID, err.Error())
		return nil, err
	}

	var reply types.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		err = fmt.Errorf("failed to decode chat response: %v", err)
		r.resolve(pending.ID, err.Error())
		return nil, err
	}

	r.resolve(pending.ID, "")

	assistant := types.ChatMessage{
		ID:             uuid.NewString(),
		Role:           types.RoleAssistant,
		Content:        reply.AssistantMessage,
		Timestamp:      time.Now(),
		ConversationID: reply.ConversationID,
	}
	r.mu.Lock()
	r.messages = append(r.messages, assistant)
	r.mu.Unlock()

	return &assistant, nil
}

// resolve clears the pending flag on the message with the given id, attaching
// errText when the send failed.
func (r *Relay) resolve(id, errText string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages[i].Pending = false
			r.messages[i].Error = errText
			return
		}
	}
}
