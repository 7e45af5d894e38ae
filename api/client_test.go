package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeSession struct {
	token   string
	cleared bool
}

func (s *fakeSession) Token() string { return s.token }

func (s *fakeSession) Clear() {
	s.token = ""
	s.cleared = true
}

func TestDoAttachesBearerWhenCredentialExists(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	c := New(&fakeSession{token: "tok123"})
	resp, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected Bearer tok123, got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected default JSON content type, got %q", gotContentType)
	}
}

func TestDoOmitsAuthorizationWithoutCredential(t *testing.T) {
	var gotAuth string
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
	}))
	defer srv.Close()

	c := New(&fakeSession{})
	resp, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if present || gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestDoKeepsCallerContentType(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	c := New(&fakeSession{})
	req, err := http.NewRequest(http.MethodPost, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got != "text/plain" {
		t.Fatalf("caller content type was overridden: %q", got)
	}
}

func TestUnauthorizedClearsSessionAndReturnsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := &fakeSession{token: "stale"}
	c := New(sess)

	resp, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("401 must not be reported as an error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected the 401 response unchanged, got %d", resp.StatusCode)
	}
	if !sess.cleared {
		t.Fatal("401 must clear the session")
	}
	if sess.Token() != "" {
		t.Fatal("no authenticated session may remain after a 401")
	}
}

func TestNonOKStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(&fakeSession{})
	resp, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("non-2xx must be signaled via the response: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestTimeoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := &Client{
		http:    &http.Client{Timeout: 20 * time.Millisecond},
		session: &fakeSession{},
	}

	_, err := c.JSON(context.Background(), http.MethodGet, srv.URL, nil)
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestNetworkUnavailableError(t *testing.T) {
	c := New(&fakeSession{})

	// Port 1 is essentially never listening.
	_, err := c.JSON(context.Background(), http.MethodGet, "http://127.0.0.1:1/tasks", nil)
	var netErr *NetworkUnavailableError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkUnavailableError, got %v", err)
	}
}
