package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"taskflow-cli/config"
	"taskflow-cli/types"

	"github.com/golang-jwt/jwt/v5"
)

// Event is emitted to subscribers whenever the session changes.
type Event int

const (
	EventLoggedIn Event = iota
	// EventLoggedOut fires on explicit logout and when a 401 tears the session down.
	// UI layers treat it as the signal to send the user back to the login surface.
	EventLoggedOut
)

// Store owns the bearer credential. It is the only writer of the token besides
// Clear, which the request client calls on 401. Everything else just reads.
type Store struct {
	baseURL   string
	tokenPath string
	http      *http.Client

	mu     sync.Mutex
	token  string
	userID string
	subs   []func(Event)
}

// Open loads a previously persisted credential if one exists. Presence of a
// token marks the session authenticated without a server round trip; the first
// 401 downgrades it.
func Open(baseURL, tokenPath string) *Store {
	s := &Store{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokenPath: tokenPath,
		http:      &http.Client{Timeout: 10 * time.Second},
	}

	data, err := os.ReadFile(tokenPath)
	if err != nil {
		if !os.IsNotExist(err) {
			config.Logger.Warn("Failed to read persisted credential:", err)
		}
		return s
	}

	s.token = strings.TrimSpace(string(data))
	if s.token != "" {
		if sub, err := subjectFromToken(s.token); err == nil {
			s.userID = sub
		} else {
			config.Logger.Warn("Persisted credential has no readable subject:", err)
		}
	}
	return s
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Token returns the current credential, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// UserID returns the identity cached at login, falling back to the token's
// subject claim so downstream components never parse the credential themselves.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" && s.token != "" {
		if sub, err := subjectFromToken(s.token); err == nil {
			s.userID = sub
		}
	}
	return s.userID
}

// Subscribe registers fn to be called on every session change. Callbacks run
// synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Login exchanges credentials for a bearer token. Prior session state is left
// untouched on failure.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "/auth/login", email, password)
}

// Signup registers a new account; the backend auto-logs the user in. Password
// confirmation is the caller's job and never reaches the network.
func (s *Store) Signup(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "/auth/register", email, password)
}

func (s *Store) authenticate(ctx context.Context, path, email, password string) error {
	body, err := json.Marshal(types.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr types.APIError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		config.Logger.Warn("Authentication rejected:", resp.Status)
		return &AuthenticationError{Status: resp.StatusCode, Detail: apiErr.Detail}
	}

	var tok types.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("failed to decode token response: %v", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("auth response carried no access token")
	}

	sub, err := subjectFromToken(tok.AccessToken)
	if err != nil {
		config.Logger.Warn("Could not resolve identity from token:", err)
	}

	s.mu.Lock()
	s.token = tok.AccessToken
	s.userID = sub
	subs := append(([]func(Event))(nil), s.subs...)
	s.mu.Unlock()

	if err := s.persist(tok.AccessToken); err != nil {
		config.Logger.Warn("Failed to persist credential:", err)
	}

	for _, fn := range subs {
		fn(EventLoggedIn)
	}
	return nil
}

// Logout clears the credential and signals subscribers to return to the login
// surface.
func (s *Store) Logout() {
	s.Clear()
}

// Clear drops the credential and its persisted copy. The request client calls
// this when any response comes back 401.
func (s *Store) Clear() {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.userID = ""
	subs := append(([]func(Event))(nil), s.subs...)
	s.mu.Unlock()

	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		config.Logger.Warn("Failed to remove persisted credential:", err)
	}

	if !wasAuthenticated {
		return
	}
	for _, fn := range subs {
		fn(EventLoggedOut)
	}
}

func (s *Store) persist(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath, []byte(token), 0o600)
}

// subjectFromToken reads the sub claim without verifying the signature. The
// client holds no signing secret; the server remains the authority.
func subjectFromToken(tokenString string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("invalid JWT format")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid JWT claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing sub in token")
	}
	return sub, nil
}
