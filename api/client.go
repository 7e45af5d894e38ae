package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"taskflow-cli/config"
)

// RequestTimeout bounds every outbound call, matching the web client's 10s abort.
const RequestTimeout = 10 * time.Second

// Session is the slice of the session store the request client needs: read the
// credential, and tear the session down on 401.
type Session interface {
	Token() string
	Clear()
}

// Client wraps outbound HTTP calls with the bearer credential, a fixed timeout
// and the global 401 handling. Non-2xx statuses are reported through the
// response, never as an error; errors mean the request itself could not run.
type Client struct {
	http    *http.Client
	session Session
}

func New(session Session) *Client {
	return &Client{
		http:    &http.Client{Timeout: RequestTimeout},
		session: session,
	}
}

// Do sends req, filling in Authorization (when a credential exists) and a JSON
// Content-Type unless the caller already set them. A 401 clears the session as
// a side effect and the response is returned unchanged.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Authorization") == "" {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, &TimeoutError{URL: req.URL.String()}
		}
		return nil, &NetworkUnavailableError{URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		config.Logger.Warn("Request returned 401, clearing session:", req.URL.Path)
		c.session.Clear()
	}

	return resp, nil
}

// JSON builds and sends a request with the payload marshalled as the body.
// A nil payload sends no body.
func (c *Client) JSON(ctx context.Context, method, rawURL string, payload any) (*http.Response, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	return c.Do(req)
}
