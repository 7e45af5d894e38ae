package session

import "fmt"

// AuthenticationError means the auth service rejected a login or signup.
type AuthenticationError struct {
	Status int
	Detail string
}

func (e *AuthenticationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("authentication failed (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("authentication failed with status %d", e.Status)
}
