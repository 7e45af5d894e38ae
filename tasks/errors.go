package tasks

import "fmt"

// ValidationError is raised client-side, before any request is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// AuthenticationRequiredError means an authenticated call came back 401.
// The session has already been cleared by the request client.
type AuthenticationRequiredError struct {
	Operation string
}

func (e *AuthenticationRequiredError) Error() string {
	return fmt.Sprintf("authentication required to %s", e.Operation)
}

// TaskOperationError is any non-2xx, non-401 response from the task API.
type TaskOperationError struct {
	Operation  string
	Status     int
	StatusText string
}

func (e *TaskOperationError) Error() string {
	return fmt.Sprintf("failed to %s: %d %s", e.Operation, e.Status, e.StatusText)
}
