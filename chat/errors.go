package chat

// IdentityResolutionError means neither the session nor the credential's
// subject claim yielded a user id to address the chat endpoint with.
type IdentityResolutionError struct{}

func (e *IdentityResolutionError) Error() string {
	return "unable to determine user id for chat"
}
