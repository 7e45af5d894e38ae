package types

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// APIError is the FastAPI-style error envelope the backend returns on failure.
type APIError struct {
	Detail string `json:"detail"`
}
