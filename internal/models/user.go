package models

// User represents a row in the PostgreSQL users table.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash, never serialize
}

// SignupRequest is the JSON body for POST /signup.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the body returned by POST /login on success.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
