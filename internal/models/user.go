package models

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	PasswordHash []byte `json:"-"`
}

// AuthResult is what a successful login hands back to the client.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
