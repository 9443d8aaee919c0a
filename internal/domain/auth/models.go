package auth

import "time"

type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// AuthUser is a user row together with its password hash.
type AuthUser struct {
	User
	PasswordHash string
}

// UserContext identifies the caller of an authenticated request.
type UserContext struct {
	UserID    string
	Username  string
	SessionID string
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}
