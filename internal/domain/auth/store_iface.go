package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	FindUserByUsername(ctx context.Context, username string) (AuthUser, error)
	GetUser(ctx context.Context, userID string) (User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	CreateSession(ctx context.Context, userID, sessionHash string, expires time.Time) error
	SessionValid(ctx context.Context, userID, sessionHash string, at time.Time) (bool, error)
	RevokeSession(ctx context.Context, userID, sessionHash string) error
	PruneSessions(ctx context.Context, before time.Time) (int64, error)
}
