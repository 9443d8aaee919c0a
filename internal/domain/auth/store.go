package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (username, password_hash)
    VALUES ($1,$2)
    RETURNING id, username, created_at
  `, username, passwordHash).Scan(&out.ID, &out.Username, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrUsernameTaken
		}
		return User{}, errors.Wrap(err, "insert user")
	}
	return out, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, password_hash, created_at, last_login
    FROM users
    WHERE username = $1
  `, username).Scan(&out.ID, &out.Username, &out.PasswordHash, &out.CreatedAt, &out.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return AuthUser{}, ErrUserNotFound
	}
	if err != nil {
		return AuthUser{}, errors.Wrap(err, "find user by username")
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, created_at, last_login
    FROM users
    WHERE id = $1
  `, userID).Scan(&out.ID, &out.Username, &out.CreatedAt, &out.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, errors.Wrap(err, "get user")
	}
	return out, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = $1 WHERE id = $2", at, userID)
	return errors.Wrap(err, "update last_login")
}

func (s *Store) CreateSession(ctx context.Context, userID, sessionHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (user_id, session_hash, expires_at)
    VALUES ($1,$2,$3)
  `, userID, sessionHash, expires)
	return errors.Wrap(err, "insert session")
}

func (s *Store) SessionValid(ctx context.Context, userID, sessionHash string, at time.Time) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM sessions
    WHERE user_id = $1 AND session_hash = $2 AND expires_at > $3 AND revoked_at IS NULL
  `, userID, sessionHash, at).Scan(&count); err != nil {
		return false, errors.Wrap(err, "check session")
	}
	return count > 0, nil
}

func (s *Store) RevokeSession(ctx context.Context, userID, sessionHash string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE sessions SET revoked_at = now()
    WHERE user_id = $1 AND session_hash = $2 AND revoked_at IS NULL
  `, userID, sessionHash)
	return errors.Wrap(err, "revoke session")
}

func (s *Store) PruneSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM sessions
    WHERE expires_at <= $1 OR revoked_at IS NOT NULL
  `, before)
	if err != nil {
		return 0, errors.Wrap(err, "prune sessions")
	}
	return tag.RowsAffected(), nil
}
