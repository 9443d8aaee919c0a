package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Service struct {
	Store       StoreAPI
	Secret      string
	TokenTTL    time.Duration
	AllowSignup bool
	now         func() time.Time
}

func NewService(store StoreAPI, secret string, tokenTTL time.Duration, allowSignup bool) *Service {
	return &Service{
		Store:       store,
		Secret:      secret,
		TokenTTL:    tokenTTL,
		AllowSignup: allowSignup,
		now:         time.Now,
	}
}

func (s *Service) SignupAllowed() bool {
	return s.AllowSignup
}

func (s *Service) Signup(ctx context.Context, username, password string) (User, error) {
	if !s.AllowSignup {
		return User{}, ErrSignupDisabled
	}
	if UsernameIssue(username) != "" {
		return User{}, ErrInvalidUsername
	}
	if PasswordIssue(password) != "" {
		return User{}, ErrWeakPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, errors.Wrap(err, "hash password")
	}
	return s.Store.CreateUser(ctx, NormalizeUsername(username), hash)
}

// Login checks credentials, opens a session and returns a signed token bound to it.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	found, err := s.Store.FindUserByUsername(ctx, NormalizeUsername(username))
	if errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(found.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	issued := s.now()
	expires := issued.Add(s.TokenTTL)
	sessionID := NewSessionID()
	if err := s.Store.CreateSession(ctx, found.ID, HashToken(sessionID), expires); err != nil {
		return LoginResult{}, err
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:    found.ID,
		Username:  found.Username,
		SessionID: sessionID,
	}, issued, s.TokenTTL)
	if err != nil {
		return LoginResult{}, errors.Wrap(err, "sign token")
	}

	user := found.User
	if err := s.Store.UpdateLastLogin(ctx, found.ID, issued); err == nil {
		user.LastLogin = &issued
	}
	return LoginResult{Token: token, ExpiresAt: expires, User: user}, nil
}

// Authenticate resolves a bearer token to its caller, rejecting tokens whose session is gone.
func (s *Service) Authenticate(ctx context.Context, token string) (UserContext, error) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return UserContext{}, ErrSessionInvalid
	}
	if claims.SessionID == "" {
		return UserContext{}, ErrSessionInvalid
	}
	ok, err := s.Store.SessionValid(ctx, claims.UserID, HashToken(claims.SessionID), s.now())
	if err != nil {
		return UserContext{}, err
	}
	if !ok {
		return UserContext{}, ErrSessionInvalid
	}
	return UserContext{UserID: claims.UserID, Username: claims.Username, SessionID: claims.SessionID}, nil
}

func (s *Service) Logout(ctx context.Context, user UserContext) error {
	if user.SessionID == "" {
		return nil
	}
	return s.Store.RevokeSession(ctx, user.UserID, HashToken(user.SessionID))
}

func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.Store.GetUser(ctx, userID)
}

func (s *Service) PruneSessions(ctx context.Context, before time.Time) (int64, error) {
	return s.Store.PruneSessions(ctx, before)
}
