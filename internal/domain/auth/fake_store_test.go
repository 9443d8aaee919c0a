package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type fakeSession struct {
	userID  string
	expires time.Time
	revoked bool
}

type fakeStore struct {
	mu       sync.Mutex
	users    map[string]AuthUser
	sessions map[string]*fakeSession
	nextID   int
	failFind error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]AuthUser{}, sessions: map[string]*fakeSession{}}
}

func (f *fakeStore) CreateUser(_ context.Context, username, passwordHash string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return User{}, ErrUsernameTaken
		}
	}
	f.nextID++
	user := User{ID: fmt.Sprintf("user-%d", f.nextID), Username: username, CreatedAt: time.Unix(0, 0).UTC()}
	f.users[user.ID] = AuthUser{User: user, PasswordHash: passwordHash}
	return user, nil
}

func (f *fakeStore) FindUserByUsername(_ context.Context, username string) (AuthUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFind != nil {
		return AuthUser{}, f.failFind
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return AuthUser{}, ErrUserNotFound
}

func (f *fakeStore) GetUser(_ context.Context, userID string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u.User, nil
}

func (f *fakeStore) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.LastLogin = &at
	f.users[userID] = u
	return nil
}

func (f *fakeStore) CreateSession(_ context.Context, userID, sessionHash string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sessionHash] = &fakeSession{userID: userID, expires: expires}
	return nil
}

func (f *fakeStore) SessionValid(_ context.Context, userID, sessionHash string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionHash]
	return ok && s.userID == userID && !s.revoked && s.expires.After(at), nil
}

func (f *fakeStore) RevokeSession(_ context.Context, userID, sessionHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[sessionHash]; ok && s.userID == userID {
		s.revoked = true
	}
	return nil
}

func (f *fakeStore) PruneSessions(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for hash, s := range f.sessions {
		if s.revoked || !s.expires.After(before) {
			delete(f.sessions, hash)
			removed++
		}
	}
	return removed, nil
}
