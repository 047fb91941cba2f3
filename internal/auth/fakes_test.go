// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ledgerdash/ledgerdash/internal/auth"
)

// fakeUserRepo is an in-memory UserRepository keyed by email.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User

	createErr error
	lookupErr error

	createCalls int
	lookupCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*auth.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return auth.ErrEmailTaken
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookupCalls++
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	user, ok := r.users[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, auth.ErrNotFound
}

// fakeHasher marks hashes with a prefix instead of doing real key derivation.
// verifyCalls counts every Verify so tests can assert timing parity.
type fakeHasher struct {
	hashErr     error
	verifyCalls int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(password, hash string) bool {
	h.verifyCalls++
	return hash == "hashed:"+password
}

// fakeSessionEstablisher returns a fixed token and records the user.
type fakeSessionEstablisher struct {
	token          string
	err            error
	establishedFor *auth.User
}

func (s *fakeSessionEstablisher) Establish(_ context.Context, user *auth.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.establishedFor = user
	return s.token, nil
}

// fakeSessionRepo is an in-memory SessionRepository keyed by token hash.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session

	createErr error
	getErr    error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*auth.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.sessions[session.TokenHash] = session
	return nil
}

func (r *fakeSessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) UpdateLastSeen(_ context.Context, id ulid.ULID, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		if session.ID == id {
			session.LastSeenAt = lastSeen
			return nil
		}
	}
	return auth.ErrNotFound
}

func (r *fakeSessionRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, session := range r.sessions {
		if session.ID == id {
			delete(r.sessions, hash)
			return nil
		}
	}
	return auth.ErrNotFound
}

func (r *fakeSessionRepo) DeleteByUser(_ context.Context, userID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for hash, session := range r.sessions {
		if session.IsExpired() {
			delete(r.sessions, hash)
			removed++
		}
	}
	return removed, nil
}
