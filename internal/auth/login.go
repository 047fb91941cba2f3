// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/ledgerdash/ledgerdash/internal/forms"
)

// dummyPasswordHash is verified against when the submitted email matches no
// user, so response time does not distinguish "no such user" from "wrong
// password". It is a syntactically valid bcrypt hash that matches no
// accepted password; a match against it is still rejected.
//
//nolint:gosec // G101: intentionally fake hash for timing parity, not a credential.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// SessionEstablisher is the session collaborator the authentication workflow
// signals on success. Its failure is opaque to the workflow.
type SessionEstablisher interface {
	// Establish creates a session for the user and returns the plaintext
	// token the caller should hand to the client.
	Establish(ctx context.Context, user *User) (string, error)
}

// AuthService orchestrates the authentication workflow:
// validate, look up, verify, establish session.
type AuthService struct {
	users    UserRepository
	hasher   PasswordHasher
	sessions SessionEstablisher
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserRepository, hasher PasswordHasher, sessions SessionEstablisher, logger *slog.Logger) (*AuthService, error) {
	if users == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("session establisher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, hasher: hasher, sessions: sessions, logger: logger}, nil
}

// Authenticate runs the login workflow over a raw form submission.
//
// On success it returns the authenticated user and the session token.
// Every credential problem — bad syntax, unknown email, wrong password —
// returns ErrInvalidCredentials with identical messaging and near-identical
// timing. Anything else is a storage or session failure for the outer
// boundary to convert into a generic message.
func (s *AuthService) Authenticate(ctx context.Context, v forms.Values) (*User, string, error) {
	creds, fieldErrs := ValidateLogin(v)
	if fieldErrs != nil {
		// Burn a verification anyway so syntactic rejects cost the same
		// as lookup-based ones. creds is nil on this path, so the raw
		// submission is the only password available; empty is fine —
		// bcrypt runs its full derivation regardless.
		s.hasher.Verify(v.Get("password"), dummyPasswordHash)
		return nil, "", ErrInvalidCredentials
	}

	user, lookupErr := s.users.GetByEmail(ctx, creds.Email)
	targetHash := dummyPasswordHash
	userExists := false
	switch {
	case lookupErr == nil:
		targetHash = user.PasswordHash
		userExists = true
	case errors.Is(lookupErr, ErrNotFound):
		// Verify against the dummy hash below.
	default:
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by email").
			Wrap(lookupErr)
	}

	valid := s.hasher.Verify(creds.Password, targetHash)
	if !userExists || !valid {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Establish(ctx, user)
	if err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "establish session").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	s.logger.Info("user authenticated", "user_id", user.ID.String())
	return user, token, nil
}
