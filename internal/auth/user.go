// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package auth

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MinNameLength is the minimum display-name length after trimming.
const MinNameLength = 2

// User represents one registered account. The password field always holds a
// hash, never the plaintext, from the moment the record is persisted.
type User struct {
	ID           ulid.ULID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a validated User with a fresh ID. The caller is expected to
// have run the credential validator already; this guards the repository
// invariants, not the form rules.
func NewUser(name, email, passwordHash string) (*User, error) {
	if utf8.RuneCountInString(name) < MinNameLength {
		return nil, oops.Code("USER_INVALID_NAME").
			With("min", MinNameLength).
			Errorf("name must be at least %d characters", MinNameLength)
	}
	if email == "" {
		return nil, oops.Code("USER_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &User{
		ID:           ulid.Make(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns an error wrapping ErrEmailTaken when
	// the email unique constraint is violated.
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by exact email match. Returns an error
	// wrapping ErrNotFound when no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)
}
