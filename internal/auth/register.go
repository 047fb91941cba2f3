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

// LoginPath is the redirect target after successful registration.
const LoginPath = "/login"

// User-facing messages for non-field registration failures.
const (
	msgDuplicateAccount = "User already exists with this email."
	msgCreationFailed   = "An error occurred while creating your account."
)

// RegistrationService orchestrates the registration workflow:
// validate, duplicate-check, hash, persist.
type RegistrationService struct {
	users  UserRepository
	hasher PasswordHasher
	logger *slog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(users UserRepository, hasher PasswordHasher, logger *slog.Logger) (*RegistrationService, error) {
	if users == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{users: users, hasher: hasher, logger: logger}, nil
}

// Register runs the registration workflow over a raw form submission.
//
// The returned Result carries exactly one of: field errors (validation
// failure, no I/O performed), a message (duplicate account or lost insert),
// or the login redirect on success. A non-nil error means storage or hashing
// failed unexpectedly; the caller converts it to a generic failure and the
// raw detail stays in the logs.
func (s *RegistrationService) Register(ctx context.Context, v forms.Values) (forms.Result, error) {
	reg, fieldErrs := ValidateRegistration(v)
	if fieldErrs != nil {
		return forms.Errors(fieldErrs), nil
	}

	// Advisory duplicate check. The unique index on users.email remains the
	// authoritative guard: two concurrent registrations can both pass this
	// lookup before either inserts.
	_, err := s.users.GetByEmail(ctx, reg.Email)
	if err == nil {
		return forms.Fail(msgDuplicateAccount), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return forms.Result{}, oops.Code("REGISTER_LOOKUP_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return forms.Result{}, oops.Code("REGISTER_HASH_FAILED").Wrap(err)
	}

	user, err := NewUser(reg.Name, reg.Email, hash)
	if err != nil {
		return forms.Result{}, oops.Code("REGISTER_CREATE_FAILED").Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The race the advisory check could miss: surface the same
		// duplicate outcome.
		if errors.Is(err, ErrEmailTaken) {
			s.logger.Info("registration lost duplicate race", "email_taken", true)
			return forms.Fail(msgDuplicateAccount), nil
		}
		if errors.Is(err, ErrNoRecord) {
			s.logger.Warn("insert reported success but created no record")
			return forms.Fail(msgCreationFailed), nil
		}
		return forms.Result{}, oops.Code("REGISTER_INSERT_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String())
	return forms.Redirect(LoginPath), nil
}
