// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdash/ledgerdash/internal/auth"
	"github.com/ledgerdash/ledgerdash/internal/forms"
	"github.com/ledgerdash/ledgerdash/pkg/errutil"
)

// registeredUser seeds the repo with one account and returns it.
func registeredUser(t *testing.T, repo *fakeUserRepo) *auth.User {
	t.Helper()
	user, err := auth.NewUser("Al", "al@x.com", "hashed:abc123!")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestNewAuthService_NilDependencies(t *testing.T) {
	tests := []struct {
		name        string
		users       auth.UserRepository
		hasher      auth.PasswordHasher
		sessions    auth.SessionEstablisher
		expectError string
	}{
		{"nil users repository", nil, &fakeHasher{}, &fakeSessionEstablisher{}, "users repository is required"},
		{"nil password hasher", newFakeUserRepo(), nil, &fakeSessionEstablisher{}, "password hasher is required"},
		{"nil session establisher", newFakeUserRepo(), &fakeHasher{}, nil, "session establisher is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewAuthService(tt.users, tt.hasher, tt.sessions, nil)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestAuthenticate_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	user := registeredUser(t, repo)
	establisher := &fakeSessionEstablisher{token: "session-token"}
	svc, err := auth.NewAuthService(repo, &fakeHasher{}, establisher, nil)
	require.NoError(t, err)

	got, token, err := svc.Authenticate(ctx, forms.Values{
		"email":    "al@x.com",
		"password": "abc123!",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "session-token", token)
	assert.Equal(t, user.ID, establisher.establishedFor.ID)
}

func TestAuthenticate_AllCredentialFailuresLookIdentical(t *testing.T) {
	// Bad syntax, unknown email, and wrong password must all produce the
	// same error with no way to tell which check failed.
	ctx := context.Background()

	tests := []struct {
		name   string
		values forms.Values
	}{
		{"syntactically invalid email", forms.Values{"email": "nope", "password": "abc123!"}},
		{"too-short password", forms.Values{"email": "al@x.com", "password": "abc"}},
		{"unknown email", forms.Values{"email": "ghost@x.com", "password": "abc123!"}},
		{"wrong password", forms.Values{"email": "al@x.com", "password": "wrong123!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			registeredUser(t, repo)
			svc, err := auth.NewAuthService(repo, &fakeHasher{}, &fakeSessionEstablisher{}, nil)
			require.NoError(t, err)

			user, token, err := svc.Authenticate(ctx, tt.values)
			assert.Nil(t, user)
			assert.Empty(t, token)
			assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
			assert.Equal(t, auth.ErrInvalidCredentials.Error(), err.Error())
		})
	}
}

func TestAuthenticate_TimingParity(t *testing.T) {
	// Every failure path, including syntactic rejects and unknown emails,
	// must burn exactly one hash verification.
	ctx := context.Background()

	tests := []struct {
		name   string
		values forms.Values
	}{
		{"syntactically invalid email", forms.Values{"email": "nope", "password": "abc123!"}},
		{"unknown email", forms.Values{"email": "ghost@x.com", "password": "abc123!"}},
		{"wrong password", forms.Values{"email": "al@x.com", "password": "wrong123!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			registeredUser(t, repo)
			hasher := &fakeHasher{}
			svc, err := auth.NewAuthService(repo, hasher, &fakeSessionEstablisher{}, nil)
			require.NoError(t, err)

			_, _, err = svc.Authenticate(ctx, tt.values)
			require.Error(t, err)
			assert.Equal(t, 1, hasher.verifyCalls)
		})
	}
}

func TestAuthenticate_LookupFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	repo.lookupErr = errors.New("connection refused")
	svc, err := auth.NewAuthService(repo, &fakeHasher{}, &fakeSessionEstablisher{}, nil)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, forms.Values{
		"email":    "al@x.com",
		"password": "abc123!",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, auth.ErrInvalidCredentials))
	errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
}

func TestAuthenticate_SessionFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	registeredUser(t, repo)
	establisher := &fakeSessionEstablisher{err: errors.New("session store down")}
	svc, err := auth.NewAuthService(repo, &fakeHasher{}, establisher, nil)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, forms.Values{
		"email":    "al@x.com",
		"password": "abc123!",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, auth.ErrInvalidCredentials))
	errutil.AssertErrorCode(t, err, "AUTH_SESSION_CREATE_FAILED")
}

func TestAuthenticate_NoSessionOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	registeredUser(t, repo)
	establisher := &fakeSessionEstablisher{token: "session-token"}
	svc, err := auth.NewAuthService(repo, &fakeHasher{}, establisher, nil)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, forms.Values{
		"email":    "al@x.com",
		"password": "wrong123!",
	})
	require.Error(t, err)
	assert.Nil(t, establisher.establishedFor)
}
