// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned by repositories when an insert hits the unique
// index on users.email. The storage constraint, not the advisory pre-check,
// is the authoritative duplicate guard.
var ErrEmailTaken = errors.New("email already registered")

// ErrNoRecord is returned by repositories when an insert reports success but
// affected no row. Surfaced to the user as a generic creation failure.
var ErrNoRecord = errors.New("no record created")

// ErrInvalidCredentials is the single outward-visible login failure. It
// deliberately covers bad syntax, unknown email, and wrong password so the
// caller cannot tell which check failed.
var ErrInvalidCredentials = errors.New("invalid email or password")
