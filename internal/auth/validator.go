// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package auth

import (
	"unicode"
	"unicode/utf8"

	"github.com/ledgerdash/ledgerdash/internal/forms"
)

// Password length constraints. The minimum counts characters, matching the
// registration form's rules; the maximum counts bytes, which is bcrypt's
// input limit — anything longer must fail validation rather than hashing.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// Validation messages surfaced verbatim to the form.
const (
	msgNameTooShort    = "Name must be at least 2 characters long."
	msgInvalidEmail    = "Please enter a valid email."
	msgPasswordLength  = "Be at least 6 characters long."
	msgPasswordTooLong = "Be at most 72 characters long."
	msgPasswordLetter  = "Contain at least one letter."
	msgPasswordDigit   = "Contain at least one number."
	msgPasswordSpecial = "Contain at least one special character."
	msgConfirmMismatch = "Confirm Password doesn't match Password!"
)

// Registration is a validated registration submission.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Credentials is a validated login submission.
type Credentials struct {
	Email    string
	Password string
}

// ValidateRegistration checks a raw submission against the registration
// rules. All failures are collected and returned together so the caller can
// render every problem at once; the returned map is nil when the submission
// is valid. Pure function, no I/O.
func ValidateRegistration(v forms.Values) (*Registration, forms.FieldErrors) {
	fe := forms.FieldErrors{}

	name := v.Get("name")
	if utf8.RuneCountInString(name) < MinNameLength {
		fe.Add("name", msgNameTooShort)
	}

	email := v.Get("email")
	if !forms.ValidEmail(email) {
		fe.Add("email", msgInvalidEmail)
	}

	password := v.Get("password")
	for _, msg := range passwordStrengthErrors(password) {
		fe.Add("password", msg)
	}

	confirm := v.Get("confirmPassword")
	for _, msg := range passwordStrengthErrors(confirm) {
		fe.Add("confirmPassword", msg)
	}
	// Mismatch attaches to its own field so the password field's errors
	// are not overwritten.
	if password != confirm {
		fe.Add("confirm", msgConfirmMismatch)
	}

	if fe.HasErrors() {
		return nil, fe
	}
	return &Registration{Name: name, Email: email, Password: password}, nil
}

// ValidateLogin checks a raw login submission. The password only gets a
// minimum-length check: login must accept any password that could have been
// accepted at registration time, including legacy minimum-length-only values.
func ValidateLogin(v forms.Values) (*Credentials, forms.FieldErrors) {
	fe := forms.FieldErrors{}

	email := v.Get("email")
	if !forms.ValidEmail(email) {
		fe.Add("email", msgInvalidEmail)
	}

	password := v.Get("password")
	if utf8.RuneCountInString(password) < MinPasswordLength {
		fe.Add("password", msgPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		fe.Add("password", msgPasswordTooLong)
	}

	if fe.HasErrors() {
		return nil, fe
	}
	return &Credentials{Email: email, Password: password}, nil
}

// passwordStrengthErrors returns every strength rule the password violates.
// A password is accepted iff it is 6 to 72 characters and contains at least
// one letter, one digit, and one character that is neither. Lengths count
// runes except the maximum, which is bcrypt's 72-byte input limit.
func passwordStrengthErrors(password string) []string {
	var msgs []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		msgs = append(msgs, msgPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		msgs = append(msgs, msgPasswordTooLong)
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasLetter {
		msgs = append(msgs, msgPasswordLetter)
	}
	if !hasDigit {
		msgs = append(msgs, msgPasswordDigit)
	}
	if !hasSpecial {
		msgs = append(msgs, msgPasswordSpecial)
	}
	return msgs
}
