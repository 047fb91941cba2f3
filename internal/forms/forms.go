// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

// Package forms defines the contract between form-submitting callers and the
// workflows that consume their input.
package forms

import (
	"regexp"
	"strings"
)

// Values is a raw form submission: field name to submitted string.
// Workflows never parse request bodies themselves; callers hand them Values.
type Values map[string]string

// Get returns the named field with surrounding whitespace trimmed.
func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// FieldErrors maps a field name to the ordered list of messages for it.
type FieldErrors map[string][]string

// Add appends a message to the named field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// HasErrors reports whether any field collected at least one message.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// Result is the discriminated outcome of a form workflow. Exactly one of the
// three variants is populated:
//   - FieldErrors: validation failed; re-render the form with every message.
//   - Message: a non-field failure (e.g. duplicate account).
//   - Redirect: success; the caller should navigate to this path.
type Result struct {
	FieldErrors FieldErrors
	Message     string
	Redirect    string
}

// Errors builds a validation-failure Result.
func Errors(fe FieldErrors) Result { return Result{FieldErrors: fe} }

// Fail builds a non-field-failure Result.
func Fail(msg string) Result { return Result{Message: msg} }

// Redirect builds a success Result pointing at the given path.
func Redirect(path string) Result { return Result{Redirect: path} }

// emailRegex matches the practical subset of RFC 5322 addresses the original
// dashboard accepted: local part, one @, dotted domain, no whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}
