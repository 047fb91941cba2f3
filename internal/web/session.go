// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ledgerdash/ledgerdash/internal/auth"
	"github.com/ledgerdash/ledgerdash/pkg/errutil"
)

// SessionCookieName is the browser cookie carrying the session token.
const SessionCookieName = "ledgerdash_session"

// SessionStore resolves and revokes session tokens.
// Subset of auth.SessionManager.
type SessionStore interface {
	Validate(ctx context.Context, token string) (*auth.Session, error)
	Revoke(ctx context.Context, token string) error
}

// contextKey is a type-safe key for request context values.
type contextKey string

const userIDContextKey = contextKey("user_id")

// UserIDFromContext returns the authenticated user ID injected by the
// session middleware. The zero ULID means the request was not authenticated.
func UserIDFromContext(ctx context.Context) (ulid.ULID, bool) {
	userID, ok := ctx.Value(userIDContextKey).(ulid.ULID)
	return userID, ok
}

// ContextWithUserID injects a user ID into the context. Used by tests.
func ContextWithUserID(ctx context.Context, userID ulid.ULID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// requireSession validates the session cookie and injects the user ID into
// the request context. Unauthenticated requests are redirected to the login
// page.
func (h *Handlers) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
			return
		}

		session, err := h.sessions.Validate(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, auth.ErrNotFound) {
				errutil.LogError(h.logger, "session validation failed", err)
			}
			clearSessionCookie(w)
			http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
			return
		}

		ctx := ContextWithUserID(r.Context(), session.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// setSessionCookie sends the plaintext session token to the browser.
func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
