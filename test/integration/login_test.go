// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

//go:build integration

package integration_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/ledgerdash/ledgerdash/internal/auth"
	"github.com/ledgerdash/ledgerdash/internal/forms"
)

func loginValues(email, password string) forms.Values {
	return forms.Values{"email": email, "password": password}
}

var _ = Describe("Login", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupTables(ctx, env.pool)

		result, err := env.Registration.Register(ctx, signupValues("Alice", "alice@example.com", "abc123!"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Redirect).To(Equal("/login"))
	})

	It("authenticates correct credentials and establishes a session", func() {
		user, token, err := env.Auth.Authenticate(ctx, loginValues("alice@example.com", "abc123!"))
		Expect(err).NotTo(HaveOccurred())
		Expect(user.Email).To(Equal("alice@example.com"))
		Expect(token).NotTo(BeEmpty())

		session, err := env.SessionMgr.Validate(ctx, token)
		Expect(err).NotTo(HaveOccurred())
		Expect(session.UserID).To(Equal(user.ID))
		Expect(session.ExpiresAt).To(BeTemporally(">", time.Now()))
	})

	It("stores only the token hash, never the plaintext token", func() {
		_, token, err := env.Auth.Authenticate(ctx, loginValues("alice@example.com", "abc123!"))
		Expect(err).NotTo(HaveOccurred())

		var count int
		Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sessions WHERE token_hash = $1", token).Scan(&count)).To(Succeed())
		Expect(count).To(BeZero())

		Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sessions WHERE token_hash = $1",
			auth.HashSessionToken(token)).Scan(&count)).To(Succeed())
		Expect(count).To(Equal(1))
	})

	It("reports every credential failure identically", func() {
		failures := []forms.Values{
			loginValues("alice@example.com", "wrong-password"),
			loginValues("nobody@example.com", "abc123!"),
			loginValues("not-an-email", "abc123!"),
			loginValues("alice@example.com", ""),
		}

		messages := make(map[string]struct{})
		for _, values := range failures {
			user, token, err := env.Auth.Authenticate(ctx, values)
			Expect(user).To(BeNil())
			Expect(token).To(BeEmpty())
			Expect(errors.Is(err, auth.ErrInvalidCredentials)).To(BeTrue())
			messages[err.Error()] = struct{}{}
		}
		// One distinct error string across all failure modes.
		Expect(messages).To(HaveLen(1))

		var count int
		Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count)).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("revokes a session so the token stops validating", func() {
		_, token, err := env.Auth.Authenticate(ctx, loginValues("alice@example.com", "abc123!"))
		Expect(err).NotTo(HaveOccurred())

		Expect(env.SessionMgr.Revoke(ctx, token)).To(Succeed())

		_, err = env.SessionMgr.Validate(ctx, token)
		Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())

		// Revoking again is a no-op.
		Expect(env.SessionMgr.Revoke(ctx, token)).To(Succeed())
	})

	It("purges expired sessions with DeleteExpired", func() {
		user, err := env.Users.GetByEmail(ctx, "alice@example.com")
		Expect(err).NotTo(HaveOccurred())

		_, hash, err := auth.GenerateSessionToken()
		Expect(err).NotTo(HaveOccurred())
		expired, err := auth.NewSession(user.ID, hash, "", "", time.Now().Add(-time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Sessions.Create(ctx, expired)).To(Succeed())

		_, liveToken, err := env.Auth.Authenticate(ctx, loginValues("alice@example.com", "abc123!"))
		Expect(err).NotTo(HaveOccurred())

		removed, err := env.Sessions.DeleteExpired(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(Equal(int64(1)))

		_, err = env.SessionMgr.Validate(ctx, liveToken)
		Expect(err).NotTo(HaveOccurred())
	})
})
