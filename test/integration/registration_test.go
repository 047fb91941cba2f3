// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

//go:build integration

package integration_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerdash/ledgerdash/internal/forms"
)

func signupValues(name, email, password string) forms.Values {
	return forms.Values{
		"name":            name,
		"email":           email,
		"password":        password,
		"confirmPassword": password,
	}
}

var _ = Describe("Registration", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupTables(ctx, env.pool)
	})

	It("persists the user with a bcrypt hash, never the plaintext", func() {
		result, err := env.Registration.Register(ctx, signupValues("Alice", "alice@example.com", "abc123!"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Redirect).To(Equal("/login"))

		user, err := env.Users.GetByEmail(ctx, "alice@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(user.Name).To(Equal("Alice"))
		Expect(user.PasswordHash).NotTo(ContainSubstring("abc123!"))
		Expect(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("abc123!"))).To(Succeed())
	})

	It("rejects a duplicate email with the generic message", func() {
		_, err := env.Registration.Register(ctx, signupValues("Alice", "alice@example.com", "abc123!"))
		Expect(err).NotTo(HaveOccurred())

		result, err := env.Registration.Register(ctx, signupValues("Other Alice", "alice@example.com", "xyz789!"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Redirect).To(BeEmpty())
		Expect(result.Message).To(Equal("User already exists with this email."))

		var count int
		Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)).To(Succeed())
		Expect(count).To(Equal(1))
	})

	It("treats email comparison case-sensitively at the index and stores the form value", func() {
		result, err := env.Registration.Register(ctx, signupValues("Alice", "Alice@Example.com", "abc123!"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Redirect).To(Equal("/login"))

		_, err = env.Users.GetByEmail(ctx, "Alice@Example.com")
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns field errors without touching the database", func() {
		result, err := env.Registration.Register(ctx, forms.Values{
			"name":            "A",
			"email":           "not-an-email",
			"password":        "short",
			"confirmPassword": "different",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Redirect).To(BeEmpty())
		Expect(result.FieldErrors.HasErrors()).To(BeTrue())

		var count int
		Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("lets exactly one of two concurrent registrations for the same email win", func() {
		const attempts = 2
		results := make([]forms.Result, attempts)
		errs := make([]error, attempts)

		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				results[i], errs[i] = env.Registration.Register(ctx, signupValues("Racer", "racer@example.com", "abc123!"))
			}()
		}
		wg.Wait()

		redirects := 0
		for i := range attempts {
			Expect(errs[i]).NotTo(HaveOccurred())
			if results[i].Redirect != "" {
				redirects++
			} else {
				Expect(results[i].Message).To(Equal("User already exists with this email."))
			}
		}
		Expect(redirects).To(Equal(1))

		var count int
		Expect(env.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)).To(Succeed())
		Expect(count).To(Equal(1))
	})
})
