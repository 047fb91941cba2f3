// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all routes and the middleware chain. The dashboard and
// billing routes require a valid session; the credential routes do not.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	// Credential routes
	r.Get("/signup", h.GetSignup)
	r.Post("/signup", h.PostSignup)
	r.Get("/login", h.GetLogin)
	r.Post("/login", h.PostLogin)
	r.Post("/logout", h.PostLogout)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	// Session-protected routes
	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)

		r.Get("/dashboard", h.GetDashboard)

		r.Route("/dashboard/invoices", func(r chi.Router) {
			r.Get("/", h.GetInvoices)
			r.Get("/create", h.GetCreateInvoice)
			r.Post("/create", h.PostCreateInvoice)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/edit", h.GetEditInvoice)
				r.Post("/edit", h.PostEditInvoice)
				r.Post("/delete", h.PostDeleteInvoice)
			})
		})

		r.Route("/dashboard/customers", func(r chi.Router) {
			r.Get("/", h.GetCustomers)
			r.Get("/create", h.GetCreateCustomer)
			r.Post("/create", h.PostCreateCustomer)
			r.Post("/{id}/delete", h.PostDeleteCustomer)
		})
	})

	return r
}

// requestLogger logs one line per request with method, path, status, and
// duration.
func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
