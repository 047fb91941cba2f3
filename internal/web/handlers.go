// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

// Package web serves the server-rendered HTML surface: credential forms,
// the dashboard, and the invoice and customer workflows.
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/ledgerdash/ledgerdash/internal/auth"
	"github.com/ledgerdash/ledgerdash/internal/billing"
	"github.com/ledgerdash/ledgerdash/internal/forms"
	"github.com/ledgerdash/ledgerdash/internal/observability"
	"github.com/ledgerdash/ledgerdash/pkg/errutil"
)

const msgInvalidCredentials = "Invalid credentials."

// Registrar creates accounts from signup submissions.
// Subset of auth.RegistrationService.
type Registrar interface {
	Register(ctx context.Context, v forms.Values) (forms.Result, error)
}

// Authenticator verifies credentials and establishes sessions.
// Subset of auth.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, v forms.Values) (*auth.User, string, error)
}

// Biller drives the invoice and customer workflows.
// Subset of billing.Service.
type Biller interface {
	CreateInvoice(ctx context.Context, v forms.Values) (forms.Result, error)
	UpdateInvoice(ctx context.Context, id ulid.ULID, v forms.Values) (forms.Result, error)
	DeleteInvoice(ctx context.Context, id ulid.ULID) error
	GetInvoice(ctx context.Context, id ulid.ULID) (*billing.Invoice, error)
	CreateCustomer(ctx context.Context, v forms.Values) (forms.Result, error)
	DeleteCustomer(ctx context.Context, id ulid.ULID) error
	ListInvoices(ctx context.Context) ([]*billing.Invoice, error)
	ListCustomers(ctx context.Context) ([]*billing.Customer, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	registrar  Registrar
	authn      Authenticator
	sessions   SessionStore
	billing    Biller
	metrics    *observability.Metrics
	sessionTTL time.Duration
	logger     *slog.Logger
	pages      map[string]*template.Template
}

// NewHandlers creates the web handlers. metrics may be nil.
func NewHandlers(registrar Registrar, authn Authenticator, sessions SessionStore, biller Biller, metrics *observability.Metrics, sessionTTL time.Duration, logger *slog.Logger) (*Handlers, error) {
	if registrar == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("registrar is required")
	}
	if authn == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("authenticator is required")
	}
	if sessions == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("session store is required")
	}
	if biller == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("billing service is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = auth.DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		registrar:  registrar,
		authn:      authn,
		sessions:   sessions,
		billing:    biller,
		metrics:    metrics,
		sessionTTL: sessionTTL,
		logger:     logger,
		pages:      pages,
	}, nil
}

// formData is the template payload for form pages.
type formData struct {
	Values      forms.Values
	FieldErrors forms.FieldErrors
	Message     string
}

// parseFormValues reads the POST body into forms.Values. Repeated fields
// keep their first value.
func parseFormValues(r *http.Request) (forms.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, oops.Code("WEB_FORM_PARSE_FAILED").Wrap(err)
	}
	values := forms.Values{}
	for name, vs := range r.PostForm {
		if len(vs) > 0 {
			values[name] = vs[0]
		}
	}
	return values, nil
}

func (h *Handlers) countRegistration(status string) {
	if h.metrics != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(status).Inc()
	}
}

func (h *Handlers) countLogin(status string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}

func (h *Handlers) countInvoice(action, status string) {
	if h.metrics != nil {
		h.metrics.InvoicesTotal.WithLabelValues(action, status).Inc()
	}
}

// serverError logs the error and renders a plain 500 response.
func (h *Handlers) serverError(w http.ResponseWriter, msg string, err error) {
	errutil.LogError(h.logger, msg, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// GetSignup renders the registration form.
func (h *Handlers) GetSignup(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "signup.html", formData{Values: forms.Values{}})
}

// PostSignup processes a registration submission.
func (h *Handlers) PostSignup(w http.ResponseWriter, r *http.Request) {
	values, err := parseFormValues(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.registrar.Register(r.Context(), values)
	if err != nil {
		h.countRegistration("error")
		h.serverError(w, "registration failed", err)
		return
	}

	if result.Redirect != "" {
		h.countRegistration("success")
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
		return
	}

	h.countRegistration("failure")
	h.render(w, http.StatusUnprocessableEntity, "signup.html", formData{
		Values:      values,
		FieldErrors: result.FieldErrors,
		Message:     result.Message,
	})
}

// GetLogin renders the login form.
func (h *Handlers) GetLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", formData{Values: forms.Values{}})
}

// PostLogin processes a login submission. All failures look identical to the
// client.
func (h *Handlers) PostLogin(w http.ResponseWriter, r *http.Request) {
	values, err := parseFormValues(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	_, token, err := h.authn.Authenticate(r.Context(), values)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.countLogin("failure")
			h.render(w, http.StatusUnauthorized, "login.html", formData{
				Values:  forms.Values{"email": values.Get("email")},
				Message: msgInvalidCredentials,
			})
			return
		}
		h.countLogin("error")
		h.serverError(w, "login failed", err)
		return
	}

	h.countLogin("success")
	setSessionCookie(w, token, h.sessionTTL)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// PostLogout revokes the current session and clears the cookie.
func (h *Handlers) PostLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Revoke(r.Context(), cookie.Value); err != nil {
			errutil.LogError(h.logger, "session revocation failed", err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}
