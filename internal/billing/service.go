// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/ledgerdash/ledgerdash/internal/forms"
)

// Redirect targets after successful mutations.
const (
	InvoicesPath  = "/dashboard/invoices"
	CustomersPath = "/dashboard/customers"
)

// Service orchestrates the invoice and customer workflows.
type Service struct {
	invoices  InvoiceRepository
	customers CustomerRepository
	logger    *slog.Logger
}

// NewService creates a billing Service.
func NewService(invoices InvoiceRepository, customers CustomerRepository, logger *slog.Logger) (*Service, error) {
	if invoices == nil {
		return nil, oops.Code("BILLING_NIL_DEPENDENCY").Errorf("invoices repository is required")
	}
	if customers == nil {
		return nil, oops.Code("BILLING_NIL_DEPENDENCY").Errorf("customers repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, customers: customers, logger: logger}, nil
}

// CreateInvoice validates a submission, stamps the date server-side, and
// inserts the invoice. The referenced customer must exist.
func (s *Service) CreateInvoice(ctx context.Context, v forms.Values) (forms.Result, error) {
	fields, fieldErrs := validateInvoice(v)
	if fieldErrs != nil {
		return forms.Result{FieldErrors: fieldErrs, Message: msgInvoiceCreateMissing}, nil
	}

	exists, err := s.customers.Exists(ctx, fields.CustomerID)
	if err != nil {
		return forms.Result{}, oops.Code("INVOICE_CREATE_FAILED").
			With("operation", "check customer").
			Wrap(err)
	}
	if !exists {
		fe := forms.FieldErrors{}
		fe.Add("customerId", msgInvoiceCustomer)
		return forms.Result{FieldErrors: fe, Message: msgInvoiceCreateMissing}, nil
	}

	invoice := &Invoice{
		ID:          ulid.Make(),
		CustomerID:  fields.CustomerID,
		AmountCents: fields.AmountCents,
		Status:      fields.Status,
		Date:        time.Now().UTC().Truncate(24 * time.Hour),
		CreatedAt:   time.Now(),
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return forms.Result{}, oops.Code("INVOICE_CREATE_FAILED").
			With("operation", "insert invoice").
			Wrap(err)
	}

	s.logger.Info("invoice created", "invoice_id", invoice.ID.String())
	return forms.Redirect(InvoicesPath), nil
}

// UpdateInvoice validates a submission and updates the identified invoice.
func (s *Service) UpdateInvoice(ctx context.Context, id ulid.ULID, v forms.Values) (forms.Result, error) {
	fields, fieldErrs := validateInvoice(v)
	if fieldErrs != nil {
		return forms.Result{FieldErrors: fieldErrs, Message: msgInvoiceUpdateMissing}, nil
	}

	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return forms.Result{}, oops.Code("INVOICE_UPDATE_FAILED").
			With("operation", "get invoice").
			With("id", id.String()).
			Wrap(err)
	}

	invoice.CustomerID = fields.CustomerID
	invoice.AmountCents = fields.AmountCents
	invoice.Status = fields.Status
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return forms.Result{}, oops.Code("INVOICE_UPDATE_FAILED").
			With("operation", "update invoice").
			With("id", id.String()).
			Wrap(err)
	}

	return forms.Redirect(InvoicesPath), nil
}

// DeleteInvoice removes an invoice.
func (s *Service) DeleteInvoice(ctx context.Context, id ulid.ULID) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		return oops.Code("INVOICE_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// CreateCustomer validates a submission and inserts the customer.
func (s *Service) CreateCustomer(ctx context.Context, v forms.Values) (forms.Result, error) {
	customer, fieldErrs, err := validateCustomer(v)
	if err != nil {
		return forms.Result{}, oops.Code("CUSTOMER_CREATE_FAILED").Wrap(err)
	}
	if fieldErrs != nil {
		return forms.Result{FieldErrors: fieldErrs, Message: msgCustomerMissing}, nil
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return forms.Result{}, oops.Code("CUSTOMER_CREATE_FAILED").
			With("operation", "insert customer").
			Wrap(err)
	}

	s.logger.Info("customer created", "customer_id", customer.ID.String())
	return forms.Redirect(CustomersPath), nil
}

// DeleteCustomer removes a customer.
func (s *Service) DeleteCustomer(ctx context.Context, id ulid.ULID) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return oops.Code("CUSTOMER_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// GetInvoice returns a single invoice by ID. Unknown IDs return an error
// wrapping ErrNotFound.
func (s *Service) GetInvoice(ctx context.Context, id ulid.ULID) (*Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("INVOICE_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return invoice, nil
}

// ListInvoices returns all invoices, newest first.
func (s *Service) ListInvoices(ctx context.Context) ([]*Invoice, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, oops.Code("INVOICE_LIST_FAILED").Wrap(err)
	}
	return invoices, nil
}

// ListCustomers returns all customers ordered by name.
func (s *Service) ListCustomers(ctx context.Context) ([]*Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, oops.Code("CUSTOMER_LIST_FAILED").Wrap(err)
	}
	return customers, nil
}
