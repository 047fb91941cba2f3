// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package billing

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ledgerdash/ledgerdash/internal/forms"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

// Valid invoice statuses.
const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// Valid reports whether s is a known status.
func (s InvoiceStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Invoice represents one invoice. Amounts are stored in cents.
type Invoice struct {
	ID          ulid.ULID
	CustomerID  ulid.ULID
	AmountCents int64
	Status      InvoiceStatus
	Date        time.Time
	CreatedAt   time.Time
}

// InvoiceRepository manages invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*Invoice, error)
	List(ctx context.Context) ([]*Invoice, error)
}

// maxInvoiceAmount bounds a single invoice in dollars. Anything larger would
// risk overflowing the int64 cents conversion.
const maxInvoiceAmount = 1_000_000_000

// Invoice form messages.
const (
	msgInvoiceCustomer      = "Please select a customer."
	msgInvoiceAmount        = "Please enter an amount greater than $0."
	msgInvoiceAmountRange   = "Please enter an amount less than $1,000,000,000."
	msgInvoiceStatus        = "Please select an invoice status."
	msgInvoiceCreateMissing = "Missing Fields. Failed to Create Invoice."
	msgInvoiceUpdateMissing = "Missing Fields. Failed to Update Invoice."
)

// invoiceFields is a validated invoice submission before persistence.
type invoiceFields struct {
	CustomerID  ulid.ULID
	AmountCents int64
	Status      InvoiceStatus
}

// validateInvoice checks a raw invoice submission. The amount is submitted
// in dollars and converted to cents; it must be strictly greater than zero.
func validateInvoice(v forms.Values) (*invoiceFields, forms.FieldErrors) {
	fe := forms.FieldErrors{}

	customerID, err := ulid.Parse(v.Get("customerId"))
	if err != nil {
		fe.Add("customerId", msgInvoiceCustomer)
	}

	amount, err := strconv.ParseFloat(v.Get("amount"), 64)
	switch {
	case err != nil || amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount):
		fe.Add("amount", msgInvoiceAmount)
	case amount > maxInvoiceAmount:
		fe.Add("amount", msgInvoiceAmountRange)
	}

	status := InvoiceStatus(v.Get("status"))
	if !status.Valid() {
		fe.Add("status", msgInvoiceStatus)
	}

	if fe.HasErrors() {
		return nil, fe
	}
	return &invoiceFields{
		CustomerID:  customerID,
		AmountCents: int64(math.Round(amount * 100)),
		Status:      status,
	}, nil
}
