// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/ledgerdash/ledgerdash/internal/billing"
)

// InvoiceRepository implements billing.InvoiceRepository using PostgreSQL.
type InvoiceRepository struct {
	db DB
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(db DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create stores a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO invoices (id, customer_id, amount_cents, status, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		invoice.ID.String(),
		invoice.CustomerID.String(),
		invoice.AmountCents,
		string(invoice.Status),
		invoice.Date,
		invoice.CreatedAt,
	)
	if err != nil {
		return oops.Code("INVOICE_CREATE_FAILED").
			With("operation", "insert invoice").
			Wrap(err)
	}
	return nil
}

// Update rewrites the mutable fields of an invoice.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	result, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET customer_id = $2, amount_cents = $3, status = $4
		WHERE id = $1
	`,
		invoice.ID.String(),
		invoice.CustomerID.String(),
		invoice.AmountCents,
		string(invoice.Status),
	)
	if err != nil {
		return oops.Code("INVOICE_UPDATE_FAILED").
			With("operation", "update invoice").
			With("id", invoice.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("INVOICE_NOT_FOUND").
			With("id", invoice.ID.String()).
			Wrap(billing.ErrNotFound)
	}
	return nil
}

// Delete removes an invoice.
func (r *InvoiceRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM invoices WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("INVOICE_DELETE_FAILED").
			With("operation", "delete invoice").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("INVOICE_NOT_FOUND").
			With("id", id.String()).
			Wrap(billing.ErrNotFound)
	}
	return nil
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id ulid.ULID) (*billing.Invoice, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, customer_id, amount_cents, status, date, created_at
		FROM invoices
		WHERE id = $1
	`, id.String())

	invoice, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("INVOICE_NOT_FOUND").
			With("id", id.String()).
			Wrap(billing.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("INVOICE_GET_FAILED").
			With("operation", "get invoice by id").
			With("id", id.String()).
			Wrap(err)
	}
	return invoice, nil
}

// List returns all invoices, newest first.
func (r *InvoiceRepository) List(ctx context.Context) ([]*billing.Invoice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, amount_cents, status, date, created_at
		FROM invoices
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, oops.Code("INVOICE_LIST_FAILED").
			With("operation", "query invoices").
			Wrap(err)
	}
	defer rows.Close()

	var invoices []*billing.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, oops.Code("INVOICE_LIST_FAILED").
				With("operation", "scan invoice").
				Wrap(err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("INVOICE_LIST_FAILED").
			With("operation", "iterate invoices").
			Wrap(err)
	}
	return invoices, nil
}

// scanInvoice scans a single row into an Invoice.
// Callers are responsible for handling pgx.ErrNoRows.
func scanInvoice(row pgx.Row) (*billing.Invoice, error) {
	var (
		idStr         string
		customerIDStr string
		amountCents   int64
		status        string
		date          time.Time
		createdAt     time.Time
	)

	err := row.Scan(&idStr, &customerIDStr, &amountCents, &status, &date, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("INVOICE_SCAN_FAILED").Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("INVOICE_INVALID_ID").With("id", idStr).Wrap(err)
	}
	customerID, err := ulid.Parse(customerIDStr)
	if err != nil {
		return nil, oops.Code("INVOICE_INVALID_CUSTOMER_ID").
			With("customer_id", customerIDStr).
			Wrap(err)
	}

	return &billing.Invoice{
		ID:          id,
		CustomerID:  customerID,
		AmountCents: amountCents,
		Status:      billing.InvoiceStatus(status),
		Date:        date,
		CreatedAt:   createdAt,
	}, nil
}

// Compile-time interface check.
var _ billing.InvoiceRepository = (*InvoiceRepository)(nil)
