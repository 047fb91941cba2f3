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

// CustomerRepository implements billing.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	db DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create stores a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *billing.Customer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, name, email, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		customer.ID.String(),
		customer.Name,
		customer.Email,
		customer.ImageURL,
		customer.CreatedAt,
	)
	if err != nil {
		return oops.Code("CUSTOMER_CREATE_FAILED").
			With("operation", "insert customer").
			Wrap(err)
	}
	return nil
}

// Delete removes a customer.
func (r *CustomerRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM customers WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("CUSTOMER_DELETE_FAILED").
			With("operation", "delete customer").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CUSTOMER_NOT_FOUND").
			With("id", id.String()).
			Wrap(billing.ErrNotFound)
	}
	return nil
}

// List returns all customers ordered by name.
func (r *CustomerRepository) List(ctx context.Context) ([]*billing.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, image_url, created_at
		FROM customers
		ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("CUSTOMER_LIST_FAILED").
			With("operation", "query customers").
			Wrap(err)
	}
	defer rows.Close()

	var customers []*billing.Customer
	for rows.Next() {
		var (
			idStr     string
			name      string
			email     string
			imageURL  string
			createdAt time.Time
		)
		if err := rows.Scan(&idStr, &name, &email, &imageURL, &createdAt); err != nil {
			return nil, oops.Code("CUSTOMER_SCAN_FAILED").Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("CUSTOMER_INVALID_ID").With("id", idStr).Wrap(err)
		}
		customers = append(customers, &billing.Customer{
			ID:        id,
			Name:      name,
			Email:     email,
			ImageURL:  imageURL,
			CreatedAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CUSTOMER_LIST_FAILED").
			With("operation", "iterate customers").
			Wrap(err)
	}
	return customers, nil
}

// Exists reports whether a customer with the given ID exists.
func (r *CustomerRepository) Exists(ctx context.Context, id ulid.ULID) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, `
		SELECT 1 FROM customers WHERE id = $1
	`, id.String()).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("CUSTOMER_EXISTS_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return true, nil
}

// Compile-time interface check.
var _ billing.CustomerRepository = (*CustomerRepository)(nil)
