// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package billing_test

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/ledgerdash/ledgerdash/internal/billing"
)

// fakeInvoiceRepo is an in-memory InvoiceRepository.
type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[ulid.ULID]*billing.Invoice

	createErr error
	getErr    error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[ulid.ULID]*billing.Invoice{}}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[invoice.ID]; !ok {
		return billing.ErrNotFound
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return billing.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id ulid.ULID) (*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return invoice, nil
}

func (r *fakeInvoiceRepo) List(_ context.Context) ([]*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*billing.Invoice, 0, len(r.invoices))
	for _, invoice := range r.invoices {
		out = append(out, invoice)
	}
	return out, nil
}

// fakeCustomerRepo is an in-memory CustomerRepository.
type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[ulid.ULID]*billing.Customer

	existsErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[ulid.ULID]*billing.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *billing.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return billing.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context) ([]*billing.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*billing.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		out = append(out, customer)
	}
	return out, nil
}

func (r *fakeCustomerRepo) Exists(_ context.Context, id ulid.ULID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.customers[id]
	return ok, nil
}
