// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/ledgerdash/ledgerdash/internal/billing"
	"github.com/ledgerdash/ledgerdash/internal/forms"
)

// errorIsNotFound reports whether err resolves to a missing billing entity.
func errorIsNotFound(err error) bool {
	return errors.Is(err, billing.ErrNotFound)
}

// invoiceRow is a display-ready invoice line.
type invoiceRow struct {
	ID           string
	CustomerName string
	Amount       string
	Date         string
	Status       string
}

// formatAmount renders integer cents as a dollar string.
func formatAmount(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// invoiceID extracts and parses the {id} URL parameter.
func invoiceID(r *http.Request) (ulid.ULID, error) {
	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return ulid.ULID{}, err //nolint:wrapcheck
	}
	return id, nil
}

// GetDashboard renders the overview page.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.billing.ListInvoices(r.Context())
	if err != nil {
		h.serverError(w, "dashboard invoice listing failed", err)
		return
	}
	customers, err := h.billing.ListCustomers(r.Context())
	if err != nil {
		h.serverError(w, "dashboard customer listing failed", err)
		return
	}

	var paidCents, pendingCents int64
	for _, inv := range invoices {
		switch inv.Status {
		case billing.StatusPaid:
			paidCents += inv.AmountCents
		case billing.StatusPending:
			pendingCents += inv.AmountCents
		}
	}

	h.render(w, http.StatusOK, "dashboard.html", struct {
		InvoiceCount  int
		CustomerCount int
		PaidTotal     string
		PendingTotal  string
	}{
		InvoiceCount:  len(invoices),
		CustomerCount: len(customers),
		PaidTotal:     formatAmount(paidCents),
		PendingTotal:  formatAmount(pendingCents),
	})
}

// GetInvoices renders the invoice listing.
func (h *Handlers) GetInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.billing.ListInvoices(r.Context())
	if err != nil {
		h.serverError(w, "invoice listing failed", err)
		return
	}
	customers, err := h.billing.ListCustomers(r.Context())
	if err != nil {
		h.serverError(w, "customer listing failed", err)
		return
	}

	namesByID := make(map[ulid.ULID]string, len(customers))
	for _, c := range customers {
		namesByID[c.ID] = c.Name
	}

	rows := make([]invoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, invoiceRow{
			ID:           inv.ID.String(),
			CustomerName: namesByID[inv.CustomerID],
			Amount:       formatAmount(inv.AmountCents),
			Date:         inv.Date.Format("Jan 2, 2006"),
			Status:       string(inv.Status),
		})
	}

	h.render(w, http.StatusOK, "invoices.html", struct {
		Invoices []invoiceRow
	}{Invoices: rows})
}

// invoiceFormData is the template payload for the invoice form.
type invoiceFormData struct {
	formData
	Customers []*billing.Customer
	Editing   bool
	Action    string
}

// GetCreateInvoice renders an empty invoice form.
func (h *Handlers) GetCreateInvoice(w http.ResponseWriter, r *http.Request) {
	customers, err := h.billing.ListCustomers(r.Context())
	if err != nil {
		h.serverError(w, "customer listing failed", err)
		return
	}

	h.render(w, http.StatusOK, "invoice_form.html", invoiceFormData{
		formData:  formData{Values: forms.Values{}},
		Customers: customers,
		Action:    "/dashboard/invoices/create",
	})
}

// PostCreateInvoice processes an invoice creation submission.
func (h *Handlers) PostCreateInvoice(w http.ResponseWriter, r *http.Request) {
	values, err := parseFormValues(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.billing.CreateInvoice(r.Context(), values)
	if err != nil {
		h.countInvoice("create", "error")
		h.serverError(w, "invoice creation failed", err)
		return
	}

	if result.Redirect != "" {
		h.countInvoice("create", "success")
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
		return
	}

	h.countInvoice("create", "failure")
	customers, err := h.billing.ListCustomers(r.Context())
	if err != nil {
		h.serverError(w, "customer listing failed", err)
		return
	}
	h.render(w, http.StatusUnprocessableEntity, "invoice_form.html", invoiceFormData{
		formData:  formData{Values: values, FieldErrors: result.FieldErrors, Message: result.Message},
		Customers: customers,
		Action:    "/dashboard/invoices/create",
	})
}

// GetEditInvoice renders the invoice form prefilled with an existing invoice.
func (h *Handlers) GetEditInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	invoice, err := h.billing.GetInvoice(r.Context(), id)
	if err != nil {
		if errorIsNotFound(err) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, "invoice lookup failed", err)
		return
	}

	customers, err := h.billing.ListCustomers(r.Context())
	if err != nil {
		h.serverError(w, "customer listing failed", err)
		return
	}

	h.render(w, http.StatusOK, "invoice_form.html", invoiceFormData{
		formData: formData{Values: forms.Values{
			"customerId": invoice.CustomerID.String(),
			"amount":     fmt.Sprintf("%.2f", float64(invoice.AmountCents)/100),
			"status":     string(invoice.Status),
		}},
		Customers: customers,
		Editing:   true,
		Action:    "/dashboard/invoices/" + id.String() + "/edit",
	})
}

// PostEditInvoice processes an invoice update submission.
func (h *Handlers) PostEditInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	values, err := parseFormValues(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.billing.UpdateInvoice(r.Context(), id, values)
	if err != nil {
		if errorIsNotFound(err) {
			http.NotFound(w, r)
			return
		}
		h.countInvoice("update", "error")
		h.serverError(w, "invoice update failed", err)
		return
	}

	if result.Redirect != "" {
		h.countInvoice("update", "success")
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
		return
	}

	h.countInvoice("update", "failure")
	customers, err := h.billing.ListCustomers(r.Context())
	if err != nil {
		h.serverError(w, "customer listing failed", err)
		return
	}
	h.render(w, http.StatusUnprocessableEntity, "invoice_form.html", invoiceFormData{
		formData:  formData{Values: values, FieldErrors: result.FieldErrors, Message: result.Message},
		Customers: customers,
		Editing:   true,
		Action:    "/dashboard/invoices/" + id.String() + "/edit",
	})
}

// PostDeleteInvoice removes an invoice and returns to the listing.
func (h *Handlers) PostDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.billing.DeleteInvoice(r.Context(), id); err != nil && !errorIsNotFound(err) {
		h.countInvoice("delete", "error")
		h.serverError(w, "invoice deletion failed", err)
		return
	}

	h.countInvoice("delete", "success")
	http.Redirect(w, r, billing.InvoicesPath, http.StatusSeeOther)
}

// GetCustomers renders the customer listing.
func (h *Handlers) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.billing.ListCustomers(r.Context())
	if err != nil {
		h.serverError(w, "customer listing failed", err)
		return
	}

	h.render(w, http.StatusOK, "customers.html", struct {
		Customers []*billing.Customer
	}{Customers: customers})
}

// GetCreateCustomer renders an empty customer form.
func (h *Handlers) GetCreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "customer_form.html", formData{Values: forms.Values{}})
}

// PostCreateCustomer processes a customer creation submission.
func (h *Handlers) PostCreateCustomer(w http.ResponseWriter, r *http.Request) {
	values, err := parseFormValues(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.billing.CreateCustomer(r.Context(), values)
	if err != nil {
		h.serverError(w, "customer creation failed", err)
		return
	}

	if result.Redirect != "" {
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
		return
	}

	h.render(w, http.StatusUnprocessableEntity, "customer_form.html", formData{
		Values:      values,
		FieldErrors: result.FieldErrors,
		Message:     result.Message,
	})
}

// PostDeleteCustomer removes a customer and returns to the listing.
func (h *Handlers) PostDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.billing.DeleteCustomer(r.Context(), id); err != nil && !errorIsNotFound(err) {
		h.serverError(w, "customer deletion failed", err)
		return
	}

	http.Redirect(w, r, billing.CustomersPath, http.StatusSeeOther)
}
