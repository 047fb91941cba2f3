// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

//go:build integration

package integration_test

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/ledgerdash/ledgerdash/internal/billing"
	"github.com/ledgerdash/ledgerdash/internal/forms"
)

var _ = Describe("Billing", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupTables(ctx, env.pool)
	})

	createCustomer := func(name, email string) *billing.Customer {
		result, err := env.Billing.CreateCustomer(ctx, forms.Values{
			"name":     name,
			"email":    email,
			"imageUrl": "https://img.example.com/" + email + ".png",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Redirect).To(Equal(billing.CustomersPath))

		customers, err := env.Billing.ListCustomers(ctx)
		Expect(err).NotTo(HaveOccurred())
		for _, c := range customers {
			if c.Email == email {
				return c
			}
		}
		Fail("created customer not found in listing")
		return nil
	}

	invoiceValues := func(customerID ulid.ULID, amount, status string) forms.Values {
		return forms.Values{
			"customerId": customerID.String(),
			"amount":     amount,
			"status":     status,
		}
	}

	Describe("Customers", func() {
		It("creates and lists customers", func() {
			createCustomer("Acme Corp", "billing@acme.test")
			createCustomer("Globex", "ap@globex.test")

			customers, err := env.Billing.ListCustomers(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(customers).To(HaveLen(2))
		})

		It("rejects an invalid image URL with field errors", func() {
			result, err := env.Billing.CreateCustomer(ctx, forms.Values{
				"name":     "Acme Corp",
				"email":    "billing@acme.test",
				"imageUrl": "not a url",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Redirect).To(BeEmpty())
			Expect(result.FieldErrors["imageUrl"]).To(ContainElement("Image Url is invalid."))
		})

		It("deletes a customer and cascades to their invoices", func() {
			customer := createCustomer("Acme Corp", "billing@acme.test")
			result, err := env.Billing.CreateInvoice(ctx, invoiceValues(customer.ID, "100.00", "pending"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Redirect).To(Equal(billing.InvoicesPath))

			Expect(env.Billing.DeleteCustomer(ctx, customer.ID)).To(Succeed())

			invoices, err := env.Billing.ListInvoices(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(BeEmpty())
		})
	})

	Describe("Invoices", func() {
		It("creates an invoice with amounts stored as cents", func() {
			customer := createCustomer("Acme Corp", "billing@acme.test")

			result, err := env.Billing.CreateInvoice(ctx, invoiceValues(customer.ID, "250.50", "pending"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Redirect).To(Equal(billing.InvoicesPath))

			invoices, err := env.Billing.ListInvoices(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(1))
			Expect(invoices[0].AmountCents).To(Equal(int64(25050)))
			Expect(invoices[0].Status).To(Equal(billing.StatusPending))
			Expect(invoices[0].CustomerID).To(Equal(customer.ID))
		})

		It("rejects an unknown customer", func() {
			result, err := env.Billing.CreateInvoice(ctx, invoiceValues(ulid.Make(), "100.00", "pending"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Redirect).To(BeEmpty())
			Expect(result.FieldErrors["customerId"]).To(ContainElement("Please select a customer."))
		})

		It("updates status and amount", func() {
			customer := createCustomer("Acme Corp", "billing@acme.test")
			_, err := env.Billing.CreateInvoice(ctx, invoiceValues(customer.ID, "100.00", "pending"))
			Expect(err).NotTo(HaveOccurred())

			invoices, err := env.Billing.ListInvoices(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(1))

			result, err := env.Billing.UpdateInvoice(ctx, invoices[0].ID, invoiceValues(customer.ID, "175.25", "paid"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Redirect).To(Equal(billing.InvoicesPath))

			updated, err := env.Billing.GetInvoice(ctx, invoices[0].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AmountCents).To(Equal(int64(17525)))
			Expect(updated.Status).To(Equal(billing.StatusPaid))
		})

		It("returns ErrNotFound when updating a missing invoice", func() {
			customer := createCustomer("Acme Corp", "billing@acme.test")

			_, err := env.Billing.UpdateInvoice(ctx, ulid.Make(), invoiceValues(customer.ID, "100.00", "paid"))
			Expect(errors.Is(err, billing.ErrNotFound)).To(BeTrue())
		})

		It("deletes an invoice", func() {
			customer := createCustomer("Acme Corp", "billing@acme.test")
			_, err := env.Billing.CreateInvoice(ctx, invoiceValues(customer.ID, "100.00", "pending"))
			Expect(err).NotTo(HaveOccurred())

			invoices, err := env.Billing.ListInvoices(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(1))

			Expect(env.Billing.DeleteInvoice(ctx, invoices[0].ID)).To(Succeed())

			_, err = env.Billing.GetInvoice(ctx, invoices[0].ID)
			Expect(errors.Is(err, billing.ErrNotFound)).To(BeTrue())
		})

		It("lists newest-dated invoices first", func() {
			customer := createCustomer("Acme Corp", "billing@acme.test")

			for _, amount := range []string{"10.00", "20.00", "30.00"} {
				_, err := env.Billing.CreateInvoice(ctx, invoiceValues(customer.ID, amount, "pending"))
				Expect(err).NotTo(HaveOccurred())
			}

			invoices, err := env.Billing.ListInvoices(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(3))
			for i := 1; i < len(invoices); i++ {
				notLater := invoices[i].Date.Before(invoices[i-1].Date) || invoices[i].Date.Equal(invoices[i-1].Date)
				Expect(notLater).To(BeTrue(), "invoices must be ordered by date descending")
			}
		})
	})
})
