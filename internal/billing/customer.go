// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package billing

import (
	"context"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/ledgerdash/ledgerdash/internal/forms"
)

// Customer represents one dashboard customer.
type Customer struct {
	ID        ulid.ULID
	Name      string
	Email     string
	ImageURL  string
	CreatedAt time.Time
}

// NewCustomer creates a validated Customer with a fresh ID.
func NewCustomer(name, email, imageURL string) (*Customer, error) {
	if name == "" {
		return nil, oops.Code("CUSTOMER_INVALID_NAME").Errorf("name cannot be empty")
	}
	if email == "" {
		return nil, oops.Code("CUSTOMER_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	return &Customer{
		ID:        ulid.Make(),
		Name:      name,
		Email:     email,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}, nil
}

// CustomerRepository manages customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id ulid.ULID) error
	List(ctx context.Context) ([]*Customer, error)
	Exists(ctx context.Context, id ulid.ULID) (bool, error)
}

// Customer form messages.
const (
	msgCustomerName     = "Name is required."
	msgCustomerEmail    = "Email is invalid."
	msgCustomerImageURL = "Image Url is invalid."
	msgCustomerMissing  = "Missing Fields. Failed to Create Customer."
)

// validateCustomer checks a raw customer submission, collecting every
// failure. Returns nil field errors when the submission is valid.
func validateCustomer(v forms.Values) (*Customer, forms.FieldErrors, error) {
	fe := forms.FieldErrors{}

	name := v.Get("name")
	if name == "" {
		fe.Add("name", msgCustomerName)
	}

	email := v.Get("email")
	if !forms.ValidEmail(email) {
		fe.Add("email", msgCustomerEmail)
	}

	imageURL := v.Get("imageUrl")
	if u, err := url.Parse(imageURL); err != nil || u.Scheme == "" || u.Host == "" {
		fe.Add("imageUrl", msgCustomerImageURL)
	}

	if fe.HasErrors() {
		return nil, fe, nil
	}

	customer, err := NewCustomer(name, email, imageURL)
	if err != nil {
		return nil, nil, err
	}
	return customer, nil, nil
}
