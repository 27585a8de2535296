package domain

import "errors"

var ErrNotLoggedIn = errors.New("not logged in")

type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Avatar         string          `json:"avatar,omitempty"`
	IsLoggedIn     bool            `json:"is_logged_in"`
	Addresses      []Address       `json:"addresses"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

type Address struct {
	ID         string `json:"id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type PaymentMethodType string

const (
	PaymentMethodCard   PaymentMethodType = "card"
	PaymentMethodPayPal PaymentMethodType = "paypal"
	PaymentMethodBank   PaymentMethodType = "bank"
)

type PaymentMethod struct {
	ID          string            `json:"id"`
	Type        PaymentMethodType `json:"type"`
	Last4       string            `json:"last4,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	ExpiryMonth int               `json:"expiry_month,omitempty"`
	ExpiryYear  int               `json:"expiry_year,omitempty"`
	IsDefault   bool              `json:"is_default"`
}

// ProfilePatch is shallow-merged into the current user: a set field
// replaces the whole value, lists included.
type ProfilePatch struct {
	Name           *string          `json:"name,omitempty"`
	Email          *string          `json:"email,omitempty"`
	Avatar         *string          `json:"avatar,omitempty"`
	Addresses      *[]Address       `json:"addresses,omitempty"`
	PaymentMethods *[]PaymentMethod `json:"payment_methods,omitempty"`
}

func (pp ProfilePatch) Apply(u User) User {
	if pp.Name != nil {
		u.Name = *pp.Name
	}
	if pp.Email != nil {
		u.Email = *pp.Email
	}
	if pp.Avatar != nil {
		u.Avatar = *pp.Avatar
	}
	if pp.Addresses != nil {
		u.Addresses = *pp.Addresses
	}
	if pp.PaymentMethods != nil {
		u.PaymentMethods = *pp.PaymentMethods
	}
	return u
}

type Registration struct {
	FirstName       string `json:"first_name" validate:"required,trimmed_min=2"`
	LastName        string `json:"last_name" validate:"required,trimmed_min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,mixed_case,has_digit"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	AcceptTerms     bool   `json:"accept_terms" validate:"required"`
	Avatar          string `json:"avatar,omitempty"`
}
