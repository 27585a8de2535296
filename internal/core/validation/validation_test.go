package validation_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		ShippingAddress: domain.ShippingAddress{
			FirstName:  "Jean",
			LastName:   "Dupont",
			Address:    "123 Rue de la République",
			City:       "Paris",
			PostalCode: "75001",
			Country:    "France",
			Phone:      "06 12 34 56 78",
		},
		PaymentMethod: domain.CheckoutCard,
		CardDetails: &domain.CardDetails{
			CardNumber: "4242 4242 4242 4242",
			CardName:   "JEAN DUPONT",
			ExpiryDate: "12/27",
			CVV:        "123",
		},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalid)

	var verr *validation.Errors
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestValidateCheckout(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validation.ValidateCheckout(validForm()))
	})

	t.Run("InternationalPhone", func(t *testing.T) {
		for _, phone := range []string{"+33612345678", "0033 6 12 34 56 78"} {
			f := validForm()
			f.ShippingAddress.Phone = phone
			assert.NoError(t, validation.ValidateCheckout(f), phone)
		}
	})

	t.Run("BlankAddress", func(t *testing.T) {
		f := validForm()
		f.ShippingAddress = domain.ShippingAddress{FirstName: "  "}

		fields := fieldErrors(t, validation.ValidateCheckout(f))
		assert.Equal(t, map[string]string{
			"first_name":  "required",
			"last_name":   "required",
			"address":     "required",
			"city":        "required",
			"postal_code": "required",
			"phone":       "required",
		}, fields)
	})

	t.Run("MalformedAddress", func(t *testing.T) {
		f := validForm()
		f.ShippingAddress.PostalCode = "7500"
		f.ShippingAddress.Phone = "0012345678"

		fields := fieldErrors(t, validation.ValidateCheckout(f))
		assert.Len(t, fields, 2)
		assert.Equal(t, "invalid postal code (5 digits)", fields["postal_code"])
		assert.Equal(t, "invalid phone number", fields["phone"])
	})

	t.Run("MalformedCard", func(t *testing.T) {
		f := validForm()
		f.CardDetails = &domain.CardDetails{
			CardNumber: "4242 4242 4242",
			CardName:   "",
			ExpiryDate: "13/27",
			CVV:        "12",
		}

		fields := fieldErrors(t, validation.ValidateCheckout(f))
		assert.Equal(t, map[string]string{
			"card_number": "invalid card number (16 digits)",
			"card_name":   "required",
			"expiry_date": "invalid format (MM/YY)",
			"cvv":         "invalid CVV (3-4 digits)",
		}, fields)
	})

	t.Run("FourDigitCVV", func(t *testing.T) {
		f := validForm()
		f.CardDetails.CVV = "1234"
		assert.NoError(t, validation.ValidateCheckout(f))
	})

	t.Run("MissingCard", func(t *testing.T) {
		f := validForm()
		f.CardDetails = nil

		fields := fieldErrors(t, validation.ValidateCheckout(f))
		assert.Equal(t, "required", fields["card_details"])
	})

	t.Run("CardIgnoredForPayPal", func(t *testing.T) {
		f := validForm()
		f.PaymentMethod = domain.CheckoutPayPal
		f.CardDetails = &domain.CardDetails{CardNumber: "bad"}
		assert.NoError(t, validation.ValidateCheckout(f))
	})

	t.Run("UnknownPaymentMethod", func(t *testing.T) {
		f := validForm()
		f.PaymentMethod = "bitcoin"

		fields := fieldErrors(t, validation.ValidateCheckout(f))
		assert.Equal(t, "unsupported value", fields["payment_method"])
	})
}

func TestValidateRegistration(t *testing.T) {
	valid := domain.Registration{
		FirstName:       "Marie",
		LastName:        "Curie",
		Email:           "marie@example.fr",
		Password:        "Radium1898",
		ConfirmPassword: "Radium1898",
		AcceptTerms:     true,
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validation.ValidateRegistration(valid))
	})

	t.Run("Invalid", func(t *testing.T) {
		r := valid
		r.FirstName = " M "
		r.Email = "marie"
		r.Password = "radium1898"
		r.ConfirmPassword = "other"
		r.AcceptTerms = false

		fields := fieldErrors(t, validation.ValidateRegistration(r))
		assert.Equal(t, map[string]string{
			"first_name":       "minimum 2 characters",
			"email":            "invalid email",
			"password":         "must contain upper and lower case letters",
			"confirm_password": "passwords do not match",
			"accept_terms":     "required",
		}, fields)
	})

	t.Run("PasswordRules", func(t *testing.T) {
		cases := map[string]string{
			"Short1":       "minimum 8 characters",
			"NoDigitsHere": "must contain at least one digit",
		}
		for pw, msg := range cases {
			r := valid
			r.Password = pw
			r.ConfirmPassword = pw

			fields := fieldErrors(t, validation.ValidateRegistration(r))
			assert.Equal(t, msg, fields["password"], pw)
		}
	})
}

func TestValidateContact(t *testing.T) {
	valid := domain.ContactMessage{
		Name:    "Jean Dupont",
		Email:   "jean@example.fr",
		Subject: domain.SubjectOrder,
		Message: "Ma commande n'est pas encore arrivée.",
	}
	require.NoError(t, validation.ValidateContact(valid))

	fields := fieldErrors(t, validation.ValidateContact(domain.ContactMessage{
		Name:    " J ",
		Email:   "jean",
		Subject: "reclamation",
		Message: "trop court",
	}))
	assert.Equal(t, map[string]string{
		"name":    "minimum 2 characters",
		"email":   "invalid email",
		"subject": "unsupported value",
	}, fields)

	fields = fieldErrors(t, validation.ValidateContact(domain.ContactMessage{}))
	assert.Len(t, fields, 4)
	assert.Equal(t, "required", fields["message"])
}
