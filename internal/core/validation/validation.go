// Package validation checks checkout, registration and contact forms. Validation is
// all-or-nothing: every failing field is reported and nothing may be
// submitted while any field fails.
package validation

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/niksmo/storefront/internal/core/domain"
)

var ErrInvalid = errors.New("validation failed")

var (
	postalCodeRe = regexp.MustCompile(`^\d{5}$`)
	phoneFrRe    = regexp.MustCompile(`^(?:(?:\+|00)33|0)[1-9]\d{8}$`)
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVRe    = regexp.MustCompile(`^\d{3,4}$`)
)

var messages = map[string]string{
	"required":       "required",
	"notblank":       "required",
	"postal_code_fr": "invalid postal code (5 digits)",
	"phone_fr":       "invalid phone number",
	"card_number":    "invalid card number (16 digits)",
	"card_expiry":    "invalid format (MM/YY)",
	"card_cvv":       "invalid CVV (3-4 digits)",
	"oneof":          "unsupported value",
	"email":          "invalid email",
	"mixed_case":     "must contain upper and lower case letters",
	"has_digit":      "must contain at least one digit",
	"eqfield":        "passwords do not match",
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	custom := map[string]validator.Func{
		"notblank":       notBlank,
		"trimmed_min":    trimmedMin,
		"postal_code_fr": matchRe(postalCodeRe, false),
		"phone_fr":       matchRe(phoneFrRe, true),
		"card_number":    matchRe(cardNumberRe, true),
		"card_expiry":    matchRe(cardExpiryRe, false),
		"card_cvv":       matchRe(cardCVVRe, false),
		"mixed_case":     mixedCase,
		"has_digit":      hasDigit,
	}
	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err) // develop mistake
		}
	}
}

// Errors maps a form field (JSON name) to a message.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	fields := slices.Sorted(maps.Keys(e.Fields))
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(fields, ", "))
}

func (e *Errors) Unwrap() error {
	return ErrInvalid
}

func (e *Errors) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *Errors) collect(err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		e.add("form", err.Error())
		return
	}
	for _, fe := range verrs {
		e.add(fe.Field(), message(fe))
	}
}

func (e *Errors) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidateCheckout checks the shipping address and, for card payments,
// the card details.
func ValidateCheckout(f domain.CheckoutForm) error {
	var errs Errors

	if err := validate.Struct(f.ShippingAddress); err != nil {
		errs.collect(err)
	}

	if err := validate.Var(string(f.PaymentMethod), "oneof=card paypal cash"); err != nil {
		errs.add("payment_method", messages["oneof"])
	}

	if f.PaymentMethod == domain.CheckoutCard {
		if f.CardDetails == nil {
			errs.add("card_details", messages["required"])
		} else if err := validate.Struct(*f.CardDetails); err != nil {
			errs.collect(err)
		}
	}

	return errs.errOrNil()
}

func ValidateRegistration(r domain.Registration) error {
	var errs Errors
	if err := validate.Struct(r); err != nil {
		errs.collect(err)
	}
	return errs.errOrNil()
}

func ValidateContact(m domain.ContactMessage) error {
	var errs Errors
	if err := validate.Struct(m); err != nil {
		errs.collect(err)
	}
	return errs.errOrNil()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "trimmed_min":
		return fmt.Sprintf("minimum %s characters", fe.Param())
	}
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	return "invalid value"
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len([]rune(strings.TrimSpace(fl.Field().String()))) >= n
}

// matchRe matches a string field; stripSpaces removes whitespace first, as
// shoppers type card and phone numbers in groups.
func matchRe(re *regexp.Regexp, stripSpaces bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if stripSpaces {
			v = strings.Join(strings.Fields(v), "")
		}
		return re.MatchString(v)
	}
}

func mixedCase(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return strings.IndexFunc(v, unicode.IsLower) >= 0 &&
		strings.IndexFunc(v, unicode.IsUpper) >= 0
}

func hasDigit(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
}
