// Package inputval validates request input. Struct-tag validation runs on
// go-playground/validator; the `label` tag supplies the human-readable
// field name used in messages shown back to the user.
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report the label tag (falling back to the field name) so
		// messages read "City is required", not "CityCI is required".
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})
		validate = v
	})
	return validate
}

// Result holds per-field validation failures in declaration order.
type Result struct {
	errs   []string
	fields map[string]string
}

// HasErrors reports whether any field failed validation.
func (r Result) HasErrors() bool { return len(r.errs) > 0 }

// First returns the first failure message, or "" if validation passed.
func (r Result) First() string {
	if len(r.errs) == 0 {
		return ""
	}
	return r.errs[0]
}

// All returns every failure message.
func (r Result) All() []string { return r.errs }

// Field returns the failure message for the given label, or "".
func (r Result) Field(label string) string { return r.fields[label] }

// Validate runs struct-tag validation on input and converts validator
// errors into user-facing messages.
func Validate(input any) Result {
	err := engine().Struct(input)
	if err == nil {
		return Result{}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{errs: []string{"Invalid input."}}
	}

	res := Result{fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msg := message(fe)
		res.errs = append(res.errs, msg)
		if _, dup := res.fields[fe.Field()]; !dup {
			res.fields[fe.Field()] = msg
		}
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more.", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less.", label, fe.Param())
	case "email":
		return label + " must be a valid email address."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return label + " is invalid."
	}
}

// IsValidEmail reports whether s looks like a deliverable email address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return engine().Var(s, "email") == nil
}

// Allowed genders for profile listings.
var genders = []string{"male", "female"}

// IsValidGender reports whether g is an accepted gender value.
func IsValidGender(g string) bool {
	g = strings.ToLower(strings.TrimSpace(g))
	for _, v := range genders {
		if g == v {
			return true
		}
	}
	return false
}

// Allowed payment methods.
var paymentMethods = []string{"bank_transfer", "jazzcash", "easypaisa"}

// IsValidPaymentMethod reports whether m is an accepted payment method.
func IsValidPaymentMethod(m string) bool {
	m = strings.ToLower(strings.TrimSpace(m))
	for _, v := range paymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// PaymentMethodsList returns the accepted payment methods in display order.
func PaymentMethodsList() []string {
	out := make([]string, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}
