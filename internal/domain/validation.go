package domain

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// EmailTag is the validator tag for the storefront email shape
const EmailTag = "storeemail"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the local@domain.tld shape
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// RegisterValidations installs the storefront tags on v
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation(EmailTag, func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
}

// NewValidator returns a validator with the storefront tags registered
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
