package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the stores wraps exactly one of these so
// callers can branch with errors.Is without knowing the concrete error.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("authentication failed")
)

var (
	ErrEmailTaken       = fmt.Errorf("%w: user with this email already exists", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	ErrEmptyCart        = fmt.Errorf("%w: cart is empty", ErrValidation)

	ErrNoImages              = fmt.Errorf("%w: a product needs at least one image", ErrValidation)
	ErrOriginalPriceConflict = fmt.Errorf("%w: originalPrice cannot be set and cleared at once", ErrValidation)

	ErrUserNotFound    = fmt.Errorf("%w: user not found, please sign up first", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("%w: product not found", ErrNotFound)

	ErrInvalidPassword = fmt.Errorf("%w: invalid password", ErrAuth)
)
