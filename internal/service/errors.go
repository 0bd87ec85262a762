package service

import (
	"errors"

	"github.com/nikolayk812/checkout-demo/internal/domain"
)

var validationErrors = []error{
	domain.ErrForbiddenRole,
	domain.ErrEmptyCart,
	domain.ErrInvalidShippingTarget,
	domain.ErrItemNotFound,
	domain.ErrLineNotFound,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidInput,
	domain.ErrCurrencyMismatch,
	domain.ErrOrderNotFound,
	domain.ErrInvalidTransition,
	domain.ErrStaleOrder,
	domain.ErrCheckoutInProgress,
	domain.ErrOrderUserNotFound,
	domain.ErrOrderUserInUse,
}

// IsValidation reports whether err is an outcome the caller can correct,
// as opposed to a system fault.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
