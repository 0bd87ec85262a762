package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Validation errors are correctable by the caller.
var (
	ErrForbiddenRole         = errors.New("forbidden role")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidShippingTarget = errors.New("invalid shipping target")
	ErrItemNotFound          = errors.New("item not found")
	ErrLineNotFound          = errors.New("cart line not found")
	ErrInvalidQuantity       = errors.New("quantity out of range")
	ErrInvalidInput          = errors.New("invalid input")
	ErrCurrencyMismatch      = errors.New("currency mismatch")
	ErrOrderUserNotFound     = errors.New("shipping target not found")
)

// Business outcomes are expected under contention.
var (
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrOrderUserInUse guards shipping targets that orders already point at.
	ErrOrderUserInUse = errors.New("shipping target is used by an order")
)

// Order lifecycle errors.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStaleOrder        = errors.New("order was modified concurrently")
)

type InsufficientStockError struct {
	ItemID    uuid.UUID
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	name := e.ItemName
	if name == "" {
		name = e.ItemID.String()
	}

	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type ItemNotFoundError struct {
	ItemID uuid.UUID
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item[%s] not found", e.ItemID)
}

func (e *ItemNotFoundError) Unwrap() error {
	return ErrItemNotFound
}
