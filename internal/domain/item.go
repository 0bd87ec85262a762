package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest line quantity or stock level storage can hold.
const MaxQuantity = math.MaxInt32

// maxPrice is the first amount a NUMERIC(10, 2) column cannot hold.
var maxPrice = decimal.New(1, 8)

// ValidQuantity reports whether q is a positive quantity storage can hold.
func ValidQuantity(q int) bool {
	return q >= 1 && q <= MaxQuantity
}

type Item struct {
	ID       uuid.UUID
	SellerID string
	Name     string
	Price    Money
	// Quantity is the on-hand stock; it only changes through the inventory ledger.
	Quantity int
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i Item) InStock() bool {
	return i.Quantity > 0
}

func (i Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: item name is empty", ErrInvalidInput)
	}
	if i.Price.Amount.IsNegative() {
		return fmt.Errorf("%w: price is negative", ErrInvalidInput)
	}
	if !i.Price.Amount.Equal(i.Price.Amount.Round(2)) {
		return fmt.Errorf("%w: price has more than 2 decimal places", ErrInvalidInput)
	}
	if i.Price.Amount.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: price must be below %s", ErrInvalidInput, maxPrice)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity is negative", ErrInvalidInput)
	}
	if i.Quantity > MaxQuantity {
		return fmt.Errorf("%w: quantity above %d", ErrInvalidQuantity, MaxQuantity)
	}

	return nil
}

// ItemUpdate carries the catalog fields a seller may change; nil means unchanged.
// Stock is changed through the inventory ledger only.
type ItemUpdate struct {
	Name   *string
	Price  *Money
	Active *bool
}

func (u ItemUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.Active == nil
}

func (i *Item) Apply(u ItemUpdate) {
	if u.Name != nil {
		i.Name = *u.Name
	}
	if u.Price != nil {
		i.Price = *u.Price
	}
	if u.Active != nil {
		i.Active = *u.Active
	}
}
