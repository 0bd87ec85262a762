package domain

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type Cart struct {
	ID      uuid.UUID
	OwnerID string
	// SellerID scopes a cart to one seller. Only the generic cart (nil) is used.
	SellerID *string
	Lines    []CartLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine carries the item's live name and price, read at load time.
type CartLine struct {
	ItemID    uuid.UUID
	Quantity  int
	ItemName  string
	UnitPrice Money

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartLineInput struct {
	ItemID   uuid.UUID
	Quantity int
}

func (l CartLine) Total() Money {
	return l.UnitPrice.Times(l.Quantity)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total is a preview priced at the items' current prices.
func (c Cart) Total(fallback currency.Unit) (Money, error) {
	totals := make([]Money, 0, len(c.Lines))
	for _, l := range c.Lines {
		totals = append(totals, l.Total())
	}

	return SumMoney(fallback, totals...)
}

// SortedLines returns the lines ordered by item id.
func (c Cart) SortedLines() []CartLine {
	lines := slices.Clone(c.Lines)
	slices.SortFunc(lines, func(a, b CartLine) int {
		return compareUUID(a.ItemID, b.ItemID)
	})

	return lines
}

// NormalizeLineInputs validates quantities and collapses duplicate items,
// the last occurrence winning. The result is ordered by item id.
func NormalizeLineInputs(inputs []CartLineInput) ([]CartLineInput, error) {
	byItem := make(map[uuid.UUID]int, len(inputs))
	for _, in := range inputs {
		if in.ItemID == uuid.Nil {
			return nil, ErrInvalidInput
		}
		if !ValidQuantity(in.Quantity) {
			return nil, ErrInvalidQuantity
		}
		byItem[in.ItemID] = in.Quantity
	}

	result := make([]CartLineInput, 0, len(byItem))
	for id, qty := range byItem {
		result = append(result, CartLineInput{ItemID: id, Quantity: qty})
	}
	slices.SortFunc(result, func(a, b CartLineInput) int {
		return compareUUID(a.ItemID, b.ItemID)
	})

	return result, nil
}

func compareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
