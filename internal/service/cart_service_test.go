package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/memstore"
	"github.com/nikolayk812/checkout-demo/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

func newCartService(t *testing.T) (*service.CartService, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	svc, err := service.NewCartService(store, currency.INR, zap.NewNop())
	require.NoError(t, err)

	return svc, store
}

func TestCartService_GetCart(t *testing.T) {
	svc, _ := newCartService(t)
	buyer := randomBuyer()

	first, err := svc.GetCart(t.Context(), buyer)
	require.NoError(t, err)

	second, err := svc.GetCart(t.Context(), buyer)
	require.NoError(t, err)

	assert.Equal(t, first.Cart.ID, second.Cart.ID)
	assert.True(t, second.Cart.IsEmpty())
	require.NotNil(t, second.Total)
	assert.True(t, second.Total.Amount.IsZero())
	assert.Equal(t, currency.INR, second.Total.Currency)
}

func TestCartService_ForbiddenRole(t *testing.T) {
	svc, _ := newCartService(t)

	for _, who := range []domain.Identity{randomSeller(), operator()} {
		_, err := svc.GetCart(t.Context(), who)
		assert.ErrorIs(t, err, domain.ErrForbiddenRole)

		_, err = svc.UpsertLines(t.Context(), who, []domain.CartLineInput{{ItemID: uuid.New(), Quantity: 1}})
		assert.ErrorIs(t, err, domain.ErrForbiddenRole)

		_, err = svc.RemoveLines(t.Context(), who, []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, domain.ErrForbiddenRole)

		_, err = svc.UpdateLineQuantity(t.Context(), who, uuid.New(), 1)
		assert.ErrorIs(t, err, domain.ErrForbiddenRole)
	}
}

func TestCartService_UpsertLines(t *testing.T) {
	svc, store := newCartService(t)
	seller := randomSeller()
	x := seedItem(t, store, seller.ID, inr("10.00"), 5)
	y := seedItem(t, store, seller.ID, inr("2.50"), 5)

	tests := []struct {
		name      string
		inputs    []domain.CartLineInput
		want      map[uuid.UUID]int
		wantTotal string
	}{
		{
			name:      "add two lines: ok",
			inputs:    []domain.CartLineInput{{ItemID: x.ID, Quantity: 1}, {ItemID: y.ID, Quantity: 2}},
			want:      map[uuid.UUID]int{x.ID: 1, y.ID: 2},
			wantTotal: "15.00",
		},
		{
			name:      "overwrite quantity: ok",
			inputs:    []domain.CartLineInput{{ItemID: x.ID, Quantity: 3}},
			want:      map[uuid.UUID]int{x.ID: 3, y.ID: 2},
			wantTotal: "35.00",
		},
		{
			name:      "last write wins within batch: ok",
			inputs:    []domain.CartLineInput{{ItemID: y.ID, Quantity: 4}, {ItemID: y.ID, Quantity: 1}},
			want:      map[uuid.UUID]int{x.ID: 3, y.ID: 1},
			wantTotal: "32.50",
		},
	}

	buyer := randomBuyer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.UpsertLines(t.Context(), buyer, tt.inputs)
			require.NoError(t, err)

			assert.Equal(t, tt.want, quantities(view.Cart))
			require.NotNil(t, view.Total)
			assert.Equal(t, tt.wantTotal, view.Total.Amount.StringFixed(2))
		})
	}
}

func TestCartService_UpsertLines_Idempotent(t *testing.T) {
	svc, store := newCartService(t)
	item := seedItem(t, store, randomSeller().ID, inr("10.00"), 5)
	buyer := randomBuyer()
	inputs := []domain.CartLineInput{{ItemID: item.ID, Quantity: 2}}

	first, err := svc.UpsertLines(t.Context(), buyer, inputs)
	require.NoError(t, err)

	second, err := svc.UpsertLines(t.Context(), buyer, inputs)
	require.NoError(t, err)

	assert.Equal(t, quantities(first.Cart), quantities(second.Cart))
	assert.Len(t, second.Cart.Lines, 1)
}

func TestCartService_UpsertLines_AllOrNothing(t *testing.T) {
	svc, store := newCartService(t)
	seller := randomSeller()
	known := seedItem(t, store, seller.ID, inr("10.00"), 5)
	inactive := seedItem(t, store, seller.ID, inr("10.00"), 5)
	inactive.Active = false
	_, err := store.Repositories().Items.UpdateItem(t.Context(), inactive)
	require.NoError(t, err)

	tests := []struct {
		name    string
		missing uuid.UUID
	}{
		{name: "unknown item: error", missing: uuid.New()},
		{name: "inactive item: error", missing: inactive.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buyer := randomBuyer()

			_, err := svc.UpsertLines(t.Context(), buyer, []domain.CartLineInput{
				{ItemID: known.ID, Quantity: 1},
				{ItemID: tt.missing, Quantity: 1},
			})
			require.ErrorIs(t, err, domain.ErrItemNotFound)

			var notFound *domain.ItemNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.missing, notFound.ItemID)

			view, err := svc.GetCart(t.Context(), buyer)
			require.NoError(t, err)
			assert.True(t, view.Cart.IsEmpty())
		})
	}
}

func TestCartService_UpsertLines_InvalidQuantity(t *testing.T) {
	svc, store := newCartService(t)
	item := seedItem(t, store, randomSeller().ID, inr("10.00"), 5)
	buyer := randomBuyer()

	tests := []struct {
		name     string
		quantity int
	}{
		{name: "zero", quantity: 0},
		{name: "negative", quantity: -1},
		{name: "one above the storage limit", quantity: domain.MaxQuantity + 1},
		{name: "wraps to one in 32 bits", quantity: 1<<32 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertLines(t.Context(), buyer, []domain.CartLineInput{{ItemID: item.ID, Quantity: tt.quantity}})
			require.ErrorIs(t, err, domain.ErrInvalidQuantity)

			view, err := svc.GetCart(t.Context(), buyer)
			require.NoError(t, err)
			assert.True(t, view.Cart.IsEmpty())
		})
	}

	view, err := svc.UpsertLines(t.Context(), buyer, []domain.CartLineInput{{ItemID: item.ID, Quantity: domain.MaxQuantity}})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity, quantities(view.Cart)[item.ID])
}

func TestCartService_UpsertLines_CurrencyMismatch(t *testing.T) {
	svc, store := newCartService(t)
	seller := randomSeller()
	rupees := seedItem(t, store, seller.ID, inr("10.00"), 5)
	euros := seedItem(t, store, seller.ID, domain.Money{Amount: inr("3.00").Amount, Currency: currency.EUR}, 5)
	buyer := randomBuyer()

	_, err := svc.UpsertLines(t.Context(), buyer, []domain.CartLineInput{{ItemID: rupees.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.UpsertLines(t.Context(), buyer, []domain.CartLineInput{{ItemID: euros.ID, Quantity: 1}})
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	view, err := svc.GetCart(t.Context(), buyer)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{rupees.ID: 1}, quantities(view.Cart))
}

func TestCartService_RemoveLines(t *testing.T) {
	svc, store := newCartService(t)
	seller := randomSeller()
	x := seedItem(t, store, seller.ID, inr("10.00"), 5)
	y := seedItem(t, store, seller.ID, inr("5.00"), 5)
	buyer := randomBuyer()

	_, err := svc.UpsertLines(t.Context(), buyer, []domain.CartLineInput{{ItemID: x.ID, Quantity: 1}, {ItemID: y.ID, Quantity: 1}})
	require.NoError(t, err)

	view, err := svc.RemoveLines(t.Context(), buyer, []uuid.UUID{x.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{y.ID: 1}, quantities(view.Cart))

	view, err = svc.RemoveLines(t.Context(), buyer, []uuid.UUID{x.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{y.ID: 1}, quantities(view.Cart))
}

func TestCartService_UpdateLineQuantity(t *testing.T) {
	svc, store := newCartService(t)
	item := seedItem(t, store, randomSeller().ID, inr("10.00"), 5)
	buyer := randomBuyer()

	_, err := svc.UpsertLines(t.Context(), buyer, []domain.CartLineInput{{ItemID: item.ID, Quantity: 1}})
	require.NoError(t, err)

	tests := []struct {
		name      string
		itemID    uuid.UUID
		quantity  int
		wantError error
	}{
		{name: "existing line: ok", itemID: item.ID, quantity: 4},
		{name: "absent line: error", itemID: uuid.New(), quantity: 1, wantError: domain.ErrLineNotFound},
		{name: "zero quantity: error", itemID: item.ID, quantity: 0, wantError: domain.ErrInvalidQuantity},
		{name: "quantity above the storage limit: error", itemID: item.ID, quantity: domain.MaxQuantity + 1, wantError: domain.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.UpdateLineQuantity(t.Context(), buyer, tt.itemID, tt.quantity)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quantity, quantities(view.Cart)[tt.itemID])
		})
	}
}

func quantities(cart domain.Cart) map[uuid.UUID]int {
	result := make(map[uuid.UUID]int, len(cart.Lines))
	for _, l := range cart.Lines {
		result[l.ItemID] = l.Quantity
	}

	return result
}
