package repository_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"github.com/nikolayk812/checkout-demo/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/currency"
)

type inventorySuite struct {
	suite.Suite
	database

	tx port.Transactor
}

func TestInventorySuite(t *testing.T) {
	suite.Run(t, new(inventorySuite))
}

func (suite *inventorySuite) SetupSuite() {
	t := suite.T()
	suite.start(t)

	var err error
	suite.tx, err = repository.NewTransactor(suite.pool, 3, zaptest.NewLogger(t))
	require.NoError(t, err)
}

func (suite *inventorySuite) TearDownSuite() {
	suite.stop(suite.T())
}

func (suite *inventorySuite) TestReserveAndDecrement() {
	defer suite.truncate(suite.T())

	tests := []struct {
		name          string
		stock         int
		inactive      bool
		quantity      int
		unknownItem   bool
		wantRemaining int
		wantStockErr  *domain.InsufficientStockError
		wantError     error
	}{
		{
			name:          "take part of the stock: ok",
			stock:         5,
			quantity:      2,
			wantRemaining: 3,
		},
		{
			name:          "take the whole stock: ok",
			stock:         5,
			quantity:      5,
			wantRemaining: 0,
		},
		{
			name:          "take more than on hand: insufficient stock",
			stock:         2,
			quantity:      3,
			wantRemaining: 2,
			wantStockErr:  &domain.InsufficientStockError{Requested: 3, Available: 2},
		},
		{
			name:          "inactive item: nothing available",
			stock:         5,
			inactive:      true,
			quantity:      1,
			wantRemaining: 5,
			wantStockErr:  &domain.InsufficientStockError{Requested: 1, Available: 0},
		},
		{
			name:          "zero quantity: invalid quantity",
			stock:         5,
			quantity:      0,
			wantRemaining: 5,
			wantError:     domain.ErrInvalidQuantity,
		},
		{
			name:          "quantity wrapping to one in 32 bits: invalid quantity",
			stock:         5,
			quantity:      1<<32 + 1,
			wantRemaining: 5,
			wantError:     domain.ErrInvalidQuantity,
		},
		{
			name:        "unknown item: not found",
			quantity:    1,
			unknownItem: true,
			wantError:   domain.ErrItemNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			repos := suite.tx.Repositories()

			item := seedItem(t, repos, gofakeit.UUID(), randomMoney(), tt.stock)
			if tt.inactive {
				item.Active = false
				_, err := repos.Items.UpdateItem(ctx, item)
				require.NoError(t, err)
			}

			itemID := item.ID
			if tt.unknownItem {
				itemID = uuid.New()
			}

			got, err := repos.Inventory.ReserveAndDecrement(ctx, itemID, tt.quantity)
			switch {
			case tt.wantStockErr != nil:
				var stockErr *domain.InsufficientStockError
				require.ErrorAs(t, err, &stockErr)
				assert.Equal(t, itemID, stockErr.ItemID)
				assert.Equal(t, tt.wantStockErr.Requested, stockErr.Requested)
				assert.Equal(t, tt.wantStockErr.Available, stockErr.Available)
			case tt.wantError != nil:
				require.ErrorIs(t, err, tt.wantError)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantRemaining, got.Quantity)
				assert.Equal(t, item.Name, got.Name)
				assert.Empty(t, cmp.Diff(item.Price, got.Price, currencyComparer))
			}

			if tt.unknownItem {
				return
			}
			stored, err := repos.Items.GetItem(ctx, itemID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, stored.Quantity)
		})
	}
}

func (suite *inventorySuite) TestRestock() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()
	item := seedItem(t, repos, gofakeit.UUID(), randomMoney(), 2)

	onHand, err := repos.Inventory.Restock(ctx, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, onHand)

	_, err = repos.Inventory.Restock(ctx, item.ID, 0)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = repos.Inventory.Restock(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = repos.Inventory.Restock(ctx, item.ID, 1<<32+1)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// 7 on hand plus the largest single restock does not fit the column
	_, err = repos.Inventory.Restock(ctx, item.ID, domain.MaxQuantity)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	stored, err := repos.Items.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity)

	onHand, err = repos.Inventory.Restock(ctx, item.ID, domain.MaxQuantity-7)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity, onHand)
}

// Concurrent reservations of one item never take more than is on hand.
func (suite *inventorySuite) TestReserveAndDecrement_Concurrent() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	item := seedItem(t, suite.tx.Repositories(), gofakeit.UUID(), randomMoney(), 7)

	const buyers = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
		failures  []error
	)
	for range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := suite.tx.InTx(ctx, func(repos port.Repositories) error {
				_, err := repos.Inventory.ReserveAndDecrement(ctx, item.ID, 1)
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, failures)
	assert.Equal(t, 7, succeeded)
	assert.Equal(t, buyers-7, rejected)

	stored, err := suite.tx.Repositories().Items.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Quantity)
}

func (suite *inventorySuite) TestInTx_Rollback() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	itemA := seedItem(t, suite.tx.Repositories(), gofakeit.UUID(), randomMoney(), 5)
	itemB := seedItem(t, suite.tx.Repositories(), gofakeit.UUID(), randomMoney(), 0)

	err := suite.tx.InTx(ctx, func(repos port.Repositories) error {
		if _, err := repos.Inventory.ReserveAndDecrement(ctx, itemA.ID, 2); err != nil {
			return err
		}
		_, err := repos.Inventory.ReserveAndDecrement(ctx, itemB.ID, 1)
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, err := suite.tx.Repositories().Items.GetItem(ctx, itemA.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Quantity, "the first decrement is rolled back")
}

func (suite *inventorySuite) TestItems() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()

	inr := currency.MustParseISO("INR")
	created := seedItem(t, repos, gofakeit.UUID(), money("12.50", inr), 3)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repos.Items.GetItem(ctx, created.ID)
	require.NoError(t, err)
	opts := cmp.Options{currencyComparer}
	assert.Empty(t, cmp.Diff(created, got, opts))

	_, err = repos.Items.GetItem(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	update := created
	update.Name = gofakeit.ProductName()
	update.Price = money("15.00", inr)
	update.Quantity = 100
	update.Active = false
	updated, err := repos.Items.UpdateItem(ctx, update)
	require.NoError(t, err)

	want := update
	want.Quantity = created.Quantity
	assert.Empty(t, cmp.Diff(want, updated, cmpopts.IgnoreFields(domain.Item{}, "UpdatedAt"), currencyComparer))

	unknown := created
	unknown.ID = uuid.New()
	_, err = repos.Items.UpdateItem(ctx, unknown)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func (suite *inventorySuite) TestActiveItemIDs() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()

	active := seedItem(t, repos, gofakeit.UUID(), randomMoney(), 1)
	inactive := seedItem(t, repos, gofakeit.UUID(), randomMoney(), 1)
	inactive.Active = false
	_, err := repos.Items.UpdateItem(ctx, inactive)
	require.NoError(t, err)

	ids, err := repos.Items.ActiveItemIDs(ctx, []uuid.UUID{active.ID, inactive.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{active.ID}, ids)

	ids, err = repos.Items.ActiveItemIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func (suite *inventorySuite) TestDeleteItem() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()

	item := seedItem(t, repos, gofakeit.UUID(), randomMoney(), 3)
	kept := seedItem(t, repos, gofakeit.UUID(), randomMoney(), 3)

	cart, err := repos.Carts.GetOrCreate(ctx, gofakeit.UUID())
	require.NoError(t, err)
	require.NoError(t, repos.Carts.UpsertLines(ctx, cart.ID, []domain.CartLineInput{
		{ItemID: item.ID, Quantity: 1},
		{ItemID: kept.ID, Quantity: 1},
	}))

	require.NoError(t, repos.Items.DeleteItem(ctx, item.ID))

	_, err = repos.Items.GetItem(ctx, item.ID)
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	err = repos.Items.DeleteItem(ctx, item.ID)
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	cart, err = repos.Carts.GetOrCreate(ctx, cart.OwnerID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, kept.ID, cart.Lines[0].ItemID)
}
