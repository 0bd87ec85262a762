package repository_test

import (
	"testing"
	"time"

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

type orderRepositorySuite struct {
	suite.Suite
	database

	tx port.Transactor
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

func (suite *orderRepositorySuite) SetupSuite() {
	t := suite.T()
	suite.start(t)

	var err error
	suite.tx, err = repository.NewTransactor(suite.pool, 3, zaptest.NewLogger(t))
	require.NoError(t, err)
}

func (suite *orderRepositorySuite) TearDownSuite() {
	suite.stop(suite.T())
}

func (suite *orderRepositorySuite) TestCreateOrder() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()

	buyerID := gofakeit.UUID()
	user := seedOrderUser(t, repos, buyerID)
	order := randomOrder(buyerID, user, gofakeit.UUID(), gofakeit.UUID())

	created, err := repos.Orders.CreateOrder(ctx, order)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	for _, l := range created.Lines {
		assert.NotEqual(t, uuid.Nil, l.ID)
		assert.False(t, l.CreatedAt.IsZero())
	}

	got, err := repos.Orders.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assertOrder(t, created, got)

	_, err = repos.Orders.GetOrder(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func (suite *orderRepositorySuite) TestCreateOrder_UnknownOrderUser() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()

	buyerID := gofakeit.UUID()
	order := randomOrder(buyerID, domain.OrderUser{ID: uuid.New(), BuyerID: buyerID}, gofakeit.UUID())

	_, err := suite.tx.Repositories().Orders.CreateOrder(ctx, order)
	require.Error(t, err)

	orders, err := suite.tx.Repositories().Orders.ListBuyerOrders(ctx, buyerID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func (suite *orderRepositorySuite) TestListOrders() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()

	buyerA, buyerB := gofakeit.UUID(), gofakeit.UUID()
	sellerX, sellerY := gofakeit.UUID(), gofakeit.UUID()

	userA := seedOrderUser(t, repos, buyerA)
	userB := seedOrderUser(t, repos, buyerB)

	first, err := repos.Orders.CreateOrder(ctx, randomOrder(buyerA, userA, sellerX))
	require.NoError(t, err)
	second, err := repos.Orders.CreateOrder(ctx, randomOrder(buyerA, userA, sellerX, sellerY))
	require.NoError(t, err)
	third, err := repos.Orders.CreateOrder(ctx, randomOrder(buyerB, userB, sellerY))
	require.NoError(t, err)

	tests := []struct {
		name string
		list func() ([]domain.Order, error)
		want []uuid.UUID
	}{
		{
			name: "buyer sees own orders",
			list: func() ([]domain.Order, error) { return repos.Orders.ListBuyerOrders(ctx, buyerA) },
			want: []uuid.UUID{first.ID, second.ID},
		},
		{
			name: "seller sees orders with own lines",
			list: func() ([]domain.Order, error) { return repos.Orders.ListSellerOrders(ctx, sellerY) },
			want: []uuid.UUID{second.ID, third.ID},
		},
		{
			name: "all orders",
			list: func() ([]domain.Order, error) { return repos.Orders.ListOrders(ctx) },
			want: []uuid.UUID{first.ID, second.ID, third.ID},
		},
		{
			name: "unknown buyer",
			list: func() ([]domain.Order, error) { return repos.Orders.ListBuyerOrders(ctx, gofakeit.UUID()) },
			want: nil,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			orders, err := tt.list()
			require.NoError(t, err)

			ids := make([]uuid.UUID, 0, len(orders))
			for _, o := range orders {
				ids = append(ids, o.ID)
				assert.NotEmpty(t, o.Lines, "lines are loaded")
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}

	// a seller's view still carries the full order
	orders, err := repos.Orders.ListSellerOrders(ctx, sellerX)
	require.NoError(t, err)
	for _, o := range orders {
		if o.ID == second.ID {
			assert.Len(t, o.Lines, 2)
		}
	}
}

func (suite *orderRepositorySuite) TestUpdateFulfillment() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()

	buyerID := gofakeit.UUID()
	user := seedOrderUser(t, repos, buyerID)
	created, err := repos.Orders.CreateOrder(ctx, randomOrder(buyerID, user, gofakeit.UUID()))
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	tracking := gofakeit.LetterN(12)
	eta := now.Add(72 * time.Hour)

	processing := domain.OrderStatusProcessing
	order := created
	require.NoError(t, order.Apply(domain.FulfillmentUpdate{
		Status:            &processing,
		TrackingNumber:    &tracking,
		EstimatedDelivery: &eta,
	}, now))

	require.NoError(t, repos.Orders.UpdateFulfillment(ctx, order, domain.OrderStatusPending))

	got, err := repos.Orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, got.Status)
	require.NotNil(t, got.TrackingNumber)
	assert.Equal(t, tracking, *got.TrackingNumber)
	require.NotNil(t, got.EstimatedDelivery)
	assert.True(t, eta.Equal(*got.EstimatedDelivery))

	// the stored status is no longer pending
	err = repos.Orders.UpdateFulfillment(ctx, order, domain.OrderStatusPending)
	require.ErrorIs(t, err, domain.ErrStaleOrder)

	shipped := domain.OrderStatusShipped
	require.NoError(t, order.Apply(domain.FulfillmentUpdate{Status: &shipped}, now))
	require.NoError(t, repos.Orders.UpdateFulfillment(ctx, order, domain.OrderStatusProcessing))

	got, err = repos.Orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)
	require.NotNil(t, got.ShippedAt)
	assert.True(t, now.Equal(*got.ShippedAt))
	assert.Nil(t, got.DeliveredAt)
}

func (suite *orderRepositorySuite) TestOrderUsers() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()

	buyerID := gofakeit.UUID()
	first := seedOrderUser(t, repos, buyerID)
	second := seedOrderUser(t, repos, buyerID)
	seedOrderUser(t, repos, gofakeit.UUID())

	got, ok, err := repos.OrderUsers.GetOrderUser(ctx, first.ID, buyerID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(first, got))

	_, ok, err = repos.OrderUsers.GetOrderUser(ctx, first.ID, gofakeit.UUID())
	require.NoError(t, err)
	assert.False(t, ok, "owned by another buyer")

	_, ok, err = repos.OrderUsers.GetOrderUser(ctx, uuid.New(), buyerID)
	require.NoError(t, err)
	assert.False(t, ok)

	users, err := repos.OrderUsers.ListOrderUsers(ctx, buyerID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]domain.OrderUser{first, second}, users,
		cmpopts.SortSlices(func(a, b domain.OrderUser) bool { return a.ID.String() < b.ID.String() })))

	_, err = repos.OrderUsers.CreateOrderUser(ctx, domain.OrderUser{Address: gofakeit.Street()})
	require.EqualError(t, err, "buyerID is empty")
}

func randomOrder(buyerID string, user domain.OrderUser, sellerIDs ...string) domain.Order {
	unit := currency.MustParseISO("INR")

	order := domain.Order{
		BuyerID:    buyerID,
		BuyerEmail: gofakeit.Email(),
		OrderUser:  user,
		Status:     domain.OrderStatusPending,
	}

	totals := make([]domain.Money, 0, len(sellerIDs))
	for _, sellerID := range sellerIDs {
		price := money("10.25", unit)
		line := domain.OrderLine{
			ItemID:    uuid.New(),
			SellerID:  sellerID,
			ItemName:  gofakeit.ProductName(),
			UnitPrice: price,
			Quantity:  gofakeit.IntRange(1, 5),
		}
		order.Lines = append(order.Lines, line)
		totals = append(totals, line.Total())
	}

	total, err := domain.SumMoney(unit, totals...)
	if err != nil {
		panic(err)
	}
	order.TotalAmount = total

	return order
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.SortSlices(func(a, b domain.OrderLine) bool { return a.ItemID.String() < b.ItemID.String() }),
		currencyComparer,
	}

	assert.Empty(t, cmp.Diff(expected, actual, opts))
}

func (suite *orderRepositorySuite) TestOrderUsers_UpdateAndDelete() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()
	repos := suite.tx.Repositories()

	buyerID := gofakeit.UUID()
	used := seedOrderUser(t, repos, buyerID)
	spare := seedOrderUser(t, repos, buyerID)

	_, err := repos.Orders.CreateOrder(ctx, randomOrder(buyerID, used, gofakeit.UUID()))
	require.NoError(t, err)

	referenced, err := repos.OrderUsers.IsOrderUserReferenced(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = repos.OrderUsers.IsOrderUserReferenced(ctx, spare.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	change := spare
	change.City = gofakeit.City()
	change.BuyerID = gofakeit.UUID()
	updated, err := repos.OrderUsers.UpdateOrderUser(ctx, change)
	require.NoError(t, err)
	assert.Equal(t, change.City, updated.City)
	assert.Equal(t, buyerID, updated.BuyerID, "the owner never changes")

	_, err = repos.OrderUsers.UpdateOrderUser(ctx, domain.OrderUser{ID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrOrderUserNotFound)

	err = repos.OrderUsers.DeleteOrderUser(ctx, used.ID)
	require.ErrorIs(t, err, domain.ErrOrderUserInUse)

	require.NoError(t, repos.OrderUsers.DeleteOrderUser(ctx, spare.ID))
	err = repos.OrderUsers.DeleteOrderUser(ctx, spare.ID)
	require.ErrorIs(t, err, domain.ErrOrderUserNotFound)

	users, err := repos.OrderUsers.ListOrderUsers(ctx, buyerID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, used.ID, users[0].ID)
}

// A checkout holding the target keeps an edit waiting until it commits.
func (suite *orderRepositorySuite) TestLockOrderUser_WaitsForShare() {
	defer suite.truncate(suite.T())

	t := suite.T()
	ctx := t.Context()

	buyerID := gofakeit.UUID()
	user := seedOrderUser(t, suite.tx.Repositories(), buyerID)

	shared := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- suite.tx.InTx(ctx, func(repos port.Repositories) error {
			if _, _, err := repos.OrderUsers.ShareOrderUser(ctx, user.ID, buyerID); err != nil {
				return err
			}
			close(shared)
			<-release

			_, err := repos.Orders.CreateOrder(ctx, randomOrder(buyerID, user, gofakeit.UUID()))
			return err
		})
	}()
	<-shared

	var referenced bool
	locked := make(chan error, 1)
	go func() {
		locked <- suite.tx.InTx(ctx, func(repos port.Repositories) error {
			if _, _, err := repos.OrderUsers.LockOrderUser(ctx, user.ID, buyerID); err != nil {
				return err
			}

			var err error
			referenced, err = repos.OrderUsers.IsOrderUserReferenced(ctx, user.ID)
			return err
		})
	}()

	select {
	case err := <-locked:
		t.Fatalf("lock taken while shared: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	require.NoError(t, <-locked)
	assert.True(t, referenced, "the committed order is seen after the lock")
}
