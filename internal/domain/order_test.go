package domain_test

import (
	"testing"
	"time"

	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransition(t *testing.T) {
	tests := []struct {
		name      string
		from      domain.OrderStatus
		to        domain.OrderStatus
		wantError error
	}{
		{name: "pending to processing: ok", from: domain.OrderStatusPending, to: domain.OrderStatusProcessing},
		{name: "pending to cancelled: ok", from: domain.OrderStatusPending, to: domain.OrderStatusCancelled},
		{name: "processing to shipped: ok", from: domain.OrderStatusProcessing, to: domain.OrderStatusShipped},
		{name: "processing to cancelled: ok", from: domain.OrderStatusProcessing, to: domain.OrderStatusCancelled},
		{name: "shipped to delivered: ok", from: domain.OrderStatusShipped, to: domain.OrderStatusDelivered},
		{name: "same status: no-op", from: domain.OrderStatusShipped, to: domain.OrderStatusShipped},
		{name: "pending to shipped: error", from: domain.OrderStatusPending, to: domain.OrderStatusShipped, wantError: domain.ErrInvalidTransition},
		{name: "shipped to cancelled: error", from: domain.OrderStatusShipped, to: domain.OrderStatusCancelled, wantError: domain.ErrInvalidTransition},
		{name: "processing to pending: error", from: domain.OrderStatusProcessing, to: domain.OrderStatusPending, wantError: domain.ErrInvalidTransition},
		{name: "delivered to processing: error", from: domain.OrderStatusDelivered, to: domain.OrderStatusProcessing, wantError: domain.ErrInvalidTransition},
		{name: "cancelled to pending: error", from: domain.OrderStatusCancelled, to: domain.OrderStatusPending, wantError: domain.ErrInvalidTransition},
		{name: "delivered to cancelled: error", from: domain.OrderStatusDelivered, to: domain.OrderStatusCancelled, wantError: domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.Order{Status: tt.from}

			err := order.Transition(tt.to, time.Now())
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				assert.Equal(t, tt.from, order.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
		})
	}
}

func TestOrderTransition_StampsOnce(t *testing.T) {
	order := domain.Order{Status: domain.OrderStatusProcessing}

	shippedAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, order.Transition(domain.OrderStatusShipped, shippedAt))
	require.NotNil(t, order.ShippedAt)
	assert.Equal(t, shippedAt, *order.ShippedAt)

	// re-applying shipped keeps the first stamp
	require.NoError(t, order.Transition(domain.OrderStatusShipped, shippedAt.Add(time.Hour)))
	assert.Equal(t, shippedAt, *order.ShippedAt)

	deliveredAt := shippedAt.Add(48 * time.Hour)
	require.NoError(t, order.Transition(domain.OrderStatusDelivered, deliveredAt))
	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, deliveredAt, *order.DeliveredAt)
	assert.Equal(t, shippedAt, *order.ShippedAt)

	for _, next := range []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
		domain.OrderStatusCancelled,
	} {
		require.ErrorIs(t, order.Transition(next, time.Now()), domain.ErrInvalidTransition)
	}
	assert.Equal(t, deliveredAt, *order.DeliveredAt)
}

func TestOrderAccess(t *testing.T) {
	order := domain.Order{
		BuyerID: "buyer-1",
		Lines: []domain.OrderLine{
			{SellerID: "seller-1"},
			{SellerID: "seller-2"},
			{SellerID: "seller-1"},
		},
	}

	tests := []struct {
		name       string
		who        domain.Identity
		wantView   bool
		wantManage bool
	}{
		{name: "owning buyer", who: domain.Identity{ID: "buyer-1", Role: domain.RoleBuyer}, wantView: true},
		{name: "other buyer", who: domain.Identity{ID: "buyer-2", Role: domain.RoleBuyer}},
		{name: "seller with line", who: domain.Identity{ID: "seller-2", Role: domain.RoleSeller}, wantView: true, wantManage: true},
		{name: "seller without line", who: domain.Identity{ID: "seller-3", Role: domain.RoleSeller}},
		{name: "operator", who: domain.Identity{ID: "op", Role: domain.RoleOperator}, wantView: true, wantManage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantView, order.CanView(tt.who))
			assert.Equal(t, tt.wantManage, order.CanManage(tt.who))
		})
	}

	assert.Equal(t, []string{"seller-1", "seller-2"}, order.SellerIDs())
}
