package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

// CreateOrder inserts the order and its lines. Line totals are never stored.
func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.Lines = slices.Clone(order.Lines)

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Order, error) {
		created, err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:            order.ID,
			OrderUserID:   order.OrderUser.ID,
			BuyerID:       order.BuyerID,
			BuyerEmail:    order.BuyerEmail,
			Status:        string(order.Status),
			TotalAmount:   order.TotalAmount.Amount,
			TotalCurrency: order.TotalAmount.Currency.String(),
		})
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.InsertOrder: %w", err)
		}
		order.CreatedAt = created.CreatedAt
		order.UpdatedAt = created.UpdatedAt

		for i, line := range order.Lines {
			if line.ID == uuid.Nil {
				line.ID = uuid.New()
			}

			createdAt, err := q.InsertOrderLine(ctx, db.InsertOrderLineParams{
				ID:            line.ID,
				OrderID:       order.ID,
				ItemID:        line.ItemID,
				SellerID:      line.SellerID,
				ItemName:      line.ItemName,
				PriceAmount:   line.UnitPrice.Amount,
				PriceCurrency: line.UnitPrice.Currency.String(),
				Quantity:      int32(line.Quantity),
			})
			if err != nil {
				return domain.Order{}, fmt.Errorf("q.InsertOrderLine[%s]: %w", line.ItemID, err)
			}

			line.CreatedAt = createdAt
			order.Lines[i] = line
		}

		return order, nil
	})
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	row, err := r.q.GetOrder(ctx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	orders, err := r.withLines(ctx, []db.OrderDetail{row})
	if err != nil {
		return domain.Order{}, err
	}

	return orders[0], nil
}

func (r *orderRepository) ListBuyerOrders(ctx context.Context, buyerID string) ([]domain.Order, error) {
	rows, err := r.q.ListOrdersByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrdersByBuyer: %w", err)
	}

	return r.withLines(ctx, rows)
}

func (r *orderRepository) ListSellerOrders(ctx context.Context, sellerID string) ([]domain.Order, error) {
	rows, err := r.q.ListOrdersBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrdersBySeller: %w", err)
	}

	return r.withLines(ctx, rows)
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.q.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrders: %w", err)
	}

	return r.withLines(ctx, rows)
}

func (r *orderRepository) UpdateFulfillment(ctx context.Context, order domain.Order, expected domain.OrderStatus) error {
	rowsAffected, err := r.q.UpdateOrderFulfillment(ctx, db.UpdateOrderFulfillmentParams{
		Status:            string(order.Status),
		TrackingNumber:    order.TrackingNumber,
		EstimatedDelivery: order.EstimatedDelivery,
		ShippedAt:         order.ShippedAt,
		DeliveredAt:       order.DeliveredAt,
		ID:                order.ID,
		ExpectedStatus:    string(expected),
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderFulfillment: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrStaleOrder
	}

	return nil
}

func (r *orderRepository) withLines(ctx context.Context, rows []db.OrderDetail) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	lineRows, err := r.q.ListOrderLines(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrderLines: %w", err)
	}

	linesByOrder := make(map[uuid.UUID][]domain.OrderLine, len(rows))
	for _, lr := range lineRows {
		line, err := mapOrderLineToDomain(lr)
		if err != nil {
			return nil, fmt.Errorf("mapOrderLineToDomain: %w", err)
		}
		linesByOrder[lr.OrderID] = append(linesByOrder[lr.OrderID], line)
	}

	for _, row := range rows {
		order, err := mapOrderDetailToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderDetailToDomain: %w", err)
		}
		order.Lines = linesByOrder[row.ID]
		orders = append(orders, order)
	}

	return orders, nil
}

func mapOrderDetailToDomain(row db.OrderDetail) (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(row.TotalCurrency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.TotalCurrency, err)
	}

	return domain.Order{
		ID:         row.ID,
		BuyerID:    row.BuyerID,
		BuyerEmail: row.BuyerEmail,
		OrderUser: domain.OrderUser{
			ID:        row.OrderUserID,
			BuyerID:   row.BuyerID,
			PhoneNo:   row.PhoneNo,
			Address:   row.Address,
			City:      row.City,
			State:     row.State,
			Pincode:   row.Pincode,
			CreatedAt: row.OrderUserCreatedAt,
		},
		TotalAmount:       domain.Money{Amount: row.TotalAmount, Currency: parsedCurrency},
		Status:            domain.OrderStatus(row.Status),
		TrackingNumber:    row.TrackingNumber,
		EstimatedDelivery: row.EstimatedDelivery,
		ShippedAt:         row.ShippedAt,
		DeliveredAt:       row.DeliveredAt,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func mapOrderLineToDomain(row db.OrderLine) (domain.OrderLine, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.OrderLine{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderLine{
		ID:        row.ID,
		ItemID:    row.ItemID,
		SellerID:  row.SellerID,
		ItemName:  row.ItemName,
		UnitPrice: domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}
