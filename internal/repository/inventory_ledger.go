package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

// inventoryLedger decrements with a single conditional UPDATE. The row lock it
// takes is held until the enclosing transaction ends, so concurrent checkouts
// of the same item queue behind each other and re-evaluate the stock condition.
type inventoryLedger struct {
	q *db.Queries
}

func (l *inventoryLedger) ReserveAndDecrement(ctx context.Context, itemID uuid.UUID, quantity int) (domain.Item, error) {
	if !domain.ValidQuantity(quantity) {
		return domain.Item{}, domain.ErrInvalidQuantity
	}

	row, err := l.q.DecrementItemQuantity(ctx, db.DecrementItemQuantityParams{
		Quantity: int32(quantity),
		ID:       itemID,
	})
	if err == nil {
		return mapItemToDomain(row)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, fmt.Errorf("q.DecrementItemQuantity: %w", err)
	}

	stock, err := l.q.GetItemStock(ctx, itemID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, &domain.ItemNotFoundError{ItemID: itemID}
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("q.GetItemStock: %w", err)
	}

	available := int(stock.Quantity)
	if !stock.IsActive {
		available = 0
	}

	return domain.Item{}, &domain.InsufficientStockError{
		ItemID:    itemID,
		Requested: quantity,
		Available: available,
	}
}

func (l *inventoryLedger) Restock(ctx context.Context, itemID uuid.UUID, quantity int) (int, error) {
	if !domain.ValidQuantity(quantity) {
		return 0, domain.ErrInvalidQuantity
	}

	newQuantity, err := l.q.IncrementItemQuantity(ctx, db.IncrementItemQuantityParams{
		Quantity: int32(quantity),
		ID:       itemID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &domain.ItemNotFoundError{ItemID: itemID}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlStateNumericOutOfRange {
		return 0, fmt.Errorf("%w: stock of item[%s] would exceed %d", domain.ErrInvalidQuantity, itemID, domain.MaxQuantity)
	}
	if err != nil {
		return 0, fmt.Errorf("q.IncrementItemQuantity: %w", err)
	}

	return int(newQuantity), nil
}
