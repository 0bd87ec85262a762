package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"golang.org/x/text/currency"
)

type itemRepository struct {
	q *db.Queries
}

func (r *itemRepository) GetItem(ctx context.Context, itemID uuid.UUID) (domain.Item, error) {
	row, err := r.q.GetItem(ctx, itemID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, &domain.ItemNotFoundError{ItemID: itemID}
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("q.GetItem: %w", err)
	}

	return mapItemToDomain(row)
}

func (r *itemRepository) ActiveItemIDs(ctx context.Context, itemIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	ids, err := r.q.ListActiveItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("q.ListActiveItemIDs: %w", err)
	}

	return ids, nil
}

func (r *itemRepository) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	if item.Quantity < 0 || item.Quantity > domain.MaxQuantity {
		return domain.Item{}, fmt.Errorf("%w: stock %d", domain.ErrInvalidQuantity, item.Quantity)
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	row, err := r.q.InsertItem(ctx, db.InsertItemParams{
		ID:            item.ID,
		SellerID:      item.SellerID,
		Name:          item.Name,
		PriceAmount:   item.Price.Amount,
		PriceCurrency: item.Price.Currency.String(),
		Quantity:      int32(item.Quantity),
		IsActive:      item.Active,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("q.InsertItem: %w", err)
	}

	return mapItemToDomain(row)
}

// UpdateItem changes name, price and active flag. Quantity is left to the ledger.
func (r *itemRepository) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	row, err := r.q.UpdateItemDetails(ctx, db.UpdateItemDetailsParams{
		ID:            item.ID,
		Name:          item.Name,
		PriceAmount:   item.Price.Amount,
		PriceCurrency: item.Price.Currency.String(),
		IsActive:      item.Active,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, &domain.ItemNotFoundError{ItemID: item.ID}
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("q.UpdateItemDetails: %w", err)
	}

	return mapItemToDomain(row)
}

func (r *itemRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	rowsAffected, err := r.q.DeleteItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("q.DeleteItem: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ItemNotFoundError{ItemID: itemID}
	}

	return nil
}

func mapItemToDomain(row db.Item) (domain.Item, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Item{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Item{
		ID:        row.ID,
		SellerID:  row.SellerID,
		Name:      row.Name,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		Active:    row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
