package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func (r *cartRepository) GetOrCreate(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	// a concurrent first access may win the insert, so always re-read
	err := r.q.InsertGenericCart(ctx, db.InsertGenericCartParams{
		ID:      uuid.New(),
		OwnerID: ownerID,
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.InsertGenericCart: %w", err)
	}

	dbCart, err := r.q.GetGenericCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetGenericCart: %w", err)
	}

	return r.loadLines(ctx, dbCart)
}

func (r *cartRepository) FindForCheckout(ctx context.Context, ownerID string) (domain.Cart, bool, error) {
	if ownerID == "" {
		return domain.Cart{}, false, fmt.Errorf("ownerID is empty")
	}

	dbCart, err := r.q.GetGenericCartForUpdate(ctx, ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, false, nil
	}
	if err != nil {
		return domain.Cart{}, false, fmt.Errorf("q.GetGenericCartForUpdate: %w", err)
	}

	cart, err := r.loadLines(ctx, dbCart)
	if err != nil {
		return domain.Cart{}, false, err
	}

	return cart, true, nil
}

func (r *cartRepository) UpsertLines(ctx context.Context, cartID uuid.UUID, lines []domain.CartLineInput) error {
	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		for _, line := range lines {
			if !domain.ValidQuantity(line.Quantity) {
				return struct{}{}, domain.ErrInvalidQuantity
			}

			err := q.UpsertCartLine(ctx, db.UpsertCartLineParams{
				CartID:   cartID,
				ItemID:   line.ItemID,
				Quantity: int32(line.Quantity),
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.UpsertCartLine[%s]: %w", line.ItemID, err)
			}
		}

		if err := q.TouchCart(ctx, cartID); err != nil {
			return struct{}{}, fmt.Errorf("q.TouchCart: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func (r *cartRepository) UpdateLineQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error) {
	if !domain.ValidQuantity(quantity) {
		return false, domain.ErrInvalidQuantity
	}

	rowsAffected, err := r.q.UpdateCartLineQuantity(ctx, db.UpdateCartLineQuantityParams{
		CartID:   cartID,
		ItemID:   itemID,
		Quantity: int32(quantity),
	})
	if err != nil {
		return false, fmt.Errorf("q.UpdateCartLineQuantity: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) DeleteLines(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	rowsAffected, err := r.q.DeleteCartLines(ctx, db.DeleteCartLinesParams{
		CartID:  cartID,
		ItemIds: itemIDs,
	})
	if err != nil {
		return 0, fmt.Errorf("q.DeleteCartLines: %w", err)
	}

	return rowsAffected, nil
}

func (r *cartRepository) ClearLines(ctx context.Context, cartID uuid.UUID) error {
	if err := r.q.ClearCartLines(ctx, cartID); err != nil {
		return fmt.Errorf("q.ClearCartLines: %w", err)
	}

	if err := r.q.TouchCart(ctx, cartID); err != nil {
		return fmt.Errorf("q.TouchCart: %w", err)
	}

	return nil
}

func (r *cartRepository) loadLines(ctx context.Context, dbCart db.Cart) (domain.Cart, error) {
	rows, err := r.q.GetCartLines(ctx, dbCart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartLines: %w", err)
	}

	lines, err := mapGetCartLinesRowsToDomain(rows)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartLinesRowsToDomain: %w", err)
	}

	return domain.Cart{
		ID:        dbCart.ID,
		OwnerID:   dbCart.OwnerID,
		SellerID:  dbCart.SellerID,
		Lines:     lines,
		CreatedAt: dbCart.CreatedAt,
		UpdatedAt: dbCart.UpdatedAt,
	}, nil
}

func mapGetCartLinesRowToDomain(row db.GetCartLinesRow) (domain.CartLine, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartLine{
		ItemID:    row.ItemID,
		Quantity:  int(row.Quantity),
		ItemName:  row.Name,
		UnitPrice: domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapGetCartLinesRowsToDomain(rows []db.GetCartLinesRow) ([]domain.CartLine, error) {
	var lines []domain.CartLine

	for _, row := range rows {
		line, err := mapGetCartLinesRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartLinesRowToDomain: %w", err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}
