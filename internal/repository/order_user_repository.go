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

type orderUserRepository struct {
	q *db.Queries
}

func (r *orderUserRepository) CreateOrderUser(ctx context.Context, user domain.OrderUser) (domain.OrderUser, error) {
	if user.BuyerID == "" {
		return domain.OrderUser{}, fmt.Errorf("buyerID is empty")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	row, err := r.q.InsertOrderUser(ctx, db.InsertOrderUserParams{
		ID:      user.ID,
		BuyerID: user.BuyerID,
		PhoneNo: user.PhoneNo,
		Address: user.Address,
		City:    user.City,
		State:   user.State,
		Pincode: user.Pincode,
	})
	if err != nil {
		return domain.OrderUser{}, fmt.Errorf("q.InsertOrderUser: %w", err)
	}

	return mapOrderUserToDomain(row), nil
}

func (r *orderUserRepository) GetOrderUser(ctx context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error) {
	row, err := r.q.GetOrderUser(ctx, db.GetOrderUserParams{ID: id, BuyerID: buyerID})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OrderUser{}, false, nil
	}
	if err != nil {
		return domain.OrderUser{}, false, fmt.Errorf("q.GetOrderUser: %w", err)
	}

	return mapOrderUserToDomain(row), true, nil
}

func (r *orderUserRepository) ShareOrderUser(ctx context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error) {
	row, err := r.q.GetOrderUserForShare(ctx, db.GetOrderUserForShareParams{ID: id, BuyerID: buyerID})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OrderUser{}, false, nil
	}
	if err != nil {
		return domain.OrderUser{}, false, fmt.Errorf("q.GetOrderUserForShare: %w", err)
	}

	return mapOrderUserToDomain(row), true, nil
}

func (r *orderUserRepository) LockOrderUser(ctx context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error) {
	row, err := r.q.GetOrderUserForUpdate(ctx, db.GetOrderUserForUpdateParams{ID: id, BuyerID: buyerID})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OrderUser{}, false, nil
	}
	if err != nil {
		return domain.OrderUser{}, false, fmt.Errorf("q.GetOrderUserForUpdate: %w", err)
	}

	return mapOrderUserToDomain(row), true, nil
}

func (r *orderUserRepository) IsOrderUserReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	referenced, err := r.q.IsOrderUserReferenced(ctx, id)
	if err != nil {
		return false, fmt.Errorf("q.IsOrderUserReferenced: %w", err)
	}

	return referenced, nil
}

func (r *orderUserRepository) UpdateOrderUser(ctx context.Context, user domain.OrderUser) (domain.OrderUser, error) {
	row, err := r.q.UpdateOrderUser(ctx, db.UpdateOrderUserParams{
		ID:      user.ID,
		PhoneNo: user.PhoneNo,
		Address: user.Address,
		City:    user.City,
		State:   user.State,
		Pincode: user.Pincode,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OrderUser{}, domain.ErrOrderUserNotFound
	}
	if err != nil {
		return domain.OrderUser{}, fmt.Errorf("q.UpdateOrderUser: %w", err)
	}

	return mapOrderUserToDomain(row), nil
}

func (r *orderUserRepository) DeleteOrderUser(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := r.q.DeleteOrderUser(ctx, id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlStateForeignKeyViolation {
		return domain.ErrOrderUserInUse
	}
	if err != nil {
		return fmt.Errorf("q.DeleteOrderUser: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrOrderUserNotFound
	}

	return nil
}

func (r *orderUserRepository) ListOrderUsers(ctx context.Context, buyerID string) ([]domain.OrderUser, error) {
	rows, err := r.q.ListOrderUsers(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrderUsers: %w", err)
	}

	users := make([]domain.OrderUser, 0, len(rows))
	for _, row := range rows {
		users = append(users, mapOrderUserToDomain(row))
	}

	return users, nil
}

func mapOrderUserToDomain(row db.OrderUser) domain.OrderUser {
	return domain.OrderUser{
		ID:        row.ID,
		BuyerID:   row.BuyerID,
		PhoneNo:   row.PhoneNo,
		Address:   row.Address,
		City:      row.City,
		State:     row.State,
		Pincode:   row.Pincode,
		CreatedAt: row.CreatedAt,
	}
}
