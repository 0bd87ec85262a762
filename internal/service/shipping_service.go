package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
)

// ShippingService manages a buyer's shipping targets.
type ShippingService struct {
	tx port.Transactor
}

func NewShippingService(tx port.Transactor) (*ShippingService, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor is nil")
	}

	return &ShippingService{tx: tx}, nil
}

func (s *ShippingService) CreateOrderUser(ctx context.Context, who domain.Identity, user domain.OrderUser) (domain.OrderUser, error) {
	if !who.CanShop() {
		return domain.OrderUser{}, domain.ErrForbiddenRole
	}

	user.BuyerID = who.ID
	if err := user.Validate(); err != nil {
		return domain.OrderUser{}, err
	}

	created, err := s.tx.Repositories().OrderUsers.CreateOrderUser(ctx, user)
	if err != nil {
		return domain.OrderUser{}, fmt.Errorf("orderUsers.CreateOrderUser: %w", err)
	}

	return created, nil
}

func (s *ShippingService) ListOrderUsers(ctx context.Context, who domain.Identity) ([]domain.OrderUser, error) {
	if !who.CanShop() {
		return nil, domain.ErrForbiddenRole
	}

	users, err := s.tx.Repositories().OrderUsers.ListOrderUsers(ctx, who.ID)
	if err != nil {
		return nil, fmt.Errorf("orderUsers.ListOrderUsers: %w", err)
	}

	return users, nil
}

func (s *ShippingService) GetOrderUser(ctx context.Context, who domain.Identity, id uuid.UUID) (domain.OrderUser, error) {
	if !who.CanShop() {
		return domain.OrderUser{}, domain.ErrForbiddenRole
	}

	user, found, err := s.tx.Repositories().OrderUsers.GetOrderUser(ctx, id, who.ID)
	if err != nil {
		return domain.OrderUser{}, fmt.Errorf("orderUsers.GetOrderUser: %w", err)
	}
	if !found {
		return domain.OrderUser{}, domain.ErrOrderUserNotFound
	}

	return user, nil
}

// UpdateOrderUser changes a shipping target no order ships to yet. Orders show
// the target as it is stored, so a used one stays fixed.
func (s *ShippingService) UpdateOrderUser(ctx context.Context, who domain.Identity, id uuid.UUID, update domain.OrderUserUpdate) (domain.OrderUser, error) {
	if !who.CanShop() {
		return domain.OrderUser{}, domain.ErrForbiddenRole
	}
	if update.IsEmpty() {
		return domain.OrderUser{}, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	var updated domain.OrderUser
	err := s.tx.InTx(ctx, func(repos port.Repositories) error {
		user, err := lockUnusedOrderUser(ctx, repos, who, id)
		if err != nil {
			return err
		}

		user.Apply(update)
		if err := user.Validate(); err != nil {
			return err
		}

		updated, err = repos.OrderUsers.UpdateOrderUser(ctx, user)
		if err != nil {
			return fmt.Errorf("orderUsers.UpdateOrderUser: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.OrderUser{}, err
	}

	return updated, nil
}

func (s *ShippingService) DeleteOrderUser(ctx context.Context, who domain.Identity, id uuid.UUID) error {
	if !who.CanShop() {
		return domain.ErrForbiddenRole
	}

	return s.tx.InTx(ctx, func(repos port.Repositories) error {
		if _, err := lockUnusedOrderUser(ctx, repos, who, id); err != nil {
			return err
		}

		if err := repos.OrderUsers.DeleteOrderUser(ctx, id); err != nil {
			return fmt.Errorf("orderUsers.DeleteOrderUser: %w", err)
		}

		return nil
	})
}

// lockUnusedOrderUser locks the buyer's target before checking that no order
// ships to it.
func lockUnusedOrderUser(ctx context.Context, repos port.Repositories, who domain.Identity, id uuid.UUID) (domain.OrderUser, error) {
	user, found, err := repos.OrderUsers.LockOrderUser(ctx, id, who.ID)
	if err != nil {
		return domain.OrderUser{}, fmt.Errorf("orderUsers.LockOrderUser: %w", err)
	}
	if !found {
		return domain.OrderUser{}, domain.ErrOrderUserNotFound
	}

	referenced, err := repos.OrderUsers.IsOrderUserReferenced(ctx, id)
	if err != nil {
		return domain.OrderUser{}, fmt.Errorf("orderUsers.IsOrderUserReferenced: %w", err)
	}
	if referenced {
		return domain.OrderUser{}, domain.ErrOrderUserInUse
	}

	return user, nil
}
