package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
)

// CatalogService lets sellers list items and replenish their stock.
type CatalogService struct {
	tx     port.Transactor
	logger *zap.Logger
}

func NewCatalogService(tx port.Transactor, logger *zap.Logger) (*CatalogService, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CatalogService{tx: tx, logger: logger}, nil
}

func (s *CatalogService) GetItem(ctx context.Context, itemID uuid.UUID) (domain.Item, error) {
	item, err := s.tx.Repositories().Items.GetItem(ctx, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("items.GetItem: %w", err)
	}

	return item, nil
}

// CreateItem lists a new item owned by the calling seller.
func (s *CatalogService) CreateItem(ctx context.Context, who domain.Identity, item domain.Item) (domain.Item, error) {
	if who.Role != domain.RoleSeller {
		return domain.Item{}, domain.ErrForbiddenRole
	}

	item.ID = uuid.Nil
	item.SellerID = who.ID
	if err := item.Validate(); err != nil {
		return domain.Item{}, err
	}

	created, err := s.tx.Repositories().Items.CreateItem(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("items.CreateItem: %w", err)
	}

	s.logger.Info("item created", zap.String("item_id", created.ID.String()), zap.String("seller_id", who.ID))

	return created, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, who domain.Identity, itemID uuid.UUID, update domain.ItemUpdate) (domain.Item, error) {
	if update.IsEmpty() {
		return domain.Item{}, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	var item domain.Item
	err := s.tx.InTx(ctx, func(repos port.Repositories) error {
		var err error
		item, err = repos.Items.GetItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("items.GetItem: %w", err)
		}

		if !canManageItem(who, item) {
			return domain.ErrForbiddenRole
		}

		item.Apply(update)
		if err := item.Validate(); err != nil {
			return err
		}

		item, err = repos.Items.UpdateItem(ctx, item)
		if err != nil {
			return fmt.Errorf("items.UpdateItem: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}

	return item, nil
}

// Restock adds quantity units to the item's stock and returns the new on-hand quantity.
func (s *CatalogService) Restock(ctx context.Context, who domain.Identity, itemID uuid.UUID, quantity int) (int, error) {
	if !domain.ValidQuantity(quantity) {
		return 0, domain.ErrInvalidQuantity
	}

	var onHand int
	err := s.tx.InTx(ctx, func(repos port.Repositories) error {
		item, err := repos.Items.GetItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("items.GetItem: %w", err)
		}

		if !canManageItem(who, item) {
			return domain.ErrForbiddenRole
		}

		onHand, err = repos.Inventory.Restock(ctx, itemID, quantity)
		if err != nil {
			return fmt.Errorf("inventory.Restock: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("item restocked",
		zap.String("item_id", itemID.String()),
		zap.Int("added", quantity),
		zap.Int("on_hand", onHand),
	)

	return onHand, nil
}

// DeleteItem removes an item from the catalog and from every cart holding it.
// Orders keep the lines they were placed with.
func (s *CatalogService) DeleteItem(ctx context.Context, who domain.Identity, itemID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(repos port.Repositories) error {
		item, err := repos.Items.GetItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("items.GetItem: %w", err)
		}

		if !canManageItem(who, item) {
			return domain.ErrForbiddenRole
		}

		if err := repos.Items.DeleteItem(ctx, itemID); err != nil {
			return fmt.Errorf("items.DeleteItem: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("item deleted", zap.String("item_id", itemID.String()), zap.String("by", who.ID))

	return nil
}

func canManageItem(who domain.Identity, item domain.Item) bool {
	switch who.Role {
	case domain.RoleOperator:
		return true
	case domain.RoleSeller:
		return item.SellerID == who.ID
	default:
		return false
	}
}
