package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// CartView is a cart with its total priced at the items' current prices.
// Total is nil when the lines are priced in different currencies.
type CartView struct {
	Cart  domain.Cart
	Total *domain.Money
}

type CartService struct {
	tx       port.Transactor
	currency currency.Unit
	logger   *zap.Logger
}

// NewCartService returns the cart aggregate. An empty cart totals zero in
// defaultCurrency.
func NewCartService(tx port.Transactor, defaultCurrency currency.Unit, logger *zap.Logger) (*CartService, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CartService{
		tx:       tx,
		currency: defaultCurrency,
		logger:   logger,
	}, nil
}

func (s *CartService) GetCart(ctx context.Context, who domain.Identity) (CartView, error) {
	if !who.CanShop() {
		return CartView{}, domain.ErrForbiddenRole
	}

	cart, err := s.tx.Repositories().Carts.GetOrCreate(ctx, who.ID)
	if err != nil {
		return CartView{}, fmt.Errorf("carts.GetOrCreate: %w", err)
	}

	return s.view(cart), nil
}

// UpsertLines sets the quantity of every given item, adding lines as needed.
// Either every line is written or none is.
func (s *CartService) UpsertLines(ctx context.Context, who domain.Identity, inputs []domain.CartLineInput) (CartView, error) {
	if !who.CanShop() {
		return CartView{}, domain.ErrForbiddenRole
	}

	lines, err := domain.NormalizeLineInputs(inputs)
	if err != nil {
		return CartView{}, err
	}

	var cart domain.Cart
	err = s.tx.InTx(ctx, func(repos port.Repositories) error {
		cart, err = repos.Carts.GetOrCreate(ctx, who.ID)
		if err != nil {
			return fmt.Errorf("carts.GetOrCreate: %w", err)
		}

		if len(lines) == 0 {
			return nil
		}

		if err := ensureActive(ctx, repos.Items, lines); err != nil {
			return err
		}

		if err := repos.Carts.UpsertLines(ctx, cart.ID, lines); err != nil {
			return fmt.Errorf("carts.UpsertLines: %w", err)
		}

		cart, err = repos.Carts.GetOrCreate(ctx, who.ID)
		if err != nil {
			return fmt.Errorf("carts.GetOrCreate: %w", err)
		}

		// a cart is priced in one currency
		if _, err := cart.Total(s.currency); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return CartView{}, err
	}

	s.logger.Debug("cart lines upserted", zap.String("buyer_id", who.ID), zap.Int("lines", len(lines)))

	return s.view(cart), nil
}

// RemoveLines drops the given items from the cart. Items not in the cart are ignored.
func (s *CartService) RemoveLines(ctx context.Context, who domain.Identity, itemIDs []uuid.UUID) (CartView, error) {
	if !who.CanShop() {
		return CartView{}, domain.ErrForbiddenRole
	}

	var cart domain.Cart
	err := s.tx.InTx(ctx, func(repos port.Repositories) error {
		var err error
		cart, err = repos.Carts.GetOrCreate(ctx, who.ID)
		if err != nil {
			return fmt.Errorf("carts.GetOrCreate: %w", err)
		}

		deleted, err := repos.Carts.DeleteLines(ctx, cart.ID, itemIDs)
		if err != nil {
			return fmt.Errorf("carts.DeleteLines: %w", err)
		}
		if deleted == 0 {
			return nil
		}

		cart, err = repos.Carts.GetOrCreate(ctx, who.ID)
		if err != nil {
			return fmt.Errorf("carts.GetOrCreate: %w", err)
		}

		return nil
	})
	if err != nil {
		return CartView{}, err
	}

	return s.view(cart), nil
}

func (s *CartService) UpdateLineQuantity(ctx context.Context, who domain.Identity, itemID uuid.UUID, quantity int) (CartView, error) {
	if !who.CanShop() {
		return CartView{}, domain.ErrForbiddenRole
	}
	if !domain.ValidQuantity(quantity) {
		return CartView{}, domain.ErrInvalidQuantity
	}

	var cart domain.Cart
	err := s.tx.InTx(ctx, func(repos port.Repositories) error {
		var err error
		cart, err = repos.Carts.GetOrCreate(ctx, who.ID)
		if err != nil {
			return fmt.Errorf("carts.GetOrCreate: %w", err)
		}

		updated, err := repos.Carts.UpdateLineQuantity(ctx, cart.ID, itemID, quantity)
		if err != nil {
			return fmt.Errorf("carts.UpdateLineQuantity: %w", err)
		}
		if !updated {
			return fmt.Errorf("%w: item[%s]", domain.ErrLineNotFound, itemID)
		}

		cart, err = repos.Carts.GetOrCreate(ctx, who.ID)
		if err != nil {
			return fmt.Errorf("carts.GetOrCreate: %w", err)
		}

		return nil
	})
	if err != nil {
		return CartView{}, err
	}

	return s.view(cart), nil
}

func (s *CartService) view(cart domain.Cart) CartView {
	v := CartView{Cart: cart}

	total, err := cart.Total(s.currency)
	if err != nil {
		if !errors.Is(err, domain.ErrCurrencyMismatch) {
			s.logger.Error("cart.Total", zap.String("cart_id", cart.ID.String()), zap.Error(err))
		}
		return v
	}
	v.Total = &total

	return v
}

// ensureActive fails with *domain.ItemNotFoundError for the first line whose
// item does not exist or is inactive. lines must be ordered by item id.
func ensureActive(ctx context.Context, items port.ItemRepository, lines []domain.CartLineInput) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}

	active, err := items.ActiveItemIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("items.ActiveItemIDs: %w", err)
	}

	found := make(map[uuid.UUID]struct{}, len(active))
	for _, id := range active {
		found[id] = struct{}{}
	}

	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return &domain.ItemNotFoundError{ItemID: id}
		}
	}

	return nil
}
