package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

type cartRepository struct {
	with accessor
	now  func() time.Time
}

func (r *cartRepository) GetOrCreate(_ context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	var cart domain.Cart
	err := r.with(func(st *state) error {
		rec, ok := st.carts[ownerID]
		if !ok {
			now := r.now()
			rec = &cartRecord{
				id:        uuid.New(),
				ownerID:   ownerID,
				createdAt: now,
				updatedAt: now,
				lines:     make(map[uuid.UUID]domain.CartLine),
			}
			st.carts[ownerID] = rec
		}
		cart = toDomainCart(st, rec)

		return nil
	})

	return cart, err
}

func (r *cartRepository) FindForCheckout(_ context.Context, ownerID string) (domain.Cart, bool, error) {
	if ownerID == "" {
		return domain.Cart{}, false, fmt.Errorf("ownerID is empty")
	}

	var (
		cart  domain.Cart
		found bool
	)
	err := r.with(func(st *state) error {
		rec, ok := st.carts[ownerID]
		if !ok {
			return nil
		}
		cart, found = toDomainCart(st, rec), true

		return nil
	})

	return cart, found, err
}

func (r *cartRepository) UpsertLines(_ context.Context, cartID uuid.UUID, lines []domain.CartLineInput) error {
	return r.with(func(st *state) error {
		rec, err := cartByID(st, cartID)
		if err != nil {
			return err
		}

		now := r.now()
		for _, in := range lines {
			if !domain.ValidQuantity(in.Quantity) {
				return domain.ErrInvalidQuantity
			}
			if _, ok := st.items[in.ItemID]; !ok {
				return &domain.ItemNotFoundError{ItemID: in.ItemID}
			}
			line, ok := rec.lines[in.ItemID]
			if !ok {
				line = domain.CartLine{ItemID: in.ItemID, CreatedAt: now}
			}
			line.Quantity = in.Quantity
			line.UpdatedAt = now
			rec.lines[in.ItemID] = line
		}
		rec.updatedAt = now

		return nil
	})
}

func (r *cartRepository) UpdateLineQuantity(_ context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error) {
	if !domain.ValidQuantity(quantity) {
		return false, domain.ErrInvalidQuantity
	}

	var updated bool
	err := r.with(func(st *state) error {
		rec, err := cartByID(st, cartID)
		if err != nil {
			return err
		}

		line, ok := rec.lines[itemID]
		if !ok {
			return nil
		}
		line.Quantity = quantity
		line.UpdatedAt = r.now()
		rec.lines[itemID] = line
		updated = true

		return nil
	})

	return updated, err
}

func (r *cartRepository) DeleteLines(_ context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	var deleted int64
	err := r.with(func(st *state) error {
		rec, err := cartByID(st, cartID)
		if err != nil {
			return err
		}

		for _, id := range itemIDs {
			if _, ok := rec.lines[id]; ok {
				delete(rec.lines, id)
				deleted++
			}
		}

		return nil
	})

	return deleted, err
}

func (r *cartRepository) ClearLines(_ context.Context, cartID uuid.UUID) error {
	return r.with(func(st *state) error {
		rec, err := cartByID(st, cartID)
		if err != nil {
			return err
		}
		clear(rec.lines)
		rec.updatedAt = r.now()

		return nil
	})
}

func cartByID(st *state, cartID uuid.UUID) (*cartRecord, error) {
	for _, rec := range st.carts {
		if rec.id == cartID {
			return rec, nil
		}
	}

	return nil, fmt.Errorf("cart[%s] not found", cartID)
}

func toDomainCart(st *state, rec *cartRecord) domain.Cart {
	cart := domain.Cart{
		ID:        rec.id,
		OwnerID:   rec.ownerID,
		CreatedAt: rec.createdAt,
		UpdatedAt: rec.updatedAt,
	}

	for _, line := range rec.lines {
		item := st.items[line.ItemID]
		line.ItemName = item.Name
		line.UnitPrice = item.Price
		cart.Lines = append(cart.Lines, line)
	}
	cart.Lines = cart.SortedLines()

	return cart
}

type itemRepository struct {
	with accessor
	now  func() time.Time
}

func (r *itemRepository) GetItem(_ context.Context, itemID uuid.UUID) (domain.Item, error) {
	var item domain.Item
	err := r.with(func(st *state) error {
		found, ok := st.items[itemID]
		if !ok {
			return &domain.ItemNotFoundError{ItemID: itemID}
		}
		item = found

		return nil
	})

	return item, err
}

func (r *itemRepository) ActiveItemIDs(_ context.Context, itemIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.with(func(st *state) error {
		for _, id := range itemIDs {
			if item, ok := st.items[id]; ok && item.Active {
				ids = append(ids, id)
			}
		}

		return nil
	})

	return ids, err
}

func (r *itemRepository) CreateItem(_ context.Context, item domain.Item) (domain.Item, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Quantity < 0 || item.Quantity > domain.MaxQuantity {
		return domain.Item{}, fmt.Errorf("%w: stock %d", domain.ErrInvalidQuantity, item.Quantity)
	}

	err := r.with(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return fmt.Errorf("item[%s] already exists", item.ID)
		}
		now := r.now()
		item.CreatedAt, item.UpdatedAt = now, now
		st.items[item.ID] = item

		return nil
	})

	return item, err
}

func (r *itemRepository) UpdateItem(_ context.Context, item domain.Item) (domain.Item, error) {
	var updated domain.Item
	err := r.with(func(st *state) error {
		current, ok := st.items[item.ID]
		if !ok {
			return &domain.ItemNotFoundError{ItemID: item.ID}
		}
		current.Name = item.Name
		current.Price = item.Price
		current.Active = item.Active
		current.UpdatedAt = r.now()
		st.items[item.ID] = current
		updated = current

		return nil
	})

	return updated, err
}

func (r *itemRepository) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	return r.with(func(st *state) error {
		if _, ok := st.items[itemID]; !ok {
			return &domain.ItemNotFoundError{ItemID: itemID}
		}
		delete(st.items, itemID)
		for _, rec := range st.carts {
			delete(rec.lines, itemID)
		}

		return nil
	})
}

type inventoryLedger struct {
	with accessor
	now  func() time.Time
}

func (l *inventoryLedger) ReserveAndDecrement(_ context.Context, itemID uuid.UUID, quantity int) (domain.Item, error) {
	if !domain.ValidQuantity(quantity) {
		return domain.Item{}, domain.ErrInvalidQuantity
	}

	var item domain.Item
	err := l.with(func(st *state) error {
		current, ok := st.items[itemID]
		if !ok {
			return &domain.ItemNotFoundError{ItemID: itemID}
		}

		available := current.Quantity
		if !current.Active {
			available = 0
		}
		if available < quantity {
			return &domain.InsufficientStockError{ItemID: itemID, Requested: quantity, Available: available}
		}

		current.Quantity -= quantity
		current.UpdatedAt = l.now()
		st.items[itemID] = current
		item = current

		return nil
	})

	return item, err
}

func (l *inventoryLedger) Restock(_ context.Context, itemID uuid.UUID, quantity int) (int, error) {
	if !domain.ValidQuantity(quantity) {
		return 0, domain.ErrInvalidQuantity
	}

	var newQuantity int
	err := l.with(func(st *state) error {
		current, ok := st.items[itemID]
		if !ok {
			return &domain.ItemNotFoundError{ItemID: itemID}
		}
		if current.Quantity > domain.MaxQuantity-quantity {
			return fmt.Errorf("%w: stock of item[%s] would exceed %d", domain.ErrInvalidQuantity, itemID, domain.MaxQuantity)
		}
		current.Quantity += quantity
		current.UpdatedAt = l.now()
		st.items[itemID] = current
		newQuantity = current.Quantity

		return nil
	})

	return newQuantity, err
}

type orderRepository struct {
	with accessor
	now  func() time.Time
}

func (r *orderRepository) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order = cloneOrder(order)

	err := r.with(func(st *state) error {
		if _, ok := st.orderUsers[order.OrderUser.ID]; !ok {
			return fmt.Errorf("order user[%s] not found", order.OrderUser.ID)
		}

		now := r.now()
		order.CreatedAt, order.UpdatedAt = now, now
		for i := range order.Lines {
			if order.Lines[i].ID == uuid.Nil {
				order.Lines[i].ID = uuid.New()
			}
			order.Lines[i].CreatedAt = now
		}
		st.orders[order.ID] = cloneOrder(order)

		return nil
	})

	return order, err
}

func (r *orderRepository) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	var order domain.Order
	err := r.with(func(st *state) error {
		found, ok := st.orders[orderID]
		if !ok {
			return domain.ErrOrderNotFound
		}
		order = cloneOrder(found)

		return nil
	})

	return order, err
}

func (r *orderRepository) ListBuyerOrders(_ context.Context, buyerID string) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool { return o.BuyerID == buyerID })
}

func (r *orderRepository) ListSellerOrders(_ context.Context, sellerID string) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool { return o.HasSeller(sellerID) })
}

func (r *orderRepository) ListOrders(_ context.Context) ([]domain.Order, error) {
	return r.list(func(domain.Order) bool { return true })
}

func (r *orderRepository) UpdateFulfillment(_ context.Context, order domain.Order, expected domain.OrderStatus) error {
	return r.with(func(st *state) error {
		current, ok := st.orders[order.ID]
		if !ok || current.Status != expected {
			return domain.ErrStaleOrder
		}

		current.Status = order.Status
		current.TrackingNumber = order.TrackingNumber
		current.EstimatedDelivery = order.EstimatedDelivery
		current.ShippedAt = order.ShippedAt
		current.DeliveredAt = order.DeliveredAt
		current.UpdatedAt = r.now()
		st.orders[order.ID] = current

		return nil
	})
}

func (r *orderRepository) list(match func(domain.Order) bool) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.with(func(st *state) error {
		for _, o := range st.orders {
			if match(o) {
				orders = append(orders, cloneOrder(o))
			}
		}

		return nil
	})

	// newest first, as the Postgres repository returns them
	slices.SortFunc(orders, func(a, b domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return orders, err
}

type orderUserRepository struct {
	with accessor
	now  func() time.Time
}

func (r *orderUserRepository) CreateOrderUser(_ context.Context, user domain.OrderUser) (domain.OrderUser, error) {
	if user.BuyerID == "" {
		return domain.OrderUser{}, fmt.Errorf("buyerID is empty")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := r.with(func(st *state) error {
		user.CreatedAt = r.now()
		st.orderUsers[user.ID] = user

		return nil
	})

	return user, err
}

func (r *orderUserRepository) GetOrderUser(_ context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error) {
	var (
		user  domain.OrderUser
		found bool
	)
	err := r.with(func(st *state) error {
		u, ok := st.orderUsers[id]
		if ok && u.BuyerID == buyerID {
			user, found = u, true
		}

		return nil
	})

	return user, found, err
}

func (r *orderUserRepository) ShareOrderUser(ctx context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error) {
	return r.GetOrderUser(ctx, id, buyerID)
}

func (r *orderUserRepository) LockOrderUser(ctx context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error) {
	return r.GetOrderUser(ctx, id, buyerID)
}

func (r *orderUserRepository) IsOrderUserReferenced(_ context.Context, id uuid.UUID) (bool, error) {
	var referenced bool
	err := r.with(func(st *state) error {
		referenced = orderUserReferenced(st, id)
		return nil
	})

	return referenced, err
}

func (r *orderUserRepository) UpdateOrderUser(_ context.Context, user domain.OrderUser) (domain.OrderUser, error) {
	var updated domain.OrderUser
	err := r.with(func(st *state) error {
		current, ok := st.orderUsers[user.ID]
		if !ok {
			return domain.ErrOrderUserNotFound
		}
		current.PhoneNo = user.PhoneNo
		current.Address = user.Address
		current.City = user.City
		current.State = user.State
		current.Pincode = user.Pincode
		st.orderUsers[user.ID] = current
		updated = current

		return nil
	})

	return updated, err
}

func (r *orderUserRepository) DeleteOrderUser(_ context.Context, id uuid.UUID) error {
	return r.with(func(st *state) error {
		if _, ok := st.orderUsers[id]; !ok {
			return domain.ErrOrderUserNotFound
		}
		if orderUserReferenced(st, id) {
			return domain.ErrOrderUserInUse
		}
		delete(st.orderUsers, id)

		return nil
	})
}

func orderUserReferenced(st *state, id uuid.UUID) bool {
	for _, o := range st.orders {
		if o.OrderUser.ID == id {
			return true
		}
	}

	return false
}

func (r *orderUserRepository) ListOrderUsers(_ context.Context, buyerID string) ([]domain.OrderUser, error) {
	users := []domain.OrderUser{}
	err := r.with(func(st *state) error {
		for _, u := range st.orderUsers {
			if u.BuyerID == buyerID {
				users = append(users, u)
			}
		}

		return nil
	})

	slices.SortFunc(users, func(a, b domain.OrderUser) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return users, err
}
