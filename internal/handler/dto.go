package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/service"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m moneyDTO) toDomain() (domain.Money, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%w: amount %q", domain.ErrInvalidInput, m.Amount)
	}

	unit, err := currency.ParseISO(m.Currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%w: currency %q", domain.ErrInvalidInput, m.Currency)
	}

	return domain.Money{Amount: amount, Currency: unit}, nil
}

func toMoneyDTO(m domain.Money) moneyDTO {
	return moneyDTO{Amount: m.Amount.StringFixed(2), Currency: m.Currency.String()}
}

type cartLineInputDTO struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int       `json:"quantity"`
}

type upsertLinesRequest struct {
	Lines []cartLineInputDTO `json:"lines" binding:"required"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

type removeLinesRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required"`
}

type cartLineDTO struct {
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice moneyDTO  `json:"unit_price"`
	Total     moneyDTO  `json:"total"`
}

type cartResponse struct {
	ID        uuid.UUID     `json:"id"`
	Lines     []cartLineDTO `json:"lines"`
	Total     *moneyDTO     `json:"total"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func toCartResponse(v service.CartView) cartResponse {
	resp := cartResponse{
		ID:        v.Cart.ID,
		Lines:     make([]cartLineDTO, 0, len(v.Cart.Lines)),
		UpdatedAt: v.Cart.UpdatedAt,
	}
	for _, l := range v.Cart.Lines {
		resp.Lines = append(resp.Lines, cartLineDTO{
			ItemID:    l.ItemID,
			Name:      l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: toMoneyDTO(l.UnitPrice),
			Total:     toMoneyDTO(l.Total()),
		})
	}
	if v.Total != nil {
		total := toMoneyDTO(*v.Total)
		resp.Total = &total
	}

	return resp
}

type checkoutRequest struct {
	OrderUserID uuid.UUID `json:"order_user_id" binding:"required"`
}

type orderUserDTO struct {
	ID        uuid.UUID `json:"id"`
	PhoneNo   string    `json:"phone_no"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Pincode   string    `json:"pincode"`
	CreatedAt time.Time `json:"created_at"`
}

func toOrderUserDTO(u domain.OrderUser) orderUserDTO {
	return orderUserDTO{
		ID:        u.ID,
		PhoneNo:   u.PhoneNo,
		Address:   u.Address,
		City:      u.City,
		State:     u.State,
		Pincode:   u.Pincode,
		CreatedAt: u.CreatedAt,
	}
}

type createOrderUserRequest struct {
	PhoneNo string `json:"phone_no" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type updateOrderUserRequest struct {
	PhoneNo *string `json:"phone_no"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Pincode *string `json:"pincode"`
}

func (r updateOrderUserRequest) toDomain() domain.OrderUserUpdate {
	return domain.OrderUserUpdate{
		PhoneNo: r.PhoneNo,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		Pincode: r.Pincode,
	}
}

type orderLineDTO struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	SellerID  string    `json:"seller_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice moneyDTO  `json:"unit_price"`
	Total     moneyDTO  `json:"total"`
}

type orderResponse struct {
	ID                uuid.UUID      `json:"id"`
	BuyerID           string         `json:"buyer_id"`
	BuyerEmail        string         `json:"buyer_email"`
	Status            string         `json:"status"`
	Total             moneyDTO       `json:"total"`
	ShippingTarget    orderUserDTO   `json:"shipping_target"`
	Lines             []orderLineDTO `json:"lines"`
	TrackingNumber    *string        `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery,omitempty"`
	ShippedAt         *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:                o.ID,
		BuyerID:           o.BuyerID,
		BuyerEmail:        o.BuyerEmail,
		Status:            string(o.Status),
		Total:             toMoneyDTO(o.TotalAmount),
		ShippingTarget:    toOrderUserDTO(o.OrderUser),
		Lines:             make([]orderLineDTO, 0, len(o.Lines)),
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, orderLineDTO{
			ID:        l.ID,
			ItemID:    l.ItemID,
			SellerID:  l.SellerID,
			Name:      l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: toMoneyDTO(l.UnitPrice),
			Total:     toMoneyDTO(l.Total()),
		})
	}

	return resp
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderResponse(o))
	}

	return result
}

type updateOrderRequest struct {
	Status            *string    `json:"status"`
	TrackingNumber    *string    `json:"tracking_number"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

func (r updateOrderRequest) toDomain() (domain.FulfillmentUpdate, error) {
	update := domain.FulfillmentUpdate{
		TrackingNumber:    r.TrackingNumber,
		EstimatedDelivery: r.EstimatedDelivery,
	}
	if r.Status != nil {
		status, err := domain.ParseOrderStatus(*r.Status)
		if err != nil {
			return domain.FulfillmentUpdate{}, err
		}
		update.Status = &status
	}

	return update, nil
}

type itemResponse struct {
	ID        uuid.UUID `json:"id"`
	SellerID  string    `json:"seller_id"`
	Name      string    `json:"name"`
	Price     moneyDTO  `json:"price"`
	Quantity  int       `json:"quantity"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toItemResponse(i domain.Item) itemResponse {
	return itemResponse{
		ID:        i.ID,
		SellerID:  i.SellerID,
		Name:      i.Name,
		Price:     toMoneyDTO(i.Price),
		Quantity:  i.Quantity,
		Active:    i.Active,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

type createItemRequest struct {
	Name     string   `json:"name" binding:"required"`
	Price    moneyDTO `json:"price"`
	Quantity int      `json:"quantity"`
	Active   *bool    `json:"active"`
}

type updateItemRequest struct {
	Name   *string   `json:"name"`
	Price  *moneyDTO `json:"price"`
	Active *bool     `json:"active"`
}

func (r updateItemRequest) toDomain() (domain.ItemUpdate, error) {
	update := domain.ItemUpdate{Name: r.Name, Active: r.Active}
	if r.Price != nil {
		price, err := r.Price.toDomain()
		if err != nil {
			return domain.ItemUpdate{}, err
		}
		update.Price = &price
	}

	return update, nil
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

type restockResponse struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}
