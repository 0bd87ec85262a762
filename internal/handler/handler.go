package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/notify"
	"github.com/nikolayk812/checkout-demo/internal/service"
	"go.uber.org/zap"
)

const idempotencyKeyHeader = "Idempotency-Key"

type Services struct {
	Carts    *service.CartService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Shipping *service.ShippingService
	Catalog  *service.CatalogService
}

type Handler struct {
	svc      Services
	hub      *notify.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func New(svc Services, hub *notify.Hub, logger *zap.Logger) (*Handler, error) {
	if svc.Carts == nil || svc.Checkout == nil || svc.Orders == nil || svc.Shipping == nil || svc.Catalog == nil {
		return nil, fmt.Errorf("services are incomplete")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			// origins are enforced by the CORS layer and the token
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}, nil
}

// Register mounts the routes on r. Everything under /api requires auth.
func (h *Handler) Register(r gin.IRouter, auth gin.HandlerFunc) {
	r.GET("/health", h.Health)

	api := r.Group("/api", auth)
	{
		api.GET("/cart", h.GetCart)
		api.PUT("/cart/lines", h.UpsertCartLines)
		api.PATCH("/cart/lines/:item_id", h.UpdateCartLine)
		api.DELETE("/cart/lines", h.RemoveCartLines)

		api.POST("/checkout", h.Checkout)

		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.PATCH("/orders/:id", h.UpdateOrder)
		api.GET("/seller/orders", h.ListSellerOrders)

		api.POST("/order-users", h.CreateOrderUser)
		api.GET("/order-users", h.ListOrderUsers)
		api.GET("/order-users/:id", h.GetOrderUser)
		api.PATCH("/order-users/:id", h.UpdateOrderUser)
		api.DELETE("/order-users/:id", h.DeleteOrderUser)

		api.POST("/items", h.CreateItem)
		api.GET("/items/:id", h.GetItem)
		api.PATCH("/items/:id", h.UpdateItem)
		api.DELETE("/items/:id", h.DeleteItem)
		api.POST("/items/:id/restock", h.RestockItem)

		api.GET("/ws/orders", h.OrderFeed)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.svc.Carts.GetCart(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(view))
}

func (h *Handler) UpsertCartLines(c *gin.Context) {
	var req upsertLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	inputs := make([]domain.CartLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		inputs = append(inputs, domain.CartLineInput{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	view, err := h.svc.Carts.UpsertLines(c.Request.Context(), identityFrom(c), inputs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(view))
}

func (h *Handler) UpdateCartLine(c *gin.Context) {
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	view, err := h.svc.Carts.UpdateLineQuantity(c.Request.Context(), identityFrom(c), itemID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(view))
}

func (h *Handler) RemoveCartLines(c *gin.Context) {
	var req removeLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	view, err := h.svc.Carts.RemoveLines(c.Request.Context(), identityFrom(c), req.ItemIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(view))
}

func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.svc.Checkout.Checkout(c.Request.Context(), identityFrom(c), service.CheckoutRequest{
		OrderUserID:    req.OrderUserID,
		IdempotencyKey: c.GetHeader(idempotencyKeyHeader),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListOrders(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) ListSellerOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListSellerOrders(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Orders.GetOrder(c.Request.Context(), identityFrom(c), orderID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	update, err := req.toDomain()
	if err != nil {
		h.writeError(c, err)
		return
	}

	order, err := h.svc.Orders.UpdateFulfillment(c.Request.Context(), identityFrom(c), orderID, update)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *Handler) CreateOrderUser(c *gin.Context) {
	var req createOrderUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.svc.Shipping.CreateOrderUser(c.Request.Context(), identityFrom(c), domain.OrderUser{
		PhoneNo: req.PhoneNo,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderUserDTO(user))
}

func (h *Handler) ListOrderUsers(c *gin.Context) {
	users, err := h.svc.Shipping.ListOrderUsers(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]orderUserDTO, 0, len(users))
	for _, u := range users {
		resp = append(resp, toOrderUserDTO(u))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetOrderUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.Shipping.GetOrderUser(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderUserDTO(user))
}

func (h *Handler) UpdateOrderUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateOrderUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.svc.Shipping.UpdateOrderUser(c.Request.Context(), identityFrom(c), id, req.toDomain())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderUserDTO(user))
}

func (h *Handler) DeleteOrderUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Shipping.DeleteOrderUser(c.Request.Context(), identityFrom(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	price, err := req.Price.toDomain()
	if err != nil {
		h.writeError(c, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	item, err := h.svc.Catalog.CreateItem(c.Request.Context(), identityFrom(c), domain.Item{
		Name:     req.Name,
		Price:    price,
		Quantity: req.Quantity,
		Active:   active,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *Handler) GetItem(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	item, err := h.svc.Catalog.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *Handler) UpdateItem(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	update, err := req.toDomain()
	if err != nil {
		h.writeError(c, err)
		return
	}

	item, err := h.svc.Catalog.UpdateItem(c.Request.Context(), identityFrom(c), itemID, update)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *Handler) DeleteItem(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Catalog.DeleteItem(c.Request.Context(), identityFrom(c), itemID); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RestockItem(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	onHand, err := h.svc.Catalog.Restock(c.Request.Context(), identityFrom(c), itemID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, restockResponse{ItemID: itemID, Quantity: onHand})
}

// OrderFeed upgrades to a websocket streaming order events to sellers and operators.
func (h *Handler) OrderFeed(c *gin.Context) {
	who := identityFrom(c)
	if who.Role == domain.RoleBuyer {
		h.writeError(c, domain.ErrForbiddenRole)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already replied
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Serve(conn, who)
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, fmt.Errorf("%s is not a valid uuid", name))
		return uuid.Nil, false
	}

	return id, true
}
