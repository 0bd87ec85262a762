// Package notify pushes order events to connected websocket clients.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events may queue for one client before it is dropped.
	sendBuffer = 32
)

type OrderEvent struct {
	Type      port.OrderEventType `json:"type"`
	OrderID   string              `json:"order_id"`
	BuyerID   string              `json:"buyer_id"`
	SellerIDs []string            `json:"seller_ids"`
	Status    string              `json:"status"`
	Total     string              `json:"total"`
	Currency  string              `json:"currency"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type client struct {
	conn *websocket.Conn
	who  domain.Identity
	send chan []byte
	done chan struct{}
}

// Hub fans order events out to sellers and operators. A seller only receives
// orders holding at least one of their lines.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// Serve registers conn for who and blocks until the peer goes away.
// The connection is closed on return.
func (h *Hub) Serve(conn *websocket.Conn, who domain.Identity) {
	c := &client{
		conn: conn,
		who:  who,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("order feed client connected", zap.String("id", who.ID), zap.String("role", string(who.Role)))

	go c.writeLoop(h.logger)
	defer func() {
		h.remove(c)
		<-c.done
	}()

	// the feed is one-way, reads only detect the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify queues the event for every client allowed to manage the order. It
// never waits on a socket; a client whose queue is full is disconnected.
func (h *Hub) Notify(eventType port.OrderEventType, order domain.Order) {
	data, err := json.Marshal(newOrderEvent(eventType, order))
	if err != nil {
		h.logger.Error("json.Marshal", zap.Error(err))
		return
	}

	var slow []*client

	// sends happen under the read lock so remove cannot close a channel mid-send
	h.mu.RLock()
	for c := range h.clients {
		if !order.CanManage(c.who) {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("order feed client too slow, dropping", zap.String("id", c.who.ID))
		h.remove(c)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
}

// close must be called once, with the hub lock held.
func (c *client) close() {
	close(c.send)
	_ = c.conn.Close()
}

// writeLoop drains the client's queue until it is closed or a write fails.
func (c *client) writeLoop(logger *zap.Logger) {
	defer close(c.done)

	for data := range c.send {
		err := c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err == nil {
			err = c.conn.WriteMessage(websocket.TextMessage, data)
		}
		if err != nil {
			logger.Debug("order feed write failed", zap.String("id", c.who.ID), zap.Error(err))
			// unblocks the read loop in Serve, which removes the client
			_ = c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

func newOrderEvent(eventType port.OrderEventType, order domain.Order) OrderEvent {
	return OrderEvent{
		Type:      eventType,
		OrderID:   order.ID.String(),
		BuyerID:   order.BuyerID,
		SellerIDs: order.SellerIDs(),
		Status:    string(order.Status),
		Total:     order.TotalAmount.Amount.StringFixed(2),
		Currency:  order.TotalAmount.Currency.String(),
		UpdatedAt: order.UpdatedAt,
	}
}
