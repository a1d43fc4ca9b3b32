package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guptarajStha/restaurant-web/middleware"
	"github.com/guptarajStha/restaurant-web/models"
	"github.com/guptarajStha/restaurant-web/ordering"
	"github.com/guptarajStha/restaurant-web/statemachine"
)

type OrderLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	TableID string             `json:"table_id"`
	Items   []OrderLineRequest `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// ListOrders supports ?status=, ?table_id=, ?tab=active|completed and ?limit=
func (h *Handler) ListOrders(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	orders, err := h.orders.ListOrders(c.Request.Context(), ordering.ListFilter{
		Status:  models.OrderStatus(c.Query("status")),
		TableID: c.Query("table_id"),
		Tab:     c.Query("tab"),
		Limit:   limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// PlaceOrder creates an order for a table from menu selections
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, _ := middleware.GetSession(c)
	in := ordering.CreateOrderInput{TableID: req.TableID, PlacedBy: session.UserID}
	for _, l := range req.Items {
		in.Lines = append(in.Lines, ordering.LineInput{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, _ := middleware.GetSession(c)
	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), ordering.StatusChange{
		Status:    req.Status,
		Note:      req.Note,
		ChangedBy: session.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated to " + string(order.Status),
		"order":   order,
	})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// AvailableOrders lists ready or delivered orders not yet in any bill
func (h *Handler) AvailableOrders(c *gin.Context) {
	orders, err := h.orders.AvailableToBill(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// StreamOrders pushes the newest orders as server-sent "orders" events,
// sending the full list again after every change.
func (h *Handler) StreamOrders(c *gin.Context) {
	limit, err := queryInt(c, "limit", h.feedLimit)
	if err != nil {
		badRequest(c, err)
		return
	}
	if limit == 0 {
		limit = h.feedLimit
	}

	ctx := c.Request.Context()
	updates := make(chan []models.Order, 1)
	unsubscribe := h.feed.Subscribe(limit, func(orders []models.Order) {
		select {
		case updates <- orders:
		case <-ctx.Done():
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case orders := <-updates:
			c.SSEvent("orders", orders)
			return true
		}
	})
}

// GetStatuses describes the order status vocabulary for clients
func (h *Handler) GetStatuses(c *gin.Context) {
	transitions := gin.H{}
	for _, s := range statemachine.Statuses() {
		transitions[string(s)] = statemachine.ValidTransitionsFrom(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"statuses":    statemachine.Statuses(),
		"transitions": transitions,
		"billable":    []models.OrderStatus{models.StatusReady, models.StatusDelivered},
		"description": "Any status may move to any other status",
	})
}
