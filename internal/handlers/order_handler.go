package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/middleware"
	"shop_backend/internal/models"
	"shop_backend/internal/services"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.CreateOrder(middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	orders, err := h.orderService.GetUserOrders(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetAmounts(c *gin.Context) {
	order, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}

	amounts, err := h.orderService.Amounts(order.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, amounts)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}

	cancelled, err := h.orderService.CancelOrder(order.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// loadOwnedOrder fetches the order and rejects callers who neither own it
// nor carry the staff flag.
func (h *OrderHandler) loadOwnedOrder(c *gin.Context) (*models.Order, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	order, err := h.orderService.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	isStaff, _ := c.Get("is_staff")
	if order.UserID != middleware.UserID(c) && isStaff != true {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your order"})
		return nil, false
	}
	return order, true
}

// Staff endpoints.

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ApproveOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.ApproveOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) SetProcess(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Process models.OrderProcess `json:"process"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.orderService.SetProcess(id, req.Process); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *OrderHandler) SetProvider(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Provider models.Provider `json:"provider"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.orderService.SetProvider(id, req.Provider); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
