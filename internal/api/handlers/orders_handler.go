package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/services"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

// Creator identity headers
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orders *services.OrderService
	tracer tracing.Tracer
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *services.OrderService, tracer tracing.Tracer) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		tracer: tracer,
	}
}

// HandleList returns the orders matching the query filter
func (h *OrderHandler) HandleList(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	orders, err := h.orders.List(c.Request.Context(), f)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// HandleGet returns one order
func (h *OrderHandler) HandleGet(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// HandleCreate stores a new order on behalf of the calling user
func (h *OrderHandler) HandleCreate(c *gin.Context) {
	var draft models.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		WriteError(c, NewValidationError(err.Error()))
		return
	}

	ctx := c.Request.Context()
	h.tracer.AddAttribute(ctx, "customer", draft.CustomerName)

	order, err := h.orders.Create(ctx, draft, creatorFrom(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// HandleUpdate applies a partial update to an order
func (h *OrderHandler) HandleUpdate(c *gin.Context) {
	var patch models.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		WriteError(c, NewValidationError(err.Error()))
		return
	}

	order, err := h.orders.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// HandleClear deletes every order
func (h *OrderHandler) HandleClear(c *gin.Context) {
	if err := h.orders.Clear(c.Request.Context()); err != nil {
		WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleByCustomer groups the matching orders by customer
func (h *OrderHandler) HandleByCustomer(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	groups, err := h.orders.ByCustomer(c.Request.Context(), f)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// HandleByDate groups the matching orders by creation day
func (h *OrderHandler) HandleByDate(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	groups, err := h.orders.ByDate(c.Request.Context(), f)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// RegisterRoutes registers the handler's routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.HandleList)
	orders.POST("", h.HandleCreate)
	orders.DELETE("", h.HandleClear)
	orders.GET("/by-customer", h.HandleByCustomer)
	orders.GET("/by-date", h.HandleByDate)
	orders.GET("/:id", h.HandleGet)
	orders.PATCH("/:id", h.HandleUpdate)
}

// bindFilter reads an OrderFilter from the query string. An empty query yields nil.
func bindFilter(c *gin.Context) (*models.OrderFilter, bool) {
	var f models.OrderFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		WriteError(c, NewValidationError(err.Error()))
		return nil, false
	}
	if f.IsZero() {
		return nil, true
	}
	return &f, true
}

// creatorFrom reads the calling user from the identity headers
func creatorFrom(c *gin.Context) *models.Creator {
	id := strings.TrimSpace(c.GetHeader(HeaderUserID))
	name := strings.TrimSpace(c.GetHeader(HeaderUserName))
	if id == "" && name == "" {
		return nil
	}
	return &models.Creator{ID: id, Name: name}
}
