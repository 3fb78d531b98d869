package handler

import (
	"net/http"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"
	"invoice_server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const bottleOrderNotFound = "Bottle order not found"

// BottleOrderHandler serves deposit-bottle orders, scoped like bills.
type BottleOrderHandler struct {
	service service.BottleOrderService
	logger  *logrus.Logger
}

func NewBottleOrderHandler(s service.BottleOrderService, logger *logrus.Logger) *BottleOrderHandler {
	return &BottleOrderHandler{service: s, logger: logger}
}

func (h *BottleOrderHandler) list(c *gin.Context, scope repository.OwnerFilter) {
	orders, err := h.service.List(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, err, bottleOrderNotFound, "Failed to retrieve bottle orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *BottleOrderHandler) get(c *gin.Context, scope repository.OwnerFilter) {
	order, err := h.service.Get(c.Request.Context(), c.Param("id"), scope)
	if err != nil {
		respondError(c, h.logger, err, bottleOrderNotFound, "Failed to retrieve bottle order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *BottleOrderHandler) GetMyBottleOrders(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		return
	}
	h.list(c, scope)
}

func (h *BottleOrderHandler) GetMyBottleOrder(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		return
	}
	h.get(c, scope)
}

func (h *BottleOrderHandler) CreateBottleOrder(c *gin.Context) {
	p, ok := getPrincipal(c)
	if !ok {
		return
	}
	var fields model.BottleOrderFields
	if !bindJSON(c, &fields) {
		return
	}

	order, err := h.service.Create(c.Request.Context(), p, fields)
	if err != nil {
		respondError(c, h.logger, err, bottleOrderNotFound, "Failed to create bottle order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *BottleOrderHandler) update(c *gin.Context, scope repository.OwnerFilter) {
	var fields model.BottleOrderFields
	if !bindJSON(c, &fields) {
		return
	}

	order, err := h.service.Update(c.Request.Context(), c.Param("id"), scope, fields)
	if err != nil {
		respondError(c, h.logger, err, bottleOrderNotFound, "Failed to update bottle order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *BottleOrderHandler) delete(c *gin.Context, scope repository.OwnerFilter) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), scope); err != nil {
		respondError(c, h.logger, err, bottleOrderNotFound, "Failed to delete bottle order")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BottleOrderHandler) UpdateMyBottleOrder(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		return
	}
	h.update(c, scope)
}

func (h *BottleOrderHandler) DeleteMyBottleOrder(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		return
	}
	h.delete(c, scope)
}

// Admin specific handlers

func (h *BottleOrderHandler) AdminGetAllBottleOrders(c *gin.Context) {
	h.list(c, repository.Unrestricted())
}

func (h *BottleOrderHandler) AdminGetBottleOrder(c *gin.Context) {
	h.get(c, repository.Unrestricted())
}

// AdminUpdateBottleOrder and AdminDeleteBottleOrder skip the ownership filter. Records
// created by staff carry no phone and are only reachable here.
func (h *BottleOrderHandler) AdminUpdateBottleOrder(c *gin.Context) {
	h.update(c, repository.Unrestricted())
}

func (h *BottleOrderHandler) AdminDeleteBottleOrder(c *gin.Context) {
	h.delete(c, repository.Unrestricted())
}

// RegisterBottleOrderRoutes registers bottle order routes
func (h *BottleOrderHandler) RegisterBottleOrderRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	orders := rg.Group("/bottle-orders")
	orders.Use(authMW)
	{
		orders.GET("", h.GetMyBottleOrders)
		orders.POST("", h.CreateBottleOrder)
		orders.GET("/:id", h.GetMyBottleOrder)
		orders.PUT("/:id", h.UpdateMyBottleOrder)
		orders.DELETE("/:id", h.DeleteMyBottleOrder)
	}

	admin := rg.Group("/admin/bottle-orders")
	admin.Use(authMW, adminMW)
	{
		admin.GET("", h.AdminGetAllBottleOrders)
		admin.GET("/:id", h.AdminGetBottleOrder)
		admin.PUT("/:id", h.AdminUpdateBottleOrder)
		admin.DELETE("/:id", h.AdminDeleteBottleOrder)
	}
}
