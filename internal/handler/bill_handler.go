package handler

import (
	"net/http"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"
	"invoice_server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const billNotFound = "Bill not found"

// BillHandler serves bills. Per-user routes are always filtered to the
// caller's records; the admin routes see everything.
type BillHandler struct {
	service service.BillService
	logger  *logrus.Logger
}

func NewBillHandler(s service.BillService, logger *logrus.Logger) *BillHandler {
	return &BillHandler{service: s, logger: logger}
}

func (h *BillHandler) list(c *gin.Context, scope repository.OwnerFilter) {
	bills, err := h.service.List(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, err, billNotFound, "Failed to retrieve bills")
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *BillHandler) get(c *gin.Context, scope repository.OwnerFilter) {
	bill, err := h.service.Get(c.Request.Context(), c.Param("id"), scope)
	if err != nil {
		respondError(c, h.logger, err, billNotFound, "Failed to retrieve bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *BillHandler) GetMyBills(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		return
	}
	h.list(c, scope)
}

func (h *BillHandler) GetMyBill(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		return
	}
	h.get(c, scope)
}

func (h *BillHandler) CreateBill(c *gin.Context) {
	p, ok := getPrincipal(c)
	if !ok {
		return
	}
	var fields model.BillFields
	if !bindJSON(c, &fields) {
		return
	}

	bill, err := h.service.Create(c.Request.Context(), p, fields)
	if err != nil {
		respondError(c, h.logger, err, billNotFound, "Failed to create bill")
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *BillHandler) update(c *gin.Context, scope repository.OwnerFilter) {
	var fields model.BillFields
	if !bindJSON(c, &fields) {
		return
	}

	bill, err := h.service.Update(c.Request.Context(), c.Param("id"), scope, fields)
	if err != nil {
		respondError(c, h.logger, err, billNotFound, "Failed to update bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *BillHandler) delete(c *gin.Context, scope repository.OwnerFilter) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), scope); err != nil {
		respondError(c, h.logger, err, billNotFound, "Failed to delete bill")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BillHandler) UpdateMyBill(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		return
	}
	h.update(c, scope)
}

func (h *BillHandler) DeleteMyBill(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		return
	}
	h.delete(c, scope)
}

// Admin specific handlers

func (h *BillHandler) AdminGetAllBills(c *gin.Context) {
	h.list(c, repository.Unrestricted())
}

func (h *BillHandler) AdminGetBill(c *gin.Context) {
	h.get(c, repository.Unrestricted())
}

// AdminUpdateBill and AdminDeleteBill skip the ownership filter. Records
// created by staff carry no phone and are only reachable here.
func (h *BillHandler) AdminUpdateBill(c *gin.Context) {
	h.update(c, repository.Unrestricted())
}

func (h *BillHandler) AdminDeleteBill(c *gin.Context) {
	h.delete(c, repository.Unrestricted())
}

// RegisterBillRoutes registers bill routes
func (h *BillHandler) RegisterBillRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	bills := rg.Group("/bills")
	bills.Use(authMW)
	{
		bills.GET("", h.GetMyBills)
		bills.POST("", h.CreateBill)
		bills.GET("/:id", h.GetMyBill)
		bills.PUT("/:id", h.UpdateMyBill)
		bills.DELETE("/:id", h.DeleteMyBill)
	}

	admin := rg.Group("/admin/bills")
	admin.Use(authMW, adminMW)
	{
		admin.GET("", h.AdminGetAllBills)
		admin.GET("/:id", h.AdminGetBill)
		admin.PUT("/:id", h.AdminUpdateBill)
		admin.DELETE("/:id", h.AdminDeleteBill)
	}
}
