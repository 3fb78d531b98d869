package handler

import (
	"net/http"

	"invoice_server/internal/model"
	"invoice_server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CompanyHandler struct {
	service service.CompanyService
	logger  *logrus.Logger
}

func NewCompanyHandler(s service.CompanyService, logger *logrus.Logger) *CompanyHandler {
	return &CompanyHandler{service: s, logger: logger}
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	details, err := h.service.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "", "Failed to retrieve company details")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req model.UpdateCompanyRequest
	if !bindJSON(c, &req) {
		return
	}

	details, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "", "Failed to update company details")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *CompanyHandler) RegisterCompanyRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	rg.GET("/company", h.GetCompany)
	rg.PUT("/company", authMW, adminMW, h.UpdateCompany)
}
