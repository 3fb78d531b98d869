package handler

import (
	"errors"
	"net/http"

	"invoice_server/internal/model"
	"invoice_server/internal/service"
	"invoice_server/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProductHandler serves the catalogue and product image uploads.
type ProductHandler struct {
	service service.ProductService
	logger  *logrus.Logger
}

func NewProductHandler(s service.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{service: s, logger: logger}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "", "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and price are required"})
		return
	}

	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "", "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req model.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, "Product not found", "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Product not found", "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// maxUploadBody caps the whole multipart body: one image plus form overhead.
const maxUploadBody = storage.MaxImageSize + 1<<20

// UploadImage accepts multipart field "image" and returns the stored path.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	// a missing field leaves file nil, which the service rejects
	file, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": storage.ErrTooLarge.Error()})
			return
		}
		h.logger.WithError(err).Warn("Unreadable image upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	imagePath, err := h.service.UploadImage(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.logger, err, "", "Failed to upload image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imagePath": imagePath})
}

// RegisterProductRoutes registers the public catalogue and the admin-only
// mutations, including the upload endpoint.
func (h *ProductHandler) RegisterProductRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	products := rg.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.POST("", authMW, adminMW, h.CreateProduct)
		products.PUT("/:id", authMW, adminMW, h.UpdateProduct)
		products.DELETE("/:id", authMW, adminMW, h.DeleteProduct)
	}

	rg.POST("/upload/product", authMW, adminMW, h.UploadImage)
}
