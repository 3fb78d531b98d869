package handler

import (
	"context"
	"net/http"

	"invoice_server/internal/metrics"
	"invoice_server/internal/middleware"
	"invoice_server/internal/service"
	"invoice_server/internal/storage"
	"invoice_server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// uploadsCacheControl is sent with every served product image: 7 days.
const uploadsCacheControl = "public, max-age=604800"

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Auth         service.AuthService
	Products     service.ProductService
	Bills        service.BillService
	BottleOrders service.BottleOrderService
	Company      service.CompanyService

	JWT     *utils.JWTUtil
	Staff   middleware.StaffLookup
	Metrics *metrics.Metrics
	Logger  *logrus.Logger

	// Health reports whether the database is reachable.
	Health func(ctx context.Context) error

	// UploadsDir is served at /uploads when images are stored locally.
	UploadsDir     string
	FrontendOrigin string
	Production     bool
}

// NewRouter wires middleware, handlers and routes onto a fresh engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(deps.Logger),
		deps.Metrics.Middleware(),
		middleware.CORS(deps.FrontendOrigin),
	)

	authMW := middleware.JWTAuthMiddleware(deps.JWT, deps.Staff, deps.Logger)
	adminMW := middleware.AdminMiddleware()

	api := router.Group("/api")
	NewAuthHandler(deps.Auth, deps.Logger, deps.Production).RegisterAuthRoutes(api, authMW)
	NewProductHandler(deps.Products, deps.Logger).RegisterProductRoutes(api, authMW, adminMW)
	NewBillHandler(deps.Bills, deps.Logger).RegisterBillRoutes(api, authMW, adminMW)
	NewBottleOrderHandler(deps.BottleOrders, deps.Logger).RegisterBottleOrderRoutes(api, authMW, adminMW)
	NewCompanyHandler(deps.Company, deps.Logger).RegisterCompanyRoutes(api, authMW, adminMW)

	api.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(c.Request.Context()); err != nil {
				deps.Logger.WithError(err).Warn("Health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "db": "healthy"})
	})

	router.GET("/metrics", deps.Metrics.Handler())

	if deps.UploadsDir != "" {
		uploads := router.Group(storage.PublicPrefix, func(c *gin.Context) {
			c.Header("Cache-Control", uploadsCacheControl)
			c.Next()
		})
		uploads.Static("/", deps.UploadsDir)
	}

	return router
}
