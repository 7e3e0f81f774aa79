package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/packtrace/sdp-backend/internal/handlers"
	"github.com/packtrace/sdp-backend/internal/middleware"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/platform/tracing"
)

type RouterConfig struct {
	Log               *logger.Logger
	AuthMiddleware    *middleware.AuthMiddleware
	ComponentHandler  *handlers.ComponentHandler
	SkuHandler        *handlers.SkuHandler
	MasterDataHandler *handlers.MasterDataHandler
	ExportHandler     *handlers.ExportHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// Span names come from the route template; the global provider is a
	// no-op until tracing.Init has run.
	router.Use(otelgin.Middleware(tracing.ServiceName))
	router.Use(middleware.RequestID(cfg.Log))

	// Cors
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-User-Email", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Components
	protected.POST("/add-component", cfg.ComponentHandler.AddComponent)
	protected.GET("/component-code-data", cfg.ComponentHandler.GetComponentCodeData)
	// Route spelling is part of the outward contract.
	protected.POST("/getcomponetbyskurefrence", cfg.ComponentHandler.GetComponentsBySkuReference)
	protected.POST("/sku-component-mapping", cfg.ComponentHandler.SkuComponentMapping)
	protected.GET("/consolidated-dashboard/:cm_code", cfg.ComponentHandler.Dashboard)
	// SKUs
	protected.GET("/sku-details", cfg.SkuHandler.GetAll)
	protected.GET("/sku-details/:cm_code", cfg.SkuHandler.GetByCmCode)
	protected.POST("/sku-details", cfg.SkuHandler.Insert)
	protected.PUT("/sku-details/:sku_code", cfg.SkuHandler.Update)
	protected.PATCH("/sku-details/:id/is-active", cfg.SkuHandler.SetActive)
	protected.GET("/sku-details-active-years", cfg.SkuHandler.ActiveYears)
	protected.GET("/sku-descriptions", cfg.SkuHandler.Descriptions)
	protected.POST("/toggle-status", cfg.SkuHandler.ToggleStatus)
	// Master data
	protected.GET("/master-data", cfg.MasterDataHandler.GetBundle)
	protected.POST("/master-data/refresh", cfg.MasterDataHandler.Refresh)
	// Exports
	protected.POST("/export-excel", cfg.ExportHandler.ExportJSON)
	protected.POST("/export-excel/download", cfg.ExportHandler.ExportDownload)

	return router
}
