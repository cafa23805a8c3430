package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/tx"
	"furnicost/internal/domain/catalogs/complexity"
	"furnicost/internal/domain/catalogs/material"
	"furnicost/internal/domain/catalogs/paintrecipe"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/internal/domain/costing"
	"furnicost/internal/domain/pricing"
	"furnicost/internal/infrastructure/cache"
	"furnicost/internal/infrastructure/http/v1/handlers"
	"furnicost/internal/infrastructure/http/v1/middleware"
	"furnicost/internal/infrastructure/metrics"
	"furnicost/internal/infrastructure/storage/postgres"
	"furnicost/pkg/logger"
)

// RouterConfig holds router configuration. Nil services leave their routes
// unregistered.
type RouterConfig struct {
	Logger *logger.Logger

	// TxManager is injected into every request context
	TxManager tx.Manager

	// DB backs the readiness probe
	DB         handlers.Pinger
	PoolStats  func() postgres.PoolStats
	CacheStats func() []cache.Stats
	Info       handlers.BuildInfo

	Metrics     *metrics.Metrics
	MetricsPath string

	Materials    *material.Service
	Recipes      *paintrecipe.Service
	Complexities *complexity.Service
	Products     *product.Service

	Costing  handlers.CostingService
	Pricing  *pricing.Calculator
	Settings costing.Settings

	MaxUploadBytes int64

	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Operator())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.ErrorHandler())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    apperror.CodeNotFound,
			"message": "route not found",
			"details": gin.H{"path": c.Request.URL.Path},
		})
	})

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.PoolStats, cfg.CacheStats, cfg.Info)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Database(cfg.TxManager))
	{
		registerCatalogRoutes(v1, cfg)
		registerCostingRoutes(v1, cfg)
		registerPricingRoutes(v1, cfg)
	}

	return router
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- MATERIALS ---
	if cfg.Materials != nil {
		group := catalogs.Group("/materials")

		var recorder handlers.ImportRecorder
		if cfg.Metrics != nil {
			recorder = cfg.Metrics
		}
		importHandler := handlers.NewImportHandler(baseHandler, cfg.Materials, recorder, cfg.MaxUploadBytes)
		group.POST("/import", importHandler.ImportMaterials)

		RegisterCatalogRoutes(group, handlers.NewMaterialHandler(baseHandler, cfg.Materials))
	}

	// --- PAINT RECIPES ---
	if cfg.Recipes != nil {
		RegisterCatalogRoutes(catalogs.Group("/paint-recipes"), handlers.NewRecipeHandler(baseHandler, cfg.Recipes))
	}

	// --- PAINT COMPLEXITIES ---
	if cfg.Complexities != nil {
		RegisterCatalogRoutes(catalogs.Group("/paint-complexities"), handlers.NewComplexityHandler(baseHandler, cfg.Complexities))
	}

	// --- PRODUCTS ---
	if cfg.Products != nil {
		group := catalogs.Group("/products")

		priceList := handlers.NewPriceListHandler(baseHandler, cfg.Products, cfg.Settings.Currency)
		group.GET("/price-list", priceList.Export)

		RegisterCatalogRoutes(group, handlers.NewProductHandler(baseHandler, cfg.Products))
	}
}

// registerCostingRoutes registers cost calculation endpoints.
func registerCostingRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Costing == nil {
		return
	}

	h := handlers.NewCostingHandler(handlers.NewBaseHandler(), cfg.Costing, cfg.Settings)

	group := rg.Group("/costing")
	group.POST("/calculate", h.Calculate)
	group.POST("/products/:id/calculate", h.CalculateProduct)
	group.GET("/products/:id/fingerprint/verify", h.VerifyFingerprint)
	group.GET("/products/:id/requirements", h.Requirements)
}

// registerPricingRoutes registers collection pricing endpoints.
func registerPricingRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Pricing == nil {
		return
	}

	h := handlers.NewPricingHandler(handlers.NewBaseHandler(), cfg.Pricing)

	group := rg.Group("/pricing")
	group.POST("/quote", h.Quote)
	group.GET("/collections", h.Collections)
}
