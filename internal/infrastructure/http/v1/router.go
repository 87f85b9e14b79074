// Package v1 provides HTTP API version 1.
package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockpile/internal/core/numerator"
	"stockpile/internal/domain/audit"
	"stockpile/internal/domain/auth"
	"stockpile/internal/domain/catalogs/product"
	"stockpile/internal/domain/catalogs/warehouse"
	"stockpile/internal/domain/documents/adjustment"
	"stockpile/internal/domain/documents/delivery"
	"stockpile/internal/domain/documents/receipt"
	"stockpile/internal/domain/documents/transfer"
	"stockpile/internal/domain/posting"
	"stockpile/internal/domain/registers/stock"
	"stockpile/internal/infrastructure/http/v1/handlers"
	"stockpile/internal/infrastructure/http/v1/middleware"
	"stockpile/internal/infrastructure/metrics"
	"stockpile/internal/infrastructure/storage/postgres"
	"stockpile/internal/infrastructure/storage/postgres/catalog_repo"
	"stockpile/internal/infrastructure/storage/postgres/document_repo"
	"stockpile/internal/infrastructure/storage/postgres/register_repo"
	"stockpile/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks).
	Pool *postgres.Pool

	// TxManager runs repository calls, transactional or not.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// AuthService for authentication endpoints and token verification.
	AuthService *auth.Service

	// Numerator for document number generation.
	Numerator numerator.Generator

	// Audit records entity changes. Optional.
	Audit *postgres.AuditService

	// Metrics exposes Prometheus metrics. Optional.
	Metrics *metrics.Metrics
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
		router.GET("/metrics", cfg.Metrics.Handler())
	}

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.AuthService))

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerRegisterRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	publicAuth := rg.Group("/auth")

	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.AuthService))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := product.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewProductHandler(baseHandler, service)

		group := catalogs.Group("/products")
		handler.RegisterRoutes(group)
		group.GET("/low-stock", handler.ListLowStock)
		group.POST("/:id/release-hold", middleware.RequireAdmin(), handler.ReleaseIntegrityHold)
	}

	// --- WAREHOUSES ---
	{
		repo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
		service := warehouse.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewWarehouseHandler(baseHandler, service)
		handler.RegisterRoutes(catalogs.Group("/warehouses"))
	}
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/documents")
	baseHandler := handlers.NewBaseHandler()

	// Shared dependencies for the posting pipeline
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)
	stockService := stock.NewService(stockRepo, productRepo, cfg.TxManager)

	postingEngine := posting.NewEngine(stockService, productRepo, warehouseRepo, cfg.TxManager)
	if cfg.Metrics != nil {
		postingEngine = postingEngine.WithMetrics(cfg.Metrics)
	}

	// --- RECEIPTS ---
	{
		repo := document_repo.NewReceiptRepo(cfg.TxManager)
		service := receipt.NewService(repo, postingEngine, cfg.Numerator, cfg.TxManager)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *receipt.Receipt) error {
			audit.EnrichCreatedByDirect(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *receipt.Receipt) error {
			audit.EnrichUpdatedByDirect(ctx, &doc.UpdatedBy)
			return nil
		})
		if cfg.Audit != nil {
			service.Hooks().OnAfterCreate(func(ctx context.Context, doc *receipt.Receipt) error {
				return cfg.Audit.LogChange(ctx, receipt.DocumentType, doc.ID,
					postgres.AuditActionCreate, map[string]any{"number": doc.Number})
			})
			service.Hooks().OnAfterUpdate(func(ctx context.Context, doc *receipt.Receipt) error {
				return cfg.Audit.LogChange(ctx, receipt.DocumentType, doc.ID,
					postgres.AuditActionUpdate, map[string]any{"number": doc.Number})
			})
			service.Hooks().OnAfterTransition(func(ctx context.Context, doc *receipt.Receipt) error {
				return cfg.Audit.LogChange(ctx, receipt.DocumentType, doc.ID,
					postgres.AuditActionTransition,
					map[string]any{"number": doc.Number, "status": doc.Status})
			})
		}

		handler := handlers.NewReceiptHandler(baseHandler, service)
		handler.RegisterRoutes(docsGroup.Group("/receipts"))
	}

	// --- DELIVERIES ---
	{
		repo := document_repo.NewDeliveryRepo(cfg.TxManager)
		service := delivery.NewService(repo, postingEngine, cfg.Numerator, cfg.TxManager)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *delivery.Delivery) error {
			audit.EnrichCreatedByDirect(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *delivery.Delivery) error {
			audit.EnrichUpdatedByDirect(ctx, &doc.UpdatedBy)
			return nil
		})
		if cfg.Audit != nil {
			service.Hooks().OnAfterCreate(func(ctx context.Context, doc *delivery.Delivery) error {
				return cfg.Audit.LogChange(ctx, delivery.DocumentType, doc.ID,
					postgres.AuditActionCreate, map[string]any{"number": doc.Number})
			})
			service.Hooks().OnAfterUpdate(func(ctx context.Context, doc *delivery.Delivery) error {
				return cfg.Audit.LogChange(ctx, delivery.DocumentType, doc.ID,
					postgres.AuditActionUpdate, map[string]any{"number": doc.Number})
			})
			service.Hooks().OnAfterTransition(func(ctx context.Context, doc *delivery.Delivery) error {
				return cfg.Audit.LogChange(ctx, delivery.DocumentType, doc.ID,
					postgres.AuditActionTransition,
					map[string]any{"number": doc.Number, "status": doc.Status})
			})
		}

		handler := handlers.NewDeliveryHandler(baseHandler, service)
		handler.RegisterRoutes(docsGroup.Group("/deliveries"))
	}

	// --- TRANSFERS ---
	{
		repo := document_repo.NewTransferRepo(cfg.TxManager)
		service := transfer.NewService(repo, postingEngine, cfg.Numerator, cfg.TxManager)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *transfer.Transfer) error {
			audit.EnrichCreatedByDirect(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *transfer.Transfer) error {
			audit.EnrichUpdatedByDirect(ctx, &doc.UpdatedBy)
			return nil
		})
		if cfg.Audit != nil {
			service.Hooks().OnAfterCreate(func(ctx context.Context, doc *transfer.Transfer) error {
				return cfg.Audit.LogChange(ctx, transfer.DocumentType, doc.ID,
					postgres.AuditActionCreate, map[string]any{"number": doc.Number})
			})
			service.Hooks().OnAfterUpdate(func(ctx context.Context, doc *transfer.Transfer) error {
				return cfg.Audit.LogChange(ctx, transfer.DocumentType, doc.ID,
					postgres.AuditActionUpdate, map[string]any{"number": doc.Number})
			})
			service.Hooks().OnAfterTransition(func(ctx context.Context, doc *transfer.Transfer) error {
				return cfg.Audit.LogChange(ctx, transfer.DocumentType, doc.ID,
					postgres.AuditActionTransition,
					map[string]any{"number": doc.Number, "status": doc.Status})
			})
		}

		handler := handlers.NewTransferHandler(baseHandler, service)
		handler.RegisterRoutes(docsGroup.Group("/transfers"))
	}

	// --- ADJUSTMENTS ---
	{
		repo := document_repo.NewAdjustmentRepo(cfg.TxManager)
		service := adjustment.NewService(repo, postingEngine, stockService, cfg.Numerator, cfg.TxManager)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *adjustment.Adjustment) error {
			audit.EnrichCreatedByDirect(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *adjustment.Adjustment) error {
			audit.EnrichUpdatedByDirect(ctx, &doc.UpdatedBy)
			return nil
		})
		if cfg.Audit != nil {
			service.Hooks().OnAfterCreate(func(ctx context.Context, doc *adjustment.Adjustment) error {
				return cfg.Audit.LogChange(ctx, adjustment.DocumentType, doc.ID,
					postgres.AuditActionCreate, map[string]any{"number": doc.Number})
			})
			service.Hooks().OnAfterUpdate(func(ctx context.Context, doc *adjustment.Adjustment) error {
				return cfg.Audit.LogChange(ctx, adjustment.DocumentType, doc.ID,
					postgres.AuditActionUpdate, map[string]any{"number": doc.Number})
			})
			service.Hooks().OnAfterTransition(func(ctx context.Context, doc *adjustment.Adjustment) error {
				return cfg.Audit.LogChange(ctx, adjustment.DocumentType, doc.ID,
					postgres.AuditActionTransition,
					map[string]any{"number": doc.Number, "status": doc.Status})
			})
		}

		handler := handlers.NewAdjustmentHandler(baseHandler, service)
		handler.RegisterRoutes(docsGroup.Group("/adjustments"))
	}
}

// registerRegisterRoutes registers stock register endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	registers := rg.Group("/registers")
	baseHandler := handlers.NewBaseHandler()

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)
	stockService := stock.NewService(stockRepo, productRepo, cfg.TxManager)
	stockHandler := handlers.NewStockHandler(baseHandler, stockService)

	stockGroup := registers.Group("/stock")
	stockHandler.RegisterRoutes(stockGroup)
	stockGroup.POST("/reconcile", middleware.RequireAdmin(), stockHandler.Reconcile)
}
