package router

import (
	"time"

	"github.com/tarekelsergany/gold-ecommerce/internal/config"
	"github.com/tarekelsergany/gold-ecommerce/internal/handler"
	"github.com/tarekelsergany/gold-ecommerce/internal/middleware"
	"github.com/tarekelsergany/gold-ecommerce/internal/repository"
	"github.com/tarekelsergany/gold-ecommerce/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, 1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	goldPriceRepo := repository.NewGoldPriceRepository(db)
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	goldPriceSvc := service.NewGoldPriceService(goldPriceRepo, productRepo, historyRepo)
	productSvc := service.NewProductService(productRepo, goldPriceRepo, historyRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	goldPriceH := handler.NewGoldPriceHandler(goldPriceSvc)
	productsH := handler.NewProductsHandler(productSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")
	{
		api.GET("/db-status", handler.DBStatus(db))

		api.GET("/gold-price", goldPriceH.Latest)
		api.POST("/gold-price", goldPriceH.Update)

		api.GET("/products", productsH.List)
		api.POST("/products", productsH.Create)
		api.POST("/products/audit", productsH.Audit)
		api.GET("/products/:id", productsH.GetByID)
		api.PUT("/products/:id", productsH.Update)
		api.DELETE("/products/:id", productsH.Deactivate)
		api.GET("/products/:id/price-history", productsH.History)

		api.GET("/search/products", productsH.Search)
		api.GET("/categories", productsH.Categories)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
