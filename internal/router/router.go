package router

import (
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/config"
	"github.com/Lysium16/bancalplast-lysium/internal/handler"
	"github.com/Lysium16/bancalplast-lysium/internal/infra"
	"github.com/Lysium16/bancalplast-lysium/internal/middleware"
	"github.com/Lysium16/bancalplast-lysium/internal/repository"
	"github.com/Lysium16/bancalplast-lysium/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil, in which case boards are always read from the store.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	var cache service.BoardCache
	if rdb != nil {
		cache = infra.NewBoardCache(rdb, cfg.BoardCacheTTL())
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	tripRepo := repository.NewTripRepository(db)
	palletRepo := repository.NewPalletRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	tripSvc := service.NewTripService(tripRepo, palletRepo, cache)
	palletSvc := service.NewPalletService(palletRepo, tripRepo, tripSvc, cache)
	boardSvc := service.NewBoardService(palletRepo, cache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	palletsH := handler.NewPalletsHandler(palletSvc)
	tripsH := handler.NewTripsHandler(tripSvc)
	boardH := handler.NewBoardHandler(boardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		// Production floor
		pallets := v1.Group("/pallets")
		{
			pallets.GET("", palletsH.ListPending)
			pallets.POST("", palletsH.Create)
			pallets.GET("/:id", palletsH.Get)
			pallets.PUT("/:id", palletsH.Update)
			pallets.PATCH("/:id/status", palletsH.SetStatus)

			// Office bulk actions
			pallets.POST("/assign", palletsH.Assign)
			pallets.POST("/send", palletsH.MarkSent)
			pallets.POST("/delete", palletsH.DeleteMany)
		}

		trips := v1.Group("/trips")
		{
			trips.GET("", tripsH.List)
			trips.POST("", tripsH.Resolve)
			trips.DELETE("/:id", tripsH.Delete)
			trips.GET("/:id/manifest", tripsH.Manifest)
		}

		board := v1.Group("/board")
		{
			board.GET("/ready", boardH.Ready)
			board.GET("/shipped", boardH.Shipped)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
