package router

import (
	"time"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/config"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/handler"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/middleware"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/repository"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/service"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/worker"

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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	employeeRepo := repository.NewEmployeeRepository(db)
	commandRepo := repository.NewCommandRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	productRepo := repository.NewProductRepository(db)
	statusRepo := repository.NewStatusRepository(db, rdb)
	sessionRepo := repository.NewSessionRepository(db)
	closingRepo := repository.NewClosingRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(employeeRepo, cfg)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	commandSvc := service.NewCommandService(commandRepo, orderRepo, tableRepo, productRepo, statusRepo, dispatcher)
	billSvc := service.NewBillService(commandRepo, orderRepo)
	sessionSvc := service.NewSessionService(sessionRepo, closingRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	commandH := handler.NewCommandHandler(commandSvc, authSvc)
	billH := handler.NewBillHandler(billSvc, authSvc, cfg.PDFStoragePath)
	sessionH := handler.NewSessionHandler(sessionSvc, authSvc)
	catalogH := handler.NewCatalogHandler(tableRepo, productRepo, authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: waiter, supervisor, admin — declared per-endpoint
		anyStaff := middleware.RequireRole("waiter", "supervisor", "admin")
		managers := middleware.RequireRole("supervisor", "admin")

		commands := v1.Group("/commands", anyStaff)
		{
			commands.POST("", commandH.Create)
			commands.GET("", commandH.List)
			commands.GET("/:id", commandH.Get)
			commands.PATCH("/:id/status", commandH.ChangeStatus)
			commands.PATCH("/:id/table", commandH.ChangeTable)
			commands.POST("/:id/orders", commandH.AddOrders)
			commands.GET("/:id/orders", commandH.ListOrders)
			commands.GET("/:id/bill", billH.Get)
			commands.GET("/:id/bill/pdf", billH.PDF)
		}

		v1.DELETE("/orders/:id", anyStaff, commandH.CancelOrder)

		sessions := v1.Group("/cash-sessions")
		{
			sessions.POST("", managers, sessionH.Start)
			sessions.POST("/:id/close", managers, sessionH.Close)
			sessions.GET("/active", anyStaff, sessionH.GetActive)
			sessions.GET("", managers, sessionH.List)
		}

		v1.GET("/tables", anyStaff, catalogH.ListTables)
		v1.GET("/products", anyStaff, catalogH.ListProducts)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
