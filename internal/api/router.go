package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servicedesk/admin-api/internal/api/handler"
	"github.com/servicedesk/admin-api/internal/api/middleware"
	"github.com/servicedesk/admin-api/internal/core/domain"
	"github.com/servicedesk/admin-api/internal/core/service"
	"github.com/servicedesk/admin-api/internal/infrastructure/config"
	mongodb "github.com/servicedesk/admin-api/internal/infrastructure/db/mongo"
	redisdb "github.com/servicedesk/admin-api/internal/infrastructure/db/redis"
	"github.com/servicedesk/admin-api/internal/infrastructure/session"
)

// Dependencies carries everything the router needs to assemble the API.
type Dependencies struct {
	DB     *mongo.Database
	Redis  *redis.Client
	Config *config.Config
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// The five CRUD routes are mounted once per registry entry; everything the
// handlers need to differ per resource comes from the descriptor.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("adminapi"))

	// --- Dependencies ---
	repo := mongodb.NewResourceRepository(deps.DB)
	users := mongodb.NewUserRepository(deps.DB)
	titles := redisdb.NewTitleCache(deps.Redis)
	sessions := session.NewStore()

	resourceService := service.NewResourceService(repo, titles, deps.Logger)
	authService := service.NewAuthService(users, sessions, deps.Config.JWTSecret, 24*time.Hour, deps.Logger)

	authHandler := handler.NewAuthHandler(authService, deps.Config.Session.CookieName)
	statsHandler := handler.NewStatsHandler(resourceService)

	// --- Public routes ---
	e.POST("/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Session-guarded routes ---
	authed := e.Group("", middleware.Session(sessions, authService, deps.Config.Session.CookieName))
	authed.GET("/order_stats", statsHandler.OrderStats)

	for _, res := range domain.Registry() {
		h := handler.NewCRUDHandler(res, resourceService)
		authed.POST("/"+res.Name, h.Create)
		authed.GET("/"+res.Name, h.List)
		authed.GET("/"+res.Name+"/:id", h.Get)
		authed.PUT("/"+res.Name+"/:id", h.Update)
		authed.PATCH("/"+res.Name+"/:id", h.Update)
		authed.DELETE("/"+res.Name+"/:id", h.Delete)
	}

	return e
}
