package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	_ "github.com/platformteam/auth-service/docs"
	"github.com/platformteam/auth-service/internal/api/handler"
	"github.com/platformteam/auth-service/internal/api/middleware"
	"github.com/platformteam/auth-service/internal/core/domain"
	"github.com/platformteam/auth-service/internal/core/ports"
	"github.com/platformteam/auth-service/internal/core/service"
	"github.com/platformteam/auth-service/internal/core/token"
	postgresdb "github.com/platformteam/auth-service/internal/infrastructure/db/postgres"
	redisdb "github.com/platformteam/auth-service/internal/infrastructure/db/redis"
	"github.com/platformteam/auth-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The /authorization endpoints are public; everything under /users requires
// an authenticated principal.
func NewRouter(
	db *gorm.DB,
	rdb *redis.Client,
	mdb *mongo.Database,
	cfg *config.Config,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: strings.Split(cfg.CORSAllowOrigins, ","),
	}))
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	codec := token.NewCodec()
	userRepo := postgresdb.NewUserRepository(db)
	refreshRepo := postgresdb.NewRefreshTokenRepository(db)
	replayGuard := redisdb.NewReplayGuard(rdb)

	authService := service.NewAuthService(
		userRepo, refreshRepo, codec, cfg.Security, replayGuard, audit, log)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, userRepo)

	// The filter runs on every route; public routes simply never consult
	// the principal it may or may not attach.
	e.Use(middleware.Authenticate(cfg.Security, codec, log))

	// --- Authorization routes (public) ---
	authz := e.Group("/authorization")
	authz.POST("/login", authHandler.Login)
	authz.POST("/refresh-tokens", authHandler.Refresh)
	authz.POST("/registration", authHandler.Register)

	// --- User routes (authenticated) ---
	users := e.Group("/users", middleware.RequireAuth())
	users.GET("/current", userHandler.Current)
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb, mdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
