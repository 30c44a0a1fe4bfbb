package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/identato/auth-service/docs"
	"github.com/identato/auth-service/internal/api/handler"
	"github.com/identato/auth-service/internal/api/middleware"
	"github.com/identato/auth-service/internal/core/domain"
	"github.com/identato/auth-service/internal/core/ports"
	"github.com/identato/auth-service/internal/core/service"
	"github.com/identato/auth-service/internal/infrastructure/config"
	mongodb "github.com/identato/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/identato/auth-service/internal/infrastructure/db/redis"
	"github.com/identato/auth-service/internal/infrastructure/http/handlers"
	"github.com/identato/auth-service/internal/password"
)

// publicPaths is the unauthenticated allow-list: auth endpoints, docs and
// probes. Everything else goes through the request gate.
var publicPaths = []string{
	"/auth/**",
	"/swagger/**",
	"/health/**",
	"/metrics",
}

// NewRouter builds the Echo instance with every route registered behind the
// single request-gate choke point.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	tokens, err := service.NewTokenService(cfg.JWT.SigningSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		return nil, err
	}

	repo := mongodb.NewUserRepository(db)
	var limiter ports.AttemptLimiter
	if rdb != nil {
		limiter = redisdb.NewAttemptLimiter(rdb, cfg.LoginMaxAttempts)
	}
	authService := service.NewAuthService(repo, tokens, password.NewHasher(), limiter, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("auth"))
	e.Use(middleware.Auth(tokens, repo, publicPaths...))

	// --- Auth routes (allow-listed) ---
	authHandler := handler.NewAuthHandler(authService)
	e.POST("/auth/user/register", authHandler.RegisterUser)
	e.POST("/auth/admin/register", authHandler.RegisterAdmin)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh-token", authHandler.Refresh)

	// --- Protected routes ---
	home := handler.NewHomeHandler()
	v1 := e.Group("/api/v1")
	v1.GET("/home", home.Home)
	v1.GET("/user", home.UserArea, middleware.RBAC(domain.RoleUser))
	v1.GET("/user/me", home.Me)
	v1.GET("/admin", home.AdminArea, middleware.RBAC(domain.RoleAdmin))

	// --- Operational surface (allow-listed) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e, nil
}
