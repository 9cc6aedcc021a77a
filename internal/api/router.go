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

	_ "github.com/openshelf/library-api/docs"
	"github.com/openshelf/library-api/internal/api/handler"
	"github.com/openshelf/library-api/internal/api/middleware"
	"github.com/openshelf/library-api/internal/core/ports"
	"github.com/openshelf/library-api/internal/core/service"
	mongodb "github.com/openshelf/library-api/internal/infrastructure/db/mongo"
	redisdb "github.com/openshelf/library-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/openshelf/library-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	userRepo := mongodb.NewUserRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	dedup := redisdb.NewDedupChecker(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, tokenTTL, log)
	catalogService := service.NewCatalogService(bookRepo, dedup, log)
	circulationService := service.NewCirculationService(bookRepo, log)

	readiness := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	return newRouter(authService, catalogService, circulationService, readiness, log)
}

// newRouter registers middleware and the route table over the given
// services. Split out from NewRouter so the wiring can be exercised
// without live Mongo/Redis connections.
func newRouter(auth ports.AuthService, catalog ports.CatalogService, circulation ports.CirculationService, readiness *healthhandlers.HealthDependenciesHandler, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("library"))

	authHandler := handler.NewAuthHandler(auth)
	bookHandler := handler.NewBookHandler(catalog)
	circulationHandler := handler.NewCirculationHandler(circulation)

	requireToken := middleware.Auth(auth)
	requireAdmin := middleware.RequireAdmin()

	// --- Auth routes (public) ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Catalog reads (any authenticated user) ---
	e.GET("/books", bookHandler.List, requireToken)
	e.GET("/books/issued", circulationHandler.ListIssued, requireToken)
	e.GET("/books/:isbn", bookHandler.Get, requireToken)

	// --- Catalog and circulation mutations (admin only) ---
	e.POST("/books", bookHandler.Add, requireToken, requireAdmin)
	e.PUT("/books/:isbn", bookHandler.Update, requireToken, requireAdmin)
	e.DELETE("/books/:isbn", bookHandler.Delete, requireToken, requireAdmin)
	e.POST("/books/issue/:isbn", circulationHandler.Issue, requireToken, requireAdmin)
	e.POST("/books/return/:isbn", circulationHandler.Return, requireToken, requireAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()

	e.GET("/health", healthHandler.Liveness)    // liveness  – is the process alive?
	e.GET("/health/ready", readiness.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
