package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/fieldops/catalog-system/docs"
	"github.com/fieldops/catalog-system/internal/api/handler"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

// Deps carries everything the router needs. Services are constructed in main
// because the scan service and the activation dispatcher wire into each other.
type Deps struct {
	Ingestion ports.IngestionService
	Scans     ports.ScanService
	Activator ports.ActivationService
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("catalog"))

	// --- Handlers ---
	productHandler := handler.NewProductHandler(d.Ingestion)
	scanHandler := handler.NewScanHandler(d.Scans, d.Activator)

	v1 := e.Group("/v1")
	v1.POST("/products", productHandler.Create)
	v1.GET("/products/recent", productHandler.Recent)
	v1.POST("/scans", scanHandler.Receive)
	v1.POST("/scans/activate", scanHandler.Activate)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
