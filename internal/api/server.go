package api

import (
	"context"
	"net/http"
	"time"

	"example.com/edueat/services/cafeteria/config"
	"example.com/edueat/services/cafeteria/internal/advisory"
	"example.com/edueat/services/cafeteria/internal/api/handlers"
	"example.com/edueat/services/cafeteria/internal/api/middlewares"
	"example.com/edueat/services/cafeteria/internal/metrics"
	"example.com/edueat/services/cafeteria/internal/services"
	"example.com/edueat/services/cafeteria/internal/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Services bundles the business services the server exposes
type Services struct {
	Auth      *services.AuthService
	Menu      *services.MenuService
	Order     *services.OrderService
	Inventory *services.InventoryService
	Supplier  *services.SupplierService
	Nutrition *services.NutritionService
	Report    *services.ReportService
	Advisory  *advisory.Client
}

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	services   Services
	metrics    *metrics.Metrics
	tracer     tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, svcs Services, m *metrics.Metrics, tracer tracing.Tracer) *Server {
	if tracer == nil {
		tracer = tracing.NewDisabledTracer()
	}
	server := &Server{
		config:   cfg,
		services: svcs,
		metrics:  m,
		tracer:   tracer,
	}

	router := server.setupRouter()
	server.router = router

	server.httpServer = &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(gin.Recovery())

	if s.config.CorsEnabled {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.CorsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	authHandler := handlers.NewAuthHandler(s.services.Auth)
	authHandler.RegisterRoutes(router)

	metricsHandler := handlers.NewMetricsHandler(s.metrics)
	metricsHandler.RegisterRoutes(router)

	menuHandler := handlers.NewMenuHandler(s.services.Menu)
	orderHandler := handlers.NewOrderHandler(s.services.Order, s.tracer)
	nutritionHandler := handlers.NewNutritionHandler(s.services.Nutrition)
	advisoryHandler := handlers.NewAdvisoryHandler(s.services.Advisory)

	parent := router.Group("/", middlewares.RequireAuth(s.config.Auth.JWTSecret))
	menuHandler.RegisterParentRoutes(parent)
	orderHandler.RegisterParentRoutes(parent)
	nutritionHandler.RegisterParentRoutes(parent)
	advisoryHandler.RegisterParentRoutes(parent)

	inventoryHandler := handlers.NewInventoryHandler(s.services.Inventory)
	supplierHandler := handlers.NewSupplierHandler(s.services.Supplier)
	reportHandler := handlers.NewReportHandler(s.services.Report)

	staff := router.Group("/staff", middlewares.RequireAuth(s.config.Auth.JWTSecret), middlewares.RequireStaff())
	orderHandler.RegisterStaffRoutes(staff)
	menuHandler.RegisterStaffRoutes(staff)
	inventoryHandler.RegisterStaffRoutes(staff)
	supplierHandler.RegisterStaffRoutes(staff)
	reportHandler.RegisterStaffRoutes(staff)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
