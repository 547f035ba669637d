package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"example.com/edueat/services/cafeteria/config"
	"example.com/edueat/services/cafeteria/internal/advisory"
	"example.com/edueat/services/cafeteria/internal/api"
	"example.com/edueat/services/cafeteria/internal/cache"
	"example.com/edueat/services/cafeteria/internal/database"
	"example.com/edueat/services/cafeteria/internal/messaging"
	"example.com/edueat/services/cafeteria/internal/metrics"
	"example.com/edueat/services/cafeteria/internal/repositories"
	"example.com/edueat/services/cafeteria/internal/search"
	"example.com/edueat/services/cafeteria/internal/services"
	"example.com/edueat/services/cafeteria/internal/tracing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for parents and kitchen staff`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, readOnlyDB, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
	}

	var publisher messaging.Publisher
	if cfg.Azure.QueueConnStr != "" {
		publisher, err = messaging.NewServiceBusPublisher(cfg.Azure)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Service Bus publisher, continuing without messaging")
		} else {
			defer publisher.Close()
		}
	}

	metricsCollector := metrics.NewMetrics()
	metricsCollector.SetHealth("database", true)
	metricsCollector.SetHealth("redis", redisCache != nil)
	metricsCollector.SetHealth("elasticsearch", elasticClient != nil)

	menuRepo := repositories.NewMenuRepository(db, readOnlyDB)
	orderRepo := repositories.NewOrderRepository(db, readOnlyDB)
	inventoryRepo := repositories.NewInventoryRepository(db, readOnlyDB)
	wasteRepo := repositories.NewWasteRepository(db, readOnlyDB)
	supplierRepo := repositories.NewSupplierRepository(db, readOnlyDB)
	userRepo := repositories.NewUserRepository(db, readOnlyDB)

	svcs := api.Services{
		Auth:      services.NewAuthService(userRepo, cfg.Auth),
		Menu:      services.NewMenuService(menuRepo, redisCache),
		Order:     services.NewOrderService(orderRepo, menuRepo, redisCache, publisher, elasticClient, metricsCollector, tracer),
		Inventory: services.NewInventoryService(inventoryRepo, wasteRepo, metricsCollector, tracer),
		Supplier:  services.NewSupplierService(supplierRepo),
		Nutrition: services.NewNutritionService(orderRepo, menuRepo),
		Report:    services.NewReportService(menuRepo, orderRepo, inventoryRepo, wasteRepo, supplierRepo),
		Advisory:  advisory.NewClient(cfg.Advisory),
	}

	server := api.NewServer(cfg, svcs, metricsCollector, tracer)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
