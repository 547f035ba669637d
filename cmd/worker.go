package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/edueat/services/cafeteria/config"
	"example.com/edueat/services/cafeteria/internal/cache"
	"example.com/edueat/services/cafeteria/internal/database"
	"example.com/edueat/services/cafeteria/internal/messaging"
	"example.com/edueat/services/cafeteria/internal/metrics"
	"example.com/edueat/services/cafeteria/internal/repositories"
	"example.com/edueat/services/cafeteria/internal/search"
	"example.com/edueat/services/cafeteria/internal/services"
	"example.com/edueat/services/cafeteria/internal/tracing"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that indexes order events, refreshes the menu cache and scans inventory expiry dates`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
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

	g, ctx := errgroup.WithContext(ctx)

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

	metricsCollector := metrics.NewMetrics()

	menuRepo := repositories.NewMenuRepository(db, readOnlyDB)
	orderRepo := repositories.NewOrderRepository(db, readOnlyDB)
	inventoryRepo := repositories.NewInventoryRepository(db, readOnlyDB)
	wasteRepo := repositories.NewWasteRepository(db, readOnlyDB)

	orderService := services.NewOrderService(orderRepo, menuRepo, redisCache, nil, elasticClient, metricsCollector, tracer)
	menuService := services.NewMenuService(menuRepo, redisCache)
	inventoryService := services.NewInventoryService(inventoryRepo, wasteRepo, metricsCollector, tracer)

	// Index every order event as it happens; the cron job below catches
	// anything the queue missed.
	if cfg.Azure.QueueConnStr != "" {
		consumer, err := messaging.NewServiceBusConsumer(cfg.Azure)
		if err != nil {
			return err
		}
		defer consumer.Close()

		g.Go(func() error {
			log.Info().Str("queue", cfg.Azure.QueueName).Msg("Starting Service Bus processor")
			return consumer.ProcessMessages(ctx, func(ctx context.Context, event messaging.OrderEvent) error {
				if err := orderService.IndexOrder(ctx, event.OrderID); err != nil {
					return err
				}
				if err := menuService.WarmCache(ctx); err != nil {
					log.Warn().Err(err).Msg("Failed to refresh menu cache")
				}
				return nil
			})
		})
	} else {
		log.Warn().Msg("No Service Bus connection configured, relying on scheduled reindexing only")
	}

	// Change events on the menu channel invalidate the cached catalog for
	// every worker instance, not just the one that saw the bus event.
	if cfg.Redis.Enabled && redisCache != nil {
		g.Go(func() error {
			return redisCache.Subscribe(ctx, func(channel string, event cache.ChangeEvent) {
				switch channel {
				case cache.ChannelMenu:
					if err := menuService.WarmCache(ctx); err != nil {
						log.Warn().Err(err).Msg("Failed to refresh menu cache on change event")
					}
				case cache.ChannelOrders:
					log.Debug().
						Str("order_id", event.EntityID.String()).
						Str("action", event.Action).
						Msg("Order change event observed")
				}
			}, cache.ChannelOrders, cache.ChannelMenu)
		})
	}

	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(time.Hour),
			gocron.NewTask(func() {
				log.Info().Msg("Running inventory expiry scan")
				if _, err := inventoryService.ExpiryScan(ctx, time.Now()); err != nil {
					log.Error().Err(err).Msg("Expiry scan failed")
				}
			}),
		)
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(5*time.Minute),
			gocron.NewTask(func() {
				log.Info().Msg("Running fallback order reindex")
				if err := orderService.ReindexRecentOrders(ctx, 10*time.Minute); err != nil {
					log.Error().Err(err).Msg("Fallback reindex failed")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
