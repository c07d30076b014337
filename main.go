package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kasir/internal/config"
	"kasir/internal/handlers"
	"kasir/internal/logging"
	"kasir/internal/middleware"
	"kasir/internal/repositories"
	"kasir/internal/services"
	"kasir/pkg/rabbitmq"
)

// App wires the services behind the HTTP API.
type App struct {
	Fiber    *fiber.App
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Checkout *services.CheckoutService

	db     *gorm.DB
	mq     *rabbitmq.Client
	logger *zap.Logger
}

// NewApp builds the catalog source, the services and the routes described
// by cfg. It does not fetch the catalog.
func NewApp(cfg config.Config, logger *zap.Logger) (*App, error) {
	app := &App{logger: logger}

	source, err := app.catalogSource(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var publisher services.OrderEventPublisher
	if cfg.RabbitMQURL != "" {
		app.mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		publisher = app.mq
	} else {
		logger.Info("RABBITMQ_URL not set, order events disabled")
	}

	// --- Initialize Services ---
	app.Catalog = services.NewCatalogService(source, logger)
	app.Cart = services.NewCartService(app.Catalog, logger)
	app.Checkout = services.NewCheckoutService(app.Cart, publisher, logger)

	// --- Initialize Fiber App ---
	app.Fiber = fiber.New(fiber.Config{
		AppName:               "kasir",
		DisableStartupMessage: true,
	})
	app.Fiber.Use(middleware.RequestLogger(logger.Named("http")))

	apiV1 := app.Fiber.Group("/api/v1")
	handlers.NewCatalogHandler(app.Catalog, logger).RegisterRoutes(apiV1)
	handlers.NewCartHandler(app.Cart, logger).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(app.Checkout, logger).RegisterRoutes(apiV1)

	app.Fiber.Get("/health", app.handleHealth)

	return app, nil
}

func (a *App) catalogSource(cfg config.Config) (repositories.CatalogSource, error) {
	switch cfg.CatalogSource {
	case config.SourceHTTP:
		a.logger.Info("serving remote catalog", zap.String("url", cfg.CatalogURL))
		return repositories.NewHTTPCatalogSource(cfg.CatalogURL, cfg.CatalogTimeout), nil

	case config.SourceDatabase:
		db, err := openDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		a.db = db

		repo := repositories.NewGORMCatalogRepository(db)
		if err := repo.Migrate(); err != nil {
			return nil, err
		}
		if err := seedCatalog(repo, a.logger); err != nil {
			return nil, err
		}
		return repo, nil

	case config.SourceMemory:
		a.logger.Info("serving the sample menu from memory")
		return repositories.NewMockCatalogSource(repositories.SampleMenu()), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
}

func openDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// seedCatalog fills an empty catalog table with the sample menu.
func seedCatalog(repo *repositories.GORMCatalogRepository, logger *zap.Logger) error {
	ctx := context.Background()
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	menu := repositories.SampleMenu()
	if err := repo.ReplaceAll(ctx, menu); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	logger.Info("seeded catalog", zap.Int("products", len(menu)))
	return nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	state := a.Catalog.State()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"products": len(state.Products),
		"loading":  state.Loading,
		"rabbitmq": a.mq != nil,
	})
}

// ConsumeOrderEvents logs every order.completed event on the order queue
// until ctx is done. It does nothing when order events are disabled.
func (a *App) ConsumeOrderEvents(ctx context.Context) error {
	if a.mq == nil {
		return nil
	}
	return a.mq.ConsumeOrderEvents(ctx, func(event rabbitmq.OrderCompleted) error {
		a.logger.Info("order completed event",
			zap.String("order_id", event.OrderID),
			zap.Int("items", event.ItemCount),
			zap.String("total", event.Total.StringFixed(2)),
		)
		return nil
	})
}

// Close releases the broker connection and the database.
func (a *App) Close() error {
	var errs []error
	if a.mq != nil {
		errs = append(errs, a.mq.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize app", zap.Error(err))
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load the catalog in the background ---
	go func() {
		if err := <-app.Catalog.StartFetch(ctx); err != nil {
			logger.Error("initial catalog fetch failed", zap.Error(err))
		}
	}()

	if err := app.ConsumeOrderEvents(ctx); err != nil {
		logger.Error("failed to start order event consumer", zap.Error(err))
	}

	// --- Start HTTP Server ---
	go func() {
		logger.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("error during Fiber shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
