package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"

	"github.com/mrops-br/products-hexagonal-api/internal/app/service"
	"github.com/mrops-br/products-hexagonal-api/internal/domain"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/config"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/event"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/http"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/repository/postgres"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	app := &cli.App{
		Name:   "products-api",
		Usage:  "product catalog HTTP API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:  "env",
				Usage: "print the environment variables the service reads",
				Action: func(c *cli.Context) error {
					return config.Usage(c.App.Writer)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(_ *cli.Context) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize OpenTelemetry
	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	} else {
		telem = telemetry.NewNoOpTelemetry(cfg)
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("products-api")
	meter := telem.MeterProvider.Meter("products-api")
	logger := telem.Logger

	logger.Info("Starting Products API")

	repo, closeRepo, err := newRepository(ctx, &cfg.Storage, tracer, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	publisher := event.NewLoggingPublisher(logger, meter)
	productService := service.NewProductManagementService(repo, publisher, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	server := http.NewServer(&cfg.Server, productHandler, logger, telem)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
	return nil
}

// newRepository builds the storage adapter selected by STORAGE_DRIVER
func newRepository(ctx context.Context, cfg *config.StorageConfig, tracer trace.Tracer, logger *slog.Logger) (domain.ProductRepository, func(), error) {
	switch cfg.Driver {
	case config.StorageMemory:
		logger.Info("Using in-memory product repository")
		return memory.NewProductRepository(tracer, logger), func() {}, nil

	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		repo := postgres.NewProductRepository(db, tracer, logger)
		if cfg.AutoCreateSchema {
			if err := repo.EnsureSchema(ctx); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}

		logger.Info("Using PostgreSQL product repository")
		return repo, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
