package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketplace/cmd"
	httpapi "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/notifier"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/rabbitmq"
	"marketplace/internal/adapters/out/redis"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = postgres.EnsureDatabase(ctx, configs.Postgres); err != nil {
		log.Fatalf("Error creating database: %v", err)
	}
	gormDB, err := postgres.Open(configs.Postgres.DSN())
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		defer sqlDB.Close()
	}

	publisher, closePublisher := newPublisher(configs, logger)
	defer closePublisher()

	cache, closeCache := newEarningsCache(configs, logger)
	defer closeCache()

	app, err := cmd.NewCompositionRoot(configs, gormDB, publisher, cache, logger)
	if err != nil {
		log.Fatalf("Error wiring application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	if err = runWebServer(ctx, app, configs, logger); err != nil {
		log.Fatalf("Web server stopped: %v", err)
	}
	logger.Info("shutdown complete")
}

func newPublisher(configs cmd.Config, logger *slog.Logger) (ports.MessagePublisher, func()) {
	if configs.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL is not set, notifications are only logged")
		return notifier.NewLogPublisher(logger), func() {}
	}

	publisher, err := rabbitmq.NewPublisher(configs.RabbitMQURL, logger)
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	return publisher, func() { _ = publisher.Close() }
}

func newEarningsCache(configs cmd.Config, logger *slog.Logger) (queries.EarningsCache, func()) {
	if configs.RedisAddr == "" {
		logger.Info("REDIS_ADDR is not set, earnings are not cached")
		return nil, func() {}
	}

	pool, err := redis.NewPool(configs.RedisAddr, 10)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	return redis.NewEarningsCache(pool, configs.EarningsCacheTTL), func() { _ = pool.Close() }
}

func runWebServer(ctx context.Context, app cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) error {
	doc, err := httpapi.LoadSpec(ctx)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(io.Discard)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	server := app.CreateHTTPServer()
	if err = server.Register(e, doc); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "port", configs.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
