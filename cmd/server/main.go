package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/swingeats/swingeats/internal/config"
	"github.com/swingeats/swingeats/internal/es"
	"github.com/swingeats/swingeats/internal/hub"
	"github.com/swingeats/swingeats/internal/metrics"
	"github.com/swingeats/swingeats/internal/mykafka"
	"github.com/swingeats/swingeats/internal/repo"
	"github.com/swingeats/swingeats/internal/scheduler"
	"github.com/swingeats/swingeats/internal/seed"
	"github.com/swingeats/swingeats/internal/service"
	"github.com/swingeats/swingeats/internal/service/search"
	"github.com/swingeats/swingeats/internal/timing"
	httpserver "github.com/swingeats/swingeats/internal/transport/http"
	pkgdb "github.com/swingeats/swingeats/pkg/db"
	"github.com/swingeats/swingeats/pkg/logging"
	loggingmw "github.com/swingeats/swingeats/pkg/middleware/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	store := &repo.GormRepo{DB: db}
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	if _, err := seed.Load(ctx, store, cfg.BayCount, cfg.SeedMenu); err != nil {
		log.Fatalf("seed: %v", err)
	}

	var (
		events   service.EventPublisher
		producer *mykafka.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = producer
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	searchHandler := &httpserver.SearchHTTP{}
	esClient, err := es.NewClient(cfg.ES(), logger)
	switch {
	case err != nil:
		logger.Warn("menu_search_disabled", "error", err)
	case esClient != nil:
		index := &search.MenuIndex{ES: esClient, Index: cfg.ESMenuIndex}
		searchHandler.Menu = index
		if items, err := store.ListMenuItems(ctx, false); err != nil {
			logger.Warn("menu_index_skipped", "error", err)
		} else if err := index.IndexItems(ctx, items); err != nil {
			logger.Warn("menu_index_failed", "error", err)
		}
	}

	notifications := hub.New(logger, nil, hub.DefaultOptions())
	svc := service.NewOrderService(store, notifications, events,
		timing.NewCalculator(cfg.Timing, timing.SystemClock), logging.Component(logger, "lifecycle"))
	notifications.SetSnapshot(svc.Snapshot)

	sched := scheduler.New(logger, svc, cfg.Scheduler)
	schedCtx, stopSched := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = sched.Run(schedCtx)
	}()

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(metrics.Middleware())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrdersHandler: &httpserver.OrdersHTTP{Svc: svc},
		SearchHandler: searchHandler,
		WS:            notifications,
		Metrics:       metrics.Handler(),
		Ready: func(c echo.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c.Request().Context())
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	stopSched()
	wg.Wait()
	notifications.Close()

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
