package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/data/db"
	apphttp "github.com/nedgladstone/cardball/internal/http"
	"github.com/nedgladstone/cardball/internal/observability"
	"github.com/nedgladstone/cardball/internal/platform/logger"
	"github.com/nedgladstone/cardball/internal/realtime"
	"github.com/nedgladstone/cardball/internal/realtime/bus"
	"github.com/nedgladstone/cardball/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub
	Bus      bus.Bus
	Metrics  *observability.Metrics

	redis        *goredis.Client
	otelShutdown func(context.Context) error
	closeOnce    sync.Once
}

// New loads configuration, opens and migrates the database and wires every layer.
func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := build(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel())
	if cfg.MetricsEnabled {
		a.Metrics = observability.NewMetrics()
	}

	log.Info("Opening database...", "driver", cfg.DBDriver)
	theDB, err := db.Open(cfg.DB(), log)
	if err != nil {
		return nil, err
	}
	a.DB = theDB
	if err := db.AutoMigrateAll(theDB); err != nil {
		a.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	a.Bus, a.redis, err = wireBus(log, cfg, a.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.SSEHub = realtime.NewSSEHub(log).WithObserver(a.Metrics)

	a.Repos = wireRepos(theDB, log)
	a.Services = wireServices(theDB, log, cfg, a.Repos, a.Metrics, &services.BusEmitter{Bus: a.Bus, Log: log})
	handlers := wireHandlers(log, theDB, a.Services, a.SSEHub)
	a.Router = wireRouter(log, cfg, a.Metrics, handlers)
	return a, nil
}

// Run serves HTTP (and metrics, when enabled) until ctx is cancelled or a server fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return errors.New("app not initialized")
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Bus.StartForwarder(ctx, a.SSEHub.Broadcast)
	})
	g.Go(func() error {
		srv := &apphttp.Server{Engine: a.Router}
		return srv.Run(ctx, a.Log, a.Cfg.HTTPAddr)
	})
	if a.Metrics != nil {
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		if a.redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.redis)
		}
		g.Go(func() error {
			return a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		})
	}
	return g.Wait()
}

// Close releases the bus, database and tracer. Later calls are no-ops.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(a.close)
}

func (a *App) close() {
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("bus close failed", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
