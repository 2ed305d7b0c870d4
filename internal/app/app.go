package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/data/db"
	"github.com/Rsplitstone/compcase-backend/internal/http"
	"github.com/Rsplitstone/compcase-backend/internal/jobs/sweeper"
	"github.com/Rsplitstone/compcase-backend/internal/observability"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server
	Sweeper  *sweeper.Sweeper

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New loads config from the environment, opens the configured database and
// wires every component. Callers own Close.
func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbService, err := openDatabase(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("%s automigrate: %w", dbService.Driver(), err)
	}

	a, err := Build(cfg, log, dbService.DB())
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}
	a.dbService = dbService
	a.otelShutdown = observability.InitOTel(context.Background(), log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})
	return a, nil
}

// Build wires the app on an already migrated database.
func Build(cfg Config, log *logger.Logger, theDB *gorm.DB) (*App, error) {
	metrics := observability.NewMetrics()

	clientset, err := wireClients(cfg, log, metrics)
	if err != nil {
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clientset)
	if err != nil {
		clientset.Close()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset)

	return &App{
		Log:      log,
		DB:       theDB,
		Cfg:      cfg,
		Metrics:  metrics,
		Clients:  clientset,
		Repos:    reposet,
		Services: serviceset,
		Server:   server,
		Sweeper:  sweeper.New(log, serviceset.Task, serviceset.Report, metrics, cfg.SweepInterval()),
	}, nil
}

func openDatabase(log *logger.Logger, cfg Config) (*db.Service, error) {
	switch cfg.DBDriver {
	case "sqlite":
		svc, err := db.NewSQLiteService(log, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return svc, nil
	default:
		svc, err := db.NewPostgresService(log, cfg.Postgres())
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return svc, nil
	}
}

// Start launches background work. It is a no-op when called twice.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Cfg.SweepEnabled && a.Sweeper != nil {
		a.Log.Info("Starting sweeper", "interval", a.Cfg.SweepInterval().String())
		a.Sweeper.Start(ctx)
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context, addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
