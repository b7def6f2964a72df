package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"stocktracker/internal/client/ibgw"
	"stocktracker/internal/config"
	cronrunner "stocktracker/internal/cron"
	"stocktracker/internal/db"
	"stocktracker/internal/logger"
	"stocktracker/internal/models"
	gormrepository "stocktracker/internal/repository/gorm"
	"stocktracker/internal/service"
	"stocktracker/internal/session"
)

const (
	jobPositionsSnapshot = "daily_positions_snapshot"
	jobPricesUpdate      = "weekly_prices_update"
	jobMonthlyExport     = "monthly_export"
	jobGatewayReconnect  = "gateway_reconnect"
)

// app is the wiring shared by every subcommand: config, logger, store,
// gateway session and the services built on them.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *db.DB
	store  *gormrepository.Store
	sess   *session.Session

	snapshot  *service.SnapshotService
	prices    *service.PriceSyncService
	export    *service.ExportService
	reconnect *service.ReconnectService
}

type appFlags struct {
	configPath string
	envOnly    bool
}

func (f *appFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", defaultConfigPath(), "path to the YAML config file")
	fs.BoolVar(&f.envOnly, "env-only", defaultEnvOnly(), "skip the config file and read configuration from ST_* environment variables")
}

func defaultConfigPath() string {
	if p := os.Getenv("ST_CONFIG"); p != "" {
		return p
	}
	return "config/config.yaml"
}

func defaultEnvOnly() bool {
	raw := os.Getenv("ST_ENV_ONLY")
	return strings.EqualFold(raw, "true") || raw == "1"
}

func newApp(flags appFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath, flags.envOnly)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		log.Error("db open failed", zap.Error(err))
		return nil, err
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		_ = db.Close(dbConn)
		log.Error("auto-migrate failed", zap.Error(err))
		return nil, err
	}

	store := gormrepository.New(dbConn.Gorm)

	if len(cfg.Sync.Symbols) > 0 {
		rows := make([]models.SymbolConfig, 0, len(cfg.Sync.Symbols))
		for _, sym := range cfg.Sync.Symbols {
			rows = append(rows, models.SymbolConfig{Symbol: sym, IsActive: true})
		}
		if err := store.UpsertSymbolConfigs(context.Background(), rows); err != nil {
			log.Warn("seed symbols config failed", zap.Error(err))
		}
	}

	gatewayURL := fmt.Sprintf("http://%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	gatewayHTTP := &http.Client{}
	conn := ibgw.NewClient(gatewayHTTP, gatewayURL)
	sess := session.New(conn, log, cfg.Gateway)

	a := &app{
		cfg:    cfg,
		logger: log,
		db:     dbConn,
		store:  store,
		sess:   sess,
	}
	a.snapshot = &service.SnapshotService{Repo: store, Session: sess, Logger: log}
	a.prices = &service.PriceSyncService{
		Repo:      store,
		Session:   sess,
		Logger:    log,
		Sync:      cfg.Sync,
		ChunkSize: cfg.DB.PriceChunkSize,
	}
	a.export = &service.ExportService{Repo: store, Logger: log, Dir: cfg.Export.Dir}
	a.reconnect = &service.ReconnectService{Session: sess, Logger: log}
	return a, nil
}

func (a *app) close() {
	if err := db.Close(a.db); err != nil {
		a.logger.Warn("db close failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// registerJobs binds every scheduled job to its configured cron spec.
func (a *app) registerJobs(runner *cronrunner.Runner) error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{jobPositionsSnapshot, a.cfg.Cron.PositionsSnapshot, a.snapshot.Run},
		{jobPricesUpdate, a.cfg.Cron.PricesUpdate, a.prices.Run},
		{jobMonthlyExport, a.cfg.Cron.MonthlyExport, a.export.Run},
		{jobGatewayReconnect, a.cfg.Cron.ReconnectCheck, a.reconnect.Run},
	}
	for _, j := range jobs {
		if err := runner.Register(j.name, j.spec, j.run); err != nil {
			return fmt.Errorf("register job %s (%q): %w", j.name, j.spec, err)
		}
	}
	return nil
}
