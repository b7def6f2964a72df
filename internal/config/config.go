package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	DB      DBConfig      `mapstructure:"db"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Export  ExportConfig  `mapstructure:"export"`
	Cron    CronConfig    `mapstructure:"cron"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	File              string `mapstructure:"file"`
	FileMaxSizeMB     int    `mapstructure:"file_max_size_mb"`
	FileMaxBackups    int    `mapstructure:"file_max_backups"`
	FileMaxAgeDays    int    `mapstructure:"file_max_age_days"`
}

type DBConfig struct {
	Path           string        `mapstructure:"path"`
	BusyTimeout    time.Duration `mapstructure:"busy_timeout"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
	PriceChunkSize int           `mapstructure:"price_chunk_size"`
}

type GatewayConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ClientID       int           `mapstructure:"client_id"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryWait      time.Duration `mapstructure:"retry_wait"`
}

type SyncConfig struct {
	HistoryDuration string `mapstructure:"history_duration"`
	BarSize         string `mapstructure:"bar_size"`
	WhatToShow      string `mapstructure:"what_to_show"`

	// Symbols seeds symbols_config at startup, marking each one active.
	Symbols []string `mapstructure:"symbols"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type CronConfig struct {
	PositionsSnapshot string `mapstructure:"positions_snapshot"`
	PricesUpdate      string `mapstructure:"prices_update"`
	MonthlyExport     string `mapstructure:"monthly_export"`
	ReconnectCheck    string `mapstructure:"reconnect_check"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.http_addr", ":8081")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.file_max_size_mb", 10)
	v.SetDefault("log.file_max_backups", 5)
	v.SetDefault("log.file_max_age_days", 30)
	v.SetDefault("db.path", "data/tracker.db")
	v.SetDefault("db.busy_timeout", "5s")
	v.SetDefault("db.max_open_conns", 1)
	v.SetDefault("db.max_idle_conns", 1)
	v.SetDefault("db.price_chunk_size", 5000)
	v.SetDefault("gateway.host", "127.0.0.1")
	v.SetDefault("gateway.port", 5000)
	v.SetDefault("gateway.client_id", 1)
	v.SetDefault("gateway.connect_timeout", "10s")
	v.SetDefault("gateway.fetch_timeout", "30s")
	v.SetDefault("gateway.retry_attempts", 3)
	v.SetDefault("gateway.retry_wait", "1s")
	v.SetDefault("sync.history_duration", "10 Y")
	v.SetDefault("sync.bar_size", "1 day")
	v.SetDefault("sync.what_to_show", "TRADES")
	v.SetDefault("sync.symbols", []string{})
	v.SetDefault("export.dir", "exports")
	v.SetDefault("cron.positions_snapshot", "30 4 * * *")
	v.SetDefault("cron.prices_update", "0 10 * * 0")
	v.SetDefault("cron.monthly_export", "0 9 1 * *")
	v.SetDefault("cron.reconnect_check", "5 15 * * *")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
