package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stocktracker/internal/config"
)

type DB struct {
	Gorm *gorm.DB
}

// Open creates the store file (and its parent directory) if needed and
// returns a gorm handle with write-ahead journaling and relaxed synchronous
// flushing for batch throughput.
func Open(cfg config.DBConfig) (*DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	busyMillis := int64(5000)
	if cfg.BusyTimeout > 0 {
		busyMillis = cfg.BusyTimeout.Milliseconds()
	}
	dsn := fmt.Sprintf(
		"%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(%d)",
		cfg.Path, busyMillis,
	)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqldb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return &DB{Gorm: gdb}, nil
}

func Close(db *DB) error {
	if db == nil || db.Gorm == nil {
		return nil
	}
	sqldb, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqldb.Close()
}

func Ping(db *DB) error {
	if db == nil || db.Gorm == nil {
		return nil
	}
	sqldb, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqldb.Ping()
}
