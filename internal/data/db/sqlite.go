package db

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

// NewSQLiteService opens a file-backed (or ":memory:") SQLite database for
// local development.
func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")
	path = strings.TrimSpace(path)
	if path == "" {
		path = "compcase.db"
	}
	serviceLog.Info("Opening SQLite database...", "path", path)

	db, err := OpenSQLite(path, gormConfig())
	if err != nil {
		return nil, err
	}
	return &Service{db: db, log: serviceLog, driver: "sqlite"}, nil
}

// OpenSQLite opens path with foreign keys on and a single writer connection.
func OpenSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}
	registerSQLiteDriver()
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn}), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

const sqliteDriverName = "sqlite3_compcase"

var sqliteDriverOnce sync.Once

// registerSQLiteDriver installs a driver whose connections replace the
// built-in ASCII-only lower() with a Unicode-aware one, so LOWER-based
// case-insensitive search folds names like "ÉLODIE" the way Postgres does.
func registerSQLiteDriver() {
	sqliteDriverOnce.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
}

func unicodeLower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return v
	}
}
