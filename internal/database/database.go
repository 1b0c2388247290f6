package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	cartridgedb "github.com/karloscodes/cartridge/database"
	"github.com/karloscodes/cartridge/postgres"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"videoprofiles/internal/config"
	"videoprofiles/internal/profiles"
)

// ErrNotConnected is returned when the manager has no open connection.
var ErrNotConnected = gorm.ErrInvalidDB

// DBManager owns the store handle: it is opened once at startup with Init and
// released at shutdown with Close. SQLite goes through cartridge's sqlite.Manager,
// PostgreSQL through cartridge's driver-based database.Manager.
type DBManager struct {
	cfg      *config.Config
	sqlite   *sqlite.Manager
	postgres *cartridgedb.Manager
	db       *gorm.DB
	logger   *slog.Logger
}

// NewDBManager creates a database manager for the configured database type.
func NewDBManager(cfg *config.Config, logger *slog.Logger) *DBManager {
	dm := &DBManager{
		cfg:    cfg,
		logger: logger,
	}

	if cfg.IsPostgres() {
		// sslmode and timezone are left to the DSN itself
		dm.postgres = cartridgedb.NewManager(postgres.NewDriver(), &cartridgedb.Config{
			DSN:             cfg.DatabaseDSN(),
			MaxOpenConns:    cfg.GetMaxOpenConns(),
			MaxIdleConns:    cfg.GetMaxIdleConns(),
			ConnMaxLifetime: 30 * time.Minute,
		}, logger)
	} else {
		dm.sqlite = sqlite.NewManager(sqlite.Config{
			Path:         cfg.DatabaseDSN(),
			MaxOpenConns: cfg.GetMaxOpenConns(),
			MaxIdleConns: cfg.GetMaxIdleConns(),
			Logger:       logger,
			EnableWAL:    true,
			TxImmediate:  true,
			BusyTimeout:  5000,
		})
	}

	return dm
}

// NewDBManagerWithConnection wraps an already opened connection.
func NewDBManagerWithConnection(db *gorm.DB, logger *slog.Logger) *DBManager {
	return &DBManager{db: db, logger: logger}
}

// Init opens the database connection.
func (dm *DBManager) Init() error {
	if dm.db != nil {
		return nil
	}

	if dm.sqlite != nil {
		if err := os.MkdirAll(filepath.Dir(dm.cfg.DatabaseDSN()), 0o755); err != nil {
			return fmt.Errorf("create storage directory: %w", err)
		}
		if _, err := dm.sqlite.Connect(); err != nil {
			return err
		}
		dm.db = dm.sqlite.GetConnection()
		return nil
	}

	if dm.postgres != nil {
		db, err := dm.postgres.Connect()
		if err != nil {
			return err
		}
		dm.db = db
		return nil
	}

	return ErrNotConnected
}

// DriverName reports which database backs the manager.
func (dm *DBManager) DriverName() string {
	switch {
	case dm.postgres != nil:
		return dm.postgres.Driver().Name()
	case dm.sqlite != nil:
		return config.SQLiteDatabase
	default:
		return ""
	}
}

// GetConnection returns the gorm handle, or nil before Init.
func (dm *DBManager) GetConnection() *gorm.DB {
	return dm.db
}

// MigrateDatabase makes sure the profiles table exists.
func (dm *DBManager) MigrateDatabase() error {
	db := dm.GetConnection()
	if db == nil {
		return ErrNotConnected
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return profiles.EnsureSchema(tx)
	})
	if err != nil {
		dm.logger.Error("Failed to initialize profiles schema", slog.Any("error", err))
		return err
	}

	if dm.sqlite != nil {
		if err := dm.sqlite.CheckpointWAL("FULL"); err != nil {
			dm.logger.Warn("Failed to checkpoint WAL after migration", slog.Any("error", err))
		}
	}

	dm.logger.Info("Database schema is ready")
	return nil
}

// Ping checks that the database answers.
func (dm *DBManager) Ping(ctx context.Context) error {
	db := dm.GetConnection()
	if db == nil {
		return ErrNotConnected
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// HasProfilesTable reports whether the profiles table exists.
func (dm *DBManager) HasProfilesTable() bool {
	db := dm.GetConnection()
	if db == nil {
		return false
	}
	return db.Migrator().HasTable(&profiles.Profile{})
}

// Close releases the underlying connection pool.
func (dm *DBManager) Close() error {
	db := dm.GetConnection()
	if db == nil {
		return nil
	}

	if dm.postgres != nil {
		dm.db = nil
		return dm.postgres.Close()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	dm.db = nil
	return sqlDB.Close()
}
