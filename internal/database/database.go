package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/books-api/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the driver and its connection string.
type Options struct {
	Driver   string // "sqlite" (default) or "postgres"
	DSN      string // sqlite file path or postgres DSN
	LogLevel logger.LogLevel
}

type Database struct {
	DB     *gorm.DB
	Driver string
}

// NewDatabase opens a SQLite database file with the default options.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(Options{Driver: DriverSQLite, DSN: dbPath, LogLevel: logger.Warn})
}

// Open connects to the configured store and migrates the schema.
func Open(opts Options) (*Database, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", DriverSQLite:
		opts.Driver = DriverSQLite
		// busy_timeout lets concurrent writers queue on the file lock instead of failing
		sep := "?"
		if strings.Contains(opts.DSN, "?") {
			sep = "&"
		}
		dialector = sqlite.Open(opts.DSN + sep + "_busy_timeout=5000&_foreign_keys=on")
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY inside transactions.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	database := &Database{DB: db, Driver: opts.Driver}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, err
	}

	slog.Info("database initialized", "driver", opts.Driver)
	return database, nil
}

// Migrate creates or updates the tables owned by the service.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&entities.Book{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
