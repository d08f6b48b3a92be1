package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/contract"
)

// Version is the schema version this code creates and understands.
const Version = 1

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

const createBooksTable = `CREATE TABLE IF NOT EXISTS ` + contract.TableName + ` (
	` + contract.ColumnID + ` INTEGER PRIMARY KEY AUTOINCREMENT,
	` + contract.ColumnProductName + ` TEXT NOT NULL,
	` + contract.ColumnPrice + ` TEXT NOT NULL,
	` + contract.ColumnQuantity + ` INTEGER NOT NULL DEFAULT 0,
	` + contract.ColumnSupplierName + ` TEXT,
	` + contract.ColumnSupplierPhoneNumber + ` TEXT
)`

type Database struct {
	DB   *gorm.DB
	path string
}

type options struct {
	logLevel logger.LogLevel
}

// Option configures Open.
type Option func(*options)

// WithLogLevel sets the gorm SQL log level.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) { o.logLevel = level }
}

// ParseLogLevel maps silent|error|warn|info to a gorm log level. Unknown
// names fall back to warn.
func ParseLogLevel(name string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Open opens the store at dbPath, creating the books table the first time.
// Opening an existing store never re-creates it.
func Open(dbPath string, opts ...Option) (*Database, error) {
	o := options{logLevel: logger.Warn}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// One connection serializes every statement on the store, and keeps an
	// in-memory store alive for the lifetime of the handle.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	database := &Database{DB: db, path: dbPath}
	if err := database.ensureSchema(context.Background()); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func dsn(dbPath string) string {
	if dbPath == MemoryPath || strings.HasPrefix(dbPath, "file:") {
		return dbPath
	}
	return dbPath + "?_journal=WAL&_timeout=5000&_busy_timeout=5000"
}

// Path returns the path the store was opened with.
func (d *Database) Path() string {
	return d.path
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the store is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SchemaVersion returns the version stamped in the store.
func (d *Database) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := d.DB.WithContext(ctx).Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return 0, &StorageError{Op: "schema version", Err: err}
	}
	return version, nil
}

func (d *Database) ensureSchema(ctx context.Context) error {
	version, err := d.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	switch {
	case version == 0:
		err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(createBooksTable).Error; err != nil {
				return err
			}
			return tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", Version)).Error
		})
		if err != nil {
			return &StorageError{Op: "create schema", Err: err}
		}
		log.Printf("Created %s table (schema version %d)", contract.TableName, Version)
	case version > Version:
		return &StorageError{Op: "open", Err: fmt.Errorf("%w: store is at %d, code supports %d", ErrUnsupportedVersion, version, Version)}
	case version < Version:
		if err := d.Upgrade(ctx, version, Version); err != nil {
			return err
		}
		if err := d.DB.WithContext(ctx).Exec(fmt.Sprintf("PRAGMA user_version = %d", Version)).Error; err != nil {
			return &StorageError{Op: "upgrade", Err: err}
		}
	}
	return nil
}

// Upgrade migrates the schema from oldVersion to newVersion. Version 1 is the
// only version so far, so there is nothing to run.
func (d *Database) Upgrade(ctx context.Context, oldVersion, newVersion int) error {
	if oldVersion > newVersion || newVersion > Version {
		return &StorageError{Op: "upgrade", Err: fmt.Errorf("%w: %d -> %d", ErrUnsupportedVersion, oldVersion, newVersion)}
	}
	return nil
}

// Optimize runs SQLite housekeeping: planner statistics and a WAL checkpoint.
func (d *Database) Optimize(ctx context.Context) error {
	db := d.DB.WithContext(ctx)
	if err := db.Exec("PRAGMA optimize").Error; err != nil {
		return &StorageError{Op: "optimize", Err: err}
	}
	if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return &StorageError{Op: "checkpoint", Err: err}
	}
	return nil
}
