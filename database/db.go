package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"school-admin/config"
)

// Backend is the single entry point to the data store: gorm for row CRUD,
// sqlx over the same pool for hand-written read queries.
type Backend struct {
	DB *gorm.DB
	X  *sqlx.DB
}

// Open connects to PostgreSQL through lib/pq and shares the pool with gorm.
func Open(cfg *config.Config) (*Backend, error) {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error initializing gorm: %w", err)
	}

	log.Printf("✅ Connected to PostgreSQL at %s:%d/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	return &Backend{
		DB: gormDB,
		X:  sqlx.NewDb(sqlDB, "postgres"),
	}, nil
}

// NewBackend wraps an already opened gorm handle. driverName selects the
// sqlx bind style ("postgres", "sqlite3").
func NewBackend(db *gorm.DB, driverName string) (*Backend, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting SQL DB: %w", err)
	}
	return &Backend{DB: db, X: sqlx.NewDb(sqlDB, driverName)}, nil
}

// WithContext returns a gorm session bound to ctx.
func (b *Backend) WithContext(ctx context.Context) *gorm.DB {
	return b.DB.WithContext(ctx)
}

func (b *Backend) Close() error {
	return b.X.Close()
}
