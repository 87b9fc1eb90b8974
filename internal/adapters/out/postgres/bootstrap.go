package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/earningrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/offerrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/userrepo"

	"github.com/lib/pq"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Settings locate the database server and the application database.
type Settings struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the connection string for the application database.
func (s Settings) DSN() string {
	return s.dsnFor(s.Name)
}

func (s Settings) dsnFor(database string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, database, s.SSLMode)
}

// EnsureDatabase creates the application database when it does not exist yet.
// It connects to the "postgres" maintenance database to do so.
func EnsureDatabase(ctx context.Context, s Settings) error {
	conn, err := sql.Open("postgres", s.dsnFor("postgres"))
	if err != nil {
		return fmt.Errorf("open maintenance connection: %w", err)
	}
	defer conn.Close()

	var exists bool
	if err = conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", s.Name,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check database %q: %w", s.Name, err)
	}
	if exists {
		return nil
	}

	if _, err = conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(s.Name)); err != nil {
		return fmt.Errorf("create database %q: %w", s.Name, err)
	}
	slog.InfoContext(ctx, "database created", "database", s.Name)
	return nil
}

// Open connects gorm to dsn. SQL is logged only when slower than gorm's
// threshold or failing.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// Models lists every table owned by the service, parents first.
func Models() []any {
	return []any{
		&userrepo.UserDTO{},
		&catalogrepo.StoreDTO{},
		&catalogrepo.FoodDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&offerrepo.ShipperOfferDTO{},
		&earningrepo.EarningDTO{},
		&notificationrepo.NotificationDTO{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
