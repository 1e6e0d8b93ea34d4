package config

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

func NewPostgresDB(cfg *Config) (*sqlx.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return openPostgres(cfg.DatabaseURL, 25, 5)
}

// NewAdminPostgresDB opens the small pool used by the privileged user
// repository. Nothing else should be handed this connection.
func NewAdminPostgresDB(cfg *Config) (*sqlx.DB, error) {
	if cfg.AdminDatabaseURL == "" {
		return nil, errors.New("ADMIN_DATABASE_URL is not set")
	}
	return openPostgres(cfg.AdminDatabaseURL, 2, 1)
}

func openPostgres(url string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to the database")
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
