package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/models"
)

// Store is the process-wide store handle. Exactly one of SQL or Mongo is set,
// according to the configured driver.
type Store struct {
	Driver string
	SQL    *DB
	Mongo  *MongoDB
}

// Open connects to the store named by cfg.URL.
func Open(ctx context.Context, cfg *config.DatabaseConfig, log zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := NewPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: cfg.Driver, SQL: db}, nil
	case config.DriverMongo:
		m, err := NewMongo(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: cfg.Driver, Mongo: m}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

// Prepare brings the schema up to date: pending migrations on Postgres,
// unique indexes on MongoDB.
func (s *Store) Prepare(ctx context.Context) error {
	if s.SQL != nil {
		return s.SQL.RunMigrations()
	}

	if err := s.Mongo.EnsureUniqueIndexes(ctx, models.ProjectSchema.Collection, models.ProjectSchema.UniqueFields()); err != nil {
		return err
	}
	return s.Mongo.EnsureUniqueIndexes(ctx, models.BlogPostSchema.Collection, models.BlogPostSchema.UniqueFields())
}

// HealthCheck pings whichever backend is open.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s.SQL != nil {
		return s.SQL.HealthCheck(ctx)
	}
	return s.Mongo.HealthCheck(ctx)
}

// Close releases the connection pool.
func (s *Store) Close(ctx context.Context) error {
	if s.SQL != nil {
		return s.SQL.Close()
	}
	return s.Mongo.Close(ctx)
}
