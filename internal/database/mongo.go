package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/portfolio-api/internal/config"
)

// MongoDB wraps a connected client and the database the content lives in.
type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    zerolog.Logger
}

// NewMongo connects to MongoDB and verifies the primary is reachable.
func NewMongo(ctx context.Context, cfg *config.DatabaseConfig, log zerolog.Logger) (*MongoDB, error) {
	name := cfg.Name
	if cs, err := connstring.ParseAndValidate(cfg.URL); err == nil && cs.Database != "" {
		name = cs.Database
	}

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetMaxPoolSize(uint64(cfg.MaxOpenConns)).
		SetMaxConnIdleTime(cfg.MaxLifetime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &MongoDB{
		Client: client,
		DB:     client.Database(name),
		log:    log.With().Str("component", "database").Str("driver", config.DriverMongo).Logger(),
	}

	m.log.Info().
		Str("database", name).
		Int("max_pool_size", cfg.MaxOpenConns).
		Msg("Database connection established")

	return m, nil
}

// EnsureUniqueIndexes creates a unique ascending index per field. Existing
// indexes with the same definition are left alone.
func (m *MongoDB) EnsureUniqueIndexes(ctx context.Context, collection string, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	models := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: f, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(UniqueIndexName(collection, f)),
		})
	}

	names, err := m.DB.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
	}

	m.log.Info().Str("collection", collection).Strs("indexes", names).Msg("Indexes ensured")
	return nil
}

// HealthCheck verifies the primary is reachable
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// UniqueIndexName is the name shared by the Postgres and MongoDB unique
// indexes on a field, e.g. blog_posts_slug_key.
func UniqueIndexName(collection, field string) string {
	return collection + "_" + field + "_key"
}
