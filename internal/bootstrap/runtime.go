// Package bootstrap wires process-level dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"smartchecklist/internal/cache"
	"smartchecklist/internal/config"
	"smartchecklist/internal/database"
	"smartchecklist/internal/middleware"
	"smartchecklist/internal/observability"
	"smartchecklist/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// FixturePath names a YAML fixture loaded into an empty development database.
	FixturePath string
}

// Runtime holds initialized process dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	// ShutdownTracing flushes pending spans. It is never nil.
	ShutdownTracing func(context.Context) error
}

// InitRuntime configures logging and tracing, connects to the database and
// Redis, and optionally seeds an empty development database.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.ConfigureLogging(cfg.Env, cfg.LogLevel)
	observability.SetLogger(middleware.Logger)

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		Enabled:      cfg.TracingEnabled,
		ServiceName:  "smartchecklist-api",
		Environment:  cfg.Env,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; a nil client disables caching and revocation.
	rdb := cache.InitRedis(cfg.RedisURL)

	if opts.FixturePath != "" {
		if err := seedEmptyDatabase(cfg, db, opts.FixturePath); err != nil {
			return nil, err
		}
	}

	return &Runtime{DB: db, Redis: rdb, ShutdownTracing: shutdown}, nil
}

func seedEmptyDatabase(cfg *config.Config, db *gorm.DB, path string) error {
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to load fixture %s in production", path)
	}

	counts, err := database.Stats(context.Background(), db)
	if err != nil {
		return fmt.Errorf("inspect database before seeding: %w", err)
	}
	if counts.Users > 0 {
		log.Printf("database already has %d users, skipping fixture %s", counts.Users, path)
		return nil
	}

	fx, err := seed.LoadFixture(path)
	if err != nil {
		return err
	}
	if _, err := seed.NewSeeder(db, seed.Options{}).ApplyFixture(fx); err != nil {
		return fmt.Errorf("apply fixture: %w", err)
	}
	return nil
}
