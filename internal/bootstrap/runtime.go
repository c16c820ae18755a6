// Package bootstrap wires the process-level runtime: database, cache, and
// optional demo seeding. It exists so cmd binaries and long-lived test
// harnesses share one initialization path.
package bootstrap

import (
	"fmt"

	"devconnect/internal/cache"
	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoUsers inserts this many fake developers with profiles after
	// migration; zero disables seeding.
	SeedDemoUsers int
}

// InitRuntime connects to the database and Redis and optionally seeds demo
// data. The Redis client may be nil when the cache is unreachable; the
// application degrades to uncached reads.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoUsers > 0 {
		if err := seed.Demo(db, opts.SeedDemoUsers, seed.Options{}); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo users: %w", err)
		}
	}

	return db, r, nil
}
