// Package bootstrap opens the storage, cache and queue backends selected by config.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"frontdesk/internal/auth"
	"frontdesk/internal/autocheckout"
	"frontdesk/internal/config"
	"frontdesk/internal/queue"
	"frontdesk/internal/siteconfig"
	"frontdesk/internal/slideshow"
	"frontdesk/internal/store"
	"frontdesk/internal/visitor"
)

// Backends are the repositories and infrastructure clients shared by the binaries.
// DB is nil for the memory backend and Redis is nil unless the queue runs on Redis.
type Backends struct {
	DB    *store.DB
	Redis *store.Redis

	Visitors visitor.Repository
	Slides   slideshow.Repository
	Site     siteconfig.Repository
	Users    auth.Repository
	Queue    queue.Queue
	Badges   visitor.BadgeIssuer
}

// Open connects every backend. On error nothing is left open.
func Open(ctx context.Context, cfg config.App, log zerolog.Logger) (*Backends, error) {
	b := &Backends{}
	switch cfg.StoreBackend {
	case "memory":
		now := time.Now()
		b.Visitors = visitor.NewMemoryRepository(visitor.DemoSeed(now)...)
		b.Slides = slideshow.NewMemoryRepository(slideshow.DemoSeed(now)...)
		b.Site = siteconfig.NewMemoryRepository()
		b.Users = auth.NewMemoryRepository()
		log.Warn().Msg("using in-memory store with demo data, nothing is persisted")
	case store.Postgres, store.SQLite:
		dsn := cfg.DatabaseURL
		if cfg.StoreBackend == store.SQLite {
			dsn = cfg.SQLitePath
		}
		db, err := store.NewDB(ctx, cfg.StoreBackend, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.StoreBackend, err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate %s: %w", cfg.StoreBackend, err)
		}
		b.DB = db
		b.Visitors = visitor.NewSQLRepository(db.Client)
		b.Slides = slideshow.NewSQLRepository(db.Client)
		b.Site = siteconfig.NewSQLRepository(db.Client)
		b.Users = auth.NewSQLRepository(db.Client)
		log.Info().Str("backend", cfg.StoreBackend).Msg("database ready")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.QueueBackend == "redis" {
		rdb, err := store.NewRedis(cfg.RedisAddr)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Redis = rdb
		if err := rdb.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis not reachable, continuing")
		}
		b.Queue = queue.NewRedisQueue(b.Redis.Client, queue.DefaultKey)
		b.Badges = visitor.NewRedisBadges(b.Redis.Client)
	} else {
		b.Queue = queue.NewInMemory(256)
		b.Badges = &visitor.MemoryBadges{}
	}
	return b, nil
}

// Marker returns the auto-checkout day marker, shared through Redis when available.
func (b *Backends) Marker() autocheckout.Marker {
	if b.Redis != nil {
		return autocheckout.NewRedisMarker(b.Redis.Client)
	}
	return &autocheckout.MemoryMarker{}
}

// Close releases the database and Redis pools.
func (b *Backends) Close() {
	if b.DB != nil {
		_ = b.DB.Close()
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
}
