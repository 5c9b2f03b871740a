package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/tutormatch-backend/internal/config"
	"github.com/yungbote/tutormatch-backend/internal/data/db"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	"github.com/yungbote/tutormatch-backend/internal/platform/cache"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/platform/neo4jdb"
)

const serviceName = "tutormatch"

type Clients struct {
	Graph *neo4jdb.Client
	// Optional.
	Cache    *cache.RankingCache
	Postgres *db.PostgresService
}

func wireClients(ctx context.Context, cfg *config.Config, log *logger.Logger, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	// Neo4j
	graphClient, err := neo4jdb.New(ctx, neo4jdb.Config{
		URI:             cfg.Neo4j.URI,
		User:            cfg.Neo4j.User,
		Password:        cfg.Neo4j.Password,
		Database:        cfg.Neo4j.Database,
		MaxPoolSize:     cfg.Neo4j.MaxPoolSize,
		Timeout:         cfg.Neo4j.Timeout(),
		BreakerFailures: cfg.Neo4j.BreakerFailures,
		BreakerOpenFor:  cfg.Neo4j.BreakerOpenFor(),
	}, log, metrics)
	if err != nil {
		return Clients{}, fmt.Errorf("init neo4j client: %w", err)
	}
	out := Clients{Graph: graphClient}

	// Redis
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		rc, err := cache.NewRedis(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.CacheTTL,
		}, log)
		if err != nil {
			out.Close(ctx, log)
			return Clients{}, fmt.Errorf("init redis ranking cache: %w", err)
		}
		out.Cache = rc
	} else {
		log.Info("REDIS_ADDR not set; ranked-list cache disabled")
	}

	// Postgres
	if strings.TrimSpace(cfg.Postgres.DSN) != "" {
		pg, err := db.NewPostgresService(ctx, cfg.Postgres.DSN, log)
		if err != nil {
			out.Close(ctx, log)
			return Clients{}, fmt.Errorf("init postgres: %w", err)
		}
		if err := db.AutoMigrateAll(pg.DB()); err != nil {
			_ = pg.Close()
			out.Close(ctx, log)
			return Clients{}, fmt.Errorf("postgres automigrate: %w", err)
		}
		out.Postgres = pg
	} else {
		log.Info("POSTGRES_DSN not set; recommendation audit disabled")
	}

	return out, nil
}

func (c *Clients) Close(ctx context.Context, log *logger.Logger) {
	if c == nil {
		return
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(); err != nil {
			log.Warn("postgres close failed", "error", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if c.Graph != nil {
		if err := c.Graph.Close(ctx); err != nil {
			log.Warn("neo4j close failed", "error", err)
		}
	}
}
