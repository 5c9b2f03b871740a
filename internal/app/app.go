package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/tutormatch-backend/internal/config"
	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	httpx "github.com/yungbote/tutormatch-backend/internal/http"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *httpx.Server

	httpMW       HTTPMiddleware
	otelShutdown func(context.Context) error
}

// New connects every configured store and wires the service graph. Redis and
// Postgres are optional; Neo4j is not.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if err := cfg.RequireGraph(); err != nil {
		return nil, err
	}
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Observability.OtelEnabled,
		ServiceName: serviceName,
		Environment: cfg.Server.Environment,
		Endpoint:    cfg.Observability.OtelEndpoint,
		Insecure:    cfg.Observability.OtelInsecure,
		SampleRatio: cfg.Observability.OtelSampleRatio,
	})
	metrics := observability.Init(log, cfg.Observability.MetricsEnabled)

	clients, err := wireClients(ctx, cfg, log, metrics)
	if err != nil {
		return nil, err
	}
	reposet := wireRepos(clients, log, metrics)
	serviceset := wireServices(cfg, log, clients, reposet, metrics)
	handlerset := wireHandlers(cfg, log, clients, serviceset)
	mw := wireMiddleware(cfg)
	server := wireServer(cfg, log, metrics, handlerset, mw)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		httpMW:       mw,
		otelShutdown: otelShutdown,
	}, nil
}

// EnsureSchema creates the graph uniqueness constraints. Failures are logged.
func (a *App) EnsureSchema(ctx context.Context) int {
	return graph.EnsureSchema(ctx, a.Clients.Graph, a.Log)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Server.Addr)
		return a.Server.Run()
	})
	g.Go(func() error {
		a.httpMW.RateLimiter.Sweep(gctx, 5*time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Log.Info("shutting down HTTP server")
		sctx, cancel := context.WithTimeout(context.Background(), a.Cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Clients.Close(ctx, a.Log)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
