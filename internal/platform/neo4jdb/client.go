package neo4jdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yungbote/tutormatch-backend/internal/data/graph"
	"github.com/yungbote/tutormatch-backend/internal/observability"
	apperr "github.com/yungbote/tutormatch-backend/internal/pkg/errors"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type Config struct {
	URI              string
	User             string
	Password         string
	Database         string
	MaxPoolSize      int
	Timeout          time.Duration
	BreakerFailures  uint32
	BreakerOpenFor   time.Duration
	BreakerHalfOpenN uint32
}

// Client runs graph queries through the driver. Every query passes through a
// circuit breaker; transport failures and an open breaker surface as
// apperr.ErrStoreUnavailable.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
	breaker  *gobreaker.CircuitBreaker[[]graph.Row]
}

var _ graph.Runner = (*Client)(nil)

func New(ctx context.Context, cfg Config, log *logger.Logger, metrics *observability.Metrics) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, fmt.Errorf("neo4jdb: uri required: %w", apperr.ErrInvalidArgument)
	}
	user := strings.TrimSpace(cfg.User)
	if user == "" {
		user = "neo4j"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxPool := cfg.MaxPoolSize
	if maxPool <= 0 {
		maxPool = 50
	}

	auth := neo4j.BasicAuth(user, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = maxPool
		c.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w: %w", apperr.ErrStoreUnavailable, err)
	}

	c := &Client{
		Driver:   driver,
		Database: strings.TrimSpace(cfg.Database),
		log:      log.With("client", "Neo4jDB"),
	}
	c.breaker = newBreaker(cfg, c.log, metrics)
	return c, nil
}

func newBreaker(cfg Config, log *logger.Logger, metrics *observability.Metrics) *gobreaker.CircuitBreaker[[]graph.Row] {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	openFor := cfg.BreakerOpenFor
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	halfOpen := cfg.BreakerHalfOpenN
	if halfOpen == 0 {
		halfOpen = 1
	}
	return gobreaker.NewCircuitBreaker[[]graph.Row](gobreaker.Settings{
		Name:        "neo4j",
		MaxRequests: halfOpen,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Query errors (syntax, constraint) are the caller's problem, not the store's.
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransportError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, int(to))
			if log != nil {
				log.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			}
		},
	})
}

func (c *Client) Read(ctx context.Context, query string, params map[string]any) ([]graph.Row, error) {
	return c.execute(ctx, neo4j.AccessModeRead, query, params)
}

func (c *Client) Write(ctx context.Context, query string, params map[string]any) ([]graph.Row, error) {
	return c.execute(ctx, neo4j.AccessModeWrite, query, params)
}

func (c *Client) execute(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]any) ([]graph.Row, error) {
	if c == nil || c.Driver == nil {
		return nil, fmt.Errorf("neo4jdb: client closed: %w", apperr.ErrStoreUnavailable)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := c.breaker.Execute(func() ([]graph.Row, error) {
		return c.run(ctx, mode, query, params)
	})
	if err != nil {
		return nil, c.classify(err)
	}
	return rows, nil
}

func (c *Client) run(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]any) ([]graph.Row, error) {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: c.Database,
	})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]graph.Row, 0, len(records))
		for _, rec := range records {
			out = append(out, recordToRow(rec))
		}
		return out, nil
	}

	var (
		result any
		err    error
	)
	if mode == neo4j.AccessModeRead {
		result, err = session.ExecuteRead(ctx, work)
	} else {
		result, err = session.ExecuteWrite(ctx, work)
	}
	if err != nil {
		return nil, err
	}
	rows, _ := result.([]graph.Row)
	return rows, nil
}

func (c *Client) classify(err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("neo4jdb: %w: %w", apperr.ErrStoreUnavailable, err)
	case isConstraintError(err):
		return fmt.Errorf("neo4jdb: %w: %w", apperr.ErrConflict, err)
	case isTransportError(err):
		c.log.Warn("neo4j query failed", "error", err)
		return fmt.Errorf("neo4jdb: %w: %w", apperr.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("neo4jdb: %w", err)
	}
}

func isConstraintError(err error) bool {
	var nerr *neo4j.Neo4jError
	return errors.As(err, &nerr) && nerr.Code == "Neo.ClientError.Schema.ConstraintValidationFailed"
}

// isTransportError is true for anything that is not a server-reported client
// error: connectivity, timeouts, transient and database errors.
func isTransportError(err error) bool {
	if err == nil {
		return false
	}
	if neo4j.IsConnectivityError(err) || neo4j.IsRetryable(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) {
		return !strings.HasPrefix(nerr.Code, "Neo.ClientError.")
	}
	return true
}

func recordToRow(rec *neo4j.Record) graph.Row {
	row := make(graph.Row, len(rec.Keys))
	for i, key := range rec.Keys {
		row[key] = convertValue(rec.Values[i])
	}
	return row
}

// convertValue flattens nodes and relationships to their property maps.
func convertValue(v any) any {
	switch t := v.(type) {
	case dbtype.Node:
		return map[string]any(t.Props)
	case dbtype.Relationship:
		return map[string]any(t.Props)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = convertValue(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = convertValue(val)
		}
		return out
	default:
		return v
	}
}

// Ping runs a trivial read through the breaker.
func (c *Client) Ping(ctx context.Context) error {
	return graph.Ping(ctx, c)
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
