package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/clubstats/backend/pkg/circuitbreaker"
	"github.com/clubstats/backend/pkg/logger"
	"github.com/clubstats/backend/pkg/retry"
)

// Client wraps the graph store the statistics live in. Reads go through a
// circuit breaker and retry with a bounded timeout; the chatbot engine maps
// any failure here to a user-safe fallback answer.
type Client struct {
	driver      neo4j.DriverWithContext
	database    string
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
	timeout     time.Duration
}

// Row is one result record with every value already at the coercion boundary:
// downstream code only ever sees plain float64/string, never driver-native
// numeric wrappers.
type Row map[string]any

// Float coerces an aggregate column to a plain number. Missing columns and
// null aggregates coerce to 0 so a malformed row degrades instead of failing
// the request.
func (r Row) Float(key string) float64 {
	switch v := r[key].(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	default:
		return 0
	}
}

func (r Row) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

func NewClient(uri, username, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(username, password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify connectivity: %w", err)
	}

	cb := circuitbreaker.NewCircuitBreaker("neo4j", circuitbreaker.Config{
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          20 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   200 * time.Millisecond,
		MaxDelay:       3 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("Neo4j client initialized", zap.String("uri", uri))

	return &Client{
		driver:      driver,
		database:    database,
		cb:          cb,
		retryConfig: retryConfig,
		timeout:     10 * time.Second,
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// ExecuteRead runs a parameterized read query and returns fully coerced rows.
func (c *Client) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rows []Row

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			session := c.driver.NewSession(ctx, neo4j.SessionConfig{
				DatabaseName: c.database,
				AccessMode:   neo4j.AccessModeRead,
			})
			defer session.Close(ctx)

			result, err := session.Run(ctx, query, params)
			if err != nil {
				return fmt.Errorf("failed to run query: %w", err)
			}

			rows = rows[:0]
			for result.Next(ctx) {
				record := result.Record()
				row := make(Row, len(record.Keys))
				for _, key := range record.Keys {
					value, _ := record.Get(key)
					row[key] = coerceValue(value)
				}
				rows = append(rows, row)
			}

			if err = result.Err(); err != nil {
				return fmt.Errorf("error iterating results: %w", err)
			}

			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	logger.Debug("Graph query executed",
		zap.Int("rows", len(rows)),
	)

	return rows, nil
}

// ListPlayerNames loads the roster for the analyzer's static tables. Called
// once at startup.
func (c *Client) ListPlayerNames(ctx context.Context) ([]string, error) {
	rows, err := c.ExecuteRead(ctx, "MATCH (p:Player)\nRETURN p.name AS name\nORDER BY name", nil)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := row.String("name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// coerceValue flattens driver-native values to plain Go types at the storage
// boundary. Everything numeric becomes float64; nulls become nil and are
// handled by Row.Float.
func coerceValue(v any) any {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case float32:
		return float64(val)
	case float64, string, bool, nil:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
