package graph

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Runner is the graph store adapter. Read runs a read-only query, Write runs
// a query that may create or merge nodes and relationships. Both return every
// record of the result.
type Runner interface {
	Read(ctx context.Context, query string, params map[string]any) ([]Row, error)
	Write(ctx context.Context, query string, params map[string]any) ([]Row, error)
}

// Row maps returned variable names to values. Nodes and relationships are
// decoded to their property maps; unmatched optional patterns are nil.
type Row map[string]any

func (r Row) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Float accepts any numeric value the driver may hand back.
func (r Row) Float(key string) (float64, bool) {
	return toFloat(r[key])
}

func (r Row) Int(key string) (int, bool) {
	f, ok := toFloat(r[key])
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

func (r Row) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Props returns the property map bound to key, or nil.
func (r Row) Props(key string) Props {
	switch v := r[key].(type) {
	case map[string]any:
		return Props(v)
	case Props:
		return v
	default:
		return nil
	}
}

// Props is the property bag of a node or relationship.
type Props map[string]any

func (p Props) String(key string) string { return Row(p).String(key) }

func (p Props) Float(key string) (float64, bool) { return toFloat(p[key]) }

func (p Props) Int(key string) (int, bool) { return Row(p).Int(key) }

// Time parses RFC3339 strings as well as native temporal values.
func (p Props) Time(key string) *time.Time {
	switch v := p[key].(type) {
	case time.Time:
		t := v.UTC()
		return &t
	case string:
		if v == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	default:
		return nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
