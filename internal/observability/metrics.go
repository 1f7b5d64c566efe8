package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DatabaseQueryLatency tracks database query duration by operation and table.
var DatabaseQueryLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "heritage_db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	},
	[]string{"operation", "table"},
)

// WebSocketBackpressureDrops counts messages dropped when a client send
// buffer is full or already closed.
var WebSocketBackpressureDrops = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "heritage_ws_backpressure_drops_total",
		Help: "Total websocket messages dropped due to slow clients",
	},
	[]string{"hub", "reason"},
)

// CacheOperations counts cache hits and misses by key prefix.
var CacheOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "heritage_cache_operations_total",
		Help: "Total cache operations by key prefix and result",
	},
	[]string{"prefix", "result"},
)

// TrackQuery observes the latency of a database operation. Call it with the
// start time, the logical operation name and the table it touched.
func TrackQuery(start time.Time, operation, table string) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TracedQuery runs fn inside a span named after the operation and records its
// latency. The error from fn is recorded on the span and returned unchanged.
func TracedQuery(ctx context.Context, operation, table string, fn func(ctx context.Context) error) error {
	span, ctx := NewSpan(ctx, "db."+operation)
	defer span.End()
	start := time.Now()
	err := fn(ctx)
	TrackQuery(start, operation, table)
	if err != nil {
		span.SetError(err)
	}
	return err
}
