package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
	"github.com/weekian/telegraf-session-redis/pkg/persistence/middleware"
	"github.com/weekian/telegraf-session-redis/pkg/ports"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// StoreMetrics holds the collectors for session store operations.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "session_store_operations_total",
				Help: "Total number of session store operations",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "session_store_operation_duration_seconds",
				Help:    "Duration of session store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.duration)
	}
	return m
}

// Operations exposes the operations counter, mainly for tests.
func (m *StoreMetrics) Operations() *prometheus.CounterVec {
	return m.operations
}

// Middleware returns a decorator recording metrics for the wrapped store.
func (m *StoreMetrics) Middleware() middleware.StoreMiddleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &instrumentedStore{next: next, metrics: m}
	}
}

func (m *StoreMetrics) observe(op string, start time.Time, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

type instrumentedStore struct {
	next    ports.SessionStore
	metrics *StoreMetrics
}

func (s *instrumentedStore) Load(ctx context.Context, key string) (domain.Session, error) {
	start := time.Now()
	session, err := s.next.Load(ctx, key)
	s.metrics.observe("load", start, err)
	return session, err
}

func (s *instrumentedStore) Save(ctx context.Context, key string, session domain.Session) error {
	start := time.Now()
	err := s.next.Save(ctx, key, session)
	s.metrics.observe("save", start, err)
	return err
}

func (s *instrumentedStore) Clear(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Clear(ctx, key)
	s.metrics.observe("clear", start, err)
	return err
}
