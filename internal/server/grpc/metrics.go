package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// MetricsOptions controls construction of the RPC collectors. Zero values
// fall back to the default registerer, namespace "balance", subsystem
// "grpc" and prometheus.DefBuckets.
type MetricsOptions struct {
	Registerer prometheus.Registerer
	Namespace  string
	Subsystem  string
	Buckets    []float64
}

// Metrics holds the Prometheus collectors for unary RPCs.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor so that constructing Metrics twice is harmless.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var zero T
	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		return zero, fmt.Errorf("register collector: %w", err)
	}
	existing, ok := already.ExistingCollector.(T)
	if !ok {
		return zero, fmt.Errorf("existing collector has wrong type %T", already.ExistingCollector)
	}
	return existing, nil
}

func NewMetrics(opts MetricsOptions) (*Metrics, error) {
	if opts.Namespace == "" {
		opts.Namespace = "balance"
	}
	if opts.Subsystem == "" {
		opts.Subsystem = "grpc"
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if len(opts.Buckets) == 0 {
		opts.Buckets = prometheus.DefBuckets
	}

	requests, err := register(opts.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      "requests_total",
		Help:      "Unary RPCs handled, by service, method and status code.",
	}, []string{"service", "method", "code"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(opts.Registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      "request_duration_seconds",
		Help:      "Unary RPC latency in seconds, by service, method and status code.",
		Buckets:   opts.Buckets,
	}, []string{"service", "method", "code"}))
	if err != nil {
		return nil, err
	}

	inFlight, err := register(opts.Registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      "in_flight_requests",
		Help:      "Unary RPCs currently being served, by service.",
	}, []string{"service"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{requests: requests, duration: duration, inFlight: inFlight}, nil
}

// UnaryServerInterceptor records every call. A nil *Metrics yields a
// pass-through interceptor.
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	if m == nil {
		return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			return handler(ctx, req)
		}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		service, method := splitFullMethod(info.FullMethod)
		start := time.Now()

		gauge := m.inFlight.WithLabelValues(service)
		gauge.Inc()
		defer gauge.Dec()

		resp, err := handler(ctx, req)

		labels := prometheus.Labels{
			"service": service,
			"method":  method,
			"code":    status.Code(err).String(),
		}
		m.requests.With(labels).Inc()
		m.duration.With(labels).Observe(time.Since(start).Seconds())

		return resp, err
	}
}

func splitFullMethod(full string) (string, string) {
	full = strings.TrimPrefix(full, "/")
	if full == "" {
		return "unknown", "unknown"
	}
	service, method, ok := strings.Cut(full, "/")
	if !ok || strings.Contains(method, "/") {
		return full, "unknown"
	}
	if service == "" {
		service = "unknown"
	}
	if method == "" {
		method = "unknown"
	}
	return service, method
}
