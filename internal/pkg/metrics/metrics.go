package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Dispatch outcome label values.
const (
	OutcomeAssigned         = "assigned"
	OutcomeNoCourier        = "no_courier"
	OutcomeValidationFailed = "validation_failed"
	OutcomeError            = "error"
)

// Location message label values.
const (
	MessageProcessed = "processed"
	MessageInvalid   = "invalid"
	MessageFailed    = "failed"
)

// Collector bundles the Prometheus metrics of the dispatch service. Every
// method is safe to call on a nil *Collector so handlers may run without one.
type Collector struct {
	gatherer prometheus.Gatherer

	DispatchOutcomes   *prometheus.CounterVec
	DispatchRejections *prometheus.CounterVec
	EventsPublished    *prometheus.CounterVec
	LocationMessages   *prometheus.CounterVec
	HotStateRepairs    *prometheus.CounterVec
	HistoryPurged      prometheus.Counter

	RPCRequests  *prometheus.CounterVec
	RPCDurations *prometheus.HistogramVec
	HTTPRequests *prometheus.CounterVec
}

// NewCollector registers all metrics against reg, defaulting to the global
// registry when reg is nil. Registering twice on the same registry returns
// the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	outcomes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Assignment attempts, labeled by mode (auto/manual) and outcome.",
	}, []string{"mode", "outcome"}), "dispatch_assignments_total")
	if err != nil {
		return nil, err
	}

	rejections, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_rejections_total",
		Help: "Couriers rejected during auto dispatch, labeled by reason.",
	}, []string{"reason"}), "dispatch_rejections_total")
	if err != nil {
		return nil, err
	}

	published, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_events_published_total",
		Help: "Domain events handed to the broker, labeled by topic and result.",
	}, []string{"topic", "result"}), "dispatch_events_published_total")
	if err != nil {
		return nil, err
	}

	messages, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_location_messages_total",
		Help: "Inbound location messages, labeled by result.",
	}, []string{"result"}), "dispatch_location_messages_total")
	if err != nil {
		return nil, err
	}

	repairs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_hot_state_repairs_total",
		Help: "Hot-state entries rebuilt or pruned by the reconciler, labeled by kind.",
	}, []string{"kind"}), "dispatch_hot_state_repairs_total")
	if err != nil {
		return nil, err
	}

	purged, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_location_history_purged_total",
		Help: "Location history rows removed by retention.",
	}), "dispatch_location_history_purged_total")
	if err != nil {
		return nil, err
	}

	rpcRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_grpc_requests_total",
		Help: "Handled gRPC calls, labeled by service, method, and gRPC status code.",
	}, []string{"service", "method", "code"}), "dispatch_grpc_requests_total")
	if err != nil {
		return nil, err
	}

	rpcDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_grpc_request_duration_seconds",
		Help:    "gRPC latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"service", "method"}), "dispatch_grpc_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	httpRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_http_requests_total",
		Help: "Handled HTTP requests, labeled by method, route, and status code.",
	}, []string{"method", "route", "code"}), "dispatch_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:           gatherer,
		DispatchOutcomes:   outcomes,
		DispatchRejections: rejections,
		EventsPublished:    published,
		LocationMessages:   messages,
		HotStateRepairs:    repairs,
		HistoryPurged:      purged,
		RPCRequests:        rpcRequests,
		RPCDurations:       rpcDurations,
		HTTPRequests:       httpRequests,
	}, nil
}

func (c *Collector) ObserveAssignment(mode, outcome string) {
	if c == nil {
		return
	}
	c.DispatchOutcomes.WithLabelValues(mode, outcome).Inc()
}

func (c *Collector) ObserveRejection(reason string) {
	if c == nil {
		return
	}
	c.DispatchRejections.WithLabelValues(reason).Inc()
}

func (c *Collector) ObservePublish(topic string, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.EventsPublished.WithLabelValues(topic, result).Inc()
}

func (c *Collector) ObserveLocationMessage(result string) {
	if c == nil {
		return
	}
	c.LocationMessages.WithLabelValues(result).Inc()
}

func (c *Collector) AddHotStateRepairs(kind string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.HotStateRepairs.WithLabelValues(kind).Add(float64(n))
}

func (c *Collector) AddHistoryPurged(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.HistoryPurged.Add(float64(n))
}

func (c *Collector) ObserveHTTP(method, route string, code int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// UnaryServerInterceptor records request counts and durations for unary RPCs.
func (c *Collector) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		if c == nil {
			return resp, err
		}

		fullMethod := ""
		if info != nil {
			fullMethod = info.FullMethod
		}
		service, method := SplitMethod(fullMethod)

		c.RPCRequests.WithLabelValues(service, method, status.Code(err).String()).Inc()
		c.RPCDurations.WithLabelValues(service, method).Observe(time.Since(start).Seconds())

		return resp, err
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SplitMethod turns "/grpc.health.v1.Health/Check" into ("Health", "Check").
// Unparseable input yields "unknown" for both parts.
func SplitMethod(fullMethod string) (string, string) {
	if fullMethod == "" {
		return "unknown", "unknown"
	}
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	parts := strings.Split(fullMethod, "/")
	if len(parts) < 2 {
		return "unknown", "unknown"
	}
	service := parts[len(parts)-2]
	method := parts[len(parts)-1]
	if dot := strings.LastIndex(service, "."); dot >= 0 && dot+1 < len(service) {
		service = service[dot+1:]
	}
	if service == "" {
		service = "unknown"
	}
	if method == "" {
		method = "unknown"
	}
	return service, method
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
