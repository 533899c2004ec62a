package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	return c, reg
}

func TestNewCollector_RegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	first.ObserveAssignment("auto", OutcomeAssigned)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.DispatchOutcomes.WithLabelValues("auto", OutcomeAssigned)))
}

func TestCollector_DomainCounters(t *testing.T) {
	c, _ := newTestCollector(t)

	c.ObserveAssignment("manual", OutcomeValidationFailed)
	c.ObserveRejection("WrongZone")
	c.ObserveRejection("WrongZone")
	c.ObservePublish("delivery.order.assigned.v1", nil)
	c.ObservePublish("delivery.order.assigned.v1", errors.New("broker down"))
	c.ObserveLocationMessage(MessageInvalid)
	c.AddHotStateRepairs("initialized", 3)
	c.AddHotStateRepairs("initialized", 0)
	c.AddHistoryPurged(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.DispatchOutcomes.WithLabelValues("manual", OutcomeValidationFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.DispatchRejections.WithLabelValues("WrongZone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EventsPublished.WithLabelValues("delivery.order.assigned.v1", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EventsPublished.WithLabelValues("delivery.order.assigned.v1", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LocationMessages.WithLabelValues(MessageInvalid)))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.HotStateRepairs.WithLabelValues("initialized")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.HistoryPurged))
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveAssignment("auto", OutcomeAssigned)
		c.ObserveRejection("NotAvailable")
		c.ObservePublish("t", nil)
		c.ObserveLocationMessage(MessageProcessed)
		c.AddHotStateRepairs("pruned", 1)
		c.AddHistoryPurged(1)
		c.ObserveHTTP(http.MethodGet, "/health", http.StatusOK)
	})
}

func TestUnaryInterceptorRecordsErrorCode(t *testing.T) {
	c, _ := newTestCollector(t)

	interceptor := c.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	_, _ = interceptor(context.Background(), struct{}{}, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.RPCRequests.WithLabelValues("Health", "Check", "NotFound")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c, _ := newTestCollector(t)
	c.ObserveHTTP(http.MethodPost, "/api/v1/packages/:id/assign", http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "dispatch_http_requests_total"))
}

func TestSplitMethod(t *testing.T) {
	cases := map[string][2]string{
		"":                             {"unknown", "unknown"},
		"/grpc.health.v1.Health/Check": {"Health", "Check"},
		"Check":                        {"unknown", "unknown"},
		"/svc/":                        {"svc", "unknown"},
	}
	for in, want := range cases {
		service, method := SplitMethod(in)
		assert.Equal(t, want[0], service, in)
		assert.Equal(t, want[1], method, in)
	}
}
