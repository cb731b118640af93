package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/dispatch"
	"github.com/dmitrymomot/notifier/pkg/hub"
	"github.com/dmitrymomot/notifier/pkg/metrics"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	m := metrics.New(metrics.WithoutRuntimeMetrics())
	m.Record(dispatch.Outcome{Channel: dispatch.ChannelMail, Status: dispatch.StatusSuccess, Label: "invoice"})
	m.Record(dispatch.Outcome{Channel: dispatch.ChannelMail, Status: dispatch.StatusSuccess, Label: "invoice"})
	m.Record(dispatch.Outcome{Channel: dispatch.ChannelPush, Status: dispatch.StatusFailure})
	m.Record(dispatch.Outcome{
		Channel: dispatch.ChannelPush, Status: dispatch.StatusSuccess, Label: "multicast",
		Delivered: 3, Failed: 2,
	})

	expected := `
# HELP notification_service_sent_total Notification delivery attempts by channel, status and template, topic or event.
# TYPE notification_service_sent_total counter
notification_service_sent_total{status="failure",template="N/A",type="push"} 1
notification_service_sent_total{status="success",template="invoice",type="mail"} 2
notification_service_sent_total{status="success",template="multicast",type="push"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "notification_service_sent_total"))

	expected = `
# HELP notification_service_push_device_results_total Per-device results of multicast push deliveries.
# TYPE notification_service_push_device_results_total counter
notification_service_push_device_results_total{status="failure"} 2
notification_service_push_device_results_total{status="success"} 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "notification_service_push_device_results_total"))
}

func TestObserver(t *testing.T) {
	t.Parallel()

	m := metrics.New(metrics.WithoutRuntimeMetrics(), metrics.WithPrefix("test_"))
	h := hub.New(hub.WithObserver(m))
	t.Cleanup(func() { _ = h.Close() })

	p := &stubPeer{}
	id, err := h.Accept(p)
	require.NoError(t, err)
	_, err = h.Accept(&stubPeer{})
	require.NoError(t, err)

	expected := `
# HELP test_socket_connections Currently registered socket connections.
# TYPE test_socket_connections gauge
test_socket_connections 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_socket_connections"))

	h.Disconnect(id)
	expected = strings.Replace(expected, "test_socket_connections 2", "test_socket_connections 1", 1)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_socket_connections"))

	m.SendFailed(id, hub.ErrSendBufferFull)
	m.SendFailed(id, hub.ErrPeerClosed)
	m.SendFailed(id, errors.New("x"))
	expected = `
# HELP test_socket_peer_errors_total Socket sends that failed for a single connection.
# TYPE test_socket_peer_errors_total counter
test_socket_peer_errors_total{reason="buffer_full"} 1
test_socket_peer_errors_total{reason="closed"} 1
test_socket_peer_errors_total{reason="other"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_socket_peer_errors_total"))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	m := metrics.New(metrics.WithoutRuntimeMetrics())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP notification_service_http_requests_total HTTP requests received.
# TYPE notification_service_http_requests_total counter
notification_service_http_requests_total{code="202",method="GET",route="/items/{id}"} 2
notification_service_http_requests_total{code="404",method="GET",route="unmatched"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "notification_service_http_requests_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry(), "notification_service_http_request_duration_seconds"))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.Record(dispatch.Outcome{Channel: dispatch.ChannelSocket, Status: dispatch.StatusSuccess, Label: "ping"})

	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `notification_service_sent_total{status="success",template="ping",type="socket"} 1`)
	assert.Contains(t, string(body), "notification_service_go_goroutines")
}

type stubPeer struct{}

func (stubPeer) Send(hub.Message) error { return nil }
func (stubPeer) Close() error           { return nil }
