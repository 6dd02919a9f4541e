package providers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/travel/internal/obs"
)

var (
	march10 = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	march12 = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
)

// seenRequest is what a fake vendor observed.
type seenRequest struct {
	method string
	path   string
	query  map[string][]string
	header http.Header
	body   map[string]any
}

// fakeVendor serves body with status for every request and reports each
// request on the returned channel.
func fakeVendor(t *testing.T, status int, body string) (*httptest.Server, <-chan seenRequest) {
	t.Helper()
	seen := make(chan seenRequest, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := seenRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			header: r.Header.Clone(),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &req.body)
		}
		select {
		case seen <- req:
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

// slowVendor never answers before the client gives up.
func slowVendor(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func vendorConfig(baseURL string) Config {
	return Config{
		APIKey:      "key-123",
		APISecret:   "secret-456",
		Environment: Sandbox,
		BaseURL:     baseURL,
		Timeout:     time.Second,
	}
}

func newTestMetrics() (*obs.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return obs.NewMetrics(reg), reg
}

// errorSeries counts the provider_errors_total series recorded so far.
func errorSeries(t *testing.T, reg *prometheus.Registry) int {
	t.Helper()
	n, err := testutil.GatherAndCount(reg, "provider_errors_total")
	require.NoError(t, err)
	return n
}

func received(t *testing.T, seen <-chan seenRequest) seenRequest {
	t.Helper()
	select {
	case r := <-seen:
		return r
	case <-time.After(time.Second):
		t.Fatal("vendor received no request")
		return seenRequest{}
	}
}
