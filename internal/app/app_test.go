package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/config"
	"github.com/alex-user-go/travel/internal/search/types"
)

const mmtFlights = `{"flights": [
	{"flightNumber": "6E-201", "airlineName": "IndiGo", "departureTime": "2025-03-10T06:00:00",
	 "arrivalTime": "2025-03-10T08:10:00", "fare": {"totalAmount": 5400}, "availableSeats": 9,
	 "cabinClass": "ECONOMY", "isRefundable": false, "deepLink": "https://mmt.example/6E-201"},
	{"flightNumber": "AI-865", "airlineName": "Air India", "departureTime": "2025-03-10T09:00:00",
	 "arrivalTime": "2025-03-10T11:15:00", "fare": {"totalAmount": "4100.50"}, "availableSeats": 2,
	 "cabinClass": "ECONOMY", "isRefundable": true, "deepLink": "https://mmt.example/AI-865"}
]}`

func testConfig(t *testing.T, vendorURL string) *config.Config {
	t.Helper()
	vendor := config.ProviderConfig{
		Enabled:     true,
		APIKey:      "key",
		APISecret:   "secret",
		Environment: "sandbox",
		BaseURL:     vendorURL,
		Timeout:     2000,
	}
	return &config.Config{
		Server:    config.ServerConfig{Port: 8080, ShutdownTimeout: 1000},
		Logging:   config.LoggingConfig{Level: "info", Format: "json"},
		Search:    config.SearchConfig{Timeout: 3000, BestDealsLimit: 5, CacheTTLSeconds: 60},
		RateLimit: config.RateLimitConfig{Requests: 100, WindowSeconds: 60},
		Providers: config.ProvidersConfig{MakeMyTrip: vendor},
	}
}

func mmtServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/flights/search" {
			assert.Equal(t, "key", r.Header.Get("X-API-Key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(mmtFlights))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestApp_EndToEnd(t *testing.T) {
	vendor := mmtServer(t)

	a, err := New(context.Background(), testConfig(t, vendor.URL), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	h := a.Handler()

	w := serve(t, h, "/api/v1/flights/search?from_city=DEL&to_city=BOM&departure_date=2025-03-10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body struct {
		Flights []types.FlightResult `json:"flights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Flights, 2)
	assert.Equal(t, "AI-865", body.Flights[0].FlightNumber)
	assert.InDelta(t, 4100.5, body.Flights[0].Price, 0.001)
	assert.Equal(t, "6E-201", body.Flights[1].FlightNumber)

	// Hotels fail at the vendor (404) and degrade to an empty list.
	w = serve(t, h, "/api/v1/hotels/search?city=Goa&check_in=2025-03-10&check_out=2025-03-11")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hotels":[]`)

	w = serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = serve(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `provider_errors_total{operation="search_hotels",provider="makemytrip"} 1`)
	assert.Contains(t, w.Body.String(), `travel_requests_total{endpoint="flights"} 1`)
}

func TestApp_RedisCache(t *testing.T) {
	vendor := mmtServer(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig(t, vendor.URL)
	cfg.Redis = config.RedisConfig{Enabled: true, Address: mr.Addr()}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	target := "/api/v1/flights/search?from_city=DEL&to_city=BOM&departure_date=2025-03-10"
	require.Equal(t, http.StatusOK, serve(t, a.Handler(), target).Code)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "travel:flights:del:bom")

	w := serve(t, a.Handler(), target)
	assert.Contains(t, w.Body.String(), `"cache":"hit"`)
}

func TestApp_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Redis = config.RedisConfig{Enabled: true, Address: addr}

	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "redis")
}

func TestBuildRegistry_SkipsDisabled(t *testing.T) {
	enabled := config.ProviderConfig{Enabled: true, Environment: "production", Timeout: 1000}
	cfg := config.ProvidersConfig{
		MakeMyTrip: enabled,
		Cleartrip:  config.ProviderConfig{Enabled: false},
		EaseMyTrip: enabled,
		Indigo:     enabled,
		Riya:       enabled,
		Savaari:    enabled,
	}

	reg, err := buildRegistry(cfg, nil, zap.NewNop(), nil)
	require.NoError(t, err)

	ids := make([]types.ProviderID, 0, len(reg.Travel()))
	for _, p := range reg.Travel() {
		ids = append(ids, p.ID())
	}
	assert.Equal(t, []types.ProviderID{types.MakeMyTrip, types.EaseMyTrip, types.Indigo, types.Riya}, ids)
	require.Len(t, reg.Cabs(), 1)
	assert.Equal(t, types.Savaari, reg.Cabs()[0].ID())
}
