package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alex-user-go/travel/internal/search/types"
)

// TravelProvider is implemented by vendors selling flights and/or hotels.
//
// Implementations are fail-soft: every failure is logged and converted to an
// empty value, so callers never see vendor errors.
type TravelProvider interface {
	ID() types.ProviderID
	SearchFlights(ctx context.Context, criteria types.SearchCriteria) []types.FlightResult
	SearchHotels(ctx context.Context, criteria types.HotelSearchCriteria) []types.HotelResult
	GetPriceCalendar(ctx context.Context, fromCity, toCity string) map[string]any
	CheckAvailability(ctx context.Context, bookingID string) bool
}

// CabProvider is implemented by cab vendors. Same fail-soft contract as TravelProvider.
type CabProvider interface {
	ID() types.ProviderID
	SearchCabs(ctx context.Context, criteria types.CabSearchCriteria) []types.CabResult
	GetFareEstimate(ctx context.Context, from, to string) float64
}

// Environment selects a vendor's production or sandbox endpoint.
type Environment string

const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

// DefaultTimeout bounds a single vendor call when Config.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Config is the constructor-time configuration shared by all adapters.
type Config struct {
	APIKey      string
	APISecret   string
	Environment Environment
	// BaseURL overrides the endpoint selected by Environment.
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// ErrProviderUnavailable is returned when a vendor answers with a non-2xx status.
var ErrProviderUnavailable = errors.New("provider unavailable")
