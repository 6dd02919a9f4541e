package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alex-user-go/travel/internal/obs"
	"github.com/alex-user-go/travel/internal/providers"
	"github.com/alex-user-go/travel/internal/search/types"
)

// DefaultBestDealsLimit is the number of offers kept per category by GetBestDeals.
const DefaultBestDealsLimit = 5

// ErrUnknownProvider is returned for a provider ID missing from the registry.
var ErrUnknownProvider = errors.New("unknown provider")

// Aggregator fans searches out to every registered provider and merges the results.
type Aggregator struct {
	registry       *providers.Registry
	timeout        time.Duration
	bestDealsLimit int
	metrics        *obs.Metrics
	logger         *zap.Logger
}

// NewAggregator creates a new Aggregator. timeout bounds a whole gather; each
// provider still applies its own, shorter, per-call timeout.
func NewAggregator(registry *providers.Registry, timeout time.Duration, bestDealsLimit int, metrics *obs.Metrics, logger *zap.Logger) *Aggregator {
	if bestDealsLimit <= 0 {
		bestDealsLimit = DefaultBestDealsLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		registry:       registry,
		timeout:        timeout,
		bestDealsLimit: bestDealsLimit,
		metrics:        metrics,
		logger:         logger,
	}
}

// SearchAllFlights queries every travel provider and returns all flights, cheapest first.
func (a *Aggregator) SearchAllFlights(ctx context.Context, criteria types.SearchCriteria) []types.FlightResult {
	flights := gather(a, ctx, "search_flights", a.registry.Travel(),
		func(ctx context.Context, p providers.TravelProvider) []types.FlightResult {
			return p.SearchFlights(ctx, criteria)
		})
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Price < flights[j].Price
	})
	return flights
}

// SearchAllHotels queries every travel provider and returns all hotels by ascending total price.
func (a *Aggregator) SearchAllHotels(ctx context.Context, criteria types.HotelSearchCriteria) []types.HotelResult {
	hotels := gather(a, ctx, "search_hotels", a.registry.Travel(),
		func(ctx context.Context, p providers.TravelProvider) []types.HotelResult {
			return p.SearchHotels(ctx, criteria)
		})
	sort.SliceStable(hotels, func(i, j int) bool {
		return hotels[i].TotalPrice < hotels[j].TotalPrice
	})
	return hotels
}

// SearchAllCabs queries every cab provider and returns all cabs by ascending total price.
func (a *Aggregator) SearchAllCabs(ctx context.Context, criteria types.CabSearchCriteria) []types.CabResult {
	cabs := gather(a, ctx, "search_cabs", a.registry.Cabs(),
		func(ctx context.Context, p providers.CabProvider) []types.CabResult {
			return p.SearchCabs(ctx, criteria)
		})
	sort.SliceStable(cabs, func(i, j int) bool {
		return cabs[i].TotalPrice < cabs[j].TotalPrice
	})
	return cabs
}

// GetBestDeals runs flight, hotel and cab searches for one trip concurrently
// and keeps the cheapest offers of each.
//
// The hotel stay runs from departure to return (or a same-day stay without a
// return date) and the cab is booked in the destination city.
func (a *Aggregator) GetBestDeals(ctx context.Context, fromCity, toCity string, departure time.Time, returnDate *time.Time) types.BestDeals {
	flightCriteria := types.SearchCriteria{
		FromCity:      fromCity,
		ToCity:        toCity,
		DepartureDate: departure,
		ReturnDate:    returnDate,
	}.WithDefaults()

	checkOut := departure
	if returnDate != nil {
		checkOut = *returnDate
	}
	hotelCriteria := types.HotelSearchCriteria{
		City:     toCity,
		CheckIn:  departure,
		CheckOut: checkOut,
	}.WithDefaults()

	cabCriteria := types.CabSearchCriteria{
		City:       toCity,
		PickupDate: departure,
		DropDate:   returnDate,
	}.WithDefaults()

	var (
		deals types.BestDeals
		g     errgroup.Group
	)
	g.Go(func() error {
		deals.Flights = top(a.SearchAllFlights(ctx, flightCriteria), a.bestDealsLimit)
		return nil
	})
	g.Go(func() error {
		deals.Hotels = top(a.SearchAllHotels(ctx, hotelCriteria), a.bestDealsLimit)
		return nil
	})
	g.Go(func() error {
		deals.Cabs = top(a.SearchAllCabs(ctx, cabCriteria), a.bestDealsLimit)
		return nil
	})
	_ = g.Wait()

	return deals
}

// GetPriceTrends collects the raw fare calendar of every travel provider.
// Calendars are vendor-shaped and returned as is.
func (a *Aggregator) GetPriceTrends(ctx context.Context, fromCity, toCity string) map[types.ProviderID]map[string]any {
	travel := a.registry.Travel()
	calendars := gatherEach(a, ctx, "price_calendar", travel,
		func(ctx context.Context, p providers.TravelProvider) map[string]any {
			return p.GetPriceCalendar(ctx, fromCity, toCity)
		})

	trends := make(map[types.ProviderID]map[string]any, len(travel))
	for i, p := range travel {
		cal := calendars[i]
		if cal == nil {
			cal = map[string]any{}
		}
		trends[p.ID()] = cal
	}
	return trends
}

// GetFareEstimates asks every cab provider for a point-to-point fare.
func (a *Aggregator) GetFareEstimates(ctx context.Context, from, to string) map[types.ProviderID]float64 {
	cabs := a.registry.Cabs()
	fares := gatherEach(a, ctx, "fare_estimate", cabs,
		func(ctx context.Context, p providers.CabProvider) float64 {
			return p.GetFareEstimate(ctx, from, to)
		})

	estimates := make(map[types.ProviderID]float64, len(cabs))
	for i, p := range cabs {
		estimates[p.ID()] = fares[i]
	}
	return estimates
}

// CheckAvailability asks a single travel provider about a booking.
func (a *Aggregator) CheckAvailability(ctx context.Context, provider types.ProviderID, bookingID string) (bool, error) {
	p, ok := a.registry.TravelProvider(provider)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	available := p.CheckAvailability(ctx, bookingID)
	a.metrics.ObserveProviderLatency(string(provider), "check_availability", time.Since(start).Seconds())
	return available, nil
}

func (a *Aggregator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func top[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
