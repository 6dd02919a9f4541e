package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/middleware"
	"github.com/alex-user-go/travel/internal/obs"
	"github.com/alex-user-go/travel/internal/search"
	"github.com/alex-user-go/travel/internal/search/cache"
	"github.com/alex-user-go/travel/internal/search/ratelimit"
	"github.com/alex-user-go/travel/internal/search/types"
)

// Handler serves the travel search API.
type Handler struct {
	aggregator  *search.Aggregator
	cache       *cache.Cache
	rateLimiter *ratelimit.Limiter
	metrics     *obs.Metrics
	logger      *zap.Logger
}

// New creates a new Handler.
func New(
	aggregator *search.Aggregator,
	searchCache *cache.Cache,
	rateLimiter *ratelimit.Limiter,
	metrics *obs.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		aggregator:  aggregator,
		cache:       searchCache,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		logger:      logger,
	}
}

// Register mounts the API routes on r. Every route is rate-limited.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api/v1", h.RateLimit())

	api.GET("/flights/search", h.SearchFlights)
	api.GET("/hotels/search", h.SearchHotels)
	api.GET("/cabs/search", h.SearchCabs)
	api.GET("/cabs/fare-estimate", h.FareEstimate)
	api.GET("/deals/best", h.BestDeals)
	api.GET("/prices/trends", h.PriceTrends)
	api.GET("/bookings/:provider/:booking_id/availability", h.Availability)
}

// RateLimit rejects clients that exceed their per-IP budget.
func (h *Handler) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ExtractIP(c.Request)
		if !h.rateLimiter.Allow(ip) {
			h.metrics.IncRateLimitDrops()
			h.logger.Warn("rate limit exceeded",
				zap.String("request_id", middleware.RequestID(c.Request.Context())),
				zap.String("ip", ip),
			)
			writeError(c, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// SearchStats describes how a search response was produced.
type SearchStats struct {
	Results    int    `json:"results"`
	Cache      string `json:"cache"`
	DurationMs int64  `json:"duration_ms"`
}

func newStats(results int, hit bool, start time.Time) SearchStats {
	status := "miss"
	if hit {
		status = "hit"
	}
	return SearchStats{
		Results:    results,
		Cache:      status,
		DurationMs: time.Since(start).Milliseconds(),
	}
}

// FlightSearchResponse is the body of /flights/search.
type FlightSearchResponse struct {
	Search  types.SearchCriteria `json:"search"`
	Stats   SearchStats          `json:"stats"`
	Flights []types.FlightResult `json:"flights"`
}

// SearchFlights handles /flights/search.
func (h *Handler) SearchFlights(c *gin.Context) {
	const endpoint = "flights"
	start := time.Now()
	h.metrics.IncRequests(endpoint)

	criteria, err := ParseFlightParams(c)
	if err != nil {
		h.invalid(c, err)
		return
	}

	key := cache.Key(endpoint, criteria.FromCity, criteria.ToCity, criteria.DepartureDate,
		criteria.ReturnDate, criteria.Adults, criteria.Children, criteria.ClassType)
	flights, hit, err := cache.GetOrFetch(c.Request.Context(), h.cache, key,
		func(ctx context.Context) ([]types.FlightResult, error) {
			return h.aggregator.SearchAllFlights(ctx, criteria), nil
		})
	if err != nil {
		h.failed(c, endpoint, err)
		return
	}
	h.countHit(endpoint, hit)

	c.JSON(http.StatusOK, FlightSearchResponse{
		Search:  criteria,
		Stats:   newStats(len(flights), hit, start),
		Flights: flights,
	})
}

// HotelSearchResponse is the body of /hotels/search.
type HotelSearchResponse struct {
	Search types.HotelSearchCriteria `json:"search"`
	Stats  SearchStats               `json:"stats"`
	Hotels []types.HotelResult       `json:"hotels"`
}

// SearchHotels handles /hotels/search.
func (h *Handler) SearchHotels(c *gin.Context) {
	const endpoint = "hotels"
	start := time.Now()
	h.metrics.IncRequests(endpoint)

	criteria, err := ParseHotelParams(c)
	if err != nil {
		h.invalid(c, err)
		return
	}

	key := cache.Key(endpoint, criteria.City, criteria.CheckIn, criteria.CheckOut,
		criteria.Rooms, criteria.Adults, criteria.Children)
	hotels, hit, err := cache.GetOrFetch(c.Request.Context(), h.cache, key,
		func(ctx context.Context) ([]types.HotelResult, error) {
			return h.aggregator.SearchAllHotels(ctx, criteria), nil
		})
	if err != nil {
		h.failed(c, endpoint, err)
		return
	}
	h.countHit(endpoint, hit)

	c.JSON(http.StatusOK, HotelSearchResponse{
		Search: criteria,
		Stats:  newStats(len(hotels), hit, start),
		Hotels: hotels,
	})
}

// CabSearchResponse is the body of /cabs/search.
type CabSearchResponse struct {
	Search types.CabSearchCriteria `json:"search"`
	Stats  SearchStats             `json:"stats"`
	Cabs   []types.CabResult       `json:"cabs"`
}

// SearchCabs handles /cabs/search.
func (h *Handler) SearchCabs(c *gin.Context) {
	const endpoint = "cabs"
	start := time.Now()
	h.metrics.IncRequests(endpoint)

	criteria, err := ParseCabParams(c)
	if err != nil {
		h.invalid(c, err)
		return
	}

	key := cache.Key(endpoint, criteria.City, criteria.PickupDate, criteria.DropDate, criteria.CabType)
	cabs, hit, err := cache.GetOrFetch(c.Request.Context(), h.cache, key,
		func(ctx context.Context) ([]types.CabResult, error) {
			return h.aggregator.SearchAllCabs(ctx, criteria), nil
		})
	if err != nil {
		h.failed(c, endpoint, err)
		return
	}
	h.countHit(endpoint, hit)

	c.JSON(http.StatusOK, CabSearchResponse{
		Search: criteria,
		Stats:  newStats(len(cabs), hit, start),
		Cabs:   cabs,
	})
}

// BestDealsResponse is the body of /deals/best.
type BestDealsResponse struct {
	Search DealsParams     `json:"search"`
	Stats  SearchStats     `json:"stats"`
	Deals  types.BestDeals `json:"deals"`
}

// BestDeals handles /deals/best.
func (h *Handler) BestDeals(c *gin.Context) {
	const endpoint = "deals"
	start := time.Now()
	h.metrics.IncRequests(endpoint)

	params, err := ParseDealsParams(c)
	if err != nil {
		h.invalid(c, err)
		return
	}

	key := cache.Key(endpoint, params.FromCity, params.ToCity, params.DepartureDate, params.ReturnDate)
	deals, hit, err := cache.GetOrFetch(c.Request.Context(), h.cache, key,
		func(ctx context.Context) (types.BestDeals, error) {
			return h.aggregator.GetBestDeals(ctx, params.FromCity, params.ToCity, params.DepartureDate, params.ReturnDate), nil
		})
	if err != nil {
		h.failed(c, endpoint, err)
		return
	}
	h.countHit(endpoint, hit)

	c.JSON(http.StatusOK, BestDealsResponse{
		Search: params,
		Stats:  newStats(len(deals.Flights)+len(deals.Hotels)+len(deals.Cabs), hit, start),
		Deals:  deals,
	})
}

// PriceTrendsResponse is the body of /prices/trends.
type PriceTrendsResponse struct {
	Search RouteParams                         `json:"search"`
	Stats  SearchStats                         `json:"stats"`
	Trends map[types.ProviderID]map[string]any `json:"trends"`
}

// PriceTrends handles /prices/trends.
func (h *Handler) PriceTrends(c *gin.Context) {
	const endpoint = "trends"
	start := time.Now()
	h.metrics.IncRequests(endpoint)

	params, err := parseRoute(c, "from_city", "to_city")
	if err != nil {
		h.invalid(c, err)
		return
	}

	key := cache.Key(endpoint, params.From, params.To)
	trends, hit, err := cache.GetOrFetch(c.Request.Context(), h.cache, key,
		func(ctx context.Context) (map[types.ProviderID]map[string]any, error) {
			return h.aggregator.GetPriceTrends(ctx, params.From, params.To), nil
		})
	if err != nil {
		h.failed(c, endpoint, err)
		return
	}
	h.countHit(endpoint, hit)

	c.JSON(http.StatusOK, PriceTrendsResponse{
		Search: params,
		Stats:  newStats(len(trends), hit, start),
		Trends: trends,
	})
}

// FareEstimateResponse is the body of /cabs/fare-estimate.
type FareEstimateResponse struct {
	Search    RouteParams                  `json:"search"`
	Estimates map[types.ProviderID]float64 `json:"estimates"`
}

// FareEstimate handles /cabs/fare-estimate. Estimates are not cached.
func (h *Handler) FareEstimate(c *gin.Context) {
	h.metrics.IncRequests("fare_estimate")

	params, err := parseRoute(c, "from", "to")
	if err != nil {
		h.invalid(c, err)
		return
	}

	c.JSON(http.StatusOK, FareEstimateResponse{
		Search:    params,
		Estimates: h.aggregator.GetFareEstimates(c.Request.Context(), params.From, params.To),
	})
}

// AvailabilityResponse is the body of the booking availability route.
type AvailabilityResponse struct {
	Provider  types.ProviderID `json:"provider"`
	BookingID string           `json:"booking_id"`
	Available bool             `json:"available"`
}

// Availability handles /bookings/:provider/:booking_id/availability.
func (h *Handler) Availability(c *gin.Context) {
	h.metrics.IncRequests("availability")

	provider := types.ProviderID(c.Param("provider"))
	bookingID := c.Param("booking_id")

	available, err := h.aggregator.CheckAvailability(c.Request.Context(), provider, bookingID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Provider:  provider,
		BookingID: bookingID,
		Available: available,
	})
}

func (h *Handler) invalid(c *gin.Context, err error) {
	h.logger.Debug("invalid request parameters",
		zap.String("request_id", middleware.RequestID(c.Request.Context())),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	validationError(c, err)
}

// failed handles a search that produced no response, which only happens
// when the client went away while waiting on a shared fetch.
func (h *Handler) failed(c *gin.Context, endpoint string, err error) {
	h.logger.Error("search failed",
		zap.String("request_id", middleware.RequestID(c.Request.Context())),
		zap.String("endpoint", endpoint),
		zap.Error(err),
	)
	writeServiceError(c, err)
}

func (h *Handler) countHit(endpoint string, hit bool) {
	if hit {
		h.metrics.IncCacheHits(endpoint)
	}
}
