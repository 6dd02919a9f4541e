package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/obs"
	"github.com/alex-user-go/travel/internal/search/types"
)

var makeMyTripEndpoints = endpoints{
	production: "https://api.makemytrip.com/api/v3",
	sandbox:    "https://sandbox-api.makemytrip.com/api/v3",
}

var (
	mmtFlightsSchema = listSchema("flights", true,
		"flightNumber", "airlineName", "departureTime", "arrivalTime", "fare",
		"availableSeats", "cabinClass", "isRefundable", "deepLink")
	mmtHotelsSchema = listSchema("hotels", true,
		"name", "location", "pricePerNight", "totalPrice", "roomType", "amenities", "rating", "deepLink")
	mmtAvailabilitySchema = mustSchema(`{"type": "object", "required": ["available"], "properties": {"available": {"type": "boolean"}}}`)
)

// MakeMyTrip is the MakeMyTrip v3 partner API adapter.
type MakeMyTrip struct {
	client *vendorClient
}

// NewMakeMyTrip creates a MakeMyTrip adapter.
func NewMakeMyTrip(cfg Config, logger *zap.Logger, metrics *obs.Metrics) *MakeMyTrip {
	return &MakeMyTrip{
		client: newVendorClient(types.MakeMyTrip, cfg, makeMyTripEndpoints, map[string]string{
			"X-API-Key":    cfg.APIKey,
			"X-API-Secret": cfg.APISecret,
		}, logger, metrics),
	}
}

// ID returns the provider identity.
func (p *MakeMyTrip) ID() types.ProviderID {
	return types.MakeMyTrip
}

type mmtFlightRequest struct {
	FromCity      string  `json:"fromCity"`
	ToCity        string  `json:"toCity"`
	DepartureDate string  `json:"departureDate"`
	ReturnDate    *string `json:"returnDate"`
	Adults        int     `json:"adults"`
	Children      int     `json:"children"`
	ClassType     string  `json:"classType"`
}

type mmtFare struct {
	TotalAmount amount `json:"totalAmount"`
}

type mmtFlight struct {
	FlightNumber   string  `json:"flightNumber"`
	AirlineName    string  `json:"airlineName"`
	DepartureTime  string  `json:"departureTime"`
	ArrivalTime    string  `json:"arrivalTime"`
	Fare           mmtFare `json:"fare"`
	AvailableSeats int     `json:"availableSeats"`
	CabinClass     string  `json:"cabinClass"`
	IsRefundable   bool    `json:"isRefundable"`
	DeepLink       string  `json:"deepLink"`
}

// SearchFlights searches MakeMyTrip flights.
func (p *MakeMyTrip) SearchFlights(ctx context.Context, criteria types.SearchCriteria) []types.FlightResult {
	const op = "search_flights"

	req := mmtFlightRequest{
		FromCity:      criteria.FromCity,
		ToCity:        criteria.ToCity,
		DepartureDate: formatDate(criteria.DepartureDate),
		ReturnDate:    formatOptionalDate(criteria.ReturnDate),
		Adults:        criteria.Adults,
		Children:      criteria.Children,
		ClassType:     criteria.ClassType,
	}

	var resp struct {
		Flights []json.RawMessage `json:"flights"`
	}
	if err := p.client.call(ctx, http.MethodPost, "/flights/search", nil, req, mmtFlightsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.FlightResult{}
	}

	flights, raws, err := decodeEach[mmtFlight](resp.Flights)
	if err != nil {
		p.client.fail(op, err)
		return []types.FlightResult{}
	}

	results := make([]types.FlightResult, 0, len(flights))
	for i, f := range flights {
		dep, arr, err := flightTimes(f.DepartureTime, f.ArrivalTime)
		if err != nil {
			p.client.drop(op, err)
			continue
		}
		r := types.FlightResult{
			Provider:       types.MakeMyTrip,
			FlightNumber:   f.FlightNumber,
			Airline:        f.AirlineName,
			DepartureTime:  dep,
			ArrivalTime:    arr,
			Price:          float64(f.Fare.TotalAmount),
			AvailableSeats: nonNegative(f.AvailableSeats),
			ClassType:      f.CabinClass,
			Refundable:     f.IsRefundable,
			DeepLink:       f.DeepLink,
			ProviderData:   raws[i],
		}
		if err := checkFlight(r); err != nil {
			p.client.drop(op, err)
			continue
		}
		results = append(results, r)
	}
	return results
}

type mmtHotelRequest struct {
	City     string `json:"city"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Rooms    int    `json:"rooms"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

type mmtHotel struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	PricePerNight amount   `json:"pricePerNight"`
	TotalPrice    amount   `json:"totalPrice"`
	RoomType      string   `json:"roomType"`
	Amenities     []string `json:"amenities"`
	Rating        amount   `json:"rating"`
	DeepLink      string   `json:"deepLink"`
}

// SearchHotels searches MakeMyTrip hotels.
func (p *MakeMyTrip) SearchHotels(ctx context.Context, criteria types.HotelSearchCriteria) []types.HotelResult {
	const op = "search_hotels"

	req := mmtHotelRequest{
		City:     criteria.City,
		CheckIn:  formatDate(criteria.CheckIn),
		CheckOut: formatDate(criteria.CheckOut),
		Rooms:    criteria.Rooms,
		Adults:   criteria.Adults,
		Children: criteria.Children,
	}

	var resp struct {
		Hotels []json.RawMessage `json:"hotels"`
	}
	if err := p.client.call(ctx, http.MethodPost, "/hotels/search", nil, req, mmtHotelsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.HotelResult{}
	}

	hotels, raws, err := decodeEach[mmtHotel](resp.Hotels)
	if err != nil {
		p.client.fail(op, err)
		return []types.HotelResult{}
	}

	results := make([]types.HotelResult, 0, len(hotels))
	for i, h := range hotels {
		r := types.HotelResult{
			Provider:      types.MakeMyTrip,
			HotelName:     h.Name,
			Location:      h.Location,
			CheckIn:       criteria.CheckIn,
			CheckOut:      criteria.CheckOut,
			PricePerNight: float64(h.PricePerNight),
			TotalPrice:    float64(h.TotalPrice),
			RoomType:      h.RoomType,
			Amenities:     amenitiesOrEmpty(h.Amenities),
			Rating:        clampRating(float64(h.Rating)),
			DeepLink:      h.DeepLink,
			ProviderData:  raws[i],
		}
		if err := checkHotel(r); err != nil {
			p.client.drop(op, err)
			continue
		}
		results = append(results, r)
	}
	return results
}

// GetPriceCalendar returns the raw three-month fare calendar.
func (p *MakeMyTrip) GetPriceCalendar(ctx context.Context, fromCity, toCity string) map[string]any {
	q := url.Values{}
	q.Set("fromCity", fromCity)
	q.Set("toCity", toCity)
	q.Set("months", "3")

	var calendar map[string]any
	if err := p.client.call(ctx, http.MethodGet, "/flights/calendar", q, nil, objectSchema, &calendar); err != nil {
		p.client.fail("price_calendar", err)
		return map[string]any{}
	}
	return calendar
}

// CheckAvailability reports whether a booking can still be made.
func (p *MakeMyTrip) CheckAvailability(ctx context.Context, bookingID string) bool {
	var resp struct {
		Available bool `json:"available"`
	}
	path := "/booking/" + url.PathEscape(bookingID) + "/availability"
	if err := p.client.call(ctx, http.MethodGet, path, nil, nil, mmtAvailabilitySchema, &resp); err != nil {
		p.client.fail("check_availability", err)
		return false
	}
	return resp.Available
}
