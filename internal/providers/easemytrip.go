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

var easeMyTripEndpoints = endpoints{
	production: "https://api.easemytrip.com/api/v1",
	sandbox:    "https://sandbox-api.easemytrip.com/api/v1",
}

var (
	emtFlightsSchema = listSchema("Flights", false,
		"FlightNumber", "AirlineName", "DepartureDateTime", "ArrivalDateTime", "TotalFare")
	emtHotelsSchema = listSchema("Hotels", false,
		"HotelName", "Location", "PricePerNight", "TotalPrice")
)

// EaseMyTrip adapts the EaseMyTrip v1 API. Payloads use PascalCase keys and INR prices.
type EaseMyTrip struct {
	client *vendorClient
}

// NewEaseMyTrip creates an EaseMyTrip adapter.
func NewEaseMyTrip(cfg Config, logger *zap.Logger, metrics *obs.Metrics) *EaseMyTrip {
	return &EaseMyTrip{
		client: newVendorClient(types.EaseMyTrip, cfg, easeMyTripEndpoints, map[string]string{
			"X-EMT-Key":    cfg.APIKey,
			"X-EMT-Secret": cfg.APISecret,
		}, logger, metrics),
	}
}

func (p *EaseMyTrip) ID() types.ProviderID {
	return types.EaseMyTrip
}

type emtFlightRequest struct {
	Origin            string   `json:"Origin"`
	Destination       string   `json:"Destination"`
	DepartureDate     string   `json:"DepartureDate"`
	ReturnDate        *string  `json:"ReturnDate"`
	AdultCount        int      `json:"AdultCount"`
	ChildCount        int      `json:"ChildCount"`
	CabinClass        string   `json:"CabinClass"`
	PreferredAirlines []string `json:"PreferredAirlines"`
	Currency          string   `json:"Currency"`
}

type emtFlight struct {
	FlightNumber      string `json:"FlightNumber"`
	AirlineName       string `json:"AirlineName"`
	DepartureDateTime string `json:"DepartureDateTime"`
	ArrivalDateTime   string `json:"ArrivalDateTime"`
	TotalFare         amount `json:"TotalFare"`
	AvailableSeats    int    `json:"AvailableSeats"`
	IsRefundable      bool   `json:"IsRefundable"`
	DeepLink          string `json:"DeepLink"`
}

func (p *EaseMyTrip) SearchFlights(ctx context.Context, criteria types.SearchCriteria) []types.FlightResult {
	const op = "search_flights"

	req := emtFlightRequest{
		Origin:            criteria.FromCity,
		Destination:       criteria.ToCity,
		DepartureDate:     formatDate(criteria.DepartureDate),
		ReturnDate:        formatOptionalDate(criteria.ReturnDate),
		AdultCount:        criteria.Adults,
		ChildCount:        criteria.Children,
		CabinClass:        criteria.ClassType,
		PreferredAirlines: []string{},
		Currency:          "INR",
	}

	var resp struct {
		Flights []json.RawMessage `json:"Flights"`
	}
	if err := p.client.call(ctx, http.MethodPost, "/flights/search", nil, req, emtFlightsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.FlightResult{}
	}

	flights, raws, err := decodeEach[emtFlight](resp.Flights)
	if err != nil {
		p.client.fail(op, err)
		return []types.FlightResult{}
	}

	results := make([]types.FlightResult, 0, len(flights))
	for i, f := range flights {
		dep, arr, err := flightTimes(f.DepartureDateTime, f.ArrivalDateTime)
		if err != nil {
			p.client.drop(op, err)
			continue
		}
		r := types.FlightResult{
			Provider:       types.EaseMyTrip,
			FlightNumber:   f.FlightNumber,
			Airline:        f.AirlineName,
			DepartureTime:  dep,
			ArrivalTime:    arr,
			Price:          float64(f.TotalFare),
			AvailableSeats: nonNegative(f.AvailableSeats),
			ClassType:      criteria.ClassType,
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

type emtHotelRequest struct {
	CityName     string `json:"CityName"`
	CheckInDate  string `json:"CheckInDate"`
	CheckOutDate string `json:"CheckOutDate"`
	RoomCount    int    `json:"RoomCount"`
	AdultCount   int    `json:"AdultCount"`
	ChildCount   int    `json:"ChildCount"`
	Currency     string `json:"Currency"`
}

type emtHotel struct {
	HotelName     string   `json:"HotelName"`
	Location      string   `json:"Location"`
	PricePerNight amount   `json:"PricePerNight"`
	TotalPrice    amount   `json:"TotalPrice"`
	RoomType      string   `json:"RoomType"`
	Amenities     []string `json:"Amenities"`
	Rating        amount   `json:"Rating"`
	DeepLink      string   `json:"DeepLink"`
}

func (p *EaseMyTrip) SearchHotels(ctx context.Context, criteria types.HotelSearchCriteria) []types.HotelResult {
	const op = "search_hotels"

	req := emtHotelRequest{
		CityName:     criteria.City,
		CheckInDate:  formatDate(criteria.CheckIn),
		CheckOutDate: formatDate(criteria.CheckOut),
		RoomCount:    criteria.Rooms,
		AdultCount:   criteria.Adults,
		ChildCount:   criteria.Children,
		Currency:     "INR",
	}

	var resp struct {
		Hotels []json.RawMessage `json:"Hotels"`
	}
	if err := p.client.call(ctx, http.MethodPost, "/hotels/search", nil, req, emtHotelsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.HotelResult{}
	}

	hotels, raws, err := decodeEach[emtHotel](resp.Hotels)
	if err != nil {
		p.client.fail(op, err)
		return []types.HotelResult{}
	}

	results := make([]types.HotelResult, 0, len(hotels))
	for i, h := range hotels {
		r := types.HotelResult{
			Provider:      types.EaseMyTrip,
			HotelName:     h.HotelName,
			Location:      h.Location,
			CheckIn:       criteria.CheckIn,
			CheckOut:      criteria.CheckOut,
			PricePerNight: float64(h.PricePerNight),
			TotalPrice:    float64(h.TotalPrice),
			RoomType:      orDefault(h.RoomType, "Standard"),
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

func (p *EaseMyTrip) GetPriceCalendar(ctx context.Context, fromCity, toCity string) map[string]any {
	q := url.Values{}
	q.Set("Origin", fromCity)
	q.Set("Destination", toCity)
	q.Set("Currency", "INR")

	var calendar map[string]any
	if err := p.client.call(ctx, http.MethodGet, "/flights/fare-calendar", q, nil, objectSchema, &calendar); err != nil {
		p.client.fail("price_calendar", err)
		return map[string]any{}
	}
	return calendar
}

func (p *EaseMyTrip) CheckAvailability(ctx context.Context, bookingID string) bool {
	var resp struct {
		IsAvailable bool `json:"IsAvailable"`
	}
	path := "/booking/" + url.PathEscape(bookingID) + "/status"
	if err := p.client.call(ctx, http.MethodGet, path, nil, nil, objectSchema, &resp); err != nil {
		p.client.fail("check_availability", err)
		return false
	}
	return resp.IsAvailable
}
