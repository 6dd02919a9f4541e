package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/obs"
	"github.com/alex-user-go/travel/internal/search/types"
)

var cleartripEndpoints = endpoints{
	production: "https://api.cleartrip.com/api/v2",
	sandbox:    "https://sandbox-api.cleartrip.com/api/v2",
}

var (
	ctFlightsSchema = listSchema("itineraries", true,
		"flight_no", "carrier_name", "departs_at", "arrives_at", "price")
	ctHotelsSchema = listSchema("hotels", true,
		"hotel_name", "locality", "rate_per_night", "total_rate")
	ctItinerarySchema = mustSchema(`{"type": "object", "required": ["bookable"], "properties": {"bookable": {"type": "boolean"}}}`)
)

// Cleartrip adapts the Cleartrip v2 API. Searches are GET requests with
// snake_case query parameters.
type Cleartrip struct {
	client *vendorClient
}

// NewCleartrip creates a Cleartrip adapter.
func NewCleartrip(cfg Config, logger *zap.Logger, metrics *obs.Metrics) *Cleartrip {
	return &Cleartrip{
		client: newVendorClient(types.Cleartrip, cfg, cleartripEndpoints, map[string]string{
			"X-CT-API-Key":    cfg.APIKey,
			"X-CT-API-Secret": cfg.APISecret,
		}, logger, metrics),
	}
}

func (p *Cleartrip) ID() types.ProviderID {
	return types.Cleartrip
}

type ctPrice struct {
	Total amount `json:"total"`
}

type ctItinerary struct {
	FlightNo    string  `json:"flight_no"`
	CarrierName string  `json:"carrier_name"`
	DepartsAt   string  `json:"departs_at"`
	ArrivesAt   string  `json:"arrives_at"`
	Price       ctPrice `json:"price"`
	SeatsLeft   int     `json:"seats_left"`
	Refundable  bool    `json:"refundable"`
	URL         string  `json:"url"`
}

func (p *Cleartrip) SearchFlights(ctx context.Context, criteria types.SearchCriteria) []types.FlightResult {
	const op = "search_flights"

	q := url.Values{}
	q.Set("from", criteria.FromCity)
	q.Set("to", criteria.ToCity)
	q.Set("depart_date", formatDate(criteria.DepartureDate))
	if criteria.ReturnDate != nil {
		q.Set("return_date", formatDate(*criteria.ReturnDate))
	}
	q.Set("adults", strconv.Itoa(criteria.Adults))
	q.Set("children", strconv.Itoa(criteria.Children))
	q.Set("class", criteria.ClassType)

	var resp struct {
		Itineraries []json.RawMessage `json:"itineraries"`
	}
	if err := p.client.call(ctx, http.MethodGet, "/air/search", q, nil, ctFlightsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.FlightResult{}
	}

	itineraries, raws, err := decodeEach[ctItinerary](resp.Itineraries)
	if err != nil {
		p.client.fail(op, err)
		return []types.FlightResult{}
	}

	results := make([]types.FlightResult, 0, len(itineraries))
	for i, it := range itineraries {
		dep, arr, err := flightTimes(it.DepartsAt, it.ArrivesAt)
		if err != nil {
			p.client.drop(op, err)
			continue
		}
		r := types.FlightResult{
			Provider:       types.Cleartrip,
			FlightNumber:   it.FlightNo,
			Airline:        it.CarrierName,
			DepartureTime:  dep,
			ArrivalTime:    arr,
			Price:          float64(it.Price.Total),
			AvailableSeats: nonNegative(it.SeatsLeft),
			ClassType:      criteria.ClassType,
			Refundable:     it.Refundable,
			DeepLink:       it.URL,
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

type ctHotel struct {
	HotelName    string   `json:"hotel_name"`
	Locality     string   `json:"locality"`
	RatePerNight amount   `json:"rate_per_night"`
	TotalRate    amount   `json:"total_rate"`
	RoomType     string   `json:"room_type"`
	Amenities    []string `json:"amenities"`
	UserRating   amount   `json:"user_rating"`
	URL          string   `json:"url"`
}

func (p *Cleartrip) SearchHotels(ctx context.Context, criteria types.HotelSearchCriteria) []types.HotelResult {
	const op = "search_hotels"

	q := url.Values{}
	q.Set("city", criteria.City)
	q.Set("check_in", formatDate(criteria.CheckIn))
	q.Set("check_out", formatDate(criteria.CheckOut))
	q.Set("rooms", strconv.Itoa(criteria.Rooms))
	q.Set("adults", strconv.Itoa(criteria.Adults))
	q.Set("children", strconv.Itoa(criteria.Children))

	var resp struct {
		Hotels []json.RawMessage `json:"hotels"`
	}
	if err := p.client.call(ctx, http.MethodGet, "/hotels/search", q, nil, ctHotelsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.HotelResult{}
	}

	hotels, raws, err := decodeEach[ctHotel](resp.Hotels)
	if err != nil {
		p.client.fail(op, err)
		return []types.HotelResult{}
	}

	results := make([]types.HotelResult, 0, len(hotels))
	for i, h := range hotels {
		r := types.HotelResult{
			Provider:      types.Cleartrip,
			HotelName:     h.HotelName,
			Location:      h.Locality,
			CheckIn:       criteria.CheckIn,
			CheckOut:      criteria.CheckOut,
			PricePerNight: float64(h.RatePerNight),
			TotalPrice:    float64(h.TotalRate),
			RoomType:      orDefault(h.RoomType, "Standard"),
			Amenities:     amenitiesOrEmpty(h.Amenities),
			Rating:        clampRating(float64(h.UserRating)),
			DeepLink:      h.URL,
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

func (p *Cleartrip) GetPriceCalendar(ctx context.Context, fromCity, toCity string) map[string]any {
	q := url.Values{}
	q.Set("from", fromCity)
	q.Set("to", toCity)

	var calendar map[string]any
	if err := p.client.call(ctx, http.MethodGet, "/air/calendar", q, nil, objectSchema, &calendar); err != nil {
		p.client.fail("price_calendar", err)
		return map[string]any{}
	}
	return calendar
}

// CheckAvailability asks whether an itinerary is still bookable.
func (p *Cleartrip) CheckAvailability(ctx context.Context, bookingID string) bool {
	var resp struct {
		Bookable bool `json:"bookable"`
	}
	if err := p.client.call(ctx, http.MethodGet, "/itineraries/"+url.PathEscape(bookingID), nil, nil, ctItinerarySchema, &resp); err != nil {
		p.client.fail("check_availability", err)
		return false
	}
	return resp.Bookable
}
