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

var riyaEndpoints = endpoints{
	production: "https://api.riya.travel/v1",
	sandbox:    "https://sandbox-api.riya.travel/v1",
}

var (
	riyaFlightsSchema = listSchema("flightResults", false,
		"flightNo", "airlineName", "departureDateTime", "arrivalDateTime", "totalFare")
	riyaHotelsSchema = listSchema("hotelResults", false,
		"hotelName", "location", "pricePerNight", "totalPrice")
)

// Riya adapts the Riya Travel partner API. The API key is sent as a bearer
// token and the secret as the partner ID.
type Riya struct {
	client *vendorClient
}

// NewRiya creates a Riya adapter.
func NewRiya(cfg Config, logger *zap.Logger, metrics *obs.Metrics) *Riya {
	return &Riya{
		client: newVendorClient(types.Riya, cfg, riyaEndpoints, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
			"Partner-ID":    cfg.APISecret,
		}, logger, metrics),
	}
}

func (p *Riya) ID() types.ProviderID {
	return types.Riya
}

type riyaFlightRequest struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	TravelDate  string  `json:"travelDate"`
	ReturnDate  *string `json:"returnDate"`
	AdultPax    int     `json:"adultPax"`
	ChildPax    int     `json:"childPax"`
	CabinClass  string  `json:"cabinClass"`
	Currency    string  `json:"currency"`
}

type riyaFlight struct {
	FlightNo          string `json:"flightNo"`
	AirlineName       string `json:"airlineName"`
	DepartureDateTime string `json:"departureDateTime"`
	ArrivalDateTime   string `json:"arrivalDateTime"`
	TotalFare         amount `json:"totalFare"`
	SeatsAvailable    int    `json:"seatsAvailable"`
	Refundable        bool   `json:"refundable"`
	BookingLink       string `json:"bookingLink"`
}

func (p *Riya) SearchFlights(ctx context.Context, criteria types.SearchCriteria) []types.FlightResult {
	const op = "search_flights"

	req := riyaFlightRequest{
		Source:      criteria.FromCity,
		Destination: criteria.ToCity,
		TravelDate:  formatDate(criteria.DepartureDate),
		ReturnDate:  formatOptionalDate(criteria.ReturnDate),
		AdultPax:    criteria.Adults,
		ChildPax:    criteria.Children,
		CabinClass:  criteria.ClassType,
		Currency:    "INR",
	}

	var resp struct {
		FlightResults []json.RawMessage `json:"flightResults"`
	}
	if err := p.client.call(ctx, http.MethodPost, "/flights/search", nil, req, riyaFlightsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.FlightResult{}
	}

	flights, raws, err := decodeEach[riyaFlight](resp.FlightResults)
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
			Provider:       types.Riya,
			FlightNumber:   f.FlightNo,
			Airline:        f.AirlineName,
			DepartureTime:  dep,
			ArrivalTime:    arr,
			Price:          float64(f.TotalFare),
			AvailableSeats: nonNegative(f.SeatsAvailable),
			ClassType:      criteria.ClassType,
			Refundable:     f.Refundable,
			DeepLink:       f.BookingLink,
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

type riyaHotelRequest struct {
	City         string `json:"city"`
	CheckinDate  string `json:"checkinDate"`
	CheckoutDate string `json:"checkoutDate"`
	NoOfRooms    int    `json:"noOfRooms"`
	AdultCount   int    `json:"adultCount"`
	ChildCount   int    `json:"childCount"`
	Currency     string `json:"currency"`
}

type riyaHotel struct {
	HotelName     string   `json:"hotelName"`
	Location      string   `json:"location"`
	PricePerNight amount   `json:"pricePerNight"`
	TotalPrice    amount   `json:"totalPrice"`
	RoomCategory  string   `json:"roomCategory"`
	Amenities     []string `json:"amenities"`
	StarRating    amount   `json:"starRating"`
	BookingLink   string   `json:"bookingLink"`
}

func (p *Riya) SearchHotels(ctx context.Context, criteria types.HotelSearchCriteria) []types.HotelResult {
	const op = "search_hotels"

	req := riyaHotelRequest{
		City:         criteria.City,
		CheckinDate:  formatDate(criteria.CheckIn),
		CheckoutDate: formatDate(criteria.CheckOut),
		NoOfRooms:    criteria.Rooms,
		AdultCount:   criteria.Adults,
		ChildCount:   criteria.Children,
		Currency:     "INR",
	}

	var resp struct {
		HotelResults []json.RawMessage `json:"hotelResults"`
	}
	if err := p.client.call(ctx, http.MethodPost, "/hotels/search", nil, req, riyaHotelsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.HotelResult{}
	}

	hotels, raws, err := decodeEach[riyaHotel](resp.HotelResults)
	if err != nil {
		p.client.fail(op, err)
		return []types.HotelResult{}
	}

	results := make([]types.HotelResult, 0, len(hotels))
	for i, h := range hotels {
		r := types.HotelResult{
			Provider:      types.Riya,
			HotelName:     h.HotelName,
			Location:      h.Location,
			CheckIn:       criteria.CheckIn,
			CheckOut:      criteria.CheckOut,
			PricePerNight: float64(h.PricePerNight),
			TotalPrice:    float64(h.TotalPrice),
			RoomType:      orDefault(h.RoomCategory, "Standard"),
			Amenities:     amenitiesOrEmpty(h.Amenities),
			Rating:        clampRating(float64(h.StarRating)),
			DeepLink:      h.BookingLink,
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

func (p *Riya) GetPriceCalendar(ctx context.Context, fromCity, toCity string) map[string]any {
	q := url.Values{}
	q.Set("source", fromCity)
	q.Set("destination", toCity)
	q.Set("currency", "INR")

	var calendar map[string]any
	if err := p.client.call(ctx, http.MethodGet, "/flights/fare-calendar", q, nil, objectSchema, &calendar); err != nil {
		p.client.fail("price_calendar", err)
		return map[string]any{}
	}
	return calendar
}

func (p *Riya) CheckAvailability(ctx context.Context, bookingID string) bool {
	var resp struct {
		Available bool `json:"available"`
	}
	path := "/bookings/" + url.PathEscape(bookingID) + "/status"
	if err := p.client.call(ctx, http.MethodGet, path, nil, nil, objectSchema, &resp); err != nil {
		p.client.fail("check_availability", err)
		return false
	}
	return resp.Available
}
