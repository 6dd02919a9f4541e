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

const indigoAirline = "IndiGo"

var indigoEndpoints = endpoints{
	production: "https://api.goindigo.in/api/v1",
	sandbox:    "https://sandbox-api.goindigo.in/api/v1",
}

var indigoFlightsSchema = listSchema("flights", false,
	"flightNumber", "departureTime", "arrivalTime", "fareDetails")

// Indigo is the IndiGo airline API adapter. It sells flights only.
type Indigo struct {
	client *vendorClient
}

// NewIndigo creates an IndiGo adapter.
func NewIndigo(cfg Config, logger *zap.Logger, metrics *obs.Metrics) *Indigo {
	return &Indigo{
		client: newVendorClient(types.Indigo, cfg, indigoEndpoints, map[string]string{
			"X-API-Key":    cfg.APIKey,
			"X-API-Secret": cfg.APISecret,
		}, logger, metrics),
	}
}

func (p *Indigo) ID() types.ProviderID {
	return types.Indigo
}

type indigoSearchRequest struct {
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Date         string  `json:"date"`
	ReturnDate   *string `json:"returnDate"`
	Adults       int     `json:"adults"`
	Children     int     `json:"children"`
	InfantCount  int     `json:"infantCount"`
	CabinClass   string  `json:"cabinClass"`
	CurrencyCode string  `json:"currencyCode"`
}

type indigoFare struct {
	TotalFare amount `json:"totalFare"`
}

type indigoFlight struct {
	FlightNumber   string     `json:"flightNumber"`
	DepartureTime  string     `json:"departureTime"`
	ArrivalTime    string     `json:"arrivalTime"`
	FareDetails    indigoFare `json:"fareDetails"`
	AvailableSeats int        `json:"availableSeats"`
	IsRefundable   bool       `json:"isRefundable"`
	BookingLink    string     `json:"bookingLink"`
}

func (p *Indigo) SearchFlights(ctx context.Context, criteria types.SearchCriteria) []types.FlightResult {
	const op = "search_flights"

	req := indigoSearchRequest{
		Origin:       criteria.FromCity,
		Destination:  criteria.ToCity,
		Date:         formatDate(criteria.DepartureDate),
		ReturnDate:   formatOptionalDate(criteria.ReturnDate),
		Adults:       criteria.Adults,
		Children:     criteria.Children,
		CabinClass:   criteria.ClassType,
		CurrencyCode: "INR",
	}

	var resp struct {
		Flights []json.RawMessage `json:"flights"`
	}
	if err := p.client.call(ctx, http.MethodPost, "/availability/search", nil, req, indigoFlightsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.FlightResult{}
	}

	flights, raws, err := decodeEach[indigoFlight](resp.Flights)
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
			Provider:       types.Indigo,
			FlightNumber:   f.FlightNumber,
			Airline:        indigoAirline,
			DepartureTime:  dep,
			ArrivalTime:    arr,
			Price:          float64(f.FareDetails.TotalFare),
			AvailableSeats: nonNegative(f.AvailableSeats),
			ClassType:      criteria.ClassType,
			Refundable:     f.IsRefundable,
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

// SearchHotels always returns an empty list; IndiGo has no hotel inventory.
func (p *Indigo) SearchHotels(context.Context, types.HotelSearchCriteria) []types.HotelResult {
	return []types.HotelResult{}
}

func (p *Indigo) GetPriceCalendar(ctx context.Context, fromCity, toCity string) map[string]any {
	q := url.Values{}
	q.Set("origin", fromCity)
	q.Set("destination", toCity)
	q.Set("currency", "INR")

	var calendar map[string]any
	if err := p.client.call(ctx, http.MethodGet, "/fare-calendar", q, nil, objectSchema, &calendar); err != nil {
		p.client.fail("price_calendar", err)
		return map[string]any{}
	}
	return calendar
}

// CheckAvailability treats a CONFIRMED booking as available.
func (p *Indigo) CheckAvailability(ctx context.Context, bookingID string) bool {
	var resp struct {
		Status string `json:"status"`
	}
	if err := p.client.call(ctx, http.MethodGet, "/bookings/"+url.PathEscape(bookingID), nil, nil, objectSchema, &resp); err != nil {
		p.client.fail("check_availability", err)
		return false
	}
	return resp.Status == "CONFIRMED"
}
