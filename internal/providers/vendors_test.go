package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/search/types"
)

func hotelCriteria() types.HotelSearchCriteria {
	return types.HotelSearchCriteria{City: "Goa", CheckIn: march10, CheckOut: march12, Rooms: 2, Adults: 3, Children: 1}
}

func TestCleartrip_SearchFlights(t *testing.T) {
	body := `{"itineraries": [
		{"flight_no": "SG-8", "carrier_name": "SpiceJet", "departs_at": "2025-03-10T07:00:00Z",
		 "arrives_at": "2025-03-10T09:00:00Z", "price": {"total": 3999}, "seats_left": 4,
		 "refundable": false, "url": "https://ct.example/SG-8"}
	]}`
	srv, seen := fakeVendor(t, http.StatusOK, body)
	p := NewCleartrip(vendorConfig(srv.URL), zap.NewNop(), nil)

	flights := p.SearchFlights(context.Background(), flightCriteria())

	req := received(t, seen)
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/air/search", req.path)
	assert.Equal(t, "key-123", req.header.Get("X-CT-API-Key"))
	assert.Equal(t, "secret-456", req.header.Get("X-CT-API-Secret"))
	assert.Equal(t, map[string][]string{
		"from":        {"DEL"},
		"to":          {"BOM"},
		"depart_date": {"2025-03-10"},
		"return_date": {"2025-03-12"},
		"adults":      {"2"},
		"children":    {"1"},
		"class":       {"BUSINESS"},
	}, req.query)

	require.Len(t, flights, 1)
	assert.Equal(t, types.Cleartrip, flights[0].Provider)
	assert.Equal(t, "SpiceJet", flights[0].Airline)
	assert.Equal(t, 3999.0, flights[0].Price)
	assert.Equal(t, "BUSINESS", flights[0].ClassType)
	assert.Equal(t, "https://ct.example/SG-8", flights[0].DeepLink)
}

func TestCleartrip_SearchHotels(t *testing.T) {
	body := `{"hotels": [
		{"hotel_name": "Beach Hut", "locality": "Baga", "rate_per_night": "2500", "total_rate": "5000",
		 "amenities": ["Pool"], "user_rating": 4.4, "url": "https://ct.example/hut"}
	]}`
	srv, seen := fakeVendor(t, http.StatusOK, body)
	p := NewCleartrip(vendorConfig(srv.URL), zap.NewNop(), nil)

	hotels := p.SearchHotels(context.Background(), hotelCriteria())

	req := received(t, seen)
	assert.Equal(t, []string{"Goa"}, req.query["city"])
	assert.Equal(t, []string{"2025-03-12"}, req.query["check_out"])
	assert.Equal(t, []string{"2"}, req.query["rooms"])

	require.Len(t, hotels, 1)
	assert.Equal(t, "Baga", hotels[0].Location)
	assert.Equal(t, 2500.0, hotels[0].PricePerNight)
	assert.Equal(t, "Standard", hotels[0].RoomType)
}

func TestCleartrip_CheckAvailability(t *testing.T) {
	srv, seen := fakeVendor(t, http.StatusOK, `{"bookable": true}`)
	p := NewCleartrip(vendorConfig(srv.URL), zap.NewNop(), nil)

	assert.True(t, p.CheckAvailability(context.Background(), "IT-1"))
	assert.Equal(t, "/itineraries/IT-1", received(t, seen).path)
}

func TestEaseMyTrip_SearchFlights(t *testing.T) {
	body := `{"Flights": [
		{"FlightNumber": "AI-1", "AirlineName": "Air India", "DepartureDateTime": "2025-03-10 10:00",
		 "ArrivalDateTime": "2025-03-10 12:30", "TotalFare": "6120.00", "AvailableSeats": 12,
		 "IsRefundable": true, "DeepLink": "https://emt.example/AI-1"},
		{"FlightNumber": "AI-2", "AirlineName": "Air India", "DepartureDateTime": "yesterday",
		 "ArrivalDateTime": "2025-03-10 12:30", "TotalFare": 100}
	]}`
	srv, seen := fakeVendor(t, http.StatusOK, body)
	p := NewEaseMyTrip(vendorConfig(srv.URL), zap.NewNop(), nil)

	flights := p.SearchFlights(context.Background(), flightCriteria())

	req := received(t, seen)
	assert.Equal(t, "/flights/search", req.path)
	assert.Equal(t, "key-123", req.header.Get("X-EMT-Key"))
	assert.Equal(t, "DEL", req.body["Origin"])
	assert.Equal(t, "BOM", req.body["Destination"])
	assert.Equal(t, float64(2), req.body["AdultCount"])
	assert.Equal(t, "INR", req.body["Currency"])
	assert.Equal(t, []any{}, req.body["PreferredAirlines"])

	require.Len(t, flights, 1)
	assert.Equal(t, types.EaseMyTrip, flights[0].Provider)
	assert.Equal(t, 6120.0, flights[0].Price)
	assert.Equal(t, 12, flights[0].AvailableSeats)
}

func TestEaseMyTrip_MissingListIsEmpty(t *testing.T) {
	srv, _ := fakeVendor(t, http.StatusOK, `{"Status": "NO_RESULTS"}`)
	metrics, reg := newTestMetrics()
	p := NewEaseMyTrip(vendorConfig(srv.URL), zap.NewNop(), metrics)

	flights := p.SearchFlights(context.Background(), flightCriteria())

	assert.NotNil(t, flights)
	assert.Empty(t, flights)
	assert.Equal(t, 0, errorSeries(t, reg))
}

func TestEaseMyTrip_SearchHotels(t *testing.T) {
	body := `{"Hotels": [
		{"HotelName": "Palm Grove", "Location": "Candolim", "PricePerNight": 4000, "TotalPrice": 8000,
		 "RoomType": "Suite", "Amenities": ["Spa", "Bar"], "Rating": 4.0, "DeepLink": "https://emt.example/pg"},
		{"HotelName": "Broken", "Location": "Panjim", "PricePerNight": -1, "TotalPrice": 10}
	]}`
	srv, seen := fakeVendor(t, http.StatusOK, body)
	p := NewEaseMyTrip(vendorConfig(srv.URL), zap.NewNop(), nil)

	hotels := p.SearchHotels(context.Background(), hotelCriteria())

	req := received(t, seen)
	assert.Equal(t, "Goa", req.body["CityName"])
	assert.Equal(t, float64(2), req.body["RoomCount"])

	require.Len(t, hotels, 1)
	assert.Equal(t, "Palm Grove", hotels[0].HotelName)
	assert.Equal(t, []string{"Spa", "Bar"}, hotels[0].Amenities)
}

func TestEaseMyTrip_CheckAvailability(t *testing.T) {
	srv, seen := fakeVendor(t, http.StatusOK, `{"IsAvailable": true}`)
	p := NewEaseMyTrip(vendorConfig(srv.URL), zap.NewNop(), nil)

	assert.True(t, p.CheckAvailability(context.Background(), "E1"))
	assert.Equal(t, "/booking/E1/status", received(t, seen).path)
}

func TestIndigo_SearchFlights(t *testing.T) {
	body := `{"flights": [
		{"flightNumber": "6E-5", "departureTime": "2025-03-10T05:00:00+05:30", "arrivalTime": "2025-03-10T07:00:00+05:30",
		 "fareDetails": {"totalFare": 4321, "baseFare": 3900}, "availableSeats": 30, "isRefundable": false,
		 "bookingLink": "https://indigo.example/6E-5"}
	]}`
	srv, seen := fakeVendor(t, http.StatusOK, body)
	p := NewIndigo(vendorConfig(srv.URL), zap.NewNop(), nil)

	flights := p.SearchFlights(context.Background(), flightCriteria())

	req := received(t, seen)
	assert.Equal(t, "/availability/search", req.path)
	assert.Equal(t, "2025-03-10", req.body["date"])
	assert.Equal(t, float64(0), req.body["infantCount"])
	assert.Equal(t, "INR", req.body["currencyCode"])

	require.Len(t, flights, 1)
	assert.Equal(t, "IndiGo", flights[0].Airline)
	assert.Equal(t, 4321.0, flights[0].Price)
	assert.Equal(t, "https://indigo.example/6E-5", flights[0].DeepLink)
}

func TestIndigo_NoHotels(t *testing.T) {
	srv, seen := fakeVendor(t, http.StatusOK, `{}`)
	p := NewIndigo(vendorConfig(srv.URL), zap.NewNop(), nil)

	hotels := p.SearchHotels(context.Background(), hotelCriteria())

	assert.NotNil(t, hotels)
	assert.Empty(t, hotels)
	assert.Empty(t, seen)
}

func TestIndigo_CheckAvailability(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{body: `{"status": "CONFIRMED"}`, want: true},
		{body: `{"status": "CANCELLED"}`, want: false},
		{body: `{}`, want: false},
	}
	for _, tt := range tests {
		srv, seen := fakeVendor(t, http.StatusOK, tt.body)
		p := NewIndigo(vendorConfig(srv.URL), zap.NewNop(), nil)

		assert.Equal(t, tt.want, p.CheckAvailability(context.Background(), "PNR1"), tt.body)
		assert.Equal(t, "/bookings/PNR1", received(t, seen).path)
	}
}

func TestRiya_SearchFlights(t *testing.T) {
	body := `{"flightResults": [
		{"flightNo": "UK-7", "airlineName": "Vistara", "departureDateTime": "2025-03-10T15:00:00",
		 "arrivalDateTime": "2025-03-10T17:20:00", "totalFare": 7000.5, "seatsAvailable": 3,
		 "refundable": true, "bookingLink": "https://riya.example/UK-7"}
	]}`
	srv, seen := fakeVendor(t, http.StatusOK, body)
	p := NewRiya(vendorConfig(srv.URL), zap.NewNop(), nil)

	flights := p.SearchFlights(context.Background(), flightCriteria())

	req := received(t, seen)
	assert.Equal(t, "Bearer key-123", req.header.Get("Authorization"))
	assert.Equal(t, "secret-456", req.header.Get("Partner-ID"))
	assert.Equal(t, "DEL", req.body["source"])
	assert.Equal(t, float64(2), req.body["adultPax"])

	require.Len(t, flights, 1)
	assert.Equal(t, types.Riya, flights[0].Provider)
	assert.Equal(t, 7000.5, flights[0].Price)
	assert.Equal(t, 3, flights[0].AvailableSeats)
}

func TestRiya_SearchHotels(t *testing.T) {
	body := `{"hotelResults": [
		{"hotelName": "Fort Inn", "location": "Fontainhas", "pricePerNight": 1800, "totalPrice": 3600,
		 "roomCategory": "Heritage", "starRating": 3}
	]}`
	srv, seen := fakeVendor(t, http.StatusOK, body)
	p := NewRiya(vendorConfig(srv.URL), zap.NewNop(), nil)

	hotels := p.SearchHotels(context.Background(), hotelCriteria())

	req := received(t, seen)
	assert.Equal(t, "2025-03-10", req.body["checkinDate"])
	assert.Equal(t, float64(2), req.body["noOfRooms"])

	require.Len(t, hotels, 1)
	assert.Equal(t, "Heritage", hotels[0].RoomType)
	assert.Equal(t, 3.0, hotels[0].Rating)
	assert.Equal(t, []string{}, hotels[0].Amenities)
}

func TestRiya_PriceCalendar(t *testing.T) {
	srv, seen := fakeVendor(t, http.StatusOK, `{"fares": {"2025-03-10": 5100}}`)
	p := NewRiya(vendorConfig(srv.URL), zap.NewNop(), nil)

	cal := p.GetPriceCalendar(context.Background(), "DEL", "GOI")

	req := received(t, seen)
	assert.Equal(t, "/flights/fare-calendar", req.path)
	assert.Equal(t, []string{"GOI"}, req.query["destination"])
	assert.Equal(t, map[string]any{"fares": map[string]any{"2025-03-10": float64(5100)}}, cal)
}

type fakeDistancer struct {
	km  float64
	err error
}

func (d fakeDistancer) DrivingDistanceKm(context.Context, string, string) (float64, error) {
	return d.km, d.err
}

func TestSavaari_SearchCabs(t *testing.T) {
	body := `{"cabs": [
		{"carType": "SEDAN", "carName": "Toyota Etios", "perKmRate": 13, "totalFare": 1950,
		 "isAvailable": true, "rating": 4.3, "bookingUrl": "https://savaari.example/sedan"},
		{"carType": "SUV", "carName": "Innova", "perKmRate": -18, "totalFare": 2700},
		{"carType": "MUV", "carName": "Ertiga", "perKmRate": 15, "totalFare": "NaN"}
	]}`
	drop := march12.Add(18 * time.Hour)

	tests := []struct {
		name        string
		criteria    types.CabSearchCriteria
		wantCarType []string
		wantDrop    []string
	}{
		{
			name:     "all cab types",
			criteria: types.CabSearchCriteria{City: "Pune", PickupDate: march10.Add(9 * time.Hour), CabType: "ALL"},
		},
		{
			name:        "specific type with drop",
			criteria:    types.CabSearchCriteria{City: "Pune", PickupDate: march10.Add(9 * time.Hour), DropDate: &drop, CabType: "SEDAN"},
			wantCarType: []string{"SEDAN"},
			wantDrop:    []string{"2025-03-12 18:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := fakeVendor(t, http.StatusOK, body)
			p := NewSavaari(vendorConfig(srv.URL), nil, zap.NewNop(), nil)

			cabs := p.SearchCabs(context.Background(), tt.criteria)

			req := received(t, seen)
			assert.Equal(t, "/cabs/availability", req.path)
			assert.Equal(t, "key-123", req.header.Get("X-Savaari-Key"))
			assert.Equal(t, []string{"Pune"}, req.query["city"])
			assert.Equal(t, []string{"2025-03-10 09:00"}, req.query["pickupDateTime"])
			assert.Equal(t, tt.wantCarType, req.query["carType"])
			assert.Equal(t, tt.wantDrop, req.query["dropDateTime"])

			require.Len(t, cabs, 1)
			assert.Equal(t, types.Savaari, cabs[0].Provider)
			assert.Equal(t, "Toyota Etios", cabs[0].VehicleModel)
			assert.Equal(t, 1950.0, cabs[0].TotalPrice)
			assert.True(t, cabs[0].Available)
		})
	}
}

func TestSavaari_FareEstimate(t *testing.T) {
	tests := []struct {
		name      string
		distancer Distancer
		body      string
		wantKm    []string
		want      float64
	}{
		{name: "without distance", body: `{"estimatedFare": 2100}`, want: 2100},
		{name: "with distance", distancer: fakeDistancer{km: 152.34}, body: `{"estimatedFare": "1980.5"}`, wantKm: []string{"152.3"}, want: 1980.5},
		{name: "distance lookup fails", distancer: fakeDistancer{err: errors.New("quota")}, body: `{"estimatedFare": 2100}`, want: 2100},
		{name: "negative fare", body: `{"estimatedFare": -5}`, want: 0},
		{name: "nan fare", body: `{"estimatedFare": "NaN"}`, want: 0},
		{name: "infinite fare", body: `{"estimatedFare": "Inf"}`, want: 0},
		{name: "missing fare", body: `{"fare": 10}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := fakeVendor(t, http.StatusOK, tt.body)
			p := NewSavaari(vendorConfig(srv.URL), tt.distancer, zap.NewNop(), nil)

			assert.Equal(t, tt.want, p.GetFareEstimate(context.Background(), "Pune", "Mumbai"))

			req := received(t, seen)
			assert.Equal(t, "/fare/estimate", req.path)
			assert.Equal(t, []string{"Pune"}, req.query["source"])
			assert.Equal(t, tt.wantKm, req.query["distanceKm"])
		})
	}
}

func TestSavaari_FareEstimateFailure(t *testing.T) {
	srv, _ := fakeVendor(t, http.StatusBadGateway, `upstream down`)
	metrics, reg := newTestMetrics()
	p := NewSavaari(vendorConfig(srv.URL), nil, zap.NewNop(), metrics)

	assert.Equal(t, 0.0, p.GetFareEstimate(context.Background(), "Pune", "Mumbai"))
	assert.Equal(t, 1, errorSeries(t, reg))
}

// blockingDistancer never answers before its context is done.
type blockingDistancer struct{}

func (blockingDistancer) DrivingDistanceKm(ctx context.Context, _, _ string) (float64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func TestSavaari_FareEstimateBoundedByTimeout(t *testing.T) {
	srv, _ := fakeVendor(t, http.StatusOK, `{"estimatedFare": 2100}`)
	cfg := vendorConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	p := NewSavaari(cfg, blockingDistancer{}, zap.NewNop(), nil)

	done := make(chan float64, 1)
	go func() {
		done <- p.GetFareEstimate(context.Background(), "Pune", "Mumbai")
	}()

	select {
	case fare := <-done:
		assert.Equal(t, 0.0, fare)
	case <-time.After(2 * time.Second):
		t.Fatal("fare estimate did not honour the adapter timeout")
	}
}
