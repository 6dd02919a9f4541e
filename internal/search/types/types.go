package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ProviderID identifies the vendor that produced a result.
type ProviderID string

// Flight/hotel vendors.
const (
	MakeMyTrip ProviderID = "makemytrip"
	Cleartrip  ProviderID = "cleartrip"
	EaseMyTrip ProviderID = "easemytrip"
	Indigo     ProviderID = "indigo"
	Riya       ProviderID = "riya"
)

// Cab-only vendors.
const (
	Savaari ProviderID = "savaari"
)

// TravelProviderIDs lists the flight/hotel vendors in registry order.
func TravelProviderIDs() []ProviderID {
	return []ProviderID{MakeMyTrip, Cleartrip, EaseMyTrip, Indigo, Riya}
}

// CabProviderIDs lists the cab vendors in registry order.
func CabProviderIDs() []ProviderID {
	return []ProviderID{Savaari}
}

const (
	DefaultClassType   = "ECONOMY"
	DefaultCabType     = "ALL"
	DefaultFlightAdult = 1
	DefaultHotelAdults = 2
	DefaultRooms       = 1

	// DateLayout is the day format used on the wire by every vendor.
	DateLayout = "2006-01-02"
)

// ErrInvalidCriteria is wrapped by every Validate error.
var ErrInvalidCriteria = errors.New("invalid search criteria")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCriteria, fmt.Sprintf(format, args...))
}

// SearchCriteria describes a flight search.
type SearchCriteria struct {
	FromCity      string     `json:"from_city"`
	ToCity        string     `json:"to_city"`
	DepartureDate time.Time  `json:"departure_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Adults        int        `json:"adults"`
	Children      int        `json:"children"`
	ClassType     string     `json:"class_type"`
}

// WithDefaults fills zero-valued optional fields.
func (c SearchCriteria) WithDefaults() SearchCriteria {
	if c.Adults == 0 {
		c.Adults = DefaultFlightAdult
	}
	if strings.TrimSpace(c.ClassType) == "" {
		c.ClassType = DefaultClassType
	}
	return c
}

// Validate checks the criteria invariants.
func (c SearchCriteria) Validate() error {
	if strings.TrimSpace(c.FromCity) == "" {
		return invalid("from_city is required")
	}
	if strings.TrimSpace(c.ToCity) == "" {
		return invalid("to_city is required")
	}
	if c.DepartureDate.IsZero() {
		return invalid("departure_date is required")
	}
	if c.ReturnDate != nil && c.ReturnDate.Before(c.DepartureDate) {
		return invalid("return_date must not be before departure_date")
	}
	if c.Adults < 1 {
		return invalid("adults must be at least 1")
	}
	if c.Children < 0 {
		return invalid("children must not be negative")
	}
	return nil
}

// HotelSearchCriteria describes a hotel search.
type HotelSearchCriteria struct {
	City     string    `json:"city"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Rooms    int       `json:"rooms"`
	Adults   int       `json:"adults"`
	Children int       `json:"children"`
}

// WithDefaults fills zero-valued optional fields.
func (c HotelSearchCriteria) WithDefaults() HotelSearchCriteria {
	if c.Rooms == 0 {
		c.Rooms = DefaultRooms
	}
	if c.Adults == 0 {
		c.Adults = DefaultHotelAdults
	}
	return c
}

// Validate checks the criteria invariants.
func (c HotelSearchCriteria) Validate() error {
	if strings.TrimSpace(c.City) == "" {
		return invalid("city is required")
	}
	if c.CheckIn.IsZero() {
		return invalid("check_in is required")
	}
	if c.CheckOut.IsZero() {
		return invalid("check_out is required")
	}
	if !c.CheckOut.After(c.CheckIn) {
		return invalid("check_out must be after check_in")
	}
	if c.Rooms < 1 {
		return invalid("rooms must be at least 1")
	}
	if c.Adults < 1 {
		return invalid("adults must be at least 1")
	}
	if c.Children < 0 {
		return invalid("children must not be negative")
	}
	return nil
}

// Nights returns the number of nights between check-in and check-out.
func (c HotelSearchCriteria) Nights() int {
	return int(c.CheckOut.Sub(c.CheckIn).Hours() / 24)
}

// CabSearchCriteria describes a cab search.
type CabSearchCriteria struct {
	City       string     `json:"city"`
	PickupDate time.Time  `json:"pickup_date"`
	DropDate   *time.Time `json:"drop_date,omitempty"`
	CabType    string     `json:"cab_type"`
}

// WithDefaults fills zero-valued optional fields.
func (c CabSearchCriteria) WithDefaults() CabSearchCriteria {
	if strings.TrimSpace(c.CabType) == "" {
		c.CabType = DefaultCabType
	}
	return c
}

// Validate checks the criteria invariants.
func (c CabSearchCriteria) Validate() error {
	if strings.TrimSpace(c.City) == "" {
		return invalid("city is required")
	}
	if c.PickupDate.IsZero() {
		return invalid("pickup_date is required")
	}
	if c.DropDate != nil && c.DropDate.Before(c.PickupDate) {
		return invalid("drop_date must not be before pickup_date")
	}
	return nil
}

// FlightResult is a canonical flight offer.
type FlightResult struct {
	Provider       ProviderID     `json:"provider"`
	FlightNumber   string         `json:"flight_number"`
	Airline        string         `json:"airline"`
	DepartureTime  time.Time      `json:"departure_time"`
	ArrivalTime    time.Time      `json:"arrival_time"`
	Price          float64        `json:"price"`
	AvailableSeats int            `json:"available_seats"`
	ClassType      string         `json:"class_type"`
	Refundable     bool           `json:"refundable"`
	DeepLink       string         `json:"deep_link"`
	ProviderData   map[string]any `json:"provider_data,omitempty"`
}

// HotelResult is a canonical hotel offer.
type HotelResult struct {
	Provider      ProviderID     `json:"provider"`
	HotelName     string         `json:"hotel_name"`
	Location      string         `json:"location"`
	CheckIn       time.Time      `json:"check_in"`
	CheckOut      time.Time      `json:"check_out"`
	PricePerNight float64        `json:"price_per_night"`
	TotalPrice    float64        `json:"total_price"`
	RoomType      string         `json:"room_type"`
	Amenities     []string       `json:"amenities"`
	Rating        float64        `json:"rating"`
	DeepLink      string         `json:"deep_link"`
	ProviderData  map[string]any `json:"provider_data,omitempty"`
}

// CabResult is a canonical cab offer.
type CabResult struct {
	Provider     ProviderID     `json:"provider"`
	CabType      string         `json:"cab_type"`
	VehicleModel string         `json:"vehicle_model"`
	PricePerKm   float64        `json:"price_per_km"`
	TotalPrice   float64        `json:"total_price"`
	Available    bool           `json:"available"`
	Rating       float64        `json:"rating"`
	DeepLink     string         `json:"deep_link"`
	ProviderData map[string]any `json:"provider_data,omitempty"`
}

// BestDeals bundles the cheapest offers per category.
type BestDeals struct {
	Flights []FlightResult `json:"flights"`
	Hotels  []HotelResult  `json:"hotels"`
	Cabs    []CabResult    `json:"cabs"`
}
