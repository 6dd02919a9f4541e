package handler

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alex-user-go/travel/internal/search/types"
)

func requiredString(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(name, v string) (time.Time, error) {
	if t, err := time.Parse(types.DateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD or RFC 3339 format", name)
}

func requiredDate(c *gin.Context, name string) (time.Time, error) {
	v, err := requiredString(c, name)
	if err != nil {
		return time.Time{}, err
	}
	return parseDate(name, v)
}

func optionalDate(c *gin.Context, name string) (*time.Time, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(name, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optionalInt returns 0 for a missing value so WithDefaults can fill it.
func optionalInt(c *gin.Context, name string) (int, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// ParseFlightParams parses and validates flight search parameters.
func ParseFlightParams(c *gin.Context) (types.SearchCriteria, error) {
	var (
		criteria types.SearchCriteria
		err      error
	)

	if criteria.FromCity, err = requiredString(c, "from_city"); err != nil {
		return criteria, err
	}
	if criteria.ToCity, err = requiredString(c, "to_city"); err != nil {
		return criteria, err
	}
	if criteria.DepartureDate, err = requiredDate(c, "departure_date"); err != nil {
		return criteria, err
	}
	if criteria.ReturnDate, err = optionalDate(c, "return_date"); err != nil {
		return criteria, err
	}
	if criteria.Adults, err = optionalInt(c, "adults"); err != nil {
		return criteria, err
	}
	if criteria.Children, err = optionalInt(c, "children"); err != nil {
		return criteria, err
	}
	if c.Query("adults") != "" && criteria.Adults < 1 {
		return criteria, fmt.Errorf("adults must be at least 1")
	}
	criteria.ClassType = strings.ToUpper(strings.TrimSpace(c.Query("class_type")))

	criteria = criteria.WithDefaults()
	return criteria, criteria.Validate()
}

// ParseHotelParams parses and validates hotel search parameters.
func ParseHotelParams(c *gin.Context) (types.HotelSearchCriteria, error) {
	var (
		criteria types.HotelSearchCriteria
		err      error
	)

	if criteria.City, err = requiredString(c, "city"); err != nil {
		return criteria, err
	}
	if criteria.CheckIn, err = requiredDate(c, "check_in"); err != nil {
		return criteria, err
	}
	if criteria.CheckOut, err = requiredDate(c, "check_out"); err != nil {
		return criteria, err
	}
	if criteria.Rooms, err = optionalInt(c, "rooms"); err != nil {
		return criteria, err
	}
	if criteria.Adults, err = optionalInt(c, "adults"); err != nil {
		return criteria, err
	}
	if criteria.Children, err = optionalInt(c, "children"); err != nil {
		return criteria, err
	}
	if c.Query("rooms") != "" && criteria.Rooms < 1 {
		return criteria, fmt.Errorf("rooms must be at least 1")
	}
	if c.Query("adults") != "" && criteria.Adults < 1 {
		return criteria, fmt.Errorf("adults must be at least 1")
	}

	criteria = criteria.WithDefaults()
	return criteria, criteria.Validate()
}

// ParseCabParams parses and validates cab search parameters.
func ParseCabParams(c *gin.Context) (types.CabSearchCriteria, error) {
	var (
		criteria types.CabSearchCriteria
		err      error
	)

	if criteria.City, err = requiredString(c, "city"); err != nil {
		return criteria, err
	}
	if criteria.PickupDate, err = requiredDate(c, "pickup_date"); err != nil {
		return criteria, err
	}
	if criteria.DropDate, err = optionalDate(c, "drop_date"); err != nil {
		return criteria, err
	}
	criteria.CabType = strings.ToUpper(strings.TrimSpace(c.Query("cab_type")))

	criteria = criteria.WithDefaults()
	return criteria, criteria.Validate()
}

// DealsParams holds validated best-deals parameters.
type DealsParams struct {
	FromCity      string     `json:"from_city"`
	ToCity        string     `json:"to_city"`
	DepartureDate time.Time  `json:"departure_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
}

// ParseDealsParams parses and validates best-deals parameters.
func ParseDealsParams(c *gin.Context) (DealsParams, error) {
	var (
		p   DealsParams
		err error
	)

	if p.FromCity, err = requiredString(c, "from_city"); err != nil {
		return p, err
	}
	if p.ToCity, err = requiredString(c, "to_city"); err != nil {
		return p, err
	}
	if p.DepartureDate, err = requiredDate(c, "departure_date"); err != nil {
		return p, err
	}
	if p.ReturnDate, err = optionalDate(c, "return_date"); err != nil {
		return p, err
	}
	if p.ReturnDate != nil && p.ReturnDate.Before(p.DepartureDate) {
		return p, fmt.Errorf("return_date must not be before departure_date")
	}
	return p, nil
}

// RouteParams holds an origin/destination pair.
type RouteParams struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func parseRoute(c *gin.Context, fromName, toName string) (RouteParams, error) {
	var (
		p   RouteParams
		err error
	)
	if p.From, err = requiredString(c, fromName); err != nil {
		return p, err
	}
	if p.To, err = requiredString(c, toName); err != nil {
		return p, err
	}
	return p, nil
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
