package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alex-user-go/travel/internal/search/types"
)

// amount accepts a JSON number or a numeric string.
type amount float64

func (a *amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", s, err)
		}
		*a = amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = amount(f)
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseVendorTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// decodeEach unmarshals every element of raws into T and keeps the
// untouched vendor object next to it for provider_data.
func decodeEach[T any](raws []json.RawMessage) ([]T, []map[string]any, error) {
	items := make([]T, 0, len(raws))
	objects := make([]map[string]any, 0, len(raws))
	for i, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, item)
		objects = append(objects, obj)
	}
	return items, objects, nil
}

var (
	errBadSchedule = errors.New("arrival is not after departure")
	errNegative    = errors.New("negative price")
	errNotFinite   = errors.New("price is not a finite number")
	errTotalBelow  = errors.New("total price below nightly price")
)

// flightTimes parses and checks a departure/arrival pair.
func flightTimes(departure, arrival string) (time.Time, time.Time, error) {
	dep, err := parseVendorTime(departure)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	arr, err := parseVendorTime(arrival)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !arr.After(dep) {
		return time.Time{}, time.Time{}, errBadSchedule
	}
	return dep, arr, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func checkFlight(f types.FlightResult) error {
	if !finite(f.Price) {
		return errNotFinite
	}
	if f.Price < 0 {
		return errNegative
	}
	return nil
}

func checkHotel(h types.HotelResult) error {
	if !finite(h.PricePerNight, h.TotalPrice) {
		return errNotFinite
	}
	if h.PricePerNight < 0 || h.TotalPrice < 0 {
		return errNegative
	}
	if h.CheckOut.Sub(h.CheckIn) >= 24*time.Hour && h.TotalPrice < h.PricePerNight {
		return errTotalBelow
	}
	return nil
}

func checkCab(c types.CabResult) error {
	if !finite(c.PricePerKm, c.TotalPrice) {
		return errNotFinite
	}
	if c.PricePerKm < 0 || c.TotalPrice < 0 {
		return errNegative
	}
	return nil
}

// clampRating keeps a rating within 0..5; NaN becomes 0.
func clampRating(r float64) float64 {
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 5:
		return 5
	default:
		return r
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func amenitiesOrEmpty(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}
