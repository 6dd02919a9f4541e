package providers

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/travel/internal/search/types"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: `1250`, want: 1250},
		{in: `1250.75`, want: 1250.75},
		{in: `"1250.75"`, want: 1250.75},
		{in: `" 99 "`, want: 99},
		{in: `null`, want: 0},
		{in: `"n/a"`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var a amount
			err := json.Unmarshal([]byte(tt.in), &a)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, float64(a), 0.0001)
		})
	}
}

func TestParseVendorTime(t *testing.T) {
	want := time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC)

	for _, in := range []string{
		"2025-03-10T06:30:00Z",
		"2025-03-10T06:30:00",
		"2025-03-10T06:30",
		"2025-03-10 06:30:00",
		" 2025-03-10 06:30 ",
		"2025-03-10T06:30:00.000",
		"2025-03-10T06:30:00.000000Z",
		"2025-03-10 06:30:00.5",
	} {
		got, err := parseVendorTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got.Truncate(time.Second)), in)
	}

	_, err := parseVendorTime("10/03/2025")
	assert.Error(t, err)
}

func TestFlightTimes(t *testing.T) {
	_, _, err := flightTimes("2025-03-10T08:00:00", "2025-03-10T08:00:00")
	assert.ErrorIs(t, err, errBadSchedule)

	dep, arr, err := flightTimes("2025-03-10T08:00:00", "2025-03-10T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, arr.Sub(dep))
}

func TestDecodeEach(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}
	raws := []json.RawMessage{
		json.RawMessage(`{"name": "a", "extra": 1}`),
		json.RawMessage(`{"name": "b"}`),
	}

	items, objects, err := decodeEach[item](raws)
	require.NoError(t, err)
	assert.Equal(t, []item{{Name: "a"}, {Name: "b"}}, items)
	assert.Equal(t, float64(1), objects[0]["extra"])

	_, _, err = decodeEach[item]([]json.RawMessage{json.RawMessage(`{"name": 5}`)})
	assert.ErrorContains(t, err, "record 0")
}

func TestCheckHotel(t *testing.T) {
	in := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		hotel   types.HotelResult
		wantErr error
	}{
		{
			name:  "valid stay",
			hotel: types.HotelResult{CheckIn: in, CheckOut: in.AddDate(0, 0, 2), PricePerNight: 100, TotalPrice: 200},
		},
		{
			name:  "same day stay may total below one night",
			hotel: types.HotelResult{CheckIn: in, CheckOut: in, PricePerNight: 100, TotalPrice: 50},
		},
		{
			name:    "total below one night",
			hotel:   types.HotelResult{CheckIn: in, CheckOut: in.AddDate(0, 0, 1), PricePerNight: 100, TotalPrice: 50},
			wantErr: errTotalBelow,
		},
		{
			name:    "negative",
			hotel:   types.HotelResult{CheckIn: in, CheckOut: in.AddDate(0, 0, 1), PricePerNight: -1, TotalPrice: 50},
			wantErr: errNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkHotel(tt.hotel)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeHelpers(t *testing.T) {
	assert.Equal(t, 0.0, clampRating(-1))
	assert.Equal(t, 4.5, clampRating(4.5))
	assert.Equal(t, 5.0, clampRating(9))

	assert.Equal(t, 0, nonNegative(-4))
	assert.Equal(t, 4, nonNegative(4))

	assert.Equal(t, "Standard", orDefault("  ", "Standard"))
	assert.Equal(t, "Suite", orDefault("Suite", "Standard"))

	assert.Equal(t, []string{}, amenitiesOrEmpty(nil))
	assert.Equal(t, []string{"WiFi"}, amenitiesOrEmpty([]string{"WiFi"}))

	assert.ErrorIs(t, checkFlight(types.FlightResult{Price: -1}), errNegative)
	assert.NoError(t, checkFlight(types.FlightResult{Price: 0}))
	assert.ErrorIs(t, checkCab(types.CabResult{TotalPrice: -1}), errNegative)
}

func TestListSchema(t *testing.T) {
	required := listSchema("flights", true, "flightNumber")
	optional := listSchema("Flights", false, "FlightNumber")

	assert.NoError(t, validatePayload(required, []byte(`{"flights": [{"flightNumber": "X"}]}`)))
	assert.NoError(t, validatePayload(required, []byte(`{"flights": null}`)))
	assert.Error(t, validatePayload(required, []byte(`{}`)))
	assert.Error(t, validatePayload(required, []byte(`{"flights": [{}]}`)))
	assert.Error(t, validatePayload(required, []byte(`{"flights": {}}`)))

	assert.NoError(t, validatePayload(optional, []byte(`{}`)))
	assert.Error(t, validatePayload(optional, []byte(`{"Flights": [{"AirlineName": "IndiGo"}]}`)))
}

func TestNonFiniteValues(t *testing.T) {
	in := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 1)

	for _, raw := range []string{`"NaN"`, `"Inf"`, `"+Inf"`, `"-Inf"`} {
		t.Run(raw, func(t *testing.T) {
			var a amount
			require.NoError(t, json.Unmarshal([]byte(raw), &a))
			v := float64(a)

			assert.ErrorIs(t, checkFlight(types.FlightResult{Price: v}), errNotFinite)
			assert.ErrorIs(t, checkHotel(types.HotelResult{CheckIn: in, CheckOut: out, PricePerNight: v, TotalPrice: 100}), errNotFinite)
			assert.ErrorIs(t, checkHotel(types.HotelResult{CheckIn: in, CheckOut: out, PricePerNight: 100, TotalPrice: v}), errNotFinite)
			assert.ErrorIs(t, checkCab(types.CabResult{PricePerKm: v, TotalPrice: 100}), errNotFinite)
			assert.ErrorIs(t, checkCab(types.CabResult{PricePerKm: 10, TotalPrice: v}), errNotFinite)

			r := clampRating(v)
			assert.False(t, math.IsNaN(r))
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 5.0)
		})
	}

	assert.Equal(t, 0.0, clampRating(math.NaN()))
}
