package main

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// simulator injects latency and failures in front of a mock vendor.
type simulator struct {
	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
}

func (s simulator) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.maxLatency > 0 {
			latency := s.minLatency
			if spread := s.maxLatency - s.minLatency; spread > 0 {
				latency += time.Duration(rand.Int64N(int64(spread)))
			}
			select {
			case <-time.After(latency):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}

		if rand.Float64() < s.failureRate {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "provider unavailable"})
			return
		}
		c.Next()
	}
}

type flightOffer struct {
	number     string
	airline    string
	departure  time.Time
	arrival    time.Time
	price      float64
	seats      int
	refundable bool
}

type hotelOffer struct {
	name      string
	location  string
	perNight  float64
	rating    float64
	roomType  string
	amenities []string
}

var airlines = []struct {
	code string
	name string
}{
	{"6E", "IndiGo"},
	{"AI", "Air India"},
	{"UK", "Vistara"},
	{"SG", "SpiceJet"},
}

var hotelNames = []string{"Grand Residency", "Sea View Inn", "Heritage Palace", "Budget Stay"}

func randomPrice(min, max float64) float64 {
	price := min + rand.Float64()*(max-min)
	return float64(int(price*100)) / 100
}

// flightOffers generates count departures on day. indigoOnly restricts
// them to the first carrier.
func flightOffers(day time.Time, count int, indigoOnly bool) []flightOffer {
	offers := make([]flightOffer, 0, count)
	for i := 0; i < count; i++ {
		a := airlines[i%len(airlines)]
		if indigoOnly {
			a = airlines[0]
		}
		dep := day.Add(time.Duration(6+3*i) * time.Hour)
		offers = append(offers, flightOffer{
			number:     fmt.Sprintf("%s-%d", a.code, 100+rand.IntN(900)),
			airline:    a.name,
			departure:  dep,
			arrival:    dep.Add(time.Duration(90+rand.IntN(120)) * time.Minute),
			price:      randomPrice(2500, 12000),
			seats:      rand.IntN(40),
			refundable: rand.IntN(2) == 0,
		})
	}
	return offers
}

func hotelOffers(city string) []hotelOffer {
	offers := make([]hotelOffer, 0, len(hotelNames))
	for i, name := range hotelNames {
		offers = append(offers, hotelOffer{
			name:      name,
			location:  strings.TrimSpace(city),
			perNight:  randomPrice(1500+float64(i)*1000, 4000+float64(i)*2000),
			rating:    float64(30+rand.IntN(21)) / 10,
			roomType:  []string{"Standard", "Deluxe", "Suite"}[i%3],
			amenities: []string{"WiFi", "Breakfast", "Pool"}[:1+i%3],
		})
	}
	return offers
}

// nights counts stay nights, treating a same-day stay as one night.
func nights(checkIn, checkOut string) int {
	in, err1 := time.Parse(time.DateOnly, checkIn)
	out, err2 := time.Parse(time.DateOnly, checkOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	n := int(out.Sub(in).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

func parseDay(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	return t
}

// fareCalendar returns the cheapest fare per day for the next days.
func fareCalendar(days int) map[string]any {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	cal := make(map[string]any, days)
	for i := 0; i < days; i++ {
		cal[start.AddDate(0, 0, i).Format(time.DateOnly)] = randomPrice(2500, 9000)
	}
	return cal
}

func formatFare(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

const vendorTimeLayout = "2006-01-02T15:04:05"

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}
