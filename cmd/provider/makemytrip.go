package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type makeMyTrip struct{}

func (makeMyTrip) register(r gin.IRouter) {
	r.POST("/flights/search", func(c *gin.Context) {
		var req struct {
			FromCity      string `json:"fromCity"`
			ToCity        string `json:"toCity"`
			DepartureDate string `json:"departureDate"`
			ClassType     string `json:"classType"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if req.FromCity == "" || req.ToCity == "" {
			badRequest(c, errors.New("fromCity and toCity are required"))
			return
		}

		flights := make([]gin.H, 0, 4)
		for _, f := range flightOffers(parseDay(req.DepartureDate), 4, false) {
			flights = append(flights, gin.H{
				"flightNumber":   f.number,
				"airlineName":    f.airline,
				"departureTime":  f.departure.Format(vendorTimeLayout),
				"arrivalTime":    f.arrival.Format(vendorTimeLayout),
				"fare":           gin.H{"totalAmount": f.price, "currency": "INR"},
				"availableSeats": f.seats,
				"cabinClass":     req.ClassType,
				"isRefundable":   f.refundable,
				"deepLink":       "https://www.makemytrip.com/flight/" + f.number,
			})
		}
		c.JSON(http.StatusOK, gin.H{"flights": flights})
	})

	r.POST("/hotels/search", func(c *gin.Context) {
		var req struct {
			City     string `json:"city"`
			CheckIn  string `json:"checkIn"`
			CheckOut string `json:"checkOut"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		n := nights(req.CheckIn, req.CheckOut)
		hotels := make([]gin.H, 0, len(hotelNames))
		for _, h := range hotelOffers(req.City) {
			hotels = append(hotels, gin.H{
				"name":          h.name,
				"location":      h.location,
				"pricePerNight": h.perNight,
				"totalPrice":    h.perNight * float64(n),
				"roomType":      h.roomType,
				"amenities":     h.amenities,
				"rating":        h.rating,
				"deepLink":      "https://www.makemytrip.com/hotels/" + h.name,
			})
		}
		c.JSON(http.StatusOK, gin.H{"hotels": hotels})
	})

	r.GET("/flights/calendar", func(c *gin.Context) {
		c.JSON(http.StatusOK, fareCalendar(90))
	})

	r.GET("/booking/:id/availability", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"bookingId": c.Param("id"), "available": true})
	})
}
