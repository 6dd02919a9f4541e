package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type riya struct{}

func (riya) register(r gin.IRouter) {
	r.Use(func(c *gin.Context) {
		if !strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		c.Next()
	})

	r.POST("/flights/search", func(c *gin.Context) {
		var req struct {
			TravelDate string `json:"travelDate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		results := make([]gin.H, 0, 4)
		for _, f := range flightOffers(parseDay(req.TravelDate), 4, false) {
			results = append(results, gin.H{
				"flightNo":          f.number,
				"airlineName":       f.airline,
				"departureDateTime": f.departure.Format(vendorTimeLayout),
				"arrivalDateTime":   f.arrival.Format(vendorTimeLayout),
				"totalFare":         f.price,
				"seatsAvailable":    f.seats,
				"refundable":        f.refundable,
				"bookingLink":       "https://www.riya.travel/flights/" + f.number,
			})
		}
		c.JSON(http.StatusOK, gin.H{"flightResults": results})
	})

	r.POST("/hotels/search", func(c *gin.Context) {
		var req struct {
			City         string `json:"city"`
			CheckinDate  string `json:"checkinDate"`
			CheckoutDate string `json:"checkoutDate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		n := nights(req.CheckinDate, req.CheckoutDate)
		results := make([]gin.H, 0, len(hotelNames))
		for _, h := range hotelOffers(req.City) {
			results = append(results, gin.H{
				"hotelName":     h.name,
				"location":      h.location,
				"pricePerNight": h.perNight,
				"totalPrice":    h.perNight * float64(n),
				"roomCategory":  h.roomType,
				"amenities":     h.amenities,
				"starRating":    h.rating,
				"bookingLink":   "https://www.riya.travel/hotels/" + h.name,
			})
		}
		c.JSON(http.StatusOK, gin.H{"hotelResults": results})
	})

	r.GET("/flights/fare-calendar", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"source": c.Query("source"), "destination": c.Query("destination"), "fares": fareCalendar(30)})
	})

	r.GET("/bookings/:id/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"bookingRef": c.Param("id"), "available": true})
	})
}
