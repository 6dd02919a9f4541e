package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cleartrip struct{}

func (cleartrip) register(r gin.IRouter) {
	r.GET("/air/search", func(c *gin.Context) {
		itineraries := make([]gin.H, 0, 3)
		for _, f := range flightOffers(parseDay(c.Query("depart_date")), 3, false) {
			itineraries = append(itineraries, gin.H{
				"flight_no":    f.number,
				"carrier_name": f.airline,
				"departs_at":   f.departure.Format(vendorTimeLayout),
				"arrives_at":   f.arrival.Format(vendorTimeLayout),
				"price":        gin.H{"total": f.price, "currency": "INR"},
				"seats_left":   f.seats,
				"refundable":   f.refundable,
				"url":          "https://www.cleartrip.com/flights/" + f.number,
			})
		}
		c.JSON(http.StatusOK, gin.H{"itineraries": itineraries})
	})

	r.GET("/hotels/search", func(c *gin.Context) {
		n := nights(c.Query("check_in"), c.Query("check_out"))
		hotels := make([]gin.H, 0, len(hotelNames))
		for _, h := range hotelOffers(c.Query("city")) {
			hotels = append(hotels, gin.H{
				"hotel_name":     h.name,
				"locality":       h.location,
				"rate_per_night": h.perNight,
				"total_rate":     h.perNight * float64(n),
				"room_type":      h.roomType,
				"amenities":      h.amenities,
				"user_rating":    h.rating,
				"url":            "https://www.cleartrip.com/hotels/" + h.name,
			})
		}
		c.JSON(http.StatusOK, gin.H{"hotels": hotels})
	})

	r.GET("/air/calendar", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"route": c.Query("from") + "-" + c.Query("to"), "fares": fareCalendar(30)})
	})

	r.GET("/itineraries/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "bookable": true})
	})
}
