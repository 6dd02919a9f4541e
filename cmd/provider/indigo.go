package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type indigo struct{}

func (indigo) register(r gin.IRouter) {
	r.POST("/availability/search", func(c *gin.Context) {
		var req struct {
			Date string `json:"date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		flights := make([]gin.H, 0, 3)
		for _, f := range flightOffers(parseDay(req.Date), 3, true) {
			flights = append(flights, gin.H{
				"flightNumber":   f.number,
				"departureTime":  f.departure.Format(vendorTimeLayout),
				"arrivalTime":    f.arrival.Format(vendorTimeLayout),
				"fareDetails":    gin.H{"totalFare": f.price, "baseFare": f.price * 0.82},
				"availableSeats": f.seats,
				"isRefundable":   f.refundable,
				"bookingLink":    "https://www.goindigo.in/book/" + f.number,
			})
		}
		c.JSON(http.StatusOK, gin.H{"flights": flights})
	})

	r.GET("/fare-calendar", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"currencyCode": "INR", "lowestFares": fareCalendar(30)})
	})

	r.GET("/bookings/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"recordLocator": c.Param("id"), "status": "CONFIRMED"})
	})
}
