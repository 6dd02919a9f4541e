package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type easeMyTrip struct{}

func (easeMyTrip) register(r gin.IRouter) {
	r.POST("/flights/search", func(c *gin.Context) {
		var req struct {
			DepartureDate string `json:"DepartureDate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		flights := make([]gin.H, 0, 3)
		for _, f := range flightOffers(parseDay(req.DepartureDate), 3, false) {
			flights = append(flights, gin.H{
				"FlightNumber":      f.number,
				"AirlineName":       f.airline,
				"DepartureDateTime": f.departure.Format(vendorTimeLayout),
				"ArrivalDateTime":   f.arrival.Format(vendorTimeLayout),
				// EaseMyTrip quotes fares as strings.
				"TotalFare":      formatFare(f.price),
				"AvailableSeats": f.seats,
				"IsRefundable":   f.refundable,
				"DeepLink":       "https://flight.easemytrip.com/" + f.number,
			})
		}
		c.JSON(http.StatusOK, gin.H{"Flights": flights})
	})

	r.POST("/hotels/search", func(c *gin.Context) {
		var req struct {
			CityName     string `json:"CityName"`
			CheckInDate  string `json:"CheckInDate"`
			CheckOutDate string `json:"CheckOutDate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		n := nights(req.CheckInDate, req.CheckOutDate)
		hotels := make([]gin.H, 0, len(hotelNames))
		for _, h := range hotelOffers(req.CityName) {
			hotels = append(hotels, gin.H{
				"HotelName":     h.name,
				"Location":      h.location,
				"PricePerNight": h.perNight,
				"TotalPrice":    h.perNight * float64(n),
				"RoomType":      h.roomType,
				"Amenities":     h.amenities,
				"Rating":        h.rating,
				"DeepLink":      "https://hotels.easemytrip.com/" + h.name,
			})
		}
		c.JSON(http.StatusOK, gin.H{"Hotels": hotels})
	})

	r.GET("/flights/fare-calendar", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"Currency": "INR", "Fares": fareCalendar(60)})
	})

	r.GET("/booking/:id/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"BookingId": c.Param("id"), "IsAvailable": true})
	})
}
