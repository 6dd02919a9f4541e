package main

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type savaari struct{}

var carTypes = []struct {
	carType string
	carName string
	perKm   float64
}{
	{"HATCHBACK", "Maruti Swift", 11},
	{"SEDAN", "Toyota Etios", 13},
	{"SUV", "Toyota Innova Crysta", 18},
}

func (savaari) register(r gin.IRouter) {
	r.GET("/cabs/availability", func(c *gin.Context) {
		if c.Query("city") == "" || c.Query("pickupDateTime") == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "city and pickupDateTime are required"})
			return
		}
		want := c.Query("carType")

		cabs := make([]gin.H, 0, len(carTypes))
		for _, ct := range carTypes {
			if want != "" && !strings.EqualFold(want, ct.carType) {
				continue
			}
			km := float64(80 + rand.IntN(120))
			cabs = append(cabs, gin.H{
				"carType":     ct.carType,
				"carName":     ct.carName,
				"perKmRate":   ct.perKm,
				"totalFare":   ct.perKm * km,
				"isAvailable": true,
				"rating":      4.2,
				"bookingUrl":  "https://www.savaari.com/book/" + ct.carType,
			})
		}
		c.JSON(http.StatusOK, gin.H{"cabs": cabs})
	})

	r.GET("/fare/estimate", func(c *gin.Context) {
		km := 150.0
		if v, err := strconv.ParseFloat(c.Query("distanceKm"), 64); err == nil && v > 0 {
			km = v
		}
		c.JSON(http.StatusOK, gin.H{
			"source":        c.Query("source"),
			"destination":   c.Query("destination"),
			"distanceKm":    km,
			"estimatedFare": 13 * km,
		})
	})
}
