package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/obs"
	"github.com/alex-user-go/travel/internal/search/types"
)

const savaariTimeLayout = "2006-01-02 15:04"

var savaariEndpoints = endpoints{
	production: "https://api.savaari.com/partner_api/public",
	sandbox:    "https://sandbox-api.savaari.com/partner_api/public",
}

var (
	savaariCabsSchema = listSchema("cabs", true,
		"carType", "carName", "perKmRate", "totalFare")
	savaariFareSchema = mustSchema(`{"type": "object", "required": ["estimatedFare"]}`)
)

// Distancer returns the driving distance between two places in kilometres.
type Distancer interface {
	DrivingDistanceKm(ctx context.Context, origin, destination string) (float64, error)
}

// Savaari is the Savaari cab partner API adapter.
type Savaari struct {
	client    *vendorClient
	distancer Distancer
}

// NewSavaari creates a Savaari adapter. distancer may be nil, in which case
// fare estimates are quoted by the vendor from place names alone.
func NewSavaari(cfg Config, distancer Distancer, logger *zap.Logger, metrics *obs.Metrics) *Savaari {
	return &Savaari{
		client: newVendorClient(types.Savaari, cfg, savaariEndpoints, map[string]string{
			"X-Savaari-Key":    cfg.APIKey,
			"X-Savaari-Secret": cfg.APISecret,
		}, logger, metrics),
		distancer: distancer,
	}
}

func (p *Savaari) ID() types.ProviderID {
	return types.Savaari
}

type savaariCab struct {
	CarType     string `json:"carType"`
	CarName     string `json:"carName"`
	PerKmRate   amount `json:"perKmRate"`
	TotalFare   amount `json:"totalFare"`
	IsAvailable bool   `json:"isAvailable"`
	Rating      amount `json:"rating"`
	BookingURL  string `json:"bookingUrl"`
}

func (p *Savaari) SearchCabs(ctx context.Context, criteria types.CabSearchCriteria) []types.CabResult {
	const op = "search_cabs"

	q := url.Values{}
	q.Set("city", criteria.City)
	q.Set("pickupDateTime", criteria.PickupDate.Format(savaariTimeLayout))
	if criteria.DropDate != nil {
		q.Set("dropDateTime", criteria.DropDate.Format(savaariTimeLayout))
	}
	if cabType := strings.ToUpper(strings.TrimSpace(criteria.CabType)); cabType != "" && cabType != types.DefaultCabType {
		q.Set("carType", criteria.CabType)
	}

	var resp struct {
		Cabs []json.RawMessage `json:"cabs"`
	}
	if err := p.client.call(ctx, http.MethodGet, "/cabs/availability", q, nil, savaariCabsSchema, &resp); err != nil {
		p.client.fail(op, err)
		return []types.CabResult{}
	}

	cabs, raws, err := decodeEach[savaariCab](resp.Cabs)
	if err != nil {
		p.client.fail(op, err)
		return []types.CabResult{}
	}

	results := make([]types.CabResult, 0, len(cabs))
	for i, c := range cabs {
		r := types.CabResult{
			Provider:     types.Savaari,
			CabType:      c.CarType,
			VehicleModel: c.CarName,
			PricePerKm:   float64(c.PerKmRate),
			TotalPrice:   float64(c.TotalFare),
			Available:    c.IsAvailable,
			Rating:       clampRating(float64(c.Rating)),
			DeepLink:     c.BookingURL,
			ProviderData: raws[i],
		}
		if err := checkCab(r); err != nil {
			p.client.drop(op, err)
			continue
		}
		results = append(results, r)
	}
	return results
}

// GetFareEstimate quotes a point-to-point fare. When a Distancer is set the
// driving distance is sent along; a failed distance lookup is not fatal.
// The whole estimate is bounded by the adapter timeout.
func (p *Savaari) GetFareEstimate(ctx context.Context, from, to string) float64 {
	const op = "fare_estimate"

	ctx, cancel := context.WithTimeout(ctx, p.client.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("source", from)
	q.Set("destination", to)
	if p.distancer != nil {
		km, err := p.distancer.DrivingDistanceKm(ctx, from, to)
		if err != nil {
			p.client.logger.Info("distance lookup failed, quoting without distance", zap.Error(err))
		} else {
			q.Set("distanceKm", strconv.FormatFloat(km, 'f', 1, 64))
		}
	}

	var resp struct {
		EstimatedFare amount `json:"estimatedFare"`
	}
	if err := p.client.call(ctx, http.MethodGet, "/fare/estimate", q, nil, savaariFareSchema, &resp); err != nil {
		p.client.fail(op, err)
		return 0
	}
	fare := float64(resp.EstimatedFare)
	if !finite(fare) {
		p.client.drop(op, errNotFinite)
		return 0
	}
	if fare < 0 {
		p.client.drop(op, errNegative)
		return 0
	}
	return fare
}
