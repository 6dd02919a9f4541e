package app

import (
	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/config"
	"github.com/alex-user-go/travel/internal/obs"
	"github.com/alex-user-go/travel/internal/providers"
)

func providerConfig(pc config.ProviderConfig) providers.Config {
	return providers.Config{
		APIKey:      pc.APIKey,
		APISecret:   pc.APISecret,
		Environment: providers.Environment(pc.Environment),
		BaseURL:     pc.BaseURL,
		Timeout:     config.Duration(pc.Timeout),
	}
}

// buildRegistry creates the enabled vendor adapters in their fixed order.
// distancer may be nil.
func buildRegistry(cfg config.ProvidersConfig, distancer providers.Distancer, logger *zap.Logger, metrics *obs.Metrics) (*providers.Registry, error) {
	travel := make([]providers.TravelProvider, 0, 5)
	if cfg.MakeMyTrip.Enabled {
		travel = append(travel, providers.NewMakeMyTrip(providerConfig(cfg.MakeMyTrip), logger, metrics))
	}
	if cfg.Cleartrip.Enabled {
		travel = append(travel, providers.NewCleartrip(providerConfig(cfg.Cleartrip), logger, metrics))
	}
	if cfg.EaseMyTrip.Enabled {
		travel = append(travel, providers.NewEaseMyTrip(providerConfig(cfg.EaseMyTrip), logger, metrics))
	}
	if cfg.Indigo.Enabled {
		travel = append(travel, providers.NewIndigo(providerConfig(cfg.Indigo), logger, metrics))
	}
	if cfg.Riya.Enabled {
		travel = append(travel, providers.NewRiya(providerConfig(cfg.Riya), logger, metrics))
	}

	var cabs []providers.CabProvider
	if cfg.Savaari.Enabled {
		cabs = append(cabs, providers.NewSavaari(providerConfig(cfg.Savaari), distancer, logger, metrics))
	}

	return providers.NewRegistry(travel, cabs)
}
