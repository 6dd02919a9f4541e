package providers

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/alex-user-go/travel/internal/search/types"
)

// ErrDuplicateProvider is returned when an identity is registered twice for one capability.
var ErrDuplicateProvider = errors.New("duplicate provider")

// Registry maps provider identities to adapters, one table per capability.
// It is built once and only read afterwards.
type Registry struct {
	travel     []TravelProvider
	cabs       []CabProvider
	travelByID map[types.ProviderID]TravelProvider
	cabsByID   map[types.ProviderID]CabProvider
}

// NewRegistry builds a registry. Adapters keep the order they are given in.
func NewRegistry(travel []TravelProvider, cabs []CabProvider) (*Registry, error) {
	r := &Registry{
		travel:     make([]TravelProvider, 0, len(travel)),
		cabs:       make([]CabProvider, 0, len(cabs)),
		travelByID: make(map[types.ProviderID]TravelProvider, len(travel)),
		cabsByID:   make(map[types.ProviderID]CabProvider, len(cabs)),
	}

	for i, p := range travel {
		if isNil(p) {
			return nil, fmt.Errorf("travel provider %d is nil", i)
		}
		if _, ok := r.travelByID[p.ID()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, p.ID())
		}
		r.travelByID[p.ID()] = p
		r.travel = append(r.travel, p)
	}

	for i, p := range cabs {
		if isNil(p) {
			return nil, fmt.Errorf("cab provider %d is nil", i)
		}
		if _, ok := r.cabsByID[p.ID()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, p.ID())
		}
		r.cabsByID[p.ID()] = p
		r.cabs = append(r.cabs, p)
	}

	return r, nil
}

// Travel returns a copy of the flight/hotel adapters in registration order.
func (r *Registry) Travel() []TravelProvider {
	return slices.Clone(r.travel)
}

// Cabs returns a copy of the cab adapters in registration order.
func (r *Registry) Cabs() []CabProvider {
	return slices.Clone(r.cabs)
}

// TravelProvider looks up a flight/hotel adapter.
func (r *Registry) TravelProvider(id types.ProviderID) (TravelProvider, bool) {
	p, ok := r.travelByID[id]
	return p, ok
}

// CabProvider looks up a cab adapter.
func (r *Registry) CabProvider(id types.ProviderID) (CabProvider, bool) {
	p, ok := r.cabsByID[id]
	return p, ok
}

// isNil also catches a nil pointer wrapped in a non-nil interface.
func isNil(p any) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
