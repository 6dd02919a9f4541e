package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alex-user-go/travel/internal/search/types"
)

type identified interface {
	ID() types.ProviderID
}

// gatherEach calls fn once per provider concurrently under the aggregator
// timeout. Slot i of the result belongs to providers[i]; a provider that
// panics leaves its slot at the zero value.
func gatherEach[P identified, R any](a *Aggregator, ctx context.Context, op string, providers []P, fn func(context.Context, P) R) []R {
	out := make([]R, len(providers))
	if len(providers) == 0 {
		return out
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			id := string(p.ID())
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("provider panicked",
						zap.String("provider", id),
						zap.String("operation", op),
						zap.String("panic", fmt.Sprint(r)),
					)
					a.metrics.IncProviderErrors(id, op)
				}
			}()

			start := time.Now()
			out[i] = fn(ctx, p)
			a.metrics.ObserveProviderLatency(id, op, time.Since(start).Seconds())
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// gather concatenates per-provider result lists in registry order.
func gather[P identified, R any](a *Aggregator, ctx context.Context, op string, providers []P, fn func(context.Context, P) []R) []R {
	lists := gatherEach(a, ctx, op, providers, fn)

	total := 0
	for _, l := range lists {
		total += len(l)
	}

	merged := make([]R, 0, total)
	for i, l := range lists {
		a.metrics.AddProviderResults(string(providers[i].ID()), op, len(l))
		merged = append(merged, l...)
	}

	a.logger.Debug("providers gathered",
		zap.String("operation", op),
		zap.Int("providers", len(providers)),
		zap.Int("results", total),
	)
	return merged
}
