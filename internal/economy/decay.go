package economy

import (
	"context"
	"log/slog"
	"time"
)

// DecayRunner drives the periodic price decay. It runs independently of the
// request path and stops when its context is cancelled, so tests and the
// worker binary can start and stop it on their own terms.
type DecayRunner struct {
	engine *PricingEngine
	every  time.Duration
	log    *slog.Logger
}

func NewDecayRunner(engine *PricingEngine, every time.Duration, logger *slog.Logger) *DecayRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecayRunner{engine: engine, every: every, log: logger}
}

// Run blocks until ctx is cancelled, applying one decay pass per tick.
// A failed pass is logged and retried on the next tick.
func (r *DecayRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.every)
	defer ticker.Stop()

	r.log.Info("price decay runner started", "every", r.every.String())
	for {
		select {
		case <-ctx.Done():
			r.log.Info("price decay runner stopped")
			return
		case <-ticker.C:
			n, err := r.engine.DecayAll(ctx)
			if err != nil {
				r.log.Error("price decay failed", "err", err)
				continue
			}
			r.log.Info("price decay complete", "items", n)
		}
	}
}
