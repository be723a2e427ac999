// Package worker hosts background loops that run alongside the HTTP server.
package worker

import (
	"context"
	"time"

	"github.com/tarekelsergany/gold-ecommerce/internal/service"

	"github.com/rs/zerolog/log"
)

// AuditCron periodically recomputes every active product's selling price
// against the current gold price and reports drift. The materialized
// selling_price column is a cache of the pricing engine's output; this loop
// is the enforcement of that consistency contract. With repair enabled,
// drifted prices are rewritten (each with a history row).
type AuditCron struct {
	svc      service.ProductService
	interval time.Duration
	repair   bool
}

func NewAuditCron(svc service.ProductService, interval time.Duration, repair bool) *AuditCron {
	return &AuditCron{svc: svc, interval: interval, repair: repair}
}

// Start launches the ticker loop. Returns immediately; the loop exits when
// ctx is cancelled.
func (a *AuditCron) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		log.Info().
			Dur("interval", a.interval).
			Bool("repair", a.repair).
			Msg("price audit cron started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("price audit cron stopped")
				return
			case <-ticker.C:
				a.runOnce(ctx)
			}
		}
	}()
}

func (a *AuditCron) runOnce(ctx context.Context) {
	resp, err := a.svc.AuditPrices(ctx, a.repair)
	if err != nil {
		log.Error().Err(err).Msg("price audit failed")
		return
	}
	evt := log.Info()
	if resp.Drifted > 0 {
		evt = log.Warn()
	}
	evt.
		Int("checked", resp.Checked).
		Int("drifted", resp.Drifted).
		Int("repaired", resp.Repaired).
		Msg("price audit completed")
}
