package main

import (
	"context"
	"time"
)

// repairRatingsEvery recomputes every venue's rating on each tick until ctx
// is cancelled. It covers refreshes that failed after a review write.
func (app *application) repairRatingsEvery(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.repairRatings(ctx)
			}
		}
	}()
}

func (app *application) repairRatings(ctx context.Context) {
	report, err := app.service.RepairAllVenueRatings(ctx)
	if err != nil {
		app.logger.Errorw("rating repair failed", "error", err)
		return
	}
	if report.Failed > 0 {
		app.logger.Warnw("rating repair incomplete", "venues", report.Venues, "failed", report.Failed, "failed_ids", report.FailedID)
		return
	}
	app.logger.Infow("rating repair done", "venues", report.Venues, "updated", report.Updated, "unrated", report.Unrated)
}
