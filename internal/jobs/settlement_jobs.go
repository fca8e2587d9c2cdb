package jobs

import (
	"context"
	"time"

	"driveshare-backend/internal/logger"
)

// AutoReleaseEscrow pays out escrowed funds for every trip that completed but
// whose booking is still holding money.
func (jr *JobRunner) AutoReleaseEscrow() {
	jr.runWithRecovery("AutoReleaseEscrow", func() {
		ctx := context.Background()

		released, err := jr.services.Settlement.AutoReleaseSweep(ctx)
		if err != nil {
			logger.Error("Failed to sweep releasable escrow", "error", err)
			return
		}

		logger.Info("Escrow auto-release completed", "released", released)
	})
}

// BuildOwnerSettlements rolls up the previous month's completed owner
// transactions into settlement rows.
func (jr *JobRunner) BuildOwnerSettlements() {
	jr.runWithRecovery("BuildOwnerSettlements", func() {
		ctx := context.Background()

		// Settle the month that just closed (format: 'YYYY-MM')
		period := time.Now().AddDate(0, -1, 0).Format("2006-01")

		built, err := jr.services.Settlement.BuildOwnerSettlements(ctx, period)
		if err != nil {
			logger.Error("Failed to build owner settlements", "period", period, "error", err)
			return
		}

		logger.Info("Owner settlements built", "period", period, "count", built)
	})
}
