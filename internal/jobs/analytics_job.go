package job

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/pulseboard/internal/service"
	"github.com/maheshrc27/pulseboard/internal/transfer"
)

type AnalyticsJob struct {
	master service.AnalyticsMasterService
}

func NewAnalyticsJob(master service.AnalyticsMasterService) *AnalyticsJob {
	return &AnalyticsJob{master: master}
}

// RunNightly runs the full pipeline over every connected account. The
// cooldown check keeps overlapping schedules and restarts from doubling
// platform API usage.
func (j *AnalyticsJob) RunNightly() {
	ctx := context.Background()

	shouldRun, err := j.master.ShouldRunAnalytics(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if !shouldRun {
		slog.Info("Skipping analytics run, last successful run is inside the cooldown window")
		return
	}

	result, err := j.master.RunCompleteAnalytics(ctx, transfer.AnalyticsRunOptions{
		IncludeInsights: true,
		IncludeHotspots: true,
		IncludeAccounts: true,
		UseSmartSync:    true,
	})
	if err != nil {
		slog.Info("Nightly analytics run failed", "error", err.Error())
		return
	}

	slog.Info("Nightly analytics run finished",
		"success", result.Success,
		"failed", result.Failed,
		"total", result.Total,
		"execution_time_ms", result.ExecutionTimeMs)
}
