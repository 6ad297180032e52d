package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/pulseboard/internal/transfer"
)

func (j *Queue) HandleAnalyticsRunTask(ctx context.Context, task *asynq.Task) error {
	var payload AnalyticsRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.RunAnalytics(ctx, payload)
}

func (j *Queue) RunAnalytics(ctx context.Context, payload AnalyticsRunPayload) error {
	if payload.UseSmartSync && payload.SocialAccountID != 0 {
		result := j.sync.PerformSmartSync(ctx, transfer.SmartSyncOptions{
			SocialAccountID: payload.SocialAccountID,
		})
		if !result.Success {
			log.Printf("Smart sync failed for account %d: %s", payload.SocialAccountID, result.Error)
		}
		return nil
	}

	result, err := j.master.RunCompleteAnalytics(ctx, transfer.AnalyticsRunOptions{
		SocialAccountID: payload.SocialAccountID,
		IncludeInsights: true,
		IncludeHotspots: true,
		IncludeAccounts: true,
		DaysBack:        payload.DaysBack,
	})
	if err != nil {
		return err
	}

	log.Printf("Analytics run finished: %d/%d accounts succeeded", result.Success, result.Total)
	return nil
}
