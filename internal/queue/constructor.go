package queue

import (
	"github.com/maheshrc27/pulseboard/internal/service"
)

type Queue struct {
	master service.AnalyticsMasterService
	sync   service.SmartSyncService
}

func NewQueue(
	master service.AnalyticsMasterService,
	sync service.SmartSyncService) *Queue {
	return &Queue{
		master: master,
		sync:   sync,
	}
}

const TaskTypeAnalyticsRun = "analytics:run"

type AnalyticsRunPayload struct {
	SocialAccountID int64 `json:"social_account_id"`
	DaysBack        int   `json:"days_back,omitempty"`
	UseSmartSync    bool  `json:"use_smart_sync"`
}
