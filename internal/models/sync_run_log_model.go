package models

import "time"

const (
	RunStatusSuccess = "SUCCESS"
	RunStatusPartial = "PARTIAL"
	RunStatusError   = "ERROR"
	RunStatusFailed  = "FAILED"
)

const (
	RunNameSmartSync       = "smart_sync"
	RunNameAnalyticsMaster = "analytics_master"
	RunNameHotspotAnalysis = "hotspot_analysis"
)

// SyncRunLog is an append-only audit row for one orchestration run. Message
// holds a JSON blob describing the options used and the result summary.
type SyncRunLog struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Status     string    `db:"status" json:"status"`
	Message    string    `db:"message" json:"message"`
	ExecutedAt time.Time `db:"executed_at" json:"executed_at"`
}
