package models

import "time"

// CoverageGap is a contiguous run of calendar days with no analytics record.
type CoverageGap struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// CoverageReport describes the span and completeness of an account's stored
// analytics history. Derived on demand, never persisted.
type CoverageReport struct {
	HasData    bool          `json:"has_data"`
	TotalDays  int           `json:"total_days"`
	Gaps       []CoverageGap `json:"gaps"`
	OldestData *time.Time    `json:"oldest_data,omitempty"`
	NewestData *time.Time    `json:"newest_data,omitempty"`
}
