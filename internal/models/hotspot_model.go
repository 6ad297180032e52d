package models

import "time"

// EngagementHotspot is one cell of the 7x24 posting-time heatmap. A full
// grid of 168 rows exists per account after a successful analysis run and
// is always replaced wholesale, never patched.
type EngagementHotspot struct {
	ID              int64     `db:"id" json:"id"`
	SocialAccountID int64     `db:"social_account_id" json:"social_account_id"`
	DayOfWeek       int       `db:"day_of_week" json:"day_of_week"`
	HourOfDay       int       `db:"hour_of_day" json:"hour_of_day"`
	Score           float64   `db:"score" json:"score"`
	PostCount       int       `db:"post_count" json:"post_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
