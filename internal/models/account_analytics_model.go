package models

import "time"

// AccountAnalyticsRecord is one daily snapshot of account-level metrics.
// At most one record exists per (social_account_id, calendar day); the
// recorded_on column carries the truncated day and backs the unique index
// the safe-upsert write relies on.
type AccountAnalyticsRecord struct {
	ID              int64     `db:"id" json:"id"`
	SocialAccountID int64     `db:"social_account_id" json:"social_account_id"`
	Followers       int64     `db:"followers" json:"followers"`
	MediaCount      int64     `db:"media_count" json:"media_count"`
	EngagementRate  float64   `db:"engagement_rate" json:"engagement_rate"`
	Reach           int64     `db:"reach" json:"reach"`
	Impressions     int64     `db:"impressions" json:"impressions"`
	Likes           int64     `db:"likes" json:"likes"`
	Comments        int64     `db:"comments" json:"comments"`
	Shares          int64     `db:"shares" json:"shares"`
	Saves           int64     `db:"saves" json:"saves"`
	PrevFollowers   int64     `db:"prev_followers" json:"prev_followers"`
	FollowerGrowth  float64   `db:"follower_growth" json:"follower_growth"`
	PrevEngagement  float64   `db:"prev_engagement_rate" json:"prev_engagement_rate"`
	EngagementDelta float64   `db:"engagement_growth" json:"engagement_growth"`
	RecordedAt      time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SafeWriteOptions controls how a write behaves when a record for the same
// account and calendar day already exists.
type SafeWriteOptions struct {
	AllowSameDayUpdate bool
	MergeWithExisting  bool
}
