package models

import (
	"encoding/json"
	"time"
)

// PostAnalyticsRecord is one snapshot of a published post's metrics.
// Several records can accumulate per post as platform numbers settle;
// readers take the most recent one unless they explicitly ask for the
// record carrying the richest raw payload.
type PostAnalyticsRecord struct {
	ID              int64           `db:"id" json:"id"`
	SocialAccountID int64           `db:"social_account_id" json:"social_account_id"`
	PostID          string          `db:"post_id" json:"post_id"`
	Likes           int64           `db:"likes" json:"likes"`
	Comments        int64           `db:"comments" json:"comments"`
	Shares          int64           `db:"shares" json:"shares"`
	Saves           int64           `db:"saves" json:"saves"`
	Reach           int64           `db:"reach" json:"reach"`
	Impressions     int64           `db:"impressions" json:"impressions"`
	Clicks          int64           `db:"clicks" json:"clicks"`
	EngagementRate  float64         `db:"engagement_rate" json:"engagement_rate"`
	ContentFormat   string          `db:"content_format" json:"content_format"`
	RawInsights     json.RawMessage `db:"raw_insights" json:"raw_insights,omitempty"`
	PublishedAt     time.Time       `db:"published_at" json:"published_at"`
	RecordedAt      time.Time       `db:"recorded_at" json:"recorded_at"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
