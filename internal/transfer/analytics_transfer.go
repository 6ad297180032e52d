package transfer

import (
	"time"

	"github.com/maheshrc27/pulseboard/internal/models"
)

// Strategy is the chosen scope for one sync run.
type Strategy string

const (
	StrategyIncrementalDaily Strategy = "incremental_daily"
	StrategySmartAdaptive    Strategy = "smart_adaptive"
	StrategyFullHistorical   Strategy = "full_historical"
	StrategyGapFilling       Strategy = "gap_filling"
)

// Urgency classifies how badly an account needs a sync. Advisory only,
// never used for control flow.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// SyncContext is the derived state a strategy decision is made from.
type SyncContext struct {
	IsNewAccount            bool `json:"is_new_account"`
	DaysSinceCreation       int  `json:"days_since_creation"`
	DaysSinceLastCollection int  `json:"days_since_last_collection"`
	NeedsHistoricalData     bool `json:"needs_historical_data"`
}

type SmartSyncOptions struct {
	SocialAccountID int64    `json:"social_account_id"`
	ForceStrategy   Strategy `json:"force_strategy,omitempty"`
}

type SyncResult struct {
	Success             bool      `json:"success"`
	Strategy            Strategy  `json:"strategy"`
	DaysCollected       int       `json:"days_collected"`
	DataPointsCollected int       `json:"data_points_collected"`
	NextRecommendedSync time.Time `json:"next_recommended_sync"`
	Error               string    `json:"error,omitempty"`
}

type SyncRecommendation struct {
	CurrentStatus           string     `json:"current_status"`
	LastCollection          *time.Time `json:"last_collection,omitempty"`
	DaysSinceLastCollection int        `json:"days_since_last_collection"`
	RecommendedStrategy     Strategy   `json:"recommended_strategy"`
	EstimatedDataToCollect  int        `json:"estimated_data_to_collect"`
	Urgency                 Urgency    `json:"urgency"`
}

type SyncStatus struct {
	HasData        bool                 `json:"has_data"`
	TotalDays      int                  `json:"total_days"`
	Gaps           []models.CoverageGap `json:"gaps"`
	LastSync       *time.Time           `json:"last_sync,omitempty"`
	NeedsSync      bool                 `json:"needs_sync"`
	Recommendation *SyncRecommendation  `json:"recommendation,omitempty"`
}

// AnalyticsRunOptions selects which phases run and scopes the run to one
// account, one team, or every connected account.
type AnalyticsRunOptions struct {
	SocialAccountID int64 `json:"social_account_id,omitempty"`
	TeamID          int64 `json:"team_id,omitempty"`
	IncludeInsights bool  `json:"include_insights"`
	IncludeHotspots bool  `json:"include_hotspots"`
	IncludeAccounts bool  `json:"include_analytics"`
	UseSmartSync    bool  `json:"use_smart_sync"`
	DaysBack        int   `json:"days_back,omitempty"`
}

type PhaseResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

type AnalyticsRunResult struct {
	Success         int         `json:"success"`
	Failed          int         `json:"failed"`
	Total           int         `json:"total"`
	Insights        PhaseResult `json:"insights"`
	Hotspots        PhaseResult `json:"hotspots"`
	Accounts        PhaseResult `json:"accounts"`
	Posts           PhaseResult `json:"posts"`
	Errors          []string    `json:"errors,omitempty"`
	ExecutionTimeMs int64       `json:"execution_time_ms"`
}

// FreshHotspotReport is the fresh-account hotspot variant's output: the
// grid plus the ranked summaries derived from it.
type FreshHotspotReport struct {
	TotalPosts       int               `json:"total_posts"`
	PeakHours        []int             `json:"peak_hours"`
	BestPostingTimes []BestPostingTime `json:"best_posting_times"`
	Grid             [][]float64       `json:"grid"`
}

type BestPostingTime struct {
	DayOfWeek int     `json:"day_of_week"`
	HourOfDay int     `json:"hour_of_day"`
	Score     float64 `json:"score"`
	PostCount int     `json:"post_count"`
}

type BatchHotspotResult struct {
	Success         int      `json:"success"`
	Failed          int      `json:"failed"`
	Total           int      `json:"total"`
	Errors          []string `json:"errors,omitempty"`
	ExecutionTimeMs int64    `json:"execution_time_ms"`
}
