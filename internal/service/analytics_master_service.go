package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	config "github.com/maheshrc27/pulseboard/configs"
	"github.com/maheshrc27/pulseboard/internal/models"
	"github.com/maheshrc27/pulseboard/internal/repository"
	"github.com/maheshrc27/pulseboard/internal/transfer"
)

const defaultDaysBack = 7

// AnalyticsMasterService runs the full collection pipeline: account
// insights, hotspot analysis, account-level aggregates, and post-level
// analytics. Phases run in a fixed order and fail independently; accounts
// within a phase are processed one at a time to respect platform rate
// limits.
type AnalyticsMasterService interface {
	RunCompleteAnalytics(ctx context.Context, opts transfer.AnalyticsRunOptions) (*transfer.AnalyticsRunResult, error)
	ShouldRunAnalytics(ctx context.Context) (bool, error)
	GetHistory(ctx context.Context, limit int) ([]*models.SyncRunLog, error)
}

type analyticsMasterService struct {
	cfg       config.Config
	sa        repository.SocialAccountRepository
	aa        repository.AccountAnalyticsRepository
	pa        repository.PostAnalyticsRepository
	runs      repository.SyncRunLogRepository
	collector InsightsCollector
	hotspots  HotspotService
	smartSync SmartSyncService
	exporter  RunExporter
}

func NewAnalyticsMasterService(
	cfg config.Config,
	sa repository.SocialAccountRepository,
	aa repository.AccountAnalyticsRepository,
	pa repository.PostAnalyticsRepository,
	runs repository.SyncRunLogRepository,
	collector InsightsCollector,
	hotspots HotspotService,
	smartSync SmartSyncService,
	exporter RunExporter) AnalyticsMasterService {
	return &analyticsMasterService{
		cfg:       cfg,
		sa:        sa,
		aa:        aa,
		pa:        pa,
		runs:      runs,
		collector: collector,
		hotspots:  hotspots,
		smartSync: smartSync,
		exporter:  exporter,
	}
}

// accountPlan is the per-account adjustment the smart-sync pre-pass makes
// before the phases run.
type accountPlan struct {
	daysBack     int
	skipHotspots bool
}

func (s *analyticsMasterService) RunCompleteAnalytics(ctx context.Context, opts transfer.AnalyticsRunOptions) (*transfer.AnalyticsRunResult, error) {
	started := time.Now()
	result := &transfer.AnalyticsRunResult{}

	accounts, err := s.resolveAccounts(ctx, opts)
	if err != nil {
		slog.Info("analytics run aborted", "error", err.Error())
		s.logRun(ctx, opts, result, models.RunStatusFailed)
		return nil, err
	}

	plans := s.buildPlans(ctx, accounts, opts)

	if opts.IncludeInsights {
		s.runInsightsPhase(ctx, accounts, plans, result)
	}
	if opts.IncludeHotspots {
		s.runHotspotsPhase(ctx, accounts, plans, result)
	}
	if opts.IncludeAccounts {
		s.runAccountsPhase(ctx, accounts, result)
	}
	// Post-level analytics always runs.
	s.runPostsPhase(ctx, accounts, plans, result)

	result.Success = result.Insights.Success + result.Hotspots.Success + result.Accounts.Success + result.Posts.Success
	result.Failed = result.Insights.Failed + result.Hotspots.Failed + result.Accounts.Failed + result.Posts.Failed
	result.Total = result.Insights.Total + result.Hotspots.Total + result.Accounts.Total + result.Posts.Total
	result.ExecutionTimeMs = time.Since(started).Milliseconds()

	status := models.RunStatusSuccess
	if result.Failed > 0 && result.Success > 0 {
		status = models.RunStatusPartial
	} else if result.Failed > 0 {
		status = models.RunStatusError
	}
	s.logRun(ctx, opts, result, status)

	if s.exporter != nil {
		if err := s.exporter.ExportRunSummary(ctx, result); err != nil {
			slog.Info("run summary export failed", "error", err.Error())
		}
	}

	return result, nil
}

func (s *analyticsMasterService) ShouldRunAnalytics(ctx context.Context) (bool, error) {
	cooldown := time.Duration(s.cfg.Analytics.RunCooldownHours) * time.Hour
	ran, err := s.runs.HasSuccessSince(ctx, models.RunNameAnalyticsMaster, time.Now().Add(-cooldown))
	if err != nil {
		return false, err
	}
	return !ran, nil
}

func (s *analyticsMasterService) GetHistory(ctx context.Context, limit int) ([]*models.SyncRunLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runs.ListByName(ctx, models.RunNameAnalyticsMaster, limit)
}

func (s *analyticsMasterService) resolveAccounts(ctx context.Context, opts transfer.AnalyticsRunOptions) ([]*models.SocialAccount, error) {
	if opts.SocialAccountID != 0 {
		acc, err := s.sa.GetByID(ctx, opts.SocialAccountID)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			return nil, fmt.Errorf("social account %d not found", opts.SocialAccountID)
		}
		return []*models.SocialAccount{acc}, nil
	}
	if opts.TeamID != 0 {
		return s.sa.ListByTeamID(ctx, opts.TeamID)
	}
	return s.sa.List(ctx)
}

// buildPlans asks the smart sync manager for a recommendation per account
// and narrows each account's collection scope accordingly.
func (s *analyticsMasterService) buildPlans(ctx context.Context, accounts []*models.SocialAccount, opts transfer.AnalyticsRunOptions) map[int64]accountPlan {
	plans := make(map[int64]accountPlan, len(accounts))

	daysBack := opts.DaysBack
	if daysBack <= 0 {
		daysBack = defaultDaysBack
	}

	for _, acc := range accounts {
		plan := accountPlan{daysBack: daysBack}

		if opts.UseSmartSync {
			rec, err := s.smartSync.GetSyncRecommendations(ctx, acc.ID)
			if err != nil {
				slog.Info("sync recommendation failed, using defaults",
					"social_account_id", acc.ID, "error", err.Error())
			} else {
				switch rec.RecommendedStrategy {
				case transfer.StrategyIncrementalDaily:
					plan.daysBack = 1
					plan.skipHotspots = true
				case transfer.StrategySmartAdaptive, transfer.StrategyGapFilling:
					days := rec.DaysSinceLastCollection + 1
					if days > maxAdaptiveDays {
						days = maxAdaptiveDays
					}
					plan.daysBack = days
				case transfer.StrategyFullHistorical:
					plan.daysBack = s.cfg.Analytics.HistoricalDaysBack
				}
			}
		}

		plans[acc.ID] = plan
	}
	return plans
}

func (s *analyticsMasterService) runInsightsPhase(ctx context.Context, accounts []*models.SocialAccount, plans map[int64]accountPlan, result *transfer.AnalyticsRunResult) {
	now := time.Now()
	for _, acc := range accounts {
		result.Insights.Total++

		plan := plans[acc.ID]
		from := truncateDay(now).AddDate(0, 0, -(plan.daysBack - 1))
		if _, err := s.collector.CollectAccountWindow(ctx, acc, from, now); err != nil {
			result.Insights.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("insights: account %d: %v", acc.ID, err))
			continue
		}
		result.Insights.Success++
	}
}

func (s *analyticsMasterService) runHotspotsPhase(ctx context.Context, accounts []*models.SocialAccount, plans map[int64]accountPlan, result *transfer.AnalyticsRunResult) {
	for _, acc := range accounts {
		if plans[acc.ID].skipHotspots {
			continue
		}
		result.Hotspots.Total++

		if err := s.hotspots.AnalyzeAndStore(ctx, acc.ID); err != nil {
			result.Hotspots.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("hotspots: account %d: %v", acc.ID, err))
			continue
		}
		result.Hotspots.Success++
	}
}

// runAccountsPhase refreshes today's account record from the stored
// post-level metrics, folding reach and impressions the insight snapshot
// alone cannot see into the daily row.
func (s *analyticsMasterService) runAccountsPhase(ctx context.Context, accounts []*models.SocialAccount, result *transfer.AnalyticsRunResult) {
	now := time.Now()
	for _, acc := range accounts {
		result.Accounts.Total++

		if err := s.refreshAccountAggregates(ctx, acc, now); err != nil {
			result.Accounts.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("analytics: account %d: %v", acc.ID, err))
			continue
		}
		result.Accounts.Success++
	}
}

func (s *analyticsMasterService) refreshAccountAggregates(ctx context.Context, acc *models.SocialAccount, now time.Time) error {
	posts, err := s.pa.ListByAccountSince(ctx, acc.ID, now.AddDate(0, 0, -freshLookback))
	if err != nil {
		return err
	}

	latest, err := s.aa.GetLatest(ctx, acc.ID)
	if err != nil {
		return err
	}
	if latest == nil {
		// No insight snapshot yet; nothing to enrich.
		return nil
	}

	rec := *latest
	rec.RecordedAt = now
	rec.Reach = 0
	rec.Impressions = 0
	rec.Likes = 0
	rec.Comments = 0
	rec.Shares = 0
	rec.Saves = 0

	seen := make(map[string]bool, len(posts))
	var engagementSum float64
	var engagementCount int
	for _, post := range posts {
		// Records are ordered newest first, so the first row per post
		// is the current snapshot.
		if seen[post.PostID] {
			continue
		}
		seen[post.PostID] = true

		rec.Reach += post.Reach
		rec.Impressions += post.Impressions
		rec.Likes += post.Likes
		rec.Comments += post.Comments
		rec.Shares += post.Shares
		rec.Saves += post.Saves
		if post.EngagementRate > 0 {
			engagementSum += post.EngagementRate
			engagementCount++
		}
	}
	if engagementCount > 0 {
		rec.EngagementRate = engagementSum / float64(engagementCount) * 100
	}

	return s.aa.SafeCreate(ctx, &rec, models.SafeWriteOptions{
		AllowSameDayUpdate: true,
		MergeWithExisting:  true,
	})
}

func (s *analyticsMasterService) runPostsPhase(ctx context.Context, accounts []*models.SocialAccount, plans map[int64]accountPlan, result *transfer.AnalyticsRunResult) {
	now := time.Now()
	for _, acc := range accounts {
		result.Posts.Total++

		since := now.AddDate(0, 0, -plans[acc.ID].daysBack)
		if _, err := s.collector.CollectPostAnalytics(ctx, acc, since); err != nil {
			result.Posts.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("posts: account %d: %v", acc.ID, err))
			continue
		}
		result.Posts.Success++
	}
}

func (s *analyticsMasterService) logRun(ctx context.Context, opts transfer.AnalyticsRunOptions, result *transfer.AnalyticsRunResult, status string) {
	message, err := json.Marshal(map[string]interface{}{
		"options": opts,
		"result":  result,
	})
	if err != nil {
		slog.Info(err.Error())
		return
	}

	_, err = s.runs.Create(ctx, &models.SyncRunLog{
		Name:    models.RunNameAnalyticsMaster,
		Status:  status,
		Message: string(message),
	})
	if err != nil {
		slog.Info("failed to record analytics run", "error", err.Error())
	}
}
