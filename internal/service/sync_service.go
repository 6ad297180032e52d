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

// SmartSyncService is the public entry point of the sync subsystem. It
// derives an account's sync state from its stored records, picks a
// strategy, and dispatches to the matching executor.
//
// PerformSmartSync never returns an error: callers always get a structured
// SyncResult, failed runs included.
type SmartSyncService interface {
	PerformSmartSync(ctx context.Context, opts transfer.SmartSyncOptions) *transfer.SyncResult
	GetSyncRecommendations(ctx context.Context, socialAccountID int64) (*transfer.SyncRecommendation, error)
	GetSyncStatus(ctx context.Context, socialAccountID int64) (*transfer.SyncStatus, error)
}

type smartSyncService struct {
	cfg       config.Config
	sa        repository.SocialAccountRepository
	aa        repository.AccountAnalyticsRepository
	runs      repository.SyncRunLogRepository
	coverage  CoverageService
	collector InsightsCollector
	hotspots  HotspotService
}

func NewSmartSyncService(
	cfg config.Config,
	sa repository.SocialAccountRepository,
	aa repository.AccountAnalyticsRepository,
	runs repository.SyncRunLogRepository,
	coverage CoverageService,
	collector InsightsCollector,
	hotspots HotspotService) SmartSyncService {
	return &smartSyncService{
		cfg:       cfg,
		sa:        sa,
		aa:        aa,
		runs:      runs,
		coverage:  coverage,
		collector: collector,
		hotspots:  hotspots,
	}
}

func (s *smartSyncService) PerformSmartSync(ctx context.Context, opts transfer.SmartSyncOptions) *transfer.SyncResult {
	now := time.Now()

	acc, syncCtx, err := s.buildSyncContext(ctx, opts.SocialAccountID)
	if err != nil {
		slog.Info("smart sync aborted", "social_account_id", opts.SocialAccountID, "error", err.Error())
		result := failureResult(transfer.StrategyIncrementalDaily, now, err)
		s.logRun(ctx, opts, result)
		return result
	}

	strategy := opts.ForceStrategy
	if strategy == "" {
		strategy = SelectStrategy(syncCtx)
	}

	var result *transfer.SyncResult
	switch strategy {
	case transfer.StrategyIncrementalDaily:
		result = s.runIncrementalDaily(ctx, acc)
	case transfer.StrategySmartAdaptive:
		result = s.runSmartAdaptive(ctx, acc, syncCtx)
	case transfer.StrategyFullHistorical:
		result = s.runFullHistorical(ctx, acc)
	case transfer.StrategyGapFilling:
		result = s.runGapFilling(ctx, acc, syncCtx)
	default:
		result = failureResult(strategy, now, fmt.Errorf("unknown strategy: %s", strategy))
	}

	s.logRun(ctx, opts, result)
	return result
}

func (s *smartSyncService) GetSyncRecommendations(ctx context.Context, socialAccountID int64) (*transfer.SyncRecommendation, error) {
	_, syncCtx, err := s.buildSyncContext(ctx, socialAccountID)
	if err != nil {
		return nil, err
	}

	latest, err := s.aa.GetLatest(ctx, socialAccountID)
	if err != nil {
		return nil, err
	}

	strategy := SelectStrategy(syncCtx)
	rec := &transfer.SyncRecommendation{
		CurrentStatus:           "synced",
		DaysSinceLastCollection: syncCtx.DaysSinceLastCollection,
		RecommendedStrategy:     strategy,
		EstimatedDataToCollect:  estimateDataPoints(strategy, syncCtx, s.cfg.Analytics.HistoricalDaysBack),
		Urgency:                 ClassifyUrgency(syncCtx),
	}
	if latest == nil {
		rec.CurrentStatus = "never_synced"
	} else {
		lastCollection := latest.RecordedAt
		rec.LastCollection = &lastCollection
	}
	return rec, nil
}

func (s *smartSyncService) GetSyncStatus(ctx context.Context, socialAccountID int64) (*transfer.SyncStatus, error) {
	report, err := s.coverage.Analyze(ctx, socialAccountID)
	if err != nil {
		return nil, err
	}

	recommendation, err := s.GetSyncRecommendations(ctx, socialAccountID)
	if err != nil {
		return nil, err
	}

	status := &transfer.SyncStatus{
		HasData:        report.HasData,
		TotalDays:      report.TotalDays,
		Gaps:           report.Gaps,
		LastSync:       report.NewestData,
		NeedsSync:      !report.HasData || recommendation.DaysSinceLastCollection >= 1 || len(report.Gaps) > 0,
		Recommendation: recommendation,
	}
	return status, nil
}

// buildSyncContext derives per-account sync state from the latest stored
// record. Nothing is persisted, so two back-to-back calls see the same
// state and the whole flow stays idempotent.
func (s *smartSyncService) buildSyncContext(ctx context.Context, socialAccountID int64) (*models.SocialAccount, transfer.SyncContext, error) {
	var syncCtx transfer.SyncContext

	acc, err := s.sa.GetByID(ctx, socialAccountID)
	if err != nil {
		return nil, syncCtx, err
	}
	if acc == nil {
		return nil, syncCtx, fmt.Errorf("social account %d not found", socialAccountID)
	}

	latest, err := s.aa.GetLatest(ctx, socialAccountID)
	if err != nil {
		return nil, syncCtx, err
	}

	stored, err := s.aa.CountByAccount(ctx, socialAccountID)
	if err != nil {
		return nil, syncCtx, err
	}

	now := time.Now()
	syncCtx.DaysSinceCreation = int(now.Sub(acc.CreatedAt).Hours() / 24)
	if latest != nil {
		syncCtx.DaysSinceLastCollection = int(now.Sub(latest.RecordedAt).Hours() / 24)
	} else {
		syncCtx.DaysSinceLastCollection = syncCtx.DaysSinceCreation
	}
	syncCtx.IsNewAccount = stored == 0
	syncCtx.NeedsHistoricalData = stored == 0

	return acc, syncCtx, nil
}

func (s *smartSyncService) runIncrementalDaily(ctx context.Context, acc *models.SocialAccount) *transfer.SyncResult {
	now := time.Now()

	stats, err := s.collector.CollectAccountWindow(ctx, acc, truncateDay(now), now)
	if err != nil {
		return failureResult(transfer.StrategyIncrementalDaily, now, err)
	}

	return &transfer.SyncResult{
		Success:             true,
		Strategy:            transfer.StrategyIncrementalDaily,
		DaysCollected:       stats.Days,
		DataPointsCollected: stats.DataPoints,
		NextRecommendedSync: nextSyncAfter(transfer.StrategyIncrementalDaily, now),
	}
}

func (s *smartSyncService) runSmartAdaptive(ctx context.Context, acc *models.SocialAccount, syncCtx transfer.SyncContext) *transfer.SyncResult {
	now := time.Now()
	days := adaptiveWindowDays(syncCtx)

	stats, err := s.collector.CollectAccountWindow(ctx, acc, truncateDay(now).AddDate(0, 0, -(days-1)), now)
	if err != nil {
		return failureResult(transfer.StrategySmartAdaptive, now, err)
	}

	s.refreshHotspots(ctx, acc.ID)

	return &transfer.SyncResult{
		Success:             true,
		Strategy:            transfer.StrategySmartAdaptive,
		DaysCollected:       stats.Days,
		DataPointsCollected: stats.DataPoints,
		NextRecommendedSync: nextSyncAfter(transfer.StrategySmartAdaptive, now),
	}
}

func (s *smartSyncService) runFullHistorical(ctx context.Context, acc *models.SocialAccount) *transfer.SyncResult {
	now := time.Now()

	days := s.cfg.Analytics.HistoricalDaysBack
	if days > s.cfg.Analytics.MaxHistoricalDays {
		days = s.cfg.Analytics.MaxHistoricalDays
	}

	// Deep backfill walks oldest-first in weekly chunks, pausing between
	// chunks to stay under platform rate limits.
	total := &CollectionStats{}
	start := truncateDay(now).AddDate(0, 0, -(days - 1))
	for chunkStart := start; !chunkStart.After(now); chunkStart = chunkStart.AddDate(0, 0, 7) {
		chunkEnd := chunkStart.AddDate(0, 0, 6)
		if chunkEnd.After(now) {
			chunkEnd = now
		}

		stats, err := s.collector.CollectAccountWindow(ctx, acc, chunkStart, chunkEnd)
		if err != nil {
			return failureResult(transfer.StrategyFullHistorical, now, err)
		}
		total.Days += stats.Days
		total.DataPoints += stats.DataPoints

		if chunkEnd.Before(now) {
			time.Sleep(time.Duration(s.cfg.Analytics.HotspotBatchDelayMs) * time.Millisecond)
		}
	}

	s.refreshHotspots(ctx, acc.ID)

	return &transfer.SyncResult{
		Success:             true,
		Strategy:            transfer.StrategyFullHistorical,
		DaysCollected:       total.Days,
		DataPointsCollected: total.DataPoints,
		NextRecommendedSync: nextSyncAfter(transfer.StrategyFullHistorical, now),
	}
}

func (s *smartSyncService) runGapFilling(ctx context.Context, acc *models.SocialAccount, syncCtx transfer.SyncContext) *transfer.SyncResult {
	now := time.Now()
	days := gapWindowDays(syncCtx)

	stats, err := s.collector.CollectAccountWindow(ctx, acc, truncateDay(now).AddDate(0, 0, -(days-1)), now)
	if err != nil {
		return failureResult(transfer.StrategyGapFilling, now, err)
	}
	total := &CollectionStats{Days: stats.Days, DataPoints: stats.DataPoints}

	report, err := s.coverage.Analyze(ctx, acc.ID)
	if err != nil {
		return failureResult(transfer.StrategyGapFilling, now, err)
	}

	repaired := 0
	for _, gap := range report.Gaps {
		if repaired >= maxGapRepairs {
			break
		}
		gapStats, err := s.collector.CollectAccountWindow(ctx, acc, gap.Start, gap.End)
		if err != nil {
			// One unrepairable gap does not sink the run.
			slog.Info("gap repair failed", "social_account_id", acc.ID,
				"gap_start", gap.Start, "error", err.Error())
			continue
		}
		total.Days += gapStats.Days
		total.DataPoints += gapStats.DataPoints
		repaired++
	}

	s.refreshHotspots(ctx, acc.ID)

	return &transfer.SyncResult{
		Success:             true,
		Strategy:            transfer.StrategyGapFilling,
		DaysCollected:       total.Days,
		DataPointsCollected: total.DataPoints,
		NextRecommendedSync: nextSyncAfter(transfer.StrategyGapFilling, now),
	}
}

func (s *smartSyncService) refreshHotspots(ctx context.Context, socialAccountID int64) {
	if err := s.hotspots.AnalyzeAndStore(ctx, socialAccountID); err != nil {
		slog.Info("hotspot refresh failed", "social_account_id", socialAccountID, "error", err.Error())
	}
}

func (s *smartSyncService) logRun(ctx context.Context, opts transfer.SmartSyncOptions, result *transfer.SyncResult) {
	status := models.RunStatusSuccess
	if !result.Success {
		status = models.RunStatusError
	}

	message, err := json.Marshal(map[string]interface{}{
		"options": opts,
		"result":  result,
	})
	if err != nil {
		slog.Info(err.Error())
		return
	}

	_, err = s.runs.Create(ctx, &models.SyncRunLog{
		Name:    models.RunNameSmartSync,
		Status:  status,
		Message: string(message),
	})
	if err != nil {
		slog.Info("failed to record sync run", "error", err.Error())
	}
}

func failureResult(strategy transfer.Strategy, now time.Time, err error) *transfer.SyncResult {
	return &transfer.SyncResult{
		Success:             false,
		Strategy:            strategy,
		NextRecommendedSync: now.Add(24 * time.Hour),
		Error:               err.Error(),
	}
}
