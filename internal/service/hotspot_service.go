package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	config "github.com/maheshrc27/pulseboard/configs"
	"github.com/maheshrc27/pulseboard/internal/models"
	"github.com/maheshrc27/pulseboard/internal/platform"
	"github.com/maheshrc27/pulseboard/internal/repository"
	"github.com/maheshrc27/pulseboard/internal/transfer"
	"github.com/maheshrc27/pulseboard/pkg/utils"
)

const (
	hotspotDays     = 7
	hotspotHours    = 24
	hotspotCells    = hotspotDays * hotspotHours
	hotspotLookback = 90
	freshLookback   = 30
	rawScoreCeiling = 200.0
	peakHourCount   = 3
	bestTimesCount  = 10
)

// HotspotService builds the 7x24 posting-time engagement heatmap.
type HotspotService interface {
	AnalyzeAndStore(ctx context.Context, socialAccountID int64) error
	AnalyzeFreshAccount(ctx context.Context, acc *models.SocialAccount) (*transfer.FreshHotspotReport, error)
	RunForAllAccounts(ctx context.Context) (*transfer.BatchHotspotResult, error)
}

type hotspotService struct {
	cfg      config.Config
	sa       repository.SocialAccountRepository
	pa       repository.PostAnalyticsRepository
	hs       repository.HotspotRepository
	runs     repository.SyncRunLogRepository
	registry *platform.Registry
}

func NewHotspotService(
	cfg config.Config,
	sa repository.SocialAccountRepository,
	pa repository.PostAnalyticsRepository,
	hs repository.HotspotRepository,
	runs repository.SyncRunLogRepository,
	registry *platform.Registry) HotspotService {
	return &hotspotService{
		cfg:      cfg,
		sa:       sa,
		pa:       pa,
		hs:       hs,
		runs:     runs,
		registry: registry,
	}
}

// hotspotGrid accumulates per-cell score sums and post counts.
type hotspotGrid struct {
	scores [hotspotDays][hotspotHours]float64
	counts [hotspotDays][hotspotHours]int
	total  int
}

func (g *hotspotGrid) add(publishedAt time.Time, score float64) {
	t := publishedAt.UTC()
	day := int(t.Weekday())
	hour := t.Hour()
	g.scores[day][hour] += score
	g.counts[day][hour]++
	g.total++
}

// average returns the mean raw score of a cell, 0 when no posts landed there.
func (g *hotspotGrid) average(day, hour int) float64 {
	if g.counts[day][hour] == 0 {
		return 0
	}
	return g.scores[day][hour] / float64(g.counts[day][hour])
}

func (s *hotspotService) AnalyzeAndStore(ctx context.Context, socialAccountID int64) error {
	started := time.Now()

	posts, err := s.pa.ListByAccountSince(ctx, socialAccountID, started.AddDate(0, 0, -hotspotLookback))
	if err != nil {
		s.logFailure(ctx, socialAccountID, started, err)
		return err
	}

	// Several snapshots accumulate per post; rows come back newest first,
	// so the first row per post is its current numbers. Without this a
	// re-snapshotted post would weigh into its cell once per snapshot.
	grid := &hotspotGrid{}
	seen := make(map[string]bool, len(posts))
	for _, post := range posts {
		if seen[post.PostID] {
			continue
		}
		seen[post.PostID] = true
		grid.add(post.PublishedAt, engagementScore(post))
	}

	if err := s.hs.ReplaceForAccount(ctx, socialAccountID, buildCells(socialAccountID, grid)); err != nil {
		s.logFailure(ctx, socialAccountID, started, err)
		return err
	}
	return nil
}

func (s *hotspotService) AnalyzeFreshAccount(ctx context.Context, acc *models.SocialAccount) (*transfer.FreshHotspotReport, error) {
	started := time.Now()

	source, err := s.registry.Source(acc.Platform)
	if err != nil {
		return nil, err
	}

	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, platformCallTimeout)
	posts, err := source.GetRecentPosts(callCtx, acc.AccountID, accessToken, recentPostsLimit, started.AddDate(0, 0, -freshLookback))
	cancel()
	if err != nil {
		s.logFailure(ctx, acc.ID, started, err)
		return nil, err
	}

	grid := &hotspotGrid{}
	for i, post := range posts {
		if i > 0 {
			time.Sleep(time.Duration(s.cfg.Analytics.InsightCallDelayMs) * time.Millisecond)
		}

		callCtx, cancel := context.WithTimeout(ctx, platformCallTimeout)
		insights, err := source.GetPostInsights(callCtx, post.ID, accessToken)
		cancel()
		if err != nil {
			// No analytics record exists yet; fall back to the raw
			// counts the listing already carries.
			grid.add(post.Timestamp, float64(post.LikeCount+2*post.CommentCount))
			continue
		}
		grid.add(post.Timestamp, float64(insights.Likes+2*insights.Comments+3*insights.Shares+2*insights.Saved))
	}

	if err := s.hs.ReplaceForAccount(ctx, acc.ID, buildCells(acc.ID, grid)); err != nil {
		s.logFailure(ctx, acc.ID, started, err)
		return nil, err
	}

	return buildFreshReport(grid), nil
}

func (s *hotspotService) RunForAllAccounts(ctx context.Context) (*transfer.BatchHotspotResult, error) {
	started := time.Now()

	accounts, err := s.sa.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &transfer.BatchHotspotResult{Total: len(accounts)}

	batchSize := s.cfg.Analytics.HotspotBatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	var mu sync.Mutex
	for start := 0; start < len(accounts); start += batchSize {
		end := start + batchSize
		if end > len(accounts) {
			end = len(accounts)
		}

		var wg sync.WaitGroup
		for _, acc := range accounts[start:end] {
			wg.Add(1)
			go func(acc *models.SocialAccount) {
				defer wg.Done()

				err := s.AnalyzeAndStore(ctx, acc.ID)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed++
					result.Errors = append(result.Errors,
						fmt.Sprintf("account %d: %v", acc.ID, err))
					return
				}
				result.Success++
			}(acc)
		}
		wg.Wait()

		if end < len(accounts) {
			time.Sleep(time.Duration(s.cfg.Analytics.HotspotBatchDelayMs) * time.Millisecond)
		}
	}

	result.ExecutionTimeMs = time.Since(started).Milliseconds()
	return result, nil
}

// engagementScore weights comments and shares above raw likes; they signal
// deeper engagement than a passive like.
func engagementScore(post *models.PostAnalyticsRecord) float64 {
	score := post.EngagementRate * 100
	if post.Reach > 0 {
		score += float64(post.Likes+2*post.Comments+3*post.Shares) / float64(post.Reach) * 100
	}
	if post.Impressions > 0 {
		score += float64(post.Clicks) / float64(post.Impressions) * 100
	}
	return score
}

// normalizeScore maps a raw score onto 0-100. 200 is the practical ceiling
// observed for the raw formula.
func normalizeScore(raw float64) float64 {
	normalized := raw / rawScoreCeiling * 100
	if normalized < 0 {
		return 0
	}
	if normalized > 100 {
		return 100
	}
	return normalized
}

func buildCells(socialAccountID int64, grid *hotspotGrid) []*models.EngagementHotspot {
	cells := make([]*models.EngagementHotspot, 0, hotspotCells)
	for day := 0; day < hotspotDays; day++ {
		for hour := 0; hour < hotspotHours; hour++ {
			cells = append(cells, &models.EngagementHotspot{
				SocialAccountID: socialAccountID,
				DayOfWeek:       day,
				HourOfDay:       hour,
				Score:           normalizeScore(grid.average(day, hour)),
				PostCount:       grid.counts[day][hour],
			})
		}
	}
	return cells
}

func buildFreshReport(grid *hotspotGrid) *transfer.FreshHotspotReport {
	report := &transfer.FreshHotspotReport{
		TotalPosts: grid.total,
		Grid:       make([][]float64, hotspotDays),
	}

	for day := 0; day < hotspotDays; day++ {
		report.Grid[day] = make([]float64, hotspotHours)
		for hour := 0; hour < hotspotHours; hour++ {
			report.Grid[day][hour] = normalizeScore(grid.average(day, hour))
		}
	}

	// Peak hours: top hours by average engagement across all days.
	type hourScore struct {
		hour  int
		score float64
	}
	hours := make([]hourScore, 0, hotspotHours)
	for hour := 0; hour < hotspotHours; hour++ {
		var sum float64
		var count int
		for day := 0; day < hotspotDays; day++ {
			sum += grid.scores[day][hour]
			count += grid.counts[day][hour]
		}
		if count > 0 {
			hours = append(hours, hourScore{hour: hour, score: sum / float64(count)})
		}
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].score > hours[j].score })
	for i := 0; i < len(hours) && i < peakHourCount; i++ {
		report.PeakHours = append(report.PeakHours, hours[i].hour)
	}

	// Best posting times: cells backed by enough posts to mean something.
	minPosts := int(math.Ceil(float64(grid.total) / 20))
	if minPosts < 1 {
		minPosts = 1
	}
	var best []transfer.BestPostingTime
	for day := 0; day < hotspotDays; day++ {
		for hour := 0; hour < hotspotHours; hour++ {
			if grid.counts[day][hour] < minPosts {
				continue
			}
			best = append(best, transfer.BestPostingTime{
				DayOfWeek: day,
				HourOfDay: hour,
				Score:     normalizeScore(grid.average(day, hour)),
				PostCount: grid.counts[day][hour],
			})
		}
	}
	sort.Slice(best, func(i, j int) bool { return best[i].Score > best[j].Score })
	if len(best) > bestTimesCount {
		best = best[:bestTimesCount]
	}
	report.BestPostingTimes = best

	return report
}

func (s *hotspotService) logFailure(ctx context.Context, socialAccountID int64, started time.Time, cause error) {
	message, err := json.Marshal(map[string]interface{}{
		"social_account_id": socialAccountID,
		"error":             cause.Error(),
		"execution_time_ms": time.Since(started).Milliseconds(),
	})
	if err != nil {
		slog.Info(err.Error())
		return
	}

	_, err = s.runs.Create(ctx, &models.SyncRunLog{
		Name:    models.RunNameHotspotAnalysis,
		Status:  models.RunStatusError,
		Message: string(message),
	})
	if err != nil {
		slog.Info("failed to record hotspot failure", "error", err.Error())
	}
}
