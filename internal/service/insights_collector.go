package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/maheshrc27/pulseboard/configs"
	"github.com/maheshrc27/pulseboard/internal/models"
	"github.com/maheshrc27/pulseboard/internal/platform"
	"github.com/maheshrc27/pulseboard/internal/repository"
	"github.com/maheshrc27/pulseboard/internal/transfer"
	"github.com/maheshrc27/pulseboard/pkg/utils"
)

const (
	platformCallTimeout = 30 * time.Second
	recentPostsLimit    = 100
)

type CollectionStats struct {
	Days       int
	DataPoints int
}

// InsightsCollector pulls account and post metrics from a platform source
// for a bounded window and writes them through the safe-upsert path.
type InsightsCollector interface {
	CollectAccountWindow(ctx context.Context, acc *models.SocialAccount, from, to time.Time) (*CollectionStats, error)
	CollectPostAnalytics(ctx context.Context, acc *models.SocialAccount, since time.Time) (int, error)
}

type insightsCollector struct {
	cfg      config.Config
	registry *platform.Registry
	aa       repository.AccountAnalyticsRepository
	pa       repository.PostAnalyticsRepository
}

func NewInsightsCollector(
	cfg config.Config,
	registry *platform.Registry,
	aa repository.AccountAnalyticsRepository,
	pa repository.PostAnalyticsRepository) InsightsCollector {
	return &insightsCollector{
		cfg:      cfg,
		registry: registry,
		aa:       aa,
		pa:       pa,
	}
}

func (c *insightsCollector) CollectAccountWindow(ctx context.Context, acc *models.SocialAccount, from, to time.Time) (*CollectionStats, error) {
	if acc.AccountID == "" || acc.AccessToken == "" {
		return nil, errors.New("account is missing credentials")
	}

	source, err := c.registry.Source(acc.Platform)
	if err != nil {
		return nil, err
	}

	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, platformCallTimeout)
	basics, err := source.GetAccountBasics(callCtx, acc.AccountID, accessToken)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account basics: %w", err)
	}

	callCtx, cancel = context.WithTimeout(ctx, platformCallTimeout)
	posts, err := source.GetRecentPosts(callCtx, acc.AccountID, accessToken, recentPostsLimit, from)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent posts: %w", err)
	}

	postsByDay := make(map[string][]*transfer.PlatformPost)
	for _, post := range posts {
		key := dayKey(post.Timestamp)
		postsByDay[key] = append(postsByDay[key], post)
	}

	prev, err := c.aa.GetLatest(ctx, acc.ID)
	if err != nil {
		return nil, err
	}

	stats := &CollectionStats{}
	for day := truncateDay(from); !day.After(truncateDay(to)); day = day.AddDate(0, 0, 1) {
		dayPosts := postsByDay[dayKey(day)]

		var likes, comments int64
		for _, post := range dayPosts {
			likes += post.LikeCount
			comments += post.CommentCount
		}

		rec := &models.AccountAnalyticsRecord{
			SocialAccountID: acc.ID,
			Followers:       basics.FollowersCount,
			MediaCount:      basics.MediaCount,
			Likes:           likes,
			Comments:        comments,
			RecordedAt:      day,
		}
		if basics.FollowersCount > 0 {
			rec.EngagementRate = float64(likes+comments) / float64(basics.FollowersCount) * 100
		}
		applyGrowth(rec, prev)

		err = c.aa.SafeCreate(ctx, rec, models.SafeWriteOptions{
			AllowSameDayUpdate: true,
			MergeWithExisting:  true,
		})
		if err != nil {
			return stats, err
		}

		prev = rec
		stats.Days++
		stats.DataPoints += len(dayPosts) + 1
	}

	return stats, nil
}

func (c *insightsCollector) CollectPostAnalytics(ctx context.Context, acc *models.SocialAccount, since time.Time) (int, error) {
	if acc.AccountID == "" || acc.AccessToken == "" {
		return 0, errors.New("account is missing credentials")
	}

	source, err := c.registry.Source(acc.Platform)
	if err != nil {
		return 0, err
	}

	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return 0, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, platformCallTimeout)
	posts, err := source.GetRecentPosts(callCtx, acc.AccountID, accessToken, recentPostsLimit, since)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch recent posts: %w", err)
	}

	written := 0
	for i, post := range posts {
		if i > 0 {
			// The Graph API throttles rapid per-post insight reads.
			time.Sleep(time.Duration(c.cfg.Analytics.InsightCallDelayMs) * time.Millisecond)
		}

		callCtx, cancel := context.WithTimeout(ctx, platformCallTimeout)
		insights, err := source.GetPostInsights(callCtx, post.ID, accessToken)
		cancel()
		if err != nil {
			slog.Info("failed to fetch post insights", "post_id", post.ID, "error", err.Error())
			continue
		}

		rec := &models.PostAnalyticsRecord{
			SocialAccountID: acc.ID,
			PostID:          post.ID,
			Likes:           maxInt64(insights.Likes, post.LikeCount),
			Comments:        maxInt64(insights.Comments, post.CommentCount),
			Shares:          insights.Shares,
			Saves:           insights.Saved,
			Reach:           insights.Reach,
			Impressions:     insights.Impressions,
			Clicks:          insights.Clicks,
			ContentFormat:   post.MediaType,
			PublishedAt:     post.Timestamp,
			RecordedAt:      time.Now(),
		}
		if insights.Reach > 0 {
			rec.EngagementRate = float64(rec.Likes+rec.Comments+rec.Shares+rec.Saves) / float64(insights.Reach)
		}
		if raw, err := json.Marshal(insights); err == nil {
			rec.RawInsights = raw
		}

		if _, err := c.pa.Create(ctx, rec); err != nil {
			slog.Info("failed to store post analytics", "post_id", post.ID, "error", err.Error())
			continue
		}
		written++
	}

	return written, nil
}

func applyGrowth(rec, prev *models.AccountAnalyticsRecord) {
	if prev == nil {
		return
	}
	rec.PrevFollowers = prev.Followers
	rec.PrevEngagement = prev.EngagementRate
	if prev.Followers > 0 {
		rec.FollowerGrowth = float64(rec.Followers-prev.Followers) / float64(prev.Followers) * 100
	}
	if prev.EngagementRate > 0 {
		rec.EngagementDelta = (rec.EngagementRate - prev.EngagementRate) / prev.EngagementRate * 100
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
