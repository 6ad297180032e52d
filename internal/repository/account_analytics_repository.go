package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/pulseboard/internal/models"
)

type AccountAnalyticsRepository interface {
	Create(ctx context.Context, rec *models.AccountAnalyticsRecord) (int64, error)
	// SafeCreate writes a record without ever producing two rows for the
	// same account and calendar day. The unique index on
	// (social_account_id, recorded_on) is the arbiter, not application
	// merge logic, so concurrent runs cannot race past each other.
	SafeCreate(ctx context.Context, rec *models.AccountAnalyticsRecord, opts models.SafeWriteOptions) error
	GetLatest(ctx context.Context, socialAccountID int64) (*models.AccountAnalyticsRecord, error)
	GetEarliest(ctx context.Context, socialAccountID int64) (*models.AccountAnalyticsRecord, error)
	ListByDateRange(ctx context.Context, socialAccountID int64, from, to time.Time) ([]*models.AccountAnalyticsRecord, error)
	CountByAccount(ctx context.Context, socialAccountID int64) (int64, error)
}

type accountAnalyticsRepository struct {
	db *sql.DB
}

func NewAccountAnalyticsRepository(db *sql.DB) AccountAnalyticsRepository {
	return &accountAnalyticsRepository{db: db}
}

const analyticsColumns = `id, social_account_id, followers, media_count, engagement_rate,
	reach, impressions, likes, comments, shares, saves,
	prev_followers, follower_growth, prev_engagement_rate, engagement_growth,
	recorded_at, created_at`

func (r *accountAnalyticsRepository) Create(ctx context.Context, rec *models.AccountAnalyticsRecord) (int64, error) {
	query := `
		INSERT INTO account_analytics (
			social_account_id, followers, media_count, engagement_rate,
			reach, impressions, likes, comments, shares, saves,
			prev_followers, follower_growth, prev_engagement_rate, engagement_growth,
			recorded_at, recorded_on
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, ($15 AT TIME ZONE 'UTC')::date)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rec.SocialAccountID, rec.Followers, rec.MediaCount, rec.EngagementRate,
		rec.Reach, rec.Impressions, rec.Likes, rec.Comments, rec.Shares, rec.Saves,
		rec.PrevFollowers, rec.FollowerGrowth, rec.PrevEngagement, rec.EngagementDelta,
		rec.RecordedAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *accountAnalyticsRepository) SafeCreate(ctx context.Context, rec *models.AccountAnalyticsRecord, opts models.SafeWriteOptions) error {
	query := `
		INSERT INTO account_analytics (
			social_account_id, followers, media_count, engagement_rate,
			reach, impressions, likes, comments, shares, saves,
			prev_followers, follower_growth, prev_engagement_rate, engagement_growth,
			recorded_at, recorded_on
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, ($15 AT TIME ZONE 'UTC')::date)
	`

	if opts.AllowSameDayUpdate && opts.MergeWithExisting {
		query += `
		ON CONFLICT (social_account_id, recorded_on) DO UPDATE SET
			followers = EXCLUDED.followers,
			media_count = EXCLUDED.media_count,
			engagement_rate = EXCLUDED.engagement_rate,
			reach = GREATEST(account_analytics.reach, EXCLUDED.reach),
			impressions = GREATEST(account_analytics.impressions, EXCLUDED.impressions),
			likes = GREATEST(account_analytics.likes, EXCLUDED.likes),
			comments = GREATEST(account_analytics.comments, EXCLUDED.comments),
			shares = GREATEST(account_analytics.shares, EXCLUDED.shares),
			saves = GREATEST(account_analytics.saves, EXCLUDED.saves),
			recorded_at = EXCLUDED.recorded_at
		`
	} else {
		query += ` ON CONFLICT (social_account_id, recorded_on) DO NOTHING`
	}

	_, err := r.db.ExecContext(ctx, query,
		rec.SocialAccountID, rec.Followers, rec.MediaCount, rec.EngagementRate,
		rec.Reach, rec.Impressions, rec.Likes, rec.Comments, rec.Shares, rec.Saves,
		rec.PrevFollowers, rec.FollowerGrowth, rec.PrevEngagement, rec.EngagementDelta,
		rec.RecordedAt,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *accountAnalyticsRepository) GetLatest(ctx context.Context, socialAccountID int64) (*models.AccountAnalyticsRecord, error) {
	query := `SELECT ` + analyticsColumns + `
		FROM account_analytics WHERE social_account_id = $1
		ORDER BY recorded_at DESC LIMIT 1`
	return r.getOne(ctx, query, socialAccountID)
}

func (r *accountAnalyticsRepository) GetEarliest(ctx context.Context, socialAccountID int64) (*models.AccountAnalyticsRecord, error) {
	query := `SELECT ` + analyticsColumns + `
		FROM account_analytics WHERE social_account_id = $1
		ORDER BY recorded_at ASC LIMIT 1`
	return r.getOne(ctx, query, socialAccountID)
}

func (r *accountAnalyticsRepository) getOne(ctx context.Context, query string, socialAccountID int64) (*models.AccountAnalyticsRecord, error) {
	row := r.db.QueryRowContext(ctx, query, socialAccountID)

	var rec models.AccountAnalyticsRecord
	err := row.Scan(&rec.ID, &rec.SocialAccountID, &rec.Followers, &rec.MediaCount, &rec.EngagementRate,
		&rec.Reach, &rec.Impressions, &rec.Likes, &rec.Comments, &rec.Shares, &rec.Saves,
		&rec.PrevFollowers, &rec.FollowerGrowth, &rec.PrevEngagement, &rec.EngagementDelta,
		&rec.RecordedAt, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &rec, nil
}

func (r *accountAnalyticsRepository) ListByDateRange(ctx context.Context, socialAccountID int64, from, to time.Time) ([]*models.AccountAnalyticsRecord, error) {
	query := `SELECT ` + analyticsColumns + `
		FROM account_analytics
		WHERE social_account_id = $1 AND recorded_at BETWEEN $2 AND $3
		ORDER BY recorded_at ASC`

	rows, err := r.db.QueryContext(ctx, query, socialAccountID, from, to)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.AccountAnalyticsRecord
	for rows.Next() {
		var rec models.AccountAnalyticsRecord
		err := rows.Scan(&rec.ID, &rec.SocialAccountID, &rec.Followers, &rec.MediaCount, &rec.EngagementRate,
			&rec.Reach, &rec.Impressions, &rec.Likes, &rec.Comments, &rec.Shares, &rec.Saves,
			&rec.PrevFollowers, &rec.FollowerGrowth, &rec.PrevEngagement, &rec.EngagementDelta,
			&rec.RecordedAt, &rec.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return records, nil
}

func (r *accountAnalyticsRepository) CountByAccount(ctx context.Context, socialAccountID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM account_analytics WHERE social_account_id = $1`

	var count int64
	err := r.db.QueryRowContext(ctx, query, socialAccountID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}
