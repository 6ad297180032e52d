package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/pulseboard/internal/models"
)

type PostAnalyticsRepository interface {
	Create(ctx context.Context, rec *models.PostAnalyticsRecord) (int64, error)
	// GetLatestByPostID is the default read path: the chronologically
	// most recent snapshot for a post.
	GetLatestByPostID(ctx context.Context, socialAccountID int64, postID string) (*models.PostAnalyticsRecord, error)
	// GetRichestByPostID returns the most recent snapshot that carries a
	// non-empty raw_insights payload. Callers that need the provider blob
	// must ask for it by name instead of getting it by accident.
	GetRichestByPostID(ctx context.Context, socialAccountID int64, postID string) (*models.PostAnalyticsRecord, error)
	ListByAccountSince(ctx context.Context, socialAccountID int64, since time.Time) ([]*models.PostAnalyticsRecord, error)
}

type postAnalyticsRepository struct {
	db *sql.DB
}

func NewPostAnalyticsRepository(db *sql.DB) PostAnalyticsRepository {
	return &postAnalyticsRepository{db: db}
}

const postAnalyticsColumns = `id, social_account_id, post_id, likes, comments, shares, saves,
	reach, impressions, clicks, engagement_rate, content_format, raw_insights,
	published_at, recorded_at, created_at`

func (r *postAnalyticsRepository) Create(ctx context.Context, rec *models.PostAnalyticsRecord) (int64, error) {
	query := `
		INSERT INTO post_analytics (
			social_account_id, post_id, likes, comments, shares, saves,
			reach, impressions, clicks, engagement_rate, content_format,
			raw_insights, published_at, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var raw interface{}
	if len(rec.RawInsights) > 0 {
		raw = []byte(rec.RawInsights)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rec.SocialAccountID, rec.PostID, rec.Likes, rec.Comments, rec.Shares, rec.Saves,
		rec.Reach, rec.Impressions, rec.Clicks, rec.EngagementRate, rec.ContentFormat,
		raw, rec.PublishedAt, rec.RecordedAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *postAnalyticsRepository) GetLatestByPostID(ctx context.Context, socialAccountID int64, postID string) (*models.PostAnalyticsRecord, error) {
	query := `SELECT ` + postAnalyticsColumns + `
		FROM post_analytics
		WHERE social_account_id = $1 AND post_id = $2
		ORDER BY recorded_at DESC LIMIT 1`
	return r.getOne(ctx, query, socialAccountID, postID)
}

func (r *postAnalyticsRepository) GetRichestByPostID(ctx context.Context, socialAccountID int64, postID string) (*models.PostAnalyticsRecord, error) {
	query := `SELECT ` + postAnalyticsColumns + `
		FROM post_analytics
		WHERE social_account_id = $1 AND post_id = $2 AND raw_insights IS NOT NULL
		ORDER BY recorded_at DESC LIMIT 1`
	return r.getOne(ctx, query, socialAccountID, postID)
}

func (r *postAnalyticsRepository) getOne(ctx context.Context, query string, socialAccountID int64, postID string) (*models.PostAnalyticsRecord, error) {
	row := r.db.QueryRowContext(ctx, query, socialAccountID, postID)

	rec, err := scanPostAnalytics(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return rec, nil
}

func (r *postAnalyticsRepository) ListByAccountSince(ctx context.Context, socialAccountID int64, since time.Time) ([]*models.PostAnalyticsRecord, error) {
	query := `SELECT ` + postAnalyticsColumns + `
		FROM post_analytics
		WHERE social_account_id = $1 AND published_at >= $2
		ORDER BY recorded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, socialAccountID, since)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.PostAnalyticsRecord
	for rows.Next() {
		rec, err := scanPostAnalytics(rows.Scan)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return records, nil
}

func scanPostAnalytics(scan func(...interface{}) error) (*models.PostAnalyticsRecord, error) {
	var rec models.PostAnalyticsRecord
	var raw []byte
	err := scan(&rec.ID, &rec.SocialAccountID, &rec.PostID, &rec.Likes, &rec.Comments,
		&rec.Shares, &rec.Saves, &rec.Reach, &rec.Impressions, &rec.Clicks,
		&rec.EngagementRate, &rec.ContentFormat, &raw,
		&rec.PublishedAt, &rec.RecordedAt, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.RawInsights = raw
	return &rec, nil
}
