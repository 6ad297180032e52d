package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/pulseboard/internal/models"
)

type HotspotRepository interface {
	// ReplaceForAccount swaps the account's entire grid in one
	// transaction. Readers never observe an empty or half-replaced grid.
	ReplaceForAccount(ctx context.Context, socialAccountID int64, cells []*models.EngagementHotspot) error
	ListByAccount(ctx context.Context, socialAccountID int64) ([]*models.EngagementHotspot, error)
}

type hotspotRepository struct {
	db *sql.DB
}

func NewHotspotRepository(db *sql.DB) HotspotRepository {
	return &hotspotRepository{db: db}
}

func (r *hotspotRepository) ReplaceForAccount(ctx context.Context, socialAccountID int64, cells []*models.EngagementHotspot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM engagement_hotspots WHERE social_account_id = $1`, socialAccountID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO engagement_hotspots (social_account_id, day_of_week, hour_of_day, score, post_count)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer stmt.Close()

	for _, cell := range cells {
		_, err = stmt.ExecContext(ctx, socialAccountID, cell.DayOfWeek, cell.HourOfDay, cell.Score, cell.PostCount)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *hotspotRepository) ListByAccount(ctx context.Context, socialAccountID int64) ([]*models.EngagementHotspot, error) {
	query := `SELECT id, social_account_id, day_of_week, hour_of_day, score, post_count, created_at
		FROM engagement_hotspots
		WHERE social_account_id = $1
		ORDER BY day_of_week, hour_of_day`

	rows, err := r.db.QueryContext(ctx, query, socialAccountID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var cells []*models.EngagementHotspot
	for rows.Next() {
		var cell models.EngagementHotspot
		err := rows.Scan(&cell.ID, &cell.SocialAccountID, &cell.DayOfWeek, &cell.HourOfDay,
			&cell.Score, &cell.PostCount, &cell.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		cells = append(cells, &cell)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return cells, nil
}
