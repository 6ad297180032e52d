package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/pulseboard/internal/models"
)

type SyncRunLogRepository interface {
	Create(ctx context.Context, run *models.SyncRunLog) (int64, error)
	HasSuccessSince(ctx context.Context, name string, since time.Time) (bool, error)
	ListByName(ctx context.Context, name string, limit int) ([]*models.SyncRunLog, error)
}

type syncRunLogRepository struct {
	db *sql.DB
}

func NewSyncRunLogRepository(db *sql.DB) SyncRunLogRepository {
	return &syncRunLogRepository{db: db}
}

func (r *syncRunLogRepository) Create(ctx context.Context, run *models.SyncRunLog) (int64, error) {
	query := `
		INSERT INTO sync_run_logs (name, status, message, executed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	executedAt := run.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, run.Name, run.Status, run.Message, executedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *syncRunLogRepository) HasSuccessSince(ctx context.Context, name string, since time.Time) (bool, error) {
	query := `SELECT 1 FROM sync_run_logs
		WHERE name = $1 AND status = $2 AND executed_at >= $3
		LIMIT 1`

	var result int
	err := r.db.QueryRowContext(ctx, query, name, models.RunStatusSuccess, since).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *syncRunLogRepository) ListByName(ctx context.Context, name string, limit int) ([]*models.SyncRunLog, error) {
	query := `SELECT id, name, status, message, executed_at FROM sync_run_logs
		WHERE name = $1
		ORDER BY executed_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, name, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var runs []*models.SyncRunLog
	for rows.Next() {
		var run models.SyncRunLog
		err := rows.Scan(&run.ID, &run.Name, &run.Status, &run.Message, &run.ExecutedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return runs, nil
}
