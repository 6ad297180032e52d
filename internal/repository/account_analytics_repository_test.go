package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/maheshrc27/pulseboard/internal/models"
)

func testAnalyticsRecord() *models.AccountAnalyticsRecord {
	return &models.AccountAnalyticsRecord{
		SocialAccountID: 1,
		Followers:       500,
		MediaCount:      10,
		EngagementRate:  1.5,
		Reach:           100,
		Impressions:     200,
		Likes:           50,
		Comments:        10,
		Shares:          5,
		Saves:           2,
		RecordedAt:      time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC),
	}
}

func expectSafeCreateArgs(e *sqlmock.ExpectedExec, rec *models.AccountAnalyticsRecord) *sqlmock.ExpectedExec {
	return e.WithArgs(
		rec.SocialAccountID, rec.Followers, rec.MediaCount, rec.EngagementRate,
		rec.Reach, rec.Impressions, rec.Likes, rec.Comments, rec.Shares, rec.Saves,
		rec.PrevFollowers, rec.FollowerGrowth, rec.PrevEngagement, rec.EngagementDelta,
		rec.RecordedAt,
	)
}

func TestSafeCreate_MergeUpsertsOnSameDayConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rec := testAnalyticsRecord()
	expectSafeCreateArgs(
		mock.ExpectExec(`(?s)ON CONFLICT \(social_account_id, recorded_on\) DO UPDATE SET.*GREATEST\(account_analytics\.reach, EXCLUDED\.reach\)`),
		rec,
	).WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewAccountAnalyticsRepository(db)
	err = repo.SafeCreate(context.Background(), rec, models.SafeWriteOptions{
		AllowSameDayUpdate: true,
		MergeWithExisting:  true,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeCreate_DefaultIgnoresSameDayConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rec := testAnalyticsRecord()
	expectSafeCreateArgs(
		mock.ExpectExec(`ON CONFLICT \(social_account_id, recorded_on\) DO NOTHING`),
		rec,
	).WillReturnResult(sqlmock.NewResult(1, 0))

	repo := NewAccountAnalyticsRepository(db)
	err = repo.SafeCreate(context.Background(), rec, models.SafeWriteOptions{})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeCreate_DayColumnDerivedInUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rec := testAnalyticsRecord()
	expectSafeCreateArgs(
		mock.ExpectExec(`\(\$15 AT TIME ZONE 'UTC'\)::date`),
		rec,
	).WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewAccountAnalyticsRepository(db)
	err = repo.SafeCreate(context.Background(), rec, models.SafeWriteOptions{
		AllowSameDayUpdate: true,
		MergeWithExisting:  true,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DayColumnDerivedInUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rec := testAnalyticsRecord()
	mock.ExpectQuery(`\(\$15 AT TIME ZONE 'UTC'\)::date`).
		WithArgs(
			rec.SocialAccountID, rec.Followers, rec.MediaCount, rec.EngagementRate,
			rec.Reach, rec.Impressions, rec.Likes, rec.Comments, rec.Shares, rec.Saves,
			rec.PrevFollowers, rec.FollowerGrowth, rec.PrevEngagement, rec.EngagementDelta,
			rec.RecordedAt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := NewAccountAnalyticsRepository(db)
	id, err := repo.Create(context.Background(), rec)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
