package service

import (
	"context"
	"math"
	"time"

	"github.com/maheshrc27/pulseboard/internal/models"
	"github.com/maheshrc27/pulseboard/internal/repository"
)

// CoverageService computes the span and completeness of an account's stored
// analytics history.
type CoverageService interface {
	Analyze(ctx context.Context, socialAccountID int64) (*models.CoverageReport, error)
}

type coverageService struct {
	aa repository.AccountAnalyticsRepository
}

func NewCoverageService(aa repository.AccountAnalyticsRepository) CoverageService {
	return &coverageService{aa: aa}
}

func (s *coverageService) Analyze(ctx context.Context, socialAccountID int64) (*models.CoverageReport, error) {
	earliest, err := s.aa.GetEarliest(ctx, socialAccountID)
	if err != nil {
		return nil, err
	}
	if earliest == nil {
		return &models.CoverageReport{HasData: false, TotalDays: 0, Gaps: []models.CoverageGap{}}, nil
	}

	latest, err := s.aa.GetLatest(ctx, socialAccountID)
	if err != nil {
		return nil, err
	}

	records, err := s.aa.ListByDateRange(ctx, socialAccountID, earliest.RecordedAt, latest.RecordedAt)
	if err != nil {
		return nil, err
	}

	// Presence is tracked per calendar day, not per timestamp.
	covered := make(map[string]bool, len(records))
	for _, rec := range records {
		covered[dayKey(rec.RecordedAt)] = true
	}

	totalDays := int(math.Ceil(latest.RecordedAt.Sub(earliest.RecordedAt).Hours() / 24))

	gaps := findGaps(truncateDay(earliest.RecordedAt), truncateDay(latest.RecordedAt), covered)

	oldest := earliest.RecordedAt
	newest := latest.RecordedAt
	return &models.CoverageReport{
		HasData:    true,
		TotalDays:  totalDays,
		Gaps:       gaps,
		OldestData: &oldest,
		NewestData: &newest,
	}, nil
}

// findGaps walks day by day from first to last and collects every
// contiguous run of uncovered days.
func findGaps(first, last time.Time, covered map[string]bool) []models.CoverageGap {
	gaps := []models.CoverageGap{}

	var gapStart time.Time
	inGap := false

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if covered[dayKey(day)] {
			if inGap {
				gapEnd := day.AddDate(0, 0, -1)
				gaps = append(gaps, models.CoverageGap{
					Start: gapStart,
					End:   gapEnd,
					Days:  int(gapEnd.Sub(gapStart).Hours()/24) + 1,
				})
				inGap = false
			}
			continue
		}
		if !inGap {
			gapStart = day
			inGap = true
		}
	}

	if inGap {
		gaps = append(gaps, models.CoverageGap{
			Start: gapStart,
			End:   last,
			Days:  int(last.Sub(gapStart).Hours()/24) + 1,
		})
	}

	return gaps
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
