package service

import (
	"time"

	"github.com/maheshrc27/pulseboard/internal/transfer"
)

const (
	maxAdaptiveDays = 7
	maxGapRepairs   = 5
)

// SelectStrategy maps a sync context to a collection strategy. Pure
// function; the precedence order is load-bearing.
func SelectStrategy(c transfer.SyncContext) transfer.Strategy {
	switch {
	case c.IsNewAccount && c.NeedsHistoricalData:
		return transfer.StrategyFullHistorical
	case c.DaysSinceLastCollection <= 1:
		return transfer.StrategyIncrementalDaily
	case c.DaysSinceLastCollection <= maxAdaptiveDays:
		return transfer.StrategySmartAdaptive
	default:
		return transfer.StrategyGapFilling
	}
}

// ClassifyUrgency grades how overdue an account is. Feeds dashboards and
// alerting only; strategy selection never consults it.
func ClassifyUrgency(c transfer.SyncContext) transfer.Urgency {
	switch {
	case c.IsNewAccount:
		return transfer.UrgencyHigh
	case c.DaysSinceLastCollection <= 1:
		return transfer.UrgencyLow
	case c.DaysSinceLastCollection <= 3:
		return transfer.UrgencyMedium
	case c.DaysSinceLastCollection <= 7:
		return transfer.UrgencyHigh
	default:
		return transfer.UrgencyCritical
	}
}

// estimateDataPoints is a heuristic sizing figure for dashboards, not a
// measured quantity.
func estimateDataPoints(strategy transfer.Strategy, c transfer.SyncContext, historicalDays int) int {
	const pointsPerDay = 12

	switch strategy {
	case transfer.StrategyIncrementalDaily:
		return pointsPerDay
	case transfer.StrategySmartAdaptive:
		return adaptiveWindowDays(c) * pointsPerDay
	case transfer.StrategyFullHistorical:
		return historicalDays * pointsPerDay
	default:
		return gapWindowDays(c) * pointsPerDay
	}
}

func nextSyncAfter(strategy transfer.Strategy, now time.Time) time.Time {
	switch strategy {
	case transfer.StrategyIncrementalDaily:
		return now.Add(24 * time.Hour)
	case transfer.StrategySmartAdaptive:
		return now.Add(24 * time.Hour)
	case transfer.StrategyFullHistorical:
		return now.Add(24 * time.Hour)
	default:
		return now.Add(12 * time.Hour)
	}
}

func adaptiveWindowDays(c transfer.SyncContext) int {
	days := c.DaysSinceLastCollection + 1
	if days > maxAdaptiveDays {
		days = maxAdaptiveDays
	}
	return days
}

func gapWindowDays(c transfer.SyncContext) int {
	days := c.DaysSinceLastCollection
	if days > maxAdaptiveDays {
		days = maxAdaptiveDays
	}
	if days < 1 {
		days = 1
	}
	return days
}
