package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maheshrc27/pulseboard/internal/transfer"
)

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name     string
		syncCtx  transfer.SyncContext
		expected transfer.Strategy
	}{
		{
			name: "fresh account gets full historical",
			syncCtx: transfer.SyncContext{
				IsNewAccount:            true,
				NeedsHistoricalData:     true,
				DaysSinceLastCollection: 0,
			},
			expected: transfer.StrategyFullHistorical,
		},
		{
			name: "new account beats the incremental shortcut",
			syncCtx: transfer.SyncContext{
				IsNewAccount:            true,
				NeedsHistoricalData:     true,
				DaysSinceLastCollection: 1,
			},
			expected: transfer.StrategyFullHistorical,
		},
		{
			name:     "synced today",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 0},
			expected: transfer.StrategyIncrementalDaily,
		},
		{
			name:     "one day behind",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 1},
			expected: transfer.StrategyIncrementalDaily,
		},
		{
			name:     "two days behind",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 2},
			expected: transfer.StrategySmartAdaptive,
		},
		{
			name:     "seven days behind",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 7},
			expected: transfer.StrategySmartAdaptive,
		},
		{
			name:     "eight days behind",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 8},
			expected: transfer.StrategyGapFilling,
		},
		{
			name:     "badly stale account",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 45},
			expected: transfer.StrategyGapFilling,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectStrategy(tt.syncCtx))
		})
	}
}

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		name     string
		syncCtx  transfer.SyncContext
		expected transfer.Urgency
	}{
		{
			name:     "new account",
			syncCtx:  transfer.SyncContext{IsNewAccount: true},
			expected: transfer.UrgencyHigh,
		},
		{
			name:     "synced today",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 0},
			expected: transfer.UrgencyLow,
		},
		{
			name:     "one day behind",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 1},
			expected: transfer.UrgencyLow,
		},
		{
			name:     "three days behind",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 3},
			expected: transfer.UrgencyMedium,
		},
		{
			name:     "seven days behind",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 7},
			expected: transfer.UrgencyHigh,
		},
		{
			name:     "eight days behind",
			syncCtx:  transfer.SyncContext{DaysSinceLastCollection: 8},
			expected: transfer.UrgencyCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyUrgency(tt.syncCtx))
		})
	}
}

func TestEstimateDataPoints(t *testing.T) {
	syncCtx := transfer.SyncContext{DaysSinceLastCollection: 4}

	assert.Equal(t, 12, estimateDataPoints(transfer.StrategyIncrementalDaily, syncCtx, 30))
	assert.Equal(t, 60, estimateDataPoints(transfer.StrategySmartAdaptive, syncCtx, 30))
	assert.Equal(t, 360, estimateDataPoints(transfer.StrategyFullHistorical, syncCtx, 30))
	assert.Equal(t, 48, estimateDataPoints(transfer.StrategyGapFilling, syncCtx, 30))
}

func TestAdaptiveWindowDays(t *testing.T) {
	assert.Equal(t, 3, adaptiveWindowDays(transfer.SyncContext{DaysSinceLastCollection: 2}))
	assert.Equal(t, 7, adaptiveWindowDays(transfer.SyncContext{DaysSinceLastCollection: 7}))
	assert.Equal(t, 7, adaptiveWindowDays(transfer.SyncContext{DaysSinceLastCollection: 40}))
}

func TestGapWindowDays(t *testing.T) {
	assert.Equal(t, 1, gapWindowDays(transfer.SyncContext{DaysSinceLastCollection: 0}))
	assert.Equal(t, 5, gapWindowDays(transfer.SyncContext{DaysSinceLastCollection: 5}))
	assert.Equal(t, 7, gapWindowDays(transfer.SyncContext{DaysSinceLastCollection: 12}))
}

func TestNextSyncAfter(t *testing.T) {
	now := time.Now()

	assert.Equal(t, now.Add(24*time.Hour), nextSyncAfter(transfer.StrategyIncrementalDaily, now))
	assert.Equal(t, now.Add(24*time.Hour), nextSyncAfter(transfer.StrategyFullHistorical, now))
	assert.Equal(t, now.Add(12*time.Hour), nextSyncAfter(transfer.StrategyGapFilling, now))
}
