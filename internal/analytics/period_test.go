package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriodRejectsBadDates(t *testing.T) {
	_, err := NewPeriod("x", "2024-13-01", "2024-12-31")
	assert.Error(t, err)

	_, err = NewPeriod("x", "2024-06-01", "June 30")
	assert.Error(t, err)
}

func TestPeriodContains(t *testing.T) {
	p := Period{StartDate: "2024-03-05", EndDate: "2024-03-10"}

	assert.True(t, p.Contains("2024-03-05"))
	assert.True(t, p.Contains("2024-03-10"))
	assert.True(t, p.Contains("2024-03-07"))
	assert.False(t, p.Contains("2024-03-04"))
	assert.False(t, p.Contains("2024-03-11"))
}

func TestPeriodValid(t *testing.T) {
	assert.True(t, Period{StartDate: "2024-06-01", EndDate: "2024-06-01"}.Valid())
	assert.False(t, Period{StartDate: "2024-06-02", EndDate: "2024-06-01"}.Valid())
	assert.False(t, Period{}.Valid())
}

func TestPresetPeriods(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		key        PresetKey
		start, end string
	}{
		{PresetThisWeek, "2024-06-10", "2024-06-12"}, // week starts Monday
		{PresetLastWeek, "2024-06-03", "2024-06-09"},
		{PresetTwoWeeksAgo, "2024-05-27", "2024-06-02"},
		{PresetThreeWeeksAgo, "2024-05-20", "2024-05-26"},
		{PresetThisMonth, "2024-06-01", "2024-06-12"},
		{PresetLastMonth, "2024-05-01", "2024-05-31"},
		{PresetTwoMonthsAgo, "2024-04-01", "2024-04-30"},
		{PresetLast7Days, "2024-06-06", "2024-06-12"},
		{PresetLast30Days, "2024-05-14", "2024-06-12"},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			p, err := PresetPeriod(tt.key, now)
			require.NoError(t, err)
			assert.Equal(t, tt.start, p.StartDate)
			assert.Equal(t, tt.end, p.EndDate)
			assert.True(t, p.Valid())
		})
	}
}

func TestPresetPeriodOnMonday(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	p, err := PresetPeriod(PresetThisWeek, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", p.StartDate)
	assert.Equal(t, "2024-06-10", p.EndDate)
}

func TestPresetPeriodUnknownKey(t *testing.T) {
	_, err := PresetPeriod(PresetKey("quarter"), time.Now())
	assert.Error(t, err)
}

func TestPresetPairLast7Days(t *testing.T) {
	now := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	base, compare, err := PresetPair(PresetLast7Days, now)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-06", base.StartDate)
	assert.Equal(t, "2024-06-12", base.EndDate)
	assert.Equal(t, "2024-05-30", compare.StartDate)
	assert.Equal(t, "2024-06-05", compare.EndDate)
}

func TestPresetPairThisWeekVsLastWeek(t *testing.T) {
	now := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	base, compare, err := PresetPair(PresetThisWeek, now)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", base.StartDate)
	assert.Equal(t, "2024-06-03", compare.StartDate)
	assert.Equal(t, "2024-06-09", compare.EndDate)
}

func TestPresetNotCachedAcrossDays(t *testing.T) {
	day1 := time.Date(2024, 6, 12, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 13, 1, 0, 0, 0, time.UTC)

	p1, err := PresetPeriod(PresetLast7Days, day1)
	require.NoError(t, err)
	p2, err := PresetPeriod(PresetLast7Days, day2)
	require.NoError(t, err)

	assert.NotEqual(t, p1.EndDate, p2.EndDate)
}
