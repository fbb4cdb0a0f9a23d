package analytics

import (
	"testing"

	"github.com/leadforge/campaign-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPeriod(t *testing.T, start, end string) Period {
	t.Helper()
	p, err := NewPeriod("test", start, end)
	require.NoError(t, err)
	return p
}

func TestAggregateSingleRecord(t *testing.T) {
	records := []models.StatRecord{
		{ID: "r1", CampaignID: "c1", Date: "2024-06-01", Leads: 10, Cases: 2, Revenue: 2000, AdSpend: 500},
	}

	res := Aggregate(records, mustPeriod(t, "2024-06-01", "2024-06-01"))

	assert.Equal(t, PeriodTotals{AdSpend: 500, Leads: 10, Cases: 2, Revenue: 2000}, res.Totals)
	assert.Equal(t, 1, res.Included)
	assert.Empty(t, res.Excluded)
}

func TestAggregateNoOverlap(t *testing.T) {
	records := []models.StatRecord{
		{ID: "r1", Date: "2024-06-01", Leads: 10, Cases: 2, Revenue: 2000, AdSpend: 500},
	}

	res := Aggregate(records, mustPeriod(t, "2024-06-02", "2024-06-02"))

	assert.Equal(t, PeriodTotals{}, res.Totals)
	assert.Zero(t, res.Included)
}

func TestAggregateBoundariesInclusive(t *testing.T) {
	records := []models.StatRecord{
		{ID: "a", Date: "2024-03-05", Leads: 1},
		{ID: "b", Date: "2024-03-10", Leads: 2},
		{ID: "c", Date: "2024-03-11", Leads: 4}, // outside
		{ID: "d", Date: "2024-03-04", Leads: 8}, // outside
	}

	res := Aggregate(records, mustPeriod(t, "2024-03-05", "2024-03-10"))

	assert.Equal(t, 3, res.Totals.Leads)
	assert.Equal(t, 2, res.Included)
}

func TestAggregateInvertedPeriod(t *testing.T) {
	records := []models.StatRecord{
		{ID: "r1", Date: "2024-06-01", Leads: 10, Revenue: 100, AdSpend: 50},
	}

	res := Aggregate(records, Period{StartDate: "2024-06-10", EndDate: "2024-06-01"})

	assert.Equal(t, PeriodTotals{}, res.Totals)
}

func TestAggregateEmptyRecords(t *testing.T) {
	res := Aggregate(nil, mustPeriod(t, "2024-06-01", "2024-06-30"))
	assert.Equal(t, PeriodTotals{}, res.Totals)
	assert.Zero(t, res.Included)
}

func TestAggregateExcludesMalformed(t *testing.T) {
	records := []models.StatRecord{
		{ID: "good", Date: "2024-06-01", Leads: 5, Revenue: 100, AdSpend: 20},
		{ID: "bad-date", Date: "06/02/2024", Leads: 100},
		{ID: "negative", Date: "2024-06-01", AdSpend: -50},
	}

	res := Aggregate(records, mustPeriod(t, "2024-06-01", "2024-06-30"))

	assert.Equal(t, PeriodTotals{AdSpend: 20, Leads: 5, Revenue: 100}, res.Totals)
	require.Len(t, res.Excluded, 2)
	assert.Equal(t, "bad-date", res.Excluded[0].ID)
	assert.Equal(t, "unparseable date", res.Excluded[0].Reason)
	assert.Equal(t, "negative", res.Excluded[1].ID)
	assert.Equal(t, "negative field", res.Excluded[1].Reason)
}

func TestAggregateOutsideWindowNotReported(t *testing.T) {
	records := []models.StatRecord{
		{ID: "in-window", Date: "2024-06-05", Leads: 5, AdSpend: 20},
		{ID: "negative-outside", Date: "2024-05-01", AdSpend: -50},
		{ID: "bad-date", Date: "garbage", Leads: 1},
	}

	res := Aggregate(records, mustPeriod(t, "2024-06-01", "2024-06-30"))

	// A negative record outside the window could never contribute, so
	// it is skipped silently; only the unparseable date is reported.
	assert.Equal(t, PeriodTotals{AdSpend: 20, Leads: 5}, res.Totals)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "bad-date", res.Excluded[0].ID)
}

func TestAggregateIdempotent(t *testing.T) {
	records := []models.StatRecord{
		{ID: "r1", Date: "2024-06-01", Leads: 3, Cases: 1, Revenue: 900, AdSpend: 250},
		{ID: "r2", Date: "2024-06-02", Leads: 7, Cases: 2, Revenue: 1400, AdSpend: 310},
	}
	p := mustPeriod(t, "2024-06-01", "2024-06-30")

	first := Aggregate(records, p)
	second := Aggregate(records, p)

	assert.Equal(t, first, second)
}

func TestAggregateAdditivity(t *testing.T) {
	records := []models.StatRecord{
		{ID: "r1", Date: "2024-06-01", Leads: 3, Cases: 1, Revenue: 900, AdSpend: 250},
		{ID: "r2", Date: "2024-06-05", Leads: 7, Cases: 2, Revenue: 1400, AdSpend: 310},
		{ID: "r3", Date: "2024-06-20", Leads: 2, Cases: 0, Revenue: 0, AdSpend: 90},
	}

	a := Aggregate(records, mustPeriod(t, "2024-06-01", "2024-06-10")).Totals
	b := Aggregate(records, mustPeriod(t, "2024-06-11", "2024-06-30")).Totals
	c := Aggregate(records, mustPeriod(t, "2024-06-01", "2024-06-30")).Totals

	assert.Equal(t, c.AdSpend, a.AdSpend+b.AdSpend)
	assert.Equal(t, c.Leads, a.Leads+b.Leads)
	assert.Equal(t, c.Cases, a.Cases+b.Cases)
	assert.Equal(t, c.Revenue, a.Revenue+b.Revenue)
}

func TestAggregateCampaignSnapshotMode(t *testing.T) {
	c := &models.Campaign{
		ID:          "c1",
		ManualStats: models.ManualStats{Leads: 42, Cases: 6, Revenue: 18000},
		AdSpend:     4000,
		StatsHistory: []models.StatRecord{
			{ID: "r1", Date: "2024-06-01", Leads: 1, Revenue: 5, AdSpend: 5},
		},
	}

	// Snapshot mode ignores history and the period entirely.
	res := AggregateCampaign(c, ModeSnapshot, Period{})
	assert.Equal(t, PeriodTotals{AdSpend: 4000, Leads: 42, Cases: 6, Revenue: 18000}, res.Totals)

	// History mode sums the per-day rows.
	res = AggregateCampaign(c, ModeHistory, mustPeriod(t, "2024-06-01", "2024-06-30"))
	assert.Equal(t, PeriodTotals{AdSpend: 5, Leads: 1, Revenue: 5}, res.Totals)
}

func TestAggregateCampaignNil(t *testing.T) {
	res := AggregateCampaign(nil, ModeHistory, Period{})
	assert.Equal(t, AggregateResult{}, res)
}
