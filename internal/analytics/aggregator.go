package analytics

import (
	"time"

	"github.com/leadforge/campaign-api/internal/models"
)

// PeriodTotals is the field-wise sum of the stat records that fall
// inside a period.
type PeriodTotals struct {
	AdSpend float64 `json:"ad_spend"`
	Leads   int     `json:"leads"`
	Cases   int     `json:"cases"`
	Revenue float64 `json:"revenue"`
}

// AggregationMode selects which view of a campaign feeds the totals.
// History sums the per-day StatsHistory over a period; Snapshot reads
// the legacy single-snapshot fields and ignores the period entirely.
// The snapshot path exists for campaigns created before per-day history
// and must stay behaviorally identical to the old no-range code path.
type AggregationMode string

const (
	ModeHistory  AggregationMode = "history"
	ModeSnapshot AggregationMode = "snapshot"
)

// ExcludedRecord identifies a stat record dropped from an aggregation
// and why.  Exclusions never abort the aggregation; they are surfaced
// so callers can log or flag the anomaly instead of silently folding
// bad rows into a misleading total.
type ExcludedRecord struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// AggregateResult carries the totals plus bookkeeping about what went
// into them.
type AggregateResult struct {
	Totals   PeriodTotals     `json:"totals"`
	Included int              `json:"included"`
	Excluded []ExcludedRecord `json:"excluded,omitempty"`
}

// Aggregate sums the records whose date falls within the period,
// boundaries inclusive.  It is a pure function: same inputs, same
// totals, no hidden state.
//
// Degenerate inputs degrade to zero totals rather than errors: an
// inverted period (start after end) or an empty filtered set both
// produce all-zero totals.  Records with an unparseable date or a
// negative numeric field are excluded and reported in the result.
func Aggregate(records []models.StatRecord, period Period) AggregateResult {
	res := AggregateResult{}
	if !period.Valid() {
		return res
	}

	for _, r := range records {
		// An unparseable date cannot be window-checked, so it is always
		// reported; anything else outside the window is just skipped.
		if _, err := time.Parse(models.DateLayout, r.Date); err != nil {
			res.Excluded = append(res.Excluded, ExcludedRecord{ID: r.ID, Date: r.Date, Reason: "unparseable date"})
			continue
		}
		if !period.Contains(r.Date) {
			continue
		}
		if r.Leads < 0 || r.Cases < 0 || r.Revenue < 0 || r.AdSpend < 0 {
			res.Excluded = append(res.Excluded, ExcludedRecord{ID: r.ID, Date: r.Date, Reason: "negative field"})
			continue
		}
		res.Totals.AdSpend += r.AdSpend
		res.Totals.Leads += r.Leads
		res.Totals.Cases += r.Cases
		res.Totals.Revenue += r.Revenue
		res.Included++
	}
	return res
}

// AggregateCampaign produces totals for a campaign under the given
// mode.  History mode filters and sums StatsHistory; Snapshot mode
// returns the legacy ManualStats/AdSpend fields as-is.
func AggregateCampaign(c *models.Campaign, mode AggregationMode, period Period) AggregateResult {
	if c == nil {
		return AggregateResult{}
	}
	if mode == ModeSnapshot {
		return AggregateResult{
			Totals: PeriodTotals{
				AdSpend: c.AdSpend,
				Leads:   c.ManualStats.Leads,
				Cases:   c.ManualStats.Cases,
				Revenue: c.ManualStats.Revenue,
			},
			Included: 1,
		}
	}
	return Aggregate(c.StatsHistory, period)
}
