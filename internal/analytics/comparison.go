package analytics

import "github.com/leadforge/campaign-api/internal/models"

// ComparisonResult holds the full cross-period delta: totals and
// derived metrics for both windows plus a percentage change per metric.
// Changes is keyed by metric name and covers every DerivedMetrics field
// along with the raw totals (adSpend, leads, cases, revenue).  The base
// period is the current window; the compare period is the reference it
// is measured against.
type ComparisonResult struct {
	BasePeriod    Period  `json:"base_period"`
	ComparePeriod Period  `json:"compare_period"`

	BaseTotals    PeriodTotals `json:"base_totals"`
	CompareTotals PeriodTotals `json:"compare_totals"`

	BaseMetrics    DerivedMetrics `json:"base_metrics"`
	CompareMetrics DerivedMetrics `json:"compare_metrics"`

	Changes map[string]float64 `json:"percentage_changes"`
}

// PercentageChange computes the relative change from previous to
// current, in percent.  A previous of zero is special-cased: zero to
// zero is 0, zero to anything positive is a flat +100.  The result is
// always finite; callers feed it straight into UI thresholds.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

// Compare aggregates and derives metrics for two periods independently
// and reports the percentage change of every metric.  Overlapping
// periods are allowed; each is computed on its own.
func Compare(records []models.StatRecord, basePeriod, comparePeriod Period) ComparisonResult {
	base := Aggregate(records, basePeriod)
	compare := Aggregate(records, comparePeriod)

	baseMetrics := DeriveMetrics(base.Totals)
	compareMetrics := DeriveMetrics(compare.Totals)

	changes := map[string]float64{
		"adSpend": PercentageChange(base.Totals.AdSpend, compare.Totals.AdSpend),
		"leads":   PercentageChange(float64(base.Totals.Leads), float64(compare.Totals.Leads)),
		"cases":   PercentageChange(float64(base.Totals.Cases), float64(compare.Totals.Cases)),
		"revenue": PercentageChange(base.Totals.Revenue, compare.Totals.Revenue),

		"profit":             PercentageChange(baseMetrics.Profit, compareMetrics.Profit),
		"roi":                PercentageChange(baseMetrics.ROI, compareMetrics.ROI),
		"roas":               PercentageChange(baseMetrics.ROAS, compareMetrics.ROAS),
		"costPerLead":        PercentageChange(baseMetrics.CostPerLead, compareMetrics.CostPerLead),
		"costPerAcquisition": PercentageChange(baseMetrics.CostPerAcquisition, compareMetrics.CostPerAcquisition),
		"earningsPerLead":    PercentageChange(baseMetrics.EarningsPerLead, compareMetrics.EarningsPerLead),
		"revenuePerCase":     PercentageChange(baseMetrics.RevenuePerCase, compareMetrics.RevenuePerCase),
		"conversionRate":     PercentageChange(baseMetrics.ConversionRate, compareMetrics.ConversionRate),
	}

	return ComparisonResult{
		BasePeriod:     basePeriod,
		ComparePeriod:  comparePeriod,
		BaseTotals:     base.Totals,
		CompareTotals:  compare.Totals,
		BaseMetrics:    baseMetrics,
		CompareMetrics: compareMetrics,
		Changes:        changes,
	}
}

// TrendDirection is the exact sign of a change.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// Trend returns the direction of a percentage change with no deadband.
func Trend(change float64) TrendDirection {
	switch {
	case change > 0:
		return TrendUp
	case change < 0:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// trendDeadband is how far a change must move before the human-facing
// indicator stops reading "flat".  Presentation nuance only; the
// numeric Changes map is never deadbanded.
const trendDeadband = 5.0

// TrendIndicator renders a change for display: "up" or "down" beyond
// the ±5% deadband, "flat" inside it.
func TrendIndicator(change float64) string {
	switch {
	case change > trendDeadband:
		return "up"
	case change < -trendDeadband:
		return "down"
	default:
		return "flat"
	}
}
