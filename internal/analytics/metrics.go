package analytics

import "fmt"

// DerivedMetrics are the ratio and financial metrics computed from one
// period's totals.  Every field is guaranteed finite: all
// divide-by-zero cases resolve to 0 so values stay sortable and safe to
// threshold against.
type DerivedMetrics struct {
	Profit             float64 `json:"profit"`
	ROI                float64 `json:"roi"`  // revenue as % of spend; 100 = break-even
	ROAS               float64 `json:"roas"` // display variant, same scale as ROI
	CostPerLead        float64 `json:"cost_per_lead"`
	CostPerAcquisition float64 `json:"cost_per_acquisition"`
	EarningsPerLead    float64 `json:"earnings_per_lead"` // profit-based, not revenue-based
	RevenuePerCase     float64 `json:"revenue_per_case"`
	ConversionRate     float64 `json:"conversion_rate"` // cases / leads, %
}

// Performance tier thresholds on ROI.  Fixed constants; the dashboard
// color-coding depends on them.
const (
	ROITierExcellent = 300.0
	ROITierGood      = 200.0
)

// PerformanceTier buckets an ROI value for display.
type PerformanceTier string

const (
	TierExcellent      PerformanceTier = "excellent"
	TierGood           PerformanceTier = "good"
	TierNeedsAttention PerformanceTier = "needs_attention"
)

// DeriveMetrics computes all derived metrics from period totals.
//
// ROI on zero spend is defined as 0, not infinity, even when revenue is
// positive.  That keeps the numeric metric finite and on the same scale
// as genuine ratios; a display layer that wants to show "∞" for the
// zero-spend-with-revenue case must special-case it itself (see
// FormatROAS).  Earnings per lead divides profit, not revenue: it is
// net yield per lead.
func DeriveMetrics(t PeriodTotals) DerivedMetrics {
	profit := t.Revenue - t.AdSpend

	m := DerivedMetrics{Profit: profit}
	if t.AdSpend > 0 {
		m.ROI = t.Revenue / t.AdSpend * 100
		m.ROAS = m.ROI
	}
	if t.Leads > 0 {
		m.CostPerLead = t.AdSpend / float64(t.Leads)
		m.EarningsPerLead = profit / float64(t.Leads)
		m.ConversionRate = float64(t.Cases) / float64(t.Leads) * 100
	}
	if t.Cases > 0 {
		m.CostPerAcquisition = t.AdSpend / float64(t.Cases)
		m.RevenuePerCase = t.Revenue / float64(t.Cases)
	}
	return m
}

// Tier classifies an ROI value.
func Tier(roi float64) PerformanceTier {
	switch {
	case roi > ROITierExcellent:
		return TierExcellent
	case roi > ROITierGood:
		return TierGood
	default:
		return TierNeedsAttention
	}
}

// FormatROAS renders ROAS for display.  Zero spend with positive
// revenue shows as "∞", zero spend with zero revenue as "N/A".  The
// numeric ROAS in DerivedMetrics stays 0 in both cases.
func FormatROAS(t PeriodTotals) string {
	if t.AdSpend == 0 {
		if t.Revenue > 0 {
			return "∞"
		}
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", t.Revenue/t.AdSpend*100)
}
