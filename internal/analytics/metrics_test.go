package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveMetrics(t *testing.T) {
	m := DeriveMetrics(PeriodTotals{AdSpend: 500, Leads: 10, Cases: 2, Revenue: 2000})

	assert.Equal(t, 1500.0, m.Profit)
	assert.Equal(t, 400.0, m.ROI)
	assert.Equal(t, 400.0, m.ROAS)
	assert.Equal(t, 50.0, m.CostPerLead)
	assert.Equal(t, 250.0, m.CostPerAcquisition)
	assert.Equal(t, 150.0, m.EarningsPerLead)
	assert.Equal(t, 1000.0, m.RevenuePerCase)
	assert.Equal(t, 20.0, m.ConversionRate)
}

func TestDeriveMetricsZeroSafety(t *testing.T) {
	tests := []struct {
		name   string
		totals PeriodTotals
	}{
		{"all zero", PeriodTotals{}},
		{"zero spend with revenue", PeriodTotals{Revenue: 1000, Leads: 5}},
		{"zero leads", PeriodTotals{AdSpend: 300, Revenue: 100}},
		{"zero cases", PeriodTotals{AdSpend: 300, Leads: 10, Revenue: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DeriveMetrics(tt.totals)
			for name, v := range map[string]float64{
				"profit":             m.Profit,
				"roi":                m.ROI,
				"roas":               m.ROAS,
				"costPerLead":        m.CostPerLead,
				"costPerAcquisition": m.CostPerAcquisition,
				"earningsPerLead":    m.EarningsPerLead,
				"revenuePerCase":     m.RevenuePerCase,
				"conversionRate":     m.ConversionRate,
			} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s must be finite, got %v", name, v)
			}
		})
	}
}

func TestDeriveMetricsROIZeroSpendFallback(t *testing.T) {
	// Numeric ROI stays 0 on zero spend even with revenue; only the
	// display string shows infinity.
	m := DeriveMetrics(PeriodTotals{AdSpend: 0, Revenue: 1000, Leads: 5})
	assert.Equal(t, 0.0, m.ROI)
	assert.Equal(t, 0.0, m.ROAS)
}

func TestDeriveMetricsProfitSign(t *testing.T) {
	m := DeriveMetrics(PeriodTotals{AdSpend: 800, Revenue: 500, Leads: 10, Cases: 1})
	assert.Negative(t, m.Profit)
	assert.Less(t, m.ROI, 100.0)
	assert.Negative(t, m.EarningsPerLead)
}

func TestTier(t *testing.T) {
	tests := []struct {
		roi  float64
		want PerformanceTier
	}{
		{400, TierExcellent},
		{301, TierExcellent},
		{300, TierGood}, // threshold is strictly greater-than
		{250, TierGood},
		{200, TierNeedsAttention},
		{100, TierNeedsAttention},
		{0, TierNeedsAttention},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.roi), "roi=%v", tt.roi)
	}
}

func TestFormatROAS(t *testing.T) {
	assert.Equal(t, "∞", FormatROAS(PeriodTotals{AdSpend: 0, Revenue: 1000}))
	assert.Equal(t, "N/A", FormatROAS(PeriodTotals{}))
	assert.Equal(t, "400%", FormatROAS(PeriodTotals{AdSpend: 500, Revenue: 2000}))
}
