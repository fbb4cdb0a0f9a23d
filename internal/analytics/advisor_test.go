package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendNoSpend(t *testing.T) {
	advisor := NewSpendAdvisor(nil)

	assert.Nil(t, advisor.Recommend(0, 4.0))
	assert.Nil(t, advisor.Recommend(-10, 4.0))
}

func TestRecommendIncrease(t *testing.T) {
	advisor := NewSpendAdvisor(nil)

	// Efficiency well above the 3x target: scale up.
	rec := advisor.Recommend(1000, 6.0)
	require.NotNil(t, rec)

	assert.Equal(t, "increase", rec.Recommendation)
	assert.Greater(t, rec.OptimalSpend, 1000.0)
	assert.Positive(t, rec.ProjectedLeadIncrease)
	assert.GreaterOrEqual(t, rec.Confidence, 0.5)
	assert.LessOrEqual(t, rec.Confidence, 0.95)
}

func TestRecommendDecrease(t *testing.T) {
	advisor := NewSpendAdvisor(nil)

	// Barely above break-even: pull spend back toward the target curve.
	rec := advisor.Recommend(1000, 1.2)
	require.NotNil(t, rec)

	assert.Equal(t, "decrease", rec.Recommendation)
	assert.Less(t, rec.OptimalSpend, 1000.0)
	assert.Negative(t, rec.ProjectedLeadIncrease)
}

func TestRecommendMaintain(t *testing.T) {
	advisor := NewSpendAdvisor(nil)

	// At the target efficiency the optimum equals current spend.
	rec := advisor.Recommend(1000, 3.0)
	require.NotNil(t, rec)

	assert.Equal(t, "maintain", rec.Recommendation)
	assert.InDelta(t, 1000.0, rec.OptimalSpend, 1e-9)
	assert.InDelta(t, 0.0, rec.ProjectedLeadIncrease, 1e-9)
}

func TestRecommendZeroEfficiency(t *testing.T) {
	advisor := NewSpendAdvisor(nil)

	// Spending with no revenue: halve the spend.
	rec := advisor.Recommend(1000, 0)
	require.NotNil(t, rec)

	assert.Equal(t, "decrease", rec.Recommendation)
	assert.Equal(t, 500.0, rec.OptimalSpend)
	assert.Negative(t, rec.ProjectedLeadIncrease)
}

type fixedModel struct{ spend float64 }

func (m fixedModel) OptimalSpend(_, _ float64) float64 { return m.spend }

func TestRecommendCustomModel(t *testing.T) {
	advisor := NewSpendAdvisor(fixedModel{spend: 2000})

	rec := advisor.Recommend(1000, 1.0)
	require.NotNil(t, rec)
	assert.Equal(t, "increase", rec.Recommendation)
	assert.Equal(t, 2000.0, rec.OptimalSpend)
}

func TestDiminishingReturnsModel(t *testing.T) {
	m := DiminishingReturnsModel{TargetEfficiency: 3.0}

	assert.InDelta(t, 1000.0, m.OptimalSpend(1000, 3.0), 1e-9)
	assert.Greater(t, m.OptimalSpend(1000, 6.0), 1000.0)
	assert.Less(t, m.OptimalSpend(1000, 1.5), 1000.0)
	assert.Zero(t, m.OptimalSpend(0, 3.0))
}
