package analytics

import "math"

// SpendRecommendation is the advisor's output for one campaign.
type SpendRecommendation struct {
	OptimalSpend float64 `json:"optimal_spend"`
	// Recommendation is one of "increase", "maintain", "decrease".
	Recommendation string `json:"recommendation"`
	// Confidence in [0, 1].
	Confidence float64 `json:"confidence"`
	// ProjectedLeadIncrease is the expected % change in daily leads at
	// the recommended spend.  Negative when spend should come down.
	ProjectedLeadIncrease float64 `json:"projected_lead_increase"`
}

// EfficiencyModel maps current spend and efficiency to a recommended
// daily spend.  Efficiency is the revenue multiple on spend (3.0 means
// revenue is 3x spend, i.e. 300% ROI).  The model is deliberately
// pluggable: the curve is a product decision, and swapping it must not
// touch aggregation or metric derivation.
type EfficiencyModel interface {
	OptimalSpend(currentSpend, efficiency float64) float64
}

// DiminishingReturnsModel assumes lead volume scales with the square
// root of spend, so marginal efficiency falls as spend rises.  It
// scales spend toward the point where efficiency would land on the
// target multiple: optimal = spend * sqrt(efficiency / target).
type DiminishingReturnsModel struct {
	// TargetEfficiency is the revenue multiple the model steers toward.
	TargetEfficiency float64
}

// DefaultTargetEfficiency lines up with the "excellent" ROI tier.
const DefaultTargetEfficiency = 3.0

func (m DiminishingReturnsModel) OptimalSpend(currentSpend, efficiency float64) float64 {
	target := m.TargetEfficiency
	if target <= 0 {
		target = DefaultTargetEfficiency
	}
	if currentSpend <= 0 || efficiency <= 0 {
		return 0
	}
	return currentSpend * math.Sqrt(efficiency/target)
}

// SpendAdvisor turns the model's optimal spend into an actionable
// classification.
type SpendAdvisor struct {
	model EfficiencyModel
}

// NewSpendAdvisor constructs an advisor.  A nil model gets the default
// diminishing-returns curve.
func NewSpendAdvisor(model EfficiencyModel) *SpendAdvisor {
	if model == nil {
		model = DiminishingReturnsModel{TargetEfficiency: DefaultTargetEfficiency}
	}
	return &SpendAdvisor{model: model}
}

// Band around current spend inside which the advice is "maintain".
const maintainBand = 0.10

// Recommend produces a spend recommendation, or nil when there is no
// spend to extrapolate from.  Efficiency is revenue/adSpend from the
// current window (DeriveMetrics ROI / 100).
func (a *SpendAdvisor) Recommend(currentSpend, efficiency float64) *SpendRecommendation {
	if currentSpend <= 0 {
		return nil
	}

	optimal := a.model.OptimalSpend(currentSpend, efficiency)
	if optimal <= 0 {
		// Spending with no revenue at all: pull back hard.
		return &SpendRecommendation{
			OptimalSpend:          currentSpend * 0.5,
			Recommendation:        "decrease",
			Confidence:            0.5,
			ProjectedLeadIncrease: leadChangePct(currentSpend, currentSpend*0.5),
		}
	}

	rec := "maintain"
	ratio := optimal / currentSpend
	switch {
	case ratio > 1+maintainBand:
		rec = "increase"
	case ratio < 1-maintainBand:
		rec = "decrease"
	}

	// The further the optimum sits from current spend, the more
	// confident the call; capped well below certainty since the curve
	// is an estimate.
	confidence := 0.5 + math.Min(0.45, math.Abs(ratio-1))

	return &SpendRecommendation{
		OptimalSpend:          optimal,
		Recommendation:        rec,
		Confidence:            confidence,
		ProjectedLeadIncrease: leadChangePct(currentSpend, optimal),
	}
}

// leadChangePct projects the % change in lead volume when moving from
// one spend level to another under the sqrt response assumption.
func leadChangePct(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (math.Sqrt(to/from) - 1) * 100
}
