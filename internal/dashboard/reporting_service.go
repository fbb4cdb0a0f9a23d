package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/leadforge/campaign-api/internal/analytics"
	"github.com/leadforge/campaign-api/internal/metrics"
	"github.com/leadforge/campaign-api/internal/models"
	"github.com/leadforge/campaign-api/internal/storage"
	"go.uber.org/zap"
)

// MetricsReport is the full reporting payload for one campaign and
// window: totals, derived metrics, tier and display strings.
type MetricsReport struct {
	CampaignID string                     `json:"campaign_id"`
	Mode       analytics.AggregationMode  `json:"mode"`
	Period     *analytics.Period          `json:"period,omitempty"`
	Totals     analytics.PeriodTotals     `json:"totals"`
	Metrics    analytics.DerivedMetrics   `json:"metrics"`
	Tier       analytics.PerformanceTier  `json:"tier"`
	ROAS       string                     `json:"roas_display"`
	Excluded   []analytics.ExcludedRecord `json:"excluded_records,omitempty"`
	Cached     bool                       `json:"cached"`
}

// ComparisonReport pairs the numeric comparison with the display-level
// trend indicators.
type ComparisonReport struct {
	analytics.ComparisonResult
	Trends map[string]string `json:"trends"`
}

// PresetInfo is one date-picker preset resolved to concrete dates.
type PresetInfo struct {
	Key       analytics.PresetKey `json:"key"`
	Label     string              `json:"label"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
}

// ReportingService is the read side of the dashboard: it feeds stat
// history through the analytics engine and memoizes derived metrics in
// the injected cache.
type ReportingService struct {
	campaigns storage.CampaignRepo
	stats     storage.StatRepo
	cache     analytics.MetricsCache
	advisor   *analytics.SpendAdvisor
	metrics   *metrics.Metrics // optional
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportingService constructs a ReportingService.  m may be nil.
func NewReportingService(
	campaigns storage.CampaignRepo,
	stats storage.StatRepo,
	cache analytics.MetricsCache,
	advisor *analytics.SpendAdvisor,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ReportingService {
	return &ReportingService{
		campaigns: campaigns,
		stats:     stats,
		cache:     cache,
		advisor:   advisor,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source.  Test hook.
func (s *ReportingService) WithClock(now func() time.Time) *ReportingService {
	s.now = now
	return s
}

// CampaignMetrics computes the metrics report for a campaign.  With an
// empty range it falls back to the legacy snapshot fields; with a range
// it aggregates stat history over the window, consulting the
// derived-metrics cache first.
func (s *ReportingService) CampaignMetrics(ctx context.Context, campaignID string, rng models.DateRange) (*MetricsReport, error) {
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if rng.IsZero() {
		res := analytics.AggregateCampaign(c, analytics.ModeSnapshot, analytics.Period{})
		if s.metrics != nil {
			s.metrics.RecordComputation(string(analytics.ModeSnapshot))
		}
		return s.buildReport(campaignID, analytics.ModeSnapshot, nil, res, false), nil
	}

	period, err := analytics.NewPeriod("Custom Range", rng.StartDate, rng.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date range: %w", err)
	}

	records, err := s.stats.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	res := analytics.Aggregate(records, period)
	s.reportExcluded(campaignID, res.Excluded)

	if cached, ok := s.cache.Get(ctx, campaignID, period.StartDate, period.EndDate); ok {
		if s.metrics != nil {
			s.metrics.RecordCacheHit(true)
		}
		report := s.buildReport(campaignID, analytics.ModeHistory, &period, res, true)
		report.Metrics = cached
		return report, nil
	}
	if s.metrics != nil {
		s.metrics.RecordCacheHit(false)
		s.metrics.RecordComputation(string(analytics.ModeHistory))
	}

	report := s.buildReport(campaignID, analytics.ModeHistory, &period, res, false)
	s.cache.Set(ctx, campaignID, period.StartDate, period.EndDate, report.Metrics)
	return report, nil
}

func (s *ReportingService) buildReport(campaignID string, mode analytics.AggregationMode, period *analytics.Period, res analytics.AggregateResult, cached bool) *MetricsReport {
	m := analytics.DeriveMetrics(res.Totals)
	return &MetricsReport{
		CampaignID: campaignID,
		Mode:       mode,
		Period:     period,
		Totals:     res.Totals,
		Metrics:    m,
		Tier:       analytics.Tier(m.ROI),
		ROAS:       analytics.FormatROAS(res.Totals),
		Excluded:   res.Excluded,
		Cached:     cached,
	}
}

func (s *ReportingService) reportExcluded(campaignID string, excluded []analytics.ExcludedRecord) {
	for _, ex := range excluded {
		s.logger.Warn("stat record excluded from aggregation",
			zap.String("campaign_id", campaignID),
			zap.String("record_id", ex.ID),
			zap.String("date", ex.Date),
			zap.String("reason", ex.Reason),
		)
		if s.metrics != nil {
			s.metrics.RecordExcluded(campaignID, ex.Reason)
		}
	}
}

// ComparePeriods compares two arbitrary windows of one campaign.
func (s *ReportingService) ComparePeriods(ctx context.Context, campaignID string, base, compare analytics.Period) (*ComparisonReport, error) {
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	records, err := s.stats.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	result := analytics.Compare(records, base, compare)
	if s.metrics != nil {
		s.metrics.RecordComparison()
	}

	trends := make(map[string]string, len(result.Changes))
	for name, change := range result.Changes {
		trends[name] = analytics.TrendIndicator(change)
	}
	return &ComparisonReport{ComparisonResult: result, Trends: trends}, nil
}

// ComparePreset compares a preset window against its natural
// predecessor (this week vs last week, and so on), resolved at call
// time.
func (s *ReportingService) ComparePreset(ctx context.Context, campaignID string, key analytics.PresetKey) (*ComparisonReport, error) {
	base, compare, err := analytics.PresetPair(key, s.now())
	if err != nil {
		return nil, err
	}
	return s.ComparePeriods(ctx, campaignID, base, compare)
}

// Presets resolves the full preset catalogue against the current date.
func (s *ReportingService) Presets() []PresetInfo {
	now := s.now()
	infos := make([]PresetInfo, 0, len(analytics.PresetKeys))
	for _, key := range analytics.PresetKeys {
		p, err := analytics.PresetPeriod(key, now)
		if err != nil {
			continue
		}
		infos = append(infos, PresetInfo{Key: key, Label: p.Label, StartDate: p.StartDate, EndDate: p.EndDate})
	}
	return infos
}

// SpendAdvice produces a spend recommendation from the campaign's
// recent efficiency.  With an empty range the last 30 days are used.
// Returns nil with no error when there is no spend to extrapolate from.
func (s *ReportingService) SpendAdvice(ctx context.Context, campaignID string, rng models.DateRange) (*analytics.SpendRecommendation, error) {
	if rng.IsZero() {
		p, err := analytics.PresetPeriod(analytics.PresetLast30Days, s.now())
		if err != nil {
			return nil, err
		}
		rng = models.DateRange{StartDate: p.StartDate, EndDate: p.EndDate}
	}

	report, err := s.CampaignMetrics(ctx, campaignID, rng)
	if err != nil {
		return nil, err
	}

	rec := s.advisor.Recommend(report.Totals.AdSpend, report.Metrics.ROI/100)
	if rec != nil && s.metrics != nil {
		s.metrics.RecordSpendAdvice(rec.Recommendation)
	}
	return rec, nil
}
