package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leadforge/campaign-api/internal/analytics"
	"github.com/leadforge/campaign-api/internal/metrics"
	"github.com/leadforge/campaign-api/internal/models"
	"github.com/leadforge/campaign-api/internal/storage"
	"go.uber.org/zap"
)

// StatsService owns the write path for per-day stat records.  Every
// mutation invalidates the campaign's derived-metrics cache entries;
// the cache has no TTL, so invalidation is what keeps it honest.
// Rows are also mirrored to the analytical archive when one is
// configured; archive failures are logged and never fail the write.
type StatsService struct {
	stats     storage.StatRepo
	campaigns storage.CampaignRepo
	cache     analytics.MetricsCache
	archive   storage.StatArchive // optional
	metrics   *metrics.Metrics    // optional
	logger    *zap.Logger
}

// NewStatsService constructs a StatsService.  archive and m may be nil.
func NewStatsService(
	stats storage.StatRepo,
	campaigns storage.CampaignRepo,
	cache analytics.MetricsCache,
	archive storage.StatArchive,
	m *metrics.Metrics,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		stats:     stats,
		campaigns: campaigns,
		cache:     cache,
		archive:   archive,
		metrics:   m,
		logger:    logger,
	}
}

// List returns a campaign's stat records ordered by date.
func (s *StatsService) List(ctx context.Context, campaignID string) ([]models.StatRecord, error) {
	return s.stats.ListByCampaign(ctx, campaignID)
}

// Record inserts or replaces the stat record for the record's campaign
// and date.  The campaign must exist.  On success the campaign's cached
// metrics are invalidated.
func (s *StatsService) Record(ctx context.Context, rec *models.StatRecord) (*models.StatRecord, error) {
	if rec == nil {
		return nil, errors.New("stat record is nil")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	c, err := s.campaigns.GetByID(ctx, rec.CampaignID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	existing, err := s.stats.GetByDate(ctx, rec.CampaignID, rec.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Replacing a day keeps the original identity and creation time.
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := s.stats.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, rec.CampaignID)
	if s.metrics != nil {
		s.metrics.RecordStatEntry(rec.CampaignID)
		s.metrics.RecordCacheInvalidation()
	}

	s.mirrorToArchive(ctx, rec)

	s.logger.Info("stat entry recorded",
		zap.String("campaign_id", rec.CampaignID),
		zap.String("date", rec.Date),
		zap.Int("leads", rec.Leads),
		zap.Float64("ad_spend", rec.AdSpend),
	)
	return rec, nil
}

// Delete removes the stat record for a campaign and date and
// invalidates cached metrics.  Deleting a missing record is not an
// error.
func (s *StatsService) Delete(ctx context.Context, campaignID, date string) error {
	if err := s.stats.Delete(ctx, campaignID, date); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, campaignID)
	if s.metrics != nil {
		s.metrics.RecordStatEntryDeletion(campaignID)
		s.metrics.RecordCacheInvalidation()
	}
	return nil
}

// ErrNoArchive is returned by archive-backed queries when no archive
// is configured.
var ErrNoArchive = errors.New("stat archive not configured")

// ArchivedTotals sums the warehouse copy of a campaign's rows over an
// inclusive date range.  Serves reconciliation against the primary
// store; the dashboard read path never depends on it.
func (s *StatsService) ArchivedTotals(ctx context.Context, campaignID string, rng models.DateRange) (analytics.PeriodTotals, error) {
	if s.archive == nil {
		return analytics.PeriodTotals{}, ErrNoArchive
	}
	if _, err := analytics.NewPeriod("Archive Range", rng.StartDate, rng.EndDate); err != nil {
		return analytics.PeriodTotals{}, fmt.Errorf("invalid date range: %w", err)
	}

	adSpend, leads, cases, revenue, err := s.archive.RangeTotals(ctx, campaignID, rng.StartDate, rng.EndDate)
	if err != nil {
		return analytics.PeriodTotals{}, fmt.Errorf("archive query: %w", err)
	}
	return analytics.PeriodTotals{
		AdSpend: adSpend,
		Leads:   int(leads),
		Cases:   int(cases),
		Revenue: revenue,
	}, nil
}

func (s *StatsService) mirrorToArchive(ctx context.Context, rec *models.StatRecord) {
	if s.archive == nil {
		return
	}
	err := s.archive.Insert(ctx, rec)
	if err != nil {
		s.logger.Warn("failed to mirror stat record to archive",
			zap.String("campaign_id", rec.CampaignID),
			zap.String("date", rec.Date),
			zap.Error(err),
		)
	}
	if s.metrics != nil {
		s.metrics.RecordArchiveWrite(err == nil)
	}
}
