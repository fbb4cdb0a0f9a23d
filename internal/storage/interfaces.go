package storage

import (
	"context"

	"github.com/leadforge/campaign-api/internal/models"
)

// =============================================
// CAMPAIGN REPOSITORY
// =============================================

// CampaignRepo defines operations for campaign storage.  Get methods
// return nil with no error when nothing matches.
type CampaignRepo interface {
	ListAll(ctx context.Context) ([]*models.Campaign, error)
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	Upsert(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, id string) error

	GetByBuyer(ctx context.Context, buyerID string) ([]*models.Campaign, error)
	GetByStatus(ctx context.Context, status models.CampaignStatus) ([]*models.Campaign, error)
}

// =============================================
// BUYER REPOSITORY
// =============================================

// BuyerRepo defines operations for case buyer storage.
type BuyerRepo interface {
	ListAll(ctx context.Context) ([]*models.Buyer, error)
	GetByID(ctx context.Context, id string) (*models.Buyer, error)
	Upsert(ctx context.Context, b *models.Buyer) error
	Delete(ctx context.Context, id string) error
}

// =============================================
// STAT REPOSITORY
// =============================================

// StatRepo defines operations for per-day stat records.  A campaign
// has at most one record per calendar date; Upsert replaces any
// existing record for the same campaign and date.
type StatRepo interface {
	ListByCampaign(ctx context.Context, campaignID string) ([]models.StatRecord, error)
	GetByDate(ctx context.Context, campaignID, date string) (*models.StatRecord, error)
	Upsert(ctx context.Context, rec *models.StatRecord) error
	Delete(ctx context.Context, campaignID, date string) error
}

// =============================================
// STAT ARCHIVE
// =============================================

// StatArchive is an append-only analytical copy of stat rows kept in a
// column store for warehouse-style queries.  It is best-effort and
// optional; the dashboard never reads from it on the hot path.
type StatArchive interface {
	Insert(ctx context.Context, rec *models.StatRecord) error
	// RangeTotals sums a campaign's archived rows over an inclusive
	// date range.
	RangeTotals(ctx context.Context, campaignID, startDate, endDate string) (adSpend float64, leads int64, cases int64, revenue float64, err error)
}
