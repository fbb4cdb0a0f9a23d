package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/leadforge/campaign-api/internal/models"
)

// ClickHouseStatArchive implements StatArchive on ClickHouse.  Rows are
// appended, never updated: a re-submitted day simply gets a new version
// row, and RangeTotals reads the latest version per (campaign, date).
//
// Expected table:
//
//	CREATE TABLE campaign_stats_archive (
//	    campaign_id String,
//	    date        Date,
//	    leads       Int64,
//	    cases       Int64,
//	    revenue     Float64,
//	    ad_spend    Float64,
//	    recorded_at DateTime
//	) ENGINE = ReplacingMergeTree(recorded_at)
//	ORDER BY (campaign_id, date)
type ClickHouseStatArchive struct {
	conn driver.Conn
}

func NewClickHouseStatArchive(conn driver.Conn) *ClickHouseStatArchive {
	return &ClickHouseStatArchive{conn: conn}
}

func (a *ClickHouseStatArchive) Insert(ctx context.Context, rec *models.StatRecord) error {
	date, err := time.Parse(models.DateLayout, rec.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", rec.Date, err)
	}

	err = a.conn.Exec(ctx, `
		INSERT INTO campaign_stats_archive (campaign_id, date, leads, cases, revenue, ad_spend, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.CampaignID, date, int64(rec.Leads), int64(rec.Cases), rec.Revenue, rec.AdSpend, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to archive stat record: %w", err)
	}
	return nil
}

func (a *ClickHouseStatArchive) RangeTotals(ctx context.Context, campaignID, startDate, endDate string) (float64, int64, int64, float64, error) {
	start, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	row := a.conn.QueryRow(ctx, `
		SELECT sum(ad_spend), sum(leads), sum(cases), sum(revenue)
		FROM campaign_stats_archive FINAL
		WHERE campaign_id = ? AND date >= ? AND date <= ?
	`, campaignID, start, end)

	var adSpend, revenue float64
	var leads, cases int64
	if err := row.Scan(&adSpend, &leads, &cases, &revenue); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to query archive totals: %w", err)
	}
	return adSpend, leads, cases, revenue, nil
}
