package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leadforge/campaign-api/internal/models"
)

// PostgresCampaignRepo implements CampaignRepo using PostgreSQL.
type PostgresCampaignRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCampaignRepo(pool *pgxpool.Pool) *PostgresCampaignRepo {
	return &PostgresCampaignRepo{pool: pool}
}

const campaignColumns = `id, name, vertical, status, buyer_id,
	manual_leads, manual_cases, manual_revenue, ad_spend, created_at, updated_at`

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Vertical, &c.Status, &c.BuyerID,
		&c.ManualStats.Leads, &c.ManualStats.Cases, &c.ManualStats.Revenue,
		&c.AdSpend, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}
	return &c, nil
}

func (r *PostgresCampaignRepo) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE id = $1
	`, id))
}

func (r *PostgresCampaignRepo) queryCampaigns(ctx context.Context, query string, args ...any) ([]*models.Campaign, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *PostgresCampaignRepo) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	return r.queryCampaigns(ctx, `
		SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC
	`)
}

func (r *PostgresCampaignRepo) GetByBuyer(ctx context.Context, buyerID string) ([]*models.Campaign, error) {
	return r.queryCampaigns(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE buyer_id = $1 ORDER BY created_at DESC
	`, buyerID)
}

func (r *PostgresCampaignRepo) GetByStatus(ctx context.Context, status models.CampaignStatus) ([]*models.Campaign, error) {
	return r.queryCampaigns(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE status = $1 ORDER BY created_at DESC
	`, status)
}

func (r *PostgresCampaignRepo) Upsert(ctx context.Context, c *models.Campaign) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO campaigns (id, name, vertical, status, buyer_id,
			manual_leads, manual_cases, manual_revenue, ad_spend, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			vertical = EXCLUDED.vertical,
			status = EXCLUDED.status,
			buyer_id = EXCLUDED.buyer_id,
			manual_leads = EXCLUDED.manual_leads,
			manual_cases = EXCLUDED.manual_cases,
			manual_revenue = EXCLUDED.manual_revenue,
			ad_spend = EXCLUDED.ad_spend,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.Name, c.Vertical, c.Status, c.BuyerID,
		c.ManualStats.Leads, c.ManualStats.Cases, c.ManualStats.Revenue,
		c.AdSpend, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert campaign: %w", err)
	}
	return nil
}

func (r *PostgresCampaignRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// PostgresBuyerRepo implements BuyerRepo using PostgreSQL.
type PostgresBuyerRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresBuyerRepo(pool *pgxpool.Pool) *PostgresBuyerRepo {
	return &PostgresBuyerRepo{pool: pool}
}

func (r *PostgresBuyerRepo) GetByID(ctx context.Context, id string) (*models.Buyer, error) {
	var b models.Buyer
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, contact_email, price_per_case, active, created_at, updated_at
		FROM buyers WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.ContactEmail, &b.PricePerCase, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}
	return &b, nil
}

func (r *PostgresBuyerRepo) ListAll(ctx context.Context) ([]*models.Buyer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, contact_email, price_per_case, active, created_at, updated_at
		FROM buyers ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list buyers: %w", err)
	}
	defer rows.Close()

	var buyers []*models.Buyer
	for rows.Next() {
		var b models.Buyer
		if err := rows.Scan(&b.ID, &b.Name, &b.ContactEmail, &b.PricePerCase, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		buyers = append(buyers, &b)
	}
	return buyers, rows.Err()
}

func (r *PostgresBuyerRepo) Upsert(ctx context.Context, b *models.Buyer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO buyers (id, name, contact_email, price_per_case, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			contact_email = EXCLUDED.contact_email,
			price_per_case = EXCLUDED.price_per_case,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`, b.ID, b.Name, b.ContactEmail, b.PricePerCase, b.Active, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert buyer: %w", err)
	}
	return nil
}

func (r *PostgresBuyerRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM buyers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete buyer: %w", err)
	}
	return nil
}

// PostgresStatRepo implements StatRepo using PostgreSQL.  The
// campaign_stats table has a UNIQUE (campaign_id, date) constraint;
// Upsert rides on it.  Channel breakdowns are stored as JSONB.
type PostgresStatRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresStatRepo(pool *pgxpool.Pool) *PostgresStatRepo {
	return &PostgresStatRepo{pool: pool}
}

func (r *PostgresStatRepo) ListByCampaign(ctx context.Context, campaignID string) ([]models.StatRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, date, leads, cases, revenue, ad_spend, channels, created_at, updated_at
		FROM campaign_stats WHERE campaign_id = $1 ORDER BY date
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}
	defer rows.Close()

	var records []models.StatRecord
	for rows.Next() {
		rec, err := scanStatRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *PostgresStatRepo) GetByDate(ctx context.Context, campaignID, date string) (*models.StatRecord, error) {
	rec, err := scanStatRecord(r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, date, leads, cases, revenue, ad_spend, channels, created_at, updated_at
		FROM campaign_stats WHERE campaign_id = $1 AND date = $2
	`, campaignID, date))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func scanStatRecord(row pgx.Row) (*models.StatRecord, error) {
	var rec models.StatRecord
	var channels []byte
	err := row.Scan(&rec.ID, &rec.CampaignID, &rec.Date,
		&rec.Leads, &rec.Cases, &rec.Revenue, &rec.AdSpend,
		&channels, &rec.CreatedAt, &rec.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan stat record: %w", err)
	}
	if len(channels) > 0 {
		if err := json.Unmarshal(channels, &rec.Channels); err != nil {
			return nil, fmt.Errorf("failed to decode channels: %w", err)
		}
	}
	return &rec, nil
}

func (r *PostgresStatRepo) Upsert(ctx context.Context, rec *models.StatRecord) error {
	var channels []byte
	if len(rec.Channels) > 0 {
		var err error
		channels, err = json.Marshal(rec.Channels)
		if err != nil {
			return fmt.Errorf("failed to encode channels: %w", err)
		}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO campaign_stats (id, campaign_id, date, leads, cases, revenue, ad_spend, channels, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (campaign_id, date) DO UPDATE SET
			leads = EXCLUDED.leads,
			cases = EXCLUDED.cases,
			revenue = EXCLUDED.revenue,
			ad_spend = EXCLUDED.ad_spend,
			channels = EXCLUDED.channels,
			updated_at = EXCLUDED.updated_at
	`, rec.ID, rec.CampaignID, rec.Date, rec.Leads, rec.Cases, rec.Revenue, rec.AdSpend,
		channels, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert stat record: %w", err)
	}
	return nil
}

func (r *PostgresStatRepo) Delete(ctx context.Context, campaignID, date string) error {
	if _, err := r.pool.Exec(ctx, `
		DELETE FROM campaign_stats WHERE campaign_id = $1 AND date = $2
	`, campaignID, date); err != nil {
		return fmt.Errorf("failed to delete stat record: %w", err)
	}
	return nil
}
