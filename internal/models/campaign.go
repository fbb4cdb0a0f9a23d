package models

import (
	"errors"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusDraft    CampaignStatus = "draft"
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusPaused   CampaignStatus = "paused"
	CampaignStatusArchived CampaignStatus = "archived"
)

// ManualStats is the legacy single-snapshot view of a campaign's
// performance.  It predates per-day stat history and is kept as a
// fallback for campaigns that have no history rows yet: when no date
// range is requested, reporting reads these fields directly instead of
// summing StatsHistory.
type ManualStats struct {
	Leads   int     `json:"leads"`
	Cases   int     `json:"cases"`
	Revenue float64 `json:"revenue"`
}

// Campaign represents a lead-generation advertising campaign.  A
// campaign belongs to at most one downstream case buyer and carries
// both the legacy snapshot fields (ManualStats, AdSpend) and the
// per-day StatsHistory that drives period-based reporting.
type Campaign struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Vertical string         `json:"vertical,omitempty"` // e.g. "mass_tort", "mva", "ssdi"
	Status   CampaignStatus `json:"status"`
	BuyerID  string         `json:"buyer_id,omitempty"`

	// Legacy snapshot fields.  Authoritative only when StatsHistory is
	// empty or the caller requests no date range.
	ManualStats ManualStats `json:"manual_stats"`
	AdSpend     float64     `json:"ad_spend"`

	// Per-day observations, at most one per calendar date.  Source of
	// truth for all period calculations.
	StatsHistory []StatRecord `json:"stats_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that required fields are present and that the legacy
// snapshot fields are not negative.
func (c *Campaign) Validate() error {
	if c == nil {
		return errors.New("campaign is nil")
	}
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	switch c.Status {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused, CampaignStatusArchived:
	case "":
		return errors.New("status is required")
	default:
		return errors.New("unknown status: " + string(c.Status))
	}
	if c.AdSpend < 0 {
		return errors.New("ad_spend must not be negative")
	}
	if c.ManualStats.Leads < 0 || c.ManualStats.Cases < 0 || c.ManualStats.Revenue < 0 {
		return errors.New("manual_stats fields must not be negative")
	}
	return nil
}
