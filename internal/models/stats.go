package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format for calendar dates.  Dates are plain
// calendar components with no time-of-day or timezone semantics.
const DateLayout = "2006-01-02"

// StatRecord is one dated observation of a campaign's daily
// performance: what was spent, how many leads came in, how many turned
// into signed cases, and the revenue booked against them.  A campaign
// has at most one StatRecord per calendar date.
type StatRecord struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	Date       string `json:"date"` // YYYY-MM-DD

	Leads   int     `json:"leads"`
	Cases   int     `json:"cases"`
	Revenue float64 `json:"revenue"`
	AdSpend float64 `json:"ad_spend"`

	// Optional per-channel breakdown.  When present the channel rows
	// must sum to the aggregate Leads/AdSpend above; when absent the
	// aggregate fields are authoritative.
	Channels []ChannelStats `json:"channels,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ChannelStats is a per-channel slice of a day's spend and leads,
// e.g. "google", "meta", "tiktok".
type ChannelStats struct {
	Channel string  `json:"channel"`
	AdSpend float64 `json:"ad_spend"`
	Leads   int     `json:"leads"`
}

// Validate checks field constraints.  It does not check date ordering
// against other records; uniqueness per campaign+date is enforced by
// the storage layer.
func (s *StatRecord) Validate() error {
	if s == nil {
		return errors.New("stat record is nil")
	}
	if s.CampaignID == "" {
		return errors.New("campaign_id is required")
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", s.Date, err)
	}
	if s.Leads < 0 || s.Cases < 0 {
		return errors.New("leads and cases must not be negative")
	}
	if s.Revenue < 0 || s.AdSpend < 0 {
		return errors.New("revenue and ad_spend must not be negative")
	}
	if len(s.Channels) > 0 {
		var spend float64
		var leads int
		for _, ch := range s.Channels {
			if ch.Channel == "" {
				return errors.New("channel name is required")
			}
			if ch.AdSpend < 0 || ch.Leads < 0 {
				return errors.New("channel fields must not be negative")
			}
			spend += ch.AdSpend
			leads += ch.Leads
		}
		// Spend comparison tolerates sub-cent float drift.
		if math.Abs(spend-s.AdSpend) > 0.005 {
			return fmt.Errorf("channel ad_spend %.2f does not sum to aggregate %.2f", spend, s.AdSpend)
		}
		if leads != s.Leads {
			return fmt.Errorf("channel leads %d do not sum to aggregate %d", leads, s.Leads)
		}
	}
	return nil
}

// DateRange is the user-selected reporting window as it arrives from
// the API.  Both bounds are inclusive calendar dates.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// IsZero reports whether no range was supplied at all.
func (r DateRange) IsZero() bool {
	return r.StartDate == "" && r.EndDate == ""
}
