package analytics

import (
	"fmt"
	"time"

	"github.com/leadforge/campaign-api/internal/models"
)

// Period is a labeled, inclusive calendar-date interval.  Dates are
// kept as YYYY-MM-DD strings and compared as calendar components, never
// as instants, so a record on a boundary date matches the period
// regardless of the server's timezone.
type Period struct {
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// NewPeriod builds a period from inclusive date strings.  It returns an
// error only for unparseable dates; a start after the end is allowed
// here and handled by Aggregate, which treats it as an empty window.
func NewPeriod(label, startDate, endDate string) (Period, error) {
	if _, err := time.Parse(models.DateLayout, startDate); err != nil {
		return Period{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	if _, err := time.Parse(models.DateLayout, endDate); err != nil {
		return Period{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	return Period{Label: label, StartDate: startDate, EndDate: endDate}, nil
}

// Valid reports whether the period denotes a non-empty window.
func (p Period) Valid() bool {
	return p.StartDate != "" && p.EndDate != "" && p.StartDate <= p.EndDate
}

// Contains reports whether the given YYYY-MM-DD date falls inside the
// period, boundaries included.  Well-formed date strings of equal
// length order lexically exactly as calendars do, so no parsing is
// needed here; callers are expected to have validated the date.
func (p Period) Contains(date string) bool {
	return date >= p.StartDate && date <= p.EndDate
}

// PresetKey names one of the fixed reporting windows offered by the
// dashboard date picker.
type PresetKey string

const (
	PresetThisWeek      PresetKey = "this_week"
	PresetLastWeek      PresetKey = "last_week"
	PresetTwoWeeksAgo   PresetKey = "two_weeks_ago"
	PresetThreeWeeksAgo PresetKey = "three_weeks_ago"
	PresetThisMonth     PresetKey = "this_month"
	PresetLastMonth     PresetKey = "last_month"
	PresetTwoMonthsAgo  PresetKey = "two_months_ago"
	PresetLast7Days     PresetKey = "last_7_days"
	PresetLast30Days    PresetKey = "last_30_days"
)

// PresetKeys lists every preset in display order.
var PresetKeys = []PresetKey{
	PresetThisWeek,
	PresetLastWeek,
	PresetTwoWeeksAgo,
	PresetThreeWeeksAgo,
	PresetThisMonth,
	PresetLastMonth,
	PresetTwoMonthsAgo,
	PresetLast7Days,
	PresetLast30Days,
}

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// weekStart returns the Monday of the week containing t.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// PresetPeriod resolves a preset into concrete dates relative to now.
// Weeks run Monday through Sunday.  Nothing is cached: the same key
// resolves to different dates once now crosses a day boundary.
func PresetPeriod(key PresetKey, now time.Time) (Period, error) {
	switch key {
	case PresetThisWeek:
		start := weekStart(now)
		return Period{Label: "This Week", StartDate: formatDate(start), EndDate: formatDate(now)}, nil
	case PresetLastWeek:
		start := weekStart(now).AddDate(0, 0, -7)
		return Period{Label: "Last Week", StartDate: formatDate(start), EndDate: formatDate(start.AddDate(0, 0, 6))}, nil
	case PresetTwoWeeksAgo:
		start := weekStart(now).AddDate(0, 0, -14)
		return Period{Label: "Two Weeks Ago", StartDate: formatDate(start), EndDate: formatDate(start.AddDate(0, 0, 6))}, nil
	case PresetThreeWeeksAgo:
		start := weekStart(now).AddDate(0, 0, -21)
		return Period{Label: "Three Weeks Ago", StartDate: formatDate(start), EndDate: formatDate(start.AddDate(0, 0, 6))}, nil
	case PresetThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Period{Label: "This Month", StartDate: formatDate(start), EndDate: formatDate(now)}, nil
	case PresetLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start := first.AddDate(0, -1, 0)
		return Period{Label: "Last Month", StartDate: formatDate(start), EndDate: formatDate(first.AddDate(0, 0, -1))}, nil
	case PresetTwoMonthsAgo:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start := first.AddDate(0, -2, 0)
		return Period{Label: "Two Months Ago", StartDate: formatDate(start), EndDate: formatDate(first.AddDate(0, -1, -1))}, nil
	case PresetLast7Days:
		return Period{Label: "Last 7 Days", StartDate: formatDate(now.AddDate(0, 0, -6)), EndDate: formatDate(now)}, nil
	case PresetLast30Days:
		return Period{Label: "Last 30 Days", StartDate: formatDate(now.AddDate(0, 0, -29)), EndDate: formatDate(now)}, nil
	default:
		return Period{}, fmt.Errorf("unknown preset %q", key)
	}
}

// PresetPair returns the base and comparison periods for a preset:
// the named window and the equivalent preceding one (this week vs last
// week, last month vs two months ago, last 7 days vs the 7 before).
func PresetPair(key PresetKey, now time.Time) (base Period, compare Period, err error) {
	base, err = PresetPeriod(key, now)
	if err != nil {
		return Period{}, Period{}, err
	}

	switch key {
	case PresetThisWeek:
		compare, err = PresetPeriod(PresetLastWeek, now)
	case PresetLastWeek:
		compare, err = PresetPeriod(PresetTwoWeeksAgo, now)
	case PresetTwoWeeksAgo:
		compare, err = PresetPeriod(PresetThreeWeeksAgo, now)
	case PresetThreeWeeksAgo:
		start := weekStart(now).AddDate(0, 0, -28)
		compare = Period{Label: "Four Weeks Ago", StartDate: formatDate(start), EndDate: formatDate(start.AddDate(0, 0, 6))}
	case PresetThisMonth:
		compare, err = PresetPeriod(PresetLastMonth, now)
	case PresetLastMonth:
		compare, err = PresetPeriod(PresetTwoMonthsAgo, now)
	case PresetTwoMonthsAgo:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start := first.AddDate(0, -3, 0)
		compare = Period{Label: "Three Months Ago", StartDate: formatDate(start), EndDate: formatDate(first.AddDate(0, -2, -1))}
	case PresetLast7Days:
		compare = Period{Label: "Previous 7 Days", StartDate: formatDate(now.AddDate(0, 0, -13)), EndDate: formatDate(now.AddDate(0, 0, -7))}
	case PresetLast30Days:
		compare = Period{Label: "Previous 30 Days", StartDate: formatDate(now.AddDate(0, 0, -59)), EndDate: formatDate(now.AddDate(0, 0, -30))}
	}
	if err != nil {
		return Period{}, Period{}, err
	}
	return base, compare, nil
}
