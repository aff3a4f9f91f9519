package metrics

import (
	"fmt"
	"math"
	"time"
)

// Granularity selects how dates are bucketed into period keys.
type Granularity string

const (
	Weekly    Granularity = "weekly"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

// ParseGranularity returns the granularity for s, defaulting to Monthly
// for unknown values.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case Weekly, Monthly, Quarterly, Yearly:
		return Granularity(s)
	default:
		return Monthly
	}
}

// PeriodKey maps a date to a zero-padded, year-first period key:
// "2024-03" (monthly), "2024-Q1" (quarterly), "2024" (yearly),
// "2024-W09" (weekly). Keys sort chronologically under plain string
// comparison; every caller that orders a series relies on that.
//
// The weekly numbering is deliberately approximate (first-of-year weekday
// offset, ceil division by 7) and does not follow ISO-8601 week rules.
// Dashboards already consume these keys, so the formula must stay as-is.
func PeriodKey(date time.Time, g Granularity) string {
	switch g {
	case Quarterly:
		quarter := (int(date.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", date.Year(), quarter)
	case Yearly:
		return fmt.Sprintf("%04d", date.Year())
	case Weekly:
		jan1 := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
		pastDays := date.Sub(jan1).Hours() / 24
		week := int(math.Ceil((pastDays + float64(jan1.Weekday()) + 1) / 7))
		return fmt.Sprintf("%04d-W%02d", date.Year(), week)
	default: // Monthly
		return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
	}
}
