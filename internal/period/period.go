// Package period converts abstract listening-period selectors into concrete
// UTC date ranges and provider-native bucketed periods.
package period

import (
	"fmt"
	"strconv"
	"time"
)

// Period is an abstract time-window selector.
type Period string

// Supported period tokens.
const (
	Week         Period = "week"        // current UTC week, Monday-aligned
	Days15       Period = "15days"      // rolling 15 days
	Days30       Period = "30days"      // rolling 30 days
	ShortTerm    Period = "short_term"  // current UTC calendar month to date
	MediumTerm   Period = "medium_term" // rolling 6 calendar months
	Year         Period = "year"        // current UTC calendar year to date
	LastYear     Period = "last_year"   // fully-closed prior calendar year
	SpecificYear Period = "specific_year"
	LongTerm     Period = "long_term" // all time; no concrete range
)

// FirstSupportedYear is the earliest year a specific-year request may name.
// Last.fm scrobbling began in 2002.
const FirstSupportedYear = 2002

// Parse returns the period for a request token. Unrecognized or empty
// tokens fall back to ShortTerm.
func Parse(s string) Period {
	switch Period(s) {
	case Week, Days15, Days30, ShortTerm, MediumTerm, Year, LastYear, SpecificYear, LongTerm:
		return Period(s)
	default:
		return ShortTerm
	}
}

// Range is a concrete [From, To] window in UTC unix seconds, From <= To.
type Range struct {
	From int64
	To   int64
}

// ClampYear bounds an explicit year to [FirstSupportedYear, current UTC year].
// Out-of-range values are replaced by the current UTC year.
func ClampYear(year int, now time.Time) int {
	current := now.UTC().Year()
	if year < FirstSupportedYear || year > current {
		return current
	}
	return year
}

// ParseYear parses a request year parameter, substituting the current UTC
// year for missing, non-integer, or out-of-range values.
func ParseYear(s string, now time.Time) int {
	year, err := strconv.Atoi(s)
	if err != nil {
		return now.UTC().Year()
	}
	return ClampYear(year, now)
}

// Resolve derives the concrete date range for p at the given instant.
// The year argument is only consulted for SpecificYear and must already be
// clamped. The second return value is false when the period has no concrete
// range (LongTerm) and the caller should use the bucketed period instead.
func (p Period) Resolve(now time.Time, year int) (Range, bool) {
	now = now.UTC()

	switch p {
	case Week:
		return Range{From: startOfWeek(now).Unix(), To: now.Unix()}, true
	case Days15:
		return Range{From: now.Add(-15 * 24 * time.Hour).Unix(), To: now.Unix()}, true
	case Days30:
		return Range{From: now.Add(-30 * 24 * time.Hour).Unix(), To: now.Unix()}, true
	case ShortTerm:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Range{From: start.Unix(), To: now.Unix()}, true
	case MediumTerm:
		return Range{From: now.AddDate(0, -6, 0).Unix(), To: now.Unix()}, true
	case Year:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return Range{From: start.Unix(), To: now.Unix()}, true
	case LastYear:
		return closedYear(now.Year() - 1), true
	case SpecificYear:
		if year == now.Year() {
			start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
			return Range{From: start.Unix(), To: now.Unix()}, true
		}
		return closedYear(year), true
	default:
		return Range{}, false
	}
}

// Bucket maps the period to the best-covering Last.fm ranked period token,
// used when no concrete date range exists or the date-ranged call fails.
func (p Period) Bucket() string {
	switch p {
	case Week:
		return "7day"
	case Days15, Days30, ShortTerm:
		return "1month"
	case MediumTerm:
		return "6month"
	case Year, LastYear:
		return "12month"
	default:
		return "overall"
	}
}

// SpotifyRange maps the period to a Spotify top-items time range. Periods the
// Spotify API cannot express collapse to short_term.
func (p Period) SpotifyRange() string {
	switch p {
	case MediumTerm:
		return "medium_term"
	case LongTerm:
		return "long_term"
	default:
		return "short_term"
	}
}

// Label returns the human-readable period label. The year argument is only
// consulted for SpecificYear.
func (p Period) Label(year int) string {
	switch p {
	case Week:
		return "This Week"
	case Days15:
		return "Last 15 Days"
	case Days30:
		return "Last 30 Days"
	case ShortTerm:
		return "This Month"
	case MediumTerm:
		return "Last 6 Months"
	case Year:
		return "This Year"
	case LastYear:
		return "Last Year"
	case SpecificYear:
		return fmt.Sprintf("Year %d", year)
	default:
		return "All Time"
	}
}

// startOfWeek truncates t to midnight of the current Monday, UTC.
func startOfWeek(t time.Time) time.Time {
	daysBack := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -daysBack)
}

// closedYear returns the full [Jan 1 00:00:00, Dec 31 23:59:59] window for
// the given calendar year.
func closedYear(year int) Range {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)
	return Range{From: from.Unix(), To: to.Unix()}
}
