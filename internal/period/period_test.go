package period

import (
	"testing"
	"time"
)

// now is a Wednesday: 2024-06-12 15:30:45 UTC.
var now = time.Date(2024, 6, 12, 15, 30, 45, 0, time.UTC)

func TestParseFallsBackToShortTerm(t *testing.T) {
	if got := Parse("bogus"); got != ShortTerm {
		t.Errorf("Parse(bogus) = %s, want short_term", got)
	}
	if got := Parse(""); got != ShortTerm {
		t.Errorf("Parse() = %s, want short_term", got)
	}
	if got := Parse("last_year"); got != LastYear {
		t.Errorf("Parse(last_year) = %s", got)
	}
}

func TestResolveOrderedWindows(t *testing.T) {
	for _, p := range []Period{Week, Days15, Days30, ShortTerm, MediumTerm, Year, LastYear, SpecificYear} {
		r, ok := p.Resolve(now, 2020)
		if !ok {
			t.Fatalf("%s: expected a concrete range", p)
		}
		if r.From > r.To {
			t.Errorf("%s: from %d > to %d", p, r.From, r.To)
		}
	}
}

func TestResolveWeek(t *testing.T) {
	r, ok := Week.Resolve(now, 0)
	if !ok {
		t.Fatal("expected range")
	}
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if r.From != monday.Unix() {
		t.Errorf("from = %d, want Monday midnight %d", r.From, monday.Unix())
	}
	if r.To != now.Unix() {
		t.Errorf("to = %d, want now %d", r.To, now.Unix())
	}
}

func TestResolveWeekOnSunday(t *testing.T) {
	sunday := time.Date(2024, 6, 16, 10, 0, 0, 0, time.UTC)
	r, _ := Week.Resolve(sunday, 0)
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if r.From != monday.Unix() {
		t.Errorf("from = %d, want prior Monday %d", r.From, monday.Unix())
	}
}

func TestResolveRollingDays(t *testing.T) {
	r, _ := Days15.Resolve(now, 0)
	if want := now.Add(-15 * 24 * time.Hour).Unix(); r.From != want {
		t.Errorf("15days from = %d, want %d", r.From, want)
	}
	r, _ = Days30.Resolve(now, 0)
	if want := now.Add(-30 * 24 * time.Hour).Unix(); r.From != want {
		t.Errorf("30days from = %d, want %d", r.From, want)
	}
}

func TestResolveShortTerm(t *testing.T) {
	r, _ := ShortTerm.Resolve(now, 0)
	if want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Unix(); r.From != want {
		t.Errorf("from = %d, want start of month %d", r.From, want)
	}
}

func TestResolveMediumTerm(t *testing.T) {
	r, _ := MediumTerm.Resolve(now, 0)
	if want := time.Date(2023, 12, 12, 15, 30, 45, 0, time.UTC).Unix(); r.From != want {
		t.Errorf("from = %d, want same day six months prior %d", r.From, want)
	}
}

func TestResolveYearToDate(t *testing.T) {
	r, _ := Year.Resolve(now, 0)
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix(); r.From != want {
		t.Errorf("from = %d, want Jan 1 %d", r.From, want)
	}
	if r.To != now.Unix() {
		t.Errorf("to = %d, want now", r.To)
	}
}

func TestResolveLastYear(t *testing.T) {
	r, _ := LastYear.Resolve(now, 0)
	if want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).Unix(); r.From != want {
		t.Errorf("from = %d, want %d", r.From, want)
	}
	if want := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC).Unix(); r.To != want {
		t.Errorf("to = %d, want %d", r.To, want)
	}
}

func TestResolveSpecificYearClosed(t *testing.T) {
	r, _ := SpecificYear.Resolve(now, 2020)
	if want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Unix(); r.From != want {
		t.Errorf("from = %d, want %d", r.From, want)
	}
	if want := time.Date(2020, 12, 31, 23, 59, 59, 0, time.UTC).Unix(); r.To != want {
		t.Errorf("to = %d, want %d", r.To, want)
	}
}

func TestResolveSpecificYearCurrentIsOpen(t *testing.T) {
	r, _ := SpecificYear.Resolve(now, 2024)
	if r.To != now.Unix() {
		t.Errorf("to = %d, want now %d for current year", r.To, now.Unix())
	}
}

func TestResolveLongTermHasNoRange(t *testing.T) {
	if _, ok := LongTerm.Resolve(now, 0); ok {
		t.Fatal("long_term should have no concrete range")
	}
}

func TestClampYear(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{2020, 2020},
		{FirstSupportedYear, FirstSupportedYear},
		{1999, 2024},
		{2030, 2024},
		{0, 2024},
	}
	for _, tt := range tests {
		if got := ClampYear(tt.in, now); got != tt.want {
			t.Errorf("ClampYear(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseYear(t *testing.T) {
	if got := ParseYear("2019", now); got != 2019 {
		t.Errorf("ParseYear(2019) = %d", got)
	}
	if got := ParseYear("not-a-year", now); got != 2024 {
		t.Errorf("ParseYear(non-integer) = %d, want current year", got)
	}
	if got := ParseYear("", now); got != 2024 {
		t.Errorf("ParseYear(empty) = %d, want current year", got)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		p    Period
		want string
	}{
		{Week, "7day"},
		{Days15, "1month"},
		{Days30, "1month"},
		{ShortTerm, "1month"},
		{MediumTerm, "6month"},
		{Year, "12month"},
		{LastYear, "12month"},
		{SpecificYear, "overall"},
		{LongTerm, "overall"},
	}
	for _, tt := range tests {
		if got := tt.p.Bucket(); got != tt.want {
			t.Errorf("%s.Bucket() = %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := SpecificYear.Label(2020); got != "Year 2020" {
		t.Errorf("label = %q, want Year 2020", got)
	}
	if got := ShortTerm.Label(0); got != "This Month" {
		t.Errorf("label = %q", got)
	}
	if got := LongTerm.Label(0); got != "All Time" {
		t.Errorf("label = %q", got)
	}
}
