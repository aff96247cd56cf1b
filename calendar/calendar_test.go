package calendar

import (
	"strings"
	"testing"
	"time"
)

// usCalendar2025 covers the holidays the tests roll over.
func usCalendar2025(t *testing.T) *Calendar {
	t.Helper()
	return NewCalendar(map[int][]Date{
		2024: {MustParse("2024-12-25")},
		2025: {
			MustParse("2025-01-01"),
			MustParse("2025-07-04"),
			MustParse("2025-12-25"),
		},
	})
}

func TestCalendar_PreviousTradingDay(t *testing.T) {
	cal := usCalendar2025(t)

	testCases := []struct {
		name string
		on   string
		want string
	}{
		{
			name: "plain weekday",
			on:   "2025-06-12", // Thursday
			want: "2025-06-11",
		},
		{
			name: "Monday rolls back over the weekend",
			on:   "2025-06-16",
			want: "2025-06-13",
		},
		{
			name: "holiday on a Friday rolls back to Thursday",
			on:   "2025-07-05", // Saturday, July 4th was a holiday
			want: "2025-07-03",
		},
		{
			name: "New Year rolls back into the previous year",
			on:   "2025-01-02",
			want: "2024-12-31",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := cal.PreviousTradingDay(MustParse(tc.on))
			if got.String() != tc.want {
				t.Errorf("PreviousTradingDay(%s) = %s, want %s", tc.on, got, tc.want)
			}
		})
	}
}

func TestCalendar_PreviousMonthEndTradingDay(t *testing.T) {
	cal := usCalendar2025(t)

	testCases := []struct {
		name string
		on   string
		want string
	}{
		{
			name: "previous month ends on a weekday",
			on:   "2025-08-15",
			want: "2025-07-31",
		},
		{
			name: "previous month ends on a Sunday",
			on:   "2025-09-10", // Aug 31 2025 is a Sunday
			want: "2025-08-29",
		},
		{
			name: "January resolves to the previous year",
			on:   "2025-01-20",
			want: "2024-12-31",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := cal.PreviousMonthEndTradingDay(MustParse(tc.on))
			if got.String() != tc.want {
				t.Errorf("PreviousMonthEndTradingDay(%s) = %s, want %s", tc.on, got, tc.want)
			}
		})
	}
}

func TestCalendar_PreviousYearEndTradingDay(t *testing.T) {
	cal := NewCalendar(map[int][]Date{
		2023: {MustParse("2023-12-29")}, // pretend the last Friday of 2023 closed
	})

	// Dec 31 2023 is a Sunday, Dec 30 a Saturday, Dec 29 a closed Friday.
	got := cal.PreviousYearEndTradingDay(MustParse("2024-03-01"))
	if want := "2023-12-28"; got.String() != want {
		t.Errorf("PreviousYearEndTradingDay = %s, want %s", got, want)
	}
}

func TestCalendar_UncoveredYearFallsBackToWeekends(t *testing.T) {
	cal := NewCalendar(nil)

	if cal.Covers(2030) {
		t.Error("empty table should not cover 2030")
	}
	// 2030-01-01 is a Tuesday. Without a table it counts as a trading day.
	if !cal.IsTradingDay(MustParse("2030-01-01")) {
		t.Error("weekday in uncovered year should be a trading day")
	}
	if cal.IsTradingDay(MustParse("2030-01-05")) {
		t.Error("Saturday should never be a trading day")
	}
}

func TestDecodeHolidays(t *testing.T) {
	table := `{"2025": ["2025-01-01", "2025-12-25"]}`
	cal, err := DecodeHolidays(strings.NewReader(table))
	if err != nil {
		t.Fatalf("DecodeHolidays: %v", err)
	}
	if !cal.Covers(2025) {
		t.Error("table should cover 2025")
	}
	if cal.IsTradingDay(MustParse("2025-12-25")) {
		t.Error("2025-12-25 should be a holiday")
	}
	if !cal.IsTradingDay(MustParse("2025-12-24")) {
		t.Error("2025-12-24 should be a trading day")
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := New(2025, time.February, 28)
	if got := d.Add(1).String(); got != "2025-03-01" {
		t.Errorf("Add(1) = %s, want 2025-03-01", got)
	}
	if got := New(2024, time.February, 28).Add(1).String(); got != "2024-02-29" {
		t.Errorf("leap year Add(1) = %s, want 2024-02-29", got)
	}
	if got := MustParse("2025-01-10").DaysBetween(MustParse("2025-01-15")); got != 5 {
		t.Errorf("DaysBetween = %d, want 5", got)
	}
}

func TestHistory_Nearest(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2025-06-13"), 101.0) // Friday
	h.Append(MustParse("2025-06-16"), 102.0) // Monday

	testCases := []struct {
		name    string
		day     string
		window  int
		want    float64
		wantDay string
		wantHit bool
	}{
		{name: "exact day", day: "2025-06-13", window: 3, want: 101.0, wantDay: "2025-06-13", wantHit: true},
		{name: "Saturday tie prefers the Friday close", day: "2025-06-14", window: 3, want: 101.0, wantDay: "2025-06-13", wantHit: true},
		{name: "Sunday is closer to the Monday close", day: "2025-06-15", window: 3, want: 102.0, wantDay: "2025-06-16", wantHit: true},
		{name: "outside the window", day: "2025-06-25", window: 3, wantHit: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, on, ok := h.Nearest(MustParse(tc.day), tc.window)
			if ok != tc.wantHit {
				t.Fatalf("Nearest(%s) hit = %v, want %v", tc.day, ok, tc.wantHit)
			}
			if !ok {
				return
			}
			if got != tc.want || on.String() != tc.wantDay {
				t.Errorf("Nearest(%s) = %v on %s, want %v on %s", tc.day, got, on, tc.want, tc.wantDay)
			}
		})
	}
}
