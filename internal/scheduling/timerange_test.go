package scheduling

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return parsed
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"disjoint", "2024-06-01 10:00", "2024-06-01 12:00", "2024-06-01 14:00", "2024-06-01 16:00", false},
		{"contained", "2024-06-01 09:00", "2024-06-01 18:00", "2024-06-01 12:00", "2024-06-01 16:00", true},
		{"partial overlap", "2024-06-01 10:00", "2024-06-01 14:00", "2024-06-01 13:00", "2024-06-01 17:00", true},
		{"touching boundaries do not overlap", "2024-06-01 10:00", "2024-06-01 12:00", "2024-06-01 12:00", "2024-06-01 14:00", false},
		{"identical", "2024-06-01 10:00", "2024-06-01 12:00", "2024-06-01 10:00", "2024-06-01 12:00", true},
		{"multi-day spans", "2024-06-01 00:00", "2024-06-03 23:59", "2024-06-03 10:00", "2024-06-05 18:00", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RangesOverlap(
				mustTime(t, tc.aStart), mustTime(t, tc.aEnd),
				mustTime(t, tc.bStart), mustTime(t, tc.bEnd),
			)
			if got != tc.want {
				t.Errorf("RangesOverlap = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGapHours(t *testing.T) {
	end := mustTime(t, "2024-06-01 14:00")
	start := mustTime(t, "2024-06-01 15:00")
	if got := GapHours(end, start); got != 1.0 {
		t.Errorf("GapHours = %v, want 1.0", got)
	}
	// Пересечение дает отрицательный разрыв.
	if got := GapHours(start, end); got != -1.0 {
		t.Errorf("GapHours reversed = %v, want -1.0", got)
	}
}

func TestDayBoundaries(t *testing.T) {
	at := mustTime(t, "2024-06-15 13:45")
	if got := StartOfDay(at); got.Hour() != 0 || got.Minute() != 0 || got.Day() != 15 {
		t.Errorf("StartOfDay = %v", got)
	}
	endOfDay := EndOfDay(at)
	if endOfDay.Hour() != 23 || endOfDay.Minute() != 59 || endOfDay.Second() != 59 {
		t.Errorf("EndOfDay = %v", endOfDay)
	}
	if !endOfDay.After(at) {
		t.Errorf("EndOfDay must be after the input instant")
	}
}
