package calendarsync

import (
	"testing"
	"time"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func timePtr(v time.Time) *time.Time { return &v }

func TestExpandAssignment_DefaultWindow(t *testing.T) {
	// Мероприятие 2024-06-01..2024-06-03 без явного времени:
	// ровно 3 дескриптора, каждый 09:00-18:00 своего дня.
	specs := ExpandAssignment("Техник", "Летний фестиваль", "Парк Горького",
		date(t, "2024-06-01"), date(t, "2024-06-03"), nil, nil, time.UTC)

	if len(specs) != 3 {
		t.Fatalf("got %d specs, want 3", len(specs))
	}
	for i, spec := range specs {
		wantDay := i + 1
		if spec.Start.Day() != wantDay || spec.End.Day() != wantDay {
			t.Errorf("spec %d: days %d/%d, want %d", i, spec.Start.Day(), spec.End.Day(), wantDay)
		}
		if spec.Start.Hour() != 9 || spec.Start.Minute() != 0 {
			t.Errorf("spec %d: start %v, want 09:00", i, spec.Start)
		}
		if spec.End.Hour() != 18 || spec.End.Minute() != 0 {
			t.Errorf("spec %d: end %v, want 18:00", i, spec.End)
		}
		if spec.Title != "Техник - Летний фестиваль" {
			t.Errorf("spec %d: title %q", i, spec.Title)
		}
		if spec.TimeZone != "UTC" {
			t.Errorf("spec %d: time zone %q", i, spec.TimeZone)
		}
	}
}

func TestExpandAssignment_ExplicitTimes(t *testing.T) {
	call := date(t, "2024-06-01").Add(7*time.Hour + 30*time.Minute)
	end := date(t, "2024-06-01").Add(22 * time.Hour)

	specs := ExpandAssignment("Водитель", "Свадьба", "",
		date(t, "2024-06-01"), date(t, "2024-06-02"), timePtr(call), timePtr(end), time.UTC)

	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if specs[0].Start.Hour() != 7 || specs[0].Start.Minute() != 30 {
		t.Errorf("start = %v, want 07:30", specs[0].Start)
	}
	if specs[1].End.Hour() != 22 {
		t.Errorf("end = %v, want 22:00", specs[1].End)
	}
}

func TestExpandAssignment_MissingLocationIsTBD(t *testing.T) {
	specs := ExpandAssignment("Техник", "Конференция", "",
		date(t, "2024-06-01"), date(t, "2024-06-01"), nil, nil, time.UTC)

	if len(specs) != 1 {
		t.Fatalf("got %d specs, want 1", len(specs))
	}
	want := "Event: Конференция\nRole: Техник\nLocation: TBD"
	if specs[0].Description != want {
		t.Errorf("description = %q, want %q", specs[0].Description, want)
	}
}

func TestExpandAssignment_SingleDay(t *testing.T) {
	specs := ExpandAssignment("Техник", "Однодневка", "Клуб",
		date(t, "2024-06-01"), date(t, "2024-06-01"), nil, nil, time.UTC)
	if len(specs) != 1 {
		t.Fatalf("got %d specs, want 1", len(specs))
	}
}
