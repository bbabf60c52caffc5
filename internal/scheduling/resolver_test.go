package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockStore - хранилище в памяти для тестов резолвера.
type mockStore struct {
	events      map[uint]*EventInfo
	leaves      map[uint]*LeaveInfo
	assignments []OtherAssignment

	eventErr error
	leaveErr error
	listErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		events: make(map[uint]*EventInfo),
		leaves: make(map[uint]*LeaveInfo),
	}
}

func (m *mockStore) GetEvent(_ context.Context, _, eventID uint) (*EventInfo, error) {
	if m.eventErr != nil {
		return nil, m.eventErr
	}
	return m.events[eventID], nil
}

func (m *mockStore) GetCrewMemberLeave(_ context.Context, _, crewMemberID uint) (*LeaveInfo, error) {
	if m.leaveErr != nil {
		return nil, m.leaveErr
	}
	return m.leaves[crewMemberID], nil
}

func (m *mockStore) ListOtherAssignments(_ context.Context, _, _, excludeEventID uint) ([]OtherAssignment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []OtherAssignment
	for _, a := range m.assignments {
		if a.EventID != excludeEventID {
			out = append(out, a)
		}
	}
	return out, nil
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func timePtr(v time.Time) *time.Time { return &v }

func setupResolver(t *testing.T) (*Resolver, *mockStore) {
	t.Helper()
	store := newMockStore()
	store.events[1] = &EventInfo{ID: 1, Name: "Городской фестиваль", StartDate: date(t, "2024-06-10"), EndDate: date(t, "2024-06-10")}
	store.leaves[7] = &LeaveInfo{}
	return NewResolver(store), store
}

func TestCheckAvailability_EventNotFound(t *testing.T) {
	resolver, _ := setupResolver(t)
	verdict := resolver.CheckAvailability(context.Background(), 1, 7, 999, nil, nil)
	if verdict.Status != StatusUnavailable {
		t.Fatalf("status = %s, want unavailable", verdict.Status)
	}
	if verdict.Reason != "Event not found" {
		t.Errorf("reason = %q", verdict.Reason)
	}
}

func TestCheckAvailability_Leave(t *testing.T) {
	t.Run("leave containing event blocks regardless of assignments", func(t *testing.T) {
		resolver, store := setupResolver(t)
		store.leaves[7] = &LeaveInfo{
			OnLeave:    true,
			LeaveStart: timePtr(date(t, "2024-06-01")),
			LeaveEnd:   timePtr(date(t, "2024-06-30")),
			Reason:     "отпуск",
		}
		// Пересекающееся назначение не должно даже рассматриваться.
		store.assignments = append(store.assignments, OtherAssignment{
			AssignmentID: 1, EventID: 2, EventName: "Свадьба",
			EventStartDate: date(t, "2024-06-10"), EventEndDate: date(t, "2024-06-10"),
		})

		verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1, nil, nil)
		if verdict.Status != StatusUnavailable {
			t.Fatalf("status = %s, want unavailable", verdict.Status)
		}
	})

	t.Run("past leave does not block future event", func(t *testing.T) {
		// Сценарий: отпуск 2024-07-01..2024-07-05, мероприятие 2024-07-10..2024-07-12.
		resolver, store := setupResolver(t)
		store.events[1] = &EventInfo{ID: 1, Name: "Конференция", StartDate: date(t, "2024-07-10"), EndDate: date(t, "2024-07-12")}
		store.leaves[7] = &LeaveInfo{
			OnLeave:    true,
			LeaveStart: timePtr(date(t, "2024-07-01")),
			LeaveEnd:   timePtr(date(t, "2024-07-05")),
		}

		verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1, nil, nil)
		if verdict.Status != StatusAvailable {
			t.Fatalf("status = %s, want available", verdict.Status)
		}
	})
}

func TestCheckAvailability_Conflict(t *testing.T) {
	// Сценарий: назначение 09:00-18:00, предложение 12:00-16:00 того же дня.
	resolver, store := setupResolver(t)
	store.assignments = append(store.assignments, OtherAssignment{
		AssignmentID: 1, EventID: 2, EventName: "Выставка",
		EventStartDate: date(t, "2024-06-10"), EventEndDate: date(t, "2024-06-10"),
		CallTime: timePtr(date(t, "2024-06-10").Add(9 * time.Hour)),
		EndTime:  timePtr(date(t, "2024-06-10").Add(18 * time.Hour)),
	})

	verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1,
		timePtr(date(t, "2024-06-10").Add(12*time.Hour)),
		timePtr(date(t, "2024-06-10").Add(16*time.Hour)))

	if verdict.Status != StatusConflict {
		t.Fatalf("status = %s, want conflict", verdict.Status)
	}
	if verdict.ConflictingEventID != 2 || verdict.ConflictingEventName != "Выставка" {
		t.Errorf("conflict details = %d %q", verdict.ConflictingEventID, verdict.ConflictingEventName)
	}
	if verdict.ConflictCallTime == nil || verdict.ConflictCallTime.Hour() != 9 {
		t.Errorf("conflict call time = %v", verdict.ConflictCallTime)
	}
}

func TestCheckAvailability_FirstConflictWins(t *testing.T) {
	// Обход идет в порядке, который вернуло хранилище (по id);
	// возвращается первый конфликт, а не ближайший.
	resolver, store := setupResolver(t)
	overlapping := func(id, eventID uint, name string) OtherAssignment {
		return OtherAssignment{
			AssignmentID: id, EventID: eventID, EventName: name,
			EventStartDate: date(t, "2024-06-10"), EventEndDate: date(t, "2024-06-10"),
		}
	}
	store.assignments = []OtherAssignment{
		overlapping(3, 5, "Первый по id"),
		overlapping(9, 6, "Второй по id"),
	}

	verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1, nil, nil)
	if verdict.Status != StatusConflict {
		t.Fatalf("status = %s, want conflict", verdict.Status)
	}
	if verdict.ConflictingEventID != 5 {
		t.Errorf("conflicting event = %d, want first in store order (5)", verdict.ConflictingEventID)
	}
}

func TestCheckAvailability_Partial(t *testing.T) {
	t.Run("tight gap after previous assignment", func(t *testing.T) {
		// Сценарий: назначение 10:00-14:00, предложение 15:00-18:00, разрыв 1 час.
		resolver, store := setupResolver(t)
		store.assignments = append(store.assignments, OtherAssignment{
			AssignmentID: 1, EventID: 2, EventName: "Утренний монтаж",
			EventStartDate: date(t, "2024-06-10"), EventEndDate: date(t, "2024-06-10"),
			CallTime: timePtr(date(t, "2024-06-10").Add(10 * time.Hour)),
			EndTime:  timePtr(date(t, "2024-06-10").Add(14 * time.Hour)),
		})

		verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1,
			timePtr(date(t, "2024-06-10").Add(15*time.Hour)),
			timePtr(date(t, "2024-06-10").Add(18*time.Hour)))

		if verdict.Status != StatusPartial {
			t.Fatalf("status = %s, want partial", verdict.Status)
		}
		if verdict.AvailableAfter == nil || verdict.AvailableAfter.Hour() != 14 {
			t.Errorf("availableAfter = %v, want 14:00", verdict.AvailableAfter)
		}
		if verdict.AvailableUntil != nil {
			t.Errorf("availableUntil must be empty for the after-variant")
		}
	})

	t.Run("tight gap before next assignment", func(t *testing.T) {
		resolver, store := setupResolver(t)
		store.assignments = append(store.assignments, OtherAssignment{
			AssignmentID: 1, EventID: 2, EventName: "Вечерний демонтаж",
			EventStartDate: date(t, "2024-06-10"), EventEndDate: date(t, "2024-06-10"),
			CallTime: timePtr(date(t, "2024-06-10").Add(19 * time.Hour)),
			EndTime:  timePtr(date(t, "2024-06-10").Add(23 * time.Hour)),
		})

		verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1,
			timePtr(date(t, "2024-06-10").Add(14*time.Hour)),
			timePtr(date(t, "2024-06-10").Add(17*time.Hour+30*time.Minute)))

		if verdict.Status != StatusPartial {
			t.Fatalf("status = %s, want partial", verdict.Status)
		}
		if verdict.AvailableUntil == nil || verdict.AvailableUntil.Hour() != 19 {
			t.Errorf("availableUntil = %v, want 19:00", verdict.AvailableUntil)
		}
		if verdict.AvailableAfter != nil {
			t.Errorf("availableAfter must be empty for the until-variant")
		}
	})
}

func TestCheckAvailability_WideGapIsAvailable(t *testing.T) {
	// Назначения, разнесенные больше чем на 2 часа, не мешают.
	resolver, store := setupResolver(t)
	store.assignments = append(store.assignments, OtherAssignment{
		AssignmentID: 1, EventID: 2, EventName: "Утренний монтаж",
		EventStartDate: date(t, "2024-06-10"), EventEndDate: date(t, "2024-06-10"),
		CallTime: timePtr(date(t, "2024-06-10").Add(8 * time.Hour)),
		EndTime:  timePtr(date(t, "2024-06-10").Add(11 * time.Hour)),
	})

	verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1,
		timePtr(date(t, "2024-06-10").Add(14*time.Hour)),
		timePtr(date(t, "2024-06-10").Add(18*time.Hour)))

	if verdict.Status != StatusAvailable {
		t.Fatalf("status = %s, want available (gap is 3h)", verdict.Status)
	}
}

func TestCheckAvailability_TurnaroundBoundary(t *testing.T) {
	// Порог строгий: ровно 2 часа между назначениями - уже достаточно,
	// Partial возвращается только при разрыве строго меньше порога.
	morning := func(t *testing.T, store *mockStore) {
		t.Helper()
		store.assignments = append(store.assignments, OtherAssignment{
			AssignmentID: 1, EventID: 2, EventName: "Утренний монтаж",
			EventStartDate: date(t, "2024-06-10"), EventEndDate: date(t, "2024-06-10"),
			CallTime: timePtr(date(t, "2024-06-10").Add(8 * time.Hour)),
			EndTime:  timePtr(date(t, "2024-06-10").Add(12 * time.Hour)),
		})
	}

	t.Run("gap of exactly two hours is available", func(t *testing.T) {
		resolver, store := setupResolver(t)
		morning(t, store)

		verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1,
			timePtr(date(t, "2024-06-10").Add(14*time.Hour)),
			timePtr(date(t, "2024-06-10").Add(18*time.Hour)))

		if verdict.Status != StatusAvailable {
			t.Fatalf("status = %s, want available (gap is exactly 2h)", verdict.Status)
		}
	})

	t.Run("gap one minute under two hours is partial", func(t *testing.T) {
		resolver, store := setupResolver(t)
		morning(t, store)

		verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1,
			timePtr(date(t, "2024-06-10").Add(13*time.Hour+59*time.Minute)),
			timePtr(date(t, "2024-06-10").Add(18*time.Hour)))

		if verdict.Status != StatusPartial {
			t.Fatalf("status = %s, want partial (gap is 1h59m)", verdict.Status)
		}
		if verdict.AvailableAfter == nil || verdict.AvailableAfter.Hour() != 12 {
			t.Errorf("availableAfter = %v, want 12:00", verdict.AvailableAfter)
		}
	})
}

func TestCheckAvailability_StoreErrorDegrades(t *testing.T) {
	resolver, store := setupResolver(t)
	store.listErr = errors.New("db down")

	verdict := resolver.CheckAvailability(context.Background(), 1, 7, 1, nil, nil)
	if verdict.Status != StatusUnavailable {
		t.Fatalf("status = %s, want unavailable on store failure", verdict.Status)
	}
	if verdict.Reason == "" {
		t.Errorf("reason must explain the failure")
	}
}
