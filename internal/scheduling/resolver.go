// rentalops-crm/internal/scheduling/resolver.go
package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MinTurnaroundHours - минимальный разрыв между двумя назначениями одного
// сотрудника, при котором второе считается полностью доступным. Разрыв меньше
// порога - "впритык, но технически возможно": возвращается частичная доступность.
const MinTurnaroundHours = 2.0

// Status - дискриминант вердикта доступности.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusConflict    Status = "conflict"
	StatusPartial     Status = "partial"
	StatusUnavailable Status = "unavailable"
)

// Availability - вердикт проверки доступности сотрудника. Четыре варианта,
// дополнительные поля заполнены только для своего варианта; конструировать
// следует через функции-варианты ниже, чтобы не собрать смешанное состояние.
// Вердикт не кэшируется: отпуска и другие назначения меняются между проверками.
type Availability struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`

	// Заполняется для StatusConflict.
	ConflictingEventID   uint       `json:"conflictingEventId,omitempty"`
	ConflictingEventName string     `json:"conflictingEventName,omitempty"`
	ConflictCallTime     *time.Time `json:"conflictCallTime,omitempty"`
	ConflictEndTime      *time.Time `json:"conflictEndTime,omitempty"`

	// Заполняется для StatusPartial: ровно одно из двух полей.
	AvailableAfter *time.Time `json:"availableAfter,omitempty"`
	AvailableUntil *time.Time `json:"availableUntil,omitempty"`
}

func Available() Availability {
	return Availability{Status: StatusAvailable}
}

func Conflict(eventID uint, eventName string, callTime, endTime time.Time) Availability {
	return Availability{
		Status:               StatusConflict,
		Reason:               fmt.Sprintf("Conflicts with '%s'", eventName),
		ConflictingEventID:   eventID,
		ConflictingEventName: eventName,
		ConflictCallTime:     &callTime,
		ConflictEndTime:      &endTime,
	}
}

func PartialAfter(after time.Time, otherEventName string) Availability {
	return Availability{
		Status:         StatusPartial,
		Reason:         fmt.Sprintf("Available after %s (finishing '%s')", after.Format("15:04"), otherEventName),
		AvailableAfter: &after,
	}
}

func PartialUntil(until time.Time, otherEventName string) Availability {
	return Availability{
		Status:         StatusPartial,
		Reason:         fmt.Sprintf("Must finish by %s (starting '%s')", until.Format("15:04"), otherEventName),
		AvailableUntil: &until,
	}
}

func Unavailable(reason string) Availability {
	return Availability{Status: StatusUnavailable, Reason: reason}
}

// EventInfo - данные мероприятия, нужные резолверу.
type EventInfo struct {
	ID        uint
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// LeaveInfo - состояние отпуска сотрудника.
type LeaveInfo struct {
	OnLeave    bool
	LeaveStart *time.Time
	LeaveEnd   *time.Time
	Reason     string
}

// OtherAssignment - чужое назначение того же сотрудника вместе с данными
// его мероприятия (для вычисления эффективного окна времени).
type OtherAssignment struct {
	AssignmentID   uint
	EventID        uint
	EventName      string
	EventStartDate time.Time
	EventEndDate   time.Time
	CallTime       *time.Time
	EndTime        *time.Time
}

// Store - узкий интерфейс чтения, который нужен резолверу.
// Все запросы ограничены арендатором (tenantID).
type Store interface {
	GetEvent(ctx context.Context, tenantID, eventID uint) (*EventInfo, error)
	GetCrewMemberLeave(ctx context.Context, tenantID, crewMemberID uint) (*LeaveInfo, error)
	// ListOtherAssignments возвращает все назначения сотрудника, кроме
	// относящихся к excludeEventID, в детерминированном порядке (по id).
	// Резолвер возвращает ПЕРВЫЙ найденный конфликт, поэтому порядок - часть
	// наблюдаемого поведения.
	ListOtherAssignments(ctx context.Context, tenantID, crewMemberID, excludeEventID uint) ([]OtherAssignment, error)
}

// Resolver выполняет проверку доступности сотрудника для мероприятия.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// effectiveWindow вычисляет действующее окно назначения: явные CallTime/EndTime,
// а при их отсутствии - весь диапазон мероприятия (00:00 - 23:59:59.999).
func effectiveWindow(callTime, endTime *time.Time, eventStart, eventEnd time.Time) (time.Time, time.Time) {
	start := StartOfDay(eventStart)
	end := EndOfDay(eventEnd)
	if callTime != nil {
		start = *callTime
	}
	if endTime != nil {
		end = *endTime
	}
	return start, end
}

// CheckAvailability классифицирует предлагаемое назначение.
// Проверка только читает данные и никогда не возвращает ошибку вызывающему:
// любой сбой чтения деградирует в Unavailable с пояснением, потому что
// проверка доступности носит справочный характер и не должна ронять UI.
func (r *Resolver) CheckAvailability(ctx context.Context, tenantID, crewMemberID, eventID uint, proposedCall, proposedEnd *time.Time) Availability {
	event, err := r.store.GetEvent(ctx, tenantID, eventID)
	if err != nil || event == nil {
		return Unavailable("Event not found")
	}

	// 1. Отпуск. Правая граница отпуска трактуется как конец дня.
	// Сравниваем с диапазоном дат мероприятия, а не с предложенным окном.
	leave, err := r.store.GetCrewMemberLeave(ctx, tenantID, crewMemberID)
	if err != nil || leave == nil {
		return Unavailable("Crew member not found")
	}
	if leave.OnLeave && leave.LeaveStart != nil && leave.LeaveEnd != nil {
		leaveStart := StartOfDay(*leave.LeaveStart)
		leaveEnd := EndOfDay(*leave.LeaveEnd)
		if RangesOverlap(StartOfDay(event.StartDate), EndOfDay(event.EndDate), leaveStart, leaveEnd) {
			reason := fmt.Sprintf("On leave %s - %s",
				leave.LeaveStart.Format("02.01.2006"), leave.LeaveEnd.Format("02.01.2006"))
			if leave.Reason != "" {
				reason += " (" + leave.Reason + ")"
			}
			return Unavailable(reason)
		}
	}

	// 2. Предложенное окно: при отсутствии явного времени - все мероприятие.
	proposedStart, proposedEnd2 := effectiveWindow(proposedCall, proposedEnd, event.StartDate, event.EndDate)

	// 3. Другие назначения. Первое совпадение выигрывает.
	others, err := r.store.ListOtherAssignments(ctx, tenantID, crewMemberID, eventID)
	if err != nil {
		slog.Error("Не удалось загрузить назначения сотрудника", "crewMemberID", crewMemberID, "error", err)
		return Unavailable("Failed to load existing assignments")
	}

	for _, other := range others {
		otherStart, otherEnd := effectiveWindow(other.CallTime, other.EndTime, other.EventStartDate, other.EventEndDate)

		if RangesOverlap(proposedStart, proposedEnd2, otherStart, otherEnd) {
			return Conflict(other.EventID, other.EventName, otherStart, otherEnd)
		}

		// Чужое назначение заканчивается раньше начала предложенного,
		// но разрыв меньше порога.
		if otherEnd.Before(proposedStart) && GapHours(otherEnd, proposedStart) < MinTurnaroundHours {
			return PartialAfter(otherEnd, other.EventName)
		}

		// Чужое назначение начинается после конца предложенного.
		if otherStart.After(proposedEnd2) && GapHours(proposedEnd2, otherStart) < MinTurnaroundHours {
			return PartialUntil(otherStart, other.EventName)
		}
	}

	return Available()
}
