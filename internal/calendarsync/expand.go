// rentalops-crm/internal/calendarsync/expand.go
package calendarsync

import (
	"fmt"
	"time"
)

// Окно рабочего дня по умолчанию, когда у назначения нет явного времени.
const (
	DefaultCallHour = 9
	DefaultEndHour  = 18
)

// EventSpec - описание одного однодневного события внешнего календаря.
type EventSpec struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// ExpandAssignment разворачивает назначение в последовательность однодневных
// событий: по одному на каждый календарный день диапазона мероприятия
// (границы включительно). Время суток берется из CallTime/EndTime назначения,
// при их отсутствии - окно 09:00-18:00. Детерминированно, без I/O.
func ExpandAssignment(role, eventName, location string, startDate, endDate time.Time, callTime, endTime *time.Time, loc *time.Location) []EventSpec {
	if loc == nil {
		loc = time.Local
	}

	callHour, callMin := DefaultCallHour, 0
	if callTime != nil {
		callHour, callMin = callTime.Hour(), callTime.Minute()
	}
	endHour, endMin := DefaultEndHour, 0
	if endTime != nil {
		endHour, endMin = endTime.Hour(), endTime.Minute()
	}

	displayLocation := location
	if displayLocation == "" {
		displayLocation = "TBD"
	}
	title := fmt.Sprintf("%s - %s", role, eventName)
	description := fmt.Sprintf("Event: %s\nRole: %s\nLocation: %s", eventName, role, displayLocation)

	var specs []EventSpec
	day := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, loc)
	last := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, loc)
	for !day.After(last) {
		specs = append(specs, EventSpec{
			Title:       title,
			Description: description,
			Location:    location,
			Start:       time.Date(day.Year(), day.Month(), day.Day(), callHour, callMin, 0, 0, loc),
			End:         time.Date(day.Year(), day.Month(), day.Day(), endHour, endMin, 0, 0, loc),
			TimeZone:    loc.String(),
		})
		day = day.AddDate(0, 0, 1)
	}
	return specs
}
