// rentalops-crm/internal/scheduling/timerange.go
package scheduling

import "time"

// Чистые функции над интервалами времени. Все сравнения выполняются
// над абсолютными моментами; нормализация часовых поясов - забота вызывающего.

// RangesOverlap сообщает, пересекаются ли два полуоткрытых интервала [aStart, aEnd) и [bStart, bEnd).
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// GapHours возвращает разрыв в часах между концом одного интервала и началом
// другого. Для пересекающихся или соприкасающихся интервалов значение <= 0.
func GapHours(end, start time.Time) float64 {
	return start.Sub(end).Hours()
}

// StartOfDay возвращает момент 00:00:00 того же календарного дня.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay возвращает момент 23:59:59.999 того же календарного дня.
// Отпуск и диапазоны мероприятий хранятся как даты, правая граница
// трактуется как конец дня.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
