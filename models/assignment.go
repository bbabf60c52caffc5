// rentalops-crm/models/assignment.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ExternalEventIDs - специальный тип для хранения упорядоченного списка
// идентификаторов внешних календарных событий в JSONB.
// Одно назначение отображается на несколько однодневных событий.
type ExternalEventIDs []string

// Value преобразует список в формат JSON для сохранения в БД.
func (ids ExternalEventIDs) Value() (driver.Value, error) {
	if ids == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(ids)
}

// Scan считывает JSONB-значение из БД обратно в список. Строки принимаются
// наравне с байтами: не каждый драйвер отдает json как []byte.
func (ids *ExternalEventIDs) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*ids = nil
		return nil
	case []byte:
		return json.Unmarshal(v, ids)
	case string:
		return json.Unmarshal([]byte(v), ids)
	}
	return errors.New("unsupported source type for external event ids")
}

// Assignment связывает сотрудника команды с мероприятием.
// Инвариант: непустой ExternalEventIDs - это ровно тот набор внешних событий,
// который был успешно создан для текущих CallTime/EndTime; при изменении
// времени список считается устаревшим и пересоздается синхронизатором.
type Assignment struct {
	gorm.Model
	TenantID     uint `json:"tenantId" gorm:"index;not null"`
	EventID      uint `json:"eventId" gorm:"index;not null"`
	CrewMemberID uint `json:"crewMemberId" gorm:"index;not null"`

	Role       string     `json:"role" gorm:"not null"`
	CallTime   *time.Time `json:"callTime"` // полные дата-время; при отсутствии - весь диапазон мероприятия
	EndTime    *time.Time `json:"endTime"`
	HourlyRate *float64   `json:"hourlyRate"`

	ExternalEventIDs ExternalEventIDs `json:"externalEventIds" gorm:"type:jsonb;default:'[]'"`

	Event      *Event      `gorm:"foreignKey:EventID" json:"event,omitempty"`
	CrewMember *CrewMember `gorm:"foreignKey:CrewMemberID" json:"crewMember,omitempty"`
}
