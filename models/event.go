// rentalops-crm/models/event.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы жизненного цикла мероприятия.
const (
	EventStatusDraft      = "draft"
	EventStatusConfirmed  = "confirmed"
	EventStatusInProgress = "in_progress"
	EventStatusCompleted  = "completed"
	EventStatusCancelled  = "cancelled"
)

// Event представляет мероприятие (аренда оборудования + работа команды).
// StartDate и EndDate - календарные даты (включительно), без времени суток.
type Event struct {
	gorm.Model
	TenantID  uint      `json:"tenantId" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	StartDate time.Time `json:"startDate" gorm:"not null"`
	EndDate   time.Time `json:"endDate" gorm:"not null"`
	Location  string    `json:"location"`
	Status    string    `json:"status" gorm:"default:'draft'"`
	Notes     string    `json:"notes"`
	QuoteID   *uint     `json:"quoteId"` // заполняется, если мероприятие создано из сметы

	Assignments []Assignment     `gorm:"foreignKey:EventID" json:"assignments,omitempty"`
	Inventory   []EventInventory `gorm:"foreignKey:EventID" json:"inventory,omitempty"`
}

// ValidEventStatus проверяет, что статус входит в известный набор.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusDraft, EventStatusConfirmed, EventStatusInProgress, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}
