// rentalops-crm/models/crew_member.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// CrewMember представляет сотрудника выездной команды (техник, монтажник, водитель).
type CrewMember struct {
	gorm.Model
	TenantID  uint   `json:"tenantId" gorm:"index;not null"`
	LastName  string `json:"lastName" gorm:"not null"`
	FirstName string `json:"firstName" gorm:"not null"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	RoleLabel string `json:"roleLabel"` // основная специализация, e.g. "Звукорежиссер"
	PhotoURL  string `json:"photoUrl"`
	IsActive  *bool  `json:"isActive" gorm:"default:true"`

	// --- ОТПУСК ---
	OnLeave     bool       `json:"onLeave" gorm:"default:false"`
	LeaveStart  *time.Time `json:"leaveStart"`
	LeaveEnd    *time.Time `json:"leaveEnd"`
	LeaveReason string     `json:"leaveReason"`

	// --- ИНТЕГРАЦИЯ С КАЛЕНДАРЕМ ---
	// CalendarCredential хранит зашифрованный (secretbox) refresh-токен.
	// Пустое значение означает, что календарь не подключен.
	CalendarConnected  bool   `json:"calendarConnected" gorm:"default:false"`
	CalendarCredential []byte `json:"-"`
	CalendarEmail      string `json:"calendarEmail"`

	Assignments []Assignment `gorm:"foreignKey:CrewMemberID" json:"assignments,omitempty"`
}

// FullName возвращает полное имя для заголовков и уведомлений.
func (m *CrewMember) FullName() string {
	return m.FirstName + " " + m.LastName
}
