// rentalops-crm/models/user.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents the application user (office staff, not crew).
type User struct {
	gorm.Model
	TenantID     uint       `json:"tenantId" gorm:"index;not null"`
	Login        string     `json:"login" gorm:"unique;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Status       string     `json:"status" gorm:"default:'active'"` // active / blocked
	PhotoURL     string     `json:"photoUrl"`
	BirthDate    *time.Time `json:"birthDate"`

	Roles []Role `json:"roles" gorm:"many2many:user_roles;"`
}
