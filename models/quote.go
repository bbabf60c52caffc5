// rentalops-crm/models/quote.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы сметы.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// Quote представляет смету для клиента. После принятия из сметы
// генерируется мероприятие, а позиции копируются в его инвентарь.
type Quote struct {
	gorm.Model
	TenantID     uint       `json:"tenantId" gorm:"uniqueIndex:idx_quotes_tenant_number;index;not null"`
	Number       string     `json:"number" gorm:"uniqueIndex:idx_quotes_tenant_number;not null"`
	ClientName   string     `json:"clientName" gorm:"not null"`
	ClientEmail  string     `json:"clientEmail"`
	ClientPhone  string     `json:"clientPhone"`
	EventName    string     `json:"eventName"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	Location     string     `json:"location"`
	Status       string     `json:"status" gorm:"default:'draft'"`
	Comments     string     `json:"comments"`
	AcceptedAt   *time.Time `json:"acceptedAt"`
	EventID      *uint      `json:"eventId"` // мероприятие, созданное при принятии

	Items []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

// QuoteItem - позиция сметы. Цены хранятся как введены, расчеты вне скоупа.
type QuoteItem struct {
	gorm.Model
	QuoteID         uint     `json:"quoteId" gorm:"index;not null"`
	InventoryItemID *uint    `json:"inventoryItemId"`
	Name            string   `json:"name" gorm:"not null"`
	Quantity        int      `json:"quantity" gorm:"default:1"`
	UnitPrice       *float64 `json:"unitPrice"`
}
