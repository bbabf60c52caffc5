// rentalops-crm/models/inventory.go
package models

import "gorm.io/gorm"

// InventoryItem - единица складского оборудования.
type InventoryItem struct {
	gorm.Model
	TenantID    uint     `json:"tenantId" gorm:"index;not null"`
	Name        string   `json:"name" gorm:"not null"`
	SKU         string   `json:"sku" gorm:"index"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity" gorm:"default:0"`
	DailyRate   *float64 `json:"dailyRate"`
}

// EventInventory - оборудование, закрепленное за мероприятием.
// Создается копированием позиций принятой сметы либо вручную.
type EventInventory struct {
	gorm.Model
	EventID         uint   `json:"eventId" gorm:"index;not null"`
	InventoryItemID *uint  `json:"inventoryItemId"`
	Name            string `json:"name" gorm:"not null"`
	Quantity        int    `json:"quantity" gorm:"default:1"`
	Notes           string `json:"notes"`
}
