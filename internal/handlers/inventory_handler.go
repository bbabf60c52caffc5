// rentalops-crm/internal/handlers/inventory_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"rentalops-crm/config"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InventoryItemInput struct {
	Name        string   `json:"name" binding:"required"`
	SKU         string   `json:"sku"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
	DailyRate   *float64 `json:"dailyRate"`
}

// ListInventoryHandler возвращает склад с поиском по названию/артикулу/категории.
func ListInventoryHandler(c *gin.Context) {
	var items []models.InventoryItem

	query := config.DB.Where("tenant_id = ?", tenantID(c)).Order("name asc")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern)
	}

	if c.Query("all") == "true" {
		if err := query.Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
		return
	}

	var totalRows int64
	query.Model(&models.InventoryItem{}).Count(&totalRows)
	if err := query.Scopes(Paginate(c)).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, items, totalRows))
}

// GetInventoryItemHandler возвращает единицу оборудования.
func GetInventoryItemHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.InventoryItem
	err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateInventoryItemHandler добавляет единицу оборудования на склад.
func CreateInventoryItemHandler(c *gin.Context) {
	var input InventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	item := models.InventoryItem{
		TenantID:    tenantID(c),
		Name:        input.Name,
		SKU:         input.SKU,
		Category:    input.Category,
		Description: input.Description,
		Quantity:    input.Quantity,
		DailyRate:   input.DailyRate,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create inventory item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateInventoryItemHandler обновляет единицу оборудования.
func UpdateInventoryItemHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.InventoryItem
	if err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	var input InventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":        input.Name,
		"sku":         input.SKU,
		"category":    input.Category,
		"description": input.Description,
		"quantity":    input.Quantity,
		"daily_rate":  input.DailyRate,
	}
	if err := config.DB.Model(&item).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update inventory item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteInventoryItemHandler удаляет единицу оборудования. Ссылки из
// инвентаря мероприятий остаются: там хранится копия названия.
func DeleteInventoryItemHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.InventoryItem
	if err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}
	if err := config.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete inventory item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}

// AddEventInventoryHandler закрепляет оборудование за мероприятием вручную.
func AddEventInventoryHandler(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&event, eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var input struct {
		InventoryItemID *uint  `json:"inventoryItemId"`
		Name            string `json:"name" binding:"required"`
		Quantity        int    `json:"quantity"`
		Notes           string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	entry := models.EventInventory{
		EventID:         event.ID,
		InventoryItemID: input.InventoryItemID,
		Name:            input.Name,
		Quantity:        input.Quantity,
		Notes:           input.Notes,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not attach inventory to event"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RemoveEventInventoryHandler открепляет оборудование от мероприятия.
func RemoveEventInventoryHandler(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}
	entryID, ok := paramID(c, "entryId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inventory entry ID"})
		return
	}

	var event models.Event
	if err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&event, eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	result := config.DB.Where("event_id = ?", event.ID).Delete(&models.EventInventory{}, entryID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not detach inventory"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory entry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory entry removed"})
}
