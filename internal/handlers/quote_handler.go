// rentalops-crm/internal/handlers/quote_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rentalops-crm/config"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuoteItemInput struct {
	InventoryItemID *uint    `json:"inventoryItemId"`
	Name            string   `json:"name" binding:"required"`
	Quantity        int      `json:"quantity"`
	UnitPrice       *float64 `json:"unitPrice"`
}

type QuoteInput struct {
	ClientName  string           `json:"clientName" binding:"required"`
	ClientEmail string           `json:"clientEmail"`
	ClientPhone string           `json:"clientPhone"`
	EventName   string           `json:"eventName"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	Location    string           `json:"location"`
	Comments    string           `json:"comments"`
	Items       []QuoteItemInput `json:"items"`
}

// nextQuoteNumber генерирует порядковый номер сметы вида Q-2026-0042
// в пределах арендатора и текущего года. Номер выводится из максимального
// существующего суффикса, а не из количества строк: удаление сметы не должно
// освобождать ее номер. Unscoped - мягко удаленные сметы тоже держат номер.
func nextQuoteNumber(tx *gorm.DB, tenant uint) (string, error) {
	prefix := fmt.Sprintf("Q-%d-", time.Now().Year())

	var numbers []string
	err := tx.Unscoped().Model(&models.Quote{}).
		Where("tenant_id = ? AND number LIKE ?", tenant, prefix+"%").
		Pluck("number", &numbers).Error
	if err != nil {
		return "", err
	}
	return nextNumberAfter(prefix, numbers), nil
}

// nextNumberAfter возвращает номер, следующий за максимальным суффиксом
// среди существующих. Чужие и нечисловые суффиксы игнорируются.
func nextNumberAfter(prefix string, existing []string) string {
	maxSuffix := 0
	for _, number := range existing {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		suffix, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
		if err == nil && suffix > maxSuffix {
			maxSuffix = suffix
		}
	}
	return fmt.Sprintf("%s%04d", prefix, maxSuffix+1)
}

// ListQuotesHandler возвращает сметы с фильтром по статусу и поиском по клиенту.
func ListQuotesHandler(c *gin.Context) {
	var quotes []models.Quote

	query := config.DB.Preload("Items").
		Where("tenant_id = ?", tenantID(c)).Order("id desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(client_name) LIKE ? OR LOWER(event_name) LIKE ? OR LOWER(number) LIKE ?",
			pattern, pattern, pattern)
	}

	var totalRows int64
	query.Model(&models.Quote{}).Count(&totalRows)
	if err := query.Scopes(Paginate(c)).Find(&quotes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch quotes"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, quotes, totalRows))
}

// GetQuoteHandler возвращает смету с позициями.
func GetQuoteHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
		return
	}

	var quote models.Quote
	err := config.DB.Preload("Items").
		Where("tenant_id = ?", tenantID(c)).First(&quote, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// CreateQuoteHandler создает смету вместе с позициями и присваивает номер.
func CreateQuoteHandler(c *gin.Context) {
	var input QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	tenant := tenantID(c)

	var quote models.Quote
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		number, err := nextQuoteNumber(tx, tenant)
		if err != nil {
			return err
		}
		quote = models.Quote{
			TenantID:    tenant,
			Number:      number,
			ClientName:  input.ClientName,
			ClientEmail: input.ClientEmail,
			ClientPhone: input.ClientPhone,
			EventName:   input.EventName,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			Location:    input.Location,
			Status:      models.QuoteStatusDraft,
			Comments:    input.Comments,
		}
		if err := tx.Create(&quote).Error; err != nil {
			return err
		}
		for _, item := range input.Items {
			quantity := item.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			quoteItem := models.QuoteItem{
				QuoteID:         quote.ID,
				InventoryItemID: item.InventoryItemID,
				Name:            item.Name,
				Quantity:        quantity,
				UnitPrice:       item.UnitPrice,
			}
			if err := tx.Create(&quoteItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create quote"})
		return
	}

	config.DB.Preload("Items").First(&quote, quote.ID)
	c.JSON(http.StatusCreated, quote)
}

// UpdateQuoteHandler обновляет смету. Принятые сметы редактировать нельзя.
func UpdateQuoteHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
		return
	}
	tenant := tenantID(c)

	var quote models.Quote
	if err := config.DB.Where("tenant_id = ?", tenant).First(&quote, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}
	if quote.Status == models.QuoteStatusAccepted {
		c.JSON(http.StatusConflict, gin.H{"error": "Accepted quote cannot be edited"})
		return
	}

	var input QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"client_name":  input.ClientName,
			"client_email": input.ClientEmail,
			"client_phone": input.ClientPhone,
			"event_name":   input.EventName,
			"start_date":   input.StartDate,
			"end_date":     input.EndDate,
			"location":     input.Location,
			"comments":     input.Comments,
		}
		if err := tx.Model(&quote).Updates(updates).Error; err != nil {
			return err
		}
		// Позиции заменяются целиком: так фронтенду не нужно считать дельту.
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		for _, item := range input.Items {
			quantity := item.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			quoteItem := models.QuoteItem{
				QuoteID:         quote.ID,
				InventoryItemID: item.InventoryItemID,
				Name:            item.Name,
				Quantity:        quantity,
				UnitPrice:       item.UnitPrice,
			}
			if err := tx.Create(&quoteItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update quote"})
		return
	}

	config.DB.Preload("Items").First(&quote, quote.ID)
	c.JSON(http.StatusOK, quote)
}

// UpdateQuoteStatusHandler переводит смету в статус sent/rejected.
// Принятие идет только через AcceptQuoteHandler.
func UpdateQuoteStatusHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Status != models.QuoteStatusSent && input.Status != models.QuoteStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 'sent' or 'rejected'"})
		return
	}

	var quote models.Quote
	if err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&quote, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}
	if quote.Status == models.QuoteStatusAccepted {
		c.JSON(http.StatusConflict, gin.H{"error": "Accepted quote cannot change status"})
		return
	}

	if err := config.DB.Model(&quote).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update quote status"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// AcceptQuoteHandler принимает смету: в одной транзакции создается
// мероприятие и позиции сметы копируются в его инвентарь.
func AcceptQuoteHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
		return
	}
	tenant := tenantID(c)

	var quote models.Quote
	if err := config.DB.Preload("Items").Where("tenant_id = ?", tenant).First(&quote, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}
	if quote.Status == models.QuoteStatusAccepted {
		c.JSON(http.StatusConflict, gin.H{"error": "Quote is already accepted", "eventId": quote.EventID})
		return
	}
	if quote.StartDate == nil || quote.EndDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quote must have start and end dates before acceptance"})
		return
	}

	var event models.Event
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		eventName := quote.EventName
		if eventName == "" {
			eventName = fmt.Sprintf("%s (%s)", quote.ClientName, quote.Number)
		}
		event = models.Event{
			TenantID:  tenant,
			Name:      eventName,
			StartDate: *quote.StartDate,
			EndDate:   *quote.EndDate,
			Location:  quote.Location,
			Status:    models.EventStatusConfirmed,
			QuoteID:   &quote.ID,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		for _, item := range quote.Items {
			eventItem := models.EventInventory{
				EventID:         event.ID,
				InventoryItemID: item.InventoryItemID,
				Name:            item.Name,
				Quantity:        item.Quantity,
			}
			if err := tx.Create(&eventItem).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		return tx.Model(&quote).Updates(map[string]interface{}{
			"status":      models.QuoteStatusAccepted,
			"accepted_at": now,
			"event_id":    event.ID,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not accept quote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote accepted",
		"quote":   quote,
		"event":   event,
	})
}

// DeleteQuoteHandler удаляет смету с позициями. Принятая смета не удаляется,
// чтобы не терять связь с созданным мероприятием.
func DeleteQuoteHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
		return
	}

	var quote models.Quote
	if err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&quote, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}
	if quote.Status == models.QuoteStatusAccepted {
		c.JSON(http.StatusConflict, gin.H{"error": "Accepted quote cannot be deleted"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quote).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete quote"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quote deleted successfully"})
}
