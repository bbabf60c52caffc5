// rentalops-crm/internal/handlers/event_handler.go
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

// CombinedEvent - универсальная структура для календарной сетки на фронтенде.
// Совместима с библиотекой FullCalendar.
type CombinedEvent struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId,omitempty"` // 'events', 'leaves'
	Title       string    `json:"title"`
	Start       time.Time `json:"start,omitempty"`
	End         time.Time `json:"end,omitempty"`
	AllDay      bool      `json:"allDay"`
	Editable    bool      `json:"editable"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
}

type EventInput struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
}

// ListEventsHandler возвращает мероприятия с фильтром по статусу и поиском.
func ListEventsHandler(c *gin.Context) {
	var events []models.Event

	query := config.DB.Where("tenant_id = ?", tenantID(c)).Order("start_date desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
	}

	if c.Query("all") == "true" {
		if err := query.Find(&events).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch events"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": events})
		return
	}

	var totalRows int64
	query.Model(&models.Event{}).Count(&totalRows)
	if err := query.Scopes(Paginate(c)).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch events"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, events, totalRows))
}

// GetEventHandler возвращает мероприятие с составом команды и инвентарем.
func GetEventHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	err := config.DB.Preload("Assignments.CrewMember").Preload("Inventory").
		Where("tenant_id = ?", tenantID(c)).
		First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEventHandler создает мероприятие.
func CreateEventHandler(c *gin.Context) {
	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.EndDate.Before(input.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not precede start date"})
		return
	}

	status := input.Status
	if status == "" {
		status = models.EventStatusDraft
	}
	if !models.ValidEventStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event status"})
		return
	}

	event := models.Event{
		TenantID:  tenantID(c),
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Location:  input.Location,
		Status:    status,
		Notes:     input.Notes,
	}
	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create event"})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEventHandler обновляет мероприятие. При изменении дат назначения
// пересинхронизируются: их внешние события строятся от диапазона мероприятия.
func UpdateEventHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}
	tenant := tenantID(c)

	var event models.Event
	if err := config.DB.Where("tenant_id = ?", tenant).First(&event, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.Status != "" && !models.ValidEventStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event status"})
		return
	}

	datesChanged := !event.StartDate.Equal(input.StartDate) || !event.EndDate.Equal(input.EndDate)

	updates := map[string]interface{}{
		"name":       input.Name,
		"start_date": input.StartDate,
		"end_date":   input.EndDate,
		"location":   input.Location,
		"notes":      input.Notes,
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if err := config.DB.Model(&event).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update event"})
		return
	}

	if datesChanged {
		var assignments []models.Assignment
		config.DB.Where("tenant_id = ? AND event_id = ?", tenant, id).Find(&assignments)
		for _, assignment := range assignments {
			if _, err := Sync().SyncAssignment(c.Request.Context(), tenant, assignment.ID); err != nil {
				// Лучшие усилия: отдельное назначение догонит календарь
				// при следующей синхронизации.
				continue
			}
		}
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEventHandler удаляет мероприятие вместе с назначениями
// и их внешними календарными событиями.
func DeleteEventHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}
	tenant := tenantID(c)

	var event models.Event
	if err := config.DB.Where("tenant_id = ?", tenant).First(&event, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var assignments []models.Assignment
	config.DB.Where("tenant_id = ? AND event_id = ?", tenant, id).Find(&assignments)
	for _, assignment := range assignments {
		_ = Sync().RemoveAssignmentSync(c.Request.Context(), tenant, assignment.ID)
		config.DB.Delete(&assignment)
	}

	config.DB.Where("event_id = ?", id).Delete(&models.EventInventory{})
	if err := config.DB.Delete(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// GetCalendarFeedHandler собирает календарную сетку: мероприятия и отпуска.
func GetCalendarFeedHandler(c *gin.Context) {
	tenant := tenantID(c)
	var feed []CombinedEvent

	var events []models.Event
	if err := config.DB.Where("tenant_id = ? AND status != ?", tenant, models.EventStatusCancelled).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	for _, event := range events {
		feed = append(feed, CombinedEvent{
			ID:       "event_" + strconv.Itoa(int(event.ID)),
			GroupID:  "events",
			Title:    event.Name,
			Start:    event.StartDate,
			End:      event.EndDate.AddDate(0, 0, 1), // FullCalendar: правая граница исключающая
			AllDay:   true,
			Editable: true,
			Color:    eventStatusColor(event.Status),
			Location: event.Location,
		})
	}

	var members []models.CrewMember
	if err := config.DB.Where("tenant_id = ? AND on_leave = true", tenant).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch crew leaves"})
		return
	}
	for _, member := range members {
		if member.LeaveStart == nil || member.LeaveEnd == nil {
			continue
		}
		feed = append(feed, CombinedEvent{
			ID:          "leave_" + strconv.Itoa(int(member.ID)),
			GroupID:     "leaves",
			Title:       fmt.Sprintf("Отпуск: %s", member.FullName()),
			Start:       *member.LeaveStart,
			End:         member.LeaveEnd.AddDate(0, 0, 1),
			AllDay:      true,
			Editable:    false,
			Color:       "#f39c12",
			Description: member.LeaveReason,
		})
	}

	c.JSON(http.StatusOK, feed)
}

// eventStatusColor задает цвет мероприятия в календарной сетке по статусу.
func eventStatusColor(status string) string {
	switch status {
	case models.EventStatusConfirmed:
		return "#28a745"
	case models.EventStatusInProgress:
		return "#3498db"
	case models.EventStatusCompleted:
		return "#95a5a6"
	default:
		return "#6c757d" // черновик
	}
}
