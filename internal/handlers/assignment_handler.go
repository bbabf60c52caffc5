// rentalops-crm/internal/handlers/assignment_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"rentalops-crm/config"
	"rentalops-crm/internal/calendarsync"
	"rentalops-crm/internal/scheduling"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AssignmentInput struct {
	CrewMemberID uint       `json:"crewMemberId" binding:"required"`
	Role         string     `json:"role" binding:"required"`
	CallTime     *time.Time `json:"callTime"`
	EndTime      *time.Time `json:"endTime"`
	HourlyRate   *float64   `json:"hourlyRate"`
}

// syncStatusFor переводит результат синхронизации в строку для ответа API.
// CredentialInvalid отображается отдельным статусом: UI должен показать
// "переподключите календарь", а не общую ошибку.
func syncStatusFor(err error) string {
	switch {
	case err == nil:
		return "synced"
	case errors.Is(err, calendarsync.ErrCredentialInvalid):
		return "calendar_reconnect_required"
	default:
		return "sync_failed"
	}
}

// ListEventAssignmentsHandler возвращает состав команды мероприятия.
func ListEventAssignmentsHandler(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var assignments []models.Assignment
	err := config.DB.Preload("CrewMember").
		Where("tenant_id = ? AND event_id = ?", tenantID(c), eventID).
		Order("id asc").
		Find(&assignments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch assignments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// CreateAssignmentHandler назначает сотрудника на мероприятие.
// Перед записью выполняется проверка доступности; конфликт возвращается
// с кодом 409 и полным вердиктом. Параметр force=true позволяет диспетчеру
// осознанно назначить поверх частичной доступности или конфликта.
// Синхронизация календаря - best-effort: ее сбой не отменяет назначение.
func CreateAssignmentHandler(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}
	tenant := tenantID(c)

	var input AssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	resolver := scheduling.NewResolver(scheduling.NewGormStore(config.DB))
	verdict := resolver.CheckAvailability(c.Request.Context(), tenant, input.CrewMemberID, eventID, input.CallTime, input.EndTime)

	if verdict.Status != scheduling.StatusAvailable && c.Query("force") != "true" {
		c.JSON(http.StatusConflict, gin.H{
			"error":        "Crew member is not fully available",
			"availability": verdict,
		})
		return
	}

	assignment := models.Assignment{
		TenantID:     tenant,
		EventID:      eventID,
		CrewMemberID: input.CrewMemberID,
		Role:         input.Role,
		CallTime:     input.CallTime,
		EndTime:      input.EndTime,
		HourlyRate:   input.HourlyRate,
	}
	if err := config.DB.Create(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create assignment"})
		return
	}

	// Календарь сотрудника приводится в соответствие после записи.
	_, syncErr := Sync().SyncAssignment(c.Request.Context(), tenant, assignment.ID)
	if syncErr != nil {
		slog.Warn("Синхронизация календаря после назначения не удалась",
			"assignmentID", assignment.ID, "error", syncErr)
	}

	c.JSON(http.StatusCreated, gin.H{
		"assignment":   assignment,
		"availability": verdict,
		"syncStatus":   syncStatusFor(syncErr),
	})
}

// UpdateAssignmentHandler меняет роль, время или ставку назначения.
// Непустой список внешних событий с этого момента устарел: синхронизатор
// удалит и пересоздаст события под новое время.
func UpdateAssignmentHandler(c *gin.Context) {
	assignmentID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}
	tenant := tenantID(c)

	var assignment models.Assignment
	err := config.DB.Where("tenant_id = ?", tenant).First(&assignment, assignmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input AssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"crew_member_id": input.CrewMemberID,
		"role":           input.Role,
		"call_time":      input.CallTime,
		"end_time":       input.EndTime,
		"hourly_rate":    input.HourlyRate,
	}
	if err := config.DB.Model(&assignment).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update assignment"})
		return
	}

	_, syncErr := Sync().SyncAssignment(c.Request.Context(), tenant, assignment.ID)
	if syncErr != nil {
		slog.Warn("Синхронизация календаря после изменения назначения не удалась",
			"assignmentID", assignment.ID, "error", syncErr)
	}

	c.JSON(http.StatusOK, gin.H{
		"assignment": assignment,
		"syncStatus": syncStatusFor(syncErr),
	})
}

// DeleteAssignmentHandler снимает сотрудника с мероприятия. Сначала
// best-effort чистка внешнего календаря, затем удаление записи: при
// частично неудачной чистке запись не удаляется, чтобы повторная попытка
// нашла по сохраненному списку id оставшиеся внешние события.
func DeleteAssignmentHandler(c *gin.Context) {
	assignmentID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}
	tenant := tenantID(c)

	var assignment models.Assignment
	err := config.DB.Where("tenant_id = ?", tenant).First(&assignment, assignmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	removeErr := Sync().RemoveAssignmentSync(c.Request.Context(), tenant, assignment.ID)
	if removeErr != nil && !errors.Is(removeErr, calendarsync.ErrNotFound) {
		if errors.Is(removeErr, calendarsync.ErrCredentialInvalid) {
			// Доступа к календарю больше нет - внешние события недостижимы,
			// назначение все равно удаляем.
			slog.Warn("Календарь недоступен при снятии назначения",
				"assignmentID", assignment.ID, "error", removeErr)
		} else {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "Calendar cleanup failed, assignment kept for retry",
				"syncStatus": "sync_failed",
			})
			return
		}
	}

	if err := config.DB.Delete(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete assignment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment removed successfully"})
}

// ResyncAssignmentHandler вручную повторяет синхронизацию назначения.
func ResyncAssignmentHandler(c *gin.Context) {
	assignmentID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	firstID, err := Sync().SyncAssignment(c.Request.Context(), tenantID(c), assignmentID)
	if err != nil {
		if errors.Is(err, calendarsync.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
			return
		}
		if errors.Is(err, calendarsync.ErrCredentialInvalid) {
			c.JSON(http.StatusConflict, gin.H{"error": "calendar_reconnect_required"})
			return
		}
		if errors.Is(err, calendarsync.ErrSyncInProgress) {
			// Не сбой внешнего сервиса: другая синхронизация держит lease,
			// клиенту достаточно повторить позже.
			c.JSON(http.StatusConflict, gin.H{"error": "Sync already in progress, retry later"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Calendar sync failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment synced", "firstExternalEventId": firstID})
}
