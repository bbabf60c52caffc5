// rentalops-crm/internal/handlers/crew_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rentalops-crm/config"
	"rentalops-crm/internal/scheduling"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- Структуры для входящих данных по СОТРУДНИКАМ КОМАНДЫ ---

type CrewMemberInput struct {
	LastName  string `json:"lastName" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	RoleLabel string `json:"roleLabel"`
	IsActive  *bool  `json:"isActive"`

	OnLeave     *bool      `json:"onLeave"`
	LeaveStart  *time.Time `json:"leaveStart"`
	LeaveEnd    *time.Time `json:"leaveEnd"`
	LeaveReason string     `json:"leaveReason"`
}

// ListCrewHandler возвращает список сотрудников команды с поиском и пагинацией.
func ListCrewHandler(c *gin.Context) {
	var members []models.CrewMember

	query := config.DB.Where("tenant_id = ?", tenantID(c)).Order("last_name, first_name")

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(last_name) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(role_label) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if c.Query("all") == "true" {
		if err := query.Find(&members).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch crew members"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": members})
		return
	}

	var totalRows int64
	query.Model(&models.CrewMember{}).Count(&totalRows)
	if err := query.Scopes(Paginate(c)).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch crew members"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, members, totalRows))
}

// GetCrewMemberHandler возвращает сотрудника вместе с его назначениями.
func GetCrewMemberHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid crew member ID"})
		return
	}

	var member models.CrewMember
	err := config.DB.Preload("Assignments.Event").
		Where("tenant_id = ?", tenantID(c)).
		First(&member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Crew member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// CreateCrewMemberHandler создает нового сотрудника команды.
func CreateCrewMemberHandler(c *gin.Context) {
	var input CrewMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	member := models.CrewMember{
		TenantID:    tenantID(c),
		LastName:    input.LastName,
		FirstName:   input.FirstName,
		Email:       input.Email,
		Phone:       input.Phone,
		RoleLabel:   input.RoleLabel,
		IsActive:    input.IsActive,
		LeaveStart:  input.LeaveStart,
		LeaveEnd:    input.LeaveEnd,
		LeaveReason: input.LeaveReason,
	}
	if input.OnLeave != nil {
		member.OnLeave = *input.OnLeave
	}

	if err := config.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create crew member"})
		return
	}
	c.JSON(http.StatusCreated, member)
}

// UpdateCrewMemberHandler обновляет данные сотрудника, включая отпуск.
func UpdateCrewMemberHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid crew member ID"})
		return
	}

	var member models.CrewMember
	if err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&member, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crew member not found"})
		return
	}

	var input CrewMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"last_name":    input.LastName,
		"first_name":   input.FirstName,
		"email":        input.Email,
		"phone":        input.Phone,
		"role_label":   input.RoleLabel,
		"leave_start":  input.LeaveStart,
		"leave_end":    input.LeaveEnd,
		"leave_reason": input.LeaveReason,
	}
	if input.OnLeave != nil {
		updates["on_leave"] = *input.OnLeave
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := config.DB.Model(&member).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update crew member"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteCrewMemberHandler удаляет сотрудника. Перед удалением снимаются
// все его назначения вместе с внешними календарными событиями (лучшие усилия).
func DeleteCrewMemberHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid crew member ID"})
		return
	}
	tenant := tenantID(c)

	var member models.CrewMember
	if err := config.DB.Where("tenant_id = ?", tenant).First(&member, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crew member not found"})
		return
	}

	var assignments []models.Assignment
	config.DB.Where("tenant_id = ? AND crew_member_id = ?", tenant, id).Find(&assignments)
	for _, assignment := range assignments {
		if err := Sync().RemoveAssignmentSync(c.Request.Context(), tenant, assignment.ID); err != nil {
			slog.Warn("Не удалось снять календарную синхронизацию при удалении сотрудника",
				"assignmentID", assignment.ID, "error", err)
		}
		config.DB.Delete(&assignment)
	}

	if err := config.DB.Delete(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete crew member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Crew member deleted successfully"})
}

// CheckCrewAvailabilityHandler - read-only проверка доступности сотрудника
// для мероприятия. Вердикт никогда не кэшируется.
// GET /api/crew/:id/availability?event_id=...&call_time=...&end_time=...
func CheckCrewAvailabilityHandler(c *gin.Context) {
	crewID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid crew member ID"})
		return
	}

	var query struct {
		EventID  uint       `form:"event_id" binding:"required"`
		CallTime *time.Time `form:"call_time" time_format:"2006-01-02T15:04:05Z07:00"`
		EndTime  *time.Time `form:"end_time" time_format:"2006-01-02T15:04:05Z07:00"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resolver := scheduling.NewResolver(scheduling.NewGormStore(config.DB))
	verdict := resolver.CheckAvailability(c.Request.Context(), tenantID(c), crewID, query.EventID, query.CallTime, query.EndTime)
	c.JSON(http.StatusOK, verdict)
}
