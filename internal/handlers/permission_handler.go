// rentalops-crm/internal/handlers/permission_handler.go
package handlers

import (
	"net/http"

	"rentalops-crm/config"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
)

// ListPermissionsHandler возвращает каталог прав для конструктора ролей.
// Каталог общий для всех арендаторов и меняется только сидом при старте
// (models.SeedPermissions): права - это строки возможностей из маршрутов,
// редактирование через API позволило бы одному арендатору ломать проверки
// доступа остальных.
func ListPermissionsHandler(c *gin.Context) {
	var permissions []models.Permission
	// Группируем по категории, затем по имени для удобного отображения
	if err := config.DB.Order("category asc, name asc").Find(&permissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch permissions"})
		return
	}
	if permissions == nil {
		permissions = make([]models.Permission, 0)
	}
	c.JSON(http.StatusOK, permissions)
}
