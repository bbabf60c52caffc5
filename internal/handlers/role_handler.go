// rentalops-crm/internal/handlers/role_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"rentalops-crm/config"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListRolesHandler возвращает роли арендатора вместе с правами.
func ListRolesHandler(c *gin.Context) {
	var roles []models.Role

	// Preload прав, чтобы избежать N+1 запросов
	query := config.DB.Preload("Permissions").
		Where("tenant_id = ?", tenantID(c)).Order("name")

	if c.Query("all") == "true" {
		if err := query.Find(&roles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch roles"})
			return
		}
		if roles == nil {
			roles = make([]models.Role, 0)
		}
		c.JSON(http.StatusOK, roles)
		return
	}

	var totalRows int64
	query.Model(&models.Role{}).Count(&totalRows)

	if err := query.Scopes(Paginate(c)).Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch roles"})
		return
	}
	if roles == nil {
		roles = make([]models.Role, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, roles, totalRows))
}

// CreateRoleHandler создает роль арендатора с набором прав из общего каталога.
func CreateRoleHandler(c *gin.Context) {
	var input struct {
		Name          string `json:"name" binding:"required"`
		Description   string `json:"description"`
		PermissionIDs []uint `json:"permissionIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role{
		TenantID:    tenantID(c),
		Name:        input.Name,
		Description: input.Description,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		if len(input.PermissionIDs) > 0 {
			var permissions []models.Permission
			if err := tx.Where("id IN ?", input.PermissionIDs).Find(&permissions).Error; err != nil {
				return err
			}
			if err := tx.Model(&role).Association("Permissions").Replace(permissions); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, role)
}

// GetRoleHandler возвращает роль арендатора по ID.
func GetRoleHandler(c *gin.Context) {
	id := c.Param("id")
	var role models.Role
	err := config.DB.Preload("Permissions").
		Where("tenant_id = ?", tenantID(c)).First(&role, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	c.JSON(http.StatusOK, role)
}

// UpdateRoleHandler обновляет роль арендатора и ее права.
func UpdateRoleHandler(c *gin.Context) {
	id := c.Param("id")
	var role models.Role
	if err := config.DB.Where("tenant_id = ?", tenantID(c)).First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	var input struct {
		Name          string `json:"name" binding:"required"`
		Description   string `json:"description"`
		PermissionIDs []uint `json:"permissionIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role.Name = input.Name
	role.Description = input.Description

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&role).Error; err != nil {
			return err
		}
		var permissions []models.Permission
		if len(input.PermissionIDs) > 0 {
			if err := tx.Where("id IN ?", input.PermissionIDs).Find(&permissions).Error; err != nil {
				return err
			}
		}
		// Заменяем старые права на новые (или пустые, если ничего не передано)
		return tx.Model(&role).Association("Permissions").Replace(permissions)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role: " + err.Error()})
		return
	}

	// Сброс кэша для всех пользователей с этой ролью
	if config.RDB != nil {
		go func() {
			var userIDs []uint
			config.DB.Table("user_roles").Where("role_id = ?", role.ID).Pluck("user_id", &userIDs)
			for _, userID := range userIDs {
				cacheKey := fmt.Sprintf("user:%d:data", userID)
				if err := config.RDB.Del(config.Ctx, cacheKey).Err(); err != nil {
					slog.Warn("Ошибка сброса кэша пользователя", "error", err, "user_id", userID)
				}
			}
		}()
	}

	c.JSON(http.StatusOK, role)
}

// DeleteRoleHandler удаляет роль арендатора.
func DeleteRoleHandler(c *gin.Context) {
	id := c.Param("id")
	result := config.DB.Where("tenant_id = ?", tenantID(c)).Delete(&models.Role{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role"})
	} else if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
	}
}
