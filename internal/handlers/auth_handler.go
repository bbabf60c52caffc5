// rentalops-crm/internal/handlers/auth_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rentalops-crm/config"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL - срок жизни JWT-токена.
const tokenTTL = 12 * time.Hour

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler проверяет учетные данные и выдает JWT-токен (cookie + тело ответа).
func LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var user models.User
	if err := config.DB.Where("login = ?", req.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
		return
	}
	if user.Status != "active" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"login":   user.Login,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(config.JwtKey)
	if err != nil {
		slog.Error("Не удалось подписать JWT-токен", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.SetCookie("auth_token", tokenStr, int(tokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": tokenStr})
}

// LogoutHandler сбрасывает cookie и инвалидирует кэш пользователя.
func LogoutHandler(c *gin.Context) {
	if userID := c.GetUint("user_id"); userID != 0 && config.RDB != nil {
		config.RDB.Del(config.Ctx, fmt.Sprintf("user:%d:data", userID))
	}
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfileHandler возвращает данные текущего авторизованного пользователя.
// Middleware уже загрузило роли и права в контекст, лишних запросов не делаем.
func GetProfileHandler(c *gin.Context) {
	userID := c.GetUint("user_id")
	login := c.GetString("login")
	rolesVal, _ := c.Get("roles")
	permissionsVal, _ := c.Get("permissions")
	roles, _ := rolesVal.([]string)
	permissions, _ := permissionsVal.([]string)

	var userDetails models.User
	if err := config.DB.Select("full_name", "email", "phone", "photo_url").First(&userDetails, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User details not found in DB"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          userID,
		"login":       login,
		"fullName":    userDetails.FullName,
		"email":       userDetails.Email,
		"phone":       userDetails.Phone,
		"photoUrl":    userDetails.PhotoURL,
		"roles":       roles,
		"permissions": permissions,
	})
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"` // пустая строка - пароль не меняется
}

// UpdateProfileHandler обновляет данные профиля текущего пользователя.
func UpdateProfileHandler(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{
		"full_name": req.FullName,
		"email":     req.Email,
		"phone":     req.Phone,
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
			return
		}
		updates["password_hash"] = string(hash)
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	// Кэш устарел - сбрасываем.
	if config.RDB != nil {
		config.RDB.Del(config.Ctx, fmt.Sprintf("user:%d:data", userID))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
