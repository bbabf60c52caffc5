// rentalops-crm/internal/handlers/calendar_connect_handler.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rentalops-crm/config"
	"rentalops-crm/internal/calendarsync"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// connectStateTTL - время жизни state-токена OAuth-потока.
const connectStateTTL = 10 * time.Minute

// signConnectState упаковывает арендатора и сотрудника в подписанный
// state-параметр, чтобы callback нельзя было подделать.
func signConnectState(tenant, crewMemberID uint) (string, error) {
	claims := jwt.MapClaims{
		"purpose":   "calendar_connect",
		"tenant_id": float64(tenant),
		"crew_id":   float64(crewMemberID),
		"exp":       time.Now().Add(connectStateTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JwtKey)
}

// parseConnectState проверяет подпись state и возвращает арендатора и сотрудника.
func parseConnectState(state string) (tenant, crewMemberID uint, err error) {
	token, err := jwt.Parse(state, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return config.JwtKey, nil
	})
	if err != nil || !token.Valid {
		return 0, 0, fmt.Errorf("invalid state token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != "calendar_connect" {
		return 0, 0, fmt.Errorf("invalid state claims")
	}
	tenantF, ok1 := claims["tenant_id"].(float64)
	crewF, ok2 := claims["crew_id"].(float64)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("invalid state claims")
	}
	return uint(tenantF), uint(crewF), nil
}

// ConnectCalendarHandler начинает OAuth-поток подключения календаря сотрудника.
// Возвращает URL согласия Google; фронтенд открывает его в новом окне.
func ConnectCalendarHandler(c *gin.Context) {
	if config.GoogleOAuth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar integration is not configured"})
		return
	}

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

	state, err := signConnectState(tenant, member.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start calendar connection"})
		return
	}

	// AccessTypeOffline + prompt=consent гарантируют выдачу refresh-токена
	// даже при повторном подключении.
	url := config.GoogleOAuth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
	c.JSON(http.StatusOK, gin.H{"authUrl": url})
}

// CalendarCallbackHandler завершает OAuth-поток: обменивает код на токены,
// шифрует refresh-токен и помечает сотрудника подключенным.
func CalendarCallbackHandler(c *gin.Context) {
	if config.GoogleOAuth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar integration is not configured"})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		// Пользователь отказал в доступе на экране согласия.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization was denied: " + errParam})
		return
	}

	tenant, crewMemberID, err := parseConnectState(c.Query("state"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired state parameter"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	var member models.CrewMember
	if err := config.DB.Where("tenant_id = ?", tenant).First(&member, crewMemberID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crew member not found"})
		return
	}

	token, err := config.GoogleOAuth.Exchange(c.Request.Context(), code)
	if err != nil {
		slog.Error("Ошибка обмена OAuth-кода", "error", err, "crew_member_id", crewMemberID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not exchange authorization code"})
		return
	}
	if token.RefreshToken == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Google did not return a refresh token, try reconnecting"})
		return
	}

	sealed, err := calendarsync.SealCredential(config.CredentialKey, token.RefreshToken)
	if err != nil {
		slog.Error("Ошибка шифрования учетных данных календаря", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store calendar credential"})
		return
	}

	// Адрес основного календаря служит подписью подключенного аккаунта.
	email := ""
	if service, err := calendar.NewService(c.Request.Context(),
		option.WithTokenSource(config.GoogleOAuth.TokenSource(c.Request.Context(), token))); err == nil {
		if cal, err := service.Calendars.Get("primary").Context(c.Request.Context()).Do(); err == nil {
			email = cal.Id
		}
	}

	updates := map[string]interface{}{
		"calendar_connected":  true,
		"calendar_credential": sealed,
		"calendar_email":      email,
	}
	if err := config.DB.Model(&member).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save calendar connection"})
		return
	}

	slog.Info("Календарь сотрудника подключен", "crew_member_id", member.ID, "email", email)

	// Существующие назначения догоняют календарь в фоне. Контекст запроса
	// к этому моменту уже завершен, поэтому используется фоновый.
	go func(tenant, memberID uint) {
		ctx := context.Background()
		var assignments []models.Assignment
		config.DB.Where("tenant_id = ? AND crew_member_id = ?", tenant, memberID).Find(&assignments)
		for _, assignment := range assignments {
			if _, err := Sync().SyncAssignment(ctx, tenant, assignment.ID); err != nil {
				slog.Warn("Ошибка фоновой синхронизации после подключения",
					"assignment_id", assignment.ID, "error", err)
			}
		}
	}(tenant, member.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Calendar connected successfully",
		"email":   email,
	})
}

// DisconnectCalendarHandler отключает календарь сотрудника: удаляет внешние
// события и стирает учетные данные.
func DisconnectCalendarHandler(c *gin.Context) {
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

	// Пока учетные данные живы, пробуем прибрать события в чужом календаре.
	var assignments []models.Assignment
	config.DB.Where("tenant_id = ? AND crew_member_id = ?", tenant, id).Find(&assignments)
	for _, assignment := range assignments {
		if err := Sync().RemoveAssignmentSync(c.Request.Context(), tenant, assignment.ID); err != nil {
			slog.Warn("Ошибка очистки календаря при отключении",
				"assignment_id", assignment.ID, "error", err)
		}
	}

	updates := map[string]interface{}{
		"calendar_connected":  false,
		"calendar_credential": nil,
		"calendar_email":      "",
	}
	if err := config.DB.Model(&member).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not disconnect calendar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Calendar disconnected"})
}
