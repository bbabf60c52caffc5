// rentalops-crm/internal/routes/router.go
package routes

import (
	"rentalops-crm/internal/handlers"
	"rentalops-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes собирает все маршруты приложения: публичные и защищенные.
func SetupRoutes(router *gin.Engine) {
	// Публичные маршруты: вход и callback OAuth. Google возвращает браузер
	// по фиксированному redirect URL без сессии, подлинность несет state.
	router.POST("/login", handlers.LoginHandler)
	router.POST("/logout", handlers.LogoutHandler)
	router.GET("/api/calendar/oauth/callback", handlers.CalendarCallbackHandler)

	// Все остальное требует аутентификации.
	authRequired := router.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	RegisterAPIRoutes(authRequired)
}
