// rentalops-crm/internal/routes/api_routes.go
package routes

import (
	"rentalops-crm/internal/handlers"
	"rentalops-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	// Группа для всех API-запросов с префиксом /api
	apiGroup := api.Group("/api")
	{
		// Профиль пользователя
		profile := apiGroup.Group("/profile")
		{
			profile.GET("", handlers.GetProfileHandler)
			profile.PUT("", handlers.UpdateProfileHandler)
		}

		// --- КОМАНДА ---
		crew := apiGroup.Group("/crew")
		crew.Use(middleware.PermissionMiddleware("crew_view"))
		{
			crew.GET("", handlers.ListCrewHandler)
			crew.POST("", middleware.PermissionMiddleware("crew_create"), handlers.CreateCrewMemberHandler)
			crew.GET("/:id", handlers.GetCrewMemberHandler)
			crew.PUT("/:id", middleware.PermissionMiddleware("crew_edit"), handlers.UpdateCrewMemberHandler)
			crew.DELETE("/:id", middleware.PermissionMiddleware("crew_delete"), handlers.DeleteCrewMemberHandler)

			// Проверка доступности перед назначением
			crew.GET("/:id/availability", handlers.CheckCrewAvailabilityHandler)

			// Подключение личного Google Calendar
			crew.POST("/:id/calendar/connect", middleware.PermissionMiddleware("crew_edit"), handlers.ConnectCalendarHandler)
			crew.POST("/:id/calendar/disconnect", middleware.PermissionMiddleware("crew_edit"), handlers.DisconnectCalendarHandler)
		}

		// --- МЕРОПРИЯТИЯ ---
		events := apiGroup.Group("/events")
		events.Use(middleware.PermissionMiddleware("events_view"))
		{
			events.GET("", handlers.ListEventsHandler)
			events.POST("", middleware.PermissionMiddleware("events_create"), handlers.CreateEventHandler)
			events.GET("/:id", handlers.GetEventHandler)
			events.PUT("/:id", middleware.PermissionMiddleware("events_edit"), handlers.UpdateEventHandler)
			events.DELETE("/:id", middleware.PermissionMiddleware("events_delete"), handlers.DeleteEventHandler)

			// Назначения в составе мероприятия
			events.GET("/:id/assignments", handlers.ListEventAssignmentsHandler)
			events.POST("/:id/assignments", middleware.PermissionMiddleware("assignments_create"), handlers.CreateAssignmentHandler)

			// Инвентарь мероприятия
			events.POST("/:id/inventory", middleware.PermissionMiddleware("events_edit"), handlers.AddEventInventoryHandler)
			events.DELETE("/:id/inventory/:entryId", middleware.PermissionMiddleware("events_edit"), handlers.RemoveEventInventoryHandler)
		}

		// --- НАЗНАЧЕНИЯ ---
		assignments := apiGroup.Group("/assignments")
		assignments.Use(middleware.PermissionMiddleware("assignments_view"))
		{
			assignments.PUT("/:id", middleware.PermissionMiddleware("assignments_edit"), handlers.UpdateAssignmentHandler)
			assignments.DELETE("/:id", middleware.PermissionMiddleware("assignments_delete"), handlers.DeleteAssignmentHandler)
			assignments.POST("/:id/resync", middleware.PermissionMiddleware("assignments_edit"), handlers.ResyncAssignmentHandler)
		}

		// --- КАЛЕНДАРНАЯ СЕТКА ---
		calendar := apiGroup.Group("/calendar")
		{
			calendar.GET("/feed", handlers.GetCalendarFeedHandler)
		}

		// --- СМЕТЫ ---
		quotes := apiGroup.Group("/quotes")
		quotes.Use(middleware.PermissionMiddleware("quotes_view"))
		{
			quotes.GET("", handlers.ListQuotesHandler)
			quotes.POST("", middleware.PermissionMiddleware("quotes_create"), handlers.CreateQuoteHandler)
			quotes.GET("/:id", handlers.GetQuoteHandler)
			quotes.PUT("/:id", middleware.PermissionMiddleware("quotes_edit"), handlers.UpdateQuoteHandler)
			quotes.DELETE("/:id", middleware.PermissionMiddleware("quotes_delete"), handlers.DeleteQuoteHandler)
			quotes.POST("/:id/status", middleware.PermissionMiddleware("quotes_edit"), handlers.UpdateQuoteStatusHandler)
			quotes.POST("/:id/accept", middleware.PermissionMiddleware("quotes_accept"), handlers.AcceptQuoteHandler)
		}

		// --- СКЛАД ---
		inventory := apiGroup.Group("/inventory")
		inventory.Use(middleware.PermissionMiddleware("inventory_view"))
		{
			inventory.GET("", handlers.ListInventoryHandler)
			inventory.POST("", middleware.PermissionMiddleware("inventory_create"), handlers.CreateInventoryItemHandler)
			inventory.GET("/:id", handlers.GetInventoryItemHandler)
			inventory.PUT("/:id", middleware.PermissionMiddleware("inventory_edit"), handlers.UpdateInventoryItemHandler)
			inventory.DELETE("/:id", middleware.PermissionMiddleware("inventory_delete"), handlers.DeleteInventoryItemHandler)
		}

		// --- СТАТУС СИНХРОНИЗАЦИИ (WebSocket) ---
		ws := apiGroup.Group("/ws")
		{
			ws.GET("/sync", func(c *gin.Context) {
				handlers.SyncWSEndpoint(c)
			})
		}

		// --- ПОЛЬЗОВАТЕЛИ ---
		users := apiGroup.Group("/users")
		users.Use(middleware.PermissionMiddleware("users_view"))
		{
			users.GET("", handlers.ListUsersHandler)
			users.POST("", middleware.PermissionMiddleware("users_create"), handlers.CreateUserHandler)
			users.GET("/:id", handlers.GetUserHandler)
			users.PUT("/:id", middleware.PermissionMiddleware("users_edit"), handlers.UpdateUserHandler)
			users.DELETE("/:id", middleware.PermissionMiddleware("users_delete"), handlers.DeleteUserHandler)
		}

		// --- РОЛИ ---
		roles := apiGroup.Group("/roles")
		roles.Use(middleware.PermissionMiddleware("roles_view"))
		{
			roles.GET("", handlers.ListRolesHandler)
			roles.POST("", middleware.PermissionMiddleware("roles_create"), handlers.CreateRoleHandler)
			roles.GET("/:id", handlers.GetRoleHandler)
			roles.PUT("/:id", middleware.PermissionMiddleware("roles_edit"), handlers.UpdateRoleHandler)
			roles.DELETE("/:id", middleware.PermissionMiddleware("roles_delete"), handlers.DeleteRoleHandler)
		}

		// --- ПРАВА ДОСТУПА ---
		// Каталог прав только для чтения: он общий для всех арендаторов
		// и засеивается при старте (models.SeedPermissions).
		permissions := apiGroup.Group("/permissions")
		permissions.Use(middleware.PermissionMiddleware("permissions_view"))
		{
			permissions.GET("", handlers.ListPermissionsHandler)
		}
	} // конец apiGroup
}
