// rentalops-crm/main.go
package main

import (
	"log/slog"
	"os"

	"rentalops-crm/config"
	"rentalops-crm/internal/handlers"
	"rentalops-crm/internal/routes"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config.LoadSecrets()
	config.ConnectDB()
	config.ConnectRedis()
	if err := config.InitGoogleServices(); err != nil {
		// Без Google-интеграции приложение работает, календари не синхронизируются.
		slog.Warn("Интеграция Google Calendar отключена", "error", err)
	}

	err := config.DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.CrewMember{},
		&models.Event{},
		&models.Assignment{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.InventoryItem{},
		&models.EventInventory{},
	)
	if err != nil {
		slog.Error("Ошибка миграции базы данных", "error", err)
		os.Exit(1)
	}
	if err := models.SeedPermissions(config.DB); err != nil {
		slog.Error("Ошибка сида каталога прав", "error", err)
		os.Exit(1)
	}

	handlers.InitSync()
	go handlers.GlobalSyncHub.Run()

	router := gin.Default()
	routes.SetupRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Сервер запускается", "port", port)
	if err := router.Run(":" + port); err != nil {
		slog.Error("Ошибка запуска сервера", "error", err)
		os.Exit(1)
	}
}
