// rentalops-crm/internal/handlers/testdb_test.go
package handlers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"rentalops-crm/config"
	"rentalops-crm/internal/calendarsync"
	"rentalops-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB поднимает изолированную sqlite-базу в памяти и подставляет
// ее в config.DB на время теста.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Role{}, &models.Permission{},
		&models.CrewMember{}, &models.Event{}, &models.Assignment{},
		&models.Quote{}, &models.QuoteItem{},
		&models.InventoryItem{}, &models.EventInventory{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prevDB := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prevDB })
	return db
}

// noopCredentialSource и noopCalendar - заглушки внешнего мира для тестов,
// где назначение не имеет подключенного календаря и до них не доходит.
type noopCredentialSource struct{}

func (noopCredentialSource) ResolveAccessToken(context.Context, []byte) (string, error) {
	return "token", nil
}

type noopCalendar struct{}

func (noopCalendar) CreateEvent(context.Context, string, calendarsync.EventSpec) (string, error) {
	return "evt", nil
}

func (noopCalendar) DeleteEvent(context.Context, string, string) error { return nil }

// busyLocker имитирует занятый lease: захват всегда проигрывается.
type busyLocker struct{}

func (busyLocker) Acquire(context.Context, uint) (func(), bool) { return nil, false }

// setupTestSync подставляет синхронизатор над тестовой базой.
func setupTestSync(t *testing.T) *calendarsync.Synchronizer {
	t.Helper()
	prev := synchronizer
	synchronizer = calendarsync.NewSynchronizer(
		calendarsync.NewGormStore(config.DB), noopCredentialSource{}, noopCalendar{})
	t.Cleanup(func() { synchronizer = prev })
	return synchronizer
}

// newTestRouter регистрирует маршруты с теми же путями и именами параметров,
// что и боевая регистрация, но с фиксированным арендатором вместо
// auth-middleware.
func newTestRouter(tenant uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", tenant)
		c.Set("user_id", uint(1))
		c.Next()
	})

	router.PUT("/api/assignments/:id", UpdateAssignmentHandler)
	router.DELETE("/api/assignments/:id", DeleteAssignmentHandler)
	router.POST("/api/assignments/:id/resync", ResyncAssignmentHandler)

	router.GET("/api/roles", ListRolesHandler)
	router.PUT("/api/roles/:id", UpdateRoleHandler)

	router.POST("/api/quotes", CreateQuoteHandler)
	router.DELETE("/api/quotes/:id", DeleteQuoteHandler)

	return router
}
