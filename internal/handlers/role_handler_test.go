// rentalops-crm/internal/handlers/role_handler_test.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentalops-crm/models"
)

// Роли принадлежат арендатору: чужие роли не видны и не редактируются.
func TestRolesTenantScoped(t *testing.T) {
	db := setupTestDB(t)

	own := models.Role{TenantID: 1, Name: "Диспетчер"}
	foreign := models.Role{TenantID: 2, Name: "Диспетчер"}
	if err := db.Create(&own).Error; err != nil {
		t.Fatalf("seed own role: %v", err)
	}
	if err := db.Create(&foreign).Error; err != nil {
		t.Fatalf("seed foreign role: %v", err)
	}

	router := newTestRouter(1)

	t.Run("list returns only own roles", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/roles?all=true", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
		}

		var roles []models.Role
		if err := json.Unmarshal(w.Body.Bytes(), &roles); err != nil {
			t.Fatalf("decode roles: %v", err)
		}
		if len(roles) != 1 || roles[0].ID != own.ID {
			t.Errorf("roles = %+v, want only role %d", roles, own.ID)
		}
	})

	t.Run("update of foreign role is not found", func(t *testing.T) {
		body := `{"name": "Взломанная роль"}`
		req := httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/api/roles/%d", foreign.ID), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusNotFound, w.Body.String())
		}

		var kept models.Role
		if err := db.First(&kept, foreign.ID).Error; err != nil {
			t.Fatalf("reload foreign role: %v", err)
		}
		if kept.Name != "Диспетчер" {
			t.Errorf("foreign role name = %q, want untouched", kept.Name)
		}
	})
}
