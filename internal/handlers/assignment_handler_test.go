// rentalops-crm/internal/handlers/assignment_handler_test.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentalops-crm/models"

	"gorm.io/gorm"
)

func seedAssignment(t *testing.T, db *gorm.DB, tenant uint) models.Assignment {
	t.Helper()
	member := models.CrewMember{
		TenantID:  tenant,
		LastName:  "Смирнов",
		FirstName: "Алексей",
		RoleLabel: "Монтажник",
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("seed crew member: %v", err)
	}
	event := models.Event{
		TenantID:  tenant,
		Name:      "Выставка оборудования",
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
		Status:    models.EventStatusConfirmed,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	assignment := models.Assignment{
		TenantID:     tenant,
		EventID:      event.ID,
		CrewMemberID: member.ID,
		Role:         "Монтажник",
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	return assignment
}

func TestUpdateAssignmentHandler(t *testing.T) {
	db := setupTestDB(t)
	setupTestSync(t)
	assignment := seedAssignment(t, db, 1)
	router := newTestRouter(1)

	body := fmt.Sprintf(`{"crewMemberId": %d, "role": "Звукорежиссер"}`, assignment.CrewMemberID)
	req := httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/assignments/%d", assignment.ID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		SyncStatus string `json:"syncStatus"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SyncStatus != "synced" {
		t.Errorf("syncStatus = %q, want %q", resp.SyncStatus, "synced")
	}

	var updated models.Assignment
	if err := db.First(&updated, assignment.ID).Error; err != nil {
		t.Fatalf("reload assignment: %v", err)
	}
	if updated.Role != "Звукорежиссер" {
		t.Errorf("role = %q, want %q", updated.Role, "Звукорежиссер")
	}
}

func TestDeleteAssignmentHandler(t *testing.T) {
	db := setupTestDB(t)
	setupTestSync(t)
	assignment := seedAssignment(t, db, 1)
	router := newTestRouter(1)

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/assignments/%d", assignment.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	err := db.First(&models.Assignment{}, assignment.ID).Error
	if err != gorm.ErrRecordNotFound {
		t.Errorf("assignment still present, err = %v", err)
	}
}

func TestResyncAssignmentHandler(t *testing.T) {
	db := setupTestDB(t)
	setupTestSync(t)
	assignment := seedAssignment(t, db, 1)
	router := newTestRouter(1)

	t.Run("existing assignment", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/assignments/%d/resync", assignment.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("unknown assignment", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/assignments/9999/resync", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/assignments/abc/resync", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestResyncAssignmentHandler_SyncInProgress(t *testing.T) {
	db := setupTestDB(t)
	sync := setupTestSync(t)
	sync.Locks = busyLocker{}
	assignment := seedAssignment(t, db, 1)
	router := newTestRouter(1)

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/assignments/%d/resync", assignment.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
}
