// rentalops-crm/internal/handlers/quote_handler_test.go
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
)

func TestNextNumberAfter(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"no quotes yet", nil, "Q-2026-0001"},
		{"gap after deletion is not reused", []string{"Q-2026-0001", "Q-2026-0003"}, "Q-2026-0004"},
		{"foreign prefixes ignored", []string{"Q-2025-0009", "INV-2026-0002", "Q-2026-0002"}, "Q-2026-0003"},
		{"garbage suffix ignored", []string{"Q-2026-draft"}, "Q-2026-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextNumberAfter("Q-2026-", tt.existing)
			if got != tt.want {
				t.Errorf("nextNumberAfter(%v) = %q, want %q", tt.existing, got, tt.want)
			}
		})
	}
}

func createQuote(t *testing.T, router http.Handler, clientName string) models.Quote {
	t.Helper()
	body := fmt.Sprintf(`{"clientName": %q}`, clientName)
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create quote: status = %d, body: %s", w.Code, w.Body.String())
	}
	var quote models.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	return quote
}

// Номер удаленной сметы не должен переиспользоваться, а сметы разных
// арендаторов нумеруются независимо.
func TestQuoteNumbering(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter(1)
	prefix := fmt.Sprintf("Q-%d-", time.Now().Year())

	first := createQuote(t, router, "ООО Ромашка")
	second := createQuote(t, router, "ООО Василек")
	if first.Number != prefix+"0001" || second.Number != prefix+"0002" {
		t.Fatalf("numbers = %q, %q, want %s0001, %s0002", first.Number, second.Number, prefix, prefix)
	}

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/quotes/%d", first.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete quote: status = %d, body: %s", w.Code, w.Body.String())
	}

	third := createQuote(t, router, "ИП Петров")
	if third.Number != prefix+"0003" {
		t.Errorf("number after deletion = %q, want %s0003", third.Number, prefix)
	}

	otherTenant := newTestRouter(2)
	foreign := createQuote(t, otherTenant, "ООО Ромашка")
	if foreign.Number != prefix+"0001" {
		t.Errorf("other tenant number = %q, want %s0001", foreign.Number, prefix)
	}
}
