// rentalops-crm/internal/routes/routes_test.go
package routes

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Проверяем соответствие маршрутов назначений их обработчикам: имя параметра
// в пути (:id) и обработчик должны совпадать, иначе обработчик прочитает
// пустой параметр.
func TestAssignmentRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router)

	want := []struct {
		method  string
		path    string
		handler string
	}{
		{"PUT", "/api/assignments/:id", "UpdateAssignmentHandler"},
		{"DELETE", "/api/assignments/:id", "DeleteAssignmentHandler"},
		{"POST", "/api/assignments/:id/resync", "ResyncAssignmentHandler"},
	}

	registered := router.Routes()
	for _, expect := range want {
		found := false
		for _, route := range registered {
			if route.Method == expect.method && route.Path == expect.path {
				found = true
				if !strings.HasSuffix(route.Handler, expect.handler) {
					t.Errorf("%s %s handled by %s, want %s",
						expect.method, expect.path, route.Handler, expect.handler)
				}
				break
			}
		}
		if !found {
			t.Errorf("route %s %s not registered", expect.method, expect.path)
		}
	}
}
