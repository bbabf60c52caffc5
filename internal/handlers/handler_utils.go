package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// tenantID возвращает арендатора текущего пользователя из контекста запроса.
// Все запросы к БД обязаны ограничиваться этим значением.
func tenantID(c *gin.Context) uint {
	return c.GetUint("tenant_id")
}

// paramID разбирает числовой параметр пути.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
