// rentalops-crm/internal/calendarsync/lock.go
package calendarsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// leaseTTL страхует от вечной блокировки при падении процесса посреди
// синхронизации.
const leaseTTL = 2 * time.Minute

// RedisLease - аренда на одно назначение поверх Redis SETNX.
// Одновременные синхронизации одного назначения не гарантированно
// взаимоисключающи по дизайну (список внешних id - last-write-wins);
// аренда сужает это окно, но при недоступном Redis деградирует в no-op.
type RedisLease struct {
	Client *redis.Client
}

func NewRedisLease(client *redis.Client) *RedisLease {
	return &RedisLease{Client: client}
}

func (l *RedisLease) Acquire(ctx context.Context, assignmentID uint) (func(), bool) {
	if l.Client == nil {
		return func() {}, true
	}

	key := fmt.Sprintf("calsync:lock:%d", assignmentID)
	token := uuid.NewString()

	ok, err := l.Client.SetNX(ctx, key, token, leaseTTL).Result()
	if err != nil {
		slog.Warn("Redis недоступен, синхронизация без блокировки", "error", err)
		return func() {}, true
	}
	if !ok {
		return nil, false
	}

	release := func() {
		// Снимаем аренду только если она все еще наша. Проверка и удаление
		// не атомарны; в худшем случае аренду добьет TTL.
		current, err := l.Client.Get(ctx, key).Result()
		if err == nil && current == token {
			l.Client.Del(ctx, key)
		}
	}
	return release, true
}
