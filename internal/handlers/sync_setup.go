// rentalops-crm/internal/handlers/sync_setup.go
package handlers

import (
	"log/slog"

	"rentalops-crm/config"
	"rentalops-crm/internal/calendarsync"
)

var synchronizer *calendarsync.Synchronizer

// InitSync собирает синхронизатор календаря из продакшен-адаптеров.
// Вызывается один раз при старте, после подключения БД и Redis.
func InitSync() {
	sync := calendarsync.NewSynchronizer(
		calendarsync.NewGormStore(config.DB),
		calendarsync.NewGoogleCredentialSource(config.GoogleOAuth, config.CredentialKey),
		calendarsync.NewGoogleCalendar(),
	)
	sync.Locks = calendarsync.NewRedisLease(config.RDB)
	sync.Notify = GlobalSyncHub.Broadcast
	synchronizer = sync
	slog.Info("Календарный синхронизатор инициализирован.")
}

// Sync возвращает синхронизатор приложения.
func Sync() *calendarsync.Synchronizer {
	return synchronizer
}
