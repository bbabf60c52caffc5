// rentalops-crm/config/config.go
package config

import (
	"encoding/hex"
	"log/slog"
	"os"
)

// JwtKey - секретный ключ для подписи JWT-токенов.
var JwtKey []byte

// CredentialKey - 32-байтовый ключ для шифрования календарных refresh-токенов
// перед записью в БД (nacl/secretbox).
var CredentialKey *[32]byte

// LoadSecrets читает секреты из переменных окружения.
// Приложение не стартует без JWT_SECRET; CREDENTIAL_KEY опционален,
// но без него интеграция с календарём будет недоступна.
func LoadSecrets() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("Критическая ошибка: переменная окружения JWT_SECRET не установлена.")
		os.Exit(1)
	}
	JwtKey = []byte(secret)

	keyHex := os.Getenv("CREDENTIAL_KEY")
	if keyHex == "" {
		slog.Warn("CREDENTIAL_KEY не установлен, синхронизация с календарём будет отключена.")
		return
	}
	raw, err := hex.DecodeString(keyHex)
	if err != nil || len(raw) != 32 {
		slog.Error("CREDENTIAL_KEY должен быть 32 байта в hex-кодировке.")
		os.Exit(1)
	}
	var key [32]byte
	copy(key[:], raw)
	CredentialKey = &key
}
