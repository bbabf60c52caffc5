// FILE: config/google.go
package config

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

var (
	// GoogleOAuth - конфигурация OAuth для подключения Google Calendar сотрудников.
	GoogleOAuth *oauth2.Config
)

// InitGoogleServices инициализирует OAuth-конфигурацию для Google Calendar.
func InitGoogleServices() error {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET environment variables not set")
	}

	GoogleOAuth = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
	slog.Info("Google Calendar OAuth config initialized successfully.")

	return nil
}
