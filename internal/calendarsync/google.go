// rentalops-crm/internal/calendarsync/google.go
package calendarsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleCalendar - реализация Calendar поверх Google Calendar API.
// События пишутся в основной календарь сотрудника.
type GoogleCalendar struct {
	CalendarID string
}

func NewGoogleCalendar() *GoogleCalendar {
	return &GoogleCalendar{CalendarID: "primary"}
}

func (g *GoogleCalendar) service(ctx context.Context, token string) (*calendar.Service, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

// mapAPIError переводит 401 от Google в ErrCredentialInvalid.
func mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return fmt.Errorf("%w: %v", ErrCredentialInvalid, err)
	}
	return err
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, token string, spec EventSpec) (string, error) {
	svc, err := g.service(ctx, token)
	if err != nil {
		return "", err
	}

	event := &calendar.Event{
		Summary:     spec.Title,
		Description: spec.Description,
		Location:    spec.Location,
		Start: &calendar.EventDateTime{
			DateTime: spec.Start.Format(time.RFC3339),
			TimeZone: spec.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: spec.End.Format(time.RFC3339),
			TimeZone: spec.TimeZone,
		},
	}

	created, err := svc.Events.Insert(g.CalendarID, event).Context(ctx).Do()
	if err != nil {
		return "", mapAPIError(err)
	}
	return created.Id, nil
}

func (g *GoogleCalendar) DeleteEvent(ctx context.Context, token string, externalID string) error {
	svc, err := g.service(ctx, token)
	if err != nil {
		return err
	}

	err = svc.Events.Delete(g.CalendarID, externalID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		// Уже удаленное событие - не ошибка для наших целей.
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			return nil
		}
		return mapAPIError(err)
	}
	return nil
}
