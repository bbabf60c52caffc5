// rentalops-crm/internal/calendarsync/sync.go
package calendarsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SyncNotice - уведомление о результате синхронизации для UI (websocket-хаб).
type SyncNotice struct {
	TenantID     uint   `json:"tenantId"`
	AssignmentID uint   `json:"assignmentId"`
	CrewMemberID uint   `json:"crewMemberId"`
	Status       string `json:"status"` // synced / removed / failed / reconnect_required
	Detail       string `json:"detail,omitempty"`
}

// Locker ограничивает одновременные синхронизации одного назначения.
// Возвращает release-функцию и признак успеха захвата.
type Locker interface {
	Acquire(ctx context.Context, assignmentID uint) (release func(), ok bool)
}

// Synchronizer поддерживает внешний календарь сотрудника в соответствии
// с состоянием назначений. Повторная синхронизация - всегда полный цикл
// "удалить старое, создать заново", без дифференциальных обновлений.
type Synchronizer struct {
	store Store
	creds CredentialSource
	cal   Calendar
	loc   *time.Location

	// Locks опционален: без него две одновременные синхронизации одного
	// назначения сводятся к last-write-wins по списку внешних id.
	Locks Locker

	// Notify опционален; вызывается после каждой операции.
	Notify func(notice SyncNotice)
}

func NewSynchronizer(store Store, creds CredentialSource, cal Calendar) *Synchronizer {
	return &Synchronizer{store: store, creds: creds, cal: cal, loc: time.Local}
}

// WithLocation задает часовой пояс для разворачивания по дням (в тестах).
func (s *Synchronizer) WithLocation(loc *time.Location) *Synchronizer {
	s.loc = loc
	return s
}

func (s *Synchronizer) notify(notice SyncNotice) {
	if s.Notify != nil {
		s.Notify(notice)
	}
}

// disconnect помечает сотрудника отключенным от календаря. Сбой записи
// только логируется: исходная ошибка учетных данных важнее.
func (s *Synchronizer) disconnect(ctx context.Context, tenantID, crewMemberID uint) {
	if err := s.store.SetCrewMemberDisconnected(ctx, tenantID, crewMemberID); err != nil {
		slog.Error("Не удалось пометить сотрудника отключенным от календаря",
			"crewMemberID", crewMemberID, "error", err)
	}
}

// SyncAssignment - идемпотентный upsert внешнего представления назначения.
// Возвращает id первого созданного события. Отсутствие подключенного
// календаря - не ошибка: синхронизация завершается no-op'ом.
func (s *Synchronizer) SyncAssignment(ctx context.Context, tenantID, assignmentID uint) (string, error) {
	if s.Locks != nil {
		release, ok := s.Locks.Acquire(ctx, assignmentID)
		if !ok {
			return "", fmt.Errorf("%w: assignment %d", ErrSyncInProgress, assignmentID)
		}
		defer release()
	}

	rec, err := s.store.GetAssignment(ctx, tenantID, assignmentID)
	if err != nil {
		return "", fmt.Errorf("load assignment %d: %w", assignmentID, err)
	}
	if rec == nil {
		return "", ErrNotFound
	}

	if !rec.CalendarConnected || len(rec.Credential) == 0 {
		return "", nil
	}

	token, err := s.creds.ResolveAccessToken(ctx, rec.Credential)
	if err != nil {
		if errors.Is(err, ErrCredentialInvalid) {
			s.disconnect(ctx, tenantID, rec.CrewMemberID)
			s.notify(SyncNotice{TenantID: tenantID, AssignmentID: assignmentID, CrewMemberID: rec.CrewMemberID, Status: "reconnect_required"})
			return "", ErrCredentialInvalid
		}
		return "", fmt.Errorf("resolve access token: %w", err)
	}

	// Старые события удаляются до создания новых. Сбой удаления отдельного
	// id не прерывает пачку: устаревшее событие в чужом календаре лучше,
	// чем заблокированная синхронизация.
	for _, externalID := range rec.ExternalEventIDs {
		if err := s.cal.DeleteEvent(ctx, token, externalID); err != nil {
			if errors.Is(err, ErrCredentialInvalid) {
				s.disconnect(ctx, tenantID, rec.CrewMemberID)
				s.notify(SyncNotice{TenantID: tenantID, AssignmentID: assignmentID, CrewMemberID: rec.CrewMemberID, Status: "reconnect_required"})
				return "", ErrCredentialInvalid
			}
			slog.Warn("Не удалось удалить устаревшее событие календаря",
				"assignmentID", assignmentID, "externalID", externalID, "error", err)
		}
	}

	specs := ExpandAssignment(rec.Role, rec.EventName, rec.EventLocation,
		rec.EventStartDate, rec.EventEndDate, rec.CallTime, rec.EndTime, s.loc)

	// Создаем события строго последовательно: это упрощает учет частичных
	// сбоев и порядок отката.
	var created []string
	var lastCreateErr error
	for _, spec := range specs {
		externalID, err := s.cal.CreateEvent(ctx, token, spec)
		if err != nil {
			if errors.Is(err, ErrCredentialInvalid) {
				// Доступ отозван посреди пачки: компенсирующий откат,
				// календарь не должен остаться полузаписанным.
				s.rollback(ctx, token, created)
				s.disconnect(ctx, tenantID, rec.CrewMemberID)
				s.notify(SyncNotice{TenantID: tenantID, AssignmentID: assignmentID, CrewMemberID: rec.CrewMemberID, Status: "reconnect_required"})
				return "", ErrCredentialInvalid
			}
			slog.Warn("Не удалось создать событие календаря, день пропущен",
				"assignmentID", assignmentID, "day", spec.Start.Format("2006-01-02"), "error", err)
			lastCreateErr = err
			continue
		}
		created = append(created, externalID)
	}

	if len(created) == 0 {
		s.notify(SyncNotice{TenantID: tenantID, AssignmentID: assignmentID, CrewMemberID: rec.CrewMemberID, Status: "failed"})
		return "", fmt.Errorf("%w: %v", ErrAllCreatesFailed, lastCreateErr)
	}

	if err := s.store.UpdateAssignmentExternalIDs(ctx, tenantID, assignmentID, created); err != nil {
		return "", fmt.Errorf("persist external event ids: %w", err)
	}

	s.notify(SyncNotice{TenantID: tenantID, AssignmentID: assignmentID, CrewMemberID: rec.CrewMemberID, Status: "synced"})
	return created[0], nil
}

// rollback удаляет события, созданные в текущей пачке. Лучшие усилия:
// сбои только логируются.
func (s *Synchronizer) rollback(ctx context.Context, token string, created []string) {
	for _, externalID := range created {
		if err := s.cal.DeleteEvent(ctx, token, externalID); err != nil {
			slog.Error("Откат: не удалось удалить созданное событие",
				"externalID", externalID, "error", err)
		}
	}
}

// RemoveAssignmentSync удаляет внешние события назначения. Список id
// очищается только если у сотрудника нет учетных данных либо все удаления
// прошли успешно: частично неудачная чистка намеренно оставляет список на
// месте, чтобы повторная попытка нашла недобитые события.
func (s *Synchronizer) RemoveAssignmentSync(ctx context.Context, tenantID, assignmentID uint) error {
	rec, err := s.store.GetAssignment(ctx, tenantID, assignmentID)
	if err != nil {
		return fmt.Errorf("load assignment %d: %w", assignmentID, err)
	}
	if rec == nil {
		return ErrNotFound
	}

	if len(rec.ExternalEventIDs) == 0 {
		return nil
	}

	if len(rec.Credential) == 0 {
		// Учетных данных больше нет - удалить внешние события невозможно,
		// висящий список id бесполезен.
		if err := s.store.ClearAssignmentExternalIDs(ctx, tenantID, assignmentID); err != nil {
			return fmt.Errorf("clear external event ids: %w", err)
		}
		return nil
	}

	token, err := s.creds.ResolveAccessToken(ctx, rec.Credential)
	if err != nil {
		if errors.Is(err, ErrCredentialInvalid) {
			s.disconnect(ctx, tenantID, rec.CrewMemberID)
			return ErrCredentialInvalid
		}
		return fmt.Errorf("resolve access token: %w", err)
	}

	var failures []error
	for _, externalID := range rec.ExternalEventIDs {
		if err := s.cal.DeleteEvent(ctx, token, externalID); err != nil {
			if errors.Is(err, ErrCredentialInvalid) {
				s.disconnect(ctx, tenantID, rec.CrewMemberID)
				return ErrCredentialInvalid
			}
			slog.Warn("Не удалось удалить событие календаря при снятии назначения",
				"assignmentID", assignmentID, "externalID", externalID, "error", err)
			failures = append(failures, fmt.Errorf("delete %s: %w", externalID, err))
		}
	}

	if len(failures) > 0 {
		return errors.Join(failures...)
	}

	if err := s.store.ClearAssignmentExternalIDs(ctx, tenantID, assignmentID); err != nil {
		return fmt.Errorf("clear external event ids: %w", err)
	}
	s.notify(SyncNotice{TenantID: tenantID, AssignmentID: assignmentID, CrewMemberID: rec.CrewMemberID, Status: "removed"})
	return nil
}
