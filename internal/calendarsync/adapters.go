// rentalops-crm/internal/calendarsync/adapters.go
package calendarsync

import (
	"context"
	"errors"
	"time"
)

// Таксономия ошибок синхронизации.
var (
	// ErrNotFound - назначение, мероприятие или сотрудник не найдены.
	// Не ретраится, отдается вызывающему как есть.
	ErrNotFound = errors.New("assignment not found")

	// ErrCredentialInvalid - учетные данные календаря окончательно
	// недействительны: сотрудник помечается отключенным, частично созданные
	// события текущей пачки откатываются. На UI - "переподключите календарь".
	ErrCredentialInvalid = errors.New("calendar credential invalid")

	// ErrAllCreatesFailed - ни одно однодневное событие не удалось создать,
	// при этом сигнала о недействительности учетных данных не было.
	ErrAllCreatesFailed = errors.New("all calendar event creations failed")

	// ErrSyncInProgress - это назначение уже синхронизируется другим
	// процессом. Достаточно повторить запрос позже.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// Record - срез данных назначения, который нужен синхронизатору:
// само назначение, его мероприятие и сотрудник.
type Record struct {
	AssignmentID     uint
	Role             string
	CallTime         *time.Time
	EndTime          *time.Time
	ExternalEventIDs []string

	EventName      string
	EventLocation  string
	EventStartDate time.Time
	EventEndDate   time.Time

	CrewMemberID      uint
	CrewMemberName    string
	CalendarConnected bool
	Credential        []byte
}

// Store - интерфейс персистентности для синхронизатора. Все операции
// ограничены арендатором и коммитятся независимо: откат синхронизатора -
// прикладной, а не транзакция БД.
type Store interface {
	// GetAssignment возвращает nil, nil если назначение не найдено.
	GetAssignment(ctx context.Context, tenantID, assignmentID uint) (*Record, error)
	UpdateAssignmentExternalIDs(ctx context.Context, tenantID, assignmentID uint, ids []string) error
	ClearAssignmentExternalIDs(ctx context.Context, tenantID, assignmentID uint) error
	SetCrewMemberDisconnected(ctx context.Context, tenantID, crewMemberID uint) error
}

// CredentialSource обменивает сохраненные (зашифрованные) учетные данные на
// access-токен. Окончательная недействительность сигнализируется через
// ErrCredentialInvalid, все остальные ошибки считаются временными.
type CredentialSource interface {
	ResolveAccessToken(ctx context.Context, credential []byte) (string, error)
}

// Calendar - адаптер внешнего календаря. Ошибка, оборачивающая
// ErrCredentialInvalid, означает отозванный доступ.
type Calendar interface {
	CreateEvent(ctx context.Context, token string, spec EventSpec) (string, error)
	DeleteEvent(ctx context.Context, token string, externalID string) error
}
