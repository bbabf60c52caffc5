// rentalops-crm/internal/scheduling/store.go
package scheduling

import (
	"context"
	"errors"

	"rentalops-crm/models"

	"gorm.io/gorm"
)

// GormStore - реализация Store поверх GORM.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) GetEvent(ctx context.Context, tenantID, eventID uint) (*EventInfo, error) {
	var event models.Event
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&event, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &EventInfo{
		ID:        event.ID,
		Name:      event.Name,
		StartDate: event.StartDate,
		EndDate:   event.EndDate,
	}, nil
}

func (s *GormStore) GetCrewMemberLeave(ctx context.Context, tenantID, crewMemberID uint) (*LeaveInfo, error) {
	var member models.CrewMember
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&member, crewMemberID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &LeaveInfo{
		OnLeave:    member.OnLeave,
		LeaveStart: member.LeaveStart,
		LeaveEnd:   member.LeaveEnd,
		Reason:     member.LeaveReason,
	}, nil
}

// ListOtherAssignments выбирает назначения сотрудника на все мероприятия,
// кроме указанного. Сортировка по assignments.id фиксирует порядок обхода:
// резолвер возвращает первый найденный конфликт.
func (s *GormStore) ListOtherAssignments(ctx context.Context, tenantID, crewMemberID, excludeEventID uint) ([]OtherAssignment, error) {
	var assignments []models.Assignment
	err := s.DB.WithContext(ctx).
		Preload("Event").
		Where("tenant_id = ? AND crew_member_id = ? AND event_id != ?", tenantID, crewMemberID, excludeEventID).
		Order("id asc").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	others := make([]OtherAssignment, 0, len(assignments))
	for _, a := range assignments {
		if a.Event == nil {
			continue // мероприятие удалено, назначение осталось висеть
		}
		others = append(others, OtherAssignment{
			AssignmentID:   a.ID,
			EventID:        a.EventID,
			EventName:      a.Event.Name,
			EventStartDate: a.Event.StartDate,
			EventEndDate:   a.Event.EndDate,
			CallTime:       a.CallTime,
			EndTime:        a.EndTime,
		})
	}
	return others, nil
}
