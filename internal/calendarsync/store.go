// rentalops-crm/internal/calendarsync/store.go
package calendarsync

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

func (s *GormStore) GetAssignment(ctx context.Context, tenantID, assignmentID uint) (*Record, error) {
	var assignment models.Assignment
	err := s.DB.WithContext(ctx).
		Preload("Event").
		Preload("CrewMember").
		Where("tenant_id = ?", tenantID).
		First(&assignment, assignmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if assignment.Event == nil || assignment.CrewMember == nil {
		return nil, nil
	}

	return &Record{
		AssignmentID:      assignment.ID,
		Role:              assignment.Role,
		CallTime:          assignment.CallTime,
		EndTime:           assignment.EndTime,
		ExternalEventIDs:  assignment.ExternalEventIDs,
		EventName:         assignment.Event.Name,
		EventLocation:     assignment.Event.Location,
		EventStartDate:    assignment.Event.StartDate,
		EventEndDate:      assignment.Event.EndDate,
		CrewMemberID:      assignment.CrewMember.ID,
		CrewMemberName:    assignment.CrewMember.FullName(),
		CalendarConnected: assignment.CrewMember.CalendarConnected,
		Credential:        assignment.CrewMember.CalendarCredential,
	}, nil
}

func (s *GormStore) UpdateAssignmentExternalIDs(ctx context.Context, tenantID, assignmentID uint, ids []string) error {
	return s.DB.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ? AND tenant_id = ?", assignmentID, tenantID).
		Update("external_event_ids", models.ExternalEventIDs(ids)).Error
}

func (s *GormStore) ClearAssignmentExternalIDs(ctx context.Context, tenantID, assignmentID uint) error {
	return s.UpdateAssignmentExternalIDs(ctx, tenantID, assignmentID, nil)
}

func (s *GormStore) SetCrewMemberDisconnected(ctx context.Context, tenantID, crewMemberID uint) error {
	return s.DB.WithContext(ctx).
		Model(&models.CrewMember{}).
		Where("id = ? AND tenant_id = ?", crewMemberID, tenantID).
		Update("calendar_connected", false).Error
}
