// Package management implements the staff-side lead operations: listing,
// status transitions, contact marking and internal notes.
package management

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"adiabatic_site_backend/internal/events"
	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/apperr"
	"adiabatic_site_backend/platform/logger"
)

// Store is the persistence surface the staff operations need.
type Store interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, filter repository.ListFilter) ([]repository.Lead, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (string, error)
	MarkContacted(ctx context.Context, id uuid.UUID, at time.Time) error
	AppendInternalNote(ctx context.Context, id uuid.UUID, note string) error
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) error
	ListActivities(ctx context.Context, leadUUID uuid.UUID) ([]repository.Activity, error)
	GetSourceByID(ctx context.Context, id int64) (repository.Source, error)
}

type Service struct {
	log   *logger.Logger
	store Store
	bus   events.Bus
	now   func() time.Time
}

func NewService(log *logger.Logger, store Store, bus events.Bus) *Service {
	return &Service{log: log, store: store, bus: bus, now: time.Now}
}

// List returns leads matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]repository.Lead, int, error) {
	if filter.Status != "" && !repository.ValidStatus(filter.Status) {
		return nil, 0, apperr.Validation("unknown status filter")
	}
	if filter.InquiryType != "" && !repository.ValidInquiryType(filter.InquiryType) {
		return nil, 0, apperr.Validation("unknown inquiry type filter")
	}
	return s.store.List(ctx, filter)
}

// Get returns a lead, its activity trail (newest first) and the resolved
// source name, empty when the lead carries no attribution.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Lead, []repository.Activity, string, error) {
	lead, err := s.store.GetByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, nil, "", apperr.NotFound("lead not found")
		}
		return repository.Lead{}, nil, "", err
	}

	activities, err := s.store.ListActivities(ctx, id)
	if err != nil {
		return repository.Lead{}, nil, "", err
	}

	sourceName := ""
	if lead.SourceID != nil {
		source, err := s.store.GetSourceByID(ctx, *lead.SourceID)
		if err == nil {
			sourceName = source.Name
		} else if !errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, nil, "", err
		}
	}

	return lead, activities, sourceName, nil
}

// ChangeStatus transitions a lead, records the audit trail and publishes the
// status-change event. Moving to "contacted" also stamps contacted_at.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, newStatus, actor string) error {
	newStatus = strings.TrimSpace(newStatus)
	if !repository.ValidStatus(newStatus) {
		return apperr.Validation("unknown status: " + newStatus)
	}

	oldStatus, err := s.store.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}

	if err := s.store.CreateActivity(ctx, repository.CreateActivityParams{
		LeadUUID:     id,
		ActivityType: repository.ActivityStatusChanged,
		Description:  fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus),
		Actor:        actor,
	}); err != nil {
		s.log.DatabaseError("leads.status_activity", err)
	}

	if newStatus == repository.StatusContacted {
		if err := s.store.MarkContacted(ctx, id, s.now()); err != nil {
			s.log.DatabaseError("leads.mark_contacted", err)
		}
		if err := s.store.CreateActivity(ctx, repository.CreateActivityParams{
			LeadUUID:     id,
			ActivityType: repository.ActivityContacted,
			Description:  "Lead marked as contacted",
			Actor:        actor,
		}); err != nil {
			s.log.DatabaseError("leads.contacted_activity", err)
		}
	}

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadUUID:  id,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Actor:     actor,
	})

	return nil
}

// AddNote appends a staff note and records it in the audit trail.
func (s *Service) AddNote(ctx context.Context, id uuid.UUID, note, actor string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return apperr.Validation("note must not be empty")
	}

	if err := s.store.AppendInternalNote(ctx, id, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}

	if err := s.store.CreateActivity(ctx, repository.CreateActivityParams{
		LeadUUID:     id,
		ActivityType: repository.ActivityNoteAdded,
		Description:  note,
		Actor:        actor,
	}); err != nil {
		s.log.DatabaseError("leads.note_activity", err)
	}

	return nil
}
