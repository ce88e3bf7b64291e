package management

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"adiabatic_site_backend/internal/events"
	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/apperr"
	platformevents "adiabatic_site_backend/platform/events"
	"adiabatic_site_backend/platform/logger"
)

type fakeStore struct {
	lead        repository.Lead
	activities  []repository.CreateActivityParams
	contactedAt *time.Time
	notes       []string
}

func (f *fakeStore) GetByUUID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if f.lead.UUID != id {
		return repository.Lead{}, repository.ErrNotFound
	}
	return f.lead, nil
}

func (f *fakeStore) List(_ context.Context, _ repository.ListFilter) ([]repository.Lead, int, error) {
	return []repository.Lead{f.lead}, 1, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) (string, error) {
	if f.lead.UUID != id {
		return "", repository.ErrNotFound
	}
	old := f.lead.Status
	f.lead.Status = status
	return old, nil
}

func (f *fakeStore) MarkContacted(_ context.Context, id uuid.UUID, at time.Time) error {
	if f.lead.UUID != id {
		return repository.ErrNotFound
	}
	if f.contactedAt == nil {
		f.contactedAt = &at
	}
	return nil
}

func (f *fakeStore) AppendInternalNote(_ context.Context, id uuid.UUID, note string) error {
	if f.lead.UUID != id {
		return repository.ErrNotFound
	}
	f.notes = append(f.notes, note)
	return nil
}

func (f *fakeStore) CreateActivity(_ context.Context, params repository.CreateActivityParams) error {
	f.activities = append(f.activities, params)
	return nil
}

func (f *fakeStore) ListActivities(_ context.Context, _ uuid.UUID) ([]repository.Activity, error) {
	items := make([]repository.Activity, 0, len(f.activities))
	for _, a := range f.activities {
		items = append(items, repository.Activity{
			ActivityType: a.ActivityType,
			Description:  a.Description,
			Actor:        a.Actor,
		})
	}
	return items, nil
}

func (f *fakeStore) GetSourceByID(_ context.Context, id int64) (repository.Source, error) {
	return repository.Source{ID: id, Name: "Google Organic"}, nil
}

type recordingBus struct {
	events []platformevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event platformevents.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event platformevents.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, platformevents.Handler) {}

func newService(store *fakeStore, bus *recordingBus) *Service {
	s := NewService(logger.New("test"), store, bus)
	s.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestChangeStatusWritesAuditAndEvent(t *testing.T) {
	store := &fakeStore{lead: repository.Lead{UUID: uuid.New(), Status: repository.StatusNew}}
	bus := &recordingBus{}
	s := newService(store, bus)

	if err := s.ChangeStatus(context.Background(), store.lead.UUID, repository.StatusQuoteSent, "olena"); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if store.lead.Status != repository.StatusQuoteSent {
		t.Errorf("status = %q", store.lead.Status)
	}
	if len(store.activities) != 1 || store.activities[0].ActivityType != repository.ActivityStatusChanged {
		t.Errorf("activities = %+v", store.activities)
	}
	if store.activities[0].Description != "Status changed from new to quote_sent" {
		t.Errorf("description = %q", store.activities[0].Description)
	}

	if len(bus.events) != 1 {
		t.Fatalf("events = %+v", bus.events)
	}
	change, ok := bus.events[0].(events.LeadStatusChanged)
	if !ok {
		t.Fatalf("event type = %T", bus.events[0])
	}
	if change.OldStatus != repository.StatusNew || change.NewStatus != repository.StatusQuoteSent || change.Actor != "olena" {
		t.Errorf("event = %+v", change)
	}
}

func TestChangeStatusToContactedStampsTimestamp(t *testing.T) {
	store := &fakeStore{lead: repository.Lead{UUID: uuid.New(), Status: repository.StatusNew}}
	s := newService(store, &recordingBus{})

	if err := s.ChangeStatus(context.Background(), store.lead.UUID, repository.StatusContacted, "olena"); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if store.contactedAt == nil {
		t.Fatal("contacted_at not stamped")
	}
	if len(store.activities) != 2 || store.activities[1].ActivityType != repository.ActivityContacted {
		t.Errorf("activities = %+v", store.activities)
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	store := &fakeStore{lead: repository.Lead{UUID: uuid.New(), Status: repository.StatusNew}}
	s := newService(store, &recordingBus{})

	err := s.ChangeStatus(context.Background(), store.lead.UUID, "archived", "olena")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("err = %v", err)
	}
	if len(store.activities) != 0 {
		t.Errorf("unexpected activities: %+v", store.activities)
	}
}

func TestChangeStatusUnknownLead(t *testing.T) {
	store := &fakeStore{lead: repository.Lead{UUID: uuid.New()}}
	s := newService(store, &recordingBus{})

	err := s.ChangeStatus(context.Background(), uuid.New(), repository.StatusSpam, "olena")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("err = %v", err)
	}
}

func TestAddNote(t *testing.T) {
	store := &fakeStore{lead: repository.Lead{UUID: uuid.New()}}
	s := newService(store, &recordingBus{})

	if err := s.AddNote(context.Background(), store.lead.UUID, "  call back on Monday ", "olena"); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if len(store.notes) != 1 || store.notes[0] != "call back on Monday" {
		t.Errorf("notes = %v", store.notes)
	}
	if len(store.activities) != 1 || store.activities[0].ActivityType != repository.ActivityNoteAdded {
		t.Errorf("activities = %+v", store.activities)
	}

	if err := s.AddNote(context.Background(), store.lead.UUID, "   ", "olena"); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("blank note err = %v", err)
	}
}

func TestGetResolvesSourceName(t *testing.T) {
	sourceID := int64(3)
	store := &fakeStore{lead: repository.Lead{UUID: uuid.New(), SourceID: &sourceID}}
	s := newService(store, &recordingBus{})

	_, _, sourceName, err := s.Get(context.Background(), store.lead.UUID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sourceName != "Google Organic" {
		t.Errorf("source name = %q", sourceName)
	}
}

func TestListRejectsUnknownFilters(t *testing.T) {
	store := &fakeStore{lead: repository.Lead{UUID: uuid.New()}}
	s := newService(store, &recordingBus{})

	if _, _, err := s.List(context.Background(), repository.ListFilter{Status: "bogus"}); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("status filter err = %v", err)
	}
	if _, _, err := s.List(context.Background(), repository.ListFilter{InquiryType: "bogus"}); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("inquiry filter err = %v", err)
	}
}
