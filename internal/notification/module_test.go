package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"adiabatic_site_backend/internal/events"
	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/logger"
)

type fakeLeadLoader struct {
	lead   repository.Lead
	source repository.Source
}

func (f *fakeLeadLoader) GetByUUID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if f.lead.UUID != id {
		return repository.Lead{}, repository.ErrNotFound
	}
	return f.lead, nil
}

func (f *fakeLeadLoader) GetSourceByID(_ context.Context, _ int64) (repository.Source, error) {
	return f.source, nil
}

type fakeSettingsStore struct {
	settings Settings
}

func (f *fakeSettingsStore) Get(_ context.Context) (Settings, error) { return f.settings, nil }
func (f *fakeSettingsStore) Update(_ context.Context, s Settings) (Settings, error) {
	f.settings = s
	return s, nil
}

type fakeEnqueuer struct {
	enqueued []uuid.UUID
	err      error
}

func (f *fakeEnqueuer) EnqueueLeadNotify(_ context.Context, leadUUID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, leadUUID)
	return nil
}

func TestNotifyLoadsLeadAndDispatches(t *testing.T) {
	sourceID := int64(4)
	lead := testLead()
	lead.SourceID = &sourceID

	loader := &fakeLeadLoader{lead: lead, source: repository.Source{ID: sourceID, Name: "Facebook"}}
	store := &fakeActivityStore{}
	ch := &fakeChannel{name: "email", activity: repository.ActivityEmailSent, configured: true}
	m := NewModule(logger.New("test"), loader, &fakeSettingsStore{settings: testSettings()}, newTestDispatcher(store, ch), nil)

	if err := m.Notify(context.Background(), lead.UUID); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if ch.calls != 1 {
		t.Errorf("channel calls = %d", ch.calls)
	}
	if len(store.activities) != 1 {
		t.Errorf("activities = %+v", store.activities)
	}
}

func TestOnLeadCreatedPrefersQueue(t *testing.T) {
	lead := testLead()
	loader := &fakeLeadLoader{lead: lead}
	enqueuer := &fakeEnqueuer{}
	ch := &fakeChannel{name: "email", activity: repository.ActivityEmailSent, configured: true}
	m := NewModule(logger.New("test"), loader, &fakeSettingsStore{settings: testSettings()}, newTestDispatcher(&fakeActivityStore{}, ch), enqueuer)

	err := m.onLeadCreated(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadUUID:  lead.UUID,
	})
	if err != nil {
		t.Fatalf("onLeadCreated: %v", err)
	}
	if len(enqueuer.enqueued) != 1 || enqueuer.enqueued[0] != lead.UUID {
		t.Errorf("enqueued = %v", enqueuer.enqueued)
	}
	if ch.calls != 0 {
		t.Errorf("inline dispatch ran despite queue, calls = %d", ch.calls)
	}
}

func TestOnLeadCreatedFallsBackWhenQueueFails(t *testing.T) {
	lead := testLead()
	loader := &fakeLeadLoader{lead: lead}
	enqueuer := &fakeEnqueuer{err: context.DeadlineExceeded}
	ch := &fakeChannel{name: "email", activity: repository.ActivityEmailSent, configured: true}
	m := NewModule(logger.New("test"), loader, &fakeSettingsStore{settings: testSettings()}, newTestDispatcher(&fakeActivityStore{}, ch), enqueuer)

	err := m.onLeadCreated(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadUUID:  lead.UUID,
	})
	if err != nil {
		t.Fatalf("onLeadCreated: %v", err)
	}
	if ch.calls != 1 {
		t.Errorf("expected inline dispatch, calls = %d", ch.calls)
	}
}

type recordingSender struct {
	recipients []string
	subject    string
	body       string
}

func (s *recordingSender) Send(_ context.Context, recipients []string, subject, textBody string) error {
	s.recipients = recipients
	s.subject = subject
	s.body = textBody
	return nil
}

func TestEmailChannelRendersTemplateAndSubject(t *testing.T) {
	sender := &recordingSender{}
	ch := NewEmailChannel(sender)

	lead := testLead()
	lead.CreatedAt = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	settings := Settings{
		EmailEnabled:         true,
		EmailRecipients:      "admin@adiabatic.com,sales@adiabatic.com",
		EmailSubjectTemplate: "New lead from {name}",
	}

	if !ch.Configured(settings) {
		t.Fatal("channel should be configured")
	}
	if err := ch.Send(context.Background(), lead, "Direct", settings); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(sender.recipients) != 2 {
		t.Errorf("recipients = %v", sender.recipients)
	}
	if sender.subject != "New lead from Jane" {
		t.Errorf("subject = %q", sender.subject)
	}
	for _, want := range []string{"Jane", "jane@x.com", "Need a quote", "Direct"} {
		if !strings.Contains(sender.body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestEmailChannelUnconfiguredWhenNoRecipients(t *testing.T) {
	ch := NewEmailChannel(&recordingSender{})
	if ch.Configured(Settings{EmailEnabled: true, EmailRecipients: " , "}) {
		t.Error("channel with empty recipient list should be unconfigured")
	}
	if ch.Configured(Settings{EmailEnabled: false, EmailRecipients: "a@b.c"}) {
		t.Error("disabled channel should be unconfigured")
	}
}

func TestTelegramChannelConfigured(t *testing.T) {
	ch := NewTelegramChannel(NewTelegramClient())
	if ch.Configured(Settings{TelegramEnabled: true, TelegramBotToken: "t"}) {
		t.Error("missing chat id should leave the channel unconfigured")
	}
	if !ch.Configured(Settings{TelegramEnabled: true, TelegramBotToken: "t", TelegramChatID: "c"}) {
		t.Error("complete credentials should configure the channel")
	}
}
