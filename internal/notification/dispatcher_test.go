package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/logger"
)

type fakeActivityStore struct {
	mu         sync.Mutex
	activities []repository.CreateActivityParams
	err        error
}

func (f *fakeActivityStore) CreateActivity(_ context.Context, params repository.CreateActivityParams) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.activities = append(f.activities, params)
	f.mu.Unlock()
	return nil
}

type fakeChannel struct {
	name       string
	activity   string
	configured bool
	failures   int
	calls      int
}

func (f *fakeChannel) Name() string { return f.name }
func (f *fakeChannel) ActivityType() string { return f.activity }
func (f *fakeChannel) Configured(_ Settings) bool { return f.configured }
func (f *fakeChannel) Send(context.Context, repository.Lead, string, Settings) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("delivery failed")
	}
	return nil
}

func testLead() repository.Lead {
	return repository.Lead{
		UUID:        uuid.New(),
		Name:        "Jane",
		Email:       "jane@x.com",
		Phone:       "+380501234567",
		InquiryType: repository.InquiryPriceRequest,
		Message:     "Need a quote",
	}
}

func testSettings() Settings {
	return Settings{MaxRetries: 3, RetryDelaySeconds: 0}
}

func newTestDispatcher(store *fakeActivityStore, channels ...Channel) *Dispatcher {
	d := NewDispatcher(logger.New("test"), store, channels...)
	d.sleep = func(context.Context, time.Duration) error { return nil }
	return d
}

func TestDispatchAllChannelsSucceed(t *testing.T) {
	store := &fakeActivityStore{}
	emailCh := &fakeChannel{name: "email", activity: repository.ActivityEmailSent, configured: true}
	telegramCh := &fakeChannel{name: "telegram", activity: repository.ActivityTelegramSent, configured: true}
	viberCh := &fakeChannel{name: "viber", activity: repository.ActivityViberSent, configured: true}

	results := newTestDispatcher(store, emailCh, telegramCh, viberCh).
		Dispatch(context.Background(), testLead(), "Direct", testSettings())

	for _, name := range []string{"email", "telegram", "viber"} {
		if !results[name] {
			t.Errorf("channel %q = false, want true", name)
		}
	}
	if len(store.activities) != 3 {
		t.Fatalf("activities = %d, want 3", len(store.activities))
	}
	types := map[string]bool{}
	for _, a := range store.activities {
		types[a.ActivityType] = true
	}
	for _, want := range []string{repository.ActivityEmailSent, repository.ActivityTelegramSent, repository.ActivityViberSent} {
		if !types[want] {
			t.Errorf("missing activity %q", want)
		}
	}
}

func TestDispatchUnconfiguredChannelIsSkipped(t *testing.T) {
	store := &fakeActivityStore{}
	emailCh := &fakeChannel{name: "email", activity: repository.ActivityEmailSent, configured: true}
	telegramCh := &fakeChannel{name: "telegram", activity: repository.ActivityTelegramSent, configured: false}

	results := newTestDispatcher(store, emailCh, telegramCh).
		Dispatch(context.Background(), testLead(), "", testSettings())

	if !results["email"] {
		t.Error("email should still deliver")
	}
	if results["telegram"] {
		t.Error("unconfigured telegram reported success")
	}
	if telegramCh.calls != 0 {
		t.Errorf("telegram was attempted %d times", telegramCh.calls)
	}
	if len(store.activities) != 1 {
		t.Errorf("activities = %d, want 1", len(store.activities))
	}
}

func TestDispatchFailureDoesNotBlockSiblings(t *testing.T) {
	store := &fakeActivityStore{}
	emailCh := &fakeChannel{name: "email", activity: repository.ActivityEmailSent, configured: true, failures: 99}
	viberCh := &fakeChannel{name: "viber", activity: repository.ActivityViberSent, configured: true}

	results := newTestDispatcher(store, emailCh, viberCh).
		Dispatch(context.Background(), testLead(), "", testSettings())

	if results["email"] {
		t.Error("email should have failed")
	}
	if !results["viber"] {
		t.Error("viber should still deliver")
	}
	if len(store.activities) != 1 || store.activities[0].ActivityType != repository.ActivityViberSent {
		t.Errorf("activities = %+v", store.activities)
	}
}

func TestDispatchRetriesUpToMaxRetries(t *testing.T) {
	store := &fakeActivityStore{}
	ch := &fakeChannel{name: "telegram", activity: repository.ActivityTelegramSent, configured: true, failures: 2}

	results := newTestDispatcher(store, ch).
		Dispatch(context.Background(), testLead(), "", Settings{MaxRetries: 3})

	if !results["telegram"] {
		t.Error("third attempt should have succeeded")
	}
	if ch.calls != 3 {
		t.Errorf("calls = %d, want 3", ch.calls)
	}
}

func TestDispatchGivesUpAfterMaxRetries(t *testing.T) {
	store := &fakeActivityStore{}
	ch := &fakeChannel{name: "telegram", activity: repository.ActivityTelegramSent, configured: true, failures: 99}

	results := newTestDispatcher(store, ch).
		Dispatch(context.Background(), testLead(), "", Settings{MaxRetries: 2})

	if results["telegram"] {
		t.Error("expected failure")
	}
	if ch.calls != 2 {
		t.Errorf("calls = %d, want 2", ch.calls)
	}
	if len(store.activities) != 0 {
		t.Errorf("failed delivery wrote activities: %+v", store.activities)
	}
}

func TestDispatchCanceledContextStopsRetrying(t *testing.T) {
	store := &fakeActivityStore{}
	ch := &fakeChannel{name: "viber", activity: repository.ActivityViberSent, configured: true, failures: 99}

	d := NewDispatcher(logger.New("test"), store, ch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := d.Dispatch(ctx, testLead(), "", Settings{MaxRetries: 5, RetryDelaySeconds: 1})
	if results["viber"] {
		t.Error("expected failure")
	}
	if ch.calls != 1 {
		t.Errorf("calls = %d, want 1 before the canceled sleep", ch.calls)
	}
}

func TestSettingsRecipients(t *testing.T) {
	s := Settings{EmailRecipients: "admin@adiabatic.com, sales@adiabatic.com ,,"}
	got := s.Recipients()
	if len(got) != 2 || got[0] != "admin@adiabatic.com" || got[1] != "sales@adiabatic.com" {
		t.Errorf("recipients = %v", got)
	}
}

func TestSettingsAttemptsFloorsAtOne(t *testing.T) {
	if got := (Settings{MaxRetries: 0}).Attempts(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
	if got := (Settings{MaxRetries: 3}).Attempts(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}
