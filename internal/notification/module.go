package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"adiabatic_site_backend/internal/events"
	apphttp "adiabatic_site_backend/internal/http"
	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/logger"
)

// LeadLoader reloads leads for dispatch. Events carry only the UUID, so the
// dispatcher always works from fresh data.
type LeadLoader interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	GetSourceByID(ctx context.Context, id int64) (repository.Source, error)
}

// SettingsStore persists the notification configuration.
type SettingsStore interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
}

// TaskEnqueuer hands dispatch off to the background worker. Nil when no
// queue is configured; the module then dispatches in the event handler.
type TaskEnqueuer interface {
	EnqueueLeadNotify(ctx context.Context, leadUUID uuid.UUID) error
}

// Module subscribes to lead events and serves the settings endpoints.
type Module struct {
	log        *logger.Logger
	leads      LeadLoader
	settings   SettingsStore
	dispatcher *Dispatcher
	enqueuer   TaskEnqueuer
}

func NewModule(
	log *logger.Logger,
	leads LeadLoader,
	settings SettingsStore,
	dispatcher *Dispatcher,
	enqueuer TaskEnqueuer,
) *Module {
	return &Module{
		log:        log,
		leads:      leads,
		settings:   settings,
		dispatcher: dispatcher,
		enqueuer:   enqueuer,
	}
}

func (m *Module) Name() string { return "notification" }

// Subscribe attaches the module to the domain event bus.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(m.onLeadCreated))
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	h := newSettingsHandler(m.log, m.settings)
	ctx.Admin.GET("/notification-settings", h.Get)
	ctx.Admin.PUT("/notification-settings", h.Update)
}

func (m *Module) onLeadCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if m.enqueuer != nil {
		err := m.enqueuer.EnqueueLeadNotify(ctx, created.LeadUUID)
		if err == nil {
			return nil
		}
		// Inline dispatch keeps the lead from being dropped when the
		// queue is unreachable.
		m.log.Error("enqueue_lead_notify_failed",
			"lead_uuid", created.LeadUUID.String(),
			"error", err.Error(),
		)
	}

	return m.Notify(ctx, created.LeadUUID)
}

// Notify loads the lead and current settings and runs the fan-out. Called
// from the event handler and from the background worker.
func (m *Module) Notify(ctx context.Context, leadUUID uuid.UUID) error {
	lead, err := m.leads.GetByUUID(ctx, leadUUID)
	if err != nil {
		return fmt.Errorf("load lead %s: %w", leadUUID, err)
	}

	sourceName := ""
	if lead.SourceID != nil {
		if source, err := m.leads.GetSourceByID(ctx, *lead.SourceID); err == nil {
			sourceName = source.Name
		}
	}

	settings, err := m.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load notification settings: %w", err)
	}

	results := m.dispatcher.Dispatch(ctx, lead, sourceName, settings)
	m.log.Info("lead_notifications_dispatched",
		"lead_uuid", leadUUID.String(),
		"email", results["email"],
		"telegram", results["telegram"],
		"viber", results["viber"],
	)
	return nil
}
