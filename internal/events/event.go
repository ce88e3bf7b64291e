// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"adiabatic_site_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead passes validation and is persisted.
// Carries only the external identifier; consumers reload the lead themselves.
type LeadCreated struct {
	BaseEvent
	LeadUUID    uuid.UUID `json:"leadUuid"`
	InquiryType string    `json:"inquiryType"`
	Entrypoint  string    `json:"entrypoint"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published when staff move a lead to a new status.
type LeadStatusChanged struct {
	BaseEvent
	LeadUUID  uuid.UUID `json:"leadUuid"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Actor     string    `json:"actor"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }
