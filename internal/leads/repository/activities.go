package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity types. The log is append-only; rows are never updated or deleted
// by the pipeline (they go away only when the owning lead is deleted).
const (
	ActivityCreated       = "created"
	ActivityEmailSent     = "email_sent"
	ActivityTelegramSent  = "telegram_sent"
	ActivityViberSent     = "viber_sent"
	ActivityStatusChanged = "status_changed"
	ActivityContacted     = "contacted"
	ActivityNoteAdded     = "note_added"
)

// Activity is one immutable audit entry tied to a lead.
type Activity struct {
	ID           int64
	LeadID       int64
	ActivityType string
	Description  string
	Actor        string
	CreatedAt    time.Time
}

// CreateActivityParams describes a new audit entry.
type CreateActivityParams struct {
	LeadUUID     uuid.UUID
	ActivityType string
	Description  string
	Actor        string
}

// CreateActivity appends an audit entry for the lead identified by UUID.
func (r *Repository) CreateActivity(ctx context.Context, params CreateActivityParams) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO lead_activities (lead_id, activity_type, description, actor)
		SELECT id, $2, $3, $4 FROM leads WHERE uuid = $1
	`, params.LeadUUID, params.ActivityType, params.Description, params.Actor)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActivities returns the lead's audit entries, newest first.
func (r *Repository) ListActivities(ctx context.Context, leadUUID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.lead_id, a.activity_type, a.description, a.actor, a.created_at
		FROM lead_activities a
		JOIN leads l ON l.id = a.lead_id
		WHERE l.uuid = $1
		ORDER BY a.created_at DESC, a.id DESC
	`, leadUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.LeadID, &a.ActivityType, &a.Description, &a.Actor, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
