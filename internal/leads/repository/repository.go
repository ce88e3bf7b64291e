// Package repository persists leads, their sources and their activity log.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// Lead statuses. Public endpoints never set anything but StatusNew;
// transitions happen through staff tooling only.
const (
	StatusNew        = "new"
	StatusContacted  = "contacted"
	StatusQuoteSent  = "quote_sent"
	StatusClosedWon  = "closed_won"
	StatusClosedLost = "closed_lost"
	StatusSpam       = "spam"
)

// Inquiry classifications.
const (
	InquiryPriceRequest     = "price_request"
	InquiryTechConsultation = "tech_consultation"
	InquiryPartnership      = "partnership"
	InquiryService          = "service"
	InquiryOther            = "other"
)

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQuoteSent, StatusClosedWon, StatusClosedLost, StatusSpam:
		return true
	}
	return false
}

// ValidInquiryType reports whether t is a known inquiry classification.
func ValidInquiryType(t string) bool {
	switch t {
	case InquiryPriceRequest, InquiryTechConsultation, InquiryPartnership, InquiryService, InquiryOther:
		return true
	}
	return false
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is a prospective customer's inquiry. The UUID is the only identifier
// ever exposed outside the service.
type Lead struct {
	ID               int64
	UUID             uuid.UUID
	Name             string
	Email            string
	Phone            string
	Company          string
	Position         string
	InquiryType      string
	ProductID        *int64
	Subject          string
	Message          string
	BudgetRange      string
	ProjectTimeline  string
	SourceID         *int64
	SourcePage       string
	Referrer         string
	IPAddress        string
	UserAgent        string
	Language         string
	Status           string
	ConsentGDPR      bool
	ConsentMarketing bool
	InternalNotes    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ContactedAt      *time.Time
}

// CreateLeadParams carries everything the intake pipeline captures.
// Status is deliberately absent: new leads are always StatusNew.
type CreateLeadParams struct {
	Name             string
	Email            string
	Phone            string
	Company          string
	Position         string
	InquiryType      string
	ProductID        *int64
	Subject          string
	Message          string
	BudgetRange      string
	ProjectTimeline  string
	SourceID         *int64
	SourcePage       string
	Referrer         string
	IPAddress        string
	UserAgent        string
	Language         string
	ConsentGDPR      bool
	ConsentMarketing bool
}

const leadColumns = `id, uuid, name, email, phone, company, position, inquiry_type, product_id,
	subject, message, budget_range, project_timeline, source_id, source_page, referrer,
	ip_address, user_agent, language, status, consent_gdpr, consent_marketing,
	internal_notes, created_at, updated_at, contacted_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.UUID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Position, &l.InquiryType, &l.ProductID,
		&l.Subject, &l.Message, &l.BudgetRange, &l.ProjectTimeline, &l.SourceID, &l.SourcePage, &l.Referrer,
		&l.IPAddress, &l.UserAgent, &l.Language, &l.Status, &l.ConsentGDPR, &l.ConsentMarketing,
		&l.InternalNotes, &l.CreatedAt, &l.UpdatedAt, &l.ContactedAt,
	)
	return l, err
}

// Create inserts a validated lead. The UUID and timestamps are assigned here
// and never change afterwards.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			uuid, name, email, phone, company, position, inquiry_type, product_id,
			subject, message, budget_range, project_timeline, source_id, source_page, referrer,
			ip_address, user_agent, language, status, consent_gdpr, consent_marketing
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING `+leadColumns,
		uuid.New(), params.Name, params.Email, params.Phone, params.Company, params.Position,
		params.InquiryType, params.ProductID, params.Subject, params.Message, params.BudgetRange,
		params.ProjectTimeline, params.SourceID, params.SourcePage, params.Referrer,
		params.IPAddress, params.UserAgent, params.Language, StatusNew,
		params.ConsentGDPR, params.ConsentMarketing,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// GetByUUID returns the lead carrying the given external identifier.
func (r *Repository) GetByUUID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE uuid = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

// ListFilter narrows the staff lead listing.
type ListFilter struct {
	Status      string
	InquiryType string
	Limit       int
	Offset      int
}

// List returns leads newest first plus the total row count for the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Lead, int, error) {
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 25
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	where := "WHERE ($1 = '' OR status = $1) AND ($2 = '' OR inquiry_type = $2)"

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM leads "+where,
		filter.Status, filter.InquiryType,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads `+where+` ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		filter.Status, filter.InquiryType, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// UpdateStatus moves a lead to a new status and returns the previous one.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (string, error) {
	var old string
	err := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $2, updated_at = now()
		FROM (SELECT status AS old_status FROM leads WHERE uuid = $1) prev
		WHERE uuid = $1
		RETURNING prev.old_status
	`, id, status).Scan(&old)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return old, nil
}

// MarkContacted stamps contacted_at if not already set.
func (r *Repository) MarkContacted(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET contacted_at = COALESCE(contacted_at, $2), updated_at = now()
		WHERE uuid = $1
	`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendInternalNote adds a staff note to the lead's internal notes blob.
func (r *Repository) AppendInternalNote(ctx context.Context, id uuid.UUID, note string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET internal_notes = CASE
			WHEN internal_notes = '' THEN $2
			ELSE internal_notes || E'\n' || $2
		END,
		updated_at = now()
		WHERE uuid = $1
	`, id, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
