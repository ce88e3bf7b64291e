// Package transport defines the wire types for the lead endpoints.
package transport

import (
	"time"

	"adiabatic_site_backend/internal/leads/repository"
)

// SubmitRequest is the full intake form. Bodies arrive as JSON or
// form-encoded; the form tags let gin bind both transparently.
type SubmitRequest struct {
	Website          string `json:"website" form:"website"`
	Name             string `json:"name" form:"name"`
	Email            string `json:"email" form:"email"`
	Phone            string `json:"phone" form:"phone"`
	Company          string `json:"company" form:"company"`
	Position         string `json:"position" form:"position"`
	InquiryType      string `json:"inquiry_type" form:"inquiry_type"`
	ProductSlug      string `json:"product_slug" form:"product_slug"`
	Subject          string `json:"subject" form:"subject"`
	Message          string `json:"message" form:"message"`
	BudgetRange      string `json:"budget_range" form:"budget_range"`
	ProjectTimeline  string `json:"project_timeline" form:"project_timeline"`
	ConsentGDPR      bool   `json:"consent_gdpr" form:"consent_gdpr"`
	ConsentMarketing bool   `json:"consent_marketing" form:"consent_marketing"`
}

// QuickQuoteRequest is the reduced quote form.
type QuickQuoteRequest struct {
	Website     string `json:"website" form:"website"`
	Name        string `json:"name" form:"name"`
	Phone       string `json:"phone" form:"phone"`
	Email       string `json:"email" form:"email"`
	ProductSlug string `json:"product_slug" form:"product_slug"`
	Message     string `json:"message" form:"message"`
	ConsentGDPR bool   `json:"consent_gdpr" form:"consent_gdpr"`
}

// ContactRequest is the generic contact form.
type ContactRequest struct {
	Website     string `json:"website" form:"website"`
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Company     string `json:"company" form:"company"`
	InquiryType string `json:"inquiry_type" form:"inquiry_type"`
	Subject     string `json:"subject" form:"subject"`
	Message     string `json:"message" form:"message"`
	ConsentGDPR bool   `json:"consent_gdpr" form:"consent_gdpr"`
}

// SubmitResponse is the shared acknowledgment shape of all three intake
// endpoints. Validation failures keep HTTP 200 and flip Success off.
type SubmitResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	LeadUUID    string              `json:"lead_uuid,omitempty"`
	RedirectURL string              `json:"redirect_url,omitempty"`
	Errors      map[string][]string `json:"errors,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// ThankYouResponse personalizes the post-submission page.
type ThankYouResponse struct {
	Name        string `json:"name"`
	InquiryType string `json:"inquiry_type"`
	Subject     string `json:"subject,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// UpdateStatusRequest moves a lead through the pipeline.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddNoteRequest appends a staff note.
type AddNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// LeadView is the staff-facing projection of a lead.
type LeadView struct {
	UUID             string     `json:"uuid"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Company          string     `json:"company,omitempty"`
	Position         string     `json:"position,omitempty"`
	InquiryType      string     `json:"inquiry_type"`
	Subject          string     `json:"subject,omitempty"`
	Message          string     `json:"message"`
	BudgetRange      string     `json:"budget_range,omitempty"`
	ProjectTimeline  string     `json:"project_timeline,omitempty"`
	SourceName       string     `json:"source_name,omitempty"`
	SourcePage       string     `json:"source_page,omitempty"`
	Referrer         string     `json:"referrer,omitempty"`
	Language         string     `json:"language"`
	Status           string     `json:"status"`
	ConsentGDPR      bool       `json:"consent_gdpr"`
	ConsentMarketing bool       `json:"consent_marketing"`
	InternalNotes    string     `json:"internal_notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ContactedAt      *time.Time `json:"contacted_at,omitempty"`
}

// ActivityView is one audit entry in a lead detail.
type ActivityView struct {
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description"`
	Actor        string    `json:"actor,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LeadListResponse pages through the staff listing.
type LeadListResponse struct {
	Leads  []LeadView `json:"leads"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// LeadDetailResponse is a lead plus its activity trail, newest first.
type LeadDetailResponse struct {
	Lead       LeadView       `json:"lead"`
	Activities []ActivityView `json:"activities"`
}

// NewLeadView projects a repository lead for staff consumption.
func NewLeadView(l repository.Lead, sourceName string) LeadView {
	return LeadView{
		UUID:             l.UUID.String(),
		Name:             l.Name,
		Email:            l.Email,
		Phone:            l.Phone,
		Company:          l.Company,
		Position:         l.Position,
		InquiryType:      l.InquiryType,
		Subject:          l.Subject,
		Message:          l.Message,
		BudgetRange:      l.BudgetRange,
		ProjectTimeline:  l.ProjectTimeline,
		SourceName:       sourceName,
		SourcePage:       l.SourcePage,
		Referrer:         l.Referrer,
		Language:         l.Language,
		Status:           l.Status,
		ConsentGDPR:      l.ConsentGDPR,
		ConsentMarketing: l.ConsentMarketing,
		InternalNotes:    l.InternalNotes,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
		ContactedAt:      l.ContactedAt,
	}
}

// NewActivityViews projects the audit trail.
func NewActivityViews(items []repository.Activity) []ActivityView {
	views := make([]ActivityView, 0, len(items))
	for _, a := range items {
		views = append(views, ActivityView{
			ActivityType: a.ActivityType,
			Description:  a.Description,
			Actor:        a.Actor,
			CreatedAt:    a.CreatedAt,
		})
	}
	return views
}
