// Package handler exposes the lead endpoints over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogrepo "adiabatic_site_backend/internal/catalog/repository"
	"adiabatic_site_backend/internal/events"
	"adiabatic_site_backend/internal/leads/attribution"
	"adiabatic_site_backend/internal/leads/forms"
	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/internal/leads/transport"
	"adiabatic_site_backend/platform/config"
	"adiabatic_site_backend/platform/logger"
)

// User-facing acknowledgment messages.
const (
	msgSubmitOK     = "Thank you! Your request has been sent successfully."
	msgQuickOK      = "Thank you! We will contact you shortly."
	msgContactOK    = "Thank you for reaching out! We will reply shortly."
	msgFormErrors   = "Please correct the errors in the form."
	msgInternalFail = "An error occurred while sending your request. Please try again later."
)

const captureFieldLimit = 500

// LeadStore is the persistence surface the public endpoints need.
type LeadStore interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) error
}

// ProductStore resolves optional product references on intake.
type ProductStore interface {
	GetPublishedBySlug(ctx context.Context, slug string) (catalogrepo.Product, error)
}

// SourceResolver maps request attribution signals to a source row.
type SourceResolver interface {
	Resolve(ctx context.Context, pc attribution.PageContext) (repository.Source, error)
}

// PublicHandler serves the three intake endpoints and the thank-you lookup.
type PublicHandler struct {
	log      *logger.Logger
	cfg      config.AppConfig
	forms    *forms.Validator
	leads    LeadStore
	products ProductStore
	sources  SourceResolver
	bus      events.Bus
}

func NewPublicHandler(
	log *logger.Logger,
	cfg config.AppConfig,
	formValidator *forms.Validator,
	leads LeadStore,
	products ProductStore,
	sources SourceResolver,
	bus events.Bus,
) *PublicHandler {
	return &PublicHandler{
		log:      log,
		cfg:      cfg,
		forms:    formValidator,
		leads:    leads,
		products: products,
		sources:  sources,
		bus:      bus,
	}
}

// Submit handles the full intake form.
func (h *PublicHandler) Submit(c *gin.Context) {
	var req transport.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondInternal(c, err)
		return
	}

	normalized, fieldErrs := h.forms.Submit(forms.Input{
		Website:          req.Website,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Company:          req.Company,
		Position:         req.Position,
		InquiryType:      req.InquiryType,
		Subject:          req.Subject,
		Message:          req.Message,
		BudgetRange:      req.BudgetRange,
		ProjectTimeline:  req.ProjectTimeline,
		ConsentGDPR:      req.ConsentGDPR,
		ConsentMarketing: req.ConsentMarketing,
	})
	if len(fieldErrs) > 0 {
		respondValidation(c, fieldErrs)
		return
	}

	product := h.lookupProduct(c, req.ProductSlug)

	lead, ok := h.persist(c, normalized, product, "Lead created via website form", "submit")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, transport.SubmitResponse{
		Success:     true,
		Message:     msgSubmitOK,
		LeadUUID:    lead.UUID.String(),
		RedirectURL: "/leads/thank-you/" + lead.UUID.String() + "/",
	})
}

// QuickQuote handles the reduced quote form.
func (h *PublicHandler) QuickQuote(c *gin.Context) {
	var req transport.QuickQuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondInternal(c, err)
		return
	}

	normalized, fieldErrs := h.forms.QuickQuote(forms.Input{
		Website:     req.Website,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Message:     req.Message,
		ConsentGDPR: req.ConsentGDPR,
	})
	if len(fieldErrs) > 0 {
		respondValidation(c, fieldErrs)
		return
	}

	product := h.lookupProduct(c, req.ProductSlug)
	productName := "General"
	if product != nil {
		productName = product.Name
	}
	normalized.Subject = forms.QuickQuoteSubject(productName)

	lead, ok := h.persist(c, normalized, product, "Quick price request for product: "+productName, "quick-quote")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, transport.SubmitResponse{
		Success:  true,
		Message:  msgQuickOK,
		LeadUUID: lead.UUID.String(),
	})
}

// Contact handles the generic contact form.
func (h *PublicHandler) Contact(c *gin.Context) {
	var req transport.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondInternal(c, err)
		return
	}

	normalized, fieldErrs := h.forms.Contact(forms.Input{
		Website:     req.Website,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		InquiryType: req.InquiryType,
		Subject:     req.Subject,
		Message:     req.Message,
		ConsentGDPR: req.ConsentGDPR,
	})
	if len(fieldErrs) > 0 {
		respondValidation(c, fieldErrs)
		return
	}

	lead, ok := h.persist(c, normalized, nil, "Lead via contact form", "contact")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, transport.SubmitResponse{
		Success:  true,
		Message:  msgContactOK,
		LeadUUID: lead.UUID.String(),
	})
}

// ThankYou returns the personalized post-submission payload.
func (h *PublicHandler) ThankYou(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	lead, err := h.leads.GetByUUID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		h.log.DatabaseError("leads.get_by_uuid", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, transport.ThankYouResponse{
		Name:        lead.Name,
		InquiryType: lead.InquiryType,
		Subject:     lead.Subject,
		CreatedAt:   lead.CreatedAt.Format("2006-01-02 15:04"),
	})
}

// persist runs the shared tail of all three intake endpoints: source
// attribution, lead write, created-activity, event publication. Returns
// ok=false after writing an error response.
func (h *PublicHandler) persist(
	c *gin.Context,
	normalized forms.Normalized,
	product *catalogrepo.Product,
	activityDescription string,
	entrypoint string,
) (repository.Lead, bool) {
	ctx := c.Request.Context()
	referrer := truncate(c.GetHeader("Referer"), captureFieldLimit)

	source, err := h.sources.Resolve(ctx, attribution.PageContext{
		UTMSource:   c.Query("utm_source"),
		UTMMedium:   c.Query("utm_medium"),
		UTMCampaign: c.Query("utm_campaign"),
		Referrer:    referrer,
	})
	if err != nil {
		h.log.DatabaseError("leads.resolve_source", err)
		h.respondInternal(c, err)
		return repository.Lead{}, false
	}

	params := repository.CreateLeadParams{
		Name:             normalized.Name,
		Email:            normalized.Email,
		Phone:            normalized.Phone,
		Company:          normalized.Company,
		Position:         normalized.Position,
		InquiryType:      normalized.InquiryType,
		Subject:          normalized.Subject,
		Message:          normalized.Message,
		BudgetRange:      normalized.BudgetRange,
		ProjectTimeline:  normalized.ProjectTimeline,
		SourceID:         &source.ID,
		SourcePage:       referrer,
		Referrer:         referrer,
		IPAddress:        clientIP(c),
		UserAgent:        truncate(c.Request.UserAgent(), captureFieldLimit),
		Language:         requestLanguage(c),
		ConsentGDPR:      normalized.ConsentGDPR,
		ConsentMarketing: normalized.ConsentMarketing,
	}
	if product != nil {
		params.ProductID = &product.ID
	}

	lead, err := h.leads.Create(ctx, params)
	if err != nil {
		h.log.DatabaseError("leads.create", err)
		h.respondInternal(c, err)
		return repository.Lead{}, false
	}

	// The lead is durable from here on. A failed activity write is logged
	// and accepted; it never rolls the lead back.
	if err := h.leads.CreateActivity(ctx, repository.CreateActivityParams{
		LeadUUID:     lead.UUID,
		ActivityType: repository.ActivityCreated,
		Description:  activityDescription,
		Actor:        "System",
	}); err != nil {
		h.log.DatabaseError("leads.create_activity", err)
	}

	h.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadUUID:    lead.UUID,
		InquiryType: lead.InquiryType,
		Entrypoint:  entrypoint,
	})

	h.log.Info("lead_created",
		"lead_uuid", lead.UUID.String(),
		"email", lead.Email,
		"entrypoint", entrypoint,
	)

	return lead, true
}

// lookupProduct resolves an optional product slug; an unknown or unpublished
// slug is silently ignored, matching the forgiving public contract.
func (h *PublicHandler) lookupProduct(c *gin.Context, slug string) *catalogrepo.Product {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}
	product, err := h.products.GetPublishedBySlug(c.Request.Context(), slug)
	if err != nil {
		if !errors.Is(err, catalogrepo.ErrNotFound) {
			h.log.DatabaseError("catalog.get_by_slug", err)
		}
		return nil
	}
	return &product
}

func (h *PublicHandler) respondInternal(c *gin.Context, err error) {
	resp := transport.SubmitResponse{
		Success: false,
		Message: msgInternalFail,
	}
	if h.cfg.IsDevelopment() {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func respondValidation(c *gin.Context, fieldErrs forms.Errors) {
	message := msgFormErrors
	if _, spam := fieldErrs["website"]; spam {
		message = forms.MsgSpamDetected
	}
	c.JSON(http.StatusOK, transport.SubmitResponse{
		Success: false,
		Message: message,
		Errors:  fieldErrs,
	})
}

// clientIP prefers the first X-Forwarded-For hop over the socket peer.
func clientIP(c *gin.Context) string {
	forwarded := c.GetHeader("X-Forwarded-For")
	if forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.ClientIP()
}

// requestLanguage extracts the primary Accept-Language tag, default "uk".
func requestLanguage(c *gin.Context) string {
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return "uk"
	}
	primary := strings.TrimSpace(strings.Split(header, ",")[0])
	if i := strings.IndexByte(primary, ';'); i >= 0 {
		primary = primary[:i]
	}
	if i := strings.IndexByte(primary, '-'); i >= 0 {
		primary = primary[:i]
	}
	primary = strings.ToLower(strings.TrimSpace(primary))
	if primary == "" {
		return "uk"
	}
	return primary
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
