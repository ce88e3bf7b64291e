package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adiabatic_site_backend/internal/leads/management"
	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/internal/leads/transport"
	"adiabatic_site_backend/platform/apperr"
	"adiabatic_site_backend/platform/httpkit"
	"adiabatic_site_backend/platform/logger"
)

// StaffHandler serves the JWT-protected lead management endpoints.
type StaffHandler struct {
	log     *logger.Logger
	service *management.Service
}

func NewStaffHandler(log *logger.Logger, service *management.Service) *StaffHandler {
	return &StaffHandler{log: log, service: service}
}

// List returns leads newest first with optional status/inquiry filters.
func (h *StaffHandler) List(c *gin.Context) {
	filter := repository.ListFilter{
		Status:      c.Query("status"),
		InquiryType: c.Query("inquiry_type"),
		Limit:       queryInt(c, "limit", 25),
		Offset:      queryInt(c, "offset", 0),
	}

	leads, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, "leads.list", err)
		return
	}

	views := make([]transport.LeadView, 0, len(leads))
	for _, l := range leads {
		views = append(views, transport.NewLeadView(l, ""))
	}

	httpkit.OK(c, transport.LeadListResponse{
		Leads:  views,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get returns one lead with its activity trail.
func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c)
	if !ok {
		return
	}

	lead, activities, sourceName, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "leads.get", err)
		return
	}

	httpkit.OK(c, transport.LeadDetailResponse{
		Lead:       transport.NewLeadView(lead, sourceName),
		Activities: transport.NewActivityViews(activities),
	})
}

// UpdateStatus transitions a lead to a new status.
func (h *StaffHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "status is required", nil)
		return
	}

	if err := h.service.ChangeStatus(c.Request.Context(), id, req.Status, staffActor(c)); err != nil {
		h.handleError(c, "leads.update_status", err)
		return
	}

	httpkit.OK(c, gin.H{"status": req.Status})
}

// AddNote appends an internal note to a lead.
func (h *StaffHandler) AddNote(c *gin.Context) {
	id, ok := parseUUID(c)
	if !ok {
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "note is required", nil)
		return
	}

	if err := h.service.AddNote(c.Request.Context(), id, req.Note, staffActor(c)); err != nil {
		h.handleError(c, "leads.add_note", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) handleError(c *gin.Context, op string, err error) {
	if apperr.GetKind(err) == apperr.KindUnknown {
		h.log.DatabaseError(op, err)
		httpkit.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	httpkit.HandleError(c, err)
}

func parseUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "lead not found", nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// staffActor is the JWT subject set by the auth middleware.
func staffActor(c *gin.Context) string {
	if subject, ok := c.Get(httpkit.ContextStaffSubjectKey); ok {
		if s, ok := subject.(string); ok && s != "" {
			return s
		}
	}
	return "staff"
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
