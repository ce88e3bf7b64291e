package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adiabatic_site_backend/platform/httpkit"
	"adiabatic_site_backend/platform/logger"
)

// settingsHandler serves the staff notification-settings endpoints.
type settingsHandler struct {
	log   *logger.Logger
	store SettingsStore
}

func newSettingsHandler(log *logger.Logger, store SettingsStore) *settingsHandler {
	return &settingsHandler{log: log, store: store}
}

func (h *settingsHandler) Get(c *gin.Context) {
	settings, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.log.DatabaseError("notification.settings_get", err)
		httpkit.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	httpkit.OK(c, settings)
}

func (h *settingsHandler) Update(c *gin.Context) {
	var req Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid settings payload", nil)
		return
	}
	if req.MaxRetries < 1 || req.MaxRetries > 10 {
		httpkit.Error(c, http.StatusBadRequest, "max_retries must be between 1 and 10", nil)
		return
	}
	if req.RetryDelaySeconds < 0 || req.RetryDelaySeconds > 300 {
		httpkit.Error(c, http.StatusBadRequest, "retry_delay_seconds must be between 0 and 300", nil)
		return
	}

	// Get lazily creates the row, so the update below always has a target.
	if _, err := h.store.Get(c.Request.Context()); err != nil {
		h.log.DatabaseError("notification.settings_get", err)
		httpkit.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}

	updated, err := h.store.Update(c.Request.Context(), req)
	if err != nil {
		h.log.DatabaseError("notification.settings_update", err)
		httpkit.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	httpkit.OK(c, updated)
}
