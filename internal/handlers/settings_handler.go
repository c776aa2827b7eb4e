package handlers

import (
	"net/http"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	Settings *store.SettingsStore
}

// --- GET: /api/settings ---
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, ok := h.Settings.Get()
	if !ok {
		// Seeding guarantees the singleton, but an empty mirror in
		// pure-local first run can still land here
		c.JSON(http.StatusOK, models.CompanySettings{ID: models.SettingsID})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// --- PUT: /api/settings ---
func (h *SettingsHandler) Save(c *gin.Context) {
	var settings models.CompanySettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// The store pins the singleton key; whatever id was posted is ignored
	if err := h.Settings.Save(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	settings.ID = models.SettingsID
	c.JSON(http.StatusOK, settings)
}
