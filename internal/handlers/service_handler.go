package handlers

import (
	"net/http"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ServiceHandler struct {
	Services *store.Store[models.Service]
}

// --- GET: /api/services ---
func (h *ServiceHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Services.All())
}

// --- POST: /api/services (create or update) ---
func (h *ServiceHandler) Save(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if service.BasePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Base price cannot be negative"})
		return
	}

	if service.ID == "" {
		service.ID = uuid.NewString()
	}

	if err := h.Services.Save(&service); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save service"})
		return
	}

	c.JSON(http.StatusOK, service)
}

// --- DELETE: /api/services/:id ---
func (h *ServiceHandler) Delete(c *gin.Context) {
	if err := h.Services.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}
