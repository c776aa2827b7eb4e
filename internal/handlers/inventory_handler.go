package handlers

import (
	"net/http"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	Inventory *store.Store[models.InventoryItem]
}

// --- GET: /api/inventory ---
func (h *InventoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Inventory.All())
}

// --- GET: /api/inventory/low-stock ---
func (h *InventoryHandler) LowStock(c *gin.Context) {
	low := []models.InventoryItem{}
	for _, item := range h.Inventory.All() {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	c.JSON(http.StatusOK, low)
}

// --- POST: /api/inventory (create or update) ---
func (h *InventoryHandler) Save(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if err := h.Inventory.Save(&item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save inventory item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// --- DELETE: /api/inventory/:id ---
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.Inventory.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inventory item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}
