package handlers

import (
	"net/http"
	"time"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomerHandler struct {
	Customers *store.Store[models.Customer]
}

// --- GET: /api/customers ---
func (h *CustomerHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Customers.All())
}

// --- POST: /api/customers (create or update) ---
func (h *CustomerHandler) Save(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Aadhaar format is checked here at the boundary; the store never
	// looks at it.
	if err := models.ValidateAadhaar(customer.AadhaarNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if customer.ID == "" {
		customer.ID = uuid.NewString()
		customer.CreatedAt = time.Now().UTC()
	}

	if err := h.Customers.Save(&customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save customer"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// --- DELETE: /api/customers/:id ---
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.Customers.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
