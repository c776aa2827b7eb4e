package handlers

import (
	"net/http"
	"time"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type JobHandler struct {
	Jobs *store.Store[models.Job]
}

// JobRequest is what the frontend sends. Note there is NO status, total,
// balance or payment status field: every derived value is recomputed
// server-side on every write.
type JobRequest struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customer_id" binding:"required"`
	Items      []models.JobItem `json:"items"`
	Discount   float64          `json:"discount"`
	PaidAmount float64          `json:"paid_amount"`
	Notes      string           `json:"notes"`
}

// --- GET: /api/jobs ---
func (h *JobHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Jobs.All())
}

// --- POST: /api/jobs (create or update) ---
func (h *JobHandler) Save(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item quantity must be positive"})
			return
		}
	}

	job := models.Job{
		ID:         req.ID,
		CustomerID: req.CustomerID,
		Items:      req.Items,
		Discount:   req.Discount,
		PaidAmount: req.PaidAmount,
		Notes:      req.Notes,
	}

	if job.ID == "" {
		job.ID = uuid.NewString()
		job.CreatedAt = time.Now().UTC()
	} else if existing, found := h.Jobs.GetByID(job.ID); found {
		job.CreatedAt = existing.CreatedAt
	}

	// The one and only aggregation point
	models.DeriveAggregates(&job)

	if err := h.Jobs.Save(&job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// --- DELETE: /api/jobs/:id ---
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.Jobs.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}
