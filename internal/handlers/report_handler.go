package handlers

import (
	"net/http"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Jobs      *store.Store[models.Job]
	Inventory *store.Store[models.InventoryItem]
}

// BusinessReport is the shape of our analytics response
type BusinessReport struct {
	TotalRevenue   float64          `json:"total_revenue"`
	TotalCollected float64          `json:"total_collected"`
	TotalDue       float64          `json:"total_due"`
	TotalJobs      int              `json:"total_jobs"`
	JobsByStatus   map[string]int   `json:"jobs_by_status"`
	TopServices    []ServiceRevenue `json:"top_services"`
}

type ServiceRevenue struct {
	ServiceName string  `json:"service_name"`
	Sold        int     `json:"sold"`
	Revenue     float64 `json:"revenue"`
}

// --- GET: /api/reports ---
// Everything is aggregated from the synchronizing store, so the report
// works identically online and offline (from the mirror).
func (h *ReportHandler) Business(c *gin.Context) {
	jobs := h.Jobs.All()

	report := BusinessReport{
		TotalJobs:    len(jobs),
		JobsByStatus: map[string]int{},
	}

	perService := map[string]*ServiceRevenue{}

	for _, job := range jobs {
		report.JobsByStatus[job.Status]++
		if job.Status == models.JobCancelled {
			continue
		}
		report.TotalRevenue += job.TotalAmount
		report.TotalCollected += job.PaidAmount
		report.TotalDue += job.Balance

		for _, item := range job.Items {
			if item.Status == models.JobCancelled {
				continue
			}
			entry, ok := perService[item.ServiceName]
			if !ok {
				entry = &ServiceRevenue{ServiceName: item.ServiceName}
				perService[item.ServiceName] = entry
			}
			entry.Sold += item.Quantity
			entry.Revenue += item.Subtotal
		}
	}

	// Top 5 services by units sold
	for _, entry := range perService {
		report.TopServices = append(report.TopServices, *entry)
	}
	for i := 0; i < len(report.TopServices); i++ {
		for j := i + 1; j < len(report.TopServices); j++ {
			if report.TopServices[j].Sold > report.TopServices[i].Sold {
				report.TopServices[i], report.TopServices[j] = report.TopServices[j], report.TopServices[i]
			}
		}
	}
	if len(report.TopServices) > 5 {
		report.TopServices = report.TopServices[:5]
	}

	c.JSON(http.StatusOK, report)
}

// StockGroup represents one category block of the stock report
type StockGroup struct {
	CategoryName string                 `json:"category_name"`
	Items        []models.InventoryItem `json:"items"`
	LowStock     int                    `json:"low_stock"`
}

// --- GET: /api/reports/stock ---
func (h *ReportHandler) Stock(c *gin.Context) {
	grouped := map[string]*StockGroup{}

	for _, item := range h.Inventory.All() {
		catName := item.Category
		if catName == "" {
			catName = "Uncategorized"
		}
		group, exists := grouped[catName]
		if !exists {
			group = &StockGroup{CategoryName: catName}
			grouped[catName] = group
		}
		group.Items = append(group.Items, item)
		if item.IsLowStock() {
			group.LowStock++
		}
	}

	groups := []StockGroup{}
	for _, group := range grouped {
		groups = append(groups, *group)
	}
	c.JSON(http.StatusOK, gin.H{"categories": groups})
}
