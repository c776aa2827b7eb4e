package handlers

import (
	"errors"
	"net/http"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/backup"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	Remote *store.RemoteStore
	Local  *store.LocalStore
	Bridge *backup.Bridge
}

// --- GET: /api/system/status ---
// Feeds the connectivity badge in the header: cloud_active tells the
// frontend whether it is looking at live data or the offline mirror.
func (h *SystemHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cloud_active": h.Remote.Available(),
		"local_active": h.Local.Available(),
	})
}

// --- GET: /api/system/backup ---
// Streams the full workbook as a download.
func (h *SystemHandler) Backup(c *gin.Context) {
	data, filename, err := h.Bridge.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build backup"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// --- POST: /api/system/restore ---
// Accepts an uploaded workbook and replays it through the stores.
func (h *SystemHandler) Restore(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not open uploaded file"})
		return
	}
	defer file.Close()

	imported, err := h.Bridge.Import(file)
	if err != nil {
		if errors.Is(err, backup.ErrUnknownWorkbook) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This file is not a recognized backup"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read the uploaded workbook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Restore complete",
		"imported": imported,
	})
}
