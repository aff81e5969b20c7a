package handlers

import (
	"errors"
	"net/http"

	"accessibility-admin-api/internal/backup"

	"github.com/gin-gonic/gin"
)

var backupService *backup.Service

// ConfigureBackups wires the backup service used by the backup endpoints.
func ConfigureBackups(svc *backup.Service) {
	backupService = svc
}

// CreateBackup handles POST /api/admin/backups
func CreateBackup(c *gin.Context) {
	if backupService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Backups are not configured"})
		return
	}
	info, err := backupService.Create()
	if err != nil {
		if errors.Is(err, backup.ErrNoDatabase) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No database file to back up"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create backup"})
		return
	}
	c.JSON(http.StatusCreated, info)
}

// ListBackups handles GET /api/admin/backups
func ListBackups(c *gin.Context) {
	if backupService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Backups are not configured"})
		return
	}
	backups, err := backupService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list backups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"backups": backups,
		"count":   len(backups),
	})
}
