package handlers

import (
	"errors"
	"net"
	"net/http"

	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/middleware"
	"accessibility-admin-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetAllowedIPs handles GET /api/admin/allowed-ips
func GetAllowedIPs(c *gin.Context) {
	var rows []models.AllowedIP
	if err := database.GetDB().Order("cidr asc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch allow-list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"allowed_ips": rows,
		"count":       len(rows),
	})
}

// AddAllowedIPRequest represents the request payload for one allow-list entry
type AddAllowedIPRequest struct {
	CIDR    string `json:"cidr" binding:"required"`
	Comment string `json:"comment"`
}

// AddAllowedIP handles POST /api/admin/allowed-ips
// Accepts a CIDR block or a bare address.
func AddAllowedIP(c *gin.Context) {
	var req AddAllowedIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, _, err := net.ParseCIDR(req.CIDR); err != nil {
		if net.ParseIP(req.CIDR) == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cidr must be an IP address or CIDR block"})
			return
		}
	}

	row := models.AllowedIP{CIDR: req.CIDR, Comment: req.Comment}
	if err := database.GetDB().Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add allow-list entry"})
		return
	}

	middleware.InvalidateAllowList()
	c.JSON(http.StatusCreated, row)
}

// DeleteAllowedIP handles DELETE /api/admin/allowed-ips/:id
func DeleteAllowedIP(c *gin.Context) {
	id := c.Param("id")

	var row models.AllowedIP
	result := database.GetDB().Where("id = ?", id).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Allow-list entry not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch allow-list entry"})
		}
		return
	}

	if err := database.GetDB().Unscoped().Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete allow-list entry"})
		return
	}

	middleware.InvalidateAllowList()
	c.JSON(http.StatusOK, gin.H{
		"message": "Allow-list entry deleted",
		"id":      row.ID,
	})
}
