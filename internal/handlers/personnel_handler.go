package handlers

import (
	"errors"
	"net/http"

	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPersonnel handles GET /api/personnel
// Optional query param: role (scriptwriter|staff|interpreter).
func GetPersonnel(c *gin.Context) {
	query := database.GetDB().Model(&models.Personnel{})
	if role := c.Query("role"); role != "" {
		if !models.PersonnelRole(role).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		query = query.Where("role = ?", role)
	}

	var people []models.Personnel
	if err := query.Order("name asc").Find(&people).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch personnel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"personnel": people,
		"count":     len(people),
	})
}

// CreatePersonnelRequest represents the request payload for registering a person
type CreatePersonnelRequest struct {
	Name  string               `json:"name" binding:"required"`
	Role  models.PersonnelRole `json:"role" binding:"required"`
	Email string               `json:"email"`
}

// CreatePersonnel handles POST /api/personnel
func CreatePersonnel(c *gin.Context) {
	var req CreatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	p := models.Personnel{
		ID:     "person-" + uuid.NewString(),
		Name:   req.Name,
		Role:   req.Role,
		Email:  req.Email,
		Active: true,
	}
	if err := database.GetDB().Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create personnel"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdatePersonnelRequest represents the request payload for updating a person
type UpdatePersonnelRequest struct {
	Name   *string               `json:"name"`
	Role   *models.PersonnelRole `json:"role"`
	Email  *string               `json:"email"`
	Active *bool                 `json:"active"`
}

// UpdatePersonnel handles PUT /api/personnel/:id
func UpdatePersonnel(c *gin.Context) {
	personID := c.Param("id")

	var existing models.Personnel
	result := database.GetDB().Where("id = ?", personID).First(&existing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Personnel not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch personnel"})
		}
		return
	}

	var req UpdatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		existing.Role = *req.Role
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := database.GetDB().Save(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update personnel"})
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DeletePersonnel handles DELETE /api/personnel/:id
func DeletePersonnel(c *gin.Context) {
	personID := c.Param("id")

	var p models.Personnel
	result := database.GetDB().Where("id = ?", personID).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Personnel not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch personnel"})
		}
		return
	}

	if err := database.GetDB().Delete(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete personnel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Personnel deleted successfully",
		"id":      personID,
	})
}
