package handlers

import (
	"errors"
	"net/http"

	"accessibility-admin-api/internal/models"
	"accessibility-admin-api/internal/realtime"
	"accessibility-admin-api/internal/store"

	"github.com/gin-gonic/gin"
)

// estimationHoursPerDay is set from config at startup.
var estimationHoursPerDay = 8.0

// SetEstimationHoursPerDay configures the working-day length used when
// converting aggregate hours to days.
func SetEstimationHoursPerDay(h float64) {
	if h > 0 {
		estimationHoursPerDay = h
	}
}

// GetMediaTypes handles GET /api/templates/media-types
func GetMediaTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"media_types": store.ListMediaTypes(),
	})
}

// GetTemplates handles GET /api/templates/:mediaType
// Returns the media type's template set grouped by stage.
func GetTemplates(c *gin.Context) {
	mediaType := models.MediaType(c.Param("mediaType"))
	stages, err := store.GetStages(mediaType)
	if err != nil {
		if errors.Is(err, store.ErrUnknownMediaType) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown media type"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"media_type":      mediaType,
		"media_type_name": mediaType.Name(),
		"stages":          stages,
	})
}

// BulkSaveRequest carries the full replacement set for one media type.
type BulkSaveRequest struct {
	Tasks []store.TaskUpsert `json:"tasks" binding:"required"`
}

// BulkSaveTemplates handles PUT /api/templates/:mediaType/bulk
// The whole batch is applied atomically; any invalid field rejects it with
// the offending (stage, task, field) tuples and nothing is changed.
func BulkSaveTemplates(c *gin.Context) {
	mediaType := models.MediaType(c.Param("mediaType"))

	var req BulkSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := store.BulkReplace(mediaType, req.Tasks); err != nil {
		var vErr *store.ValidationError
		switch {
		case errors.Is(err, store.ErrUnknownMediaType):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown media type"})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Validation failed; nothing was saved",
				"fields": vErr.Fields,
			})
		case errors.Is(err, store.ErrUnknownTaskID), errors.Is(err, store.ErrDuplicateTaskID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save templates"})
		}
		return
	}

	realtime.GetHub().Notify(realtime.ChannelTemplates, map[string]any{
		"type":       "template_saved",
		"media_type": mediaType,
		"user_id":    c.GetString("user_id"),
	})

	stages, err := store.GetStages(mediaType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Saved, but failed to fetch templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"media_type": mediaType,
		"stages":     stages,
	})
}

// InitializeDefaultTemplates handles POST /api/templates/initialize-defaults
// Wipes every template and reseeds the catalog defaults for all media types.
func InitializeDefaultTemplates(c *gin.Context) {
	if err := store.InitializeDefaults(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize default templates"})
		return
	}

	realtime.GetHub().Notify(realtime.ChannelTemplates, map[string]any{
		"type":    "templates_initialized",
		"user_id": c.GetString("user_id"),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Default templates initialized"})
}

// GetHoursEstimation handles
// GET /api/templates/:mediaType/hours-estimation?work_speed_type=A|B|C
// Without the parameter all three tiers are returned for comparison.
func GetHoursEstimation(c *gin.Context) {
	mediaType := models.MediaType(c.Param("mediaType"))
	if !mediaType.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown media type"})
		return
	}

	speedParam := c.Query("work_speed_type")
	if speedParam != "" {
		speed := models.WorkSpeed(speedParam)
		if !speed.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "work_speed_type must be A, B or C"})
			return
		}
		est, err := store.EstimateHours(mediaType, speed, estimationHoursPerDay)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute estimation"})
			return
		}
		c.JSON(http.StatusOK, est)
		return
	}

	// Comparison view: all tiers side by side.
	out := make([]store.Estimation, 0, 3)
	for _, speed := range models.AllWorkSpeeds() {
		est, err := store.EstimateHours(mediaType, speed, estimationHoursPerDay)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute estimation"})
			return
		}
		out = append(out, est)
	}
	c.JSON(http.StatusOK, gin.H{
		"media_type":  mediaType,
		"estimations": out,
	})
}
