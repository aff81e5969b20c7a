package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"accessibility-admin-api/internal/auth"
	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/middleware"
	"accessibility-admin-api/internal/models"
	"accessibility-admin-api/internal/store"
	"accessibility-admin-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupTemplateRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, store.InitializeDefaults())

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	api.GET("/templates/media-types", GetMediaTypes)
	api.GET("/templates/:mediaType", GetTemplates)
	api.PUT("/templates/:mediaType/bulk", BulkSaveTemplates)
	api.POST("/templates/initialize-defaults", InitializeDefaultTemplates)
	api.GET("/templates/:mediaType/hours-estimation", GetHoursEstimation)

	token, err := auth.GenerateToken("admin-1", "alice")
	require.NoError(t, err)
	return r, token
}

func doJSON(t *testing.T, r *gin.Engine, token, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMediaTypes(t *testing.T) {
	r, token := setupTemplateRouter(t)

	w := doJSON(t, r, token, http.MethodGet, "/api/templates/media-types", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MediaTypes []store.MediaTypeInfo `json:"media_types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.MediaTypes, 9)
}

func TestGetTemplates_RequiresAuth(t *testing.T) {
	r, _ := setupTemplateRouter(t)
	w := doJSON(t, r, "", http.MethodGet, "/api/templates/captioning", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetTemplates_UnknownMediaType(t *testing.T) {
	r, token := setupTemplateRouter(t)
	w := doJSON(t, r, token, http.MethodGet, "/api/templates/podcast", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTemplates_GroupedByStage(t *testing.T) {
	r, token := setupTemplateRouter(t)

	w := doJSON(t, r, token, http.MethodGet, "/api/templates/audio_description", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MediaType string                           `json:"media_type"`
		Stages    map[string][]models.TaskTemplate `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "audio_description", resp.MediaType)
	require.Len(t, resp.Stages, 4)
	for stage, tasks := range resp.Stages {
		require.NotEmpty(t, tasks, "stage %s", stage)
		for i, task := range tasks {
			require.Equal(t, i+1, task.TaskOrder)
		}
	}
}

func TestBulkSaveTemplates_ReplacesSet(t *testing.T) {
	r, token := setupTemplateRouter(t)

	// Pick an existing row to update by id.
	var existing models.TaskTemplate
	require.NoError(t, database.DB.
		Where("media_type = ? AND stage = ?", models.MediaSignLanguage, models.StagePreparation).
		Order("task_order asc").First(&existing).Error)

	payload := map[string]any{
		"tasks": []map[string]any{
			{
				"id":           existing.ID,
				"stage":        1,
				"task_order":   1,
				"title":        "Source review",
				"hours_fast":   2.0,
				"hours_normal": 3.0, "hours_relaxed": 4.0,
				"active": true,
			},
			{
				"stage":      1,
				"task_order": 2,
				"title":      "Interpreter briefing",
				"hours_fast": 1.0, "hours_normal": 1.5, "hours_relaxed": 2.0,
				"active": true,
			},
		},
	}
	w := doJSON(t, r, token, http.MethodPut, "/api/templates/sign_language/bulk", payload)
	require.Equal(t, http.StatusOK, w.Code)

	// Omitted rows are gone; only the two submitted remain.
	var rows []models.TaskTemplate
	require.NoError(t, database.DB.
		Where("media_type = ?", models.MediaSignLanguage).
		Order("stage asc, task_order asc").Find(&rows).Error)
	require.Len(t, rows, 2)
	require.Equal(t, existing.ID, rows[0].ID)
	require.Equal(t, "Source review", rows[0].Title)
	require.NotZero(t, rows[1].ID)
	require.Equal(t, "Interpreter briefing", rows[1].Title)
}

func TestBulkSaveTemplates_ValidationRejectsAll(t *testing.T) {
	r, token := setupTemplateRouter(t)

	var before int64
	require.NoError(t, database.DB.Model(&models.TaskTemplate{}).
		Where("media_type = ?", models.MediaCaptioning).Count(&before).Error)

	payload := map[string]any{
		"tasks": []map[string]any{
			{"stage": 1, "task_order": 1, "title": "Ok task", "hours_fast": 1.0, "hours_normal": 1.0, "hours_relaxed": 1.0, "active": true},
			{"stage": 1, "task_order": 2, "title": "Too big", "hours_fast": 1.0, "hours_normal": 250.0, "hours_relaxed": 1.0, "active": true},
		},
	}
	w := doJSON(t, r, token, http.MethodPut, "/api/templates/captioning/bulk", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields []struct {
			Stage     int    `json:"stage"`
			TaskIndex int    `json:"task_index"`
			Field     string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Fields)

	// Nothing was applied, the valid row included.
	var after int64
	require.NoError(t, database.DB.Model(&models.TaskTemplate{}).
		Where("media_type = ?", models.MediaCaptioning).Count(&after).Error)
	require.Equal(t, before, after)
}

func TestInitializeDefaultTemplates(t *testing.T) {
	r, token := setupTemplateRouter(t)

	// Mangle one media type, then reinitialize.
	require.NoError(t, database.DB.Unscoped().
		Where("media_type = ?", models.MediaCaptioningIntro).
		Delete(&models.TaskTemplate{}).Error)

	w := doJSON(t, r, token, http.MethodPost, "/api/templates/initialize-defaults", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, database.DB.Model(&models.TaskTemplate{}).
		Where("media_type = ?", models.MediaCaptioningIntro).Count(&count).Error)
	require.Greater(t, count, int64(0))
}

func TestGetHoursEstimation_SingleSpeed(t *testing.T) {
	r, token := setupTemplateRouter(t)

	w := doJSON(t, r, token, http.MethodGet, "/api/templates/audio_description/hours-estimation?work_speed_type=B", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var est store.Estimation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &est))
	require.Equal(t, models.SpeedNormal, est.WorkSpeedType)
	require.Greater(t, est.TotalHours, 0.0)
	require.Greater(t, est.EstimatedDays, 0.0)
	require.Equal(t, estimationHoursPerDay, est.HoursPerDay)
}

func TestGetHoursEstimation_Comparison(t *testing.T) {
	r, token := setupTemplateRouter(t)

	w := doJSON(t, r, token, http.MethodGet, "/api/templates/audio_description/hours-estimation", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Estimations []store.Estimation `json:"estimations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Estimations, 3)
	// Fast <= normal <= relaxed over the same template set.
	require.LessOrEqual(t, resp.Estimations[0].TotalHours, resp.Estimations[1].TotalHours)
	require.LessOrEqual(t, resp.Estimations[1].TotalHours, resp.Estimations[2].TotalHours)
}

func TestGetHoursEstimation_BadSpeed(t *testing.T) {
	r, token := setupTemplateRouter(t)
	w := doJSON(t, r, token, http.MethodGet, "/api/templates/audio_description/hours-estimation?work_speed_type=D", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
