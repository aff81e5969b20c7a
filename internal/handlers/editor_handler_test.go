package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"accessibility-admin-api/internal/auth"
	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/editor"
	"accessibility-admin-api/internal/middleware"
	"accessibility-admin-api/internal/models"
	"accessibility-admin-api/internal/store"
	"accessibility-admin-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupEditorRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, store.InitializeDefaults())
	sessions.Clear()
	ConfigureEditor(time.Minute, time.Millisecond)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	api.POST("/editor/sessions", OpenEditorSession)
	api.GET("/editor/sessions/:id", GetEditorSession)
	api.PUT("/editor/sessions/:id/field", SetEditorField)
	api.POST("/editor/sessions/:id/tasks", AddEditorTask)
	api.DELETE("/editor/sessions/:id/tasks", DeleteEditorTask)
	api.POST("/editor/sessions/:id/reorder", ReorderEditorTasks)
	api.POST("/editor/sessions/:id/media-type", SwitchEditorMediaType)
	api.POST("/editor/sessions/:id/save", SaveEditorSession)
	api.DELETE("/editor/sessions/:id", CloseEditorSession)

	token, err := auth.GenerateToken("admin-1", "alice")
	require.NoError(t, err)
	return r, token
}

func openSession(t *testing.T, r *gin.Engine, token string, mediaType models.MediaType) editor.View {
	t.Helper()
	w := doJSON(t, r, token, http.MethodPost, "/api/editor/sessions", map[string]any{"media_type": mediaType})
	require.Equal(t, http.StatusCreated, w.Code)
	var view editor.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotEmpty(t, view.ID)
	return view
}

func TestEditorSession_OpenAndFetch(t *testing.T) {
	r, token := setupEditorRouter(t)
	view := openSession(t, r, token, models.MediaCaptioning)
	require.Equal(t, models.MediaCaptioning, view.MediaType)
	require.False(t, view.Dirty)
	require.Len(t, view.Stages, 4)

	w := doJSON(t, r, token, http.MethodGet, "/api/editor/sessions/"+view.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestEditorSession_UnknownID(t *testing.T) {
	r, token := setupEditorRouter(t)
	w := doJSON(t, r, token, http.MethodGet, "/api/editor/sessions/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditorSession_EditAndSave(t *testing.T) {
	r, token := setupEditorRouter(t)
	view := openSession(t, r, token, models.MediaCaptioning)

	w := doJSON(t, r, token, http.MethodPut, "/api/editor/sessions/"+view.ID+"/field", map[string]any{
		"stage": 1, "task_index": 0, "field": "hours_normal", "value": "3.3",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(t, r, token, http.MethodPost, "/api/editor/sessions/"+view.ID+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var saved editor.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.False(t, saved.Dirty)
	// 3.3 rounds to the nearest half hour.
	require.Equal(t, 3.5, saved.Stages[models.StagePreparation][0].HoursNormal)

	var row models.TaskTemplate
	require.NoError(t, database.DB.
		Where("media_type = ? AND stage = ? AND task_order = ?", models.MediaCaptioning, models.StagePreparation, 1).
		First(&row).Error)
	require.Equal(t, 3.5, row.HoursNormal)
}

func TestEditorSession_AddReorderDelete(t *testing.T) {
	r, token := setupEditorRouter(t)
	view := openSession(t, r, token, models.MediaAudioDescription)
	base := len(view.Stages[models.StageDelivery])

	w := doJSON(t, r, token, http.MethodPost, "/api/editor/sessions/"+view.ID+"/tasks", map[string]any{"stage": 4})
	require.Equal(t, http.StatusCreated, w.Code)
	var added editor.DraftTask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	require.NotEmpty(t, added.TempID)
	require.Equal(t, base+1, added.TaskOrder)

	w = doJSON(t, r, token, http.MethodPost, "/api/editor/sessions/"+view.ID+"/reorder", map[string]any{
		"stage": 4, "from": base, "to": 0,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var after editor.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	require.Equal(t, added.TempID, after.Stages[models.StageDelivery][0].TempID)
	for i, task := range after.Stages[models.StageDelivery] {
		require.Equal(t, i+1, task.TaskOrder)
	}

	// Deleting without confirmation is refused.
	path := fmt.Sprintf("/api/editor/sessions/%s/tasks?stage=4&index=0", view.ID)
	w = doJSON(t, r, token, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, token, http.MethodDelete, path+"&confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestEditorSession_SwitchDiscardsEdits(t *testing.T) {
	r, token := setupEditorRouter(t)
	view := openSession(t, r, token, models.MediaCaptioning)

	w := doJSON(t, r, token, http.MethodPut, "/api/editor/sessions/"+view.ID+"/field", map[string]any{
		"stage": 1, "task_index": 0, "field": "title", "value": "Scratch edit",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(t, r, token, http.MethodPost, "/api/editor/sessions/"+view.ID+"/media-type", map[string]any{
		"media_type": models.MediaSignLanguage,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var switched editor.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &switched))
	require.Equal(t, models.MediaSignLanguage, switched.MediaType)
	require.False(t, switched.Dirty)

	// The abandoned edit never reached the stored templates.
	var row models.TaskTemplate
	require.NoError(t, database.DB.
		Where("media_type = ? AND stage = ? AND task_order = ?", models.MediaCaptioning, models.StagePreparation, 1).
		First(&row).Error)
	require.NotEqual(t, "Scratch edit", row.Title)
}

func TestEditorSession_Close(t *testing.T) {
	r, token := setupEditorRouter(t)
	view := openSession(t, r, token, models.MediaCaptioning)

	w := doJSON(t, r, token, http.MethodDelete, "/api/editor/sessions/"+view.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, token, http.MethodGet, "/api/editor/sessions/"+view.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
