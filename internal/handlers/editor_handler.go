package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"accessibility-admin-api/internal/cache"
	"accessibility-admin-api/internal/editor"
	"accessibility-admin-api/internal/models"
	"accessibility-admin-api/internal/realtime"
	"accessibility-admin-api/internal/store"
	"accessibility-admin-api/internal/template"

	"github.com/gin-gonic/gin"
)

// Editor sessions expire after an idle TTL. Expiry behaves like closing the
// tab: unsaved edits are gone.
var (
	sessions        = cache.New[string, *editor.Session]()
	sessionTTL      = 30 * time.Minute
	sessionDebounce = editor.DefaultDebounce
)

// ConfigureEditor sets session lifetime and field-commit debounce.
func ConfigureEditor(ttl, debounce time.Duration) {
	if ttl > 0 {
		sessionTTL = ttl
	}
	if debounce > 0 {
		sessionDebounce = debounce
	}
}

func getSession(c *gin.Context) (*editor.Session, bool) {
	s, ok := sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Editor session not found or expired"})
		return nil, false
	}
	// Touch: idle TTL restarts on every access.
	sessions.Set(s.ID, s, sessionTTL)
	return s, true
}

// editorError maps session errors onto HTTP responses.
func editorError(c *gin.Context, err error) {
	var vErr *store.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed; nothing was saved",
			"fields": vErr.Fields,
		})
	case errors.Is(err, editor.ErrSaveInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, editor.ErrConfirmationRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deletion must be confirmed"})
	case errors.Is(err, template.ErrLastTask):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete: the stage would be left empty"})
	case errors.Is(err, template.ErrIndexOutOfRange),
		errors.Is(err, editor.ErrUnknownStage),
		errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrUnknownMediaType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Editor operation failed"})
	}
}

// OpenSessionRequest selects the media type to edit.
type OpenSessionRequest struct {
	MediaType models.MediaType `json:"media_type" binding:"required"`
}

// OpenEditorSession handles POST /api/editor/sessions
func OpenEditorSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := editor.NewSession(c.Request.Context(), editor.StoreBackend{}, req.MediaType, sessionDebounce)
	if err != nil {
		editorError(c, err)
		return
	}
	sessions.Set(s.ID, s, sessionTTL)
	c.JSON(http.StatusCreated, s.Snapshot())
}

// GetEditorSession handles GET /api/editor/sessions/:id
func GetEditorSession(c *gin.Context) {
	s, ok := getSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SetFieldRequest carries one raw field edit.
type SetFieldRequest struct {
	Stage     models.Stage `json:"stage" binding:"required"`
	TaskIndex *int         `json:"task_index" binding:"required"`
	Field     string       `json:"field" binding:"required"`
	Value     string       `json:"value"`
}

// SetEditorField handles PUT /api/editor/sessions/:id/field
// The raw value is committed to the draft after the debounce interval.
func SetEditorField(c *gin.Context) {
	s, ok := getSession(c)
	if !ok {
		return
	}
	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.SetField(req.Stage, *req.TaskIndex, req.Field, req.Value); err != nil {
		editorError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Edit buffered"})
}

// AddTaskRequest names the stage to append to.
type AddTaskRequest struct {
	Stage models.Stage `json:"stage" binding:"required"`
}

// AddEditorTask handles POST /api/editor/sessions/:id/tasks
func AddEditorTask(c *gin.Context) {
	s, ok := getSession(c)
	if !ok {
		return
	}
	var req AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.AddTask(req.Stage)
	if err != nil {
		editorError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// DeleteEditorTask handles DELETE /api/editor/sessions/:id/tasks
// Query params: stage, index, confirm=true (the blocking yes/no prompt).
func DeleteEditorTask(c *gin.Context) {
	s, ok := getSession(c)
	if !ok {
		return
	}
	stage, err := strconv.Atoi(c.Query("stage"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stage is required"})
		return
	}
	index, err := strconv.Atoi(c.Query("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})
		return
	}
	confirmed := c.Query("confirm") == "true"

	if err := s.DeleteTask(models.Stage(stage), index, confirmed); err != nil {
		editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// ReorderRequest maps a drag gesture to list indexes within one stage.
type ReorderRequest struct {
	Stage models.Stage `json:"stage" binding:"required"`
	From  *int         `json:"from" binding:"required"`
	To    *int         `json:"to" binding:"required"`
}

// ReorderEditorTasks handles POST /api/editor/sessions/:id/reorder
func ReorderEditorTasks(c *gin.Context) {
	s, ok := getSession(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Reorder(req.Stage, *req.From, *req.To); err != nil {
		editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SwitchMediaTypeRequest selects the new active media type.
type SwitchMediaTypeRequest struct {
	MediaType models.MediaType `json:"media_type" binding:"required"`
}

// SwitchEditorMediaType handles POST /api/editor/sessions/:id/media-type
// Unsaved edits for the previous media type are discarded, never merged.
func SwitchEditorMediaType(c *gin.Context) {
	s, ok := getSession(c)
	if !ok {
		return
	}
	var req SwitchMediaTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.SwitchMediaType(c.Request.Context(), req.MediaType); err != nil {
		editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SaveEditorSession handles POST /api/editor/sessions/:id/save
// Flattens the draft into one bulk replace for the active media type. On
// failure the draft is kept so the user can retry.
func SaveEditorSession(c *gin.Context) {
	s, ok := getSession(c)
	if !ok {
		return
	}
	if err := s.Save(c.Request.Context()); err != nil {
		editorError(c, err)
		return
	}

	realtime.GetHub().Notify(realtime.ChannelTemplates, map[string]any{
		"type":       "template_saved",
		"media_type": s.MediaType(),
		"user_id":    c.GetString("user_id"),
	})
	c.JSON(http.StatusOK, s.Snapshot())
}

// CloseEditorSession handles DELETE /api/editor/sessions/:id
func CloseEditorSession(c *gin.Context) {
	s, ok := sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Editor session not found or expired"})
		return
	}
	s.Close()
	sessions.Delete(s.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}
