package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/models"
	"accessibility-admin-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupLoginRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	r := gin.New()
	r.POST("/api/login", Login)
	return r
}

func postLogin(r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_BootstrapsFirstUser(t *testing.T) {
	r := setupLoginRouter(t)

	w := postLogin(r, "alice", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "alice", resp.Username)

	var user models.User
	require.NoError(t, database.DB.Where("username = ?", "alice").First(&user).Error)
	require.Equal(t, resp.UserID, user.ID)
	// Password is stored hashed, never verbatim.
	require.NotEqual(t, "s3cret", user.PasswordHash)
}

func TestLogin_KnownUserNeedsPassword(t *testing.T) {
	r := setupLoginRouter(t)

	require.Equal(t, http.StatusOK, postLogin(r, "alice", "s3cret").Code)
	require.Equal(t, http.StatusOK, postLogin(r, "alice", "s3cret").Code)
	require.Equal(t, http.StatusUnauthorized, postLogin(r, "alice", "wrong").Code)
}

func TestLogin_MissingFields(t *testing.T) {
	r := setupLoginRouter(t)
	require.Equal(t, http.StatusBadRequest, postLogin(r, "alice", "").Code)
}
