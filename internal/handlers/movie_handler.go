package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/models"
	"accessibility-admin-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateMovieRequest represents the request payload for creating a movie
type CreateMovieRequest struct {
	Title         string             `json:"title" binding:"required"`
	Status        models.MovieStatus `json:"status"`
	DistributorID string             `json:"distributor_id"`
	ReleaseDate   string             `json:"release_date"`
	RuntimeMin    int                `json:"runtime_min"`
	Notes         string             `json:"notes"`
}

// UpdateMovieRequest represents the request payload for updating a movie
type UpdateMovieRequest struct {
	Title         *string             `json:"title"`
	Status        *models.MovieStatus `json:"status"`
	DistributorID *string             `json:"distributor_id"`
	ReleaseDate   *string             `json:"release_date"`
	RuntimeMin    *int                `json:"runtime_min"`
	Notes         *string             `json:"notes"`
}

func validMovieStatus(s models.MovieStatus) bool {
	return s == models.MoviePlanned || s == models.MovieInProgress || s == models.MovieDelivered
}

// checkDistributor verifies a non-empty distributor id references a stored
// distributor. Returns false after writing the error response.
func checkDistributor(c *gin.Context, id string) bool {
	if strings.TrimSpace(id) == "" {
		return true
	}
	var d models.Distributor
	if err := database.GetDB().Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid distributor_id: distributor not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate distributor_id"})
		}
		return false
	}
	return true
}

// GetMovies handles GET /api/movies
// Query params: page (default 1), limit (default 20), sort (asc|desc on
// created_at, default desc), status and distributor_id filters.
func GetMovies(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "20")
	sortParam := strings.ToLower(c.DefaultQuery("sort", "desc"))

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	order := "created_at desc"
	if sortParam == "asc" {
		order = "created_at asc"
	}

	db := database.GetDB()
	query := db.Model(&models.Movie{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if distID := c.Query("distributor_id"); distID != "" {
		query = query.Where("distributor_id = ?", distID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count movies"})
		return
	}

	var movies []models.Movie
	result := query.Session(&gorm.Session{}).Order(order).Limit(limit).Offset(offset).Find(&movies)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movies": movies,
		"count":  len(movies),
		"total":  total,
		"page":   page,
		"limit":  limit,
		"sort":   sortParam,
	})
}

// GetMovieByID handles GET /api/movies/:id
func GetMovieByID(c *gin.Context) {
	movieID := c.Param("id")

	var movie models.Movie
	result := database.GetDB().Where("id = ?", movieID).First(&movie)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movie"})
		}
		return
	}
	c.JSON(http.StatusOK, movie)
}

// CreateMovie handles POST /api/movies
func CreateMovie(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.MoviePlanned
	}
	if !validMovieStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if !checkDistributor(c, req.DistributorID) {
		return
	}

	movie := models.Movie{
		ID:            "movie-" + uuid.NewString(),
		Title:         req.Title,
		Status:        status,
		DistributorID: strings.TrimSpace(req.DistributorID),
		ReleaseDate:   req.ReleaseDate,
		RuntimeMin:    req.RuntimeMin,
		Notes:         req.Notes,
	}
	if err := database.GetDB().Create(&movie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create movie"})
		return
	}

	realtime.GetHub().Notify(realtime.ChannelMovies, map[string]any{
		"type":     "movie_created",
		"movie_id": movie.ID,
		"user_id":  c.GetString("user_id"),
	})

	c.JSON(http.StatusCreated, movie)
}

// UpdateMovie handles PUT /api/movies/:id
func UpdateMovie(c *gin.Context) {
	movieID := c.Param("id")

	var existing models.Movie
	result := database.GetDB().Where("id = ?", movieID).First(&existing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movie"})
		}
		return
	}

	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Status != nil {
		if !validMovieStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		existing.Status = *req.Status
	}
	if req.DistributorID != nil {
		if !checkDistributor(c, *req.DistributorID) {
			return
		}
		existing.DistributorID = strings.TrimSpace(*req.DistributorID)
	}
	if req.ReleaseDate != nil {
		existing.ReleaseDate = *req.ReleaseDate
	}
	if req.RuntimeMin != nil {
		existing.RuntimeMin = *req.RuntimeMin
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}

	if err := database.GetDB().Save(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update movie"})
		return
	}

	realtime.GetHub().Notify(realtime.ChannelMovies, map[string]any{
		"type":     "movie_updated",
		"movie_id": existing.ID,
		"user_id":  c.GetString("user_id"),
	})

	c.JSON(http.StatusOK, existing)
}

// DeleteMovie handles DELETE /api/movies/:id
func DeleteMovie(c *gin.Context) {
	movieID := c.Param("id")

	var movie models.Movie
	result := database.GetDB().Where("id = ?", movieID).First(&movie)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movie"})
		}
		return
	}

	if err := database.GetDB().Delete(&movie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete movie"})
		return
	}

	realtime.GetHub().Notify(realtime.ChannelMovies, map[string]any{
		"type":     "movie_deleted",
		"movie_id": movieID,
		"user_id":  c.GetString("user_id"),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Movie deleted successfully",
		"id":      movieID,
	})
}

// GetDistributors handles GET /api/distributors
func GetDistributors(c *gin.Context) {
	var distributors []models.Distributor
	if err := database.GetDB().Order("name asc").Find(&distributors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch distributors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"distributors": distributors,
		"count":        len(distributors),
	})
}

// CreateDistributorRequest represents the request payload for creating a distributor
type CreateDistributorRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contact_email"`
}

// CreateDistributor handles POST /api/distributors
func CreateDistributor(c *gin.Context) {
	var req CreateDistributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := models.Distributor{
		ID:           "dist-" + uuid.NewString(),
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	}
	if err := database.GetDB().Create(&d).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create distributor"})
		return
	}
	c.JSON(http.StatusCreated, d)
}
