package store

import (
	"errors"
	"fmt"
	"time"

	"accessibility-admin-api/internal/cache"
	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/models"
	"accessibility-admin-api/internal/template"

	"gorm.io/gorm"
)

var (
	ErrUnknownMediaType = errors.New("unknown media type")
	ErrUnknownTaskID    = errors.New("task id does not exist for this media type")
	ErrDuplicateTaskID  = errors.New("task id appears more than once in the payload")
)

// ValidationError carries the field-level failures of a rejected bulk save.
// Nothing is applied when it is returned.
type ValidationError struct {
	Fields []template.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bulk save rejected: %d invalid fields", len(e.Fields))
}

// StageMap groups a media type's templates by stage, ordered by task order.
type StageMap map[models.Stage][]models.TaskTemplate

// MediaTypeInfo is one entry of the media type listing.
type MediaTypeInfo struct {
	MediaType models.MediaType `json:"media_type"`
	Name      string           `json:"media_type_name"`
}

// ListMediaTypes returns the nine media types with display names.
func ListMediaTypes() []MediaTypeInfo {
	out := make([]MediaTypeInfo, 0, len(models.AllMediaTypes()))
	for _, m := range models.AllMediaTypes() {
		out = append(out, MediaTypeInfo{MediaType: m, Name: m.Name()})
	}
	return out
}

// GetStages loads the full template set for one media type, grouped by stage
// and sorted by task order within each stage. All four stage keys are present
// even when empty so callers always see the full taxonomy.
func GetStages(mediaType models.MediaType) (StageMap, error) {
	if !mediaType.Valid() {
		return nil, ErrUnknownMediaType
	}
	var rows []models.TaskTemplate
	err := database.GetDB().
		Where("media_type = ?", mediaType).
		Order("stage asc, task_order asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	stages := make(StageMap, models.StageCount)
	for _, s := range models.AllStages() {
		stages[s] = []models.TaskTemplate{}
	}
	for _, r := range rows {
		stages[r.Stage] = append(stages[r.Stage], r)
	}
	return stages, nil
}

// TaskUpsert is one record of a bulk save. A nil ID means the row is new and
// the server assigns an identity; a set ID updates the existing row.
type TaskUpsert struct {
	ID        *uint        `json:"id"`
	Stage     models.Stage `json:"stage" binding:"required"`
	TaskOrder int          `json:"task_order" binding:"required"`
	Title     string       `json:"title" binding:"required"`

	HoursFast    float64 `json:"hours_fast"`
	HoursNormal  float64 `json:"hours_normal"`
	HoursRelaxed float64 `json:"hours_relaxed"`

	HasReview          bool    `json:"has_review"`
	ReviewHoursFast    float64 `json:"review_hours_fast"`
	ReviewHoursNormal  float64 `json:"review_hours_normal"`
	ReviewHoursRelaxed float64 `json:"review_hours_relaxed"`

	HasMonitoring       bool    `json:"has_monitoring"`
	MonitorHoursFast    float64 `json:"monitor_hours_fast"`
	MonitorHoursNormal  float64 `json:"monitor_hours_normal"`
	MonitorHoursRelaxed float64 `json:"monitor_hours_relaxed"`

	Required  bool   `json:"required"`
	Parallel  bool   `json:"parallel"`
	Active    bool   `json:"active"`
	Checklist string `json:"checklist,omitempty"`
}

func (u *TaskUpsert) toModel(mediaType models.MediaType) models.TaskTemplate {
	t := models.TaskTemplate{
		MediaType:           mediaType,
		Stage:               u.Stage,
		TaskOrder:           u.TaskOrder,
		Title:               u.Title,
		HoursFast:           u.HoursFast,
		HoursNormal:         u.HoursNormal,
		HoursRelaxed:        u.HoursRelaxed,
		HasReview:           u.HasReview,
		ReviewHoursFast:     u.ReviewHoursFast,
		ReviewHoursNormal:   u.ReviewHoursNormal,
		ReviewHoursRelaxed:  u.ReviewHoursRelaxed,
		HasMonitoring:       u.HasMonitoring,
		MonitorHoursFast:    u.MonitorHoursFast,
		MonitorHoursNormal:  u.MonitorHoursNormal,
		MonitorHoursRelaxed: u.MonitorHoursRelaxed,
		Required:            u.Required,
		Parallel:            u.Parallel,
		Active:              u.Active,
		Checklist:           u.Checklist,
	}
	if u.ID != nil {
		t.ID = *u.ID
	}
	return t
}

// BulkReplace atomically replaces the full template set of one media type:
// records with an ID update their row, records without one are inserted, and
// existing rows absent from the payload are deleted. The whole batch is
// re-validated first; any invalid field rejects the save with nothing applied.
func BulkReplace(mediaType models.MediaType, upserts []TaskUpsert) error {
	if !mediaType.Valid() {
		return ErrUnknownMediaType
	}

	stages := make(StageMap, models.StageCount)
	seen := make(map[uint]bool, len(upserts))
	for _, u := range upserts {
		if u.ID != nil {
			if seen[*u.ID] {
				return fmt.Errorf("%w: %d", ErrDuplicateTaskID, *u.ID)
			}
			seen[*u.ID] = true
		}
		stages[u.Stage] = append(stages[u.Stage], u.toModel(mediaType))
	}
	if errs := template.ValidateSet(stages); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var existing []models.TaskTemplate
		if err := tx.Where("media_type = ?", mediaType).Find(&existing).Error; err != nil {
			return err
		}
		existingIDs := make(map[uint]bool, len(existing))
		for _, t := range existing {
			existingIDs[t.ID] = true
		}

		kept := make(map[uint]bool, len(upserts))
		for _, u := range upserts {
			row := u.toModel(mediaType)
			if u.ID == nil {
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				continue
			}
			if !existingIDs[*u.ID] {
				return fmt.Errorf("%w: %d", ErrUnknownTaskID, *u.ID)
			}
			kept[*u.ID] = true
			if err := tx.Model(&models.TaskTemplate{}).
				Where("id = ?", *u.ID).
				Select("*").Omit("id", "created_at").
				Updates(&row).Error; err != nil {
				return err
			}
		}

		for id := range existingIDs {
			if !kept[id] {
				if err := tx.Unscoped().Delete(&models.TaskTemplate{}, id).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidateEstimations(mediaType)
	return nil
}

// InitializeDefaults wipes every template and reseeds the catalog defaults
// for all nine media types in one transaction.
func InitializeDefaults() error {
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.TaskTemplate{}).Error; err != nil {
			return err
		}
		for _, m := range models.AllMediaTypes() {
			rows := template.DefaultSet(m)
			for i := range rows {
				if err := tx.Create(&rows[i]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	estimations.Clear()
	return nil
}

// Estimation is the aggregate hours view for one media type and speed tier.
type Estimation struct {
	MediaType     models.MediaType         `json:"media_type"`
	WorkSpeedType models.WorkSpeed         `json:"work_speed_type"`
	StageHours    map[models.Stage]float64 `json:"stage_hours"`
	TotalHours    float64                  `json:"total_hours"`
	HoursPerDay   float64                  `json:"hours_per_day"`
	EstimatedDays float64                  `json:"estimated_days"`
}

const estimationTTL = time.Minute

var estimations = cache.New[string, Estimation]()

func estimationKey(mediaType models.MediaType, speed models.WorkSpeed) string {
	return string(mediaType) + "|" + string(speed)
}

func invalidateEstimations(mediaType models.MediaType) {
	for _, speed := range models.AllWorkSpeeds() {
		estimations.Delete(estimationKey(mediaType, speed))
	}
}

// EstimateHours aggregates active-task hours (review and monitoring included
// where enabled) per stage for one media type and speed tier. Results are
// cached briefly and invalidated on any template mutation.
func EstimateHours(mediaType models.MediaType, speed models.WorkSpeed, hoursPerDay float64) (Estimation, error) {
	if !mediaType.Valid() {
		return Estimation{}, ErrUnknownMediaType
	}
	if hoursPerDay <= 0 {
		hoursPerDay = 8
	}
	return estimations.GetOrSet(estimationKey(mediaType, speed), estimationTTL, func() (Estimation, error) {
		var rows []models.TaskTemplate
		err := database.GetDB().
			Where("media_type = ? AND active = ?", mediaType, true).
			Find(&rows).Error
		if err != nil {
			return Estimation{}, err
		}

		est := Estimation{
			MediaType:     mediaType,
			WorkSpeedType: speed,
			StageHours:    make(map[models.Stage]float64, models.StageCount),
			HoursPerDay:   hoursPerDay,
		}
		for _, s := range models.AllStages() {
			est.StageHours[s] = 0
		}
		for i := range rows {
			h := rows[i].TotalHours(speed)
			est.StageHours[rows[i].Stage] += h
			est.TotalHours += h
		}
		est.EstimatedDays = template.RoundHalf(est.TotalHours / hoursPerDay)
		return est, nil
	})
}
