package models

import (
	"gorm.io/gorm"
)

// MediaType identifies one of the nine accessibility-asset categories:
// three asset families, each with a base, introduction and review variant.
type MediaType string

const (
	MediaAudioDescription      MediaType = "audio_description"
	MediaAudioDescriptionIntro MediaType = "audio_description_intro"
	MediaAudioDescriptionRev   MediaType = "audio_description_review"
	MediaCaptioning            MediaType = "captioning"
	MediaCaptioningIntro       MediaType = "captioning_intro"
	MediaCaptioningRev         MediaType = "captioning_review"
	MediaSignLanguage          MediaType = "sign_language"
	MediaSignLanguageIntro     MediaType = "sign_language_intro"
	MediaSignLanguageRev       MediaType = "sign_language_review"
)

// AllMediaTypes lists every media type in display order.
func AllMediaTypes() []MediaType {
	return []MediaType{
		MediaAudioDescription,
		MediaAudioDescriptionIntro,
		MediaAudioDescriptionRev,
		MediaCaptioning,
		MediaCaptioningIntro,
		MediaCaptioningRev,
		MediaSignLanguage,
		MediaSignLanguageIntro,
		MediaSignLanguageRev,
	}
}

// Name returns the human-readable label. The switch is exhaustive so a new
// media type cannot ship without a label.
func (m MediaType) Name() string {
	switch m {
	case MediaAudioDescription:
		return "Audio Description"
	case MediaAudioDescriptionIntro:
		return "Audio Description (Introduction)"
	case MediaAudioDescriptionRev:
		return "Audio Description (Review)"
	case MediaCaptioning:
		return "Captioning"
	case MediaCaptioningIntro:
		return "Captioning (Introduction)"
	case MediaCaptioningRev:
		return "Captioning (Review)"
	case MediaSignLanguage:
		return "Sign Language Interpretation"
	case MediaSignLanguageIntro:
		return "Sign Language (Introduction)"
	case MediaSignLanguageRev:
		return "Sign Language (Review)"
	}
	return string(m)
}

// Valid reports whether m is one of the nine known media types.
func (m MediaType) Valid() bool {
	switch m {
	case MediaAudioDescription, MediaAudioDescriptionIntro, MediaAudioDescriptionRev,
		MediaCaptioning, MediaCaptioningIntro, MediaCaptioningRev,
		MediaSignLanguage, MediaSignLanguageIntro, MediaSignLanguageRev:
		return true
	}
	return false
}

// Stage is one of the four fixed production phases.
type Stage int

const (
	StagePreparation Stage = 1
	StageScripting   Stage = 2
	StageRecording   Stage = 3
	StageDelivery    Stage = 4

	StageCount = 4
)

// Name returns the stage label.
func (s Stage) Name() string {
	switch s {
	case StagePreparation:
		return "Preparation"
	case StageScripting:
		return "Scripting"
	case StageRecording:
		return "Recording/Editing"
	case StageDelivery:
		return "Delivery"
	}
	return "Unknown"
}

// Valid reports whether s is within the fixed 1..4 taxonomy.
func (s Stage) Valid() bool {
	return s >= StagePreparation && s <= StageDelivery
}

// AllStages lists the four stages in production order.
func AllStages() []Stage {
	return []Stage{StagePreparation, StageScripting, StageRecording, StageDelivery}
}

// WorkSpeed is one of the three estimation scenarios.
type WorkSpeed string

const (
	SpeedFast    WorkSpeed = "A" // fast
	SpeedNormal  WorkSpeed = "B" // normal
	SpeedRelaxed WorkSpeed = "C" // relaxed
)

// Valid reports whether w is a known work speed tier.
func (w WorkSpeed) Valid() bool {
	return w == SpeedFast || w == SpeedNormal || w == SpeedRelaxed
}

// AllWorkSpeeds lists the three tiers.
func AllWorkSpeeds() []WorkSpeed {
	return []WorkSpeed{SpeedFast, SpeedNormal, SpeedRelaxed}
}

// TaskTemplate represents one row of work within a production stage.
type TaskTemplate struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	MediaType MediaType `json:"media_type" gorm:"column:media_type;not null;index:idx_media_stage"`
	Stage     Stage     `json:"stage" gorm:"not null;index:idx_media_stage"`
	TaskOrder int       `json:"task_order" gorm:"column:task_order;not null"`
	Title     string    `json:"title" gorm:"not null"`

	// Hour estimates per work speed tier, bounded to [0, 200].
	HoursFast    float64 `json:"hours_fast" gorm:"column:hours_fast"`
	HoursNormal  float64 `json:"hours_normal" gorm:"column:hours_normal"`
	HoursRelaxed float64 `json:"hours_relaxed" gorm:"column:hours_relaxed"`

	// Optional review sub-task, hours bounded to [0, 50].
	HasReview          bool    `json:"has_review" gorm:"column:has_review"`
	ReviewHoursFast    float64 `json:"review_hours_fast" gorm:"column:review_hours_fast"`
	ReviewHoursNormal  float64 `json:"review_hours_normal" gorm:"column:review_hours_normal"`
	ReviewHoursRelaxed float64 `json:"review_hours_relaxed" gorm:"column:review_hours_relaxed"`

	// Optional monitoring sub-task, same shape as review.
	HasMonitoring       bool    `json:"has_monitoring" gorm:"column:has_monitoring"`
	MonitorHoursFast    float64 `json:"monitor_hours_fast" gorm:"column:monitor_hours_fast"`
	MonitorHoursNormal  float64 `json:"monitor_hours_normal" gorm:"column:monitor_hours_normal"`
	MonitorHoursRelaxed float64 `json:"monitor_hours_relaxed" gorm:"column:monitor_hours_relaxed"`

	Required bool `json:"required"`
	Parallel bool `json:"parallel"`
	Active   bool `json:"active"`

	// Checklist is an opaque structured payload; this layer never inspects it.
	Checklist string `json:"checklist,omitempty" gorm:"type:text"`

	gorm.Model
}

// TableName specifies the table name for TaskTemplate Model
func (TaskTemplate) TableName() string {
	return "task_templates"
}

// Hours returns the base hour estimate for the given speed tier.
func (t *TaskTemplate) Hours(speed WorkSpeed) float64 {
	switch speed {
	case SpeedFast:
		return t.HoursFast
	case SpeedRelaxed:
		return t.HoursRelaxed
	}
	return t.HoursNormal
}

// ReviewHours returns the review estimate for the tier, 0 when disabled.
func (t *TaskTemplate) ReviewHours(speed WorkSpeed) float64 {
	if !t.HasReview {
		return 0
	}
	switch speed {
	case SpeedFast:
		return t.ReviewHoursFast
	case SpeedRelaxed:
		return t.ReviewHoursRelaxed
	}
	return t.ReviewHoursNormal
}

// MonitorHours returns the monitoring estimate for the tier, 0 when disabled.
func (t *TaskTemplate) MonitorHours(speed WorkSpeed) float64 {
	if !t.HasMonitoring {
		return 0
	}
	switch speed {
	case SpeedFast:
		return t.MonitorHoursFast
	case SpeedRelaxed:
		return t.MonitorHoursRelaxed
	}
	return t.MonitorHoursNormal
}

// TotalHours is the full effort of the task at a tier, sub-tasks included.
func (t *TaskTemplate) TotalHours(speed WorkSpeed) float64 {
	return t.Hours(speed) + t.ReviewHours(speed) + t.MonitorHours(speed)
}
