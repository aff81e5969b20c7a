package template

import (
	"accessibility-admin-api/internal/models"
)

// NewTask returns a template with the defaults applied to a freshly added
// row: 1.0 hours on every speed tier and every flag off. The row only starts
// counting toward estimations once the user activates it.
func NewTask(mediaType models.MediaType, stage models.Stage, order int) models.TaskTemplate {
	return models.TaskTemplate{
		MediaType:    mediaType,
		Stage:        stage,
		TaskOrder:    order,
		HoursFast:    1.0,
		HoursNormal:  1.0,
		HoursRelaxed: 1.0,
	}
}

// seed describes one default task row in compact form.
type seed struct {
	stage  models.Stage
	title  string
	fast   float64
	normal float64
	slow   float64
	review bool
}

// defaultSeeds returns the seed rows for a media type's asset family.
func defaultSeeds(mediaType models.MediaType) []seed {
	switch mediaType {
	case models.MediaAudioDescription, models.MediaAudioDescriptionIntro, models.MediaAudioDescriptionRev:
		return []seed{
			{models.StagePreparation, "Source material intake", 1, 1.5, 2, false},
			{models.StagePreparation, "Scene breakdown", 2, 3, 4, false},
			{models.StageScripting, "Description script draft", 4, 6, 8, true},
			{models.StageScripting, "Script timing check", 1, 1.5, 2, false},
			{models.StageRecording, "Narration recording", 2, 3, 4, true},
			{models.StageRecording, "Audio mixing", 2, 2.5, 3.5, false},
			{models.StageDelivery, "Final quality pass", 1, 1.5, 2, true},
			{models.StageDelivery, "Package and deliver", 0.5, 1, 1.5, false},
		}
	case models.MediaCaptioning, models.MediaCaptioningIntro, models.MediaCaptioningRev:
		return []seed{
			{models.StagePreparation, "Source material intake", 0.5, 1, 1.5, false},
			{models.StagePreparation, "Dialogue extraction", 1.5, 2, 3, false},
			{models.StageScripting, "Caption drafting", 3, 4.5, 6, true},
			{models.StageScripting, "Reading-speed check", 1, 1.5, 2, false},
			{models.StageRecording, "Caption timing", 2, 3, 4, false},
			{models.StageDelivery, "Final quality pass", 1, 1.5, 2, true},
			{models.StageDelivery, "Package and deliver", 0.5, 1, 1.5, false},
		}
	case models.MediaSignLanguage, models.MediaSignLanguageIntro, models.MediaSignLanguageRev:
		return []seed{
			{models.StagePreparation, "Source material intake", 1, 1.5, 2, false},
			{models.StagePreparation, "Interpreter briefing", 1, 2, 3, false},
			{models.StageScripting, "Interpretation plan", 2, 3, 4, true},
			{models.StageRecording, "Studio interpretation recording", 3, 4, 6, true},
			{models.StageRecording, "Video compositing", 2, 3, 4, false},
			{models.StageDelivery, "Final quality pass", 1, 1.5, 2, true},
			{models.StageDelivery, "Package and deliver", 0.5, 1, 1.5, false},
		}
	}
	return nil
}

// DefaultSet builds the default template rows for a media type with
// contiguous task orders per stage.
func DefaultSet(mediaType models.MediaType) []models.TaskTemplate {
	orders := make(map[models.Stage]int)
	var out []models.TaskTemplate
	for _, s := range defaultSeeds(mediaType) {
		orders[s.stage]++
		t := models.TaskTemplate{
			MediaType:    mediaType,
			Stage:        s.stage,
			TaskOrder:    orders[s.stage],
			Title:        s.title,
			HoursFast:    s.fast,
			HoursNormal:  s.normal,
			HoursRelaxed: s.slow,
			Required:     true,
			Active:       true,
		}
		if s.review {
			t.HasReview = true
			t.ReviewHoursFast = 0.5
			t.ReviewHoursNormal = 1
			t.ReviewHoursRelaxed = 1.5
		}
		out = append(out, t)
	}
	return out
}
