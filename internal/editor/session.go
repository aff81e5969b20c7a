package editor

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"accessibility-admin-api/internal/models"
	"accessibility-admin-api/internal/store"
	"accessibility-admin-api/internal/template"

	"github.com/google/uuid"
)

var (
	ErrSaveInFlight         = errors.New("a save is in flight; edits are disabled until it completes")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrUnknownField         = errors.New("unknown field name")
	ErrUnknownStage         = errors.New("unknown stage")
	ErrUnknownMediaType     = errors.New("unknown media type")
)

// DefaultDebounce is the quiet interval before raw field input is committed
// to the draft.
const DefaultDebounce = 250 * time.Millisecond

// Backend is the persistence boundary a session talks to. The production
// implementation is the template store; tests substitute failures.
type Backend interface {
	FetchStages(ctx context.Context, mediaType models.MediaType) (store.StageMap, error)
	SaveBulk(ctx context.Context, mediaType models.MediaType, upserts []store.TaskUpsert) error
}

// StoreBackend adapts the template store to the Backend interface.
type StoreBackend struct{}

func (StoreBackend) FetchStages(_ context.Context, m models.MediaType) (store.StageMap, error) {
	return store.GetStages(m)
}

func (StoreBackend) SaveBulk(_ context.Context, m models.MediaType, upserts []store.TaskUpsert) error {
	return store.BulkReplace(m, upserts)
}

// DraftTask is one template row in a session draft. Unsaved rows carry a
// client-only TempID and a zero server ID; the two identities never mix.
type DraftTask struct {
	TempID string `json:"temp_id,omitempty"`
	models.TaskTemplate
}

// Unsaved reports whether the row has never been persisted.
func (d *DraftTask) Unsaved() bool {
	return d.TempID != ""
}

// fieldKey locates one editable field inside the draft.
type fieldKey struct {
	Stage models.Stage
	Index int
	Field string
}

// Session holds the unsaved template draft for exactly one media type.
// All edits are local until Save; switching media type discards them.
type Session struct {
	ID string

	backend Backend

	mu         sync.Mutex
	mediaType  models.MediaType
	stages     map[models.Stage][]DraftTask
	dirty      bool
	saving     bool
	pending    map[fieldKey]string
	fieldErrs  map[fieldKey]template.FieldError
	debounce   *Debouncer
	loadCancel context.CancelFunc
	loadGen    int
}

// NewSession opens a session for mediaType, populated from the backend.
func NewSession(ctx context.Context, backend Backend, mediaType models.MediaType, debounce time.Duration) (*Session, error) {
	if !mediaType.Valid() {
		return nil, ErrUnknownMediaType
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	s := &Session{
		ID:        uuid.NewString(),
		backend:   backend,
		mediaType: mediaType,
		stages:    emptyStages(),
		pending:   make(map[fieldKey]string),
		fieldErrs: make(map[fieldKey]template.FieldError),
	}
	s.debounce = NewDebouncer(debounce, s.commitPending)

	s.mu.Lock()
	err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func emptyStages() map[models.Stage][]DraftTask {
	m := make(map[models.Stage][]DraftTask, models.StageCount)
	for _, st := range models.AllStages() {
		m[st] = nil
	}
	return m
}

// load fetches the authoritative template set and installs it, discarding
// any draft. Must be called with s.mu held; the lock is released around the
// backend call. A load superseded by a newer one is silently discarded.
func (s *Session) load(ctx context.Context) error {
	if s.loadCancel != nil {
		s.loadCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.loadCancel = cancel
	s.loadGen++
	gen := s.loadGen
	mediaType := s.mediaType

	s.mu.Unlock()
	fetched, err := s.backend.FetchStages(ctx, mediaType)
	s.mu.Lock()

	if gen != s.loadGen {
		// A newer load (media type switch) superseded this one.
		return nil
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	stages := emptyStages()
	for st, tasks := range fetched {
		drafts := make([]DraftTask, 0, len(tasks))
		for _, t := range tasks {
			drafts = append(drafts, DraftTask{TaskTemplate: t})
		}
		stages[st] = drafts
	}
	s.stages = stages
	s.dirty = false
	s.pending = make(map[fieldKey]string)
	s.fieldErrs = make(map[fieldKey]template.FieldError)
	return nil
}

// MediaType returns the active media type.
func (s *Session) MediaType() models.MediaType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mediaType
}

// Dirty reports whether the draft has unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// SwitchMediaType discards the draft (unsaved edits are lost, matching the
// panel's tab-switch behavior) and reloads for the new media type. Any
// in-flight load for the previous type is cancelled.
func (s *Session) SwitchMediaType(ctx context.Context, mediaType models.MediaType) error {
	if !mediaType.Valid() {
		return ErrUnknownMediaType
	}
	s.debounce.Cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInFlight
	}
	s.mediaType = mediaType
	s.pending = make(map[fieldKey]string)
	s.fieldErrs = make(map[fieldKey]template.FieldError)
	return s.load(ctx)
}

// SetField records raw input for one field. The value is held transiently
// and committed to the draft after the debounce interval; invalid input is
// rejected at commit and surfaces in Errors without entering the draft.
func (s *Session) SetField(stage models.Stage, idx int, field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInFlight
	}
	if _, ok := s.stages[stage]; !ok {
		return ErrUnknownStage
	}
	if idx < 0 || idx >= len(s.stages[stage]) {
		return template.ErrIndexOutOfRange
	}
	if !knownField(field) {
		return ErrUnknownField
	}
	s.pending[fieldKey{stage, idx, field}] = raw
	s.dirty = true
	s.debounce.Trigger()
	return nil
}

// commitPending is the debouncer callback.
func (s *Session) commitPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitPendingLocked()
}

// commitPendingLocked applies buffered raw input to the draft. Invalid
// values are recorded as field errors and not applied.
func (s *Session) commitPendingLocked() {
	for key, raw := range s.pending {
		tasks := s.stages[key.Stage]
		if key.Index >= len(tasks) {
			continue
		}
		if err := applyField(&tasks[key.Index], key.Field, raw); err != nil {
			s.fieldErrs[key] = template.FieldError{
				Stage:     key.Stage,
				TaskIndex: key.Index,
				Field:     key.Field,
				Message:   err.Error(),
			}
		} else {
			delete(s.fieldErrs, key)
		}
	}
	s.pending = make(map[fieldKey]string)
}

// flushLocked synchronously commits buffered input before a structural
// operation so indexes stay meaningful.
func (s *Session) flushLocked() {
	s.debounce.Cancel()
	s.commitPendingLocked()
}

func knownField(field string) bool {
	switch field {
	case "title", "checklist",
		"hours_fast", "hours_normal", "hours_relaxed",
		"has_review", "review_hours_fast", "review_hours_normal", "review_hours_relaxed",
		"has_monitoring", "monitor_hours_fast", "monitor_hours_normal", "monitor_hours_relaxed",
		"required", "parallel", "active":
		return true
	}
	return false
}

func applyField(t *DraftTask, field, raw string) error {
	setHours := func(dst *float64, bound float64) error {
		v, err := template.ParseHours(raw, bound)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	setBool := func(dst *bool) error {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.New("value must be true or false")
		}
		*dst = v
		return nil
	}

	switch field {
	case "title":
		if strings.TrimSpace(raw) == "" {
			return errors.New("title is required")
		}
		t.Title = strings.TrimSpace(raw)
		return nil
	case "checklist":
		// Opaque structured payload; stored as-is.
		t.Checklist = raw
		return nil
	case "hours_fast":
		return setHours(&t.HoursFast, template.MaxTaskHours)
	case "hours_normal":
		return setHours(&t.HoursNormal, template.MaxTaskHours)
	case "hours_relaxed":
		return setHours(&t.HoursRelaxed, template.MaxTaskHours)
	case "review_hours_fast":
		return setHours(&t.ReviewHoursFast, template.MaxSubTaskHours)
	case "review_hours_normal":
		return setHours(&t.ReviewHoursNormal, template.MaxSubTaskHours)
	case "review_hours_relaxed":
		return setHours(&t.ReviewHoursRelaxed, template.MaxSubTaskHours)
	case "monitor_hours_fast":
		return setHours(&t.MonitorHoursFast, template.MaxSubTaskHours)
	case "monitor_hours_normal":
		return setHours(&t.MonitorHoursNormal, template.MaxSubTaskHours)
	case "monitor_hours_relaxed":
		return setHours(&t.MonitorHoursRelaxed, template.MaxSubTaskHours)
	case "has_review":
		return setBool(&t.HasReview)
	case "has_monitoring":
		return setBool(&t.HasMonitoring)
	case "required":
		return setBool(&t.Required)
	case "parallel":
		return setBool(&t.Parallel)
	case "active":
		return setBool(&t.Active)
	}
	return ErrUnknownField
}

func renumber(tasks []DraftTask) {
	for i := range tasks {
		tasks[i].TaskOrder = i + 1
	}
}

// dropStageErrors removes stale field errors for a stage after a structural
// change shifts indexes. Save revalidates everything anyway.
func (s *Session) dropStageErrors(stage models.Stage) {
	for k := range s.fieldErrs {
		if k.Stage == stage {
			delete(s.fieldErrs, k)
		}
	}
}

// AddTask appends a new task to a stage with a fresh client-only identity,
// order max+1 and default hours. Local state only until Save.
func (s *Session) AddTask(stage models.Stage) (DraftTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return DraftTask{}, ErrSaveInFlight
	}
	if _, ok := s.stages[stage]; !ok {
		return DraftTask{}, ErrUnknownStage
	}
	s.flushLocked()

	d := DraftTask{
		TempID:       uuid.NewString(),
		TaskTemplate: template.NewTask(s.mediaType, stage, len(s.stages[stage])+1),
	}
	s.stages[stage] = append(s.stages[stage], d)
	s.dirty = true
	return d, nil
}

// DeleteTask removes the task at idx after confirmation and renumbers the
// stage. Deleting the last task of a stage is refused.
func (s *Session) DeleteTask(stage models.Stage, idx int, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInFlight
	}
	if _, ok := s.stages[stage]; !ok {
		return ErrUnknownStage
	}
	s.flushLocked()

	out, err := template.Remove(s.stages[stage], idx)
	if err != nil {
		return err
	}
	renumber(out)
	s.stages[stage] = out
	s.dropStageErrors(stage)
	s.dirty = true
	return nil
}

// Reorder relocates the task at from to position to within one stage and
// rewrites every order field to its new 1-based position.
func (s *Session) Reorder(stage models.Stage, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInFlight
	}
	if _, ok := s.stages[stage]; !ok {
		return ErrUnknownStage
	}
	s.flushLocked()

	out, err := template.Move(s.stages[stage], from, to)
	if err != nil {
		return err
	}
	renumber(out)
	s.stages[stage] = out
	s.dropStageErrors(stage)
	s.dirty = true
	return nil
}

// Save re-validates the whole draft, flattens it into one bulk upsert for
// the active media type and submits it. New tasks carry no server id;
// persisted tasks carry theirs. On success the draft is replaced by a fresh
// fetch; on any failure the draft is left untouched for retry.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.flushLocked()

	if len(s.fieldErrs) > 0 {
		errs := s.sortedErrorsLocked()
		s.mu.Unlock()
		return &store.ValidationError{Fields: errs}
	}

	stageMap := make(store.StageMap, models.StageCount)
	for _, st := range models.AllStages() {
		for _, d := range s.stages[st] {
			stageMap[st] = append(stageMap[st], d.TaskTemplate)
		}
	}
	if errs := template.ValidateSet(stageMap); len(errs) > 0 {
		s.mu.Unlock()
		return &store.ValidationError{Fields: errs}
	}

	var upserts []store.TaskUpsert
	for _, st := range models.AllStages() {
		for i := range s.stages[st] {
			d := &s.stages[st][i]
			u := store.TaskUpsert{
				Stage:               st,
				TaskOrder:           d.TaskOrder,
				Title:               d.Title,
				HoursFast:           d.HoursFast,
				HoursNormal:         d.HoursNormal,
				HoursRelaxed:        d.HoursRelaxed,
				HasReview:           d.HasReview,
				ReviewHoursFast:     d.ReviewHoursFast,
				ReviewHoursNormal:   d.ReviewHoursNormal,
				ReviewHoursRelaxed:  d.ReviewHoursRelaxed,
				HasMonitoring:       d.HasMonitoring,
				MonitorHoursFast:    d.MonitorHoursFast,
				MonitorHoursNormal:  d.MonitorHoursNormal,
				MonitorHoursRelaxed: d.MonitorHoursRelaxed,
				Required:            d.Required,
				Parallel:            d.Parallel,
				Active:              d.Active,
				Checklist:           d.Checklist,
			}
			if !d.Unsaved() {
				id := d.ID
				u.ID = &id
			}
			upserts = append(upserts, u)
		}
	}

	mediaType := s.mediaType
	s.saving = true
	s.mu.Unlock()

	err := s.backend.SaveBulk(ctx, mediaType, upserts)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		// Draft untouched so the user can retry without re-entering data.
		s.mu.Unlock()
		return err
	}
	err = s.load(ctx)
	s.mu.Unlock()
	return err
}

// View is a read-only snapshot of a session.
type View struct {
	ID            string                       `json:"id"`
	MediaType     models.MediaType             `json:"media_type"`
	MediaTypeName string                       `json:"media_type_name"`
	Dirty         bool                         `json:"dirty"`
	Saving        bool                         `json:"saving"`
	Errors        []template.FieldError        `json:"errors"`
	Stages        map[models.Stage][]DraftTask `json:"stages"`
}

func (s *Session) sortedErrorsLocked() []template.FieldError {
	errs := make([]template.FieldError, 0, len(s.fieldErrs))
	for _, e := range s.fieldErrs {
		errs = append(errs, e)
	}
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Stage != errs[j].Stage {
			return errs[i].Stage < errs[j].Stage
		}
		if errs[i].TaskIndex != errs[j].TaskIndex {
			return errs[i].TaskIndex < errs[j].TaskIndex
		}
		return errs[i].Field < errs[j].Field
	})
	return errs
}

// Snapshot flushes buffered input and returns a copy of the draft.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saving {
		s.flushLocked()
	}

	stages := make(map[models.Stage][]DraftTask, models.StageCount)
	for _, st := range models.AllStages() {
		stages[st] = append([]DraftTask(nil), s.stages[st]...)
	}
	return View{
		ID:            s.ID,
		MediaType:     s.mediaType,
		MediaTypeName: s.mediaType.Name(),
		Dirty:         s.dirty,
		Saving:        s.saving,
		Errors:        s.sortedErrorsLocked(),
		Stages:        stages,
	}
}

// Close cancels any pending debounce and in-flight load.
func (s *Session) Close() {
	s.debounce.Cancel()
	s.mu.Lock()
	if s.loadCancel != nil {
		s.loadCancel()
	}
	s.mu.Unlock()
}
