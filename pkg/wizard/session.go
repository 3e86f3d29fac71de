package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// Submission is the payload handed to the external create/update operation.
type Submission struct {
	SessionID  string           `json:"sessionId"`
	TemplateID string           `json:"templateId"`
	Data       formdata.Data    `json:"data"`
	LineItems  []model.LineItem `json:"lineItems,omitempty"`
}

// SubmitFunc performs the external create/update call. It runs without the
// session lock held; the loading gate keeps other transitions out meanwhile.
type SubmitFunc func(ctx context.Context, sub Submission) error

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID         string           `json:"id"`
	TemplateID string           `json:"templateId"`
	State      State            `json:"state"`
	Progress   Progress         `json:"progress"`
	Controls   Controls         `json:"controls"`
	Data       formdata.Data    `json:"data"`
	LineItems  []model.LineItem `json:"lineItems"`
	Visited    int              `json:"visited"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithSessionID fixes the session identifier (a uuid by default).
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithValidator replaces the RequiredFields policy.
func WithValidator(v Validator) SessionOption {
	return func(s *Session) {
		if v != nil {
			s.validate = v
		}
	}
}

// WithNow overrides the clock used for UpdatedAt.
func WithNow(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithInitialData seeds the first step's values.
func WithInitialData(data formdata.Data) SessionOption {
	return func(s *Session) {
		s.data = data
	}
}

// Session is the single owner of one wizard run: template, state, formData
// and line items. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id        string
	template  model.FormTemplate
	state     State
	data      formdata.Data
	items     []model.LineItem
	visited   int
	validate  Validator
	now       func() time.Time
	updatedAt time.Time
}

// NewSession starts a session at step 1 of tpl.
func NewSession(tpl model.FormTemplate, options ...SessionOption) (*Session, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	state, err := NewState(tpl.TotalSteps())
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:       uuid.NewString(),
		template: tpl,
		state:    state,
		visited:  1,
		validate: RequiredFields,
		now:      time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.checkKeys(s.data.Keys()); err != nil {
		return nil, err
	}
	s.updatedAt = s.now()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Template returns the template driving the session.
func (s *Session) Template() model.FormTemplate {
	return s.template
}

// UpdatedAt reports the time of the last transition or field change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Snapshot returns the current view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetField binds value to field id (onFieldChange). Only fields of visited
// steps are accepted.
func (s *Session) SetField(id string, value any) error {
	return s.SetFields(map[string]any{id: value})
}

// SetFields applies several field changes atomically.
func (s *Session) SetFields(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.idle(); err != nil {
		return err
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	if err := s.checkKeys(keys); err != nil {
		return err
	}
	s.data = s.data.Merge(values)
	s.touch()
	return nil
}

// Previous moves back one step.
func (s *Session) Previous() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Previous()
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.state = next
	s.touch()
	return s.snapshotLocked(), nil
}

// Next validates the current step and moves forward one step.
func (s *Session) Next() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.idle(); err != nil {
		return s.snapshotLocked(), err
	}
	if s.state.Final() {
		return s.snapshotLocked(), ErrFinalStep
	}
	if err := s.checkStepLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	next, err := s.state.Next()
	if err != nil {
		return s.snapshotLocked(), err
	}
	if step, ok := s.template.Step(s.state.Current); ok {
		s.data = s.data.Clear(slotFieldIDs(step)...)
	}
	s.state = next
	if s.state.Current > s.visited {
		s.visited = s.state.Current
	}
	s.touch()
	return s.snapshotLocked(), nil
}

// AddLineItem runs the add-product contract against the session data.
func (s *Session) AddLineItem() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.idle(); err != nil {
		return s.snapshotLocked(), err
	}
	data, items, err := AddLineItem(s.data, s.items)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.data, s.items = data, items
	s.touch()
	return s.snapshotLocked(), nil
}

// RemoveLineItem drops the line item at index.
func (s *Session) RemoveLineItem(index int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.idle(); err != nil {
		return s.snapshotLocked(), err
	}
	items, err := RemoveLineItem(s.items, index)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.items = items
	s.touch()
	return s.snapshotLocked(), nil
}

// Submit validates the final step, raises the loading gate, runs fn with the
// accumulated data and, on success, marks the session completed and clears
// formData and line items. The submitted payload is returned either way.
func (s *Session) Submit(ctx context.Context, fn SubmitFunc) (Submission, error) {
	if fn == nil {
		return Submission{}, errors.New("wizard: submit function is required")
	}

	s.mu.Lock()
	if err := s.state.idle(); err != nil {
		s.mu.Unlock()
		return Submission{}, err
	}
	if !s.state.Final() {
		s.mu.Unlock()
		return Submission{}, ErrNotFinalStep
	}
	if err := s.checkStepLocked(); err != nil {
		s.mu.Unlock()
		return Submission{}, err
	}
	loading, err := s.state.BeginSubmit()
	if err != nil {
		s.mu.Unlock()
		return Submission{}, err
	}
	s.state = loading
	sub := Submission{
		SessionID:  s.id,
		TemplateID: s.template.ID,
		Data:       s.data.Clear(slotFieldIDs(s.template.Steps...)...),
		LineItems:  append([]model.LineItem(nil), s.items...),
	}
	s.touch()
	s.mu.Unlock()

	submitErr := fn(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if submitErr != nil {
		s.state = s.state.FailSubmit()
		s.touch()
		return sub, fmt.Errorf("wizard: submit: %w", submitErr)
	}
	s.state = s.state.CompleteSubmit()
	s.data = s.data.Reset()
	s.items = nil
	s.touch()
	return sub, nil
}

func (s *Session) checkStepLocked() error {
	step, ok := s.template.Step(s.state.Current)
	if !ok {
		return fmt.Errorf("wizard: step %d out of range", s.state.Current)
	}
	if err := s.validate(step, s.data); err != nil {
		return err
	}
	if step.RequiresLineItems && len(s.items) == 0 {
		return ErrLineItemsRequired
	}
	return nil
}

// slotFieldIDs lists the inputs of the add-product slot on steps. They hold a
// pending line item, not order data, and never leave the step.
func slotFieldIDs(steps ...model.Step) []string {
	var ids []string
	for _, step := range steps {
		if step.Trailing != model.SlotAddProduct {
			continue
		}
		if slot, ok := step.Section(model.SlotAddProduct); ok {
			for _, field := range slot.Fields {
				ids = append(ids, field.ID)
			}
		}
	}
	return ids
}

func (s *Session) checkKeys(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	allowed := make(map[string]struct{})
	for _, field := range s.template.FieldsThrough(s.visited) {
		allowed[field.ID] = struct{}{}
	}
	for _, key := range keys {
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
	}
	return nil
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:         s.id,
		TemplateID: s.template.ID,
		State:      s.state,
		Progress:   s.state.Progress(),
		Controls:   ControlsFor(s.state, s.template, len(s.items)),
		Data:       s.data,
		LineItems:  append([]model.LineItem(nil), s.items...),
		Visited:    s.visited,
		UpdatedAt:  s.updatedAt,
	}
}

func (s *Session) touch() {
	s.updatedAt = s.now()
}
