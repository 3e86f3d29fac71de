package wizard

import (
	"math"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// State is the position of a wizard: Current is 1-based and always within
// [1, Total]. Loading is true while a submission is in flight.
type State struct {
	Current   int  `json:"currentStep"`
	Total     int  `json:"totalSteps"`
	Loading   bool `json:"loading"`
	Completed bool `json:"completed"`
}

// NewState starts a wizard of total steps at step 1.
func NewState(total int) (State, error) {
	if total <= 0 {
		return State{}, ErrInvalidSteps
	}
	return State{Current: 1, Total: total}, nil
}

// Final reports whether the current step is the last one.
func (s State) Final() bool {
	return s.Current == s.Total
}

// Previous moves back one step.
func (s State) Previous() (State, error) {
	if err := s.idle(); err != nil {
		return s, err
	}
	if s.Current <= 1 {
		return s, ErrAtFirstStep
	}
	s.Current--
	return s, nil
}

// Next moves forward one step. Validation policy is the caller's concern.
func (s State) Next() (State, error) {
	if err := s.idle(); err != nil {
		return s, err
	}
	if s.Final() {
		return s, ErrFinalStep
	}
	s.Current++
	return s, nil
}

// BeginSubmit raises the loading gate on the final step.
func (s State) BeginSubmit() (State, error) {
	if err := s.idle(); err != nil {
		return s, err
	}
	if !s.Final() {
		return s, ErrNotFinalStep
	}
	s.Loading = true
	return s, nil
}

// CompleteSubmit lowers the loading gate and marks the wizard terminal.
func (s State) CompleteSubmit() State {
	s.Loading = false
	s.Completed = true
	return s
}

// FailSubmit lowers the loading gate so the caller may retry.
func (s State) FailSubmit() State {
	s.Loading = false
	return s
}

// Progress derives the step indicator values.
func (s State) Progress() Progress {
	return ProgressOf(s.Current, s.Total)
}

func (s State) idle() error {
	if s.Loading {
		return ErrBusy
	}
	if s.Completed {
		return ErrCompleted
	}
	return nil
}

// Progress is the derived step indicator.
type Progress struct {
	CurrentStep     int `json:"currentStep"`
	TotalSteps      int `json:"totalSteps"`
	PercentComplete int `json:"percentComplete"`
}

// ProgressOf computes round(current/total*100). A non-positive total yields 0.
func ProgressOf(current, total int) Progress {
	p := Progress{CurrentStep: current, TotalSteps: total}
	if total > 0 {
		p.PercentComplete = int(math.Round(float64(current) / float64(total) * 100))
	}
	return p
}

// Navigation is the input of the footer controls.
type Navigation struct {
	Current           int
	Total             int
	Loading           bool
	ProductsStepEmpty bool
	TerminalLabel     string
}

// Controls describes the Back and primary (Continue/Submit) buttons.
type Controls struct {
	BackLabel       string `json:"backLabel"`
	BackDisabled    bool   `json:"backDisabled"`
	PrimaryLabel    string `json:"primaryLabel"`
	PrimaryDisabled bool   `json:"primaryDisabled"`
	Final           bool   `json:"final"`
}

// Controls derives button state: Back is disabled on step 1 and while
// loading; the primary control is disabled while loading or when the current
// products step has no line items, and carries the terminal label on the
// final step.
func (n Navigation) Controls() Controls {
	final := n.Current == n.Total
	c := Controls{
		BackLabel:       model.DefaultBackLabel,
		BackDisabled:    n.Current <= 1 || n.Loading,
		PrimaryLabel:    model.DefaultContinueLabel,
		PrimaryDisabled: n.Loading || n.ProductsStepEmpty,
		Final:           final,
	}
	if final {
		c.PrimaryLabel = n.TerminalLabel
		if c.PrimaryLabel == "" {
			c.PrimaryLabel = model.DefaultSubmitLabel
		}
	}
	return c
}

// ControlsFor derives the controls for state within tpl given the number of
// line items collected so far.
func ControlsFor(s State, tpl model.FormTemplate, lineItems int) Controls {
	step, _ := tpl.Step(s.Current)
	return Navigation{
		Current:           s.Current,
		Total:             s.Total,
		Loading:           s.Loading,
		ProductsStepEmpty: step.RequiresLineItems && lineItems == 0,
		TerminalLabel:     tpl.TerminalLabel(),
	}.Controls()
}
