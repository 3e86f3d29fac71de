package wizard

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

func TestNewStateRejectsEmptyWizard(t *testing.T) {
	if _, err := NewState(0); !errors.Is(err, ErrInvalidSteps) {
		t.Fatalf("expected ErrInvalidSteps, got %v", err)
	}
}

func TestPreviousAndNextBounds(t *testing.T) {
	state, err := NewState(3)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}

	if _, err := state.Previous(); !errors.Is(err, ErrAtFirstStep) {
		t.Fatalf("previous on step 1: want ErrAtFirstStep, got %v", err)
	}

	for want := 2; want <= 3; want++ {
		state, err = state.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if state.Current != want {
			t.Fatalf("current: want %d, got %d", want, state.Current)
		}
	}

	if _, err := state.Next(); !errors.Is(err, ErrFinalStep) {
		t.Fatalf("next on final step: want ErrFinalStep, got %v", err)
	}

	state, err = state.Previous()
	if err != nil || state.Current != 2 {
		t.Fatalf("previous: state %+v err %v", state, err)
	}
}

func TestSubmitLifecycle(t *testing.T) {
	state := State{Current: 1, Total: 2}
	if _, err := state.BeginSubmit(); !errors.Is(err, ErrNotFinalStep) {
		t.Fatalf("begin submit before final: got %v", err)
	}

	state.Current = 2
	loading, err := state.BeginSubmit()
	if err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	if !loading.Loading {
		t.Fatalf("expected loading gate raised")
	}

	if _, err := loading.BeginSubmit(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second submit while loading: want ErrBusy, got %v", err)
	}
	if _, err := loading.Previous(); !errors.Is(err, ErrBusy) {
		t.Fatalf("previous while loading: want ErrBusy, got %v", err)
	}

	failed := loading.FailSubmit()
	if failed.Loading || failed.Completed {
		t.Fatalf("fail submit: unexpected state %+v", failed)
	}

	done := loading.CompleteSubmit()
	if done.Loading || !done.Completed {
		t.Fatalf("complete submit: unexpected state %+v", done)
	}
	if _, err := done.Previous(); !errors.Is(err, ErrCompleted) {
		t.Fatalf("previous after completion: want ErrCompleted, got %v", err)
	}
}

func TestBackControlDisabledOnFirstStepOrWhileLoading(t *testing.T) {
	for total := 1; total <= 8; total++ {
		for current := 1; current <= total; current++ {
			for _, loading := range []bool{false, true} {
				c := Navigation{Current: current, Total: total, Loading: loading}.Controls()
				want := current == 1 || loading
				if c.BackDisabled != want {
					t.Fatalf("current=%d total=%d loading=%v: back disabled %v, want %v", current, total, loading, c.BackDisabled, want)
				}
				if loading && !c.PrimaryDisabled {
					t.Fatalf("current=%d total=%d: primary enabled while loading", current, total)
				}
			}
		}
	}
}

func TestPrimaryLabelOnFinalStep(t *testing.T) {
	for total := 1; total <= 6; total++ {
		for current := 1; current <= total; current++ {
			c := Navigation{Current: current, Total: total, TerminalLabel: "Place Order"}.Controls()
			if current == total {
				if c.PrimaryLabel != "Place Order" || !c.Final {
					t.Fatalf("final step %d/%d: got %+v", current, total, c)
				}
				continue
			}
			if c.PrimaryLabel != model.DefaultContinueLabel || c.Final {
				t.Fatalf("step %d/%d: got %+v", current, total, c)
			}
		}
	}

	c := Navigation{Current: 2, Total: 2}.Controls()
	if c.PrimaryLabel != model.DefaultSubmitLabel {
		t.Fatalf("default terminal label: got %q", c.PrimaryLabel)
	}
}

func TestPercentComplete(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for current := 1; current <= total; current++ {
			want := int(math.Round(float64(current) / float64(total) * 100))
			if got := ProgressOf(current, total).PercentComplete; got != want {
				t.Fatalf("%d/%d: want %d, got %d", current, total, want, got)
			}
		}
	}

	want := Progress{CurrentStep: 1, TotalSteps: 3, PercentComplete: 33}
	if diff := cmp.Diff(want, ProgressOf(1, 3)); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if got := ProgressOf(1, 0).PercentComplete; got != 0 {
		t.Fatalf("zero total: want 0, got %d", got)
	}
}

func TestOrderProductsGuard(t *testing.T) {
	tpl := orderTemplate()
	state := State{Current: 4, Total: tpl.TotalSteps()}

	empty := ControlsFor(state, tpl, 0)
	if !empty.PrimaryDisabled {
		t.Fatalf("products step without line items should disable the primary control")
	}
	filled := ControlsFor(state, tpl, 1)
	if filled.PrimaryDisabled {
		t.Fatalf("products step with line items should enable the primary control")
	}

	state.Current = 3
	if ControlsFor(state, tpl, 0).PrimaryDisabled {
		t.Fatalf("guard must only apply to the products step")
	}
}
