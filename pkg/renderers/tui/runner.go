package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/redirect"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

// Result describes a completed terminal run.
type Result struct {
	Submission wizard.Submission
	// SigningURL is empty when no hand-off was scheduled.
	SigningURL string
	// Redirect is the stage the hand-off task finished in.
	Redirect redirect.Stage
}

// Runner walks a wizard session in the terminal: it prompts each step,
// offers Back and Continue (or the terminal label on the final step), runs
// the add-product loop on slot steps and submits through submit.
type Runner struct {
	renderer        *Renderer
	submit          wizard.SubmitFunc
	options         render.RenderOptions
	signing         func(wizard.Submission) string
	opener          redirect.Opener
	redirectOptions []redirect.Option
}

// NewRunner wires renderer and submit. submit performs the external
// create/update call.
func NewRunner(renderer *Renderer, submit wizard.SubmitFunc, options ...RunnerOption) (*Runner, error) {
	if renderer == nil {
		return nil, errors.New("tui: renderer is required")
	}
	if submit == nil {
		return nil, errors.New("tui: submit function is required")
	}
	r := &Runner{
		renderer: renderer,
		submit:   submit,
		opener:   redirect.BrowserOpener(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

type navAction int

const (
	navPrimary navAction = iota
	navBack
	navStay
)

// Run drives session until it is submitted, the context ends or a prompt
// fails. Validation failures keep the user on the step with the messages
// shown before the fields.
func (r *Runner) Run(ctx context.Context, session *wizard.Session) (Result, error) {
	if session == nil {
		return Result{}, errors.New("tui: session is required")
	}
	tpl := session.Template()
	var mapping render.ErrorMapping

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		snap := session.Snapshot()
		opts := r.options.WithErrors(mapping)
		view := render.NewView(tpl, snap, "")

		values, err := r.renderer.Collect(ctx, view, opts)
		if err != nil {
			return Result{}, err
		}
		if len(values) > 0 {
			if err := session.SetFields(values); err != nil {
				return Result{}, err
			}
		}

		step, _ := tpl.Step(snap.State.Current)
		if step.Trailing == model.SlotAddProduct {
			if err := r.lineItems(ctx, session, step, opts); err != nil {
				return Result{}, err
			}
		}

		snap = session.Snapshot()
		if snap.Controls.PrimaryDisabled {
			if err := r.showErrors(ctx, render.MapError(tpl, wizard.ErrLineItemsRequired)); err != nil {
				return Result{}, err
			}
		}
		action, err := r.chooseAction(ctx, snap.Controls, opts)
		if err != nil {
			return Result{}, err
		}

		switch {
		case action == navStay:
		case action == navBack:
			_, err = session.Previous()
		case snap.Controls.Final:
			var sub wizard.Submission
			sub, err = session.Submit(ctx, r.submit)
			if err == nil {
				return r.finish(ctx, sub)
			}
		default:
			_, err = session.Next()
		}

		mapping = render.ErrorMapping{}
		if err == nil {
			continue
		}
		if !recoverable(err) {
			return Result{}, err
		}
		mapping = render.MapError(tpl, err)
	}
}

func (r *Runner) chooseAction(ctx context.Context, controls wizard.Controls, opts render.RenderOptions) (navAction, error) {
	var choices []string
	var actions []navAction
	if controls.PrimaryDisabled {
		// The only way forward from an empty products step is adding one.
		choices = append(choices, opts.Text(render.KeyAddProduct, "Add Product"))
		actions = append(actions, navStay)
	} else {
		primary := opts.Text(render.KeyContinue, controls.PrimaryLabel)
		if controls.Final {
			primary = controls.PrimaryLabel
		}
		choices = append(choices, primary)
		actions = append(actions, navPrimary)
	}
	if !controls.BackDisabled {
		choices = append(choices, opts.Text(render.KeyBack, controls.BackLabel))
		actions = append(actions, navBack)
	}

	idx, err := r.renderer.driver.Select(ctx, SelectConfig{
		Message: "Next action",
		Options: choices,
	})
	if err != nil {
		return navStay, err
	}
	if idx < 0 || idx >= len(actions) {
		return navStay, fmt.Errorf("tui: invalid choice %d", idx)
	}
	return actions[idx], nil
}

// lineItems runs the add/remove loop of an add-product step until the user
// picks Done.
func (r *Runner) lineItems(ctx context.Context, session *wizard.Session, step model.Step, opts render.RenderOptions) error {
	slot, _ := step.Section(model.SlotAddProduct)
	addLabel := opts.Text(render.KeyAddProduct, "Add Product")
	removeLabel := opts.Text(render.KeyRemove, "Remove")
	doneLabel := opts.Text("wizard.done", "Done")

	for {
		snap := session.Snapshot()
		if err := r.showLineItems(ctx, snap.LineItems, opts); err != nil {
			return err
		}

		choices := []string{addLabel}
		if len(snap.LineItems) > 0 {
			choices = append(choices, removeLabel)
		}
		choices = append(choices, doneLabel)

		idx, err := r.renderer.driver.Select(ctx, SelectConfig{Message: slot.Title, Options: choices})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(choices) {
			return fmt.Errorf("tui: invalid choice %d", idx)
		}

		switch choices[idx] {
		case addLabel:
			values, err := r.renderer.collectFields(ctx, slot.Fields, snap.Data, opts)
			if err != nil {
				return err
			}
			if err := session.SetFields(values); err != nil {
				return err
			}
			if _, err := session.AddLineItem(); err != nil {
				if !recoverable(err) {
					return err
				}
				if err := r.showErrors(ctx, render.MapError(session.Template(), err)); err != nil {
					return err
				}
			}
		case removeLabel:
			labels := make([]string, 0, len(snap.LineItems))
			for _, item := range snap.LineItems {
				labels = append(labels, lineItemLabel(item, opts))
			}
			pick, err := r.renderer.driver.Select(ctx, SelectConfig{Message: removeLabel, Options: labels})
			if err != nil {
				return err
			}
			if _, err := session.RemoveLineItem(pick); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *Runner) showLineItems(ctx context.Context, items []model.LineItem, opts render.RenderOptions) error {
	if len(items) == 0 {
		return r.renderer.info(ctx, opts.Text(render.KeyNoLineItems, "No products added yet."))
	}
	for i, item := range items {
		if err := r.renderer.info(ctx, fmt.Sprintf("%d. %s", i+1, lineItemLabel(item, opts))); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) showErrors(ctx context.Context, mapping render.ErrorMapping) error {
	for _, message := range mapping.Form {
		if err := r.renderer.failure(ctx, message); err != nil {
			return err
		}
	}
	ids := make([]string, 0, len(mapping.Fields))
	for id := range mapping.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, message := range mapping.Fields[id] {
			if err := r.renderer.failure(ctx, message); err != nil {
				return err
			}
		}
	}
	return nil
}

// finish schedules the DocuSeal hand-off when a signing URL resolves and
// waits for it to open or be cancelled with ctx.
func (r *Runner) finish(ctx context.Context, sub wizard.Submission) (Result, error) {
	result := Result{Submission: sub}
	if r.signing == nil {
		return result, nil
	}
	url := r.signing(sub)
	if url == "" {
		return result, nil
	}
	result.SigningURL = url

	notifier := redirect.NotifierFunc(func(ctx context.Context, url string) {
		_ = r.renderer.info(ctx, r.options.Text(render.KeyRedirecting, "Opening DocuSeal to sign your documents: "+url))
	})
	task, err := redirect.Schedule(ctx, redirect.DefaultPlan(url), notifier, r.opener, r.redirectOptions...)
	if err != nil {
		return result, err
	}
	<-task.Done()
	result.Redirect = task.Stage()
	return result, nil
}

func lineItemLabel(item model.LineItem, opts render.RenderOptions) string {
	return fmt.Sprintf("%s x %d", opts.ProductLabel(item.ProductID), item.Quantity)
}

// recoverable reports errors the user can fix by editing the step.
func recoverable(err error) bool {
	if _, ok := wizard.AsValidationError(err); ok {
		return true
	}
	return errors.Is(err, wizard.ErrLineItemsRequired) || errors.Is(err, wizard.ErrAtFirstStep)
}
