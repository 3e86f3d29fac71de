package render

import (
	"context"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

// Renderer converts the current wizard step into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}

// View is everything a renderer needs to draw one step.
type View struct {
	Template  model.FormTemplate
	SessionID string
	// Action is the URL the step form posts to.
	Action    string
	State     wizard.State
	Controls  wizard.Controls
	Progress  wizard.Progress
	Data      formdata.Data
	LineItems []model.LineItem
}

// NewView builds a View from a session snapshot.
func NewView(tpl model.FormTemplate, snap wizard.Snapshot, action string) View {
	return View{
		Template:  tpl,
		SessionID: snap.ID,
		Action:    action,
		State:     snap.State,
		Controls:  snap.Controls,
		Progress:  snap.Progress,
		Data:      snap.Data,
		LineItems: snap.LineItems,
	}
}

// Step returns the step being rendered.
func (v View) Step() (model.Step, bool) {
	return v.Template.Step(v.State.Current)
}
