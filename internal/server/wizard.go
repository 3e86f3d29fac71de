package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rvalen1123/msc-admin-assist-sub001/internal/service"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/redirect"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

// Posted wizard actions.
const (
	actionNext          = "next"
	actionPrevious      = "previous"
	actionSubmit        = "submit"
	actionAddProduct    = "add-product"
	actionRemoveProduct = "remove-product"
)

const staleStepMessage = "This step was updated elsewhere. Review it and try again."

func (s *Server) startWizard(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	session, err := s.intake.Start(r.Context(), templateID)
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	http.Redirect(w, r, stepURL(templateID, session.ID(), r.URL.Query()), http.StatusSeeOther)
}

func (s *Server) showStep(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	if session.Snapshot().State.Completed {
		s.writeComplete(w, r, session.Template())
		return
	}
	s.writeStep(w, r, session, http.StatusOK, render.ErrorMapping{})
}

func (s *Server) postStep(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	if posted := r.PostForm.Get(render.SessionFieldName); posted != "" && posted != session.ID() {
		http.Error(w, "session mismatch", http.StatusBadRequest)
		return
	}

	snap := session.Snapshot()
	if snap.State.Completed {
		http.Redirect(w, r, r.URL.RequestURI(), http.StatusSeeOther)
		return
	}
	if r.PostForm.Get(render.StepFieldName) != strconv.Itoa(snap.State.Current) {
		s.writeStep(w, r, session, http.StatusOK, render.ErrorMapping{Form: []string{staleStepMessage}})
		return
	}

	action, index, err := parseAction(r.PostForm.Get("action"))
	if err == nil && action == actionRemoveProduct && index >= len(snap.LineItems) {
		err = fmt.Errorf("line item %d does not exist", index)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tpl := session.Template()
	step, _ := tpl.Step(snap.State.Current)
	if err := session.SetFields(postedValues(step, r.PostForm)); err != nil {
		s.writeActionError(w, r, session, err)
		return
	}

	if action == actionNext && snap.Controls.Final {
		action = actionSubmit
	}
	switch action {
	case actionPrevious:
		_, err = session.Previous()
	case actionNext:
		_, err = session.Next()
	case actionAddProduct:
		_, err = session.AddLineItem()
	case actionRemoveProduct:
		_, err = session.RemoveLineItem(index)
	case actionSubmit:
		s.submit(w, r, session)
		return
	}
	if err != nil && !errors.Is(err, wizard.ErrAtFirstStep) {
		s.writeActionError(w, r, session, err)
		return
	}
	http.Redirect(w, r, r.URL.RequestURI(), http.StatusSeeOther)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, session *wizard.Session) {
	tpl := session.Template()
	outcome, err := s.intake.Submit(r.Context(), session, "")
	if err != nil {
		s.writeActionError(w, r, session, err)
		return
	}
	if outcome.SigningURL == "" {
		s.writeComplete(w, r, tpl)
		return
	}
	opts, err := s.renderOptions(r.Context(), r)
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	body, err := s.pages.RenderRedirect(r.Context(), tpl, redirect.DefaultPlan(outcome.SigningURL), opts)
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// writeActionError re-renders the step with err mapped onto fields. Errors
// that cannot be fixed on the page are reported as failures.
func (s *Server) writeActionError(w http.ResponseWriter, r *http.Request, session *wizard.Session, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.failPage(w, r, err)
		return
	}
	tpl := session.Template()
	mapping := render.MapError(tpl, err)
	var payload *service.PayloadError
	if errors.As(err, &payload) {
		mapping = render.MapErrorPayload(tpl, payload.Payload)
	}
	s.writeStep(w, r, session, status, mapping)
}

func (s *Server) writeStep(w http.ResponseWriter, r *http.Request, session *wizard.Session, status int, mapping render.ErrorMapping) {
	opts, err := s.renderOptions(r.Context(), r)
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	tpl := session.Template()
	action := stepURL(tpl.ID, session.ID(), r.URL.Query())
	body, err := s.pages.Render(r.Context(), render.NewView(tpl, session.Snapshot(), action), opts.WithErrors(mapping))
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	writeHTML(w, status, body)
}

func (s *Server) writeComplete(w http.ResponseWriter, r *http.Request, tpl model.FormTemplate) {
	opts, err := s.renderOptions(r.Context(), r)
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	body, err := s.pages.RenderComplete(r.Context(), tpl, "/wizard/"+url.PathEscape(tpl.ID), opts)
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*wizard.Session, bool) {
	session, err := s.intake.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.failPage(w, r, err)
		return nil, false
	}
	if session.Template().ID != chi.URLParam(r, "templateID") {
		http.NotFound(w, r)
		return nil, false
	}
	return session, true
}

func (s *Server) renderOptions(ctx context.Context, r *http.Request) (render.RenderOptions, error) {
	products, err := s.intake.ProductLabels(ctx)
	if err != nil {
		return render.RenderOptions{}, err
	}
	locale := s.locale
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		locale = lang
	}
	return render.RenderOptions{
		Products:   products,
		Locale:     locale,
		Translator: s.translator,
		Theme:      s.theme,
	}, nil
}

func (s *Server) failPage(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("wizard request failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}

// postedValues extracts the current step's fields from the form. Checkboxes
// post nothing when unchecked, so an absent checkbox reads as false; other
// absent fields are left untouched.
func postedValues(step model.Step, form url.Values) map[string]any {
	values := make(map[string]any)
	for _, field := range step.Fields() {
		raw, present := form[field.ID]
		if field.Type == model.FieldTypeCheckbox {
			values[field.ID] = present && len(raw) > 0 && raw[0] != ""
			continue
		}
		if present && len(raw) > 0 {
			values[field.ID] = raw[0]
		}
	}
	return values
}

// parseAction splits "remove-product:<index>" and validates the action name.
func parseAction(raw string) (string, int, error) {
	action := strings.TrimSpace(raw)
	if action == "" {
		return actionNext, 0, nil
	}
	if rest, ok := strings.CutPrefix(action, actionRemoveProduct+":"); ok {
		index, err := strconv.Atoi(rest)
		if err != nil || index < 0 {
			return "", 0, fmt.Errorf("invalid line item index %q", rest)
		}
		return actionRemoveProduct, index, nil
	}
	switch action {
	case actionNext, actionPrevious, actionSubmit, actionAddProduct:
		return action, 0, nil
	}
	return "", 0, fmt.Errorf("unknown action %q", action)
}

func stepURL(templateID, sessionID string, query url.Values) string {
	u := "/wizard/" + url.PathEscape(templateID) + "/" + url.PathEscape(sessionID)
	if lang := query.Get("lang"); lang != "" {
		u += "?lang=" + url.QueryEscape(lang)
	}
	return u
}
