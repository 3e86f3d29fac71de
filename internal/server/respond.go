package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rvalen1123/msc-admin-assist-sub001/internal/service"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func readJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, templates.ErrNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, wizard.ErrBusy),
		errors.Is(err, wizard.ErrCompleted):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrNotFinalStep),
		errors.Is(err, wizard.ErrFinalStep),
		errors.Is(err, wizard.ErrUnknownField):
		return http.StatusBadRequest
	}
	if _, ok := wizard.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}
	var payload *service.PayloadError
	if errors.As(err, &payload) || errors.Is(err, wizard.ErrLineItemsRequired) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
