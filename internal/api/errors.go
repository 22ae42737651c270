package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kalambet/procard/internal/alert"
	"github.com/kalambet/procard/internal/picker"
	"github.com/kalambet/procard/internal/profile"
	"github.com/kalambet/procard/internal/session"
)

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": errorBody{Message: fmt.Sprintf(format, args...), Type: errType},
	})
}

// editorError maps an editor or navigator failure to a status code. A
// validation failure carries the alerts it raised so the caller can show
// them.
func editorError(w http.ResponseWriter, err error, alerts []alert.Alert) {
	var ve *profile.ValidationError
	switch {
	case errors.As(err, &ve):
		if alerts == nil {
			alerts = []alert.Alert{}
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  errorBody{Message: ve.Error(), Type: "validation_error"},
			"alerts": alerts,
		})
	case errors.Is(err, session.ErrEditorOpen):
		httpError(w, http.StatusConflict, "conflict_error", "%v", err)
	case errors.Is(err, session.ErrNoEditor):
		httpError(w, http.StatusNotFound, "not_found_error", "%v", err)
	case errors.Is(err, session.ErrSessionClosed), errors.Is(err, profile.ErrEditorClosed):
		httpError(w, http.StatusGone, "gone_error", "%v", err)
	case errors.Is(err, profile.ErrUnknownField), errors.Is(err, picker.ErrUnknownAsset):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}
