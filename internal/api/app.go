package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/procard/internal/picker"
	"github.com/kalambet/procard/internal/profile"
	"github.com/kalambet/procard/internal/session"
	"github.com/kalambet/procard/internal/share"
)

const maxRequestBodySize = 1 << 20 // 1MB

type AppDeps struct {
	Navigator *session.Navigator
	Library   *picker.Library // optional; photo routes answer 503 without it
	Sharer    share.Service
	Token     string
}

type fieldsRequest map[string]string

type interestRequest struct {
	Name string       `json:"name"`
	Icon profile.Icon `json:"icon"`
}

type formRequest struct {
	Label   *string       `json:"label"`
	Icon    *profile.Icon `json:"icon"`
	Visible *bool         `json:"visible"`
}

type photoRequest struct {
	// URI names the chosen asset by URI or file name. Empty cancels.
	URI string `json:"uri"`
}

type interestResponse struct {
	Interest profile.Interest `json:"interest"`
	Editor   session.View     `json:"editor"`
}

type removeResponse struct {
	Removed bool         `json:"removed"`
	Editor  session.View `json:"editor"`
}

type photoResponse struct {
	Selection picker.Selection `json:"selection"`
	Editor    session.View     `json:"editor"`
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/profile", handleGetProfile(deps))
		r.Get("/profile/summary", handleProfileSummary(deps))
		r.Post("/profile/share", handleShareProfile(deps))

		r.Post("/editor", handleOpenEditor(deps))
		r.Get("/editor", handleCurrentEditor(deps))
		r.Route("/editor/{id}", func(r chi.Router) {
			r.Get("/", handleGetEditor(deps))
			r.Delete("/", handleDiscardEditor(deps))
			r.Patch("/", handleSetFields(deps))
			r.Put("/interest-form", handleInterestForm(deps))
			r.Post("/interest-form/submit", handleSubmitForm(deps))
			r.Post("/interests", handleAddInterest(deps))
			r.Delete("/interests/{interestID}", handleRemoveInterest(deps))
			r.Get("/photos", handleListPhotos(deps))
			r.Post("/photo", handleSelectPhoto(deps))
			r.Post("/commit", handleCommit(deps))
		})
	})

	return r
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Navigator.Store().Record())
	}
}

func handleProfileSummary(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"summary": profile.Summary(deps.Navigator.Store().Record()),
		})
	}
}

// handleShareProfile always answers 202: a failed share is logged, not
// reported.
func handleShareProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Sharer == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "sharing is not configured")
			return
		}
		msg := share.ProfileMessage(deps.Navigator.Store().Record())
		share.Send(r.Context(), deps.Sharer, msg)
		writeJSON(w, http.StatusAccepted, msg)
	}
}

func handleOpenEditor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
		v, err := deps.Navigator.Open(force)
		if err != nil {
			editorError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

func handleCurrentEditor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := deps.Navigator.Current()
		if !ok {
			httpError(w, http.StatusNotFound, "not_found_error", "no editor is open")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleGetEditor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := deps.Navigator.Do(chi.URLParam(r, "id"), func(*profile.Editor) error { return nil })
		if err != nil {
			editorError(w, err, v.Alerts)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleDiscardEditor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := deps.Navigator.Discard(chi.URLParam(r, "id"))
		if err != nil {
			editorError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// handleSetFields applies a {"field": "value"} object to the draft. Field
// names may be snake_case or camelCase. Nothing is applied if any name is
// unknown.
func handleSetFields(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fieldsRequest
		if err := decodeBody(w, r, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		names := make([]string, 0, len(req))
		for name := range req {
			names = append(names, name)
		}
		sort.Strings(names)

		fields := make([]profile.Field, len(names))
		for i, name := range names {
			f, err := profile.ParseField(name)
			if err != nil {
				editorError(w, err, nil)
				return
			}
			fields[i] = f
		}

		v, err := deps.Navigator.Do(chi.URLParam(r, "id"), func(ed *profile.Editor) error {
			for i, f := range fields {
				if err := ed.SetField(f, req[names[i]]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			editorError(w, err, v.Alerts)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleInterestForm(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req formRequest
		if err := decodeBody(w, r, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		v, err := deps.Navigator.Do(chi.URLParam(r, "id"), func(ed *profile.Editor) error {
			if req.Visible != nil {
				if err := ed.ShowAddForm(*req.Visible); err != nil {
					return err
				}
			}
			if req.Label != nil {
				if err := ed.SetPendingLabel(*req.Label); err != nil {
					return err
				}
			}
			if req.Icon != nil {
				return ed.SetPendingIcon(*req.Icon)
			}
			return nil
		})
		if err != nil {
			editorError(w, err, v.Alerts)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleSubmitForm(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in profile.Interest
		v, err := deps.Navigator.Do(chi.URLParam(r, "id"), func(ed *profile.Editor) error {
			var err error
			in, err = ed.SubmitPending()
			return err
		})
		if err != nil {
			editorError(w, err, v.Alerts)
			return
		}
		writeJSON(w, http.StatusCreated, interestResponse{Interest: in, Editor: v})
	}
}

func handleAddInterest(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interestRequest
		if err := decodeBody(w, r, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		var in profile.Interest
		v, err := deps.Navigator.Do(chi.URLParam(r, "id"), func(ed *profile.Editor) error {
			var err error
			in, err = ed.AddInterest(req.Name, req.Icon)
			return err
		})
		if err != nil {
			editorError(w, err, v.Alerts)
			return
		}
		writeJSON(w, http.StatusCreated, interestResponse{Interest: in, Editor: v})
	}
}

func handleRemoveInterest(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		interestID, err := strconv.Atoi(chi.URLParam(r, "interestID"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid interest id %q", chi.URLParam(r, "interestID"))
			return
		}

		var removed bool
		v, err := deps.Navigator.Do(chi.URLParam(r, "id"), func(ed *profile.Editor) error {
			var err error
			removed, err = ed.RemoveInterest(interestID)
			return err
		})
		if err != nil {
			editorError(w, err, v.Alerts)
			return
		}
		writeJSON(w, http.StatusOK, removeResponse{Removed: removed, Editor: v})
	}
}

func handleListPhotos(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Library == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "no photo library configured")
			return
		}
		if _, err := deps.Navigator.Do(chi.URLParam(r, "id"), func(*profile.Editor) error { return nil }); err != nil {
			editorError(w, err, nil)
			return
		}
		assets, err := deps.Library.Assets(picker.ProfilePhoto)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing photos: %v", err)
			return
		}
		if assets == nil {
			assets = []picker.Asset{}
		}
		writeJSON(w, http.StatusOK, assets)
	}
}

// handleSelectPhoto runs the permission-then-pick flow with the asset named
// in the body as the user's choice. An empty body or uri cancels.
func handleSelectPhoto(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Library == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "no photo library configured")
			return
		}
		var req photoRequest
		if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		lib := deps.Library.WithChooser(picker.ChooseURI(req.URI))
		sel, v, err := deps.Navigator.SelectImage(r.Context(), chi.URLParam(r, "id"), lib)
		if err != nil {
			editorError(w, err, v.Alerts)
			return
		}
		writeJSON(w, http.StatusOK, photoResponse{Selection: sel, Editor: v})
	}
}

func handleCommit(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := deps.Navigator.Do(chi.URLParam(r, "id"), func(ed *profile.Editor) error {
			return ed.Commit()
		})
		if err != nil {
			editorError(w, err, v.Alerts)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}
