package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/procard/internal/alert"
	"github.com/kalambet/procard/internal/picker"
)

// State is the lifecycle state of an Editor.
type State string

const (
	Editing   State = "editing"
	Committed State = "committed"
	Discarded State = "discarded"
)

// Pending is the add-interest sub-form. It never reaches the committed
// record.
type Pending struct {
	Label   string `json:"label"`
	Icon    Icon   `json:"icon"`
	Visible bool   `json:"visible"`
}

// CommitFunc receives the validated draft on save.
type CommitFunc func(Record)

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithAlerts sets the surface validation and permission failures are shown on.
func WithAlerts(s alert.Surface) EditorOption {
	return func(e *Editor) { e.alerts = s }
}

// WithPicker sets the photo library used by SelectImage.
func WithPicker(p picker.Service) EditorOption {
	return func(e *Editor) { e.picker = p }
}

// WithIDPolicy selects how new interest ids are allocated.
func WithIDPolicy(p IDPolicy) EditorOption {
	return func(e *Editor) { e.policy = p }
}

// WithIDFloor makes the counter policy start above floor.
func WithIDFloor(floor int) EditorOption {
	return func(e *Editor) { e.floor = floor }
}

// OnBack registers the navigation-back signal, fired once when the editor
// commits or discards.
func OnBack(fn func(State)) EditorOption {
	return func(e *Editor) { e.back = fn }
}

// Editor owns a private draft of a Record. Nothing it does is visible
// outside until Commit succeeds. An Editor is not safe for concurrent use.
type Editor struct {
	draft   Record
	pending Pending
	state   State

	commit CommitFunc
	back   func(State)
	alerts alert.Surface
	picker picker.Service
	policy IDPolicy
	floor  int
	ids    *idAllocator
}

// NewEditor starts an edit session over a copy of r. commit is called with
// the draft when Commit succeeds.
func NewEditor(r Record, commit CommitFunc, opts ...EditorOption) *Editor {
	e := &Editor{
		draft:   r.Clone(),
		pending: Pending{Icon: DefaultIcon},
		state:   Editing,
		commit:  commit,
		alerts:  alert.Discard,
		policy:  PolicyCounter,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ids = newIDAllocator(e.policy, e.floor, e.draft.Interests)
	return e
}

func (e *Editor) State() State { return e.state }

// Draft returns a copy of the draft.
func (e *Editor) Draft() Record { return e.draft.Clone() }

func (e *Editor) Pending() Pending { return e.pending }

func (e *Editor) open() error {
	if e.state != Editing {
		return fmt.Errorf("%w (%s)", ErrEditorClosed, e.state)
	}
	return nil
}

// SetField replaces a scalar field on the draft. Values are not checked
// until Commit.
func (e *Editor) SetField(f Field, value string) error {
	if err := e.open(); err != nil {
		return err
	}
	return e.draft.set(f, value)
}

// SelectImage runs the photo library flow and, on a pick, points the
// draft's profile picture at the chosen asset. Denial alerts the user;
// cancellation is silent. Neither changes the draft.
func (e *Editor) SelectImage(ctx context.Context) (picker.Selection, error) {
	if err := e.open(); err != nil {
		return picker.Selection{}, err
	}
	if e.picker == nil {
		return picker.Selection{}, fmt.Errorf("no photo library configured")
	}

	sel, err := picker.Select(ctx, e.picker, picker.ProfilePhoto)
	if err != nil {
		return picker.Selection{}, err
	}
	switch sel.Outcome {
	case picker.Refused:
		e.alerts.Alert(alert.PermissionRequired)
	case picker.Picked:
		e.draft.ProfilePicture = sel.URI
	}
	slog.Debug("image selection finished", "outcome", sel.Outcome)
	return sel, nil
}

// AddInterest appends an interest to the draft. An empty icon means
// DefaultIcon. On success the add form is reset and hidden.
func (e *Editor) AddInterest(label string, icon Icon) (Interest, error) {
	if err := e.open(); err != nil {
		return Interest{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		e.alerts.Alert(alert.EmptyInterest)
		return Interest{}, &ValidationError{Reason: ReasonEmptyInterest}
	}
	if icon == "" {
		icon = DefaultIcon
	}
	if !icon.Valid() {
		e.alerts.Alert(alert.UnknownIcon)
		return Interest{}, &ValidationError{Reason: ReasonUnknownIcon}
	}

	in := Interest{ID: e.ids.next(e.draft.Interests), Name: label, Icon: icon}
	interests := make([]Interest, len(e.draft.Interests), len(e.draft.Interests)+1)
	copy(interests, e.draft.Interests)
	e.draft.Interests = append(interests, in)

	e.pending = Pending{Icon: DefaultIcon}
	return in, nil
}

// RemoveInterest drops the interest with the given id. It reports whether
// one was removed.
func (e *Editor) RemoveInterest(id int) (bool, error) {
	if err := e.open(); err != nil {
		return false, err
	}
	kept := make([]Interest, 0, len(e.draft.Interests))
	for _, in := range e.draft.Interests {
		if in.ID != id {
			kept = append(kept, in)
		}
	}
	if len(kept) == len(e.draft.Interests) {
		return false, nil
	}
	e.draft.Interests = kept
	return true, nil
}

// ShowAddForm shows or hides the add-interest form.
func (e *Editor) ShowAddForm(visible bool) error {
	if err := e.open(); err != nil {
		return err
	}
	e.pending.Visible = visible
	return nil
}

func (e *Editor) ToggleAddForm() error {
	return e.ShowAddForm(!e.pending.Visible)
}

func (e *Editor) SetPendingLabel(label string) error {
	if err := e.open(); err != nil {
		return err
	}
	e.pending.Label = label
	return nil
}

// SetPendingIcon selects the icon for the next interest. Only the form's
// selectable icons are accepted.
func (e *Editor) SetPendingIcon(icon Icon) error {
	if err := e.open(); err != nil {
		return err
	}
	for _, s := range SelectableIcons {
		if s == icon {
			e.pending.Icon = icon
			return nil
		}
	}
	e.alerts.Alert(alert.UnknownIcon)
	return &ValidationError{Reason: ReasonUnknownIcon}
}

// SubmitPending adds the interest described by the add form.
func (e *Editor) SubmitPending() (Interest, error) {
	return e.AddInterest(e.pending.Label, e.pending.Icon)
}

// Commit validates the draft and hands it to the commit callback. A draft
// without first or last name stays open.
func (e *Editor) Commit() error {
	if err := e.open(); err != nil {
		return err
	}
	if strings.TrimSpace(e.draft.FirstName) == "" || strings.TrimSpace(e.draft.LastName) == "" {
		e.alerts.Alert(alert.MissingName)
		return &ValidationError{Reason: ReasonMissingName}
	}

	if e.commit != nil {
		e.commit(e.draft.Clone())
	}
	e.close(Committed)
	return nil
}

// Discard abandons the draft. Discarding a closed editor is a no-op.
func (e *Editor) Discard() {
	if e.state != Editing {
		return
	}
	e.close(Discarded)
}

func (e *Editor) close(s State) {
	e.state = s
	e.pending = Pending{}
	if e.back != nil {
		e.back(s)
	}
}
