// Package session is the navigation host for the profile editor. It opens
// at most one editor at a time over the store's record, routes every editor
// operation through a single lock, and forgets the editor when it signals
// back.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/procard/internal/alert"
	"github.com/kalambet/procard/internal/picker"
	"github.com/kalambet/procard/internal/profile"
)

var (
	// ErrEditorOpen is returned by Open while another editor is still editing.
	ErrEditorOpen = errors.New("an editor is already open")
	// ErrNoEditor is returned for ids that never named an editor.
	ErrNoEditor = errors.New("no such editor")
	// ErrSessionClosed is returned for the id of an editor that already
	// committed or discarded.
	ErrSessionClosed = errors.New("editor session closed")
)

// Options configure the editors a Navigator opens.
type Options struct {
	// Picker is the photo library used when SelectImage is not given one.
	Picker   picker.Service
	IDPolicy profile.IDPolicy
	// Alerts also receives every alert, in addition to the per-session
	// recorder drained into each View.
	Alerts alert.Surface
	Now    func() time.Time
}

// View is a snapshot of an editor session.
type View struct {
	ID       string          `json:"id"`
	State    profile.State   `json:"state"`
	Draft    profile.Record  `json:"draft"`
	Pending  profile.Pending `json:"form"`
	Alerts   []alert.Alert   `json:"alerts,omitempty"`
	OpenedAt time.Time       `json:"openedAt"`
}

type session struct {
	id       string
	openedAt time.Time
	editor   *profile.Editor
	alerts   *alert.Recorder
	picker   *pickerSwitch
}

// Navigator hands out editors over a Store.
type Navigator struct {
	store *profile.Store
	opts  Options

	mu         sync.Mutex
	cur        *session
	lastClosed struct {
		id    string
		state profile.State
	}
}

// New creates a Navigator over store.
func New(store *profile.Store, opts Options) *Navigator {
	if opts.Alerts == nil {
		opts.Alerts = alert.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDPolicy == "" {
		opts.IDPolicy = profile.PolicyCounter
	}
	return &Navigator{store: store, opts: opts}
}

func (n *Navigator) Store() *profile.Store { return n.store }

// Open starts a new editor over a copy of the current record. With force, an
// editor that is still open is discarded first; otherwise Open fails with
// ErrEditorOpen.
func (n *Navigator) Open(force bool) (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cur != nil {
		if !force {
			return View{}, fmt.Errorf("%w (id %s)", ErrEditorOpen, n.cur.id)
		}
		slog.Info("discarding open editor", "id", n.cur.id)
		n.cur.editor.Discard()
	}

	s := &session{
		id:       uuid.New().String(),
		openedAt: n.opts.Now(),
		alerts:   &alert.Recorder{},
		picker:   &pickerSwitch{svc: n.opts.Picker},
	}
	s.editor = n.store.Edit(
		profile.WithIDPolicy(n.opts.IDPolicy),
		profile.WithAlerts(alert.Multi(s.alerts, n.opts.Alerts)),
		profile.WithPicker(s.picker),
		profile.OnBack(func(state profile.State) { n.back(s, state) }),
	)
	n.cur = s
	slog.Info("editor opened", "id", s.id)
	return n.view(s), nil
}

// back runs from inside an editor operation, so n.mu is already held.
func (n *Navigator) back(s *session, state profile.State) {
	if n.cur == s {
		n.cur = nil
	}
	n.lastClosed.id = s.id
	n.lastClosed.state = state
	slog.Info("editor closed", "id", s.id, "state", state)
}

// Current returns the open editor, if any.
func (n *Navigator) Current() (View, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cur == nil {
		return View{}, false
	}
	return n.view(n.cur), true
}

// Do runs fn against the editor with the given id. The returned View reflects
// the editor after fn, including alerts raised by it, even when fn fails.
func (n *Navigator) Do(id string, fn func(ed *profile.Editor) error) (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, err := n.lookup(id)
	if err != nil {
		return View{}, err
	}
	err = fn(s.editor)
	return n.view(s), err
}

// SelectImage runs the editor's photo flow with svc as the library for this
// one call. A nil svc uses the navigator's default library.
func (n *Navigator) SelectImage(ctx context.Context, id string, svc picker.Service) (picker.Selection, View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, err := n.lookup(id)
	if err != nil {
		return picker.Selection{}, View{}, err
	}
	if svc != nil {
		s.picker.svc = svc
		defer func() { s.picker.svc = n.opts.Picker }()
	}
	sel, err := s.editor.SelectImage(ctx)
	return sel, n.view(s), err
}

// Discard cancels the editor with the given id.
func (n *Navigator) Discard(id string) (View, error) {
	return n.Do(id, func(ed *profile.Editor) error {
		ed.Discard()
		return nil
	})
}

func (n *Navigator) lookup(id string) (*session, error) {
	if n.cur != nil && n.cur.id == id {
		return n.cur, nil
	}
	if id != "" && n.lastClosed.id == id {
		return nil, fmt.Errorf("%w (%s)", ErrSessionClosed, n.lastClosed.state)
	}
	return nil, fmt.Errorf("%w: %q", ErrNoEditor, id)
}

func (n *Navigator) view(s *session) View {
	return View{
		ID:       s.id,
		State:    s.editor.State(),
		Draft:    s.editor.Draft(),
		Pending:  s.editor.Pending(),
		Alerts:   s.alerts.Drain(),
		OpenedAt: s.openedAt,
	}
}

// pickerSwitch lets a single SelectImage call use a request-specific
// library.
type pickerSwitch struct {
	svc picker.Service
}

func (p *pickerSwitch) RequestPermission(ctx context.Context) (picker.Permission, error) {
	if p.svc == nil {
		return picker.Denied, errors.New("no photo library configured")
	}
	return p.svc.RequestPermission(ctx)
}

func (p *pickerSwitch) PickImage(ctx context.Context, c picker.Constraints) (picker.Asset, error) {
	if p.svc == nil {
		return picker.Asset{}, errors.New("no photo library configured")
	}
	return p.svc.PickImage(ctx, c)
}
