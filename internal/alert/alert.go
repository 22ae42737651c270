// Package alert is the user-facing notification surface. Alerts are
// blocking, user-acknowledged messages; nothing in the caller depends on
// how or whether they were acknowledged.
package alert

import (
	"log/slog"
	"sync"
)

// Alert is a titled message shown to the user.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Alerts raised by the profile editor.
var (
	MissingName = Alert{
		Title:   "Error",
		Message: "First name and last name are required",
	}
	EmptyInterest = Alert{
		Title:   "Error",
		Message: "Interest name cannot be empty",
	}
	UnknownIcon = Alert{
		Title:   "Error",
		Message: "Choose an icon from the list",
	}
	PermissionRequired = Alert{
		Title:   "Permission Required",
		Message: "You need to allow access to your photos to change your profile picture.",
	}
)

// Surface displays alerts.
type Surface interface {
	Alert(a Alert)
}

// Func adapts a function to Surface.
type Func func(a Alert)

func (f Func) Alert(a Alert) { f(a) }

// Discard drops every alert.
var Discard Surface = Func(func(Alert) {})

// Logger writes alerts to a structured logger at warn level.
type Logger struct {
	Log *slog.Logger
}

func (l Logger) Alert(a Alert) {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.Warn("alert", "title", a.Title, "message", a.Message)
}

// Recorder keeps alerts until they are drained. Hosts that answer requests
// (HTTP, MCP) drain it into the response.
type Recorder struct {
	mu     sync.Mutex
	alerts []Alert
}

func (r *Recorder) Alert(a Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

// Drain returns the recorded alerts and clears the recorder.
func (r *Recorder) Drain() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.alerts
	r.alerts = nil
	return out
}

// Multi fans an alert out to several surfaces in order.
func Multi(surfaces ...Surface) Surface {
	return Func(func(a Alert) {
		for _, s := range surfaces {
			s.Alert(a)
		}
	})
}
