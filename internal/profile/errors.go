package profile

import "errors"

var (
	// ErrEditorClosed is returned by every editor operation after the draft
	// was committed or discarded.
	ErrEditorClosed = errors.New("editor closed")
	// ErrUnknownField is returned for field names outside Fields.
	ErrUnknownField = errors.New("unknown profile field")
)

// ValidationError reports a draft that cannot be committed or an interest
// that cannot be added. The editor has already alerted the user when it
// returns one.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

const (
	ReasonMissingName   = "missing required name"
	ReasonEmptyInterest = "empty interest label"
	ReasonUnknownIcon   = "unknown interest icon"
)
