// Package share hands a short profile message to an outside channel.
// Sharing is fire-and-forget: failures are logged, never shown to the user.
package share

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/kalambet/procard/internal/profile"
)

// Message is what gets shared.
type Message struct {
	Title string `json:"title"`
	Text  string `json:"message"`
}

// ProfileMessage builds the share message for r.
func ProfileMessage(r profile.Record) Message {
	return Message{
		Title: "Share Professional Profile",
		Text:  fmt.Sprintf("Check out %s %s's professional profile!", r.FirstName, r.LastName),
	}
}

// Service delivers a message.
type Service interface {
	Share(ctx context.Context, m Message) error
}

// Send shares m and logs a failure instead of returning it.
func Send(ctx context.Context, svc Service, m Message) {
	if err := svc.Share(ctx, m); err != nil {
		slog.Warn("error sharing profile", "title", m.Title, "error", err)
		return
	}
	slog.Debug("profile shared", "title", m.Title)
}

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Clipboard copies the message text to the system clipboard.
type Clipboard struct{}

func (Clipboard) Share(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboardWriteAll(m.Text); err != nil {
		return fmt.Errorf("writing to clipboard: %w", err)
	}
	return nil
}

// Writer prints the message to W.
type Writer struct {
	W io.Writer
}

func (w Writer) Share(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.W, "%s\n%s\n", m.Title, m.Text)
	return err
}

// New returns the service for a configured target: "clipboard" or "stdout".
func New(target string, stdout io.Writer) (Service, error) {
	switch target {
	case "clipboard":
		return Clipboard{}, nil
	case "stdout":
		return Writer{W: stdout}, nil
	}
	return nil, fmt.Errorf("invalid share target %q (want clipboard or stdout)", target)
}
