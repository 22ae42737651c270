// Package picker models the device photo library: a permission prompt
// followed by a single image selection.
package picker

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled is returned by PickImage when the user dismisses the picker.
var ErrCancelled = errors.New("image selection cancelled")

// Permission is the answer to a photo library permission request.
type Permission int

const (
	Denied Permission = iota
	Granted
)

func (p Permission) String() string {
	if p == Granted {
		return "granted"
	}
	return "denied"
}

// ParsePermission parses "granted" or "denied".
func ParsePermission(s string) (Permission, error) {
	switch s {
	case "granted":
		return Granted, nil
	case "denied":
		return Denied, nil
	}
	return Denied, fmt.Errorf("invalid permission %q (want granted or denied)", s)
}

// Aspect is a width:height ratio. The zero value means unconstrained.
type Aspect struct {
	W, H int
}

// Constraints narrow what the picker offers.
type Constraints struct {
	ImagesOnly bool
	// AllowsEditing lets the user crop to Aspect after picking, so assets
	// of any shape are offered. Without it only assets already matching
	// Aspect are offered.
	AllowsEditing bool
	Aspect        Aspect
	Multiple      bool
	Quality       float64
}

// ProfilePhoto is the constraint set used for profile pictures: a single
// image cropped square at full quality.
var ProfilePhoto = Constraints{
	ImagesOnly:    true,
	AllowsEditing: true,
	Aspect:        Aspect{W: 1, H: 1},
	Quality:       1,
}

// Asset is a picked image. Callers only consume URI.
type Asset struct {
	URI    string `json:"uri"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Service is the photo library collaborator.
type Service interface {
	RequestPermission(ctx context.Context) (Permission, error)
	PickImage(ctx context.Context, c Constraints) (Asset, error)
}

// Outcome tags a Selection.
type Outcome string

const (
	Picked    Outcome = "picked"
	Refused   Outcome = "denied"
	Cancelled Outcome = "cancelled"
)

// Selection is the result of one permission-then-pick round trip.
// URI is set only when Outcome is Picked.
type Selection struct {
	Outcome Outcome `json:"outcome"`
	URI     string  `json:"uri,omitempty"`
}

// Select requests permission and, if granted, picks one image. Denial and
// cancellation are outcomes, not errors; an error means the library itself
// failed.
func Select(ctx context.Context, svc Service, c Constraints) (Selection, error) {
	perm, err := svc.RequestPermission(ctx)
	if err != nil {
		return Selection{}, fmt.Errorf("requesting photo permission: %w", err)
	}
	if perm != Granted {
		return Selection{Outcome: Refused}, nil
	}

	asset, err := svc.PickImage(ctx, c)
	if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
		return Selection{Outcome: Cancelled}, nil
	}
	if err != nil {
		return Selection{}, fmt.Errorf("picking image: %w", err)
	}
	return Selection{Outcome: Picked, URI: asset.URI}, nil
}
