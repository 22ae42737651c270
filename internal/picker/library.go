package picker

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownAsset is returned when a chooser names an asset the library does
// not offer.
var ErrUnknownAsset = errors.New("asset not in photo library")

// Chooser lets the user pick one of the offered assets. It returns
// ErrCancelled when the user backs out.
type Chooser func(ctx context.Context, assets []Asset) (Asset, error)

// Library is a directory of images acting as the device photo library.
type Library struct {
	dir        string
	permission Permission
	choose     Chooser
}

// NewLibrary returns a library over dir. Every permission request is
// answered with perm. The default chooser cancels.
func NewLibrary(dir string, perm Permission) *Library {
	return &Library{dir: dir, permission: perm, choose: cancelChooser}
}

// WithChooser returns a copy of l that picks with ch.
func (l *Library) WithChooser(ch Chooser) *Library {
	cp := *l
	cp.choose = ch
	return &cp
}

func (l *Library) Dir() string { return l.dir }

func (l *Library) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return Denied, err
	}
	slog.Debug("photo library permission requested", "dir", l.dir, "permission", l.permission)
	return l.permission, nil
}

func (l *Library) PickImage(ctx context.Context, c Constraints) (Asset, error) {
	if l.permission != Granted {
		return Asset{}, fmt.Errorf("photo library access %s", l.permission)
	}
	assets, err := l.Assets(c)
	if err != nil {
		return Asset{}, err
	}
	return l.choose(ctx, assets)
}

// Assets lists the images in the library that satisfy c, sorted by name.
// A missing directory is an empty library.
func (l *Library) Assets(c Constraints) ([]Asset, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading photo library: %w", err)
	}

	var assets []Asset
	for _, e := range entries {
		if e.IsDir() || !isImageName(e.Name()) {
			continue
		}
		path := filepath.Join(l.dir, e.Name())
		w, h, err := imageSize(path)
		if err != nil {
			slog.Warn("skipping unreadable image", "path", path, "error", err)
			continue
		}
		if !c.AllowsEditing && !matchesAspect(w, h, c.Aspect) {
			continue
		}
		assets = append(assets, Asset{
			URI:    fileURI(path),
			Name:   e.Name(),
			Width:  w,
			Height: h,
		})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

// ChooseURI returns a chooser that picks the asset whose URI or file name is
// ref. An empty ref cancels.
func ChooseURI(ref string) Chooser {
	return func(ctx context.Context, assets []Asset) (Asset, error) {
		if err := ctx.Err(); err != nil {
			return Asset{}, err
		}
		if ref == "" {
			return Asset{}, ErrCancelled
		}
		for _, a := range assets {
			if a.URI == ref || a.Name == ref {
				return a, nil
			}
		}
		return Asset{}, fmt.Errorf("%w: %s", ErrUnknownAsset, ref)
	}
}

func cancelChooser(context.Context, []Asset) (Asset, error) {
	return Asset{}, ErrCancelled
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func matchesAspect(w, h int, a Aspect) bool {
	if a.W == 0 || a.H == 0 {
		return true
	}
	return w*a.H == h*a.W
}

func fileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
