package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kalambet/procard/internal/alert"
	"github.com/kalambet/procard/internal/picker"
	"github.com/kalambet/procard/internal/profile"
)

type stubPicker struct {
	perm picker.Permission
	uri  string
}

func (s stubPicker) RequestPermission(context.Context) (picker.Permission, error) {
	return s.perm, nil
}

func (s stubPicker) PickImage(context.Context, picker.Constraints) (picker.Asset, error) {
	if s.uri == "" {
		return picker.Asset{}, picker.ErrCancelled
	}
	return picker.Asset{URI: s.uri}, nil
}

func newTestNavigator(t *testing.T) *Navigator {
	t.Helper()
	return New(profile.NewStore(profile.DefaultSeed()), Options{
		Picker: stubPicker{perm: picker.Granted, uri: "file:///default.png"},
	})
}

func TestOpen_OnlyOneEditor(t *testing.T) {
	nav := newTestNavigator(t)

	first, err := nav.Open(false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if first.State != profile.Editing {
		t.Errorf("State = %s, want editing", first.State)
	}
	if _, err := nav.Open(false); !errors.Is(err, ErrEditorOpen) {
		t.Errorf("second Open err = %v, want ErrEditorOpen", err)
	}

	second, err := nav.Open(true)
	if err != nil {
		t.Fatalf("forced Open: %v", err)
	}
	if second.ID == first.ID {
		t.Error("forced Open should start a fresh editor")
	}
	if _, err := nav.Do(first.ID, func(*profile.Editor) error { return nil }); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Do(old id) err = %v, want ErrSessionClosed", err)
	}
}

func TestDo_CommitClosesSession(t *testing.T) {
	nav := newTestNavigator(t)
	v, _ := nav.Open(false)

	v, err := nav.Do(v.ID, func(ed *profile.Editor) error {
		if err := ed.SetField(profile.FieldBio, "new bio"); err != nil {
			return err
		}
		return ed.Commit()
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if v.State != profile.Committed {
		t.Errorf("State = %s, want committed", v.State)
	}
	if nav.Store().Record().Bio != "new bio" {
		t.Error("commit did not reach the store")
	}
	if _, ok := nav.Current(); ok {
		t.Error("no editor should be open after commit")
	}
	if _, err := nav.Do(v.ID, func(*profile.Editor) error { return nil }); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("err = %v, want ErrSessionClosed", err)
	}
	if _, err := nav.Open(false); err != nil {
		t.Errorf("Open after commit: %v", err)
	}
}

func TestDo_ValidationKeepsSessionAndReturnsAlerts(t *testing.T) {
	nav := newTestNavigator(t)
	v, _ := nav.Open(false)

	v, err := nav.Do(v.ID, func(ed *profile.Editor) error {
		ed.SetField(profile.FieldLastName, " ")
		return ed.Commit()
	})
	var ve *profile.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if v.State != profile.Editing {
		t.Errorf("State = %s, want editing", v.State)
	}
	if len(v.Alerts) != 1 || v.Alerts[0] != alert.MissingName {
		t.Errorf("Alerts = %v, want [MissingName]", v.Alerts)
	}

	cur, ok := nav.Current()
	if !ok || cur.ID != v.ID {
		t.Fatal("editor should still be open")
	}
	if len(cur.Alerts) != 0 {
		t.Errorf("alerts should be drained once, got %v", cur.Alerts)
	}
}

func TestDiscard(t *testing.T) {
	nav := newTestNavigator(t)
	before := nav.Store().Record()
	v, _ := nav.Open(false)

	nav.Do(v.ID, func(ed *profile.Editor) error { return ed.SetField(profile.FieldFirstName, "X") })
	v, err := nav.Discard(v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.State != profile.Discarded {
		t.Errorf("State = %s, want discarded", v.State)
	}
	if nav.Store().Record().FirstName != before.FirstName {
		t.Error("discard changed the store")
	}
}

func TestDo_UnknownID(t *testing.T) {
	nav := newTestNavigator(t)
	if _, err := nav.Do("nope", func(*profile.Editor) error { return nil }); !errors.Is(err, ErrNoEditor) {
		t.Errorf("err = %v, want ErrNoEditor", err)
	}
}

func TestSelectImage_RequestPicker(t *testing.T) {
	nav := newTestNavigator(t)
	v, _ := nav.Open(false)

	sel, view, err := nav.SelectImage(context.Background(), v.ID, stubPicker{perm: picker.Granted, uri: "file:///chosen.png"})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Outcome != picker.Picked || view.Draft.ProfilePicture != "file:///chosen.png" {
		t.Errorf("sel = %+v, picture = %q", sel, view.Draft.ProfilePicture)
	}

	// The default library is restored after the call.
	_, view, err = nav.SelectImage(context.Background(), v.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if view.Draft.ProfilePicture != "file:///default.png" {
		t.Errorf("picture = %q, want default library pick", view.Draft.ProfilePicture)
	}
}

func TestSelectImage_DeniedAlerts(t *testing.T) {
	nav := newTestNavigator(t)
	v, _ := nav.Open(false)

	sel, view, err := nav.SelectImage(context.Background(), v.ID, stubPicker{perm: picker.Denied})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Outcome != picker.Refused {
		t.Errorf("Outcome = %q, want denied", sel.Outcome)
	}
	if len(view.Alerts) != 1 || view.Alerts[0] != alert.PermissionRequired {
		t.Errorf("Alerts = %v, want [PermissionRequired]", view.Alerts)
	}
}

func TestDo_Serialized(t *testing.T) {
	nav := newTestNavigator(t)
	v, _ := nav.Open(false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nav.Do(v.ID, func(ed *profile.Editor) error {
				_, err := ed.AddInterest("x", profile.IconStar)
				return err
			})
		}()
	}
	wg.Wait()

	cur, _ := nav.Current()
	if n := len(cur.Draft.Interests); n != 25 {
		t.Fatalf("interests = %d, want 25", n)
	}
	seen := map[int]bool{}
	for _, in := range cur.Draft.Interests {
		if seen[in.ID] {
			t.Fatalf("duplicate id %d", in.ID)
		}
		seen[in.ID] = true
	}
}
