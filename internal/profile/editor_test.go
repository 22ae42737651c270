package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kalambet/procard/internal/alert"
	"github.com/kalambet/procard/internal/picker"
)

// --- Mock picker ---

type mockPicker struct {
	perm     picker.Permission
	asset    picker.Asset
	pickErr  error
	permErr  error
	pickCall int
}

func (m *mockPicker) RequestPermission(context.Context) (picker.Permission, error) {
	return m.perm, m.permErr
}

func (m *mockPicker) PickImage(_ context.Context, c picker.Constraints) (picker.Asset, error) {
	m.pickCall++
	if c.Aspect != (picker.Aspect{W: 1, H: 1}) || c.Multiple {
		return picker.Asset{}, errors.New("editor must ask for a single square image")
	}
	return m.asset, m.pickErr
}

// --- helpers ---

func scenarioRecord() Record {
	return Record{
		FirstName: "Thandeka",
		LastName:  "Mazibuko",
		Interests: []Interest{
			{ID: 1, Name: "React Native", Icon: IconReact},
			{ID: 2, Name: "UX Design", Icon: IconPaintBrush},
		},
		Connections: 487,
		Views:       132,
		Skills:      []Skill{{ID: 1, Name: "Go", Level: 90}},
	}
}

func assertUniqueIDs(t *testing.T, interests []Interest) {
	t.Helper()
	seen := make(map[int]bool)
	for _, in := range interests {
		if seen[in.ID] {
			t.Fatalf("duplicate interest id %d in %+v", in.ID, interests)
		}
		seen[in.ID] = true
	}
}

// --- Tests ---

func TestEditor_DraftIsIsolated(t *testing.T) {
	src := scenarioRecord()
	ed := NewEditor(src, nil)

	if err := ed.SetField(FieldFirstName, "Zanele"); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.AddInterest("Chess", IconStar); err != nil {
		t.Fatal(err)
	}

	if src.FirstName != "Thandeka" || len(src.Interests) != 2 {
		t.Errorf("source record mutated: %+v", src)
	}

	d := ed.Draft()
	d.Interests[0].Name = "changed"
	if ed.Draft().Interests[0].Name == "changed" {
		t.Error("Draft() must return a copy")
	}
}

func TestEditor_SetField(t *testing.T) {
	ed := NewEditor(scenarioRecord(), nil)

	for _, f := range Fields {
		if err := ed.SetField(f, "value-"+string(f)); err != nil {
			t.Fatalf("SetField(%s): %v", f, err)
		}
		got, err := ed.Draft().Get(f)
		if err != nil {
			t.Fatal(err)
		}
		if got != "value-"+string(f) {
			t.Errorf("%s = %q, want %q", f, got, "value-"+string(f))
		}
	}

	if err := ed.SetField(Field("connections"), "9000"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("SetField(connections) err = %v, want ErrUnknownField", err)
	}
}

func TestEditor_SetFieldDoesNotValidate(t *testing.T) {
	ed := NewEditor(scenarioRecord(), nil)
	if err := ed.SetField(FieldFirstName, "   "); err != nil {
		t.Errorf("SetField with blank value should not fail, got %v", err)
	}
}

func TestEditor_AddInterest(t *testing.T) {
	var rec alert.Recorder
	ed := NewEditor(scenarioRecord(), nil, WithAlerts(&rec))
	ed.ShowAddForm(true)
	ed.SetPendingLabel("Chess")

	in, err := ed.AddInterest("  Chess  ", IconBook)
	if err != nil {
		t.Fatalf("AddInterest: %v", err)
	}
	if in.Name != "Chess" {
		t.Errorf("Name = %q, want trimmed %q", in.Name, "Chess")
	}
	if in.ID != 3 {
		t.Errorf("ID = %d, want 3", in.ID)
	}

	d := ed.Draft()
	if last := d.Interests[len(d.Interests)-1]; last != in {
		t.Errorf("last interest = %+v, want %+v appended", last, in)
	}
	if p := ed.Pending(); p != (Pending{Icon: DefaultIcon}) {
		t.Errorf("Pending = %+v, want reset and hidden", p)
	}
	if alerts := rec.Drain(); len(alerts) != 0 {
		t.Errorf("unexpected alerts: %v", alerts)
	}
}

func TestEditor_AddInterestDefaultsIcon(t *testing.T) {
	ed := NewEditor(scenarioRecord(), nil)
	in, err := ed.AddInterest("Chess", "")
	if err != nil {
		t.Fatal(err)
	}
	if in.Icon != IconStar {
		t.Errorf("Icon = %q, want %q", in.Icon, IconStar)
	}
}

func TestEditor_AddInterestEmptyLabel(t *testing.T) {
	for _, label := range []string{"", "   ", "\t\n"} {
		var rec alert.Recorder
		ed := NewEditor(scenarioRecord(), nil, WithAlerts(&rec))
		ed.ShowAddForm(true)

		_, err := ed.AddInterest(label, IconStar)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Reason != ReasonEmptyInterest {
			t.Errorf("AddInterest(%q) err = %v, want empty interest validation error", label, err)
		}
		if n := len(ed.Draft().Interests); n != 2 {
			t.Errorf("AddInterest(%q) changed interests length to %d", label, n)
		}
		if !ed.Pending().Visible {
			t.Error("form should stay visible after a failed add")
		}
		if alerts := rec.Drain(); len(alerts) != 1 || alerts[0] != alert.EmptyInterest {
			t.Errorf("alerts = %v, want [EmptyInterest]", alerts)
		}
	}
}

func TestEditor_AddInterestUnknownIcon(t *testing.T) {
	ed := NewEditor(scenarioRecord(), nil)
	_, err := ed.AddInterest("Chess", Icon("rocket"))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Reason != ReasonUnknownIcon {
		t.Errorf("err = %v, want unknown icon validation error", err)
	}
}

func TestEditor_PendingForm(t *testing.T) {
	ed := NewEditor(scenarioRecord(), nil)

	if err := ed.ToggleAddForm(); err != nil {
		t.Fatal(err)
	}
	if !ed.Pending().Visible {
		t.Fatal("ToggleAddForm should show the form")
	}
	ed.SetPendingLabel("Jazz")
	if err := ed.SetPendingIcon(IconMusic); err != nil {
		t.Fatal(err)
	}
	if err := ed.SetPendingIcon(IconReact); err == nil {
		t.Error("react is not offered by the form and should be rejected")
	}

	in, err := ed.SubmitPending()
	if err != nil {
		t.Fatalf("SubmitPending: %v", err)
	}
	if in.Name != "Jazz" || in.Icon != IconMusic {
		t.Errorf("interest = %+v, want Jazz/music", in)
	}
	if ed.Pending().Visible {
		t.Error("form should be hidden after a successful add")
	}
}

func TestEditor_RemoveInterest(t *testing.T) {
	ed := NewEditor(scenarioRecord(), nil)

	removed, err := ed.RemoveInterest(1)
	if err != nil || !removed {
		t.Fatalf("RemoveInterest(1) = %v, %v", removed, err)
	}
	want := []Interest{{ID: 2, Name: "UX Design", Icon: IconPaintBrush}}
	if diff := cmp.Diff(want, ed.Draft().Interests); diff != "" {
		t.Errorf("interests mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_RemoveMissingInterest(t *testing.T) {
	ed := NewEditor(scenarioRecord(), nil)
	before := ed.Draft().Interests

	removed, err := ed.RemoveInterest(42)
	if err != nil || removed {
		t.Fatalf("RemoveInterest(42) = %v, %v, want false, nil", removed, err)
	}
	if diff := cmp.Diff(before, ed.Draft().Interests); diff != "" {
		t.Errorf("interests changed (-before +after):\n%s", diff)
	}
}

func TestEditor_IDsStayUnique(t *testing.T) {
	for _, policy := range []IDPolicy{PolicyCounter, PolicyMax} {
		t.Run(string(policy), func(t *testing.T) {
			ed := NewEditor(scenarioRecord(), nil, WithIDPolicy(policy))
			ops := []func(){
				func() { ed.AddInterest("a", IconStar) },
				func() { ed.RemoveInterest(3) },
				func() { ed.AddInterest("b", IconCode) },
				func() { ed.RemoveInterest(1) },
				func() { ed.AddInterest("c", IconBook) },
				func() { ed.RemoveInterest(2) },
				func() { ed.AddInterest("d", IconFilm) },
				func() { ed.AddInterest("e", IconFilm) },
			}
			for _, op := range ops {
				op()
				assertUniqueIDs(t, ed.Draft().Interests)
			}
		})
	}
}

func TestEditor_CounterNeverReuses(t *testing.T) {
	ed := NewEditor(scenarioRecord(), nil)
	seen := map[int]bool{1: true, 2: true}
	for i := 0; i < 5; i++ {
		in, err := ed.AddInterest("x", IconStar)
		if err != nil {
			t.Fatal(err)
		}
		if seen[in.ID] {
			t.Fatalf("id %d handed out twice", in.ID)
		}
		seen[in.ID] = true
		ed.RemoveInterest(in.ID)
	}
}

func TestEditor_CommitScenario(t *testing.T) {
	tests := []struct {
		policy IDPolicy
		wantID int
	}{
		{PolicyCounter, 3},
		{PolicyMax, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			store := NewStore(scenarioRecord())
			ed := store.Edit(WithIDPolicy(tt.policy))

			if _, err := ed.RemoveInterest(2); err != nil {
				t.Fatal(err)
			}
			if _, err := ed.AddInterest("Chess", IconStar); err != nil {
				t.Fatal(err)
			}
			if err := ed.Commit(); err != nil {
				t.Fatalf("Commit: %v", err)
			}

			want := []Interest{
				{ID: 1, Name: "React Native", Icon: IconReact},
				{ID: tt.wantID, Name: "Chess", Icon: IconStar},
			}
			if diff := cmp.Diff(want, store.Record().Interests); diff != "" {
				t.Errorf("committed interests mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEditor_CommitRequiresNames(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		ok    bool
	}{
		{"both", "Thandeka", "Mazibuko", true},
		{"padded", "  Thandeka ", " Mazibuko", true},
		{"blank first", "  ", "Mazibuko", false},
		{"empty last", "Thandeka", "", false},
		{"both blank", "", "\t", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec alert.Recorder
			store := NewStore(scenarioRecord())
			before := store.Record()
			ed := store.Edit(WithAlerts(&rec))
			ed.SetField(FieldFirstName, tt.first)
			ed.SetField(FieldLastName, tt.last)
			draft := ed.Draft()

			err := ed.Commit()
			if tt.ok {
				if err != nil {
					t.Fatalf("Commit: %v", err)
				}
				if diff := cmp.Diff(draft, store.Record()); diff != "" {
					t.Errorf("store != draft (-draft +store):\n%s", diff)
				}
				if ed.State() != Committed {
					t.Errorf("State = %s, want committed", ed.State())
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Reason != ReasonMissingName {
				t.Fatalf("Commit err = %v, want missing name validation error", err)
			}
			if diff := cmp.Diff(before, store.Record()); diff != "" {
				t.Errorf("store changed on failed commit (-before +after):\n%s", diff)
			}
			if ed.State() != Editing {
				t.Errorf("State = %s, want editing", ed.State())
			}
			if diff := cmp.Diff(draft, ed.Draft()); diff != "" {
				t.Errorf("draft changed on failed commit:\n%s", diff)
			}
			if alerts := rec.Drain(); len(alerts) != 1 || alerts[0] != alert.MissingName {
				t.Errorf("alerts = %v, want [MissingName]", alerts)
			}
		})
	}
}

func TestEditor_RetryAfterFailedCommit(t *testing.T) {
	store := NewStore(scenarioRecord())
	ed := store.Edit()

	ed.SetField(FieldFirstName, "  ")
	if err := ed.Commit(); err == nil {
		t.Fatal("expected validation error")
	}
	ed.SetField(FieldFirstName, "Thandeka")
	if err := ed.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if store.Record().FirstName != "Thandeka" {
		t.Errorf("FirstName = %q, want Thandeka", store.Record().FirstName)
	}
}

func TestEditor_DiscardLeavesStore(t *testing.T) {
	store := NewStore(scenarioRecord())
	before := store.Record()

	var backState State
	ed := store.Edit(OnBack(func(s State) { backState = s }))
	ed.SetField(FieldFirstName, "Someone")
	ed.SetField(FieldBio, "else")
	ed.AddInterest("Chess", IconStar)
	ed.RemoveInterest(1)
	ed.Discard()

	if diff := cmp.Diff(before, store.Record()); diff != "" {
		t.Errorf("store changed by discarded draft (-before +after):\n%s", diff)
	}
	if store.Commits() != 0 {
		t.Errorf("Commits = %d, want 0", store.Commits())
	}
	if backState != Discarded {
		t.Errorf("back signal state = %q, want discarded", backState)
	}
}

func TestEditor_ClosedEditorRejectsOperations(t *testing.T) {
	backCalls := 0
	ed := NewEditor(scenarioRecord(), func(Record) {}, OnBack(func(State) { backCalls++ }))
	if err := ed.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := ed.SetField(FieldBio, "x"); !errors.Is(err, ErrEditorClosed) {
		t.Errorf("SetField err = %v, want ErrEditorClosed", err)
	}
	if _, err := ed.AddInterest("x", IconStar); !errors.Is(err, ErrEditorClosed) {
		t.Errorf("AddInterest err = %v, want ErrEditorClosed", err)
	}
	if _, err := ed.RemoveInterest(1); !errors.Is(err, ErrEditorClosed) {
		t.Errorf("RemoveInterest err = %v, want ErrEditorClosed", err)
	}
	if _, err := ed.SelectImage(context.Background()); !errors.Is(err, ErrEditorClosed) {
		t.Errorf("SelectImage err = %v, want ErrEditorClosed", err)
	}
	if err := ed.Commit(); !errors.Is(err, ErrEditorClosed) {
		t.Errorf("Commit err = %v, want ErrEditorClosed", err)
	}
	ed.Discard()
	if ed.State() != Committed {
		t.Errorf("State = %s, want committed", ed.State())
	}
	if backCalls != 1 {
		t.Errorf("back signal fired %d times, want 1", backCalls)
	}
}

func TestEditor_SelectImage(t *testing.T) {
	const uri = "file:///photos/me.png"

	tests := []struct {
		name        string
		picker      *mockPicker
		wantOutcome picker.Outcome
		wantPicture string
		wantAlert   bool
	}{
		{
			name:        "picked",
			picker:      &mockPicker{perm: picker.Granted, asset: picker.Asset{URI: uri}},
			wantOutcome: picker.Picked,
			wantPicture: uri,
		},
		{
			name:        "denied",
			picker:      &mockPicker{perm: picker.Denied},
			wantOutcome: picker.Refused,
			wantPicture: "old.png",
			wantAlert:   true,
		},
		{
			name:        "cancelled",
			picker:      &mockPicker{perm: picker.Granted, pickErr: picker.ErrCancelled},
			wantOutcome: picker.Cancelled,
			wantPicture: "old.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec alert.Recorder
			r := scenarioRecord()
			r.ProfilePicture = "old.png"
			ed := NewEditor(r, nil, WithPicker(tt.picker), WithAlerts(&rec))

			sel, err := ed.SelectImage(context.Background())
			if err != nil {
				t.Fatalf("SelectImage: %v", err)
			}
			if sel.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", sel.Outcome, tt.wantOutcome)
			}
			if got := ed.Draft().ProfilePicture; got != tt.wantPicture {
				t.Errorf("ProfilePicture = %q, want %q", got, tt.wantPicture)
			}
			alerts := rec.Drain()
			if tt.wantAlert && (len(alerts) != 1 || alerts[0] != alert.PermissionRequired) {
				t.Errorf("alerts = %v, want [PermissionRequired]", alerts)
			}
			if !tt.wantAlert && len(alerts) != 0 {
				t.Errorf("unexpected alerts: %v", alerts)
			}
		})
	}
}

func TestEditor_SelectImagePickerFailure(t *testing.T) {
	r := scenarioRecord()
	r.ProfilePicture = "old.png"
	ed := NewEditor(r, nil, WithPicker(&mockPicker{permErr: errors.New("boom")}))

	if _, err := ed.SelectImage(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if ed.Draft().ProfilePicture != "old.png" {
		t.Error("draft changed on picker failure")
	}
	if ed.State() != Editing {
		t.Errorf("State = %s, want editing", ed.State())
	}
}
