package card

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kalambet/procard/internal/profile"
)

func TestBar(t *testing.T) {
	tests := []struct {
		level, width int
		filled       int
	}{
		{95, 20, 19},
		{0, 10, 0},
		{100, 10, 10},
		{150, 10, 10},
		{-5, 10, 0},
		{50, 7, 3},
	}
	for _, tt := range tests {
		bar := Bar(tt.level, tt.width)
		if n := utf8.RuneCountInString(bar); n != tt.width {
			t.Errorf("Bar(%d, %d) width = %d", tt.level, tt.width, n)
		}
		if n := strings.Count(bar, "█"); n != tt.filled {
			t.Errorf("Bar(%d, %d) filled = %d, want %d", tt.level, tt.width, n, tt.filled)
		}
	}
}

func TestRender_Seed(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, Options{Width: 70}).Render(profile.DefaultSeed())

	for _, want := range []string{
		"Thandeka Mazibuko",
		"487", "Connections",
		"132", "Profile Views",
		"React Native", "Photography",
		"Stanford University",
		"Top Mobile Developer",
		"TypeScript",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "█") {
		t.Error("skill bars should be collapsed by default")
	}
}

func TestRender_SkillDetails(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, Options{Width: 70, ShowSkills: true}).Render(profile.DefaultSeed())
	if !strings.Contains(out, "95%") || !strings.Contains(out, "█") {
		t.Errorf("expanded skills should show level bars:\n%s", out)
	}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, Options{}).Render(profile.Record{FirstName: "A", LastName: "B"})
	if !strings.Contains(out, "No bio yet.") || !strings.Contains(out, "No interests added.") {
		t.Errorf("empty sections should render placeholders:\n%s", out)
	}
}
