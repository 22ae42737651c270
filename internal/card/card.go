// Package card renders a profile record for the terminal.
package card

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kalambet/procard/internal/profile"
)

const (
	brandBlue  = lipgloss.Color("#0077B5")
	brandLight = lipgloss.Color("#00A0DC")
	gold       = lipgloss.Color("#FFD700")
	muted      = lipgloss.Color("#666666")

	defaultWidth = 60
	barPadding   = 24
)

// Options control what the card shows.
type Options struct {
	Width int
	// ShowSkills expands the skills section into level bars.
	ShowSkills bool
}

type styles struct {
	header  lipgloss.Style
	name    lipgloss.Style
	stat    lipgloss.Style
	label   lipgloss.Style
	section lipgloss.Style
	icon    lipgloss.Style
	trophy  lipgloss.Style
	muted   lipgloss.Style
	bar     lipgloss.Style
	frame   lipgloss.Style
}

// Card renders records with a fixed set of options.
type Card struct {
	opts Options
	st   styles
}

// New returns a Card whose colors suit out. Writers that are not terminals
// get plain text.
func New(out io.Writer, opts Options) *Card {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	re := lipgloss.NewRenderer(out)
	return &Card{
		opts: opts,
		st: styles{
			header:  re.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(brandBlue).Padding(0, 2).Bold(true),
			name:    re.NewStyle().Bold(true).Foreground(brandLight),
			stat:    re.NewStyle().Bold(true),
			label:   re.NewStyle().Foreground(muted),
			section: re.NewStyle().Bold(true).Foreground(brandBlue).MarginTop(1),
			icon:    re.NewStyle().Foreground(brandBlue),
			trophy:  re.NewStyle().Foreground(gold),
			muted:   re.NewStyle().Foreground(muted).Italic(true),
			bar:     re.NewStyle().Foreground(brandBlue),
			frame:   re.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(brandBlue).Padding(0, 1).Width(opts.Width),
		},
	}
}

// Render draws r as a card.
func (c *Card) Render(r profile.Record) string {
	var b strings.Builder
	st := c.st

	b.WriteString(st.name.Render(r.DisplayName()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s",
		st.stat.Render(fmt.Sprint(r.Connections)), st.label.Render("Connections"),
		st.stat.Render(fmt.Sprint(r.Views)), st.label.Render("Profile Views"),
	))
	b.WriteString("\n")
	if r.ProfilePicture != "" {
		b.WriteString(st.label.Render("Photo: " + r.ProfilePicture))
		b.WriteString("\n")
	}

	c.section(&b, "About")
	if strings.TrimSpace(r.Bio) == "" {
		b.WriteString(st.muted.Render("No bio yet."))
	} else {
		b.WriteString(r.Bio)
	}
	b.WriteString("\n")

	c.section(&b, "Interests")
	if len(r.Interests) == 0 {
		b.WriteString(st.muted.Render("No interests added."))
		b.WriteString("\n")
	}
	for _, in := range r.Interests {
		fmt.Fprintf(&b, "%s %s\n", st.icon.Render(in.Icon.Glyph()), in.Name)
	}

	if len(r.Education) > 0 {
		c.section(&b, "Education")
		for _, e := range r.Education {
			fmt.Fprintf(&b, "%s %s\n  %s  %s\n", st.icon.Render("🎓"), st.stat.Render(e.School), e.Degree, st.label.Render(e.Year))
		}
	}

	if len(r.Achievements) > 0 {
		c.section(&b, "Achievements")
		for _, a := range r.Achievements {
			fmt.Fprintf(&b, "%s %s  %s\n", st.trophy.Render("🏆"), a.Title, st.label.Render(a.Year))
		}
	}

	if len(r.Skills) > 0 {
		c.section(&b, "Skills")
		if !c.opts.ShowSkills {
			names := make([]string, len(r.Skills))
			for i, s := range r.Skills {
				names[i] = s.Name
			}
			b.WriteString(strings.Join(names, " · "))
			b.WriteString("\n")
		} else {
			for _, s := range r.Skills {
				fmt.Fprintf(&b, "%-14s %s %3d%%\n", s.Name, st.bar.Render(Bar(s.Level, c.barWidth())), s.Level)
			}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		st.header.Render("Professional Profile"),
		st.frame.Render(strings.TrimRight(b.String(), "\n")),
	)
}

func (c *Card) section(b *strings.Builder, title string) {
	b.WriteString(c.st.section.Render(title))
	b.WriteString("\n")
}

func (c *Card) barWidth() int {
	w := c.opts.Width - barPadding
	if w < 10 {
		w = 10
	}
	return w
}

// Bar draws a level in [0, 100] as a bar of width cells, filled in
// proportion to level.
func Bar(level, width int) string {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	filled := level * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
