package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxSummaryChars keeps the summary short enough for a status line or a
// tool result.
const maxSummaryChars = 600

// Summary returns a compact one-paragraph description of r.
func Summary(r Record) string {
	var parts []string

	if name := r.DisplayName(); name != "" {
		parts = append(parts, name+".")
	}
	if bio := strings.TrimSpace(r.Bio); bio != "" {
		if !strings.HasSuffix(bio, ".") {
			bio += "."
		}
		parts = append(parts, bio)
	}
	if r.Connections > 0 || r.Views > 0 {
		parts = append(parts, fmt.Sprintf("%d connections, %d profile views.", r.Connections, r.Views))
	}
	if len(r.Interests) > 0 {
		names := make([]string, len(r.Interests))
		for i, in := range r.Interests {
			names[i] = in.Name
		}
		parts = append(parts, fmt.Sprintf("Interests: %s.", strings.Join(names, ", ")))
	}
	if len(r.Skills) > 0 {
		skills := make([]string, len(r.Skills))
		for i, s := range r.Skills {
			skills[i] = fmt.Sprintf("%s (%d%%)", s.Name, s.Level)
		}
		parts = append(parts, fmt.Sprintf("Skills: %s.", strings.Join(skills, ", ")))
	}

	if len(parts) == 0 {
		return "Profile: not yet filled in."
	}

	summary := strings.Join(parts, " ")
	if len(summary) > maxSummaryChars {
		// Don't split a multi-byte rune.
		end := maxSummaryChars
		for end > 0 && !utf8.RuneStart(summary[end]) {
			end--
		}
		if idx := strings.LastIndex(summary[:end], " "); idx > 0 {
			summary = summary[:idx]
		} else {
			summary = summary[:end]
		}
	}
	return summary
}
