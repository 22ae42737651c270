package profile

import (
	"fmt"
	"strings"
)

// Record is the canonical profile shown on the display screen.
// Connections, Views, Achievements, Skills and Education are display-only:
// the editor carries them through a commit unchanged.
type Record struct {
	FirstName      string        `json:"firstName" yaml:"firstName"`
	LastName       string        `json:"lastName" yaml:"lastName"`
	ProfilePicture string        `json:"profilePicture" yaml:"profilePicture"`
	Bio            string        `json:"bio" yaml:"bio"`
	Interests      []Interest    `json:"interests" yaml:"interests"`
	Connections    int           `json:"connections" yaml:"connections"`
	Views          int           `json:"views" yaml:"views"`
	Achievements   []Achievement `json:"achievements" yaml:"achievements"`
	Skills         []Skill       `json:"skills" yaml:"skills"`
	Education      []Education   `json:"education" yaml:"education"`
}

// FullName joins first and last name the way the display shows them.
func (r Record) FullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

// DisplayName is FullName with each part trimmed.
func (r Record) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// Interest is a labeled, iconified tag. ID is unique within a record.
type Interest struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon Icon   `json:"icon" yaml:"icon"`
}

type Achievement struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Year  string `json:"year" yaml:"year"`
}

// Skill level is a percentage in [0, 100].
type Skill struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Level int    `json:"level" yaml:"level"`
}

type Education struct {
	ID     int    `json:"id" yaml:"id"`
	School string `json:"school" yaml:"school"`
	Degree string `json:"degree" yaml:"degree"`
	Year   string `json:"year" yaml:"year"`
}

// Icon names an interest icon.
type Icon string

const (
	IconStar       Icon = "star"
	IconCode       Icon = "code"
	IconPaintBrush Icon = "paint-brush"
	IconMusic      Icon = "music"
	IconBook       Icon = "book"
	IconFilm       Icon = "film"
	IconCamera     Icon = "camera"
	IconReact      Icon = "react"
	IconMicrochip  Icon = "microchip"
	IconTree       Icon = "tree"
)

// DefaultIcon is preselected in the add-interest form.
const DefaultIcon = IconStar

// SelectableIcons is the icon set offered by the add-interest form, in
// display order.
var SelectableIcons = []Icon{
	IconStar, IconCode, IconPaintBrush, IconMusic, IconBook, IconFilm, IconCamera,
}

var glyphs = map[Icon]string{
	IconStar:       "★",
	IconCode:       "</>",
	IconPaintBrush: "🖌",
	IconMusic:      "♪",
	IconBook:       "📖",
	IconFilm:       "🎞",
	IconCamera:     "📷",
	IconReact:      "⚛",
	IconMicrochip:  "▣",
	IconTree:       "🌲",
}

// Valid reports whether i belongs to the fixed icon set.
func (i Icon) Valid() bool {
	_, ok := glyphs[i]
	return ok
}

// Glyph returns the terminal glyph for i, or "•" for unknown icons.
func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return "•"
}

// Field names an editable scalar field of a Record.
type Field string

const (
	FieldFirstName      Field = "first_name"
	FieldLastName       Field = "last_name"
	FieldBio            Field = "bio"
	FieldProfilePicture Field = "profile_picture"
)

// Fields lists the editable scalar fields.
var Fields = []Field{FieldFirstName, FieldLastName, FieldBio, FieldProfilePicture}

// ParseField accepts the snake_case field names as well as the JSON
// property names of Record.
func ParseField(s string) (Field, error) {
	switch s {
	case "first_name", "firstName":
		return FieldFirstName, nil
	case "last_name", "lastName":
		return FieldLastName, nil
	case "bio":
		return FieldBio, nil
	case "profile_picture", "profilePicture":
		return FieldProfilePicture, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func (r *Record) set(f Field, v string) error {
	switch f {
	case FieldFirstName:
		r.FirstName = v
	case FieldLastName:
		r.LastName = v
	case FieldBio:
		r.Bio = v
	case FieldProfilePicture:
		r.ProfilePicture = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

// Get returns the value of a scalar field.
func (r Record) Get(f Field) (string, error) {
	switch f {
	case FieldFirstName:
		return r.FirstName, nil
	case FieldLastName:
		return r.LastName, nil
	case FieldBio:
		return r.Bio, nil
	case FieldProfilePicture:
		return r.ProfilePicture, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, string(f))
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	cp := r
	if r.Interests != nil {
		cp.Interests = make([]Interest, len(r.Interests))
		copy(cp.Interests, r.Interests)
	}
	if r.Achievements != nil {
		cp.Achievements = make([]Achievement, len(r.Achievements))
		copy(cp.Achievements, r.Achievements)
	}
	if r.Skills != nil {
		cp.Skills = make([]Skill, len(r.Skills))
		copy(cp.Skills, r.Skills)
	}
	if r.Education != nil {
		cp.Education = make([]Education, len(r.Education))
		copy(cp.Education, r.Education)
	}
	return cp
}

func maxInterestID(interests []Interest) int {
	m := 0
	for _, in := range interests {
		if in.ID > m {
			m = in.ID
		}
	}
	return m
}
