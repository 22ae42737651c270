package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the record a session starts with when no seed file is
// configured.
func DefaultSeed() Record {
	return Record{
		FirstName:      "Thandeka ",
		LastName:       "Mazibuko",
		ProfilePicture: "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcQKBGbVjgsbiJhf0OorySkWsT0sBVoYy1P5Fw&s",
		Bio:            "Senior Software Engineer with 6+ years of experience in React Native and mobile development.",
		Interests: []Interest{
			{ID: 1, Name: "React Native", Icon: IconReact},
			{ID: 2, Name: "UX Design", Icon: IconPaintBrush},
			{ID: 3, Name: "AI", Icon: IconMicrochip},
			{ID: 4, Name: "Hiking", Icon: IconTree},
			{ID: 5, Name: "Photography", Icon: IconCamera},
		},
		Connections: 487,
		Views:       132,
		Achievements: []Achievement{
			{ID: 1, Title: "Top Mobile Developer", Year: "2023"},
			{ID: 2, Title: "React Native Mentor", Year: "2022"},
		},
		Skills: []Skill{
			{ID: 1, Name: "React Native", Level: 95},
			{ID: 2, Name: "JavaScript", Level: 90},
			{ID: 3, Name: "UI/UX Design", Level: 85},
			{ID: 4, Name: "TypeScript", Level: 80},
		},
		Education: []Education{
			{ID: 1, School: "Stanford University", Degree: "Master of Computer Science", Year: "2017-2019"},
			{ID: 2, School: "MIT", Degree: "Bachelor of Science in Computer Engineering", Year: "2013-2017"},
			{ID: 3, School: "Online Learning", Degree: "Advanced Mobile Development Certification", Year: "2021"},
		},
	}
}

// LoadSeed reads a seed record from a YAML file. An empty path yields
// DefaultSeed.
func LoadSeed(path string) (Record, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML seed and checks the interest invariants.
func ParseSeed(data []byte) (Record, error) {
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("parsing seed: %w", err)
	}

	seen := make(map[int]bool, len(r.Interests))
	for i, in := range r.Interests {
		if seen[in.ID] {
			return Record{}, fmt.Errorf("seed interest %d: duplicate id %d", i, in.ID)
		}
		seen[in.ID] = true
		if in.Icon == "" {
			r.Interests[i].Icon = DefaultIcon
		} else if !in.Icon.Valid() {
			return Record{}, fmt.Errorf("seed interest %d: unknown icon %q", i, in.Icon)
		}
	}
	for i, s := range r.Skills {
		if s.Level < 0 || s.Level > 100 {
			return Record{}, fmt.Errorf("seed skill %d: level %d out of range [0, 100]", i, s.Level)
		}
	}
	return r, nil
}
