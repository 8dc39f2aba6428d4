package cvforge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/go-cvforge/internal/fileutil"
)

// Level bounds for skills and languages.
const (
	MinLevel = 1
	MaxLevel = 5
)

// PersonalInfo is the resume header. Photo holds the avatar as a data URI.
type PersonalInfo struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Title     string `yaml:"title"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Location  string `yaml:"location"`
	Summary   string `yaml:"summary"`
	Photo     string `yaml:"photo,omitempty"`
}

// Experience is a job. When Current is set, EndDate is ignored.
type Experience struct {
	ID          string `yaml:"id"`
	Company     string `yaml:"company"`
	Position    string `yaml:"position"`
	StartDate   string `yaml:"startDate"`
	EndDate     string `yaml:"endDate"`
	Description string `yaml:"description"`
	Current     bool   `yaml:"current"`
}

// Education is a degree or course of study.
type Education struct {
	ID          string `yaml:"id"`
	Institution string `yaml:"institution"`
	Degree      string `yaml:"degree"`
	Field       string `yaml:"field"`
	StartDate   string `yaml:"startDate"`
	EndDate     string `yaml:"endDate"`
	Description string `yaml:"description"`
}

// Skill is a named competence with a level from 1 to 5.
type Skill struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// Language is a spoken language with a level from 1 to 5.
type Language struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// Document is a whole resume. Values handed out by an Editor are copies;
// changing them does not change the editor's state.
type Document struct {
	Personal    PersonalInfo `yaml:"personal"`
	Experiences []Experience `yaml:"experiences"`
	Education   []Education  `yaml:"education"`
	Skills      []Skill      `yaml:"skills"`
	Languages   []Language   `yaml:"languages"`
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	d.Experiences = slices.Clone(d.Experiences)
	d.Education = slices.Clone(d.Education)
	d.Skills = slices.Clone(d.Skills)
	d.Languages = slices.Clone(d.Languages)
	return d
}

// FullName joins first and last name.
func (d Document) FullName() string {
	return strings.TrimSpace(d.Personal.FirstName + " " + d.Personal.LastName)
}

// ExportFilename returns "CV-{first}-{last}.pdf". Characters unsafe in
// filenames are dropped; missing name parts are skipped, down to "CV.pdf".
func (d Document) ExportFilename() string {
	parts := []string{"CV"}
	for _, p := range []string{d.Personal.FirstName, d.Personal.LastName} {
		if s := fileutil.SanitizeFilenamePart(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-") + ".pdf"
}

// Validate checks levels and entry IDs. Empty IDs are allowed (they are
// filled by normalize); duplicated IDs within a section are not.
func (d Document) Validate() error {
	for _, s := range d.Skills {
		if err := validateLevel("skill", s.Name, s.Level); err != nil {
			return err
		}
	}
	for _, l := range d.Languages {
		if err := validateLevel("language", l.Name, l.Level); err != nil {
			return err
		}
	}

	sections := map[string][]string{
		"experiences": ids(d.Experiences, func(e Experience) string { return e.ID }),
		"education":   ids(d.Education, func(e Education) string { return e.ID }),
		"skills":      ids(d.Skills, func(s Skill) string { return s.ID }),
		"languages":   ids(d.Languages, func(l Language) string { return l.ID }),
	}
	for section, list := range sections {
		seen := make(map[string]bool, len(list))
		for _, id := range list {
			if id == "" {
				continue
			}
			if seen[id] {
				return fmt.Errorf("%w: %s %q", ErrDuplicateID, section, id)
			}
			seen[id] = true
		}
	}
	return nil
}

func validateLevel(kind, name string, level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%w: %s %q has level %d", ErrInvalidLevel, kind, name, level)
	}
	return nil
}

func ids[T any](entries []T, id func(T) string) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = id(e)
	}
	return out
}

// normalize fills missing entry IDs.
func (d *Document) normalize() {
	for i := range d.Experiences {
		if d.Experiences[i].ID == "" {
			d.Experiences[i].ID = newID()
		}
	}
	for i := range d.Education {
		if d.Education[i].ID == "" {
			d.Education[i].ID = newID()
		}
	}
	for i := range d.Skills {
		if d.Skills[i].ID == "" {
			d.Skills[i].ID = newID()
		}
	}
	for i := range d.Languages {
		if d.Languages[i].ID == "" {
			d.Languages[i].ID = newID()
		}
	}
}

// newID is replaced in tests that need stable IDs.
var newID = func() string {
	return uuid.NewString()
}
