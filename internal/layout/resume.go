package layout

import (
	"html/template"
	"strings"
	"unicode/utf8"
)

// Resume is the view of a document handed to layout templates.
type Resume struct {
	FirstName string
	LastName  string
	Title     string
	Email     string
	Phone     string
	Location  string
	Summary   string // Markdown
	Photo     string // avatar data URI or URL

	Experiences []Experience
	Education   []Education
	Skills      []Level
	Languages   []Level
}

// Experience is one work entry.
type Experience struct {
	Company     string
	Position    string
	StartDate   string
	EndDate     string
	Description string // Markdown
	Current     bool
}

// Education is one study entry.
type Education struct {
	Institution string
	Degree      string
	Field       string
	StartDate   string
	EndDate     string
	Description string // Markdown
}

// Level is a named proficiency from 1 to 5, used for skills and languages.
type Level struct {
	Name  string
	Level int
}

// FullName joins first and last name.
func (r *Resume) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Initials returns the first letter of each name, upper-cased.
func (r *Resume) Initials() string {
	return firstRune(r.FirstName) + firstRune(r.LastName)
}

func firstRune(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r))
}

// PhotoURL returns the photo as a URL trusted by html/template, or "" when
// the value is not an image data URI or an http(s) URL. Local file URLs are
// refused.
func (r *Resume) PhotoURL() template.URL {
	p := strings.TrimSpace(r.Photo)
	switch {
	case strings.HasPrefix(p, "data:image/"),
		strings.HasPrefix(p, "https://"),
		strings.HasPrefix(p, "http://"):
		return template.URL(p) // #nosec G203 -- scheme checked above
	}
	return ""
}
