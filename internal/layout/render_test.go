package layout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-cvforge/internal/assets"
)

func sampleResume() *Resume {
	return &Resume{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Title:     "Analyst <Engines>",
		Email:     "ada@example.com",
		Phone:     "+44 20 0000 0000",
		Location:  "London",
		Summary:   "Writes **programs** for the Analytical Engine.\n\n<script>alert(1)</script>",
		Photo:     "data:image/jpeg;base64,/9j/AAAA",
		Experiences: []Experience{
			{Company: "Babbage & Co", Position: "Programmer", StartDate: "1842", Current: true, Description: "- Note G\n- Bernoulli numbers"},
			{Company: "Royal Society", Position: "Translator", StartDate: "1840", EndDate: "1842"},
		},
		Education: []Education{
			{Institution: "Home", Degree: "Private tutoring", Field: "Mathematics", StartDate: "1830", EndDate: "1835"},
		},
		Skills:    []Level{{Name: "Mathematics", Level: 5}, {Name: "Poetry", Level: 3}},
		Languages: []Level{{Name: "English", Level: 5}, {Name: "French", Level: 4}},
	}
}

// ---------------------------------------------------------------------------
// TestRenderer_Render - Every built-in layout
// ---------------------------------------------------------------------------

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewRenderer(nil)

	for _, name := range []string{"professional", "modern", "creative"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			html, err := r.Render(context.Background(), name, sampleResume(), 0)
			if err != nil {
				t.Fatalf("Render(%q) error: %v", name, err)
			}

			wants := []string{
				"<!DOCTYPE html>",
				`class="cv ` + name + `"`,
				"Ada Lovelace",
				"Analyst &lt;Engines&gt;",
				"<strong>programs</strong>",
				"<li>Note G</li>",
				"1842 - Present",
				"1840 - 1842",
				"Babbage &amp; Co",
				"Mathematics",
				"French",
				`src="data:image/jpeg;base64,/9j/AAAA"`,
				"--cv-width: 794px",
			}
			for _, want := range wants {
				if !strings.Contains(html, want) {
					t.Errorf("Render(%q) output missing %q", name, want)
				}
			}
			if strings.Contains(html, "<script>") {
				t.Errorf("Render(%q) let raw HTML through", name)
			}
		})
	}
}

func TestRenderer_Render_Levels(t *testing.T) {
	t.Parallel()

	r := NewRenderer(nil)
	res := &Resume{FirstName: "A", Skills: []Level{{Name: "Go", Level: 3}}}

	html, err := r.Render(context.Background(), "modern", res, 0)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(html, "width: 60%") {
		t.Error("modern layout should draw a 60% bar for level 3")
	}

	html, err = r.Render(context.Background(), "professional", res, 0)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := strings.Count(html, `<i class="on">`); got != 3 {
		t.Errorf("professional layout lit %d dots, want 3", got)
	}
}

func TestRenderer_Render_Initials(t *testing.T) {
	t.Parallel()

	res := &Resume{FirstName: "émile", LastName: "zola"}
	html, err := NewRenderer(nil).Render(context.Background(), "modern", res, 0)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(html, `<div class="initials">ÉZ</div>`) {
		t.Error("modern layout should show initials when there is no photo")
	}
}

func TestRenderer_Render_EmptySectionsOmitted(t *testing.T) {
	t.Parallel()

	html, err := NewRenderer(nil).Render(context.Background(), "professional", &Resume{FirstName: "Solo"}, 600)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, heading := range []string{"Summary", "Experience", "Education", "Skills", "Languages"} {
		if strings.Contains(html, "<h3>"+heading+"</h3>") {
			t.Errorf("empty %s section rendered", heading)
		}
	}
	if !strings.Contains(html, "--cv-width: 600px") {
		t.Error("custom width not applied")
	}
}

func TestRenderer_Render_Errors(t *testing.T) {
	t.Parallel()

	r := NewRenderer(nil)

	if _, err := r.Render(context.Background(), "baroque", sampleResume(), 0); !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("unknown layout error = %v, want ErrLayoutNotFound", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, "modern", sampleResume(), 0); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled render error = %v, want context.Canceled", err)
	}
}

func TestRenderer_CustomLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLayout(t, dir, "plain", `<html><style>{{.CSS}}</style><p>{{.FullName}}|{{period "a" "" true}}</p></html>`, ".plain{}")
	writeLayout(t, dir, "broken", `{{.Nope`, "")

	resolver, err := assets.NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error: %v", err)
	}
	r := NewRenderer(resolver)

	html, err := r.Render(context.Background(), "plain", &Resume{FirstName: "Ada"}, 0)
	if err != nil {
		t.Fatalf("Render(plain) error: %v", err)
	}
	if !strings.Contains(html, "<p>Ada|a - Present</p>") || !strings.Contains(html, ".plain{}") {
		t.Errorf("custom layout output = %q", html)
	}

	if _, err := r.Render(context.Background(), "broken", &Resume{}, 0); !errors.Is(err, ErrTemplate) {
		t.Errorf("broken layout error = %v, want ErrTemplate", err)
	}

	names, err := r.Layouts()
	if err != nil {
		t.Fatalf("Layouts() error: %v", err)
	}
	if len(names) != 5 {
		t.Errorf("Layouts() = %v, want 3 built-in plus 2 custom", names)
	}
}

func TestResume_PhotoURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		photo string
		want  string
	}{
		{photo: "data:image/png;base64,AAA", want: "data:image/png;base64,AAA"},
		{photo: "https://example.com/me.jpg", want: "https://example.com/me.jpg"},
		{photo: "http://example.com/me.jpg", want: "http://example.com/me.jpg"},
		{photo: "file:///home/u/.ssh/id.png", want: ""},
		{photo: "FILE:///etc/passwd", want: ""},
		{photo: "javascript:alert(1)", want: ""},
		{photo: "data:text/html;base64,AAA", want: ""},
		{photo: "", want: ""},
	}

	for _, tt := range tests {
		if got := (&Resume{Photo: tt.photo}).PhotoURL(); string(got) != tt.want {
			t.Errorf("PhotoURL(%q) = %q, want %q", tt.photo, got, tt.want)
		}
	}
}
