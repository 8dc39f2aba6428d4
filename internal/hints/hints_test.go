package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel(): they call t.Setenv and
//   swap the package-level IsInContainer variable.

import (
	"strings"
	"testing"
)

func withContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		container   bool
		ci          string
		noSandbox   string
		browserBin  string
		wantSandbox bool
		wantBin     bool
	}{
		{name: "CI without settings", ci: "true", wantSandbox: true, wantBin: true},
		{name: "docker without settings", container: true, wantSandbox: true, wantBin: true},
		{name: "sandbox already disabled", container: true, noSandbox: "1", wantBin: true},
		{name: "browser bin set", browserBin: "/usr/bin/chrome"},
		{name: "all configured", container: true, ci: "true", noSandbox: "1", browserBin: "/usr/bin/chrome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withContainer(t, tt.container)
			t.Setenv("CI", tt.ci)
			t.Setenv("GITHUB_ACTIONS", "")
			t.Setenv("GITLAB_CI", "")
			t.Setenv("JENKINS_URL", "")
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect()

			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("sandbox hint present = %v, want %v (%q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("browser bin hint present = %v, want %v (%q)", got, tt.wantBin, hint)
			}
			if !tt.wantSandbox && !tt.wantBin && hint != "" {
				t.Errorf("expected empty hint, got %q", hint)
			}
		})
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	hint := ForTimeout()
	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("unexpected format %q", hint)
	}
	if !strings.Contains(hint, "--timeout") {
		t.Error("expected --timeout flag mention")
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForConfigNotFound(nil); !strings.Contains(hint, "--config") {
		t.Errorf("hint = %q, want --config suggestion", hint)
	}

	hint := ForConfigNotFound([]string{"./cv.yaml", "/home/u/.config/go-cvforge/cv.yaml"})
	if !strings.Contains(hint, "create /home/u/.config/go-cvforge/cv.yaml") {
		t.Errorf("hint = %q, want user config suggestion", hint)
	}
}

func TestForLayoutNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForLayoutNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	hint := ForLayoutNotFound([]string{"creative", "modern"})
	if !strings.Contains(hint, "available: creative, modern") {
		t.Errorf("hint = %q", hint)
	}
}

func TestImageHints(t *testing.T) {
	t.Parallel()

	if !strings.Contains(ForImageFormat(), "5 MiB") {
		t.Error("format hint should mention the size limit")
	}
	if !strings.Contains(ForHEIC(), "JPEG") {
		t.Error("HEIC hint should suggest JPEG")
	}
	if !strings.Contains(ForOutputDirectory(), "writable") {
		t.Error("output directory hint should mention permissions")
	}
}
