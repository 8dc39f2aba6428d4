package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/avatar"
	"github.com/alnah/go-cvforge/internal/config"
	"github.com/alnah/go-cvforge/internal/raster"
)

// Doctor statuses, worst last.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult is everything "cvforge doctor" checks, in the shape --json
// prints.
type doctorResult struct {
	Status   string        `json:"status"`
	Config   configInfo    `json:"config"`
	Browser  browserInfo   `json:"browser"`
	Layouts  layoutsInfo   `json:"layouts"`
	Photos   []decoderInfo `json:"photos"`
	Env      envInfo       `json:"environment"`
	Warnings []string      `json:"warnings,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
}

// configInfo is the effective configuration after file and env overrides.
type configInfo struct {
	Path    string `json:"path,omitempty"` // empty when only defaults apply
	Layout  string `json:"layout"`
	Backend string `json:"backend"`
	Timeout string `json:"timeout"`
	Valid   bool   `json:"valid"`
}

// browserInfo describes the Chrome install the capture backends drive.
type browserInfo struct {
	Found    bool     `json:"found"`
	Path     string   `json:"path,omitempty"`
	Version  string   `json:"version,omitempty"`
	Sandbox  bool     `json:"sandbox"`
	Backend  string   `json:"backend"`
	Backends []string `json:"backends"`
}

// layoutsInfo reports which layouts resolve and render the sample resume.
type layoutsInfo struct {
	Source    string   `json:"source"` // "embedded" or the custom asset path
	Default   string   `json:"default"`
	Available []string `json:"available"`
	Broken    []string `json:"broken,omitempty"`
}

// decoderInfo says whether uploads of one accepted type can be decoded.
type decoderInfo struct {
	MIMEType  string `json:"mime_type"`
	Decodable bool   `json:"decodable"`
}

// envInfo holds platform and sandbox-relevant environment signals.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	TempWritable  bool   `json:"temp_writable"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd runs every check and returns ExitGeneral when any failed.
// Warnings alone still exit 0.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var (
		configPath string
		assetPath  string
		jsonOutput bool
	)
	fs := newFlagSet("doctor", env.Stderr)
	fs.StringVarP(&configPath, "config", "c", "", "config file name or path")
	fs.StringVar(&assetPath, "asset-path", "", "custom layouts directory to check")
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	fs.Usage = func() {
		fmt.Fprintln(env.Stderr, "Usage: cvforge doctor [flags]")
		fmt.Fprintln(env.Stderr)
		fmt.Fprintln(env.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := parseFlags(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(ctx, env, configPath, assetPath)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all checks. A broken config falls back to defaults so
// the remaining checks still run.
func runDoctor(ctx context.Context, env *Environment, configPath, assetPath string) *doctorResult {
	result := &doctorResult{
		Env: envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	cfg := checkConfig(result, env, configPath)
	if assetPath != "" {
		cfg.Assets.BasePath = assetPath
	}

	checkEnvironment(result)
	checkBrowser(result, cfg.Export.Backend)
	checkLayouts(ctx, result, env, cfg)
	checkPhotos(result)
	checkTempDir(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkConfig resolves the configuration the export command would use.
func checkConfig(result *doctorResult, env *Environment, configPath string) *config.Config {
	if configPath == "" {
		configPath = os.Getenv("CVFORGE_CONFIG")
	}
	result.Config.Path = configPath

	cfg, err := resolveConfig(configPath, env, io.Discard)
	if err != nil {
		result.fail("Config: %v", err)
		cfg = config.DefaultConfig()
	} else {
		result.Config.Valid = true
	}

	result.Config.Layout = orDefault(cfg.Layout.Name, config.DefaultLayout)
	result.Config.Backend = orDefault(strings.ToLower(cfg.Export.Backend), config.DefaultBackend)
	result.Config.Timeout = orDefault(cfg.Export.Timeout, config.DefaultTimeout)
	return cfg
}

// checkBrowser locates Chrome the way the rod launcher does and reports
// whether it will run sandboxed.
func checkBrowser(result *doctorResult, backend string) {
	result.Browser.Backend = orDefault(strings.ToLower(backend), cvforge.BackendRod)
	result.Browser.Backends = []string{cvforge.BackendRod, cvforge.BackendChromedp}
	result.Browser.Sandbox = !raster.NoSandbox()

	chromePath := os.Getenv("ROD_BROWSER_BIN")
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.fail("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if _, err := os.Stat(chromePath); err != nil {
		result.fail("Chrome not found at %s", chromePath)
		return
	}

	result.Browser.Found = true
	result.Browser.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from env or launcher lookup
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
	} else {
		result.Browser.Version = strings.TrimSpace(string(out))
	}

	if (result.Env.Container || result.Env.CI) && result.Browser.Sandbox {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkLayouts renders the sample resume with every layout, so broken
// custom templates show up before an export does.
func checkLayouts(ctx context.Context, result *doctorResult, env *Environment, cfg *config.Config) {
	result.Layouts.Source = "embedded"
	result.Layouts.Default = orDefault(cfg.Layout.Name, config.DefaultLayout)

	opts := []cvforge.Option{cvforge.WithLayout(result.Layouts.Default)}
	if cfg.Assets.BasePath != "" {
		result.Layouts.Source = cfg.Assets.BasePath
		opts = append(opts, cvforge.WithAssetPath(cfg.Assets.BasePath))
	}

	pool := env.NewPool(1, opts...)
	defer func() { _ = pool.Close() }()

	exp, err := pool.Acquire()
	if err != nil {
		result.fail("Layouts: %v", err)
		return
	}
	defer pool.Release(exp)

	names, err := exp.Layouts()
	if err != nil {
		result.fail("Layouts: %v", err)
		return
	}
	result.Layouts.Available = names

	sample := cvforge.SampleDocument()
	for _, name := range names {
		if _, err := exp.RenderHTML(ctx, sample, name, 0); err != nil {
			result.Layouts.Broken = append(result.Layouts.Broken, name)
			result.fail("Layout %s does not render: %v", name, err)
		}
	}

	if !slices.Contains(names, result.Layouts.Default) {
		result.fail("Default layout %q not found (available: %s)",
			result.Layouts.Default, strings.Join(names, ", "))
	}
}

// checkPhotos reports which accepted upload types this build can decode.
func checkPhotos(result *doctorResult) {
	var missing []string
	for _, mt := range avatar.AcceptedMIMETypes {
		ok := avatar.CanDecode(mt)
		result.Photos = append(result.Photos, decoderInfo{MIMEType: mt, Decodable: ok})
		if !ok {
			missing = append(missing, strings.TrimPrefix(mt, "image/"))
		}
	}
	if len(missing) > 0 {
		result.warn("No decoder for %s photos. Convert them to JPEG or PNG before running cvforge avatar",
			strings.Join(missing, "/"))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("CVFORGE_CONTAINER") == "1" {
		return true, "CVFORGE_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman and systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkTempDir verifies the rasterizers can write their HTML file.
func checkTempDir(result *doctorResult) {
	f, err := os.CreateTemp("", "cvforge-doctor-*.html")
	if err != nil {
		result.fail("Temp directory not writable: %s", os.TempDir())
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.Env.TempWritable = true
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "cvforge doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	if r.Config.Path != "" {
		fmt.Fprintf(w, "  %s File: %s\n", mark(r.Config.Valid), r.Config.Path)
	} else {
		fmt.Fprintf(w, "  %s File: none (defaults and CVFORGE_* variables)\n", mark(r.Config.Valid))
	}
	fmt.Fprintf(w, "  [OK] Layout %s, backend %s, timeout %s\n", r.Config.Layout, r.Config.Backend, r.Config.Timeout)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Chrome: %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Chrome: not found")
	}
	sandbox := "enabled"
	if !r.Browser.Sandbox {
		sandbox = "disabled"
	}
	fmt.Fprintf(w, "  [OK] Sandbox: %s\n", sandbox)
	fmt.Fprintf(w, "  [OK] Backend: %s (available: %s)\n", r.Browser.Backend, strings.Join(r.Browser.Backends, ", "))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Layouts (%s)\n", r.Layouts.Source)
	for _, name := range r.Layouts.Available {
		suffix := ""
		if name == r.Layouts.Default {
			suffix = " (default)"
		}
		fmt.Fprintf(w, "  %s %s%s\n", mark(!slices.Contains(r.Layouts.Broken, name)), name, suffix)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Photos")
	for _, d := range r.Photos {
		if d.Decodable {
			fmt.Fprintf(w, "  [OK] %s\n", d.MIMEType)
		} else {
			fmt.Fprintf(w, "  [WARN] %s: accepted, not decodable\n", d.MIMEType)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintf(w, "  %s Temp directory: %s\n", mark(r.Env.TempWritable), filepath.Clean(os.TempDir()))
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to export")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func mark(ok bool) string {
	if ok {
		return "[OK]"
	}
	return "[ERROR]"
}
