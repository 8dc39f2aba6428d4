package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/config"
	"github.com/alnah/go-cvforge/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for a command name cvforge does not know.
var ErrUnknownCommand = errors.New("unknown command")

// commands lists the first-argument verbs, in help order.
var commands = []string{"export", "avatar", "init", "layouts", "doctor", "version", "help"}

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if slices.Contains(os.Args, "--verbose") || slices.Contains(os.Args, "-v") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and maps its error to an exit code.
// args[0] is the program name, as in os.Args.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]

	// "cvforge resume.yaml" is shorthand for "cvforge export resume.yaml".
	if !isCommand(cmd) && looksLikeResume(cmd) {
		cmd, rest = "export", args[1:]
	}

	var err error
	switch cmd {
	case "export":
		err = runExport(ctx, rest, env)
	case "avatar":
		err = runAvatar(ctx, rest, env)
	case "init":
		err = runInit(rest, env)
	case "layouts":
		err = runLayouts(rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "go-cvforge %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		return runHelp(rest, env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// isCommand reports whether s is a command name (case-sensitive).
func isCommand(s string) bool {
	return slices.Contains(commands, s)
}

// hintFor returns an actionable hint for common failures, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, cvforge.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		var searched []string
		if dir, dirErr := os.UserConfigDir(); dirErr == nil {
			searched = append(searched, filepath.Join(dir, "go-cvforge", "cvforge.yaml"))
		}
		return hints.ForConfigNotFound(searched)
	case errors.Is(err, cvforge.ErrNoDecoder):
		return hints.ForHEIC()
	case errors.Is(err, cvforge.ErrNotAnImage),
		errors.Is(err, cvforge.ErrUnsupportedFormat),
		errors.Is(err, cvforge.ErrFileTooLarge):
		return hints.ForImageFormat()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
