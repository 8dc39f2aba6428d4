package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvforge <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export resumes to paginated A4 PDF")
	fmt.Fprintln(w, "  avatar     Crop a photo into the resume's profile picture")
	fmt.Fprintln(w, "  init       Write a sample resume to start from")
	fmt.Fprintln(w, "  layouts    List available layouts")
	fmt.Fprintln(w, "  doctor     Check the browser and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cvforge help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvforge export <resume.yaml | dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render resumes with a layout and write them as A4 PDFs named")
	fmt.Fprintln(w, "CV-<First>-<Last>.pdf. A directory is searched for .yaml/.yml files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (.pdf, single resume) or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -l, --layout <name>       professional, modern, creative, or custom")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with layouts/<name>/ and styles/")
	fmt.Fprintln(w, "      --width <px>          Page width in CSS pixels (320-2400)")
	fmt.Fprintln(w, "      --scale <f>           Capture pixel ratio (0.5-4, default 2)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --backend <name>      rod (default) or chromedp")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-export timeout (default 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Debugging:")
	fmt.Fprintln(w, "      --html                Also write the rendered HTML")
	fmt.Fprintln(w, "      --html-only           Write the rendered HTML, skip the PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show progress and timing")
}

// printAvatarUsage prints usage for the avatar command.
func printAvatarUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvforge avatar <image> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Crop a JPEG, PNG or WebP photo (max 5 MiB) to a square JPEG. The image")
	fmt.Fprintln(w, "is fitted into the viewport and --x, --y and --size are measured there.")
	fmt.Fprintln(w, "Without them the largest centered square (90%) is used.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -d, --document <file>     Store the photo in this resume")
	fmt.Fprintln(w, "  -o, --output <file>       Write the JPEG (default <image>-avatar.jpg)")
	fmt.Fprintln(w, "      --x, --y <px>         Crop top-left corner")
	fmt.Fprintln(w, "      --size <px>           Crop edge length")
	fmt.Fprintln(w, "      --viewport <px>       Square viewport (default 400)")
	fmt.Fprintln(w, "      --max-edge <px>       Longest output edge (default 400)")
	fmt.Fprintln(w, "      --quality <n>         JPEG quality 1-100 (default 92)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show the crop geometry")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "avatar":
		printAvatarUsage(env.Stdout)
	case "init":
		fmt.Fprintln(env.Stdout, "Usage: cvforge init [-o resume.yaml] [--force]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Write a sample resume. Existing files are kept unless --force is given.")
	case "layouts":
		fmt.Fprintln(env.Stdout, "Usage: cvforge layouts [--asset-path dir]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List embedded and custom layouts. The default is marked with *.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: cvforge doctor [-c config] [--asset-path dir] [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the config, Chrome, every layout and the photo decoders.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: cvforge version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: cvforge help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
