package main

import (
	"fmt"
	"os"
	"strings"
)

const version = "0.0.1-dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		// No subcommand — default to build (backward compatible)
		return runBuild(os.Args[1:])
	}

	switch os.Args[1] {
	case "build":
		return runBuild(os.Args[2:])
	case "--version", "-v":
		fmt.Println("specgen", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	default:
		// Check if first arg starts with - (it's a flag, not a subcommand)
		if strings.HasPrefix(os.Args[1], "-") {
			return runBuild(os.Args[1:])
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("specgen - static OpenAPI document generator for decorator-based HTTP frameworks")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  specgen [flags]              Build project (default)")
	fmt.Println("  specgen build [flags]        Build project")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --version, -v          Print version and exit")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Build Flags:")
	fmt.Println("  --project, -p <path>   Path to tsconfig.json (default: tsconfig.json)")
	fmt.Println("  --config <path>        Path to specgen.config.json")
	fmt.Println("  --dump-metadata        Dump type metadata as JSON to stdout (debug)")
	fmt.Println("  --clean                Clean output directory before building")
	fmt.Println("  --assets <glob>        Glob pattern for static assets to copy to output")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  specgen")
	fmt.Println("  specgen build")
	fmt.Println("  specgen build --project tsconfig.build.json")
	fmt.Println("  specgen build --clean --assets '**/*.json'")
	fmt.Println("  specgen --config specgen.config.json --project tsconfig.json")
	fmt.Println()
}
