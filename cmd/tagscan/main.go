package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tagvision/tagscan/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s --input <input-directory> --output <output-directory> [options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Detect fiducial markers in every image of a directory and write one")
	fmt.Fprintln(os.Stderr, "JSON result per image plus a manifest of attempted families.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  --input <dir>    Source directory of jpg/jpeg/png images (required)")
	fmt.Fprintln(os.Stderr, "  --output <dir>   Destination directory, created if missing (required)")
	fmt.Fprintln(os.Stderr, "  --timings        Record per-phase latency in each result")
	fmt.Fprintln(os.Stderr, "  --annotate       Also write an annotated PNG per image")
	fmt.Fprintln(os.Stderr, "  --version, -v    Print version information")
	fmt.Fprintln(os.Stderr, "  --help, -h       Print this help message")
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	args := os.Args[1:]
	for _, a := range args {
		switch a {
		case "--version", "-v":
			fmt.Printf("tagscan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h":
			usage()
			os.Exit(1)
		}
	}
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := pipeline.DefaultConfig()
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--input":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --input requires a value")
				os.Exit(1)
			}
			i++
			cfg.InputDir = args[i]
		case "--output":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --output requires a value")
				os.Exit(1)
			}
			i++
			cfg.OutputDir = args[i]
		case "--timings":
			cfg.Timings = true
		case "--annotate":
			cfg.Annotate = true
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown argument: %s\n", args[i])
			os.Exit(1)
		}
	}

	if cfg.InputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		os.Exit(1)
	}
	if cfg.OutputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --output is required")
		os.Exit(1)
	}

	if err := pipeline.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
