package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/circle-counter/internal/config"
	"github.com/ironsheep/circle-counter/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("circles-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("circles-mcp - MCP server for counting circles in photographs")
			fmt.Println()
			fmt.Println("Usage: circles-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  CIRCLES_CONFIG=path            YAML configuration file")
			fmt.Println("  CIRCLES_OVERLAP_THRESHOLD=0.5  Duplicate overlap threshold (0-1)")
			fmt.Println("  CIRCLES_PRIORITY=largest-first Which duplicate survives")
			fmt.Println("  CIRCLES_METRIC=square-over-disk Overlap metric")
			fmt.Println("  CIRCLES_DETECTOR=hough         Detector backend (hough, opencv)")
			fmt.Println("  CIRCLES_OUTPUT_DIR=img         Directory for annotated images")
			fmt.Println("  CIRCLES_LOG_LEVEL=debug        Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Debug() {
		log.Printf("Circles MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Detector %s, radius %d-%d, threshold %.2f, %s, %s",
			cfg.Detection.Backend, cfg.Detection.MinRadius, cfg.Detection.MaxRadius,
			cfg.Suppression.Threshold, cfg.Suppression.Priority, cfg.Suppression.Metric)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
