package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/ironsheep/image-effects-mcp/internal/config"
	"github.com/ironsheep/image-effects-mcp/internal/pixel"
	"github.com/ironsheep/image-effects-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-effects-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-effects-mcp - MCP server for pixel operators and region effects")
			fmt.Println()
			fmt.Println("Usage: image-effects-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug    Enable debug logging\n", config.EnvLogLevel)
			fmt.Printf("  %s=N          Goroutines used by parallel renders\n", config.EnvWorkers)
			fmt.Printf("  %s=N             Default frosted-glass seed\n", config.EnvSeed)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()
	runtime.GOMAXPROCS(cfg.Workers)

	if cfg.Debug {
		pixel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		log.Printf("Image Effects MCP Server v%s (built %s, commit %s), %d workers",
			Version, BuildTime, GitCommit, cfg.Workers)
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
