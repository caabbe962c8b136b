package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/notifly-tech/notifly-mcp-server/internal/config"
	"github.com/notifly-tech/notifly-mcp-server/internal/mcp"
	"github.com/notifly-tech/notifly-mcp-server/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// warmTimeout bounds the startup prefetch of all configured indexes.
const warmTimeout = 30 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "print version information and exit")
	configPath := flag.String("config", "", "path to YAML config file (default $NOTIFLY_MCP_CONFIG)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Notifly MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)
	log.Printf("Notifly MCP Server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

	// Optional .env next to the binary; absence is not an error
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Docs index: %s, platforms: %d, cache TTL: %ds",
		cfg.Docs.IndexURL, len(cfg.SDK.IndexURLs), cfg.Cache.TTLSecs)

	server, err := mcp.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prefetch indexes and persist snapshots; failures are non-fatal since
	// tool calls fetch on demand and fall back to stored snapshots.
	warmCtx, warmCancel := context.WithTimeout(ctx, warmTimeout)
	if err := server.Warm(warmCtx); err != nil {
		log.Printf("Index warm-up incomplete: %v", err)
	} else {
		log.Println("Index warm-up complete")
	}
	warmCancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server stopped")
}
