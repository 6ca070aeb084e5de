// Command fragebank extracts question banks from paginated question
// catalogues (PDF or form-feed separated text).
//
// Usage:
//
//	fragebank parse katalog.pdf --csv german.csv      # extract and export
//	fragebank parse katalog.pdf --save                # extract into the database
//	fragebank solutions katalog.pdf                   # show the solutions section
//	fragebank export latest --json fragen.json        # re-export a stored run
//	fragebank serve --listen :8090                    # read-only HTTP API
//	fragebank mcp                                     # MCP tools on stdio
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "fragebank:", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
