// Command yt is a CLI for running a YouTube live stream backed by an
// AzuraCast radio station. It:
//   - Authenticates with the YouTube API (env vars, cached token file, or an
//     interactive browser flow).
//   - Manages live broadcasts, streams, chat, moderators, and bans.
//   - Watches stream health and restarts the AzuraCast backend when the
//     stream stays unhealthy, with Discord notifications.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/onnwee/stream-tools/cmd"
)

func main() {
	// Optional .env for local development; untracked.
	_ = godotenv.Load()

	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		cmd.LogLevel.Set(slog.LevelDebug)
	case "warn":
		cmd.LogLevel.Set(slog.LevelWarn)
	case "error":
		cmd.LogLevel.Set(slog.LevelError)
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	// Logs go to stderr so stdout stays clean for json/csv/ids output.
	opts := &slog.HandlerOptions{Level: cmd.LogLevel}
	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) { // text | json
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cmd.Execute(ctx)
	stop()
	os.Exit(code)
}
