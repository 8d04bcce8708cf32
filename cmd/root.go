// Package cmd implements the yt command tree. Commands are built by
// constructors that close over a shared app value, so output format and
// verbosity are threaded explicitly instead of living in package globals.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/auth"
	"github.com/onnwee/stream-tools/config"
	"github.com/onnwee/stream-tools/telemetry"
	"github.com/onnwee/stream-tools/watch"
	"github.com/onnwee/stream-tools/youtubeapi"
)

// version is stamped at build time via -ldflags "-X github.com/onnwee/stream-tools/cmd.version=...".
var version = "dev"

// LogLevel is the level for the process-wide slog handler, installed by main
// and raised to debug by --verbose.
var LogLevel = new(slog.LevelVar)

// Exit codes. Budget exhaustion is distinguished so supervisors can tell a
// deliberate stop from a crash.
const (
	ExitOK              = 0
	ExitError           = 1
	ExitAuthFailed      = 2
	ExitBudgetExhausted = 3
)

// app carries state shared by every command: loaded config, the credential
// manager, and output settings bound from persistent flags.
type app struct {
	cfg *config.Config
	mgr *auth.Manager
	out Output

	verbose bool

	// newAPI is the youtubeapi constructor, overridable in tests.
	newAPI func(ctx context.Context, creds *auth.Credentials) (*youtubeapi.Client, error)
}

// api authenticates (environment, token file, then interactive) and returns
// a ready API client.
func (a *app) api(ctx context.Context) (*youtubeapi.Client, error) {
	method, err := a.mgr.AutoAuthenticate(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("authenticated", slog.String("method", string(method)))
	creds, err := a.mgr.Credentials()
	if err != nil {
		return nil, err
	}
	if a.newAPI != nil {
		return a.newAPI(ctx, creds)
	}
	return youtubeapi.New(ctx, creds)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "yt",
		Short:         "Manage YouTube live broadcasts, streams, and chat",
		Long:          "yt wraps the YouTube Live Streaming API: OAuth login, broadcast and\nstream management, live chat moderation, stream health monitoring with\nautomatic AzuraCast restarts, and Discord notifications.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.mgr = auth.NewManager(cfg)
			a.out.W = cmd.OutOrStdout()
			if err := a.out.validate(); err != nil {
				return err
			}
			if a.verbose {
				LogLevel.Set(slog.LevelDebug)
			}
			telemetry.Init()
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.out.Format, "format", "f", FormatTable,
		"Output format: table, json, csv, or ids")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Enable debug logging")

	root.AddCommand(
		newAuthCmd(a),
		newChannelCmd(a),
		newBroadcastCmd(a),
		newStreamCmd(a),
		newChatCmd(a),
		newModCmd(a),
		newBanCmd(a),
		newAzuraCmd(a),
	)
	return root
}

// Execute runs the command tree and maps errors to exit codes.
func Execute(ctx context.Context) int {
	a := &app{}
	root := newRootCmd(a)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var authErr *auth.AuthError
		switch {
		case errors.Is(err, watch.ErrBudgetExhausted):
			return ExitBudgetExhausted
		case errors.As(err, &authErr):
			fmt.Fprintln(os.Stderr, "Hint: run 'yt auth login' to authenticate.")
			return ExitAuthFailed
		default:
			return ExitError
		}
	}
	return ExitOK
}
