package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/onnwee/stream-tools/azuracast"
	"github.com/onnwee/stream-tools/notify"
	"github.com/onnwee/stream-tools/telemetry"
	"github.com/onnwee/stream-tools/watch"
	"github.com/onnwee/stream-tools/youtubeapi"
)

func newStreamWatchCmd(a *app) *cobra.Command {
	var (
		interval     time.Duration
		failInterval time.Duration
		failCount    int
		restartWait  time.Duration
		restart      bool
		noRestart    bool
		maxRestarts  int
		discordURL   string
	)
	cmd := &cobra.Command{
		Use:   "watch <stream-id>",
		Short: "Monitor stream health and restart the radio backend on failure",
		Long: `Watch a stream's health until interrupted.

Polls the stream at --interval while healthy and --fail-interval once a
failure is seen. After --fail-count consecutive failures the AzuraCast
backend is restarted (when configured and --restart is on), up to
--max-restarts times for the life of the process. Exhausting the restart
budget stops the watch with a non-zero exit. State transitions are posted
to the Discord webhook when one is configured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			streamID := args[0]
			out := cmd.OutOrStdout()

			shutdownTracing, err := telemetry.InitTracing("stream-watch", version)
			if err != nil {
				slog.Warn("tracing init failed", slog.Any("err", err))
			} else {
				defer shutdownTracing()
			}
			go telemetry.ServeMetrics(ctx)

			api, err := a.api(ctx)
			if err != nil {
				return err
			}
			stream, err := api.GetStream(ctx, streamID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching stream %s (%s)\n", stream.ID, stream.Title)

			// Best-effort preamble: the bound broadcast and radio station, if
			// reachable, give the operator context for what a restart affects.
			if bc, err := api.FindBoundBroadcast(ctx, streamID); err == nil && bc != nil {
				fmt.Fprintf(out, "Broadcast: %s (%s) %s\n", bc.Title, bc.LifeCycle, bc.WatchURL())
			}

			var actuator watch.Actuator
			azura := azuracast.New(a.cfg)
			if azura != nil {
				if st, err := azura.Status(ctx); err == nil {
					fmt.Fprintf(out, "AzuraCast station: %s (backend %s)\n", st.Name, st.Backend)
				} else {
					slog.Warn("azuracast unreachable", slog.Any("err", err))
				}
				actuator = azura
			} else {
				fmt.Fprintln(out, "AzuraCast not configured; restarts disabled.")
			}

			webhookURL := discordURL
			if webhookURL == "" {
				webhookURL = a.cfg.DiscordWebhookURL
			}
			var notifier watch.Notifier
			if wh := notify.NewWebhook(webhookURL); wh != nil {
				notifier = wh
				wh.Send(ctx, "Watch Started",
					fmt.Sprintf("Monitoring stream **%s** (`%s`)", stream.Title, stream.ID),
					watch.ColorBlue)
			}

			opts := watch.Options{
				Interval:       interval,
				FailInterval:   failInterval,
				FailThreshold:  failCount,
				RestartWait:    restartWait,
				RestartEnabled: restart && !noRestart,
				MaxRestarts:    maxRestarts,
			}
			w := watch.New(streamID, &youtubeapi.HealthPoller{Client: api, StreamID: streamID}, actuator, notifier, opts)
			restarts, err := w.Run(ctx)
			fmt.Fprintf(out, "Watch stopped after %d restart(s).\n", restarts)
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "Poll cadence while healthy")
	cmd.Flags().DurationVar(&failInterval, "fail-interval", 30*time.Second, "Poll cadence after a failure")
	cmd.Flags().IntVar(&failCount, "fail-count", 3, "Consecutive failures before restarting")
	cmd.Flags().DurationVar(&restartWait, "restart-wait", 3*time.Minute, "Grace period after a restart")
	cmd.Flags().BoolVar(&restart, "restart", true, "Restart the AzuraCast backend on persistent failure")
	cmd.Flags().BoolVar(&noRestart, "no-restart", false, "Observe and notify only, never restart")
	cmd.Flags().IntVar(&maxRestarts, "max-restarts", 10, "Restart budget for the life of the watch")
	cmd.Flags().StringVar(&discordURL, "discord", "", "Discord webhook URL (overrides DISCORD_WEBHOOK_URL)")
	return cmd
}
