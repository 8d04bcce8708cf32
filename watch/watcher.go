// Package watch supervises one stream's ingest health: it polls at a variable
// cadence, escalates after consecutive failures, drives a restart actuator
// under a global budget, and notifies on state transitions. The loop runs
// until its context is cancelled or the restart budget is exhausted.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/onnwee/stream-tools/telemetry"
)

// Status is the ingest health reported by the poller.
type Status string

const (
	StatusGood    Status = "good"
	StatusOK      Status = "ok"
	StatusBad     Status = "bad"
	StatusNoData  Status = "noData"
	StatusUnknown Status = "unknown"
)

// Healthy reports whether the status counts as a passing sample.
// noData and unknown count as failures: an ingest that stopped sending data
// is exactly the condition the loop exists to catch.
func (s Status) Healthy() bool { return s == StatusGood || s == StatusOK }

// Issue is a configuration problem reported alongside the health status.
type Issue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
}

// Sample is a point-in-time read of stream health. It is consumed immediately
// and never stored beyond the current iteration.
type Sample struct {
	Status Status
	Issues []Issue
}

// Poller fetches the current health sample. A returned error is a transient
// fetch failure, distinct from an unhealthy-but-successfully-read sample.
type Poller interface {
	Sample(ctx context.Context) (Sample, error)
}

// Actuator restarts the remote ingest source (the radio automation backend).
type Actuator interface {
	Restart(ctx context.Context) error
}

// Notifier delivers a notification. Delivery failure never affects the loop;
// the bool is observed for logging only.
type Notifier interface {
	Send(ctx context.Context, title, message string, color int) bool
}

// Discord embed colors used for notifications.
const (
	ColorRed    = 0xFF0000
	ColorGreen  = 0x00FF00
	ColorYellow = 0xFFAA00
	ColorBlue   = 0x5865F2
)

// ErrBudgetExhausted terminates the loop once the configured maximum number
// of restarts has been spent. It is a deliberate fatal stop.
var ErrBudgetExhausted = errors.New("watch: max restarts reached, giving up")

// Options configures the supervisory loop. Zero values take the defaults
// used by `yt stream watch`.
type Options struct {
	// Interval is the poll cadence while the stream is healthy.
	Interval time.Duration
	// FailInterval is the faster cadence used once a failure is observed.
	FailInterval time.Duration
	// FailThreshold is the consecutive-failure count that triggers a restart.
	FailThreshold int
	// RestartWait is the grace period after a restart during which no
	// polling occurs.
	RestartWait time.Duration
	// RestartEnabled gates the actuator; when false the loop only observes
	// and notifies.
	RestartEnabled bool
	// MaxRestarts is the global restart budget for the loop's lifetime.
	MaxRestarts int
}

func (o *Options) withDefaults() {
	if o.Interval <= 0 {
		o.Interval = 5 * time.Minute
	}
	if o.FailInterval <= 0 {
		o.FailInterval = 30 * time.Second
	}
	if o.FailThreshold <= 0 {
		o.FailThreshold = 3
	}
	if o.RestartWait <= 0 {
		o.RestartWait = 3 * time.Minute
	}
	if o.MaxRestarts <= 0 {
		o.MaxRestarts = 10
	}
}

// Watcher is the health watch loop. State is process-local and owned
// exclusively by the loop; it is not safe for concurrent use.
type Watcher struct {
	poller   Poller
	actuator Actuator
	notifier Notifier
	opts     Options
	streamID string

	failures int  // consecutive failed samples
	restarts int  // total restarts, never reset
	notified bool // failure notification already sent for this episode
}

// New builds a Watcher. notifier and actuator may be nil; a nil actuator
// behaves as RestartEnabled=false.
func New(streamID string, p Poller, a Actuator, n Notifier, opts Options) *Watcher {
	telemetry.Init()
	opts.withDefaults()
	if a == nil {
		opts.RestartEnabled = false
	}
	return &Watcher{poller: p, actuator: a, notifier: n, opts: opts, streamID: streamID}
}

// TotalRestarts returns the cumulative restart count.
func (w *Watcher) TotalRestarts() int { return w.restarts }

// Run drives the loop until ctx is cancelled or the restart budget is
// exhausted. Cancellation is a clean exit (nil error); budget exhaustion
// returns ErrBudgetExhausted. The cumulative restart count is returned in
// both cases.
func (w *Watcher) Run(ctx context.Context) (int, error) {
	for {
		if ctx.Err() != nil {
			return w.restarts, nil
		}
		delay, err := w.step(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return w.restarts, nil
			}
			return w.restarts, err
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return w.restarts, nil
			case <-time.After(delay):
			}
		}
	}
}

// step performs exactly one iteration: one sample, optionally one restart and
// its grace period, optionally notifications. It returns how long to sleep
// before the next iteration (0 means poll again immediately).
func (w *Watcher) step(ctx context.Context) (time.Duration, error) {
	sample, err := w.poller.Sample(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		// Transient fetch error: not an unhealthy sample. Does not touch the
		// failure counter and is not notified; just retry at the fast cadence.
		slog.Warn("health check failed", slog.String("stream", w.streamID), slog.Any("err", err))
		telemetry.WatchPollErrors.Inc()
		return w.opts.FailInterval, nil
	}
	telemetry.WatchChecks.Inc()

	if sample.Status.Healthy() {
		// A single healthy sample fully clears an in-progress failure episode.
		w.failures = 0
		w.notified = false
		telemetry.WatchConsecutiveFailures.Set(0)
		slog.Info("stream healthy", slog.String("stream", w.streamID), slog.String("health", string(sample.Status)))
		return w.opts.Interval, nil
	}

	w.failures++
	telemetry.WatchFailures.Inc()
	telemetry.WatchConsecutiveFailures.Set(float64(w.failures))
	slog.Warn("stream unhealthy",
		slog.String("stream", w.streamID),
		slog.String("health", string(sample.Status)),
		slog.Int("failures", w.failures),
		slog.Int("threshold", w.opts.FailThreshold))
	for _, issue := range sample.Issues {
		slog.Debug("configuration issue",
			slog.String("type", issue.Type),
			slog.String("severity", issue.Severity),
			slog.String("reason", issue.Reason))
	}

	if !w.notified {
		w.notify(ctx, "Stream Health Issue",
			fmt.Sprintf("Stream health is **%s**\nStream ID: `%s`", sample.Status, w.streamID),
			ColorYellow)
		w.notified = true
	}

	if !w.opts.RestartEnabled || w.failures < w.opts.FailThreshold {
		return w.opts.FailInterval, nil
	}
	return w.restart(ctx)
}

// restart spends one unit of the restart budget, or terminates the loop when
// the budget is already exhausted.
func (w *Watcher) restart(ctx context.Context) (time.Duration, error) {
	if w.restarts >= w.opts.MaxRestarts {
		slog.Error("max restarts reached, giving up",
			slog.Int("max_restarts", w.opts.MaxRestarts), slog.String("stream", w.streamID))
		w.notify(ctx, "Stream Monitor Stopped",
			fmt.Sprintf("Max restarts (%d) reached.\nStream ID: `%s`", w.opts.MaxRestarts, w.streamID),
			ColorRed)
		return 0, ErrBudgetExhausted
	}

	slog.Info("restarting backend", slog.String("stream", w.streamID))
	if err := w.actuator.Restart(ctx); err != nil {
		// Actuator failure: budget is not consumed and the failure count is
		// kept so the loop retries at the fast cadence.
		slog.Error("restart failed", slog.Any("err", err))
		telemetry.WatchRestartFailures.Inc()
		w.notify(ctx, "Restart Failed", fmt.Sprintf("Failed to restart backend: %v", err), ColorRed)
		return w.opts.FailInterval, nil
	}

	w.restarts++
	w.failures = 0
	w.notified = false
	telemetry.WatchRestarts.Inc()
	telemetry.WatchConsecutiveFailures.Set(0)
	slog.Info("backend restarted",
		slog.Int("total_restarts", w.restarts),
		slog.Duration("restart_wait", w.opts.RestartWait))
	w.notify(ctx, "Backend Restarted",
		fmt.Sprintf("Backend restarted due to stream failure.\nTotal restarts: %d\nWaiting %s...", w.restarts, w.opts.RestartWait),
		ColorYellow)

	// Grace period: no polling while the stream reconnects.
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(w.opts.RestartWait):
	}

	// One post-restart sample for a best-effort recovery notification. It
	// does not feed the state machine; the next regular iteration does.
	if sample, err := w.poller.Sample(ctx); err == nil && sample.Status.Healthy() {
		w.notify(ctx, "Stream Recovered",
			fmt.Sprintf("Stream health is now **%s**", sample.Status), ColorGreen)
	}
	return 0, nil
}

func (w *Watcher) notify(ctx context.Context, title, message string, color int) {
	if w.notifier == nil {
		return
	}
	if ok := w.notifier.Send(ctx, title, message, color); !ok {
		slog.Debug("notification delivery failed", slog.String("title", title))
		telemetry.NotificationsFailed.Inc()
		return
	}
	telemetry.NotificationsSent.Inc()
}
