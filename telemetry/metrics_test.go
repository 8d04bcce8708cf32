package telemetry

import "testing"

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()
	if WatchChecks == nil || WatchRestarts == nil || NotificationsSent == nil {
		t.Fatal("metrics not registered after Init")
	}
	WatchChecks.Inc()
	WatchConsecutiveFailures.Set(2)
}
