package main

import (
	"context"
	"testing"
	"time"
)

func TestRunMetricsServerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		// Port 0 binds an ephemeral port so the test never collides.
		done <- runMetricsServer(ctx, 0)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop after context cancellation")
	}
}
