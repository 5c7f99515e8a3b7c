//go:build unix

package topology

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/membench/internal/gate"
)

const helperEnv = "MEMBENCH_TOPOLOGY_HELPER"

// platformHelpers holds helper process bodies registered by
// platform-specific test files.
var platformHelpers = map[string]func() int{}

// TestMain lets the test binary act as a worker process.
func TestMain(m *testing.M) {
	mode := os.Getenv(helperEnv)
	switch mode {
	case "":
	case "worker":
		os.Exit(helperWorker())
	case "exit":
		os.Exit(3)
	default:
		if helper, ok := platformHelpers[mode]; ok {
			os.Exit(helper())
		}
	}
	os.Exit(m.Run())
}

func helperWorker() int {
	payload, err := io.ReadAll(os.Stdin)
	if err != nil {
		return 1
	}

	g := gate.New()
	stop := gate.Notify(g)
	defer stop()

	if err := NotifyReady(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := g.Wait(context.Background()); err != nil {
		return 1
	}
	fmt.Printf("report for %s\n", payload)
	return 0
}

func helperLauncher(t *testing.T, mode string) *ProcessLauncher {
	t.Helper()
	t.Setenv(helperEnv, mode)
	return &ProcessLauncher{
		Args: []string{"-test.run=^$"},
		Payload: func(spec WorkerSpec) ([]byte, error) {
			return []byte(fmt.Sprintf("worker-%d-seed-%d", spec.Index, spec.Seed)), nil
		},
		Stderr: os.Stderr,
	}
}

func TestProcessLauncher_RoundTrip(t *testing.T) {
	launcher := helperLauncher(t, "worker")

	h, err := launcher.Launch(context.Background(), WorkerSpec{Index: 1, Seed: 43})
	require.NoError(t, err)
	assert.NotEqual(t, os.Getpid(), h.PID())

	select {
	case <-h.Ready():
	case <-h.Done():
		_, err := h.Wait()
		t.Fatalf("worker exited before ready: %v", err)
	case <-time.After(10 * time.Second):
		h.Stop()
		t.Fatal("worker never became ready")
	}

	require.NoError(t, h.Release())
	report, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, "report for worker-1-seed-43", strings.TrimSpace(string(report)))

	assert.Error(t, h.Release(), "releasing an exited worker")
}

func TestProcessLauncher_ExitBeforeReady(t *testing.T) {
	launcher := helperLauncher(t, "exit")

	h, err := launcher.Launch(context.Background(), WorkerSpec{})
	require.NoError(t, err)

	_, err = h.Wait()
	require.Error(t, err)
	select {
	case <-h.Ready():
		t.Error("worker reported readiness")
	default:
	}
}

func TestProcessLauncher_ContextStopsWorker(t *testing.T) {
	launcher := helperLauncher(t, "worker")

	ctx, cancel := context.WithCancel(context.Background())
	h, err := launcher.Launch(ctx, WorkerSpec{})
	require.NoError(t, err)

	<-h.Ready()
	cancel()

	_, err = h.Wait()
	assert.Error(t, err)
}

func TestProcessLauncher_PayloadError(t *testing.T) {
	launcher := &ProcessLauncher{
		Payload: func(WorkerSpec) ([]byte, error) {
			return nil, fmt.Errorf("bad config")
		},
	}

	_, err := launcher.Launch(context.Background(), WorkerSpec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode worker payload")
}
