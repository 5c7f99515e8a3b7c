package gate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_TriggerBeforeWait(t *testing.T) {
	g := New()
	g.Trigger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, g.Wait(ctx))
}

func TestGate_RepeatedTriggersCollapse(t *testing.T) {
	g := New()
	g.Trigger()
	g.Trigger()
	g.Trigger()

	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)
}

func TestGate_RearmsAfterWait(t *testing.T) {
	g := New()

	for i := 0; i < 2; i++ {
		go func() {
			time.Sleep(5 * time.Millisecond)
			g.Trigger()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := g.Wait(ctx)
		cancel()
		require.NoError(t, err, "trigger %d", i+1)
	}
}

func TestGate_WaitCancelled(t *testing.T) {
	g := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, g.Wait(ctx), context.Canceled)
}
