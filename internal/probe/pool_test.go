// SPDX-License-Identifier: MIT

package probe

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

func TestPoolSetRPS(t *testing.T) {
	pool := NewPool(NewCheckerWithClient(nil), PoolConfig{Workers: 1, RPS: 5}, nil)
	assert.Equal(t, rate.Limit(5), pool.limiter.Limit())

	pool.SetRPS(9)
	assert.Equal(t, rate.Limit(9), pool.limiter.Limit())

	pool.SetRPS(0)
	assert.Equal(t, rate.Inf, pool.limiter.Limit())
}

func TestPoolDeliversCompletionsByKey(t *testing.T) {
	defer goleak.VerifyNone(t)

	done := make(chan Completion, 8)
	pool := NewPool(NewCheckerWithClient(nil), PoolConfig{Workers: 2}, func(c Completion) {
		done <- c
	})
	pool.Start()
	defer pool.Stop()

	// empty stream URL and udp scheme classify without any network I/O
	require.True(t, pool.EnqueueStream(t.Context(), "row-a", ""))
	require.True(t, pool.EnqueueStream(t.Context(), "row-b", "udp://239.0.0.1:1234"))
	require.True(t, pool.EnqueueLogo(t.Context(), "row-c", ""))

	got := map[string]Completion{}
	for i := 0; i < 3; i++ {
		select {
		case c := <-done:
			got[c.Key] = c
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for completion %d", i)
		}
	}

	assert.Equal(t, Unreachable, got["row-a"].Stream.Class)
	assert.Equal(t, Indeterminate, got["row-b"].Stream.Class)
	assert.Equal(t, LogoNotSet, got["row-c"].Logo.Status)
	assert.Equal(t, KindLogo, got["row-c"].Kind)
}

func TestPoolDedupAndQueueFull(t *testing.T) {
	// Not started: jobs stay queued, so dedup behaviour is deterministic.
	pool := NewPool(NewCheckerWithClient(nil), PoolConfig{Workers: 1, QueueSize: 1}, nil)

	assert.True(t, pool.EnqueueStream(t.Context(), "row-a", "http://x/a.ts"), "first enqueue accepted")
	assert.True(t, pool.EnqueueStream(t.Context(), "row-a", "http://x/a.ts"), "duplicate counts as handled")
	assert.False(t, pool.EnqueueStream(t.Context(), "row-b", "http://x/b.ts"), "queue full drops")
	assert.False(t, pool.EnqueueStream(t.Context(), "", "http://x/c.ts"), "missing key rejected")

	pool.Start()
	pool.Stop()
}

func TestPoolStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := NewPool(NewCheckerWithClient(nil), PoolConfig{Workers: 4}, nil)
	pool.Start()
	pool.Stop()
	pool.Stop()
}

func TestPoolEnqueueAfterStopIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	pool := NewPool(NewCheckerWithClient(nil), PoolConfig{Workers: 1}, nil)
	pool.Start()
	pool.Stop()

	// e.g. a debounce timer firing during shutdown
	assert.False(t, pool.EnqueueStream(t.Context(), "row-a", "http://x/a.ts"))
	assert.False(t, pool.EnqueueLogo(t.Context(), "row-a", "http://x/logo.png"))
}

func TestPoolDedupClearsAfterCompletion(t *testing.T) {
	defer goleak.VerifyNone(t)

	var n atomic.Int32
	done := make(chan struct{}, 4)
	pool := NewPool(NewCheckerWithClient(nil), PoolConfig{Workers: 1}, func(Completion) {
		n.Add(1)
		done <- struct{}{}
	})
	pool.Start()
	defer pool.Stop()

	require.True(t, pool.EnqueueStream(t.Context(), "row-a", ""))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first completion timed out")
	}

	// same key again: no longer inflight, must run a second time
	require.True(t, pool.EnqueueStream(t.Context(), "row-a", ""))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("second completion timed out")
	}

	assert.Equal(t, int32(2), n.Load())
}
