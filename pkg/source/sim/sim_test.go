package sim

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrng/pulserng/pkg/errors"
)

func TestSourcePulses(t *testing.T) {
	var count atomic.Int64
	s := &Source{MeanInterval: 100 * time.Microsecond, Seed: 42}
	require.NoError(t, s.Open(func() { count.Add(1) }))

	assert.Eventually(t, func() bool { return count.Load() >= 10 },
		time.Second, time.Millisecond, "an open source must keep pulsing")

	require.NoError(t, s.Close())
	final := count.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, final, count.Load(), "no pulse may fire after Close returns")
}

func TestSourceLifecycle(t *testing.T) {
	s := new(Source)
	require.NoError(t, s.Open(func() {}))
	assert.ErrorIs(t, s.Open(func() {}), errors.ErrSourceRunning)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), errors.ErrSourceClosed)

	// A closed source can be opened again.
	require.NoError(t, s.Open(func() {}))
	require.NoError(t, s.Close())
}
