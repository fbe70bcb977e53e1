package pulserng

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrng/pulserng/internal/mempage"
	"github.com/openrng/pulserng/pkg/buffer/pulse"
	errorx "github.com/openrng/pulserng/pkg/errors"
	"github.com/openrng/pulserng/pkg/logging"
	"github.com/openrng/pulserng/pkg/source/sim"
)

// stubSource hands the registered pulse handler back to the test so it can
// play the role of the hardware.
type stubSource struct {
	openErr  error
	closeErr error
	fire     func()
	opens    int
	closes   int
}

func (s *stubSource) Open(fire func()) error {
	s.opens++
	if s.openErr != nil {
		return s.openErr
	}
	s.fire = fire
	return nil
}

func (s *stubSource) Close() error {
	s.closes++
	s.fire = nil
	return s.closeErr
}

// newTestDevice builds a detached device over a tiny ring so that tests can
// fill it up with a handful of pulses.
func newTestDevice(slots int, opts ...Option) *Device {
	options := loadOptions(opts...)
	if options.Logger == nil {
		options.Logger = logging.GetDefaultLogger()
	}
	return newDevice(pulse.NewRing(slots), options)
}

// seqClock returns a clock yielding distinguishable, strictly increasing
// timestamps: the n-th pulse is stamped (base+n, n*1111).
func seqClock(base int64) func() pulse.Sample {
	var n int64
	return func() pulse.Sample {
		n++
		return pulse.Sample{Sec: base + n, Nsec: n * 1111}
	}
}

func TestDeviceCaptureAndRead(t *testing.T) {
	const base = 1700000000
	d := newTestDevice(4, WithClock(seqClock(base))) // 4 slots, 3 usable

	assert.Equal(t, 3, d.Capacity())
	assert.Zero(t, d.Present(false))

	// Three pulses fit, the fourth finds the buffer full and is dropped.
	d.Pulse()
	d.Pulse()
	d.Pulse()
	assert.Equal(t, 3*pulse.SampleSize, d.Present(false))
	d.Pulse()
	assert.Equal(t, 3*pulse.SampleSize, d.Present(false), "a dropped pulse must not displace buffered samples")

	st := d.Stats()
	assert.EqualValues(t, 4, st.Pulses)
	assert.EqualValues(t, 1, st.Drops)

	// A two-sample buffer gets exactly the two oldest samples.
	buf := make([]byte, 2*pulse.SampleSize)
	n, err := d.Read(buf, false)
	require.NoError(t, err)
	require.Equal(t, 2*pulse.SampleSize, n)
	assert.Equal(t, pulse.Sample{Sec: base + 1, Nsec: 1111}, pulse.GetSample(buf))
	assert.Equal(t, pulse.Sample{Sec: base + 2, Nsec: 2222}, pulse.GetSample(buf[pulse.SampleSize:]))
	assert.Equal(t, pulse.SampleSize, d.Present(false))

	// An oversized buffer gets the one survivor and nothing invented.
	big := make([]byte, 16*pulse.SampleSize)
	n, err = d.Read(big, false)
	require.NoError(t, err)
	require.Equal(t, pulse.SampleSize, n)
	assert.Equal(t, pulse.Sample{Sec: base + 3, Nsec: 3333}, pulse.GetSample(big))
	assert.Zero(t, d.Present(false))

	// Reading an empty device returns immediately with nothing.
	n, err = d.Read(big, true)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.EqualValues(t, 3, d.Stats().Samples)
}

func TestDeviceReadGranularity(t *testing.T) {
	d := newTestDevice(8, WithClock(seqClock(0)))
	d.Pulse()

	// Whole samples only: a buffer under one sample is diagnosed, not
	// partially filled.
	n, err := d.Read(make([]byte, pulse.SampleSize-1), false)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, errorx.ErrShortReadBuffer)
	assert.Equal(t, pulse.SampleSize, d.Present(false), "a failed read must consume nothing")

	n, err = d.Read(nil, false)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, errorx.ErrShortReadBuffer)

	// Spare bytes beyond the last whole sample stay untouched.
	buf := make([]byte, pulse.SampleSize+7)
	for i := range buf {
		buf[i] = 0xEE
	}
	n, err = d.Read(buf, false)
	require.NoError(t, err)
	assert.Equal(t, pulse.SampleSize, n)
	for _, b := range buf[pulse.SampleSize:] {
		assert.EqualValues(t, 0xEE, b)
	}
}

func TestDeviceReadUint32(t *testing.T) {
	var n int64
	clock := func() pulse.Sample {
		n++
		// Nanoseconds deliberately wider than 32 bits to exercise the
		// truncation.
		return pulse.Sample{Sec: n, Nsec: 0x1_0000_0000 + n}
	}
	d := newTestDevice(8, WithClock(clock))

	_, ok := d.ReadUint32()
	assert.False(t, ok, "an empty device has no word to give")

	d.Pulse()
	d.Pulse()

	v, ok := d.ReadUint32()
	require.True(t, ok)
	assert.EqualValues(t, 1, v, "the high 32 bits of the nanosecond field are cut off")

	// The legacy word read consumes exactly one sample.
	assert.Equal(t, pulse.SampleSize, d.Present(false))

	v, ok = d.ReadUint32()
	require.True(t, ok)
	assert.EqualValues(t, 2, v)

	_, ok = d.ReadUint32()
	assert.False(t, ok)
	assert.EqualValues(t, 2, d.Stats().Samples)
}

func TestDeviceInterleavedReads(t *testing.T) {
	const base = 1650000000
	d := newTestDevice(16, WithClock(seqClock(base)))

	const pulses = 9
	for i := 0; i < pulses; i++ {
		d.Pulse()
	}

	// Both read paths consume through the same cursor: however a caller
	// mixes them, every sample leaves exactly once, in arrival order.
	var got []uint32
	popWords := func(k int) {
		for i := 0; i < k; i++ {
			w, ok := d.ReadUint32()
			require.True(t, ok)
			got = append(got, w)
		}
	}
	popSamples := func(k int) {
		buf := make([]byte, k*pulse.SampleSize)
		n, err := d.Read(buf, false)
		require.NoError(t, err)
		require.Equal(t, k*pulse.SampleSize, n)
		for i := 0; i < k; i++ {
			s := pulse.GetSample(buf[i*pulse.SampleSize:])
			assert.Equal(t, base+s.Nsec/1111, s.Sec, "interleaving must hand out whole samples")
			got = append(got, uint32(s.Nsec))
		}
	}

	popWords(1)
	popSamples(2)
	popWords(1)
	popSamples(3)
	popWords(2)

	want := make([]uint32, pulses)
	for i := range want {
		want[i] = uint32((i + 1) * 1111)
	}
	assert.Equal(t, want, got)
	assert.Zero(t, d.Present(false))

	_, ok := d.ReadUint32()
	assert.False(t, ok)
	assert.EqualValues(t, pulses, d.Stats().Samples)
}

func TestDevicePresentIgnoresWait(t *testing.T) {
	d := newTestDevice(8, WithClock(seqClock(0)))

	start := time.Now()
	assert.Zero(t, d.Present(true), "present must not block even when asked to wait")
	assert.Less(t, time.Since(start), time.Second)

	d.Pulse()
	assert.Equal(t, d.Present(false), d.Present(true))
}

func TestDeviceOverflowHandler(t *testing.T) {
	var notified atomic.Uint64
	d := newTestDevice(4,
		WithClock(seqClock(0)),
		WithOverflowHandler(func(drops uint64) { notified.Store(drops) }),
	)

	for i := 0; i < 5; i++ { // two more than fit
		d.Pulse()
	}
	st := d.Stats()
	assert.EqualValues(t, 5, st.Pulses)
	assert.EqualValues(t, 2, st.Drops)

	// The notification arrives asynchronously on a pool worker.
	assert.Eventually(t, func() bool { return notified.Load() > 0 },
		time.Second, time.Millisecond, "the overflow handler never ran")

	require.NoError(t, d.Close())
}

func TestDevicePulseDoesNotAllocate(t *testing.T) {
	d := newTestDevice(8, WithClock(seqClock(0)))

	// Covers both branches: the ring fills after seven pushes and the rest
	// of the runs take the drop branch, handler-less.
	allocs := testing.AllocsPerRun(100, d.Pulse)
	assert.Zero(t, allocs)
}

func TestDeviceSourceWiring(t *testing.T) {
	src := new(stubSource)
	d, err := Open(src, WithClock(seqClock(0)))
	require.NoError(t, err)
	require.Equal(t, 1, src.opens)
	require.NotNil(t, src.fire, "open must register the pulse handler with the source")

	// The page holds a power of two of samples, one slot stays empty.
	assert.Equal(t, mempage.Size()/pulse.SampleSize-1, d.Capacity())

	src.fire()
	src.fire()
	assert.Equal(t, 2*pulse.SampleSize, d.Present(false))

	require.NoError(t, d.Close())
	assert.Equal(t, 1, src.closes, "close must detach the source")
}

func TestDeviceOpenSourceFailure(t *testing.T) {
	boom := errors.New("detector is on fire")
	d, err := Open(&stubSource{openErr: boom})
	assert.Nil(t, d)
	assert.ErrorIs(t, err, boom)

	// With an overflow handler set the unwind also has the notifier pool
	// to put back, not just the page.
	d, err = Open(&stubSource{openErr: boom}, WithOverflowHandler(func(uint64) {}))
	assert.Nil(t, d)
	assert.ErrorIs(t, err, boom)

	// A fresh open with the same options must come up clean afterwards.
	src := new(stubSource)
	d, err = Open(src, WithOverflowHandler(func(uint64) {}))
	require.NoError(t, err)
	require.NoError(t, d.Close())
	assert.Equal(t, 1, src.closes)
}

func TestDeviceLogToLocalFile(t *testing.T) {
	currentLogger, currentFlusher := logging.GetDefaultLogger(), logging.GetDefaultFlusher()
	t.Cleanup(func() {
		logging.SetDefaultLoggerAndFlusher(currentLogger, currentFlusher) // restore
	})

	logPath := filepath.Join(t.TempDir(), "pulserng-test.log")
	d, err := Open(nil,
		WithLogPath(logPath),
		WithLogLevel(logging.InfoLevel),
		WithClock(seqClock(0)))
	require.NoError(t, err)

	d.Pulse()
	require.NoError(t, d.Close())

	info, err := os.Stat(logPath)
	require.NoError(t, err, "a configured log path must produce a log file")
	assert.Positive(t, info.Size())
}

func TestDeviceClose(t *testing.T) {
	src := new(stubSource)
	d, err := Open(src, WithClock(seqClock(0)))
	require.NoError(t, err)

	src.fire()
	require.NoError(t, d.Close())

	// Closing twice is reported, not repeated.
	assert.ErrorIs(t, d.Close(), errorx.ErrDeviceInShutdown)
	assert.Equal(t, 1, src.closes)

	// Every entry point refuses or degrades cleanly after shutdown.
	_, err = d.Read(make([]byte, pulse.SampleSize), false)
	assert.ErrorIs(t, err, errorx.ErrDeviceClosed)
	assert.Zero(t, d.Present(false))
	_, ok := d.ReadUint32()
	assert.False(t, ok)

	before := d.Stats()
	d.Pulse()
	assert.Equal(t, before, d.Stats(), "a closed device must ignore pulses")
}

func TestDeviceCloseReportsSourceError(t *testing.T) {
	boom := errors.New("stuck interrupt line")
	d, err := Open(&stubSource{closeErr: boom})
	require.NoError(t, err)
	assert.ErrorIs(t, d.Close(), boom)
}

func TestDeviceWithSimSource(t *testing.T) {
	d, err := Open(&sim.Source{MeanInterval: 100 * time.Microsecond, Seed: 7})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return d.Present(false) >= 4*pulse.SampleSize },
		time.Second, time.Millisecond, "the simulated detector never filled the buffer")

	buf := make([]byte, 4*pulse.SampleSize)
	n, err := d.Read(buf, false)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	// Timestamps must be sane wall-clock readings in arrival order.
	now := time.Now().Unix()
	var last pulse.Sample
	for off := 0; off < n; off += pulse.SampleSize {
		s := pulse.GetSample(buf[off:])
		assert.InDelta(t, now, s.Sec, 60)
		assert.GreaterOrEqual(t, s.Nsec, int64(0))
		assert.Less(t, s.Nsec, int64(time.Second))
		if off > 0 {
			ordered := s.Sec > last.Sec || (s.Sec == last.Sec && s.Nsec >= last.Nsec)
			assert.True(t, ordered, "samples must leave in arrival order")
		}
		last = s
	}

	require.NoError(t, d.Close())

	st := d.Stats()
	assert.GreaterOrEqual(t, st.Pulses, uint64(4))
	assert.EqualValues(t, 4, st.Samples)
}
