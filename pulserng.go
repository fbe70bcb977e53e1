// Copyright (c) 2026 The Pulserng Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pulserng

import (
	"sync"
	"sync/atomic"

	"github.com/openrng/pulserng/internal/mempage"
	"github.com/openrng/pulserng/pkg/buffer/pulse"
	errorx "github.com/openrng/pulserng/pkg/errors"
	"github.com/openrng/pulserng/pkg/logging"
	"github.com/openrng/pulserng/pkg/pool/goroutine"
)

// Source feeds a Device with physical events. Open wires the device's pulse
// handler to whatever emits the events, a GPIO line, a DAQ card, a simulator,
// and the handler is then invoked once per detected pulse. Close detaches the
// handler and must not return while a call to it is still in flight, that is
// what lets the device release the sample storage safely afterwards.
type Source interface {
	Open(fire func()) error
	Close() error
}

// Device captures the arrival time of every pulse its source reports and
// buffers the timestamps as raw entropy until a reader collects them. The
// capture path is wait-free: when readers fall behind and the buffer fills
// up, new pulses are counted and discarded rather than ever stalling the
// source.
//
// A device accepts exactly one producing source and one reading goroutine.
// All samples live in a single page of memory acquired when the device opens
// and handed back to the OS when it closes.
type Device struct {
	opts *Options
	src  Source
	ring *pulse.Ring
	mem  []byte // the mmap'd page backing the ring, nil once released

	readMu  sync.Mutex     // serializes readers and fences them against Close
	scratch []pulse.Sample // reader staging, sized to the ring capacity

	clock    func() pulse.Sample
	notifier *goroutine.Pool // runs overflow callbacks off the pulse path

	pulses  atomic.Uint64
	drops   atomic.Uint64
	samples atomic.Uint64

	closed atomic.Bool
}

// Stats is a point-in-time snapshot of a device's counters.
type Stats struct {
	// Pulses is the number of events the source has reported so far.
	Pulses uint64
	// Drops is the number of events discarded because the buffer was full.
	Drops uint64
	// Samples is the number of samples handed to readers so far.
	Samples uint64
}

// Open acquires one page of sample storage, builds the ring on top of it and
// attaches src, after which pulses are being captured and the device is ready
// to read from. A nil src opens a detached device whose Pulse method is
// driven by the caller. When any stage fails, everything acquired by the
// stages before it is released before the error is returned.
func Open(src Source, opts ...Option) (*Device, error) {
	options := loadOptions(opts...)

	logging.Debugf("default logging level is %s", logging.LogLevel())

	var (
		logger     logging.Logger
		logFlusher logging.Flusher
		err        error
	)
	logger, logFlusher = logging.GetDefaultLogger(), logging.GetDefaultFlusher()
	if options.Logger == nil {
		if options.LogPath != "" {
			if logger, logFlusher, err = logging.CreateLoggerAsLocalFile(options.LogPath, options.LogLevel); err != nil {
				return nil, err
			}
		}
		options.Logger = logger
	} else {
		logger = options.Logger
		logFlusher = nil
	}
	logging.SetDefaultLoggerAndFlusher(logger, logFlusher)

	mem, err := mempage.Alloc()
	if err != nil {
		options.Logger.Errorf("failed to acquire the sample page: %v", err)
		return nil, err
	}

	ring, err := pulse.WrapRing(mem)
	if err != nil {
		_ = mempage.Free(mem)
		return nil, err
	}

	d := newDevice(ring, options)
	d.mem = mem
	d.src = src

	if src != nil {
		if err = src.Open(d.Pulse); err != nil {
			options.Logger.Errorf("failed to open the pulse source: %v", err)
			if d.notifier != nil {
				d.notifier.Release()
			}
			_ = mempage.Free(mem)
			return nil, err
		}
	}

	options.Logger.Infof("pulserng device is open, buffering up to %d samples (%d bytes)",
		d.Capacity(), d.Capacity()*pulse.SampleSize)

	return d, nil
}

// newDevice wires a device around an existing ring. Tests use it to build
// devices with tiny rings that fill up quickly.
func newDevice(ring *pulse.Ring, options *Options) *Device {
	d := &Device{
		opts:    options,
		ring:    ring,
		scratch: make([]pulse.Sample, ring.Capacity()),
		clock:   options.Clock,
	}
	if d.clock == nil {
		d.clock = pulse.Now
	}
	if options.OverflowHandler != nil {
		d.notifier = goroutine.Default()
	}
	return d
}

// Capacity returns how many samples the device can hold before it starts
// dropping pulses.
func (d *Device) Capacity() int {
	return d.ring.Capacity()
}

// Stats returns a snapshot of the device's counters. The counters keep
// their final values after Close.
func (d *Device) Stats() Stats {
	return Stats{
		Pulses:  d.pulses.Load(),
		Drops:   d.drops.Load(),
		Samples: d.samples.Load(),
	}
}

// Close shuts the device down: it detaches the source first, so that no
// pulse can arrive afterwards, then releases the sample page back to the OS.
// Buffered samples that were never read are discarded. Close returns
// ErrDeviceInShutdown when the device is already closed.
func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return errorx.ErrDeviceInShutdown
	}

	var firstErr error
	if d.src != nil {
		if err := d.src.Close(); err != nil {
			d.opts.Logger.Errorf("failed to close the pulse source: %v", err)
			firstErr = err
		}
	}

	if d.notifier != nil {
		d.notifier.Release()
	}

	// In-flight readers drain under readMu; once we hold it, nobody can
	// touch the page again.
	d.readMu.Lock()
	err := mempage.Free(d.mem)
	d.mem = nil
	d.readMu.Unlock()
	if err != nil && firstErr == nil {
		firstErr = err
	}

	st := d.Stats()
	d.opts.Logger.Infof("pulserng device is closed, %d pulses captured, %d dropped, %d samples read",
		st.Pulses, st.Drops, st.Samples)

	// Flush the logger.
	logging.Cleanup()

	return firstErr
}
