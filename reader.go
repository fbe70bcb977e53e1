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
	"github.com/openrng/pulserng/pkg/buffer/pulse"
	errorx "github.com/openrng/pulserng/pkg/errors"
)

// Present reports how many bytes of entropy are ready to read right now.
// The wait flag exists for callers written against blocking device
// interfaces and is ignored: Present never waits for more entropy to
// arrive. It returns 0 once the device is closed.
func (d *Device) Present(wait bool) int {
	_ = wait
	if d.closed.Load() {
		return 0
	}
	return d.ring.Occupancy() * pulse.SampleSize
}

// Read fills p with encoded samples and returns how many bytes it wrote,
// always a multiple of the sample size. Samples leave the device in arrival
// order, each one exactly once. Read returns what is buffered at the moment
// of the call, up to len(p); when the buffer holds more than fits into p the
// rest stays for the next call, and when it holds nothing Read returns 0 at
// once. A p shorter than one sample yields ErrShortReadBuffer since a sample
// cannot be split across calls.
//
// As with Present, wait is accepted for interface compatibility and ignored.
func (d *Device) Read(p []byte, wait bool) (int, error) {
	_ = wait
	if d.closed.Load() {
		return 0, errorx.ErrDeviceClosed
	}
	if len(p) < pulse.SampleSize {
		return 0, errorx.ErrShortReadBuffer
	}

	want := len(p) / pulse.SampleSize
	if want > len(d.scratch) {
		want = len(d.scratch)
	}

	d.readMu.Lock()
	if d.closed.Load() { // the page may be gone, Close owns it now
		d.readMu.Unlock()
		return 0, errorx.ErrDeviceClosed
	}
	n := d.ring.Drain(d.scratch[:want])
	for i := 0; i < n; i++ {
		pulse.PutSample(p[i*pulse.SampleSize:], d.scratch[i])
	}
	d.readMu.Unlock()

	d.samples.Add(uint64(n))
	return n * pulse.SampleSize, nil
}

// ReadUint32 pops one sample and returns its nanosecond component truncated
// to 32 bits, which is where nearly all of the timing jitter lives. It is
// the compatibility surface for consumers built around word-sized entropy
// feeds. The second return value is false when no sample is buffered or the
// device is closed.
func (d *Device) ReadUint32() (uint32, bool) {
	if d.closed.Load() {
		return 0, false
	}

	d.readMu.Lock()
	if d.closed.Load() {
		d.readMu.Unlock()
		return 0, false
	}
	s, ok := d.ring.TryPop()
	d.readMu.Unlock()

	if !ok {
		return 0, false
	}
	d.samples.Add(1)
	return uint32(s.Nsec), true
}
