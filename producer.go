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

// Pulse records the arrival time of one physical event. It is the handler a
// Device hands to its Source and may also be driven directly on a device
// opened without one.
//
// Pulse runs in bounded time and never blocks or sleeps, and the capture
// path does not allocate (the drop branch allocates only the closure it
// hands to the pool when an overflow handler is set). When the buffer is
// full the event is counted as a drop and its timestamp discarded; the
// currently buffered samples are never displaced. At most one goroutine
// may drive Pulse at a time, and manual callers must stop before Close.
func (d *Device) Pulse() {
	if d.closed.Load() {
		return
	}

	s := d.clock()
	d.pulses.Add(1)
	if d.ring.TryPush(s) {
		return
	}

	n := d.drops.Add(1)
	if h := d.opts.OverflowHandler; h != nil {
		// The handler runs on a pool worker; when the pool is saturated the
		// notification is skipped, never waited for.
		_ = d.notifier.Submit(func() { h(n) })
	}
}
