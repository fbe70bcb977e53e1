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

package pulse

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/openrng/pulserng/pkg/errors"
	"github.com/openrng/pulserng/pkg/math"
)

// Ring is a fixed-capacity circular buffer of samples for one producer and
// one consumer. The producer owns head, the consumer owns tail; each side
// publishes its own cursor with an atomic store and observes the other side's
// with an atomic load, so a slot written before a head update is always
// visible to the consumer that sees the update. Cursors wrap in place: both
// stay within [0, slot count) for the life of the ring.
//
// One slot is always left empty to tell a full ring from an empty one, which
// makes the usable capacity one less than the slot count. TryPush never
// blocks and never allocates; when the ring is full the sample is rejected
// and the producer moves on.
//
// The per-side mutexes only guard against a second producer or a second
// consumer attached by mistake. They are held for the few instructions of
// cursor arithmetic and are never shared between the two sides, so the
// single-producer single-consumer fast path has no cross-side contention.
type Ring struct {
	buf  []Sample
	mask uint32 // slot count - 1; doubles as the usable capacity
	_    [64]byte

	pushMu sync.Mutex    // producer-side guard, never taken by the consumer
	head   atomic.Uint32 // next slot to write, producer-owned
	_      [64]byte

	popMu sync.Mutex    // consumer-side guard, never taken by the producer
	tail  atomic.Uint32 // next slot to read, consumer-owned
}

// maxSlots bounds a ring to what its 32-bit cursors can address. Device
// rings cover a single memory page and sit far below it.
const maxSlots = 1 << 30

// NewRing returns a ring with at least the given number of slots, rounded up
// to a power of two, minimum 2. Slot counts beyond the cursor range panic.
func NewRing(slots int) *Ring {
	n := math.CeilToPowerOfTwo(slots)
	if n > maxSlots {
		panic("pulse: slot count overflows the ring cursors")
	}
	return &Ring{
		buf:  make([]Sample, n),
		mask: uint32(n - 1),
	}
}

// WrapRing builds a ring over caller-owned storage, typically the memory
// page acquired at device start-up. The slot count is the largest power of
// two no greater than len(mem)/SampleSize, capped at the cursor range; any
// remainder of mem is ignored. The storage must stay valid until the ring
// is discarded.
func WrapRing(mem []byte) (*Ring, error) {
	n := len(mem) / SampleSize
	if n < 2 {
		return nil, errors.ErrRingStorageTooSmall
	}
	if uintptr(unsafe.Pointer(&mem[0]))%unsafe.Alignof(Sample{}) != 0 {
		return nil, errors.ErrRingStorageUnaligned
	}
	n = math.FloorToPowerOfTwo(n)
	if n > maxSlots {
		n = maxSlots
	}
	return &Ring{
		buf:  unsafe.Slice((*Sample)(unsafe.Pointer(&mem[0])), n),
		mask: uint32(n - 1),
	}, nil
}

// Capacity returns how many samples the ring can hold at once. It is one
// less than the slot count because one slot always stays empty.
func (r *Ring) Capacity() int {
	return int(r.mask)
}

// Occupancy returns the number of samples currently buffered. It consumes
// nothing and may be called from either side at any time.
func (r *Ring) Occupancy() int {
	return int((r.head.Load() - r.tail.Load()) & r.mask)
}

// TryPush appends s and reports whether it was stored. It fails when the
// ring is full, leaving the buffered samples and the drop decision to the
// caller. Producer side only.
func (r *Ring) TryPush(s Sample) bool {
	r.pushMu.Lock()
	h := r.head.Load()
	if (h-r.tail.Load())&r.mask == r.mask { // full, the empty slot stays empty
		r.pushMu.Unlock()
		return false
	}
	r.buf[h] = s
	r.head.Store((h + 1) & r.mask) // publish the slot
	r.pushMu.Unlock()
	return true
}

// TryPop removes and returns the oldest sample, reporting whether one was
// there. Consumer side only.
func (r *Ring) TryPop() (Sample, bool) {
	r.popMu.Lock()
	t := r.tail.Load()
	if (r.head.Load()-t)&r.mask == 0 { // nothing buffered
		r.popMu.Unlock()
		return Sample{}, false
	}
	s := r.buf[t]
	r.tail.Store((t + 1) & r.mask) // release the slot
	r.popMu.Unlock()
	return s, true
}

// Drain moves up to len(dst) samples into dst in arrival order and returns
// how many it moved. The tail advances sample by sample, so an Occupancy
// call racing a drain counts exactly the samples not yet taken. Consumer
// side only.
func (r *Ring) Drain(dst []Sample) int {
	r.popMu.Lock()
	n := 0
	for n < len(dst) {
		t := r.tail.Load()
		if (r.head.Load()-t)&r.mask == 0 {
			break
		}
		dst[n] = r.buf[t]
		r.tail.Store((t + 1) & r.mask)
		n++
	}
	r.popMu.Unlock()
	return n
}
