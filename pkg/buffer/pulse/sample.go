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

// Package pulse implements the sample record and the single-producer
// single-consumer ring buffer at the core of the entropy device.
package pulse

import (
	"encoding/binary"
	"time"
)

// SampleSize is the encoded size of one Sample in bytes.
const SampleSize = 16

// Sample is the timestamp of one detected pulse, split into whole seconds
// and the nanosecond remainder. Both fields are signed 64-bit values and the
// record is immutable once captured; its encoded form is the raw material
// handed to entropy readers.
type Sample struct {
	Sec  int64 // whole seconds since the Unix epoch
	Nsec int64 // nanoseconds within the second, [0, 1e9)
}

// Now captures the current wall-clock time as a Sample.
func Now() Sample {
	t := time.Now()
	return Sample{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// PutSample encodes s into buf in little-endian byte order, seconds first.
// It panics if buf is shorter than SampleSize.
func PutSample(buf []byte, s Sample) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(s.Sec))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(s.Nsec))
}

// GetSample decodes the sample encoded at the front of buf.
// It panics if buf is shorter than SampleSize.
func GetSample(buf []byte) Sample {
	return Sample{
		Sec:  int64(binary.LittleEndian.Uint64(buf[0:8])),
		Nsec: int64(binary.LittleEndian.Uint64(buf[8:16])),
	}
}
