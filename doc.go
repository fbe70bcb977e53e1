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

/*
Package pulserng turns the timing of discrete physical events into a raw
entropy stream. A pulse source, typically a radiation detector ticking at
random, fires a handler on every event; the device stamps each event with a
wall-clock timestamp at nanosecond resolution and buffers the stamps in a
single-producer single-consumer ring that lives in one page of memory. A
reader then collects the encoded timestamps, whose low-order bits carry the
arrival jitter that makes them worth harvesting.

The capture path is wait-free. A pulse is recorded or dropped in bounded
time, so even an interrupt-grade source can never be stalled by a slow or
absent reader; when the buffer is full, new pulses are counted and thrown
away while the buffered backlog stays intact.

The package does no whitening, health testing or rate shaping. What comes
out of a device is the raw timestamp material, in arrival order, for a
downstream conditioner to judge.

A minimal consumer looks like this:

	package main

	import (
		"fmt"
		"log"
		"time"

		"github.com/openrng/pulserng"
		"github.com/openrng/pulserng/pkg/source/sim"
	)

	func main() {
		dev, err := pulserng.Open(&sim.Source{MeanInterval: time.Millisecond})
		if err != nil {
			log.Fatal(err)
		}
		defer dev.Close()

		time.Sleep(100 * time.Millisecond)

		buf := make([]byte, 256)
		n, err := dev.Read(buf, false)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d bytes of raw timing entropy: %x\n", n, buf[:n])
	}
*/
package pulserng
