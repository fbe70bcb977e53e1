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

// Package mempage acquires and releases the single page of memory that backs
// a device's sample ring. On Unix-like systems the page comes straight from
// mmap(2) so its lifetime is decoupled from the Go heap and it is returned to
// the OS the moment the device shuts down; elsewhere it falls back to a
// page-sized heap slice.
package mempage

import "os"

// Size returns the host page size in bytes.
func Size() int {
	return os.Getpagesize()
}
