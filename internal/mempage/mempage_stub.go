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

//go:build !linux && !freebsd && !dragonfly && !darwin
// +build !linux,!freebsd,!dragonfly,!darwin

package mempage

// Alloc returns a page-sized heap slice on platforms without mmap support.
func Alloc() ([]byte, error) {
	return make([]byte, Size()), nil
}

// Free is a no-op for heap-backed pages, the garbage collector reclaims them.
func Free(_ []byte) error {
	return nil
}
