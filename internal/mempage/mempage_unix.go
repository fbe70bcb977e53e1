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

//go:build linux || freebsd || dragonfly || darwin
// +build linux freebsd dragonfly darwin

package mempage

import "golang.org/x/sys/unix"

// Alloc maps one anonymous private page and returns it zero-filled.
// The page is naturally aligned, so any power-of-two record size packs
// into it without padding.
func Alloc() ([]byte, error) {
	return unix.Mmap(-1, 0, Size(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// Free unmaps a page obtained from Alloc. The memory must not be touched
// afterwards. Freeing a nil slice is a no-op.
func Free(mem []byte) error {
	if mem == nil {
		return nil
	}
	return unix.Munmap(mem)
}
