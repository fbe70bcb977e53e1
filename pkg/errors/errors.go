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

// Package errors defines common errors for pulserng.
package errors

import "errors"

var (
	// ErrDeviceInShutdown occurs when attempting to close a device more than once.
	ErrDeviceInShutdown = errors.New("pulserng: device is already in shutdown")
	// ErrDeviceClosed occurs when reading from a device after it has been closed.
	ErrDeviceClosed = errors.New("pulserng: device is closed")
	// ErrShortReadBuffer occurs when the destination buffer cannot hold even one sample.
	ErrShortReadBuffer = errors.New("pulserng: read buffer is shorter than one sample")
	// ErrRingStorageTooSmall occurs when the backing storage cannot hold two samples.
	ErrRingStorageTooSmall = errors.New("pulserng: ring storage is too small for two samples")
	// ErrRingStorageUnaligned occurs when the backing storage is not aligned for samples.
	ErrRingStorageUnaligned = errors.New("pulserng: ring storage is not sample-aligned")
	// ErrSourceRunning occurs when opening a pulse source that is already open.
	ErrSourceRunning = errors.New("pulserng: pulse source is already running")
	// ErrSourceClosed occurs when closing a pulse source that is not open.
	ErrSourceClosed = errors.New("pulserng: pulse source is not running")
)
