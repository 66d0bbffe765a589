// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU device context for GPU tensor
// storage. It requires the wgpu_native shared library at runtime; use
// IsAvailable to probe before committing to GPU paths.
package webgpu

import (
	"github.com/born-ml/gputensor/device"
	"github.com/born-ml/gputensor/internal/backend/webgpu"
)

// Backend is a device context backed by a WebGPU device.
type Backend = webgpu.Backend

// MemoryStats represents GPU memory usage statistics.
type MemoryStats = webgpu.MemoryStats

// Verify that Backend implements the device context interface.
var _ device.Context = (*Backend)(nil)

// New creates a new WebGPU device context.
// Returns an error if WebGPU is not available or initialization fails.
func New() (*Backend, error) {
	return webgpu.New()
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() bool {
	return webgpu.IsAvailable()
}
