// Package webgpu implements the device context on WebGPU.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/rs/zerolog/log"

	"github.com/born-ml/gputensor/internal/device"
)

// Backend is a device.Context backed by a WebGPU device. It owns the
// sampler cache, the deferred cleanup queues, and memory statistics.
//
// WebGPU tracks resource hazards itself, so the barrier records produced
// by the storage layer are bookkeeping for the recording layer here; the
// cleanup queues still matter, because retiring a texture while submitted
// work references it is invalid in every backend.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Device info
	adapterInfo *wgpu.AdapterInfoGo

	// Sampler cache keyed by the full sampler properties.
	samplers map[device.SamplerProperties]*wgpu.Sampler
	mu       sync.Mutex

	// Deferred cleanup queues. Drained by DrainCleanup once the caller
	// knows prior submissions completed.
	imageCleanup  device.CleanupQueue[*device.Image]
	bufferCleanup device.CleanupQueue[*device.Buffer]

	// Memory tracking
	memoryStats struct {
		totalAllocatedBytes uint64
		peakMemoryBytes     uint64
		activeResources     int64
		mu                  sync.Mutex
	}
}

// Verify that Backend implements device.Context.
var _ device.Context = (*Backend)(nil)

// New creates a new WebGPU device context.
// Returns an error if WebGPU is not available or initialization fails.
func New() (backend *Backend, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, _ := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	adapterInfo, _ := adapter.Info()

	dev, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := dev.Queue()
	if queue == nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	b := &Backend{
		instance:    instance,
		adapter:     adapter,
		device:      dev,
		queue:       queue,
		adapterInfo: adapterInfo,
		samplers:    make(map[device.SamplerProperties]*wgpu.Sampler),
	}

	log.Debug().
		Str("adapter", adapterInfo.Device).
		Str("vendor", adapterInfo.Vendor).
		Msg("webgpu device context created")

	return b, nil
}

// Name returns the backend name.
func (b *Backend) Name() string {
	if b.adapterInfo != nil {
		return fmt.Sprintf("WebGPU (%s %s)", b.adapterInfo.Device, b.adapterInfo.Vendor)
	}
	return "WebGPU"
}

// AdapterInfo returns information about the GPU adapter.
func (b *Backend) AdapterInfo() *wgpu.AdapterInfoGo {
	return b.adapterInfo
}

// DrainCleanup destroys every retired resource. Call only after the
// device has confirmed that all submissions referencing them completed
// (e.g. after an idle wait).
func (b *Backend) DrainCleanup() {
	images := b.imageCleanup.Drain(func(img *device.Image) {
		b.trackRelease(textureByteSize(img))
		if tex, ok := img.Handle().(*wgpu.Texture); ok && tex != nil {
			tex.Release()
		}
	})
	buffers := b.bufferCleanup.Drain(func(buf *device.Buffer) {
		b.trackRelease(buf.ByteSize())
		if wb, ok := buf.Handle().(*wgpu.Buffer); ok && wb != nil {
			wb.Release()
		}
	})

	if images > 0 || buffers > 0 {
		log.Debug().
			Int("images", images).
			Int("buffers", buffers).
			Msg("drained retired GPU resources")
	}
}

// PendingCleanup returns how many retired resources await destruction.
func (b *Backend) PendingCleanup() int {
	return b.imageCleanup.Len() + b.bufferCleanup.Len()
}

// Release drains the cleanup queues and releases all WebGPU resources.
// Must be called when the context is no longer needed.
func (b *Backend) Release() {
	b.DrainCleanup()

	b.mu.Lock()
	for _, s := range b.samplers {
		s.Release()
	}
	b.samplers = nil
	b.mu.Unlock()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() (available bool) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance, _ := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()

	return true
}

// MemoryStats represents GPU memory usage statistics.
type MemoryStats struct {
	// Total bytes currently allocated through this context
	TotalAllocatedBytes uint64
	// Peak memory usage in bytes
	PeakMemoryBytes uint64
	// Number of currently live resources
	ActiveResources int64
	// Retired resources awaiting destruction
	PendingCleanup int
}

// MemoryStats returns current GPU memory usage statistics.
func (b *Backend) MemoryStats() MemoryStats {
	b.memoryStats.mu.Lock()
	stats := MemoryStats{
		TotalAllocatedBytes: b.memoryStats.totalAllocatedBytes,
		PeakMemoryBytes:     b.memoryStats.peakMemoryBytes,
		ActiveResources:     b.memoryStats.activeResources,
	}
	b.memoryStats.mu.Unlock()

	stats.PendingCleanup = b.PendingCleanup()
	return stats
}

// trackAllocation records a resource allocation in memory statistics.
func (b *Backend) trackAllocation(size uint64) {
	b.memoryStats.mu.Lock()
	defer b.memoryStats.mu.Unlock()

	b.memoryStats.totalAllocatedBytes += size
	b.memoryStats.activeResources++

	if b.memoryStats.totalAllocatedBytes > b.memoryStats.peakMemoryBytes {
		b.memoryStats.peakMemoryBytes = b.memoryStats.totalAllocatedBytes
	}
}

// trackRelease records a resource release in memory statistics.
func (b *Backend) trackRelease(size uint64) {
	b.memoryStats.mu.Lock()
	defer b.memoryStats.mu.Unlock()

	if b.memoryStats.totalAllocatedBytes >= size {
		b.memoryStats.totalAllocatedBytes -= size
	}
	b.memoryStats.activeResources--
}
