package webgpu

import (
	"errors"
	"testing"

	"github.com/born-ml/gputensor/internal/device"
	"github.com/born-ml/gputensor/internal/layout"
	"github.com/born-ml/gputensor/internal/tensor"
)

// newBackend creates a backend or skips the test when no GPU is present.
func newBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New()
	if err != nil {
		t.Logf("WebGPU not available: %v", err)
		t.Skip("WebGPU not available on this system")
	}
	t.Cleanup(b.Release)
	return b
}

func TestIsAvailable(t *testing.T) {
	available := IsAvailable()
	t.Logf("WebGPU available: %v", available)
	// Reports status only; absence of a GPU is not a failure.
}

func TestNew(t *testing.T) {
	b := newBackend(t)

	if b.Name() == "" {
		t.Error("backend name should not be empty")
	}
	t.Logf("Backend: %s", b.Name())
	t.Logf("16-bit storage: %v", b.Supports16BitStorage())
}

func TestTensorLifecycle(t *testing.T) {
	b := newBackend(t)

	tn, err := tensor.New(b, layout.Shape{1, 3, 16, 16}, device.Float32,
		layout.Texture3D, layout.ChannelsPacked, true)
	if err != nil {
		t.Fatalf("tensor allocation failed: %v", err)
	}

	var pb device.PipelineBarrier
	img := tn.Image(&pb, device.StageCompute, device.AccessWrite)
	if img == nil || img.Handle() == nil {
		t.Fatal("expected a live texture handle")
	}

	if _, err := tn.SizesUBO(); err != nil {
		t.Fatalf("SizesUBO: %v", err)
	}
	if _, err := tn.PackedDimMetaUBO(); err != nil {
		t.Fatalf("PackedDimMetaUBO: %v", err)
	}

	stats := b.MemoryStats()
	if stats.ActiveResources == 0 {
		t.Error("expected live resources after allocation")
	}
	t.Logf("allocated: %d bytes, active: %d", stats.TotalAllocatedBytes, stats.ActiveResources)

	tn.Release()
	if b.PendingCleanup() == 0 {
		t.Error("expected retired resources awaiting cleanup")
	}

	b.DrainCleanup()
	if b.PendingCleanup() != 0 {
		t.Error("expected cleanup queues to be empty after drain")
	}
}

func TestStorageBufferTensor(t *testing.T) {
	b := newBackend(t)

	tn, err := tensor.New(b, layout.Shape{1000}, device.Float32,
		layout.Buffer, layout.WidthPacked, true)
	if err != nil {
		t.Fatalf("tensor allocation failed: %v", err)
	}
	defer tn.Release()

	var pb device.PipelineBarrier
	buf := tn.Buffer(&pb, device.StageCompute, device.AccessWrite)
	if buf == nil || buf.Handle() == nil {
		t.Fatal("expected a live buffer handle")
	}
	// 1000 elements are already 4-aligned, so no padding applies.
	if buf.ByteSize() != 4000 {
		t.Errorf("ByteSize = %d, want 4000", buf.ByteSize())
	}
}

func TestFloat16CapabilityGate(t *testing.T) {
	b := newBackend(t)

	_, err := tensor.New(b, layout.Shape{16}, device.Float16,
		layout.Buffer, layout.WidthPacked, true)
	if err != nil {
		if !errors.Is(err, device.ErrUnsupportedConfig) {
			t.Errorf("unexpected error: %v", err)
		}
		t.Logf("float16 unsupported on this adapter: %v", err)
	}
}
