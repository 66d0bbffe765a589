package device

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float16, 2},
		{Int32, 4},
		{Int8, 1},
		{Uint8, 1},
		{Bool, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeTextureFormat(t *testing.T) {
	tests := []struct {
		dtype  DataType
		format gputypes.TextureFormat
	}{
		{Float32, gputypes.TextureFormatRGBA32Float},
		{Float16, gputypes.TextureFormatRGBA16Float},
		{Int32, gputypes.TextureFormatRGBA32Sint},
		{Int8, gputypes.TextureFormatRGBA8Sint},
		{Uint8, gputypes.TextureFormatRGBA8Uint},
		{Bool, gputypes.TextureFormatRGBA8Uint},
	}

	for _, tt := range tests {
		if got := tt.dtype.TextureFormat(); got != tt.format {
			t.Errorf("%s.TextureFormat() = %v, want %v", tt.dtype, got, tt.format)
		}
	}
}

func TestImageLayoutBookkeeping(t *testing.T) {
	img := NewImage("handle", gputypes.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1},
		gputypes.TextureFormatRGBA32Float, gputypes.TextureDimension3D, SamplerProperties{}, true)

	if img.Layout() != LayoutUndefined {
		t.Errorf("initial layout = %v, want undefined", img.Layout())
	}
	img.SetLayout(LayoutGeneral)
	if img.Layout() != LayoutGeneral {
		t.Errorf("layout = %v, want general", img.Layout())
	}
	if !img.OwnsMemory() {
		t.Error("image should own its memory")
	}
}

func TestBufferOwnership(t *testing.T) {
	buf := NewBuffer("handle", 256, false)
	if buf.ByteSize() != 256 {
		t.Errorf("ByteSize = %d, want 256", buf.ByteSize())
	}
	if buf.OwnsMemory() {
		t.Error("unbound buffer should not own memory")
	}
}

func TestCleanupQueue(t *testing.T) {
	var q CleanupQueue[int]

	if q.Len() != 0 {
		t.Errorf("empty queue Len = %d", q.Len())
	}

	q.Append(1)
	q.Append(2)
	q.Append(3)
	if q.Len() != 3 {
		t.Errorf("Len = %d, want 3", q.Len())
	}

	var destroyed []int
	n := q.Drain(func(v int) { destroyed = append(destroyed, v) })
	if n != 3 {
		t.Errorf("Drain returned %d, want 3", n)
	}
	if len(destroyed) != 3 || destroyed[0] != 1 || destroyed[2] != 3 {
		t.Errorf("destroyed = %v, want [1 2 3]", destroyed)
	}

	// Drained queue is empty and reusable.
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d, want 0", q.Len())
	}
	if n := q.Drain(func(int) {}); n != 0 {
		t.Errorf("second Drain returned %d, want 0", n)
	}
}

func TestPipelineBarrierEmpty(t *testing.T) {
	var pb PipelineBarrier
	if !pb.Empty() {
		t.Error("zero-value barrier should be empty")
	}

	pb.Buffers = append(pb.Buffers, BufferMemoryBarrier{Buffer: NewBuffer("h", 16, true)})
	if pb.Empty() {
		t.Error("barrier with a buffer entry should not be empty")
	}
}
