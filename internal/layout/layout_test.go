package layout

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/born-ml/gputensor/internal/device"
)

func assertShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		numel int64
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{1, 3, 8, 8}, 192},
		{Shape{2, 0, 4}, 0},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.numel {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.numel)
		}
	}
}

func TestShapeAt(t *testing.T) {
	s := Shape{2, 3, 4}

	tests := []struct {
		idx  int
		want int64
	}{
		{0, 2},
		{2, 4},
		{-1, 4},
		{-3, 2},
		{-4, 1},
		{3, 1},
		{-10, 1},
	}

	for _, tt := range tests {
		if got := s.At(tt.idx); got != tt.want {
			t.Errorf("%v.At(%d) = %d, want %d", s, tt.idx, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3, 4}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{}).Validate(); err != nil {
		t.Errorf("scalar shape rejected: %v", err)
	}
	if err := (Shape{2, 0, 4}).Validate(); err != nil {
		t.Errorf("zero dimension rejected: %v", err)
	}

	err := (Shape{2, -1, 4}).Validate()
	if !errors.Is(err, device.ErrInvalidArgument) {
		t.Errorf("negative dimension: got %v, want ErrInvalidArgument", err)
	}
}

func TestShapeClone(t *testing.T) {
	orig := Shape{2, 3}
	clone := orig.Clone()
	clone[0] = 99
	if orig[0] != 2 {
		t.Error("Clone did not copy the underlying array")
	}
}

func TestPackedDim(t *testing.T) {
	tests := []struct {
		packing PackingPolicy
		dim     int
	}{
		{WidthPacked, 0},
		{HeightPacked, 1},
		{ChannelsPacked, 2},
	}

	for _, tt := range tests {
		if got := tt.packing.PackedDim(); got != tt.dim {
			t.Errorf("%s.PackedDim() = %d, want %d", tt.packing, got, tt.dim)
		}
	}
}

func TestGPUSizesBuffer(t *testing.T) {
	tests := []struct {
		name    string
		sizes   Shape
		packing PackingPolicy
		want    Shape
	}{
		{"rank preserved, width rounded", Shape{10}, WidthPacked, Shape{12}},
		{"already aligned", Shape{8}, WidthPacked, Shape{8}},
		{"height packed", Shape{5, 6}, HeightPacked, Shape{8, 6}},
		{"channels packed rank 3", Shape{3, 8, 8}, ChannelsPacked, Shape{4, 8, 8}},
		{"rank below packed dim untouched", Shape{10}, ChannelsPacked, Shape{10}},
		{"rank 5 allowed for buffers", Shape{2, 2, 3, 4, 5}, WidthPacked, Shape{2, 2, 3, 4, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GPUSizes(tt.sizes, tt.packing, Buffer)
			if err != nil {
				t.Fatalf("GPUSizes: %v", err)
			}
			assertShape(t, tt.want, got, "gpu sizes")
		})
	}
}

func TestGPUSizesTexture(t *testing.T) {
	tests := []struct {
		name    string
		sizes   Shape
		packing PackingPolicy
		want    Shape
	}{
		{"nchw channels packed", Shape{1, 3, 8, 8}, ChannelsPacked, Shape{1, 4, 8, 8}},
		{"rank 2 right-aligned", Shape{6, 10}, WidthPacked, Shape{1, 1, 6, 12}},
		{"rank 1 channels packed", Shape{7}, ChannelsPacked, Shape{1, 4, 1, 7}},
		{"scalar", Shape{}, WidthPacked, Shape{1, 1, 1, 4}},
		{"height packed", Shape{2, 4, 5, 8}, HeightPacked, Shape{2, 4, 8, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GPUSizes(tt.sizes, tt.packing, Texture3D)
			if err != nil {
				t.Fatalf("GPUSizes: %v", err)
			}
			assertShape(t, tt.want, got, "gpu sizes")
		})
	}
}

func TestGPUSizesTextureRankLimit(t *testing.T) {
	_, err := GPUSizes(Shape{2, 2, 3, 4, 4}, WidthPacked, Texture3D)
	if !errors.Is(err, device.ErrInvalidArgument) {
		t.Errorf("rank 5 texture: got %v, want ErrInvalidArgument", err)
	}
}

func TestGPUSizesPure(t *testing.T) {
	sizes := Shape{1, 3, 8, 8}
	_, err := GPUSizes(sizes, ChannelsPacked, Texture3D)
	if err != nil {
		t.Fatalf("GPUSizes: %v", err)
	}
	assertShape(t, Shape{1, 3, 8, 8}, sizes, "input mutated")
}

func TestImageExtents(t *testing.T) {
	tests := []struct {
		name     string
		gpuSizes Shape
		packing  PackingPolicy
		want     gputypes.Extent3D
	}{
		{
			"channels packed nchw",
			Shape{1, 4, 8, 8}, ChannelsPacked,
			gputypes.Extent3D{Width: 8, Height: 8, DepthOrArrayLayers: 1},
		},
		{
			"width packed",
			Shape{1, 1, 6, 12}, WidthPacked,
			gputypes.Extent3D{Width: 3, Height: 6, DepthOrArrayLayers: 1},
		},
		{
			"batch stacks into depth",
			Shape{2, 8, 5, 5}, ChannelsPacked,
			gputypes.Extent3D{Width: 5, Height: 5, DepthOrArrayLayers: 4},
		},
		{
			"height packed",
			Shape{2, 4, 8, 8}, HeightPacked,
			gputypes.Extent3D{Width: 8, Height: 2, DepthOrArrayLayers: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageExtents(tt.gpuSizes, Texture3D, tt.packing)
			if err != nil {
				t.Fatalf("ImageExtents: %v", err)
			}
			if got != tt.want {
				t.Errorf("ImageExtents(%v) = %+v, want %+v", tt.gpuSizes, got, tt.want)
			}
		})
	}
}

func TestImageExtentsBufferIsZero(t *testing.T) {
	got, err := ImageExtents(Shape{12}, Buffer, WidthPacked)
	if err != nil {
		t.Fatalf("ImageExtents: %v", err)
	}
	if got != (gputypes.Extent3D{}) {
		t.Errorf("buffer extents = %+v, want zero", got)
	}
}

func TestImageExtentsUnalignedPackedAxis(t *testing.T) {
	_, err := ImageExtents(Shape{1, 3, 8, 8}, Texture3D, ChannelsPacked)
	if !errors.Is(err, device.ErrInvalidArgument) {
		t.Errorf("unaligned packed axis: got %v, want ErrInvalidArgument", err)
	}
}

// TestLayoutPipeline walks a full derivation the way tensor construction
// does: logical sizes through GPUSizes, then into ImageExtents.
func TestLayoutPipeline(t *testing.T) {
	gpuSizes, err := GPUSizes(Shape{1, 3, 8, 8}, ChannelsPacked, Texture3D)
	if err != nil {
		t.Fatalf("GPUSizes: %v", err)
	}
	assertShape(t, Shape{1, 4, 8, 8}, gpuSizes, "gpu sizes")

	ext, err := ImageExtents(gpuSizes, Texture3D, ChannelsPacked)
	if err != nil {
		t.Fatalf("ImageExtents: %v", err)
	}
	want := gputypes.Extent3D{Width: 8, Height: 8, DepthOrArrayLayers: 1}
	if ext != want {
		t.Errorf("extents = %+v, want %+v", ext, want)
	}
}
