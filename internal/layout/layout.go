// Package layout derives physical GPU storage dimensions from logical
// tensor shapes. All functions are pure; every other package derives
// GPU sizes and image extents through here rather than re-computing them.
package layout

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/born-ml/gputensor/internal/device"
)

// Shape represents the logical dimensions of a tensor, innermost last.
// Example: Shape{1, 3, 8, 8} is an NCHW tensor with 3 channels.
type Shape []int64

// NumElements returns the total number of elements in the shape.
// A zero-rank shape is a scalar with 1 element.
func (s Shape) NumElements() int64 {
	n := int64(1)
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Validate checks that all dimensions are non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: dimension %d is negative: %d", device.ErrInvalidArgument, i, dim)
		}
	}
	return nil
}

// At returns the dimension at index i, where negative indices count from
// the innermost dimension (-1 = last). Out-of-range indices yield 1, so a
// shape can be treated as left-padded with singleton dimensions.
func (s Shape) At(i int) int64 {
	if i < 0 {
		i += len(s)
	}
	if i < 0 || i >= len(s) {
		return 1
	}
	return s[i]
}

// PackingPolicy selects which logical dimension, counted from the
// innermost, is rounded up to a multiple of 4 and grouped into
// vec4-wide physical lanes.
type PackingPolicy int

// Supported packing policies.
const (
	WidthPacked PackingPolicy = iota
	HeightPacked
	ChannelsPacked
)

// PackedDim returns the offset of the packed dimension from the innermost
// dimension: 0 for width, 1 for height, 2 for channels.
func (p PackingPolicy) PackedDim() int {
	return int(p)
}

// String returns a human-readable policy name.
func (p PackingPolicy) String() string {
	switch p {
	case WidthPacked:
		return "width-packed"
	case HeightPacked:
		return "height-packed"
	case ChannelsPacked:
		return "channels-packed"
	default:
		return "unknown"
	}
}

// StorageKind selects the physical GPU resource backing a tensor.
type StorageKind int

// Supported storage kinds.
const (
	// Buffer stores the tensor in a linear device-local buffer.
	Buffer StorageKind = iota
	// Texture2D stores the tensor in a 2D image texture.
	Texture2D
	// Texture3D stores the tensor in a 3D image texture.
	Texture3D
)

// IsTexture reports whether the kind is backed by an image texture.
func (k StorageKind) IsTexture() bool {
	return k == Texture2D || k == Texture3D
}

// String returns a human-readable kind name.
func (k StorageKind) String() string {
	switch k {
	case Buffer:
		return "buffer"
	case Texture2D:
		return "texture2d"
	case Texture3D:
		return "texture3d"
	default:
		return "unknown"
	}
}

// alignUp rounds n up to the next multiple of m.
func alignUp(n, m int64) int64 {
	return (n + m - 1) / m * m
}

// GPUSizes computes the physical shape used to store a tensor on the GPU.
//
// For buffer storage the logical shape is preserved rank-for-rank, except
// that the dimension selected by the packing policy is rounded up to the
// next multiple of 4 so texel loads stay vec4-aligned. If the shape has
// fewer dimensions than the policy addresses, no rounding is applied.
//
// For texture storage the shape is right-aligned into exactly four
// dimensions (batch, channel, height, width), with missing leading
// dimensions treated as 1, before the same rounding rule is applied.
// Batches are stacked along the depth axis of the image, which is why the
// physical shape is always fixed to four dimensions.
func GPUSizes(sizes Shape, packing PackingPolicy, kind StorageKind) (Shape, error) {
	var gpuSizes Shape
	if kind == Buffer {
		gpuSizes = sizes.Clone()
	} else {
		if len(sizes) > 4 {
			return nil, fmt.Errorf("%w: texture storage supports 0 <= rank <= 4, got %d",
				device.ErrInvalidArgument, len(sizes))
		}
		gpuSizes = Shape{sizes.At(-4), sizes.At(-3), sizes.At(-2), sizes.At(-1)}
	}

	ndim := len(gpuSizes)
	packed := packing.PackedDim()
	if ndim >= packed+1 {
		gpuSizes[ndim-1-packed] = alignUp(sizes.At(-1-packed), 4)
	}
	return gpuSizes, nil
}

// ImageExtents computes the width/height/depth of the image texture that
// stores a tensor with the given physical shape. The packed axis is
// divided by 4 because one texel covers four of its lanes; depth collapses
// batch and channel into a single extent dimension.
//
// Buffer storage has no image extents and yields the zero extent.
func ImageExtents(gpuSizes Shape, kind StorageKind, packing PackingPolicy) (gputypes.Extent3D, error) {
	if kind == Buffer {
		return gputypes.Extent3D{}, nil
	}
	if len(gpuSizes) < 1 || len(gpuSizes) > 4 {
		return gputypes.Extent3D{}, fmt.Errorf("%w: texture storage supports 1 <= rank <= 4, got %d",
			device.ErrInvalidArgument, len(gpuSizes))
	}

	width := gpuSizes.At(-1)
	height := gpuSizes.At(-2)
	channels := gpuSizes.At(-3)
	batch := gpuSizes.At(-4)

	// The packed axis must already be 4-aligned by GPUSizes; a remainder
	// here is an internal invariant violation, not a user input error.
	switch packing {
	case WidthPacked:
		if width%4 != 0 {
			return gputypes.Extent3D{}, fmt.Errorf("%w: packed width %d is not a multiple of 4",
				device.ErrInvalidArgument, width)
		}
		width /= 4
	case HeightPacked:
		if height%4 != 0 {
			return gputypes.Extent3D{}, fmt.Errorf("%w: packed height %d is not a multiple of 4",
				device.ErrInvalidArgument, height)
		}
		height /= 4
	case ChannelsPacked:
		if channels%4 != 0 {
			return gputypes.Extent3D{}, fmt.Errorf("%w: packed channels %d is not a multiple of 4",
				device.ErrInvalidArgument, channels)
		}
		channels /= 4
	default:
		return gputypes.Extent3D{}, fmt.Errorf("%w: invalid packing policy %d",
			device.ErrInvalidArgument, packing)
	}

	return gputypes.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: uint32(batch * channels),
	}, nil
}
