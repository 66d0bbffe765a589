// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for GPU-resident tensor storage.
//
// A Tensor maps a logical N-dimensional shape onto a physical GPU
// resource, a linear buffer or a 2D/3D image texture, with one
// dimension packed into vec4-wide lanes. Accessing the resource through
// Image or Buffer records the pipeline barrier required by the previous
// access into a caller-supplied accumulator.
//
// Example:
//
//	ctx, err := webgpu.New()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("no GPU")
//	}
//	defer ctx.Release()
//
//	t, err := tensor.New(ctx, tensor.Shape{1, 3, 8, 8}, tensor.Float32,
//	    tensor.Texture3D, tensor.ChannelsPacked, true)
//	if err != nil {
//	    log.Fatal().Err(err).Msg("allocation failed")
//	}
//	defer t.Release()
//
//	var pb device.PipelineBarrier
//	img := t.Image(&pb, device.StageCompute, device.AccessWrite)
package tensor

import (
	"github.com/born-ml/gputensor/internal/device"
	"github.com/born-ml/gputensor/internal/layout"
	"github.com/born-ml/gputensor/internal/tensor"
)

// Type aliases for public API

// Shape represents the logical dimensions of a tensor, innermost last.
type Shape = layout.Shape

// PackingPolicy selects the dimension packed into vec4 lanes.
type PackingPolicy = layout.PackingPolicy

// Packing policy constants.
const (
	WidthPacked    PackingPolicy = layout.WidthPacked
	HeightPacked   PackingPolicy = layout.HeightPacked
	ChannelsPacked PackingPolicy = layout.ChannelsPacked
)

// StorageKind selects the physical GPU resource backing a tensor.
type StorageKind = layout.StorageKind

// Storage kind constants.
const (
	Buffer    StorageKind = layout.Buffer
	Texture2D StorageKind = layout.Texture2D
	Texture3D StorageKind = layout.Texture3D
)

// DataType represents the element type of a tensor.
type DataType = device.DataType

// Data type constants.
const (
	Float32 DataType = device.Float32
	Float16 DataType = device.Float16
	Int32   DataType = device.Int32
	Int8    DataType = device.Int8
	Uint8   DataType = device.Uint8
	Bool    DataType = device.Bool
)

// Tensor is the logical handle over one physical GPU resource.
type Tensor = tensor.Tensor

// TextureLimits is the current image extent as signed integers.
type TextureLimits = tensor.TextureLimits

// PackedDimMeta describes the packed dimension for shaders.
type PackedDimMeta = tensor.PackedDimMeta

// GPUSizes computes the physical shape used to store a tensor on the GPU.
// It is exposed so callers can size staging transfers without allocating.
func GPUSizes(sizes Shape, packing PackingPolicy, kind StorageKind) (Shape, error) {
	return layout.GPUSizes(sizes, packing, kind)
}

// New constructs a tensor and materializes its backing GPU resource.
func New(ctx device.Context, sizes Shape, dtype DataType, kind StorageKind,
	packing PackingPolicy, allocateMemory bool) (*Tensor, error) {
	return tensor.New(ctx, sizes, dtype, kind, packing, allocateMemory)
}
