package tensor

import (
	"encoding/binary"

	"github.com/born-ml/gputensor/internal/device"
	"github.com/born-ml/gputensor/internal/layout"
)

// ParamsBuffer is a lazily created uniform buffer mirroring shape facts
// for shaders. It stays nil until first demanded; once created, every
// resize re-pushes the new value instead of recreating the buffer, so the
// binding handed to shaders stays stable.
type ParamsBuffer struct {
	ctx device.Context
	buf *device.Buffer
}

// Created reports whether the underlying uniform buffer exists yet.
func (p *ParamsBuffer) Created() bool { return p.buf != nil }

// Buffer returns the stable binding reference, or nil before creation.
func (p *ParamsBuffer) Buffer() *device.Buffer { return p.buf }

// Create allocates the uniform buffer and uploads the initial value.
// Uniform struct fields require 16-byte alignment, so the allocation is
// rounded up accordingly.
func (p *ParamsBuffer) Create(data []byte) error {
	alignedSize := (uint64(len(data)) + 15) &^ 15
	buf, err := p.ctx.CreateUniformBuffer(alignedSize)
	if err != nil {
		return err
	}
	if err := p.ctx.WriteBuffer(buf, data); err != nil {
		return err
	}
	p.buf = buf
	return nil
}

// Update re-pushes a new value into the existing buffer.
func (p *ParamsBuffer) Update(data []byte) error {
	return p.ctx.WriteBuffer(p.buf, data)
}

// release hands the uniform buffer to the deferred cleanup queue.
func (p *ParamsBuffer) release() {
	if p.buf != nil {
		p.ctx.RegisterBufferCleanup(p.buf)
		p.buf = nil
	}
}

// TextureLimits is the current image extent as signed integers, exposed
// to shaders for bounds checks against the virtual tensor size.
type TextureLimits [3]int32

// PackedDimMeta describes the packed dimension for shaders: its logical
// size, its padded physical size, its length in texels along the packed
// axis, and the padding (physical minus logical).
type PackedDimMeta struct {
	DimSize       int32
	DimSizePadded int32
	DimTexelLen   int32
	Padding       int32
}

// whcnIVec4 encodes logical sizes as a WHCN-ordered ivec4, with missing
// dimensions as 1. Shaders consume the fixed four-lane form regardless of
// the tensor's rank.
func whcnIVec4(sizes layout.Shape) []byte {
	data := make([]byte, 16)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(int32(sizes.At(-1-i))))
	}
	return data
}

// encode serializes the limits as an ivec3.
func (tl TextureLimits) encode() []byte {
	data := make([]byte, 12)
	for i, v := range tl {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
	}
	return data
}

// encode serializes the metadata as four int32 lanes.
func (m PackedDimMeta) encode() []byte {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:], uint32(m.DimSize))
	binary.LittleEndian.PutUint32(data[4:], uint32(m.DimSizePadded))
	binary.LittleEndian.PutUint32(data[8:], uint32(m.DimTexelLen))
	binary.LittleEndian.PutUint32(data[12:], uint32(m.Padding))
	return data
}
