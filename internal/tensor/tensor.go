// Package tensor implements GPU-resident tensor storage: the mapping from
// a logical N-dimensional tensor onto a physical GPU resource (linear
// buffer or image texture), the vec4-packed layout transformation, and
// the hazard tracking that orders dependent GPU accesses.
//
// The package prepares resources and synchronization descriptors only; it
// never submits GPU work. A command-recording layer consumes the barrier
// accumulators the accessors fill in.
package tensor

import (
	"fmt"

	"github.com/born-ml/gputensor/internal/device"
	"github.com/born-ml/gputensor/internal/layout"
)

// Tensor is the logical, user-facing handle: logical shape, element type
// and packing policy, plus on-demand metadata uniform buffers consumed by
// shaders. It owns its Storage, and through it exactly one physical GPU
// resource.
type Tensor struct {
	ctx     device.Context
	dtype   device.DataType
	packing layout.PackingPolicy

	sizes    layout.Shape
	gpuSizes layout.Shape

	textureLimits TextureLimits

	sizesUniform         ParamsBuffer
	textureLimitsUniform ParamsBuffer
	packedDimMeta        ParamsBuffer

	storage *Storage
}

// New constructs a tensor with the given logical sizes, computing the
// physical shape through the layout calculator and materializing the
// backing resource. When allocateMemory is false the resource is created
// without bound memory for later placement into an external pool.
//
// Fails with ErrUnsupportedConfig when float16 is requested but the
// device does not support 16-bit storage, and with ErrOutOfDeviceMemory
// when the allocator cannot satisfy the request.
func New(ctx device.Context, sizes layout.Shape, dtype device.DataType,
	kind layout.StorageKind, packing layout.PackingPolicy, allocateMemory bool) (*Tensor, error) {
	if err := sizes.Validate(); err != nil {
		return nil, err
	}
	if dtype == device.Float16 && !ctx.Supports16BitStorage() {
		return nil, fmt.Errorf("%w: float16 tensors require 16-bit storage support",
			device.ErrUnsupportedConfig)
	}

	gpuSizes, err := layout.GPUSizes(sizes, packing, kind)
	if err != nil {
		return nil, err
	}

	storage, err := newStorage(ctx, kind, packing, gpuSizes, dtype, allocateMemory)
	if err != nil {
		return nil, err
	}

	t := &Tensor{
		ctx:      ctx,
		dtype:    dtype,
		packing:  packing,
		sizes:    sizes.Clone(),
		gpuSizes: gpuSizes,
		storage:  storage,
	}
	t.sizesUniform.ctx = ctx
	t.textureLimitsUniform.ctx = ctx
	t.packedDimMeta.ctx = ctx

	if kind.IsTexture() {
		ext := storage.Extents()
		t.textureLimits = TextureLimits{
			int32(ext.Width),
			int32(ext.Height),
			int32(ext.DepthOrArrayLayers),
		}
	}

	return t, nil
}

// Sizes returns the logical shape.
func (t *Tensor) Sizes() layout.Shape { return t.sizes.Clone() }

// GPUSizes returns the physical shape derived for the backing resource.
func (t *Tensor) GPUSizes() layout.Shape { return t.gpuSizes.Clone() }

// DType returns the element type.
func (t *Tensor) DType() device.DataType { return t.dtype }

// StorageKind returns the physical resource kind.
func (t *Tensor) StorageKind() layout.StorageKind { return t.storage.Kind() }

// Packing returns the packing policy.
func (t *Tensor) Packing() layout.PackingPolicy { return t.packing }

// NumElements returns the number of logical elements.
func (t *Tensor) NumElements() int64 { return t.sizes.NumElements() }

// TextureLimits returns the current virtual extent as signed integers
// (zero for buffer storage).
func (t *Tensor) TextureLimits() TextureLimits { return t.textureLimits }

// Image transitions the backing image for an access at the given stage
// and returns its handle. Access defaults to read when omitted. Returns
// nil for buffer storage.
func (t *Tensor) Image(pb *device.PipelineBarrier, stage device.PipelineStage, access ...device.MemoryAccess) *device.Image {
	t.storage.Transition(pb, stage, accessOrRead(access))
	return t.storage.image()
}

// Buffer transitions the backing buffer for an access at the given stage
// and returns its handle. Access defaults to read when omitted. Returns
// nil for texture storage.
func (t *Tensor) Buffer(pb *device.PipelineBarrier, stage device.PipelineStage, access ...device.MemoryAccess) *device.Buffer {
	t.storage.Transition(pb, stage, accessOrRead(access))
	return t.storage.buffer()
}

func accessOrRead(access []device.MemoryAccess) device.MemoryAccess {
	if len(access) > 0 {
		return access[0]
	}
	return device.AccessRead
}

// SizesUBO returns the uniform buffer holding the logical sizes as a
// WHCN ivec4, creating it on first call. The binding reference is stable
// across resizes.
func (t *Tensor) SizesUBO() (*device.Buffer, error) {
	if !t.sizesUniform.Created() {
		if err := t.sizesUniform.Create(whcnIVec4(t.sizes)); err != nil {
			return nil, err
		}
	}
	return t.sizesUniform.Buffer(), nil
}

// TextureLimitsUBO returns the uniform buffer holding the texture limits,
// creating it on first call.
func (t *Tensor) TextureLimitsUBO() (*device.Buffer, error) {
	if !t.textureLimitsUniform.Created() {
		if err := t.textureLimitsUniform.Create(t.textureLimits.encode()); err != nil {
			return nil, err
		}
	}
	return t.textureLimitsUniform.Buffer(), nil
}

// PackedDimMetaUBO returns the uniform buffer holding the packed
// dimension metadata, creating it on first call.
func (t *Tensor) PackedDimMetaUBO() (*device.Buffer, error) {
	if !t.packedDimMeta.Created() {
		if err := t.packedDimMeta.Create(t.packedDimMetadata().encode()); err != nil {
			return nil, err
		}
	}
	return t.packedDimMeta.Buffer(), nil
}

// packedDimMetadata derives the shader-facing description of the packed
// dimension. The texel length reads the actually allocated extent, which
// a virtual resize leaves untouched.
func (t *Tensor) packedDimMetadata() PackedDimMeta {
	packed := t.packing.PackedDim()
	dimSize := int32(t.sizes.At(-1 - packed))
	dimSizePadded := int32(t.gpuSizes.At(-1 - packed))

	ext := t.storage.Extents()
	var dimTexelLen int32
	switch packed {
	case 0:
		dimTexelLen = int32(ext.Width)
	case 1:
		dimTexelLen = int32(ext.Height)
	case 2:
		dimTexelLen = int32(ext.DepthOrArrayLayers)
	}

	return PackedDimMeta{
		DimSize:       dimSize,
		DimSizePadded: dimSizePadded,
		DimTexelLen:   dimTexelLen,
		Padding:       dimSizePadded - dimSize,
	}
}

// updateSizeMetadata recomputes the physical shape for new logical sizes
// and, for texture storage, the texture limits from the virtual extent
// the new shape implies (not the resource's allocated extent). Every
// already-created metadata buffer is re-pushed; the physical resource is
// untouched.
func (t *Tensor) updateSizeMetadata(newSizes layout.Shape) error {
	gpuSizes, err := layout.GPUSizes(newSizes, t.packing, t.storage.Kind())
	if err != nil {
		return err
	}
	t.sizes = newSizes.Clone()
	t.gpuSizes = gpuSizes

	if t.storage.Kind().IsTexture() {
		virtual, err := layout.ImageExtents(t.gpuSizes, t.storage.Kind(), t.packing)
		if err != nil {
			return err
		}
		t.textureLimits = TextureLimits{
			int32(virtual.Width),
			int32(virtual.Height),
			int32(virtual.DepthOrArrayLayers),
		}
	}

	if t.sizesUniform.Created() {
		if err := t.sizesUniform.Update(whcnIVec4(t.sizes)); err != nil {
			return err
		}
	}
	if t.textureLimitsUniform.Created() {
		if err := t.textureLimitsUniform.Update(t.textureLimits.encode()); err != nil {
			return err
		}
	}
	if t.packedDimMeta.Created() {
		if err := t.packedDimMeta.Update(t.packedDimMetadata().encode()); err != nil {
			return err
		}
	}
	return nil
}

// Reallocate resizes the tensor by discarding the backing resource and
// allocating a fresh one for the new sizes. Use when the new shape may
// not fit the existing resource, or when shrinking to reclaim memory.
func (t *Tensor) Reallocate(newSizes layout.Shape) error {
	gpuSizes, err := layout.GPUSizes(newSizes, t.packing, t.storage.Kind())
	if err != nil {
		return err
	}
	if err := t.storage.DiscardAndReallocate(gpuSizes, t.packing, t.dtype); err != nil {
		return err
	}
	// Metadata is re-pushed after reallocation so the packed-dimension
	// texel length reads the new resource's extent.
	return t.updateSizeMetadata(newSizes)
}

// VirtualResize reinterprets the already-allocated resource as a tensor
// of the new sizes without reallocating. For texture storage the extent
// implied by the new sizes must fit component-wise within the allocated
// extent, else ErrInvalidArgument.
//
// Buffer storage skips the bounds check: buffers have no texel
// granularity and callers keep them over-allocated across the common
// grow-then-shrink pattern. Staying within the allocated element count is
// the caller's responsibility.
func (t *Tensor) VirtualResize(newSizes layout.Shape) error {
	if t.storage.Kind().IsTexture() {
		gpuSizes, err := layout.GPUSizes(newSizes, t.packing, t.storage.Kind())
		if err != nil {
			return err
		}
		virtual, err := layout.ImageExtents(gpuSizes, t.storage.Kind(), t.packing)
		if err != nil {
			return err
		}

		alloc := t.storage.Extents()
		if virtual.Width > alloc.Width || virtual.Height > alloc.Height ||
			virtual.DepthOrArrayLayers > alloc.DepthOrArrayLayers {
			return fmt.Errorf("%w: virtual resize to %v would require a larger texture",
				device.ErrInvalidArgument, newSizes)
		}
	}

	return t.updateSizeMetadata(newSizes)
}

// Release retires the backing resource and any created metadata buffers
// to the context's deferred cleanup queues. Safe to call more than once.
func (t *Tensor) Release() {
	t.storage.Release()
	t.sizesUniform.release()
	t.textureLimitsUniform.release()
	t.packedDimMeta.release()
}
