package device

import "github.com/gogpu/gputypes"

// SamplerProperties describes the fixed-function sampler attached to a
// tensor image. The struct is comparable so implementations can use it as
// a sampler-cache key.
type SamplerProperties struct {
	Filter       gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
	AddressMode  gputypes.AddressMode
}

// Resource is the physical backing of a tensor: exactly one of *Image or
// *Buffer. The unexported method keeps the set of implementations closed.
type Resource interface {
	// OwnsMemory reports whether the resource owns its device memory, as
	// opposed to being bound to an externally pooled allocation.
	OwnsMemory() bool

	isResource()
}

// Image is a GPU image texture owned by a tensor's storage.
//
// The recorded layout is bookkeeping for hazard tracking: it is advanced
// eagerly when a layout-transition barrier is emitted, so a second
// transition recorded before submission observes the post-barrier layout.
type Image struct {
	handle  any
	extent  gputypes.Extent3D
	format  gputypes.TextureFormat
	dim     gputypes.TextureDimension
	sampler SamplerProperties
	layout  ImageLayout
	owns    bool
}

// NewImage wraps a backend texture handle in an Image. The initial layout
// is undefined until the first transition.
func NewImage(handle any, extent gputypes.Extent3D, format gputypes.TextureFormat,
	dim gputypes.TextureDimension, sampler SamplerProperties, ownsMemory bool) *Image {
	return &Image{
		handle:  handle,
		extent:  extent,
		format:  format,
		dim:     dim,
		sampler: sampler,
		layout:  LayoutUndefined,
		owns:    ownsMemory,
	}
}

// Handle returns the backend-specific texture handle.
func (im *Image) Handle() any { return im.handle }

// Extent returns the allocated width/height/depth of the image.
func (im *Image) Extent() gputypes.Extent3D { return im.extent }

// Format returns the texture format.
func (im *Image) Format() gputypes.TextureFormat { return im.format }

// Dimension returns the texture dimensionality (2D or 3D).
func (im *Image) Dimension() gputypes.TextureDimension { return im.dim }

// Sampler returns the sampler properties the image was created with.
func (im *Image) Sampler() SamplerProperties { return im.sampler }

// Layout returns the currently recorded image layout.
func (im *Image) Layout() ImageLayout { return im.layout }

// SetLayout records a new image layout after a transition barrier.
func (im *Image) SetLayout(layout ImageLayout) { im.layout = layout }

// OwnsMemory implements Resource.
func (im *Image) OwnsMemory() bool { return im.owns }

func (im *Image) isResource() {}

// Buffer is a GPU buffer owned by a tensor's storage, or a uniform buffer
// backing shader metadata.
type Buffer struct {
	handle any
	size   uint64
	owns   bool
}

// NewBuffer wraps a backend buffer handle in a Buffer.
func NewBuffer(handle any, byteSize uint64, ownsMemory bool) *Buffer {
	return &Buffer{handle: handle, size: byteSize, owns: ownsMemory}
}

// Handle returns the backend-specific buffer handle.
func (b *Buffer) Handle() any { return b.handle }

// ByteSize returns the allocated size in bytes.
func (b *Buffer) ByteSize() uint64 { return b.size }

// OwnsMemory implements Resource.
func (b *Buffer) OwnsMemory() bool { return b.owns }

func (b *Buffer) isResource() {}
