package device

import "github.com/gogpu/gputypes"

// Context is the device/context collaborator that owns the allocator and
// the deferred-cleanup queues. The storage subsystem creates and retires
// resources through it but never submits GPU work itself.
//
// Implementations are not required to be safe for concurrent use by the
// core packages; the subsystem is driven from a single command-recording
// thread.
type Context interface {
	// CreateImage creates a GPU image of the given extent and
	// dimensionality. When allocateMemory is false the image is created
	// without backing memory so it can be bound to an externally pooled
	// allocation later. Fails with ErrOutOfDeviceMemory when the
	// allocator cannot satisfy the request.
	CreateImage(extent gputypes.Extent3D, format gputypes.TextureFormat,
		dim gputypes.TextureDimension, sampler SamplerProperties,
		allowTransfer, allocateMemory bool) (*Image, error)

	// CreateStorageBuffer creates a device-local storage buffer of the
	// given byte size, with the same deferred-binding option as
	// CreateImage.
	CreateStorageBuffer(byteSize uint64, gpuOnly, allocateMemory bool) (*Buffer, error)

	// CreateUniformBuffer creates a small uniform buffer for shader
	// metadata. Uniform buffers always own their memory.
	CreateUniformBuffer(byteSize uint64) (*Buffer, error)

	// WriteBuffer replaces the contents of a buffer previously created
	// through this context.
	WriteBuffer(buf *Buffer, data []byte) error

	// RegisterImageCleanup transfers ownership of an image to the
	// context's retirement queue. The image may still be referenced by
	// submitted GPU commands, so destruction is deferred until the
	// context confirms prior submissions completed.
	RegisterImageCleanup(img *Image)

	// RegisterBufferCleanup is the buffer analogue of RegisterImageCleanup.
	RegisterBufferCleanup(buf *Buffer)

	// Supports16BitStorage reports whether the device can back tensors
	// with 16-bit storage buffers and textures.
	Supports16BitStorage() bool
}
