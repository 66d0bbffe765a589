package device

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Verify that MockContext implements Context.
var _ Context = (*MockContext)(nil)

// MockContext is a device context for testing. It fabricates resource
// handles without touching a GPU and records everything that passes
// through it so tests can assert on allocation and retirement behavior.
type MockContext struct {
	// Has16BitStorage controls the capability query. Default false.
	Has16BitStorage bool
	// FailAllocations makes every create call fail with
	// ErrOutOfDeviceMemory, simulating allocator exhaustion.
	FailAllocations bool

	nextHandle     int
	ImagesCreated  int
	BuffersCreated int

	// Retired resources, in registration order.
	RetiredImages  []*Image
	RetiredBuffers []*Buffer

	// Last data written to each uniform buffer.
	BufferContents map[*Buffer][]byte
}

// NewMockContext creates a new MockContext.
func NewMockContext() *MockContext {
	return &MockContext{BufferContents: make(map[*Buffer][]byte)}
}

func (m *MockContext) handle(kind string) string {
	m.nextHandle++
	return fmt.Sprintf("mock-%s-%d", kind, m.nextHandle)
}

// CreateImage implements Context.
func (m *MockContext) CreateImage(extent gputypes.Extent3D, format gputypes.TextureFormat,
	dim gputypes.TextureDimension, sampler SamplerProperties,
	allowTransfer, allocateMemory bool) (*Image, error) {
	if m.FailAllocations {
		return nil, fmt.Errorf("%w: mock image %dx%dx%d", ErrOutOfDeviceMemory,
			extent.Width, extent.Height, extent.DepthOrArrayLayers)
	}
	m.ImagesCreated++
	return NewImage(m.handle("image"), extent, format, dim, sampler, allocateMemory), nil
}

// CreateStorageBuffer implements Context.
func (m *MockContext) CreateStorageBuffer(byteSize uint64, gpuOnly, allocateMemory bool) (*Buffer, error) {
	if m.FailAllocations {
		return nil, fmt.Errorf("%w: mock buffer of %d bytes", ErrOutOfDeviceMemory, byteSize)
	}
	m.BuffersCreated++
	return NewBuffer(m.handle("buffer"), byteSize, allocateMemory), nil
}

// CreateUniformBuffer implements Context.
func (m *MockContext) CreateUniformBuffer(byteSize uint64) (*Buffer, error) {
	if m.FailAllocations {
		return nil, fmt.Errorf("%w: mock uniform buffer of %d bytes", ErrOutOfDeviceMemory, byteSize)
	}
	m.BuffersCreated++
	return NewBuffer(m.handle("uniform"), byteSize, true), nil
}

// WriteBuffer implements Context.
func (m *MockContext) WriteBuffer(buf *Buffer, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)
	m.BufferContents[buf] = stored
	return nil
}

// RegisterImageCleanup implements Context.
func (m *MockContext) RegisterImageCleanup(img *Image) {
	m.RetiredImages = append(m.RetiredImages, img)
}

// RegisterBufferCleanup implements Context.
func (m *MockContext) RegisterBufferCleanup(buf *Buffer) {
	m.RetiredBuffers = append(m.RetiredBuffers, buf)
}

// Supports16BitStorage implements Context.
func (m *MockContext) Supports16BitStorage() bool {
	return m.Has16BitStorage
}
