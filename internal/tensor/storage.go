package tensor

import (
	"github.com/gogpu/gputypes"

	"github.com/born-ml/gputensor/internal/device"
	"github.com/born-ml/gputensor/internal/layout"
)

// Storage owns the physical GPU resource backing one tensor for the
// tensor's lifetime, together with the resource's hazard state. Exactly
// one of image or buffer is live, selected by the storage kind.
//
// Storage performs no locking: it is driven from the single
// command-recording thread, and Transition calls must happen in the exact
// order the corresponding GPU operations are recorded, because the hazard
// state is a single last-access slot, not a history.
type Storage struct {
	ctx  device.Context
	kind layout.StorageKind

	extents   gputypes.Extent3D
	bufferLen int64

	res        device.Resource
	lastAccess device.AccessState
}

// newStorage allocates the physical resource for a tensor with the given
// physical (GPU) sizes. When allocateMemory is false the resource is
// created unbound so it can be placed into an external memory pool later.
func newStorage(ctx device.Context, kind layout.StorageKind, packing layout.PackingPolicy,
	gpuSizes layout.Shape, dtype device.DataType, allocateMemory bool) (*Storage, error) {
	extents, err := layout.ImageExtents(gpuSizes, kind, packing)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		ctx:       ctx,
		kind:      kind,
		extents:   extents,
		bufferLen: gpuSizes.NumElements(),
	}

	if kind.IsTexture() {
		img, err := allocateImage(ctx, extents, kind, dtype.TextureFormat(), allocateMemory)
		if err != nil {
			return nil, err
		}
		s.res = img
	} else {
		buf, err := allocateBuffer(ctx, s.bufferLen, kind, dtype, allocateMemory)
		if err != nil {
			return nil, err
		}
		s.res = buf
	}

	return s, nil
}

// Kind returns the storage kind.
func (s *Storage) Kind() layout.StorageKind { return s.kind }

// Extents returns the allocated image extents (zero for buffer storage).
func (s *Storage) Extents() gputypes.Extent3D { return s.extents }

// BufferLength returns the element count of the backing buffer (the
// product of the physical sizes; unused for texture storage).
func (s *Storage) BufferLength() int64 { return s.bufferLen }

// image returns the live image, or nil for buffer storage.
func (s *Storage) image() *device.Image {
	img, _ := s.res.(*device.Image)
	return img
}

// buffer returns the live buffer, or nil for texture storage.
func (s *Storage) buffer() *device.Buffer {
	buf, _ := s.res.(*device.Buffer)
	return buf
}

// Transition records the barrier, if any, required before accessing the
// resource at the given stage with the given access direction, and
// advances the hazard state.
//
// The barrier decision itself is the pure device.Transition function;
// this method applies its result: the source and destination stage masks
// are ORed into the accumulator, one image or buffer memory-barrier
// record is appended, and for images the recorded layout is advanced
// immediately so a second transition before submission sees the
// post-barrier layout. Read-after-read with an unchanged layout records
// nothing.
func (s *Storage) Transition(pb *device.PipelineBarrier, stage device.PipelineStage, access device.MemoryAccess) {
	img := s.image()
	isImage := img != nil

	prev := s.lastAccess
	next := device.AccessState{Stage: stage, Access: access}
	if isImage {
		prev.Layout = img.Layout()
		next.Layout = device.LayoutFor(stage, access)
	}

	if b, needed := device.Transition(prev, next, isImage); needed {
		pb.SrcStageMask |= b.SrcStage
		pb.DstStageMask |= b.DstStage

		if isImage {
			pb.Images = append(pb.Images, device.ImageMemoryBarrier{
				SrcAccess: b.SrcAccess,
				DstAccess: b.DstAccess,
				OldLayout: b.OldLayout,
				NewLayout: b.NewLayout,
				Image:     img,
			})
			img.SetLayout(b.NewLayout)
		} else if buf := s.buffer(); buf != nil {
			pb.Buffers = append(pb.Buffers, device.BufferMemoryBarrier{
				SrcAccess: b.SrcAccess,
				DstAccess: b.DstAccess,
				Buffer:    buf,
			})
		}
	}

	s.lastAccess = next
}

// Flush transfers the live resource to the context's deferred cleanup
// queue and resets the hazard state. The resource may still be referenced
// by submitted but unfinished GPU commands, so immediate destruction
// would be a use-after-free from the GPU's perspective; the context
// decides when retirement is safe.
func (s *Storage) Flush() {
	switch r := s.res.(type) {
	case *device.Image:
		s.ctx.RegisterImageCleanup(r)
	case *device.Buffer:
		s.ctx.RegisterBufferCleanup(r)
	}
	s.res = nil
	s.lastAccess = device.AccessState{}
}

// DiscardAndReallocate retires the current resource and allocates a fresh
// one sized for the new physical shape, preserving the previous resource's
// memory-ownership mode.
//
// On allocation failure the Storage is left without a live resource; no
// recovery is attempted and the error is fatal to the tensor.
func (s *Storage) DiscardAndReallocate(gpuSizes layout.Shape, packing layout.PackingPolicy, dtype device.DataType) error {
	ownsMemory := true
	if s.res != nil {
		ownsMemory = s.res.OwnsMemory()
	}

	s.Flush()

	extents, err := layout.ImageExtents(gpuSizes, s.kind, packing)
	if err != nil {
		return err
	}
	s.extents = extents
	s.bufferLen = gpuSizes.NumElements()

	if s.kind.IsTexture() {
		img, err := allocateImage(s.ctx, extents, s.kind, dtype.TextureFormat(), ownsMemory)
		if err != nil {
			return err
		}
		s.res = img
	} else {
		buf, err := allocateBuffer(s.ctx, s.bufferLen, s.kind, dtype, ownsMemory)
		if err != nil {
			return err
		}
		s.res = buf
	}

	return nil
}

// Release retires the live resource. Safe to call more than once.
func (s *Storage) Release() {
	if s.res != nil {
		s.Flush()
	}
}
