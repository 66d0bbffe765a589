package device

// ImageMemoryBarrier orders accesses to one image and transitions its
// layout. One record is appended per transition that needs a barrier.
type ImageMemoryBarrier struct {
	SrcAccess AccessBits
	DstAccess AccessBits
	OldLayout ImageLayout
	NewLayout ImageLayout
	Image     *Image
}

// BufferMemoryBarrier orders accesses to one buffer. Buffers have no
// layout, so only the access masks are recorded.
type BufferMemoryBarrier struct {
	SrcAccess AccessBits
	DstAccess AccessBits
	Buffer    *Buffer
}

// PipelineBarrier accumulates the barriers required before the next
// command. The recording layer passes one accumulator through every
// resource access of a dispatch and records it in a single barrier
// command; the stage masks aggregate across all entries.
type PipelineBarrier struct {
	SrcStageMask StageBits
	DstStageMask StageBits
	Images       []ImageMemoryBarrier
	Buffers      []BufferMemoryBarrier
}

// Empty reports whether no barrier entries have been accumulated.
func (pb *PipelineBarrier) Empty() bool {
	return len(pb.Images) == 0 && len(pb.Buffers) == 0
}
