package device

// AccessState is the hazard state of a resource: the stage and access
// direction of the most recent operation that touched it and, for images,
// the layout that access left the image in. The zero value means no prior
// access.
type AccessState struct {
	Stage  PipelineStage
	Access MemoryAccess
	Layout ImageLayout
}

// Barrier describes the synchronization required between two consecutive
// accesses to one resource. The layout fields are meaningful only for
// images.
type Barrier struct {
	SrcStage  StageBits
	DstStage  StageBits
	SrcAccess AccessBits
	DstAccess AccessBits
	OldLayout ImageLayout
	NewLayout ImageLayout
}

// Transition is the pure hazard decision: given the previous and requested
// access states of a resource, it reports whether a barrier is needed and,
// if so, which one.
//
// Write-after-write, write-after-read and read-after-write all hazard;
// read-after-read does not. A layout change hazards even when the previous
// access was a read, because the physical layout itself is part of the
// state the GPU must synchronize.
//
// An empty previous stage maps to the top-of-pipe sentinel, an empty
// target stage to bottom-of-pipe.
func Transition(prev, next AccessState, isImage bool) (Barrier, bool) {
	prevWritten := prev.Access&AccessWrite != 0
	layoutChanged := isImage && prev.Layout != next.Layout

	if !prevWritten && !layoutChanged {
		return Barrier{}, false
	}

	src := StageMask(prev.Stage)
	if src == 0 {
		src = StageBitTopOfPipe
	}
	dst := StageMask(next.Stage)
	if dst == 0 {
		dst = StageBitBottomOfPipe
	}

	return Barrier{
		SrcStage:  src,
		DstStage:  dst,
		SrcAccess: AccessMask(prev.Stage, prev.Access),
		DstAccess: AccessMask(next.Stage, next.Access),
		OldLayout: prev.Layout,
		NewLayout: next.Layout,
	}, true
}
