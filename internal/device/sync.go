package device

// PipelineStage identifies the logical pipeline stage of an operation
// touching a resource. Stages are a bitmask; the zero value means no
// prior access.
type PipelineStage uint32

// Logical pipeline stages.
const (
	StageNone     PipelineStage = 0
	StageCompute  PipelineStage = 1 << 0
	StageHost     PipelineStage = 1 << 1
	StageTransfer PipelineStage = 1 << 2
)

// MemoryAccess is the read/write direction of an access.
type MemoryAccess uint32

// Access directions.
const (
	AccessRead  MemoryAccess = 1 << 0
	AccessWrite MemoryAccess = 1 << 1
)

// StageBits is the pipeline-stage mask consumed by the command-recording
// layer when a barrier is recorded.
type StageBits uint32

// Pipeline stage mask bits. TopOfPipe and BottomOfPipe are the sentinels
// substituted for an empty previous or target stage.
const (
	StageBitTopOfPipe StageBits = 1 << iota
	StageBitComputeShader
	StageBitHost
	StageBitTransfer
	StageBitBottomOfPipe
)

// AccessBits is the memory-access mask consumed by the command-recording
// layer when a barrier is recorded.
type AccessBits uint32

// Memory access mask bits.
const (
	AccessBitShaderRead AccessBits = 1 << iota
	AccessBitShaderWrite
	AccessBitHostRead
	AccessBitHostWrite
	AccessBitTransferRead
	AccessBitTransferWrite
)

// ImageLayout tags the current memory layout of an image. Layout is part
// of the hazard state: changing it always requires a barrier.
type ImageLayout int

// Image layouts.
const (
	LayoutUndefined ImageLayout = iota
	LayoutGeneral
	LayoutShaderReadOnly
	LayoutTransferSrc
	LayoutTransferDst
)

// String returns a human-readable layout name.
func (l ImageLayout) String() string {
	switch l {
	case LayoutUndefined:
		return "undefined"
	case LayoutGeneral:
		return "general"
	case LayoutShaderReadOnly:
		return "shader-read-only"
	case LayoutTransferSrc:
		return "transfer-src"
	case LayoutTransferDst:
		return "transfer-dst"
	default:
		return "unknown"
	}
}

// StageMask maps logical pipeline stages to their stage mask bits.
// StageNone maps to the empty mask; callers substitute the appropriate
// sentinel.
func StageMask(stage PipelineStage) StageBits {
	var bits StageBits
	if stage&StageCompute != 0 {
		bits |= StageBitComputeShader
	}
	if stage&StageHost != 0 {
		bits |= StageBitHost
	}
	if stage&StageTransfer != 0 {
		bits |= StageBitTransfer
	}
	return bits
}

// AccessMask maps a (stage, access) pair to the access mask bits recorded
// in a barrier.
func AccessMask(stage PipelineStage, access MemoryAccess) AccessBits {
	var bits AccessBits
	if stage&StageCompute != 0 {
		if access&AccessRead != 0 {
			bits |= AccessBitShaderRead
		}
		if access&AccessWrite != 0 {
			bits |= AccessBitShaderWrite
		}
	}
	if stage&StageHost != 0 {
		if access&AccessRead != 0 {
			bits |= AccessBitHostRead
		}
		if access&AccessWrite != 0 {
			bits |= AccessBitHostWrite
		}
	}
	if stage&StageTransfer != 0 {
		if access&AccessRead != 0 {
			bits |= AccessBitTransferRead
		}
		if access&AccessWrite != 0 {
			bits |= AccessBitTransferWrite
		}
	}
	return bits
}

// LayoutFor returns the image layout implied by accessing an image at the
// given stage with the given access direction. Read-only compute access
// uses the sampled-image layout; any write forces the general layout.
func LayoutFor(stage PipelineStage, access MemoryAccess) ImageLayout {
	switch {
	case stage&StageCompute != 0:
		if access == AccessRead {
			return LayoutShaderReadOnly
		}
		return LayoutGeneral
	case stage&StageTransfer != 0:
		if access == AccessRead {
			return LayoutTransferSrc
		}
		return LayoutTransferDst
	default:
		return LayoutGeneral
	}
}
