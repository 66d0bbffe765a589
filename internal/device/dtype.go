// Package device defines the surface of the GPU device/context collaborator:
// data types, physical resources, hazard tracking primitives, and the
// Context interface through which resources are created and retired.
package device

import "github.com/gogpu/gputypes"

// DataType represents the element type of a tensor stored on the GPU.
type DataType int

// Supported element types.
const (
	Float32 DataType = iota
	Float16
	Int32
	Int8
	Uint8
	Bool
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float16:
		return 2
	case Int8, Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// TextureFormat returns the RGBA texture format used to store elements of
// this type. One texel holds four lanes of the packed dimension, which is
// why every format is four-channel.
func (dt DataType) TextureFormat() gputypes.TextureFormat {
	switch dt {
	case Float32:
		return gputypes.TextureFormatRGBA32Float
	case Float16:
		return gputypes.TextureFormatRGBA16Float
	case Int32:
		return gputypes.TextureFormatRGBA32Sint
	case Int8:
		return gputypes.TextureFormatRGBA8Sint
	case Uint8, Bool:
		return gputypes.TextureFormatRGBA8Uint
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	case Int32:
		return "int32"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}
