package tensor

import (
	"github.com/gogpu/gputypes"

	"github.com/born-ml/gputensor/internal/device"
	"github.com/born-ml/gputensor/internal/layout"
)

// tensorSampler is the fixed sampler configuration for tensor images:
// nearest filtering with repeat addressing. Shaders address texels by
// integer coordinate, so no filtering configuration is exposed.
var tensorSampler = device.SamplerProperties{
	Filter:       gputypes.FilterModeNearest,
	MipmapFilter: gputypes.FilterModeNearest,
	AddressMode:  gputypes.AddressModeRepeat,
}

// allocateImage materializes a GPU image of the given extents for texture
// storage kinds. For buffer storage it returns nil: no image applies.
// Transfer usage is always allowed so tensors can be staged in and out.
func allocateImage(ctx device.Context, extent gputypes.Extent3D, kind layout.StorageKind,
	format gputypes.TextureFormat, allocateMemory bool) (*device.Image, error) {
	var dim gputypes.TextureDimension
	switch kind {
	case layout.Texture3D:
		dim = gputypes.TextureDimension3D
	case layout.Texture2D:
		dim = gputypes.TextureDimension2D
	default:
		return nil, nil
	}

	return ctx.CreateImage(extent, format, dim, tensorSampler, true, allocateMemory)
}

// allocateBuffer materializes a device-local storage buffer holding numel
// elements for buffer storage kinds. For texture storage it returns nil.
func allocateBuffer(ctx device.Context, numel int64, kind layout.StorageKind,
	dtype device.DataType, allocateMemory bool) (*device.Buffer, error) {
	if kind != layout.Buffer {
		return nil, nil
	}

	return ctx.CreateStorageBuffer(uint64(numel)*uint64(dtype.Size()), true, allocateMemory)
}
