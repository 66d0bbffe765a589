package webgpu

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/gputypes"
	"github.com/rs/zerolog/log"

	"github.com/born-ml/gputensor/internal/device"
)

// textureFormat maps the descriptor-level format to the wgpu format.
func textureFormat(format gputypes.TextureFormat) (wgpu.TextureFormat, error) {
	switch format {
	case gputypes.TextureFormatRGBA32Float:
		return wgpu.TextureFormatRGBA32Float, nil
	case gputypes.TextureFormatRGBA16Float:
		return wgpu.TextureFormatRGBA16Float, nil
	case gputypes.TextureFormatRGBA32Sint:
		return wgpu.TextureFormatRGBA32Sint, nil
	case gputypes.TextureFormatRGBA8Sint:
		return wgpu.TextureFormatRGBA8Sint, nil
	case gputypes.TextureFormatRGBA8Uint:
		return wgpu.TextureFormatRGBA8Uint, nil
	default:
		return 0, fmt.Errorf("%w: unsupported texture format %v", device.ErrInvalidArgument, format)
	}
}

// texelSize returns the byte size of one texel for supported formats.
func texelSize(format gputypes.TextureFormat) uint64 {
	switch format {
	case gputypes.TextureFormatRGBA32Float, gputypes.TextureFormatRGBA32Sint:
		return 16
	case gputypes.TextureFormatRGBA16Float:
		return 8
	default:
		return 4
	}
}

// textureByteSize estimates the memory footprint of an image.
func textureByteSize(img *device.Image) uint64 {
	ext := img.Extent()
	return uint64(ext.Width) * uint64(ext.Height) * uint64(ext.DepthOrArrayLayers) * texelSize(img.Format())
}

func textureDimension(dim gputypes.TextureDimension) wgpu.TextureDimension {
	if dim == gputypes.TextureDimension3D {
		return wgpu.TextureDimension3D
	}
	return wgpu.TextureDimension2D
}

func filterMode(mode gputypes.FilterMode) wgpu.FilterMode {
	if mode == gputypes.FilterModeLinear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}

func mipmapFilterMode(mode gputypes.FilterMode) wgpu.MipmapFilterMode {
	if mode == gputypes.FilterModeLinear {
		return gputypes.MipmapFilterModeLinear
	}
	return gputypes.MipmapFilterModeNearest
}

func addressMode(mode gputypes.AddressMode) wgpu.AddressMode {
	switch mode {
	case gputypes.AddressModeClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gputypes.AddressModeMirrorRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}

// retrieveSampler returns a cached sampler for the given properties,
// creating it on first use.
func (b *Backend) retrieveSampler(props device.SamplerProperties) *wgpu.Sampler {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sampler, exists := b.samplers[props]; exists {
		return sampler
	}

	sampler, _ := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU: addressMode(props.AddressMode),
		AddressModeV: addressMode(props.AddressMode),
		AddressModeW: addressMode(props.AddressMode),
		MagFilter:    filterMode(props.Filter),
		MinFilter:    filterMode(props.Filter),
		MipmapFilter: mipmapFilterMode(props.MipmapFilter),
	})
	b.samplers[props] = sampler
	return sampler
}

// CreateImage implements device.Context.
//
// WebGPU binds texture memory at creation, so allocateMemory cannot defer
// the actual allocation here; it is recorded as the ownership mode so
// reallocation preserves the caller's pooling intent.
func (b *Backend) CreateImage(extent gputypes.Extent3D, format gputypes.TextureFormat,
	dim gputypes.TextureDimension, sampler device.SamplerProperties,
	allowTransfer, allocateMemory bool) (img *device.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: texture %dx%dx%d: %v", device.ErrOutOfDeviceMemory,
				extent.Width, extent.Height, extent.DepthOrArrayLayers, r)
		}
	}()

	wgpuFormat, err := textureFormat(format)
	if err != nil {
		return nil, err
	}

	usage := wgpu.TextureUsageTextureBinding | wgpu.TextureUsageStorageBinding
	if allowTransfer {
		usage |= wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst
	}

	tex, _ := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "tensor",
		Size: wgpu.Extent3D{
			Width:              extent.Width,
			Height:             extent.Height,
			DepthOrArrayLayers: extent.DepthOrArrayLayers,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     textureDimension(dim),
		Format:        wgpuFormat,
		Usage:         usage,
	})
	if tex == nil {
		return nil, fmt.Errorf("%w: texture %dx%dx%d", device.ErrOutOfDeviceMemory,
			extent.Width, extent.Height, extent.DepthOrArrayLayers)
	}

	b.retrieveSampler(sampler)

	img = device.NewImage(tex, extent, format, dim, sampler, allocateMemory)
	b.trackAllocation(textureByteSize(img))

	log.Trace().
		Uint32("width", extent.Width).
		Uint32("height", extent.Height).
		Uint32("depth", extent.DepthOrArrayLayers).
		Msg("created tensor image")

	return img, nil
}

// CreateStorageBuffer implements device.Context.
//
// WebGPU storage buffers are device-local; gpuOnly controls whether
// transfer usage is attached for staged readback.
func (b *Backend) CreateStorageBuffer(byteSize uint64, gpuOnly, allocateMemory bool) (buf *device.Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%w: buffer of %d bytes: %v", device.ErrOutOfDeviceMemory, byteSize, r)
		}
	}()

	usage := wgpu.BufferUsageStorage
	if !gpuOnly {
		usage |= wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	}

	// WebGPU requires 4-byte buffer sizes.
	alignedSize := (byteSize + 3) &^ 3

	wb, _ := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  alignedSize,
	})
	if wb == nil {
		return nil, fmt.Errorf("%w: buffer of %d bytes", device.ErrOutOfDeviceMemory, byteSize)
	}

	b.trackAllocation(alignedSize)

	log.Trace().Uint64("bytes", alignedSize).Msg("created tensor buffer")

	return device.NewBuffer(wb, alignedSize, allocateMemory), nil
}

// CreateUniformBuffer implements device.Context.
func (b *Backend) CreateUniformBuffer(byteSize uint64) (buf *device.Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%w: uniform buffer of %d bytes: %v", device.ErrOutOfDeviceMemory, byteSize, r)
		}
	}()

	wb, _ := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:  byteSize,
	})
	if wb == nil {
		return nil, fmt.Errorf("%w: uniform buffer of %d bytes", device.ErrOutOfDeviceMemory, byteSize)
	}

	b.trackAllocation(byteSize)

	return device.NewBuffer(wb, byteSize, true), nil
}

// WriteBuffer implements device.Context.
func (b *Backend) WriteBuffer(buf *device.Buffer, data []byte) error {
	wb, ok := buf.Handle().(*wgpu.Buffer)
	if !ok || wb == nil {
		return fmt.Errorf("%w: buffer was not created by this context", device.ErrInvalidArgument)
	}
	b.queue.WriteBuffer(wb, 0, data)
	return nil
}

// RegisterImageCleanup implements device.Context.
func (b *Backend) RegisterImageCleanup(img *device.Image) {
	b.imageCleanup.Append(img)
}

// RegisterBufferCleanup implements device.Context.
func (b *Backend) RegisterBufferCleanup(buf *device.Buffer) {
	b.bufferCleanup.Append(buf)
}

// Supports16BitStorage implements device.Context.
func (b *Backend) Supports16BitStorage() bool {
	return b.adapter.HasFeature(wgpu.FeatureNameShaderF16)
}
