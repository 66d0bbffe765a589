// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device exposes the device/context collaborator surface: the
// Context interface tensors allocate through, the physical resource
// types, and the pipeline barrier vocabulary the command-recording layer
// consumes.
package device

import (
	"github.com/born-ml/gputensor/internal/device"
)

// Context is the device/context collaborator that owns the allocator and
// the deferred-cleanup queues.
type Context = device.Context

// Image is a GPU image texture owned by a tensor's storage.
type Image = device.Image

// Buffer is a GPU buffer owned by a tensor's storage or backing metadata.
type Buffer = device.Buffer

// Resource is the physical backing of a tensor: an *Image or a *Buffer.
type Resource = device.Resource

// SamplerProperties describes the sampler attached to a tensor image.
type SamplerProperties = device.SamplerProperties

// PipelineBarrier accumulates the barriers required before the next
// recorded command.
type PipelineBarrier = device.PipelineBarrier

// ImageMemoryBarrier orders accesses to one image.
type ImageMemoryBarrier = device.ImageMemoryBarrier

// BufferMemoryBarrier orders accesses to one buffer.
type BufferMemoryBarrier = device.BufferMemoryBarrier

// AccessState is the hazard state of a resource.
type AccessState = device.AccessState

// PipelineStage identifies the logical pipeline stage of an operation.
type PipelineStage = device.PipelineStage

// Logical pipeline stages.
const (
	StageNone     PipelineStage = device.StageNone
	StageCompute  PipelineStage = device.StageCompute
	StageHost     PipelineStage = device.StageHost
	StageTransfer PipelineStage = device.StageTransfer
)

// MemoryAccess is the read/write direction of an access.
type MemoryAccess = device.MemoryAccess

// Access directions.
const (
	AccessRead  MemoryAccess = device.AccessRead
	AccessWrite MemoryAccess = device.AccessWrite
)

// ImageLayout tags the current memory layout of an image.
type ImageLayout = device.ImageLayout

// Image layouts.
const (
	LayoutUndefined      ImageLayout = device.LayoutUndefined
	LayoutGeneral        ImageLayout = device.LayoutGeneral
	LayoutShaderReadOnly ImageLayout = device.LayoutShaderReadOnly
	LayoutTransferSrc    ImageLayout = device.LayoutTransferSrc
	LayoutTransferDst    ImageLayout = device.LayoutTransferDst
)

// Error sentinels. Match with errors.Is.
var (
	ErrInvalidArgument   = device.ErrInvalidArgument
	ErrUnsupportedConfig = device.ErrUnsupportedConfig
	ErrOutOfDeviceMemory = device.ErrOutOfDeviceMemory
)
