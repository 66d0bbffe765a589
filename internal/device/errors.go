package device

import "errors"

// Error sentinels for the storage subsystem. Callers match them with
// errors.Is; every failure is raised synchronously at the call that
// detects it and is never retried internally.
var (
	// ErrInvalidArgument indicates a bad rank, a non-multiple-of-4 packed
	// dimension, or a virtual resize that would exceed the allocated texture.
	ErrInvalidArgument = errors.New("gputensor: invalid argument")

	// ErrUnsupportedConfig indicates the device lacks a capability the
	// requested configuration needs (e.g. 16-bit storage buffers).
	ErrUnsupportedConfig = errors.New("gputensor: unsupported configuration")

	// ErrOutOfDeviceMemory indicates the device allocator could not
	// satisfy a resource request.
	ErrOutOfDeviceMemory = errors.New("gputensor: out of device memory")
)
