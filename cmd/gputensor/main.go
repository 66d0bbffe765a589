// Package main provides the gputensor diagnostic CLI: probes the GPU
// adapter and exercises a small tensor allocation to verify the stack.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/born-ml/gputensor/backend/webgpu"
	"github.com/born-ml/gputensor/device"
	"github.com/born-ml/gputensor/tensor"
)

const version = "v0.1.0-dev"

var (
	verbose   = flag.Bool("v", false, "Enable debug logging")
	probeOnly = flag.Bool("probe", false, "Only probe for GPU availability and exit")
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	flag.Parse()
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("gputensor %s\n", version)
		return
	}

	if !webgpu.IsAvailable() {
		log.Error().Msg("WebGPU is not available on this system")
		os.Exit(1)
	}
	log.Info().Msg("WebGPU adapter found")

	if *probeOnly {
		return
	}

	ctx, err := webgpu.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create device context")
	}
	defer ctx.Release()

	log.Info().Str("backend", ctx.Name()).Msg("device context created")

	t, err := tensor.New(ctx, tensor.Shape{1, 3, 64, 64}, tensor.Float32,
		tensor.Texture3D, tensor.ChannelsPacked, true)
	if err != nil {
		log.Fatal().Err(err).Msg("tensor allocation failed")
	}

	var pb device.PipelineBarrier
	img := t.Image(&pb, device.StageCompute, device.AccessWrite)
	limits := t.TextureLimits()

	log.Info().
		Uint32("width", img.Extent().Width).
		Uint32("height", img.Extent().Height).
		Uint32("depth", img.Extent().DepthOrArrayLayers).
		Ints32("limits", limits[:]).
		Msg("allocated tensor image")

	if _, err := t.SizesUBO(); err != nil {
		log.Fatal().Err(err).Msg("failed to create sizes UBO")
	}
	if _, err := t.PackedDimMetaUBO(); err != nil {
		log.Fatal().Err(err).Msg("failed to create packed dim UBO")
	}

	t.Release()
	ctx.DrainCleanup()

	stats := ctx.MemoryStats()
	log.Info().
		Uint64("peak_bytes", stats.PeakMemoryBytes).
		Int64("active", stats.ActiveResources).
		Msg("done")
}
