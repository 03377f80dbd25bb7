// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package shadowatlas coordinates the atlas geometry, projector, slot
// allocator, shadow producer, tile compressor, and reconstruction sampler
// into an N-deep ring of in-flight frames, generalizing
// gazed/vu/render/vulkan.go's swapchain frame-ring/fence pattern from
// presentation to shadow-atlas compression.
package shadowatlas

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/shadowatlas/shadowatlas/alloc"
	"github.com/shadowatlas/shadowatlas/atlas"
	"github.com/shadowatlas/shadowatlas/compress"
	"github.com/shadowatlas/shadowatlas/gpu"
	"github.com/shadowatlas/shadowatlas/model"
	"github.com/shadowatlas/shadowatlas/produce"
	"github.com/shadowatlas/shadowatlas/project"
	"github.com/shadowatlas/shadowatlas/reconstruct"
)

// DepthReader resolves a completed produce.Job's rendered depth target
// into a CPU-visible depth field once its frame's fence has signaled. The
// core never names how a texture becomes readable (readback buffer, UAV
// copy, whatever the backend prefers) — that lives entirely on the host
// side of the capability boundary.
type DepthReader interface {
	ReadDepth(job produce.Job) (compress.DepthMap, error)
}

// LightTree is a committed, readable compressed shadow tree for one light,
// current as of the most recent frame in which that light's level changed.
type LightTree struct {
	Tree         model.Tree
	Level        int
	TilesPerSide int
}

// Coordinator owns the atlas geometry, the slot allocator, and the ring of
// in-flight frames that pipeline the GPU depth rendering against the
// CPU-side (in this implementation) tree compression.
type Coordinator struct {
	cfg    Config
	geo    *atlas.Geometry
	alloc  *alloc.Allocator
	device gpu.Device
	queue  gpu.Queue
	shader gpu.Pipeline
	reader DepthReader

	frames   []frame
	writeIdx int
	readIdx  int

	lastPlacement model.Placement

	trees map[int]LightTree

	onFatal func(error)
}

// NewCoordinator compiles the shadow-produce pipeline and builds the atlas
// geometry for cfg. onFatal, if non-nil, is called synchronously, after the
// error is logged, when a FatalError occurs; a nil onFatal means fatal
// errors are only logged.
func NewCoordinator(cfg Config, dev gpu.Device, queue gpu.Queue, shaders gpu.ShaderFactory, reader DepthReader, onFatal func(error)) (*Coordinator, error) {
	if cfg.Smax < 1<<uint(cfg.Lmax-1) {
		return nil, fatal(FatalGeometry, fmt.Errorf("smax %d too small for lmax %d", cfg.Smax, cfg.Lmax))
	}
	pipeline, err := shaders.Compile("shadow-produce")
	if err != nil {
		return nil, fatal(FatalPipelineCompile, fmt.Errorf("compile shadow-produce: %w", err))
	}
	geo := atlas.Build(cfg.Smax, cfg.Lmax)
	c := &Coordinator{
		cfg:     cfg,
		geo:     geo,
		alloc:   alloc.NewAllocator(geo),
		device:  dev,
		queue:   queue,
		shader:  pipeline,
		reader:  reader,
		frames:  make([]frame, cfg.RingDepth),
		trees:   make(map[int]LightTree),
		onFatal: onFatal,
	}
	return c, nil
}

// Submit projects and allocates slots for lights against view, records
// depth-render dispatches for any spot light whose level changed, and
// submits them on the next free ring slot. It returns the slot placement
// snapshot valid for this frame, for the host to bind into its own
// shading pass, and whether a frame was actually recorded into the ring.
//
// Submit is a no-op — recorded is false, the ring cursor does not
// advance, and the previous placement snapshot is returned — when the
// write slot is still busy (ring full; the normal steady state once the
// fence latency exceeds the ring depth) or when nothing changed this
// frame (empty level-change set, nothing new to record). Neither
// condition is an error: a busy ring or an idle frame are routine, not
// reported through this method's error return.
func (c *Coordinator) Submit(ctx context.Context, lights []model.Light, view model.View) (model.Placement, bool, error) {
	slot := &c.frames[c.writeIdx%len(c.frames)]
	if slot.state != frameFree {
		slog.Debug("shadowatlas: ring busy, submit skipped", "slot", c.writeIdx%len(c.frames))
		return c.lastPlacement, false, nil
	}

	desired := make([]int, len(lights))
	for i := range lights {
		desired[i] = project.Desired(&lights[i], view, c.geo.Smax(), c.geo.Lmax(), c.cfg.Quality)
	}
	placement, changed := c.alloc.Place(desired)
	c.lastPlacement = placement

	if len(changed) == 0 {
		return placement, false, nil
	}

	jobs := produce.Plan(lights, placement, changed, c.geo, c.cfg.Bias)

	if len(jobs) > 0 {
		cl, err := c.device.NewCommandList()
		if err != nil {
			c.reportFatal(fatal(FatalDeviceLost, fmt.Errorf("new command list: %w", err)))
			return nil, false, err
		}
		for _, j := range jobs {
			target, err := c.device.NewTexture(gpu.TextureDesc{
				Width: uint32(j.Width), Height: uint32(j.Height),
				Format: "D32_FLOAT", Usage: gpu.TextureDepthTarget,
			})
			if err != nil {
				return nil, false, fmt.Errorf("shadowatlas: alloc depth target for light %d: %w", j.LightIndex, err)
			}
			produce.Dispatch(cl, c.shader, target, j)
		}
		if err := cl.Close(); err != nil {
			return nil, false, fmt.Errorf("shadowatlas: close command list: %w", err)
		}
		fence, err := c.queue.Submit(ctx, cl)
		if err != nil {
			c.reportFatal(fatal(FatalDeviceLost, fmt.Errorf("submit: %w", err)))
			return nil, false, err
		}
		slot.fence = fence
	} else {
		slot.fence = nil
	}

	slot.state = frameRecording
	slot.jobs = jobs
	slot.placement = placement
	slot.state = frameSubmitted
	c.writeIdx++

	slog.Debug("shadowatlas: frame submitted", "slot", c.writeIdx-1, "jobs", len(jobs), "changed", len(changed))
	return placement, true, nil
}

// Poll advances the oldest in-flight frame whose fence has signaled (or
// which had no GPU work at all): it reads back each job's depth field,
// builds and emits its compressed tree, and commits the result into the
// coordinator's current per-light tree table. A frame with no pending
// jobs is consumed immediately without waiting on anything.
//
// Poll does no work and returns (false, nil) if the oldest pending frame's
// fence has not signaled yet — callers are expected to call it once per
// frame alongside Submit.
func (c *Coordinator) Poll(ctx context.Context) (bool, error) {
	if c.readIdx == c.writeIdx {
		return false, nil // nothing submitted and unconsumed.
	}
	slot := &c.frames[c.readIdx%len(c.frames)]
	if slot.state != frameSubmitted {
		return false, nil
	}
	if slot.fence != nil && !slot.fence.Signaled() {
		return false, nil
	}

	if err := c.compressFrame(slot.jobs); err != nil {
		log.Printf("shadowatlas: frame %d discarded: %v", c.readIdx, err)
		slot.reset()
		c.readIdx++
		return true, nil
	}

	slot.state = frameConsumed
	slot.reset()
	c.readIdx++
	return true, nil
}

// compressFrame fans out the independent per-light tile-build-and-emit
// work for this frame's jobs, since each light's tile hash table and
// codebook are scoped to that light alone and nothing downstream needs
// them serialized until they are committed into c.trees.
func (c *Coordinator) compressFrame(jobs []produce.Job) error {
	results := make([]LightTree, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			depth, err := c.reader.ReadDepth(j)
			if err != nil {
				return fmt.Errorf("read depth for light %d: %w", j.LightIndex, err)
			}
			builder := compress.NewBuilder(c.cfg.compressConfig())
			tiles, codebook, ok := builder.BuildLight(depth)
			if !ok {
				return fmt.Errorf("light %d: tile hash table exhausted", j.LightIndex)
			}
			tree, counters := compress.Emit(tiles, codebook)
			results[i] = LightTree{Tree: tree, Level: j.Level, TilesPerSide: isqrt(counters.TileCount)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, j := range jobs {
		c.trees[j.LightIndex] = results[i]
	}
	return nil
}

// Sampler returns a reconstruction sampler for lightIndex's current
// committed tree, or false if that light has never rasterized one (never
// placed, a point light, or not yet polled past its first frame).
func (c *Coordinator) Sampler(lightIndex int) (reconstruct.Sampler, bool) {
	lt, ok := c.trees[lightIndex]
	if !ok {
		return reconstruct.Sampler{}, false
	}
	return reconstruct.Sampler{Tree: lt.Tree, TilesPerSide: lt.TilesPerSide}, true
}

func (c *Coordinator) reportFatal(err error) {
	log.Printf("%v", err)
	if c.onFatal != nil {
		c.onFatal(err)
	}
}

func isqrt(n int) int {
	r := 0
	for r*r < n {
		r++
	}
	return r
}
