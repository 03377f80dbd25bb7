// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package produce renders the depth-only shadow map for each light whose
// slot level changed this frame. It is a direct generalization of
// gazed/vu's single sun-light shadow map (shadow.go) to per-level,
// per-light atlas sub-regions.
package produce

import (
	"math"

	"github.com/shadowatlas/shadowatlas/atlas"
	"github.com/shadowatlas/shadowatlas/gpu"
	"github.com/shadowatlas/shadowatlas/math/lin"
	"github.com/shadowatlas/shadowatlas/model"
)

// Bias holds the depth bias applied by the rasterizer.
type Bias struct {
	SlopeScaled float64 `yaml:"slope_scaled"`
	Constant    float64 `yaml:"constant"`
	Clamp       float64 `yaml:"clamp"`
}

// DefaultBias is a conservative starting point for shadow acne avoidance.
var DefaultBias = Bias{SlopeScaled: 5.0, Constant: 150, Clamp: 0.2}

// Job is one light's depth-render request: the view-projection transform
// derived from the light and the target resolution for its new level.
type Job struct {
	LightIndex  int
	Slot        model.SlotID
	Level       int
	Width       int
	Height      int
	ViewProj    *lin.M4
	Bias        Bias
}

// Plan builds the per-light render jobs for this frame's level_changed set.
// Point lights are allocated and placed upstream but are never rasterized
// here; they are simply skipped, leaving their prior compressed data
// untouched.
func Plan(lights []model.Light, placement model.Placement, changed []int, geo *atlas.Geometry, bias Bias) []Job {
	jobs := make([]Job, 0, len(changed))
	for _, i := range changed {
		l := &lights[i]
		if l.Kind != model.Spot {
			continue
		}
		slot := placement[i]
		if slot == model.Unplaced {
			continue
		}
		level := geo.LevelOf(int32(slot))
		w, h := geo.ResolutionOf(level)

		vp := lightViewProjection(l)
		jobs = append(jobs, Job{
			LightIndex: i,
			Slot:       slot,
			Level:      level,
			Width:      w,
			Height:     h,
			ViewProj:   vp,
			Bias:       bias,
		})
	}
	return jobs
}

// lightViewProjection derives the view-projection transform for a spot
// light: view from the light's position looking down its cone direction,
// reversed-Z D3D-style projection with far = range, near = 0.1.
func lightViewProjection(l *model.Light) *lin.M4 {
	view := lin.NewM4I()
	view.TranslateTM(-l.Position.X, -l.Position.Y, -l.Position.Z)
	if l.Direction.Len() > 0 {
		back := lin.NewV3().Scale(&l.Direction, -1).Unit() // view space looks down -Z.
		up := &lin.V3{Y: 1}
		if math.Abs(back.Y) > 0.99 {
			up = &lin.V3{X: 1}
		}
		right := lin.NewV3().Cross(up, back).Unit()
		up = lin.NewV3().Cross(back, right)
		rot := &lin.M4{Xx: right.X, Xy: up.X, Xz: back.X, Yx: right.Y, Yy: up.Y, Yz: back.Y,
			Zx: right.Z, Zy: up.Z, Zz: back.Z, Ww: 1}
		view.Mult(view, rot)
	}

	fovRad := 2 * l.ConeAngle
	proj := reversedZPerspective(fovRad, 1.0, 0.1, l.Range)

	vp := lin.NewM4()
	vp.Mult(view, proj)
	return vp
}

// reversedZPerspective builds a perspective matrix in the same field
// layout as lin.M4.Persp but mapping near -> depth 1, far -> depth 0,
// trading precision at the far plane for precision near the occluder.
func reversedZPerspective(fovRad, aspect, near, far float64) *lin.M4 {
	m := lin.NewM4()
	f := 1 / math.Tan(fovRad/2)
	m.Xx = f / aspect
	m.Yy = f
	m.Zz = near / (far - near)
	m.Wz = far * near / (far - near)
	m.Zw = -1
	return m
}

// Dispatch records the GPU work for one rendered job: binding the
// rasterization pipeline and issuing the depth-only draw. Geometry upload
// and per-vertex binding are supplied by the host scene; this only
// sequences the capability calls the core owns.
func Dispatch(cl gpu.CommandList, pipeline gpu.Pipeline, target gpu.Texture, j Job) {
	cl.BeginMarker("shadow-produce")
	bindings := gpu.Bindings{
		"viewProj":    j.ViewProj,
		"depthTarget": target,
		"biasSlope":   j.Bias.SlopeScaled,
		"biasConst":   j.Bias.Constant,
		"biasClamp":   j.Bias.Clamp,
	}
	cl.SetComputeState(pipeline, bindings, nil)
	cl.Dispatch(uint32(j.Width), uint32(j.Height), 1)
	cl.EndMarker()
}
