// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package compress

import (
	"math"

	"github.com/shadowatlas/shadowatlas/model"
)

const quantizeBits = 16

// candidate is one of the three leaf models evaluated for a 2x2 (or, during
// merge, a 4x-larger) region: its codeword and the max absolute error it
// would introduce over the region's four corner samples.
type candidate struct {
	cw  model.CodeWord
	err float64
}

// candidates evaluates all three compression models in trial order:
// constant, four-corner, plane.
func candidates(tl, tr, bl, br float32) [3]candidate {
	samples := [4]float32{tl, tr, bl, br}

	mean := (tl + tr + bl + br) / 4
	constCW := model.CodeWord{Type: model.CompressConstant, Params: [4]float32{mean}}
	constErr := maxAbsErr(samples, [4]float32{mean, mean, mean, mean})

	q := quantizeSamples(samples)
	fourCornerCW := model.CodeWord{Type: model.CompressFourCorner, Params: q}
	fourCornerErr := maxAbsErr(samples, q)

	a, b, c, planeErr := fitPlaneUnit(tl, tr, bl, br)
	planeCW := model.CodeWord{Type: model.CompressPlane, Params: [4]float32{float32(a), float32(b), float32(c), 0}}

	return [3]candidate{
		{constCW, constErr},
		{fourCornerCW, fourCornerErr},
		{planeCW, planeErr},
	}
}

// firstFit returns the first candidate (in trial order) whose error is
// within tau.
func firstFit(cands [3]candidate, tau float64) (candidate, bool) {
	for _, c := range cands {
		if c.err <= tau {
			return c, true
		}
	}
	return candidate{}, false
}

// bestOf returns the candidate with the smallest error, used only when no
// model fits within tau at the finest (2x2) granularity: a leaf is still
// required there, so the least-bad model is forced.
func bestOf(cands [3]candidate) candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.err < best.err {
			best = c
		}
	}
	return best
}

// fitLeaf2x2 chooses the leaf model for a base 2x2 block. It always
// returns a codeword: if no model fits within tau, the least-bad model is
// forced (there is no finer granularity to fall back to).
func fitLeaf2x2(tl, tr, bl, br float32, tau float64) model.CodeWord {
	cands := candidates(tl, tr, bl, br)
	if c, ok := firstFit(cands, tau); ok {
		return c.cw
	}
	return bestOf(cands).cw
}

// fitRegion evaluates whether a larger (already-subdivided) region's four
// children can collapse into a single leaf during the bottom-up merge.
// Unlike fitLeaf2x2 it never forces acceptance — a region that doesn't
// fit stays an interior node.
func fitRegion(tl, tr, bl, br float32, tau float64) (model.CodeWord, bool) {
	cands := candidates(tl, tr, bl, br)
	c, ok := firstFit(cands, tau)
	return c.cw, ok
}

func maxAbsErr(samples, reference [4]float32) float64 {
	max := 0.0
	for i, s := range samples {
		e := math.Abs(float64(s) - float64(reference[i]))
		if e > max {
			max = e
		}
	}
	return max
}

func quantize(v float32) float32 {
	scale := float64((uint32(1) << quantizeBits) - 1)
	q := math.Round(float64(v) * scale)
	if q < 0 {
		q = 0
	}
	if q > scale {
		q = scale
	}
	return float32(q / scale)
}

func quantizeSamples(s [4]float32) [4]float32 {
	var q [4]float32
	for i, v := range s {
		q[i] = quantize(v)
	}
	return q
}

// fitPlaneUnit solves nx·u + ny·v + nz·w + d = 0 for z = a·u + b·v + c over
// the unit-square corners tl=(0,0) tr=(1,0) bl=(0,1) br=(1,1), using three
// of the corners (tl, tr, bl — "the 3-point system on two triangles") and
// checking the residual at the fourth.
func fitPlaneUnit(tl, tr, bl, br float32) (a, b, c, residual float64) {
	c = float64(tl)
	a = float64(tr) - c
	b = float64(bl) - c
	predicted := a + b + c
	residual = math.Abs(predicted - float64(br))
	return a, b, c, residual
}

// evalPlane evaluates a plane codeword's params at local uv in [0,1]^2.
func evalPlane(p [4]float32, u, v float64) float64 {
	return float64(p[0])*u + float64(p[1])*v + float64(p[2])
}
