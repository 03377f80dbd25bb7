// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package reconstruct

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// DenseRebuild samples a Sampler once per texel of a resolution x
// resolution grid, the off-line diagnostic equivalent of the GPU-side dense
// reconstruction pass: one thread per output texel, one Sample each. It
// is never run on the hot path; cmd/atlasdump uses it to dump a PNG of
// what a given light's compressed tree actually encodes.
func DenseRebuild(s Sampler, resolution int) []float32 {
	out := make([]float32, resolution*resolution)
	inv := 1.0 / float64(resolution)
	for y := 0; y < resolution; y++ {
		v := (float64(y) + 0.5) * inv
		for x := 0; x < resolution; x++ {
			u := (float64(x) + 0.5) * inv
			out[y*resolution+x] = float32(s.Sample(u, v))
		}
	}
	return out
}

// WritePNG renders a dense depth field as a grayscale PNG, scaling
// arbitrary output resolutions down to at most maxDim on a side via
// golang.org/x/image/draw so large atlas slots stay viewable.
func WritePNG(w io.Writer, depth []float32, resolution, maxDim int) error {
	lo, hi := float32(1), float32(0)
	for _, d := range depth {
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	spread := hi - lo
	if spread <= 0 {
		spread = 1
	}

	src := image.NewGray(image.Rect(0, 0, resolution, resolution))
	for y := 0; y < resolution; y++ {
		for x := 0; x < resolution; x++ {
			norm := (depth[y*resolution+x] - lo) / spread
			src.SetGray(x, y, color.Gray{Y: uint8(norm * 255)})
		}
	}

	dst := src
	if resolution > maxDim {
		scaled := image.NewGray(image.Rect(0, 0, maxDim, maxDim))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)
		dst = scaled
	}
	return png.Encode(w, dst)
}
