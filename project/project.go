// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package project derives the desired shadow-atlas level for a light from
// its world-space bounding sphere and the current view.
package project

import (
	"math"

	"github.com/shadowatlas/shadowatlas/math/lin"
	"github.com/shadowatlas/shadowatlas/model"
)

// DefaultQuality is the default tunable quality constant k: the desired
// level's resolution must be at least k times the light's projected pixel
// radius.
const DefaultQuality = 1.0

// Desired transforms l's bounding sphere into view space and returns the
// level whose resolution is the smallest power of two at least
// k·projected-pixel-radius, clamped to [0, Lmax). Lights behind the camera
// (view-space z <= 0) or with sub-pixel projected radius report
// model.NoLevel; a light between the camera and the near plane is
// measured at the near-plane depth.
//
// Guarantee: monotonic in distance — moving a light strictly farther from
// the camera never decreases the returned level.
func Desired(l *model.Light, v model.View, smax int, lmax int, quality float64) int {
	center, radius := l.BoundingSphere()

	var world lin.V4
	world.SetS(center.X, center.Y, center.Z, 1)
	var viewed lin.V4
	viewed.MultMv(v.ViewMatrix, &world)

	zView := math.Max(viewed.Z, v.Near)
	if viewed.Z <= 0 {
		return model.NoLevel // behind the camera.
	}

	rpx := radius * (0.5 * float64(v.ViewportH)) * v.FocalY / zView
	if rpx < 1 {
		return model.NoLevel // sub-pixel, not worth a slot.
	}

	target := quality * rpx
	if target < 1 {
		target = 1
	}
	level := int(math.Floor(math.Log2(float64(smax) / target)))
	if level < 0 {
		level = 0
	}
	if level >= lmax {
		level = lmax - 1
	}
	return level
}
