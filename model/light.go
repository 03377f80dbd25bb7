// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package model holds the data shapes shared by every shadow atlas
// subsystem: lights, slot placement, and the template/final quadtree
// representation. It has no dependencies beyond the linear math library
// so every other package can import it without creating cycles.
package model

import (
	"math"

	"github.com/shadowatlas/shadowatlas/math/lin"
)

// Kind distinguishes the two light shapes the atlas understands.
// Point lights are projected and allocated like spots but are never
// rasterized or compressed; see produce.Plan.
type Kind uint8

const (
	Spot Kind = iota
	Point
)

// Light is a stable-index local light. Position and Direction are world
// space; Direction is expected normalized for spots.
type Light struct {
	Index      int
	Kind       Kind
	Position   lin.V3
	Direction  lin.V3
	Range      float64
	ConeAngle  float64 // outer cone half-angle in radians, spot only.
}

// BoundingSphere returns the light's world-space bounding sphere.
//
//	spot:  center = position + radius·direction, radius = range / (2·cos(outerAngle))
//	point: center = position, radius = range
func (l *Light) BoundingSphere() (center lin.V3, radius float64) {
	if l.Kind == Point {
		return l.Position, l.Range
	}
	radius = l.Range / (2 * math.Cos(l.ConeAngle))
	var offset lin.V3
	offset.Scale(&l.Direction, radius)
	center.Add(&l.Position, &offset)
	return center, radius
}
