// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package atlas builds the static mapping between a shadow atlas slot id
// and its level, resolution, and parent/child relations. Everything here
// is a pure function of two constants, Smax and Lmax;
// Geometry precomputes a flat lookup table once so later queries are O(1).
package atlas

// Geometry is the precomputed slot-id table for one (Smax, Lmax) pair.
// Slot id 0 is the atlas root (level 0). Level L (L>0) occupies a
// contiguous id range starting at levelStart[L], ordered so that the four
// children of a level-(L-1) slot at position p are
// levelStart[L] + 4*p .. levelStart[L] + 4*p + 3, row-major (TL,TR,BL,BR).
type Geometry struct {
	smax, lmax int
	levelStart []int32 // first id of each level
	levelOf    []uint8 // id -> level, flat table, built in O(total ids)
	parentOf   []int32 // id -> parent id, -1 for the root
}

// Build constructs the atlas geometry for the given root tile size and
// number of levels. Cost is O(total slot ids) == O((4^Lmax-1)/3), paid
// once; Build(...).LevelOf/ResolutionOf/ChildHeadOf/ParentOf are all O(1).
func Build(smax, lmax int) *Geometry {
	g := &Geometry{smax: smax, lmax: lmax}
	g.levelStart = make([]int32, lmax)
	total := int32(0)
	count := int32(1)
	for l := 0; l < lmax; l++ {
		g.levelStart[l] = total
		total += count
		count *= 4
	}
	g.levelOf = make([]uint8, total)
	g.parentOf = make([]int32, total)
	g.parentOf[0] = -1
	count = 1
	for l := 0; l < lmax; l++ {
		start := g.levelStart[l]
		for i := int32(0); i < count; i++ {
			g.levelOf[start+i] = uint8(l)
		}
		count *= 4
	}
	for l := 1; l < lmax; l++ {
		parentStart := g.levelStart[l-1]
		childStart := g.levelStart[l]
		parentCount := childCountAtLevel(l - 1)
		for p := int32(0); p < parentCount; p++ {
			first := childStart + 4*p
			for c := int32(0); c < 4; c++ {
				g.parentOf[first+c] = parentStart + p
			}
		}
	}
	return g
}

func childCountAtLevel(l int) int32 {
	n := int32(1)
	for i := 0; i < l; i++ {
		n *= 4
	}
	return n
}

// Smax returns the configured root tile resolution.
func (g *Geometry) Smax() int { return g.smax }

// Lmax returns the configured number of levels.
func (g *Geometry) Lmax() int { return g.lmax }

// Root returns the id of the single level-0 slot.
func (g *Geometry) Root() int32 { return 0 }

// LevelOf returns the level of a slot id, O(1).
func (g *Geometry) LevelOf(id int32) int { return int(g.levelOf[id]) }

// ResolutionOf returns (w,h) for level L: Smax / 2^L per side.
func (g *Geometry) ResolutionOf(level int) (w, h int) {
	r := g.smax >> uint(level)
	return r, r
}

// ParentOf returns the parent slot id of id, or -1 for the root.
func (g *Geometry) ParentOf(id int32) int32 { return g.parentOf[id] }

// ChildHeadOf returns the first of the four ordered child ids of id.
// Valid for any id whose level is < Lmax-1.
func (g *Geometry) ChildHeadOf(id int32) int32 {
	level := g.LevelOf(id)
	pos := id - g.levelStart[level]
	return g.levelStart[level+1] + 4*pos
}

// TotalSlots returns the total number of slot ids across all levels.
func (g *Geometry) TotalSlots() int32 { return int32(len(g.levelOf)) }

// FreeListHead returns the reserved anchor id for level L: the first id
// in that level's contiguous range. The slot allocator does not use it:
// alloc.NewAllocator seeds only the root and grows the lower levels'
// free lists by splits.
func (g *Geometry) FreeListHead(level int) int32 { return g.levelStart[level] }

