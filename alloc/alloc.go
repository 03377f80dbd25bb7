// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package alloc maintains the shadow atlas's per-level free lists and
// assigns/releases slots for lights.
//
// Free lists are a flat array indexed by slot id where entry[s] is the
// next free slot at the same level, or a sentinel "none", with insertion
// and removal at the head. Only the root slot (level 0) starts in a free
// list; finer levels are populated lazily by splitting a coarser slot
// into its four children on demand, and symmetrically coalesced back
// into their parent when all four siblings are simultaneously free (see
// DESIGN.md, "slot allocator" entry, for the reasoning behind this
// choice).
package alloc

import (
	"github.com/shadowatlas/shadowatlas/atlas"
	"github.com/shadowatlas/shadowatlas/model"
)

const none = model.SlotID(-1)

// Allocator holds the free lists and the light->slot placement.
//
// Concurrency: Place is called once per frame, driving a
// single serialized pass over all lights; this type is not safe for
// concurrent use.
type Allocator struct {
	geo *atlas.Geometry

	head []model.SlotID // per level: current free-list head
	next []model.SlotID // per slot id: next free slot at the same level
	free []bool         // per slot id: currently in a free list

	placement model.Placement // light index -> slot id
}

// NewAllocator seeds the allocator with only the atlas root available;
// finer levels are grown by splitting as demand requires.
func NewAllocator(geo *atlas.Geometry) *Allocator {
	a := &Allocator{
		geo:  geo,
		head: make([]model.SlotID, geo.Lmax()),
		next: make([]model.SlotID, geo.TotalSlots()),
		free: make([]bool, geo.TotalSlots()),
	}
	for l := range a.head {
		a.head[l] = none
	}
	root := model.SlotID(geo.Root())
	a.next[root] = none
	a.head[0] = root
	a.free[root] = true
	return a
}

// Placement returns the current light->slot mapping. Lights never seen by
// Place are Unplaced.
func (a *Allocator) Placement() model.Placement { return a.placement }

func (a *Allocator) ensureCapacity(lights int) {
	if len(a.placement) >= lights {
		return
	}
	grown := make(model.Placement, lights)
	copy(grown, a.placement)
	for i := len(a.placement); i < lights; i++ {
		grown[i] = model.Unplaced
	}
	a.placement = grown
}

func (a *Allocator) push(level int, id model.SlotID) {
	a.next[id] = a.head[level]
	a.head[level] = id
	a.free[id] = true
}

func (a *Allocator) pop(level int) (model.SlotID, bool) {
	id := a.head[level]
	if id == none {
		return none, false
	}
	a.head[level] = a.next[id]
	a.free[id] = false
	return id, true
}

// remove deletes a specific id from level's free list, wherever it sits.
// Needed only by coalesce, which must evict all four siblings of a merged
// subtree; ordinary allocation only ever pushes/pops the head.
func (a *Allocator) remove(level int, id model.SlotID) {
	if a.head[level] == id {
		a.head[level] = a.next[id]
		a.free[id] = false
		return
	}
	for cur := a.head[level]; cur != none; cur = a.next[cur] {
		if a.next[cur] == id {
			a.next[cur] = a.next[id]
			a.free[id] = false
			return
		}
	}
}

// acquire returns a free slot at level, splitting a coarser slot into its
// four children as many times as necessary. Fails only if the entire
// subtree rooted at the atlas root is exhausted.
func (a *Allocator) acquire(level int) (model.SlotID, bool) {
	if id, ok := a.pop(level); ok {
		return id, true
	}
	if level == 0 {
		return none, false
	}
	parent, ok := a.acquire(level - 1)
	if !ok {
		return none, false
	}
	first := model.SlotID(a.geo.ChildHeadOf(int32(parent)))
	for c := int32(0); c < 4; c++ {
		a.push(level, first+model.SlotID(c))
	}
	return a.pop(level) // one of the four just pushed; always succeeds.
}

// release returns a leaf slot to its level's free list, coalescing it
// with its siblings back into the parent whenever all four become free.
func (a *Allocator) release(level int, id model.SlotID) {
	a.push(level, id)
	a.coalesce(level, id)
}

func (a *Allocator) coalesce(level int, id model.SlotID) {
	if level == 0 {
		return
	}
	parent := model.SlotID(a.geo.ParentOf(int32(id)))
	first := model.SlotID(a.geo.ChildHeadOf(int32(parent)))
	for c := int32(0); c < 4; c++ {
		if !a.free[first+model.SlotID(c)] {
			return // not all siblings free yet.
		}
	}
	for c := int32(0); c < 4; c++ {
		a.remove(level, first+model.SlotID(c))
	}
	a.push(level-1, parent)
	a.coalesce(level-1, parent)
}

// Place runs one allocation dispatch for the given per-light desired
// levels (model.NoLevel for lights the projector could not place). It
// returns the updated placement and the indices of lights whose slot id
// changed this frame; a light going from placed to Unplaced is not a
// level change.
//
// Tie-breaks and ordering: lights are processed by ascending index.
func (a *Allocator) Place(desired []int) (placement model.Placement, changed []int) {
	a.ensureCapacity(len(desired))
	for i, d := range desired {
		prev := a.placement[i]
		if prev != model.Unplaced {
			prevLevel := a.geo.LevelOf(int32(prev))
			if d == prevLevel {
				continue // unchanged.
			}
			a.release(prevLevel, prev)
			a.placement[i] = model.Unplaced
		}
		if d == model.NoLevel {
			continue
		}
		if slot, ok := a.acquire(d); ok {
			a.placement[i] = slot
			changed = append(changed, i)
		}
		// else: no free slot even at the coarsest level; stays Unplaced,
		// a normal outcome under atlas pressure, not a level change.
	}
	return a.placement.Clone(), changed
}
