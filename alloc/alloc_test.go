// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package alloc

import (
	"testing"

	"github.com/shadowatlas/shadowatlas/atlas"
	"github.com/shadowatlas/shadowatlas/model"
)

func TestSingleLightGetsRootAtLevelZero(t *testing.T) {
	geo := atlas.Build(2048, 7)
	a := NewAllocator(geo)

	placement, changed := a.Place([]int{0})
	if len(changed) != 1 || changed[0] != 0 {
		t.Fatalf("changed = %v, want [0]", changed)
	}
	if placement[0] != model.SlotID(geo.Root()) {
		t.Fatalf("placement[0] = %d, want root %d", placement[0], geo.Root())
	}

	// Unchanged next frame: no further level change.
	placement2, changed2 := a.Place([]int{0})
	if len(changed2) != 0 {
		t.Fatalf("changed2 = %v, want none", changed2)
	}
	if placement2[0] != placement[0] {
		t.Fatalf("slot changed without a level change")
	}
}

func TestLightRecedesReleasesOldSlot(t *testing.T) {
	geo := atlas.Build(2048, 7)
	a := NewAllocator(geo)

	_, _ = a.Place([]int{2}) // first placement at level 2
	before := a.placement[0]
	if geo.LevelOf(int32(before)) != 2 {
		t.Fatalf("expected level 2, got %d", geo.LevelOf(int32(before)))
	}

	placement, changed := a.Place([]int{4}) // recede to level 4
	if len(changed) != 1 || changed[0] != 0 {
		t.Fatalf("changed = %v, want [0]", changed)
	}
	if geo.LevelOf(int32(placement[0])) != 4 {
		t.Fatalf("expected level 4, got %d", geo.LevelOf(int32(placement[0])))
	}
	// The released level-2 slot coalesces back up its free list, so the
	// level-4 request is carved from it again: the new slot descends from it.
	if geo.ParentOf(geo.ParentOf(int32(placement[0]))) != int32(before) {
		t.Errorf("old level-2 slot was not released back to its free list")
	}
}

func TestStarvationAtFinestLevel(t *testing.T) {
	lmax := 4
	geo := atlas.Build(1024, lmax)
	a := NewAllocator(geo)

	finest := lmax - 1
	capacity := 1
	for i := 0; i < finest; i++ {
		capacity *= 4
	}

	total := capacity + 10 // deliberately oversubscribe
	desired := make([]int, total)
	for i := range desired {
		desired[i] = finest
	}

	placement, _ := a.Place(desired)

	placed := 0
	seen := map[model.SlotID]bool{}
	for _, s := range placement {
		if s == model.Unplaced {
			continue
		}
		if seen[s] {
			t.Fatalf("slot %d double-allocated", s)
		}
		seen[s] = true
		placed++
	}
	if placed != capacity {
		t.Errorf("placed = %d, want exactly %d (4^(Lmax-1))", placed, capacity)
	}
}

func TestUnplacedDesireSkipsAllocation(t *testing.T) {
	geo := atlas.Build(2048, 7)
	a := NewAllocator(geo)

	placement, changed := a.Place([]int{model.NoLevel})
	if len(changed) != 0 {
		t.Fatalf("changed = %v, want none", changed)
	}
	if placement[0] != model.Unplaced {
		t.Fatalf("placement[0] = %d, want Unplaced", placement[0])
	}
}
