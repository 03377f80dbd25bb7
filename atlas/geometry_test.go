// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package atlas

import "testing"

func TestResolutionOf(t *testing.T) {
	g := Build(2048, 7)
	cases := []struct {
		level int
		want  int
	}{
		{0, 2048},
		{1, 1024},
		{6, 32},
	}
	for _, c := range cases {
		w, h := g.ResolutionOf(c.level)
		if w != c.want || h != c.want {
			t.Errorf("ResolutionOf(%d) = (%d,%d), want (%d,%d)", c.level, w, h, c.want, c.want)
		}
	}
}

func TestChildrenAreFourAndAtNextLevel(t *testing.T) {
	g := Build(2048, 4)
	root := g.Root()
	head := g.ChildHeadOf(root)
	for i := int32(0); i < 4; i++ {
		child := head + i
		if g.LevelOf(child) != g.LevelOf(root)+1 {
			t.Errorf("child %d level = %d, want %d", child, g.LevelOf(child), g.LevelOf(root)+1)
		}
		if g.ParentOf(child) != root {
			t.Errorf("ParentOf(child %d) = %d, want root %d", child, g.ParentOf(child), root)
		}
	}
}

func TestLevelCountsAndTotal(t *testing.T) {
	lmax := 5
	g := Build(1024, lmax)
	total := int32(0)
	count := int32(1)
	for l := 0; l < lmax; l++ {
		if g.FreeListHead(l) != g.levelStart[l] {
			t.Fatalf("FreeListHead(%d) mismatch", l)
		}
		total += count
		count *= 4
	}
	if g.TotalSlots() != total {
		t.Errorf("TotalSlots() = %d, want %d", g.TotalSlots(), total)
	}
}

func TestParentOfRootIsSentinel(t *testing.T) {
	g := Build(2048, 3)
	if g.ParentOf(g.Root()) != -1 {
		t.Errorf("ParentOf(root) = %d, want -1", g.ParentOf(g.Root()))
	}
}
