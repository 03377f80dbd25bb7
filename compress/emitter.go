// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package compress

import (
	"github.com/shadowatlas/shadowatlas/model"
)

// Counters are the sizes the caller needs before it can allocate the
// per-slot final buffers: a quadtree-node counter that excludes the
// per-tile root array (add TileCount for the full node buffer), and a
// codebook counter of the words left after pruning.
type Counters struct {
	QuadtreeNodes int
	CodebookWords int
	TileCount     int
}

// Emit compacts a light's per-tile templates into the final packed
// model.Tree: a BFS-ordered, contiguous-children node buffer with a
// pruned codebook referencing only the codewords actually used by a
// leaf — no orphans in the final tree. tiles[i]'s root becomes final
// node i, so slot i of the tree corresponds to tile i's coverage of the
// light's shadow map — the reconstruction sampler computes i directly
// from a UV, never walking a higher level to find it.
func Emit(tiles []TileResult, codebook []model.CodeWord) (model.Tree, Counters) {
	type ref struct {
		tile, local int32
	}

	out := make([]model.QuadNode, len(tiles))
	queue := make([]ref, len(tiles))
	for i := range tiles {
		queue[i] = ref{tile: int32(i), local: tiles[i].root}
	}

	for qi := 0; qi < len(queue); qi++ {
		r := queue[qi]
		tn := tiles[r.tile].nodes[r.local]
		if tn.leaf {
			out[qi] = model.QuadNode{Level: tn.level, Leaf: true, CodeIndex: tn.code}
			continue
		}
		firstChild := uint32(len(out))
		out[qi] = model.QuadNode{Level: tn.level, Leaf: false, FirstChild: firstChild}
		for _, c := range tn.children {
			out = append(out, model.QuadNode{})
			queue = append(queue, ref{tile: r.tile, local: c})
		}
	}

	finalCodebook, remap := compactCodebook(out, codebook)
	for i := range out {
		if out[i].Leaf {
			out[i].CodeIndex = remap[out[i].CodeIndex]
		}
	}

	return model.Tree{Nodes: out, Codebook: finalCodebook}, Counters{
		QuadtreeNodes: len(out) - len(tiles),
		CodebookWords: len(finalCodebook),
		TileCount:     len(tiles),
	}
}

// compactCodebook walks nodes in final order and keeps only codewords that
// a leaf actually references, remapping old index -> new index in first
// appearance order so the output is deterministic across frames.
func compactCodebook(nodes []model.QuadNode, codebook []model.CodeWord) ([]model.CodeWord, map[uint32]uint32) {
	remap := make(map[uint32]uint32)
	var final []model.CodeWord
	for _, n := range nodes {
		if !n.Leaf {
			continue
		}
		if _, seen := remap[n.CodeIndex]; seen {
			continue
		}
		remap[n.CodeIndex] = uint32(len(final))
		final = append(final, codebook[n.CodeIndex])
	}
	return final, remap
}
