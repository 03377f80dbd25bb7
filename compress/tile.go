// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package compress builds, per light, a quadtree of planar/depth codewords
// from a rasterized depth texture: the tile-based bottom-up template build
// with codeword deduplication, plus a final compaction into packed
// per-slot buffers sized by counters.
package compress

import (
	"github.com/shadowatlas/shadowatlas/model"
)

// DefaultTileSize is the default tile width/height in texels.
const DefaultTileSize = 32

// DefaultTau is the default max-absolute-error threshold for a leaf fit.
const DefaultTau = 0.005

// Config bundles the builder's tunables; these are configuration inputs
// with named defaults, not fundamental constants.
type Config struct {
	TileSize     int
	Tau          float64
	HashCapacity int
}

// DefaultConfig returns the package's named defaults.
func DefaultConfig() Config {
	return Config{TileSize: DefaultTileSize, Tau: DefaultTau, HashCapacity: DefaultHashCapacity}
}

// templateNode is the builder's scratch representation: unlike the final
// model.QuadNode, children are explicit (not assumed contiguous) since
// the bottom-up build order does not guarantee it. Emit relinearizes
// these into the contiguous-children final layout.
type templateNode struct {
	level    uint8
	leaf     bool
	code     uint32
	children [4]int32 // valid when !leaf; indices into the owning tile's nodes slice.
}

// TileResult is one 32x32 (or Config.TileSize) tile's template output plus
// its per-level node counts. Emit lays out the final tree by walking the
// nodes breadth-first and does not read LevelCounts.
type TileResult struct {
	nodes       []templateNode
	root        int32
	LevelCounts []int
}

// Builder runs the per-tile bottom-up quadtree construction for one light.
// A Builder is not safe for concurrent use: its hash table and codebook
// are scoped to a single light's dispatch and are cleared between lights.
type Builder struct {
	cfg   Config
	table *hashTable
}

// NewBuilder creates a Builder for one light's dispatch.
func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg, table: newHashTable(cfg.HashCapacity)}
}

// BuildLight tiles depth into Config.TileSize squares and builds each
// bottom-up, sharing one codebook and hash table across all tiles for this
// light — the table is cleared per light, not per tile. It returns false
// if any tile's codeword table overflows, which discards the whole frame.
func (b *Builder) BuildLight(depth DepthMap) (tiles []TileResult, codebook []model.CodeWord, ok bool) {
	b.table = newHashTable(b.cfg.HashCapacity)
	tileSize := b.cfg.TileSize
	tilesPerSide := depth.N / tileSize
	tiles = make([]TileResult, 0, tilesPerSide*tilesPerSide)

	for ty := 0; ty < tilesPerSide; ty++ {
		for tx := 0; tx < tilesPerSide; tx++ {
			tr, ok := b.buildTile(depth, tx*tileSize, ty*tileSize, &codebook)
			if !ok {
				return nil, nil, false
			}
			tiles = append(tiles, tr)
		}
	}
	return tiles, codebook, true
}

func (b *Builder) buildTile(depth DepthMap, x0, y0 int, codebook *[]model.CodeWord) (TileResult, bool) {
	maxLocal := log2(b.cfg.TileSize) - 1 // finest level operates on 2x2 blocks.
	var nodes []templateNode
	levelCounts := make([]int, maxLocal+1)
	tau := b.cfg.Tau

	var build func(level, x, y int) (int32, bool)
	build = func(level, x, y int) (int32, bool) {
		size := b.cfg.TileSize >> uint(level)

		if level == maxLocal {
			tl, tr, bl, br := depth.corners(x, y, size)
			cw := fitLeaf2x2(tl, tr, bl, br, tau)
			code, ok := b.table.dedup(cw, codebook)
			if !ok {
				return 0, false
			}
			nodes = append(nodes, templateNode{level: uint8(level), leaf: true, code: code})
			levelCounts[level]++
			return int32(len(nodes) - 1), true
		}

		half := size / 2
		offsets := [4][2]int{{0, 0}, {half, 0}, {0, half}, {half, half}} // TL,TR,BL,BR
		var childIdx [4]int32
		allLeaf := true
		for i, off := range offsets {
			ci, ok := build(level+1, x+off[0], y+off[1])
			if !ok {
				return 0, false
			}
			childIdx[i] = ci
			if !nodes[ci].leaf {
				allLeaf = false
			}
		}

		if allLeaf && sameCodeType(nodes, childIdx, *codebook) {
			tl, tr, bl, br := depth.corners(x, y, size)
			if cw, fits := fitRegion(tl, tr, bl, br, tau); fits {
				code, ok := b.table.dedup(cw, codebook)
				if !ok {
					return 0, false
				}
				nodes = append(nodes, templateNode{level: uint8(level), leaf: true, code: code})
				levelCounts[level]++
				return int32(len(nodes) - 1), true
			}
		}

		nodes = append(nodes, templateNode{level: uint8(level), leaf: false, children: childIdx})
		levelCounts[level]++
		return int32(len(nodes) - 1), true
	}

	root, ok := build(0, x0, y0)
	if !ok {
		return TileResult{}, false
	}
	return TileResult{nodes: nodes, root: root, LevelCounts: levelCounts}, true
}

func sameCodeType(nodes []templateNode, childIdx [4]int32, codebook []model.CodeWord) bool {
	first := codebook[nodes[childIdx[0]].code].Type
	for _, ci := range childIdx[1:] {
		if codebook[nodes[ci].code].Type != first {
			return false
		}
	}
	return true
}

// log2 returns floor(log2(n)) for positive powers of two.
func log2(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}
