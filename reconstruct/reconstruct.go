// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package reconstruct descends a light's packed quadtree at a shadow-space
// UV to recover an approximate occluder depth, and compares it against a
// shaded point's light-space depth to decide occlusion.
package reconstruct

import (
	"github.com/shadowatlas/shadowatlas/model"
)

// Sampler reconstructs depth from one light's current tree. TilesPerSide
// is the tile grid used to build it: TileSize-wide tiles covering the
// slot's full resolution.
type Sampler struct {
	Tree         model.Tree
	TilesPerSide int
}

// Sample reconstructs the occluder depth at shadow-space uv in [0,1)^2.
func (s Sampler) Sample(u, v float64) float64 {
	tilesPerSide := s.TilesPerSide
	if tilesPerSide < 1 {
		tilesPerSide = 1
	}
	tu := u * float64(tilesPerSide)
	tv := v * float64(tilesPerSide)
	tx, ty := int(tu), int(tv)
	if tx >= tilesPerSide {
		tx = tilesPerSide - 1
	}
	if ty >= tilesPerSide {
		ty = tilesPerSide - 1
	}
	localU, localV := tu-float64(tx), tv-float64(ty)
	tileIdx := ty*tilesPerSide + tx
	return s.descend(s.Tree.Nodes[tileIdx], localU, localV)
}

// descend walks from node toward the leaf covering (u,v), halving the
// local uv range at each step. Child order is TL, TR, BL, BR — the same
// row-major order the tile builder emits (compress.Builder.buildTile).
func (s Sampler) descend(node model.QuadNode, u, v float64) float64 {
	for !node.Leaf {
		var quadrant uint32
		switch {
		case u < 0.5 && v < 0.5:
			quadrant = 0
			u, v = u*2, v*2
		case u >= 0.5 && v < 0.5:
			quadrant = 1
			u, v = (u-0.5)*2, v*2
		case u < 0.5 && v >= 0.5:
			quadrant = 2
			u, v = u*2, (v-0.5)*2
		default:
			quadrant = 3
			u, v = (u-0.5)*2, (v-0.5)*2
		}
		node = s.Tree.Nodes[node.FirstChild+quadrant]
	}
	return evalCodeword(s.Tree.Codebook[node.CodeIndex], u, v)
}

// evalCodeword evaluates a leaf's compression model at local uv in [0,1)^2.
func evalCodeword(cw model.CodeWord, u, v float64) float64 {
	switch cw.Type {
	case model.CompressConstant:
		return float64(cw.Params[0])
	case model.CompressFourCorner:
		tl, tr, bl, br := float64(cw.Params[0]), float64(cw.Params[1]), float64(cw.Params[2]), float64(cw.Params[3])
		top := tl + (tr-tl)*u
		bottom := bl + (br-bl)*u
		return top + (bottom-top)*v
	case model.CompressPlane:
		return float64(cw.Params[0])*u + float64(cw.Params[1])*v + float64(cw.Params[2])
	default:
		return 0
	}
}

// Occluded reports whether a shaded point at light-space depth refDepth
// is in shadow: it returns reconstructed < refDepth, treating a smaller
// depth value as nearer the light.
func Occluded(reconstructed, refDepth float64) bool {
	return reconstructed < refDepth
}
