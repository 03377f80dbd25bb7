// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package model

// CompressionType tags the three leaf models the tile builder may choose.
// Storage and evaluation dispatch on this tag; there is no interface or
// runtime-polymorphic base type (see DESIGN.md, reconstruct package).
type CompressionType uint8

const (
	CompressConstant   CompressionType = iota // single mean depth
	CompressFourCorner                        // four quantized corner samples
	CompressPlane                             // nx·u + ny·v + nz·w + d = 0
)

func (t CompressionType) String() string {
	switch t {
	case CompressConstant:
		return "constant"
	case CompressFourCorner:
		return "four-corner"
	case CompressPlane:
		return "plane"
	default:
		return "unknown"
	}
}

// CodeWord is one deduplicated entry in a light's codebook: a compression
// type plus its (quantized) parameters.
type CodeWord struct {
	Type   CompressionType
	Params [4]float32
}

// QuadNode is one node of a template or final quadtree. Leaves carry a
// codebook index; interior nodes carry the index of their first child
// (children are contiguous and row-major ordered: TL, TR, BL, BR).
type QuadNode struct {
	Level      uint8
	Leaf       bool
	CodeIndex  uint32 // valid when Leaf.
	FirstChild uint32 // valid when !Leaf.
}

// Tree is a packed quadtree buffer plus its codebook, the shape both the
// per-tile template output and the final compacted buffers share.
type Tree struct {
	Nodes    []QuadNode
	Codebook []CodeWord
}
