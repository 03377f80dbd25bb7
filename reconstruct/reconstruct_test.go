// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package reconstruct

import (
	"testing"

	"github.com/shadowatlas/shadowatlas/model"
)

func singleTileTree(cw model.CodeWord) model.Tree {
	return model.Tree{
		Nodes:    []model.QuadNode{{Leaf: true, CodeIndex: 0}},
		Codebook: []model.CodeWord{cw},
	}
}

func TestSampleConstantIsUniform(t *testing.T) {
	tree := singleTileTree(model.CodeWord{Type: model.CompressConstant, Params: [4]float32{0.42}})
	s := Sampler{Tree: tree, TilesPerSide: 1}
	for _, uv := range [][2]float64{{0, 0}, {0.5, 0.5}, {0.99, 0.01}} {
		if got := s.Sample(uv[0], uv[1]); got != 0.42 {
			t.Errorf("Sample(%v) = %v, want 0.42", uv, got)
		}
	}
}

func TestSampleFourCornerInterpolatesCorners(t *testing.T) {
	cw := model.CodeWord{Type: model.CompressFourCorner, Params: [4]float32{0, 1, 2, 3}} // tl,tr,bl,br
	tree := singleTileTree(cw)
	s := Sampler{Tree: tree, TilesPerSide: 1}
	if got := s.Sample(0, 0); got != 0 {
		t.Errorf("Sample(0,0) = %v, want 0 (tl)", got)
	}
	if got := s.Sample(1, 0); got != 1 {
		t.Errorf("Sample(1,0) = %v, want 1 (tr)", got)
	}
	if got := s.Sample(0, 1); got != 2 {
		t.Errorf("Sample(0,1) = %v, want 2 (bl)", got)
	}
	if got := s.Sample(1, 1); got != 3 {
		t.Errorf("Sample(1,1) = %v, want 3 (br)", got)
	}
}

func TestSampleDescendsToCorrectQuadrant(t *testing.T) {
	// root has four children: TL=0.1, TR=0.2, BL=0.3, BR=0.4.
	tree := model.Tree{
		Nodes: []model.QuadNode{
			{Leaf: false, FirstChild: 1},
			{Leaf: true, CodeIndex: 0},
			{Leaf: true, CodeIndex: 1},
			{Leaf: true, CodeIndex: 2},
			{Leaf: true, CodeIndex: 3},
		},
		Codebook: []model.CodeWord{
			{Type: model.CompressConstant, Params: [4]float32{0.1}},
			{Type: model.CompressConstant, Params: [4]float32{0.2}},
			{Type: model.CompressConstant, Params: [4]float32{0.3}},
			{Type: model.CompressConstant, Params: [4]float32{0.4}},
		},
	}
	s := Sampler{Tree: tree, TilesPerSide: 1}
	cases := []struct {
		u, v float64
		want float64
	}{
		{0.1, 0.1, 0.1}, // TL
		{0.9, 0.1, 0.2}, // TR
		{0.1, 0.9, 0.3}, // BL
		{0.9, 0.9, 0.4}, // BR
	}
	for _, c := range cases {
		if got := s.Sample(c.u, c.v); got != c.want {
			t.Errorf("Sample(%v,%v) = %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestSampleRoutesToCorrectTile(t *testing.T) {
	tree := model.Tree{
		Nodes: []model.QuadNode{
			{Leaf: true, CodeIndex: 0},
			{Leaf: true, CodeIndex: 1},
		},
		Codebook: []model.CodeWord{
			{Type: model.CompressConstant, Params: [4]float32{0.25}},
			{Type: model.CompressConstant, Params: [4]float32{0.75}},
		},
	}
	s := Sampler{Tree: tree, TilesPerSide: 2}
	if got := s.Sample(0.1, 0.1); got != 0.25 {
		t.Errorf("Sample in tile 0 = %v, want 0.25", got)
	}
	if got := s.Sample(0.9, 0.1); got != 0.75 {
		t.Errorf("Sample in tile 1 = %v, want 0.75", got)
	}
}

func TestOccludedCompares(t *testing.T) {
	if !Occluded(0.2, 0.8) {
		t.Error("Occluded(0.2, 0.8) = false, want true (occluder farther-value than point)")
	}
	if Occluded(0.9, 0.8) {
		t.Error("Occluded(0.9, 0.8) = true, want false")
	}
}

func TestDenseRebuildSamplesEveryTexelOnce(t *testing.T) {
	tree := singleTileTree(model.CodeWord{Type: model.CompressConstant, Params: [4]float32{0.6}})
	s := Sampler{Tree: tree, TilesPerSide: 1}
	out := DenseRebuild(s, 8)
	if len(out) != 64 {
		t.Fatalf("len(out) = %d, want 64", len(out))
	}
	for i, v := range out {
		if v != 0.6 {
			t.Fatalf("out[%d] = %v, want 0.6", i, v)
		}
	}
}
