// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package project

import (
	"testing"

	"github.com/shadowatlas/shadowatlas/math/lin"
	"github.com/shadowatlas/shadowatlas/model"
)

func identityView() model.View {
	return model.View{
		ViewMatrix: lin.NewM4I(),
		FocalY:     1.0,
		ViewportW:  1920,
		ViewportH:  1080,
		Near:       0.1,
	}
}

func pointLight(distance, radius float64) *model.Light {
	return &model.Light{
		Index:    0,
		Kind:     model.Point,
		Position: lin.V3{X: 0, Y: 0, Z: distance},
		Range:    radius,
	}
}

func TestBehindCameraIsUnplaced(t *testing.T) {
	v := identityView()
	l := pointLight(-5, 1)
	if got := Desired(l, v, 2048, 7, DefaultQuality); got != model.NoLevel {
		t.Errorf("Desired() = %d, want NoLevel", got)
	}
}

func TestSubPixelIsUnplaced(t *testing.T) {
	v := identityView()
	l := pointLight(1_000_000, 0.01)
	if got := Desired(l, v, 2048, 7, DefaultQuality); got != model.NoLevel {
		t.Errorf("Desired() = %d, want NoLevel", got)
	}
}

func TestMonotonicWithDistance(t *testing.T) {
	v := identityView()
	near := Desired(pointLight(10, 5), v, 2048, 7, DefaultQuality)
	far := Desired(pointLight(40, 5), v, 2048, 7, DefaultQuality)
	if far < near {
		t.Errorf("level decreased as light receded: near=%d far=%d", near, far)
	}
}

func TestLevelClampedToLmax(t *testing.T) {
	v := identityView()
	l := pointLight(100000, 1000) // ~5px apparent radius -> level clamps at Lmax-1
	if got := Desired(l, v, 2048, 7, DefaultQuality); got < 0 || got >= 7 {
		t.Errorf("Desired() = %d, out of [0,7)", got)
	}
}
