// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package model

import "github.com/shadowatlas/shadowatlas/math/lin"

// View carries the camera state the light projector needs: the view
// transform, the projection's vertical focal length, the viewport size in
// pixels, and the near plane distance.
type View struct {
	ViewMatrix *lin.M4 // world to view space.
	FocalY     float64 // projection[1][1], ie. cot(fovY/2).
	ViewportW  int
	ViewportH  int
	Near       float64
}
