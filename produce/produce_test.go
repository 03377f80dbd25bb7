// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package produce

import (
	"testing"

	"github.com/shadowatlas/shadowatlas/atlas"
	"github.com/shadowatlas/shadowatlas/model"
)

func TestPlanSkipsPointLights(t *testing.T) {
	geo := atlas.Build(2048, 7)
	lights := []model.Light{
		{Index: 0, Kind: model.Point, Range: 10},
		{Index: 1, Kind: model.Spot, Range: 10, ConeAngle: 0.5},
	}
	placement := model.Placement{model.SlotID(geo.Root()), model.SlotID(geo.Root())}
	jobs := Plan(lights, placement, []int{0, 1}, geo, DefaultBias)
	if len(jobs) != 1 {
		t.Fatalf("len(jobs) = %d, want 1 (point light skipped)", len(jobs))
	}
	if jobs[0].LightIndex != 1 {
		t.Errorf("jobs[0].LightIndex = %d, want 1", jobs[0].LightIndex)
	}
}

func TestPlanSkipsUnplaced(t *testing.T) {
	geo := atlas.Build(2048, 7)
	lights := []model.Light{{Index: 0, Kind: model.Spot, Range: 10, ConeAngle: 0.5}}
	placement := model.Placement{model.Unplaced}
	jobs := Plan(lights, placement, []int{0}, geo, DefaultBias)
	if len(jobs) != 0 {
		t.Fatalf("len(jobs) = %d, want 0", len(jobs))
	}
}

func TestPlanResolvesJobResolutionFromSlotLevel(t *testing.T) {
	geo := atlas.Build(2048, 7)
	child := geo.ChildHeadOf(geo.Root())
	lights := []model.Light{{Index: 0, Kind: model.Spot, Range: 10, ConeAngle: 0.5}}
	placement := model.Placement{model.SlotID(child)}
	jobs := Plan(lights, placement, []int{0}, geo, DefaultBias)
	if len(jobs) != 1 {
		t.Fatalf("len(jobs) = %d, want 1", len(jobs))
	}
	wantW, wantH := geo.ResolutionOf(1)
	if jobs[0].Width != wantW || jobs[0].Height != wantH {
		t.Errorf("job resolution = (%d,%d), want (%d,%d)", jobs[0].Width, jobs[0].Height, wantW, wantH)
	}
}
