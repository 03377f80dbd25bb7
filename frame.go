// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package shadowatlas

import (
	"github.com/shadowatlas/shadowatlas/gpu"
	"github.com/shadowatlas/shadowatlas/model"
	"github.com/shadowatlas/shadowatlas/produce"
)

// frameState tracks one ring slot's lifecycle: Free -> Recording ->
// Submitted -> Consumed -> Free, matching gazed/vu/render/vulkan.go's
// vulkanFrame/inFlightFence pattern generalized from a swapchain frame to
// a shadow-atlas compression frame.
type frameState uint8

const (
	frameFree frameState = iota
	frameRecording
	frameSubmitted
	frameConsumed
)

func (s frameState) String() string {
	switch s {
	case frameFree:
		return "free"
	case frameRecording:
		return "recording"
	case frameSubmitted:
		return "submitted"
	case frameConsumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// frame is one slot of the Coordinator's ring: the produce jobs submitted
// this frame, the fence that signals their GPU completion, and the
// placement snapshot they were planned against.
type frame struct {
	state     frameState
	fence     gpu.EventQuery
	jobs      []produce.Job
	placement model.Placement
}

func (f *frame) reset() {
	f.state = frameFree
	f.fence = nil
	f.jobs = nil
	f.placement = nil
}
