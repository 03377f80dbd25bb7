// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package model

// SlotID identifies an atlas slot. Slot ids are dense integers assigned
// by the atlas geometry table; see the atlas package.
type SlotID int32

// Unplaced is the sentinel slot id meaning "no shadow this frame".
const Unplaced SlotID = -1

// NoLevel is the sentinel desired-level meaning the projector could not
// place the light (behind camera, or sub-pixel projected radius).
const NoLevel int = -1

// Placement maps a light index to its current slot id, or Unplaced.
type Placement []SlotID

// Clone returns an independent copy, the shape the frame ring snapshots
// into each ring record.
func (p Placement) Clone() Placement {
	c := make(Placement, len(p))
	copy(c, p)
	return c
}
