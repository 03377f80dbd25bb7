// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package compress

import (
	"math"

	"github.com/shadowatlas/shadowatlas/model"
)

// DefaultHashCapacity is the table size used when a Builder is not given
// one explicitly. A whole frame's GPU-side table is sized for 4096x4096
// worth of tiles; per-light, per-tile builds in this package size the
// table much smaller by default since it is a per-dispatch scratch
// structure, not a fundamental constant.
const DefaultHashCapacity = 4096

// The sentinel convention below is preserved exactly as the reference
// implementation uses it, not the "natural" 0xFFFFFFFF/0 choice.
const (
	emptySlot    = uint32(0xFFFFFFFE) // entry never claimed.
	inFlightSlot = uint32(0xFFFFFFFF) // reserved, not used by this single-threaded CPU model.
)

// hashTable is the per-dispatch open-addressed codeword dedup table:
// linear probing over a key mixed from the codeword's type and params; a
// key match is confirmed by comparing the stored codeword itself.
type hashTable struct {
	capacity int
	keys     []uint64
	index    []uint32
	full     bool
}

func newHashTable(capacity int) *hashTable {
	h := &hashTable{
		capacity: capacity,
		keys:     make([]uint64, capacity),
		index:    make([]uint32, capacity),
	}
	for i := range h.index {
		h.index[i] = emptySlot
	}
	return h
}

// packKey mixes a codeword's type and param bits into a 64-bit hash key.
// Distinct codewords can share a key, so dedup also compares codewords.
func packKey(cw model.CodeWord) uint64 {
	key := uint64(cw.Type)
	for _, p := range cw.Params {
		bits := uint64(math.Float32bits(p))
		key = key*1099511628211 ^ bits // FNV-ish mix, deterministic across platforms.
	}
	return key
}

func hashKey(key uint64) uint64 {
	// splitmix64 finalizer: cheap, well-distributed avalanche.
	key ^= key >> 30
	key *= 0xbf58476d1ce4e5b9
	key ^= key >> 27
	key *= 0x94d049bb133111eb
	key ^= key >> 31
	return key
}

// dedup claims or reuses a codebook slot for cw. It returns the codebook
// index and true, or (0, false) if the table is exhausted — the "tile
// failed" condition that discards the containing frame.
func (h *hashTable) dedup(cw model.CodeWord, codebook *[]model.CodeWord) (uint32, bool) {
	key := packKey(cw)
	start := int(hashKey(key) % uint64(h.capacity))
	for probe := 0; probe < h.capacity; probe++ {
		slot := (start + probe) % h.capacity
		if h.index[slot] == emptySlot {
			idx := uint32(len(*codebook))
			*codebook = append(*codebook, cw)
			h.keys[slot] = key
			h.index[slot] = idx
			return idx, true
		}
		if h.keys[slot] == key && (*codebook)[h.index[slot]] == cw {
			return h.index[slot], true
		}
	}
	h.full = true
	return 0, false
}
