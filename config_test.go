// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package shadowatlas

import "testing"

func TestDefaultConfigAppliesAttrs(t *testing.T) {
	cfg := DefaultConfig(Geometry(8192, 6), CompressionTau(0.02), RingDepth(4))
	if cfg.Smax != 8192 || cfg.Lmax != 6 {
		t.Errorf("Geometry attr not applied: got Smax=%d Lmax=%d", cfg.Smax, cfg.Lmax)
	}
	if cfg.Tau != 0.02 {
		t.Errorf("CompressionTau attr not applied: got %v", cfg.Tau)
	}
	if cfg.RingDepth != 4 {
		t.Errorf("RingDepth attr not applied: got %d", cfg.RingDepth)
	}
	// Untouched fields keep their defaults.
	if cfg.TileSize != configDefaults.TileSize {
		t.Errorf("TileSize changed unexpectedly: got %d, want default %d", cfg.TileSize, configDefaults.TileSize)
	}
}

func TestRingDepthIgnoresNonPositive(t *testing.T) {
	cfg := DefaultConfig(RingDepth(0))
	if cfg.RingDepth != configDefaults.RingDepth {
		t.Errorf("RingDepth(0) changed the default, got %d", cfg.RingDepth)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	cfg, err := LoadConfig("testdata/quality-presets.yaml")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Smax != 8192 {
		t.Errorf("Smax = %d, want 8192", cfg.Smax)
	}
	if cfg.Lmax != 8 {
		t.Errorf("Lmax = %d, want 8", cfg.Lmax)
	}
	if cfg.Bias.SlopeScaled != 6.0 {
		t.Errorf("Bias.SlopeScaled = %v, want 6.0", cfg.Bias.SlopeScaled)
	}
	if cfg.RingDepth != 3 {
		t.Errorf("RingDepth = %d, want 3", cfg.RingDepth)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("testdata/does-not-exist.yaml"); err == nil {
		t.Fatal("LoadConfig succeeded reading a missing file")
	}
}
