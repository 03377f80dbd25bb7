// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package shadowatlas

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shadowatlas/shadowatlas/compress"
	"github.com/shadowatlas/shadowatlas/produce"
	"github.com/shadowatlas/shadowatlas/project"
)

// config.go reduces the Coordinator constructor's API footprint using
// functional options. See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis

// Config holds the atlas geometry, projection quality, and compression
// tunables a Coordinator runs with. Zero value is not useful; build one
// with DefaultConfig and Attr overrides, or load one from YAML.
type Config struct {
	Smax        int     `yaml:"smax"`
	Lmax        int     `yaml:"lmax"`
	Quality     float64 `yaml:"quality"`
	TileSize    int     `yaml:"tile_size"`
	Tau         float64 `yaml:"tau"`
	HashEntries int     `yaml:"hash_entries"`
	RingDepth   int     `yaml:"ring_depth"`
	Bias        produce.Bias `yaml:"bias"`
}

// configDefaults provides reasonable defaults so a Coordinator runs even
// if no configuration attributes are set.
var configDefaults = Config{
	Smax:        2048,
	Lmax:        7,
	Quality:     project.DefaultQuality,
	TileSize:    compress.DefaultTileSize,
	Tau:         compress.DefaultTau,
	HashEntries: compress.DefaultHashCapacity,
	RingDepth:   3,
	Bias:        produce.DefaultBias,
}

// DefaultConfig returns configDefaults with any Attr overrides applied.
func DefaultConfig(attrs ...Attr) Config {
	c := configDefaults
	for _, a := range attrs {
		a(&c)
	}
	return c
}

// Attr defines optional configuration attributes for DefaultConfig.
//
//	cfg := shadowatlas.DefaultConfig(
//	   shadowatlas.Geometry(8192, 8),
//	   shadowatlas.CompressionTau(0.01),
//	)
type Attr func(*Config)

// Geometry sets the atlas' root resolution and level count.
func Geometry(smax, lmax int) Attr {
	return func(c *Config) {
		if smax > 0 {
			c.Smax = smax
		}
		if lmax > 0 {
			c.Lmax = lmax
		}
	}
}

// ProjectionQuality sets the level-selection quality constant.
func ProjectionQuality(k float64) Attr {
	return func(c *Config) { c.Quality = k }
}

// CompressionTau sets the tile builder's max-absolute-error threshold.
func CompressionTau(tau float64) Attr {
	return func(c *Config) { c.Tau = tau }
}

// TileSize sets the tile builder's tile width/height.
func TileSize(n int) Attr {
	return func(c *Config) { c.TileSize = n }
}

// HashEntries sets the per-light dedup table's entry capacity.
func HashEntries(n int) Attr {
	return func(c *Config) { c.HashEntries = n }
}

// RingDepth sets the number of in-flight frame records the Coordinator
// pipelines.
func RingDepth(n int) Attr {
	return func(c *Config) {
		if n > 0 {
			c.RingDepth = n
		}
	}
}

// ShadowBias sets the depth-bias parameters the producer applies.
func ShadowBias(b produce.Bias) Attr {
	return func(c *Config) { c.Bias = b }
}

// LoadConfig reads a YAML-encoded Config from path, starting from
// configDefaults so a partial file only overrides what it names.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("shadowatlas: read config %s: %w", path, err)
	}
	c := configDefaults
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("shadowatlas: parse config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) compressConfig() compress.Config {
	return compress.Config{TileSize: c.TileSize, Tau: c.Tau, HashCapacity: c.HashEntries}
}
