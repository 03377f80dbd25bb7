// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// atlasdump drives a synthetic light+view scenario through the shadow
// atlas pipeline and writes a grayscale PNG of what the compressed tree
// reconstructs for one light, for developer inspection.
//
// CONTROLS: NA
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/gops/agent"

	"github.com/shadowatlas/shadowatlas"
	"github.com/shadowatlas/shadowatlas/compress"
	"github.com/shadowatlas/shadowatlas/math/lin"
	"github.com/shadowatlas/shadowatlas/model"
	"github.com/shadowatlas/shadowatlas/produce"
	"github.com/shadowatlas/shadowatlas/reconstruct"
)

//go:embed presets.toml
var embeddedPresets []byte

type presetFile struct {
	Presets map[string]struct {
		Smax    int     `toml:"smax"`
		Lmax    int     `toml:"lmax"`
		Quality float64 `toml:"quality"`
		Tau     float64 `toml:"tau"`
	} `toml:"presets"`
}

func main() {
	preset := flag.String("preset", "default", "named preset from presets.toml")
	configPath := flag.String("config", "", "optional YAML config, overrides the preset")
	out := flag.String("out", "atlasdump.png", "output PNG path")
	gopsAgent := flag.Bool("gops", false, "serve a gops introspection agent")
	flag.Parse()

	if *gopsAgent {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Printf("atlasdump: gops agent.Listen failed: %v", err)
		}
	}

	cfg, err := resolveConfig(*preset, *configPath)
	if err != nil {
		log.Fatalf("atlasdump: %v", err)
	}
	if err := run(cfg, *out); err != nil {
		log.Fatalf("atlasdump: %v", err)
	}
	fmt.Printf("atlasdump: wrote %s\n", *out)
}

func resolveConfig(preset, configPath string) (shadowatlas.Config, error) {
	if configPath != "" {
		return shadowatlas.LoadConfig(configPath)
	}

	var pf presetFile
	if _, err := toml.Decode(string(embeddedPresets), &pf); err != nil {
		return shadowatlas.Config{}, fmt.Errorf("decode presets.toml: %w", err)
	}
	p, ok := pf.Presets[preset]
	if !ok {
		return shadowatlas.Config{}, fmt.Errorf("no preset named %q in presets.toml", preset)
	}
	return shadowatlas.DefaultConfig(
		shadowatlas.Geometry(p.Smax, p.Lmax),
		shadowatlas.ProjectionQuality(p.Quality),
		shadowatlas.CompressionTau(p.Tau),
	), nil
}

func run(cfg shadowatlas.Config, outPath string) error {
	c, err := shadowatlas.NewCoordinator(cfg, nullDevice{}, nullQueue{}, nullShaderFactory{}, coneDepthReader{}, nil)
	if err != nil {
		return fmt.Errorf("new coordinator: %w", err)
	}

	lights := []model.Light{
		{Index: 0, Kind: model.Spot, Position: lin.V3{X: 0, Y: 0, Z: float64(cfg.Smax) / 100}, Range: float64(cfg.Smax) / 20, ConeAngle: 0.6},
	}
	view := model.View{ViewMatrix: lin.NewM4I(), FocalY: 1.0, ViewportW: 1920, ViewportH: 1080, Near: 0.1}

	ctx := context.Background()
	if _, recorded, err := c.Submit(ctx, lights, view); err != nil {
		return fmt.Errorf("submit: %w", err)
	} else if !recorded {
		return fmt.Errorf("submit: new light produced an empty level-change set, nothing to dump")
	}
	if _, err := c.Poll(ctx); err != nil {
		return fmt.Errorf("poll: %w", err)
	}

	sampler, ok := c.Sampler(0)
	if !ok {
		return fmt.Errorf("light 0 produced no compressed tree (check cone angle, range, and view against the chosen preset)")
	}

	const resolution = 512
	dense := reconstruct.DenseRebuild(sampler, resolution)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()
	return reconstruct.WritePNG(f, dense, resolution, 1024)
}

// coneDepthReader synthesizes a shallow cone-shaped occluder so the
// diagnostic PNG shows a visible gradient instead of a flat field: depth
// falls off radially from the target's center.
type coneDepthReader struct{}

func (coneDepthReader) ReadDepth(j produce.Job) (compress.DepthMap, error) {
	n := j.Width
	d := make([]float32, n*n)
	center := float64(n-1) / 2
	maxDist := math.Hypot(center, center)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dist := math.Hypot(float64(x)-center, float64(y)-center)
			d[y*n+x] = float32(1 - dist/maxDist)
		}
	}
	return compress.DepthMap{N: n, Depth: d}, nil
}
