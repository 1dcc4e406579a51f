// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/render.go
// Summary: Resolves the render section of a config into pipeline settings.

package config

import (
	"fmt"

	"github.com/framegrace/texelcast/raster"
)

// RenderSettings resolves the "render" section into a pipeline config plus
// the target frame rate. Grid dimensions and terminal capabilities are
// runtime facts, so callers fill those in afterwards. Unknown names fail
// here rather than deep inside the render loop.
func RenderSettings(cfg Config) (raster.Config, int, error) {
	var rc raster.Config

	strategy, err := raster.ParseStrategy(cfg.GetString("render", "strategy", "auto"))
	if err != nil {
		return rc, 0, fmt.Errorf("failed to resolve render config: %w", err)
	}
	luminance, err := raster.ParseLuminanceModel(cfg.GetString("render", "luminance", "flat"))
	if err != nil {
		return rc, 0, fmt.Errorf("failed to resolve render config: %w", err)
	}
	kernel, err := raster.ParseScaleKernel(cfg.GetString("render", "kernel", "bilinear"))
	if err != nil {
		return rc, 0, fmt.Errorf("failed to resolve render config: %w", err)
	}

	rc.Strategy = strategy
	rc.Luminance = luminance
	rc.Kernel = kernel
	if palette := cfg.GetString("render", "palette", ""); palette != "" {
		rc.Palette = []rune(palette)
	}
	rc.PaletteReverse = cfg.GetBool("render", "palette_rev", false)
	rc.Tint = cfg.GetBool("render", "tint", false)
	rc.EdgeThreshold = cfg.GetFloat("render", "edge_threshold", raster.DefaultEdgeThreshold)
	rc.EightWay = cfg.GetBool("render", "eight_way", false)
	if fill := cfg.GetString("render", "fill_glyph", ""); fill != "" {
		rc.FillGlyph = []rune(fill)[0]
	}
	rc.SampleColor = cfg.GetBool("render", "sample_color", false)
	rc.SpaceBG = cfg.GetBool("render", "space_bg", false)
	rc.Workers = cfg.GetInt("render", "workers", 0)

	fps := cfg.GetInt("render", "fps", 30)
	if fps <= 0 || fps > 240 {
		return rc, 0, fmt.Errorf("failed to resolve render config: fps %d out of range", fps)
	}

	return rc, fps, nil
}
