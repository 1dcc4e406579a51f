// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scene/registry.go
// Summary: Registry of built-in frame sources, keyed by scene name.

package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/framegrace/texelcast/config"
	"github.com/framegrace/texelcast/raster"
)

// Source produces frames for the render pipeline. Implementations are not
// required to be safe for concurrent use; the session loop calls Frame from
// a single goroutine.
type Source interface {
	Frame(elapsed time.Duration) *raster.PixelBuffer
}

// Factory constructs a scene at the given pixel resolution, reading its
// parameters from the scene's config profile.
type Factory func(w, h int, profile config.Config) (Source, error)

var ErrUnknownScene = errors.New("scene: unknown scene")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register associates a scene name with a factory. It panics on duplicates.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic("scene: duplicate registration for " + name)
	}
	registry[name] = factory
}

// New builds the named scene at the given pixel resolution. The profile may
// be nil, in which case every parameter takes its default.
func New(name string, w, h int, profile config.Config) (Source, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, name)
	}
	return factory(w, h, profile)
}

// Names returns the registered scene names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
