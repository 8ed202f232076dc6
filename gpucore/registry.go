// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned by NewBackend for names nobody registered.
var ErrUnknownBackend = errors.New("gpucore: unknown backend")

// BackendFactory creates a backend whose default target is width x height.
type BackendFactory func(width, height uint32) (Backend, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]BackendFactory)
)

// Register makes a backend available by name. It is typically called from
// init() in the backend package, following the database/sql driver
// pattern:
//
//	func init() {
//	    gpucore.Register("recording", func(w, h uint32) (gpucore.Backend, error) {
//	        return NewBackend(w, h), nil
//	    })
//	}
//
// Register panics if factory is nil or the name is taken.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("gpucore: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("gpucore: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a backend from the registry. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// NewBackend creates a backend by name.
//
// Example:
//
//	import _ "github.com/gogpu/quad/backend/native" // registers noop and vulkan
//
//	b, err := gpucore.NewBackend("noop", 800, 600)
func NewBackend(name string, width, height uint32) (Backend, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownBackend, name)
	}
	return factory(width, height)
}

// Backends returns the registered names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a backend with the given name exists.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}
