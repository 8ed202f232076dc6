// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/gpucore"
)

// maxImages is the number of texture slots a shader may declare.
const maxImages = 8

// bindGroupKey identifies a bind group by everything it references.
type bindGroupKey struct {
	shader gpucore.ShaderID
	chunk  int
	offset uint64
	images [maxImages]gpucore.TextureID
}

func (k *bindGroupKey) references(id gpucore.TextureID) bool {
	for _, img := range k.images {
		if img == id {
			return true
		}
	}
	return false
}

// bindGroupCache keeps recently used bind groups alive across passes.
// Evicted groups may still be referenced by the pass being recorded, so
// they are retired and destroyed once no pass is open.
type bindGroupCache struct {
	device  hal.Device
	cache   *lru.Cache[bindGroupKey, hal.BindGroup]
	retired []hal.BindGroup
	hits    uint64
	misses  uint64
}

func newBindGroupCache(device hal.Device, size int) (*bindGroupCache, error) {
	c := &bindGroupCache{device: device}
	cache, err := lru.NewWithEvict(size, func(_ bindGroupKey, g hal.BindGroup) {
		c.retired = append(c.retired, g)
	})
	if err != nil {
		return nil, fmt.Errorf("native: bind group cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

func (c *bindGroupCache) get(key bindGroupKey) (hal.BindGroup, bool) {
	g, ok := c.cache.Get(key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return g, ok
}

func (c *bindGroupCache) add(key bindGroupKey, g hal.BindGroup) {
	c.cache.Add(key, g)
}

// removeTexture drops every group sampling the texture.
func (c *bindGroupCache) removeTexture(id gpucore.TextureID) {
	for _, k := range c.cache.Keys() {
		if k.references(id) {
			c.cache.Remove(k)
		}
	}
}

func (c *bindGroupCache) removeShader(id gpucore.ShaderID) {
	for _, k := range c.cache.Keys() {
		if k.shader == id {
			c.cache.Remove(k)
		}
	}
}

func (c *bindGroupCache) purge() {
	c.cache.Purge()
}

func (c *bindGroupCache) len() int {
	return c.cache.Len()
}

func (c *bindGroupCache) flushRetired() {
	for _, g := range c.retired {
		c.device.DestroyBindGroup(g)
	}
	c.retired = c.retired[:0]
}

// releaseRetired destroys retired bind groups unless a pass may still use
// them.
func (b *Backend) releaseRetired() {
	if b.pass == nil {
		b.groups.flushRetired()
	}
}
