// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/quad/gpucore"
)

// Backend implements gpucore.Backend on a wgpu HAL device.
//
// Each render pass is recorded into its own command encoder and submitted
// when the pass ends, so buffer updates made between passes are observed in
// order. CommitFrame closes any pass left open and advances the frame
// counter; presenting a surface is left to the owner of the surface.
//
// Resource maps are guarded by a RWMutex; command recording is expected
// from a single goroutine, the way a render loop drives it.
type Backend struct {
	device hal.Device
	queue  hal.Queue
	config Config
	logger atomic.Pointer[slog.Logger]

	// Set by NewOffscreen; Close destroys them.
	instance    hal.Instance
	ownedDevice bool

	mu            sync.RWMutex
	nextID        atomic.Uint64
	buffers       map[gpucore.BufferID]*buffer
	textures      map[gpucore.TextureID]*texture
	renderTargets map[gpucore.RenderTargetID]*renderTarget
	shaders       map[gpucore.ShaderID]*shader
	pipelines     map[gpucore.PipelineID]*pipeline

	samplers [2]hal.Sampler // indexed by gpucore.FilterMode

	screen   target
	surface  bool
	uniforms *uniformRing
	groups   *bindGroupCache

	pass   *passState
	frames uint64
	err    error
	closed bool
	start  time.Time
}

// New wraps an existing HAL device and queue. The caller keeps ownership of
// the device; Close releases only the resources created by the backend.
func New(device hal.Device, queue hal.Queue, cfg Config) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	b := &Backend{
		device:        device,
		queue:         queue,
		config:        cfg,
		buffers:       make(map[gpucore.BufferID]*buffer),
		textures:      make(map[gpucore.TextureID]*texture),
		renderTargets: make(map[gpucore.RenderTargetID]*renderTarget),
		shaders:       make(map[gpucore.ShaderID]*shader),
		pipelines:     make(map[gpucore.PipelineID]*pipeline),
		start:         time.Now(),
	}
	b.SetLogger(nil)
	b.uniforms = newUniformRing(device, queue, uint64(cfg.UniformChunkSize)) //nolint:gosec // validated positive
	groups, err := newBindGroupCache(device, cfg.BindGroupCacheSize)
	if err != nil {
		return nil, err
	}
	b.groups = groups

	if err := b.createSamplers(); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.screen.ensure(device, cfg.Width, cfg.Height, cfg.Format, "quad_screen"); err != nil {
		b.Close()
		return nil, fmt.Errorf("native: create default target: %w", err)
	}
	return b, nil
}

// halProvider is implemented by device providers that share their HAL
// device, such as a gogpu application.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewFromProvider creates a backend on a device shared by a provider. The
// provider must also expose HalDevice() and HalQueue() returning hal.Device
// and hal.Queue. The default target uses the provider's surface format
// unless cfg.Format is set, and renders to the view given to
// SetSurfaceTarget.
func NewFromProvider(provider gpucontext.DeviceProvider, cfg Config) (*Backend, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrUnsupportedProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrUnsupportedProvider)
	}
	if cfg.Format == gputypes.TextureFormatUndefined {
		cfg.Format = provider.SurfaceFormat()
	}
	return New(device, queue, cfg)
}

// NewOffscreen opens a standalone device and creates a backend rendering to
// an offscreen default target of cfg.Width x cfg.Height. Close releases the
// device.
func NewOffscreen(cfg Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	instance, err := createInstance(cfg.Device)
	if err != nil {
		return nil, err
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	b, err := New(openDev.Device, openDev.Queue, cfg)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	b.instance = instance
	b.ownedDevice = true
	return b, nil
}

func createInstance(device string) (hal.Instance, error) {
	if device == DeviceNoop {
		api := noop.API{}
		instance, err := api.CreateInstance(nil)
		if err != nil {
			return nil, fmt.Errorf("native: create noop instance: %w", err)
		}
		return instance, nil
	}
	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}
	return instance, nil
}

// SetLogger sets the logger used by the backend. Nil disables logging.
// It may be called from any goroutine.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.logger.Store(l.With("backend", "native"))
}

func (b *Backend) log() *slog.Logger { return b.logger.Load() }

// Device returns the HAL device.
func (b *Backend) Device() hal.Device { return b.device }

// Config returns the effective configuration.
func (b *Backend) Config() Config { return b.config }

// Frames returns the number of committed frames.
func (b *Backend) Frames() uint64 { return b.frames }

// Err returns the first error raised by a recording method since the last
// call to Err, and clears it. Recording methods cannot return errors, so
// failures are logged and kept here.
func (b *Backend) Err() error {
	err := b.err
	b.err = nil
	return err
}

func (b *Backend) fail(msg string, err error) {
	b.log().Error(msg, "err", err)
	if b.err == nil {
		b.err = fmt.Errorf("native: %s: %w", msg, err)
	}
}

// SetSurfaceTarget makes the default target render into a surface view.
// Call it once per frame with the acquired surface texture view. A nil view
// returns to the offscreen target.
func (b *Backend) SetSurfaceTarget(view hal.TextureView, width, height uint32) error {
	if view == nil {
		b.surface = false
		return b.screen.ensure(b.device, b.config.Width, b.config.Height, b.config.Format, "quad_screen")
	}
	if width == 0 || height == 0 {
		return ErrInvalidDimensions
	}
	b.surface = true
	return b.screen.attachSurface(b.device, view, width, height, b.config.Format)
}

// ScreenSize returns the size of the default target.
func (b *Backend) ScreenSize() (width, height uint32) {
	return b.screen.width, b.screen.height
}

// ElapsedTime returns the time since the backend was created.
func (b *Backend) ElapsedTime() time.Duration {
	return time.Since(b.start)
}

// Close ends any open pass and releases every resource created by the
// backend. A device opened by NewOffscreen is destroyed as well.
func (b *Backend) Close() {
	if b.closed {
		return
	}
	if b.pass != nil {
		b.EndRenderPass()
	}
	b.closed = true

	b.mu.Lock()
	pipelines := b.pipelines
	shaders := b.shaders
	renderTargets := b.renderTargets
	textures := b.textures
	buffers := b.buffers
	b.pipelines = map[gpucore.PipelineID]*pipeline{}
	b.shaders = map[gpucore.ShaderID]*shader{}
	b.renderTargets = map[gpucore.RenderTargetID]*renderTarget{}
	b.textures = map[gpucore.TextureID]*texture{}
	b.buffers = map[gpucore.BufferID]*buffer{}
	b.mu.Unlock()

	if b.groups != nil {
		b.groups.purge()
		b.groups.flushRetired()
	}
	for _, p := range pipelines {
		p.destroy(b.device)
	}
	for _, s := range shaders {
		s.destroy(b.device)
	}
	for _, rt := range renderTargets {
		rt.destroyDepth(b.device)
	}
	for _, t := range textures {
		t.destroy(b.device)
	}
	for _, buf := range buffers {
		b.device.DestroyBuffer(buf.buf)
	}
	for i, s := range b.samplers {
		if s != nil {
			b.device.DestroySampler(s)
			b.samplers[i] = nil
		}
	}
	if b.uniforms != nil {
		b.uniforms.destroy()
	}
	b.screen.destroy(b.device)

	if b.ownedDevice {
		b.device.Destroy()
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.log().Debug("backend closed", "frames", b.frames)
}

func (b *Backend) newID() uint64 {
	return b.nextID.Add(1)
}

func (b *Backend) createSamplers() error {
	labels := [...]string{gpucore.FilterLinear: "quad_sampler_linear", gpucore.FilterNearest: "quad_sampler_nearest"}
	for f, label := range labels {
		mode := filterMode(gpucore.FilterMode(f)) //nolint:gosec // two entries
		s, err := b.device.CreateSampler(&hal.SamplerDescriptor{
			Label:        label,
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    mode,
			MinFilter:    mode,
			MipmapFilter: mode,
		})
		if err != nil {
			return fmt.Errorf("native: create sampler: %w", err)
		}
		b.samplers[f] = s
	}
	return nil
}

// errNoPass is recorded when a pass command arrives outside a pass.
var errNoPass = errors.New("no render pass in progress")
