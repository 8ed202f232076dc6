// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command quaddemo renders a few frames of batched quads, circles, lines
// and textured geometry and optionally writes the last frame as PNG.
//
// Usage:
//
//	quaddemo -backend noop -frames 5
//	quaddemo -backend vulkan -output frame.png
//	quaddemo -config demo.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/gogpu/quad"
	"github.com/gogpu/quad/backend/native"
	"github.com/gogpu/quad/gpucore"
)

func main() {
	cfg := defaultConfig()
	var (
		configPath = flag.String("config", "", "YAML configuration file overriding flags")
		backend    = flag.String("backend", cfg.Backend, "backend: "+strings.Join(gpucore.Backends(), ", "))
		width      = flag.Uint("width", uint(cfg.Width), "target width")
		height     = flag.Uint("height", uint(cfg.Height), "target height")
		frames     = flag.Int("frames", cfg.Frames, "number of frames to render")
		quads      = flag.Int("quads", cfg.Quads, "number of quads per frame")
		output     = flag.String("output", "", "write the last frame to this PNG file")
		logFile    = flag.String("log", "", "rotating JSON log file (stderr when empty)")
		level      = flag.String("level", cfg.Log.Level, "log level: debug, info, warn or error")
	)
	flag.Parse()

	cfg.Backend = *backend
	cfg.Width = uint32(*width)   //nolint:gosec // flag value
	cfg.Height = uint32(*height) //nolint:gosec // flag value
	cfg.Frames = *frames
	cfg.Quads = *quads
	cfg.Output = *output
	cfg.Log.File = *logFile
	cfg.Log.Level = *level
	if *configPath != "" {
		if err := loadConfigFile(*configPath, &cfg); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, closer, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer closer.Close()
	quad.SetLogger(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("quaddemo failed", "err", err)
		closer.Close()
		os.Exit(1)
	}
}

// offscreen is implemented by backends that can read back the default
// target.
type offscreen interface {
	ReadPixels() (*image.RGBA, error)
}

// newBackend creates the configured backend. Native devices take the
// tuning from the native section; other names go through the registry.
func newBackend(cfg config) (gpucore.Backend, func(), error) {
	if cfg.Backend != backendNoop && cfg.Backend != backendVulkan {
		b, err := gpucore.NewBackend(cfg.Backend, cfg.Width, cfg.Height)
		return b, func() {}, err
	}
	nc := cfg.Native
	nc.Width, nc.Height, nc.Device = cfg.Width, cfg.Height, cfg.Backend
	b, err := native.NewOffscreen(nc)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}

func run(cfg config, logger *slog.Logger) error {
	backend, release, err := newBackend(cfg)
	if err != nil {
		return fmt.Errorf("create %s backend: %w", cfg.Backend, err)
	}
	defer release()

	batcher, err := quad.New(backend, quad.WithConfig(cfg.Batcher))
	if err != nil {
		return err
	}
	defer batcher.Release()

	s, err := newScene(batcher, cfg)
	if err != nil {
		return err
	}
	for frame := range cfg.Frames {
		s.draw(frame)
		if err := backendErr(backend); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		logger.Info("frame rendered", "stats", batcher.Stats())
	}

	if cfg.Output == "" {
		return nil
	}
	rb, ok := backend.(offscreen)
	if !ok {
		return errors.New("backend cannot read back pixels")
	}
	img, err := rb.ReadPixels()
	if err != nil {
		return fmt.Errorf("read pixels: %w", err)
	}
	if err := writePNG(cfg.Output, img); err != nil {
		return err
	}
	logger.Info("frame saved", "path", cfg.Output, "width", cfg.Width, "height", cfg.Height)
	return nil
}

func backendErr(b gpucore.Backend) error {
	if e, ok := b.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// scene holds the resources shared by every frame.
type scene struct {
	batcher *quad.Batcher
	width   float32
	height  float32
	quads   int
	checker gpucore.TextureID
	rt      gpucore.RenderTargetID
	rtTex   gpucore.TextureID
}

func newScene(b *quad.Batcher, cfg config) (*scene, error) {
	checker, err := quad.NewTextureFromImage(b.Backend(), quad.ScaleImage(checkerImage(8, 8), 64, 64), gpucore.FilterNearest)
	if err != nil {
		return nil, err
	}
	rt, rtTex, err := b.NewRenderTarget(128, 128)
	if err != nil {
		return nil, err
	}
	return &scene{
		batcher: b,
		width:   float32(cfg.Width),
		height:  float32(cfg.Height),
		quads:   cfg.Quads,
		checker: checker,
		rt:      rt,
		rtTex:   rtTex,
	}, nil
}

func checkerImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.RGBA{R: 240, G: 240, B: 240, A: 255}
			if (x+y)%2 == 1 {
				c = color.RGBA{R: 40, G: 40, B: 60, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func (s *scene) draw(frame int) {
	b := s.batcher
	angle := float32(frame) * 0.1

	// Offscreen pass: a spinning square into the render target.
	rtCam := quad.Camera2DFromRect(0, 0, 128, 128)
	rtCam.RenderTarget = s.rt
	b.SetRenderTarget(s.rt)
	b.Clear(quad.Gray)
	b.PushModel(quad.Mat4Translate(64, 64, 0).Mul(quad.Mat4RotateZ(angle)))
	b.DrawMesh(quad.NewQuad(quad.Vec3{X: -32, Y: -32}, quad.Vec2{X: 64, Y: 64}, quad.Yellow))
	b.PopModel()
	b.Flush(rtCam.Matrix())
	b.SetRenderTarget(gpucore.InvalidID)

	b.Clear(quad.Black)
	s.drawGrid(angle)

	b.SetTexture(s.checker)
	b.DrawMesh(quad.NewQuad(quad.Vec3{X: 16, Y: 16}, quad.Vec2{X: 128, Y: 128}, quad.White))
	b.SetTexture(s.rtTex)
	b.DrawMesh(quad.NewQuad(quad.Vec3{X: 160, Y: 16}, quad.Vec2{X: 128, Y: 128}, quad.White))
	b.SetTexture(gpucore.InvalidID)

	b.SetClip(&quad.Rect{X: 0, Y: 0, W: int32(s.width / 2), H: int32(s.height)})
	for i := range 3 {
		r := 40 + float32(i)*20
		b.DrawMesh(quad.NewCircle(quad.Vec3{X: s.width / 2, Y: s.height / 2}, r, 32, quad.RGBA8(0, 121, 241, 96)))
	}
	b.SetClip(nil)

	s.drawAxes()
	b.Flush(quad.Camera2DFromRect(0, 0, s.width, s.height).Matrix())
}

// drawGrid lays out the requested number of small rotating quads.
func (s *scene) drawGrid(angle float32) {
	if s.quads <= 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(s.quads))))
	cell := s.width / float32(cols)
	size := cell * 0.6
	for i := range s.quads {
		x := (float32(i%cols) + 0.5) * cell
		y := (float32(i/cols) + 0.5) * cell
		c := quad.RGBA8(uint8(i*37), uint8(i*91), uint8(255-i*13), 255) //nolint:gosec // wrapping is the palette
		s.batcher.PushModel(quad.Mat4Translate(x, y, 0).Mul(quad.Mat4RotateZ(angle + float32(i)*0.05)))
		s.batcher.DrawMesh(quad.NewQuad(quad.Vec3{X: -size / 2, Y: -size / 2}, quad.Vec2{X: size, Y: size}, c))
		s.batcher.PopModel()
	}
}

func (s *scene) drawAxes() {
	b := s.batcher
	b.SetDrawMode(quad.DrawLines)
	cx, cy := s.width/2, s.height/2
	b.Submit([]quad.Vertex{
		quad.NewVertex(0, cy, 0, 0, 0, quad.Red),
		quad.NewVertex(s.width, cy, 0, 0, 0, quad.Red),
		quad.NewVertex(cx, 0, 0, 0, 0, quad.Green),
		quad.NewVertex(cx, s.height, 0, 0, 0, quad.Green),
	}, []uint16{0, 1, 2, 3})
	b.SetDrawMode(quad.DrawTriangles)
}
