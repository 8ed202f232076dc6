// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"errors"
	"math"
)

// DefaultCirclePoints is the number of rim vertices used by MeshBuilder for
// circles unless CirclePoints is called.
const DefaultCirclePoints = 20

// MinCirclePoints is the smallest number of rim vertices of a circle mesh.
const MinCirclePoints = 3

// ErrIncompleteMesh is returned by MeshBuilder.Build when the shape or the
// position is missing.
var ErrIncompleteMesh = errors.New("quad: mesh builder needs a shape and a position")

// Mesh is indexed triangle geometry ready for submission.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

// NewQuad creates an axis-aligned quad centered at pos.
//
// Vertices are ordered top-left, top-right, bottom-left, bottom-right
// (with +Y up) and the two triangles are (0, 1, 2) and (1, 2, 3).
func NewQuad(pos Vec3, size Vec2, c Color) *Mesh {
	hw, hh := size.X/2, size.Y/2
	return &Mesh{
		Vertices: []Vertex{
			{Position: Vec3{pos.X - hw, pos.Y + hh, pos.Z}, UV: Vec2{0, 0}, Color: c},
			{Position: Vec3{pos.X + hw, pos.Y + hh, pos.Z}, UV: Vec2{1, 0}, Color: c},
			{Position: Vec3{pos.X - hw, pos.Y - hh, pos.Z}, UV: Vec2{0, 1}, Color: c},
			{Position: Vec3{pos.X + hw, pos.Y - hh, pos.Z}, UV: Vec2{1, 1}, Color: c},
		},
		Indices: []uint16{0, 1, 2, 1, 2, 3},
	}
}

// NewCircle creates a filled circle of radius r centered at pos with the
// given number of rim vertices, triangulated as a fan around the first
// rim vertex. Fewer than MinCirclePoints points are raised to the minimum.
func NewCircle(pos Vec3, r float32, points int, c Color) *Mesh {
	points = max(points, MinCirclePoints)
	m := &Mesh{
		Vertices: make([]Vertex, 0, points),
		Indices:  make([]uint16, 0, (points-2)*3),
	}
	step := 2 * math.Pi / float64(points)
	for i := 0; i < points; i++ {
		s, co := math.Sincos(float64(i) * step)
		x, y := float32(co), float32(s)
		m.Vertices = append(m.Vertices, Vertex{
			Position: Vec3{pos.X + x*r, pos.Y + y*r, pos.Z},
			UV:       Vec2{x, y},
			Color:    c,
		})
		if i < points-2 {
			k := uint16(i) //nolint:gosec // vertex count of a submission fits uint16
			m.Indices = append(m.Indices, 0, k+1, k+2)
		}
	}
	return m
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]Vertex(nil), m.Vertices...),
		Indices:  append([]uint16(nil), m.Indices...),
	}
}

// ColorAs sets the color of every vertex and returns m.
func (m *Mesh) ColorAs(c Color) *Mesh {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
	return m
}

// TranslateBy offsets every vertex position and returns m.
func (m *Mesh) TranslateBy(d Vec3) *Mesh {
	if d == (Vec3{}) {
		return m
	}
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Add(d)
	}
	return m
}

// RotateBy rotates every vertex position around the origin and returns m.
func (m *Mesh) RotateBy(q Quat) *Mesh {
	for i := range m.Vertices {
		m.Vertices[i].Position = q.Rotate(m.Vertices[i].Position)
	}
	return m
}

// ScaleBy scales every vertex position component-wise and returns m.
func (m *Mesh) ScaleBy(s Vec3) *Mesh {
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Mul(s)
	}
	return m
}

// Transform applies a matrix to every vertex position and returns m.
func (m *Mesh) Transform(t Mat4) *Mesh {
	for i := range m.Vertices {
		m.Vertices[i].Position = t.TransformPoint(m.Vertices[i].Position)
	}
	return m
}

type meshShape uint8

const (
	shapeNone meshShape = iota
	shapeQuad
	shapeCircle
)

// MeshBuilder constructs quad and circle meshes step by step.
//
//	m, err := quad.NewMeshBuilder().
//	    Circle(16).
//	    CirclePoints(32).
//	    At(quad.Vec3{X: 100, Y: 100}).
//	    WithColor(quad.Red).
//	    Build()
type MeshBuilder struct {
	shape        meshShape
	size         Vec2
	radius       float32
	circlePoints int
	color        Color
	position     Vec3
	hasPosition  bool
}

// NewMeshBuilder returns a builder with DefaultCirclePoints and black color.
func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{circlePoints: DefaultCirclePoints, color: Black}
}

// Quad selects a quad of the given size.
func (b *MeshBuilder) Quad(size Vec2) *MeshBuilder {
	b.shape = shapeQuad
	b.size = size
	return b
}

// Circle selects a circle of the given radius.
func (b *MeshBuilder) Circle(radius float32) *MeshBuilder {
	b.shape = shapeCircle
	b.radius = radius
	return b
}

// CirclePoints sets the number of rim vertices used for circles.
func (b *MeshBuilder) CirclePoints(n int) *MeshBuilder {
	b.circlePoints = max(n, MinCirclePoints)
	return b
}

// At sets the center of the mesh.
func (b *MeshBuilder) At(pos Vec3) *MeshBuilder {
	b.position = pos
	b.hasPosition = true
	return b
}

// WithColor sets the vertex color.
func (b *MeshBuilder) WithColor(c Color) *MeshBuilder {
	b.color = c
	return b
}

// Build creates the mesh. The shape is consumed: a second Build without a
// new shape call returns ErrIncompleteMesh.
func (b *MeshBuilder) Build() (*Mesh, error) {
	if b.shape == shapeNone || !b.hasPosition {
		return nil, ErrIncompleteMesh
	}
	shape := b.shape
	b.shape = shapeNone
	if shape == shapeQuad {
		return NewQuad(b.position, b.size, b.color), nil
	}
	return NewCircle(b.position, b.radius, b.circlePoints, b.color), nil
}
