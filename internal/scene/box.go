// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// PhongMaterial is a diffuse color with an optional specular highlight.
// A zero SpecularColor disables the highlight.
type PhongMaterial struct {
	DiffuseColor  color.RGBA
	SpecularColor color.RGBA
	SpecularPower float64
}

// NewPhongMaterial returns a material with the given diffuse color.
func NewPhongMaterial(diffuse color.RGBA) PhongMaterial {
	return PhongMaterial{DiffuseColor: diffuse, SpecularPower: 32}
}

// Box is an axis aligned box centered on Translate.
type Box struct {
	Width, Height, Depth float64
	Translate            mgl64.Vec3
	Material             PhongMaterial
}

// NewBox returns a box of the given size at the origin, light gray like
// an unstyled box.
func NewBox(w, h, d float64) *Box {
	return &Box{
		Width: w, Height: h, Depth: d,
		Material: NewPhongMaterial(color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}),
	}
}

// Triangle is a scene-space triangle with its outward face normal.
type Triangle struct {
	V      [3]mgl64.Vec3
	Normal mgl64.Vec3
}

// boxFaces lists the corner indices of each face, counter-clockwise when
// seen from outside in a right-handed frame, with the face normal.
var boxFaces = []struct {
	idx    [4]int
	normal mgl64.Vec3
}{
	{[4]int{1, 3, 7, 5}, mgl64.Vec3{1, 0, 0}},
	{[4]int{0, 4, 6, 2}, mgl64.Vec3{-1, 0, 0}},
	{[4]int{2, 6, 7, 3}, mgl64.Vec3{0, 1, 0}},
	{[4]int{0, 1, 5, 4}, mgl64.Vec3{0, -1, 0}},
	{[4]int{4, 5, 7, 6}, mgl64.Vec3{0, 0, 1}},
	{[4]int{0, 2, 3, 1}, mgl64.Vec3{0, 0, -1}},
}

// Triangles returns the 12 triangles of the box surface in scene space.
func (b *Box) Triangles() []Triangle {
	hx, hy, hz := b.Width/2, b.Height/2, b.Depth/2
	var corners [8]mgl64.Vec3
	for i := range corners {
		x, y, z := -hx, -hy, -hz
		if i&1 != 0 {
			x = hx
		}
		if i&2 != 0 {
			y = hy
		}
		if i&4 != 0 {
			z = hz
		}
		corners[i] = b.Translate.Add(mgl64.Vec3{x, y, z})
	}

	tris := make([]Triangle, 0, 12)
	for _, f := range boxFaces {
		a, bb, c, d := corners[f.idx[0]], corners[f.idx[1]], corners[f.idx[2]], corners[f.idx[3]]
		tris = append(tris,
			Triangle{V: [3]mgl64.Vec3{a, bb, c}, Normal: f.normal},
			Triangle{V: [3]mgl64.Vec3{a, c, d}, Normal: f.normal},
		)
	}
	return tris
}
