// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scene

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/hmdview/internal/config"
)

func TestNewDemo(t *testing.T) {
	g := NewDemo(config.Defaults())

	require.NotNil(t, g.Camera)
	assert.Equal(t, 45.0, g.Camera.FieldOfView)
	assert.Equal(t, 0.0, g.Camera.NearClip)
	assert.Equal(t, 100.0, g.Camera.FarClip)

	require.Len(t, g.Boxes, 1)
	box := g.Boxes[0]
	assert.Equal(t, 0.1, box.Width)
	assert.Equal(t, 0.1, box.Height)
	assert.Equal(t, 0.1, box.Depth)
	assert.Equal(t, mgl64.Vec3{0, 0, 0.5}, box.Translate)
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, box.Material.DiffuseColor)
}

func TestBoxTriangles(t *testing.T) {
	box := NewBox(2, 4, 6)
	box.Translate = mgl64.Vec3{1, 1, 1}

	tris := box.Triangles()
	require.Len(t, tris, 12)

	for i, tri := range tris {
		// winding agrees with the outward normal
		n := tri.V[1].Sub(tri.V[0]).Cross(tri.V[2].Sub(tri.V[0])).Normalize()
		assert.InDeltaSlice(t, tri.Normal[:], n[:], 1e-12, "triangle %d winding", i)

		// every vertex lies on the face plane
		center := box.Translate
		half := mgl64.Vec3{1, 2, 3}
		for _, v := range tri.V {
			d := v.Sub(center)
			onFace := d.Dot(tri.Normal)
			assert.InDelta(t, halfExtentAlong(half, tri.Normal), onFace, 1e-12)
		}
	}
}

func halfExtentAlong(a, b mgl64.Vec3) float64 {
	d := 0.0
	for i := range a {
		d += a[i] * b[i] * b[i]
	}
	return d
}
