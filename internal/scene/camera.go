// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/relabs-tech/hmdview/internal/hmd"
)

// Scene space is +X right, +Y down, +Z away from the viewer. The headset
// frame has +Y up and looks down -Z, hence the sign flips in ApplyEyePose.

// PerspectiveCamera is a fixed-eye camera: the eye sits at the camera's
// own origin and looks down its +Z axis. The camera is moved by its
// translate and by a rotation of Rotate degrees about RotationAxis.
type PerspectiveCamera struct {
	FieldOfView float64 // vertical, degrees
	NearClip    float64
	FarClip     float64

	Translate    mgl64.Vec3
	Rotate       float64 // degrees
	RotationAxis mgl64.Vec3
}

// NewPerspectiveCamera returns a camera at the origin rotating about +Z.
func NewPerspectiveCamera(fov, near, far float64) *PerspectiveCamera {
	return &PerspectiveCamera{
		FieldOfView:  fov,
		NearClip:     near,
		FarClip:      far,
		RotationAxis: mgl64.Vec3{0, 0, 1},
	}
}

// minAxisSin is the sin(angle/2) below which the rotation is treated as identity.
const minAxisSin = 1e-9

// ApplyEyePose moves the camera to a tracked eye pose:
//
//	translate = (px, -py, -pz)
//	angle     = 2·acos(w)
//	rotate    = angle in degrees
//	axis      = (x, -y, -z) / sin(angle/2)
//
// When sin(angle/2) vanishes the pose carries no rotation: Rotate becomes
// 0 and the previous axis is kept.
func (c *PerspectiveCamera) ApplyEyePose(p hmd.Posef) {
	q := p.Orientation
	w := math.Max(-1, math.Min(1, q.W))
	rad := 2 * math.Acos(w)

	c.Translate = mgl64.Vec3{p.Position[0], -p.Position[1], -p.Position[2]}

	s := math.Sin(rad / 2)
	if math.Abs(s) < minAxisSin {
		c.Rotate = 0
		return
	}
	c.Rotate = rad * 180 / math.Pi
	c.RotationAxis = mgl64.Vec3{q.V[0] / s, -q.V[1] / s, -q.V[2] / s}
}

// World returns the camera-to-scene transform: translate, then rotate.
func (c *PerspectiveCamera) World() mgl64.Mat4 {
	t := mgl64.Translate3D(c.Translate[0], c.Translate[1], c.Translate[2])
	if c.Rotate == 0 || c.RotationAxis.Len() == 0 {
		return t
	}
	r := mgl64.HomogRotate3D(mgl64.DegToRad(c.Rotate), c.RotationAxis.Normalize())
	return t.Mul4(r)
}

// View returns the scene-to-camera transform.
func (c *PerspectiveCamera) View() mgl64.Mat4 {
	return c.World().Inv()
}

// Eye returns the camera position in scene space.
func (c *PerspectiveCamera) Eye() mgl64.Vec3 {
	return c.Translate
}

// Forward returns the viewing direction in scene space.
func (c *PerspectiveCamera) Forward() mgl64.Vec3 {
	return c.World().Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Vec3()
}

// State is a serializable copy of the camera placement.
type State struct {
	Translate    [3]float64 `json:"translate"`
	Rotate       float64    `json:"rotate"`
	RotationAxis [3]float64 `json:"rotation_axis"`
}

// State returns the current placement.
func (c *PerspectiveCamera) State() State {
	return State{Translate: c.Translate, Rotate: c.Rotate, RotationAxis: c.RotationAxis}
}
