// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package scene is the small scene graph the viewer renders: one
// perspective camera and a list of boxes.
package scene

import (
	"image/color"

	"github.com/relabs-tech/hmdview/internal/config"
)

// Group holds the camera and the shapes of a scene.
type Group struct {
	Camera     *PerspectiveCamera
	Boxes      []*Box
	Background color.RGBA
}

// NewDemo builds the headset demo scene: a small box floating in front
// of the camera.
func NewDemo(cfg *config.Config) *Group {
	camera := NewPerspectiveCamera(cfg.CameraFOV, cfg.CameraNear, cfg.CameraFar)

	box := NewBox(cfg.BoxSize, cfg.BoxSize, cfg.BoxSize)
	box.Material = NewPhongMaterial(cfg.BoxColor)
	box.Translate[2] = cfg.BoxZ

	return &Group{
		Camera:     camera,
		Boxes:      []*Box{box},
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}
