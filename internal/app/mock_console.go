// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/hmdview/internal/config"
	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/scene"
)

// RunMockConsole prints the eye pose of a debug headset and the camera
// placement derived from it, every interval, until ctx is done.
func RunMockConsole(ctx context.Context, cfg *config.Config, out io.Writer, interval time.Duration) error {
	typ, err := hmd.ParseType(cfg.HMDDebugType)
	if err != nil {
		return err
	}
	dev, err := hmd.NewDebugDevice(typ, time.Now)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	if err := dev.ConfigureTracking(hmd.TrackingCapOrientation|hmd.TrackingCapPosition, 0); err != nil {
		return err
	}

	cam := scene.NewPerspectiveCamera(cfg.CameraFOV, cfg.CameraNear, cfg.CameraFar)
	eye := hmd.Eye(cfg.HMDEye)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		pose, err := dev.EyePose(eye)
		if err != nil {
			return err
		}
		cam.ApplyEyePose(pose)

		fmt.Fprintf(out, "%s  ROT=%6.2f AXIS=(%6.3f %6.3f %6.3f)\n",
			formatPose(pose), cam.Rotate,
			cam.RotationAxis[0], cam.RotationAxis[1], cam.RotationAxis[2])
	}
}
