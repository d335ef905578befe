// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package window

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/scene"
)

func solid(r image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestWindow_Layout(t *testing.T) {
	w := New("test", 1920, 1080)

	assert.Equal(t, image.Rect(0, 0, 960, 1080), w.LiveBounds())
	assert.Equal(t, image.Rect(0, 0, 960, 540), w.PaneBounds())
	assert.Equal(t, w.LiveBounds(), w.Live().Bounds())
	assert.Equal(t, w.LiveBounds(), w.Snapshot().Bounds())

	pose, _ := w.Pose()
	assert.Equal(t, hmd.IdentityPose(), pose)
}

func TestWindow_Compose(t *testing.T) {
	w := New("test", 40, 20)
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	w.SetLive(solid(w.LiveBounds(), red))
	w.SetSnapshot(solid(w.LiveBounds(), blue), hmd.IdentityPose(), scene.State{})

	img := w.Compose(white)
	require.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())
	assert.Equal(t, red, img.RGBAAt(5, 15))
	// 20x20 snapshot scaled to 10x10 in the middle of the 20x10 pane
	assert.Equal(t, blue, img.RGBAAt(30, 5))
	assert.Equal(t, white, img.RGBAAt(22, 5))
	assert.Equal(t, white, img.RGBAAt(30, 15))
}

func TestWindow_SetSnapshotNotifies(t *testing.T) {
	w := New("test", 8, 8)
	frames, cancel := w.Subscribe()
	defer cancel()

	pose := hmd.Posef{Orientation: mgl64.QuatIdent(), Position: mgl64.Vec3{1, 2, 3}}
	f := w.SetSnapshot(solid(w.LiveBounds(), color.RGBA{A: 0xff}), pose, scene.State{Rotate: 12})

	got := <-frames
	assert.Equal(t, uint64(1), got.Seq)
	assert.Equal(t, f.Seq, got.Seq)
	assert.Equal(t, pose, got.Pose)
	assert.Equal(t, 12.0, got.Camera.Rotate)

	p, cam := w.Pose()
	assert.Equal(t, pose, p)
	assert.Equal(t, 12.0, cam.Rotate)
}

func TestWindow_SlowSubscriberSeesNewest(t *testing.T) {
	w := New("test", 8, 8)
	frames, cancel := w.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		w.SetSnapshot(w.Snapshot(), hmd.IdentityPose(), scene.State{})
	}

	got := <-frames
	assert.Equal(t, uint64(5), got.Seq)
	select {
	case f := <-frames:
		t.Fatalf("unexpected extra frame %d", f.Seq)
	default:
	}
}

func TestWindow_CancelStopsDelivery(t *testing.T) {
	w := New("test", 8, 8)
	frames, cancel := w.Subscribe()
	cancel()
	cancel()

	w.SetSnapshot(w.Snapshot(), hmd.IdentityPose(), scene.State{})
	select {
	case <-frames:
		t.Fatal("frame delivered after cancel")
	default:
	}
}

func TestWindow_RequestClose(t *testing.T) {
	w := New("test", 8, 8)
	select {
	case <-w.CloseRequested():
		t.Fatal("closed before request")
	default:
	}

	w.RequestClose()
	w.RequestClose()
	<-w.CloseRequested()
}
