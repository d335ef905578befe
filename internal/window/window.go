// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package window holds what the viewer shows: a live view of the scene
// on the left half and, on the right, a pane with the last snapshot.
// Sinks (web, terminal, OLED) read from it and subscribe to changes.
package window

import (
	"image"
	"image/color"
	"sync"
	"time"

	"golang.org/x/image/draw"

	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/render"
	"github.com/relabs-tech/hmdview/internal/scene"
)

// Frame is one update of the window.
type Frame struct {
	Seq      uint64
	At       time.Time
	Pose     hmd.Posef
	Camera   scene.State
	Snapshot *image.RGBA
}

// Window is safe for concurrent use. Images handed to it must not be
// modified afterwards.
type Window struct {
	Title         string
	Width, Height int

	mu       sync.RWMutex
	live     *image.RGBA
	frame    Frame
	subs     map[int]chan Frame
	nextSub  int
	closeReq chan struct{}
	once     sync.Once
}

// New returns a window of the given size with empty views.
func New(title string, width, height int) *Window {
	return &Window{
		Title:    title,
		Width:    width,
		Height:   height,
		live:     image.NewRGBA(image.Rect(0, 0, width/2, height)),
		frame:    Frame{Pose: hmd.IdentityPose(), Snapshot: image.NewRGBA(image.Rect(0, 0, width/2, height))},
		subs:     make(map[int]chan Frame),
		closeReq: make(chan struct{}),
	}
}

// LiveBounds is the size of the live sub-scene: half the width, full height.
func (w *Window) LiveBounds() image.Rectangle {
	return image.Rect(0, 0, w.Width/2, w.Height)
}

// PaneBounds is the size of the snapshot pane: half width, half height.
// Snapshots are taken with the live view's viewport and scaled into it.
func (w *Window) PaneBounds() image.Rectangle {
	return image.Rect(0, 0, w.Width/2, w.Height/2)
}

// SetLive replaces the live view.
func (w *Window) SetLive(img *image.RGBA) {
	w.mu.Lock()
	w.live = img
	w.mu.Unlock()
}

// Live returns the current live view.
func (w *Window) Live() *image.RGBA {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.live
}

// SetSnapshot puts a new snapshot in the pane along with the pose and
// camera it was taken with, and notifies subscribers.
func (w *Window) SetSnapshot(img *image.RGBA, pose hmd.Posef, cam scene.State) Frame {
	w.mu.Lock()
	w.frame = Frame{
		Seq:      w.frame.Seq + 1,
		At:       time.Now(),
		Pose:     pose,
		Camera:   cam,
		Snapshot: img,
	}
	f := w.frame
	for _, ch := range w.subs {
		select {
		case ch <- f:
		default:
			// slow subscriber: replace its pending frame
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- f:
			default:
			}
		}
	}
	w.mu.Unlock()
	return f
}

// Snapshot returns the image in the snapshot pane.
func (w *Window) Snapshot() *image.RGBA {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame.Snapshot
}

// Frame returns the latest frame.
func (w *Window) Frame() Frame {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame
}

// Pose returns the pose and camera of the latest snapshot.
func (w *Window) Pose() (hmd.Posef, scene.State) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame.Pose, w.frame.Camera
}

// Subscribe returns a channel receiving every new frame. A subscriber
// that falls behind only sees the newest one. Call cancel to stop.
func (w *Window) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)

	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch
	w.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
		})
	}
}

// RequestClose asks the owner of the window to shut down.
func (w *Window) RequestClose() {
	w.once.Do(func() { close(w.closeReq) })
}

// CloseRequested is closed once RequestClose has been called.
func (w *Window) CloseRequested() <-chan struct{} {
	return w.closeReq
}

// Compose lays out the whole window: the live view on the left and the
// snapshot pane at the top of the right half.
func (w *Window) Compose(bg color.Color) *image.RGBA {
	w.mu.RLock()
	live, snap := w.live, w.frame.Snapshot
	w.mu.RUnlock()

	dst := image.NewRGBA(image.Rect(0, 0, w.Width, w.Height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(dst, w.LiveBounds(), live, live.Bounds().Min, draw.Src)
	pane := w.PaneBounds().Add(image.Pt(w.Width/2, 0))
	fitted := render.Fit(snap, pane.Dx(), pane.Dy(), bg)
	draw.Draw(dst, pane, fitted, image.Point{}, draw.Src)
	return dst
}
