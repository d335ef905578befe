// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package window

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/scene"
)

type fakePanel struct {
	mu    sync.Mutex
	draws int
	last  image.Image
}

func (p *fakePanel) Bounds() image.Rectangle { return image.Rect(0, 0, 128, 64) }

func (p *fakePanel) Draw(_ image.Rectangle, src image.Image, _ image.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draws++
	p.last = src
	return nil
}

func (p *fakePanel) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draws
}

func TestRenderOLED(t *testing.T) {
	snap := solid(image.Rect(0, 0, 64, 32), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	// dark square in the middle lights up
	for y := 12; y < 20; y++ {
		for x := 28; x < 36; x++ {
			snap.SetRGBA(x, y, color.RGBA{A: 0xff})
		}
	}

	img := RenderOLED(image.Rect(0, 0, 128, 64), Frame{Snapshot: snap, Pose: hmd.IdentityPose()})

	assert.Equal(t, image1bit.On, img.BitAt(32, 32))
	assert.Equal(t, image1bit.Off, img.BitAt(2, 32))

	lit := 0
	for y := 0; y < 64; y++ {
		for x := 66; x < 128; x++ {
			if img.BitAt(x, y) == image1bit.On {
				lit++
			}
		}
	}
	assert.Positive(t, lit, "pose text")
}

func TestOLED_Run(t *testing.T) {
	w := New("test", 16, 16)
	panel := &fakePanel{}
	o := NewOLED(panel, w, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- o.Run(ctx) }()

	// splash, then one draw per frame
	require.Eventually(t, func() bool { return panel.count() >= 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		w.SetSnapshot(w.Snapshot(), hmd.IdentityPose(), scene.State{})
		return panel.count() >= 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
	assert.NoError(t, o.Close())
}
