// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_Letterbox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	blue := color.RGBA{B: 0xff, A: 0xff}
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			src.SetRGBA(x, y, blue)
		}
	}

	dst := Fit(src, 40, 40, white)
	assert.Equal(t, image.Rect(0, 0, 40, 40), dst.Bounds())
	// 40x20 band centered vertically
	assert.Equal(t, white, dst.RGBAAt(20, 5))
	assert.Equal(t, blue, dst.RGBAAt(20, 20))
	assert.Equal(t, white, dst.RGBAAt(20, 35))
}

func TestFit_EmptySource(t *testing.T) {
	dst := Fit(image.NewRGBA(image.Rectangle{}), 8, 8, white)
	assert.Equal(t, white, dst.RGBAAt(4, 4))
}

func TestDrawHUD(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 80, 40))
	DrawHUD(dst, image.Point{}, color.Black, []string{"W 1.00", "X 0.00"})

	inked := 0
	for y := 0; y < 2*LineHeight; y++ {
		for x := 0; x < 80; x++ {
			if dst.RGBAAt(x, y).A != 0 {
				inked++
			}
		}
	}
	assert.Positive(t, inked)

	// nothing below the second line
	for x := 0; x < 80; x++ {
		assert.Zero(t, dst.RGBAAt(x, 39).A)
	}
}

func TestEncodePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 0xff, A: 0xff})

	data, err := EncodePNG(src)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())
	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}
