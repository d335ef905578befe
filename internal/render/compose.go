// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Fit scales src into a w x h image, keeping its aspect ratio and
// centering it over bg.
func Fit(src image.Image, w, h int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, xdraw.Src)

	sb := src.Bounds()
	if sb.Empty() || w <= 0 || h <= 0 {
		return dst
	}

	// largest size with the source aspect that fits
	fw, fh := w, sb.Dy()*w/sb.Dx()
	if fh > h {
		fw, fh = sb.Dx()*h/sb.Dy(), h
	}
	x0, y0 := (w-fw)/2, (h-fh)/2
	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+fw, y0+fh), src, sb, xdraw.Over, nil)
	return dst
}

// LineHeight is the pixel height of one HUD line.
const LineHeight = 13

// DrawHUD writes lines of text onto dst, starting at the top-left
// corner at. The first baseline sits one LineHeight below at.
func DrawHUD(dst xdraw.Image, at image.Point, c color.Color, lines []string) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{C: c},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(at.X, at.Y+(i+1)*LineHeight)
		drawer.DrawString(line)
	}
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
