// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package window

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/hmdview/internal/render"
)

// Panel is a monochrome display; *ssd1306.Dev implements it.
type Panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// OLED mirrors the snapshot pane on a small SSD1306 display: the
// snapshot dithered on the left square, the pose as text on the right.
type OLED struct {
	panel Panel
	win   *Window
	log   zerolog.Logger
	bus   i2c.BusCloser
}

// OpenOLED opens the SSD1306 on the named I2C bus ("" for the first one).
func OpenOLED(busName string, win *Window, logger zerolog.Logger) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	logger.Info().Str("bus", busName).Msg("display initialized")

	o := NewOLED(dev, win, logger)
	o.bus = bus
	return o, nil
}

// NewOLED drives an already opened panel.
func NewOLED(panel Panel, win *Window, logger zerolog.Logger) *OLED {
	return &OLED{panel: panel, win: win, log: logger}
}

// Run redraws the panel for every new frame until ctx is done.
func (o *OLED) Run(ctx context.Context) error {
	frames, cancel := o.win.Subscribe()
	defer cancel()

	if err := o.panel.Draw(o.panel.Bounds(), splash(o.panel.Bounds()), image.Point{}); err != nil {
		o.log.Warn().Err(err).Msg("error showing splash")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-frames:
			img := RenderOLED(o.panel.Bounds(), f)
			if err := o.panel.Draw(o.panel.Bounds(), img, image.Point{}); err != nil {
				o.log.Warn().Err(err).Msg("error updating display")
			}
		}
	}
}

// Close releases the I2C bus when the panel was opened by OpenOLED.
func (o *OLED) Close() error {
	if o.bus == nil {
		return nil
	}
	return o.bus.Close()
}

var monochrome = color.Palette{color.Black, color.White}

// RenderOLED draws a frame for a panel of the given bounds.
func RenderOLED(bounds image.Rectangle, f Frame) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(bounds)

	side := min(bounds.Dx(), bounds.Dy())
	if f.Snapshot != nil && side > 0 {
		fitted := render.Fit(f.Snapshot, side, side, color.White)
		// dark pixels light up, so invert while dithering
		invertRGBA(fitted)
		dithered := image.NewPaletted(fitted.Bounds(), monochrome)
		draw.FloydSteinberg.Draw(dithered, dithered.Bounds(), fitted, image.Point{})
		draw.Draw(img, image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+side, bounds.Min.Y+side), dithered, image.Point{}, draw.Src)
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	x := bounds.Min.X + side + 2
	q := f.Pose.Orientation
	lines := []string{
		fmt.Sprintf("w%5.2f", q.W),
		fmt.Sprintf("x%5.2f", q.V[0]),
		fmt.Sprintf("y%5.2f", q.V[1]),
		fmt.Sprintf("z%5.2f", q.V[2]),
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(x, bounds.Min.Y+(i+1)*render.LineHeight)
		drawer.DrawString(line)
	}
	return img
}

func invertRGBA(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 0xff - img.Pix[i+0]
		img.Pix[i+1] = 0xff - img.Pix[i+1]
		img.Pix[i+2] = 0xff - img.Pix[i+2]
	}
}

func splash(bounds image.Rectangle) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(bounds)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(bounds.Min.X+10, bounds.Min.Y+26)
	drawer.DrawString("hmdview")

	drawer.Dot = fixed.P(bounds.Min.X+5, bounds.Min.Y+43)
	drawer.DrawString("Waiting for")

	drawer.Dot = fixed.P(bounds.Min.X+25, bounds.Min.Y+56)
	drawer.DrawString("HMD")

	return img
}
