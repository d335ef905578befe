// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/relabs-tech/hmdview/internal/render"
)

const upperHalf = "▀"

// HalfBlocks draws img in a cols x rows cell area. Each cell shows two
// pixels: the upper one as foreground of "▀", the lower one as background.
func HalfBlocks(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	fitted := render.Fit(img, cols, rows*2, color.Black)

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		// consecutive cells with the same colors share one style run
		var (
			run      int
			top, bot color.RGBA
		)
		flush := func() {
			if run == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bot))
			sb.WriteString(style.Render(strings.Repeat(upperHalf, run)))
			run = 0
		}
		for col := 0; col < cols; col++ {
			t := fitted.RGBAAt(col, 2*row)
			b := fitted.RGBAAt(col, 2*row+1)
			if run > 0 && (t != top || b != bot) {
				flush()
			}
			top, bot = t, b
			run++
		}
		flush()
	}
	return sb.String()
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
