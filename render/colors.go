package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB color definitions for the chrome around effects
var (
	RgbLogoText     = tcell.NewRGBColor(255, 255, 255) // White
	RgbLogoBorder   = tcell.NewRGBColor(251, 146, 60)  // Orange, first confetti color
	RgbProgressDone = tcell.NewRGBColor(251, 191, 36)  // Amber
	RgbProgressTodo = tcell.NewRGBColor(90, 90, 110)   // Muted gray-blue
	RgbHintText     = tcell.NewRGBColor(120, 120, 140) // Dim gray

	RgbOverlayBg     = tcell.NewRGBColor(30, 30, 46)    // Slightly lifted from background
	RgbOverlayBorder = tcell.NewRGBColor(249, 115, 22)  // Deep orange
	RgbOverlayTitle  = tcell.NewRGBColor(250, 204, 21)  // Yellow
	RgbOverlayText   = tcell.NewRGBColor(220, 220, 230) // Off-white
	RgbOverlayFooter = tcell.NewRGBColor(150, 150, 170) // Gray
)

// ToTcell converts a colorful color to a terminal true-color
func ToTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Fade blends c toward bg, opacity 1 returns c and 0 returns bg
func Fade(bg, c colorful.Color, opacity float64) colorful.Color {
	if opacity <= 0 {
		return bg
	}
	if opacity >= 1 {
		return c
	}
	return bg.BlendRgb(c, opacity)
}
