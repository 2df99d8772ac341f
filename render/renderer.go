// Package render draws the logo, gesture progress, particles and overlays onto a tcell screen
package render

import (
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/konami/effect"
	"github.com/lixenwraith/konami/overlay"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

const (
	overlayPaddingX  = 3
	overlayPaddingY  = 1
	overlayMaxBody   = 48
	overlayGap       = 1
	minParticleAlpha = 0.02
	minParticlePx    = 1.0
)

// Options configures pixel mapping and chrome
type Options struct {
	Logo       string
	CellWidth  float64 // pixels per cell column
	CellHeight float64 // pixels per cell row
	Background colorful.Color
}

// Scene is everything drawn in one frame
type Scene struct {
	Count     int
	Threshold int
	Particles []effect.Frame
	Overlays  []overlay.Session
	Hint      string
}

// Rect is a cell-space rectangle
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Renderer handles all terminal rendering
type Renderer struct {
	screen tcell.Screen
	opts   Options
	bg     tcell.Style
}

// NewRenderer creates a renderer bound to screen
func NewRenderer(screen tcell.Screen, opts Options) *Renderer {
	r := &Renderer{screen: screen}
	r.SetOptions(opts)
	return r
}

// SetOptions replaces the options, zero cell sizes fall back to 8x16
func (r *Renderer) SetOptions(opts Options) {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	r.opts = opts
	r.bg = tcell.StyleDefault.Background(ToTcell(opts.Background))
}

// LogoRect returns the clickable logo box in cells
func (r *Renderer) LogoRect() Rect {
	return Rect{X: 2, Y: 1, W: runewidth.StringWidth(r.opts.Logo) + 4, H: 3}
}

// PixelSize returns the screen extent in effect pixels
func (r *Renderer) PixelSize() (float64, float64) {
	w, h := r.screen.Size()
	return float64(w) * r.opts.CellWidth, float64(h) * r.opts.CellHeight
}

// CellToPixel returns the pixel at the center of a cell
func (r *Renderer) CellToPixel(x, y int) effect.Vec {
	return effect.Vec{
		X: (float64(x) + 0.5) * r.opts.CellWidth,
		Y: (float64(y) + 0.5) * r.opts.CellHeight,
	}
}

// PixelToCell returns the cell containing a pixel
func (r *Renderer) PixelToCell(p effect.Vec) (int, int) {
	return int(math.Floor(p.X / r.opts.CellWidth)), int(math.Floor(p.Y / r.opts.CellHeight))
}

// Draw renders the entire frame
func (r *Renderer) Draw(scene Scene) {
	r.screen.SetStyle(r.bg)
	r.screen.Clear()

	r.drawLogo()
	r.drawProgress(scene.Count, scene.Threshold)
	r.drawParticles(scene.Particles)
	r.drawHint(scene.Hint)
	r.drawOverlays(scene.Overlays)

	r.screen.Show()
}

func (r *Renderer) drawLogo() {
	rect := r.LogoRect()
	border := r.bg.Foreground(RgbLogoBorder)
	r.drawBox(rect, border, r.bg)
	r.drawText(rect.X+2, rect.Y+1, r.opts.Logo, r.bg.Foreground(RgbLogoText).Bold(true))
}

// drawProgress shows one dot per activation, only while a gesture is in progress
func (r *Renderer) drawProgress(count, threshold int) {
	if count <= 0 || count >= threshold {
		return
	}
	rect := r.LogoRect()
	y := rect.Y + rect.H
	done := r.bg.Foreground(RgbProgressDone)
	todo := r.bg.Foreground(RgbProgressTodo)
	for i := 0; i < threshold; i++ {
		style, ch := todo, '○'
		if i < count {
			style, ch = done, '●'
		}
		r.screen.SetContent(rect.X+1+i*2, y, ch, nil, style)
	}
}

func (r *Renderer) drawParticles(frames []effect.Frame) {
	w, h := r.screen.Size()
	for _, f := range frames {
		if f.Opacity < minParticleAlpha || f.Size*f.Scale < minParticlePx {
			continue
		}
		x, y := r.PixelToCell(effect.Vec{X: f.X, Y: f.Y})
		if x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		fg := ToTcell(Fade(r.opts.Background, f.Color, f.Opacity))
		r.screen.SetContent(x, y, r.glyph(f), nil, r.bg.Foreground(fg))
	}
}

// glyph picks a character by shape, projected size and rotation
func (r *Renderer) glyph(f effect.Frame) rune {
	px := f.Size * f.Scale
	if f.Motion == effect.MotionRise {
		if px >= r.opts.CellWidth/2 {
			return '✦'
		}
		return '✧'
	}

	large := px >= r.opts.CellWidth
	medium := px >= r.opts.CellWidth/2
	if f.Round {
		switch {
		case large:
			return '●'
		case medium:
			return '•'
		default:
			return '·'
		}
	}

	// Squares turned near 45 degrees read as diamonds
	angle := math.Mod(math.Abs(f.Rotation), 90)
	diamond := angle >= 22.5 && angle < 67.5
	switch {
	case large && diamond:
		return '◆'
	case large:
		return '■'
	case medium && diamond:
		return '⬩'
	case medium:
		return '▪'
	default:
		return '·'
	}
}

func (r *Renderer) drawHint(hint string) {
	if hint == "" {
		return
	}
	_, h := r.screen.Size()
	r.drawText(1, h-1, hint, r.bg.Foreground(RgbHintText))
}

// drawOverlays stacks visible sessions vertically around the screen center
func (r *Renderer) drawOverlays(sessions []overlay.Session) {
	w, h := r.screen.Size()

	var boxes [][]overlayLine
	total := 0
	for _, s := range sessions {
		if !s.Visible {
			continue
		}
		lines := layoutContent(s.Content, min(overlayMaxBody, w-2-2*overlayPaddingX))
		boxes = append(boxes, lines)
		total += len(lines) + 2 + 2*overlayPaddingY
	}
	if len(boxes) == 0 {
		return
	}
	total += overlayGap * (len(boxes) - 1)

	y := max(0, (h-total)/2)
	for _, lines := range boxes {
		y = r.drawOverlayBox(lines, w, y) + overlayGap
	}
}

type overlayLine struct {
	text  string
	color tcell.Color
	bold  bool
}

func layoutContent(c overlay.Content, width int) []overlayLine {
	var lines []overlayLine
	if c.Icon != "" {
		lines = append(lines, overlayLine{text: c.Icon, color: RgbOverlayText})
	}
	lines = append(lines, overlayLine{text: c.Title, color: RgbOverlayTitle, bold: true})
	if c.Body != "" {
		lines = append(lines, overlayLine{})
		for _, l := range wrap(c.Body, width) {
			lines = append(lines, overlayLine{text: l, color: RgbOverlayText})
		}
	}
	if c.Footer != "" {
		lines = append(lines, overlayLine{})
		lines = append(lines, overlayLine{text: c.Footer, color: RgbOverlayFooter})
	}
	return lines
}

// drawOverlayBox draws one centered panel starting at row top and returns the row after it
func (r *Renderer) drawOverlayBox(lines []overlayLine, screenW, top int) int {
	content := 0
	for _, l := range lines {
		content = max(content, runewidth.StringWidth(l.text))
	}
	rect := Rect{
		W: content + 2 + 2*overlayPaddingX,
		H: len(lines) + 2 + 2*overlayPaddingY,
		Y: top,
	}
	rect.X = max(0, (screenW-rect.W)/2)

	fill := tcell.StyleDefault.Background(RgbOverlayBg)
	r.drawBox(rect, fill.Foreground(RgbOverlayBorder), fill)

	y := rect.Y + 1 + overlayPaddingY
	for _, l := range lines {
		x := rect.X + (rect.W-runewidth.StringWidth(l.text))/2
		r.drawText(x, y, l.text, fill.Foreground(l.color).Bold(l.bold))
		y++
	}
	return rect.Y + rect.H
}

// drawBox fills rect and draws a rounded border
func (r *Renderer) drawBox(rect Rect, border, fill tcell.Style) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			r.screen.SetContent(x, y, ' ', nil, fill)
		}
	}
	right, bottom := rect.X+rect.W-1, rect.Y+rect.H-1
	for x := rect.X + 1; x < right; x++ {
		r.screen.SetContent(x, rect.Y, '─', nil, border)
		r.screen.SetContent(x, bottom, '─', nil, border)
	}
	for y := rect.Y + 1; y < bottom; y++ {
		r.screen.SetContent(rect.X, y, '│', nil, border)
		r.screen.SetContent(right, y, '│', nil, border)
	}
	r.screen.SetContent(rect.X, rect.Y, '╭', nil, border)
	r.screen.SetContent(right, rect.Y, '╮', nil, border)
	r.screen.SetContent(rect.X, bottom, '╰', nil, border)
	r.screen.SetContent(right, bottom, '╯', nil, border)
}

// drawText writes s left to right, advancing by display width
func (r *Renderer) drawText(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x += max(1, runewidth.RuneWidth(ch))
	}
}

// wrap breaks s into lines of at most width display cells on word boundaries
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var cur strings.Builder
	curW := 0
	for _, word := range strings.Fields(s) {
		ww := runewidth.StringWidth(word)
		if curW > 0 && curW+1+ww > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
		if curW > 0 {
			cur.WriteByte(' ')
			curW++
		}
		cur.WriteString(word)
		curW += ww
	}
	if curW > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
