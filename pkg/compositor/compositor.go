// Package compositor draws the user photo into a template's photo
// window: cover-fit base scale, user zoom and pan on top, clipped to a
// rounded rectangle and finished with a border stroke.
package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/badgeforge/badge-composer/pkg/geometry"
	"github.com/badgeforge/badge-composer/pkg/session"
)

// Config holds the compositor's drawing parameters. Radius and border
// width are in baseline units and scale with the template's native
// resolution.
type Config struct {
	CornerRadius float64
	BorderWidth  float64
	BorderColor  color.Color
}

// DefaultConfig returns the stock badge styling.
func DefaultConfig() Config {
	return Config{
		CornerRadius: 15,
		BorderWidth:  2,
		BorderColor:  color.White,
	}
}

// Compositor places and clips user photos.
type Compositor struct {
	config Config
}

// New creates a Compositor with default styling.
func New() *Compositor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Compositor with custom styling.
func NewWithConfig(config Config) *Compositor {
	if config.BorderColor == nil {
		config.BorderColor = color.White
	}
	return &Compositor{config: config}
}

// CoverScale returns the minimal scale at which a photoW×photoH photo
// fully covers a windowW×windowH window on both axes. The photo may
// overflow the window on one axis; that overflow is cropped by the clip.
func CoverScale(photoW, photoH, windowW, windowH int) float64 {
	if photoW <= 0 || photoH <= 0 {
		return 0
	}
	return math.Max(float64(windowW)/float64(photoW), float64(windowH)/float64(photoH))
}

// Placement is the drawn photo rectangle in native pixels.
type Placement struct {
	X     float64
	Y     float64
	W     float64
	H     float64
	Scale float64
}

// Contains reports whether the placement fully covers the window rect.
func (p Placement) Contains(window geometry.Rect) bool {
	return p.X <= float64(window.X) && p.Y <= float64(window.Y) &&
		p.X+p.W >= float64(window.X+window.W) &&
		p.Y+p.H >= float64(window.Y+window.H)
}

// Place computes where the photo lands inside the window for the given
// view adjustment. The drawn photo is centered on the window center
// plus the pan offset; the offset is deliberately unclamped, so panning
// far enough can reveal empty space past the photo edge.
func Place(photoW, photoH int, window geometry.Rect, view session.ViewState) Placement {
	scale := CoverScale(photoW, photoH, window.W, window.H) * session.ClampZoom(view.Zoom)
	drawnW := float64(photoW) * scale
	drawnH := float64(photoH) * scale
	cx, cy := window.Center()
	cx += view.Offset.DX
	cy += view.Offset.DY
	return Placement{
		X:     cx - drawnW/2,
		Y:     cy - drawnH/2,
		W:     drawnW,
		H:     drawnH,
		Scale: scale,
	}
}

// Draw composites the photo into the window on dc. unitScale is the
// template's baseline-to-native scale factor (nativeW / 980), used to
// size the corner radius and border. The clip guarantees no photo pixel
// lands outside the rounded window whatever the zoom and offset are.
func (c *Compositor) Draw(dc *gg.Context, photo image.Image, window geometry.Rect, view session.ViewState, unitScale float64) {
	if photo == nil {
		return
	}
	b := photo.Bounds()
	p := Place(b.Dx(), b.Dy(), window, view)
	if p.W < 1 || p.H < 1 {
		return
	}

	radius := c.config.CornerRadius * unitScale
	wx, wy := float64(window.X), float64(window.Y)
	ww, wh := float64(window.W), float64(window.H)

	dc.Push()
	dc.DrawRoundedRectangle(wx, wy, ww, wh, radius)
	dc.Clip()

	resized := imaging.Resize(photo, int(math.Round(p.W)), int(math.Round(p.H)), imaging.Lanczos)
	dc.DrawImage(resized, int(math.Round(p.X)), int(math.Round(p.Y)))

	dc.ResetClip()
	dc.Pop()

	// Border strokes the same rounded rect, unclipped.
	dc.DrawRoundedRectangle(wx, wy, ww, wh, radius)
	dc.SetColor(c.config.BorderColor)
	dc.SetLineWidth(math.Max(1, c.config.BorderWidth*unitScale))
	dc.Stroke()
}
