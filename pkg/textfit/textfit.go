// Package textfit renders a badge name inside the template's name
// window, maximizing the font size without overflowing: width-driven
// size reduction down to a floor, then a two-line split for multi-word
// names that still do not fit.
package textfit

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/badgeforge/badge-composer/pkg/geometry"
)

// Config holds the fitting parameters. Sizes are in native pixels.
type Config struct {
	HeightRatio   float64 // initial font size as a fraction of window height
	MaxWidthRatio float64 // usable fraction of window width
	SizeStep      float64 // reduction per fitting iteration
	MinSize       float64 // font size floor
	LineSpacing   float64 // line spacing as a multiple of font size
	Color         color.Color
}

// DefaultConfig returns the stock name styling.
func DefaultConfig() Config {
	return Config{
		HeightRatio:   0.35,
		MaxWidthRatio: 0.9,
		SizeStep:      2,
		MinSize:       12,
		LineSpacing:   1.2,
		Color:         color.White,
	}
}

// Fitter measures and draws badge names with a cached bold face per
// font size.
type Fitter struct {
	config Config
	parsed *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// New creates a Fitter using the embedded Go Bold font.
func New() (*Fitter, error) {
	return NewWithFont(nil, DefaultConfig())
}

// NewWithFont creates a Fitter from raw TTF data. Nil or empty data
// falls back to the embedded Go Bold font.
func NewWithFont(ttf []byte, config Config) (*Fitter, error) {
	if len(ttf) == 0 {
		ttf = gobold.TTF
	}
	if config.Color == nil {
		config.Color = color.White
	}
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Fitter{
		config: config,
		parsed: parsed,
		faces:  make(map[float64]font.Face),
	}, nil
}

// Layout is the result of fitting a name into a window: the chosen font
// size and one or two lines of text. Empty Lines means nothing to draw.
type Layout struct {
	Lines    []string
	FontSize float64
}

// Face returns a cached font.Face at the given size.
func (f *Fitter) Face(size float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face at %.1fpx: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// Width measures the advance width of s at the given font size.
func (f *Fitter) Width(s string, size float64) (float64, error) {
	face, err := f.Face(size)
	if err != nil {
		return 0, err
	}
	return float64(font.MeasureString(face, s).Ceil()), nil
}

// Fit chooses the font size and line split for a name in the window.
// The name is measured as a single line; while it exceeds the usable
// width and the size is above the floor, the size shrinks step by step.
// If a multi-word name still overflows at the floor, it splits into two
// lines: everything but the last word, then the last word alone. A
// single overlong word stays a single line and relies on the pixel clip.
func (f *Fitter) Fit(name string, window geometry.Rect) (Layout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Layout{}, nil
	}

	size := f.config.HeightRatio * float64(window.H)
	if size < f.config.MinSize {
		size = f.config.MinSize
	}
	maxWidth := f.config.MaxWidthRatio * float64(window.W)

	width, err := f.Width(name, size)
	if err != nil {
		return Layout{}, err
	}
	for width > maxWidth && size > f.config.MinSize {
		size -= f.config.SizeStep
		if size < f.config.MinSize {
			size = f.config.MinSize
		}
		if width, err = f.Width(name, size); err != nil {
			return Layout{}, err
		}
	}

	words := strings.Fields(name)
	if width > maxWidth && len(words) > 1 {
		head := strings.Join(words[:len(words)-1], " ")
		tail := words[len(words)-1]
		return Layout{Lines: []string{head, tail}, FontSize: size}, nil
	}
	return Layout{Lines: []string{name}, FontSize: size}, nil
}

// Draw fits the name and renders it centered in the window. Drawing is
// clipped to the window rectangle, so even text that overflows the
// measured width is truncated at the window edge rather than escaping.
func (f *Fitter) Draw(dc *gg.Context, name string, window geometry.Rect) error {
	layout, err := f.Fit(name, window)
	if err != nil {
		return err
	}
	if len(layout.Lines) == 0 {
		return nil
	}
	face, err := f.Face(layout.FontSize)
	if err != nil {
		return err
	}

	wx, wy := float64(window.X), float64(window.Y)
	ww, wh := float64(window.W), float64(window.H)
	cx := wx + ww/2
	cy := wy + wh/2

	dc.Push()
	dc.DrawRectangle(wx, wy, ww, wh)
	dc.Clip()
	dc.SetFontFace(face)
	dc.SetColor(f.config.Color)

	if len(layout.Lines) == 1 {
		dc.DrawStringAnchored(layout.Lines[0], cx, cy, 0.5, 0.5)
	} else {
		spacing := f.config.LineSpacing * layout.FontSize
		dc.DrawStringAnchored(layout.Lines[0], cx, cy-spacing/2, 0.5, 0.5)
		dc.DrawStringAnchored(layout.Lines[1], cx, cy+spacing/2, 0.5, 0.5)
	}

	dc.ResetClip()
	dc.Pop()
	return nil
}
