// Package session models the user's editing state as one explicit value:
// selected template, decoded images, view adjustments, and name text.
// Keeping the state in a single struct (instead of ambient variables)
// lets the render pass and the interaction controller be exercised
// deterministically in tests.
package session

import (
	"image"
	"math"
	"strings"
	"unicode/utf8"
)

// Zoom limits for the user's photo adjustment. Zoom 1 is pure cover-fit,
// MaxZoom is the maximum magnification on top of it.
const (
	MinZoom = 1.0
	MaxZoom = 3.0
)

// Offset is a pan offset in device pixels.
type Offset struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ViewState is the user's adjustment on top of the computed cover-fit.
// The zero adjustment is {Zoom: 1, Offset: {0, 0}}.
type ViewState struct {
	Zoom   float64 `json:"zoom"`
	Offset Offset  `json:"offset"`
}

// DefaultView returns the reset view state.
func DefaultView() ViewState {
	return ViewState{Zoom: MinZoom}
}

// ClampZoom restricts z to [MinZoom, MaxZoom] and rounds it to two
// decimal places.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	return math.Round(z*100) / 100
}

// State holds everything the render pass needs about the current editing
// session. Images are replaced wholesale, never mutated in place.
type State struct {
	TemplateID    string
	TemplateImage image.Image // nil until the template asset decodes
	Photo         image.Image // nil when no photo is uploaded
	View          ViewState
	Name          string

	maxNameLen int
}

// New creates an empty session. maxNameLen bounds SetName; zero or
// negative means unbounded.
func New(maxNameLen int) *State {
	return &State{View: DefaultView(), maxNameLen: maxNameLen}
}

// SetTemplate switches the active template. The previously loaded
// template image is discarded and all user adjustments reset; the photo
// and name survive a template switch.
func (s *State) SetTemplate(id string) {
	if id == s.TemplateID {
		return
	}
	s.TemplateID = id
	s.TemplateImage = nil
	s.ResetView()
}

// SetTemplateImage installs the decoded template artwork. A nil image
// marks the template as unavailable (render suppressed, export disabled).
func (s *State) SetTemplateImage(img image.Image) {
	s.TemplateImage = img
}

// SetPhoto replaces the user photo and resets the view adjustments.
// A nil photo reverts to the template-only state.
func (s *State) SetPhoto(img image.Image) {
	s.Photo = img
	s.ResetView()
}

// SetName stores the badge name, truncated to the configured rune bound.
func (s *State) SetName(name string) {
	if s.maxNameLen > 0 && utf8.RuneCountInString(name) > s.maxNameLen {
		runes := []rune(name)
		name = string(runes[:s.maxNameLen])
	}
	s.Name = name
}

// HasName reports whether there is anything to draw in the name window.
func (s *State) HasName() bool {
	return strings.TrimSpace(s.Name) != ""
}

// ResetView restores zoom 1 and a zero pan offset.
func (s *State) ResetView() {
	s.View = DefaultView()
}

// SetView installs a view adjustment, clamping the zoom.
func (s *State) SetView(v ViewState) {
	v.Zoom = ClampZoom(v.Zoom)
	s.View = v
}
