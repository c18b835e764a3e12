// Package render runs the badge render pass: template artwork, then the
// composited photo, then the fitted name, drawn in that fixed order into
// a buffer at the template's native resolution. Every render starts from
// scratch; there is no partial redraw or buffer reuse, so export
// fidelity never depends on the on-screen scale.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/fogleman/gg"

	"github.com/badgeforge/badge-composer/internal/utils"
	"github.com/badgeforge/badge-composer/pkg/compositor"
	"github.com/badgeforge/badge-composer/pkg/geometry"
	"github.com/badgeforge/badge-composer/pkg/session"
	"github.com/badgeforge/badge-composer/pkg/template"
	"github.com/badgeforge/badge-composer/pkg/textfit"
)

// ErrNoTemplateImage is returned when rendering or export is attempted
// before the active template's artwork has decoded. A failed or still
// pending template load leaves the session in this state.
var ErrNoTemplateImage = errors.New("no template image available")

// Renderer composes badges from session state.
type Renderer struct {
	compositor *compositor.Compositor
	fitter     *textfit.Fitter
}

// New creates a Renderer with default styling and the embedded bold
// font.
func New() (*Renderer, error) {
	fitter, err := textfit.New()
	if err != nil {
		return nil, err
	}
	return NewWith(compositor.New(), fitter), nil
}

// NewWith creates a Renderer from preconfigured components.
func NewWith(c *compositor.Compositor, f *textfit.Fitter) *Renderer {
	return &Renderer{compositor: c, fitter: f}
}

// Render draws the badge for the given template and session state and
// returns the native-resolution result. With no photo the template
// renders alone; a blank name draws nothing in the name window.
func (r *Renderer) Render(tmpl template.Template, st *session.State) (image.Image, error) {
	if st.TemplateImage == nil {
		return nil, ErrNoTemplateImage
	}

	b := st.TemplateImage.Bounds()
	w, h := b.Dx(), b.Dy()
	dc := gg.NewContext(w, h)
	dc.DrawImage(st.TemplateImage, 0, 0)

	if st.Photo != nil {
		window := geometry.Map(w, h, tmpl.PhotoWindow)
		r.compositor.Draw(dc, st.Photo, window, st.View, geometry.ScaleX(w))
	}

	if st.HasName() {
		window := geometry.Map(w, h, tmpl.NameWindow)
		if err := r.fitter.Draw(dc, st.Name, window); err != nil {
			return nil, fmt.Errorf("draw name: %w", err)
		}
	}

	return dc.Image(), nil
}

// ExportPNG renders the badge and writes it as PNG. Export is refused
// while no template image is loaded.
func (r *Renderer) ExportPNG(w io.Writer, tmpl template.Template, st *session.State) error {
	img, err := r.Render(tmpl, st)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportFilename returns the download name for a template's badge.
func ExportFilename(tmpl template.Template) string {
	return utils.SanitizeFilename(fmt.Sprintf("%s-badge.png", tmpl.ID))
}
