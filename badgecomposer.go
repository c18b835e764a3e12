// Package badgecomposer composites conference badges: a template
// artwork, a user photo placed cover-fit into the template's photo
// window with pan and zoom, and a name auto-fitted into the name
// window, exported as a PNG at the template's native resolution.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//		"os"
//
//		"github.com/badgeforge/badge-composer"
//	)
//
//	func main() {
//		composer, err := badgecomposer.New()
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if err := composer.SelectTemplate("speaking"); err != nil {
//			log.Fatal(err)
//		}
//		if err := composer.LoadTemplateAsset(); err != nil {
//			log.Fatal(err)
//		}
//		if err := composer.LoadPhoto("me.jpg"); err != nil {
//			log.Println("photo skipped:", err)
//		}
//		composer.SetName("Ada Lovelace")
//
//		f, err := os.Create(composer.ExportFilename())
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer f.Close()
//		if err := composer.ExportPNG(f); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of the leaf components under pkg/:
//
// 1. geometry: baseline-980 window geometry mapped to native pixels
// 2. compositor: cover-fit photo placement with rounded-rect clipping
// 3. textfit: name fitting with size reduction and two-line fallback
// 4. interaction: pointer/wheel input translated to pan and zoom
// 5. render: the fixed-order render pass and PNG export
//
// The render pass redraws from scratch on every state change; the
// buffer is always the template's native size, so the export never
// depends on how the badge is displayed on screen.
package badgecomposer

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/badgeforge/badge-composer/pkg/compositor"
	"github.com/badgeforge/badge-composer/pkg/geometry"
	"github.com/badgeforge/badge-composer/pkg/interaction"
	"github.com/badgeforge/badge-composer/pkg/loader"
	"github.com/badgeforge/badge-composer/pkg/render"
	"github.com/badgeforge/badge-composer/pkg/session"
	"github.com/badgeforge/badge-composer/pkg/template"
	"github.com/badgeforge/badge-composer/pkg/textfit"
)

// Version of the badge composer library
const Version = "1.0.0"

// ErrNoTemplate is returned for operations that need a selected
// template before one has been chosen.
var ErrNoTemplate = errors.New("no template selected")

// Options configures a Composer.
type Options struct {
	Templates     []template.Template // defaults to template.Builtin()
	Compositor    compositor.Config
	Text          textfit.Config
	FontTTF       []byte // nil uses the embedded bold font
	MaxNameLength int
}

// DefaultOptions returns the stock configuration: the two built-in
// templates and the default styling.
func DefaultOptions() Options {
	return Options{
		Templates:     template.Builtin(),
		Compositor:    compositor.DefaultConfig(),
		Text:          textfit.DefaultConfig(),
		MaxNameLength: 60,
	}
}

// Composer is the high-level interface: it owns the session state, the
// template registry, the async loaders, and the render pass.
type Composer struct {
	mu sync.Mutex

	registry      *template.Registry
	loader        *loader.Loader
	templateLoads *loader.AsyncLoader
	photoLoads    *loader.AsyncLoader
	renderer      *render.Renderer
	controller    *interaction.Controller
	state         *session.State

	current     template.Template
	hasTemplate bool
}

// New creates a Composer with the default configuration.
func New() (*Composer, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Composer with custom templates and styling.
func NewWithOptions(opts Options) (*Composer, error) {
	templates := opts.Templates
	if len(templates) == 0 {
		templates = template.Builtin()
	}
	registry, err := template.NewRegistry(templates...)
	if err != nil {
		return nil, err
	}

	fitter, err := textfit.NewWithFont(opts.FontTTF, opts.Text)
	if err != nil {
		return nil, err
	}

	ld := loader.New()
	return &Composer{
		registry:      registry,
		loader:        ld,
		templateLoads: loader.NewAsync(ld),
		photoLoads:    loader.NewAsync(ld),
		renderer:      render.NewWith(compositor.NewWithConfig(opts.Compositor), fitter),
		controller:    interaction.New(geometry.Rect{}, interaction.Viewport{}),
		state:         session.New(opts.MaxNameLength),
	}, nil
}

// Templates returns the selectable templates in registration order.
func (c *Composer) Templates() []template.Template {
	return c.registry.List()
}

// SelectTemplate makes the given template active. Switching to a
// different template resets all user adjustments, cancels any
// in-progress pan, and discards in-flight artwork loads for the
// previous template; the new artwork must then be loaded
// (LoadTemplateAsset or SetTemplateImage) before the badge renders
// again. Re-selecting the active template is a no-op and keeps its
// decoded artwork.
func (c *Composer) SelectTemplate(id string) error {
	tmpl, err := c.registry.Get(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasTemplate && c.current.ID == tmpl.ID {
		return nil
	}
	c.current = tmpl
	c.hasTemplate = true
	c.state.SetTemplate(tmpl.ID)
	c.controller.Reset()
	c.templateLoads.Invalidate()
	return nil
}

// Current returns the active template.
func (c *Composer) Current() (template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasTemplate {
		return template.Template{}, ErrNoTemplate
	}
	return c.current, nil
}

// SetTemplateImage installs host-decoded template artwork. Nil marks
// the template as unavailable: rendering is suppressed and export
// disabled until artwork arrives.
func (c *Composer) SetTemplateImage(img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetTemplateImage(img)
	c.updateControllerLocked()
}

// LoadTemplateAsset synchronously decodes the active template's
// artwork. On failure the composer stays in the absent-image state.
func (c *Composer) LoadTemplateAsset() error {
	tmpl, err := c.Current()
	if err != nil {
		return err
	}
	img, err := c.loader.OpenSmart(tmpl.Asset)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.SetTemplateImage(nil)
		return fmt.Errorf("load template %s: %w", tmpl.ID, err)
	}
	c.state.SetTemplateImage(img)
	c.updateControllerLocked()
	return nil
}

// LoadTemplateAssetAsync starts decoding the active template's artwork
// in the background. The result is applied only if no newer template
// load has been issued meanwhile, so a slow superseded load can never
// overwrite a later selection. The returned channel delivers the load's
// outcome once.
func (c *Composer) LoadTemplateAssetAsync() <-chan error {
	done := make(chan error, 1)
	tmpl, err := c.Current()
	if err != nil {
		done <- err
		return done
	}

	_, ch := c.templateLoads.Load(tmpl.Asset)
	go func() {
		r := <-ch
		c.templateLoads.Apply(r, func(r loader.Result) {
			c.mu.Lock()
			defer c.mu.Unlock()
			if r.Err != nil {
				c.state.SetTemplateImage(nil)
				return
			}
			c.state.SetTemplateImage(r.Image)
			c.updateControllerLocked()
		})
		done <- r.Err
	}()
	return done
}

// SetPhoto replaces the user photo wholesale and resets pan and zoom.
// Nil reverts to the template-only state. In-flight async photo loads
// are superseded and their results discarded.
func (c *Composer) SetPhoto(img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetPhoto(img)
	c.controller.Reset()
	c.photoLoads.Invalidate()
}

// LoadPhoto decodes a photo from a file path or URL. A decode failure
// reverts to the no-photo state; the badge keeps rendering without a
// photo, which is the recoverable path for bad uploads.
func (c *Composer) LoadPhoto(source string) error {
	img, err := c.loader.OpenSmart(source)
	if err != nil {
		c.SetPhoto(nil)
		return fmt.Errorf("load photo: %w", err)
	}
	c.SetPhoto(img)
	return nil
}

// LoadPhotoReader decodes an uploaded photo from a reader. Failure
// semantics match LoadPhoto.
func (c *Composer) LoadPhotoReader(r io.Reader) error {
	img, err := c.loader.Decode(r)
	if err != nil {
		c.SetPhoto(nil)
		return fmt.Errorf("load photo: %w", err)
	}
	c.SetPhoto(img)
	return nil
}

// LoadPhotoAsync starts decoding a photo in the background with the
// same stale-load guard as template loads.
func (c *Composer) LoadPhotoAsync(source string) <-chan error {
	done := make(chan error, 1)
	_, ch := c.photoLoads.Load(source)
	go func() {
		r := <-ch
		c.photoLoads.Apply(r, func(r loader.Result) {
			if r.Err != nil {
				c.SetPhoto(nil)
				return
			}
			c.SetPhoto(r.Image)
		})
		done <- r.Err
	}()
	return done
}

// HasPhoto reports whether a photo is loaded.
func (c *Composer) HasPhoto() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Photo != nil
}

// SetName sets the badge name (truncated to the configured bound).
func (c *Composer) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetName(name)
}

// Name returns the badge name.
func (c *Composer) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Name
}

// Controller exposes the interaction state machine. The host forwards
// pointer and wheel events to it; the next Render picks up the
// accumulated view adjustment.
func (c *Composer) Controller() *interaction.Controller {
	return c.controller
}

// SetViewport tells the controller how the native canvas maps onto the
// on-screen display, for hit testing.
func (c *Composer) SetViewport(vp interaction.Viewport) {
	c.controller.SetViewport(vp)
}

// View returns the current view adjustment.
func (c *Composer) View() session.ViewState {
	return c.controller.View()
}

// SetView installs a view adjustment directly, clamping the zoom.
func (c *Composer) SetView(v session.ViewState) {
	c.controller.SetView(v)
}

// CanExport reports whether the active template's artwork has decoded;
// export stays disabled until then.
func (c *Composer) CanExport() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasTemplate && c.state.TemplateImage != nil
}

// Render composes the badge at the template's native resolution.
func (c *Composer) Render() (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasTemplate {
		return nil, ErrNoTemplate
	}
	c.state.SetView(c.controller.View())
	return c.renderer.Render(c.current, c.state)
}

// RenderDebug renders the badge with the photo and name windows
// outlined.
func (c *Composer) RenderDebug() (image.Image, error) {
	img, err := c.Render()
	if err != nil {
		return nil, err
	}
	tmpl, err := c.Current()
	if err != nil {
		return nil, err
	}
	return render.DebugOverlay(img, tmpl), nil
}

// ExportPNG renders the badge and writes PNG bytes. It fails with
// render.ErrNoTemplateImage while no template artwork is loaded.
func (c *Composer) ExportPNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasTemplate {
		return ErrNoTemplate
	}
	c.state.SetView(c.controller.View())
	return c.renderer.ExportPNG(w, c.current, c.state)
}

// ExportFilename returns the download name for the active template,
// "{templateId}-badge.png".
func (c *Composer) ExportFilename() string {
	tmpl, err := c.Current()
	if err != nil {
		return "badge.png"
	}
	return render.ExportFilename(tmpl)
}

// updateControllerLocked re-maps the photo window onto the freshly
// decoded template's native size. Callers hold c.mu.
func (c *Composer) updateControllerLocked() {
	if !c.hasTemplate || c.state.TemplateImage == nil {
		return
	}
	b := c.state.TemplateImage.Bounds()
	c.controller.SetWindow(geometry.Map(b.Dx(), b.Dy(), c.current.PhotoWindow))
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
