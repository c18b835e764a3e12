// Package interaction translates pointer and wheel input, given in
// on-screen display coordinates, into pan and zoom adjustments for the
// photo window. It is a pure state machine (Idle → Panning → Idle) with
// no dependency on any UI runtime, so the host only forwards events.
package interaction

import (
	"github.com/badgeforge/badge-composer/pkg/geometry"
	"github.com/badgeforge/badge-composer/pkg/session"
)

// WheelStep is the zoom change per wheel tick.
const WheelStep = 0.05

// Viewport relates the render canvas (native pixels) to its on-screen
// display size. Positions convert display→native by the buffer/display
// ratio before hit tests.
type Viewport struct {
	CanvasW  int
	CanvasH  int
	DisplayW float64
	DisplayH float64
}

// ToNative converts a display-space position into native canvas
// coordinates. A degenerate display size maps 1:1.
func (v Viewport) ToNative(x, y float64) (float64, float64) {
	if v.DisplayW <= 0 || v.DisplayH <= 0 {
		return x, y
	}
	return x * float64(v.CanvasW) / v.DisplayW, y * float64(v.CanvasH) / v.DisplayH
}

// Pointer is an input position in display coordinates.
type Pointer struct {
	X float64
	Y float64
}

// Controller accumulates pan and zoom state from input events. Input
// only takes effect when it originates inside the native-mapped photo
// window.
//
// Pan deltas are applied in display pixels, as received, while the
// drawn-photo geometry is in native canvas pixels; at a non-1:1
// canvas-to-display ratio the pan speed therefore does not match cursor
// movement exactly. That behavior is preserved as-is.
type Controller struct {
	window   geometry.Rect
	viewport Viewport
	view     session.ViewState

	panning bool
	lastX   float64
	lastY   float64
}

// New creates a Controller for the given photo window (native pixels)
// and viewport.
func New(window geometry.Rect, viewport Viewport) *Controller {
	return &Controller{
		window:   window,
		viewport: viewport,
		view:     session.DefaultView(),
	}
}

// SetWindow updates the native photo window, e.g. after the template
// image decodes at a different native size.
func (c *Controller) SetWindow(window geometry.Rect) {
	c.window = window
}

// SetViewport updates the display mapping, e.g. on a responsive resize.
func (c *Controller) SetViewport(viewport Viewport) {
	c.viewport = viewport
}

// View returns the accumulated view adjustment.
func (c *Controller) View() session.ViewState {
	return c.view
}

// SetView installs an externally computed view adjustment.
func (c *Controller) SetView(v session.ViewState) {
	v.Zoom = session.ClampZoom(v.Zoom)
	c.view = v
}

// Panning reports whether a pan gesture is in progress.
func (c *Controller) Panning() bool {
	return c.panning
}

// PointerDown starts a pan if the position falls inside the photo
// window. It reports whether the pointer was captured.
func (c *Controller) PointerDown(p Pointer) bool {
	nx, ny := c.viewport.ToNative(p.X, p.Y)
	if !c.window.Contains(nx, ny) {
		return false
	}
	c.panning = true
	c.lastX = p.X
	c.lastY = p.Y
	return true
}

// PointerMove accumulates the display-pixel delta from the last tracked
// point into the pan offset. Ignored while not panning.
func (c *Controller) PointerMove(p Pointer) {
	if !c.panning {
		return
	}
	c.view.Offset.DX += p.X - c.lastX
	c.view.Offset.DY += p.Y - c.lastY
	c.lastX = p.X
	c.lastY = p.Y
}

// PointerUp ends the pan and releases capture.
func (c *Controller) PointerUp() {
	c.endPan()
}

// PointerCancel ends the pan, e.g. on capture loss.
func (c *Controller) PointerCancel() {
	c.endPan()
}

// PointerLeave ends the pan when the pointer leaves mid-gesture; a
// leave while idle is a no-op.
func (c *Controller) PointerLeave() {
	if c.panning {
		c.endPan()
	}
}

func (c *Controller) endPan() {
	c.panning = false
	c.lastX = 0
	c.lastY = 0
}

// Wheel adjusts the zoom by one step per tick when the cursor is inside
// the photo window: deltaY > 0 (scrolling down) zooms out, deltaY < 0
// zooms in. The result is clamped to [1, 3] and rounded to two
// decimals. It reports whether the event was handled, so the host can
// suppress default scrolling for in-window wheel events only.
func (c *Controller) Wheel(p Pointer, deltaY float64) bool {
	nx, ny := c.viewport.ToNative(p.X, p.Y)
	if !c.window.Contains(nx, ny) {
		return false
	}
	z := c.view.Zoom
	if deltaY > 0 {
		z -= WheelStep
	} else if deltaY < 0 {
		z += WheelStep
	}
	c.view.Zoom = session.ClampZoom(z)
	return true
}

// Reset restores zoom 1 and a zero offset and cancels any in-progress
// pan. Called when the template or the photo changes so no stale
// interaction state survives a content switch.
func (c *Controller) Reset() {
	c.view = session.DefaultView()
	c.endPan()
}
