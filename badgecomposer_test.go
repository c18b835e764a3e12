package badgecomposer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/badgeforge/badge-composer/pkg/interaction"
	"github.com/badgeforge/badge-composer/pkg/render"
	"github.com/badgeforge/badge-composer/pkg/session"
	"github.com/badgeforge/badge-composer/pkg/template"
)

// createArtwork creates template artwork at the given size
func createArtwork(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{40, 40, 80, 255})
		}
	}
	return img
}

// createPhoto creates a uniformly red user photo
func createPhoto(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	return img
}

func newReadyComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := c.SelectTemplate("speaking"); err != nil {
		t.Fatalf("SelectTemplate failed: %v", err)
	}
	c.SetTemplateImage(createArtwork(980))
	return c
}

func TestNew(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if len(c.Templates()) != 2 {
		t.Errorf("expected 2 templates, got %d", len(c.Templates()))
	}
	if c.Controller() == nil {
		t.Error("controller is nil")
	}
}

func TestSelectTemplateUnknown(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := c.SelectTemplate("nonexistent"); err == nil {
		t.Error("expected error for unknown template id")
	}
}

func TestNoTemplateSelected(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := c.Render(); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("Render err = %v, want ErrNoTemplate", err)
	}
	if c.CanExport() {
		t.Error("export must be disabled with no template")
	}
	if got := c.ExportFilename(); got != "badge.png" {
		t.Errorf("fallback filename = %q, want badge.png", got)
	}
}

func TestExportGatedOnTemplateImage(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := c.SelectTemplate("speaking"); err != nil {
		t.Fatalf("SelectTemplate failed: %v", err)
	}

	// Selected but artwork not yet decoded: still disabled.
	if c.CanExport() {
		t.Error("export must stay disabled until the artwork decodes")
	}
	var buf bytes.Buffer
	if err := c.ExportPNG(&buf); !errors.Is(err, render.ErrNoTemplateImage) {
		t.Errorf("ExportPNG err = %v, want ErrNoTemplateImage", err)
	}

	c.SetTemplateImage(createArtwork(980))
	if !c.CanExport() {
		t.Error("export should be enabled once the artwork is installed")
	}
}

func TestExportPNG(t *testing.T) {
	c := newReadyComposer(t)
	c.SetPhoto(createPhoto(400, 300))
	c.SetName("Ada Lovelace")

	var buf bytes.Buffer
	if err := c.ExportPNG(&buf); err != nil {
		t.Fatalf("ExportPNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("exported bytes are not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 980 || img.Bounds().Dy() != 980 {
		t.Errorf("exported %dx%d, want 980x980", img.Bounds().Dx(), img.Bounds().Dy())
	}

	if got := c.ExportFilename(); got != "speaking-badge.png" {
		t.Errorf("ExportFilename = %q, want speaking-badge.png", got)
	}
}

func TestTemplateSwitchResetsAdjustments(t *testing.T) {
	c := newReadyComposer(t)
	c.SetPhoto(createPhoto(400, 300))
	c.SetViewport(interaction.Viewport{CanvasW: 980, CanvasH: 980, DisplayW: 980, DisplayH: 980})

	ctrl := c.Controller()
	ctrl.PointerDown(interaction.Pointer{X: 700, Y: 500})
	ctrl.PointerMove(interaction.Pointer{X: 720, Y: 520})
	ctrl.Wheel(interaction.Pointer{X: 700, Y: 500}, -1)

	if view := c.View(); view.Zoom == 1 && view.Offset.DX == 0 {
		t.Fatal("test setup should have adjusted the view")
	}

	if err := c.SelectTemplate("attending"); err != nil {
		t.Fatalf("SelectTemplate failed: %v", err)
	}

	if view := c.View(); view != session.DefaultView() {
		t.Errorf("view after template switch = %+v, want %+v", view, session.DefaultView())
	}
	if ctrl.Panning() {
		t.Error("template switch must cancel an in-progress pan")
	}
	if c.CanExport() {
		t.Error("the new template's artwork is not loaded yet")
	}
}

func TestPhotoReplaceResetsView(t *testing.T) {
	c := newReadyComposer(t)
	c.SetView(session.ViewState{Zoom: 2, Offset: session.Offset{DX: 40, DY: -20}})

	c.SetPhoto(createPhoto(400, 300))

	if view := c.View(); view != session.DefaultView() {
		t.Errorf("view after photo replace = %+v, want %+v", view, session.DefaultView())
	}
	if !c.HasPhoto() {
		t.Error("photo should be loaded")
	}
}

func TestLoadPhotoFailureRevertsToNoPhoto(t *testing.T) {
	c := newReadyComposer(t)
	c.SetPhoto(createPhoto(400, 300))

	if err := c.LoadPhoto("/nonexistent/path/photo.jpg"); err == nil {
		t.Error("expected an error for a missing photo")
	}
	if c.HasPhoto() {
		t.Error("a failed photo load must revert to the no-photo state")
	}

	// The badge still renders, template-only.
	if _, err := c.Render(); err != nil {
		t.Errorf("Render after failed photo load: %v", err)
	}
}

func TestLoadPhotoReader(t *testing.T) {
	c := newReadyComposer(t)

	var buf bytes.Buffer
	if err := png.Encode(&buf, createPhoto(60, 40)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := c.LoadPhotoReader(&buf); err != nil {
		t.Fatalf("LoadPhotoReader failed: %v", err)
	}
	if !c.HasPhoto() {
		t.Error("photo should be loaded from the reader")
	}
}

func TestSetNameBounded(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxNameLength = 4
	c, err := NewWithOptions(opts)
	if err != nil {
		t.Fatalf("NewWithOptions failed: %v", err)
	}

	c.SetName("Alexandria")
	if got := c.Name(); got != "Alex" {
		t.Errorf("name = %q, want %q", got, "Alex")
	}
}

func TestRenderUsesControllerView(t *testing.T) {
	c := newReadyComposer(t)
	c.SetPhoto(createPhoto(400, 300))
	c.SetViewport(interaction.Viewport{CanvasW: 980, CanvasH: 980, DisplayW: 980, DisplayH: 980})

	// Zoom in through the controller; a pixel just outside the window's
	// photo coverage shifts compared to zoom 1.
	base, err := c.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		c.Controller().Wheel(interaction.Pointer{X: 700, Y: 500}, -1)
	}
	zoomed, err := c.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if base.Bounds() != zoomed.Bounds() {
		t.Errorf("zoom must not change the render target size")
	}
	if got := c.View().Zoom; got != 1.5 {
		t.Errorf("zoom = %v, want 1.5", got)
	}
}

func TestRenderDebug(t *testing.T) {
	c := newReadyComposer(t)
	img, err := c.RenderDebug()
	if err != nil {
		t.Fatalf("RenderDebug failed: %v", err)
	}
	if img.Bounds().Dx() != 980 {
		t.Errorf("debug render width = %d, want 980", img.Bounds().Dx())
	}
}

// writeArtworkFile encodes synthetic artwork to a PNG on disk so async
// loads have something real to decode.
func writeArtworkFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, createArtwork(size)); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func TestTemplateSwitchDiscardsPendingLoad(t *testing.T) {
	dir := t.TempDir()
	window := template.Builtin()[0].PhotoWindow
	nameWin := template.Builtin()[0].NameWindow
	opts := DefaultOptions()
	opts.Templates = []template.Template{
		{ID: "a", Title: "A", Asset: writeArtworkFile(t, dir, "a.png", 980),
			PhotoWindow: window, NameWindow: nameWin},
		{ID: "b", Title: "B", Asset: filepath.Join(dir, "missing.png"),
			PhotoWindow: window, NameWindow: nameWin},
	}
	c, err := NewWithOptions(opts)
	if err != nil {
		t.Fatalf("NewWithOptions failed: %v", err)
	}

	if err := c.SelectTemplate("a"); err != nil {
		t.Fatalf("SelectTemplate failed: %v", err)
	}
	done := c.LoadTemplateAssetAsync()

	// Switch before the load resolves. Whatever the load's timing, the
	// first template's artwork must never surface as the second's.
	if err := c.SelectTemplate("b"); err != nil {
		t.Fatalf("SelectTemplate failed: %v", err)
	}
	<-done

	if c.CanExport() {
		t.Error("export is enabled with artwork from a superseded template load")
	}
	if _, err := c.Render(); !errors.Is(err, render.ErrNoTemplateImage) {
		t.Errorf("Render err = %v, want ErrNoTemplateImage", err)
	}
}

func TestReselectSameTemplateKeepsState(t *testing.T) {
	c := newReadyComposer(t)
	c.SetPhoto(createPhoto(400, 300))
	c.SetView(session.ViewState{Zoom: 2, Offset: session.Offset{DX: 30, DY: -10}})

	if err := c.SelectTemplate("speaking"); err != nil {
		t.Fatalf("SelectTemplate failed: %v", err)
	}

	if !c.CanExport() {
		t.Error("re-selecting the active template must keep its artwork")
	}
	if view := c.View(); view.Zoom != 2 || view.Offset.DX != 30 {
		t.Errorf("view after same-template reselect = %+v, want it unchanged", view)
	}
}

func TestAsyncTemplateLoadFailureKeepsExportDisabled(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := c.SelectTemplate("speaking"); err != nil {
		t.Fatalf("SelectTemplate failed: %v", err)
	}

	// The built-in asset paths do not exist in the test environment, so
	// the load fails and the composer stays in the absent-image state.
	if err := <-c.LoadTemplateAssetAsync(); err == nil {
		t.Error("expected the asset load to fail")
	}
	if c.CanExport() {
		t.Error("a failed template load must leave export disabled")
	}
}
