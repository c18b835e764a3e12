package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/badgeforge/badge-composer"
	"github.com/badgeforge/badge-composer/internal/config"
	"github.com/badgeforge/badge-composer/internal/utils"
	"github.com/badgeforge/badge-composer/pkg/compositor"
	"github.com/badgeforge/badge-composer/pkg/loader"
	"github.com/badgeforge/badge-composer/pkg/render"
	"github.com/badgeforge/badge-composer/pkg/session"
	"github.com/badgeforge/badge-composer/pkg/textfit"
)

func main() {
	var templateID, photo, name, asset, configPath, outDir string
	var zoom, dx, dy float64
	var list, debug bool
	var ext string
	var quality int
	var lossless bool

	flag.StringVar(&templateID, "template", "speaking", "template id (see -list)")
	flag.StringVar(&photo, "photo", "", "photo path or URL (jpg/png/webp)")
	flag.StringVar(&name, "name", "", "name to draw on the badge")
	flag.StringVar(&asset, "asset", "", "override the template artwork path or URL")
	flag.StringVar(&configPath, "config", "", "config file (JSON); defaults to the user config if present")
	flag.StringVar(&outDir, "out", ".", "output directory")

	flag.Float64Var(&zoom, "zoom", 1.0, "photo zoom (1..3, on top of cover-fit)")
	flag.Float64Var(&dx, "dx", 0, "photo pan offset X in pixels")
	flag.Float64Var(&dy, "dy", 0, "photo pan offset Y in pixels")

	flag.BoolVar(&list, "list", false, "list templates and exit")
	flag.BoolVar(&debug, "debug", false, "also write an overlay marking the photo and name windows")

	flag.StringVar(&ext, "ext", "", "output format: png|jpg|webp (default from config, normally png)")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100, default from config)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless mode")

	flag.Parse()

	cfg := config.Default()
	if configPath == "" {
		if p := config.GetConfigPath(); utils.FileExists(p) {
			configPath = p
		}
	}
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if ext == "" {
		ext = cfg.Output.Format
	}
	if quality == 0 {
		quality = cfg.Output.Quality
	}

	composer, err := badgecomposer.NewWithOptions(optionsFromConfig(cfg))
	if err != nil {
		log.Fatal(err)
	}

	if list {
		for _, t := range composer.Templates() {
			fmt.Printf("%-12s %s (photo %dx%d, name %dx%d)\n",
				t.ID, t.Title, t.PhotoWindow.W, t.PhotoWindow.H, t.NameWindow.W, t.NameWindow.H)
		}
		return
	}

	ld := loader.New()

	if err := composer.SelectTemplate(templateID); err != nil {
		log.Fatal(err)
	}
	if asset != "" {
		img, err := ld.OpenSmart(asset)
		if err != nil {
			log.Fatalf("load artwork %s: %v", asset, err)
		}
		composer.SetTemplateImage(img)
	} else if err := composer.LoadTemplateAsset(); err != nil {
		log.Fatal(err)
	}

	if photo != "" {
		if !strings.Contains(photo, "://") {
			if !utils.FileExists(photo) {
				log.Fatalf("photo not found: %s", photo)
			}
			if !utils.IsImageFile(photo) {
				log.Fatalf("not an image file: %s", photo)
			}
		}
		if err := composer.LoadPhoto(photo); err != nil {
			log.Printf("photo unusable, rendering without it: %v", err)
		}
	}
	composer.SetName(name)
	composer.SetView(session.ViewState{Zoom: zoom, Offset: session.Offset{DX: dx, DY: dy}})

	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	img, err := composer.Render()
	if err != nil {
		log.Fatal(err)
	}

	base := strings.TrimSuffix(composer.ExportFilename(), ".png")
	outPath := filepath.Join(outDir, fmt.Sprintf("%s.%s", base, strings.ToLower(ext)))
	if err := ld.Save(img, outPath, ext, quality, lossless); err != nil {
		log.Fatalf("save %s: %v", outPath, err)
	}
	log.Printf("wrote %s", outPath)

	if debug {
		tmpl, err := composer.Current()
		if err != nil {
			log.Fatal(err)
		}
		dbg := render.DebugOverlay(img, tmpl)
		dbgPath := filepath.Join(outDir, fmt.Sprintf("%s_debug.png", base))
		if err := ld.Save(dbg, dbgPath, "png", quality, false); err != nil {
			log.Printf("debug save failed: %v", err)
		} else {
			log.Printf("wrote %s", dbgPath)
		}
	}
}

func optionsFromConfig(cfg *config.Config) badgecomposer.Options {
	opts := badgecomposer.DefaultOptions()
	opts.Templates = cfg.TemplateList()
	opts.Compositor = compositor.Config{
		CornerRadius: cfg.Compositor.CornerRadius,
		BorderWidth:  cfg.Compositor.BorderWidth,
	}
	opts.Text = textfit.Config{
		HeightRatio:   cfg.Text.HeightRatio,
		MaxWidthRatio: cfg.Text.MaxWidthRatio,
		SizeStep:      cfg.Text.SizeStep,
		MinSize:       cfg.Text.MinSize,
		LineSpacing:   cfg.Text.LineSpacing,
	}
	opts.MaxNameLength = cfg.Text.MaxNameLength
	if cfg.Text.FontPath != "" {
		if data, err := os.ReadFile(cfg.Text.FontPath); err != nil {
			log.Printf("Warning: font %q unavailable, using default: %v", cfg.Text.FontPath, err)
		} else {
			opts.FontTTF = data
		}
	}
	return opts
}
