package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/badgeforge/badge-composer/pkg/geometry"
)

func TestBuiltin(t *testing.T) {
	templates := Builtin()
	if len(templates) != 2 {
		t.Fatalf("expected 2 built-in templates, got %d", len(templates))
	}

	wantPhoto := geometry.Region{X: 602, Y: 443, W: 230, H: 250}
	for _, tmpl := range templates {
		if err := tmpl.Validate(); err != nil {
			t.Errorf("built-in template %s invalid: %v", tmpl.ID, err)
		}
		if diff := cmp.Diff(wantPhoto, tmpl.PhotoWindow); diff != "" {
			t.Errorf("template %s photo window mismatch (-want +got):\n%s", tmpl.ID, diff)
		}
	}

	// Both designs share geometry and differ only in identity and artwork.
	if diff := cmp.Diff(templates[0].NameWindow, templates[1].NameWindow); diff != "" {
		t.Errorf("name window mismatch between built-ins (-speaking +attending):\n%s", diff)
	}
	if templates[0].Asset == templates[1].Asset {
		t.Error("built-in templates should have distinct artwork")
	}
}

func TestValidate(t *testing.T) {
	valid := Template{
		ID:          "test",
		Title:       "Test",
		Asset:       "test.png",
		PhotoWindow: geometry.Region{X: 0, Y: 0, W: 100, H: 100},
		NameWindow:  geometry.Region{X: 0, Y: 200, W: 100, H: 50},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid template, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Template)
	}{
		{"missing id", func(tm *Template) { tm.ID = "" }},
		{"missing title", func(tm *Template) { tm.Title = "" }},
		{"zero width window", func(tm *Template) { tm.PhotoWindow.W = 0 }},
		{"negative origin", func(tm *Template) { tm.NameWindow.X = -1 }},
		{"window past baseline", func(tm *Template) { tm.PhotoWindow.X = 900; tm.PhotoWindow.W = 200 }},
	}

	for _, tt := range tests {
		tmpl := valid
		tt.mutate(&tmpl)
		if err := tmpl.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(Builtin()...)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("expected 2 templates, got %d", reg.Len())
	}

	tmpl, err := reg.Get("speaking")
	if err != nil {
		t.Fatalf("Get(speaking) failed: %v", err)
	}
	if tmpl.ID != "speaking" {
		t.Errorf("got template %s, want speaking", tmpl.ID)
	}

	if _, err := reg.Get("nonexistent"); err == nil {
		t.Error("expected error for unknown template")
	}

	ids := reg.IDs()
	if diff := cmp.Diff([]string{"attending", "speaking"}, ids); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	templates := Builtin()
	if _, err := NewRegistry(templates[0], templates[0]); err == nil {
		t.Error("expected duplicate id to be rejected")
	}
}

func TestRegistryListOrder(t *testing.T) {
	reg, err := NewRegistry(Builtin()...)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	list := reg.List()
	if list[0].ID != "speaking" || list[1].ID != "attending" {
		t.Errorf("List() should keep registration order, got %s, %s", list[0].ID, list[1].ID)
	}
}
