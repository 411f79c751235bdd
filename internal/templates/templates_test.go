package templates

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/enhance"
	"github.com/vango-dev/enhance/internal/config"
	"github.com/vango-dev/enhance/internal/errors"
	"github.com/vango-dev/enhance/pkg/elements"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"minimal", false},
		{"full", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				if !errors.Is(err, errors.New("E043")) {
					t.Errorf("err = %v, want E043", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %q, want %q", tmpl.Name, tt.name)
			}
			if tmpl.Description == "" {
				t.Error("Template should have a description")
			}
		})
	}
}

func TestList(t *testing.T) {
	if diff := cmp.Diff([]string{"full", "minimal"}, List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplate_Create_Minimal(t *testing.T) {
	dir := t.TempDir()

	tmpl, _ := Get("minimal")
	if err := tmpl.Create(dir, Config{ProjectName: "test-site", Description: "A test site"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	for _, file := range []string{"enhance.yaml", "elements/my-greeting.html", "pages/index.html"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(file))); err != nil {
			t.Errorf("File %q not created: %v", file, err)
		}
	}

	cfgFile, _ := os.ReadFile(filepath.Join(dir, "enhance.yaml"))
	if !strings.Contains(string(cfgFile), "# test-site: A test site") {
		t.Errorf("variables not substituted in enhance.yaml:\n%s", cfgFile)
	}
}

// Every scaffolded project must load and render all of its pages.
func TestTemplate_CreatedProjectsRender(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tmpl, _ := Get(name)
			if err := tmpl.Create(dir, Config{ProjectName: "demo", Description: "Demo site"}); err != nil {
				t.Fatalf("Create error: %v", err)
			}

			cfg, err := config.Load(dir)
			if err != nil {
				t.Fatalf("config.Load: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			reg, err := elements.Load(os.DirFS(cfg.ElementsPath()))
			if err != nil {
				t.Fatalf("elements.Load: %v", err)
			}
			state, err := config.LoadState(cfg.StatePath())
			if err != nil {
				t.Fatalf("LoadState: %v", err)
			}
			e, err := enhance.New(enhance.WithElements(reg), enhance.WithInitialState(state))
			if err != nil {
				t.Fatal(err)
			}

			pages, _ := filepath.Glob(filepath.Join(cfg.PagesPath(), "*.html"))
			if len(pages) == 0 {
				t.Fatal("template has no pages")
			}
			for _, page := range pages {
				src, err := os.ReadFile(page)
				if err != nil {
					t.Fatal(err)
				}
				out, err := e.RenderString(context.Background(), string(src))
				if err != nil {
					t.Fatalf("render %s: %v", filepath.Base(page), err)
				}
				if !strings.Contains(out, `enhanced="✨"`) {
					t.Errorf("%s: no element expanded:\n%s", filepath.Base(page), out)
				}
			}
		})
	}
}

func TestTemplate_Create_FullContent(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("full")
	if err := tmpl.Create(dir, Config{ProjectName: "demo", Description: "Demo site"}); err != nil {
		t.Fatal(err)
	}

	state, err := config.LoadState(filepath.Join(dir, "state.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	site, _ := state["site"].(map[string]any)
	if site["title"] != "demo" {
		t.Errorf("state site.title = %v, want demo", site["title"])
	}

	// Element actions use {{ }} and must survive project substitution.
	layout, _ := os.ReadFile(filepath.Join(dir, "elements", "site-layout.html"))
	if !strings.Contains(string(layout), "{{ .Store.site.title }}") {
		t.Errorf("element template actions were substituted:\n%s", layout)
	}
}
