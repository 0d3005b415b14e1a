package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/cosmic-development/cosmic/templates"
)

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"main/index.html.twig":  {Data: []byte(`<h1>Hello, {{ name }}!</h1>`)},
		"main/shout.html.twig":  {Data: []byte(`<p>{{ upper(name) }}</p>`)},
		"main/broken.html.twig": {Data: []byte(`<p>{{ missing }}</p>`)},
		"notes.txt.twig":        {Data: []byte(`{{ name }}`)},
	}
}

func TestEngine_RendersVariable(t *testing.T) {
	e := NewEngine(testTemplates())

	var buf bytes.Buffer
	err := e.Render(context.Background(), &buf, "main/index.html.twig", RenderContext{"name": "Raziel Rodrigues"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "<h1>Hello, Raziel Rodrigues!</h1>" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestEngine_EscapesHTMLTemplates(t *testing.T) {
	e := NewEngine(testTemplates())

	var buf bytes.Buffer
	if err := e.Render(context.Background(), &buf, "main/index.html.twig", RenderContext{"name": "<b>x</b>"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "<b>") {
		t.Errorf("expected value to be escaped, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "&lt;b&gt;") {
		t.Errorf("expected escaped markup, got %q", buf.String())
	}
}

func TestEngine_TextTemplatesAreNotEscaped(t *testing.T) {
	e := NewEngine(testTemplates())

	var buf bytes.Buffer
	if err := e.Render(context.Background(), &buf, "notes.txt.twig", RenderContext{"name": "<b>"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "<b>" {
		t.Errorf("expected raw text output, got %q", buf.String())
	}
}

func TestEngine_HelperFunctions(t *testing.T) {
	e := NewEngine(testTemplates())

	var buf bytes.Buffer
	if err := e.Render(context.Background(), &buf, "main/shout.html.twig", RenderContext{"name": "Raziel"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "<p>RAZIEL</p>" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	e := NewEngine(testTemplates())

	err := e.Render(context.Background(), &bytes.Buffer{}, "main/missing.html.twig", RenderContext{"name": "x"})
	if !IsNotFoundError(err) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestEngine_BuildErrorIsTemplateError(t *testing.T) {
	e := NewEngine(testTemplates())

	err := e.Render(context.Background(), &bytes.Buffer{}, "main/broken.html.twig", RenderContext{"name": "x"})
	var te *TemplateError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TemplateError, got %T: %v", err, err)
	}
	if te.Name != "main/broken.html.twig" {
		t.Errorf("unexpected template name %q", te.Name)
	}
	if IsNotFoundError(err) {
		t.Error("build error must not read as not found")
	}
}

func TestEngine_CachesAndInvalidates(t *testing.T) {
	fsys := testTemplates()
	e := NewEngine(fsys)

	first, err := e.Build("main/index.html.twig", "name")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Build("main/index.html.twig", "name")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected cached template to be reused")
	}

	fsys["main/index.html.twig"] = &fstest.MapFile{Data: []byte(`<h2>{{ name }}</h2>`)}
	e.Invalidate()

	var buf bytes.Buffer
	if err := e.Render(context.Background(), &buf, "main/index.html.twig", RenderContext{"name": "x"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<h2>x</h2>" {
		t.Errorf("expected rebuilt template, got %q", buf.String())
	}
}

func TestEngine_CacheKeyIncludesVariables(t *testing.T) {
	e := NewEngine(testTemplates())

	a, err := e.Build("main/index.html.twig", "name")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Build("main/index.html.twig", "name", "title")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("expected a distinct build for a different variable set")
	}
}

func TestEngine_Templates(t *testing.T) {
	e := NewEngine(testTemplates())

	names, err := e.Templates()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 4 {
		t.Errorf("expected 4 templates, got %v", names)
	}
}

func TestEngine_EmbeddedDefaults(t *testing.T) {
	e := NewEngine(templates.FS)

	var buf bytes.Buffer
	if err := e.Render(context.Background(), &buf, "main/index.html.twig", RenderContext{"name": "Raziel Rodrigues"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Raziel Rodrigues") {
		t.Errorf("expected name in output, got %q", buf.String())
	}
}

func TestOpenTemplates(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "main"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main", "index.html.twig"), []byte(`disk {{ name }}`), 0644); err != nil {
		t.Fatal(err)
	}

	fsys, onDisk := OpenTemplates(dir, templates.FS)
	if !onDisk {
		t.Fatal("expected existing directory to be used")
	}

	var buf bytes.Buffer
	if err := NewEngine(fsys).Render(context.Background(), &buf, "main/index.html.twig", RenderContext{"name": "x"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "disk x" {
		t.Errorf("expected disk template, got %q", buf.String())
	}

	_, onDisk = OpenTemplates(filepath.Join(dir, "nope"), templates.FS)
	if onDisk {
		t.Error("expected fallback for a missing directory")
	}
}

func TestTemplateFS_Format(t *testing.T) {
	tests := map[string]string{
		"main/index.html.twig": "HTML",
		"page.htm":             "HTML",
		"styles.css.twig":      "CSS",
		"app.js.twig":          "JavaScript",
		"data.json.twig":       "JSON",
		"readme.md.twig":       "Markdown",
		"notes.txt.twig":       "text",
		"plain.twig":           "text",
	}

	fsys := templateFS{testTemplates()}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := fsys.Format(name)
			if err != nil {
				t.Fatal(err)
			}
			if got.String() != want {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}
