package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/open2b/scriggo"
	"github.com/open2b/scriggo/native"
	"github.com/yuin/goldmark"
)

// RenderContext maps template variable names to their values for one render.
type RenderContext map[string]string

// Renderer turns a template name and a render context into output.
type Renderer interface {
	Render(ctx context.Context, out io.Writer, name string, vars RenderContext) error
}

// helperFuncs are the sprig string helpers exposed to every template.
var helperFuncs = []string{"upper", "lower", "title", "trim", "trimSuffix", "trimPrefix", "nospace", "initials", "abbrev", "repeat"}

// Engine renders Twig-style templates with Scriggo.
type Engine struct {
	fsys    templateFS
	helpers native.Declarations

	mu    sync.RWMutex
	cache map[string]*scriggo.Template
}

func NewEngine(fsys fs.FS) *Engine {
	funcs := sprig.GenericFuncMap()
	helpers := make(native.Declarations, len(helperFuncs))
	for _, name := range helperFuncs {
		if fn, ok := funcs[name]; ok {
			helpers[name] = fn
		}
	}
	return &Engine{
		fsys:    templateFS{fsys},
		helpers: helpers,
		cache:   make(map[string]*scriggo.Template),
	}
}

// OpenTemplates returns dir as a file system when it exists on disk, and
// fallback otherwise. The boolean reports whether dir was used.
func OpenTemplates(dir string, fallback fs.FS) (fs.FS, bool) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), true
		}
	}
	return fallback, false
}

func (e *Engine) Render(ctx context.Context, out io.Writer, name string, vars RenderContext) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}

	tmpl, err := e.Build(name, keys...)
	if err != nil {
		return err
	}

	values := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		values[k] = v
	}

	if err := tmpl.Run(out, values, &scriggo.RunOptions{Context: ctx}); err != nil {
		return &TemplateError{Name: name, Err: err}
	}
	return nil
}

// Build compiles the named template with the given variable names declared
// as strings. Compiled templates are cached until Invalidate is called.
func (e *Engine) Build(name string, vars ...string) (*scriggo.Template, error) {
	sort.Strings(vars)
	key := name + "\x00" + strings.Join(vars, "\x00")

	e.mu.RLock()
	tmpl, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	globals := make(native.Declarations, len(e.helpers)+len(vars))
	for k, v := range e.helpers {
		globals[k] = v
	}
	for _, v := range vars {
		globals[v] = (*string)(nil)
	}

	tmpl, err := scriggo.BuildTemplate(e.fsys, name, &scriggo.BuildOptions{
		Globals:           globals,
		MarkdownConverter: markdownToHTML,
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return nil, &TemplateError{Name: name, Err: err}
	}

	e.mu.Lock()
	e.cache[key] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}

// Invalidate drops every compiled template.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.cache = make(map[string]*scriggo.Template)
	e.mu.Unlock()
}

// Templates lists the template files in the engine's file system.
func (e *Engine) Templates() ([]string, error) {
	var names []string
	err := fs.WalkDir(e.fsys.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".twig") {
			names = append(names, p)
		}
		return nil
	})
	return names, err
}

func markdownToHTML(src []byte, out io.Writer) error {
	return goldmark.Convert(src, out)
}

// templateFS derives a file's format from its name with any ".twig" suffix
// removed, so "index.html.twig" is treated as HTML.
type templateFS struct {
	fs.FS
}

func (t templateFS) Format(name string) (scriggo.Format, error) {
	switch path.Ext(strings.TrimSuffix(name, ".twig")) {
	case ".html", ".htm":
		return scriggo.FormatHTML, nil
	case ".css":
		return scriggo.FormatCSS, nil
	case ".js":
		return scriggo.FormatJS, nil
	case ".json":
		return scriggo.FormatJSON, nil
	case ".md", ".mkd", ".markdown":
		return scriggo.FormatMarkdown, nil
	}
	return scriggo.FormatText, nil
}
