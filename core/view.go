package core

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"github.com/spf13/cast"
)

// RuntimeContext carries the mode a View runs in.
type RuntimeContext struct {
	Env        string
	ReloadPath string
}

// View renders templates into HTTP responses. Render failures become a 500.
type View struct {
	renderer Renderer
	config   Config
	runtime  RuntimeContext
	minifier *Minifier
}

func NewView(renderer Renderer, config Config, runtime RuntimeContext) *View {
	v := &View{renderer: renderer, config: config, runtime: runtime}
	if config.Minify {
		v.minifier = NewMinifier()
	}
	return v
}

func (v *View) Render(w http.ResponseWriter, r *http.Request, name string, vars RenderContext) {
	route := RouteKey(r.URL.Path)

	if v.cacheable() {
		if v.serveCached(w, r, route, name) {
			return
		}
	}

	var buf bytes.Buffer
	if err := v.renderer.Render(r.Context(), &buf, name, vars); err != nil {
		v.fail(w, name, err)
		return
	}
	html := buf.Bytes()

	if v.runtime.Env == "dev" && v.runtime.ReloadPath != "" {
		html = InjectReloadScript(html, v.runtime.ReloadPath)
	}

	if v.minifier != nil {
		if compact, err := v.minifier.HTML(html); err == nil {
			html = compact
		} else if v.config.DebugLogs {
			log.Printf("cosmic: minify %s: %v", name, err)
		}
	}

	if v.cacheable() {
		if err := SaveCachedHTML(v.config, route, html); err != nil {
			log.Printf("cosmic: caching %s: %v", route, err)
		} else if v.config.DebugLogs {
			log.Printf("cosmic: cached %s", route)
		}
	}

	v.writeHeaders(w, name, "MISS")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

func (v *View) cacheable() bool {
	return v.config.CacheEnabled && v.runtime.Env != "dev"
}

func (v *View) serveCached(w http.ResponseWriter, r *http.Request, route, name string) bool {
	if acceptsGzip(r) {
		if gz, ok := GetCachedGzip(v.config, route); ok {
			v.writeHeaders(w, name, "HIT")
			w.Header().Set("Content-Encoding", "gzip")
			w.WriteHeader(http.StatusOK)
			w.Write(gz)
			return true
		}
	}

	html, ok := GetCachedHTML(v.config, route)
	if !ok {
		return false
	}
	v.writeHeaders(w, name, "HIT")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
	return true
}

func (v *View) writeHeaders(w http.ResponseWriter, name, cache string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if v.cacheable() {
		w.Header().Set("Vary", "Accept-Encoding")
	}
	if v.config.DebugHeaders {
		w.Header().Set("X-Cosmic-Template", name)
		w.Header().Set("X-Cosmic-Cache", cache)
	}
}

func (v *View) fail(w http.ResponseWriter, name string, err error) {
	missing := IsNotFoundError(err)
	if missing {
		log.Printf("cosmic: template %s not found", name)
	} else {
		log.Printf("cosmic: render %s: %v", name, err)
	}

	if v.runtime.Env == "dev" {
		msg := "Template error: " + err.Error()
		if missing {
			msg = "Template not found: " + name
		}
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
}

// acceptsGzip reports whether the Accept-Encoding header allows gzip. An
// explicit gzip entry wins over "*"; q=0 refuses the coding.
func acceptsGzip(r *http.Request) bool {
	wildcard := false
	for _, header := range r.Header.Values("Accept-Encoding") {
		for _, entry := range strings.Split(header, ",") {
			coding, params, _ := strings.Cut(entry, ";")
			coding = strings.ToLower(strings.TrimSpace(coding))
			if coding != "gzip" && coding != "x-gzip" && coding != "*" {
				continue
			}

			allowed := qValue(params) > 0
			if coding == "*" {
				wildcard = allowed
				continue
			}
			return allowed
		}
	}
	return wildcard
}

func qValue(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := cast.ToFloat64E(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		return q
	}
	return 1
}
