package core

import (
	"bytes"
	"compress/gzip"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

const (
	cachedPage     = "index.html"
	cachedPageGzip = "index.html.gz"
)

// RouteKey maps a request path to its page cache directory. The root path
// is stored under "index".
func RouteKey(urlPath string) string {
	key := strings.Trim(filepath.ToSlash(filepath.Clean("/"+urlPath)), "/")
	if key == "" {
		return "index"
	}
	return key
}

// RoutePath is the inverse of RouteKey.
func RoutePath(key string) string {
	if key == "index" {
		return "/"
	}
	return "/" + key
}

func GetCachedHTML(config Config, route string) ([]byte, bool) {
	return readCached(filepath.Join(config.OutputDir, route, cachedPage))
}

func GetCachedGzip(config Config, route string) ([]byte, bool) {
	return readCached(filepath.Join(config.OutputDir, route, cachedPageGzip))
}

func readCached(cachePath string) ([]byte, bool) {
	content, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}
	return content, true
}

// SaveCachedHTML stores html and its gzip sibling for route. Both files are
// renamed into place, gzip first, so a reader that finds index.html also
// finds a complete index.html.gz.
func SaveCachedHTML(config Config, routeKey string, html []byte) error {
	outDir := filepath.Join(config.OutputDir, routeKey)
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(html); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	if err := writeAtomic(filepath.Join(outDir, cachedPageGzip), buf.Bytes()); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(outDir, cachedPage), html)
}

func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// CachedRoutes lists the route keys with a cached page under dir, in
// lexical order. A missing dir has no routes.
func CachedRoutes(dir string) ([]string, error) {
	var routes []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || d.Name() != cachedPage {
			return nil
		}
		rel, err := filepath.Rel(dir, filepath.Dir(p))
		if err != nil {
			return err
		}
		routes = append(routes, filepath.ToSlash(rel))
		return nil
	})
	slices.Sort(routes)
	return routes, err
}

// RemoveCachedRoute deletes the page and gzip sibling stored for route,
// leaving nested routes alone. The route directory is dropped once empty.
func RemoveCachedRoute(config Config, route string) error {
	outDir := filepath.Join(config.OutputDir, filepath.FromSlash(path.Clean(route)))
	for _, name := range []string{cachedPage, cachedPageGzip} {
		if err := os.Remove(filepath.Join(outDir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	entries, err := os.ReadDir(outDir)
	if err == nil && len(entries) == 0 {
		os.Remove(outDir)
	}
	return nil
}

// CountCachedPages returns the number of cached routes under dir.
func CountCachedPages(dir string) int {
	routes, _ := CachedRoutes(dir)
	return len(routes)
}
