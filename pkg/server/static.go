package server

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// assetPath returns the sanitized pages-relative path for a static asset
// request. HTML files are pages, not assets, and are never served raw.
func assetPath(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" || path.Ext(rel) == "" || path.Ext(rel) == ".html" {
		return "", false
	}

	// %00 and backslashes never name a file under pages.
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}

	// A leading slash after trimming means "//etc/passwd" style input.
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Dot-segments are rejected before cleaning so traversal is never
	// cleaned into an innocent-looking path.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if !fs.ValidPath(clean) {
		return "", false
	}
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}
	return clean, true
}

// serveAsset serves a non-page file from the pages tree. It reports false
// when urlPath names no such file, leaving the request to page rendering.
func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) bool {
	if s.config.Pages == nil {
		return false
	}
	rel, ok := assetPath(r.URL.Path)
	if !ok {
		return false
	}

	f, err := s.config.Pages.Open(rel)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	if isFingerprinted(rel) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	} else if s.config.Live != nil {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
	}

	if rs, ok := f.(io.ReadSeeker); ok {
		http.ServeContent(w, r, rel, info.ModTime(), rs)
		return true
	}
	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return true
	}
	http.ServeContent(w, r, rel, info.ModTime(), bytes.NewReader(data))
	return true
}

// isFingerprinted reports whether the file name carries a content hash,
// as in "app.a1b2c3d4.css".
func isFingerprinted(name string) bool {
	parts := strings.Split(path.Base(name), ".")
	if len(parts) < 3 {
		return false
	}

	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
