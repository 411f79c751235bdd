package server

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/vango-dev/enhance"
	"github.com/vango-dev/enhance/internal/dev"
	"github.com/vango-dev/enhance/pkg/expand"
	"github.com/vango-dev/enhance/pkg/transcode"
)

var pages = fstest.MapFS{
	"index.html":         {Data: []byte(`<html><body><x-greet>home</x-greet></body></html>`)},
	"about.html":         {Data: []byte(`<x-greet>about</x-greet>`)},
	"docs/index.html":    {Data: []byte(`<p>docs</p>`)},
	"broken.html":        {Data: []byte(`<x-missing></x-missing>`)},
	"large.html":         {Data: []byte(`<p>` + strings.Repeat("enhance ", 400) + `</p>`)},
	"site.css":           {Data: []byte(`body{margin:0}`)},
	"js/app.0a1b2c3d.js": {Data: []byte(`console.log(1)`)},
}

func newEnhancer(t *testing.T) *enhance.Enhancer {
	t.Helper()
	e, err := enhance.New(enhance.WithElements(expand.Registry{
		"x-greet": func(transcode.Markup, *expand.State) (string, error) {
			return `<p>hi <slot></slot></p>`, nil
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func newTestServer(t *testing.T, cfg *Config) *Server {
	t.Helper()
	if cfg.Pages == nil {
		cfg.Pages = pages
	}
	s, err := New(newEnhancer(t), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Pages(t *testing.T) {
	s := newTestServer(t, &Config{})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, `<x-greet enhanced="✨"><p>hi home</p></x-greet>`},
		{"/about", http.StatusOK, `<p>hi about</p>`},
		{"/about.html", http.StatusOK, `<p>hi about</p>`},
		{"/docs", http.StatusOK, `<p>docs</p>`},
		{"/docs/", http.StatusOK, `<p>docs</p>`},
		{"/nope", http.StatusNotFound, ""},
		{"/../index", http.StatusOK, `hi home`},
		{"/broken", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestServer_RenderErrorHidden(t *testing.T) {
	s := newTestServer(t, &Config{})

	rec := get(t, s, "/broken")
	if strings.Contains(rec.Body.String(), "E001") {
		t.Errorf("error details leaked outside dev mode: %q", rec.Body.String())
	}
}

func TestServer_Metrics(t *testing.T) {
	withMetrics := newTestServer(t, &Config{
		Metrics: true,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "metrics")
		}),
	})
	if rec := get(t, withMetrics, "/metrics"); rec.Body.String() != "metrics" {
		t.Errorf("/metrics body = %q", rec.Body.String())
	}

	without := newTestServer(t, &Config{})
	if rec := get(t, without, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("/metrics status = %d without metrics, want 404", rec.Code)
	}
}

func TestServer_Compression(t *testing.T) {
	s := newTestServer(t, &Config{
		Compression: CompressionConfig{Enabled: true, Level: "best", MinSize: 200},
	})

	rec := get(t, s, "/large", "Accept-Encoding", "gzip")
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "enhance enhance") {
		t.Errorf("decompressed body = %q", body)
	}

	if rec := get(t, s, "/about", "Accept-Encoding", "gzip"); rec.Header().Get("Content-Encoding") != "" {
		t.Error("small response compressed")
	}
}

func TestServer_DevInjectsReloadScript(t *testing.T) {
	live, err := dev.NewLive(dev.LiveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer live.Stop()

	s := newTestServer(t, &Config{Live: live})
	rec := get(t, s, "/")
	if !strings.Contains(rec.Body.String(), dev.ReloadPath) {
		t.Errorf("reload script missing: %q", rec.Body.String())
	}
	if !strings.HasSuffix(rec.Body.String(), "</body></html>") {
		t.Errorf("script not placed inside body: %q", rec.Body.String())
	}

	if rec := get(t, s, "/broken"); !strings.Contains(rec.Body.String(), "E001") {
		t.Errorf("dev error body = %q, want error code", rec.Body.String())
	}
}

func TestServer_SetEnhancer(t *testing.T) {
	s := newTestServer(t, &Config{})

	e, err := enhance.New(enhance.WithElements(expand.Registry{
		"x-greet": func(transcode.Markup, *expand.State) (string, error) { return `<p>v2</p>`, nil },
	}))
	if err != nil {
		t.Fatal(err)
	}
	s.SetEnhancer(e)

	if rec := get(t, s, "/about"); !strings.Contains(rec.Body.String(), "<p>v2</p>") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if s.Enhancer() != e {
		t.Error("Enhancer() did not return the new enhancer")
	}
}

func TestServer_ConcurrentRequests(t *testing.T) {
	s := newTestServer(t, &Config{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rec := get(t, s, "/about"); rec.Code != http.StatusOK {
				t.Errorf("status = %d", rec.Code)
			}
		}()
	}
	wg.Wait()
}

func TestPageCandidates(t *testing.T) {
	tests := map[string]string{
		"/":          "index.html",
		"":           "index.html",
		"/a/b":       "a/b.html,a/b/index.html",
		"/a/b.html":  "a/b.html",
		"/../../etc": "etc.html,etc/index.html",
	}
	for in, want := range tests {
		if got := strings.Join(pageCandidates(in), ","); got != want {
			t.Errorf("pageCandidates(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestServer_Assets(t *testing.T) {
	s := newTestServer(t, &Config{})

	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
		wantCache  string
	}{
		{"/site.css", http.StatusOK, "body{margin:0}", "public, max-age=3600, must-revalidate"},
		{"/js/app.0a1b2c3d.js", http.StatusOK, "console.log(1)", "public, max-age=31536000, immutable"},
		{"/missing.css", http.StatusNotFound, "", ""},
		{"/about.html", http.StatusOK, "<p>hi about</p>", "no-cache"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantCache != "" && rec.Header().Get("Cache-Control") != tt.wantCache {
				t.Errorf("Cache-Control = %q, want %q", rec.Header().Get("Cache-Control"), tt.wantCache)
			}
		})
	}
}

func TestAssetPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"/site.css", "site.css", true},
		{"/img/logo.png", "img/logo.png", true},
		{"/", "", false},
		{"/about", "", false},
		{"/index.html", "", false},
		{"/../secret.css", "", false},
		{"/img/./logo.png", "", false},
		{"//etc/passwd.txt", "", false},
		{"/a\\b.css", "", false},
		{"/a\x00.css", "", false},
	}
	for _, tt := range tests {
		got, ok := assetPath(tt.url)
		if got != tt.want || ok != tt.ok {
			t.Errorf("assetPath(%q) = %q, %v; want %q, %v", tt.url, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsFingerprinted(t *testing.T) {
	for name, want := range map[string]bool{
		"app.0a1b2c3d.js": true,
		"app.js":          false,
		"app.min.js":      false,
		"app.abcdefgz.js": false,
	} {
		if got := isFingerprinted(name); got != want {
			t.Errorf("isFingerprinted(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestServer_ShutdownWhileRunStarts(t *testing.T) {
	s := newTestServer(t, &Config{Address: "127.0.0.1:0"})

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background())
	}()

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil after Shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	s := newTestServer(t, &Config{Address: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
