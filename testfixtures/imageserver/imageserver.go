// Package imageserver provides a test logo origin for integration
// testing. It serves small generated images and counts hits per path,
// so tests can assert exactly how often the component fetched.
package imageserver

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// SVG is a minimal valid SVG document served at /logo.svg.
const SVG = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16"><rect width="16" height="16" fill="#336699"/></svg>`

// Server is a test logo origin. Close() when done.
type Server struct {
	t   testing.TB
	srv *httptest.Server
	png []byte

	mu   sync.Mutex
	hits map[string]int
}

// New creates a new test logo origin serving:
//
//	/logo.png  - a small valid PNG
//	/logo.svg  - a small valid SVG
//	/broken    - HTTP 500
//	/missing   - HTTP 404
//	/notimage  - HTTP 200 with text/html
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		t:    t,
		png:  GeneratePNG(16, 16),
		hits: make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, r *http.Request) {
		s.countHit(r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(s.png)
	})
	mux.HandleFunc("/logo.svg", func(w http.ResponseWriter, r *http.Request) {
		s.countHit(r.URL.Path)
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		_, _ = w.Write([]byte(SVG))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		s.countHit(r.URL.Path)
		http.Error(w, "logo storage offline", http.StatusInternalServerError)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		s.countHit(r.URL.Path)
		http.NotFound(w, r)
	})
	mux.HandleFunc("/notimage", func(w http.ResponseWriter, r *http.Request) {
		s.countHit(r.URL.Path)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>Not an image</html>"))
	})
	s.srv = httptest.NewServer(mux)
	return s
}

// URL returns the full URL for a path on the origin.
func (s *Server) URL(path string) string {
	return s.srv.URL + path
}

// PNG returns the bytes served at /logo.png.
func (s *Server) PNG() []byte {
	return s.png
}

// Hits returns how often a path was requested.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Close shuts the origin down.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) countHit(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[path]++
}

// GeneratePNG renders a solid-color PNG of the given size.
func GeneratePNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("png encode: " + err.Error())
	}
	return buf.Bytes()
}
