// Command testorgdir runs a standalone organization directory and logo
// origin for manual testing. Usage: go run ./cmd/testorgdir
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"net/http"
)

type organization struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

type directory struct {
	Organizations []organization `json:"organizations"`
}

func main() {
	port := flag.Int("port", 9090, "Port to listen on")
	flag.Parse()

	base := fmt.Sprintf("http://localhost:%d", *port)
	dir := directory{Organizations: []organization{
		{ID: "acme", Name: "ACME Corp", LogoURL: base + "/logos/acme.png"},
		{ID: "globex", Name: "Globex", LogoURL: base + "/logos/globex.png"},
		{ID: "initech", Name: "Initech"}, // no logo configured
		{ID: "hooli", Name: "Hooli", LogoURL: base + "/logos/broken.png"},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("/orgs.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dir)
	})
	mux.HandleFunc("/logos/acme.png", serveLogo(color.RGBA{R: 0xd0, A: 0xff}))
	mux.HandleFunc("/logos/globex.png", serveLogo(color.RGBA{B: 0xd0, A: 0xff}))
	mux.HandleFunc("/logos/broken.png", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "logo storage offline", http.StatusInternalServerError)
	})

	log.Printf("Test org directory starting on %s", base)
	log.Printf("  Directory: %s/orgs.json", base)
	log.Printf("  Logos:     %s/logos/{acme,globex,broken}.png", base)

	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// serveLogo serves a generated 32x32 solid-color PNG.
func serveLogo(c color.RGBA) http.HandlerFunc {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Fatalf("Failed to encode logo: %v", err)
	}
	data := buf.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}
}
