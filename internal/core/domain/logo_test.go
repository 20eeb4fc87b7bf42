package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncodeLogo_RoundTrip(t *testing.T) {
	original := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x01, 0x02, 0x03}

	encoded := EncodeLogo(original, "image/png")
	if !strings.HasPrefix(string(encoded), "data:image/png;base64,") {
		t.Fatalf("EncodeLogo() = %q, want data:image/png;base64, prefix", encoded)
	}

	data, contentType, err := encoded.Decode()
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q, want image/png", contentType)
	}
	if !bytes.Equal(data, original) {
		t.Error("decoded bytes do not round-trip")
	}
}

func TestEncodeLogo_SniffsMissingContentType(t *testing.T) {
	// A real PNG header so sniffing can identify the type
	pngHeader := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

	for _, contentType := range []string{"", "application/octet-stream"} {
		encoded := EncodeLogo(pngHeader, contentType)
		if got := encoded.ContentType(); got != "image/png" {
			t.Errorf("EncodeLogo(%q).ContentType() = %q, want image/png", contentType, got)
		}
	}
}

func TestEncodeLogo_StripsCharset(t *testing.T) {
	encoded := EncodeLogo([]byte("<svg/>"), "image/svg+xml; charset=utf-8")
	if got := encoded.ContentType(); got != "image/svg+xml" {
		t.Errorf("ContentType() = %q, want image/svg+xml", got)
	}
}

func TestEncodedLogo_IsZero(t *testing.T) {
	if !EncodedLogo("").IsZero() {
		t.Error("empty EncodedLogo should be zero")
	}
	if EncodeLogo([]byte("x"), "image/png").IsZero() {
		t.Error("non-empty EncodedLogo should not be zero")
	}
}

func TestEncodedLogo_Decode_NotDataURI(t *testing.T) {
	for _, v := range []string{"", "https://example.com/logo.png", "data:image/png,plain"} {
		_, _, err := EncodedLogo(v).Decode()
		if !errors.Is(err, ErrNotDataURI) {
			t.Errorf("Decode(%q) error = %v, want ErrNotDataURI", v, err)
		}
	}
}

func TestEncodedLogo_Decode_BadBase64(t *testing.T) {
	_, _, err := EncodedLogo("data:image/png;base64,!!!not-base64!!!").Decode()
	if err == nil {
		t.Error("Decode() should fail for invalid base64 payload")
	}
}

func TestNormalizeContentType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"image/png", "image/png"},
		{"image/png; charset=utf-8", "image/png"},
		{"  IMAGE/JPEG  ", "image/jpeg"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeContentType(tt.in); got != tt.want {
			t.Errorf("NormalizeContentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
