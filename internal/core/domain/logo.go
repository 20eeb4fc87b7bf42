package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotDataURI is returned when decoding a value that is not a data URI.
var ErrNotDataURI = fmt.Errorf("not a data URI")

// EncodedLogo is a self-describing textual representation of a logo image,
// in data URI form ("data:<mime>;base64,<payload>"). It can be embedded
// directly in generated documents. The zero value "" means "no logo";
// callers must treat it as "omit logo", never as an error.
type EncodedLogo string

// IsZero reports whether no logo is present.
func (e EncodedLogo) IsZero() bool {
	return e == ""
}

// ContentType returns the MIME type embedded in the data URI,
// or "" if the value is empty or malformed.
func (e EncodedLogo) ContentType() string {
	s := string(e)
	if !strings.HasPrefix(s, "data:") {
		return ""
	}
	rest := s[len("data:"):]
	if idx := strings.Index(rest, ";base64,"); idx >= 0 {
		return rest[:idx]
	}
	return ""
}

// Decode returns the original image bytes and their MIME type.
func (e EncodedLogo) Decode() ([]byte, string, error) {
	s := string(e)
	if !strings.HasPrefix(s, "data:") {
		return nil, "", ErrNotDataURI
	}
	rest := s[len("data:"):]
	idx := strings.Index(rest, ";base64,")
	if idx < 0 {
		return nil, "", ErrNotDataURI
	}
	contentType := rest[:idx]
	payload := rest[idx+len(";base64,"):]
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 payload: %w", err)
	}
	return data, contentType, nil
}

// EncodeLogo encodes raw image bytes as a data URI. When contentType is
// empty or a generic binary type, the type is sniffed from the bytes.
func EncodeLogo(data []byte, contentType string) EncodedLogo {
	contentType = NormalizeContentType(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return EncodedLogo("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// NormalizeContentType strips parameters (e.g. "; charset=utf-8") and
// surrounding whitespace from a Content-Type header value.
func NormalizeContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
