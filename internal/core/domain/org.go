package domain

import (
	"fmt"
	"strings"
	"time"
)

// ErrOrgNotFound is returned when an organization cannot be found.
var ErrOrgNotFound = fmt.Errorf("organization not found")

// Organization describes one entry of the organization directory.
// LogoURL is the locator of the organization's logo; an empty LogoURL
// means the organization has no logo configured.
type Organization struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	LogoURL string `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
}

// DirectoryHealth describes the health of an organization directory
// for monitoring endpoints.
type DirectoryHealth struct {
	IsFresh         bool
	LastSuccessTime time.Time
	LastError       error
	OrgCount        int
}

// MatchesSearch reports whether the organization matches a case-insensitive
// search term across ID and Name. An empty query matches everything.
func MatchesSearch(org *Organization, query string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	if strings.Contains(strings.ToLower(org.ID), query) {
		return true
	}
	return strings.Contains(strings.ToLower(org.Name), query)
}

// MatchesIDPattern reports whether an organization ID matches a glob-like
// pattern: "*substring*", "prefix*", "*suffix", or an exact value.
// An empty pattern or "*" matches everything.
func MatchesIDPattern(id, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") && len(pattern) > 2 {
		return strings.Contains(id, pattern[1:len(pattern)-1])
	}

	if strings.HasSuffix(pattern, "*") && !strings.HasPrefix(pattern, "*") {
		return strings.HasPrefix(id, pattern[:len(pattern)-1])
	}

	if strings.HasPrefix(pattern, "*") && !strings.HasSuffix(pattern, "*") {
		return strings.HasSuffix(id, pattern[1:])
	}

	return id == pattern
}
