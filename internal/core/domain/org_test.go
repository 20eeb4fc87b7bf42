package domain

import "testing"

func TestMatchesSearch(t *testing.T) {
	org := &Organization{ID: "acme-corp", Name: "ACME Corporation"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"acme", true},
		{"ACME", true},
		{"corporation", true},
		{"globex", false},
	}
	for _, tt := range tests {
		if got := MatchesSearch(org, tt.query); got != tt.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestMatchesIDPattern(t *testing.T) {
	tests := []struct {
		id      string
		pattern string
		want    bool
	}{
		{"acme-corp", "", true},
		{"acme-corp", "*", true},
		{"acme-corp", "acme-corp", true},
		{"acme-corp", "globex", false},
		{"acme-corp", "acme*", true},
		{"acme-corp", "globex*", false},
		{"acme-corp", "*corp", true},
		{"acme-corp", "*acme", false},
		{"acme-corp", "*me-co*", true},
		{"acme-corp", "*globex*", false},
	}
	for _, tt := range tests {
		if got := MatchesIDPattern(tt.id, tt.pattern); got != tt.want {
			t.Errorf("MatchesIDPattern(%q, %q) = %v, want %v", tt.id, tt.pattern, got, tt.want)
		}
	}
}
