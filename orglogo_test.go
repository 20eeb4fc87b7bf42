package orglogo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/philiph/orglogo"
	"github.com/philiph/orglogo/testfixtures/imageserver"
)

// The public API wires the directory, the caching logo provider and the
// HTTP surface together the way the service binary does.
func TestEndToEnd(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	store := orglogo.NewInMemoryOrgStore([]orglogo.Organization{
		{ID: "acme", Name: "ACME Corporation", LogoURL: origin.URL("/logo.png")},
		{ID: "globex", Name: "Globex Inc"},
	})

	cache := orglogo.NewMemoryCache(24 * time.Hour)
	defer cache.Close()

	provider := orglogo.NewCachingProvider(
		orglogo.WithCache(cache),
		orglogo.WithFreshFor(time.Hour),
	)
	defer provider.Close()

	server := orglogo.NewServer(store, provider, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orgs/acme/logo", nil)
	resp, err := server.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Logo *string `json:"logo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Logo == nil {
		t.Fatal("logo = null, want a data URI")
	}

	data, contentType, err := orglogo.EncodedLogo(*body.Logo).Decode()
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q", contentType)
	}
	if !bytes.Equal(data, origin.PNG()) {
		t.Error("served logo differs from the origin image")
	}

	// The cache absorbed the second organization-level request.
	if hits := origin.Hits("/logo.png"); hits != 1 {
		t.Errorf("origin hits = %d, want 1", hits)
	}
}

func TestProviderDirectUse(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	provider := orglogo.NewCachingProvider()
	defer provider.Close()

	if got := provider.EncodedLogo(context.Background(), ""); got != "" {
		t.Errorf("empty locator must yield the zero value, got %q", got)
	}
	if got := provider.EncodedLogo(context.Background(), origin.URL("/broken")); got != "" {
		t.Errorf("failed fetch must yield the zero value, got %q", got)
	}
	if got := provider.EncodedLogo(context.Background(), origin.URL("/logo.svg")); got.IsZero() {
		t.Error("expected a logo")
	}
}
