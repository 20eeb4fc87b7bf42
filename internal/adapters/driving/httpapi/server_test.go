package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/philiph/orglogo/internal/adapters/driven/orgs"
	"github.com/philiph/orglogo/internal/core/domain"
)

// stubProvider returns a fixed logo for any non-empty locator.
type stubProvider struct {
	logo domain.EncodedLogo
}

func (s stubProvider) EncodedLogo(_ context.Context, locator string) domain.EncodedLogo {
	if locator == "" {
		return ""
	}
	return s.logo
}

func testServer(t *testing.T, logo domain.EncodedLogo) *Server {
	t.Helper()
	store := orgs.NewInMemoryStore([]domain.Organization{
		{ID: "acme", Name: "ACME Corporation", LogoURL: "https://cdn.example.com/acme.png"},
		{ID: "globex", Name: "Globex Inc"},
	})
	return NewServer(store, stubProvider{logo: logo}, zaptest.NewLogger(t))
}

func doRequest(t *testing.T, s *Server, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	return resp
}

func TestListOrgs(t *testing.T) {
	s := testServer(t, "")
	resp := doRequest(t, s, "/api/orgs")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body listOrgsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Organizations) != 2 {
		t.Errorf("organizations = %d, want 2", len(body.Organizations))
	}
}

func TestListOrgs_Search(t *testing.T) {
	s := testServer(t, "")
	resp := doRequest(t, s, "/api/orgs?q=globex")
	defer resp.Body.Close()

	var body listOrgsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Organizations) != 1 || body.Organizations[0].ID != "globex" {
		t.Errorf("organizations = %v, want [globex]", body.Organizations)
	}
}

func TestListOrgs_EmptyDirectoryIsEmptyArray(t *testing.T) {
	store := orgs.NewInMemoryStore(nil)
	s := NewServer(store, stubProvider{}, zaptest.NewLogger(t))

	resp := doRequest(t, s, "/api/orgs")
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"organizations":[]}` {
		t.Errorf("body = %s, want an empty array, not null", data)
	}
}

func TestOrgLogo_Value(t *testing.T) {
	encoded := domain.EncodeLogo([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
	s := testServer(t, encoded)

	resp := doRequest(t, s, "/api/orgs/acme/logo")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "private, max-age=300" {
		t.Errorf("Cache-Control = %q", cc)
	}
	var body logoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Logo == nil || *body.Logo != string(encoded) {
		t.Errorf("logo = %v, want %q", body.Logo, encoded)
	}
}

func TestOrgLogo_NullWhenNoLogo(t *testing.T) {
	// globex has no logo URL; the endpoint must answer 200 with an
	// explicit null, never an error.
	s := testServer(t, domain.EncodeLogo([]byte{1}, "image/png"))

	resp := doRequest(t, s, "/api/orgs/globex/logo")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"logo":null}` {
		t.Errorf("body = %s, want {\"logo\":null}", data)
	}
}

func TestOrgLogo_NullWhenFetchFails(t *testing.T) {
	// The provider normalized the failure to the empty value.
	s := testServer(t, "")

	resp := doRequest(t, s, "/api/orgs/acme/logo")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body logoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Logo != nil {
		t.Errorf("logo = %q, want null", *body.Logo)
	}
}

func TestOrgLogo_UnknownOrg(t *testing.T) {
	s := testServer(t, "")

	resp := doRequest(t, s, "/api/orgs/umbrella/logo")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body domain.JSONErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "org_not_found" {
		t.Errorf("error code = %q, want org_not_found", body.Error.Code)
	}
}

func TestOrgLogoRaw(t *testing.T) {
	original := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	s := testServer(t, domain.EncodeLogo(original, "image/png"))

	resp := doRequest(t, s, "/api/orgs/acme/logo/raw")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(original) {
		t.Error("raw bytes differ from the original image")
	}
}

func TestOrgLogoRaw_NoLogo(t *testing.T) {
	s := testServer(t, "")

	resp := doRequest(t, s, "/api/orgs/acme/logo/raw")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
