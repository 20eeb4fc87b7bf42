package ports

import "github.com/philiph/orglogo/internal/core/domain"

// OrganizationStore is the port interface for the organization directory.
// It supplies each organization's logo locator (possibly none).
type OrganizationStore interface {
	// GetOrganization returns the organization with the given ID,
	// or domain.ErrOrgNotFound.
	GetOrganization(id string) (*domain.Organization, error)

	// ListOrganizations returns all organizations matching an optional
	// search term (see domain.MatchesSearch).
	ListOrganizations(filter string) ([]domain.Organization, error)

	// Health returns directory health for monitoring.
	Health() domain.DirectoryHealth
}
