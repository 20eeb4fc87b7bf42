package orgs

import (
	"sync"

	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"
)

// InMemoryStore serves organizations from a seeded slice. Thread-safe.
type InMemoryStore struct {
	mu   sync.RWMutex
	orgs []domain.Organization
}

// NewInMemoryStore creates a new in-memory organization store.
func NewInMemoryStore(orgs []domain.Organization) *InMemoryStore {
	return &InMemoryStore{orgs: orgs}
}

// GetOrganization returns the organization with the given ID.
func (s *InMemoryStore) GetOrganization(id string) (*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.orgs {
		if s.orgs[i].ID == id {
			// Return a copy to prevent mutation
			org := s.orgs[i]
			return &org, nil
		}
	}
	return nil, domain.ErrOrgNotFound
}

// ListOrganizations returns all organizations matching the search term.
func (s *InMemoryStore) ListOrganizations(filter string) ([]domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.orgs) == 0 {
		return nil, nil
	}

	var result []domain.Organization
	for _, org := range s.orgs {
		if domain.MatchesSearch(&org, filter) {
			result = append(result, org)
		}
	}
	return result, nil
}

// SetOrganizations replaces the seeded organizations. For testing purposes.
func (s *InMemoryStore) SetOrganizations(orgs []domain.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs = orgs
}

// Health returns the health status of the in-memory store.
func (s *InMemoryStore) Health() domain.DirectoryHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DirectoryHealth{
		IsFresh:  true,
		OrgCount: len(s.orgs),
	}
}

// Ensure InMemoryStore implements ports.OrganizationStore
var _ ports.OrganizationStore = (*InMemoryStore)(nil)
