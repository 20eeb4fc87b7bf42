package orgs

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"
)

// directoryDocument is the on-disk and on-the-wire directory format.
type directoryDocument struct {
	Organizations []domain.Organization `json:"organizations" yaml:"organizations"`
}

// FileStore loads the organization directory from a local YAML file.
type FileStore struct {
	path     string
	idFilter string
	metrics  ports.MetricsRecorder

	mu   sync.RWMutex
	orgs []domain.Organization
}

// NewFileStore creates a new FileStore.
func NewFileStore(path string, opts ...Option) *FileStore {
	options := &directoryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &FileStore{
		path:     path,
		idFilter: options.idFilter,
		metrics:  options.metrics,
	}
}

// Load reads and parses the directory file.
// This should be called during initialization.
func (s *FileStore) Load() error {
	return s.Refresh(context.Background())
}

// GetOrganization returns the organization with the given ID.
func (s *FileStore) GetOrganization(id string) (*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.orgs {
		if s.orgs[i].ID == id {
			org := s.orgs[i]
			return &org, nil
		}
	}
	return nil, domain.ErrOrgNotFound
}

// ListOrganizations returns all organizations matching the search term.
func (s *FileStore) ListOrganizations(filter string) ([]domain.Organization, error) {
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

// Refresh reloads the directory from the file.
func (s *FileStore) Refresh(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.recordRefresh(false, 0)
		return fmt.Errorf("read directory file: %w", err)
	}

	var doc directoryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		s.recordRefresh(false, 0)
		return fmt.Errorf("parse directory file: %w", err)
	}

	orgs, err := validateAndFilter(doc.Organizations, s.idFilter)
	if err != nil {
		s.recordRefresh(false, 0)
		return err
	}

	s.mu.Lock()
	s.orgs = orgs
	s.mu.Unlock()

	s.recordRefresh(true, len(orgs))
	return nil
}

// Health returns the health status of the file store.
func (s *FileStore) Health() domain.DirectoryHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DirectoryHealth{
		IsFresh:  len(s.orgs) > 0,
		OrgCount: len(s.orgs),
	}
}

func (s *FileStore) recordRefresh(success bool, count int) {
	if s.metrics != nil {
		s.metrics.RecordDirectoryRefresh("file", success, count)
	}
}

// validateAndFilter rejects entries without an ID and applies the
// optional ID filter. An active filter that matches nothing is an error,
// as it almost certainly means a misconfigured pattern.
func validateAndFilter(orgs []domain.Organization, idFilter string) ([]domain.Organization, error) {
	for i := range orgs {
		if orgs[i].ID == "" {
			return nil, fmt.Errorf("directory entry %d has no id", i)
		}
	}

	if idFilter == "" {
		return orgs, nil
	}
	var filtered []domain.Organization
	for _, org := range orgs {
		if domain.MatchesIDPattern(org.ID, idFilter) {
			filtered = append(filtered, org)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no organizations match filter pattern %q", idFilter)
	}
	return filtered, nil
}

// Ensure FileStore implements ports.OrganizationStore
var _ ports.OrganizationStore = (*FileStore)(nil)
