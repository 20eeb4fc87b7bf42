package orglogo

import (
	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"

	"github.com/philiph/orglogo/internal/adapters/driven/orgs"
)

// Re-export organization types from domain and ports
type Organization = domain.Organization
type DirectoryHealth = domain.DirectoryHealth
type OrganizationStore = ports.OrganizationStore

// Re-export organization store adapters
type InMemoryOrgStore = orgs.InMemoryStore
type FileOrgStore = orgs.FileStore
type URLOrgStore = orgs.URLStore

var (
	NewInMemoryOrgStore       = orgs.NewInMemoryStore
	NewFileOrgStore           = orgs.NewFileStore
	NewURLOrgStore            = orgs.NewURLStore
	NewURLOrgStoreWithRefresh = orgs.NewURLStoreWithRefresh
	WithIDFilter              = orgs.WithIDFilter
	WithOrgStoreLogger        = orgs.WithLogger
	WithOnRefresh             = orgs.WithOnRefresh
)

// Re-export directory errors
var ErrOrgNotFound = domain.ErrOrgNotFound
