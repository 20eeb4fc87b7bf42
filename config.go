package orglogo

import (
	"github.com/philiph/orglogo/internal/adapters/driving/httpapi"
)

// Re-export Config and related types from the HTTP adapter
type Config = httpapi.Config
type DirectoryConfig = httpapi.DirectoryConfig
type CacheConfig = httpapi.CacheConfig
type LogoConfig = httpapi.LogoConfig

var LoadConfig = httpapi.LoadConfig

// Re-export the HTTP server
type Server = httpapi.Server

var (
	NewServer   = httpapi.NewServer
	NewAdminMux = httpapi.NewAdminMux
)
