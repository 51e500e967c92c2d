package cmsui

import "github.com/goliatone/go-cms-ui/internal/runtimeconfig"

var (
	ErrBaseNodeTypeRequired         = runtimeconfig.ErrBaseNodeTypeRequired
	ErrDocumentRoleRequired         = runtimeconfig.ErrDocumentRoleRequired
	ErrPersonalWorkspaceRequired    = runtimeconfig.ErrPersonalWorkspaceRequired
	ErrStorageProviderUnknown       = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown         = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired           = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid              = runtimeconfig.ErrCacheTTLInvalid
	ErrUILocaleRequired             = runtimeconfig.ErrUILocaleRequired
	ErrHTTPBasePathInvalid          = runtimeconfig.ErrHTTPBasePathInvalid
	ErrImporterFeatureRequired      = runtimeconfig.ErrImporterFeatureRequired
	ErrImporterContentDirRequired   = runtimeconfig.ErrImporterContentDirRequired
	ErrImporterWorkspaceRequired    = runtimeconfig.ErrImporterWorkspaceRequired
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
	ErrNavigationRouteConfigMissing = runtimeconfig.ErrNavigationRouteConfigMissing
)

type (
	Config           = runtimeconfig.Config
	NodeTreeConfig   = runtimeconfig.NodeTreeConfig
	WorkspaceConfig  = runtimeconfig.WorkspaceConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	I18NConfig       = runtimeconfig.I18NConfig
	HTTPConfig       = runtimeconfig.HTTPConfig
	ImporterConfig   = runtimeconfig.ImporterConfig
	Features         = runtimeconfig.Features
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
