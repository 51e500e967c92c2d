package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrBaseNodeTypeRequired         = errors.New("ui config: base node type is required")
	ErrDocumentRoleRequired         = errors.New("ui config: document node type role is required")
	ErrStorageProviderUnknown       = errors.New("ui config: storage provider is invalid")
	ErrStorageDriverUnknown         = errors.New("ui config: storage driver is invalid")
	ErrStorageDSNRequired           = errors.New("ui config: storage dsn is required for the bun provider")
	ErrCacheTTLInvalid              = errors.New("ui config: cache ttl must be zero or positive")
	ErrUILocaleRequired             = errors.New("ui config: ui locale is required")
	ErrPersonalWorkspaceRequired    = errors.New("ui config: personal workspace name is required")
	ErrHTTPBasePathInvalid          = errors.New("ui config: http base path must start with /")
	ErrImporterFeatureRequired      = errors.New("ui config: importer feature must be enabled to configure an import directory")
	ErrImporterContentDirRequired   = errors.New("ui config: importer content directory is required when the importer is enabled")
	ErrImporterWorkspaceRequired    = errors.New("ui config: importer workspace is required when the importer is enabled")
	ErrLoggingProviderRequired      = errors.New("ui config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown       = errors.New("ui config: logging provider is invalid")
	ErrLoggingLevelInvalid          = errors.New("ui config: logging level is invalid")
	ErrLoggingFormatInvalid         = errors.New("ui config: logging format is invalid")
	ErrNavigationRouteConfigMissing = errors.New("ui config: navigation routes require a route config or base url")
)

// Config aggregates the settings of the UI services runtime.
type Config struct {
	ContentRepository string           `yaml:"content_repository"`
	NodeTree          NodeTreeConfig   `yaml:"node_tree"`
	Workspace         WorkspaceConfig  `yaml:"workspace"`
	Storage           StorageConfig    `yaml:"storage"`
	Cache             CacheConfig      `yaml:"cache"`
	Navigation        NavigationConfig `yaml:"navigation"`
	I18N              I18NConfig       `yaml:"i18n"`
	HTTP              HTTPConfig       `yaml:"http"`
	Importer          ImporterConfig   `yaml:"importer"`
	Features          Features         `yaml:"features"`
	Logging           LoggingConfig    `yaml:"logging"`
}

// NodeTreeConfig drives which nodes appear in the document tree.
type NodeTreeConfig struct {
	BaseNodeType         string `yaml:"base_node_type"`
	DocumentNodeTypeRole string `yaml:"document_role"`
	IgnoredNodeTypeRole  string `yaml:"ignored_role"`
	// NodeTypesFile points at a YAML list of node types registered on top
	// of the built-in ones.
	NodeTypesFile string `yaml:"node_types_file"`
}

// WorkspaceConfig names the workspace the UI session edits and the
// workspace it publishes to.
type WorkspaceConfig struct {
	Personal string `yaml:"personal"`
	Base     string `yaml:"base"`
}

// StorageConfig selects the node repository backend. Driver and DSN only
// apply to the bun provider.
type StorageConfig struct {
	Provider string `yaml:"provider"`
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
}

// CacheConfig wraps the bun repository with go-repository-cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"ttl"`
}

// NavigationConfig configures the go-urlkit route manager used for node
// URIs. BaseURL seeds the default route table when RouteConfig is nil.
type NavigationConfig struct {
	RouteConfig   *urlkit.Config `yaml:"-"`
	BaseURL       string         `yaml:"base_url"`
	DefaultGroup  string         `yaml:"group"`
	ShowRoute     string         `yaml:"show_route"`
	PreviewRoute  string         `yaml:"preview_route"`
	RedirectRoute string         `yaml:"redirect_route"`
	NodeParam     string         `yaml:"node_param"`
	NodeInPath    bool           `yaml:"node_in_path"`
}

// I18NConfig captures the locales and the translation fixture.
type I18NConfig struct {
	DefaultLocale string   `yaml:"default_locale"`
	UILocale      string   `yaml:"ui_locale"`
	Locales       []string `yaml:"locales"`
	// Translations points at a JSON fixture; empty uses the embedded one.
	Translations string `yaml:"translations"`
}

// HTTPConfig configures the UI services API.
type HTTPConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
}

// ImporterConfig describes the markdown tree loaded at startup.
type ImporterConfig struct {
	ContentDir          string            `yaml:"content_dir"`
	Workspace           string            `yaml:"workspace"`
	Site                string            `yaml:"site"`
	DimensionSpacePoint map[string]string `yaml:"dimensions"`
	SiteNodeType        string            `yaml:"site_node_type"`
	DocumentNodeType    string            `yaml:"document_node_type"`
}

// Features toggles optional runtime functionality.
type Features struct {
	Importer bool `yaml:"importer"`
	Stream   bool `yaml:"stream"`
	Logger   bool `yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns an in-memory setup serving on :8080.
func DefaultConfig() Config {
	return Config{
		ContentRepository: "default",
		NodeTree: NodeTreeConfig{
			BaseNodeType:         "Neos.Neos:Document",
			DocumentNodeTypeRole: "Neos.Neos:Document",
			IgnoredNodeTypeRole:  "Neos.Neos:FallbackNode",
		},
		Workspace: WorkspaceConfig{
			Personal: "user-admin",
			Base:     "live",
		},
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite3",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Navigation: NavigationConfig{
			BaseURL:      "http://localhost:8080",
			DefaultGroup: "neos",
			NodeParam:    "node",
		},
		I18N: I18NConfig{
			DefaultLocale: "en",
			UILocale:      "en",
			Locales:       []string{"en"},
		},
		HTTP: HTTPConfig{
			Addr:     ":8080",
			BasePath: "/neos/ui-services",
		},
		Importer: ImporterConfig{
			Workspace:           "live",
			Site:                "site",
			DimensionSpacePoint: map[string]string{},
			SiteNodeType:        "Neos.Neos:Site",
			DocumentNodeType:    "Neos.Neos:Page",
		},
		Features: Features{
			Stream: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.NodeTree.BaseNodeType) == "" {
		return ErrBaseNodeTypeRequired
	}
	if strings.TrimSpace(cfg.NodeTree.DocumentNodeTypeRole) == "" {
		return ErrDocumentRoleRequired
	}

	if strings.TrimSpace(cfg.Workspace.Personal) == "" {
		return ErrPersonalWorkspaceRequired
	}

	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", "memory":
	case "bun":
		if driver := normalize(cfg.Storage.Driver); !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}

	if cfg.Navigation.RouteConfig == nil && strings.TrimSpace(cfg.Navigation.BaseURL) == "" {
		return ErrNavigationRouteConfigMissing
	}
	if strings.TrimSpace(cfg.I18N.UILocale) == "" {
		return ErrUILocaleRequired
	}
	if base := strings.TrimSpace(cfg.HTTP.BasePath); base != "" && !strings.HasPrefix(base, "/") {
		return fmt.Errorf("%w: %s", ErrHTTPBasePathInvalid, base)
	}

	if !cfg.Features.Importer {
		if strings.TrimSpace(cfg.Importer.ContentDir) != "" {
			return ErrImporterFeatureRequired
		}
	} else {
		if strings.TrimSpace(cfg.Importer.ContentDir) == "" {
			return ErrImporterContentDirRequired
		}
		if strings.TrimSpace(cfg.Importer.Workspace) == "" {
			return ErrImporterWorkspaceRequired
		}
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite3", "sqlite", "postgres", "postgresql":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
