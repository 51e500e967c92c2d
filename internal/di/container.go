package di

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-cms-ui/internal/adapters/storage"
	"github.com/goliatone/go-cms-ui/internal/feedback"
	uihttp "github.com/goliatone/go-cms-ui/internal/http"
	"github.com/goliatone/go-cms-ui/internal/commands/importcmd"
	"github.com/goliatone/go-cms-ui/internal/i18n"
	"github.com/goliatone/go-cms-ui/internal/identity"
	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/logging/console"
	"github.com/goliatone/go-cms-ui/internal/logging/gologger"
	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	"github.com/goliatone/go-cms-ui/internal/nodeinfo"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/internal/nodes/importer"
	"github.com/goliatone/go-cms-ui/internal/routing"
	"github.com/goliatone/go-cms-ui/internal/runtimeconfig"
	"github.com/goliatone/go-cms-ui/internal/store"
	"github.com/goliatone/go-cms-ui/internal/workspaces"
	"github.com/goliatone/go-cms-ui/internal/workspacesync"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"
)

// Container wires the UI services runtime.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	nodeTypes    []*nodes.NodeType
	workspaces   []nodes.Workspace
	nodeRepo     nodes.NodeRepository
	routeManager *urlkit.RouteManager
	translator   interfaces.Translator

	registry   *nodes.Registry
	addresses  *nodeaddress.Factory
	locale     *i18n.UserLocaleService
	uris       *routing.NodeURIBuilder
	nodeInfo   *nodeinfo.Helper
	store      *store.Store
	syncButton *workspacesync.Component
	feedback   *feedback.Collection
	importer   *importer.Importer
	importCmd  *importcmd.ImportDirectoryHandler
	api        *uihttp.UIServicesAPI

	unbind       func()
	unbindImport func()

	importerEnabled atomic.Bool
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB stores nodes through bun instead of the storage config.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithNodeRepository replaces the node repository entirely.
func WithNodeRepository(repo nodes.NodeRepository) Option {
	return func(c *Container) {
		c.nodeRepo = repo
	}
}

// WithNodeTypes registers additional node types.
func WithNodeTypes(types ...*nodes.NodeType) Option {
	return func(c *Container) {
		c.nodeTypes = append(c.nodeTypes, types...)
	}
}

// WithWorkspaces registers additional workspaces.
func WithWorkspaces(workspaces ...nodes.Workspace) Option {
	return func(c *Container) {
		c.workspaces = append(c.workspaces, workspaces...)
	}
}

// WithTranslator replaces the fixture backed translator.
func WithTranslator(translator interfaces.Translator) Option {
	return func(c *Container) {
		c.translator = translator
	}
}

// WithRouteManager replaces the route manager built from the navigation
// config.
func WithRouteManager(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		feedback: feedback.NewCollection(),
		unbind:   func() {},
	}
	c.importerEnabled.Store(cfg.Features.Importer)
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	if err := c.configureRegistry(); err != nil {
		return nil, err
	}
	if err := c.configureI18n(); err != nil {
		return nil, err
	}
	c.configureNavigation()
	if err := c.configureServices(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			c.loggerProvider = console.NewProvider(console.Options{
				MinLevel: console.ParseLevel(c.Config.Logging.Level),
			})
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "")
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.cache.disabled", "error", err)
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() error {
	if c.nodeRepo != nil {
		return nil
	}
	if c.bunDB == nil && strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") {
		db, err := storage.Open(context.Background(), storage.Options{
			Driver: c.Config.Storage.Driver,
			DSN:    c.Config.Storage.DSN,
		})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil {
		c.nodeRepo = nodes.NewMemoryNodeRepository()
		return nil
	}
	if err := nodes.EnsureSchema(context.Background(), c.bunDB); err != nil {
		return fmt.Errorf("di: ensure node schema: %w", err)
	}
	c.nodeRepo = nodes.NewBunNodeRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.logger.Info("container.storage.configured", "provider", "bun", "cache", c.cacheService != nil)
	return nil
}

func (c *Container) configureRegistry() error {
	types := defaultNodeTypes()
	if path := strings.TrimSpace(c.Config.NodeTree.NodeTypesFile); path != "" {
		loaded, err := loadNodeTypesFile(path)
		if err != nil {
			return err
		}
		types = append(types, loaded...)
	}
	types = append(types, c.nodeTypes...)

	finder := nodes.NewMemoryWorkspaceFinder(c.defaultWorkspaces()...)
	for _, ws := range c.workspaces {
		finder.Register(ws)
	}

	repo := &nodes.ContentRepository{
		ID:         nodes.ContentRepositoryID(c.Config.ContentRepository),
		NodeTypes:  nodes.NewNodeTypeManager(types...),
		Nodes:      c.nodeRepo,
		Workspaces: finder,
	}
	c.registry = nodes.NewRegistry()
	if err := c.registry.Register(repo); err != nil {
		return err
	}
	c.addresses = nodeaddress.NewFactory(c.registry)
	return nil
}

func (c *Container) defaultWorkspaces() []nodes.Workspace {
	base := firstNonEmpty(c.Config.Workspace.Base, string(nodes.LiveWorkspace))
	out := []nodes.Workspace{{
		Name:                   nodes.LiveWorkspace,
		CurrentContentStreamID: nodes.ContentStreamID(identity.ContentStreamID(string(nodes.LiveWorkspace))),
		Title:                  "Live",
	}}
	if base != string(nodes.LiveWorkspace) {
		out = append(out, nodes.Workspace{
			Name:                   nodes.WorkspaceName(base),
			BaseWorkspaceName:      nodes.LiveWorkspace,
			CurrentContentStreamID: nodes.ContentStreamID(identity.ContentStreamID(base)),
		})
	}
	personal := c.Config.Workspace.Personal
	return append(out, nodes.Workspace{
		Name:                   nodes.WorkspaceName(personal),
		BaseWorkspaceName:      nodes.WorkspaceName(base),
		CurrentContentStreamID: nodes.ContentStreamID(identity.ContentStreamID(personal)),
	})
}

func (c *Container) configureI18n() error {
	cfg := i18n.FromModuleConfig(c.Config.I18N.DefaultLocale, c.Config.I18N.UILocale, c.Config.I18N.Locales)
	c.locale = i18n.NewUserLocaleService(cfg)
	if c.translator != nil {
		return nil
	}

	fixture, err := i18n.DefaultFixture()
	if err != nil {
		return err
	}
	if path := strings.TrimSpace(c.Config.I18N.Translations); path != "" {
		custom, err := i18n.NewLoader(path).Load(context.Background())
		if err != nil {
			return err
		}
		fixture.Overlay(custom)
	}
	c.translator = i18n.NewTranslatorFromFixture(fixture)
	return nil
}

func (c *Container) configureNavigation() {
	navCfg := c.Config.Navigation
	if c.routeManager == nil {
		routeConfig := navCfg.RouteConfig
		if routeConfig == nil {
			routeConfig = routing.DefaultConfig(strings.TrimSpace(navCfg.BaseURL))
		}
		c.routeManager = urlkit.NewRouteManager(routeConfig)
	}
	c.uris = routing.NewNodeURIBuilder(routing.Options{
		Manager:       c.routeManager,
		DefaultGroup:  strings.TrimSpace(navCfg.DefaultGroup),
		ShowRoute:     strings.TrimSpace(navCfg.ShowRoute),
		PreviewRoute:  strings.TrimSpace(navCfg.PreviewRoute),
		RedirectRoute: strings.TrimSpace(navCfg.RedirectRoute),
		NodeParam:     strings.TrimSpace(navCfg.NodeParam),
		NodeInPath:    navCfg.NodeInPath,
	})
}

func (c *Container) configureServices() error {
	c.nodeInfo = nodeinfo.New(c.registry, c.addresses, c.locale, c.uris, nodeinfo.Config{
		BaseNodeType:         c.Config.NodeTree.BaseNodeType,
		DocumentNodeTypeRole: c.Config.NodeTree.DocumentNodeTypeRole,
		IgnoredNodeTypeRole:  c.Config.NodeTree.IgnoredNodeTypeRole,
	}, nodeinfo.WithLogger(logging.NodeInfoLogger(c.loggerProvider)))

	c.store = store.New(
		store.WithLogger(logging.StoreLogger(c.loggerProvider)),
		store.WithInitialState(c.initialState()),
	)
	c.unbind = c.store.BindDispatcher()

	c.syncButton = workspacesync.New(c.store, c.translator, c.locale,
		workspacesync.WithLogger(logging.WorkspacesLogger(c.loggerProvider)))

	c.importer = importer.New(c.registry, c.addresses,
		importer.WithLogger(logging.ImporterLogger(c.loggerProvider)),
		importer.WithFeedback(c.feedback),
	)
	if err := c.subscribeImportCommand(c.importer); err != nil {
		return err
	}

	c.api = uihttp.New(
		uihttp.WithBasePath(c.Config.HTTP.BasePath),
		uihttp.WithContentRepository(nodes.ContentRepositoryID(c.Config.ContentRepository)),
		uihttp.WithNodeInfo(c.nodeInfo, c.addresses),
		uihttp.WithStore(c.store),
		uihttp.WithSyncButton(c.syncButton),
		uihttp.WithFeedback(c.feedback),
		uihttp.WithStream(c.Config.Features.Stream),
		uihttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) subscribeImportCommand(service importcmd.Service) error {
	handler, unsubscribe, err := importcmd.Subscribe(service, c.importConfig(), c.loggerProvider, importcmd.FeatureGates{
		ImporterEnabled: c.importerEnabled.Load,
	})
	if err != nil {
		c.logger.Error("container.import_command.subscribe_failed", "error", err)
		return fmt.Errorf("di: subscribe import command: %w", err)
	}
	c.importCmd = handler
	c.unbindImport = unsubscribe
	return nil
}

// SetImporterEnabled toggles the importer feature on a running container.
// It is safe to call while imports execute.
func (c *Container) SetImporterEnabled(enabled bool) {
	c.importerEnabled.Store(enabled)
}

func (c *Container) ImporterEnabled() bool { return c.importerEnabled.Load() }

func (c *Container) initialState() store.RootState {
	state := store.DefaultState()
	state.CR.Workspaces.PersonalWorkspace = workspaces.WorkspaceInformation{
		Name:             c.Config.Workspace.Personal,
		BaseWorkspace:    firstNonEmpty(c.Config.Workspace.Base, string(nodes.LiveWorkspace)),
		PublishableNodes: []workspaces.PublishableNode{},
		Status:           workspaces.StatusUpToDate,
	}
	return state
}

// ImportContent loads the markdown tree below root into the configured
// import workspace.
func (c *Container) ImportContent(ctx context.Context, fsys fs.FS, root string) (*importer.Result, error) {
	return c.importer.ImportFS(ctx, fsys, root, c.importConfig())
}

func (c *Container) importConfig() importer.Config {
	cfg := c.Config.Importer
	return importer.Config{
		ContentRepositoryID: nodes.ContentRepositoryID(c.Config.ContentRepository),
		Workspace:           nodes.WorkspaceName(cfg.Workspace),
		Site:                cfg.Site,
		DimensionSpacePoint: nodes.DimensionSpacePoint(cfg.DimensionSpacePoint),
		SiteNodeType:        nodes.NodeTypeName(cfg.SiteNodeType),
		DocumentNodeType:    nodes.NodeTypeName(cfg.DocumentNodeType),
		DocumentRole:        nodes.NodeTypeName(c.Config.NodeTree.DocumentNodeTypeRole),
	}
}

// ImportConfiguredContent runs the importer over Importer.ContentDir when
// the importer feature is enabled.
func (c *Container) ImportConfiguredContent(ctx context.Context) (*importer.Result, error) {
	if !c.importerEnabled.Load() {
		return &importer.Result{}, nil
	}
	dir := strings.TrimSpace(c.Config.Importer.ContentDir)
	return c.ImportContent(ctx, os.DirFS(dir), ".")
}

// Close releases the dispatcher subscriptions and the database opened from
// the storage config.
func (c *Container) Close() error {
	if c.unbind != nil {
		c.unbind()
		c.unbind = nil
	}
	if c.unbindImport != nil {
		c.unbindImport()
		c.unbindImport = nil
	}
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

func (c *Container) Logger() interfaces.Logger                 { return c.logger }
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) Registry() *nodes.Registry                 { return c.registry }
func (c *Container) Addresses() *nodeaddress.Factory           { return c.addresses }
func (c *Container) LocaleService() *i18n.UserLocaleService    { return c.locale }
func (c *Container) Translator() interfaces.Translator         { return c.translator }
func (c *Container) URIBuilder() *routing.NodeURIBuilder       { return c.uris }
func (c *Container) NodeInfo() *nodeinfo.Helper                { return c.nodeInfo }
func (c *Container) Store() *store.Store                       { return c.store }
func (c *Container) SyncButton() *workspacesync.Component      { return c.syncButton }
func (c *Container) Feedback() *feedback.Collection            { return c.feedback }
func (c *Container) Importer() *importer.Importer              { return c.importer }
func (c *Container) ImportCommand() *importcmd.ImportDirectoryHandler {
	return c.importCmd
}
func (c *Container) API() *uihttp.UIServicesAPI                { return c.api }

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
