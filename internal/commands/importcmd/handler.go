package importcmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-cms-ui/internal/commands"
	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/internal/nodes/importer"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
)

const importOperation = "importer.import_directory"

// ErrImporterFeatureDisabled is returned when the importer feature flag is
// off at execution time.
var ErrImporterFeatureDisabled = errors.New("import command: feature disabled")

var _ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)

// Service is the importer surface the handler drives.
type Service interface {
	ImportFS(ctx context.Context, fsys fs.FS, root string, cfg importer.Config) (*importer.Result, error)
}

// FeatureGates reads runtime toggles on every execution.
type FeatureGates struct {
	ImporterEnabled func() bool
}

func (g FeatureGates) importerEnabled() bool {
	if g.ImporterEnabled == nil {
		return true
	}
	return g.ImporterEnabled()
}

// Option customizes an ImportDirectoryHandler.
type Option func(*ImportDirectoryHandler)

// WithFS replaces os.DirFS as the way a directory is opened.
func WithFS(open func(dir string) fs.FS) Option {
	return func(h *ImportDirectoryHandler) {
		if open != nil {
			h.open = open
		}
	}
}

// WithResultHook receives the result of every successful import.
func WithResultHook(fn func(ImportDirectoryCommand, *importer.Result)) Option {
	return func(h *ImportDirectoryHandler) {
		h.onResult = fn
	}
}

// WithHandlerOptions forwards options to the wrapped commands.Handler.
func WithHandlerOptions(opts ...commands.HandlerOption[ImportDirectoryCommand]) Option {
	return func(h *ImportDirectoryHandler) {
		h.handlerOpts = append(h.handlerOpts, opts...)
	}
}

// ImportDirectoryHandler runs directory imports through the shared action
// handler so they are validated, time-boxed and logged like UI actions.
type ImportDirectoryHandler struct {
	inner       *commands.Handler[ImportDirectoryCommand]
	service     Service
	base        importer.Config
	gates       FeatureGates
	logger      interfaces.Logger
	open        func(dir string) fs.FS
	onResult    func(ImportDirectoryCommand, *importer.Result)
	handlerOpts []commands.HandlerOption[ImportDirectoryCommand]
}

// NewImportDirectoryHandler binds a handler to service. base supplies the
// targets a command does not override.
func NewImportDirectoryHandler(service Service, base importer.Config, logger interfaces.Logger, gates FeatureGates, opts ...Option) *ImportDirectoryHandler {
	h := &ImportDirectoryHandler{
		service: service,
		base:    base,
		gates:   gates,
		logger:  logging.Ensure(logger),
		open:    os.DirFS,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](h.logger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithTimeout[ImportDirectoryCommand](0),
		commands.WithTelemetry(commands.LogTelemetry[ImportDirectoryCommand](h.logger)),
	}
	handlerOpts = append(handlerOpts, h.handlerOpts...)
	h.inner = commands.NewHandler(h.exec, handlerOpts...)
	return h
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *ImportDirectoryHandler) exec(ctx context.Context, msg ImportDirectoryCommand) error {
	if !h.gates.importerEnabled() {
		return ErrImporterFeatureDisabled
	}
	if h.service == nil {
		return errors.New("import command: importer service is nil")
	}

	cfg := h.base
	if workspace := strings.TrimSpace(msg.Workspace); workspace != "" {
		cfg.Workspace = nodes.WorkspaceName(workspace)
	}
	if site := strings.TrimSpace(msg.Site); site != "" {
		cfg.Site = site
	}

	result, err := h.service.ImportFS(ctx, h.open(strings.TrimSpace(msg.Directory)), ".", cfg)
	if err != nil {
		return err
	}
	if result == nil {
		result = &importer.Result{}
	}
	logging.WithFields(h.logger, map[string]any{
		"directory":     msg.Directory,
		"workspace":     cfg.Workspace,
		"created_count": len(result.Created),
		"updated_count": len(result.Updated),
		"skipped_count": len(result.Skipped),
	}).Info("importer.command.import_directory.completed")
	if h.onResult != nil {
		h.onResult(msg, result)
	}
	return nil
}

// Subscribe builds the handler and subscribes it to the go-command
// dispatcher. The returned function removes the subscription.
func Subscribe(service Service, base importer.Config, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*ImportDirectoryHandler, func(), error) {
	if service == nil {
		return nil, nil, errors.New("import command registration: service is nil")
	}
	handler := NewImportDirectoryHandler(service, base, commands.ActionLogger(provider, "importer"), gates, opts...)
	sub := dispatcher.SubscribeCommand(handler)
	return handler, sub.Unsubscribe, nil
}
