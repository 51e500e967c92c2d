// Package cmsui serves the state and node records behind the content
// management admin interface.
package cmsui

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-cms-ui/internal/api"
	"github.com/goliatone/go-cms-ui/internal/di"
	"github.com/goliatone/go-cms-ui/internal/feedback"
	uihttp "github.com/goliatone/go-cms-ui/internal/http"
	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	"github.com/goliatone/go-cms-ui/internal/nodeinfo"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/internal/nodes/importer"
	"github.com/goliatone/go-cms-ui/internal/store"
	"github.com/goliatone/go-cms-ui/internal/workspaces"
	"github.com/goliatone/go-cms-ui/internal/workspacesync"
	command "github.com/goliatone/go-command"
)

// NodeInfo exports the node record rendered for the admin client.
type NodeInfo = nodeinfo.NodeInfo

// NodeInfoHelper exports the node record renderer.
type NodeInfoHelper = *nodeinfo.Helper

// NodeAddress exports the serialized node identity used as context path.
type NodeAddress = nodeaddress.NodeAddress

// Node exports the content graph read model.
type Node = nodes.Node

// NodeType exports the node type schema.
type NodeType = nodes.NodeType

// Workspace exports a content graph workspace.
type Workspace = nodes.Workspace

// State exports the root UI state tree.
type State = store.RootState

// WorkspaceInformation exports the personal workspace record.
type WorkspaceInformation = workspaces.WorkspaceInformation

// SyncButton exports the rendered workspace sync button.
type SyncButton = workspacesync.Button

// ImportResult exports the outcome of a content import.
type ImportResult = importer.Result

// Feedback exports a queued client operation.
type Feedback = feedback.Feedback

// Module is the top level UI services runtime.
type Module struct {
	container *di.Container
}

// New constructs a module using cfg and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// NodeInfo returns the node record renderer.
func (m *Module) NodeInfo() NodeInfoHelper {
	return m.container.NodeInfo()
}

// Store returns the UI state store.
func (m *Module) Store() *store.Store {
	return m.container.Store()
}

// State returns a snapshot of the UI state.
func (m *Module) State() State {
	return m.container.Store().State()
}

// Dispatch applies action to the UI state.
func (m *Module) Dispatch(ctx context.Context, action command.Message) error {
	return m.container.Store().Dispatch(ctx, action)
}

// SyncButton renders the workspace sync button for the current state. It
// is nil when the personal workspace is up to date.
func (m *Module) SyncButton() *SyncButton {
	return m.container.SyncButton().Render()
}

// Feedback returns the queue of client operations.
func (m *Module) Feedback() *feedback.Collection {
	return m.container.Feedback()
}

// Import loads a markdown tree into the configured import workspace.
func (m *Module) Import(ctx context.Context, fsys fs.FS, root string) (*ImportResult, error) {
	return m.container.ImportContent(ctx, fsys, root)
}

// Handler returns an http.Handler serving the UI services API.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.API().Handler()
}

// API returns the UI services API for mounting on an existing mux.
func (m *Module) API() *uihttp.UIServicesAPI {
	return m.container.API()
}

// Close releases the resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// EmptyArrayToObject makes empty collections serialize as a JSON object.
func EmptyArrayToObject(value any) any {
	return api.EmptyArrayToObject(value)
}
