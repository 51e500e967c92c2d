package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-ui/internal/feedback"
	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	"github.com/goliatone/go-cms-ui/internal/nodeinfo"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/internal/store"
	"github.com/goliatone/go-cms-ui/internal/workspacesync"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

const DefaultBasePath = "/neos/ui-services"

// UIServicesAPI registers the endpoints backing the admin client.
type UIServicesAPI struct {
	basePath          string
	contentRepository nodes.ContentRepositoryID
	nodeInfo          *nodeinfo.Helper
	addresses         *nodeaddress.Factory
	store             *store.Store
	syncButton        *workspacesync.Component
	feedback          *feedback.Collection
	streamEnabled     bool
	logger            interfaces.Logger
}

type Option func(*UIServicesAPI)

func New(opts ...Option) *UIServicesAPI {
	api := &UIServicesAPI{
		basePath:          DefaultBasePath,
		contentRepository: nodes.DefaultContentRepository,
		streamEnabled:     true,
		logger:            logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the mount point (defaults to "/neos/ui-services").
func WithBasePath(path string) Option {
	return func(api *UIServicesAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithContentRepository sets the repository addresses resolve against when
// the request does not name one.
func WithContentRepository(id nodes.ContentRepositoryID) Option {
	return func(api *UIServicesAPI) {
		if id != "" {
			api.contentRepository = id
		}
	}
}

func WithNodeInfo(helper *nodeinfo.Helper, addresses *nodeaddress.Factory) Option {
	return func(api *UIServicesAPI) {
		api.nodeInfo = helper
		api.addresses = addresses
	}
}

func WithStore(s *store.Store) Option {
	return func(api *UIServicesAPI) {
		api.store = s
	}
}

func WithSyncButton(component *workspacesync.Component) Option {
	return func(api *UIServicesAPI) {
		api.syncButton = component
	}
}

func WithFeedback(collection *feedback.Collection) Option {
	return func(api *UIServicesAPI) {
		api.feedback = collection
	}
}

// WithStream toggles the websocket state stream.
func WithStream(enabled bool) Option {
	return func(api *UIServicesAPI) {
		api.streamEnabled = enabled
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *UIServicesAPI) {
		api.logger = logging.Ensure(logger)
	}
}

// Register attaches the endpoints to mux.
func (a *UIServicesAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if a == nil {
		return fmt.Errorf("http: ui services api is nil")
	}

	base := joinPath(a.basePath, "")
	a.registerNodeRoutes(mux, base)
	a.registerWorkspaceRoutes(mux, base)
	a.registerFeedbackRoutes(mux, base)
	return nil
}

// Handler returns a mux serving only the UI services.
func (a *UIServicesAPI) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := a.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

func unavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
}
