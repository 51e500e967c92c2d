// Package routing builds backend URIs for node addresses on top of go-urlkit.
package routing

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	urlkit "github.com/goliatone/go-urlkit"
)

const (
	RouteShow     = "show"
	RoutePreview  = "preview"
	RouteRedirect = "redirect"

	DefaultGroup     = "neos"
	DefaultNodeParam = "node"
)

var ErrManagerRequired = errors.New("routing: route manager not configured")

// Request carries the per-request routing context. A non-empty Group
// overrides the builder default, e.g. "neos.de".
type Request struct {
	Group string
	Query map[string]string
}

// Options configures a NodeURIBuilder.
type Options struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	ShowRoute    string
	PreviewRoute string
	// RedirectRoute points at the backend action that redirects to a node.
	RedirectRoute string
	NodeParam     string
	// NodeInPath passes the address as a path parameter instead of a query
	// parameter.
	NodeInPath bool
}

// DefaultConfig returns the route table used when none is configured.
func DefaultConfig(baseURL string) *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    DefaultGroup,
				BaseURL: baseURL,
				Paths: map[string]string{
					RouteShow:     "/neos/show",
					RoutePreview:  "/neos/preview",
					RouteRedirect: "/neos/redirect",
				},
			},
		},
	}
}

// NodeURIBuilder resolves show, preview and redirect URIs.
type NodeURIBuilder struct {
	manager      *urlkit.RouteManager
	defaultGroup string
	routes       map[string]string
	nodeParam    string
	nodeInPath   bool

	mu         sync.RWMutex
	groupCache map[string]*urlkit.Group
}

func NewNodeURIBuilder(opts Options) *NodeURIBuilder {
	b := &NodeURIBuilder{
		manager:      opts.Manager,
		defaultGroup: firstNonEmpty(opts.DefaultGroup, DefaultGroup),
		routes: map[string]string{
			RouteShow:     firstNonEmpty(opts.ShowRoute, RouteShow),
			RoutePreview:  firstNonEmpty(opts.PreviewRoute, RoutePreview),
			RouteRedirect: firstNonEmpty(opts.RedirectRoute, RouteRedirect),
		},
		nodeParam:  firstNonEmpty(opts.NodeParam, DefaultNodeParam),
		nodeInPath: opts.NodeInPath,
		groupCache: make(map[string]*urlkit.Group),
	}
	return b
}

// URIFor returns the frontend URI of address.
func (b *NodeURIBuilder) URIFor(address nodeaddress.NodeAddress, req *Request) (string, error) {
	return b.build(RouteShow, address, req)
}

// PreviewURIFor returns the preview URI of address.
func (b *NodeURIBuilder) PreviewURIFor(address nodeaddress.NodeAddress, req *Request) (string, error) {
	return b.build(RoutePreview, address, req)
}

// RedirectURIFor returns the backend URI that redirects to address.
func (b *NodeURIBuilder) RedirectURIFor(address nodeaddress.NodeAddress, req *Request) (string, error) {
	return b.build(RouteRedirect, address, req)
}

func (b *NodeURIBuilder) build(kind string, address nodeaddress.NodeAddress, req *Request) (string, error) {
	if b == nil || b.manager == nil {
		return "", ErrManagerRequired
	}
	groupPath := b.defaultGroup
	if req != nil && strings.TrimSpace(req.Group) != "" {
		groupPath = strings.TrimSpace(req.Group)
	}
	group, err := b.groupForPath(groupPath)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, b.routes[kind])
	if err != nil {
		return "", err
	}

	serialized := address.SerializeForURI()
	if b.nodeInPath {
		builder.WithParam(b.nodeParam, serialized)
	} else {
		builder.WithQuery(b.nodeParam, serialized)
	}
	if req != nil {
		for key, value := range req.Query {
			builder.WithQuery(key, value)
		}
	}
	return builder.Build()
}

func (b *NodeURIBuilder) groupForPath(path string) (*urlkit.Group, error) {
	b.mu.RLock()
	group, ok := b.groupCache[path]
	b.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(b.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if current, err = lookupChildGroup(current, part); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	b.groupCache[path] = current
	b.mu.Unlock()
	return current, nil
}

// go-urlkit panics on unknown groups and routes.

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("routing: route %q: %v", route, rec)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("routing: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	if group == nil {
		return nil, fmt.Errorf("routing: route group %q not found", name)
	}
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("routing: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	if group == nil {
		return nil, fmt.Errorf("routing: child group %q not found", name)
	}
	return group, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
