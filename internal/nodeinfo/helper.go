// Package nodeinfo flattens content graph nodes into the records consumed by
// the admin UI.
//
// Rendering is best effort: a node whose address, subgraph or ancestry
// cannot be resolved is omitted and logged, never reported as an error.
package nodeinfo

import (
	"context"
	"html/template"
	"strings"

	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/internal/properties"
	"github.com/goliatone/go-cms-ui/internal/routing"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

const (
	DefaultBaseNodeType         = "Neos.Neos:Document"
	DefaultDocumentNodeTypeRole = "Neos.Neos:Document"
	DefaultIgnoredNodeTypeRole  = "Neos.Neos:FallbackNode"
)

// Config carries the node tree settings.
type Config struct {
	// BaseNodeType filters the document tree, e.g. "Neos.Neos:Document".
	BaseNodeType         string
	DocumentNodeTypeRole string
	IgnoredNodeTypeRole  string
}

// URIBuilder resolves URIs for node addresses.
type URIBuilder interface {
	URIFor(address nodeaddress.NodeAddress, req *routing.Request) (string, error)
	PreviewURIFor(address nodeaddress.NodeAddress, req *routing.Request) (string, error)
	RedirectURIFor(address nodeaddress.NodeAddress, req *routing.Request) (string, error)
}

// PropertyConverter converts node properties for JSON.
type PropertyConverter interface {
	GetPropertiesArray(node *nodes.Node, nodeType *nodes.NodeType) map[string]any
}

// Option customizes a Helper.
type Option func(*Helper)

// WithLogger sets the helper logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(h *Helper) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithPropertyConverter replaces the default property converter.
func WithPropertyConverter(converter PropertyConverter) Option {
	return func(h *Helper) {
		if converter != nil {
			h.converter = converter
		}
	}
}

// Helper renders NodeInfo records.
type Helper struct {
	registry  *nodes.Registry
	addresses *nodeaddress.Factory
	locale    interfaces.LocaleSwitcher
	converter PropertyConverter
	uris      URIBuilder
	logger    interfaces.Logger

	baseNodeType         string
	documentNodeTypeRole string
	ignoredNodeTypeRole  string
}

// New constructs a Helper. Empty config values fall back to the defaults.
func New(registry *nodes.Registry, addresses *nodeaddress.Factory, locale interfaces.LocaleSwitcher, uris URIBuilder, cfg Config, opts ...Option) *Helper {
	h := &Helper{
		registry:             registry,
		addresses:            addresses,
		locale:               locale,
		uris:                 uris,
		logger:               logging.NoOp(),
		baseNodeType:         firstNonEmpty(cfg.BaseNodeType, DefaultBaseNodeType),
		documentNodeTypeRole: firstNonEmpty(cfg.DocumentNodeTypeRole, DefaultDocumentNodeTypeRole),
		ignoredNodeTypeRole:  firstNonEmpty(cfg.IgnoredNodeTypeRole, DefaultIgnoredNodeTypeRole),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.converter == nil {
		h.converter = properties.NewConverter(h.logger)
	}
	return h
}

// RenderNodeWithMinimalPropertiesAndChildrenInformation renders the tree
// state of node: identity, hidden flags and child stubs.
func (h *Helper) RenderNodeWithMinimalPropertiesAndChildrenInformation(ctx context.Context, node *nodes.Node, req *routing.Request, nodeTypeFilterOverride string) *NodeInfo {
	if node == nil {
		return nil
	}
	h.switchToUILocale()
	defer h.restoreLocale()

	info := h.basicNodeInformation(ctx, node)
	if info == nil {
		return nil
	}
	repo, err := h.registry.Get(node.SubgraphIdentity.ContentRepositoryID)
	if err != nil {
		h.nodeLogger(info).Warn("nodeinfo.repository.missing", "error", err)
		return nil
	}
	hidden, err := repo.Hidden.FindHiddenState(ctx, node.SubgraphIdentity.ContentStreamID, node.SubgraphIdentity.DimensionSpacePoint, node.NodeAggregateID)
	if err != nil {
		h.nodeLogger(info).Warn("nodeinfo.hidden_state.failed", "error", err)
		return nil
	}
	info.Properties = map[string]any{
		"_hidden":        hidden.IsHidden(),
		"_hiddenInIndex": node.GetProperty("_hiddenInIndex"),
	}

	if req != nil {
		h.applyURIInformation(ctx, info, node, req)
	}

	baseNodeType := firstNonEmpty(nodeTypeFilterOverride, h.baseNodeType)
	filter := nodes.BuildNodeTypeFilter(
		nodes.NodeTypeStringsToList(baseNodeType),
		nodes.NodeTypeStringsToList(h.ignoredNodeTypeRole),
	)
	info.Children = h.renderChildrenInformation(ctx, node, filter)
	return info
}

// RenderNodeWithPropertiesAndChildrenInformation renders node with its full
// converted property set.
func (h *Helper) RenderNodeWithPropertiesAndChildrenInformation(ctx context.Context, node *nodes.Node, req *routing.Request, nodeTypeFilterOverride string) *NodeInfo {
	if node == nil {
		return nil
	}
	h.switchToUILocale()
	defer h.restoreLocale()

	info := h.basicNodeInformation(ctx, node)
	if info == nil {
		return nil
	}
	info.Properties = h.converter.GetPropertiesArray(node, h.nodeType(node))
	info.IsFullyLoaded = true

	if req != nil {
		h.applyURIInformation(ctx, info, node, req)
	}

	info.Children = h.renderChildrenInformation(ctx, node, firstNonEmpty(nodeTypeFilterOverride, h.baseNodeType))
	return info
}

// RenderNodes renders every node, dropping the ones that cannot be rendered.
func (h *Helper) RenderNodes(ctx context.Context, list nodes.Nodes, req *routing.Request, omitMostPropertiesForTreeState bool) []*NodeInfo {
	out := make([]*NodeInfo, 0, len(list))
	for _, node := range list {
		var info *NodeInfo
		if omitMostPropertiesForTreeState {
			info = h.RenderNodeWithMinimalPropertiesAndChildrenInformation(ctx, node, req, "")
		} else {
			info = h.RenderNodeWithPropertiesAndChildrenInformation(ctx, node, req, "")
		}
		if info != nil {
			out = append(out, info)
		}
	}
	return out
}

// RenderNodesWithParents renders the given nodes as matched and walks up
// their document ancestry, rendering each ancestor once as intermediate.
// The document role replaces the base node type so search results are not
// hidden by the tree filter. Records keep first-seen order.
func (h *Helper) RenderNodesWithParents(ctx context.Context, list nodes.Nodes, req *routing.Request) []*NodeInfo {
	override := h.documentNodeTypeRole
	rendered := map[nodes.NodeAggregateID]*NodeInfo{}
	var order []nodes.NodeAggregateID

	store := func(id nodes.NodeAggregateID, info *NodeInfo) {
		rendered[id] = info
		order = append(order, id)
	}

	for _, node := range list {
		if node == nil {
			continue
		}
		if existing, ok := rendered[node.NodeAggregateID]; ok {
			existing.Matched = true
		} else if info := h.RenderNodeWithMinimalPropertiesAndChildrenInformation(ctx, node, req, override); info != nil {
			info.Matched = true
			store(node.NodeAggregateID, info)
		} else {
			continue
		}

		subgraph, err := h.registry.SubgraphForNode(node)
		if err != nil {
			h.logger.Warn("nodeinfo.subgraph.missing", "node_aggregate_id", node.NodeAggregateID, "error", err)
			continue
		}
		parent := h.findParent(ctx, subgraph, node.NodeAggregateID)
		walked := map[nodes.NodeAggregateID]struct{}{node.NodeAggregateID: {}}
		for parent != nil && h.isOfType(parent, override) {
			if _, seen := walked[parent.NodeAggregateID]; seen {
				break
			}
			walked[parent.NodeAggregateID] = struct{}{}

			if existing, ok := rendered[parent.NodeAggregateID]; ok {
				existing.Intermediate = true
			} else if info := h.RenderNodeWithMinimalPropertiesAndChildrenInformation(ctx, parent, req, override); info != nil {
				info.Intermediate = true
				store(parent.NodeAggregateID, info)
			}
			parent = h.findParent(ctx, subgraph, parent.NodeAggregateID)
		}
	}

	out := make([]*NodeInfo, 0, len(order))
	for _, id := range order {
		out = append(out, rendered[id])
	}
	return out
}

// DefaultNodesForBackend renders the site and the current document keyed by
// their serialized addresses.
func (h *Helper) DefaultNodesForBackend(ctx context.Context, site, document *nodes.Node, req *routing.Request) map[string]*NodeInfo {
	out := map[string]*NodeInfo{}
	for _, node := range []*nodes.Node{site, document} {
		if node == nil {
			continue
		}
		address, err := h.SerializedNodeAddress(ctx, node)
		if err != nil {
			h.logger.Warn("nodeinfo.address.failed", "node_aggregate_id", node.NodeAggregateID, "error", err)
			continue
		}
		out[address] = h.RenderNodeWithPropertiesAndChildrenInformation(ctx, node, req, "")
	}
	return out
}

// URI returns the frontend URI of node.
func (h *Helper) URI(ctx context.Context, node *nodes.Node, req *routing.Request) (string, error) {
	address, err := h.NodeAddress(ctx, node)
	if err != nil {
		return "", err
	}
	return h.URIForAddress(address, req)
}

// URIForAddress returns the frontend URI of an already resolved address.
func (h *Helper) URIForAddress(address nodeaddress.NodeAddress, req *routing.Request) (string, error) {
	return h.uris.URIFor(address, req)
}

// PreviewURI returns the preview URI of node.
func (h *Helper) PreviewURI(ctx context.Context, node *nodes.Node, req *routing.Request) (string, error) {
	address, err := h.NodeAddress(ctx, node)
	if err != nil {
		return "", err
	}
	return h.uris.PreviewURIFor(address, req)
}

// CreateRedirectToNode returns the backend URI redirecting to node.
func (h *Helper) CreateRedirectToNode(ctx context.Context, node *nodes.Node, req *routing.Request) (string, error) {
	address, err := h.NodeAddress(ctx, node)
	if err != nil {
		return "", err
	}
	return h.uris.RedirectURIFor(address, req)
}

func (h *Helper) NodeAddress(ctx context.Context, node *nodes.Node) (nodeaddress.NodeAddress, error) {
	return h.addresses.CreateFromNode(ctx, node)
}

func (h *Helper) SerializedNodeAddress(ctx context.Context, node *nodes.Node) (string, error) {
	address, err := h.NodeAddress(ctx, node)
	if err != nil {
		return "", err
	}
	return address.SerializeForURI(), nil
}

// TemplateHelpers exposes the helper to html/template.
func (h *Helper) TemplateHelpers(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"nodeUri": func(node *nodes.Node, req *routing.Request) (string, error) {
			return h.URI(ctx, node, req)
		},
		"nodePreviewUri": func(node *nodes.Node, req *routing.Request) (string, error) {
			return h.PreviewURI(ctx, node, req)
		},
		"nodeRedirectUri": func(node *nodes.Node, req *routing.Request) (string, error) {
			return h.CreateRedirectToNode(ctx, node, req)
		},
		"serializedNodeAddress": func(node *nodes.Node) (string, error) {
			return h.SerializedNodeAddress(ctx, node)
		},
		"renderNode": func(node *nodes.Node, req *routing.Request) *NodeInfo {
			return h.RenderNodeWithPropertiesAndChildrenInformation(ctx, node, req, "")
		},
		"renderNodeMinimal": func(node *nodes.Node, req *routing.Request) *NodeInfo {
			return h.RenderNodeWithMinimalPropertiesAndChildrenInformation(ctx, node, req, "")
		},
	}
}

func (h *Helper) basicNodeInformation(ctx context.Context, node *nodes.Node) *NodeInfo {
	logger := logging.WithNodeContext(h.logger, string(node.NodeAggregateID), string(node.NodeTypeName))

	subgraph, err := h.registry.SubgraphForNode(node)
	if err != nil {
		logger.Warn("nodeinfo.subgraph.missing", "error", err)
		return nil
	}
	address, err := h.addresses.CreateFromNode(ctx, node)
	if err != nil {
		logger.Warn("nodeinfo.address.failed", "error", err)
		return nil
	}
	depth, err := subgraph.CountAncestorNodes(ctx, node.NodeAggregateID)
	if err != nil {
		logger.Warn("nodeinfo.depth.failed", "error", err)
		return nil
	}

	serialized := address.SerializeForURI()
	info := &NodeInfo{
		ContextPath:              serialized,
		NodeAddress:              serialized,
		Identifier:               string(node.NodeAggregateID),
		NodeType:                 string(node.NodeTypeName),
		Label:                    Label(node, h.nodeType(node)),
		IsAutoCreated:            node.IsTethered(),
		Depth:                    depth,
		Children:                 []ChildInfo{},
		MatchesCurrentDimensions: node.SubgraphIdentity.DimensionSpacePoint.Equals(node.OriginDimensionSpacePoint),
		LastModificationDateTime: formatTime(node.Timestamps.LastModified),
		CreationDateTime:         node.Timestamps.Created.Format(atomLayout),
		LastPublicationDateTime:  formatTime(node.Timestamps.OriginalLastModified),
	}
	if node.NodeName != nil {
		info.Name = string(*node.NodeName)
	}

	if parent := h.findParent(ctx, subgraph, node.NodeAggregateID); parent != nil {
		if parentAddress, err := h.addresses.CreateFromNode(ctx, parent); err == nil {
			serializedParent := parentAddress.SerializeForURI()
			info.Parent = &serializedParent
		} else {
			logger.Debug("nodeinfo.parent_address.failed", "error", err)
		}
	}
	return info
}

func (h *Helper) renderChildrenInformation(ctx context.Context, node *nodes.Node, filter string) []ChildInfo {
	infos := []ChildInfo{}
	subgraph, err := h.registry.SubgraphForNode(node)
	if err != nil {
		return infos
	}
	documentChildren, err := subgraph.FindChildNodes(ctx, node.NodeAggregateID, nodes.FindChildNodesFilter{NodeTypes: filter})
	if err != nil {
		h.logger.Warn("nodeinfo.children.failed", "node_aggregate_id", node.NodeAggregateID, "error", err)
		return infos
	}
	// content tree children must not include nodes hidden by the base filter
	contentChildren, err := subgraph.FindChildNodes(ctx, node.NodeAggregateID, nodes.FindChildNodesFilter{NodeTypes: h.contentChildNodeFilter()})
	if err != nil {
		h.logger.Warn("nodeinfo.children.failed", "node_aggregate_id", node.NodeAggregateID, "error", err)
		return infos
	}

	for _, child := range documentChildren.Merge(contentChildren) {
		address, err := h.addresses.CreateFromNode(ctx, child)
		if err != nil {
			h.logger.Debug("nodeinfo.child_address.failed", "node_aggregate_id", child.NodeAggregateID, "error", err)
			continue
		}
		infos = append(infos, ChildInfo{
			ContextPath: address.SerializeForURI(),
			NodeType:    string(child.NodeTypeName),
		})
	}
	return infos
}

func (h *Helper) applyURIInformation(ctx context.Context, info *NodeInfo, node *nodes.Node, req *routing.Request) {
	if !h.isOfType(node, h.documentNodeTypeRole) {
		return
	}
	uri, err := h.PreviewURI(ctx, node, req)
	if err != nil {
		h.nodeLogger(info).Warn("nodeinfo.uri.failed", "error", err)
		return
	}
	info.URI = uri
}

func (h *Helper) contentChildNodeFilter() string {
	return nodes.BuildNodeTypeFilter(nil, nodes.NodeTypeStringsToList(h.documentNodeTypeRole, h.ignoredNodeTypeRole))
}

func (h *Helper) findParent(ctx context.Context, subgraph nodes.ContentSubgraph, id nodes.NodeAggregateID) *nodes.Node {
	parent, err := subgraph.FindParentNode(ctx, id)
	if err != nil {
		h.logger.Debug("nodeinfo.parent.failed", "node_aggregate_id", id, "error", err)
		return nil
	}
	return parent
}

func (h *Helper) nodeType(node *nodes.Node) *nodes.NodeType {
	repo, err := h.registry.Get(node.SubgraphIdentity.ContentRepositoryID)
	if err != nil {
		return nil
	}
	return repo.NodeTypes.GetWithFallback(node.NodeTypeName)
}

func (h *Helper) isOfType(node *nodes.Node, role string) bool {
	repo, err := h.registry.Get(node.SubgraphIdentity.ContentRepositoryID)
	if err != nil {
		return false
	}
	return repo.NodeTypes.IsOfType(repo.NodeTypes.GetWithFallback(node.NodeTypeName).Name, nodes.NodeTypeName(role))
}

func (h *Helper) nodeLogger(info *NodeInfo) interfaces.Logger {
	return logging.WithNodeContext(h.logger, info.ContextPath, info.NodeType)
}

func (h *Helper) switchToUILocale() {
	if h.locale != nil {
		h.locale.SwitchToUILocale(false)
	}
}

func (h *Helper) restoreLocale() {
	if h.locale != nil {
		h.locale.SwitchToUILocale(true)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
