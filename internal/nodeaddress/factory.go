package nodeaddress

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-ui/internal/nodes"
)

// Factory converts between nodes and addresses for one content repository
// registry.
type Factory struct {
	registry *nodes.Registry
}

func NewFactory(registry *nodes.Registry) *Factory {
	return &Factory{registry: registry}
}

// CreateFromNode resolves the workspace currently pointing at the node's
// content stream and builds its address.
func (f *Factory) CreateFromNode(ctx context.Context, node *nodes.Node) (NodeAddress, error) {
	if node == nil {
		return NodeAddress{}, fmt.Errorf("nodeaddress: nil node")
	}
	repo, err := f.registry.Get(node.SubgraphIdentity.ContentRepositoryID)
	if err != nil {
		return NodeAddress{}, err
	}
	workspace, err := repo.Workspaces.FindOneByCurrentContentStreamID(ctx, node.SubgraphIdentity.ContentStreamID)
	if err != nil {
		return NodeAddress{}, err
	}
	if workspace == nil {
		return NodeAddress{}, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, node.SubgraphIdentity.ContentStreamID)
	}
	return NodeAddress{
		WorkspaceName:       workspace.Name,
		DimensionSpacePoint: node.SubgraphIdentity.DimensionSpacePoint.Clone(),
		NodeAggregateID:     node.NodeAggregateID,
	}, nil
}

// Resolve loads the node an address points at inside repository id. A
// missing node yields (nil, nil).
func (f *Factory) Resolve(ctx context.Context, id nodes.ContentRepositoryID, address NodeAddress) (*nodes.Node, error) {
	subgraph, err := f.SubgraphFor(ctx, id, address)
	if err != nil {
		return nil, err
	}
	return subgraph.FindNodeByID(ctx, address.NodeAggregateID)
}

// SubgraphFor returns the subgraph of the address' workspace and dimensions.
func (f *Factory) SubgraphFor(ctx context.Context, id nodes.ContentRepositoryID, address NodeAddress) (nodes.ContentSubgraph, error) {
	repo, err := f.registry.Get(id)
	if err != nil {
		return nil, err
	}
	workspace, err := repo.Workspaces.FindOneByName(ctx, address.WorkspaceName)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, &nodes.NotFoundError{Resource: "workspace", Key: string(address.WorkspaceName)}
	}
	return repo.Subgraph(workspace.CurrentContentStreamID, address.DimensionSpacePoint), nil
}
