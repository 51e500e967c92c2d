package nodes

import (
	"context"
)

// FindChildNodesFilter narrows child lookups. NodeTypes uses the filter
// string syntax understood by ParseNodeTypeCriteria; empty admits all.
type FindChildNodesFilter struct {
	NodeTypes string
}

// ContentSubgraph is a read view on one content stream and dimension space
// point. Lookups for missing nodes return (nil, nil); errors are reserved
// for storage failures.
type ContentSubgraph interface {
	Identity() SubgraphIdentity
	FindNodeByID(ctx context.Context, id NodeAggregateID) (*Node, error)
	FindChildNodes(ctx context.Context, parent NodeAggregateID, filter FindChildNodesFilter) (Nodes, error)
	FindParentNode(ctx context.Context, child NodeAggregateID) (*Node, error)
	CountAncestorNodes(ctx context.Context, id NodeAggregateID) (int, error)
}

type repositorySubgraph struct {
	identity  SubgraphIdentity
	repo      NodeRepository
	nodeTypes *NodeTypeManager
}

// NewSubgraph returns a subgraph backed by repo.
func NewSubgraph(identity SubgraphIdentity, repo NodeRepository, nodeTypes *NodeTypeManager) ContentSubgraph {
	if nodeTypes == nil {
		nodeTypes = NewNodeTypeManager()
	}
	return &repositorySubgraph{identity: identity, repo: repo, nodeTypes: nodeTypes}
}

func (s *repositorySubgraph) Identity() SubgraphIdentity {
	return s.identity
}

func (s *repositorySubgraph) FindNodeByID(ctx context.Context, id NodeAggregateID) (*Node, error) {
	record, err := s.record(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	return s.toNode(record), nil
}

func (s *repositorySubgraph) FindChildNodes(ctx context.Context, parent NodeAggregateID, filter FindChildNodesFilter) (Nodes, error) {
	records, err := s.repo.Children(ctx, s.identity.ContentStreamID, s.identity.DimensionSpacePoint, parent)
	if err != nil {
		return nil, err
	}
	criteria := ParseNodeTypeCriteria(filter.NodeTypes)
	out := make(Nodes, 0, len(records))
	for _, record := range records {
		if !criteria.Matches(s.nodeTypes, record.Node.NodeTypeName) {
			continue
		}
		out = append(out, s.toNode(record))
	}
	return out, nil
}

func (s *repositorySubgraph) FindParentNode(ctx context.Context, child NodeAggregateID) (*Node, error) {
	record, err := s.record(ctx, child)
	if err != nil || record == nil || record.ParentNodeAggregateID == "" {
		return nil, err
	}
	return s.FindNodeByID(ctx, record.ParentNodeAggregateID)
}

func (s *repositorySubgraph) CountAncestorNodes(ctx context.Context, id NodeAggregateID) (int, error) {
	visited := map[NodeAggregateID]struct{}{id: {}}
	count := 0
	current := id
	for {
		record, err := s.record(ctx, current)
		if err != nil {
			return 0, err
		}
		if record == nil || record.ParentNodeAggregateID == "" {
			return count, nil
		}
		parent := record.ParentNodeAggregateID
		if _, seen := visited[parent]; seen {
			return 0, ErrAncestorCycle
		}
		visited[parent] = struct{}{}
		parentRecord, err := s.record(ctx, parent)
		if err != nil {
			return 0, err
		}
		if parentRecord == nil {
			return count, nil
		}
		count++
		current = parent
	}
}

func (s *repositorySubgraph) record(ctx context.Context, id NodeAggregateID) (*Record, error) {
	record, err := s.repo.Get(ctx, RecordKey{
		ContentStreamID:     s.identity.ContentStreamID,
		DimensionSpacePoint: s.identity.DimensionSpacePoint,
		NodeAggregateID:     id,
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (s *repositorySubgraph) toNode(record *Record) *Node {
	node := record.Node
	node.SubgraphIdentity = SubgraphIdentity{
		ContentRepositoryID: s.identity.ContentRepositoryID,
		ContentStreamID:     s.identity.ContentStreamID,
		DimensionSpacePoint: s.identity.DimensionSpacePoint.Clone(),
	}
	if node.OriginDimensionSpacePoint == nil {
		node.OriginDimensionSpacePoint = node.SubgraphIdentity.DimensionSpacePoint.Clone()
	}
	return &node
}
