package nodes

import (
	"maps"
	"slices"
	"strings"
	"time"
)

type (
	NodeAggregateID     string
	NodeTypeName        string
	NodeName            string
	WorkspaceName       string
	ContentStreamID     string
	ContentRepositoryID string
)

func (id NodeAggregateID) String() string { return string(id) }
func (n NodeTypeName) String() string     { return string(n) }

const (
	LiveWorkspace            WorkspaceName       = "live"
	DefaultContentRepository ContentRepositoryID = "default"
)

// Classification distinguishes root, tethered (auto-created) and regular
// node aggregates.
type Classification string

const (
	ClassificationRegular  Classification = "regular"
	ClassificationRoot     Classification = "root"
	ClassificationTethered Classification = "tethered"
)

// DimensionSpacePoint holds the content dimension coordinates of a node,
// e.g. {"language": "en"}.
type DimensionSpacePoint map[string]string

// Equals reports whether both points carry the same coordinates. A nil and
// an empty point are equal.
func (p DimensionSpacePoint) Equals(other DimensionSpacePoint) bool {
	return maps.Equal(p, other)
}

// Hash returns a stable, key-sorted representation suitable as a storage key.
func (p DimensionSpacePoint) Hash() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p))
	for _, key := range slices.Sorted(maps.Keys(p)) {
		parts = append(parts, key+"="+p[key])
	}
	return strings.Join(parts, ";")
}

func (p DimensionSpacePoint) Clone() DimensionSpacePoint {
	if p == nil {
		return DimensionSpacePoint{}
	}
	return maps.Clone(p)
}

// Timestamps tracks the lifecycle of a node. OriginalLastModified is the
// last modification as published to the base workspace.
type Timestamps struct {
	Created              time.Time
	LastModified         *time.Time
	OriginalLastModified *time.Time
}

// SubgraphIdentity pins a node to the view it was read from.
type SubgraphIdentity struct {
	ContentRepositoryID ContentRepositoryID
	ContentStreamID     ContentStreamID
	DimensionSpacePoint DimensionSpacePoint
}

// Node is a read model of a single node as seen from a subgraph.
type Node struct {
	SubgraphIdentity          SubgraphIdentity
	NodeAggregateID           NodeAggregateID
	OriginDimensionSpacePoint DimensionSpacePoint
	Classification            Classification
	NodeTypeName              NodeTypeName
	NodeName                  *NodeName
	Properties                map[string]any
	Timestamps                Timestamps
}

// GetProperty returns the raw property value or nil when unset.
func (n *Node) GetProperty(name string) any {
	if n == nil || n.Properties == nil {
		return nil
	}
	return n.Properties[name]
}

// HasProperty reports whether the property is set, even to nil.
func (n *Node) HasProperty(name string) bool {
	if n == nil || n.Properties == nil {
		return false
	}
	_, ok := n.Properties[name]
	return ok
}

// IsTethered reports whether the node was auto-created by its parent type.
func (n *Node) IsTethered() bool {
	return n != nil && n.Classification == ClassificationTethered
}

// Nodes is an ordered list of nodes.
type Nodes []*Node

// Merge appends the nodes of other that are not already part of ns.
func (ns Nodes) Merge(other Nodes) Nodes {
	seen := make(map[NodeAggregateID]struct{}, len(ns)+len(other))
	out := make(Nodes, 0, len(ns)+len(other))
	for _, list := range []Nodes{ns, other} {
		for _, node := range list {
			if node == nil {
				continue
			}
			if _, ok := seen[node.NodeAggregateID]; ok {
				continue
			}
			seen[node.NodeAggregateID] = struct{}{}
			out = append(out, node)
		}
	}
	return out
}

// Record is the storage form of a node inside one content stream and
// dimension space point.
type Record struct {
	Node                  Node
	ParentNodeAggregateID NodeAggregateID
	Position              int
	Hidden                bool
}

func cloneRecord(src *Record) *Record {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Node.SubgraphIdentity.DimensionSpacePoint = src.Node.SubgraphIdentity.DimensionSpacePoint.Clone()
	copied.Node.OriginDimensionSpacePoint = src.Node.OriginDimensionSpacePoint.Clone()
	if src.Node.NodeName != nil {
		name := *src.Node.NodeName
		copied.Node.NodeName = &name
	}
	copied.Node.Properties = maps.Clone(src.Node.Properties)
	return &copied
}
