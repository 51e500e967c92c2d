package nodes

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// FallbackNodeTypeName is used for nodes whose type is no longer registered.
const FallbackNodeTypeName NodeTypeName = "Neos.Neos:FallbackNode"

// PropertyDefinition declares a node type property.
type PropertyDefinition struct {
	Type         string `json:"type" yaml:"type"`
	DefaultValue any    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// NodeType describes the schema of a family of nodes.
type NodeType struct {
	Name       NodeTypeName                  `json:"name" yaml:"name"`
	Label      string                        `json:"label" yaml:"label"`
	SuperTypes []NodeTypeName                `json:"superTypes,omitempty" yaml:"superTypes,omitempty"`
	Abstract   bool                          `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Properties map[string]PropertyDefinition `json:"properties,omitempty" yaml:"properties,omitempty"`
	// Schema is an optional JSON schema the node properties must satisfy.
	Schema map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// PropertyNames returns the declared property names in lexical order.
func (t *NodeType) PropertyNames() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.Properties))
}

// DefaultValue returns the declared default for a property, or nil.
func (t *NodeType) DefaultValue(property string) any {
	if t == nil {
		return nil
	}
	return t.Properties[property].DefaultValue
}

// NodeTypeManager is an in-memory node type registry.
type NodeTypeManager struct {
	mu    sync.RWMutex
	types map[NodeTypeName]*NodeType
}

// NewNodeTypeManager constructs a manager seeded with the given types.
// Types without a name are skipped.
func NewNodeTypeManager(types ...*NodeType) *NodeTypeManager {
	m := &NodeTypeManager{types: make(map[NodeTypeName]*NodeType, len(types))}
	for _, nodeType := range types {
		_ = m.Register(nodeType)
	}
	return m
}

// Register inserts or replaces a node type.
func (m *NodeTypeManager) Register(nodeType *NodeType) error {
	if nodeType == nil || strings.TrimSpace(string(nodeType.Name)) == "" {
		return ErrNodeTypeNameRequired
	}
	copied := *nodeType
	copied.SuperTypes = slices.Clone(nodeType.SuperTypes)
	copied.Properties = maps.Clone(nodeType.Properties)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[copied.Name] = &copied
	return nil
}

// Get returns the registered node type.
func (m *NodeTypeManager) Get(name NodeTypeName) (*NodeType, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	nodeType, ok := m.types[name]
	return nodeType, ok
}

// Has reports whether name is registered.
func (m *NodeTypeManager) Has(name NodeTypeName) bool {
	_, ok := m.Get(name)
	return ok
}

// GetWithFallback returns the node type for name, falling back to the
// registered (or a synthesized) fallback node type.
func (m *NodeTypeManager) GetWithFallback(name NodeTypeName) *NodeType {
	if nodeType, ok := m.Get(name); ok {
		return nodeType
	}
	if fallback, ok := m.Get(FallbackNodeTypeName); ok {
		return fallback
	}
	return &NodeType{Name: FallbackNodeTypeName, Label: "Fallback"}
}

// IsOfType reports whether name equals super or inherits from it through
// any chain of supertypes.
func (m *NodeTypeManager) IsOfType(name, super NodeTypeName) bool {
	if name == super {
		return true
	}
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	visited := map[NodeTypeName]struct{}{name: {}}
	queue := []NodeTypeName{name}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		nodeType, ok := m.types[current]
		if !ok {
			continue
		}
		for _, parent := range nodeType.SuperTypes {
			if parent == super {
				return true
			}
			if _, seen := visited[parent]; seen {
				continue
			}
			visited[parent] = struct{}{}
			queue = append(queue, parent)
		}
	}
	return false
}

// IsOfAnyType reports whether name is of at least one of the given types.
func (m *NodeTypeManager) IsOfAnyType(name NodeTypeName, supers ...NodeTypeName) bool {
	for _, super := range supers {
		if m.IsOfType(name, super) {
			return true
		}
	}
	return false
}
