package nodes

import "strings"

// NodeTypeCriteria is the parsed form of a node type filter string such as
// "Neos.Neos:Document, !Neos.Neos:Shortcut".
type NodeTypeCriteria struct {
	Included []NodeTypeName
	Excluded []NodeTypeName
}

// ParseNodeTypeCriteria parses a comma separated filter. Entries prefixed
// with "!" are exclusions; blank entries are ignored.
func ParseNodeTypeCriteria(filter string) NodeTypeCriteria {
	var criteria NodeTypeCriteria
	for _, part := range strings.Split(filter, ",") {
		part = strings.TrimSpace(part)
		if excluded, ok := strings.CutPrefix(part, "!"); ok {
			if excluded = strings.TrimSpace(excluded); excluded != "" {
				criteria.Excluded = append(criteria.Excluded, NodeTypeName(excluded))
			}
			continue
		}
		if part != "" {
			criteria.Included = append(criteria.Included, NodeTypeName(part))
		}
	}
	return criteria
}

// Matches reports whether name satisfies the criteria. A type matching an
// exclusion never matches; an empty include list admits every other type.
// Unregistered types are matched as the fallback node type.
func (c NodeTypeCriteria) Matches(manager *NodeTypeManager, name NodeTypeName) bool {
	if !manager.Has(name) {
		name = FallbackNodeTypeName
	}
	if manager.IsOfAnyType(name, c.Excluded...) {
		return false
	}
	if len(c.Included) == 0 {
		return true
	}
	return manager.IsOfAnyType(name, c.Included...)
}

// String renders the criteria back into filter form.
func (c NodeTypeCriteria) String() string {
	parts := make([]string, 0, len(c.Included)+len(c.Excluded))
	for _, name := range c.Included {
		parts = append(parts, string(name))
	}
	for _, name := range c.Excluded {
		parts = append(parts, "!"+string(name))
	}
	return strings.Join(parts, ",")
}

// NodeTypeStringsToList splits every comma separated input into trimmed,
// non-empty node type names.
func NodeTypeStringsToList(values ...string) []string {
	var out []string
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// BuildNodeTypeFilter joins included names and negated excluded names into a
// filter string.
func BuildNodeTypeFilter(included, excluded []string) string {
	parts := make([]string, 0, len(included)+len(excluded))
	parts = append(parts, included...)
	for _, name := range excluded {
		parts = append(parts, "!"+name)
	}
	return strings.Join(parts, ",")
}
