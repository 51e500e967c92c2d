package nodeinfo

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-ui/internal/nodes"
)

// Label derives the display label of node: its title property, otherwise
// the node type label followed by the node name.
func Label(node *nodes.Node, nodeType *nodes.NodeType) string {
	if title, ok := node.GetProperty("title").(string); ok {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	label := string(node.NodeTypeName)
	if nodeType != nil && strings.TrimSpace(nodeType.Label) != "" {
		label = strings.TrimSpace(nodeType.Label)
	}
	if node.NodeName != nil && *node.NodeName != "" {
		return fmt.Sprintf("%s (%s)", label, *node.NodeName)
	}
	return label
}

func formatTime(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(atomLayout)
	return &formatted
}
