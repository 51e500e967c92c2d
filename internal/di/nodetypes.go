package di

import (
	"fmt"
	"os"

	"github.com/goliatone/go-cms-ui/internal/nodes"
	"gopkg.in/yaml.v3"
)

func defaultNodeTypes() []*nodes.NodeType {
	title := map[string]nodes.PropertyDefinition{
		"title": {Type: "string"},
	}
	return []*nodes.NodeType{
		{Name: "Neos.Neos:Document", Label: "Document", Abstract: true, Properties: map[string]nodes.PropertyDefinition{
			"title":          {Type: "string"},
			"uriPathSegment": {Type: "string"},
			"_hiddenInIndex": {Type: "boolean", DefaultValue: false},
		}},
		{Name: "Neos.Neos:Content", Label: "Content", Abstract: true},
		{Name: "Neos.Neos:Sites", Label: "Sites"},
		{Name: "Neos.Neos:Site", Label: "Site", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Document"}},
		{Name: "Neos.Neos:Page", Label: "Page", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Document"}},
		{Name: "Neos.Neos:Shortcut", Label: "Shortcut", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Document"}, Properties: map[string]nodes.PropertyDefinition{
			"target": {Type: "string"},
		}},
		{Name: "Neos.Neos:ContentCollection", Label: "Content Collection", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Content"}},
		{Name: "Neos.NodeTypes:Text", Label: "Text", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Content"}, Properties: map[string]nodes.PropertyDefinition{
			"text": {Type: "string"},
		}},
		{Name: "Neos.NodeTypes:Headline", Label: "Headline", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Content"}, Properties: title},
	}
}

// loadNodeTypesFile reads a YAML list of node types.
func loadNodeTypesFile(path string) ([]*nodes.NodeType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("di: read node types %q: %w", path, err)
	}
	var types []*nodes.NodeType
	if err := yaml.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("di: decode node types %q: %w", path, err)
	}
	for i, nodeType := range types {
		if nodeType == nil || nodeType.Name == "" {
			return nil, fmt.Errorf("di: node type %d in %q has no name", i, path)
		}
	}
	return types, nil
}
