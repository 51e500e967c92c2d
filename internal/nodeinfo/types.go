package nodeinfo

import "github.com/goliatone/go-cms-ui/internal/properties"

// atomLayout is shared with the property converter so every date in a
// record uses the same layout.
const atomLayout = properties.DateTimeLayout

// NodeInfo is the record the UI consumes for one node.
type NodeInfo struct {
	ContextPath              string         `json:"contextPath"`
	NodeAddress              string         `json:"nodeAddress"`
	Name                     string         `json:"name"`
	Identifier               string         `json:"identifier"`
	NodeType                 string         `json:"nodeType"`
	Label                    string         `json:"label"`
	IsAutoCreated            bool           `json:"isAutoCreated"`
	Depth                    int            `json:"depth"`
	Children                 []ChildInfo    `json:"children"`
	Parent                   *string        `json:"parent"`
	MatchesCurrentDimensions bool           `json:"matchesCurrentDimensions"`
	LastModificationDateTime *string        `json:"lastModificationDateTime"`
	CreationDateTime         string         `json:"creationDateTime"`
	LastPublicationDateTime  *string        `json:"lastPublicationDateTime"`
	Properties               map[string]any `json:"properties"`
	IsFullyLoaded            bool           `json:"isFullyLoaded,omitempty"`
	URI                      string         `json:"uri,omitempty"`
	Matched                  bool           `json:"matched,omitempty"`
	Intermediate             bool           `json:"intermediate,omitempty"`
}

// ChildInfo is the stub rendered for each child node.
type ChildInfo struct {
	ContextPath string `json:"contextPath"`
	NodeType    string `json:"nodeType"`
}
