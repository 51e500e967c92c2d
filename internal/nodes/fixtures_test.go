package nodes

import (
	"context"
	"testing"
)

var testDSP = DimensionSpacePoint{"language": "en"}

func testNodeTypes() *NodeTypeManager {
	return NewNodeTypeManager(
		&NodeType{Name: "Neos.Neos:Node", Abstract: true},
		&NodeType{Name: "Neos.Neos:Document", SuperTypes: []NodeTypeName{"Neos.Neos:Node"}, Abstract: true},
		&NodeType{Name: "Neos.Neos:Content", SuperTypes: []NodeTypeName{"Neos.Neos:Node"}, Abstract: true},
		&NodeType{Name: "Neos.Neos:ContentCollection", SuperTypes: []NodeTypeName{"Neos.Neos:Node"}},
		&NodeType{Name: "Neos.Neos:Site", SuperTypes: []NodeTypeName{"Neos.Neos:Document"}},
		&NodeType{Name: "Acme:Page", Label: "Page", SuperTypes: []NodeTypeName{"Neos.Neos:Document"}},
		&NodeType{Name: "Acme:Shortcut", SuperTypes: []NodeTypeName{"Acme:Page"}},
		&NodeType{Name: "Acme:Text", SuperTypes: []NodeTypeName{"Neos.Neos:Content"}},
	)
}

func testRecord(stream ContentStreamID, id, parent NodeAggregateID, nodeType NodeTypeName, position int) *Record {
	return &Record{
		Node: Node{
			SubgraphIdentity: SubgraphIdentity{
				ContentRepositoryID: DefaultContentRepository,
				ContentStreamID:     stream,
				DimensionSpacePoint: testDSP.Clone(),
			},
			NodeAggregateID: id,
			Classification:  ClassificationRegular,
			NodeTypeName:    nodeType,
			Properties:      map[string]any{"title": string(id)},
		},
		ParentNodeAggregateID: parent,
		Position:              position,
	}
}

// seedTree stores site > (about, blog > post, main collection > text).
func seedTree(t *testing.T, repo NodeRepository, stream ContentStreamID) {
	t.Helper()
	records := []*Record{
		testRecord(stream, "site", "", "Neos.Neos:Site", 0),
		testRecord(stream, "blog", "site", "Acme:Page", 20),
		testRecord(stream, "about", "site", "Acme:Page", 10),
		testRecord(stream, "main", "site", "Neos.Neos:ContentCollection", 0),
		testRecord(stream, "post", "blog", "Acme:Shortcut", 0),
		testRecord(stream, "text", "main", "Acme:Text", 0),
	}
	for _, record := range records {
		if _, err := repo.Save(context.Background(), record); err != nil {
			t.Fatalf("seed %s: %v", record.Node.NodeAggregateID, err)
		}
	}
}
