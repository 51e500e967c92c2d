package nodeinfo

import (
	"context"
	"encoding/json"
	"html/template"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-ui/internal/i18n"
	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/internal/routing"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/stretchr/testify/require"
)

var (
	english   = nodes.DimensionSpacePoint{"language": "en"}
	createdAt = time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
)

const englishSegment = "eyJsYW5ndWFnZSI6ImVuIn0"

func addressOf(id string) string {
	return "user-admin__" + englishSegment + "__" + id
}

type fixture struct {
	helper   *Helper
	subgraph nodes.ContentSubgraph
	locale   *i18n.UserLocaleService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := &nodes.ContentRepository{
		ID: nodes.DefaultContentRepository,
		NodeTypes: nodes.NewNodeTypeManager(
			&nodes.NodeType{Name: "Neos.Neos:Sites"},
			&nodes.NodeType{Name: "Neos.Neos:Document", Abstract: true},
			&nodes.NodeType{Name: "Neos.Neos:Content", Abstract: true},
			&nodes.NodeType{Name: "Neos.Neos:ContentCollection"},
			&nodes.NodeType{Name: "Neos.Neos:Site", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Document"}},
			&nodes.NodeType{
				Name:       "Acme:Page",
				Label:      "Page",
				SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Document"},
				Properties: map[string]nodes.PropertyDefinition{
					"title":       {Type: "string"},
					"publishedAt": {Type: "DateTime"},
				},
			},
			&nodes.NodeType{Name: "Acme:Text", Label: "Text", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Content"}},
		),
		Workspaces: nodes.NewMemoryWorkspaceFinder(
			nodes.Workspace{Name: nodes.LiveWorkspace, CurrentContentStreamID: "cs-live"},
			nodes.Workspace{Name: "user-admin", BaseWorkspaceName: nodes.LiveWorkspace, CurrentContentStreamID: "cs-user"},
		),
	}
	registry := nodes.NewRegistry(repo)

	modified := createdAt.Add(time.Hour)
	record := func(id, parent nodes.NodeAggregateID, nodeType nodes.NodeTypeName, position int, props map[string]any) *nodes.Record {
		name := nodes.NodeName(id)
		return &nodes.Record{
			Node: nodes.Node{
				SubgraphIdentity:          nodes.SubgraphIdentity{ContentRepositoryID: nodes.DefaultContentRepository, ContentStreamID: "cs-user", DimensionSpacePoint: english},
				NodeAggregateID:           id,
				OriginDimensionSpacePoint: english,
				Classification:            nodes.ClassificationRegular,
				NodeTypeName:              nodeType,
				NodeName:                  &name,
				Properties:                props,
				Timestamps:                nodes.Timestamps{Created: createdAt},
			},
			ParentNodeAggregateID: parent,
			Position:              position,
		}
	}

	records := []*nodes.Record{
		record("sites", "", "Neos.Neos:Sites", 0, nil),
		record("site", "sites", "Neos.Neos:Site", 0, map[string]any{"title": "Demo"}),
		record("main", "site", "Neos.Neos:ContentCollection", 0, nil),
		record("about", "site", "Acme:Page", 10, map[string]any{
			"title":          "About",
			"_hiddenInIndex": true,
			"publishedAt":    createdAt,
		}),
		record("blog", "site", "Acme:Page", 20, map[string]any{"title": "Blog"}),
		record("legacy", "site", "Gone:Type", 30, nil),
		record("post", "blog", "Acme:Page", 0, map[string]any{"title": "Post"}),
		record("text", "main", "Acme:Text", 0, nil),
		record("german", "site", "Acme:Page", 40, map[string]any{"title": "Über uns"}),
	}
	records[0].Node.Classification = nodes.ClassificationRoot
	records[2].Node.Classification = nodes.ClassificationTethered
	records[3].Hidden = true
	records[3].Node.Timestamps.LastModified = &modified
	records[3].Node.Timestamps.OriginalLastModified = &createdAt
	records[8].Node.OriginDimensionSpacePoint = nodes.DimensionSpacePoint{"language": "de"}
	for _, rec := range records {
		_, err := repo.Nodes.Save(ctx, rec)
		require.NoError(t, err)
	}

	manager := urlkit.NewRouteManager(routing.DefaultConfig("https://ui.example.com"))
	locale := i18n.NewUserLocaleService(i18n.Config{DefaultLocale: "de", UILocale: "en"})
	helper := New(
		registry,
		nodeaddress.NewFactory(registry),
		locale,
		routing.NewNodeURIBuilder(routing.Options{Manager: manager}),
		Config{},
		opts...,
	)
	return &fixture{
		helper:   helper,
		subgraph: repo.Subgraph("cs-user", english),
		locale:   locale,
	}
}

func (f *fixture) node(t *testing.T, id nodes.NodeAggregateID) *nodes.Node {
	t.Helper()
	node, err := f.subgraph.FindNodeByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, node, "node %s", id)
	return node
}

func childPaths(children []ChildInfo) []string {
	out := make([]string, 0, len(children))
	for _, child := range children {
		out = append(out, child.ContextPath)
	}
	return out
}

func TestRenderMinimalNodeInformation(t *testing.T) {
	f := newFixture(t)
	info := f.helper.RenderNodeWithMinimalPropertiesAndChildrenInformation(context.Background(), f.node(t, "site"), nil, "")
	require.NotNil(t, info)

	require.Equal(t, addressOf("site"), info.ContextPath)
	require.Equal(t, info.ContextPath, info.NodeAddress)
	require.Equal(t, "site", info.Name)
	require.Equal(t, "Neos.Neos:Site", info.NodeType)
	require.Equal(t, "Demo", info.Label)
	require.Equal(t, 1, info.Depth)
	require.NotNil(t, info.Parent)
	require.Equal(t, addressOf("sites"), *info.Parent)
	require.Equal(t, "2024-03-14T15:09:26+00:00", info.CreationDateTime)
	require.Nil(t, info.LastModificationDateTime)
	require.False(t, info.IsFullyLoaded)
	require.Empty(t, info.URI)
	require.Equal(t, map[string]any{"_hidden": false, "_hiddenInIndex": nil}, info.Properties)

	// documents first, then content children; fallback nodes are ignored
	require.Equal(t, []string{addressOf("about"), addressOf("blog"), addressOf("german"), addressOf("main")}, childPaths(info.Children))
	require.Equal(t, "Neos.Neos:ContentCollection", info.Children[3].NodeType)
}

func TestRenderMinimalNodeReportsHiddenFlags(t *testing.T) {
	f := newFixture(t)
	info := f.helper.RenderNodeWithMinimalPropertiesAndChildrenInformation(context.Background(), f.node(t, "about"), nil, "")
	require.NotNil(t, info)
	require.Equal(t, true, info.Properties["_hidden"])
	require.Equal(t, true, info.Properties["_hiddenInIndex"])
	require.Equal(t, "2024-03-14T16:09:26+00:00", *info.LastModificationDateTime)
	require.Equal(t, "2024-03-14T15:09:26+00:00", *info.LastPublicationDateTime)
}

func TestRenderFullNodeInformation(t *testing.T) {
	f := newFixture(t)
	info := f.helper.RenderNodeWithPropertiesAndChildrenInformation(context.Background(), f.node(t, "about"), &routing.Request{}, "")
	require.NotNil(t, info)

	require.True(t, info.IsFullyLoaded)
	require.Equal(t, "About", info.Properties["title"])
	require.Equal(t, "2024-03-14T15:09:26+00:00", info.Properties["publishedAt"])
	require.Equal(t, *info.LastPublicationDateTime, info.Properties["publishedAt"])

	uri, err := url.Parse(info.URI)
	require.NoError(t, err)
	require.Equal(t, "/neos/preview", uri.Path)
	require.Equal(t, addressOf("about"), uri.Query().Get("node"))
}

func TestRenderNodeWithoutChildrenSerializesEmptyList(t *testing.T) {
	f := newFixture(t)
	info := f.helper.RenderNodeWithPropertiesAndChildrenInformation(context.Background(), f.node(t, "post"), nil, "")
	require.NotNil(t, info)
	require.NotNil(t, info.Children)
	require.Empty(t, info.Children)

	encoded, err := json.Marshal(info)
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"children":[]`)
	require.NotContains(t, string(encoded), `"uri"`)
	require.NotContains(t, string(encoded), `"matched"`)
}

func TestRenderURIOnlyForDocuments(t *testing.T) {
	f := newFixture(t)
	info := f.helper.RenderNodeWithPropertiesAndChildrenInformation(context.Background(), f.node(t, "text"), &routing.Request{}, "")
	require.NotNil(t, info)
	require.Empty(t, info.URI)
	require.Equal(t, "Text (text)", info.Label)
}

func TestRenderFlagsDimensionFallback(t *testing.T) {
	f := newFixture(t)
	info := f.helper.RenderNodeWithMinimalPropertiesAndChildrenInformation(context.Background(), f.node(t, "german"), nil, "")
	require.NotNil(t, info)
	require.False(t, info.MatchesCurrentDimensions)

	info = f.helper.RenderNodeWithMinimalPropertiesAndChildrenInformation(context.Background(), f.node(t, "site"), nil, "")
	require.True(t, info.MatchesCurrentDimensions)
}

func TestRenderNodeFilterOverride(t *testing.T) {
	f := newFixture(t)
	info := f.helper.RenderNodeWithPropertiesAndChildrenInformation(context.Background(), f.node(t, "site"), nil, "Acme:Page,!Neos.Neos:FallbackNode")
	require.NotNil(t, info)
	require.Equal(t, []string{addressOf("about"), addressOf("blog"), addressOf("german"), addressOf("main")}, childPaths(info.Children))

	info = f.helper.RenderNodeWithPropertiesAndChildrenInformation(context.Background(), f.node(t, "site"), nil, "Neos.Neos:Site")
	require.Equal(t, []string{addressOf("main")}, childPaths(info.Children))
}

type localeRecordingConverter struct {
	locale *i18n.UserLocaleService
	seen   []string
}

func (c *localeRecordingConverter) GetPropertiesArray(node *nodes.Node, _ *nodes.NodeType) map[string]any {
	c.seen = append(c.seen, c.locale.CurrentLocale())
	return map[string]any{}
}

func TestRenderSwitchesAndRestoresLocale(t *testing.T) {
	converter := &localeRecordingConverter{}
	f := newFixture(t, WithPropertyConverter(converter))
	converter.locale = f.locale

	require.Equal(t, "de", f.locale.CurrentLocale())
	f.helper.RenderNodeWithPropertiesAndChildrenInformation(context.Background(), f.node(t, "about"), nil, "")
	require.Equal(t, []string{"en"}, converter.seen)
	require.Equal(t, "de", f.locale.CurrentLocale())

	ghost := &nodes.Node{NodeAggregateID: "ghost", SubgraphIdentity: nodes.SubgraphIdentity{ContentRepositoryID: nodes.DefaultContentRepository, ContentStreamID: "cs-unknown"}}
	require.Nil(t, f.helper.RenderNodeWithMinimalPropertiesAndChildrenInformation(context.Background(), ghost, nil, ""))
	require.Equal(t, "de", f.locale.CurrentLocale())
}

func TestRenderNodesDropsUnrenderableNodes(t *testing.T) {
	f := newFixture(t)
	ghost := &nodes.Node{NodeAggregateID: "ghost", SubgraphIdentity: nodes.SubgraphIdentity{ContentRepositoryID: "missing"}}

	infos := f.helper.RenderNodes(context.Background(), nodes.Nodes{f.node(t, "about"), ghost, nil, f.node(t, "blog")}, nil, true)
	require.Len(t, infos, 2)
	require.Equal(t, addressOf("about"), infos[0].ContextPath)
	require.Nil(t, infos[0].Properties["title"])

	full := f.helper.RenderNodes(context.Background(), nodes.Nodes{f.node(t, "blog")}, nil, false)
	require.Len(t, full, 1)
	require.True(t, full[0].IsFullyLoaded)
}

func TestRenderNodesWithParents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	infos := f.helper.RenderNodesWithParents(ctx, nodes.Nodes{f.node(t, "post"), f.node(t, "text")}, nil)
	require.Len(t, infos, 4)
	require.Equal(t, addressOf("post"), infos[0].ContextPath)
	require.True(t, infos[0].Matched)
	require.False(t, infos[0].Intermediate)
	require.Equal(t, addressOf("blog"), infos[1].ContextPath)
	require.True(t, infos[1].Intermediate)
	require.Equal(t, addressOf("site"), infos[2].ContextPath)
	require.True(t, infos[2].Intermediate)
	require.Equal(t, addressOf("text"), infos[3].ContextPath)
	require.True(t, infos[3].Matched)

	infos = f.helper.RenderNodesWithParents(ctx, nodes.Nodes{f.node(t, "post"), f.node(t, "blog")}, nil)
	require.Len(t, infos, 3)
	require.True(t, infos[1].Matched)
	require.True(t, infos[1].Intermediate)
}

func TestDefaultNodesForBackend(t *testing.T) {
	f := newFixture(t)
	out := f.helper.DefaultNodesForBackend(context.Background(), f.node(t, "site"), f.node(t, "about"), nil)
	require.Len(t, out, 2)
	require.Equal(t, "Demo", out[addressOf("site")].Label)
	require.True(t, out[addressOf("about")].IsFullyLoaded)
}

func TestURIHelpers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	about := f.node(t, "about")

	show, err := f.helper.URI(ctx, about, nil)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(show, "https://ui.example.com/neos/show"))

	redirect, err := f.helper.CreateRedirectToNode(ctx, about, nil)
	require.NoError(t, err)
	parsed, err := url.Parse(redirect)
	require.NoError(t, err)
	require.Equal(t, "/neos/redirect", parsed.Path)
	require.Equal(t, addressOf("about"), parsed.Query().Get("node"))

	address, err := f.helper.NodeAddress(ctx, about)
	require.NoError(t, err)
	require.Equal(t, nodes.WorkspaceName("user-admin"), address.WorkspaceName)

	_, err = f.helper.SerializedNodeAddress(ctx, &nodes.Node{SubgraphIdentity: nodes.SubgraphIdentity{ContentRepositoryID: nodes.DefaultContentRepository, ContentStreamID: "cs-unknown"}})
	require.ErrorIs(t, err, nodeaddress.ErrWorkspaceNotFound)
}

func TestTemplateHelpers(t *testing.T) {
	f := newFixture(t)
	tpl := template.Must(template.New("node").Funcs(f.helper.TemplateHelpers(context.Background())).
		Parse(`{{ serializedNodeAddress .Node }}|{{ (renderNodeMinimal .Node nil).Label }}`))

	var out strings.Builder
	require.NoError(t, tpl.Execute(&out, map[string]any{"Node": f.node(t, "blog")}))
	require.Equal(t, addressOf("blog")+"|Blog", out.String())
}
