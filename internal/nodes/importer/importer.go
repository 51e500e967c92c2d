// Package importer loads markdown documents into the node graph so the UI
// services have content to render.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-cms-ui/internal/feedback"
	"github.com/goliatone/go-cms-ui/internal/identity"
	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

const (
	DefaultSiteNodeType     nodes.NodeTypeName = "Neos.Neos:Site"
	DefaultDocumentNodeType nodes.NodeTypeName = "Neos.Neos:Document"
	DefaultDocumentRole     nodes.NodeTypeName = "Neos.Neos:Document"
)

var ErrWorkspaceRequired = errors.New("importer: target workspace not found")

// Config selects where imported nodes land.
type Config struct {
	ContentRepositoryID nodes.ContentRepositoryID
	Workspace           nodes.WorkspaceName
	Site                string
	DimensionSpacePoint nodes.DimensionSpacePoint
	SiteNodeType        nodes.NodeTypeName
	DocumentNodeType    nodes.NodeTypeName
	// DocumentRole decides which imported nodes announce DocumentNodeCreated.
	DocumentRole nodes.NodeTypeName
}

// Option customizes an Importer.
type Option func(*Importer)

// WithLogger sets the importer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithFeedback sets the collection receiving DocumentNodeCreated entries.
func WithFeedback(collection *feedback.Collection) Option {
	return func(i *Importer) {
		i.feedback = collection
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(i *Importer) {
		if now != nil {
			i.now = now
		}
	}
}

// Importer walks a markdown tree and saves one node per document.
type Importer struct {
	registry  *nodes.Registry
	addresses *nodeaddress.Factory
	feedback  *feedback.Collection
	logger    interfaces.Logger
	markdown  goldmark.Markdown
	now       func() time.Time
}

// Result summarizes an import run.
type Result struct {
	Created []nodes.NodeAggregateID
	Updated []nodes.NodeAggregateID
	Skipped []string
}

// New constructs an importer.
func New(registry *nodes.Registry, addresses *nodeaddress.Factory, opts ...Option) *Importer {
	i := &Importer{
		registry:  registry,
		addresses: addresses,
		logger:    logging.NoOp(),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

type document struct {
	file     string
	nodePath string
	meta     frontMatter
	body     []byte
}

type frontMatter struct {
	NodeType      string         `yaml:"nodeType"`
	Title         string         `yaml:"title"`
	Name          string         `yaml:"name"`
	Hidden        bool           `yaml:"hidden"`
	HiddenInIndex bool           `yaml:"hiddenInIndex"`
	Position      int            `yaml:"position"`
	Properties    map[string]any `yaml:"properties"`
}

// ImportFS imports every *.md file below root. Files are saved parents
// first; "index.md" describes its directory.
func (i *Importer) ImportFS(ctx context.Context, fsys fs.FS, root string, cfg Config) (*Result, error) {
	cfg = withDefaults(cfg)
	repo, err := i.registry.Get(cfg.ContentRepositoryID)
	if err != nil {
		return nil, err
	}
	workspace, err := repo.Workspaces.FindOneByName(ctx, cfg.Workspace)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceRequired, cfg.Workspace)
	}

	docs, err := i.load(ctx, fsys, root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	byPath := map[string]nodes.NodeAggregateID{}

	if _, ok := findDocument(docs, "/"); !ok {
		docs = append([]*document{{nodePath: "/", meta: frontMatter{NodeType: string(cfg.SiteNodeType), Title: cfg.Site}}}, docs...)
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := logging.WithFields(i.logger, map[string]any{"file": doc.file, "node_path": doc.nodePath})

		record, err := i.buildRecord(doc, cfg, workspace.CurrentContentStreamID, byPath)
		if err != nil {
			logger.Warn("importer.document.skipped", "error", err)
			result.Skipped = append(result.Skipped, doc.file)
			continue
		}
		nodeType := repo.NodeTypes.GetWithFallback(record.Node.NodeTypeName)
		if err := nodes.ValidateProperties(nodeType, record.Node.Properties); err != nil {
			logger.Warn("importer.document.invalid", "error", err)
			result.Skipped = append(result.Skipped, doc.file)
			continue
		}

		existing, err := repo.Nodes.Get(ctx, nodes.KeyOf(record))
		switch {
		case err == nil:
			record.Node.Timestamps.Created = existing.Node.Timestamps.Created
		case !nodes.IsNotFound(err):
			return result, err
		}

		if _, err := repo.Nodes.Save(ctx, record); err != nil {
			return result, fmt.Errorf("importer: save %s: %w", doc.nodePath, err)
		}
		byPath[doc.nodePath] = record.Node.NodeAggregateID

		if existing != nil {
			result.Updated = append(result.Updated, record.Node.NodeAggregateID)
			logger.Debug("importer.document.updated", "node_aggregate_id", record.Node.NodeAggregateID)
			continue
		}
		result.Created = append(result.Created, record.Node.NodeAggregateID)
		logger.Info("importer.document.created", "node_aggregate_id", record.Node.NodeAggregateID)
		i.announce(ctx, repo, cfg.DocumentRole, &record.Node)
	}
	return result, nil
}

func (i *Importer) announce(ctx context.Context, repo *nodes.ContentRepository, role nodes.NodeTypeName, node *nodes.Node) {
	if i.feedback == nil || i.addresses == nil {
		return
	}
	if !repo.NodeTypes.IsOfType(node.NodeTypeName, role) {
		return
	}
	address, err := i.addresses.CreateFromNode(ctx, node)
	if err != nil {
		i.logger.Warn("importer.feedback.address_failed", "error", err)
		return
	}
	i.feedback.Add(&feedback.DocumentNodeCreated{
		ContextPath: address.SerializeForURI(),
		Identifier:  string(node.NodeAggregateID),
	})
}

func (i *Importer) load(ctx context.Context, fsys fs.FS, root string) ([]*document, error) {
	root = path.Clean(strings.TrimPrefix(root, "/"))
	if root == "" {
		root = "."
	}
	var docs []*document
	err := fs.WalkDir(fsys, root, func(file string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || path.Ext(file) != ".md" {
			return nil
		}
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("importer: read %s: %w", file, err)
		}
		var meta frontMatter
		body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
		if err != nil {
			return fmt.Errorf("importer: parse frontmatter %s: %w", file, err)
		}
		docs = append(docs, &document{
			file:     file,
			nodePath: nodePath(root, file, meta.Name),
			meta:     meta,
			body:     body,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(docs, func(a, b *document) int {
		if da, db := depth(a.nodePath), depth(b.nodePath); da != db {
			return da - db
		}
		return strings.Compare(a.nodePath, b.nodePath)
	})
	return docs, nil
}

func (i *Importer) buildRecord(doc *document, cfg Config, stream nodes.ContentStreamID, byPath map[string]nodes.NodeAggregateID) (*nodes.Record, error) {
	properties := make(map[string]any, len(doc.meta.Properties)+3)
	for key, value := range doc.meta.Properties {
		properties[key] = value
	}
	if doc.meta.Title != "" {
		properties["title"] = doc.meta.Title
	}
	if doc.meta.HiddenInIndex {
		properties["_hiddenInIndex"] = true
	}
	if len(bytes.TrimSpace(doc.body)) > 0 {
		var buf bytes.Buffer
		if err := i.markdown.Convert(doc.body, &buf); err != nil {
			return nil, fmt.Errorf("render markdown: %w", err)
		}
		properties["text"] = buf.String()
	}

	nodeType := nodes.NodeTypeName(strings.TrimSpace(doc.meta.NodeType))
	classification := nodes.ClassificationRegular
	var parent nodes.NodeAggregateID
	if doc.nodePath == "/" {
		classification = nodes.ClassificationRoot
		if nodeType == "" {
			nodeType = cfg.SiteNodeType
		}
	} else {
		if nodeType == "" {
			nodeType = cfg.DocumentNodeType
		}
		var ok bool
		if parent, ok = nearestParent(doc.nodePath, byPath); !ok {
			return nil, fmt.Errorf("no parent for %s", doc.nodePath)
		}
	}

	now := i.now().UTC()
	record := &nodes.Record{
		Node: nodes.Node{
			SubgraphIdentity: nodes.SubgraphIdentity{
				ContentRepositoryID: cfg.ContentRepositoryID,
				ContentStreamID:     stream,
				DimensionSpacePoint: cfg.DimensionSpacePoint.Clone(),
			},
			NodeAggregateID:           nodes.NodeAggregateID(identity.NodeAggregateID(cfg.Site, doc.nodePath)),
			OriginDimensionSpacePoint: cfg.DimensionSpacePoint.Clone(),
			Classification:            classification,
			NodeTypeName:              nodeType,
			Properties:                properties,
			Timestamps: nodes.Timestamps{
				Created:      now,
				LastModified: &now,
			},
		},
		ParentNodeAggregateID: parent,
		Position:              doc.meta.Position,
		Hidden:                doc.meta.Hidden,
	}
	if name := path.Base(doc.nodePath); doc.nodePath != "/" {
		nodeName := nodes.NodeName(name)
		record.Node.NodeName = &nodeName
	}
	return record, nil
}

func withDefaults(cfg Config) Config {
	if cfg.ContentRepositoryID == "" {
		cfg.ContentRepositoryID = nodes.DefaultContentRepository
	}
	if cfg.Workspace == "" {
		cfg.Workspace = nodes.LiveWorkspace
	}
	if cfg.SiteNodeType == "" {
		cfg.SiteNodeType = DefaultSiteNodeType
	}
	if cfg.DocumentNodeType == "" {
		cfg.DocumentNodeType = DefaultDocumentNodeType
	}
	if cfg.DocumentRole == "" {
		cfg.DocumentRole = DefaultDocumentRole
	}
	if cfg.DimensionSpacePoint == nil {
		cfg.DimensionSpacePoint = nodes.DimensionSpacePoint{}
	}
	return cfg
}

// nodePath maps a file below root to a slash path of normalized node names.
func nodePath(root, file, name string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(file, root), "/")
	if root == "." {
		rel = file
	}
	rel = strings.TrimSuffix(rel, ".md")
	segments := strings.Split(rel, "/")
	if segments[len(segments)-1] == "index" {
		segments = segments[:len(segments)-1]
	} else if strings.TrimSpace(name) != "" {
		segments[len(segments)-1] = name
	}
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if normalized := normalizeName(segment); normalized != "" {
			out = append(out, normalized)
		}
	}
	return "/" + strings.Join(out, "/")
}

func normalizeName(value string) string {
	normalized, err := slug.Normalize(value)
	if err != nil || normalized == "" {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return normalized
}

func nearestParent(nodePath string, byPath map[string]nodes.NodeAggregateID) (nodes.NodeAggregateID, bool) {
	for current := path.Dir(nodePath); ; current = path.Dir(current) {
		if id, ok := byPath[current]; ok {
			return id, true
		}
		if current == "/" {
			return "", false
		}
	}
}

func depth(nodePath string) int {
	if nodePath == "/" {
		return 0
	}
	return strings.Count(nodePath, "/")
}

func findDocument(docs []*document, nodePath string) (*document, bool) {
	for _, doc := range docs {
		if doc.nodePath == nodePath {
			return doc, true
		}
	}
	return nil, false
}
