package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-ui/internal/identity"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NodeModel is the ui_nodes row backing a Record.
type NodeModel struct {
	bun.BaseModel `bun:"table:ui_nodes,alias:un"`

	ID                        uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	ContentRepositoryID       string            `bun:"content_repository_id,notnull" json:"content_repository_id"`
	ContentStreamID           string            `bun:"content_stream_id,notnull" json:"content_stream_id"`
	DimensionHash             string            `bun:"dimension_hash,notnull" json:"dimension_hash"`
	DimensionSpacePoint       map[string]string `bun:"dimension_space_point,type:jsonb" json:"dimension_space_point,omitempty"`
	OriginDimensionSpacePoint map[string]string `bun:"origin_dimension_space_point,type:jsonb" json:"origin_dimension_space_point,omitempty"`
	NodeAggregateID           string            `bun:"node_aggregate_id,notnull" json:"node_aggregate_id"`
	ParentNodeAggregateID     string            `bun:"parent_node_aggregate_id" json:"parent_node_aggregate_id,omitempty"`
	NodeTypeName              string            `bun:"node_type_name,notnull" json:"node_type_name"`
	NodeName                  *string           `bun:"node_name" json:"node_name,omitempty"`
	Classification            string            `bun:"classification,notnull,default:'regular'" json:"classification"`
	Position                  int               `bun:"position,notnull,default:0" json:"position"`
	Hidden                    bool              `bun:"hidden,notnull,default:false" json:"hidden"`
	Properties                map[string]any    `bun:"properties,type:jsonb" json:"properties,omitempty"`
	CreatedAt                 time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	LastModifiedAt            *time.Time        `bun:"last_modified_at" json:"last_modified_at,omitempty"`
	LastPublishedAt           *time.Time        `bun:"last_published_at" json:"last_published_at,omitempty"`
}

// NewNodeModelRepository creates a go-repository-bun repository for node rows.
func NewNodeModelRepository(db *bun.DB) repository.Repository[*NodeModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*NodeModel]{
		NewRecord: func() *NodeModel { return &NodeModel{} },
		GetID: func(m *NodeModel) uuid.UUID {
			return m.ID
		},
		SetID: func(m *NodeModel, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(m *NodeModel) string {
			return m.ID.String()
		},
	})
}

// BunNodeRepository implements NodeRepository on top of bun with optional
// caching.
type BunNodeRepository struct {
	repo         repository.Repository[*NodeModel]
	cacheService cache.CacheService
	cachePrefix  string
}

const nodeNamespace = "ui_node"

// NewBunNodeRepository creates a node repository without caching.
func NewBunNodeRepository(db *bun.DB) *BunNodeRepository {
	return NewBunNodeRepositoryWithCache(db, nil, nil)
}

// NewBunNodeRepositoryWithCache creates a node repository with caching services.
func NewBunNodeRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunNodeRepository {
	base := NewNodeModelRepository(db)
	var svc cache.CacheService
	prefix := ""
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
		prefix = nodeNamespace + cache.KeySeparator
	}
	return &BunNodeRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

// EnsureSchema creates the ui_nodes table when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*NodeModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (r *BunNodeRepository) Save(ctx context.Context, record *Record) (*Record, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}
	model := toModel(record)

	_, err := r.repo.GetByID(ctx, model.ID.String())
	switch {
	case err == nil:
		if _, err := r.repo.Update(ctx, model,
			repository.UpdateByID(model.ID.String()),
			repository.UpdateColumns(
				"content_repository_id",
				"origin_dimension_space_point",
				"parent_node_aggregate_id",
				"node_type_name",
				"node_name",
				"classification",
				"position",
				"hidden",
				"properties",
				"last_modified_at",
				"last_published_at",
			),
		); err != nil {
			return nil, mapRepositoryError(err, "node", model.NodeAggregateID)
		}
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		if _, err := r.repo.Create(ctx, model); err != nil {
			return nil, mapRepositoryError(err, "node", model.NodeAggregateID)
		}
	default:
		return nil, mapRepositoryError(err, "node", model.NodeAggregateID)
	}
	return cloneRecord(record), nil
}

func (r *BunNodeRepository) Get(ctx context.Context, key RecordKey) (*Record, error) {
	id := recordID(key)
	model, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "node", string(key.NodeAggregateID))
	}
	return fromModel(model), nil
}

func (r *BunNodeRepository) Children(ctx context.Context, stream ContentStreamID, dsp DimensionSpacePoint, parent NodeAggregateID) ([]*Record, error) {
	models, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_stream_id = ?", string(stream)).
				Where("?TableAlias.dimension_hash = ?", dsp.Hash()).
				Where("?TableAlias.parent_node_aggregate_id = ?", string(parent)).
				OrderExpr("?TableAlias.position ASC").
				OrderExpr("?TableAlias.node_aggregate_id ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "node", string(parent))
	}
	return fromModels(models), nil
}

func (r *BunNodeRepository) Delete(ctx context.Context, key RecordKey) error {
	id := recordID(key)
	if _, err := r.repo.GetByID(ctx, id.String()); err != nil {
		return mapRepositoryError(err, "node", string(key.NodeAggregateID))
	}
	return r.repo.Delete(ctx, &NodeModel{ID: id})
}

func (r *BunNodeRepository) List(ctx context.Context, stream ContentStreamID, dsp DimensionSpacePoint) ([]*Record, error) {
	models, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_stream_id = ?", string(stream)).
				Where("?TableAlias.dimension_hash = ?", dsp.Hash()).
				OrderExpr("?TableAlias.position ASC").
				OrderExpr("?TableAlias.node_aggregate_id ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "node", string(stream))
	}
	return fromModels(models), nil
}

// InvalidateCache drops every cached node lookup.
func (r *BunNodeRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func recordID(key RecordKey) uuid.UUID {
	return identity.NodeRecordID(string(key.ContentStreamID), key.DimensionSpacePoint.Hash(), string(key.NodeAggregateID))
}

func toModel(record *Record) *NodeModel {
	node := record.Node
	model := &NodeModel{
		ID:                        recordID(KeyOf(record)),
		ContentRepositoryID:       string(node.SubgraphIdentity.ContentRepositoryID),
		ContentStreamID:           string(node.SubgraphIdentity.ContentStreamID),
		DimensionHash:             node.SubgraphIdentity.DimensionSpacePoint.Hash(),
		DimensionSpacePoint:       node.SubgraphIdentity.DimensionSpacePoint.Clone(),
		OriginDimensionSpacePoint: node.OriginDimensionSpacePoint.Clone(),
		NodeAggregateID:           string(node.NodeAggregateID),
		ParentNodeAggregateID:     string(record.ParentNodeAggregateID),
		NodeTypeName:              string(node.NodeTypeName),
		Classification:            string(node.Classification),
		Position:                  record.Position,
		Hidden:                    record.Hidden,
		Properties:                node.Properties,
		CreatedAt:                 node.Timestamps.Created,
		LastModifiedAt:            node.Timestamps.LastModified,
		LastPublishedAt:           node.Timestamps.OriginalLastModified,
	}
	if model.Classification == "" {
		model.Classification = string(ClassificationRegular)
	}
	if node.NodeName != nil {
		name := string(*node.NodeName)
		model.NodeName = &name
	}
	return model
}

func fromModel(model *NodeModel) *Record {
	if model == nil {
		return nil
	}
	record := &Record{
		Node: Node{
			SubgraphIdentity: SubgraphIdentity{
				ContentRepositoryID: ContentRepositoryID(model.ContentRepositoryID),
				ContentStreamID:     ContentStreamID(model.ContentStreamID),
				DimensionSpacePoint: DimensionSpacePoint(model.DimensionSpacePoint).Clone(),
			},
			NodeAggregateID:           NodeAggregateID(model.NodeAggregateID),
			OriginDimensionSpacePoint: DimensionSpacePoint(model.OriginDimensionSpacePoint).Clone(),
			Classification:            Classification(model.Classification),
			NodeTypeName:              NodeTypeName(model.NodeTypeName),
			Properties:                model.Properties,
			Timestamps: Timestamps{
				Created:              model.CreatedAt,
				LastModified:         model.LastModifiedAt,
				OriginalLastModified: model.LastPublishedAt,
			},
		},
		ParentNodeAggregateID: NodeAggregateID(model.ParentNodeAggregateID),
		Position:              model.Position,
		Hidden:                model.Hidden,
	}
	if model.NodeName != nil {
		name := NodeName(*model.NodeName)
		record.Node.NodeName = &name
	}
	return record
}

func fromModels(models []*NodeModel) []*Record {
	out := make([]*Record, 0, len(models))
	for _, model := range models {
		out = append(out, fromModel(model))
	}
	return out
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
