package nodes

import "context"

// RecordKey addresses a node inside one content stream and dimension space
// point.
type RecordKey struct {
	ContentStreamID     ContentStreamID
	DimensionSpacePoint DimensionSpacePoint
	NodeAggregateID     NodeAggregateID
}

// KeyOf returns the storage key of a record.
func KeyOf(record *Record) RecordKey {
	return RecordKey{
		ContentStreamID:     record.Node.SubgraphIdentity.ContentStreamID,
		DimensionSpacePoint: record.Node.SubgraphIdentity.DimensionSpacePoint,
		NodeAggregateID:     record.Node.NodeAggregateID,
	}
}

func (k RecordKey) String() string {
	return string(k.ContentStreamID) + "|" + k.DimensionSpacePoint.Hash() + "|" + string(k.NodeAggregateID)
}

// NodeRepository persists node records.
type NodeRepository interface {
	// Save inserts or replaces the record addressed by its key.
	Save(ctx context.Context, record *Record) (*Record, error)
	Get(ctx context.Context, key RecordKey) (*Record, error)
	// Children returns the direct children of parent ordered by position.
	Children(ctx context.Context, stream ContentStreamID, dsp DimensionSpacePoint, parent NodeAggregateID) ([]*Record, error)
	Delete(ctx context.Context, key RecordKey) error
	List(ctx context.Context, stream ContentStreamID, dsp DimensionSpacePoint) ([]*Record, error)
}

func validateRecord(record *Record) error {
	if record == nil || record.Node.NodeAggregateID == "" {
		return ErrNodeAggregateIDRequired
	}
	if record.Node.SubgraphIdentity.ContentStreamID == "" {
		return ErrContentStreamRequired
	}
	if record.Node.NodeTypeName == "" {
		return ErrNodeTypeNameRequired
	}
	return nil
}
