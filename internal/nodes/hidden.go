package nodes

import "context"

// HiddenState reports whether a node is disabled in a subgraph.
type HiddenState struct {
	Hidden bool
}

// IsHidden mirrors the persisted flag.
func (h HiddenState) IsHidden() bool { return h.Hidden }

// HiddenStateFinder resolves the hidden state of a node.
type HiddenStateFinder interface {
	FindHiddenState(ctx context.Context, stream ContentStreamID, dsp DimensionSpacePoint, id NodeAggregateID) (HiddenState, error)
}

type repositoryHiddenStateFinder struct {
	repo NodeRepository
}

// NewHiddenStateFinder reads the hidden flag stored with each record. Unknown
// nodes are reported as visible.
func NewHiddenStateFinder(repo NodeRepository) HiddenStateFinder {
	return &repositoryHiddenStateFinder{repo: repo}
}

func (f *repositoryHiddenStateFinder) FindHiddenState(ctx context.Context, stream ContentStreamID, dsp DimensionSpacePoint, id NodeAggregateID) (HiddenState, error) {
	record, err := f.repo.Get(ctx, RecordKey{ContentStreamID: stream, DimensionSpacePoint: dsp, NodeAggregateID: id})
	if err != nil {
		if IsNotFound(err) {
			return HiddenState{}, nil
		}
		return HiddenState{}, err
	}
	return HiddenState{Hidden: record.Hidden}, nil
}
