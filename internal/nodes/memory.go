package nodes

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

type memoryNodeRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryNodeRepository constructs an in-memory node repository.
func NewMemoryNodeRepository() NodeRepository {
	return &memoryNodeRepository{records: make(map[string]*Record)}
}

func (m *memoryNodeRepository) Save(_ context.Context, record *Record) (*Record, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneRecord(record)
	m.records[KeyOf(cloned).String()] = cloned
	return cloneRecord(cloned), nil
}

func (m *memoryNodeRepository) Get(_ context.Context, key RecordKey) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[key.String()]
	if !ok {
		return nil, &NotFoundError{Resource: "node", Key: string(key.NodeAggregateID)}
	}
	return cloneRecord(record), nil
}

func (m *memoryNodeRepository) Children(_ context.Context, stream ContentStreamID, dsp DimensionSpacePoint, parent NodeAggregateID) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for _, record := range m.records {
		if record.ParentNodeAggregateID != parent || !inSubgraph(record, stream, dsp) {
			continue
		}
		out = append(out, cloneRecord(record))
	}
	sortByPosition(out)
	return out, nil
}

func (m *memoryNodeRepository) Delete(_ context.Context, key RecordKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key.String()
	if _, ok := m.records[k]; !ok {
		return &NotFoundError{Resource: "node", Key: string(key.NodeAggregateID)}
	}
	delete(m.records, k)
	return nil
}

func (m *memoryNodeRepository) List(_ context.Context, stream ContentStreamID, dsp DimensionSpacePoint) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for _, record := range m.records {
		if inSubgraph(record, stream, dsp) {
			out = append(out, cloneRecord(record))
		}
	}
	sortByPosition(out)
	return out, nil
}

func inSubgraph(record *Record, stream ContentStreamID, dsp DimensionSpacePoint) bool {
	identity := record.Node.SubgraphIdentity
	return identity.ContentStreamID == stream && identity.DimensionSpacePoint.Equals(dsp)
}

func sortByPosition(records []*Record) {
	slices.SortStableFunc(records, func(a, b *Record) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.Node.NodeAggregateID, b.Node.NodeAggregateID)
	})
}
