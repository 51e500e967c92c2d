package nodes

import (
	"fmt"
	"sync"
)

// ContentRepository groups the collaborators of one content repository.
type ContentRepository struct {
	ID         ContentRepositoryID
	NodeTypes  *NodeTypeManager
	Nodes      NodeRepository
	Hidden     HiddenStateFinder
	Workspaces WorkspaceFinder
}

// Subgraph returns the view on stream and dsp.
func (r *ContentRepository) Subgraph(stream ContentStreamID, dsp DimensionSpacePoint) ContentSubgraph {
	return NewSubgraph(SubgraphIdentity{
		ContentRepositoryID: r.ID,
		ContentStreamID:     stream,
		DimensionSpacePoint: dsp.Clone(),
	}, r.Nodes, r.NodeTypes)
}

// Registry resolves content repositories by id.
type Registry struct {
	mu           sync.RWMutex
	repositories map[ContentRepositoryID]*ContentRepository
}

// NewRegistry constructs a registry, filling unset collaborators with
// in-memory defaults.
func NewRegistry(repositories ...*ContentRepository) *Registry {
	r := &Registry{repositories: make(map[ContentRepositoryID]*ContentRepository)}
	for _, repo := range repositories {
		_ = r.Register(repo)
	}
	return r
}

// Register adds or replaces a content repository.
func (r *Registry) Register(repo *ContentRepository) error {
	if repo == nil || repo.ID == "" {
		return ErrContentRepositoryIDRequired
	}
	if repo.NodeTypes == nil {
		repo.NodeTypes = NewNodeTypeManager()
	}
	if repo.Nodes == nil {
		repo.Nodes = NewMemoryNodeRepository()
	}
	if repo.Hidden == nil {
		repo.Hidden = NewHiddenStateFinder(repo.Nodes)
	}
	if repo.Workspaces == nil {
		repo.Workspaces = NewMemoryWorkspaceFinder()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repositories[repo.ID] = repo
	return nil
}

// Get returns the content repository registered under id.
func (r *Registry) Get(id ContentRepositoryID) (*ContentRepository, error) {
	if r == nil {
		return nil, &NotFoundError{Resource: "content_repository", Key: string(id)}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	repo, ok := r.repositories[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content_repository", Key: string(id)}
	}
	return repo, nil
}

// SubgraphForNode returns the subgraph node was read from.
func (r *Registry) SubgraphForNode(node *Node) (ContentSubgraph, error) {
	if node == nil {
		return nil, fmt.Errorf("nodes: subgraph for nil node")
	}
	repo, err := r.Get(node.SubgraphIdentity.ContentRepositoryID)
	if err != nil {
		return nil, err
	}
	return repo.Subgraph(node.SubgraphIdentity.ContentStreamID, node.SubgraphIdentity.DimensionSpacePoint), nil
}
