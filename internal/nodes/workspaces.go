package nodes

import (
	"context"
	"sync"
)

// Workspace binds a workspace name to its current content stream.
type Workspace struct {
	Name                   WorkspaceName
	BaseWorkspaceName      WorkspaceName
	CurrentContentStreamID ContentStreamID
	Title                  string
}

// IsPersonal reports whether the workspace is a user workspace.
func (w *Workspace) IsPersonal() bool {
	return w != nil && w.BaseWorkspaceName != ""
}

// WorkspaceFinder looks up workspaces. Missing workspaces return (nil, nil).
type WorkspaceFinder interface {
	FindOneByName(ctx context.Context, name WorkspaceName) (*Workspace, error)
	FindOneByCurrentContentStreamID(ctx context.Context, stream ContentStreamID) (*Workspace, error)
}

// MemoryWorkspaceFinder is an in-memory WorkspaceFinder.
type MemoryWorkspaceFinder struct {
	mu       sync.RWMutex
	byName   map[WorkspaceName]*Workspace
	byStream map[ContentStreamID]WorkspaceName
}

// NewMemoryWorkspaceFinder constructs a finder seeded with workspaces.
func NewMemoryWorkspaceFinder(workspaces ...Workspace) *MemoryWorkspaceFinder {
	f := &MemoryWorkspaceFinder{
		byName:   make(map[WorkspaceName]*Workspace),
		byStream: make(map[ContentStreamID]WorkspaceName),
	}
	for _, ws := range workspaces {
		f.Register(ws)
	}
	return f
}

// Register inserts or replaces a workspace.
func (f *MemoryWorkspaceFinder) Register(ws Workspace) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byName[ws.Name]; ok {
		delete(f.byStream, existing.CurrentContentStreamID)
	}
	copied := ws
	f.byName[ws.Name] = &copied
	if ws.CurrentContentStreamID != "" {
		f.byStream[ws.CurrentContentStreamID] = ws.Name
	}
}

func (f *MemoryWorkspaceFinder) FindOneByName(_ context.Context, name WorkspaceName) (*Workspace, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ws, ok := f.byName[name]
	if !ok {
		return nil, nil
	}
	copied := *ws
	return &copied, nil
}

func (f *MemoryWorkspaceFinder) FindOneByCurrentContentStreamID(ctx context.Context, stream ContentStreamID) (*Workspace, error) {
	f.mu.RLock()
	name, ok := f.byStream[stream]
	f.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return f.FindOneByName(ctx, name)
}
