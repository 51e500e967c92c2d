// Package store keeps the UI state tree and serializes every change to it
// through a single dispatch loop.
package store

import (
	"github.com/goliatone/go-cms-ui/internal/uistate"
	"github.com/goliatone/go-cms-ui/internal/workspaces"
	command "github.com/goliatone/go-command"
)

type CRState struct {
	Workspaces workspaces.State   `json:"workspaces"`
	Nodes      uistate.NodesState `json:"nodes"`
}

type UIState struct {
	SyncWorkspaceModal uistate.SyncWorkspaceModalState `json:"SyncWorkspaceModal"`
	Remote             uistate.RemoteState             `json:"remote"`
}

// RootState is the full state tree, serialized in the shape the client
// expects.
type RootState struct {
	CR CRState `json:"cr"`
	UI UIState `json:"ui"`
}

func DefaultState() RootState {
	return RootState{
		CR: CRState{Workspaces: workspaces.DefaultState()},
	}
}

// Clone returns a copy that shares no mutable data with s.
func (s RootState) Clone() RootState {
	out := s
	out.CR.Workspaces = s.CR.Workspaces.Clone()
	return out
}

// Reduce runs every slice reducer over action.
func Reduce(state RootState, action command.Message) RootState {
	return RootState{
		CR: CRState{
			Workspaces: workspaces.Reduce(state.CR.Workspaces, action),
			Nodes:      uistate.ReduceNodes(state.CR.Nodes, action),
		},
		UI: UIState{
			SyncWorkspaceModal: uistate.ReduceSyncWorkspaceModal(state.UI.SyncWorkspaceModal, action),
			Remote:             uistate.ReduceRemote(state.UI.Remote, action),
		},
	}
}

// PublishableNodesInDocument returns the changes inside the focused
// document.
func PublishableNodesInDocument(state RootState) []workspaces.PublishableNode {
	return workspaces.PublishableNodesInDocument(state.CR.Workspaces, state.CR.Nodes.DocumentNode)
}
