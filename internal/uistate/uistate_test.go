package uistate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-ui/internal/workspaces"
	"github.com/stretchr/testify/require"
)

func TestReduceSyncWorkspaceModal(t *testing.T) {
	state := ReduceSyncWorkspaceModal(SyncWorkspaceModalState{}, OpenSyncWorkspaceModal())
	require.True(t, state.IsOpen)
	state = ReduceSyncWorkspaceModal(state, StartSaving())
	require.True(t, state.IsOpen)
	state = ReduceSyncWorkspaceModal(state, CloseSyncWorkspaceModal())
	require.False(t, state.IsOpen)
}

func TestReduceRemoteFollowsWorkflows(t *testing.T) {
	state := RemoteState{}

	state = ReduceRemote(state, StartSaving())
	require.True(t, state.IsSaving)
	state = ReduceRemote(state, FinishSaving())
	require.False(t, state.IsSaving)

	state = ReduceRemote(state, workspaces.Publish(workspaces.ScopeSite))
	require.True(t, state.IsPublishing)
	state = ReduceRemote(state, workspaces.FinishPublish())
	require.False(t, state.IsPublishing)

	state = ReduceRemote(state, workspaces.Discard(workspaces.ScopeDocument))
	require.False(t, state.IsDiscarding, "discard waits for confirmation")
	state = ReduceRemote(state, workspaces.ConfirmDiscard())
	require.True(t, state.IsDiscarding)
	state = ReduceRemote(state, workspaces.FinishDiscard())
	require.False(t, state.IsDiscarding)
}

func TestReduceNodes(t *testing.T) {
	state := ReduceNodes(NodesState{}, workspaces.Init(workspaces.WorkspaceInformation{}, "live__e30__home"))
	require.Equal(t, "live__e30__home", state.DocumentNode)

	state = ReduceNodes(state, SetDocumentNode("live__e30__about"))
	require.Equal(t, "live__e30__about", state.DocumentNode)

	require.Error(t, SetDocumentNode("").Validate())
}

func TestDecodeAction(t *testing.T) {
	action, err := DecodeAction(ActionSetDocumentNode, json.RawMessage(`"live__e30__about"`))
	require.NoError(t, err)
	require.Equal(t, SetDocumentNode("live__e30__about"), action)

	action, err = DecodeAction(ActionOpenSyncWorkspaceModal, nil)
	require.NoError(t, err)
	require.Equal(t, OpenSyncWorkspaceModal(), action)

	_, err = DecodeAction(workspaces.ActionUpdate, nil)
	require.True(t, errors.Is(err, ErrUnknownAction))
}
