package workspaces

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionTypes(t *testing.T) {
	require.Equal(t, "@neos/neos-ui/CR/Workspaces/UPDATE", Update(WorkspaceUpdate{}).Type())
	require.Equal(t, "@neos/neos-ui/CR/Workspaces/PUBLISH_STARTED", Publish(ScopeSite).Type())
	require.Equal(t, "@neos/neos-ui/CR/Workspaces/DISCARD_CONFIRMED", ConfirmDiscard().Type())
	require.Equal(t, "@neos/neos-ui/CR/Workspaces/REBASE_WORKSPACE", RebaseWorkspace("x").Type())
	require.Equal(t, "@neos/neos-ui/System/INIT", Init(WorkspaceInformation{}, "").Type())
}

func TestActionValidation(t *testing.T) {
	require.NoError(t, Publish(ScopeDocument).Validate())
	require.Error(t, Publish(Scope(7)).Validate())
	require.Error(t, Discard(Scope(-1)).Validate())

	require.NoError(t, ChangeBaseWorkspace("stage").Validate())
	require.Error(t, ChangeBaseWorkspace("").Validate())
	require.Error(t, RebaseWorkspace("").Validate())

	require.NoError(t, Update(WorkspaceUpdate{Status: ptr(StatusOutdatedConflict)}).Validate())
	require.Error(t, Update(WorkspaceUpdate{Status: ptr("BROKEN")}).Validate())
	require.Error(t, Update(WorkspaceUpdate{PublishableNodes: &[]PublishableNode{{DocumentContextPath: "doc"}}}).Validate())
	require.Error(t, Init(WorkspaceInformation{Status: "nope"}, "").Validate())
}

func TestDecodeStartedActionsRequireScope(t *testing.T) {
	for _, actionType := range []string{ActionPublishStarted, ActionDiscardStarted} {
		for _, payload := range []string{"", "null", "{}", `{"scope":null}`} {
			_, err := DecodeAction(actionType, json.RawMessage(payload))
			require.Error(t, err, "%s %q", actionType, payload)
		}
	}

	action, err := DecodeAction(ActionPublishStarted, json.RawMessage(`{"scope":0}`))
	require.NoError(t, err)
	require.Equal(t, Publish(ScopeSite), action)
}

func TestDecodeAction(t *testing.T) {
	action, err := DecodeAction(ActionUpdate, json.RawMessage(`{"status":"OUTDATED"}`))
	require.NoError(t, err)
	update, ok := action.(UpdateAction)
	require.True(t, ok)
	require.Nil(t, update.Payload.Name)
	require.Equal(t, StatusOutdated, *update.Payload.Status)

	action, err = DecodeAction(ActionDiscardStarted, json.RawMessage(`{"scope":1}`))
	require.NoError(t, err)
	require.Equal(t, Discard(ScopeDocument), action)

	action, err = DecodeAction(ActionRebaseWorkspace, json.RawMessage(`"user-admin"`))
	require.NoError(t, err)
	require.Equal(t, RebaseWorkspace("user-admin"), action)

	action, err = DecodeAction(ActionPublishFinished, nil)
	require.NoError(t, err)
	require.Equal(t, FinishPublish(), action)

	action, err = DecodeAction(ActionSystemInit, json.RawMessage(`{"cr":{"workspaces":{"personalWorkspace":{"name":"user-admin","publishableNodes":[],"baseWorkspace":"live"}},"nodes":{"documentNode":"doc"}}}`))
	require.NoError(t, err)
	initAction := action.(InitAction)
	require.Equal(t, "user-admin", initAction.CR.Workspaces.PersonalWorkspace.Name)
	require.Equal(t, "doc", initAction.CR.Nodes.DocumentNode)

	_, err = DecodeAction("@neos/neos-ui/UI/Unknown", nil)
	require.True(t, errors.Is(err, ErrUnknownAction))

	_, err = DecodeAction(ActionUpdate, json.RawMessage(`[1]`))
	require.Error(t, err)
}
