// Package uistate holds the UI slices the workspace sync button reads: the
// sync modal, the remote activity flags and the focused document.
package uistate

import (
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-ui/internal/workspaces"
	command "github.com/goliatone/go-command"
)

const (
	ActionOpenSyncWorkspaceModal  = "@neos/neos-ui/UI/SyncWorkspaceModal/OPEN"
	ActionCloseSyncWorkspaceModal = "@neos/neos-ui/UI/SyncWorkspaceModal/CLOSE"
	ActionStartSaving             = "@neos/neos-ui/UI/Remote/START_SAVING"
	ActionFinishSaving            = "@neos/neos-ui/UI/Remote/FINISH_SAVING"
	ActionSetDocumentNode         = "@neos/neos-ui/CR/Nodes/SET_DOCUMENT_NODE"
)

var ErrUnknownAction = errors.New("uistate: unknown action type")

type SyncWorkspaceModalState struct {
	IsOpen bool `json:"isOpen"`
}

// RemoteState tracks requests in flight against the backend.
type RemoteState struct {
	IsSaving     bool `json:"isSaving"`
	IsPublishing bool `json:"isPublishing"`
	IsDiscarding bool `json:"isDiscarding"`
}

// NodesState holds the context path of the document shown in the content
// canvas.
type NodesState struct {
	DocumentNode string `json:"documentNode"`
}

type OpenSyncWorkspaceModalAction struct{}

func (OpenSyncWorkspaceModalAction) Type() string    { return ActionOpenSyncWorkspaceModal }
func (OpenSyncWorkspaceModalAction) Validate() error { return nil }

type CloseSyncWorkspaceModalAction struct{}

func (CloseSyncWorkspaceModalAction) Type() string    { return ActionCloseSyncWorkspaceModal }
func (CloseSyncWorkspaceModalAction) Validate() error { return nil }

type StartSavingAction struct{}

func (StartSavingAction) Type() string    { return ActionStartSaving }
func (StartSavingAction) Validate() error { return nil }

type FinishSavingAction struct{}

func (FinishSavingAction) Type() string    { return ActionFinishSaving }
func (FinishSavingAction) Validate() error { return nil }

type SetDocumentNodeAction struct {
	ContextPath string
}

func (SetDocumentNodeAction) Type() string { return ActionSetDocumentNode }

func (a SetDocumentNodeAction) Validate() error {
	return validation.Errors{
		"contextPath": validation.Validate(a.ContextPath, validation.Required),
	}.Filter()
}

func OpenSyncWorkspaceModal() OpenSyncWorkspaceModalAction   { return OpenSyncWorkspaceModalAction{} }
func CloseSyncWorkspaceModal() CloseSyncWorkspaceModalAction { return CloseSyncWorkspaceModalAction{} }
func StartSaving() StartSavingAction                         { return StartSavingAction{} }
func FinishSaving() FinishSavingAction                       { return FinishSavingAction{} }

func SetDocumentNode(contextPath string) SetDocumentNodeAction {
	return SetDocumentNodeAction{ContextPath: contextPath}
}

func ReduceSyncWorkspaceModal(state SyncWorkspaceModalState, action command.Message) SyncWorkspaceModalState {
	switch action.(type) {
	case OpenSyncWorkspaceModalAction:
		state.IsOpen = true
	case CloseSyncWorkspaceModalAction:
		state.IsOpen = false
	}
	return state
}

// ReduceRemote follows save requests and the publish and discard workflows
// of the workspaces slice.
func ReduceRemote(state RemoteState, action command.Message) RemoteState {
	switch action.(type) {
	case StartSavingAction:
		state.IsSaving = true
	case FinishSavingAction:
		state.IsSaving = false
	case workspaces.PublishStartedAction:
		state.IsPublishing = true
	case workspaces.PublishFinishedAction:
		state.IsPublishing = false
	case workspaces.DiscardConfirmedAction:
		state.IsDiscarding = true
	case workspaces.DiscardFinishedAction, workspaces.DiscardAbortedAction:
		state.IsDiscarding = false
	}
	return state
}

func ReduceNodes(state NodesState, action command.Message) NodesState {
	switch a := action.(type) {
	case workspaces.InitAction:
		state.DocumentNode = a.CR.Nodes.DocumentNode
	case SetDocumentNodeAction:
		state.DocumentNode = a.ContextPath
	}
	return state
}

// DecodeAction builds the UI action for actionType.
func DecodeAction(actionType string, payload json.RawMessage) (command.Message, error) {
	switch actionType {
	case ActionOpenSyncWorkspaceModal:
		return OpenSyncWorkspaceModal(), nil
	case ActionCloseSyncWorkspaceModal:
		return CloseSyncWorkspaceModal(), nil
	case ActionStartSaving:
		return StartSaving(), nil
	case ActionFinishSaving:
		return FinishSaving(), nil
	case ActionSetDocumentNode:
		var contextPath string
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &contextPath); err != nil {
				return nil, fmt.Errorf("uistate: decode payload: %w", err)
			}
		}
		return SetDocumentNode(contextPath), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, actionType)
}
