package workspaces

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ActionSystemInit          = "@neos/neos-ui/System/INIT"
	ActionUpdate              = "@neos/neos-ui/CR/Workspaces/UPDATE"
	ActionPublishStarted      = "@neos/neos-ui/CR/Workspaces/PUBLISH_STARTED"
	ActionPublishFinished     = "@neos/neos-ui/CR/Workspaces/PUBLISH_FINISHED"
	ActionDiscardStarted      = "@neos/neos-ui/CR/Workspaces/DISCARD_STARTED"
	ActionDiscardAborted      = "@neos/neos-ui/CR/Workspaces/DISCARD_ABORTED"
	ActionDiscardConfirmed    = "@neos/neos-ui/CR/Workspaces/DISCARD_CONFIRMED"
	ActionDiscardFinished     = "@neos/neos-ui/CR/Workspaces/DISCARD_FINISHED"
	ActionChangeBaseWorkspace = "@neos/neos-ui/CR/Workspaces/CHANGE_BASE_WORKSPACE"
	ActionRebaseWorkspace     = "@neos/neos-ui/CR/Workspaces/REBASE_WORKSPACE"
)

var validStatuses = []any{"", StatusUpToDate, StatusOutdated, StatusOutdatedConflict}

// InitAction seeds the client state from the backend payload.
type InitAction struct {
	CR InitialContentRepositoryState `json:"cr"`
}

type InitialContentRepositoryState struct {
	Workspaces struct {
		PersonalWorkspace WorkspaceInformation `json:"personalWorkspace"`
	} `json:"workspaces"`
	Nodes struct {
		DocumentNode string `json:"documentNode"`
	} `json:"nodes"`
}

func (InitAction) Type() string { return ActionSystemInit }

func (a InitAction) Validate() error {
	return validateWorkspace(a.CR.Workspaces.PersonalWorkspace.Status, a.CR.Workspaces.PersonalWorkspace.PublishableNodes)
}

// Init builds the system INIT action for a personal workspace and the
// currently focused document.
func Init(personal WorkspaceInformation, documentNode string) InitAction {
	var action InitAction
	action.CR.Workspaces.PersonalWorkspace = personal
	action.CR.Nodes.DocumentNode = documentNode
	return action
}

// WorkspaceUpdate lists the fields an UPDATE overrides. Nil fields keep
// their current value.
type WorkspaceUpdate struct {
	Name             *string            `json:"name,omitempty"`
	PublishableNodes *[]PublishableNode `json:"publishableNodes,omitempty"`
	BaseWorkspace    *string            `json:"baseWorkspace,omitempty"`
	ReadOnly         *bool              `json:"readOnly,omitempty"`
	Status           *string            `json:"status,omitempty"`
}

type UpdateAction struct {
	Payload WorkspaceUpdate
}

func (UpdateAction) Type() string { return ActionUpdate }

func (a UpdateAction) Validate() error {
	status := ""
	if a.Payload.Status != nil {
		status = *a.Payload.Status
	}
	var nodes []PublishableNode
	if a.Payload.PublishableNodes != nil {
		nodes = *a.Payload.PublishableNodes
	}
	return validateWorkspace(status, nodes)
}

type PublishStartedAction struct {
	Scope Scope `json:"scope"`
}

func (PublishStartedAction) Type() string { return ActionPublishStarted }

func (a PublishStartedAction) Validate() error { return validateScope(a.Scope) }

type PublishFinishedAction struct{}

func (PublishFinishedAction) Type() string { return ActionPublishFinished }

func (PublishFinishedAction) Validate() error { return nil }

type DiscardStartedAction struct {
	Scope Scope `json:"scope"`
}

func (DiscardStartedAction) Type() string { return ActionDiscardStarted }

func (a DiscardStartedAction) Validate() error { return validateScope(a.Scope) }

type DiscardAbortedAction struct{}

func (DiscardAbortedAction) Type() string { return ActionDiscardAborted }

func (DiscardAbortedAction) Validate() error { return nil }

type DiscardConfirmedAction struct{}

func (DiscardConfirmedAction) Type() string { return ActionDiscardConfirmed }

func (DiscardConfirmedAction) Validate() error { return nil }

type DiscardFinishedAction struct{}

func (DiscardFinishedAction) Type() string { return ActionDiscardFinished }

func (DiscardFinishedAction) Validate() error { return nil }

type ChangeBaseWorkspaceAction struct {
	Name string
}

func (ChangeBaseWorkspaceAction) Type() string { return ActionChangeBaseWorkspace }

func (a ChangeBaseWorkspaceAction) Validate() error {
	return validation.Errors{
		"name": validation.Validate(a.Name, validation.Required),
	}.Filter()
}

type RebaseWorkspaceAction struct {
	Name string
}

func (RebaseWorkspaceAction) Type() string { return ActionRebaseWorkspace }

func (a RebaseWorkspaceAction) Validate() error {
	return validation.Errors{
		"name": validation.Validate(a.Name, validation.Required),
	}.Filter()
}

// Update overrides the given workspace fields.
func Update(data WorkspaceUpdate) UpdateAction { return UpdateAction{Payload: data} }

// Publish starts publishing every change in scope.
func Publish(scope Scope) PublishStartedAction { return PublishStartedAction{Scope: scope} }

func FinishPublish() PublishFinishedAction { return PublishFinishedAction{} }

// Discard starts discarding every change in scope.
func Discard(scope Scope) DiscardStartedAction { return DiscardStartedAction{Scope: scope} }

func AbortDiscard() DiscardAbortedAction { return DiscardAbortedAction{} }

func ConfirmDiscard() DiscardConfirmedAction { return DiscardConfirmedAction{} }

func FinishDiscard() DiscardFinishedAction { return DiscardFinishedAction{} }

func ChangeBaseWorkspace(name string) ChangeBaseWorkspaceAction {
	return ChangeBaseWorkspaceAction{Name: name}
}

// RebaseWorkspace requests a rebase of the named workspace onto its base.
func RebaseWorkspace(name string) RebaseWorkspaceAction {
	return RebaseWorkspaceAction{Name: name}
}

func validateScope(scope Scope) error {
	if !scope.Valid() {
		return validation.Errors{
			"scope": validation.NewError("workspaces.scope_invalid", "scope must be SITE (0) or DOCUMENT (1)"),
		}
	}
	return nil
}

func validateWorkspace(status string, nodes []PublishableNode) error {
	errs := validation.Errors{}
	if err := validation.Validate(status, validation.In(validStatuses...)); err != nil {
		errs["status"] = err
	}
	for _, node := range nodes {
		if node.ContextPath == "" {
			errs["publishableNodes"] = validation.NewError("workspaces.publishable_node_invalid", "publishable nodes need a contextPath")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
