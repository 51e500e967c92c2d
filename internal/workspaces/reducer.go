package workspaces

import (
	command "github.com/goliatone/go-command"
)

// Reduce applies action to state and returns the next state. The input is
// never modified; actions the slice does not handle return an equal copy.
func Reduce(state State, action command.Message) State {
	next := state.Clone()
	switch a := action.(type) {
	case InitAction:
		next.PersonalWorkspace = a.CR.Workspaces.PersonalWorkspace.clone()
	case UpdateAction:
		next.PersonalWorkspace = merge(next.PersonalWorkspace, a.Payload)
	case PublishStartedAction:
		next.Scope = scopePtr(a.Scope)
	case DiscardStartedAction:
		next.Scope = scopePtr(a.Scope)
	case PublishFinishedAction, DiscardAbortedAction, DiscardFinishedAction:
		next.Scope = nil
	}
	return next
}

func merge(current WorkspaceInformation, update WorkspaceUpdate) WorkspaceInformation {
	if update.Name != nil {
		current.Name = *update.Name
	}
	if update.PublishableNodes != nil {
		current.PublishableNodes = WorkspaceInformation{PublishableNodes: *update.PublishableNodes}.clone().PublishableNodes
	}
	if update.BaseWorkspace != nil {
		current.BaseWorkspace = *update.BaseWorkspace
	}
	if update.ReadOnly != nil {
		readOnly := *update.ReadOnly
		current.ReadOnly = &readOnly
	}
	if update.Status != nil {
		current.Status = *update.Status
	}
	return current
}

func scopePtr(scope Scope) *Scope {
	return &scope
}
