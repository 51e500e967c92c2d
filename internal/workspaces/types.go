// Package workspaces holds the state of the editor's personal workspace:
// its publishable changes, its sync status and the scope of an in-flight
// publish or discard.
package workspaces

import "slices"

// Status values reported for the personal workspace.
const (
	StatusUpToDate         = "UP_TO_DATE"
	StatusOutdated         = "OUTDATED"
	StatusOutdatedConflict = "OUTDATED_CONFLICT"
)

// Scope selects what a publish or discard applies to.
type Scope int

const (
	ScopeSite     Scope = 0
	ScopeDocument Scope = 1
)

func (s Scope) Valid() bool {
	return s == ScopeSite || s == ScopeDocument
}

func (s Scope) String() string {
	switch s {
	case ScopeSite:
		return "SITE"
	case ScopeDocument:
		return "DOCUMENT"
	default:
		return "UNKNOWN"
	}
}

// PublishableNode is one unpublished change and the document it lives in.
type PublishableNode struct {
	ContextPath         string `json:"contextPath"`
	DocumentContextPath string `json:"documentContextPath"`
}

// WorkspaceInformation describes the personal workspace.
type WorkspaceInformation struct {
	Name             string            `json:"name"`
	PublishableNodes []PublishableNode `json:"publishableNodes"`
	BaseWorkspace    string            `json:"baseWorkspace"`
	ReadOnly         *bool             `json:"readOnly,omitempty"`
	Status           string            `json:"status,omitempty"`
}

func (w WorkspaceInformation) clone() WorkspaceInformation {
	out := w
	out.PublishableNodes = slices.Clone(w.PublishableNodes)
	if out.PublishableNodes == nil {
		out.PublishableNodes = []PublishableNode{}
	}
	if w.ReadOnly != nil {
		readOnly := *w.ReadOnly
		out.ReadOnly = &readOnly
	}
	return out
}

// State is the workspaces slice. Scope is nil unless a publish or discard
// is in flight.
type State struct {
	PersonalWorkspace WorkspaceInformation `json:"personalWorkspace"`
	Scope             *Scope               `json:"scope"`
}

// DefaultState returns the state the slice starts from.
func DefaultState() State {
	return State{
		PersonalWorkspace: WorkspaceInformation{
			Name:             "",
			PublishableNodes: []PublishableNode{},
			BaseWorkspace:    "",
			Status:           "",
		},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{PersonalWorkspace: s.PersonalWorkspace.clone()}
	if s.Scope != nil {
		scope := *s.Scope
		out.Scope = &scope
	}
	return out
}
