package workspaces

func PersonalWorkspaceName(state State) string {
	return state.PersonalWorkspace.Name
}

func BaseWorkspace(state State) string {
	return state.PersonalWorkspace.BaseWorkspace
}

// IsWorkspaceReadOnly treats an unset flag as writable.
func IsWorkspaceReadOnly(state State) bool {
	return state.PersonalWorkspace.ReadOnly != nil && *state.PersonalWorkspace.ReadOnly
}

func PublishableNodes(state State) []PublishableNode {
	return state.PersonalWorkspace.clone().PublishableNodes
}

// PublishableNodesInDocument returns the changes made inside the document
// at documentContextPath.
func PublishableNodesInDocument(state State, documentContextPath string) []PublishableNode {
	out := []PublishableNode{}
	for _, node := range state.PersonalWorkspace.PublishableNodes {
		if node.DocumentContextPath == documentContextPath {
			out = append(out, node)
		}
	}
	return out
}

// PersonalWorkspaceRebaseStatus returns the sync status of the personal
// workspace.
func PersonalWorkspaceRebaseStatus(state State) string {
	return state.PersonalWorkspace.Status
}

// IsPublishInFlight reports whether a publish or discard has started and
// not yet finished.
func IsPublishInFlight(state State) bool {
	return state.Scope != nil
}

// NodeDirtySelector answers whether a context path has unpublished changes.
type NodeDirtySelector func(state State, contextPath string) bool

// MakeIsDocumentNodeDirtySelector reports a document as dirty when it was
// changed itself or contains a changed node.
func MakeIsDocumentNodeDirtySelector() NodeDirtySelector {
	return func(state State, documentContextPath string) bool {
		for _, node := range state.PersonalWorkspace.PublishableNodes {
			if node.DocumentContextPath == documentContextPath || node.ContextPath == documentContextPath {
				return true
			}
		}
		return false
	}
}

func MakeIsContentNodeDirtySelector() NodeDirtySelector {
	return func(state State, contextPath string) bool {
		for _, node := range state.PersonalWorkspace.PublishableNodes {
			if node.ContextPath == contextPath {
				return true
			}
		}
		return false
	}
}
