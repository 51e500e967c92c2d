// Package http exposes the UI services consumed by the admin client.
//
// Routes mount under /neos/ui-services by default:
//   - Nodes: /nodes/{address}, /nodes/render, /nodes/with-parents
//   - Backend defaults: /backend-defaults
//   - Workspace state: /workspace, /workspace/actions, /workspace/stream
//   - Sync button: /workspace/sync-button, /workspace/sync-button/open
//   - Feedback: /feedback
//
// Host applications can register the handlers on their own mux.
package http
