package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-ui/internal/api"
	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/internal/routing"
)

type renderNodesPayload struct {
	Nodes                          []string `json:"nodes"`
	OmitMostPropertiesForTreeState bool     `json:"omitMostPropertiesForTreeState,omitempty"`
}

func (a *UIServicesAPI) registerNodeRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "nodes")
	mux.HandleFunc("POST "+root+"/render", a.handleRenderNodes)
	mux.HandleFunc("POST "+root+"/with-parents", a.handleRenderNodesWithParents)
	mux.HandleFunc("GET "+root+"/{address}", a.handleNodeGet)
	mux.HandleFunc("GET "+joinPath(base, "backend-defaults"), a.handleBackendDefaults)
}

func (a *UIServicesAPI) handleNodeGet(w http.ResponseWriter, r *http.Request) {
	if a.nodeInfo == nil || a.addresses == nil {
		unavailable(w)
		return
	}
	node, err := a.resolveNode(r.Context(), r, r.PathValue("address"))
	if err != nil {
		writeError(w, err)
		return
	}

	req := routingRequest(r)
	mode := strings.TrimSpace(r.URL.Query().Get("mode"))
	var info any
	switch mode {
	case "", "full":
		info = a.nodeInfo.RenderNodeWithPropertiesAndChildrenInformation(r.Context(), node, req, r.URL.Query().Get("filter"))
	case "minimal":
		info = a.nodeInfo.RenderNodeWithMinimalPropertiesAndChildrenInformation(r.Context(), node, req, r.URL.Query().Get("filter"))
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "mode must be minimal or full"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (a *UIServicesAPI) handleRenderNodes(w http.ResponseWriter, r *http.Request) {
	if a.nodeInfo == nil || a.addresses == nil {
		unavailable(w)
		return
	}
	var payload renderNodesPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	list := a.resolveNodes(r.Context(), r, payload.Nodes)
	writeJSON(w, http.StatusOK, a.nodeInfo.RenderNodes(r.Context(), list, routingRequest(r), payload.OmitMostPropertiesForTreeState))
}

func (a *UIServicesAPI) handleRenderNodesWithParents(w http.ResponseWriter, r *http.Request) {
	if a.nodeInfo == nil || a.addresses == nil {
		unavailable(w)
		return
	}
	var payload renderNodesPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	list := a.resolveNodes(r.Context(), r, payload.Nodes)
	writeJSON(w, http.StatusOK, a.nodeInfo.RenderNodesWithParents(r.Context(), list, routingRequest(r)))
}

func (a *UIServicesAPI) handleBackendDefaults(w http.ResponseWriter, r *http.Request) {
	if a.nodeInfo == nil || a.addresses == nil {
		unavailable(w)
		return
	}
	query := r.URL.Query()
	var site, document *nodes.Node
	for _, target := range []struct {
		param string
		node  **nodes.Node
	}{
		{param: "site", node: &site},
		{param: "document", node: &document},
	} {
		raw := strings.TrimSpace(query.Get(target.param))
		if raw == "" {
			continue
		}
		node, err := a.resolveNode(r.Context(), r, raw)
		if err != nil {
			writeError(w, err)
			return
		}
		*target.node = node
	}
	defaults := a.nodeInfo.DefaultNodesForBackend(r.Context(), site, document, routingRequest(r))
	writeJSON(w, http.StatusOK, api.EmptyArrayToObject(defaults))
}

func (a *UIServicesAPI) resolveNode(ctx context.Context, r *http.Request, raw string) (*nodes.Node, error) {
	address, err := nodeaddress.Parse(raw)
	if err != nil {
		return nil, err
	}
	node, err := a.addresses.Resolve(ctx, a.repositoryID(r), address)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, &nodes.NotFoundError{Resource: "node", Key: raw}
	}
	return node, nil
}

// resolveNodes drops addresses that cannot be resolved.
func (a *UIServicesAPI) resolveNodes(ctx context.Context, r *http.Request, addresses []string) nodes.Nodes {
	out := make(nodes.Nodes, 0, len(addresses))
	for _, raw := range addresses {
		node, err := a.resolveNode(ctx, r, raw)
		if err != nil {
			a.logger.Debug("http.node.unresolved", "address", raw, "error", err)
			continue
		}
		out = append(out, node)
	}
	return out
}

func (a *UIServicesAPI) repositoryID(r *http.Request) nodes.ContentRepositoryID {
	if id := strings.TrimSpace(r.URL.Query().Get("contentRepository")); id != "" {
		return nodes.ContentRepositoryID(id)
	}
	return a.contentRepository
}

func routingRequest(r *http.Request) *routing.Request {
	return &routing.Request{Group: strings.TrimSpace(r.URL.Query().Get("group"))}
}
