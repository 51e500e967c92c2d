package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-ui/internal/feedback"
	"github.com/goliatone/go-cms-ui/internal/i18n"
	"github.com/goliatone/go-cms-ui/internal/nodeaddress"
	"github.com/goliatone/go-cms-ui/internal/nodeinfo"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/internal/routing"
	"github.com/goliatone/go-cms-ui/internal/store"
	"github.com/goliatone/go-cms-ui/internal/uistate"
	"github.com/goliatone/go-cms-ui/internal/workspaces"
	"github.com/goliatone/go-cms-ui/internal/workspacesync"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/gorilla/websocket"
)

const (
	siteAddress  = "user-admin__eyJsYW5ndWFnZSI6ImVuIn0__site"
	pageAddress  = "user-admin__eyJsYW5ndWFnZSI6ImVuIn0__page"
	childAddress = "user-admin__eyJsYW5ndWFnZSI6ImVuIn0__child"
)

type testEnv struct {
	mux      *http.ServeMux
	store    *store.Store
	feedback *feedback.Collection
}

func setupAPI(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	ctx := context.Background()
	english := nodes.DimensionSpacePoint{"language": "en"}

	repo := &nodes.ContentRepository{
		ID: nodes.DefaultContentRepository,
		NodeTypes: nodes.NewNodeTypeManager(
			&nodes.NodeType{Name: "Neos.Neos:Document", Abstract: true},
			&nodes.NodeType{Name: "Neos.Neos:Site", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Document"}},
			&nodes.NodeType{Name: "Acme:Page", Label: "Page", SuperTypes: []nodes.NodeTypeName{"Neos.Neos:Document"}},
		),
		Workspaces: nodes.NewMemoryWorkspaceFinder(
			nodes.Workspace{Name: "user-admin", BaseWorkspaceName: nodes.LiveWorkspace, CurrentContentStreamID: "cs-user"},
		),
	}
	registry := nodes.NewRegistry(repo)
	for i, seed := range []struct {
		id, parent nodes.NodeAggregateID
		nodeType   nodes.NodeTypeName
	}{
		{id: "site", nodeType: "Neos.Neos:Site"},
		{id: "page", parent: "site", nodeType: "Acme:Page"},
		{id: "child", parent: "page", nodeType: "Acme:Page"},
	} {
		_, err := repo.Nodes.Save(ctx, &nodes.Record{
			Node: nodes.Node{
				SubgraphIdentity: nodes.SubgraphIdentity{ContentRepositoryID: nodes.DefaultContentRepository, ContentStreamID: "cs-user", DimensionSpacePoint: english},
				NodeAggregateID:  seed.id,
				NodeTypeName:     seed.nodeType,
				Properties:       map[string]any{"title": strings.ToUpper(string(seed.id))},
				Timestamps:       nodes.Timestamps{Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			},
			ParentNodeAggregateID: seed.parent,
			Position:              i,
		})
		if err != nil {
			t.Fatalf("seed %s: %v", seed.id, err)
		}
	}

	addresses := nodeaddress.NewFactory(registry)
	locale := i18n.NewUserLocaleService(i18n.Config{DefaultLocale: "en", UILocale: "en"})
	uris := routing.NewNodeURIBuilder(routing.Options{Manager: urlkit.NewRouteManager(routing.DefaultConfig("https://ui.example.com"))})
	helper := nodeinfo.New(registry, addresses, locale, uris, nodeinfo.Config{})

	st := store.New()
	if err := st.Dispatch(ctx, workspaces.Init(workspaces.WorkspaceInformation{
		Name:          "user-admin",
		BaseWorkspace: "live",
		Status:        workspaces.StatusOutdated,
	}, pageAddress)); err != nil {
		t.Fatalf("init store: %v", err)
	}
	collection := feedback.NewCollection()

	api := New(append([]Option{
		WithNodeInfo(helper, addresses),
		WithStore(st),
		WithSyncButton(workspacesync.New(st, nil, locale)),
		WithFeedback(collection),
	}, opts...)...)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	return &testEnv{mux: mux, store: st, feedback: collection}
}

func doRequest(t *testing.T, mux http.Handler, method, path string, body any, expected int) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != expected {
		t.Fatalf("%s %s: expected status %d got %d: %s", method, path, expected, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
}

func TestNodeEndpoints(t *testing.T) {
	env := setupAPI(t)

	var full nodeinfo.NodeInfo
	decodeBody(t, doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/nodes/"+pageAddress, nil, http.StatusOK), &full)
	if !full.IsFullyLoaded || full.Label != "PAGE" {
		t.Fatalf("unexpected full node %+v", full)
	}
	if len(full.Children) != 1 || full.Children[0].ContextPath != childAddress {
		t.Fatalf("expected child stub, got %+v", full.Children)
	}
	if !strings.Contains(full.URI, "/neos/preview") {
		t.Fatalf("expected preview uri, got %q", full.URI)
	}

	var minimal nodeinfo.NodeInfo
	decodeBody(t, doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/nodes/"+pageAddress+"?mode=minimal", nil, http.StatusOK), &minimal)
	if minimal.IsFullyLoaded || minimal.Properties["_hidden"] != false {
		t.Fatalf("unexpected minimal node %+v", minimal)
	}

	doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/nodes/"+pageAddress+"?mode=huge", nil, http.StatusBadRequest)
	doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/nodes/not-an-address", nil, http.StatusBadRequest)
	doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/nodes/user-admin__e30__missing", nil, http.StatusNotFound)
	doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/nodes/user-nobody__e30__page", nil, http.StatusNotFound)
}

func TestRenderNodesEndpoints(t *testing.T) {
	env := setupAPI(t)

	var rendered []nodeinfo.NodeInfo
	decodeBody(t, doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/nodes/render", map[string]any{
		"nodes":                          []string{pageAddress, "user-admin__e30__missing", childAddress},
		"omitMostPropertiesForTreeState": true,
	}, http.StatusOK), &rendered)
	if len(rendered) != 2 || rendered[1].ContextPath != childAddress {
		t.Fatalf("unexpected render result %+v", rendered)
	}

	var withParents []nodeinfo.NodeInfo
	decodeBody(t, doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/nodes/with-parents", map[string]any{
		"nodes": []string{childAddress},
	}, http.StatusOK), &withParents)
	if len(withParents) != 3 {
		t.Fatalf("expected child, page and site, got %d", len(withParents))
	}
	if !withParents[0].Matched || !withParents[2].Intermediate || withParents[2].ContextPath != siteAddress {
		t.Fatalf("unexpected ancestry %+v", withParents)
	}

	doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/nodes/render", nil, http.StatusBadRequest)
}

func TestBackendDefaultsEndpoint(t *testing.T) {
	env := setupAPI(t)

	rec := doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/backend-defaults", nil, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "{}" {
		t.Fatalf("expected empty object, got %s", rec.Body.String())
	}

	var defaults map[string]nodeinfo.NodeInfo
	decodeBody(t, doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/backend-defaults?site="+siteAddress+"&document="+pageAddress, nil, http.StatusOK), &defaults)
	if len(defaults) != 2 || defaults[siteAddress].Label != "SITE" {
		t.Fatalf("unexpected defaults %+v", defaults)
	}
}

func TestWorkspaceActions(t *testing.T) {
	env := setupAPI(t)

	var state store.RootState
	decodeBody(t, doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/workspace", nil, http.StatusOK), &state)
	if state.CR.Workspaces.PersonalWorkspace.Name != "user-admin" {
		t.Fatalf("unexpected state %+v", state)
	}

	decodeBody(t, doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/workspace/actions", map[string]any{
		"type":    workspaces.ActionPublishStarted,
		"payload": map[string]any{"scope": 1},
	}, http.StatusOK), &state)
	if state.CR.Workspaces.Scope == nil || *state.CR.Workspaces.Scope != workspaces.ScopeDocument || !state.UI.Remote.IsPublishing {
		t.Fatalf("expected publish in flight, got %+v", state)
	}

	doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/workspace/actions", map[string]any{
		"type":    workspaces.ActionDiscardStarted,
		"payload": map[string]any{"scope": 4},
	}, http.StatusUnprocessableEntity)
	doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/workspace/actions", map[string]any{
		"type":    workspaces.ActionDiscardStarted,
		"payload": map[string]any{},
	}, http.StatusBadRequest)
	doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/workspace/actions", map[string]any{"type": "@acme/UNKNOWN"}, http.StatusBadRequest)
	doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/workspace/actions", map[string]any{
		"type":    workspaces.ActionUpdate,
		"payload": []int{1},
	}, http.StatusBadRequest)
	doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/workspace/actions", map[string]any{}, http.StatusBadRequest)
}

func TestSyncButtonEndpoints(t *testing.T) {
	env := setupAPI(t)

	rec := doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/workspace/sync-button", nil, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `id="neos-workspace-rebase"`) {
		t.Fatalf("expected button markup, got %s", rec.Body.String())
	}

	doRequest(t, env.mux, http.MethodPost, "/neos/ui-services/workspace/sync-button/open", nil, http.StatusOK)
	if !env.store.State().UI.SyncWorkspaceModal.IsOpen {
		t.Fatalf("expected modal to open")
	}

	if err := env.store.Dispatch(context.Background(), workspaces.Update(workspaces.WorkspaceUpdate{Status: ptr(workspaces.StatusUpToDate)})); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec = doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/workspace/sync-button", nil, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "" {
		t.Fatalf("expected no markup when up to date, got %s", rec.Body.String())
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	env := setupAPI(t)
	env.feedback.Add(&feedback.DocumentNodeCreated{ContextPath: pageAddress, Identifier: "page"})

	var envelopes []feedback.Envelope
	decodeBody(t, doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/feedback", nil, http.StatusOK), &envelopes)
	if len(envelopes) != 1 || envelopes[0].Type != feedback.DocumentNodeCreatedType {
		t.Fatalf("unexpected feedback %+v", envelopes)
	}

	rec := doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/feedback", nil, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected flushed queue, got %s", rec.Body.String())
	}
}

func TestWorkspaceStreamPushesState(t *testing.T) {
	env := setupAPI(t)
	server := httptest.NewServer(env.mux)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/neos/ui-services/workspace/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial stateMessage
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if initial.Action != "" || initial.State.CR.Workspaces.PersonalWorkspace.Name != "user-admin" {
		t.Fatalf("unexpected initial message %+v", initial)
	}

	if err := env.store.Dispatch(context.Background(), uistate.StartSaving()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	var update stateMessage
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if update.Action != uistate.ActionStartSaving || !update.State.UI.Remote.IsSaving {
		t.Fatalf("unexpected update %+v", update)
	}
}

func TestLatestStateKeepsNewestMessage(t *testing.T) {
	latest := newLatestState()
	for i := 0; i < 50; i++ {
		latest.offer(stateMessage{Action: fmt.Sprintf("action-%d", i)})
	}
	select {
	case msg := <-latest.ch:
		if msg.Action != "action-49" {
			t.Fatalf("expected newest message, got %q", msg.Action)
		}
	default:
		t.Fatal("expected a pending message")
	}
	select {
	case msg := <-latest.ch:
		t.Fatalf("expected a single pending message, got %q", msg.Action)
	default:
	}
}

func TestWorkspaceStreamEndsOnLatestStateAfterBurst(t *testing.T) {
	env := setupAPI(t)
	server := httptest.NewServer(env.mux)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/neos/ui-services/workspace/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial stateMessage
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial state: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		name := fmt.Sprintf("workspace-%d", i)
		if err := env.store.Dispatch(ctx, workspaces.Update(workspaces.WorkspaceUpdate{Name: &name})); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if i%2 == 0 {
			err = env.store.Dispatch(ctx, uistate.StartSaving())
		} else {
			err = env.store.Dispatch(ctx, uistate.FinishSaving())
		}
		if err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}
	want := env.store.State()

	var last stateMessage
	for {
		_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		var msg stateMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		last = msg
	}
	if last.State.CR.Workspaces.PersonalWorkspace.Name != "workspace-99" {
		t.Fatalf("expected the final workspace name, got %+v", last.State.CR.Workspaces.PersonalWorkspace)
	}
	if last.State.UI.Remote.IsSaving != want.UI.Remote.IsSaving {
		t.Fatalf("last frame is stale: %+v, want %+v", last.State.UI.Remote, want.UI.Remote)
	}
	if last.Action != uistate.ActionFinishSaving {
		t.Fatalf("expected the last action, got %q", last.Action)
	}
}

func TestStreamCanBeDisabled(t *testing.T) {
	env := setupAPI(t, WithStream(false))
	doRequest(t, env.mux, http.MethodGet, "/neos/ui-services/workspace/stream", nil, http.StatusNotFound)
}

func TestRegisterRequiresMux(t *testing.T) {
	if err := New().Register(nil); err == nil {
		t.Fatalf("expected error for nil mux")
	}
	doRequest(t, mustHandler(t, New()), http.MethodGet, "/neos/ui-services/workspace", nil, http.StatusServiceUnavailable)
}

func mustHandler(t *testing.T, api *UIServicesAPI) http.Handler {
	t.Helper()
	handler, err := api.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return handler
}

func ptr[T any](v T) *T { return &v }
