package workspacesync

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-ui/internal/i18n"
	"github.com/goliatone/go-cms-ui/internal/store"
	"github.com/goliatone/go-cms-ui/internal/uistate"
	"github.com/goliatone/go-cms-ui/internal/workspaces"
	"github.com/stretchr/testify/require"
)

func TestRenderHiddenWhenUpToDate(t *testing.T) {
	require.Nil(t, Render(Props{PersonalWorkspaceStatus: workspaces.StatusUpToDate}, nil, "en"))

	markup, err := HTML(nil)
	require.NoError(t, err)
	require.Empty(t, strings.TrimSpace(string(markup)))
}

func TestRenderStyles(t *testing.T) {
	cases := []struct {
		name   string
		props  Props
		style  string
		icon   string
		spin   bool
		locked bool
	}{
		{name: "outdated", props: Props{PersonalWorkspaceStatus: workspaces.StatusOutdated}, style: StyleWarn, icon: IconSync},
		{name: "conflict", props: Props{PersonalWorkspaceStatus: workspaces.StatusOutdatedConflict}, style: StyleError, icon: IconConflict},
		{name: "unknown status", props: Props{}, style: StyleError, icon: IconSync},
		{name: "modal open", props: Props{IsOpen: true, PersonalWorkspaceStatus: workspaces.StatusOutdated}, style: StyleWarn, icon: IconSync, locked: true},
		{name: "saving", props: Props{IsSaving: true, PersonalWorkspaceStatus: workspaces.StatusOutdated}, style: StyleWarn, icon: IconSpinner, spin: true, locked: true},
		{name: "publishing", props: Props{IsPublishing: true, PersonalWorkspaceStatus: workspaces.StatusOutdatedConflict}, style: StyleError, icon: IconSpinner, spin: true, locked: true},
		{name: "discarding", props: Props{IsDiscarding: true, PersonalWorkspaceStatus: workspaces.StatusOutdated}, style: StyleWarn, icon: IconSpinner, spin: true, locked: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			button := Render(tc.props, nil, "en")
			require.NotNil(t, button)
			require.Equal(t, ButtonID, button.ID)
			require.Equal(t, WrapperID, button.WrapperID)
			require.Equal(t, tc.style, button.Style)
			require.Equal(t, tc.style, button.HoverStyle)
			require.Equal(t, tc.icon, button.Icon)
			require.Equal(t, tc.spin, button.Spin)
			require.Equal(t, tc.locked, button.Disabled)
			require.Equal(t, "Synchronize personal workspace", button.Label)
		})
	}
}

func TestRenderTranslatesLabel(t *testing.T) {
	translator := i18n.NewMemoryTranslator(i18n.Config{DefaultLocale: "en"}, map[string]map[string]string{
		"de": {"Neos.Neos.Ui:Main:syncPersonalWorkSpace": "Arbeitsbereich synchronisieren"},
	})
	button := Render(Props{PersonalWorkspaceStatus: workspaces.StatusOutdated}, translator, "de")
	require.Equal(t, "Arbeitsbereich synchronisieren", button.Label)
}

func TestHTMLMarkup(t *testing.T) {
	markup, err := HTML(Render(Props{IsSaving: true, PersonalWorkspaceStatus: workspaces.StatusOutdated}, nil, "en"))
	require.NoError(t, err)

	html := string(markup)
	require.Contains(t, html, `id="neos-WorkspaceSync"`)
	require.Contains(t, html, `id="neos-workspace-rebase"`)
	require.Contains(t, html, "neos-button--warn")
	require.Contains(t, html, " disabled>")
	require.Contains(t, html, "icon-spinner icon--spin")
	require.Contains(t, html, `title="Synchronize personal workspace"`)
}

func newComponent(t *testing.T, status string) (*Component, *store.Store, *i18n.UserLocaleService) {
	t.Helper()
	s := store.New()
	require.NoError(t, s.Dispatch(context.Background(), workspaces.Init(workspaces.WorkspaceInformation{
		Name:          "user-admin",
		BaseWorkspace: "live",
		Status:        status,
	}, "")))

	fixture, err := i18n.DefaultFixture()
	require.NoError(t, err)
	locale := i18n.NewUserLocaleService(i18n.Config{DefaultLocale: "en", UILocale: "es"})
	return New(s, i18n.NewTranslatorFromFixture(fixture), locale), s, locale
}

func TestComponentRendersInUILocale(t *testing.T) {
	component, _, locale := newComponent(t, workspaces.StatusOutdated)

	button := component.Render()
	require.NotNil(t, button)
	require.Equal(t, "Sincronizar espacio de trabajo personal", button.Label)
	require.False(t, button.Disabled)
	require.Equal(t, "en", locale.CurrentLocale())
}

func TestComponentClickOpensModal(t *testing.T) {
	component, s, _ := newComponent(t, workspaces.StatusOutdatedConflict)

	require.NoError(t, component.OnClick(context.Background()))
	require.True(t, s.State().UI.SyncWorkspaceModal.IsOpen)
	require.True(t, component.Render().Disabled)

	require.NoError(t, s.Dispatch(context.Background(), uistate.CloseSyncWorkspaceModal()))
	require.False(t, component.Props().IsOpen)

	markup, err := component.HTML()
	require.NoError(t, err)
	require.Contains(t, string(markup), "icon-exclamation-triangle")
}

func TestComponentHiddenWhenUpToDate(t *testing.T) {
	component, _, _ := newComponent(t, workspaces.StatusUpToDate)
	require.Nil(t, component.Render())
}
