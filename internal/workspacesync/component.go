// Package workspacesync renders the toolbar button that opens the
// workspace synchronization dialog.
package workspacesync

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/goliatone/go-cms-ui/internal/i18n"
	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/store"
	"github.com/goliatone/go-cms-ui/internal/uistate"
	"github.com/goliatone/go-cms-ui/internal/workspaces"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

const (
	WrapperID = "neos-WorkspaceSync"
	ButtonID  = "neos-workspace-rebase"

	StyleWarn  = "warn"
	StyleError = "error"

	IconSpinner  = "spinner"
	IconSync     = "sync"
	IconConflict = "exclamation-triangle"

	labelID       = "syncPersonalWorkSpace"
	labelFallback = "Synchronize personal workspace"
	labelPackage  = "Neos.Neos.Ui"
	labelSource   = "Main"
)

//go:embed templates/workspace_sync.html
var templateFS embed.FS

var buttonTemplate = template.Must(template.ParseFS(templateFS, "templates/workspace_sync.html"))

// Props is the slice of state the button depends on.
type Props struct {
	IsOpen                  bool
	IsSaving                bool
	IsPublishing            bool
	IsDiscarding            bool
	PersonalWorkspaceStatus string
}

func (p Props) busy() bool {
	return p.IsSaving || p.IsPublishing || p.IsDiscarding
}

// Button is the rendered view model.
type Button struct {
	WrapperID  string `json:"wrapperId"`
	ID         string `json:"id"`
	Label      string `json:"label"`
	Disabled   bool   `json:"disabled"`
	Style      string `json:"style"`
	HoverStyle string `json:"hoverStyle"`
	Icon       string `json:"icon"`
	Spin       bool   `json:"spin"`
}

func MapState(state store.RootState) Props {
	return Props{
		IsOpen:                  state.UI.SyncWorkspaceModal.IsOpen,
		IsSaving:                state.UI.Remote.IsSaving,
		IsPublishing:            state.UI.Remote.IsPublishing,
		IsDiscarding:            state.UI.Remote.IsDiscarding,
		PersonalWorkspaceStatus: workspaces.PersonalWorkspaceRebaseStatus(state.CR.Workspaces),
	}
}

// Render returns nil when the workspace is up to date.
func Render(props Props, translator interfaces.Translator, locale string) *Button {
	if props.PersonalWorkspaceStatus == workspaces.StatusUpToDate {
		return nil
	}
	style := StyleError
	if props.PersonalWorkspaceStatus == workspaces.StatusOutdated {
		style = StyleWarn
	}
	button := &Button{
		WrapperID:  WrapperID,
		ID:         ButtonID,
		Label:      i18n.Translate(translator, locale, labelID, labelFallback, nil, labelPackage, labelSource),
		Disabled:   props.IsSaving || props.IsOpen || props.IsPublishing || props.IsDiscarding,
		Style:      style,
		HoverStyle: style,
		Icon:       syncIcon(props.PersonalWorkspaceStatus),
	}
	if props.busy() {
		button.Icon = IconSpinner
		button.Spin = true
	}
	return button
}

func syncIcon(status string) string {
	if status == workspaces.StatusOutdatedConflict {
		return IconConflict
	}
	return IconSync
}

// HTML renders button markup. A nil button renders nothing.
func HTML(button *Button) (template.HTML, error) {
	var buf bytes.Buffer
	if err := buttonTemplate.Execute(&buf, button); err != nil {
		return "", fmt.Errorf("workspacesync: render: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// State is what the component reads from and writes to.
type State interface {
	store.Dispatcher
	State() store.RootState
}

type Option func(*Component)

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Component) {
		c.logger = logging.Ensure(logger)
	}
}

// Component binds the button to a store, translating its label in the UI
// locale.
type Component struct {
	state      State
	translator interfaces.Translator
	locale     interfaces.LocaleSwitcher
	logger     interfaces.Logger
}

func New(state State, translator interfaces.Translator, locale interfaces.LocaleSwitcher, opts ...Option) *Component {
	c := &Component{
		state:      state,
		translator: translator,
		locale:     locale,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Component) Props() Props {
	return MapState(c.state.State())
}

// Render maps the current state and renders the button.
func (c *Component) Render() *Button {
	locale := ""
	if c.locale != nil {
		c.locale.SwitchToUILocale(false)
		defer c.locale.SwitchToUILocale(true)
		locale = c.locale.CurrentLocale()
	}
	return Render(c.Props(), c.translator, locale)
}

func (c *Component) HTML() (template.HTML, error) {
	return HTML(c.Render())
}

// OnClick opens the synchronization dialog.
func (c *Component) OnClick(ctx context.Context) error {
	if err := c.state.Dispatch(ctx, uistate.OpenSyncWorkspaceModal()); err != nil {
		c.logger.Warn("workspacesync.open_modal.failed", "error", err)
		return err
	}
	return nil
}
