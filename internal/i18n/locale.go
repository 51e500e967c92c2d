package i18n

import (
	"sync"

	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

// UserLocaleService holds the process-wide rendering locale. Switching to the
// UI locale remembers the previous locale; a reset restores it once every
// switch has been balanced.
type UserLocaleService struct {
	mu       sync.Mutex
	uiLocale string
	current  string
	saved    string
	depth    int
}

var _ interfaces.LocaleSwitcher = (*UserLocaleService)(nil)

// NewUserLocaleService starts with the default locale active.
func NewUserLocaleService(cfg Config) *UserLocaleService {
	ui := cfg.UILocale
	if ui == "" {
		ui = cfg.DefaultLocale
	}
	return &UserLocaleService{uiLocale: ui, current: cfg.DefaultLocale}
}

func (s *UserLocaleService) SwitchToUILocale(reset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reset {
		if s.depth == 0 {
			return
		}
		s.depth--
		if s.depth == 0 {
			s.current = s.saved
			s.saved = ""
		}
		return
	}

	if s.depth == 0 {
		s.saved = s.current
	}
	s.depth++
	s.current = s.uiLocale
}

func (s *UserLocaleService) CurrentLocale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetLocale replaces the active locale, e.g. with the locale of the
// rendered content.
func (s *UserLocaleService) SetLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = locale
}

// SetUILocale changes the locale the UI is rendered in.
func (s *UserLocaleService) SetUILocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uiLocale = locale
}
