package interfaces

// Translator resolves a translation key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// LocaleSwitcher toggles the process-wide rendering locale. Calling
// SwitchToUILocale(false) activates the user interface locale and remembers
// the previous one; SwitchToUILocale(true) restores it.
type LocaleSwitcher interface {
	SwitchToUILocale(reset bool)
	CurrentLocale() string
}
