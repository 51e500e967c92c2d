package i18n

// Config describes the locales known to the UI runtime.
type Config struct {
	DefaultLocale string   `json:"defaultLocale" yaml:"default_locale"`
	UILocale      string   `json:"uiLocale" yaml:"ui_locale"`
	Locales       []string `json:"locales" yaml:"locales"`
}

func FromModuleConfig(defaultLocale, uiLocale string, locales []string) Config {
	return Config{
		DefaultLocale: defaultLocale,
		UILocale:      uiLocale,
		Locales:       locales,
	}
}
