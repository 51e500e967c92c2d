package i18n

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

var ErrTranslationMissing = errors.New("i18n: translation missing")

// MemoryTranslator resolves keys from in-memory catalogues. Lookups fall
// back from a regional locale to its parent and then to the default locale.
type MemoryTranslator struct {
	mu            sync.RWMutex
	defaultLocale string
	catalogues    map[string]map[string]string
}

var _ interfaces.Translator = (*MemoryTranslator)(nil)

// NewMemoryTranslator copies translations into a new translator.
func NewMemoryTranslator(cfg Config, translations map[string]map[string]string) *MemoryTranslator {
	t := &MemoryTranslator{
		defaultLocale: normalizeLocale(cfg.DefaultLocale),
		catalogues:    make(map[string]map[string]string, len(translations)),
	}
	for locale, catalogue := range translations {
		t.catalogues[normalizeLocale(locale)] = maps.Clone(catalogue)
	}
	return t
}

// NewTranslatorFromFixture builds a translator from a loaded fixture.
func NewTranslatorFromFixture(fx *Fixture) *MemoryTranslator {
	if fx == nil {
		return NewMemoryTranslator(Config{}, nil)
	}
	return NewMemoryTranslator(fx.Config, fx.Translations)
}

// Set adds or replaces one translation.
func (t *MemoryTranslator) Set(locale, key, value string) {
	locale = normalizeLocale(locale)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.catalogues[locale] == nil {
		t.catalogues[locale] = map[string]string{}
	}
	t.catalogues[locale][key] = value
}

// Translate looks key up and substitutes positional placeholders ({0}, {1})
// with args.
func (t *MemoryTranslator) Translate(locale, key string, args ...any) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, candidate := range t.candidates(locale) {
		if value, ok := t.catalogues[candidate][key]; ok {
			return formatPlaceholders(value, args), nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrTranslationMissing, key, locale)
}

func (t *MemoryTranslator) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if parent, _, ok := strings.Cut(locale, "-"); ok {
			out = append(out, parent)
		}
	}
	if t.defaultLocale != "" {
		out = append(out, t.defaultLocale)
	}
	return out
}

// Translate resolves id inside packageKey and source through translator,
// returning fallback when no translation exists. This mirrors how UI
// components label themselves.
func Translate(translator interfaces.Translator, locale, id, fallback string, params []any, packageKey, source string) string {
	if translator != nil {
		key := packageKey + ":" + source + ":" + id
		if value, err := translator.Translate(locale, key, params...); err == nil && value != "" {
			return value
		}
	}
	return formatPlaceholders(fallback, params)
}

func formatPlaceholders(value string, args []any) string {
	if len(args) == 0 || !strings.Contains(value, "{") {
		return value
	}
	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(arg))
	}
	return strings.NewReplacer(pairs...).Replace(value)
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

// TemplateHelpers exposes translate(locale, key, fallback, args...) to
// html/template.
func TemplateHelpers(translator interfaces.Translator) map[string]any {
	return map[string]any{
		"translate": func(locale, key, fallback string, args ...any) string {
			if translator != nil {
				if value, err := translator.Translate(locale, key, args...); err == nil {
					return value
				}
			}
			return formatPlaceholders(fallback, args)
		},
	}
}
