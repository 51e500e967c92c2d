package i18n

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestMemoryTranslatorFallbacks(t *testing.T) {
	fixture, err := NewLoader(filepath.Join("fixtures", "ui_translations.json")).Load(context.Background())
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	translator := NewTranslatorFromFixture(fixture)

	t.Run("falls back to regional parent", func(t *testing.T) {
		got, err := translator.Translate("de_CH", "Neos.Neos.Ui:Main:syncPersonalWorkSpace")
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		if got != "Persönlichen Arbeitsbereich synchronisieren" {
			t.Fatalf("expected German translation, got %q", got)
		}
	})

	t.Run("falls back to default locale", func(t *testing.T) {
		got, err := translator.Translate("es", "Neos.Neos.Ui:Main:syncPersonalWorkSpaceConfirm")
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		if got != "Synchronize now" {
			t.Fatalf("expected English fallback, got %q", got)
		}
	})

	t.Run("formats placeholders", func(t *testing.T) {
		got, err := translator.Translate("de", "Neos.Neos.Ui:Main:publishAllIn", "Startseite")
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		if got != "Alles in Startseite veröffentlichen" {
			t.Fatalf("unexpected formatted value %q", got)
		}
	})

	t.Run("reports missing keys", func(t *testing.T) {
		if _, err := translator.Translate("en", "unknown.key"); !errors.Is(err, ErrTranslationMissing) {
			t.Fatalf("expected ErrTranslationMissing, got %v", err)
		}
	})
}

func TestTranslateHelperUsesFallback(t *testing.T) {
	fixture, err := DefaultFixture()
	if err != nil {
		t.Fatalf("default fixture: %v", err)
	}
	translator := NewTranslatorFromFixture(fixture)

	if got := Translate(translator, "es", "syncPersonalWorkSpace", "Synchronize personal workspace", nil, "Neos.Neos.Ui", "Main"); got != "Sincronizar espacio de trabajo personal" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := Translate(translator, "es", "missing", "Publish {0}", []any{"all"}, "Neos.Neos.Ui", "Main"); got != "Publish all" {
		t.Fatalf("expected formatted fallback, got %q", got)
	}
	if got := Translate(nil, "en", "missing", "Fallback", nil, "Neos.Neos.Ui", "Main"); got != "Fallback" {
		t.Fatalf("expected fallback for nil translator, got %q", got)
	}
}

func TestTemplateHelpersHandleMissingKeys(t *testing.T) {
	helpers := TemplateHelpers(NewMemoryTranslator(Config{DefaultLocale: "en"}, nil))
	translateFn, ok := helpers["translate"].(func(string, string, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper has unexpected signature %T", helpers["translate"])
	}
	if got := translateFn("en", "unknown.key", "Fallback"); got != "Fallback" {
		t.Fatalf("missing translation should return fallback, got %q", got)
	}
}

func TestUserLocaleServiceSwitchAndRestore(t *testing.T) {
	svc := NewUserLocaleService(Config{DefaultLocale: "de", UILocale: "en"})

	svc.SwitchToUILocale(false)
	if svc.CurrentLocale() != "en" {
		t.Fatalf("expected UI locale, got %q", svc.CurrentLocale())
	}
	svc.SwitchToUILocale(false)
	svc.SwitchToUILocale(true)
	if svc.CurrentLocale() != "en" {
		t.Fatalf("expected nested reset to keep UI locale, got %q", svc.CurrentLocale())
	}
	svc.SwitchToUILocale(true)
	if svc.CurrentLocale() != "de" {
		t.Fatalf("expected restored locale, got %q", svc.CurrentLocale())
	}

	svc.SwitchToUILocale(true)
	if svc.CurrentLocale() != "de" {
		t.Fatalf("expected unbalanced reset to be ignored, got %q", svc.CurrentLocale())
	}
}

func TestFixtureOverlayKeepsDefaults(t *testing.T) {
	base, err := DefaultFixture()
	if err != nil {
		t.Fatalf("default fixture: %v", err)
	}
	custom, err := NewFSLoader(fstest.MapFS{
		"custom.json": {Data: []byte(`{"translations":{"de":{"Neos.Neos.Ui:Main:syncPersonalWorkSpace":"Synchronisieren"},"fr":{"Neos.Neos.Ui:Main:syncPersonalWorkSpace":"Synchroniser"}}}`)},
	}, "custom.json").Load(context.Background())
	if err != nil {
		t.Fatalf("load custom fixture: %v", err)
	}

	base.Overlay(custom)
	if base.Config.DefaultLocale != "en" {
		t.Fatalf("overlay without config must keep defaults, got %+v", base.Config)
	}
	translator := NewTranslatorFromFixture(base)
	if got, _ := translator.Translate("de", "Neos.Neos.Ui:Main:syncPersonalWorkSpace"); got != "Synchronisieren" {
		t.Fatalf("expected overridden label, got %q", got)
	}
	if got, _ := translator.Translate("de", "Neos.Neos.Ui:Main:publishAllIn", "Start"); got != "Alles in Start veröffentlichen" {
		t.Fatalf("expected untouched default, got %q", got)
	}
	if got, _ := translator.Translate("fr", "Neos.Neos.Ui:Main:syncPersonalWorkSpace"); got != "Synchroniser" {
		t.Fatalf("expected added locale, got %q", got)
	}
}

func TestLoaderRejectsUnknownFields(t *testing.T) {
	_, err := NewFSLoader(fstest.MapFS{
		"bad.json": {Data: []byte(`{"labels":{}}`)},
	}, "bad.json").Load(context.Background())
	if err == nil {
		t.Fatal("expected unknown field error")
	}
	if _, err := NewLoader("  ").Load(context.Background()); err == nil {
		t.Fatal("expected error for empty path")
	}
}
