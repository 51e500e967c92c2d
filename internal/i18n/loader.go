package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const defaultFixtureName = "fixtures/ui_translations.json"

//go:embed fixtures/ui_translations.json
var embedded embed.FS

// Fixture holds locale configuration and translations, keyed by locale and
// then by "Package:Source:id".
type Fixture struct {
	Config       Config                       `json:"config"`
	Translations map[string]map[string]string `json:"translations"`
}

// Overlay copies the translations of other over f. Config is taken from
// other when it names a default locale.
func (f *Fixture) Overlay(other *Fixture) {
	if f == nil || other == nil {
		return
	}
	if f.Translations == nil {
		f.Translations = map[string]map[string]string{}
	}
	for locale, entries := range other.Translations {
		target := f.Translations[locale]
		if target == nil {
			target = make(map[string]string, len(entries))
			f.Translations[locale] = target
		}
		for key, value := range entries {
			target[key] = value
		}
	}
	if strings.TrimSpace(other.Config.DefaultLocale) != "" {
		f.Config = other.Config
	}
}

// DefaultFixture returns the translations shipped with the module.
func DefaultFixture() (*Fixture, error) {
	return NewFSLoader(embedded, defaultFixtureName).Load(context.Background())
}

// Loader reads one fixture file from a filesystem.
type Loader struct {
	fsys fs.FS
	name string
}

// NewLoader reads the fixture at path on the local disk.
func NewLoader(path string) *Loader {
	path = strings.TrimSpace(path)
	if path == "" {
		return &Loader{}
	}
	return &Loader{fsys: os.DirFS(filepath.Dir(path)), name: filepath.Base(path)}
}

// NewFSLoader reads the fixture name from fsys.
func NewFSLoader(fsys fs.FS, name string) *Loader {
	return &Loader{fsys: fsys, name: name}
}

// Load decodes the fixture. Unknown JSON fields are rejected.
func (l *Loader) Load(ctx context.Context) (*Fixture, error) {
	if l == nil || l.fsys == nil || l.name == "" {
		return nil, errors.New("i18n: loader path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := l.fsys.Open(l.name)
	if err != nil {
		return nil, fmt.Errorf("i18n: open fixture %q: %w", l.name, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	fixture := &Fixture{}
	if err := decoder.Decode(fixture); err != nil {
		return nil, fmt.Errorf("i18n: decode fixture %q: %w", l.name, err)
	}
	if fixture.Translations == nil {
		fixture.Translations = map[string]map[string]string{}
	}
	return fixture, nil
}
