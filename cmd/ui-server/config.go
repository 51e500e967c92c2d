package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	cmsui "github.com/goliatone/go-cms-ui"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "CMS_UI_"

// loadEnvFile loads path into the process environment. A missing file is
// not an error; variables already set win.
func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

// loadConfig overlays the YAML file at path on the default config.
func loadConfig(path string) (cmsui.Config, error) {
	cfg := cmsui.DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %q: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides cfg with CMS_UI_* variables from lookup.
func applyEnv(cfg *cmsui.Config, lookup func(string) (string, bool)) error {
	str := func(key string, target *string) {
		if value, ok := lookup(envPrefix + key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
	boolean := func(key string, target *bool) error {
		value, ok := lookup(envPrefix + key)
		if !ok || strings.TrimSpace(value) == "" {
			return nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*target = parsed
		return nil
	}

	str("HTTP_ADDR", &cfg.HTTP.Addr)
	str("HTTP_BASE_PATH", &cfg.HTTP.BasePath)
	str("BASE_URL", &cfg.Navigation.BaseURL)
	str("STORAGE_PROVIDER", &cfg.Storage.Provider)
	str("STORAGE_DRIVER", &cfg.Storage.Driver)
	str("STORAGE_DSN", &cfg.Storage.DSN)
	str("UI_LOCALE", &cfg.I18N.UILocale)
	str("PERSONAL_WORKSPACE", &cfg.Workspace.Personal)
	str("LOG_PROVIDER", &cfg.Logging.Provider)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	str("IMPORT_DIR", &cfg.Importer.ContentDir)

	for key, target := range map[string]*bool{
		"CACHE_ENABLED":    &cfg.Cache.Enabled,
		"FEATURE_IMPORTER": &cfg.Features.Importer,
		"FEATURE_STREAM":   &cfg.Features.Stream,
		"FEATURE_LOGGER":   &cfg.Features.Logger,
	} {
		if err := boolean(key, target); err != nil {
			return err
		}
	}

	if value, ok := lookup(envPrefix + "CACHE_TTL"); ok && strings.TrimSpace(value) != "" {
		ttl, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", envPrefix, err)
		}
		cfg.Cache.DefaultTTL = ttl
	}
	return nil
}
