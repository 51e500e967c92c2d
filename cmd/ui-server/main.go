package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cmsui "github.com/goliatone/go-cms-ui"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("ui-server: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("ui-server", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	envPath := fs.String("env", ".env", "Path to a dotenv file loaded before the config")
	addr := fs.String("addr", "", "Listen address (overrides http.addr)")
	importDir := fs.String("import", "", "Markdown directory imported at startup (enables the importer)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := loadEnvFile(*envPath); err != nil {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return err
	}
	if trimmed := strings.TrimSpace(*addr); trimmed != "" {
		cfg.HTTP.Addr = trimmed
	}
	if trimmed := strings.TrimSpace(*importDir); trimmed != "" {
		cfg.Features.Importer = true
		cfg.Importer.ContentDir = trimmed
	}

	module, err := cmsui.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := module.Container().Logger()
	result, err := module.Container().ImportConfiguredContent(ctx)
	if err != nil {
		return fmt.Errorf("import content: %w", err)
	}
	if len(result.Created)+len(result.Updated) > 0 {
		logger.Info("server.import.completed", "created", len(result.Created), "updated", len(result.Updated), "skipped", len(result.Skipped))
	}

	handler, err := module.Handler()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTP.Addr, "base_path", cfg.HTTP.BasePath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("server.shutdown")
	return server.Shutdown(shutdownCtx)
}
