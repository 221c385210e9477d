package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/openkombai/client/internal/config"
	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/imagesource"
	"codeberg.org/openkombai/client/internal/logger"
	"codeberg.org/openkombai/client/internal/settings"
	"codeberg.org/openkombai/client/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "openkombai: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		return err
	}

	flags, err := config.ParseTUIFlags(args)
	if err != nil {
		return err
	}

	// the alt screen owns stdout, so logs go to a file
	logFile, logPath := openLogFile()
	if logFile != nil {
		defer logFile.Close() //nolint:errcheck
	}

	logger.Configure(logger.Options{Environment: cfg.Environment, Output: writerOrDiscard(logFile)})

	ws, err := config.LoadWorkspace(flags.Workspace)
	if err != nil {
		return err
	}

	initial := config.Merge(cfg.Settings(), ws.Settings(), settings.Settings{Endpoint: flags.Backend})

	store, err := settings.NewStoreWith(initial)
	if err != nil {
		return err
	}

	if flags.Preset != "" {
		if err := store.ApplyPreset(settings.Preset(flags.Preset)); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	adapter := tui.NewAdapter()
	client := generation.NewClient(generation.WithTimeout(cfg.RequestTimeout))
	generator := generation.NewGenerator(client, store, adapter)

	if flags.Image != "" {
		if _, err := generator.Capture(ctx, imagesource.NewFileSource(imagesource.StaticPicker(flags.Image))); err != nil {
			return fmt.Errorf("failed to load %s: %w", flags.Image, err)
		}
	}

	logger.Info("starting editor host",
		"workspace", flags.Workspace,
		"endpoint", store.Get().Endpoint,
		"log_file", logPath,
	)

	app := tui.NewApp(tui.Options{
		Context:     ctx,
		Generator:   generator,
		Prober:      client,
		Adapter:     adapter,
		Workspace:   flags.Workspace,
		Environment: cfg.Environment,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	adapter.Attach(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running openkombai: %w", err)
	}

	return nil
}

// opens <user cache dir>/openkombai/tui.log; nil when that is not possible
func openLogFile() (*os.File, string) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, ""
	}

	dir = filepath.Join(dir, "openkombai")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, ""
	}

	path := filepath.Join(dir, "tui.log")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, ""
	}

	return f, path
}

func writerOrDiscard(f *os.File) io.Writer {
	if f == nil {
		return io.Discard
	}

	return f
}
