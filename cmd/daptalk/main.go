package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sant0-9/daptalk/internal/config"
	"github.com/sant0-9/daptalk/internal/settings"
	"github.com/sant0-9/daptalk/internal/tui"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dir, err := cfg.Dir()
	if err != nil {
		return err
	}

	logger.Info("starting daptalk",
		zap.String("version", version),
		zap.String("provider", cfg.Provider),
	)

	app, err := tui.NewApp(cfg, settings.NewStore(settings.DefaultPath(dir)), logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	app.SetProgram(p)

	_, err = p.Run()
	return err
}
