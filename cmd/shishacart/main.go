// Package main runs the shisha storefront in the local terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thomas/shisha-terminal-go/internal/config"
	"github.com/thomas/shisha-terminal-go/internal/logging"
	"github.com/thomas/shisha-terminal-go/internal/store"
	"github.com/thomas/shisha-terminal-go/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shishacart: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	promos, err := cfg.Promos()
	if err != nil {
		return fmt.Errorf("promo codes: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	if c, ok := backend.(io.Closer); ok {
		defer c.Close()
	}

	source, err := cfg.OpenCatalog()
	if err != nil {
		return err
	}

	logger.Info("starting storefront", "store", cfg.Store, "slot", cfg.CartSlot, "catalog", cfg.Catalog)

	policy := cfg.Policy()
	model := tui.NewModel(ctx, store.Slot(backend, cfg.CartSlot), source, tui.Options{
		Policy:            &policy,
		Promos:            promos,
		OpenMiniCartOnAdd: cfg.OpenMiniCartOnAdd,
		Logger:            logger,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	logger.Info("storefront closed")
	return nil
}
