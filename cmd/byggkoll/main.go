package main

import (
	"context"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rpggio/byggkoll/internal/app"
	"github.com/rpggio/byggkoll/internal/config"
	"github.com/rpggio/byggkoll/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// The terminal belongs to the UI; logs only go to a configured file.
	logger, logCloser, err := app.NewLogger(cfg.Log, io.Discard)
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer logCloser.Close()

	application, err := app.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer application.Close()

	p := tea.NewProgram(tui.New(ctx, application.Store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("tui: %v", err)
	}
}
