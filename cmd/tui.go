package cmd

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vzahanych/weathernow/internal/config"
	"github.com/vzahanych/weathernow/internal/ui"
	"go.uber.org/zap"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive weather search",
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	svc := newLookupService(cfg)

	timeout := time.Duration(cfg.Weather.Timeout) * time.Second
	model := ui.NewModel(svc, cfg.UI.InitialQuery, timeout, log.Logger)

	log.Info("Starting interactive UI", zap.String("initial_query", cfg.UI.InitialQuery))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
