package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vzahanych/weathernow/internal/lookup"
	"github.com/vzahanych/weathernow/internal/session"
)

// Lookuper is the part of lookup.Service the UI needs.
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*lookup.WeatherReport, error)
}

// lookupDoneMsg is sent when a lookup started for token finishes
type lookupDoneMsg struct {
	token  uint64
	report *lookup.WeatherReport
	err    error
}

// runLookup performs the lookup in the background
func runLookup(svc Lookuper, req *session.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		report, err := svc.Lookup(ctx, req.Query)
		return lookupDoneMsg{token: req.Token, report: report, err: err}
	}
}
