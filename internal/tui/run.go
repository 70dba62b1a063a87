package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rasoi-labs/rasoi/internal/session"
)

// Run starts the TUI and blocks until the user quits. Session transitions
// and store navigation side effects re-enter the event loop as messages.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Store == nil || cfg.Session == nil || cfg.Planner == nil || cfg.Formatter == nil {
		return fmt.Errorf("tui: store, session, planner, and formatter are required")
	}

	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen(), tea.WithContext(ctx))

	cfg.Session.OnStateChange(func(state session.State) {
		p.Send(sessionStateMsg{state: state})
	})
	cfg.Store.SetNavigationHandler(func(view string) {
		p.Send(navigateMsg{view: View(view)})
	})
	cfg.Session.Start(ctx)

	_, err := p.Run()
	return err
}
