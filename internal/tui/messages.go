package tui

import (
	"github.com/rasoi-labs/rasoi/internal/ai"
	"github.com/rasoi-labs/rasoi/internal/session"
)

// sessionStateMsg re-enters a session state transition into the event loop.
type sessionStateMsg struct {
	state session.State
}

// planResultMsg carries a completed planner call.
type planResultMsg struct {
	err    error
	result *ai.Result
}

// assistantResultMsg carries a completed free-text assistant call.
type assistantResultMsg struct {
	err    error
	result *ai.Result
}

// authResultMsg carries a completed sign-in or sign-up attempt.
type authResultMsg struct {
	err error
}

// navigateMsg switches the active view from outside the key handler.
type navigateMsg struct {
	view View
}
