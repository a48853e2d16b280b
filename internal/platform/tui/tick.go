// Package tui provides the Bubble Tea integration for the racer.
// It handles the terminal UI loop, input mapping, track selection, the
// scoreboard browser and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(frameDuration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameDuration is the simulated step length at tickRate.
func frameDuration(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Second / time.Duration(tickRate)
}
