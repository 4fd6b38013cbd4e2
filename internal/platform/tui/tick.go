// Package tui provides the Bubble Tea front-ends for the lander: the live
// descent view, the run board and the Wish SSH server that hosts them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	minTickRate = 1
	maxTickRate = 60
)

// TickMsg is sent to advance the displayed descent by one turn.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate < minTickRate {
		tickRate = minTickRate
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
