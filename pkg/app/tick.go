package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/merge"
)

// FrameInterval is the tick period. It matches the fastest bar timer so
// workspace and audio updates are not delayed by more than one frame.
const FrameInterval = 100 * time.Millisecond

// TickCmd returns a bubbletea Cmd that sends a TickEvent after the given
// duration. This drives timer dispatch and animation.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

// InboxCmd blocks until the inbox has work and then delivers an InboxEvent.
// Update re-arms it after every drain.
func InboxCmd(in *merge.Inbox) tea.Cmd {
	return func() tea.Msg {
		<-in.Ready()
		return InboxEvent{}
	}
}
