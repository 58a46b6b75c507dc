// Package app runs a composed bar as a Bubbletea program. It owns the
// UI goroutine: every tree mutation, timer dispatch and inbox drain happens
// inside Update.
//
// This package is designed against bubbletea v1.3.x.
package app

import "time"

// TickEvent is sent periodically to dispatch due timers and redraw reveal
// transitions.
type TickEvent struct {
	Time time.Time
}

// InboxEvent signals that background work posted completions to the inbox.
type InboxEvent struct{}
