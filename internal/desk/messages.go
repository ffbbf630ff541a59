package desk

import (
	"github.com/benchtop-sh/benchtop/internal/bus"
	"github.com/benchtop-sh/benchtop/internal/config"
)

// busEventMsg forwards a surface event into the bubbletea loop.
type busEventMsg struct {
	event bus.Event
}

// configReloadedMsg carries a config rewritten on disk.
type configReloadedMsg struct {
	cfg *config.Config
}

// switchWorkspaceMsg asks the UI loop to load another workspace. IPC
// requests cannot touch the surface's pointer state from their own
// goroutine, so the swap happens here.
type switchWorkspaceMsg struct {
	name string
}

// wiggleTickMsg drives the edit-mode wiggle animation.
type wiggleTickMsg struct{}

// launchFinishedMsg reports a launcher application exiting.
type launchFinishedMsg struct {
	app string
	err error
}
