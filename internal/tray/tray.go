// Package tray provides the system tray launcher for mudra games.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
	"github.com/samber/lo"

	"github.com/ayusman/mudra/internal/challenge"
)

// Action is what a menu item does when clicked.
type Action int

const (
	ActionPlay Action = iota
	ActionLeaderboard
)

// Item is one game entry of the tray menu.
type Item struct {
	Title   string
	Tooltip string
	Game    string
	Action  Action
}

// Items lays out the menu: one play item per game followed by one
// leaderboard item per leaderboard game.
func Items(games []challenge.Game) []Item {
	play := lo.Map(games, func(g challenge.Game, _ int) Item {
		return Item{Title: g.Title, Tooltip: "Play " + g.Title, Game: g.Name, Action: ActionPlay}
	})
	boards := lo.FilterMap(games, func(g challenge.Game, _ int) (Item, bool) {
		return Item{
			Title:   "Leaderboard: " + g.Title,
			Tooltip: "Best times for " + g.Title,
			Game:    g.Name,
			Action:  ActionLeaderboard,
		}, g.Leaderboard
	})
	return append(play, boards...)
}

// Tray is the system tray menu.
type Tray struct {
	items         []Item
	onPlay        func(game string)
	onLeaderboard func(game string)
	onQuit        func()
	mu            sync.RWMutex

	menuStatus *systray.MenuItem
}

// New creates a Tray listing games.
func New(games []challenge.Game) *Tray {
	return &Tray{items: Items(games)}
}

// OnPlay sets the callback for play items.
func (t *Tray) OnPlay(fn func(game string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPlay = fn
}

// OnLeaderboard sets the callback for leaderboard items.
func (t *Tray) OnLeaderboard(fn func(game string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onLeaderboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// onReady builds the menu once the tray is ready.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra hand-gesture games")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem("Idle", "Current game")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	for i, item := range t.items {
		if i > 0 && item.Action != t.items[i-1].Action {
			systray.AddSeparator()
		}
		mi := systray.AddMenuItem(item.Title, item.Tooltip)
		go func() {
			for range mi.ClickedCh {
				t.handle(item)
			}
		}()
	}
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")
	go func() {
		<-menuQuit.ClickedCh
		t.handleQuit()
	}()
}

// handle dispatches a menu click to its callback.
func (t *Tray) handle(item Item) {
	t.mu.RLock()
	callback := t.onPlay
	if item.Action == ActionLeaderboard {
		callback = t.onLeaderboard
	}
	t.mu.RUnlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(item.Game)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the status line of the menu.
func (t *Tray) SetStatus(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus != nil {
		if text == "" {
			text = "Idle"
		}
		t.menuStatus.SetTitle(text)
	}
}
