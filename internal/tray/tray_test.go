package tray

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/challenge"
)

func TestItems(t *testing.T) {
	games := []challenge.Game{
		{Name: "finger-count", Title: "Show the Number", Leaderboard: true},
		{Name: "tug-of-war", Title: "Tug of War"},
	}

	items := Items(games)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	tests := []struct {
		game   string
		action Action
	}{
		{"finger-count", ActionPlay},
		{"tug-of-war", ActionPlay},
		{"finger-count", ActionLeaderboard},
	}
	for i, tt := range tests {
		if items[i].Game != tt.game || items[i].Action != tt.action {
			t.Errorf("items[%d] = %+v, want %s/%d", i, items[i], tt.game, tt.action)
		}
	}
}

func TestItems_Registry(t *testing.T) {
	items := Items(challenge.Games())
	want := len(challenge.Games()) + len(challenge.LeaderboardGames())
	if len(items) != want {
		t.Errorf("expected %d items, got %d", want, len(items))
	}
}

func TestTray_HandleDispatches(t *testing.T) {
	tr := New(nil)
	var played, boards []string
	tr.OnPlay(func(g string) { played = append(played, g) })
	tr.OnLeaderboard(func(g string) { boards = append(boards, g) })

	tr.handle(Item{Game: "music", Action: ActionPlay})
	tr.handle(Item{Game: "music", Action: ActionLeaderboard})

	if len(played) != 1 || played[0] != "music" {
		t.Errorf("played = %v", played)
	}
	if len(boards) != 1 || boards[0] != "music" {
		t.Errorf("boards = %v", boards)
	}
}

func TestLauncher_Command(t *testing.T) {
	l := NewLauncher("/usr/local/bin/mudra", []string{"--config", "mudra.yaml"}, nil)
	cmd := l.Command(context.Background(), "hand-count")

	want := []string{"/usr/local/bin/mudra", "--config", "mudra.yaml", "play", "hand-count"}
	if len(cmd.Args) != len(want) {
		t.Fatalf("args = %v, want %v", cmd.Args, want)
	}
	for i := range want {
		if cmd.Args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, cmd.Args[i], want[i])
		}
	}
}

func TestLauncher_OneGameAtATime(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	// "sh -c 'sleep 1' play <game>": the game name lands in $0/$1 and is ignored.
	l := NewLauncher("/bin/sh", []string{"-c", "sleep 1"}, nil)
	exited := make(chan string, 1)
	l.OnDone(func(game string, err error) { exited <- game })

	ctx := context.Background()
	if err := l.Start(ctx, "music"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if l.Running() != "music" {
		t.Errorf("Running() = %q, want music", l.Running())
	}

	if err := l.Start(ctx, "tug-of-war"); !errors.Is(err, ErrGameRunning) {
		t.Errorf("expected ErrGameRunning, got %v", err)
	}

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	select {
	case game := <-exited:
		if game != "music" {
			t.Errorf("exited game = %q", game)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("game did not exit")
	}
	if l.Running() != "" {
		t.Errorf("Running() = %q after exit", l.Running())
	}
}
