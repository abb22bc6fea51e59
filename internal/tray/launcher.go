package tray

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// ErrGameRunning is returned when a game is started while another one still
// holds the camera.
var ErrGameRunning = errors.New("a game is already running")

// Launcher starts games as child processes of the mudra binary, one at a
// time.
type Launcher struct {
	exe    string
	args   []string
	logger *slog.Logger

	mu      sync.Mutex
	running string
	cmd     *exec.Cmd
	done    func(game string, err error)
}

// NewLauncher creates a Launcher running exe with args followed by
// "play <game>".
func NewLauncher(exe string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{exe: exe, args: args, logger: logger}
}

// OnDone sets a callback invoked when a launched game exits.
func (l *Launcher) OnDone(fn func(game string, err error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.done = fn
}

// Command builds the command that plays game.
func (l *Launcher) Command(ctx context.Context, game string) *exec.Cmd {
	args := append(append([]string(nil), l.args...), "play", game)
	cmd := exec.CommandContext(ctx, l.exe, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Start launches game unless another game is running.
func (l *Launcher) Start(ctx context.Context, game string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd != nil {
		return fmt.Errorf("%w: %s", ErrGameRunning, l.running)
	}

	cmd := l.Command(ctx, game)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", game, err)
	}
	l.cmd, l.running = cmd, game
	l.logger.Info("game launched", "game", game, "pid", cmd.Process.Pid)

	go func() {
		err := cmd.Wait()
		l.mu.Lock()
		l.cmd, l.running = nil, ""
		done := l.done
		l.mu.Unlock()

		if err != nil {
			l.logger.Warn("game exited", "game", game, "err", err)
		} else {
			l.logger.Info("game exited", "game", game)
		}
		if done != nil {
			done(game, err)
		}
	}()
	return nil
}

// Running returns the name of the running game, or "".
func (l *Launcher) Running() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Stop kills the running game, if any.
func (l *Launcher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cmd == nil || l.cmd.Process == nil {
		return nil
	}
	return l.cmd.Process.Kill()
}
