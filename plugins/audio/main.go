//go:build !windows

// Package main provides an audio plugin for the music games.
// It runs a command-line player in the background and pauses and resumes it
// with SIGSTOP and SIGCONT. The player's pid is kept in a state file so
// successive invocations control the same process.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Game   string          `json:"game"`
	Config json.RawMessage `json:"config"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config selects the track and the player command.
type Config struct {
	File   string   `json:"file"`
	Player []string `json:"player"`
}

var errNotPlaying = errors.New("nothing is playing")

// actionHandler handles one action.
type actionHandler func(req Request) error

var actionHandlers = map[string]actionHandler{
	"play":   play,
	"pause":  func(req Request) error { return signal(req.Game, syscall.SIGSTOP) },
	"resume": func(req Request) error { return signal(req.Game, syscall.SIGCONT) },
	"stop":   stop,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	handler, ok := actionHandlers[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err := handler(req); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// defaultPlayer returns a player command available on the platform.
func defaultPlayer() []string {
	if runtime.GOOS == "darwin" {
		return []string{"afplay"}
	}
	return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}
}

// play starts the player in the background, replacing any previous one.
func play(req Request) error {
	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	if cfg.File == "" {
		return errors.New("config.file is required")
	}
	player := cfg.Player
	if len(player) == 0 {
		player = defaultPlayer()
	}

	_ = stop(req)

	args := append(player[1:len(player):len(player)], cfg.File)
	cmd := exec.Command(player[0], args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	if err := os.WriteFile(pidFile(req.Game), []byte(strconv.Itoa(cmd.Process.Pid)), 0644); err != nil {
		cmd.Process.Kill()
		return err
	}
	return cmd.Process.Release()
}

// stop terminates the player and forgets it.
func stop(req Request) error {
	pid, err := readPID(req.Game)
	if err != nil {
		return err
	}
	defer os.Remove(pidFile(req.Game))

	// A stopped process only handles SIGTERM after it is continued.
	syscall.Kill(pid, syscall.SIGCONT)
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}

func signal(game string, sig syscall.Signal) error {
	pid, err := readPID(game)
	if err != nil {
		return err
	}
	if err := syscall.Kill(pid, sig); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			os.Remove(pidFile(game))
			return errNotPlaying
		}
		return err
	}
	return nil
}

func readPID(game string) (int, error) {
	data, err := os.ReadFile(pidFile(game))
	if errors.Is(err, os.ErrNotExist) {
		return 0, errNotPlaying
	}
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("corrupt state file %s", pidFile(game))
	}
	return pid, nil
}

func pidFile(game string) string {
	if game == "" {
		game = "default"
	}
	return filepath.Join(os.TempDir(), "mudra-audio-"+game+".pid")
}
