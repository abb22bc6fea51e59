package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// scriptPlugin writes a shell script plugin into a temp dir.
func scriptPlugin(t *testing.T, name, script string, actions ...string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    actions,
		},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := scriptPlugin(t, "hello", `cat <<'EOF'
{"success":true,"data":{"message":"hello world"}}
EOF
`, "play")

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "play", Game: "music"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected success=true, got false")
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("expected message 'hello world', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plugin := scriptPlugin(t, "echo", `INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`, "pause")

	req := &Request{
		Action: "pause",
		Game:   "music-count",
		Config: json.RawMessage(`{"file":"song.mp3"}`),
	}
	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data.Received.Action != "pause" || data.Received.Game != "music-count" {
		t.Errorf("plugin received %+v", data.Received)
	}
	if string(data.Received.Config) != `{"file":"song.mp3"}` {
		t.Errorf("config = %s", data.Received.Config)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := scriptPlugin(t, "slow", `sleep 10
echo '{"success":true}'
`)

	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), plugin, &Request{Action: "slow"})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}

func TestExecutor_ErrorResponse(t *testing.T) {
	plugin := scriptPlugin(t, "failing", `echo '{"success":false,"error":"no player found"}'
`)

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "play"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if resp.Success {
		t.Errorf("expected success=false, got true")
	}
	if resp.Error != "no player found" {
		t.Errorf("expected error 'no player found', got %q", resp.Error)
	}
}

func TestExecutor_InvalidJSON(t *testing.T) {
	plugin := scriptPlugin(t, "bad", `echo 'not valid json'
`)

	if _, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "play"}); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestExecutor_NonZeroExit(t *testing.T) {
	plugin := scriptPlugin(t, "exit", `echo "Error: something failed" >&2
exit 1
`)

	_, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "play"})
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
	if !strings.Contains(err.Error(), "something failed") {
		t.Errorf("expected stderr in error, got: %v", err)
	}
}

func TestExecutor_UnsupportedAction(t *testing.T) {
	plugin := scriptPlugin(t, "audio", `echo '{"success":true}'
`, "play", "pause")

	_, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "rewind"})
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("expected ErrUnsupportedAction, got %v", err)
	}
}

func TestExecutor_CancelledContext(t *testing.T) {
	plugin := scriptPlugin(t, "slow", `sleep 10
echo '{"success":true}'
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewExecutor(5*time.Second).Execute(ctx, plugin, &Request{Action: "play"}); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(3 * time.Second).timeout; got != 3*time.Second {
		t.Errorf("expected timeout=3s, got %s", got)
	}
	if got := NewExecutor(0).timeout; got != DefaultTimeout {
		t.Errorf("expected default timeout, got %s", got)
	}
}

func TestManifest_Supports(t *testing.T) {
	m := Manifest{Actions: []string{"play", "pause"}}
	if !m.Supports("pause") {
		t.Error("expected pause to be supported")
	}
	if m.Supports("stop") {
		t.Error("stop should not be supported")
	}
}
