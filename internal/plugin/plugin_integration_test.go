package plugin

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestPlugin_Audio_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if runtime.GOOS == "windows" {
		t.Skip("audio plugin uses POSIX signals")
	}

	pluginDir := findPluginDir("audio")
	if pluginDir == "" {
		t.Skip("audio plugin not found")
	}

	mgr := NewManager(filepath.Dir(pluginDir), nil)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plug, err := mgr.Get("audio")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := os.Stat(plug.Executable); err != nil {
		t.Skip("audio plugin binary not built")
	}

	// Pausing with nothing playing fails without side effects.
	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plug, &Request{Action: "pause", Game: "integration"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Success {
		t.Error("expected failure when nothing is playing")
	}
}

func findPluginDir(name string) string {
	candidates := []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, "plugin.json")); err == nil {
			return dir
		}
	}
	return ""
}
