package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/challenge"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func hand(fingers int) []detector.HandLandmarks {
	return []detector.HandLandmarks{detector.FingersLandmarks(fingers, detector.HandRight, 0.3)}
}

// clock advances 100ms per read.
func clock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(100 * time.Millisecond)
		return now
	}
}

func TestE2E_PlayAndReview(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	dataDir := t.TempDir()
	s, err := store.New(dataDir + "/" + store.FileName)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	logger := logging.NewNop()
	hub := server.NewHub(logger)
	srv := server.New(server.Config{Store: s, LeaderboardDir: dataDir, Hub: hub, Logger: logger})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	game, err := challenge.Lookup("finger-count")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	t.Run("Play", func(t *testing.T) {
		frames := [][]detector.HandLandmarks{}
		for range 40 {
			frames = append(frames, hand(5))
		}
		// fixedRand(4) makes the single target 5.
		application, err := app.New(app.Config{
			Game:         game,
			Settings:     challenge.Settings{Goal: 1, Rand: fixedRand(4)},
			Hold:         200 * time.Millisecond,
			Source:       app.NewDetectorSource(detector.NewScriptedDetector(frames...), 0),
			Sink:         hub,
			Leaderboards: dataDir,
			Sessions:     s.Sessions(),
			Logger:       logger,
			Now:          clock(),
		})
		if err != nil {
			t.Fatalf("app.New() error = %v", err)
		}

		result, err := application.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if result.Outcome != challenge.OutcomeCompleted {
			t.Fatalf("outcome = %s, want completed", result.Outcome)
		}
	})

	t.Run("LastSnapshotOnConnect", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/snapshots"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var snap challenge.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if snap.State != challenge.StateFinished || snap.Result == nil {
			t.Fatalf("snapshot = %+v, want a finished session", snap)
		}
		if snap.Result.Outcome != challenge.OutcomeCompleted {
			t.Errorf("snapshot outcome = %s", snap.Result.Outcome)
		}
	})

	t.Run("SessionRecorded", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/sessions?game=finger-count")
		if err != nil {
			t.Fatalf("GET sessions error = %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Sessions []store.Session `json:"sessions"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if len(body.Sessions) != 1 {
			t.Fatalf("got %d sessions, want 1", len(body.Sessions))
		}
		if body.Sessions[0].Correct != 1 {
			t.Errorf("correct = %d, want 1", body.Sessions[0].Correct)
		}
	})

	t.Run("LeaderboardUpdated", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/leaderboard/finger-count")
		if err != nil {
			t.Fatalf("GET leaderboard error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}

		var body struct {
			Times []float64 `json:"times"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if len(body.Times) != 1 {
			t.Errorf("times = %v, want one entry", body.Times)
		}
	})
}

// fixedRand always draws v modulo n.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }
