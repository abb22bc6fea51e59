package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/challenge"
	"github.com/ayusman/mudra/internal/leaderboard"
)

// LeaderboardHandler serves the best times of leaderboard games.
type LeaderboardHandler struct {
	dir string
}

// NewLeaderboardHandler creates a handler reading boards from dir.
func NewLeaderboardHandler(dir string) *LeaderboardHandler {
	return &LeaderboardHandler{dir: dir}
}

type leaderboardResponse struct {
	Game  string    `json:"game"`
	Times []float64 `json:"times"`
}

// ServeHTTP handles GET /api/leaderboard/{game}.
func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/leaderboard"), "/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "game is required")
		return
	}

	g, err := challenge.Lookup(name)
	if err != nil || !g.Leaderboard {
		writeError(w, http.StatusNotFound, "no leaderboard for game")
		return
	}

	times := leaderboard.ForGame(h.dir, g.Name).Load()
	if times == nil {
		times = []float64{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Game: g.Name, Times: times})
}
