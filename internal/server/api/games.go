package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/ayusman/mudra/internal/challenge"
)

// GamesHandler lists the registered games.
type GamesHandler struct{}

// NewGamesHandler creates a GamesHandler.
func NewGamesHandler() *GamesHandler {
	return &GamesHandler{}
}

type gameResponse struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Input       string `json:"input"`
	HoldMS      int64  `json:"hold_ms,omitempty"`
	Goal        int    `json:"goal,omitempty"`
	Leaderboard bool   `json:"leaderboard"`
	Music       bool   `json:"music"`
}

type listGamesResponse struct {
	Games []gameResponse `json:"games"`
}

func toGameResponse(g challenge.Game) gameResponse {
	return gameResponse{
		Name:        g.Name,
		Title:       g.Title,
		Input:       string(g.Input.Kind),
		HoldMS:      g.Input.Hold.Milliseconds(),
		Goal:        g.Goal,
		Leaderboard: g.Leaderboard,
		Music:       g.Music,
	}
}

// ServeHTTP handles GET /api/games and GET /api/games/{name}.
func (h *GamesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/games"), "/")
	if name == "" {
		writeJSON(w, http.StatusOK, listGamesResponse{
			Games: lo.Map(challenge.Games(), func(g challenge.Game, _ int) gameResponse {
				return toGameResponse(g)
			}),
		})
		return
	}

	g, err := challenge.Lookup(name)
	if errors.Is(err, challenge.ErrUnknownGame) {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, toGameResponse(g))
}

