// Package httpapp exposes the JSON API used by the chat bot, the track
// poller and the overlay frontend. It holds no game state of its own; every
// request goes through the lifecycle controller.
package httpapp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soundslike/guesstrack/internal/app"
	"github.com/soundslike/guesstrack/internal/logger"
)

type Handler struct {
	Game   *app.GameService
	Logger *logger.Logger
}

func NewHandler(game *app.GameService) *Handler {
	return &Handler{
		Game:   game,
		Logger: logger.Default().WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/track-changed", h.TrackChanged)
		r.Post("/guess", h.Guess)
		r.Post("/end", h.EndGame)
		r.Post("/session/reset", h.ResetSession)
		r.Post("/leaderboard/clear", h.ClearLeaderboards)

		r.Get("/state", h.State)
		r.Get("/leaderboard/{kind}", h.Leaderboard)
		r.Get("/users/{username}", h.UserStats)
		r.Get("/games/{gameID}/guesses", h.GuessLog)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.Logger.Error("Failed to encode response", "error", err)
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
