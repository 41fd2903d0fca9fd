package httpapp

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/soundslike/guesstrack/internal/domain"
)

type trackChangedRequest struct {
	Track  string `json:"track"`
	Artist string `json:"artist"`
}

type guessRequest struct {
	Username string `json:"username"`
	Guess    string `json:"guess"`
}

type endRequest struct {
	Reason string `json:"reason"`
}

// TrackChanged starts a new round for the track the poller just observed.
// A started=false response is normal when the feature is disabled.
func (h *Handler) TrackChanged(w http.ResponseWriter, r *http.Request) {
	var req trackChangedRequest
	if !h.decode(w, r, &req) {
		return
	}
	started := h.Game.StartNewGame(r.Context(), req.Track, req.Artist)
	h.writeJSON(w, http.StatusOK, map[string]bool{"started": started})
}

// Guess scores one chat message. Guesses the engine ignored (feature off,
// no game, grace period over, blank input) come back as 204.
func (h *Handler) Guess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if !h.decode(w, r, &req) {
		return
	}
	res := h.Game.ProcessGuess(r.Context(), req.Username, req.Guess)
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if !h.decode(w, r, &req) {
		return
	}
	reason := domain.GameStatus(req.Reason)
	if !reason.Terminal() {
		h.writeError(w, http.StatusBadRequest, "reason must be a terminal status")
		return
	}
	ended := h.Game.EndGame(r.Context(), reason)
	h.writeJSON(w, http.StatusOK, map[string]bool{"ended": ended})
}

func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if !h.Game.ResetSession(r.Context()) {
		h.writeError(w, http.StatusInternalServerError, "failed to reset session")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) ClearLeaderboards(w http.ResponseWriter, r *http.Request) {
	if !h.Game.ClearLeaderboards(r.Context()) {
		h.writeError(w, http.StatusInternalServerError, "failed to clear leaderboards")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Game.GetCurrentState(r.Context()))
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	kind := domain.LeaderboardKind(chi.URLParam(r, "kind"))
	if kind != domain.LeaderboardSession && kind != domain.LeaderboardAllTime {
		h.writeError(w, http.StatusNotFound, "unknown leaderboard")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	h.writeJSON(w, http.StatusOK, h.Game.GetLeaderboard(r.Context(), kind, limit))
}

func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	stats := h.Game.GetUserStats(r.Context(), chi.URLParam(r, "username"))
	if stats == nil {
		h.writeError(w, http.StatusNotFound, "unknown user")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) GuessLog(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	h.writeJSON(w, http.StatusOK, h.Game.GetGuessLog(r.Context(), gameID))
}
