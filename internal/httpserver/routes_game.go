// internal/httpserver/routes_game.go
//
// HTTP routes for playing games:
//   - POST /game/new    → start a game (random, daily, or a fixed answer)
//   - POST /game/guess  → submit a guess, get marks, symbols and keyboard
//   - GET  /game/{id}   → current board and keyboard

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/bertle/internal/game"
	"github.com/robalobadob/bertle/internal/render"
	"github.com/robalobadob/bertle/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Get("/{id}", s.handleGetGame)
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Answer string `json:"answer" validate:"omitempty,len=5,alpha"` // optional fixed answer (testing)
	Daily  bool   `json:"daily"`
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Date   string `json:"date,omitempty"`
}

// handleNewGame creates a new in-memory game.
// An empty body starts a random game.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	var answer, date, mode string
	switch {
	case req.Answer != "":
		answer, mode = game.Normalize(req.Answer), "fixed"
		if !s.words.IsAllowed(answer) {
			writeError(w, http.StatusUnprocessableEntity, "not_in_word_list")
			return
		}
	case req.Daily:
		var idx int
		date, idx = s.dailyPicker().Pick(len(s.words.Answers()))
		answer, mode = s.words.Answer(idx), "daily"
	default:
		answer, mode = s.words.RandomAnswer(), "random"
	}

	g := game.New(answer, game.WithRows(s.rows()), game.WithClock(s.opts.Now))
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.metrics.gamesStarted.WithLabelValues(mode).Inc()
	hlog.FromRequest(r).Debug().Str("gameId", g.ID).Str("mode", mode).Msg("game started")

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Rows: g.Rows, Cols: g.Cols, Date: date})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId" validate:"required"`
	Guess  string `json:"guess" validate:"required"`
}
type guessRes struct {
	Marks        game.Feedback     `json:"marks"`
	Symbols      string            `json:"symbols"`
	State        game.State        `json:"state"` // "playing" | "won" | "lost"
	Remaining    int               `json:"remaining"`
	Keyboard     map[string]string `json:"keyboard"`
	KeyboardView string            `json:"keyboardView"`
	Answer       string            `json:"answer,omitempty"`
}

// handleGuess applies a guess to a stored game.
// Rejected guesses do not use up a turn.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	var fb game.Feedback
	g, err := s.store.Update(r.Context(), req.GameID, func(g *game.Game) error {
		var err error
		fb, _, err = g.ApplyGuess(req.Guess, s.words)
		return err
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, game.ErrGameFinished):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case errors.Is(err, game.ErrNotInWordList):
		s.metrics.guesses.WithLabelValues("rejected").Inc()
		writeError(w, http.StatusUnprocessableEntity, "not_in_word_list")
		return
	case errors.Is(err, game.ErrInvalidGuess):
		s.metrics.guesses.WithLabelValues("rejected").Inc()
		writeError(w, http.StatusUnprocessableEntity, "invalid_guess")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("gameId", req.GameID).Msg("apply guess")
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}

	s.metrics.guesses.WithLabelValues("accepted").Inc()
	if g.Finished {
		s.metrics.gamesFinished.WithLabelValues(string(g.State())).Inc()
	}

	writeJSON(w, http.StatusOK, guessRes{
		Marks:        fb,
		Symbols:      render.Feedback(fb),
		State:        g.State(),
		Remaining:    g.Remaining(),
		Keyboard:     keyboardJSON(g.Keyboard),
		KeyboardView: render.Keyboard(g.Keyboard),
		Answer:       revealed(g),
	})
}

type guessRow struct {
	Guess   string        `json:"guess"`
	Marks   game.Feedback `json:"marks"`
	Symbols string        `json:"symbols"`
}

type gameRes struct {
	GameID       string            `json:"gameId"`
	Rows         int               `json:"rows"`
	Cols         int               `json:"cols"`
	Guesses      []guessRow        `json:"guesses"`
	State        game.State        `json:"state"`
	Remaining    int               `json:"remaining"`
	Keyboard     map[string]string `json:"keyboard"`
	KeyboardView string            `json:"keyboardView"`
	Answer       string            `json:"answer,omitempty"`
}

// handleGetGame returns the board of a stored game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	rows := make([]guessRow, len(g.Guesses))
	for i, guess := range g.Guesses {
		rows[i] = guessRow{Guess: guess, Marks: g.Feedback[i], Symbols: render.Feedback(g.Feedback[i])}
	}
	writeJSON(w, http.StatusOK, gameRes{
		GameID:       g.ID,
		Rows:         g.Rows,
		Cols:         g.Cols,
		Guesses:      rows,
		State:        g.State(),
		Remaining:    g.Remaining(),
		Keyboard:     keyboardJSON(g.Keyboard),
		KeyboardView: render.Keyboard(g.Keyboard),
		Answer:       revealed(g),
	})
}

// keyboardJSON lists every letter with its knowledge state.
func keyboardJSON(k *game.Keyboard) map[string]string {
	out := make(map[string]string, 26)
	for letter, st := range k.Letters() {
		out[letter] = st.String()
	}
	return out
}

// revealed returns the answer once it is no longer a secret.
func revealed(g *game.Game) string {
	if g.Finished {
		return g.Answer
	}
	return ""
}
