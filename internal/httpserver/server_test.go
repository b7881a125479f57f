package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/bertle/internal/daily"
	"github.com/robalobadob/bertle/internal/game"
	"github.com/robalobadob/bertle/internal/store"
	"github.com/robalobadob/bertle/internal/words"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	wl := words.New([]string{"erase", "crane", "pilot"}, []string{"speed", "ghost", "slate"})
	return New(store.NewMemoryStore(), wl, Options{
		Rows:         3,
		ClientOrigin: "http://localhost:5173",
		DailySalt:    "salt",
		Now:          func() time.Time { return testNow },
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func newGame(t *testing.T, s *Server, body string) newGameRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/game/new", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[newGameRes](t, rec)
}

func guess(t *testing.T, s *Server, id, word string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, http.MethodPost, "/game/guess", `{"gameId":"`+id+`","guess":"`+word+`"}`)
}

func TestHealthAndIndex(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, s, http.MethodGet, "/", "")
	assert.Contains(t, rec.Body.String(), "bertle")
}

func TestNotFoundIsJSON(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","path":"/nope"}`, rec.Body.String())
}

func TestPreflight(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodOptions, "/game/new", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGuessFlowWin(t *testing.T) {
	s := newTestServer(t)
	ng := newGame(t, s, `{"answer":"ERASE"}`)
	assert.Equal(t, 3, ng.Rows)
	assert.Equal(t, 5, ng.Cols)

	rec := guess(t, s, ng.GameID, "speed")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[guessRes](t, rec)
	assert.Equal(t, "@X@@X", res.Symbols)
	assert.Equal(t, game.Feedback{game.MarkPresent, game.MarkAbsent, game.MarkPresent, game.MarkPresent, game.MarkAbsent}, res.Marks)
	assert.Equal(t, game.StatePlaying, res.State)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, "hinted", res.Keyboard["s"])
	assert.Equal(t, "eliminated", res.Keyboard["p"])
	assert.Equal(t, "unknown", res.Keyboard["z"])
	assert.Equal(t, "q w E r t y u i o  \na S   f g h j k l\n  z x c v b n m ", res.KeyboardView)
	assert.Empty(t, res.Answer)

	rec = guess(t, s, ng.GameID, "zzzzz")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"not_in_word_list"}`, rec.Body.String())

	rec = guess(t, s, ng.GameID, "abc")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"invalid_guess"}`, rec.Body.String())

	rec = guess(t, s, ng.GameID, "erase")
	res = decode[guessRes](t, rec)
	assert.Equal(t, "#####", res.Symbols)
	assert.Equal(t, game.StateWon, res.State)
	assert.Equal(t, "erase", res.Answer)

	rec = guess(t, s, ng.GameID, "erase")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodGet, "/game/"+ng.GameID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	gr := decode[gameRes](t, rec)
	require.Len(t, gr.Guesses, 2)
	assert.Equal(t, "speed", gr.Guesses[0].Guess)
	assert.Equal(t, "@X@@X", gr.Guesses[0].Symbols)
	assert.Equal(t, game.StateWon, gr.State)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.gamesStarted.WithLabelValues("fixed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.guesses.WithLabelValues("accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.guesses.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.gamesFinished.WithLabelValues("won")))
}

func TestGuessFlowLoseRevealsAnswer(t *testing.T) {
	s := newTestServer(t)
	ng := newGame(t, s, `{"answer":"crane"}`)
	var res guessRes
	for _, w := range []string{"pilot", "ghost", "slate"} {
		rec := guess(t, s, ng.GameID, w)
		require.Equal(t, http.StatusOK, rec.Code)
		res = decode[guessRes](t, rec)
	}
	assert.Equal(t, game.StateLost, res.State)
	assert.Equal(t, "crane", res.Answer)
}

func TestGetGameHidesAnswerWhilePlaying(t *testing.T) {
	s := newTestServer(t)
	ng := newGame(t, s, "")
	rec := do(t, s, http.MethodGet, "/game/"+ng.GameID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"answer"`)
	assert.Equal(t, game.StatePlaying, decode[gameRes](t, rec).State)
}

func TestNewGameDaily(t *testing.T) {
	s := newTestServer(t)
	ng := newGame(t, s, `{"daily":true}`)
	assert.Equal(t, "2026-10-18", ng.Date)

	g, err := s.store.Get(context.Background(), ng.GameID)
	require.NoError(t, err)
	want := s.words.Answer(daily.WordIndex(testNow, "salt", 3))
	assert.Equal(t, want, g.Answer)
}

func TestNewGameRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/game/new", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/game/new", `{"answer":"ab"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, s, http.MethodPost, "/game/new", `{"answer":"zzzzz"}`).Code)
}

func TestGuessRejectsBadRequests(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/game/guess", `nope`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/game/guess", `{"gameId":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, guess(t, s, "missing", "crane").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/game/missing", "").Code)
}

func TestRulesAndWords(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/rules", "")
	assert.Contains(t, rec.Body.String(), "3 attempts")

	rec = do(t, s, http.MethodGet, "/debug/words", "")
	assert.JSONEq(t, `{"answers":3,"allowed":6}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	newGame(t, s, "")
	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `bertle_games_started_total{mode="random"} 1`), body)
	assert.Contains(t, body, "bertle_games_active 1")
}

func TestSweepOnce(t *testing.T) {
	s := newTestServer(t)
	newGame(t, s, "")
	assert.Equal(t, 0, s.SweepOnce(context.Background(), time.Minute))

	s.opts.Now = func() time.Time { return testNow.Add(time.Hour) }
	assert.Equal(t, 1, s.SweepOnce(context.Background(), time.Minute))
	assert.Equal(t, 0, s.store.Len())
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunSweeper(ctx, time.Millisecond, time.Hour) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
