package game

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	C = MarkCorrect
	P = MarkPresent
	A = MarkAbsent
)

func allowAll() Vocabulary { return VocabularyFunc(func(string) bool { return true }) }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		target string
		want   Feedback
	}{
		{"identity", "crane", "crane", Feedback{C, C, C, C, C}},
		{"disjoint", "crane", "pilot", Feedback{A, A, A, A, A}},
		{"speed vs erase", "speed", "erase", Feedback{P, A, P, P, A}},
		{"extra L is absent", "alloy", "lapse", Feedback{P, P, A, A, A}},
		{"exact match claims before earlier misplaced", "lolly", "hello", Feedback{A, P, C, C, A}},
		{"misplaced duplicate exhausted", "eerie", "there", Feedback{P, A, P, A, C}},
		{"triple guess letter vs double target", "eeeee", "geese", Feedback{A, C, C, A, C}},
		{"mixed", "stare", "tears", Feedback{P, P, C, C, P}},
		{"single present", "abbey", "kebab", Feedback{P, P, C, P, A}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.guess, tt.target))
		})
	}
}

func TestEvaluate_SpeedEraseIsStable(t *testing.T) {
	first := Evaluate("speed", "erase")
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Evaluate("speed", "erase"))
	}
}

func TestEvaluate_LetterCountConservation(t *testing.T) {
	words := []string{"speed", "erase", "geese", "eerie", "alloy", "lolly", "hello", "crane", "abbey", "kebab", "mamma", "llama"}
	for _, g := range words {
		for _, tw := range words {
			fb := Evaluate(g, tw)
			require.Len(t, fb, WordLength)
			for c := byte('a'); c <= 'z'; c++ {
				claimed := 0
				for i := range fb {
					if g[i] == c && fb[i] != MarkAbsent {
						claimed++
					}
				}
				assert.LessOrEqual(t, claimed, strings.Count(tw, string(c)), "guess %s target %s letter %c", g, tw, c)
			}
			for i := range fb {
				if g[i] == tw[i] {
					assert.Equal(t, MarkCorrect, fb[i], "exact position %d of %s vs %s", i, g, tw)
				}
			}
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	g := New("  CRANE ")
	assert.Equal(t, "crane", g.Answer)
	assert.Equal(t, DefaultRows, g.Rows)
	assert.Equal(t, WordLength, g.Cols)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, StatePlaying, g.State())
	assert.Equal(t, 6, g.Remaining())
}

func TestApplyGuess_Win(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g := New("crane", WithID("g1"), WithClock(func() time.Time { return at }))

	fb, st, err := g.ApplyGuess("Slate", allowAll())
	require.NoError(t, err)
	assert.Equal(t, Feedback{A, A, C, A, C}, fb)
	assert.Equal(t, StatePlaying, st)

	fb, st, err = g.ApplyGuess("crane", allowAll())
	require.NoError(t, err)
	assert.True(t, fb.Solved())
	assert.Equal(t, StateWon, st)
	assert.Equal(t, []string{"slate", "crane"}, g.Guesses)
	assert.Len(t, g.Feedback, 2)
	assert.Equal(t, at, g.UpdatedAt)
	for _, c := range []byte("crane") {
		assert.Equal(t, Hinted, g.Keyboard.State(c))
	}

	_, _, err = g.ApplyGuess("crane", allowAll())
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestApplyGuess_LoseAfterBudget(t *testing.T) {
	g := New("crane", WithRows(2))
	_, st, err := g.ApplyGuess("pilot", allowAll())
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, st)
	_, st, err = g.ApplyGuess("ghost", allowAll())
	require.NoError(t, err)
	assert.Equal(t, StateLost, st)
	assert.Equal(t, 0, g.Remaining())
}

func TestApplyGuess_RejectionsDoNotConsumeTurns(t *testing.T) {
	vocab := VocabularyFunc(func(w string) bool { return w == "crane" })
	g := New("crane")

	for _, bad := range []string{"", "cran", "cranes", "cr4ne", "crâne"} {
		_, _, err := g.ApplyGuess(bad, vocab)
		assert.ErrorIs(t, err, ErrInvalidGuess, bad)
		assert.False(t, errors.Is(err, ErrNotInWordList), bad)
	}

	_, _, err := g.ApplyGuess("zzzzz", vocab)
	assert.ErrorIs(t, err, ErrNotInWordList)
	assert.ErrorIs(t, err, ErrInvalidGuess)

	assert.Empty(t, g.Guesses)
	assert.Equal(t, DefaultRows, g.Remaining())
	assert.Equal(t, Unknown, g.Keyboard.State('z'))
}

func TestWithRowsIgnoresNonPositive(t *testing.T) {
	assert.Equal(t, DefaultRows, New("crane", WithRows(0)).Rows)
}
