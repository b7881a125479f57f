// internal/game/engine.go
//
// Core game engine for a single BERTLE session.
// Responsibilities:
//   - Create new games with deterministic dimensions (6x5 by default).
//   - Validate and apply guesses (length, alphabetic, allowed list).
//   - Score guesses using the two-pass claim algorithm.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Word lists are supplied by the caller through Vocabulary.
//   - Evaluate is pure; the Keyboard is the only state that evolves per turn.
package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultRows = 6
	WordLength  = 5
)

var (
	// ErrInvalidGuess is returned for guesses that are not five a–z letters
	// or are not in the accepted vocabulary.
	ErrInvalidGuess = errors.New("invalid guess")
	// ErrNotInWordList wraps ErrInvalidGuess for well-formed words missing from the vocabulary.
	ErrNotInWordList = fmt.Errorf("%w: not in word list", ErrInvalidGuess)
	// ErrGameFinished is returned when guessing on a won or lost game.
	ErrGameFinished = errors.New("game finished")
)

// Vocabulary reports whether a normalized word is an accepted guess.
type Vocabulary interface {
	IsAllowed(word string) bool
}

// VocabularyFunc adapts a plain function to Vocabulary.
type VocabularyFunc func(word string) bool

func (f VocabularyFunc) IsAllowed(word string) bool { return f(word) }

// Option customizes a new Game.
type Option func(*Game)

// WithRows overrides the guess budget. Values below 1 are ignored.
func WithRows(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.Rows = n
		}
	}
}

// WithID sets a fixed game identifier.
func WithID(id string) Option {
	return func(g *Game) { g.ID = id }
}

// WithClock replaces time.Now for UpdatedAt bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// New constructs a new game for the given answer.
// The answer is lowercased; callers pick it from a word source.
func New(answer string, opts ...Option) *Game {
	g := &Game{
		ID:       uuid.NewString(),
		Answer:   strings.ToLower(strings.TrimSpace(answer)),
		Rows:     DefaultRows,
		Cols:     WordLength,
		Guesses:  []string{},
		Feedback: []Feedback{},
		Keyboard: NewKeyboard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.UpdatedAt = g.now()
	return g
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns the feedback, the new state, or an error.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be exactly g.Cols letters and alphabetic a–z.
//   - Guess must be accepted by vocab.
//
// A rejected guess does not consume a turn.
func (g *Game) ApplyGuess(guess string, vocab Vocabulary) (Feedback, State, error) {
	if g.Finished {
		return nil, g.State(), ErrGameFinished
	}
	guess = Normalize(guess)
	if len(guess) != g.Cols || !isAlpha(guess) {
		return nil, g.State(), fmt.Errorf("%w: %q must be %d letters a-z", ErrInvalidGuess, guess, g.Cols)
	}
	if vocab != nil && !vocab.IsAllowed(guess) {
		return nil, g.State(), ErrNotInWordList
	}

	fb := Evaluate(guess, g.Answer)
	g.Guesses = append(g.Guesses, guess)
	g.Feedback = append(g.Feedback, fb)
	g.Keyboard.Update(guess, fb)
	g.UpdatedAt = g.now()

	if fb.Solved() {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.Rows {
		g.Finished = true
	}
	return fb, g.State(), nil
}

// State reports the current lifecycle state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Remaining is the number of guesses left.
func (g *Game) Remaining() int {
	if n := g.Rows - len(g.Guesses); n > 0 {
		return n
	}
	return 0
}

// Evaluate classifies each letter of guess against target.
//
// Pass 1 marks exact matches Correct and claims that target occurrence.
// Pass 2 walks the remaining positions left to right: a letter with an
// unclaimed occurrence left is Present and claims it, otherwise Absent.
//
// Both words are assumed to be validated, equal-length a–z strings.
func Evaluate(guess, target string) Feedback {
	n := len(guess)
	res := make(Feedback, n)

	// Unclaimed target letters, by a–z index.
	var unclaimed [26]int
	for i := 0; i < len(target); i++ {
		unclaimed[idx(target[i])]++
	}

	for i := 0; i < n; i++ {
		if i < len(target) && guess[i] == target[i] {
			res[i] = MarkCorrect
			unclaimed[idx(guess[i])]--
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == MarkCorrect {
			continue
		}
		j := idx(guess[i])
		if unclaimed[j] > 0 {
			res[i] = MarkPresent
			unclaimed[j]--
		} else {
			res[i] = MarkAbsent
		}
	}
	return res
}

// Normalize trims and lowercases raw player input.
func Normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// idx maps a lowercase ASCII letter to 0..25.
func idx(c byte) int { return int(c - 'a') }

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
