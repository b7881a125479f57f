// internal/game/types.go
//
// Core type definitions for the BERTLE game engine.
// Defines:
//   - Mark: per-letter result of a guess (correct/present/absent).
//   - Feedback: the five marks for one guess, aligned with the guess.
//   - LetterState: cumulative knowledge about one alphabet letter.
//   - Game: state for a single in-progress or finished session.

package game

import "time"

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the answer at this position.
//   - "present": letter is in the answer at a different position.
//   - "absent":  letter is not in the answer, or every occurrence is already claimed.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// Feedback is the ordered classification of a guess, one Mark per position.
type Feedback []Mark

// Solved reports whether every mark is MarkCorrect.
func (f Feedback) Solved() bool {
	if len(f) == 0 {
		return false
	}
	for _, m := range f {
		if m != MarkCorrect {
			return false
		}
	}
	return true
}

// LetterState is what a session knows about a single letter.
type LetterState uint8

const (
	Unknown    LetterState = iota // never guessed
	Eliminated                    // guessed, absent everywhere
	Hinted                        // known to be in the answer
)

func (s LetterState) String() string {
	switch s {
	case Eliminated:
		return "eliminated"
	case Hinted:
		return "hinted"
	default:
		return "unknown"
	}
}

// State is the coarse lifecycle of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game holds the state of a single BERTLE session.
type Game struct {
	ID        string     // Unique game identifier (uuid).
	Answer    string     // The solution word (always lowercase).
	Rows      int        // Maximum number of guesses allowed (typically 6).
	Cols      int        // Number of letters per word (always 5).
	Guesses   []string   // Accepted guesses so far (lowercased).
	Feedback  []Feedback // Feedback for each accepted guess.
	Keyboard  *Keyboard  // Cumulative letter knowledge.
	Finished  bool       // True once the game is over (won or lost).
	Won       bool       // True if the game was finished with a win.
	UpdatedAt time.Time  // Last time the game was created or guessed on.

	now func() time.Time
}
