// Package render turns feedback and keyboard knowledge into the fixed
// text glyphs shown to the player.
//
//	X  absent
//	@  present
//	#  correct
//
// The keyboard is laid out in qwerty rows. Eliminated letters become a
// blank, hinted letters are uppercased and unknown letters stay as-is.
package render

import (
	"fmt"
	"strings"

	"github.com/robalobadob/bertle/internal/game"
)

const (
	SymbolAbsent  = 'X'
	SymbolPresent = '@'
	SymbolCorrect = '#'
)

// Rows is the reference ordering of the alphabet used by Keyboard.
var Rows = [3]string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

// FeedbackIndent prefixes the feedback line so it lines up under the guess prompt.
const FeedbackIndent = "               "

// Symbol maps one mark to its glyph.
func Symbol(m game.Mark) byte {
	switch m {
	case game.MarkCorrect:
		return SymbolCorrect
	case game.MarkPresent:
		return SymbolPresent
	default:
		return SymbolAbsent
	}
}

// Feedback renders marks in guess order, e.g. "X@##X".
func Feedback(fb game.Feedback) string {
	b := make([]byte, len(fb))
	for i, m := range fb {
		b[i] = Symbol(m)
	}
	return string(b)
}

// Key renders one letter according to its knowledge state.
func Key(letter byte, s game.LetterState) byte {
	switch s {
	case game.Eliminated:
		return ' '
	case game.Hinted:
		return letter - 'a' + 'A'
	default:
		return letter
	}
}

// Keyboard renders k as three qwerty rows. Every key is followed by a
// space except the last key of the first two rows, which ends the line;
// the bottom row is indented by two spaces:
//
//	q w e r t y u i o p
//	a s d f g h j k l
//	  z x c v b n m
func Keyboard(k *game.Keyboard) string {
	var sb strings.Builder
	for r, row := range Rows {
		if r == 2 {
			sb.WriteString("  ")
		}
		for i := 0; i < len(row); i++ {
			sb.WriteByte(Key(row[i], k.State(row[i])))
			if r < 2 && i == len(row)-1 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

// Rules describes the game for a budget of rows guesses.
func Rules(rows int) string {
	return fmt.Sprintf(`The rules are as follows:

  1. Every game, the computer will choose a random existing English 5 letter word.
  2. The player has %d attempts to guess the word.
  3. After every guess, the results of that guess will be displayed as follows:
       - an 'X' means that the letter guessed does not appear in the word.
       - an '@' means that the letter guessed appears in the word, but not in the position it was guessed in.
       - a '#' means that the correct letter has been guessed in the correct position.
       - for players familiar with WORDLE, 'X' is a Gray letter, '@' a Yellow and '#' a Green.
  4. The on-screen keyboard is updated after every guess: "Gray" letters are removed,
     "Yellow" and "Green" letters are capitalized.
  5. Only existing English 5 letter words are allowed as guesses.
  6. The game ends when the word has been guessed (all '#') or the player runs out of guesses.`, rows)
}
