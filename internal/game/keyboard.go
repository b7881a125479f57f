package game

// Keyboard is the cumulative per-letter knowledge of one session.
// The zero value is not usable; call NewKeyboard.
type Keyboard struct {
	letters [26]LetterState
}

// NewKeyboard returns a keyboard with every letter Unknown.
func NewKeyboard() *Keyboard { return &Keyboard{} }

// State returns the knowledge for a lowercase letter. Non-letters are Unknown.
func (k *Keyboard) State(letter byte) LetterState {
	if letter < 'a' || letter > 'z' {
		return Unknown
	}
	return k.letters[idx(letter)]
}

// Update folds one guess's feedback into the keyboard and returns k.
//
// Correct and Present marks are applied before Absent marks, so a letter
// that is both found and exhausted within the same guess reads Hinted.
// Absent only moves Unknown to Eliminated; Hinted is never downgraded.
func (k *Keyboard) Update(guess string, fb Feedback) *Keyboard {
	n := min(len(guess), len(fb))
	for i := 0; i < n; i++ {
		if fb[i] == MarkCorrect || fb[i] == MarkPresent {
			k.letters[idx(guess[i])] = Hinted
		}
	}
	for i := 0; i < n; i++ {
		if fb[i] != MarkAbsent {
			continue
		}
		j := idx(guess[i])
		if k.letters[j] == Unknown {
			k.letters[j] = Eliminated
		}
	}
	return k
}

// Clone returns an independent snapshot.
func (k *Keyboard) Clone() *Keyboard {
	c := *k
	return &c
}

// Letters returns the state of every letter, keyed by the lowercase letter.
func (k *Keyboard) Letters() map[string]LetterState {
	out := make(map[string]LetterState, len(k.letters))
	for i, s := range k.letters {
		out[string(rune('a'+i))] = s
	}
	return out
}
