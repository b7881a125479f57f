// internal/words/words.go
//
// Provides word list management for the game.
//
// Responsibilities:
//   - Load answer and allowed guess lists from configured files or fall back to embedded defaults.
//   - Maintain sets for quick lookups (answers only, answers∪guesses).
//   - Supply RandomAnswer, IsAllowed, IsAnswer and Stats.
//
// Word Lists:
//   - "answers": candidate targets (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Load behavior:
//  1. If AnswersFile and AllowedFile are both set,
//     load answers from the first and allowed guesses from the second.
//  2. If only AllowedFile is set,
//     load that file and use it for both answers and allowed guesses.
//  3. If neither is set,
//     fall back to the embedded lists in the assets package.
//
// Constraints:
//   - Words must be 5 alphabetic letters (a–z); other lines are dropped.
//   - Blank lines and lines starting with '#' are skipped.
//   - Lists are normalized to lowercase.
package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bertle/assets"
)

// ErrEmptyAnswers is returned when no usable answer words were loaded.
var ErrEmptyAnswers = errors.New("words: answers list is empty")

const wordLength = 5

// Config selects where the lists come from. Empty paths mean "embedded".
type Config struct {
	AnswersFile string
	AllowedFile string
}

// Lists is an immutable, loaded pair of word lists. Safe for concurrent reads.
type Lists struct {
	answers    []string            // canonical answers, file order
	answersSet map[string]struct{} // answers only
	allowedSet map[string]struct{} // answers ∪ guesses
}

// Load reads the lists described by cfg.
func Load(cfg Config) (*Lists, error) {
	var ansList, allowList []string
	var err error

	switch {
	case cfg.AnswersFile != "" && cfg.AllowedFile != "":
		if ansList, err = readWordFile(cfg.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(cfg.AllowedFile); err != nil {
			return nil, err
		}

	case cfg.AllowedFile != "":
		if allowList, err = readWordFile(cfg.AllowedFile); err != nil {
			return nil, err
		}
		ansList = allowList

	case cfg.AnswersFile != "":
		return nil, errors.New("words: answers file requires an allowed file")

	default:
		if ansList, err = readEmbedded(assets.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readEmbedded(assets.AllowedFile); err != nil {
			return nil, err
		}
	}

	l := New(ansList, allowList)
	if len(l.answers) == 0 {
		return nil, ErrEmptyAnswers
	}
	a, g := l.Stats()
	log.Debug().Int("answers", a).Int("allowed", g).Msg("word lists loaded")
	return l, nil
}

// New builds Lists from in-memory slices. Words are normalized and filtered
// the same way file input is; answers are always allowed.
func New(answers, allowed []string) *Lists {
	l := &Lists{
		answersSet: make(map[string]struct{}, len(answers)),
		allowedSet: make(map[string]struct{}, len(answers)+len(allowed)),
	}
	for _, w := range answers {
		w = normalize(w)
		if !valid(w) {
			continue
		}
		if _, dup := l.answersSet[w]; !dup {
			l.answers = append(l.answers, w)
		}
		l.answersSet[w] = struct{}{}
		l.allowedSet[w] = struct{}{}
	}
	for _, w := range allowed {
		if w = normalize(w); valid(w) {
			l.allowedSet[w] = struct{}{}
		}
	}
	return l
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list %s: %w", path, err)
	}
	defer f.Close()
	out, err := ReadList(f)
	if err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}
	return out, nil
}

func readEmbedded(name string) ([]string, error) {
	f, err := assets.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open embedded %s: %w", name, err)
	}
	defer f.Close()
	return ReadList(f)
}

// ReadList reads a newline-delimited word list, keeping only valid
// 5-letter words in lowercase.
func ReadList(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if w := normalize(s); valid(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// valid reports whether w is exactly five lowercase ASCII letters.
func valid(w string) bool {
	if len(w) != wordLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// RandomAnswer returns a cryptographically random answer.
func (l *Lists) RandomAnswer() string {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	if err != nil {
		log.Warn().Err(err).Msg("crypto/rand failed, using first answer")
		return l.answers[0]
	}
	return l.answers[nBig.Int64()]
}

// Answer returns the answer at index i modulo the list length.
func (l *Lists) Answer(i int) string {
	n := len(l.answers)
	return l.answers[((i%n)+n)%n]
}

// Answers returns a copy of the answer list.
func (l *Lists) Answers() []string {
	return append([]string(nil), l.answers...)
}

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (l *Lists) IsAllowed(w string) bool {
	_, ok := l.allowedSet[normalize(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *Lists) IsAnswer(w string) bool {
	_, ok := l.answersSet[normalize(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *Lists) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowedSet)
}
