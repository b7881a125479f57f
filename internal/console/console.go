// Package console runs BERTLE as a line-oriented text game: a menu,
// the rules screen and the guess loop, over any reader/writer pair.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bertle/internal/game"
	"github.com/robalobadob/bertle/internal/render"
)

const (
	separator        = "------------------------"
	title            = "BERTLE"
	notInList        = "### Not in word list! ###"
	invalidSelection = "### Invalid selection ###"
)

// ErrInputClosed is returned when input ends in the middle of a game.
var ErrInputClosed = errors.New("input closed")

// Source supplies targets and validates guesses.
type Source interface {
	game.Vocabulary
	RandomAnswer() string
}

// Runner owns the input/output streams of one console session.
type Runner struct {
	in   *bufio.Scanner
	out  io.Writer
	src  Source
	pick func() string
	rows int
}

// Option customizes a Runner.
type Option func(*Runner)

// WithPicker replaces random target selection, e.g. for daily games.
func WithPicker(pick func() string) Option {
	return func(r *Runner) { r.pick = pick }
}

// WithRows sets the guess budget per game.
func WithRows(n int) Option {
	return func(r *Runner) { r.rows = n }
}

// New builds a Runner reading player input from in and writing to out.
func New(in io.Reader, out io.Writer, src Source, opts ...Option) *Runner {
	r := &Runner{
		in:   bufio.NewScanner(in),
		out:  out,
		src:  src,
		pick: src.RandomAnswer,
		rows: game.DefaultRows,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run shows the main menu until the player exits, input ends or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	r.printf("Welcome to %s\n\n", title)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printf("%s\n1. Play Game\n2. Read Rules\n3. Exit\n\n", separator)
		choice, ok := r.prompt("Please enter a selection: ")
		if !ok {
			r.printf("\n")
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			if _, err := r.Play(); err != nil {
				if errors.Is(err, ErrInputClosed) {
					r.printf("\n")
					return nil
				}
				return err
			}
		case "2":
			r.printf("\n%s\n\n%s\n\n", separator, render.Rules(r.rows))
		case "3":
			return nil
		default:
			r.printf("%s\n", invalidSelection)
		}
	}
}

// Play runs one game to completion and returns it.
func (r *Runner) Play() (*game.Game, error) {
	g := game.New(r.pick(), game.WithRows(r.rows))
	log.Debug().Str("gameId", g.ID).Int("rows", g.Rows).Msg("game started")
	r.printf("\n")

	for !g.Finished {
		r.printf("%s\n%s\nRemaining guesses: %d\n", separator, render.Keyboard(g.Keyboard), g.Remaining())
		guess, ok := r.prompt("Enter a guess: ")
		if !ok {
			return g, ErrInputClosed
		}
		fb, _, err := g.ApplyGuess(guess, r.src)
		if err != nil {
			if errors.Is(err, game.ErrInvalidGuess) {
				log.Debug().Err(err).Str("gameId", g.ID).Msg("guess rejected")
				r.printf("\n%s\n", notInList)
				continue
			}
			return g, err
		}
		r.printf("%s%s\n", render.FeedbackIndent, render.Feedback(fb))
	}

	r.printf("%s\n", separator)
	if g.Won {
		r.printf("Solved!\nYou solved this %s in %d guesses.\n", title, len(g.Guesses))
	} else {
		r.printf("No guesses remaining.\nThe correct answer was '%s'\n", g.Answer)
	}
	log.Debug().Str("gameId", g.ID).Str("state", string(g.State())).Int("guesses", len(g.Guesses)).Msg("game finished")
	return g, nil
}

func (r *Runner) prompt(p string) (string, bool) {
	r.printf("%s", p)
	if !r.in.Scan() {
		return "", false
	}
	return r.in.Text(), true
}

func (r *Runner) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		log.Warn().Err(err).Msg("console write failed")
	}
}
