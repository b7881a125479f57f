// Package tui provides the Bubble Tea interface for BERTLE.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bertle/internal/game"
	"github.com/robalobadob/bertle/internal/render"
)

// Source supplies targets and validates guesses.
type Source interface {
	game.Vocabulary
	RandomAnswer() string
}

// Model implements the Bubble Tea game UI.
type Model struct {
	src  Source
	pick func() string
	rows int

	game  *game.Game
	input textinput.Model
	err   string

	width  int
	height int
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	tileBase    = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))
	correctTile = tileBase.Background(lipgloss.Color("#538D4E"))
	presentTile = tileBase.Background(lipgloss.Color("#B59F3B"))
	absentTile  = tileBase.Background(lipgloss.Color("#3A3A3C"))
	emptyTile   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#6E6E6E"))
	symbolStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	keyboardBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	resultStyle = lipgloss.NewStyle().Bold(true)
)

// NewModel constructs a game model. pick chooses each target; nil means src.RandomAnswer.
func NewModel(src Source, pick func() string, rows int) *Model {
	if pick == nil {
		pick = src.RandomAnswer
	}
	if rows <= 0 {
		rows = game.DefaultRows
	}
	ti := textinput.New()
	ti.Placeholder = "guess"
	ti.CharLimit = game.WordLength
	ti.Width = game.WordLength + 1
	ti.Prompt = "Enter a guess: "
	ti.Focus()

	m := &Model{src: src, pick: pick, rows: rows, input: ti}
	m.newGame()
	return m
}

// Game exposes the current session (useful for tests).
func (m *Model) Game() *game.Game { return m.game }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyRunes:
			if m.game.Finished {
				switch string(msg.Runes) {
				case "n":
					m.newGame()
				case "q":
					return m, tea.Quit
				}
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) newGame() {
	m.game = game.New(m.pick(), game.WithRows(m.rows))
	m.err = ""
	m.input.SetValue("")
	log.Debug().Str("gameId", m.game.ID).Msg("tui game started")
}

func (m *Model) submit() {
	if m.game.Finished {
		return
	}
	_, _, err := m.game.ApplyGuess(m.input.Value(), m.src)
	switch {
	case errors.Is(err, game.ErrNotInWordList):
		m.err = "Not in word list!"
		return
	case errors.Is(err, game.ErrInvalidGuess):
		m.err = fmt.Sprintf("Guesses are %d letters a-z.", game.WordLength)
		return
	case err != nil:
		m.err = err.Error()
		return
	}
	m.err = ""
	m.input.SetValue("")
}

// View implements tea.Model.
func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("BERTLE"))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderBoard())
	sb.WriteString("\n")
	sb.WriteString(keyboardBox.Render(render.Keyboard(m.game.Keyboard)))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(footerStyle.Render(m.footer()))
	body := sb.String()
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// renderBoard draws one line per row: coloured tiles, then the symbol line.
func (m *Model) renderBoard() string {
	var sb strings.Builder
	for row := 0; row < m.game.Rows; row++ {
		if row < len(m.game.Guesses) {
			guess, fb := m.game.Guesses[row], m.game.Feedback[row]
			for i := 0; i < len(guess); i++ {
				sb.WriteString(tileStyle(fb[i]).Render(strings.ToUpper(guess[i : i+1])))
			}
			sb.WriteString("  ")
			sb.WriteString(symbolStyle.Render(render.Feedback(fb)))
		} else {
			for i := 0; i < m.game.Cols; i++ {
				sb.WriteString(emptyTile.Render("_"))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderStatus() string {
	g := m.game
	switch g.State() {
	case game.StateWon:
		return resultStyle.Render(fmt.Sprintf("Solved! You solved this BERTLE in %d guesses.", len(g.Guesses)))
	case game.StateLost:
		return resultStyle.Render(fmt.Sprintf("No guesses remaining. The correct answer was '%s'", g.Answer))
	}
	line := fmt.Sprintf("Remaining guesses: %d\n%s", g.Remaining(), m.input.View())
	if m.err != "" {
		line += "\n" + errorStyle.Render(m.err)
	}
	return line
}

func (m *Model) footer() string {
	if m.game.Finished {
		return "n new game · q quit"
	}
	return "enter submit · esc quit"
}

func tileStyle(mark game.Mark) lipgloss.Style {
	switch mark {
	case game.MarkCorrect:
		return correctTile
	case game.MarkPresent:
		return presentTile
	default:
		return absentTile
	}
}
