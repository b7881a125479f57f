// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live game sessions for the HTTP API; nothing survives a restart.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update runs the mutation under the write lock so a game is never
//     guessed on by two requests at once.
//   - Sweep drops games that have been idle longer than a cutoff.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/bertle/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a game state.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a snapshot of a game by ID.
	// Returns ErrNotFound if the game is not found.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Update applies fn to the stored game atomically and returns a snapshot
	// taken after fn ran. fn's error is returned as-is; the game is kept
	// either way.
	Update(ctx context.Context, id string, fn func(*game.Game) error) (*game.Game, error)

	// Delete removes a game. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes games last updated before cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len reports the number of stored games.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games map and the games in it
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

// Save adds or updates the game in the map.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

// Get looks up a game by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return snapshot(g), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Game) error) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	err := fn(g)
	return snapshot(g), err
}

func (m *memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if ctx.Err() != nil {
			break
		}
		if g.UpdatedAt.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// snapshot copies g so callers can read it without holding the lock.
func snapshot(g *game.Game) *game.Game {
	c := *g
	c.Guesses = append([]string(nil), g.Guesses...)
	c.Feedback = append([]game.Feedback(nil), g.Feedback...)
	c.Keyboard = g.Keyboard.Clone()
	return &c
}
