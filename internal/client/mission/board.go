package mission

import (
	"sync"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

// Board keeps one Card per location of a station view.
type Board struct {
	deps Deps

	mu    sync.Mutex
	cards map[models.ID]*Card
}

// NewBoard returns an empty board.
func NewBoard(deps Deps) *Board {
	return &Board{deps: deps, cards: map[models.ID]*Card{}}
}

// Sync creates cards for new locations and hands fresh data to idle ones.
func (b *Board) Sync(locs []models.Location) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, loc := range locs {
		if c, ok := b.cards[loc.ID]; ok {
			c.Sync(loc)
			continue
		}
		b.cards[loc.ID] = NewCard(loc, b.deps)
	}
}

// Card returns the card of a location seen by Sync.
func (b *Board) Card(locationID models.ID) (*Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.cards[locationID]
	return c, ok
}
