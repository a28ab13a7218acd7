package repository

import (
	"context"

	"github.com/vocabox/vocabox/internal/models"
)

// DeckRepository handles durable deck state, keyed by (lessonID, userID).
// Writes replace the whole deck atomically: a reader never observes a
// partial card list.
type DeckRepository interface {
	// LoadDeck returns the persisted cards for a deck. found is false when
	// no state was ever saved for the key, which is a different fact from an
	// empty deck.
	LoadDeck(ctx context.Context, lessonID, userID string) (cards []models.Card, found bool, err error)
	// ReplaceDeck writes the full deck state in one transaction.
	ReplaceDeck(ctx context.Context, lessonID, userID string, cards []models.Card) error
	// DeleteDeck removes all persisted state for a deck.
	DeleteDeck(ctx context.Context, lessonID, userID string) error
}
