package engine

import (
	"context"
	"math"
	"time"

	"github.com/vocabox/vocabox/internal/errors"
	"github.com/vocabox/vocabox/internal/leitner"
	"github.com/vocabox/vocabox/internal/lesson"
	"github.com/vocabox/vocabox/internal/logger"
	"github.com/vocabox/vocabox/internal/models"
	"github.com/vocabox/vocabox/internal/repository"
)

// Engine is the source of truth for one deck's scheduling state. It owns the
// cards of a single (lessonID, userID) deck and is the only component that
// mutates a card's box or next review time. It is not safe for concurrent
// use; callers isolate decks by constructing one engine per key.
type Engine struct {
	lessonID string
	userID   string
	source   *lesson.Loader
	repo     repository.DeckRepository
	now      func() time.Time

	cards  []models.Card
	index  map[string]int
	loaded bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine for one deck. Call Load before any other operation.
func New(lessonID, userID string, source *lesson.Loader, repo repository.DeckRepository, opts ...Option) *Engine {
	e := &Engine{
		lessonID: lessonID,
		userID:   userID,
		source:   source,
		repo:     repo,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load restores persisted deck state if present, otherwise parses the lesson
// source into a fresh deck with every card in box 1 and due immediately.
// Individually malformed source cards are excluded and logged; a missing or
// unparsable source is a LoadError.
func (e *Engine) Load(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("component", "engine")

	persisted, found, err := e.repo.LoadDeck(ctx, e.lessonID, e.userID)
	if err != nil {
		log.Errorf("failed to read persisted deck: %v", err)
		return errors.NewInternalError(err)
	}

	if found {
		log.Debugf("restored deck from storage: lesson_id=%s cards=%d", e.lessonID, len(persisted))
		e.install(persisted)
		return nil
	}

	cards, rejected, err := e.source.Load(e.lessonID)
	if err != nil {
		return err
	}
	for _, rerr := range rejected {
		log.Warnf("skipping malformed card: %v", rerr)
	}

	now := e.now()
	for i := range cards {
		cards[i].Box = leitner.MinBox
		cards[i].NextReviewAt = now
	}
	log.Infof("created fresh deck: lesson_id=%s cards=%d skipped=%d", e.lessonID, len(cards), len(rejected))
	e.install(cards)
	return nil
}

func (e *Engine) install(cards []models.Card) {
	e.cards = cards
	e.index = make(map[string]int, len(cards))
	for i, c := range cards {
		e.index[c.ID] = i
	}
	e.loaded = true
}

// Loaded reports whether the deck has been loaded.
func (e *Engine) Loaded() bool {
	return e.loaded
}

// DueCards returns copies of all cards due at the given time. Read-only,
// callable repeatedly without side effects.
func (e *Engine) DueCards(now time.Time) []models.Card {
	var due []models.Card
	for _, c := range e.cards {
		if !c.NextReviewAt.After(now) {
			due = append(due, c)
		}
	}
	return due
}

// TotalCards returns the number of cards in the deck.
func (e *Engine) TotalCards() int {
	return len(e.cards)
}

// Grade applies the box transition for one answered card and persists the
// whole deck. On a PersistError the in-memory grade has already been applied
// and is not rolled back; the result is returned alongside the error so the
// caller can decide between retrying the write and accepting the loss.
func (e *Engine) Grade(ctx context.Context, cardID string, correct bool) (models.GradeResult, error) {
	log := logger.FromContext(ctx).WithField("component", "engine")

	idx, ok := e.index[cardID]
	if !ok {
		log.Warnf("grade for unknown card: %s", cardID)
		return models.GradeResult{}, errors.NewCardNotFoundError(cardID)
	}

	updated, result := leitner.Apply(e.cards[idx], correct, e.now())
	e.cards[idx] = updated
	log.Debugf("graded card %s: box %d -> %d, next review %s",
		cardID, result.OldBox, result.NewBox, result.NextReviewAt.Format(time.RFC3339))

	if err := e.Save(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// Save writes the full deck state. The repository replaces the deck in one
// transaction, so a failed write never leaves a partial card list.
func (e *Engine) Save(ctx context.Context) error {
	if err := e.repo.ReplaceDeck(ctx, e.lessonID, e.userID, e.cards); err != nil {
		logger.FromContext(ctx).WithField("component", "engine").Errorf("failed to persist deck: %v", err)
		return errors.NewPersistError(err)
	}
	return nil
}

// Reset clears persisted and in-memory state; the next Load behaves as a
// first run.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.repo.DeleteDeck(ctx, e.lessonID, e.userID); err != nil {
		return errors.NewPersistError(err)
	}
	e.cards = nil
	e.index = nil
	e.loaded = false
	return nil
}

// Statistics aggregates the deck's scheduling state at the given time. An
// empty deck reports zero progress rather than dividing by zero.
func (e *Engine) Statistics(now time.Time) models.DeckStats {
	stats := models.DeckStats{TotalCards: len(e.cards)}

	var nextUpcoming *time.Time
	for _, c := range e.cards {
		if c.Box >= leitner.MinBox && c.Box <= leitner.MaxBox {
			stats.BoxCounts[c.Box-1]++
		}
		if c.Box == leitner.MaxBox {
			stats.MasteredCount++
		}
		if !c.NextReviewAt.After(now) {
			stats.DueCount++
			continue
		}
		if nextUpcoming == nil || c.NextReviewAt.Before(*nextUpcoming) {
			t := c.NextReviewAt
			nextUpcoming = &t
		}
	}
	if stats.TotalCards > 0 {
		stats.ProgressPercent = int(math.Round(100 * float64(stats.MasteredCount) / float64(stats.TotalCards)))
	}
	stats.NextUpcomingReviewAt = nextUpcoming
	return stats
}
