package session

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/vocabox/vocabox/internal/engine"
	"github.com/vocabox/vocabox/internal/errors"
	"github.com/vocabox/vocabox/internal/logger"
	"github.com/vocabox/vocabox/internal/models"
)

// State is the phase of a review session.
type State string

const (
	StateIdle          State = "idle"
	StateQuestionShown State = "question_shown"
	StateAnswerShown   State = "answer_shown"
	StateComplete      State = "complete"
)

// Controller drives exactly one review session over a scheduling engine:
// pick a due card, reveal, grade, repeat until no due cards remain. Session
// counters are independent of the deck's lifetime statistics and are not
// persisted across restarts.
type Controller struct {
	engine *engine.Engine
	now    func() time.Time
	pick   func(n int) int

	state     State
	current   *models.Card
	reviewed  int
	correct   int
	incorrect int
	points    int
	startedAt time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the session's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithPicker overrides the due-card selection. The function receives the
// number of due cards and returns an index.
func WithPicker(pick func(n int) int) Option {
	return func(c *Controller) {
		c.pick = pick
	}
}

// New creates a controller over an already loaded engine.
func New(e *engine.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine: e,
		now:    time.Now,
		pick:   rand.IntN,
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current session state.
func (c *Controller) State() State {
	return c.state
}

// CurrentCard returns a copy of the card in flight, or nil.
func (c *Controller) CurrentCard() *models.Card {
	if c.current == nil {
		return nil
	}
	card := *c.current
	return &card
}

// Start resets the session counters and presents the first due card. It
// returns nil when nothing is due; the caller must check for that instead of
// assuming a card. Calling Start on a running session restarts it.
func (c *Controller) Start(ctx context.Context) *models.Card {
	log := logger.FromContext(ctx).WithField("component", "session")

	c.reviewed = 0
	c.correct = 0
	c.incorrect = 0
	c.points = 0
	c.startedAt = c.now()
	c.current = nil
	c.state = StateIdle

	card := c.selectDue()
	if card == nil {
		log.Debug("no cards due, session stays idle")
		return nil
	}
	c.current = card
	c.state = StateQuestionShown
	log.Debugf("session started with card %s", card.ID)
	return c.CurrentCard()
}

// ContinueSession re-enters the review loop after Complete without resetting
// the session counters, picking up cards that have become due since.
func (c *Controller) ContinueSession(ctx context.Context) *models.Card {
	log := logger.FromContext(ctx).WithField("component", "session")

	if c.state == StateQuestionShown || c.state == StateAnswerShown {
		return c.CurrentCard()
	}

	card := c.selectDue()
	if card == nil {
		log.Debug("no newly due cards to continue with")
		return nil
	}
	c.current = card
	c.state = StateQuestionShown
	log.Debugf("session continued with card %s", card.ID)
	return c.CurrentCard()
}

// RevealAnswer moves from question to answer. Calls from any other state are
// ignored so a misbehaving caller cannot corrupt the session.
func (c *Controller) RevealAnswer() {
	if c.state != StateQuestionShown {
		return
	}
	c.state = StateAnswerShown
}

// Grade records the outcome for the current card. quality > 0 counts as
// correct, 0 as incorrect; finer distinctions do not affect scheduling.
// Grading without a card in flight fails with NoActiveCardError rather than
// silently discarding a duplicate event. Engine errors propagate unchanged;
// on a PersistError the grade has been applied in memory and the session
// still advances.
func (c *Controller) Grade(ctx context.Context, quality int) (models.GradeResult, error) {
	log := logger.FromContext(ctx).WithField("component", "session")

	if c.state != StateAnswerShown || c.current == nil {
		log.Warn("grade with no active card")
		return models.GradeResult{}, errors.NewNoActiveCardError()
	}
	if quality < 0 {
		return models.GradeResult{}, errors.NewBadRequestError("quality must be >= 0")
	}

	correct := quality > 0
	result, err := c.engine.Grade(ctx, c.current.ID, correct)
	if err != nil && !errors.IsCode(err, errors.ErrCodePersist) {
		// Deck and session are untouched; the caller sorts out the id mismatch.
		return models.GradeResult{}, err
	}

	c.reviewed++
	if correct {
		c.correct++
	} else {
		c.incorrect++
	}
	c.points += result.Points
	c.current = nil

	if next := c.selectDue(); next != nil {
		c.current = next
		c.state = StateQuestionShown
	} else {
		c.state = StateComplete
		log.Debugf("session complete: reviewed=%d correct=%d", c.reviewed, c.correct)
	}
	return result, err
}

// SessionStats reports the session counters. Callable in any state.
func (c *Controller) SessionStats() models.SessionStats {
	stats := models.SessionStats{
		Reviewed:  c.reviewed,
		Correct:   c.correct,
		Incorrect: c.incorrect,
		Points:    c.points,
	}
	if c.reviewed > 0 {
		stats.AccuracyPercent = int(math.Round(100 * float64(c.correct) / float64(c.reviewed)))
	}
	if !c.startedAt.IsZero() {
		stats.ElapsedSeconds = int(c.now().Sub(c.startedAt).Seconds())
	}
	return stats
}

// TodayStatus combines the engine's due count with session progress.
func (c *Controller) TodayStatus() models.TodayStatus {
	due := len(c.engine.DueCards(c.now()))
	remaining := due - c.reviewed
	if remaining < 0 {
		remaining = 0
	}
	return models.TodayStatus{
		DueCount:      due,
		ReviewedSoFar: c.reviewed,
		Remaining:     remaining,
		HasCards:      c.engine.TotalCards() > 0,
	}
}

// selectDue picks one due card uniformly at random, so repeated sessions do
// not present cards in a fixed order.
func (c *Controller) selectDue() *models.Card {
	due := c.engine.DueCards(c.now())
	if len(due) == 0 {
		return nil
	}
	card := due[c.pick(len(due))]
	return &card
}
