package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vocabox/vocabox/internal/engine"
	apperrors "github.com/vocabox/vocabox/internal/errors"
	"github.com/vocabox/vocabox/internal/lesson"
	"github.com/vocabox/vocabox/internal/repository/sqlite"
	"github.com/vocabox/vocabox/internal/session"
	"github.com/vocabox/vocabox/internal/testutil"
)

const animalsLesson = `[
	{"id": "c1", "question": "dog", "answer": "der Hund"},
	{"id": "c2", "question": "cat", "answer": "die Katze"},
	{"id": "c3", "question": "bird", "answer": "der Vogel"}
]`

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// pickFirst makes due-card selection deterministic in tests.
func pickFirst(n int) int {
	return 0
}

func newTestSession(t *testing.T, lessonJSON string, clk *clock) (*session.Controller, *engine.Engine) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "animals.json"), []byte(lessonJSON), 0o644))

	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })

	e := engine.New("animals", "u1", lesson.NewLoader(dir), sqlite.NewDeckRepository(db),
		engine.WithClock(clk.now))
	require.NoError(t, e.Load(context.Background()))

	return session.New(e, session.WithClock(clk.now), session.WithPicker(pickFirst)), e
}

func TestStart_PresentsDueCard(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctrl, _ := newTestSession(t, animalsLesson, clk)

	card := ctrl.Start(context.Background())
	require.NotNil(t, card)
	assert.Equal(t, session.StateQuestionShown, ctrl.State())
	assert.Equal(t, card.ID, ctrl.CurrentCard().ID)
}

func TestStart_NoDueCardsStaysIdle(t *testing.T) {
	clk := &clock{t: time.Now()}
	ctrl, _ := newTestSession(t, `[]`, clk)

	card := ctrl.Start(context.Background())
	assert.Nil(t, card)
	assert.Equal(t, session.StateIdle, ctrl.State())
}

func TestRevealAnswer_OnlyFromQuestionShown(t *testing.T) {
	clk := &clock{t: time.Now()}
	ctrl, _ := newTestSession(t, animalsLesson, clk)

	// Before Start a reveal is ignored.
	ctrl.RevealAnswer()
	assert.Equal(t, session.StateIdle, ctrl.State())

	ctrl.Start(context.Background())
	ctrl.RevealAnswer()
	assert.Equal(t, session.StateAnswerShown, ctrl.State())

	// A second reveal is a no-op.
	ctrl.RevealAnswer()
	assert.Equal(t, session.StateAnswerShown, ctrl.State())
}

func TestReviewScenario_ThreeCardBatch(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctrl, e := newTestSession(t, animalsLesson, clk)
	ctx := context.Background()

	first := ctrl.Start(ctx)
	require.NotNil(t, first)

	// Correct answer: the card moves to box 2, due in 3 days.
	ctrl.RevealAnswer()
	result, err := ctrl.Grade(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NewBox)
	assert.Equal(t, clk.t.Add(3*24*time.Hour), result.NextReviewAt)
	assert.Equal(t, 20, result.Points)

	stats := ctrl.SessionStats()
	assert.Equal(t, 1, stats.Reviewed)
	assert.Equal(t, 1, stats.Correct)
	assert.Equal(t, 20, stats.Points)

	// Two cards remain due, so a new question is shown.
	assert.Equal(t, session.StateQuestionShown, ctrl.State())
	require.NotNil(t, ctrl.CurrentCard())

	// Grade both remaining cards as incorrect.
	for i := 0; i < 2; i++ {
		ctrl.RevealAnswer()
		result, err = ctrl.Grade(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, result.NewBox)
		assert.Equal(t, clk.t.Add(24*time.Hour), result.NextReviewAt)
		assert.Equal(t, 0, result.Points)
	}

	// Batch exhausted.
	assert.Equal(t, session.StateComplete, ctrl.State())
	assert.Nil(t, ctrl.CurrentCard())

	stats = ctrl.SessionStats()
	assert.Equal(t, 3, stats.Reviewed)
	assert.Equal(t, 1, stats.Correct)
	assert.Equal(t, 2, stats.Incorrect)
	assert.Equal(t, 20, stats.Points)
	assert.Equal(t, 33, stats.AccuracyPercent)

	// Every card sits in box <= 2.
	deck := e.Statistics(clk.t)
	assert.Equal(t, [5]int{2, 1, 0, 0, 0}, deck.BoxCounts)

	// A grade after completion fails softly and counts nothing.
	_, err = ctrl.Grade(ctx, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNoActiveCard))
	assert.Equal(t, 3, ctrl.SessionStats().Reviewed)
}

func TestGrade_WithoutRevealIsNoActiveCard(t *testing.T) {
	clk := &clock{t: time.Now()}
	ctrl, _ := newTestSession(t, animalsLesson, clk)
	ctx := context.Background()

	ctrl.Start(ctx)
	_, err := ctrl.Grade(ctx, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNoActiveCard))
	assert.Equal(t, 0, ctrl.SessionStats().Reviewed, "nothing double-counted")
	assert.Equal(t, session.StateQuestionShown, ctrl.State())
}

func TestGrade_NegativeQualityRejected(t *testing.T) {
	clk := &clock{t: time.Now()}
	ctrl, _ := newTestSession(t, animalsLesson, clk)
	ctx := context.Background()

	ctrl.Start(ctx)
	ctrl.RevealAnswer()
	_, err := ctrl.Grade(ctx, -1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBadRequest))
}

func TestGrade_TernaryQualityCollapsesToCorrect(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctrl, _ := newTestSession(t, animalsLesson, clk)
	ctx := context.Background()

	ctrl.Start(ctx)
	ctrl.RevealAnswer()
	result, err := ctrl.Grade(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NewBox, "any quality > 0 schedules as correct")
	assert.Equal(t, 1, ctrl.SessionStats().Correct)
}

func TestSessionStats_ZeroReviewedHasZeroAccuracy(t *testing.T) {
	clk := &clock{t: time.Now()}
	ctrl, _ := newTestSession(t, animalsLesson, clk)

	stats := ctrl.SessionStats()
	assert.Equal(t, 0, stats.AccuracyPercent)
	assert.Equal(t, 0, stats.ElapsedSeconds)
}

func TestSessionStats_Elapsed(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctrl, _ := newTestSession(t, animalsLesson, clk)

	ctrl.Start(context.Background())
	clk.advance(95 * time.Second)
	assert.Equal(t, 95, ctrl.SessionStats().ElapsedSeconds)
}

func TestTodayStatus(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctrl, _ := newTestSession(t, animalsLesson, clk)
	ctx := context.Background()

	status := ctrl.TodayStatus()
	assert.Equal(t, 3, status.DueCount)
	assert.Equal(t, 0, status.ReviewedSoFar)
	assert.Equal(t, 3, status.Remaining)
	assert.True(t, status.HasCards)

	ctrl.Start(ctx)
	ctrl.RevealAnswer()
	_, err := ctrl.Grade(ctx, 1)
	require.NoError(t, err)

	status = ctrl.TodayStatus()
	assert.Equal(t, 2, status.DueCount)
	assert.Equal(t, 1, status.ReviewedSoFar)
	assert.Equal(t, 1, status.Remaining)
}

func TestTodayStatus_RemainingNeverNegative(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctrl, _ := newTestSession(t, animalsLesson, clk)
	ctx := context.Background()

	ctrl.Start(ctx)
	for ctrl.State() == session.StateQuestionShown {
		ctrl.RevealAnswer()
		_, err := ctrl.Grade(ctx, 1)
		require.NoError(t, err)
	}

	status := ctrl.TodayStatus()
	assert.Equal(t, 0, status.DueCount)
	assert.Equal(t, 3, status.ReviewedSoFar)
	assert.Equal(t, 0, status.Remaining)
}

func TestContinueSession_PicksUpNewlyDueCards(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctrl, _ := newTestSession(t, animalsLesson, clk)
	ctx := context.Background()

	ctrl.Start(ctx)
	for ctrl.State() == session.StateQuestionShown {
		ctrl.RevealAnswer()
		_, err := ctrl.Grade(ctx, 0)
		require.NoError(t, err)
	}
	require.Equal(t, session.StateComplete, ctrl.State())

	// Nothing due yet: continuing stays complete.
	assert.Nil(t, ctrl.ContinueSession(ctx))
	assert.Equal(t, session.StateComplete, ctrl.State())

	// A day later the incorrect cards are due again; counters carry over.
	clk.advance(24 * time.Hour)
	card := ctrl.ContinueSession(ctx)
	require.NotNil(t, card)
	assert.Equal(t, session.StateQuestionShown, ctrl.State())
	assert.Equal(t, 3, ctrl.SessionStats().Reviewed)
}

func TestStart_ResetsCounters(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctrl, _ := newTestSession(t, animalsLesson, clk)
	ctx := context.Background()

	ctrl.Start(ctx)
	ctrl.RevealAnswer()
	_, err := ctrl.Grade(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, ctrl.SessionStats().Reviewed)

	ctrl.Start(ctx)
	stats := ctrl.SessionStats()
	assert.Equal(t, 0, stats.Reviewed)
	assert.Equal(t, 0, stats.Points)
}
