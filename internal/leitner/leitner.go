package leitner

import (
	"time"

	"github.com/vocabox/vocabox/internal/models"
)

// Box bounds. Every card lives in exactly one of five boxes.
const (
	MinBox = 1
	MaxBox = 5
)

// intervalDays maps a box to its review interval. Index 0 is unused so the
// box id indexes directly. This table is the sole source of rescheduling
// intervals.
var intervalDays = [MaxBox + 1]int{0, 1, 3, 7, 14, 30}

// IntervalDays returns the review interval for a box. Out-of-range boxes are
// clamped to the table bounds.
func IntervalDays(box int) int {
	if box < MinBox {
		box = MinBox
	}
	if box > MaxBox {
		box = MaxBox
	}
	return intervalDays[box]
}

// NextBox computes the box transition for a graded card: correct answers
// promote one box up to the ceiling, incorrect answers reset to box 1
// regardless of the prior box.
func NextBox(box int, correct bool) int {
	if !correct {
		return MinBox
	}
	if box >= MaxBox {
		return MaxBox
	}
	return box + 1
}

// Points returns the display score for a grading event: newBox*10 when
// correct, zero otherwise. Points are derived, never stored on the card.
func Points(newBox int, correct bool) int {
	if !correct {
		return 0
	}
	return newBox * 10
}

// Apply grades a card at the given time and returns the updated card together
// with the grade result.
func Apply(card models.Card, correct bool, now time.Time) (models.Card, models.GradeResult) {
	oldBox := card.Box
	newBox := NextBox(oldBox, correct)

	card.Box = newBox
	card.NextReviewAt = now.Add(time.Duration(IntervalDays(newBox)) * 24 * time.Hour)
	card.ReviewCount++
	if correct {
		card.CorrectCount++
	}
	reviewedAt := now
	card.LastReviewedAt = &reviewedAt

	return card, models.GradeResult{
		CardID:       card.ID,
		OldBox:       oldBox,
		NewBox:       newBox,
		Points:       Points(newBox, correct),
		NextReviewAt: card.NextReviewAt,
	}
}
