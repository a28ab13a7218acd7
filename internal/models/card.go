package models

import "time"

// Card is a single question/answer entry in a deck, together with its
// Leitner scheduling state.
type Card struct {
	ID             string     `json:"id"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Box            int        `json:"box"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	ReviewCount    int        `json:"review_count"`
	CorrectCount   int        `json:"correct_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// GradeResult describes the outcome of grading a single card.
type GradeResult struct {
	CardID       string    `json:"card_id"`
	OldBox       int       `json:"old_box"`
	NewBox       int       `json:"new_box"`
	Points       int       `json:"points"`
	NextReviewAt time.Time `json:"next_review_at"`
}
