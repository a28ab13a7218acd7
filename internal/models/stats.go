package models

import "time"

// DeckStats aggregates the lifetime scheduling state of one deck.
type DeckStats struct {
	TotalCards      int `json:"total_cards"`
	DueCount        int `json:"due_count"`
	MasteredCount   int `json:"mastered_count"`
	ProgressPercent int `json:"progress_percent"`
	// BoxCounts[0] is the number of cards in box 1, BoxCounts[4] in box 5.
	BoxCounts            [5]int     `json:"box_counts"`
	NextUpcomingReviewAt *time.Time `json:"next_upcoming_review_at,omitempty"`
}

// SessionStats covers a single review session, independent of the deck's
// lifetime counters.
type SessionStats struct {
	Reviewed        int `json:"reviewed"`
	Correct         int `json:"correct"`
	Incorrect       int `json:"incorrect"`
	Points          int `json:"points"`
	AccuracyPercent int `json:"accuracy_percent"`
	ElapsedSeconds  int `json:"elapsed_seconds"`
}

// TodayStatus combines the deck's due count with session progress, used to
// render "N cards left today" messaging.
type TodayStatus struct {
	DueCount      int  `json:"due_count"`
	ReviewedSoFar int  `json:"reviewed_so_far"`
	Remaining     int  `json:"remaining"`
	HasCards      bool `json:"has_cards"`
}
