package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vocabox/vocabox/internal/logger"
	"github.com/vocabox/vocabox/internal/models"
	"github.com/vocabox/vocabox/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// deckSchemaVersion marks the persisted deck layout. Bump when the cards
// table shape changes.
const deckSchemaVersion = 1

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) LoadDeck(ctx context.Context, lessonID, userID string) ([]models.Card, bool, error) {
	log := logger.FromContext(ctx).WithField("component", "deck_repo")
	log.Debugf("loading deck: lesson_id=%s user_id=%s", lessonID, userID)

	var version int
	err := r.db.QueryRowContext(ctx,
		`SELECT schema_version FROM decks WHERE lesson_id = ? AND user_id = ?`,
		lessonID, userID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no persisted deck")
		return nil, false, nil
	}
	if err != nil {
		log.Errorf("failed to read deck row: %v", err)
		return nil, false, err
	}

	query, args, err := sqlBuilder.
		Select("card_id", "question", "answer", "box", "next_review_at", "review_count", "correct_count", "last_reviewed_at").
		From("cards").
		Where(squirrel.Eq{"lesson_id": lessonID, "user_id": userID}).
		OrderBy("card_id").
		ToSql()
	if err != nil {
		return nil, false, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Errorf("failed to query cards: %v", err)
		return nil, false, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		var lastReviewed sql.NullTime
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer, &c.Box, &c.NextReviewAt,
			&c.ReviewCount, &c.CorrectCount, &lastReviewed); err != nil {
			log.Errorf("failed to scan card row: %v", err)
			return nil, false, err
		}
		if lastReviewed.Valid {
			t := lastReviewed.Time
			c.LastReviewedAt = &t
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	log.Debugf("loaded %d cards", len(cards))
	return cards, true, nil
}

func (r *deckRepository) ReplaceDeck(ctx context.Context, lessonID, userID string, cards []models.Card) error {
	log := logger.FromContext(ctx).WithField("component", "deck_repo")
	log.Debugf("replacing deck: lesson_id=%s user_id=%s cards=%d", lessonID, userID, len(cards))

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, `
INSERT INTO decks (lesson_id, user_id, schema_version, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (lesson_id, user_id) DO UPDATE SET schema_version = excluded.schema_version, updated_at = excluded.updated_at
`, lessonID, userID, deckSchemaVersion, time.Now().UTC()); err != nil {
			return err
		}

		if _, err := t.ExecContext(ctx,
			`DELETE FROM cards WHERE lesson_id = ? AND user_id = ?`, lessonID, userID); err != nil {
			return err
		}

		for _, c := range cards {
			var lastReviewed sql.NullTime
			if c.LastReviewedAt != nil {
				lastReviewed = sql.NullTime{Time: *c.LastReviewedAt, Valid: true}
			}
			if _, err := t.ExecContext(ctx, `
INSERT INTO cards (lesson_id, user_id, card_id, question, answer, box, next_review_at, review_count, correct_count, last_reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, lessonID, userID, c.ID, c.Question, c.Answer, c.Box, c.NextReviewAt,
				c.ReviewCount, c.CorrectCount, lastReviewed); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *deckRepository) DeleteDeck(ctx context.Context, lessonID, userID string) error {
	log := logger.FromContext(ctx).WithField("component", "deck_repo")
	log.Debugf("deleting deck: lesson_id=%s user_id=%s", lessonID, userID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		// Cascade removes the cards.
		_, err := t.ExecContext(ctx,
			`DELETE FROM decks WHERE lesson_id = ? AND user_id = ?`, lessonID, userID)
		return err
	})
}
