package services

import (
	"context"
	"sync"

	"github.com/vocabox/vocabox/internal/engine"
	"github.com/vocabox/vocabox/internal/lesson"
	"github.com/vocabox/vocabox/internal/logger"
	"github.com/vocabox/vocabox/internal/repository"
	"github.com/vocabox/vocabox/internal/session"
)

// ReviewService handles review-session business logic
type ReviewService interface {
	// Session returns the live session for a deck, creating the engine and
	// controller on first touch.
	Session(ctx context.Context, lessonID, userID string) (*session.Controller, *engine.Engine, error)
	// ResetDeck clears the deck's persisted state and drops any live session.
	ResetDeck(ctx context.Context, lessonID, userID string) error
	// Lessons lists the lesson ids available from the source directory.
	Lessons(ctx context.Context) ([]string, error)
}

type deckKey struct {
	lessonID string
	userID   string
}

type deckEntry struct {
	engine     *engine.Engine
	controller *session.Controller
}

type reviewService struct {
	loader *lesson.Loader
	repo   repository.DeckRepository

	// One engine per (lessonID, userID) at a time; the engine itself has no
	// locking, isolation comes from this registry.
	mu    sync.Mutex
	decks map[deckKey]*deckEntry
}

// NewReviewService creates a new ReviewService
func NewReviewService(loader *lesson.Loader, repo repository.DeckRepository) ReviewService {
	return &reviewService{
		loader: loader,
		repo:   repo,
		decks:  make(map[deckKey]*deckEntry),
	}
}

func (s *reviewService) Session(ctx context.Context, lessonID, userID string) (*session.Controller, *engine.Engine, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := deckKey{lessonID: lessonID, userID: userID}
	entry, ok := s.decks[key]
	if !ok {
		log.Debugf("creating engine for lesson=%s user=%s", lessonID, userID)
		e := engine.New(lessonID, userID, s.loader, s.repo)
		entry = &deckEntry{engine: e, controller: session.New(e)}
		s.decks[key] = entry
	}

	if !entry.engine.Loaded() {
		if err := entry.engine.Load(ctx); err != nil {
			delete(s.decks, key)
			return nil, nil, err
		}
	}
	return entry.controller, entry.engine, nil
}

func (s *reviewService) ResetDeck(ctx context.Context, lessonID, userID string) error {
	log := logger.FromContext(ctx)
	log.Infof("resetting deck: lesson=%s user=%s", lessonID, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := deckKey{lessonID: lessonID, userID: userID}
	if entry, ok := s.decks[key]; ok {
		delete(s.decks, key)
		return entry.engine.Reset(ctx)
	}

	// No live engine; clear storage directly.
	e := engine.New(lessonID, userID, s.loader, s.repo)
	return e.Reset(ctx)
}

func (s *reviewService) Lessons(ctx context.Context) ([]string, error) {
	ids, err := s.loader.List()
	if err != nil {
		logger.FromContext(ctx).Errorf("failed to list lessons: %v", err)
		return nil, err
	}
	return ids, nil
}
