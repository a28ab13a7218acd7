package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vocabox/vocabox/internal/errors"
	"github.com/vocabox/vocabox/internal/logger"
	"github.com/vocabox/vocabox/internal/models"
	"github.com/vocabox/vocabox/internal/services"
	"github.com/vocabox/vocabox/internal/session"
)

type Server struct {
	Reviews services.ReviewService
}

// questionView is the card as presented before the answer is revealed.
type questionView struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Box      int    `json:"box"`
}

func newQuestionView(card *models.Card) *questionView {
	if card == nil {
		return nil
	}
	return &questionView{ID: card.ID, Question: card.Question, Box: card.Box}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Reviews.Lessons(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"lessons": ids})
}

// controller resolves the live session for the request's deck.
func (s *Server) controller(r *http.Request) (*session.Controller, error) {
	lessonID := chi.URLParam(r, "lessonID")
	userID := userFromContext(r.Context())
	ctrl, _, err := s.Reviews.Session(r.Context(), lessonID, userID)
	return ctrl, err
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	ctrl, err := s.controller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	card := ctrl.Start(r.Context())
	if card == nil {
		log.Debug("no cards due, session not started")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state": ctrl.State(),
		"card":  newQuestionView(card),
		"today": ctrl.TodayStatus(),
	})
}

func (s *Server) handleRevealAnswer(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	ctrl.RevealAnswer()
	card := ctrl.CurrentCard()
	if ctrl.State() != session.StateAnswerShown || card == nil {
		handleError(w, r, errors.NewNoActiveCardError())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state": ctrl.State(),
		"card":  card,
	})
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var body struct {
		Quality int `json:"quality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Warnf("invalid grade body: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	ctrl, err := s.controller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := ctrl.Grade(r.Context(), body.Quality)
	if err != nil {
		// On a persist failure the grade is already applied in memory; the
		// caller sees the error and decides whether to retry the write.
		handleError(w, r, err)
		return
	}

	log.Infof("card graded: card=%s box %d -> %d", result.CardID, result.OldBox, result.NewBox)
	writeJSON(w, http.StatusOK, map[string]any{
		"result":    result,
		"state":     ctrl.State(),
		"next_card": newQuestionView(ctrl.CurrentCard()),
		"session":   ctrl.SessionStats(),
	})
}

func (s *Server) handleContinueSession(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	card := ctrl.ContinueSession(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"state": ctrl.State(),
		"card":  newQuestionView(card),
		"today": ctrl.TodayStatus(),
	})
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   ctrl.State(),
		"session": ctrl.SessionStats(),
	})
}

func (s *Server) handleTodayStatus(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.TodayStatus())
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")
	userID := userFromContext(r.Context())

	_, eng, err := s.Reviews.Session(r.Context(), lessonID, userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eng.Statistics(time.Now()))
}

func (s *Server) handleResetDeck(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")
	userID := userFromContext(r.Context())

	if err := s.Reviews.ResetDeck(r.Context(), lessonID, userID); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Infof("deck reset: lesson=%s", lessonID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
