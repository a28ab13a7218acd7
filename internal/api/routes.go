package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/lessons", s.handleLessons)

	r.Route("/lessons/{lessonID}", func(r chi.Router) {
		r.Use(s.userMiddleware)

		r.Get("/stats", s.handleDeckStats)
		r.Post("/reset", s.handleResetDeck)

		r.Post("/session/start", s.handleStartSession)
		r.Post("/session/reveal", s.handleRevealAnswer)
		r.Post("/session/grade", s.handleGrade)
		r.Post("/session/continue", s.handleContinueSession)
		r.Get("/session/stats", s.handleSessionStats)
		r.Get("/session/today", s.handleTodayStatus)
	})

	return r
}
