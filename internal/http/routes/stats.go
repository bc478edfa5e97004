package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.Store.Dashboard(userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, d, nil)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Store.Streak(userID(r)), nil)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Store.Leaderboard(intParam(r, "limit", 100)), nil)
}

func (s *Server) handleExerciseProgress(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Store.ExerciseProgress(userID(r), chi.URLParam(r, "id")), nil)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Store.Achievements(userID(r)), nil)
}

func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.Store.CheckAchievements(userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, unlocked, nil)
}
