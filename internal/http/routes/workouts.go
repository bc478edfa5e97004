package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

func (s *Server) handleWorkouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, pg, err := s.Store.Workouts(userID(r), liftapi.WorkoutsQuery{
		Page:       intParam(r, "page", 1),
		Limit:      intParam(r, "limit", 20),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		ExerciseID: q.Get("exerciseId"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, items, &pg)
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	wk, err := s.Store.Workout(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, wk, nil)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var in liftapi.WorkoutInput
	if !s.decode(w, r, &in) {
		return
	}
	wk, err := s.Store.CreateWorkout(userID(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, wk, nil)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	var in liftapi.WorkoutUpdate
	if !s.decode(w, r, &in) {
		return
	}
	wk, err := s.Store.UpdateWorkout(userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, wk, nil)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteWorkout(userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWorkoutStats(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Store.WorkoutStats(userID(r), intParam(r, "days", 30)), nil)
}
