package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/liftsync/internal/auth"
	appmw "github.com/briangreenhill/liftsync/internal/http/middleware"
	"github.com/briangreenhill/liftsync/internal/store"
	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

const tokenTTL = 30 * 24 * time.Hour

type Server struct {
	Router   *chi.Mux
	Store    *store.Store
	Tokens   auth.TokenSigner
	validate *validator.Validate
}

type ServerOptions struct {
	Store  *store.Store
	Tokens auth.TokenSigner
	Logger zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-ID"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("elapsed", d).
			Msg("request")
	}))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	st := opts.Store
	if st == nil {
		st = store.New()
	}
	s := &Server{
		Router:   r,
		Store:    st,
		Tokens:   opts.Tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.handleRegister)

		api.Group(func(pr chi.Router) {
			pr.Use(appmw.RequireAuth(s.Tokens))

			pr.Get("/social/friends", s.handleFriends)
			pr.Get("/social/friends/requests", s.handlePendingRequests)
			pr.Post("/social/friends/request", s.handleSendRequest)
			pr.Post("/social/friends/accept/{id}", s.handleAcceptRequest)
			pr.Delete("/social/friends/reject/{id}", s.handleRejectRequest)
			pr.Delete("/social/friends/{id}", s.handleRemoveFriend)
			pr.Get("/social/users/search", s.handleSearchUsers)
			pr.Get("/social/feed", s.handleFeed)
			pr.Post("/social/workouts/{id}/like", s.handleLike)
			pr.Delete("/social/workouts/{id}/like", s.handleUnlike)
			pr.Get("/social/workouts/{id}/comments", s.handleComments)
			pr.Post("/social/workouts/{id}/comments", s.handleAddComment)
			pr.Delete("/social/comments/{id}", s.handleDeleteComment)

			pr.Get("/workouts", s.handleWorkouts)
			pr.Post("/workouts", s.handleCreateWorkout)
			pr.Get("/workouts/stats", s.handleWorkoutStats)
			pr.Get("/workouts/{id}", s.handleWorkout)
			pr.Patch("/workouts/{id}", s.handleUpdateWorkout)
			pr.Delete("/workouts/{id}", s.handleDeleteWorkout)

			pr.Get("/stats/overview", s.handleDashboard)
			pr.Get("/stats/streak", s.handleStreak)
			pr.Get("/stats/leaderboard", s.handleLeaderboard)
			pr.Get("/stats/progress/{id}", s.handleExerciseProgress)

			pr.Get("/achievements", s.handleAchievements)
			pr.Post("/achievements/check", s.handleCheckAchievements)
		})
	})

	return s
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=32"`
}

type registerResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// handleRegister creates a user and returns a bearer token for it.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.Store.AddUser(req.Username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, registerResponse{
		UserID:   u.ID,
		Username: u.Username,
		Token:    s.Tokens.Issue(u.ID, tokenTTL),
	}, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any, pg *liftapi.Pagination) {
	body := map[string]any{"success": true, "data": data}
	if pg != nil {
		body["pagination"] = pg
	}
	writeJSON(w, status, body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, store.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, store.ErrInvalid):
		writeError(w, http.StatusBadRequest, "invalid request")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode reads a JSON body into dst and validates it. It writes a 400 and
// returns false on failure. An empty body decodes as {}.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, strings.ReplaceAll(err.Error(), "\n", "; "))
		return false
	}
	return true
}

func userID(r *http.Request) string {
	return appmw.UserID(r.Context())
}
