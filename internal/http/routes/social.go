package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Store.Friends(userID(r)), nil)
}

func (s *Server) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Store.PendingRequests(userID(r)), nil)
}

type friendRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if !s.decode(w, r, &req) {
		return
	}
	f, err := s.Store.SendFriendRequest(userID(r), req.RecipientID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, f, nil)
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	f, err := s.Store.AcceptFriendRequest(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, f, nil)
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.RejectFriendRequest(userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.RemoveFriend(userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Store.SearchUsers(userID(r), r.URL.Query().Get("q")), nil)
}

// intParam reads a positive integer query parameter, falling back to def.
func intParam(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}
	items, pg := s.Store.Feed(userID(r), intParam(r, "page", 1), limit)
	writeData(w, http.StatusOK, items, &pg)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	like, err := s.Store.Like(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, like, nil)
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Unlike(userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.Store.Comments(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, comments, nil)
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := s.Store.AddComment(userID(r), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, c, nil)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteComment(userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
