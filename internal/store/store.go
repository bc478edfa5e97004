// Package store is the in-memory backend of the development server. It keeps
// users, friendships, workouts, likes, comments and unlocked achievements and
// renders them in the wire shapes of package liftapi.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid request")
)

type User struct {
	ID       string
	Username string
	XP       int
}

type friendship struct {
	id          string
	requesterID string
	recipientID string
	status      liftapi.FriendshipStatus
	createdAt   time.Time
	seq         uint64
}

type workout struct {
	liftapi.Workout
	seq   uint64
	likes map[string]bool
}

type comment struct {
	id        string
	workoutID string
	userID    string
	content   string
	createdAt time.Time
	seq       uint64
}

type Store struct {
	mu          sync.RWMutex
	users       map[string]*User
	friendships map[string]*friendship
	workouts    map[string]*workout
	comments    map[string]*comment
	unlocked    map[string]map[string]time.Time // user -> achievement key
	seq         uint64
	now         func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		users:       make(map[string]*User),
		friendships: make(map[string]*friendship),
		workouts:    make(map[string]*workout),
		comments:    make(map[string]*comment),
		unlocked:    make(map[string]map[string]time.Time),
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddUser registers a user and returns it. Usernames are unique,
// case-insensitively.
func (s *Store) AddUser(username string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, ErrInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return User{}, ErrConflict
		}
	}
	u := &User{ID: uuid.NewString(), Username: username}
	s.users[u.ID] = u
	return *u, nil
}

func (s *Store) User(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

// Users returns every user ordered by username.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) ref(userID string) liftapi.UserRef {
	u, ok := s.users[userID]
	if !ok {
		return liftapi.UserRef{ID: userID}
	}
	return liftapi.UserRef{ID: u.ID, Username: u.Username, XP: u.XP}
}

func paginate[T any](items []T, page, limit int) ([]T, liftapi.Pagination) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	total := len(items)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], liftapi.Pagination{Total: total, Page: page, Pages: pages}
}
