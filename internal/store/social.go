package store

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

func (f *friendship) other(userID string) string {
	if f.requesterID == userID {
		return f.recipientID
	}
	return f.requesterID
}

func (f *friendship) involves(a, b string) bool {
	return (f.requesterID == a && f.recipientID == b) || (f.requesterID == b && f.recipientID == a)
}

func (f *friendship) view() liftapi.Friendship {
	return liftapi.Friendship{
		ID:          f.id,
		RequesterID: f.requesterID,
		RecipientID: f.recipientID,
		Status:      f.status,
		CreatedAt:   f.createdAt,
	}
}

// between returns the live friendship linking a and b, if any.
func (s *Store) between(a, b string) *friendship {
	for _, f := range s.friendships {
		if f.involves(a, b) && (f.status == liftapi.FriendshipPending || f.status == liftapi.FriendshipAccepted) {
			return f
		}
	}
	return nil
}

func (s *Store) friendIDs(userID string) map[string]bool {
	ids := make(map[string]bool)
	for _, f := range s.friendships {
		if f.status == liftapi.FriendshipAccepted && (f.requesterID == userID || f.recipientID == userID) {
			ids[f.other(userID)] = true
		}
	}
	return ids
}

func (s *Store) Friends(userID string) []liftapi.Friend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []liftapi.Friend{}
	for _, f := range s.friendships {
		if f.status != liftapi.FriendshipAccepted || (f.requesterID != userID && f.recipientID != userID) {
			continue
		}
		u := s.ref(f.other(userID))
		out = append(out, liftapi.Friend{UserID: u.ID, Username: u.Username, XP: u.XP, FriendshipID: f.id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// PendingRequests lists requests addressed to userID, oldest first.
func (s *Store) PendingRequests(userID string) []liftapi.FriendRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*friendship
	for _, f := range s.friendships {
		if f.status == liftapi.FriendshipPending && f.recipientID == userID {
			list = append(list, f)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	out := make([]liftapi.FriendRequest, 0, len(list))
	for _, f := range list {
		u := s.ref(f.requesterID)
		out = append(out, liftapi.FriendRequest{
			RequestID: f.id,
			User:      liftapi.RequestUser{UserID: u.ID, Username: u.Username, XP: u.XP},
			CreatedAt: f.createdAt,
		})
	}
	return out
}

func (s *Store) SendFriendRequest(fromID, toID string) (liftapi.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fromID == toID {
		return liftapi.Friendship{}, ErrInvalid
	}
	if _, ok := s.users[toID]; !ok {
		return liftapi.Friendship{}, ErrNotFound
	}
	if s.between(fromID, toID) != nil {
		return liftapi.Friendship{}, ErrConflict
	}
	f := &friendship{
		id:          uuid.NewString(),
		requesterID: fromID,
		recipientID: toID,
		status:      liftapi.FriendshipPending,
		createdAt:   s.now(),
		seq:         s.next(),
	}
	s.friendships[f.id] = f
	return f.view(), nil
}

func (s *Store) pendingFor(userID, requestID string) (*friendship, error) {
	f, ok := s.friendships[requestID]
	if !ok || f.status != liftapi.FriendshipPending {
		return nil, ErrNotFound
	}
	if f.recipientID != userID {
		return nil, ErrForbidden
	}
	return f, nil
}

func (s *Store) AcceptFriendRequest(userID, requestID string) (liftapi.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.pendingFor(userID, requestID)
	if err != nil {
		return liftapi.Friendship{}, err
	}
	f.status = liftapi.FriendshipAccepted
	return f.view(), nil
}

func (s *Store) RejectFriendRequest(userID, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.pendingFor(userID, requestID)
	if err != nil {
		return err
	}
	f.status = liftapi.FriendshipRejected
	return nil
}

// RemoveFriend ends the accepted friendship between userID and friendID.
func (s *Store) RemoveFriend(userID, friendID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.friendships {
		if f.status == liftapi.FriendshipAccepted && f.involves(userID, friendID) {
			delete(s.friendships, id)
			return nil
		}
	}
	return ErrNotFound
}

// SearchUsers matches usernames containing q, case-insensitively, and
// reports the caller's friendship status with each match.
func (s *Store) SearchUsers(userID, q string) []liftapi.UserSearchResult {
	q = strings.ToLower(strings.TrimSpace(q))
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []liftapi.UserSearchResult{}
	if q == "" {
		return out
	}
	for _, u := range s.users {
		if u.ID == userID || !strings.Contains(strings.ToLower(u.Username), q) {
			continue
		}
		status := liftapi.FriendshipNone
		if f := s.between(userID, u.ID); f != nil {
			status = f.status
		}
		out = append(out, liftapi.UserSearchResult{
			UserID:           u.ID,
			Username:         u.Username,
			XP:               u.XP,
			FriendshipStatus: status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *Store) canSee(userID string, w *workout) bool {
	switch {
	case w.UserID == userID:
		return true
	case w.Visibility == liftapi.VisibilityPublic:
		return true
	case w.Visibility == liftapi.VisibilityFriends:
		return s.friendIDs(userID)[w.UserID]
	default:
		return false
	}
}

func (s *Store) feedItem(userID string, w *workout) liftapi.FeedWorkout {
	n := 0
	for _, c := range s.comments {
		if c.workoutID == w.ID {
			n++
		}
	}
	return liftapi.FeedWorkout{
		ID:            w.ID,
		User:          s.ref(w.UserID),
		Name:          w.Name,
		Date:          w.Date,
		Exercises:     w.Exercises,
		XPEarned:      w.XPEarned,
		LikesCount:    len(w.likes),
		CommentsCount: n,
		IsLikedByUser: w.likes[userID],
	}
}

// Feed returns workouts by the caller's friends that are not private,
// newest first.
func (s *Store) Feed(userID string, page, limit int) ([]liftapi.FeedWorkout, liftapi.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	friends := s.friendIDs(userID)
	var list []*workout
	for _, w := range s.workouts {
		if friends[w.UserID] && w.Visibility != liftapi.VisibilityPrivate {
			list = append(list, w)
		}
	}
	sortNewestFirst(list)
	items := make([]liftapi.FeedWorkout, 0, len(list))
	for _, w := range list {
		items = append(items, s.feedItem(userID, w))
	}
	return paginate(items, page, limit)
}

func (s *Store) visibleWorkout(userID, workoutID string) (*workout, error) {
	w, ok := s.workouts[workoutID]
	if !ok || !s.canSee(userID, w) {
		return nil, ErrNotFound
	}
	return w, nil
}

func (s *Store) Like(userID, workoutID string) (liftapi.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.visibleWorkout(userID, workoutID)
	if err != nil {
		return liftapi.Like{}, err
	}
	if w.likes[userID] {
		return liftapi.Like{}, ErrConflict
	}
	w.likes[userID] = true
	return liftapi.Like{WorkoutID: w.ID, LikesCount: len(w.likes)}, nil
}

func (s *Store) Unlike(userID, workoutID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.visibleWorkout(userID, workoutID)
	if err != nil {
		return err
	}
	if !w.likes[userID] {
		return ErrNotFound
	}
	delete(w.likes, userID)
	return nil
}

func (s *Store) commentView(c *comment) liftapi.Comment {
	return liftapi.Comment{
		ID:        c.id,
		WorkoutID: c.workoutID,
		User:      s.ref(c.userID),
		Content:   c.content,
		CreatedAt: c.createdAt,
	}
}

// Comments returns the comments on a workout, oldest first.
func (s *Store) Comments(userID, workoutID string) ([]liftapi.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.visibleWorkout(userID, workoutID); err != nil {
		return nil, err
	}
	var list []*comment
	for _, c := range s.comments {
		if c.workoutID == workoutID {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	out := make([]liftapi.Comment, 0, len(list))
	for _, c := range list {
		out = append(out, s.commentView(c))
	}
	return out, nil
}

func (s *Store) AddComment(userID, workoutID, content string) (liftapi.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > 500 {
		return liftapi.Comment{}, ErrInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.visibleWorkout(userID, workoutID); err != nil {
		return liftapi.Comment{}, err
	}
	c := &comment{
		id:        uuid.NewString(),
		workoutID: workoutID,
		userID:    userID,
		content:   content,
		createdAt: s.now(),
		seq:       s.next(),
	}
	s.comments[c.id] = c
	return s.commentView(c), nil
}

// DeleteComment removes a comment. Only its author or the workout owner
// may delete it.
func (s *Store) DeleteComment(userID, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	w := s.workouts[c.workoutID]
	if c.userID != userID && (w == nil || w.UserID != userID) {
		return ErrForbidden
	}
	delete(s.comments, commentID)
	return nil
}
