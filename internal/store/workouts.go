package store

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

const dateLayout = "2006-01-02"

func sortNewestFirst(list []*workout) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].seq > list[j].seq
	})
}

// workoutXP awards 10 XP per set plus one per minute of training, capped at
// an hour.
func workoutXP(exercises []liftapi.WorkoutExercise, durationSec int) int {
	sets := countSets(exercises)
	minutes := durationSec / 60
	if minutes > 60 {
		minutes = 60
	}
	return sets*10 + minutes
}

func countSets(exercises []liftapi.WorkoutExercise) int {
	n := 0
	for _, e := range exercises {
		n += len(e.Sets)
	}
	return n
}

func (w *workout) view() liftapi.Workout {
	out := w.Workout
	out.Exercises = append([]liftapi.WorkoutExercise(nil), w.Exercises...)
	return out
}

// Workouts lists the caller's own workouts, newest first.
func (s *Store) Workouts(userID string, q liftapi.WorkoutsQuery) ([]liftapi.Workout, liftapi.Pagination, error) {
	var from, to time.Time
	var err error
	if q.StartDate != "" {
		if from, err = time.Parse(dateLayout, q.StartDate); err != nil {
			return nil, liftapi.Pagination{}, ErrInvalid
		}
	}
	if q.EndDate != "" {
		if to, err = time.Parse(dateLayout, q.EndDate); err != nil {
			return nil, liftapi.Pagination{}, ErrInvalid
		}
		to = to.AddDate(0, 0, 1)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*workout
	for _, w := range s.workouts {
		if w.UserID != userID {
			continue
		}
		if !from.IsZero() && w.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !w.Date.Before(to) {
			continue
		}
		if q.ExerciseID != "" && !hasExercise(w, q.ExerciseID) {
			continue
		}
		list = append(list, w)
	}
	sortNewestFirst(list)
	items := make([]liftapi.Workout, 0, len(list))
	for _, w := range list {
		items = append(items, w.view())
	}
	page, pg := paginate(items, q.Page, q.Limit)
	return page, pg, nil
}

func hasExercise(w *workout, exerciseID string) bool {
	for _, e := range w.Exercises {
		if e.ExerciseID == exerciseID {
			return true
		}
	}
	return false
}

func (s *Store) Workout(userID, workoutID string) (liftapi.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, err := s.visibleWorkout(userID, workoutID)
	if err != nil {
		return liftapi.Workout{}, err
	}
	return w.view(), nil
}

func (s *Store) CreateWorkout(userID string, in liftapi.WorkoutInput) (liftapi.Workout, error) {
	if strings.TrimSpace(in.Name) == "" {
		return liftapi.Workout{}, ErrInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return liftapi.Workout{}, ErrNotFound
	}
	now := s.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	vis := in.Visibility
	if vis == "" {
		vis = liftapi.VisibilityFriends
	}
	w := &workout{
		Workout: liftapi.Workout{
			ID:         uuid.NewString(),
			UserID:     userID,
			Name:       strings.TrimSpace(in.Name),
			Date:       date,
			Exercises:  append([]liftapi.WorkoutExercise(nil), in.Exercises...),
			Duration:   in.Duration,
			Notes:      in.Notes,
			Visibility: vis,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		seq:   s.next(),
		likes: make(map[string]bool),
	}
	w.XPEarned = workoutXP(w.Exercises, w.Duration)
	u.XP += w.XPEarned
	s.workouts[w.ID] = w
	return w.view(), nil
}

// UpdateWorkout applies the non-nil fields of in and re-awards XP.
func (s *Store) UpdateWorkout(userID, workoutID string, in liftapi.WorkoutUpdate) (liftapi.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[workoutID]
	if !ok {
		return liftapi.Workout{}, ErrNotFound
	}
	if w.UserID != userID {
		return liftapi.Workout{}, ErrForbidden
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return liftapi.Workout{}, ErrInvalid
		}
		w.Name = name
	}
	if in.Date != nil {
		w.Date = *in.Date
	}
	if in.Exercises != nil {
		w.Exercises = append([]liftapi.WorkoutExercise(nil), in.Exercises...)
	}
	if in.Duration != nil {
		w.Duration = *in.Duration
	}
	if in.Notes != nil {
		w.Notes = *in.Notes
	}
	if in.Visibility != nil {
		w.Visibility = *in.Visibility
	}
	xp := workoutXP(w.Exercises, w.Duration)
	if u, ok := s.users[userID]; ok {
		u.XP += xp - w.XPEarned
	}
	w.XPEarned = xp
	w.UpdatedAt = s.now()
	return w.view(), nil
}

func (s *Store) DeleteWorkout(userID, workoutID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[workoutID]
	if !ok {
		return ErrNotFound
	}
	if w.UserID != userID {
		return ErrForbidden
	}
	if u, ok := s.users[userID]; ok {
		u.XP -= w.XPEarned
	}
	for id, c := range s.comments {
		if c.workoutID == workoutID {
			delete(s.comments, id)
		}
	}
	delete(s.workouts, workoutID)
	return nil
}
